package usecase

import (
	"context"
	"time"

	"SalesPulse/internal/domain/models"
	drepo "SalesPulse/internal/domain/repository"
)

// SnapshotHistory reads archived forecasts back for the dashboard's
// accuracy comparison view.
type SnapshotHistory struct {
	store drepo.SnapshotStore
}

func NewSnapshotHistory(store drepo.SnapshotStore) *SnapshotHistory {
	return &SnapshotHistory{store: store}
}

// Recent returns snapshots for a pipeline within [from, to], newest
// generation first.
func (h *SnapshotHistory) Recent(ctx context.Context, pipeline string, from, to time.Time, limit int) ([]*models.ForecastSnapshot, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	return h.store.Query(ctx, pipeline, from, to, limit)
}
