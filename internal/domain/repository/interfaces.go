package repository

import (
	"context"
	"time"

	"SalesPulse/internal/domain/models"
)

type DealSource interface {
	FetchDeals(ctx context.Context, pipeline string, from, to time.Time) ([]*models.Deal, error)
	Pipelines(ctx context.Context) ([]string, error)
	Health(ctx context.Context) error
}

type Publisher interface {
	Publish(ctx context.Context, s *models.ForecastSnapshot) error
	PublishBatch(ctx context.Context, snapshots []*models.ForecastSnapshot) error
	Close() error
}

type SnapshotStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, s *models.ForecastSnapshot) error
	StoreBatch(ctx context.Context, snapshots []*models.ForecastSnapshot) error
	Query(ctx context.Context, pipeline string, from, to time.Time, limit int) ([]*models.ForecastSnapshot, error)
	Health(ctx context.Context) error // ping
	Close() error
}

type Metrics interface {
	RecordSnapshotSent(sink, pipeline string)
	RecordError(kind string)
	RecordPipelineValue(pipeline string, value float64)
	RecordLatency(op string, seconds float64)
}
