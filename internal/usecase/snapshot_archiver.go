package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"SalesPulse/internal/domain/models"
	drepo "SalesPulse/internal/domain/repository"
	"SalesPulse/pkg/logger"
)

// SnapshotArchiver routes forecast snapshots to the configured archive
// backend, batching writes by size and age so per-request forecasts
// don't turn into per-row ClickHouse inserts.
type SnapshotArchiver struct {
	pub     drepo.Publisher
	store   drepo.SnapshotStore
	metrics drepo.Metrics
	backend string
	batchSz int
	batchTO time.Duration
	log     *logger.Logger

	mu      sync.Mutex
	buf     []*models.ForecastSnapshot
	stopCh  chan struct{}
	started bool
}

// NewSnapshotArchiver creates a new SnapshotArchiver instance.
func NewSnapshotArchiver(
	pub drepo.Publisher,
	store drepo.SnapshotStore,
	metrics drepo.Metrics,
	backend string,
	batchSz int,
	batchTO time.Duration,
	log *logger.Logger,
) *SnapshotArchiver {
	if backend == "" {
		backend = "clickhouse"
	}
	if batchSz <= 0 {
		batchSz = 100
	}
	if batchTO <= 0 {
		batchTO = 5 * time.Second
	}
	return &SnapshotArchiver{
		pub:     pub,
		store:   store,
		metrics: metrics,
		backend: backend,
		batchSz: batchSz,
		batchTO: batchTO,
		log:     log,
		buf:     make([]*models.ForecastSnapshot, 0, batchSz),
		stopCh:  make(chan struct{}),
	}
}

// Start launches the age-based flusher. Size-based flushes happen
// inline in Archive.
func (a *SnapshotArchiver) Start(ctx context.Context) {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return
	}
	a.started = true
	a.mu.Unlock()

	go func() {
		ticker := time.NewTicker(a.batchTO)
		defer ticker.Stop()
		for {
			select {
			case <-a.stopCh:
				return
			case <-ticker.C:
				if err := a.Flush(ctx); err != nil {
					a.metrics.RecordError("archive_flush")
					a.log.Error("snapshot flush failed", logger.Error(err))
				}
			}
		}
	}()
}

// Archive buffers one snapshot, flushing when the batch is full.
func (a *SnapshotArchiver) Archive(ctx context.Context, s *models.ForecastSnapshot) error {
	if s == nil {
		return fmt.Errorf("snapshot is nil")
	}

	a.mu.Lock()
	a.buf = append(a.buf, s)
	full := len(a.buf) >= a.batchSz
	a.mu.Unlock()

	if full {
		return a.Flush(ctx)
	}
	return nil
}

// Flush writes the buffered snapshots to the backend.
func (a *SnapshotArchiver) Flush(ctx context.Context) error {
	a.mu.Lock()
	if len(a.buf) == 0 {
		a.mu.Unlock()
		return nil
	}
	batch := a.buf
	a.buf = make([]*models.ForecastSnapshot, 0, a.batchSz)
	a.mu.Unlock()

	return a.archiveBatch(ctx, batch)
}

func (a *SnapshotArchiver) archiveBatch(ctx context.Context, snapshots []*models.ForecastSnapshot) error {
	start := time.Now()
	var err error

	switch a.backend {
	case "kafka":
		err = a.pub.PublishBatch(ctx, snapshots)
	case "clickhouse":
		err = a.store.StoreBatch(ctx, snapshots)
	default:
		err = fmt.Errorf("unknown backend: %s", a.backend)
	}

	if err != nil {
		a.metrics.RecordError("archive_batch")
		return fmt.Errorf("archive batch: %w", err)
	}

	for _, s := range snapshots {
		a.metrics.RecordSnapshotSent(a.backend, s.Pipeline)
	}
	a.metrics.RecordLatency("archive_batch", time.Since(start).Seconds())
	return nil
}

// Close flushes what's left and closes the underlying sinks.
func (a *SnapshotArchiver) Close() {
	a.mu.Lock()
	if a.started {
		a.started = false
		close(a.stopCh)
	}
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Flush(ctx); err != nil {
		a.log.Error("final snapshot flush failed", logger.Error(err))
	}

	if a.pub != nil {
		_ = a.pub.Close()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
}
