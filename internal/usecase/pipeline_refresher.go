package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"SalesPulse/internal/domain/models"
	drepo "SalesPulse/internal/domain/repository"
	mid "SalesPulse/internal/middleware"
	"SalesPulse/pkg/logger"
)

// PipelineRefresher keeps forecast snapshots warm: on a fixed interval
// it re-pulls every pipeline's deals and regenerates the ensemble
// forecast, so the dashboard's history view doesn't depend on user
// traffic.
type PipelineRefresher struct {
	source     drepo.DealSource
	builder    *SeriesBuilder
	forecaster *Forecaster
	metrics    drepo.Metrics
	pipe       *mid.SnapshotPipeline
	interval   time.Duration
	days       int
	log        *logger.Logger

	mu      sync.Mutex
	stopCh  chan struct{}
	started bool
}

// NewPipelineRefresher creates a new PipelineRefresher instance.
func NewPipelineRefresher(
	source drepo.DealSource,
	builder *SeriesBuilder,
	forecaster *Forecaster,
	metrics drepo.Metrics,
	pipe *mid.SnapshotPipeline,
	interval time.Duration,
	days int,
	log *logger.Logger,
) *PipelineRefresher {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	if days <= 0 {
		days = 180
	}
	return &PipelineRefresher{
		source:     source,
		builder:    builder,
		forecaster: forecaster,
		metrics:    metrics,
		pipe:       pipe,
		interval:   interval,
		days:       days,
		log:        log,
		stopCh:     make(chan struct{}),
	}
}

// Start verifies the deal source and launches the refresh loop.
func (r *PipelineRefresher) Start(ctx context.Context) error {
	if err := r.source.Health(ctx); err != nil {
		return fmt.Errorf("deal source unhealthy: %w", err)
	}
	if r.pipe != nil {
		r.pipe.Start(ctx)
	}

	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return nil
	}
	r.started = true
	r.mu.Unlock()

	go r.loop(ctx)
	return nil
}

func (r *PipelineRefresher) loop(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	// one immediate pass so a fresh deploy has history right away
	r.refreshAll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.refreshAll(ctx)
		}
	}
}

func (r *PipelineRefresher) refreshAll(ctx context.Context) {
	pipelines, err := r.source.Pipelines(ctx)
	if err != nil {
		r.metrics.RecordError("refresh_pipelines")
		r.log.Error("listing pipelines failed", logger.Error(err))
		return
	}
	for _, pl := range pipelines {
		if err := r.RefreshPipeline(ctx, pl); err != nil {
			r.metrics.RecordError("refresh")
			r.log.Error("pipeline refresh failed",
				logger.String("pipeline", pl),
				logger.Error(err))
		}
	}
}

// RefreshPipeline drops the cached series and regenerates the forecast
// for one pipeline. Also invoked by the queue worker when CRM change
// events arrive.
func (r *PipelineRefresher) RefreshPipeline(ctx context.Context, pipeline string) error {
	start := time.Now()
	if err := r.builder.Invalidate(ctx, pipeline); err != nil {
		r.log.Warn("series invalidation failed",
			logger.String("pipeline", pipeline),
			logger.Error(err))
	}

	// Confidence is explicit: the interval math would fall back to 95%
	// anyway, but persisted snapshots record this value verbatim.
	env := r.forecaster.Generate(ctx, models.ForecastRequest{
		Pipeline:   pipeline,
		Days:       r.days,
		Confidence: 0.95,
	})
	if !env.Success {
		return fmt.Errorf("refresh %s: %s", pipeline, env.Error)
	}

	r.metrics.RecordLatency("refresh_pipeline", time.Since(start).Seconds())
	r.log.Info("pipeline refreshed",
		logger.String("pipeline", pipeline),
		logger.String("forecast_id", env.Forecast.ID),
		logger.Int("points", len(env.Forecast.Points)))
	return nil
}

// Shutdown stops the loop and the snapshot pipeline.
func (r *PipelineRefresher) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	if r.started {
		r.started = false
		close(r.stopCh)
	}
	r.mu.Unlock()

	if r.pipe != nil {
		r.pipe.Stop()
	}
	return nil
}
