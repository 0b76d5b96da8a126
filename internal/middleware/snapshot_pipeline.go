package middleware

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"SalesPulse/internal/domain/models"
	domrepo "SalesPulse/internal/domain/repository"
	"SalesPulse/internal/service/ratelimit"
)

// Archiver is the minimal downstream interface the pipeline needs.
type Archiver interface {
	Archive(ctx context.Context, s *models.ForecastSnapshot) error
}

// SnapshotPipeline sits between forecast generation and the archive
// sinks. It validates, throttles per pipeline, and buffers snapshots
// when the downstream sink is unavailable, flushing with backoff.
//
// The throttle is a token bucket per pipeline: burst capacity admits a
// whole forecast's steps in one go, maxRPS bounds the sustained rate
// across repeated generations.
type SnapshotPipeline struct {
	arch    Archiver
	metrics domrepo.Metrics
	maxRPS  int
	burst   int
	bufSize int
	bufCh   chan *models.ForecastSnapshot
	stopCh  chan struct{}
	started bool
	mu      sync.Mutex
	limiter *ratelimit.Limiter

	bufDepthGauge func(int)
	throttleWarn  func(string)
}

type PipelineOption func(*SnapshotPipeline)

// WithMaxRPS sets the sustained snapshots per second per pipeline.
func WithMaxRPS(n int) PipelineOption {
	return func(p *SnapshotPipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// WithBurst sets the per-pipeline bucket capacity. It must be at least
// the longest forecast horizon, otherwise the tail steps of one
// generation get shed.
func WithBurst(n int) PipelineOption {
	return func(p *SnapshotPipeline) {
		if n > 0 {
			p.burst = n
		}
	}
}

// WithBufferSize sets the temporary buffer size when downstream is unavailable.
func WithBufferSize(n int) PipelineOption {
	return func(p *SnapshotPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// NewSnapshotPipeline creates a new pipeline.
func NewSnapshotPipeline(arch Archiver, metrics domrepo.Metrics, opts ...PipelineOption) *SnapshotPipeline {
	p := &SnapshotPipeline{
		arch:    arch,
		metrics: metrics,
		maxRPS:  20,
		burst:   64,
		bufSize: 1000,
		bufCh:   make(chan *models.ForecastSnapshot, 1000),
		stopCh:  make(chan struct{}),
		limiter: ratelimit.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufSize != cap(p.bufCh) {
		p.bufCh = make(chan *models.ForecastSnapshot, p.bufSize)
	}
	p.bufDepthGauge = func(n int) { p.metrics.RecordLatency("pipeline_buffer_depth", float64(n)) }
	p.throttleWarn = func(pl string) { p.metrics.RecordError("pipeline_throttle_" + pl) }
	return p
}

// Start launches background flushing of buffered snapshots.
func (p *SnapshotPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case s := <-p.bufCh:
				if s == nil {
					continue
				}
				if err := p.arch.Archive(ctx, s); err != nil {
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("pipeline_flush")
					time.Sleep(backoff)
					// requeue if space; drop otherwise
					select {
					case p.bufCh <- s:
					default:
						p.metrics.RecordError("pipeline_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing.
func (p *SnapshotPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates, throttles, and forwards a snapshot downstream,
// buffering on errors.
func (p *SnapshotPipeline) Process(ctx context.Context, s *models.ForecastSnapshot) error {
	start := time.Now()
	if err := validateSnapshot(s); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if !p.allow(s.Pipeline) {
		// throttled; record and drop silently
		p.metrics.RecordError("pipeline_throttle")
		if p.throttleWarn != nil {
			p.throttleWarn(s.Pipeline)
		}
		return nil
	}

	if err := p.arch.Archive(ctx, s); err != nil {
		p.metrics.RecordError("pipeline_archive")
		// buffer non-blocking
		select {
		case p.bufCh <- s:
			if p.bufDepthGauge != nil {
				p.bufDepthGauge(len(p.bufCh))
			}
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}

func validateSnapshot(s *models.ForecastSnapshot) error {
	if s == nil {
		return fmt.Errorf("snapshot nil")
	}
	if s.Pipeline == "" {
		return fmt.Errorf("pipeline empty")
	}
	if s.ForecastID == "" {
		return fmt.Errorf("forecast id empty")
	}
	if s.Step < 1 {
		return fmt.Errorf("step must be 1-based")
	}
	if math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
		return fmt.Errorf("value not finite")
	}
	if s.Upper != 0 && (s.Lower > s.Value || s.Value > s.Upper) {
		return fmt.Errorf("bounds do not contain value")
	}
	return nil
}

func (p *SnapshotPipeline) allow(pipeline string) bool {
	if p.maxRPS <= 0 {
		return true
	}
	return p.limiter.Allow(pipeline, float64(p.burst), float64(p.maxRPS))
}
