package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"SalesPulse/internal/domain/models"
	drepo "SalesPulse/internal/domain/repository"
	mid "SalesPulse/internal/middleware"
	"SalesPulse/internal/services/forecast"
	"SalesPulse/internal/services/trend"
	"SalesPulse/pkg/logger"
)

// Forecaster is the orchestration entry point for forecast and scenario
// requests: it builds the series, runs the ensemble, attaches intervals,
// and hands the resulting snapshots to the archive pipeline.
type Forecaster struct {
	builder *SeriesBuilder
	pipe    *mid.SnapshotPipeline
	metrics drepo.Metrics
	log     *logger.Logger
}

func NewForecaster(builder *SeriesBuilder, pipe *mid.SnapshotPipeline, metrics drepo.Metrics, log *logger.Logger) *Forecaster {
	return &Forecaster{builder: builder, pipe: pipe, metrics: metrics, log: log}
}

// Generate produces an ensemble forecast with confidence intervals. The
// envelope never escapes a panic or an error: failures come back as
// {success: false, error}.
func (f *Forecaster) Generate(ctx context.Context, req models.ForecastRequest) (env *models.ForecastEnvelope) {
	defer func() {
		if r := recover(); r != nil {
			f.metrics.RecordError("forecast_panic")
			f.log.Error("forecast panicked",
				logger.String("pipeline", req.Pipeline),
				logger.Any("panic", r))
			env = &models.ForecastEnvelope{Success: false, Error: "internal forecast failure"}
		}
	}()

	start := time.Now()
	s, err := f.builder.DailySeries(ctx, req.Pipeline, req.Days)
	if err != nil {
		f.metrics.RecordError("forecast_fetch")
		return &models.ForecastEnvelope{Success: false, Error: err.Error()}
	}

	cfg := forecast.Config{
		Periods:      req.Periods,
		Window:       req.Window,
		Alpha:        req.Alpha,
		SeasonLength: req.SeasonLength,
		Unit:         drepo.NormalizePeriod(req.Unit),
	}
	points, err := forecast.Ensemble(s, cfg, selectWeights(req.Methods, req.Weights))
	if err != nil {
		f.metrics.RecordError("forecast_compute")
		return &models.ForecastEnvelope{Success: false, Error: err.Error()}
	}
	points = forecast.WithIntervals(s, points, req.Confidence)

	result := &models.ForecastResult{
		ID:          newForecastID(),
		Pipeline:    req.Pipeline,
		GeneratedAt: time.Now().UTC(),
		Model:       forecast.MethodEnsemble,
		DataPoints:  s.Len(),
		Points:      points,
	}
	// best-effort fit metadata; a short series just leaves the zero fit
	if reg, rerr := trend.LinearRegression(s); rerr == nil || errors.Is(rerr, trend.ErrInsufficientData) {
		result.Slope = reg.Slope
		result.Intercept = reg.Intercept
	}

	f.archive(ctx, result)

	if n := len(points); n > 0 {
		f.metrics.RecordPipelineValue(req.Pipeline, points[n-1].Value)
	}
	f.metrics.RecordLatency("forecast_generate", time.Since(start).Seconds())
	return &models.ForecastEnvelope{Success: true, Forecast: result}
}

// Scenarios wraps a base ensemble forecast with the requested growth
// variants.
func (f *Forecaster) Scenarios(ctx context.Context, req models.ScenarioRequest) (env *models.ScenarioEnvelope) {
	defer func() {
		if r := recover(); r != nil {
			f.metrics.RecordError("scenario_panic")
			f.log.Error("scenario generation panicked",
				logger.String("pipeline", req.Pipeline),
				logger.Any("panic", r))
			env = &models.ScenarioEnvelope{Success: false, Error: "internal forecast failure"}
		}
	}()

	start := time.Now()
	s, err := f.builder.DailySeries(ctx, req.Pipeline, req.Days)
	if err != nil {
		f.metrics.RecordError("scenario_fetch")
		return &models.ScenarioEnvelope{Success: false, Error: err.Error()}
	}

	cfg := forecast.Config{
		Periods: req.Periods,
		Unit:    drepo.NormalizePeriod(req.Unit),
	}
	points, err := forecast.Ensemble(s, cfg, nil)
	if err != nil {
		f.metrics.RecordError("scenario_compute")
		return &models.ScenarioEnvelope{Success: false, Error: err.Error()}
	}
	points = forecast.WithIntervals(s, points, req.Confidence)

	scenarios := forecast.Scenarios(points, req.Scenarios)
	f.metrics.RecordLatency("scenario_generate", time.Since(start).Seconds())
	return &models.ScenarioEnvelope{Success: true, Scenarios: scenarios}
}

// archive feeds the forecast's snapshots through the pipeline. Archive
// failures are buffered downstream, so they only get logged here.
func (f *Forecaster) archive(ctx context.Context, result *models.ForecastResult) {
	if f.pipe == nil {
		return
	}
	for i, p := range result.Points {
		snap := &models.ForecastSnapshot{
			ForecastID:  result.ID,
			Pipeline:    result.Pipeline,
			GeneratedAt: result.GeneratedAt,
			Method:      p.Method,
			Step:        i + 1,
			Value:       p.Value,
			Lower:       p.Lower,
			Upper:       p.Upper,
			Confidence:  p.Confidence,
		}
		if err := f.pipe.Process(ctx, snap); err != nil {
			f.log.Warn("snapshot archive deferred",
				logger.String("pipeline", result.Pipeline),
				logger.Int("step", snap.Step),
				logger.Error(err))
		}
	}
}

// selectWeights builds the ensemble weight map from the request:
// Methods narrows the enabled set, Weights overrides the blend weight
// per method. With neither present, nil lets the defaults apply.
// Unknown method names simply contribute nothing; request validation
// rejects those upstream.
func selectWeights(methods []string, overrides map[string]float64) forecast.EnsembleWeights {
	if len(methods) == 0 && len(overrides) == 0 {
		return nil
	}
	defaults := forecast.DefaultEnsembleWeights()

	enabled := methods
	if len(enabled) == 0 {
		enabled = make([]string, 0, len(overrides))
		for m := range overrides {
			enabled = append(enabled, m)
		}
	}

	selected := make(forecast.EnsembleWeights, len(enabled))
	for _, m := range enabled {
		w, ok := defaults[m]
		if !ok {
			continue
		}
		if ov, found := overrides[m]; found {
			w = ov
		}
		selected[m] = w
	}
	return selected
}

func newForecastID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("forecast-%s-%08d", time.Now().UTC().Format("20060102"), time.Now().UnixNano()%1e8)
	}
	return fmt.Sprintf("forecast-%s-%s", time.Now().UTC().Format("20060102"), hex.EncodeToString(b))
}
