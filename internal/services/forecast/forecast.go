package forecast

import (
	"fmt"
	"time"

	"SalesPulse/internal/domain/models"
	"SalesPulse/internal/domain/repository"
	"SalesPulse/pkg/util"
)

// Forecast method names, used for tagging output points and for
// selecting methods in ensemble configuration.
const (
	MethodMovingAverage = "moving_average"
	MethodExponential   = "exponential_smoothing"
	MethodLinear        = "linear_regression"
	MethodSeasonal      = "seasonal"
	MethodWeighted      = "weighted_average"
	MethodEnsemble      = "ensemble"
)

// Config carries the per-method parameters for a forecast run. Zero
// fields are resolved to defaults once, at the entry point, so the
// individual methods never re-apply defaulting.
type Config struct {
	// Periods is the number of future points to project.
	Periods int
	// Window is the moving-average window size.
	Window int
	// Alpha is the exponential smoothing factor, in (0, 1].
	Alpha float64
	// SeasonLength is the cycle length for seasonal decomposition.
	SeasonLength int
	// Weights are the weighted-average coefficients, ordered
	// most-recent-first. They need not sum to 1.
	Weights []float64
	// Unit is the logical step between forecast points.
	Unit repository.Period
}

func (c Config) withDefaults() Config {
	if c.Periods <= 0 {
		c.Periods = 3
	}
	if c.Window <= 0 {
		c.Window = 3
	}
	if c.Alpha <= 0 {
		c.Alpha = 0.3
	}
	if c.SeasonLength <= 0 {
		c.SeasonLength = 12
	}
	if len(c.Weights) == 0 {
		c.Weights = []float64{0.5, 0.3, 0.2}
	}
	c.Unit = repository.NormalizePeriod(string(c.Unit))
	return c
}

// Run dispatches to a single forecast method by name.
func Run(s models.Series, method string, cfg Config) ([]models.ForecastPoint, error) {
	switch method {
	case MethodMovingAverage:
		return MovingAverage(s, cfg)
	case MethodExponential:
		return ExponentialSmoothing(s, cfg)
	case MethodLinear:
		return Linear(s, cfg)
	case MethodSeasonal:
		return Seasonal(s, cfg)
	case MethodWeighted:
		return WeightedAverage(s, cfg)
	default:
		return nil, fmt.Errorf("forecast: unknown method %q", method)
	}
}

// futureTime returns the timestamp for the step-th forecast point
// (1-based), or nil when the series carries no timestamps.
func futureTime(s models.Series, unit repository.Period, step int) *time.Time {
	if !s.Timed || s.Len() == 0 {
		return nil
	}
	ts := util.AddPeriods(s.Points[s.Len()-1].Timestamp, step, string(unit))
	return &ts
}

// repeatValue builds a flat forecast, one identical point per period.
func repeatValue(s models.Series, cfg Config, method string, value float64) []models.ForecastPoint {
	points := make([]models.ForecastPoint, cfg.Periods)
	for i := range points {
		points[i] = models.ForecastPoint{
			Timestamp: futureTime(s, cfg.Unit, i+1),
			Value:     value,
			Method:    method,
		}
	}
	return points
}
