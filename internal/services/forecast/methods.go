package forecast

import (
	"fmt"

	"SalesPulse/internal/domain/models"
	"SalesPulse/internal/services/trend"
)

// MovingAverage projects the last moving-average value flat over the
// horizon. Requires at least Window points.
func MovingAverage(s models.Series, cfg Config) ([]models.ForecastPoint, error) {
	cfg = cfg.withDefaults()

	ma, err := trend.MovingAverage(s, cfg.Window)
	if err != nil {
		return nil, err
	}
	return repeatValue(s, cfg, MethodMovingAverage, ma.Last().Value), nil
}

// ExponentialSmoothing projects the last EMA value flat over the
// horizon. Requires at least one point.
func ExponentialSmoothing(s models.Series, cfg Config) ([]models.ForecastPoint, error) {
	cfg = cfg.withDefaults()

	ema, err := trend.EMA(s, cfg.Alpha)
	if err != nil {
		return nil, err
	}
	return repeatValue(s, cfg, MethodExponential, ema.Last().Value), nil
}

// Linear evaluates the fitted OLS line at strictly increasing future
// x-coordinates, one step per period. Requires at least two points.
func Linear(s models.Series, cfg Config) ([]models.ForecastPoint, error) {
	cfg = cfg.withDefaults()

	tr, err := trend.LinearRegression(s)
	if err != nil {
		return nil, err
	}

	lastX, stepX := futureStep(s)
	points := make([]models.ForecastPoint, cfg.Periods)
	for i := range points {
		x := lastX + stepX*float64(i+1)
		points[i] = models.ForecastPoint{
			Timestamp: futureTime(s, cfg.Unit, i+1),
			Value:     tr.Intercept + tr.Slope*x,
			Method:    MethodLinear,
		}
	}
	return points, nil
}

// Seasonal multiplies the OLS trend projection by the seasonal index
// for each future cycle position. Requires two full cycles of data.
func Seasonal(s models.Series, cfg Config) ([]models.ForecastPoint, error) {
	cfg = cfg.withDefaults()

	profile, err := trend.SeasonalIndices(s, cfg.SeasonLength)
	if err != nil {
		return nil, err
	}
	tr, err := trend.LinearRegression(s)
	if err != nil {
		return nil, err
	}

	n := s.Len()
	lastX, stepX := futureStep(s)
	points := make([]models.ForecastPoint, cfg.Periods)
	for i := range points {
		x := lastX + stepX*float64(i+1)
		idx := profile[(n+i)%cfg.SeasonLength]
		points[i] = models.ForecastPoint{
			Timestamp: futureTime(s, cfg.Unit, i+1),
			Value:     (tr.Intercept + tr.Slope*x) * idx,
			Method:    MethodSeasonal,
		}
	}
	return points, nil
}

// WeightedAverage blends the most recent values with the configured
// most-recent-first weights, normalized by their sum, and projects the
// result flat. Requires at least len(weights) points.
func WeightedAverage(s models.Series, cfg Config) ([]models.ForecastPoint, error) {
	cfg = cfg.withDefaults()

	var weightSum float64
	for _, w := range cfg.Weights {
		if w < 0 {
			return nil, fmt.Errorf("weighted average: negative weight %v", w)
		}
		weightSum += w
	}
	if weightSum == 0 {
		return nil, fmt.Errorf("weighted average: weights sum to zero")
	}
	if s.Len() < len(cfg.Weights) {
		return nil, trend.ErrInsufficientData
	}

	n := s.Len()
	var value float64
	for j, w := range cfg.Weights {
		value += w * s.Points[n-1-j].Value
	}
	value /= weightSum

	return repeatValue(s, cfg, MethodWeighted, value), nil
}

// futureStep returns the last historical x-coordinate and the per-period
// x increment. Timed series step by their mean historical spacing so the
// projection continues at the observed cadence; untimed series step by 1.
func futureStep(s models.Series) (lastX, stepX float64) {
	xs := trend.XCoords(s)
	n := len(xs)
	if n == 0 {
		return 0, 1
	}
	lastX = xs[n-1]
	stepX = 1
	if s.Timed && n > 1 && lastX > xs[0] {
		stepX = (lastX - xs[0]) / float64(n-1)
	}
	return lastX, stepX
}
