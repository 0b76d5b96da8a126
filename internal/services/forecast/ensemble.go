package forecast

import (
	"errors"
	"sort"

	"SalesPulse/internal/domain/models"
	"SalesPulse/internal/services/trend"
)

// EnsembleWeights maps method names to non-negative blend weights.
// Weights need not sum to 1; they are renormalized over whichever
// methods turn out to have enough data.
type EnsembleWeights map[string]float64

// DefaultEnsembleWeights favors the regression-based methods, which
// track direction, over the flat smoothers.
func DefaultEnsembleWeights() EnsembleWeights {
	return EnsembleWeights{
		MethodLinear:        0.30,
		MethodExponential:   0.25,
		MethodMovingAverage: 0.20,
		MethodSeasonal:      0.15,
		MethodWeighted:      0.10,
	}
}

// Ensemble runs every configured method whose data precondition holds
// and blends the results, renormalizing weights over the active subset.
// A method short on data is skipped silently; any other method failure
// aborts the run. With zero active methods every step's value is 0.
// Each point retains the contributing methods' raw values in Components.
func Ensemble(s models.Series, cfg Config, weights EnsembleWeights) ([]models.ForecastPoint, error) {
	cfg = cfg.withDefaults()
	if len(weights) == 0 {
		weights = DefaultEnsembleWeights()
	}

	// deterministic method order keeps Components/log output stable
	methods := make([]string, 0, len(weights))
	for m := range weights {
		methods = append(methods, m)
	}
	sort.Strings(methods)

	type contribution struct {
		method string
		weight float64
		points []models.ForecastPoint
	}
	active := make([]contribution, 0, len(methods))
	var totalWeight float64

	for _, m := range methods {
		w := weights[m]
		if w <= 0 {
			continue
		}
		points, err := Run(s, m, cfg)
		if err != nil {
			if errors.Is(err, trend.ErrInsufficientData) {
				continue
			}
			return nil, err
		}
		active = append(active, contribution{method: m, weight: w, points: points})
		totalWeight += w
	}

	out := make([]models.ForecastPoint, cfg.Periods)
	for i := range out {
		out[i] = models.ForecastPoint{
			Timestamp:  futureTime(s, cfg.Unit, i+1),
			Method:     MethodEnsemble,
			Components: make(map[string]float64, len(active)),
		}
	}
	if totalWeight == 0 {
		return out, nil
	}

	for _, c := range active {
		share := c.weight / totalWeight
		for i := range out {
			out[i].Value += share * c.points[i].Value
			out[i].Components[c.method] = c.points[i].Value
		}
	}
	return out, nil
}
