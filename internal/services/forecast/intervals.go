package forecast

import (
	"SalesPulse/internal/domain/models"
	"SalesPulse/internal/services/trend"
)

// zScore resolves a confidence level against the fixed three-level
// table. Unrecognized levels deliberately fall back to the 95% z-score
// rather than failing, so a slightly off caller value still yields a
// usable band.
func zScore(confidence float64) float64 {
	switch confidence {
	case 0.90:
		return 1.645
	case 0.95:
		return 1.96
	case 0.99:
		return 2.576
	default:
		return 1.96
	}
}

// WithIntervals attaches confidence bounds to a forecast, derived from
// the raw series' standard deviation. The margin at step i (0-indexed)
// is z*stdDev*(1 + 0.1*i), widening with the horizon. The lower bound
// is floored at zero: pipeline values are currency amounts, which
// cannot go negative, so the clamp is a domain rule rather than a
// statistical one.
func WithIntervals(s models.Series, points []models.ForecastPoint, confidence float64) []models.ForecastPoint {
	if len(points) == 0 {
		return points
	}

	values := s.Values()
	std := trend.StdDev(values)
	z := zScore(confidence)

	out := make([]models.ForecastPoint, len(points))
	for i, p := range points {
		margin := z * std * (1 + 0.1*float64(i))
		lower := p.Value - margin
		if lower < 0 {
			lower = 0
		}
		p.Lower = lower
		p.Upper = p.Value + margin
		p.Confidence = confidence
		out[i] = p
	}
	return out
}
