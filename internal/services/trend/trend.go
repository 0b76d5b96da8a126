package trend

import (
	"fmt"

	"SalesPulse/internal/domain/models"
)

// MovingAverage smooths the series with a trailing window. Output length
// is len-window+1; each output point's timestamp is the last raw point
// covered by its window.
func MovingAverage(s models.Series, window int) (models.Series, error) {
	if window < 1 {
		return models.Series{}, fmt.Errorf("moving average: window must be >= 1, got %d", window)
	}
	if s.Len() < window {
		return models.Series{}, ErrInsufficientData
	}

	out := make([]models.Observation, 0, s.Len()-window+1)
	var sum float64
	for i, p := range s.Points {
		sum += p.Value
		if i >= window {
			sum -= s.Points[i-window].Value
		}
		if i >= window-1 {
			out = append(out, models.Observation{
				Timestamp: p.Timestamp,
				HasTime:   p.HasTime,
				Value:     sum / float64(window),
			})
		}
	}
	return models.Series{Points: out, Timed: s.Timed}, nil
}

// EMA computes an exponential moving average seeded with the first raw
// value. Output length equals input length.
func EMA(s models.Series, alpha float64) (models.Series, error) {
	if alpha <= 0 || alpha > 1 {
		return models.Series{}, fmt.Errorf("ema: alpha must be in (0, 1], got %v", alpha)
	}
	if s.Len() == 0 {
		return models.Series{}, ErrInsufficientData
	}

	out := make([]models.Observation, s.Len())
	prev := s.Points[0].Value
	for i, p := range s.Points {
		if i > 0 {
			prev = alpha*p.Value + (1-alpha)*prev
		}
		out[i] = models.Observation{
			Timestamp: p.Timestamp,
			HasTime:   p.HasTime,
			Value:     prev,
		}
	}
	return models.Series{Points: out, Timed: s.Timed}, nil
}

// LinearRegression fits an ordinary-least-squares line over the series'
// implicit x-axis (days since first point, or index when untimed).
// Fewer than two points returns a zero result with ErrInsufficientData.
func LinearRegression(s models.Series) (models.TrendResult, error) {
	if s.Len() < 2 {
		return models.TrendResult{}, ErrInsufficientData
	}

	xs := XCoords(s)
	n := float64(s.Len())

	var sumX, sumY, sumXY, sumXX float64
	for i, p := range s.Points {
		sumX += xs[i]
		sumY += p.Value
		sumXY += xs[i] * p.Value
		sumXX += xs[i] * xs[i]
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		// degenerate x-axis (all points at the same instant)
		return models.TrendResult{Intercept: sumY / n}, nil
	}

	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssTot, ssRes float64
	for i, p := range s.Points {
		fit := intercept + slope*xs[i]
		ssTot += (p.Value - meanY) * (p.Value - meanY)
		ssRes += (p.Value - fit) * (p.Value - fit)
	}
	r2 := 0.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}

	return models.TrendResult{Slope: slope, Intercept: intercept, R2: r2}, nil
}
