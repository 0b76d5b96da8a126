package models

import "time"

// Observation is a single numeric point in a pipeline series.
type Observation struct {
	Timestamp time.Time
	HasTime   bool
	Value     float64
}

// Series is an ordered sequence of observations. When Timed is true every
// point carries a timestamp and the sequence is sorted ascending by it;
// otherwise insertion order is chronological order.
type Series struct {
	Points []Observation
	Timed  bool
}

// Len returns the number of observations.
func (s Series) Len() int { return len(s.Points) }

// Values returns the raw values in series order.
func (s Series) Values() []float64 {
	vals := make([]float64, len(s.Points))
	for i, p := range s.Points {
		vals[i] = p.Value
	}
	return vals
}

// Last returns the final observation. Callers must check Len first.
func (s Series) Last() Observation {
	return s.Points[len(s.Points)-1]
}

// TrendResult holds an ordinary-least-squares fit over the series'
// implicit x-axis (days since first point, or index when untimed).
type TrendResult struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	R2        float64 `json:"r2"`
}

// SeasonalProfile is one multiplicative index per position in a cycle.
// The arithmetic mean of a valid profile is approximately 1.0.
type SeasonalProfile []float64

// Mean returns the arithmetic mean of the profile.
func (p SeasonalProfile) Mean() float64 {
	if len(p) == 0 {
		return 0
	}
	var sum float64
	for _, v := range p {
		sum += v
	}
	return sum / float64(len(p))
}

// ForecastPoint is a projected value for one future period.
// Lower/Upper/Confidence are populated by the interval estimator;
// Components holds per-method raw values when the point came from an
// ensemble blend.
type ForecastPoint struct {
	Timestamp  *time.Time         `json:"timestamp,omitempty"`
	Value      float64            `json:"value"`
	Method     string             `json:"method"`
	Lower      float64            `json:"lower,omitempty"`
	Upper      float64            `json:"upper,omitempty"`
	Confidence float64            `json:"confidence,omitempty"`
	Components map[string]float64 `json:"components,omitempty"`
}

// Scenario is a named multiplicative variant of a base forecast.
type Scenario struct {
	Name         string          `json:"name"`
	GrowthFactor float64         `json:"growth_factor"`
	Forecast     []ForecastPoint `json:"forecast"`
}

// ScenarioSpec names a growth multiplier requested by the caller.
type ScenarioSpec struct {
	Name         string  `json:"name" validate:"required"`
	GrowthFactor float64 `json:"growth_factor" validate:"gt=0"`
}
