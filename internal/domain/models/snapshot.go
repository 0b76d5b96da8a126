package models

import "time"

// ForecastSnapshot is a computed forecast frozen at generation time, kept
// for dashboard history. One row per (pipeline, generation, horizon step).
type ForecastSnapshot struct {
	ForecastID  string    `json:"forecast_id"`
	Pipeline    string    `json:"pipeline"`
	GeneratedAt time.Time `json:"generated_at"`
	Method      string    `json:"method"`
	Step        int       `json:"step"` // 1-based horizon step
	Value       float64   `json:"value"`
	Lower       float64   `json:"lower"`
	Upper       float64   `json:"upper"`
	Confidence  float64   `json:"confidence"`
}

// ForecastResult is the orchestration-level output: an identified forecast
// with generation metadata alongside the projected points.
type ForecastResult struct {
	ID          string          `json:"forecast_id"`
	Pipeline    string          `json:"pipeline"`
	GeneratedAt time.Time       `json:"generated_at"`
	Model       string          `json:"model"`
	Slope       float64         `json:"slope"`
	Intercept   float64         `json:"intercept"`
	DataPoints  int             `json:"data_points"`
	Points      []ForecastPoint `json:"points"`
}

// ForecastEnvelope is the boundary response shape for forecast requests.
type ForecastEnvelope struct {
	Success  bool            `json:"success"`
	Forecast *ForecastResult `json:"forecast,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// ScenarioEnvelope is the boundary response shape for scenario requests.
type ScenarioEnvelope struct {
	Success   bool       `json:"success"`
	Scenarios []Scenario `json:"scenarios,omitempty"`
	Error     string     `json:"error,omitempty"`
}
