package models

// Requests for forecast HTTP endpoints. Defined in domain for consistency and reuse.

type TrendRequest struct {
	Pipeline string  `query:"pipeline" json:"pipeline" validate:"required"`
	Window   int     `query:"window" json:"window" default:"3" validate:"gte=1,lte=60"`
	Alpha    float64 `query:"alpha" json:"alpha" default:"0.3" validate:"gt=0,lte=1"`
	Days     int     `query:"days" json:"days" default:"90" validate:"gte=7,lte=730"`
}

type SeasonalRequest struct {
	Pipeline string `query:"pipeline" json:"pipeline" validate:"required"`
	Period   int    `query:"period" json:"period" default:"12" validate:"gte=2,lte=52"`
	Days     int    `query:"days" json:"days" default:"180" validate:"gte=7,lte=730"`
}

type OutlierRequest struct {
	Pipeline  string  `query:"pipeline" json:"pipeline" validate:"required"`
	Threshold float64 `query:"threshold" json:"threshold" default:"2.0" validate:"gt=0,lte=10"`
	Days      int     `query:"days" json:"days" default:"90" validate:"gte=7,lte=730"`
}

type GrowthRequest struct {
	Pipeline string `query:"pipeline" json:"pipeline" validate:"required"`
	Days     int    `query:"days" json:"days" default:"90" validate:"gte=7,lte=730"`
}

type ForecastRequest struct {
	Pipeline     string   `query:"pipeline" json:"pipeline" validate:"required"`
	Periods      int      `query:"periods" json:"periods" default:"3" validate:"gte=1,lte=24"`
	Window       int      `query:"window" json:"window" default:"3" validate:"gte=1,lte=60"`
	Alpha        float64  `query:"alpha" json:"alpha" default:"0.3" validate:"gt=0,lte=1"`
	SeasonLength int      `query:"season_length" json:"season_length" default:"12" validate:"gte=2,lte=52"`
	Confidence   float64  `query:"confidence" json:"confidence" default:"0.95" validate:"gt=0,lt=1"`
	Unit         string   `query:"unit" json:"unit" default:"month" validate:"oneof=day week month quarter"`
	Days         int      `query:"days" json:"days" default:"180" validate:"gte=7,lte=730"`
	Methods      []string `query:"methods" json:"methods" validate:"omitempty,dive,oneof=moving_average exponential_smoothing linear_regression seasonal weighted_average"`
	// Weights overrides the blend weight per method; methods left out
	// keep their defaults.
	Weights map[string]float64 `json:"weights" validate:"omitempty,dive,keys,oneof=moving_average exponential_smoothing linear_regression seasonal weighted_average,endkeys,gte=0"`
}

type ScenarioRequest struct {
	Pipeline     string         `query:"pipeline" json:"pipeline" validate:"required"`
	Periods      int            `query:"periods" json:"periods" default:"3" validate:"gte=1,lte=24"`
	Confidence   float64        `query:"confidence" json:"confidence" default:"0.95" validate:"gt=0,lt=1"`
	Unit         string         `query:"unit" json:"unit" default:"month" validate:"oneof=day week month quarter"`
	Days         int            `query:"days" json:"days" default:"180" validate:"gte=7,lte=730"`
	Scenarios    []ScenarioSpec `json:"scenarios" validate:"omitempty,dive"`
}
