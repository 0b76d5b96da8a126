package usecase

import (
	"context"

	"SalesPulse/internal/domain/models"
	"SalesPulse/internal/services/trend"
)

// TrendAnalysis is the combined smoothing/regression view for one
// pipeline, consumed directly by the dashboard's trend chart.
type TrendAnalysis struct {
	Pipeline      string             `json:"pipeline"`
	DataPoints    int                `json:"data_points"`
	MovingAverage []float64          `json:"moving_average"`
	EMA           []float64          `json:"ema"`
	Regression    models.TrendResult `json:"regression"`
	GrowthRates   []float64          `json:"growth_rates"`
	Cumulative    []float64          `json:"cumulative"`
}

type SeasonalAnalysis struct {
	Pipeline string    `json:"pipeline"`
	Period   int       `json:"period"`
	Indices  []float64 `json:"indices"`
}

type OutlierAnalysis struct {
	Pipeline  string    `json:"pipeline"`
	Threshold float64   `json:"threshold"`
	Indices   []int     `json:"indices"`
	Values    []float64 `json:"values"`
}

type GrowthAnalysis struct {
	Pipeline   string    `json:"pipeline"`
	Rates      []float64 `json:"rates"`
	Cumulative []float64 `json:"cumulative"`
}

// TrendAnalyzer answers the read-only analysis endpoints over a
// pipeline's daily series.
type TrendAnalyzer struct {
	builder *SeriesBuilder
}

func NewTrendAnalyzer(builder *SeriesBuilder) *TrendAnalyzer {
	return &TrendAnalyzer{builder: builder}
}

// AnalyzeTrend computes the smoothed views and the OLS fit in one pass.
// The growth and cumulative sequences ride along because the dashboard
// renders them on the same chart.
func (a *TrendAnalyzer) AnalyzeTrend(ctx context.Context, req models.TrendRequest) (*TrendAnalysis, error) {
	s, err := a.builder.DailySeries(ctx, req.Pipeline, req.Days)
	if err != nil {
		return nil, err
	}

	ma, err := trend.MovingAverage(s, req.Window)
	if err != nil {
		return nil, err
	}
	ema, err := trend.EMA(s, req.Alpha)
	if err != nil {
		return nil, err
	}
	reg, err := trend.LinearRegression(s)
	if err != nil {
		return nil, err
	}
	rates, err := trend.GrowthRates(s)
	if err != nil {
		return nil, err
	}

	return &TrendAnalysis{
		Pipeline:      req.Pipeline,
		DataPoints:    s.Len(),
		MovingAverage: ma.Values(),
		EMA:           ema.Values(),
		Regression:    reg,
		GrowthRates:   rates,
		Cumulative:    trend.CumulativeSum(s),
	}, nil
}

func (a *TrendAnalyzer) AnalyzeSeasonal(ctx context.Context, req models.SeasonalRequest) (*SeasonalAnalysis, error) {
	s, err := a.builder.DailySeries(ctx, req.Pipeline, req.Days)
	if err != nil {
		return nil, err
	}
	profile, err := trend.SeasonalIndices(s, req.Period)
	if err != nil {
		return nil, err
	}
	return &SeasonalAnalysis{
		Pipeline: req.Pipeline,
		Period:   req.Period,
		Indices:  profile,
	}, nil
}

func (a *TrendAnalyzer) AnalyzeOutliers(ctx context.Context, req models.OutlierRequest) (*OutlierAnalysis, error) {
	s, err := a.builder.DailySeries(ctx, req.Pipeline, req.Days)
	if err != nil {
		return nil, err
	}
	indices, err := trend.Outliers(s, req.Threshold)
	if err != nil {
		return nil, err
	}
	values := make([]float64, len(indices))
	for i, idx := range indices {
		values[i] = s.Points[idx].Value
	}
	return &OutlierAnalysis{
		Pipeline:  req.Pipeline,
		Threshold: req.Threshold,
		Indices:   indices,
		Values:    values,
	}, nil
}

func (a *TrendAnalyzer) AnalyzeGrowth(ctx context.Context, req models.GrowthRequest) (*GrowthAnalysis, error) {
	s, err := a.builder.DailySeries(ctx, req.Pipeline, req.Days)
	if err != nil {
		return nil, err
	}
	rates, err := trend.GrowthRates(s)
	if err != nil {
		return nil, err
	}
	return &GrowthAnalysis{
		Pipeline:   req.Pipeline,
		Rates:      rates,
		Cumulative: trend.CumulativeSum(s),
	}, nil
}
