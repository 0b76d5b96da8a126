package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SalesPulse/internal/domain/models"
)

func TestScenariosScaleExactly(t *testing.T) {
	base := []models.ForecastPoint{
		{Value: 100, Lower: 80, Upper: 120},
		{Value: 200, Lower: 150, Upper: 250},
	}

	scenarios := Scenarios(base, []models.ScenarioSpec{{Name: "aggressive", GrowthFactor: 1.5}})
	require.Len(t, scenarios, 1)
	sc := scenarios[0]
	assert.Equal(t, "aggressive", sc.Name)
	assert.Equal(t, 1.5, sc.GrowthFactor)
	require.Len(t, sc.Forecast, 2)
	assert.Equal(t, 150.0, sc.Forecast[0].Value)
	assert.Equal(t, 120.0, sc.Forecast[0].Lower)
	assert.Equal(t, 180.0, sc.Forecast[0].Upper)
	assert.Equal(t, 300.0, sc.Forecast[1].Value)
}

func TestScenariosDefaults(t *testing.T) {
	base := []models.ForecastPoint{{Value: 100, Lower: 90, Upper: 110}}

	scenarios := Scenarios(base, nil)
	require.Len(t, scenarios, 3)
	assert.Equal(t, "optimistic", scenarios[0].Name)
	assert.Equal(t, "realistic", scenarios[1].Name)
	assert.Equal(t, "pessimistic", scenarios[2].Name)
	assert.InDelta(t, 120.0, scenarios[0].Forecast[0].Value, 1e-9)
	assert.Equal(t, 100.0, scenarios[1].Forecast[0].Value)
	assert.InDelta(t, 80.0, scenarios[2].Forecast[0].Value, 1e-9)
}

func TestScenariosPreserveCallerOrder(t *testing.T) {
	base := []models.ForecastPoint{{Value: 10}}
	specs := []models.ScenarioSpec{
		{Name: "worst", GrowthFactor: 0.5},
		{Name: "best", GrowthFactor: 2.0},
	}

	scenarios := Scenarios(base, specs)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "worst", scenarios[0].Name)
	assert.Equal(t, "best", scenarios[1].Name)
	// base forecast must not be mutated
	assert.Equal(t, 10.0, base[0].Value)
}
