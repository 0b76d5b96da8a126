package forecast

import "SalesPulse/internal/domain/models"

// DefaultScenarios is the comparison set used when the caller supplies
// none: a 20% upside, the base case, and a 20% downside.
func DefaultScenarios() []models.ScenarioSpec {
	return []models.ScenarioSpec{
		{Name: "optimistic", GrowthFactor: 1.2},
		{Name: "realistic", GrowthFactor: 1.0},
		{Name: "pessimistic", GrowthFactor: 0.8},
	}
}

// Scenarios multiplies every point of the base forecast by each spec's
// growth factor, scaling value, lower, and upper together. Spec order
// is preserved; an empty spec list falls back to DefaultScenarios.
func Scenarios(base []models.ForecastPoint, specs []models.ScenarioSpec) []models.Scenario {
	if len(specs) == 0 {
		specs = DefaultScenarios()
	}

	out := make([]models.Scenario, len(specs))
	for i, spec := range specs {
		points := make([]models.ForecastPoint, len(base))
		for j, p := range base {
			p.Value *= spec.GrowthFactor
			p.Lower *= spec.GrowthFactor
			p.Upper *= spec.GrowthFactor
			points[j] = p
		}
		out[i] = models.Scenario{
			Name:         spec.Name,
			GrowthFactor: spec.GrowthFactor,
			Forecast:     points,
		}
	}
	return out
}
