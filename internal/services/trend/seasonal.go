package trend

import (
	"fmt"

	"SalesPulse/internal/domain/models"
)

// SeasonalIndices extracts one multiplicative index per cycle position by
// averaging actual/trend ratios across the cycle, then dividing by the
// profile mean so the result averages to 1.0. Requires at least two full
// cycles of data. Positions with no usable samples get an index of 1.
func SeasonalIndices(s models.Series, period int) (models.SeasonalProfile, error) {
	if period < 2 {
		return nil, fmt.Errorf("seasonal indices: period must be >= 2, got %d", period)
	}
	if s.Len() < 2*period {
		return nil, ErrInsufficientData
	}

	tr, err := LinearRegression(s)
	if err != nil {
		return nil, err
	}

	xs := XCoords(s)
	sums := make([]float64, period)
	counts := make([]int, period)
	for i, p := range s.Points {
		baseline := tr.Intercept + tr.Slope*xs[i]
		if baseline <= 0 {
			// ratio against a non-positive trend value is meaningless
			continue
		}
		pos := i % period
		sums[pos] += p.Value / baseline
		counts[pos]++
	}

	profile := make(models.SeasonalProfile, period)
	for p := 0; p < period; p++ {
		if counts[p] == 0 {
			profile[p] = 1
			continue
		}
		profile[p] = sums[p] / float64(counts[p])
	}

	// renormalize so the profile mean is exactly 1
	if m := profile.Mean(); m > 0 {
		for p := range profile {
			profile[p] /= m
		}
	}

	return profile, nil
}
