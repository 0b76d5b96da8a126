package trend

import "SalesPulse/internal/domain/models"

// GrowthRates returns period-over-period relative changes, one per point
// after the first. A zero previous value yields a rate of 0 rather than
// Inf or NaN.
func GrowthRates(s models.Series) ([]float64, error) {
	if s.Len() < 2 {
		return nil, ErrInsufficientData
	}

	rates := make([]float64, 0, s.Len()-1)
	for i := 1; i < s.Len(); i++ {
		prev := s.Points[i-1].Value
		if prev == 0 {
			rates = append(rates, 0)
			continue
		}
		rates = append(rates, (s.Points[i].Value-prev)/prev)
	}
	return rates, nil
}

// CumulativeSum returns the running total; the first element equals the
// first value. Empty input yields an empty result.
func CumulativeSum(s models.Series) []float64 {
	out := make([]float64, s.Len())
	var sum float64
	for i, p := range s.Points {
		sum += p.Value
		out[i] = sum
	}
	return out
}
