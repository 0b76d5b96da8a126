package trend

import (
	"fmt"
	"math"

	"SalesPulse/internal/domain/models"
)

// Outliers flags indices whose z-score against the series mean exceeds
// threshold. The z-score convention is used (not IQR): |v - mean| / stddev.
// A constant series has zero spread and yields no outliers.
func Outliers(s models.Series, threshold float64) ([]int, error) {
	if threshold <= 0 {
		return nil, fmt.Errorf("outliers: threshold must be > 0, got %v", threshold)
	}
	if s.Len() == 0 {
		return nil, ErrInsufficientData
	}

	values := s.Values()
	mean := Mean(values)
	std := StdDev(values)
	if std == 0 {
		return nil, nil
	}

	var flagged []int
	for i, v := range values {
		if math.Abs(v-mean)/std > threshold {
			flagged = append(flagged, i)
		}
	}
	return flagged, nil
}
