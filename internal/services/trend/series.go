package trend

import (
	"sort"
	"strconv"
	"time"

	"SalesPulse/internal/domain/models"
	"SalesPulse/pkg/util"
)

// NormalizeConfig names the record fields a raw collection keys its
// values and timestamps under.
type NormalizeConfig struct {
	ValueField string // default "amount"
	TimeField  string // default "date"; empty disables time extraction
}

func (c NormalizeConfig) withDefaults() NormalizeConfig {
	if c.ValueField == "" {
		c.ValueField = "amount"
	}
	if c.TimeField == "" {
		c.TimeField = "date"
	}
	return c
}

// Normalize turns a heterogeneous collection (maps or bare numbers) into
// an ordered Series. Unparseable values coerce to 0 rather than dropping
// the point. When every record carries a parseable timestamp the series
// is sorted ascending by it; otherwise insertion order is kept and the
// series is untimed. Empty input returns ErrInsufficientData.
func Normalize(records []interface{}, cfg NormalizeConfig) (models.Series, error) {
	if len(records) == 0 {
		return models.Series{}, ErrInsufficientData
	}
	cfg = cfg.withDefaults()

	points := make([]models.Observation, 0, len(records))
	timed := true
	for _, rec := range records {
		switch r := rec.(type) {
		case map[string]interface{}:
			obs := models.Observation{Value: coerceValue(r[cfg.ValueField])}
			if ts, ok := coerceTime(r[cfg.TimeField]); ok {
				obs.Timestamp = ts
				obs.HasTime = true
			} else {
				timed = false
			}
			points = append(points, obs)
		default:
			// bare number, no timestamp
			points = append(points, models.Observation{Value: coerceValue(rec)})
			timed = false
		}
	}

	if timed {
		sort.SliceStable(points, func(i, j int) bool {
			return points[i].Timestamp.Before(points[j].Timestamp)
		})
	}

	return models.Series{Points: points, Timed: timed}, nil
}

// FromValues builds an untimed series from raw values.
func FromValues(values []float64) models.Series {
	points := make([]models.Observation, len(values))
	for i, v := range values {
		points[i] = models.Observation{Value: v}
	}
	return models.Series{Points: points}
}

// FromTimedValues builds a timed series; values and times must be the
// same length and times already ascending.
func FromTimedValues(times []time.Time, values []float64) models.Series {
	points := make([]models.Observation, len(values))
	for i, v := range values {
		points[i] = models.Observation{Timestamp: times[i], HasTime: true, Value: v}
	}
	return models.Series{Points: points, Timed: true}
}

func coerceValue(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func coerceTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		return util.ParseTime(t)
	case float64:
		if t > 0 {
			return time.Unix(int64(t), 0), true
		}
		return time.Time{}, false
	case int64:
		if t > 0 {
			return time.Unix(t, 0), true
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// XCoords returns the implicit x-axis of a series: elapsed days since the
// first timestamp when timed, integer index otherwise.
func XCoords(s models.Series) []float64 {
	xs := make([]float64, s.Len())
	if !s.Timed || s.Len() == 0 {
		for i := range xs {
			xs[i] = float64(i)
		}
		return xs
	}
	base := s.Points[0].Timestamp
	for i, p := range s.Points {
		xs[i] = util.DaysSince(base, p.Timestamp)
	}
	return xs
}
