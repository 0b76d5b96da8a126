package repository

// Period is the logical step unit for forecast horizons.
type Period string

const (
	PeriodDay     Period = "day"
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
)

// IsValidPeriod returns true if p is a supported period unit.
func IsValidPeriod(p Period) bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodQuarter:
		return true
	default:
		return false
	}
}

// DefaultPeriod returns the default period unit.
func DefaultPeriod() Period { return PeriodMonth }

// NormalizePeriod converts raw string to a valid period (or default).
func NormalizePeriod(s string) Period {
	if s == "" {
		return DefaultPeriod()
	}
	p := Period(s)
	if IsValidPeriod(p) {
		return p
	}
	return DefaultPeriod()
}
