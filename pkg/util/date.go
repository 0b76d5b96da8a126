package util

import (
	"strconv"
	"time"
)

// ParseTime tries RFC3339, RFC3339Nano, date-only (2006-01-02), US-style
// dates, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse("01/02/2006", s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// AddPeriods advances t by n logical periods of the given unit.
// Supported units: "day", "week", "month", "quarter". Unknown units fall
// back to months, the reporting default for pipeline forecasts.
func AddPeriods(t time.Time, n int, unit string) time.Time {
	switch unit {
	case "day":
		return t.AddDate(0, 0, n)
	case "week":
		return t.AddDate(0, 0, 7*n)
	case "quarter":
		return t.AddDate(0, 3*n, 0)
	default:
		return t.AddDate(0, n, 0)
	}
}

// DaysSince returns the elapsed time from base to t in days.
func DaysSince(base, t time.Time) float64 {
	return t.Sub(base).Hours() / 24
}
