package codec

import (
	"errors"
	"time"
)

// ErrInvalidDate is returned by ParseDate for inputs in none of the accepted
// layouts.
var ErrInvalidDate = errors.New("codec: invalid date")

// dateLayouts are tried in order. Date-only and minute-precision layouts are
// what HTML date and datetime-local inputs submit.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// ParseDate parses RFC 3339 timestamps and the form-input layouts. Inputs
// without a zone are interpreted as UTC.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// FormatDate renders t the way JavaScript's Date.prototype.toISOString does:
// UTC with millisecond precision.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// FormatDateOnly renders the calendar date of t in UTC (YYYY-MM-DD).
func FormatDateOnly(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}
