package codec

import (
	"math"
	"regexp"
	"strconv"
	"time"
)

// decimalRe is the plain decimal grammar a form field may hold. Go literal
// forms accepted by strconv ("1_000", "0x1p4", "Inf") are excluded.
var decimalRe = regexp.MustCompile(`^[+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)

// ParseDecimal parses s as a finite decimal number. s must already be
// trimmed.
func ParseDecimal(s string) (float64, bool) {
	if !decimalRe.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// maxEpochMillis is the largest magnitude a JavaScript Date accepts.
const maxEpochMillis = 8.64e15

// EpochMillis converts milliseconds since the Unix epoch to a UTC time.
// Non-finite values and values outside ±8.64e15 are rejected.
func EpochMillis(ms float64) (time.Time, bool) {
	if math.IsNaN(ms) || ms < -maxEpochMillis || ms > maxEpochMillis {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).UTC(), true
}
