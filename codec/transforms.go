package codec

import (
	"encoding/json"
	"strings"
	"time"

	formskema "github.com/reoring/formskema"
)

// The transforms below are meant for dsl.Preprocess. Each is total: inputs it
// does not recognise are returned unchanged so the wrapped schema reports the
// mismatch.

// Date turns date strings and epoch milliseconds into time.Time. Blank strings
// become formskema.Undefined so optional date inputs may be left empty.
func Date(v any) any {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return formskema.Undefined
		}
		if d, err := ParseDate(s); err == nil {
			return d
		}
		return v
	case *time.Time:
		if t == nil {
			return nil
		}
		return *t
	case json.Number:
		if n, err := t.Int64(); err == nil {
			if d, ok := EpochMillis(float64(n)); ok {
				return d
			}
		}
		return v
	case int64:
		if d, ok := EpochMillis(float64(t)); ok {
			return d
		}
		return v
	case float64:
		if d, ok := EpochMillis(t); ok {
			return d
		}
		return v
	}
	return v
}

// Number turns numeric strings into float64. Blank strings become
// formskema.Undefined; unparsable strings pass through unchanged.
func Number(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return formskema.Undefined
	}
	f, ok := ParseDecimal(s)
	if !ok {
		return v
	}
	return f
}

// EmptyAsUndefined maps "" (after trimming) to formskema.Undefined.
func EmptyAsUndefined(v any) any {
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return formskema.Undefined
	}
	return v
}

// TrimSpace trims string inputs.
func TrimSpace(v any) any {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return v
}

// Chain composes transforms left to right.
func Chain(fns ...func(any) any) func(any) any {
	return func(v any) any {
		for _, f := range fns {
			v = f(v)
		}
		return v
	}
}
