package dsl

import (
	"encoding/json"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	formskema "github.com/reoring/formskema"
	"github.com/reoring/formskema/codec"
)

// ---------------- String ----------------

// StringSchema validates strings. Builder methods return a new schema.
type StringSchema struct {
	checks []check[string]
	trim   bool
	coerce bool
}

// String returns the minimal string schema implementation.
func String() StringSchema { return StringSchema{} }

func (StringSchema) Kind() NodeKind { return KindString }
func (StringSchema) sealed()        {}

func (s StringSchema) with(c check[string]) StringSchema {
	s.checks = appendCheck(s.checks, c)
	return s
}

// Coerce converts numbers, booleans and dates to their string form before
// validation.
func (s StringSchema) Coerce() StringSchema { s.coerce = true; return s }

// Trim strips surrounding whitespace before the constraints run; the trimmed
// value is the parsed result.
func (s StringSchema) Trim() StringSchema { s.trim = true; return s }

// Min requires at least n characters.
func (s StringSchema) Min(n int, msg ...string) StringSchema {
	return s.with(check[string]{code: formskema.CodeTooShort, msgKey: "too_short", params: map[string]any{"min": n}, custom: firstMsg(msg),
		ok: func(v string) bool { return utf8.RuneCountInString(v) >= n }})
}

// Max allows at most n characters.
func (s StringSchema) Max(n int, msg ...string) StringSchema {
	return s.with(check[string]{code: formskema.CodeTooLong, msgKey: "too_long", params: map[string]any{"max": n}, custom: firstMsg(msg),
		ok: func(v string) bool { return utf8.RuneCountInString(v) <= n }})
}

// Length requires exactly n characters.
func (s StringSchema) Length(n int, msg ...string) StringSchema {
	return s.Min(n, msg...).Max(n, msg...)
}

// NonEmpty is Min(1).
func (s StringSchema) NonEmpty(msg ...string) StringSchema { return s.Min(1, msg...) }

// Regex requires a match of re.
func (s StringSchema) Regex(re *regexp.Regexp, msg ...string) StringSchema {
	return s.with(check[string]{code: formskema.CodePattern, msgKey: "pattern", params: map[string]any{"pattern": re.String()}, custom: firstMsg(msg),
		ok: re.MatchString})
}

var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+\-']+@[A-Za-z0-9](?:[A-Za-z0-9\-]*[A-Za-z0-9])?(?:\.[A-Za-z0-9](?:[A-Za-z0-9\-]*[A-Za-z0-9])?)+$`)

// Email requires an address of the form local@domain.tld.
func (s StringSchema) Email(msg ...string) StringSchema {
	return s.with(check[string]{code: formskema.CodeInvalidFormat, msgKey: "invalid_format", params: map[string]any{"format": "email"}, custom: firstMsg(msg),
		ok: emailRe.MatchString})
}

// URL requires an absolute URL with scheme and host.
func (s StringSchema) URL(msg ...string) StringSchema {
	return s.with(check[string]{code: formskema.CodeInvalidFormat, msgKey: "invalid_format", params: map[string]any{"format": "url"}, custom: firstMsg(msg),
		ok: func(v string) bool {
			u, err := url.Parse(v)
			return err == nil && u.Scheme != "" && u.Host != ""
		}})
}

// StartsWith requires the given prefix.
func (s StringSchema) StartsWith(prefix string, msg ...string) StringSchema {
	return s.with(check[string]{code: formskema.CodeInvalidFormat, msgKey: "invalid_format", params: map[string]any{"format": "prefix", "prefix": prefix}, custom: firstMsg(msg),
		ok: func(v string) bool { return strings.HasPrefix(v, prefix) }})
}

// EndsWith requires the given suffix.
func (s StringSchema) EndsWith(suffix string, msg ...string) StringSchema {
	return s.with(check[string]{code: formskema.CodeInvalidFormat, msgKey: "invalid_format", params: map[string]any{"format": "suffix", "suffix": suffix}, custom: firstMsg(msg),
		ok: func(v string) bool { return strings.HasSuffix(v, suffix) }})
}

func (s StringSchema) validate(in any, path formskema.Path) (any, formskema.Issues) {
	if formskema.IsUndefined(in) {
		return nil, formskema.Issues{requiredIssue(path)}
	}
	str, ok := asString(in)
	if !ok && s.coerce {
		str, ok = coerceString(in)
	}
	if !ok {
		return nil, formskema.Issues{typeIssue(path, "string", in)}
	}
	if s.trim {
		str = strings.TrimSpace(str)
	}
	if iss := runChecks(s.checks, str, path); len(iss) > 0 {
		return nil, iss
	}
	return str, nil
}

// asString accepts string and named string types.
func asString(in any) (string, bool) {
	switch t := in.(type) {
	case string:
		return t, true
	case json.Number:
		return "", false
	}
	return reflectString(in)
}

func coerceString(in any) (string, bool) {
	switch t := in.(type) {
	case bool:
		return strconv.FormatBool(t), true
	case json.Number:
		return t.String(), true
	case time.Time:
		return codec.FormatDate(t), true
	}
	if f, ok := asFloat(in); ok {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	return "", false
}

// ---------------- Number ----------------

// NumberSchema validates numbers into float64.
type NumberSchema struct {
	checks  []check[float64]
	coerce  bool
	integer bool
}

// Number returns a number schema. Strings are rejected unless Coerce is set.
func Number() NumberSchema { return NumberSchema{} }

func (NumberSchema) Kind() NodeKind { return KindNumber }
func (NumberSchema) sealed()        {}

func (s NumberSchema) with(c check[float64]) NumberSchema {
	s.checks = appendCheck(s.checks, c)
	return s
}

// Coerce parses numeric strings. A string that does not parse, or parses to
// NaN, is a type mismatch rather than a constraint failure.
func (s NumberSchema) Coerce() NumberSchema { s.coerce = true; return s }

// Min (alias Gte) requires v >= n.
func (s NumberSchema) Min(n float64, msg ...string) NumberSchema {
	return s.with(check[float64]{code: formskema.CodeTooSmall, msgKey: "too_small", params: map[string]any{"min": n, "inclusive": true}, custom: firstMsg(msg),
		ok: func(v float64) bool { return v >= n }})
}

// Gte is an alias of Min.
func (s NumberSchema) Gte(n float64, msg ...string) NumberSchema { return s.Min(n, msg...) }

// Gt requires v > n.
func (s NumberSchema) Gt(n float64, msg ...string) NumberSchema {
	return s.with(check[float64]{code: formskema.CodeTooSmall, msgKey: "too_small_excl", params: map[string]any{"min": n, "inclusive": false}, custom: firstMsg(msg),
		ok: func(v float64) bool { return v > n }})
}

// Max (alias Lte) requires v <= n.
func (s NumberSchema) Max(n float64, msg ...string) NumberSchema {
	return s.with(check[float64]{code: formskema.CodeTooBig, msgKey: "too_big", params: map[string]any{"max": n, "inclusive": true}, custom: firstMsg(msg),
		ok: func(v float64) bool { return v <= n }})
}

// Lte is an alias of Max.
func (s NumberSchema) Lte(n float64, msg ...string) NumberSchema { return s.Max(n, msg...) }

// Lt requires v < n.
func (s NumberSchema) Lt(n float64, msg ...string) NumberSchema {
	return s.with(check[float64]{code: formskema.CodeTooBig, msgKey: "too_big_excl", params: map[string]any{"max": n, "inclusive": false}, custom: firstMsg(msg),
		ok: func(v float64) bool { return v < n }})
}

// Positive is Gt(0).
func (s NumberSchema) Positive(msg ...string) NumberSchema { return s.Gt(0, msg...) }

// NonNegative is Min(0).
func (s NumberSchema) NonNegative(msg ...string) NumberSchema { return s.Min(0, msg...) }

// Int requires an integral value; TypeOf reports such nodes as integers.
func (s NumberSchema) Int(msg ...string) NumberSchema {
	s = s.with(check[float64]{code: formskema.CodeNotInteger, msgKey: "not_integer", custom: firstMsg(msg),
		ok: func(v float64) bool { return !math.IsInf(v, 0) && v == math.Trunc(v) }})
	s.integer = true
	return s
}

// Finite rejects ±Inf.
func (s NumberSchema) Finite(msg ...string) NumberSchema {
	return s.with(check[float64]{code: formskema.CodeNotFinite, msgKey: "not_finite", custom: firstMsg(msg),
		ok: func(v float64) bool { return !math.IsInf(v, 0) }})
}

// MultipleOf requires v to be an integral multiple of step.
func (s NumberSchema) MultipleOf(step float64, msg ...string) NumberSchema {
	return s.with(check[float64]{code: formskema.CodeNotMultipleOf, msgKey: "not_multiple_of", params: map[string]any{"step": step}, custom: firstMsg(msg),
		ok: func(v float64) bool {
			if step == 0 {
				return false
			}
			q := v / step
			return math.Abs(q-math.Round(q)) < 1e-9
		}})
}

func (s NumberSchema) validate(in any, path formskema.Path) (any, formskema.Issues) {
	if formskema.IsUndefined(in) {
		return nil, formskema.Issues{requiredIssue(path)}
	}
	f, ok := asFloat(in)
	if !ok && s.coerce {
		f, ok = parseNumber(in)
	}
	if !ok || math.IsNaN(f) {
		return nil, formskema.Issues{typeIssue(path, "number", in)}
	}
	if iss := runChecks(s.checks, f, path); len(iss) > 0 {
		return nil, iss
	}
	return f, nil
}

// asFloat accepts Go numeric kinds and json.Number without coercion.
func asFloat(in any) (float64, bool) {
	switch t := in.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	}
	return 0, false
}

func parseNumber(in any) (float64, bool) {
	str, ok := asString(in)
	if !ok {
		return 0, false
	}
	str = strings.TrimSpace(str)
	if str == "" {
		return 0, false
	}
	return codec.ParseDecimal(str)
}

// ---------------- Bool ----------------

// BoolSchema validates booleans.
type BoolSchema struct{ coerce bool }

// Bool returns the minimal bool schema implementation.
func Bool() BoolSchema { return BoolSchema{} }

func (BoolSchema) Kind() NodeKind { return KindBool }
func (BoolSchema) sealed()        {}

// Coerce parses "true"/"false"/"1"/"0" style strings (form checkboxes).
func (s BoolSchema) Coerce() BoolSchema { s.coerce = true; return s }

func (s BoolSchema) validate(in any, path formskema.Path) (any, formskema.Issues) {
	if formskema.IsUndefined(in) {
		return nil, formskema.Issues{requiredIssue(path)}
	}
	if b, ok := in.(bool); ok {
		return b, nil
	}
	if s.coerce {
		if str, ok := asString(in); ok {
			if b, err := strconv.ParseBool(strings.TrimSpace(str)); err == nil {
				return b, nil
			}
		}
	}
	return nil, formskema.Issues{typeIssue(path, "boolean", in)}
}

// ---------------- Date ----------------

// DateSchema validates time.Time values.
type DateSchema struct {
	checks []check[time.Time]
	coerce bool
}

// Date returns a date schema. Strings are rejected unless Coerce is set.
func Date() DateSchema { return DateSchema{} }

func (DateSchema) Kind() NodeKind { return KindDate }
func (DateSchema) sealed()        {}

func (s DateSchema) with(c check[time.Time]) DateSchema {
	s.checks = appendCheck(s.checks, c)
	return s
}

// Coerce parses RFC 3339 / date-only strings and epoch milliseconds.
func (s DateSchema) Coerce() DateSchema { s.coerce = true; return s }

// Min requires an instant at or after t.
func (s DateSchema) Min(t time.Time, msg ...string) DateSchema {
	return s.with(check[time.Time]{code: formskema.CodeTooSmall, msgKey: "date_too_early", params: map[string]any{"min": t}, custom: firstMsg(msg),
		ok: func(v time.Time) bool { return !v.Before(t) }})
}

// Max requires an instant at or before t.
func (s DateSchema) Max(t time.Time, msg ...string) DateSchema {
	return s.with(check[time.Time]{code: formskema.CodeTooBig, msgKey: "date_too_late", params: map[string]any{"max": t}, custom: firstMsg(msg),
		ok: func(v time.Time) bool { return !v.After(t) }})
}

func (s DateSchema) validate(in any, path formskema.Path) (any, formskema.Issues) {
	if formskema.IsUndefined(in) {
		return nil, formskema.Issues{requiredIssue(path)}
	}
	var (
		t  time.Time
		ok bool
	)
	switch v := in.(type) {
	case time.Time:
		t, ok = v, true
	case *time.Time:
		if v != nil {
			t, ok = *v, true
		}
	default:
		if s.coerce {
			t, ok = coerceDate(in)
		}
	}
	if !ok {
		return nil, formskema.Issues{typeIssue(path, "date", in)}
	}
	if iss := runChecks(s.checks, t, path); len(iss) > 0 {
		return nil, iss
	}
	return t, nil
}

func coerceDate(in any) (time.Time, bool) {
	if str, ok := asString(in); ok {
		t, err := codec.ParseDate(strings.TrimSpace(str))
		return t, err == nil
	}
	if f, ok := asFloat(in); ok {
		return codec.EpochMillis(f)
	}
	return time.Time{}, false
}
