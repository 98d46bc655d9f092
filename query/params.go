// Package query adapts URL query parameters to schema input and serialises
// validated records back into query strings.
package query

import (
	"net/url"

	formskema "github.com/reoring/formskema"
)

// Params is a read-only view of query parameters.
type Params struct {
	values url.Values
}

// FromValues wraps v.
func FromValues(v url.Values) Params { return Params{values: v} }

// Parse parses a raw query string ("a=1&b=2", with or without leading "?").
func Parse(raw string) (Params, error) {
	if len(raw) > 0 && raw[0] == '?' {
		raw = raw[1:]
	}
	v, err := url.ParseQuery(raw)
	if err != nil {
		return Params{}, err
	}
	return Params{values: v}, nil
}

// Values returns a copy of the underlying values.
func (p Params) Values() url.Values {
	out := make(url.Values, len(p.values))
	for k, vs := range p.values {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// Has reports whether key is present, even with an empty value.
func (p Params) Has(key string) bool { return p.values.Has(key) }

// Value returns the first value for key with transform applied, or
// formskema.Undefined when the key is missing. A nil transform returns the raw
// string.
func (p Params) Value(key string, transform func(any) any) any {
	vs, ok := p.values[key]
	if !ok || len(vs) == 0 {
		return formskema.Undefined
	}
	var v any = vs[0]
	if transform != nil {
		v = transform(v)
	}
	return v
}

// All returns every value for key as []any, or formskema.Undefined.
func (p Params) All(key string) any {
	vs, ok := p.values[key]
	if !ok {
		return formskema.Undefined
	}
	out := make([]any, len(vs))
	for i, s := range vs {
		out[i] = s
	}
	return out
}

// Record builds a raw record for the given keys. Missing keys are left out so
// the object schema sees them as absent.
func (p Params) Record(keys ...string) map[string]any {
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		v := p.Value(k, nil)
		if formskema.IsUndefined(v) {
			continue
		}
		out[k] = v
	}
	return out
}

// RecordWith is like Record but applies a per-key transform (for example
// codec.Date for date inputs). Keys without a transform are passed raw.
func (p Params) RecordWith(transforms map[string]func(any) any, keys ...string) map[string]any {
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		v := p.Value(k, transforms[k])
		if formskema.IsUndefined(v) {
			continue
		}
		out[k] = v
	}
	return out
}
