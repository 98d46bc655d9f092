package dsl

import (
	"errors"
	"fmt"
	"reflect"

	formskema "github.com/reoring/formskema"
	"github.com/reoring/formskema/i18n"
)

// ErrInvalidEnum is returned by NewEnum and the enum derivations.
var ErrInvalidEnum = errors.New("dsl: invalid enum")

// EnumSchema accepts exactly one of an ordered set of string literals.
type EnumSchema struct {
	values []string
	custom string
}

// NewEnum builds an enum; empty and duplicate value lists are rejected.
func NewEnum(values ...string) (EnumSchema, error) {
	if len(values) == 0 {
		return EnumSchema{}, fmt.Errorf("%w: no values", ErrInvalidEnum)
	}
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			return EnumSchema{}, fmt.Errorf("%w: duplicate value %q", ErrInvalidEnum, v)
		}
		seen[v] = struct{}{}
	}
	return EnumSchema{values: append([]string(nil), values...)}, nil
}

// Enum is like NewEnum but panics on error.
func Enum(values ...string) EnumSchema {
	e, err := NewEnum(values...)
	if err != nil {
		panic(err)
	}
	return e
}

// EnumOf builds an enum from a named string type.
func EnumOf[T ~string](values ...T) EnumSchema {
	vs := make([]string, len(values))
	for i, v := range values {
		vs[i] = string(v)
	}
	return Enum(vs...)
}

func (EnumSchema) Kind() NodeKind { return KindEnum }
func (EnumSchema) sealed()        {}

// Message overrides the invalid_enum message.
func (e EnumSchema) Message(msg string) EnumSchema { e.custom = msg; return e }

// Values returns the allowed literals in declaration order.
func (e EnumSchema) Values() []string { return append([]string(nil), e.values...) }

// Contains reports whether v is an allowed literal.
func (e EnumSchema) Contains(v string) bool {
	for _, x := range e.values {
		if x == v {
			return true
		}
	}
	return false
}

// Option is a label/value pair for select inputs.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Options lists the allowed values as select options. A nil label function
// uses the value as its own label.
func (e EnumSchema) Options(label func(string) string) []Option {
	out := make([]Option, len(e.values))
	for i, v := range e.values {
		l := v
		if label != nil {
			l = label(v)
		}
		out[i] = Option{Label: l, Value: v}
	}
	return out
}

// Extract returns a new enum restricted to the given values.
func (e EnumSchema) Extract(values ...string) (EnumSchema, error) {
	for _, v := range values {
		if !e.Contains(v) {
			return EnumSchema{}, fmt.Errorf("%w: %q is not a member", ErrInvalidEnum, v)
		}
	}
	out, err := NewEnum(values...)
	if err != nil {
		return EnumSchema{}, err
	}
	out.custom = e.custom
	return out, nil
}

// Exclude returns a new enum without the given values.
func (e EnumSchema) Exclude(values ...string) (EnumSchema, error) {
	drop := make(map[string]struct{}, len(values))
	for _, v := range values {
		if !e.Contains(v) {
			return EnumSchema{}, fmt.Errorf("%w: %q is not a member", ErrInvalidEnum, v)
		}
		drop[v] = struct{}{}
	}
	var keep []string
	for _, v := range e.values {
		if _, ok := drop[v]; !ok {
			keep = append(keep, v)
		}
	}
	out, err := NewEnum(keep...)
	if err != nil {
		return EnumSchema{}, err
	}
	out.custom = e.custom
	return out, nil
}

func (e EnumSchema) validate(in any, path formskema.Path) (any, formskema.Issues) {
	if formskema.IsUndefined(in) {
		return nil, formskema.Issues{requiredIssue(path)}
	}
	if s, ok := asString(in); ok && e.Contains(s) {
		return s, nil
	}
	params := map[string]any{"options": e.Values(), "received": fmt.Sprint(in)}
	msg := e.custom
	if msg == "" {
		msg = i18n.T(formskema.CodeInvalidEnum, stringParams(params))
	}
	return nil, formskema.Issues{{Path: path, Code: formskema.CodeInvalidEnum, Message: msg, Params: params}}
}

// reflectString accepts named string types other than the ones handled by
// asString's type switch.
func reflectString(in any) (string, bool) {
	if in == nil {
		return "", false
	}
	rv := reflect.ValueOf(in)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}
