package dsl

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	formskema "github.com/reoring/formskema"
)

// ErrTypeMismatch is returned by Bind when the Go type does not match the
// type derived from the schema.
var ErrTypeMismatch = errors.New("dsl: Go type does not match schema")

var timeType = reflect.TypeOf(time.Time{})

// Typed binds a node to a Go type T whose shape was verified against
// TypeOf(node) at construction time.
type Typed[T any] struct {
	node Node
	typ  Type
	rt   reflect.Type
}

var _ formskema.Schema[struct{}] = (*Typed[struct{}])(nil)

// Bind verifies that T matches the output type of n and returns a typed
// schema. Objects map to structs (keys resolved by formskema/json tags) or to
// map[string]any; optional and nullable values map to pointers, slices, maps
// or interfaces; integer Go kinds require Number().Int().
func Bind[T any](n Node) (*Typed[T], error) {
	n = mustNode(n)
	rt := reflect.TypeOf((*T)(nil)).Elem()
	t := TypeOf(n)
	if err := checkGoType(t, rt, "$"); err != nil {
		return nil, err
	}
	return &Typed[T]{node: n, typ: t, rt: rt}, nil
}

// MustBind is like Bind but panics on error.
func MustBind[T any](n Node) *Typed[T] {
	s, err := Bind[T](n)
	if err != nil {
		panic(err)
	}
	return s
}

// Node returns the underlying schema node.
func (s *Typed[T]) Node() Node { return s.node }

// Type returns the derived output type.
func (s *Typed[T]) Type() Type { return s.typ }

// Parse validates v and decodes it into T. Panics from transforms or
// refinements propagate.
func (s *Typed[T]) Parse(ctx context.Context, v any) (T, error) {
	var out T
	val, err := Parse(ctx, s.node, v)
	if err != nil {
		return out, err
	}
	if err := assign(reflect.ValueOf(&out).Elem(), val); err != nil {
		return out, formskema.Issues{{Code: formskema.CodeInternal, Message: err.Error(), Cause: err}}
	}
	return out, nil
}

// SafeParse validates v and decodes it into T without panicking.
func (s *Typed[T]) SafeParse(ctx context.Context, v any) formskema.Result[T] {
	r := SafeParse(ctx, s.node, v)
	val, ok := r.Value()
	if !ok {
		return formskema.Failure[T](r.Issues())
	}
	var out T
	if err := assign(reflect.ValueOf(&out).Elem(), val); err != nil {
		return formskema.Failure[T](formskema.Issues{{Code: formskema.CodeInternal, Message: err.Error(), Cause: err}})
	}
	return formskema.Success(out)
}

func mismatch(where string, format string, a ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrTypeMismatch, where, fmt.Sprintf(format, a...))
}

func isAnyInterface(rt reflect.Type) bool {
	return rt.Kind() == reflect.Interface && rt.NumMethod() == 0
}

func checkGoType(t Type, rt reflect.Type, where string) error {
	if isAnyInterface(rt) {
		return nil
	}
	if t.Optional || t.Nullable {
		inner := t
		inner.Optional, inner.Nullable = false, false
		switch rt.Kind() {
		case reflect.Pointer:
			return checkGoType(inner, rt.Elem(), where)
		case reflect.Slice, reflect.Map:
			return checkGoType(inner, rt, where)
		}
		return mismatch(where, "%s may be absent or null; use a pointer, got %s", t, rt)
	}
	if rt.Kind() == reflect.Pointer {
		return mismatch(where, "%s is always present; got pointer %s", t, rt)
	}
	switch t.Kind {
	case TypeString, TypeEnum:
		if rt.Kind() != reflect.String {
			return mismatch(where, "expected a string kind for %s, got %s", t, rt)
		}
	case TypeNumber:
		if rt.Kind() != reflect.Float64 && rt.Kind() != reflect.Float32 {
			return mismatch(where, "expected float32/float64 for number (add Int() for integer fields), got %s", rt)
		}
	case TypeInteger:
		switch rt.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
		default:
			return mismatch(where, "expected a numeric kind for integer, got %s", rt)
		}
	case TypeBoolean:
		if rt.Kind() != reflect.Bool {
			return mismatch(where, "expected bool, got %s", rt)
		}
	case TypeDate:
		if rt != timeType {
			return mismatch(where, "expected time.Time, got %s", rt)
		}
	case TypeArray:
		if rt.Kind() != reflect.Slice {
			return mismatch(where, "expected a slice, got %s", rt)
		}
		return checkGoType(*t.Elem, rt.Elem(), where+"[]")
	case TypeObject:
		return checkStruct(t, rt, where)
	}
	return nil
}

func checkStruct(t Type, rt reflect.Type, where string) error {
	if rt.Kind() == reflect.Map {
		if rt.Key().Kind() == reflect.String && isAnyInterface(rt.Elem()) {
			return nil
		}
		return mismatch(where, "objects map to map[string]any or a struct, got %s", rt)
	}
	if rt.Kind() != reflect.Struct || rt == timeType {
		return mismatch(where, "expected a struct for %s, got %s", t, rt)
	}
	fields := structFields(rt)
	for _, f := range t.Fields {
		idx, ok := fields[f.Name]
		if !ok {
			return mismatch(where, "struct %s has no field for %q", rt, f.Name)
		}
		if err := checkGoType(f.Type, rt.Field(idx).Type, where+"."+f.Name); err != nil {
			return err
		}
	}
	for key := range fields {
		if _, ok := t.Field(key); !ok {
			return mismatch(where, "struct %s declares %q which the schema does not", rt, key)
		}
	}
	return nil
}

// structFields maps external keys to field indexes of exported fields.
func structFields(rt reflect.Type) map[string]int {
	out := make(map[string]int, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		key := formskema.ResolveStructKey(sf)
		if key == "-" || key == "" {
			continue
		}
		out[key] = i
	}
	return out
}

// assign stores a validated value into dst. Shapes were verified by Bind, so
// failures here indicate a value that does not match the node's output.
func assign(dst reflect.Value, v any) error {
	if v == nil || formskema.IsUndefined(v) {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	switch dst.Kind() {
	case reflect.Interface:
		dst.Set(reflect.ValueOf(v))
		return nil
	case reflect.Pointer:
		p := reflect.New(dst.Type().Elem())
		if err := assign(p.Elem(), v); err != nil {
			return err
		}
		dst.Set(p)
		return nil
	case reflect.String:
		s, ok := asString(v)
		if !ok {
			return fmt.Errorf("dsl: cannot assign %T to %s", v, dst.Type())
		}
		dst.SetString(s)
		return nil
	case reflect.Bool:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("dsl: cannot assign %T to %s", v, dst.Type())
		}
		dst.SetBool(b)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f, ok := asFloat(v)
		if !ok {
			return fmt.Errorf("dsl: cannot assign %T to %s", v, dst.Type())
		}
		// 2^63 is exact in float64; anything at or beyond it overflows int64.
		if f < -(1<<63) || f >= 1<<63 || dst.OverflowInt(int64(f)) {
			return fmt.Errorf("dsl: %v overflows %s", v, dst.Type())
		}
		dst.SetInt(int64(f))
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		f, ok := asFloat(v)
		if !ok || f < 0 {
			return fmt.Errorf("dsl: cannot assign %v to %s", v, dst.Type())
		}
		if f >= 1<<64 || dst.OverflowUint(uint64(f)) {
			return fmt.Errorf("dsl: %v overflows %s", v, dst.Type())
		}
		dst.SetUint(uint64(f))
		return nil
	case reflect.Float32, reflect.Float64:
		f, ok := asFloat(v)
		if !ok {
			return fmt.Errorf("dsl: cannot assign %T to %s", v, dst.Type())
		}
		dst.SetFloat(f)
		return nil
	case reflect.Slice:
		items, ok := v.([]any)
		if !ok {
			return fmt.Errorf("dsl: cannot assign %T to %s", v, dst.Type())
		}
		out := reflect.MakeSlice(dst.Type(), len(items), len(items))
		for i, it := range items {
			if err := assign(out.Index(i), it); err != nil {
				return err
			}
		}
		dst.Set(out)
		return nil
	case reflect.Map:
		rv := reflect.ValueOf(v)
		if !rv.Type().AssignableTo(dst.Type()) {
			return fmt.Errorf("dsl: cannot assign %T to %s", v, dst.Type())
		}
		dst.Set(rv)
		return nil
	case reflect.Struct:
		if dst.Type() == timeType {
			t, ok := v.(time.Time)
			if !ok {
				return fmt.Errorf("dsl: cannot assign %T to time.Time", v)
			}
			dst.Set(reflect.ValueOf(t))
			return nil
		}
		m, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("dsl: cannot assign %T to %s", v, dst.Type())
		}
		for key, idx := range structFields(dst.Type()) {
			val, present := m[key]
			if !present {
				continue
			}
			if err := assign(dst.Field(idx), val); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
		}
		return nil
	}
	return fmt.Errorf("dsl: unsupported destination %s", dst.Type())
}
