package dsl

import (
	"context"
	"reflect"

	formskema "github.com/reoring/formskema"
)

// ArraySchema validates every element with the element node and the length
// with its own constraints. Element issues carry index path segments.
type ArraySchema struct {
	elem   Node
	checks []check[int]
}

// Array builds an array schema from an element schema.
func Array(elem Node) ArraySchema { return ArraySchema{elem: mustNode(elem)} }

func (ArraySchema) Kind() NodeKind { return KindArray }
func (ArraySchema) sealed()        {}

// Element returns the element node.
func (a ArraySchema) Element() Node { return a.elem }

func (a ArraySchema) with(c check[int]) ArraySchema {
	a.checks = appendCheck(a.checks, c)
	return a
}

// Min requires at least n items.
func (a ArraySchema) Min(n int, msg ...string) ArraySchema {
	return a.with(check[int]{code: formskema.CodeTooShort, msgKey: "too_few", params: map[string]any{"min": n}, custom: firstMsg(msg),
		ok: func(l int) bool { return l >= n }})
}

// Max allows at most n items.
func (a ArraySchema) Max(n int, msg ...string) ArraySchema {
	return a.with(check[int]{code: formskema.CodeTooLong, msgKey: "too_many", params: map[string]any{"max": n}, custom: firstMsg(msg),
		ok: func(l int) bool { return l <= n }})
}

// Length requires exactly n items.
func (a ArraySchema) Length(n int, msg ...string) ArraySchema { return a.Min(n, msg...).Max(n, msg...) }

// NonEmpty is Min(1).
func (a ArraySchema) NonEmpty(msg ...string) ArraySchema { return a.Min(1, msg...) }

func (a ArraySchema) validate(ctx context.Context, in any, path formskema.Path) (any, formskema.Issues) {
	if formskema.IsUndefined(in) {
		return nil, formskema.Issues{requiredIssue(path)}
	}
	items, ok := asSlice(in)
	if !ok {
		return nil, formskema.Issues{typeIssue(path, "array", in)}
	}
	out := make([]any, len(items))
	var iss formskema.Issues
	for i, raw := range items {
		v, ei := validate(ctx, a.elem, raw, path.Index(i))
		if len(ei) > 0 {
			iss = formskema.AppendIssues(iss, ei...)
			continue
		}
		out[i] = v
	}
	if li := runChecks(a.checks, len(items), path); len(li) > 0 {
		iss = formskema.AppendIssues(iss, li...)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func asSlice(in any) ([]any, bool) {
	switch t := in.(type) {
	case []any:
		return t, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(in)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
