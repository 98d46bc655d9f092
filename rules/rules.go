package rules

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	formskema "github.com/reoring/formskema"
	"github.com/reoring/formskema/i18n"
)

// Rule is a cross-field check over a validated value. It has the shape of
// dsl.RefineFunc, so rules plug directly into dsl.SuperRefine. Issue paths are
// relative to the refined node; messages are filled in from the issue code.
type Rule = func(ctx context.Context, v any) formskema.Issues

// Op defines simple comparison operators for If(...).Then(...)
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
	In // want is a slice; matches when the value equals any element
)

// Conditional composes conditional execution of rules.
type Conditional struct {
	path formskema.Path
	op   Op
	want any
	all  []Conditional // composite AND
	any  []Conditional // composite OR
}

// If builds a conditional that evaluates a field against a value using an
// operator. field is a key ("payoutType") or a JSON Pointer ("/joint/gender").
func If(field string, op Op, want any) Conditional {
	return Conditional{path: parseField(field), op: op, want: want}
}

// IfAll builds a conditional that requires all conditions to hold.
func IfAll(conds ...Conditional) Conditional { return Conditional{all: conds} }

// IfAny builds a conditional that requires any condition to hold.
func IfAny(conds ...Conditional) Conditional { return Conditional{any: conds} }

// And combines the receiver with additional conditions using logical AND.
func (c Conditional) And(others ...Conditional) Conditional {
	return IfAll(append([]Conditional{c}, others...)...)
}

// Or combines the receiver with additional conditions using logical OR.
func (c Conditional) Or(others ...Conditional) Conditional {
	return IfAny(append([]Conditional{c}, others...)...)
}

// Holds evaluates the condition against v.
func (c Conditional) Holds(v any) bool {
	if len(c.all) > 0 {
		for _, it := range c.all {
			if !it.Holds(v) {
				return false
			}
		}
		return true
	}
	if len(c.any) > 0 {
		for _, it := range c.any {
			if it.Holds(v) {
				return true
			}
		}
		return false
	}
	cur, ok := lookup(v, c.path)
	if !ok {
		return false
	}
	return compare(cur, c.op, c.want)
}

// Then attaches rules to run when the condition is satisfied.
func (c Conditional) Then(rules ...Rule) Rule {
	inner := And(rules...)
	return func(ctx context.Context, v any) formskema.Issues {
		if !c.Holds(v) {
			return nil
		}
		return inner(ctx, v)
	}
}

// Otherwise returns a rule that runs when the condition does not hold.
func (c Conditional) Otherwise(rules ...Rule) Rule {
	inner := And(rules...)
	return func(ctx context.Context, v any) formskema.Issues {
		if c.Holds(v) {
			return nil
		}
		return inner(ctx, v)
	}
}

// RequireFields reports a required issue at each listed field that is absent,
// null or an empty string.
func RequireFields(fields ...string) Rule {
	paths := parseFields(fields)
	return func(_ context.Context, v any) formskema.Issues {
		var out formskema.Issues
		for _, p := range paths {
			if cur, ok := lookup(v, p); ok && !blank(cur) {
				continue
			}
			out = append(out, formskema.Issue{Path: p, Code: formskema.CodeRequired})
		}
		return out
	}
}

// Forbid reports each listed field that carries a value.
func Forbid(fields ...string) Rule {
	paths := parseFields(fields)
	return func(_ context.Context, v any) formskema.Issues {
		var out formskema.Issues
		for _, p := range paths {
			if cur, ok := lookup(v, p); ok && !blank(cur) {
				out = append(out, formskema.Issue{Path: p, Code: formskema.CodeForbidden})
			}
		}
		return out
	}
}

// FieldsEqual reports a mismatch at confirm when it differs from field.
// Absent fields are left to the field schemas.
func FieldsEqual(field, confirm string) Rule {
	a, b := parseField(field), parseField(confirm)
	return func(_ context.Context, v any) formskema.Issues {
		av, aok := lookup(v, a)
		bv, bok := lookup(v, b)
		if !aok || !bok || compare(av, Eq, bv) {
			return nil
		}
		return formskema.Issues{{Path: b, Code: formskema.CodeMismatch, Params: map[string]any{"other": a.String()}}}
	}
}

// Before reports an issue at field when its date is not strictly before the
// date at other. Non-date or absent values are ignored.
func Before(field, other string) Rule {
	a, b := parseField(field), parseField(other)
	return func(_ context.Context, v any) formskema.Issues {
		av, aok := lookup(v, a)
		bv, bok := lookup(v, b)
		if !aok || !bok {
			return nil
		}
		at, aok := av.(time.Time)
		bt, bok := bv.(time.Time)
		if !aok || !bok || at.Before(bt) {
			return nil
		}
		return formskema.Issues{{Path: a, Code: formskema.CodeOrder, Params: map[string]any{"other": b.String()}}}
	}
}

// AtLeastOne ensures the collection at collection has at least 1 element.
func AtLeastOne(collection string) Rule {
	p := parseField(collection)
	return func(_ context.Context, v any) formskema.Issues {
		cur, ok := lookup(v, p)
		if !ok {
			return nil
		}
		rv := reflect.ValueOf(cur)
		if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Len() == 0 {
			return formskema.Issues{{
				Path:    p,
				Code:    formskema.CodeTooShort,
				Message: i18n.T("too_few", map[string]string{"min": "1"}),
				Params:  map[string]any{"min": 1},
			}}
		}
		return nil
	}
}

// UniqueBy ensures elements in a collection have unique key values.
// key is a field inside each element ("sku" or "/sku").
// Note: keys are compared by their fmt.Sprint form, so mixed-type keys that
// stringify identically are treated as duplicates.
func UniqueBy(collection, key string) Rule {
	cp := parseField(collection)
	kp := parseField(key)
	return func(_ context.Context, v any) formskema.Issues {
		cur, ok := lookup(v, cp)
		if !ok {
			return nil
		}
		rv := reflect.ValueOf(cur)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil
		}
		seen := map[string]int{}
		var out formskema.Issues
		for i := 0; i < rv.Len(); i++ {
			kv, ok := lookup(rv.Index(i).Interface(), kp)
			if !ok {
				continue
			}
			k := fmt.Sprint(kv)
			if j, dup := seen[k]; dup {
				out = append(out, formskema.Issue{
					Path:   cp.Index(i).Concat(kp),
					Code:   formskema.CodeDuplicate,
					Params: map[string]any{"key": k, "first": j, "dup": i},
				})
				continue
			}
			seen[k] = i
		}
		return out
	}
}

// ---------- Rule combinators ----------

// And executes all rules and concatenates Issues.
func And(rules ...Rule) Rule {
	return func(ctx context.Context, v any) formskema.Issues {
		var out formskema.Issues
		for _, r := range rules {
			if r == nil {
				continue
			}
			out = formskema.AppendIssues(out, r(ctx, v)...)
		}
		return out
	}
}

// Or succeeds if any rule returns no Issues. When all fail, the branch with
// the fewest issues is returned.
func Or(rules ...Rule) Rule {
	return func(ctx context.Context, v any) formskema.Issues {
		var best formskema.Issues
		bestSet := false
		for _, r := range rules {
			if r == nil {
				continue
			}
			iss := r(ctx, v)
			if len(iss) == 0 {
				return nil
			}
			if !bestSet || len(iss) < len(best) {
				best = iss
				bestSet = true
			}
		}
		return best
	}
}

// ------- helpers -------

func parseField(f string) formskema.Path {
	if strings.HasPrefix(f, "/") {
		return formskema.ParsePointer(f)
	}
	return formskema.PathOf(f)
}

func parseFields(fields []string) []formskema.Path {
	out := make([]formskema.Path, len(fields))
	for i, f := range fields {
		out[i] = parseField(f)
	}
	return out
}

func blank(v any) bool {
	if v == nil || formskema.IsUndefined(v) {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

// lookup navigates records, slices and structs (by external key). A missing
// key or an undefined value reports false.
func lookup(v any, p formskema.Path) (any, bool) {
	cur := reflect.ValueOf(v)
	for _, seg := range p {
		if !cur.IsValid() {
			return nil, false
		}
		for cur.Kind() == reflect.Pointer || cur.Kind() == reflect.Interface {
			if cur.IsNil() {
				return nil, false
			}
			cur = cur.Elem()
		}
		switch cur.Kind() {
		case reflect.Map:
			if cur.Type().Key().Kind() != reflect.String {
				return nil, false
			}
			key := seg.Key
			if seg.IsIndex {
				// numeric pointer tokens also name record keys ("/2024")
				key = strconv.Itoa(seg.Index)
			}
			mv := cur.MapIndex(reflect.ValueOf(key).Convert(cur.Type().Key()))
			if !mv.IsValid() {
				return nil, false
			}
			cur = mv
		case reflect.Slice, reflect.Array:
			if !seg.IsIndex || seg.Index >= cur.Len() {
				return nil, false
			}
			cur = cur.Index(seg.Index)
		case reflect.Struct:
			found := false
			rt := cur.Type()
			for i := 0; i < rt.NumField(); i++ {
				sf := rt.Field(i)
				if sf.IsExported() && formskema.ResolveStructKey(sf) == seg.Key {
					cur = cur.Field(i)
					found = true
					break
				}
			}
			if !found || seg.IsIndex {
				return nil, false
			}
		default:
			return nil, false
		}
	}
	if !cur.IsValid() {
		return nil, false
	}
	if (cur.Kind() == reflect.Pointer || cur.Kind() == reflect.Interface) && cur.IsNil() {
		return nil, true
	}
	for cur.Kind() == reflect.Pointer || cur.Kind() == reflect.Interface {
		cur = cur.Elem()
	}
	out := cur.Interface()
	if formskema.IsUndefined(out) {
		return nil, false
	}
	return out, true
}

func compare(cur any, op Op, want any) bool {
	switch op {
	case Eq:
		return equal(cur, want)
	case Ne:
		return !equal(cur, want)
	case In:
		w := reflect.ValueOf(want)
		if w.Kind() != reflect.Slice && w.Kind() != reflect.Array {
			return false
		}
		for i := 0; i < w.Len(); i++ {
			if equal(cur, w.Index(i).Interface()) {
				return true
			}
		}
		return false
	case Lt, Le, Gt, Ge:
		return compareOrdered(cur, op, want)
	default:
		return false
	}
}

// equal treats numbers of different Go kinds as equal when their values are.
func equal(a, b any) bool {
	if x, ok := toFloat64(a); ok {
		if y, ok := toFloat64(b); ok {
			return x == y
		}
	}
	if x, ok := a.(time.Time); ok {
		if y, ok := b.(time.Time); ok {
			return x.Equal(y)
		}
	}
	if reflect.ValueOf(a).Kind() == reflect.String && reflect.ValueOf(b).Kind() == reflect.String {
		return reflect.ValueOf(a).String() == reflect.ValueOf(b).String()
	}
	return reflect.DeepEqual(a, b)
}

func compareOrdered(cur any, op Op, want any) bool {
	var c int
	if x, ok := toFloat64(cur); ok {
		y, ok := toFloat64(want)
		if !ok {
			return false
		}
		switch {
		case x < y:
			c = -1
		case x > y:
			c = 1
		}
	} else if x, ok := cur.(time.Time); ok {
		y, ok := want.(time.Time)
		if !ok {
			return false
		}
		c = x.Compare(y)
	} else {
		return false
	}
	switch op {
	case Lt:
		return c < 0
	case Le:
		return c <= 0
	case Gt:
		return c > 0
	case Ge:
		return c >= 0
	}
	return false
}

func toFloat64(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}
