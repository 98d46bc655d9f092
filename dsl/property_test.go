package dsl_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	formskema "github.com/reoring/formskema"
	g "github.com/reoring/formskema/dsl"
)

var fieldPool = []string{"a", "b", "c", "d", "e", "f"}

var fieldNames = gen.SliceOf(gen.IntRange(0, len(fieldPool)-1).Map(func(i int) string { return fieldPool[i] }))

func objectOf(names []string, n g.Node) g.ObjectSchema {
	o := g.Object()
	for _, k := range names {
		o = o.Field(k, n)
	}
	return o
}

func uniq(names []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, k := range names {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

func TestProperty_Derivations(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("partial is idempotent", prop.ForAll(
		func(keys []string) bool {
			o := objectOf(keys, g.Number().Min(1))
			once := o.MustPartial()
			return g.TypeOf(once.MustPartial()).String() == g.TypeOf(once).String()
		},
		fieldNames,
	))

	properties.Property("merge keeps a's order, appends b's new keys and takes b's nodes", prop.ForAll(
		func(as, bs []string) bool {
			m := objectOf(as, g.String()).Merge(objectOf(bs, g.Bool()))
			want := uniq(append(append([]string(nil), as...), bs...))
			if !equalStrings(m.Keys(), want) {
				return false
			}
			inB := map[string]bool{}
			for _, k := range bs {
				inB[k] = true
			}
			for _, k := range m.Keys() {
				ft, _ := g.TypeOf(m).Field(k)
				if inB[k] != (ft.Kind == g.TypeBoolean) {
					return false
				}
			}
			return true
		},
		fieldNames, fieldNames,
	))

	properties.Property("derivations leave the source untouched", prop.ForAll(
		func(keys, picks []string) bool {
			o := objectOf(keys, g.String().Min(2))
			before := g.TypeOf(o).String()
			_ = o.Omit(picks...)
			_, _ = o.Pick(picks...)
			_, _ = o.Partial(picks...)
			_ = o.Extend(g.F("z", g.Number()))
			return g.TypeOf(o).String() == before
		},
		fieldNames, fieldNames,
	))

	properties.TestingRun(t)
}

func TestProperty_Engine(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)
	ctx := context.Background()

	properties.Property("Min accepts exactly the values at or above the bound", prop.ForAll(
		func(v, lo float64) bool {
			return g.Is(ctx, g.Number().Min(lo), v) == (v >= lo)
		},
		gen.Float64Range(-1e6, 1e6), gen.Float64Range(-1e6, 1e6),
	))

	properties.Property("coerced numeric strings parse like numbers", prop.ForAll(
		func(v float64) bool {
			s := g.Number().Coerce().Max(0)
			return g.Is(ctx, s, fmt.Sprint(v)) == g.Is(ctx, s, v)
		},
		gen.Float64Range(-1e3, 1e3),
	))

	properties.Property("every missing required field is reported once, in order", prop.ForAll(
		func(declared []string) bool {
			o := objectOf(declared, g.String())
			r := g.SafeParse(ctx, o, map[string]any{})
			keys := o.Keys()
			if len(keys) == 0 {
				return r.OK()
			}
			iss := r.Issues()
			if len(iss) != len(keys) {
				return false
			}
			for i, k := range keys {
				if iss[i].Code != formskema.CodeRequired || iss[i].Pointer() != "/"+k {
					return false
				}
			}
			return true
		},
		fieldNames,
	))

	properties.TestingRun(t)
}
