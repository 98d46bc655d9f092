package dsl_test

import (
	"context"
	"reflect"
	"testing"

	formskema "github.com/reoring/formskema"
	g "github.com/reoring/formskema/dsl"
)

func signup() g.ObjectSchema {
	return g.Object().
		Field("email", g.String().Email()).
		Field("age", g.Number().Int().Min(18)).
		Field("nickname", g.Optional(g.String())).
		Field("plan", g.Default(g.Enum("free", "pro"), "free")).
		Field("referrer", g.Nullable(g.String()))
}

func TestObject_PresenceSemantics(t *testing.T) {
	ctx := context.Background()
	v, err := g.Parse(ctx, signup(), map[string]any{"email": "a@b.io", "age": 20, "referrer": nil})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := map[string]any{"email": "a@b.io", "age": 20.0, "plan": "free", "referrer": nil}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("got %v", v)
	}

	r := g.SafeParse(ctx, signup(), map[string]any{"email": "a@b.io", "age": 20})
	if got := codes(r.Issues()); !equalStrings(got, []string{"/referrer required"}) {
		t.Fatalf("nullable is not optional: %v", got)
	}
}

func TestObject_AccumulatesInDeclarationOrder(t *testing.T) {
	ctx := context.Background()
	r := g.SafeParse(ctx, signup(), map[string]any{"email": "nope", "age": 12.5, "plan": "gold"})
	want := []string{"/email invalid_format", "/age not_integer", "/age too_small", "/plan invalid_enum", "/referrer required"}
	if got := codes(r.Issues()); !equalStrings(got, want) {
		t.Fatalf("got  %v\nwant %v", got, want)
	}
	if r := g.SafeParse(ctx, signup(), "x"); !equalStrings(codes(r.Issues()), []string{"/ invalid_type"}) {
		t.Fatalf("non-record input: %v", r.Issues())
	}
}

func TestObject_UnknownPolicies(t *testing.T) {
	ctx := context.Background()
	base := g.Object().Field("a", g.String())
	in := map[string]any{"a": "x", "z": 1, "b": 2}

	if v, _ := g.Parse(ctx, base, in); !reflect.DeepEqual(v, map[string]any{"a": "x"}) {
		t.Fatalf("strip is the default: %v", v)
	}
	if v, _ := g.Parse(ctx, base.Passthrough(), in); !reflect.DeepEqual(v, in) {
		t.Fatalf("passthrough keeps unknown keys: %v", v)
	}
	r := g.SafeParse(ctx, base.Field("n", g.Number()).Strict(), in)
	want := []string{"/n required", "/b unknown_key", "/z unknown_key"}
	if got := codes(r.Issues()); !equalStrings(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if base.Policy() != formskema.UnknownStrip {
		t.Fatalf("Strict must not change the receiver")
	}
}

func TestObject_NestedPathsAndArrays(t *testing.T) {
	ctx := context.Background()
	item := g.Object().Field("sku", g.String().NonEmpty()).Field("qty", g.Number().Int().Positive())
	order := g.Object().
		Field("customer", g.Object().Field("name", g.String())).
		Field("items", g.Array(item).Min(1).Max(2))

	r := g.SafeParse(ctx, order, map[string]any{
		"customer": map[string]any{},
		"items": []any{
			map[string]any{"sku": "A", "qty": 1},
			map[string]any{"sku": "", "qty": 0},
			"junk",
		},
	})
	want := []string{"/customer/name required", "/items/1/sku too_short", "/items/1/qty too_small", "/items/2 invalid_type", "/items too_long"}
	if got := codes(r.Issues()); !equalStrings(got, want) {
		t.Fatalf("got  %v\nwant %v", got, want)
	}
	flat := r.Issues().Flatten()
	if _, ok := flat.FieldErrors["items[1].sku"]; !ok {
		t.Fatalf("dotted field keys expected: %v", flat.FieldErrors)
	}

	if r := g.SafeParse(ctx, order, map[string]any{"customer": map[string]any{"name": "x"}, "items": []any{}}); !equalStrings(codes(r.Issues()), []string{"/items too_short"}) {
		t.Fatalf("got %v", r.Issues())
	}
}

func TestObject_AcceptsStringKeyedMaps(t *testing.T) {
	s := g.Object().Field("a", g.String())
	if !g.Is(context.Background(), s, map[string]string{"a": "x"}) {
		t.Fatalf("map[string]string should be accepted")
	}
}

func TestDefaultFunc_CalledPerParse(t *testing.T) {
	n := 0
	s := g.Object().Field("id", g.DefaultFunc(g.Number(), func() any { n++; return n }))
	a, _ := g.Parse(context.Background(), s, map[string]any{})
	b, _ := g.Parse(context.Background(), s, map[string]any{})
	if a.(map[string]any)["id"] != 1.0 || b.(map[string]any)["id"] != 2.0 {
		t.Fatalf("got %v %v", a, b)
	}
}

func TestPreprocess(t *testing.T) {
	blankToUndefined := func(v any) any {
		if v == "" {
			return formskema.Undefined
		}
		return v
	}
	s := g.Object().Field("gender", g.Preprocess(blankToUndefined, g.Optional(g.Enum("male", "female"))))
	v, err := g.Parse(context.Background(), s, map[string]any{"gender": ""})
	if err != nil || len(v.(map[string]any)) != 0 {
		t.Fatalf("blank should be absent: %v %v", v, err)
	}
}

func TestSchemasAreSafeForConcurrentUse(t *testing.T) {
	s := signup()
	done := make(chan bool)
	for i := 0; i < 8; i++ {
		go func() {
			done <- g.Is(context.Background(), s, map[string]any{"email": "a@b.io", "age": 30, "referrer": nil})
		}()
	}
	for i := 0; i < 8; i++ {
		if !<-done {
			t.Fatalf("parse failed")
		}
	}
}
