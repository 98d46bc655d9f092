package dsl_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	g "github.com/reoring/formskema/dsl"
)

func TestTypeOf_Strings(t *testing.T) {
	cases := []struct {
		node g.Node
		want string
	}{
		{g.String(), "string"},
		{g.Number().Int(), "number"},
		{g.Date(), "Date"},
		{g.Nullish(g.Bool()), "boolean | null | undefined"},
		{g.Default(g.Optional(g.String()), "x"), "string"},
		{g.Array(g.Optional(g.Number())), "(number | undefined)[]"},
		{g.Preprocess(func(v any) any { return v }, g.Enum("a", "b")), `"a" | "b"`},
		{g.Object(), "{}"},
		{g.Object().Field("a", g.Optional(g.String())).Field("b", g.Number()).Passthrough(), "{ a?: string; b: number; [key: string]: unknown }"},
	}
	for _, c := range cases {
		if got := g.TypeOf(c.node).String(); got != c.want {
			t.Fatalf("got %q want %q", got, c.want)
		}
	}
	if g.TypeOf(g.Number().Int()).Kind != g.TypeInteger {
		t.Fatalf("Int() should derive an integer")
	}
}

type payout struct {
	Type      string     `json:"payoutType"`
	Amount    float64    `json:"amount"`
	Years     int        `formskema:"name=years"`
	Joint     *time.Time `json:"jointBirthdate,omitempty"`
	Tags      []string   `json:"tags"`
	Meta      map[string]any
	internal  string
	Untracked string `json:"-"`
}

func payoutNode() g.ObjectSchema {
	return g.Object().
		Field("payoutType", g.Enum("single", "joint-life")).
		Field("amount", g.Number().Coerce()).
		Field("years", g.Number().Int()).
		Field("jointBirthdate", g.Optional(g.Date().Coerce())).
		Field("tags", g.Optional(g.Array(g.String()))).
		Field("Meta", g.Optional(g.Object().Passthrough()))
}

func TestBind_DecodesIntoStruct(t *testing.T) {
	s, err := g.Bind[payout](payoutNode())
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	v, err := s.Parse(context.Background(), map[string]any{
		"payoutType": "joint-life", "amount": "1500.5", "years": 10,
		"jointBirthdate": "1961-02-03", "tags": []any{"a"}, "Meta": map[string]any{"k": 1},
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if v.Type != "joint-life" || v.Amount != 1500.5 || v.Years != 10 || v.Joint == nil || v.Joint.Year() != 1961 || v.Tags[0] != "a" || v.Meta["k"] != 1 {
		t.Fatalf("got %+v", v)
	}
	if v.internal != "" || v.Untracked != "" {
		t.Fatalf("untagged fields untouched")
	}

	r := s.SafeParse(context.Background(), map[string]any{"payoutType": "single", "amount": 1, "years": 1})
	got, ok := r.Value()
	if !ok || got.Joint != nil || got.Tags != nil {
		t.Fatalf("absent optionals stay zero: %+v %v", got, r.Issues())
	}
}

func TestBind_RejectsMismatches(t *testing.T) {
	type missing struct {
		Type string `json:"payoutType"`
	}
	type extra struct {
		A     string `json:"a"`
		Bogus string `json:"bogus"`
	}
	type notPointer struct {
		A string `json:"a"`
	}
	type intNeedsInt struct {
		N int `json:"n"`
	}
	type wrongDate struct {
		D string `json:"d"`
	}
	cases := []struct {
		name string
		bind func() error
		want string
	}{
		{"missing field", func() error { _, err := g.Bind[missing](payoutNode()); return err }, `no field for "amount"`},
		{"extra field", func() error { _, err := g.Bind[extra](g.Object().Field("a", g.String())); return err }, `declares "bogus"`},
		{"optional needs pointer", func() error {
			_, err := g.Bind[notPointer](g.Object().Field("a", g.Optional(g.String())))
			return err
		}, "use a pointer"},
		{"int needs Int()", func() error { _, err := g.Bind[intNeedsInt](g.Object().Field("n", g.Number())); return err }, "add Int()"},
		{"date", func() error { _, err := g.Bind[wrongDate](g.Object().Field("d", g.Date())); return err }, "expected time.Time"},
	}
	for _, c := range cases {
		err := c.bind()
		if !errors.Is(err, g.ErrTypeMismatch) || !strings.Contains(err.Error(), c.want) {
			t.Fatalf("%s: got %v", c.name, err)
		}
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("MustBind should panic")
		}
	}()
	g.MustBind[intNeedsInt](g.Object().Field("n", g.Number()))
}

func TestBind_AnyAndMaps(t *testing.T) {
	if _, err := g.Bind[map[string]any](payoutNode()); err != nil {
		t.Fatalf("map[string]any binds to any object: %v", err)
	}
	if _, err := g.Bind[any](g.String()); err != nil {
		t.Fatalf("any binds to everything: %v", err)
	}
}

func TestBind_IntegerOverflowIsAnIssue(t *testing.T) {
	ctx := context.Background()
	small := g.MustBind[struct {
		N int8 `json:"n"`
	}](g.Object().Field("n", g.Number().Int()))

	v, err := small.Parse(ctx, map[string]any{"n": 127})
	if err != nil || v.N != 127 {
		t.Fatalf("127 fits int8: %v %v", v.N, err)
	}
	r := small.SafeParse(ctx, map[string]any{"n": 300})
	if r.OK() || len(r.Issues()) != 1 || !strings.Contains(r.Issues()[0].Message, "overflows int8") {
		t.Fatalf("300 must not be truncated into int8, got %v", r.Issues())
	}
	if _, err := small.Parse(ctx, map[string]any{"n": -129}); err == nil {
		t.Fatalf("-129 overflows int8")
	}

	unsigned := g.MustBind[struct {
		N uint16 `json:"n"`
	}](g.Object().Field("n", g.Number().Int()))
	if _, err := unsigned.Parse(ctx, map[string]any{"n": 70000}); err == nil {
		t.Fatalf("70000 overflows uint16")
	}

	wide := g.MustBind[struct {
		N int64 `json:"n"`
	}](g.Object().Field("n", g.Number().Int()))
	if _, err := wide.Parse(ctx, map[string]any{"n": 1e19}); err == nil {
		t.Fatalf("1e19 overflows int64")
	}
}
