package dsl_test

import (
	"context"
	"encoding/json"
	"math"
	"regexp"
	"testing"
	"time"

	formskema "github.com/reoring/formskema"
	g "github.com/reoring/formskema/dsl"
)

func codes(iss formskema.Issues) []string {
	out := make([]string, len(iss))
	for i, it := range iss {
		out[i] = it.Pointer() + " " + it.Code
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestString_ChecksAccumulate(t *testing.T) {
	ctx := context.Background()
	s := g.String().Min(5).StartsWith("ab").Email()

	r := g.SafeParse(ctx, s, "x")
	if got := codes(r.Issues()); !equalStrings(got, []string{"/ too_short", "/ invalid_format", "/ invalid_format"}) {
		t.Fatalf("all failing checks should be reported in order, got %v", got)
	}
	if v, err := g.Parse(ctx, s, "ab@example.com"); err != nil || v != "ab@example.com" {
		t.Fatalf("unexpected: %v %v", v, err)
	}
	if r := g.SafeParse(ctx, s, 42); len(r.Issues()) != 1 || r.Issues()[0].Code != formskema.CodeInvalidType {
		t.Fatalf("type mismatch should be a single issue: %v", r.Issues())
	}
}

func TestString_TrimCoerceAndMessages(t *testing.T) {
	ctx := context.Background()
	if v, _ := g.Parse(ctx, g.String().Trim().NonEmpty(), "  hi "); v != "hi" {
		t.Fatalf("trim expected, got %q", v)
	}
	r := g.SafeParse(ctx, g.String().Trim().NonEmpty("Please fill in"), "   ")
	if r.OK() || r.Issues()[0].Message != "Please fill in" {
		t.Fatalf("custom message expected: %v", r.Issues())
	}
	if v, _ := g.Parse(ctx, g.String().Coerce(), 12.5); v != "12.5" {
		t.Fatalf("coerced number expected, got %v", v)
	}
	if g.Is(ctx, g.String().Regex(regexp.MustCompile(`^\d{5}$`)), "1234") {
		t.Fatalf("regex should fail")
	}
	if !g.Is(ctx, g.String().URL(), "https://example.com/x") || g.Is(ctx, g.String().URL(), "example") {
		t.Fatalf("url check")
	}
}

func TestNumber_InputsAndCoercion(t *testing.T) {
	ctx := context.Background()
	n := g.Number()
	for _, in := range []any{1, int64(2), uint8(3), float32(1.5), 2.5, json.Number("7.25")} {
		if !g.Is(ctx, n, in) {
			t.Fatalf("%T should be accepted", in)
		}
	}
	if g.Is(ctx, n, "1") {
		t.Fatalf("strings require Coerce")
	}
	c := g.Number().Coerce()
	if v, _ := g.Parse(ctx, c, " 1500 "); v != 1500.0 {
		t.Fatalf("got %v", v)
	}
	for _, bad := range []any{"", "abc", "NaN", math.NaN(), true, "1_000", "0x1p4", "Inf", "1e400"} {
		r := g.SafeParse(ctx, c, bad)
		if r.OK() || r.Issues()[0].Code != formskema.CodeInvalidType {
			t.Fatalf("%v: invalid_type expected, got %v", bad, r.Issues())
		}
	}
}

func TestNumber_Bounds(t *testing.T) {
	ctx := context.Background()
	amount := g.Number().Coerce().Min(1000, "at least $1,000").Max(2_000_000)
	if !g.Is(ctx, amount, "1000") || !g.Is(ctx, amount, 2_000_000) {
		t.Fatalf("bounds are inclusive")
	}
	r := g.SafeParse(ctx, amount, "999")
	if it := r.Issues()[0]; it.Code != formskema.CodeTooSmall || it.Message != "at least $1,000" || it.Params["min"] != 1000.0 {
		t.Fatalf("unexpected issue: %+v", it)
	}
	r = g.SafeParse(ctx, amount, 2_000_001)
	if it := r.Issues()[0]; it.Code != formskema.CodeTooBig || it.Message != "must be less than or equal to 2000000" {
		t.Fatalf("unexpected issue: %+v", it)
	}

	excl := g.Number().Gt(0).Lt(10)
	if g.Is(ctx, excl, 0) || g.Is(ctx, excl, 10) || !g.Is(ctx, excl, 5) {
		t.Fatalf("exclusive bounds")
	}
	if got := codes(g.SafeParse(ctx, g.Number().Int().MultipleOf(5), 7.5).Issues()); !equalStrings(got, []string{"/ not_integer", "/ not_multiple_of"}) {
		t.Fatalf("got %v", got)
	}
	if g.Is(ctx, g.Number().Finite(), math.Inf(1)) {
		t.Fatalf("finite")
	}
}

func TestBoolAndDate(t *testing.T) {
	ctx := context.Background()
	if v, _ := g.Parse(ctx, g.Bool().Coerce(), "true"); v != true {
		t.Fatalf("got %v", v)
	}
	if g.Is(ctx, g.Bool(), "true") || g.Is(ctx, g.Bool().Coerce(), "yes") {
		t.Fatalf("bool coercion is strconv.ParseBool only")
	}

	earliest := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	d := g.Date().Coerce().Min(earliest)
	v, err := g.Parse(ctx, d, "1960-04-01")
	if err != nil || !v.(time.Time).Equal(time.Date(1960, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected: %v %v", v, err)
	}
	if v, _ := g.Parse(ctx, d, int64(0)); !v.(time.Time).Equal(time.Unix(0, 0)) {
		t.Fatalf("epoch millis expected, got %v", v)
	}
	if r := g.SafeParse(ctx, d, "1899-12-31"); r.Issues()[0].Code != formskema.CodeTooSmall {
		t.Fatalf("unexpected: %v", r.Issues())
	}
	if r := g.SafeParse(ctx, d, "someday"); r.Issues()[0].Code != formskema.CodeInvalidType {
		t.Fatalf("unexpected: %v", r.Issues())
	}
	for _, huge := range []any{1e300, -1e19, math.Inf(1)} {
		if r := g.SafeParse(ctx, g.Date().Coerce(), huge); r.OK() || r.Issues()[0].Code != formskema.CodeInvalidType {
			t.Fatalf("%v is outside the epoch range, got %v", huge, r.Issues())
		}
	}
	if g.Is(ctx, g.Date(), "1960-04-01") {
		t.Fatalf("strings require Coerce")
	}
}

func TestEnum(t *testing.T) {
	ctx := context.Background()
	e := g.Enum("single", "joint-life")
	if !g.Is(ctx, e, "joint-life") {
		t.Fatalf("member expected")
	}
	r := g.SafeParse(ctx, e, "other")
	if len(r.Issues()) != 1 || r.Issues()[0].Code != formskema.CodeInvalidEnum {
		t.Fatalf("single invalid_enum expected: %v", r.Issues())
	}
	if r.Issues()[0].Message != `invalid enum value, expected "single" | "joint-life"` {
		t.Fatalf("message: %q", r.Issues()[0].Message)
	}
	if r := g.SafeParse(ctx, e.Message("Please select"), 3); r.Issues()[0].Message != "Please select" {
		t.Fatalf("custom message: %v", r.Issues())
	}

	if _, err := g.NewEnum(); err == nil {
		t.Fatalf("empty enum should fail")
	}
	if _, err := g.NewEnum("a", "a"); err == nil {
		t.Fatalf("duplicate values should fail")
	}
	type payout string
	typed := g.EnumOf[payout]("single", "joint-life")
	if !equalStrings(typed.Values(), e.Values()) || !g.Is(ctx, typed, "single") {
		t.Fatalf("EnumOf: %v", typed.Values())
	}

	sub, err := e.Extract("single")
	if err != nil || len(sub.Values()) != 1 {
		t.Fatalf("extract: %v %v", sub.Values(), err)
	}
	rest, err := e.Exclude("single")
	if err != nil || rest.Values()[0] != "joint-life" {
		t.Fatalf("exclude: %v %v", rest.Values(), err)
	}
	if _, err := e.Extract("nope"); err == nil {
		t.Fatalf("extracting an unknown value should fail")
	}
	opts := e.Options(nil)
	if len(opts) != 2 || opts[1].Value != "joint-life" {
		t.Fatalf("options: %+v", opts)
	}
	if len(e.Values()) != 2 {
		t.Fatalf("Extract/Exclude must not change the receiver")
	}
}
