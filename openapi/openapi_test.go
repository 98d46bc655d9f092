package openapi_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	formskema "github.com/reoring/formskema"
	"github.com/reoring/formskema/dsl"
	js "github.com/reoring/formskema/jsonschema"
	"github.com/reoring/formskema/openapi"
)

const signupYAML = `
type: object
additionalProperties: false
x-order: [email, age, plan, tags]
required: [email, age]
properties:
  email:
    type: string
    format: email
  age:
    type: integer
    minimum: 18
  plan:
    $ref: '#/$defs/plan'
  tags:
    type: array
    maxItems: 2
    items:
      type: string
      minLength: 1
  referrer:
    type: string
    nullable: true
$defs:
  plan:
    type: string
    enum: [free, pro]
    default: free
`

func TestImportYAML_Object(t *testing.T) {
	n, diag, err := openapi.ImportYAML([]byte(signupYAML), openapi.Options{Coerce: true})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if diag.HasWarnings() {
		t.Fatalf("unexpected warnings: %v", diag.Warnings())
	}
	obj, ok := n.(dsl.ObjectSchema)
	if !ok {
		t.Fatalf("expected an object node, got %T", n)
	}
	if got := obj.Keys(); !reflect.DeepEqual(got, []string{"email", "age", "plan", "tags", "referrer"}) {
		t.Fatalf("x-order first, then sorted remainder; got %v", got)
	}
	if got := dsl.TypeOf(n).String(); got != `{ email: string; age: number; plan: "free" | "pro"; tags?: string[]; referrer?: string | null }` {
		t.Fatalf("type: %s", got)
	}

	ctx := context.Background()
	v, err := dsl.Parse(ctx, n, map[string]any{"email": "a@example.com", "age": "21"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if m := v.(map[string]any); m["plan"] != "free" || m["age"] != 21.0 {
		t.Fatalf("defaults and coercion expected: %v", m)
	}

	r := dsl.SafeParse(ctx, n, map[string]any{"email": "x", "age": 17, "tags": []any{"", "b", "c"}, "other": 1})
	var codes []string
	for _, it := range r.Issues() {
		codes = append(codes, it.Pointer()+" "+it.Code)
	}
	want := []string{
		"/email invalid_format",
		"/age too_small",
		"/tags/0 too_short",
		"/tags too_long",
		"/other unknown_key",
	}
	if !reflect.DeepEqual(codes, want) {
		t.Fatalf("got  %v\nwant %v", codes, want)
	}
}

func TestImport_TypedSchema(t *testing.T) {
	orig := dsl.Object().
		Field("name", dsl.String().Min(2).Max(10)).
		Field("qty", dsl.Number().Int().Gt(0).MultipleOf(5)).
		Field("at", dsl.Optional(dsl.Date().Coerce())).
		Field("kind", dsl.Default(dsl.Enum("a", "b"), "b")).
		Strict()
	sch := &js.Schema{
		Type: "object",
		Properties: map[string]*js.Schema{
			"name": {Type: "string", MinLength: js.Ptr(2), MaxLength: js.Ptr(10)},
			"qty":  {Type: "integer", ExclusiveMinimum: js.Ptr(0.0), MultipleOf: js.Ptr(5.0)},
			"at":   {Type: "string", Format: "date-time"},
			"kind": {Type: "string", Enum: []string{"a", "b"}, Default: "b"},
		},
		Required:             []string{"name", "qty"},
		AdditionalProperties: js.Ptr(false),
		Order:                []string{"name", "qty", "at", "kind"},
	}
	n, _, err := openapi.Import(sch, openapi.Options{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if dsl.TypeOf(n).String() != dsl.TypeOf(orig).String() {
		t.Fatalf("types differ:\n%s\n%s", dsl.TypeOf(n), dsl.TypeOf(orig))
	}
	inputs := []map[string]any{
		{"name": "ok", "qty": 10},
		{"name": "o", "qty": 0},
		{"name": "fine", "qty": 7, "at": "2024-01-01T00:00:00Z"},
		{"name": "fine", "qty": 5, "kind": "c"},
		{"name": "fine", "qty": 5, "extra": true},
	}
	for _, in := range inputs {
		a := dsl.SafeParse(context.Background(), orig, in)
		b := dsl.SafeParse(context.Background(), n, in)
		if a.OK() != b.OK() || len(a.Issues()) != len(b.Issues()) {
			t.Fatalf("%v: original %v, imported %v", in, a.Issues(), b.Issues())
		}
	}
}

func TestImport_CRD(t *testing.T) {
	crd := `
apiVersion: apiextensions.k8s.io/v1
kind: CustomResourceDefinition
spec:
  names:
    kind: Quote
  versions:
    - name: v1
      served: true
      schema:
        openAPIV3Schema:
          type: object
          properties:
            amount:
              type: number
              minimum: 1000
              exclusiveMaximum: true
              maximum: 2000000
---
kind: ConfigMap
`
	n, _, err := openapi.ImportYAMLForCRDKind([]byte(crd), "Quote", openapi.Options{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	r := dsl.SafeParse(context.Background(), n, map[string]any{"amount": 2_000_000})
	if r.OK() || r.Issues()[0].Code != formskema.CodeTooBig {
		t.Fatalf("exclusive maximum expected: %v", r.Issues())
	}
	if _, _, err := openapi.ImportYAMLForCRDKind([]byte(crd), "Missing", openapi.Options{}); err == nil {
		t.Fatalf("expected not found")
	}
}

func TestImport_Errors(t *testing.T) {
	_, _, err := openapi.Import(map[string]any{"type": "object", "properties": map[string]any{"a": map[string]any{"type": "null"}}}, openapi.Options{})
	if !errors.Is(err, openapi.ErrUnsupported) || !strings.Contains(err.Error(), "/properties/a") {
		t.Fatalf("unexpected err: %v", err)
	}
	_, diag, err := openapi.Import([]byte(`{"type":"object","properties":{"a":{"type":"string","$ref":"http://x"}},"required":["b"]}`), openapi.Options{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(diag.Warnings()) != 2 {
		t.Fatalf("expected warnings for remote ref and undeclared required: %v", diag.Warnings())
	}
}

func TestImport_DoesNotMutateInput(t *testing.T) {
	doc := map[string]any{
		"type":       "object",
		"properties": map[string]any{"p": map[string]any{"$ref": "#/definitions/p"}},
		"definitions": map[string]any{
			"p": map[string]any{"type": "string"},
		},
	}
	if _, _, err := openapi.Import(doc, openapi.Options{}); err != nil {
		t.Fatalf("import: %v", err)
	}
	p := doc["properties"].(map[string]any)["p"].(map[string]any)
	if p["$ref"] != "#/definitions/p" {
		t.Fatalf("input was modified: %v", p)
	}
}
