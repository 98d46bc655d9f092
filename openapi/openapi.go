// Package openapi compiles JSON Schema and OpenAPI v3 schema documents
// (including Kubernetes CRD openAPIV3Schema) into dsl nodes.
package openapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	j "github.com/goccy/go-json"

	formskema "github.com/reoring/formskema"
	"github.com/reoring/formskema/codec"
	"github.com/reoring/formskema/dsl"
	js "github.com/reoring/formskema/jsonschema"
	"github.com/reoring/formskema/source"
)

// ErrUnsupported is wrapped by import errors for schema constructs that
// cannot be expressed as a node.
var ErrUnsupported = errors.New("openapi: unsupported schema")

// Import compiles a schema document into a node. The input can be a decoded
// map[string]any, raw JSON bytes or a *jsonschema.Schema. The input is not
// modified.
func Import(schema any, opts Options) (dsl.Node, Diag, error) {
	d := &simpleDiag{}
	if schema == nil {
		return nil, d, errors.New("openapi: nil schema")
	}
	var root map[string]any
	switch t := schema.(type) {
	case []byte:
		v, err := source.JSON(t)
		if err != nil {
			return nil, d, fmt.Errorf("openapi: invalid JSON: %w", err)
		}
		m, ok := v.(map[string]any)
		if !ok {
			return nil, d, fmt.Errorf("%w: root must be an object", ErrUnsupported)
		}
		root = m
	case map[string]any:
		root = deepCopyMap(t)
	case *js.Schema:
		b, err := j.Marshal(t)
		if err != nil {
			return nil, d, fmt.Errorf("openapi: cannot marshal input: %w", err)
		}
		return Import(b, opts)
	default:
		return nil, d, fmt.Errorf("%w: input %T", ErrUnsupported, schema)
	}

	// Accept a direct schema (openAPIV3Schema) or unwrap a CRD root
	// (spec.versions[].schema.openAPIV3Schema).
	if spec, ok := root["openAPIV3Schema"].(map[string]any); ok {
		root = spec
	} else if unwrapped := unwrapCRDSchema(root); unwrapped != nil {
		root = unwrapped
	}

	defs := extractDefs(root)
	root = resolveOne(root, defs, d, map[string]bool{})

	n, err := (&importer{opts: opts, d: d}).node(root, "")
	return n, d, err
}

// unwrapCRDSchema tries to extract openAPIV3Schema from a Kubernetes CRD document.
// It looks for spec.versions[].schema.openAPIV3Schema (preferring served=true),
// then falls back to spec.validation.openAPIV3Schema for legacy specs.
func unwrapCRDSchema(root map[string]any) map[string]any {
	spec, ok := root["spec"].(map[string]any)
	if !ok {
		return nil
	}
	if vers, ok := spec["versions"].([]any); ok {
		var firstFound map[string]any
		for _, v := range vers {
			vm, _ := v.(map[string]any)
			if vm == nil {
				continue
			}
			served := true
			if sv, ok := vm["served"].(bool); ok {
				served = sv
			}
			sch, _ := vm["schema"].(map[string]any)
			oas, ok := sch["openAPIV3Schema"].(map[string]any)
			if !ok {
				continue
			}
			if served {
				return oas
			}
			if firstFound == nil {
				firstFound = oas
			}
		}
		if firstFound != nil {
			return firstFound
		}
	}
	// legacy: spec.validation.openAPIV3Schema
	if val, ok := spec["validation"].(map[string]any); ok {
		if oas, ok := val["openAPIV3Schema"].(map[string]any); ok {
			return oas
		}
	}
	return nil
}

type importer struct {
	opts Options
	d    *simpleDiag
}

// node compiles one schema. at is the JSON Pointer of the schema for
// diagnostics.
func (im *importer) node(doc map[string]any, at string) (dsl.Node, error) {
	for _, kw := range []string{"anyOf", "oneOf", "allOf", "not", "patternProperties", "if"} {
		if _, ok := doc[kw]; ok {
			im.d.warnf("%s: %s is ignored", pointerOr(at), kw)
		}
	}
	var n dsl.Node
	var err error
	typ, _ := doc["type"].(string)
	if typ == "" {
		typ = inferType(doc)
	}
	switch typ {
	case "string":
		n, err = im.stringNode(doc, at)
	case "number", "integer":
		n, err = im.numberNode(doc, typ == "integer", at)
	case "boolean":
		b := dsl.Bool()
		if im.opts.Coerce {
			b = b.Coerce()
		}
		n = b
	case "object":
		n, err = im.objectNode(doc, at)
	case "array":
		n, err = im.arrayNode(doc, at)
	default:
		return nil, fmt.Errorf("%w: %s: type %v", ErrUnsupported, pointerOr(at), doc["type"])
	}
	if err != nil {
		return nil, err
	}
	if nullable(doc) {
		n = dsl.Nullable(n)
	}
	if def, ok := doc["default"]; ok {
		n = dsl.Default(n, def)
	}
	return n, nil
}

func inferType(doc map[string]any) string {
	switch {
	case doc["properties"] != nil:
		return "object"
	case doc["items"] != nil:
		return "array"
	case doc["enum"] != nil:
		return "string"
	}
	return ""
}

func (im *importer) stringNode(doc map[string]any, at string) (dsl.Node, error) {
	if raw, ok := doc["enum"].([]any); ok {
		vals := make([]string, 0, len(raw))
		for _, v := range raw {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s: non-string enum value %v", ErrUnsupported, pointerOr(at), v)
			}
			vals = append(vals, s)
		}
		e, err := dsl.NewEnum(vals...)
		if err != nil {
			return nil, fmt.Errorf("openapi: %s: %w", pointerOr(at), err)
		}
		return e, nil
	}
	format, _ := doc["format"].(string)
	switch format {
	case "date", "date-time":
		return dsl.Preprocess(codec.Date, dsl.Date()), nil
	}
	s := dsl.String()
	if n, ok := intOf(doc["minLength"]); ok {
		s = s.Min(n)
	}
	if n, ok := intOf(doc["maxLength"]); ok {
		s = s.Max(n)
	}
	if p, ok := doc["pattern"].(string); ok {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("openapi: %s: invalid pattern: %w", pointerOr(at), err)
		}
		s = s.Regex(re)
	}
	switch format {
	case "":
	case "email":
		s = s.Email()
	case "uri", "url":
		s = s.URL()
	default:
		im.d.warnf("%s: format %q is not checked", pointerOr(at), format)
	}
	return s, nil
}

func (im *importer) numberNode(doc map[string]any, integer bool, at string) (dsl.Node, error) {
	n := dsl.Number()
	if im.opts.Coerce {
		n = n.Coerce()
	}
	if integer {
		n = n.Int()
	}
	// OpenAPI 3.0 spells exclusive bounds as booleans next to minimum/maximum.
	exclMin, _ := doc["exclusiveMinimum"].(bool)
	exclMax, _ := doc["exclusiveMaximum"].(bool)
	if v, ok := floatOf(doc["minimum"]); ok {
		if exclMin {
			n = n.Gt(v)
		} else {
			n = n.Min(v)
		}
	}
	if v, ok := floatOf(doc["maximum"]); ok {
		if exclMax {
			n = n.Lt(v)
		} else {
			n = n.Max(v)
		}
	}
	if v, ok := floatOf(doc["exclusiveMinimum"]); ok {
		n = n.Gt(v)
	}
	if v, ok := floatOf(doc["exclusiveMaximum"]); ok {
		n = n.Lt(v)
	}
	if v, ok := floatOf(doc["multipleOf"]); ok {
		if v <= 0 {
			return nil, fmt.Errorf("%w: %s: multipleOf must be positive", ErrUnsupported, pointerOr(at))
		}
		n = n.MultipleOf(v)
	}
	return n, nil
}

func (im *importer) objectNode(doc map[string]any, at string) (dsl.Node, error) {
	o := dsl.Object()
	switch im.opts.Unknown {
	case formskema.UnknownStrict:
		o = o.Strict()
	case formskema.UnknownPassthrough:
		o = o.Passthrough()
	}
	switch ap := doc["additionalProperties"].(type) {
	case bool:
		if ap {
			o = o.Passthrough()
		} else {
			o = o.Strict()
		}
	case map[string]any:
		im.d.warnf("%s: additionalProperties as schema is treated as passthrough", pointerOr(at))
		o = o.Passthrough()
	}
	if pres, ok := doc["x-kubernetes-preserve-unknown-fields"].(bool); ok && pres {
		o = o.Passthrough()
	}

	props, _ := doc["properties"].(map[string]any)
	required := map[string]bool{}
	if req, ok := doc["required"].([]any); ok {
		for _, r := range req {
			if s, ok := r.(string); ok {
				required[s] = true
			}
		}
	}
	for name := range required {
		if _, ok := props[name]; !ok {
			im.d.warnf("%s: required property %q is not declared", pointerOr(at), name)
		}
	}
	for _, name := range propertyOrder(doc, props) {
		ps, ok := props[name].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s: property %q is not a schema", ErrUnsupported, pointerOr(at), name)
		}
		child, err := im.node(ps, at+"/properties/"+name)
		if err != nil {
			return nil, err
		}
		if !required[name] && child.Kind() != dsl.KindDefault {
			child = dsl.Optional(child)
		}
		o = o.Field(name, child)
	}
	return o, nil
}

// propertyOrder honours x-order (jsonschema.Schema.Order) and sorts the
// remaining names.
func propertyOrder(doc map[string]any, props map[string]any) []string {
	seen := make(map[string]bool, len(props))
	var out []string
	if order, ok := doc["x-order"].([]any); ok {
		for _, it := range order {
			if s, ok := it.(string); ok && !seen[s] {
				if _, declared := props[s]; declared {
					seen[s] = true
					out = append(out, s)
				}
			}
		}
	}
	var rest []string
	for k := range props {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func (im *importer) arrayNode(doc map[string]any, at string) (dsl.Node, error) {
	items, ok := doc["items"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s: array without a single items schema", ErrUnsupported, pointerOr(at))
	}
	elem, err := im.node(items, at+"/items")
	if err != nil {
		return nil, err
	}
	a := dsl.Array(elem)
	if n, ok := intOf(doc["minItems"]); ok {
		a = a.Min(n)
	}
	if n, ok := intOf(doc["maxItems"]); ok {
		a = a.Max(n)
	}
	if u, _ := doc["uniqueItems"].(bool); u {
		im.d.warnf("%s: uniqueItems is not checked; use rules.UniqueBy", pointerOr(at))
	}
	return a, nil
}

func nullable(doc map[string]any) bool {
	b, _ := doc["nullable"].(bool)
	return b
}

func pointerOr(at string) string {
	if at == "" {
		return "(root)"
	}
	return at
}

func floatOf(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	}
	return 0, false
}

func intOf(v any) (int, bool) {
	f, ok := floatOf(v)
	if !ok || f < 0 || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}
