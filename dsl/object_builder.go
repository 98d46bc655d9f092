package dsl

import (
	formskema "github.com/reoring/formskema"
)

// ObjectSchema validates records field by field. Fields keep declaration
// order; unknown keys follow the unknown policy (strip by default).
//
// ObjectSchema is a value: Field, Strict and friends return a new schema and
// leave the receiver untouched, so partially built objects can be reused as
// bases for several schemas.
type ObjectSchema struct {
	keys   []string
	fields map[string]Node
	policy formskema.UnknownPolicy
}

// FieldDef pairs a field name with its node, for Extend and ObjectOf.
type FieldDef struct {
	Name string
	Node Node
}

// F builds a FieldDef.
func F(name string, n Node) FieldDef { return FieldDef{Name: name, Node: n} }

// Object creates an empty object schema (UnknownStrip).
func Object() ObjectSchema {
	return ObjectSchema{fields: map[string]Node{}, policy: formskema.UnknownStrip}
}

// ObjectOf creates an object schema from field definitions.
func ObjectOf(defs ...FieldDef) ObjectSchema {
	o := Object()
	for _, d := range defs {
		o = o.Field(d.Name, d.Node)
	}
	return o
}

func (ObjectSchema) Kind() NodeKind { return KindObject }
func (ObjectSchema) sealed()        {}

func (o ObjectSchema) clone() ObjectSchema {
	out := ObjectSchema{
		keys:   make([]string, len(o.keys)),
		fields: make(map[string]Node, len(o.fields)),
		policy: o.policy,
	}
	copy(out.keys, o.keys)
	for k, v := range o.fields {
		out.fields[k] = v
	}
	return out
}

// Field returns a new schema with name bound to n. Redefining an existing
// field replaces its node in place (declaration position is kept).
func (o ObjectSchema) Field(name string, n Node) ObjectSchema {
	n = mustNode(n)
	out := o.clone()
	if _, exists := out.fields[name]; !exists {
		out.keys = append(out.keys, name)
	}
	out.fields[name] = n
	return out
}

// Strict rejects unknown keys with unknown_key issues.
func (o ObjectSchema) Strict() ObjectSchema {
	out := o.clone()
	out.policy = formskema.UnknownStrict
	return out
}

// Strip drops unknown keys from the parsed value.
func (o ObjectSchema) Strip() ObjectSchema {
	out := o.clone()
	out.policy = formskema.UnknownStrip
	return out
}

// Passthrough copies unknown keys into the parsed value unvalidated.
func (o ObjectSchema) Passthrough() ObjectSchema {
	out := o.clone()
	out.policy = formskema.UnknownPassthrough
	return out
}

// Policy returns the unknown-key policy.
func (o ObjectSchema) Policy() formskema.UnknownPolicy { return o.policy }

// Keys returns field names in declaration order.
func (o ObjectSchema) Keys() []string { return append([]string(nil), o.keys...) }

// FieldNode returns the node bound to name.
func (o ObjectSchema) FieldNode(name string) (Node, bool) {
	n, ok := o.fields[name]
	return n, ok
}

// Shape returns the fields in declaration order.
func (o ObjectSchema) Shape() []FieldDef {
	out := make([]FieldDef, len(o.keys))
	for i, k := range o.keys {
		out[i] = FieldDef{Name: k, Node: o.fields[k]}
	}
	return out
}

// KeyOf returns an enum of the field names.
func (o ObjectSchema) KeyOf() (EnumSchema, error) { return NewEnum(o.keys...) }
