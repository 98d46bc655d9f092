package dsl

import (
	"errors"
	"fmt"
)

var (
	// ErrNotObject is returned when a derivation is applied to a node that is
	// not an object (optionally wrapped in Optional/Nullable).
	ErrNotObject = errors.New("dsl: derivation requires an object schema")
	// ErrUnknownField is returned when a derivation names a field the object
	// does not declare.
	ErrUnknownField = errors.New("dsl: unknown field")
)

func unknownFieldErr(op, name string) error {
	return fmt.Errorf("%w %q in %s", ErrUnknownField, name, op)
}

func (o ObjectSchema) checkKnown(op string, names []string) error {
	for _, n := range names {
		if _, ok := o.fields[n]; !ok {
			return unknownFieldErr(op, n)
		}
	}
	return nil
}

func nameSet(names []string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

// Pick returns a new object restricted to names, in declaration order.
func (o ObjectSchema) Pick(names ...string) (ObjectSchema, error) {
	if err := o.checkKnown("pick", names); err != nil {
		return ObjectSchema{}, err
	}
	keep := nameSet(names)
	out := ObjectSchema{fields: make(map[string]Node, len(keep)), policy: o.policy}
	for _, k := range o.keys {
		if _, ok := keep[k]; ok {
			out.keys = append(out.keys, k)
			out.fields[k] = o.fields[k]
		}
	}
	return out, nil
}

// Omit returns a new object without names. Names the object does not declare
// are ignored.
func (o ObjectSchema) Omit(names ...string) ObjectSchema {
	drop := nameSet(names)
	out := ObjectSchema{fields: make(map[string]Node, len(o.fields)), policy: o.policy}
	for _, k := range o.keys {
		if _, ok := drop[k]; ok {
			continue
		}
		out.keys = append(out.keys, k)
		out.fields[k] = o.fields[k]
	}
	return out
}

// Partial wraps the targeted fields (all when none are given) in Optional.
// Fields that are already Optional are left as they are.
func (o ObjectSchema) Partial(targets ...string) (ObjectSchema, error) {
	return o.mapFields("partial", targets, func(n Node) Node {
		if _, ok := n.(OptionalSchema); ok {
			return n
		}
		return Optional(n)
	})
}

// Required removes one Optional or Nullable layer from the targeted fields
// (all when none are given).
func (o ObjectSchema) Required(targets ...string) (ObjectSchema, error) {
	return o.mapFields("required", targets, func(n Node) Node {
		switch w := n.(type) {
		case OptionalSchema:
			return w.inner
		case NullableSchema:
			return w.inner
		}
		return n
	})
}

func (o ObjectSchema) mapFields(op string, targets []string, f func(Node) Node) (ObjectSchema, error) {
	if err := o.checkKnown(op, targets); err != nil {
		return ObjectSchema{}, err
	}
	out := o.clone()
	if len(targets) == 0 {
		targets = o.keys
	}
	for _, k := range targets {
		out.fields[k] = f(o.fields[k])
	}
	return out, nil
}

// Merge returns the union of both field sets. On collision b's node wins and
// keeps o's position; b's new fields follow. The unknown policy comes from b.
func (o ObjectSchema) Merge(b ObjectSchema) ObjectSchema {
	out := o.clone()
	for _, k := range b.keys {
		if _, exists := out.fields[k]; !exists {
			out.keys = append(out.keys, k)
		}
		out.fields[k] = b.fields[k]
	}
	out.policy = b.policy
	return out
}

// Extend adds or replaces fields, keeping o's unknown policy.
func (o ObjectSchema) Extend(defs ...FieldDef) ObjectSchema {
	out := o.clone()
	for _, d := range defs {
		out = out.Field(d.Name, d.Node)
	}
	return out
}

// MustPick is like Pick but panics on error.
func (o ObjectSchema) MustPick(names ...string) ObjectSchema {
	out, err := o.Pick(names...)
	if err != nil {
		panic(err)
	}
	return out
}

// MustPartial is like Partial but panics on error.
func (o ObjectSchema) MustPartial(targets ...string) ObjectSchema {
	out, err := o.Partial(targets...)
	if err != nil {
		panic(err)
	}
	return out
}

// MustRequired is like Required but panics on error.
func (o ObjectSchema) MustRequired(targets ...string) ObjectSchema {
	out, err := o.Required(targets...)
	if err != nil {
		panic(err)
	}
	return out
}

// ---- node-level derivations ----

// peelObject unwraps Optional/Nullable layers down to an object and returns a
// function that re-applies them.
func peelObject(n Node) (ObjectSchema, func(Node) Node, error) {
	var wraps []func(Node) Node
	for {
		switch s := n.(type) {
		case ObjectSchema:
			rewrap := func(x Node) Node {
				for i := len(wraps) - 1; i >= 0; i-- {
					x = wraps[i](x)
				}
				return x
			}
			return s, rewrap, nil
		case OptionalSchema:
			wraps = append(wraps, func(x Node) Node { return Optional(x) })
			n = s.inner
		case NullableSchema:
			wraps = append(wraps, func(x Node) Node { return Nullable(x) })
			n = s.inner
		default:
			return ObjectSchema{}, nil, fmt.Errorf("%w (got %T)", ErrNotObject, n)
		}
	}
}

func deriveNode(n Node, f func(ObjectSchema) (ObjectSchema, error)) (Node, error) {
	obj, rewrap, err := peelObject(n)
	if err != nil {
		return nil, err
	}
	out, err := f(obj)
	if err != nil {
		return nil, err
	}
	return rewrap(out), nil
}

// Pick derives a node from n (an object, possibly Optional/Nullable-wrapped)
// restricted to names.
func Pick(n Node, names ...string) (Node, error) {
	return deriveNode(n, func(o ObjectSchema) (ObjectSchema, error) { return o.Pick(names...) })
}

// Omit derives a node from n without names.
func Omit(n Node, names ...string) (Node, error) {
	return deriveNode(n, func(o ObjectSchema) (ObjectSchema, error) { return o.Omit(names...), nil })
}

// Partial derives a node from n whose targeted fields are optional.
func Partial(n Node, targets ...string) (Node, error) {
	return deriveNode(n, func(o ObjectSchema) (ObjectSchema, error) { return o.Partial(targets...) })
}

// Required derives a node from n whose targeted fields lose one
// Optional/Nullable layer.
func Required(n Node, targets ...string) (Node, error) {
	return deriveNode(n, func(o ObjectSchema) (ObjectSchema, error) { return o.Required(targets...) })
}

// Merge derives a node with the fields of a and b; b wins on collision. The
// wrappers of a are re-applied to the result.
func Merge(a, b Node) (Node, error) {
	bo, _, err := peelObject(b)
	if err != nil {
		return nil, err
	}
	return deriveNode(a, func(o ObjectSchema) (ObjectSchema, error) { return o.Merge(bo), nil })
}

// Extend derives a node from n with additional or replaced fields.
func Extend(n Node, defs ...FieldDef) (Node, error) {
	return deriveNode(n, func(o ObjectSchema) (ObjectSchema, error) { return o.Extend(defs...), nil })
}
