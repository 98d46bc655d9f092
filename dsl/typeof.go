package dsl

import (
	"fmt"
	"strconv"
	"strings"

	formskema "github.com/reoring/formskema"
)

// TypeKind is the base kind of a derived output type.
type TypeKind int

const (
	TypeString TypeKind = iota
	TypeNumber
	TypeInteger
	TypeBoolean
	TypeDate
	TypeEnum
	TypeObject
	TypeArray
)

// Type is the static output type derived from a node's shape.
type Type struct {
	Kind     TypeKind
	Optional bool        // may be absent
	Nullable bool        // may be null
	Literals []string    // TypeEnum
	Fields   []FieldType // TypeObject, declaration order
	Open     bool        // TypeObject with passthrough keys
	Elem     *Type       // TypeArray
}

// FieldType is one property of an object type.
type FieldType struct {
	Name string
	Type Type
}

// Field looks up a property by name.
func (t Type) Field(name string) (Type, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return Type{}, false
}

// TypeOf maps a node to its output type. The mapping is structural and
// deterministic: wrappers adjust flags, Preprocess and refinements are
// transparent, Default removes absence.
func TypeOf(n Node) Type {
	switch s := n.(type) {
	case StringSchema:
		return Type{Kind: TypeString}
	case NumberSchema:
		if s.integer {
			return Type{Kind: TypeInteger}
		}
		return Type{Kind: TypeNumber}
	case BoolSchema:
		return Type{Kind: TypeBoolean}
	case DateSchema:
		return Type{Kind: TypeDate}
	case EnumSchema:
		return Type{Kind: TypeEnum, Literals: s.Values()}
	case OptionalSchema:
		t := TypeOf(s.inner)
		t.Optional = true
		return t
	case NullableSchema:
		t := TypeOf(s.inner)
		t.Nullable = true
		return t
	case DefaultSchema:
		t := TypeOf(s.inner)
		t.Optional = false
		return t
	case PreprocessSchema:
		return TypeOf(s.inner)
	case RefinedSchema:
		return TypeOf(s.inner)
	case ObjectSchema:
		t := Type{Kind: TypeObject, Fields: make([]FieldType, len(s.keys)), Open: s.policy == formskema.UnknownPassthrough}
		for i, k := range s.keys {
			t.Fields[i] = FieldType{Name: k, Type: TypeOf(s.fields[k])}
		}
		return t
	case ArraySchema:
		e := TypeOf(s.elem)
		return Type{Kind: TypeArray, Elem: &e}
	default:
		panic(fmt.Sprintf("dsl: unsupported schema node %T", n))
	}
}

// String renders a TypeScript-like declaration, e.g.
// { amount: number; gender?: "male" | "female" }.
func (t Type) String() string {
	s := t.base()
	if t.Nullable {
		s += " | null"
	}
	if t.Optional {
		s += " | undefined"
	}
	return s
}

func (t Type) base() string {
	switch t.Kind {
	case TypeString:
		return "string"
	case TypeNumber, TypeInteger:
		return "number"
	case TypeBoolean:
		return "boolean"
	case TypeDate:
		return "Date"
	case TypeEnum:
		q := make([]string, len(t.Literals))
		for i, l := range t.Literals {
			q[i] = strconv.Quote(l)
		}
		return strings.Join(q, " | ")
	case TypeArray:
		e := t.Elem.String()
		if strings.Contains(e, " | ") {
			e = "(" + e + ")"
		}
		return e + "[]"
	case TypeObject:
		if len(t.Fields) == 0 {
			return "{}"
		}
		b := &strings.Builder{}
		b.WriteString("{ ")
		for i, f := range t.Fields {
			if i > 0 {
				b.WriteString("; ")
			}
			b.WriteString(f.Name)
			ft := f.Type
			if ft.Optional {
				b.WriteString("?")
				ft.Optional = false
			}
			b.WriteString(": ")
			b.WriteString(ft.String())
		}
		if t.Open {
			b.WriteString("; [key: string]: unknown")
		}
		b.WriteString(" }")
		return b.String()
	}
	return "unknown"
}
