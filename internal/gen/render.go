// Package gen renders Go declarations for derived schema types. Generated
// structs always satisfy dsl.Bind for the schema they were rendered from.
package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/reoring/formskema/dsl"
)

// Decl names a top-level type to render.
type Decl struct {
	Name string
	Type dsl.Type
}

// File is the input of RenderFile.
type File struct {
	Package string
	Decls   []Decl
}

type renderer struct {
	out      bytes.Buffer
	needTime bool
	queue    []Decl
	seen     map[string]bool
}

// RenderFile renders gofmt-formatted Go source declaring one struct per
// object decl; nested objects become their own types named Parent+Field.
func RenderFile(f File) ([]byte, error) {
	if f.Package == "" {
		return nil, fmt.Errorf("gen: package name required")
	}
	r := &renderer{seen: map[string]bool{}}
	r.queue = append(r.queue, f.Decls...)
	var body bytes.Buffer
	for len(r.queue) > 0 {
		d := r.queue[0]
		r.queue = r.queue[1:]
		if r.seen[d.Name] {
			return nil, fmt.Errorf("gen: duplicate type name %s", d.Name)
		}
		r.seen[d.Name] = true
		r.out.Reset()
		if err := r.decl(d); err != nil {
			return nil, err
		}
		body.Write(r.out.Bytes())
	}

	var src bytes.Buffer
	src.WriteString("// Code generated by formskema; DO NOT EDIT.\n\n")
	fmt.Fprintf(&src, "package %s\n\n", f.Package)
	if r.needTime {
		src.WriteString("import \"time\"\n\n")
	}
	src.Write(body.Bytes())
	out, err := format.Source(src.Bytes())
	if err != nil {
		return nil, fmt.Errorf("gen: format: %w", err)
	}
	return out, nil
}

func (r *renderer) decl(d Decl) error {
	t := d.Type
	t.Optional, t.Nullable = false, false
	if t.Kind != dsl.TypeObject {
		typ, err := r.goType(d.Name, t)
		if err != nil {
			return err
		}
		fmt.Fprintf(&r.out, "type %s %s\n\n", d.Name, typ)
		return nil
	}
	fmt.Fprintf(&r.out, "type %s struct {\n", d.Name)
	used := map[string]bool{}
	for _, f := range t.Fields {
		name := GoName(f.Name)
		for used[name] {
			name += "_"
		}
		used[name] = true
		typ, err := r.goType(d.Name+name, f.Type)
		if err != nil {
			return fmt.Errorf("gen: %s.%s: %w", d.Name, f.Name, err)
		}
		if f.Type.Kind == dsl.TypeEnum {
			fmt.Fprintf(&r.out, "\t// one of %s\n", strings.Join(f.Type.Literals, ", "))
		}
		tag := f.Name
		if f.Type.Optional {
			tag += ",omitempty"
		}
		fmt.Fprintf(&r.out, "\t%s %s `json:%s`\n", name, typ, strconv.Quote(tag))
	}
	r.out.WriteString("}\n\n")
	return nil
}

// goType maps t to a Go type expression following the dsl.Bind rules:
// absent or null values become pointers unless the type is a slice.
func (r *renderer) goType(nested string, t dsl.Type) (string, error) {
	var base string
	switch t.Kind {
	case dsl.TypeString, dsl.TypeEnum:
		base = "string"
	case dsl.TypeNumber:
		base = "float64"
	case dsl.TypeInteger:
		base = "int64"
	case dsl.TypeBoolean:
		base = "bool"
	case dsl.TypeDate:
		r.needTime = true
		base = "time.Time"
	case dsl.TypeArray:
		elem, err := r.goType(nested+"Item", *t.Elem)
		if err != nil {
			return "", err
		}
		return "[]" + elem, nil
	case dsl.TypeObject:
		sub := t
		sub.Optional, sub.Nullable = false, false
		r.queue = append(r.queue, Decl{Name: nested, Type: sub})
		base = nested
	default:
		return "", fmt.Errorf("unsupported type kind %d", t.Kind)
	}
	if t.Optional || t.Nullable {
		return "*" + base, nil
	}
	return base, nil
}

var initialisms = map[string]string{"id": "ID", "url": "URL", "uri": "URI", "api": "API", "http": "HTTP", "json": "JSON"}

// GoName converts an external key ("jointBirthdate", "first_name",
// "user-id") into an exported Go identifier.
func GoName(key string) string {
	parts := strings.FieldsFunc(key, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) })
	var b strings.Builder
	for _, p := range parts {
		for _, w := range splitCamel(p) {
			if up, ok := initialisms[strings.ToLower(w)]; ok {
				b.WriteString(up)
				continue
			}
			rs := []rune(w)
			rs[0] = unicode.ToUpper(rs[0])
			b.WriteString(string(rs))
		}
	}
	name := b.String()
	if name == "" {
		return "Field"
	}
	if unicode.IsDigit([]rune(name)[0]) {
		name = "F" + name
	}
	return name
}

func splitCamel(s string) []string {
	var out []string
	start := 0
	rs := []rune(s)
	for i := 1; i < len(rs); i++ {
		if unicode.IsUpper(rs[i]) && !unicode.IsUpper(rs[i-1]) {
			out = append(out, string(rs[start:i]))
			start = i
		}
	}
	return append(out, string(rs[start:]))
}

// SortedDecls returns decls ordered by name.
func SortedDecls(m map[string]dsl.Type) []Decl {
	out := make([]Decl, 0, len(m))
	for k, v := range m {
		out = append(out, Decl{Name: k, Type: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
