package formskema

import (
	"strconv"
	"strings"
)

// PathSegment is either an object key or an array index.
type PathSegment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Key returns a field-name segment.
func Key(name string) PathSegment { return PathSegment{Key: name} }

// Idx returns an array-index segment.
func Idx(i int) PathSegment { return PathSegment{Index: i, IsIndex: true} }

func (s PathSegment) String() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Key
}

// Path locates a value inside the validated input. Append helpers always copy,
// so a Path shared between sibling fields is never aliased.
type Path []PathSegment

// PathOf builds a path from field names.
func PathOf(keys ...string) Path {
	if len(keys) == 0 {
		return nil
	}
	p := make(Path, len(keys))
	for i, k := range keys {
		p[i] = Key(k)
	}
	return p
}

// Field returns a new path extended by a field name.
func (p Path) Field(name string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, Key(name))
}

// Index returns a new path extended by an array index.
func (p Path) Index(i int) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, Idx(i))
}

// Concat returns p followed by q.
func (p Path) Concat(q Path) Path {
	if len(q) == 0 {
		if len(p) == 0 {
			return nil
		}
		out := make(Path, len(p))
		copy(out, p)
		return out
	}
	out := make(Path, 0, len(p)+len(q))
	out = append(out, p...)
	return append(out, q...)
}

// Equal reports whether both paths have identical segments.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// Pointer renders the path as a JSON Pointer. The root renders as "", and
// "/" is the empty-string key.
func (p Path) Pointer() string {
	if len(p) == 0 {
		return ""
	}
	b := &strings.Builder{}
	for _, s := range p {
		b.WriteByte('/')
		if s.IsIndex {
			b.WriteString(strconv.Itoa(s.Index))
			continue
		}
		// escape '~' -> '~0', '/' -> '~1' per RFC6901
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(s.Key, "~", "~0"), "/", "~1"))
	}
	return b.String()
}

// String renders the dotted form-field key: "a.b[0].c". The root renders as "".
func (p Path) String() string {
	b := &strings.Builder{}
	for i, s := range p {
		if s.IsIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.Index))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.Key)
	}
	return b.String()
}

// ParsePointer parses a JSON Pointer. Purely numeric tokens become index
// segments.
func ParsePointer(ptr string) Path {
	if ptr == "" {
		return nil
	}
	var out Path
	for _, tok := range strings.Split(strings.TrimPrefix(ptr, "/"), "/") {
		if n, err := strconv.Atoi(tok); err == nil && n >= 0 {
			out = append(out, Idx(n))
			continue
		}
		tok = strings.ReplaceAll(strings.ReplaceAll(tok, "~1", "/"), "~0", "~")
		out = append(out, Key(tok))
	}
	return out
}

// IssueAt creates an Issue at the given path with provided code, message and
// key/value params.
func IssueAt(p Path, code, msg string, kv ...any) Issue {
	var m map[string]any
	if len(kv) >= 2 {
		m = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			if k, ok := kv[i].(string); ok {
				m[k] = kv[i+1]
			}
		}
	}
	return Issue{Path: p, Code: code, Message: msg, Params: m}
}
