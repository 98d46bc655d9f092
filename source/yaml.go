package source

import (
	"bytes"
	"errors"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	formskema "github.com/reoring/formskema"
)

// YAML decodes the first document of b into engine values. Mappings become
// map[string]any, integers int64 and floats float64. Repeated mapping keys are
// reported like JSON duplicates, with the line of both occurrences in Params.
func YAML(b []byte, opts ...Option) (any, error) {
	docs, err := yamlDocuments(b, 1, opts)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, io.ErrUnexpectedEOF
	}
	return docs[0], nil
}

// YAMLDocuments decodes every document of a multi-document stream.
func YAMLDocuments(b []byte, opts ...Option) ([]any, error) { return yamlDocuments(b, -1, opts) }

func yamlDocuments(b []byte, limit int, opts []Option) ([]any, error) {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	var out []any
	for limit < 0 || len(out) < limit {
		var root yaml.Node
		if err := dec.Decode(&root); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		c := &yamlConverter{opts: o}
		v := c.value(&root, nil)
		if len(c.dups) > 0 {
			return nil, c.dups
		}
		out = append(out, v)
	}
	return out, nil
}

type yamlConverter struct {
	opts options
	dups formskema.Issues
}

func (c *yamlConverter) value(n *yaml.Node, path formskema.Path) any {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil
		}
		return c.value(n.Content[0], path)
	case yaml.AliasNode:
		return c.value(n.Alias, path)
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		firstLine := make(map[string]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			key := k.Value
			if line, dup := firstLine[key]; dup && !c.opts.allowDuplicates {
				c.dups = append(c.dups, formskema.IssueAt(path.Field(key), formskema.CodeDuplicate,
					"duplicate key "+key, "key", key, "line", k.Line, "firstLine", line))
				continue
			}
			firstLine[key] = k.Line
			m[key] = c.value(v, path.Field(key))
		}
		return m
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for i, it := range n.Content {
			arr = append(arr, c.value(it, path.Index(i)))
		}
		return arr
	case yaml.ScalarNode:
		return scalarValue(n)
	}
	return nil
}

func scalarValue(n *yaml.Node) any {
	switch n.ShortTag() {
	case "!!null":
		return nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return b
		}
	case "!!int":
		if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
			return i
		}
		var i int64
		if err := n.Decode(&i); err == nil {
			return i
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			return f
		}
	}
	return n.Value
}
