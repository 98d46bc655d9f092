package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	j "github.com/goccy/go-json"

	formskema "github.com/reoring/formskema"
)

// ErrTrailingData is returned when a JSON document is followed by more tokens.
var ErrTrailingData = errors.New("source: trailing data after JSON value")

// Option configures decoding.
type Option func(*options)

type options struct {
	allowDuplicates bool
}

// AllowDuplicateKeys keeps the last value of a repeated object key instead of
// reporting it.
func AllowDuplicateKeys() Option { return func(o *options) { o.allowDuplicates = true } }

// JSON decodes a single JSON document into engine values: objects become
// map[string]any, arrays []any, and numbers json.Number so that no precision
// is lost before a Number schema sees them. Repeated object keys are reported
// as formskema.Issues with code duplicate at the offending key.
func JSON(b []byte, opts ...Option) (any, error) {
	return JSONReader(bytes.NewReader(b), opts...)
}

// JSONReader is like JSON but reads from r.
func JSONReader(r io.Reader, opts ...Option) (any, error) {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	dec := j.NewDecoder(r)
	dec.UseNumber()
	d := &decoder{dec: dec, opts: o}
	v, err := d.value(nil)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, ErrTrailingData
	}
	if len(d.dups) > 0 {
		return nil, d.dups
	}
	return v, nil
}

type decoder struct {
	dec  *j.Decoder
	opts options
	dups formskema.Issues
}

func (d *decoder) value(path formskema.Path) (any, error) {
	tok, err := d.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			return d.object(path)
		case '[':
			return d.array(path)
		}
		return nil, fmt.Errorf("source: unexpected delimiter %q at %s", rune(v), path.Pointer())
	case j.Number:
		return json.Number(v), nil
	case string, bool, nil:
		return v, nil
	case float64:
		return v, nil
	}
	return nil, fmt.Errorf("source: unexpected token %T at %s", tok, path.Pointer())
}

func (d *decoder) object(path formskema.Path) (any, error) {
	out := map[string]any{}
	for d.dec.More() {
		tok, err := d.dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("source: expected object key at %s", path.Pointer())
		}
		v, err := d.value(path.Field(key))
		if err != nil {
			return nil, err
		}
		if _, dup := out[key]; dup && !d.opts.allowDuplicates {
			d.dups = append(d.dups, formskema.IssueAt(path.Field(key), formskema.CodeDuplicate, "duplicate key "+key, "key", key))
			continue
		}
		out[key] = v
	}
	if _, err := d.dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *decoder) array(path formskema.Path) (any, error) {
	out := []any{}
	for i := 0; d.dec.More(); i++ {
		v, err := d.value(path.Index(i))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if _, err := d.dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}
