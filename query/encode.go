package query

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"time"

	formskema "github.com/reoring/formskema"
	"github.com/reoring/formskema/codec"
)

// EncodeOptions controls Encode.
type EncodeOptions struct {
	// DropWhen removes a key when its predicate holds for the whole record,
	// e.g. clearing joint-annuitant fields unless payoutType is joint-life.
	DropWhen map[string]func(record map[string]any) bool
	// DateOnly formats dates as YYYY-MM-DD instead of the ISO timestamp.
	DateOnly bool
}

// Encode serialises a validated record into query values. Absent and null
// values are omitted, arrays become repeated keys and dates use
// codec.FormatDate.
func Encode(record map[string]any, opts EncodeOptions) (url.Values, error) {
	out := url.Values{}
	for k, v := range record {
		if drop := opts.DropWhen[k]; drop != nil && drop(record) {
			continue
		}
		if err := encodeValue(out, k, v, opts); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// EncodeString is Encode followed by url.Values.Encode (keys sorted).
func EncodeString(record map[string]any, opts EncodeOptions) (string, error) {
	v, err := Encode(record, opts)
	if err != nil {
		return "", err
	}
	return v.Encode(), nil
}

func encodeValue(out url.Values, key string, v any, opts EncodeOptions) error {
	if v == nil || formskema.IsUndefined(v) {
		return nil
	}
	if items, ok := v.([]any); ok {
		for _, it := range items {
			s, ok, err := scalar(it, opts)
			if err != nil {
				return fmt.Errorf("query: %s: %w", key, err)
			}
			if ok {
				out.Add(key, s)
			}
		}
		return nil
	}
	s, ok, err := scalar(v, opts)
	if err != nil {
		return fmt.Errorf("query: %s: %w", key, err)
	}
	if ok {
		out.Set(key, s)
	}
	return nil
}

func scalar(v any, opts EncodeOptions) (string, bool, error) {
	if v == nil || formskema.IsUndefined(v) {
		return "", false, nil
	}
	switch t := v.(type) {
	case string:
		return t, true, nil
	case bool:
		return strconv.FormatBool(t), true, nil
	case time.Time:
		if opts.DateOnly {
			return codec.FormatDateOnly(t), true, nil
		}
		return codec.FormatDate(t), true, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true, nil
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), true, nil
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true, nil
	}
	return "", false, fmt.Errorf("unsupported value %T", v)
}
