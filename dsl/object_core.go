package dsl

import (
	"context"
	"reflect"
	"sort"

	formskema "github.com/reoring/formskema"
	"github.com/reoring/formskema/i18n"
)

// validate parses declared fields in declaration order, pooling every
// field's issues, then handles unknown keys according to the policy.
func (o ObjectSchema) validate(ctx context.Context, in any, path formskema.Path) (any, formskema.Issues) {
	if formskema.IsUndefined(in) {
		return nil, formskema.Issues{requiredIssue(path)}
	}
	src, ok := asRecord(in)
	if !ok {
		return nil, formskema.Issues{typeIssue(path, "object", in)}
	}
	out := make(map[string]any, len(o.keys))
	var iss formskema.Issues
	for _, k := range o.keys {
		raw, present := src[k]
		if !present {
			raw = formskema.Undefined
		}
		v, fi := validate(ctx, o.fields[k], raw, path.Field(k))
		if len(fi) > 0 {
			iss = formskema.AppendIssues(iss, fi...)
			continue
		}
		// absent optional fields stay absent in the record
		if formskema.IsUndefined(v) {
			continue
		}
		out[k] = v
	}
	if ui := o.collectUnknown(src, out, path); len(ui) > 0 {
		iss = formskema.AppendIssues(iss, ui...)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// collectUnknown processes unknown keys in key-sorted order and may write into
// out for passthrough.
func (o ObjectSchema) collectUnknown(src map[string]any, out map[string]any, path formskema.Path) formskema.Issues {
	if o.policy == formskema.UnknownStrip {
		return nil
	}
	uks := make([]string, 0, len(src))
	for k := range src {
		if _, known := o.fields[k]; !known {
			uks = append(uks, k)
		}
	}
	sort.Strings(uks)
	var iss formskema.Issues
	for _, k := range uks {
		switch o.policy {
		case formskema.UnknownStrict:
			params := map[string]any{"key": k}
			iss = formskema.AppendIssues(iss, formskema.Issue{Path: path.Field(k), Code: formskema.CodeUnknownKey, Message: i18n.T(formskema.CodeUnknownKey, stringParams(params)), Params: params})
		case formskema.UnknownPassthrough:
			if !formskema.IsUndefined(src[k]) {
				out[k] = src[k]
			}
		}
	}
	return iss
}

// asRecord accepts map[string]any directly and other string-keyed maps via
// reflection (e.g. map[string]string from form decoders).
func asRecord(in any) (map[string]any, bool) {
	switch t := in.(type) {
	case map[string]any:
		return t, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(in)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}
