package formskema

import (
	"fmt"
	"reflect"
)

// FieldKey returns the external key of the top-level field of S that
// selector addresses, resolved with ResolveStructKey. It lets refinements
// name fields through the bound struct so renames fail to compile:
//
//	FieldKey(func(a *Annuity) *string { return &a.PayoutType }) // "payoutType"
//
// FieldKey panics when selector does not return the address of an exported,
// enabled top-level field.
func FieldKey[S any, F any](selector func(*S) *F) string {
	p := FieldPath(selector)
	if len(p) != 1 {
		panic(fmt.Sprintf("formskema.FieldKey: selector must address a top-level field, got %s", p.Pointer()))
	}
	return p[0].Key
}

// FieldPath is like FieldKey but also descends into nested struct fields
// (not through pointers) and returns the full path.
func FieldPath[S any, F any](selector func(*S) *F) Path {
	if selector == nil {
		panic("formskema.FieldPath: selector must not be nil")
	}
	var zero S
	ptr := reflect.ValueOf(selector(&zero))
	keys, ok := findPathKeys(reflect.ValueOf(&zero).Elem(), ptr.Pointer(), ptr.Type().Elem(), 0)
	if !ok {
		panic("formskema.FieldPath: selector must return the address of an exported struct field")
	}
	return PathOf(keys...)
}

const maxPathDepth = 32

// findPathKeys matches on address and type: a struct field and its first
// member share an address.
func findPathKeys(v reflect.Value, target uintptr, tt reflect.Type, depth int) ([]string, bool) {
	if depth > maxPathDepth || v.Kind() != reflect.Struct {
		return nil, false
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name := ResolveStructKey(sf)
		if !sf.IsExported() || name == "" || name == "-" {
			continue
		}
		fv := v.Field(i)
		if fv.Addr().Pointer() == target && fv.Type() == tt {
			return []string{name}, true
		}
		if fv.Kind() == reflect.Struct {
			if rest, ok := findPathKeys(fv, target, tt, depth+1); ok {
				return append([]string{name}, rest...), true
			}
		}
	}
	return nil, false
}
