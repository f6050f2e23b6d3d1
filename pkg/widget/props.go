package widget

import (
	"reflect"
	"strings"
	"unicode"
)

// ChangedKeys compares two property bags and returns the keys whose values
// differ, in field order.
//
// P must be a struct (or pointer to one). A field's key is its `prop` tag, or
// the field name with a lower-case first letter; fields tagged `prop:"-"` and
// unexported fields are ignored. Values are compared shallowly: functions,
// maps, slices, pointers and channels by identity, everything else by value.
func ChangedKeys[P any](prev, next P) []string {
	pv := reflect.ValueOf(&prev).Elem()
	nv := reflect.ValueOf(&next).Elem()
	for pv.Kind() == reflect.Pointer {
		if pv.IsNil() || nv.IsNil() {
			if pv.IsNil() != nv.IsNil() {
				return allKeys(pv.Type().Elem())
			}
			return nil
		}
		pv, nv = pv.Elem(), nv.Elem()
	}
	if pv.Kind() != reflect.Struct {
		if !sameValue(pv, nv) {
			return []string{"value"}
		}
		return nil
	}

	var changed []string
	t := pv.Type()
	for i := 0; i < t.NumField(); i++ {
		key, ok := propKey(t.Field(i))
		if !ok {
			continue
		}
		if !sameValue(pv.Field(i), nv.Field(i)) {
			changed = append(changed, key)
		}
	}
	return changed
}

func allKeys(t reflect.Type) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return []string{"value"}
	}
	var keys []string
	for i := 0; i < t.NumField(); i++ {
		if key, ok := propKey(t.Field(i)); ok {
			keys = append(keys, key)
		}
	}
	return keys
}

func propKey(f reflect.StructField) (string, bool) {
	if !f.IsExported() {
		return "", false
	}
	tag := f.Tag.Get("prop")
	if tag == "-" {
		return "", false
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name, true
	}
	r := []rune(f.Name)
	r[0] = unicode.ToLower(r[0])
	return string(r), true
}

func sameValue(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Type() != b.Type() {
		return false
	}

	switch a.Kind() {
	case reflect.Func, reflect.Map, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()
	case reflect.Slice:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		return a.Len() == b.Len() && a.Pointer() == b.Pointer()
	case reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		return sameValue(a.Elem(), b.Elem())
	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if !sameValue(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Array:
		for i := 0; i < a.Len(); i++ {
			if !sameValue(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	default:
		return a.Equal(b)
	}
}
