package marzipan

import (
	"reflect"
	"strings"
)

// Getter exposes capability-based lookup for sources that are neither maps
// nor structs. The engine prefers it over reflection when implemented.
type Getter interface {
	Get(key string) (any, bool)
}

// Resolve looks up a dotted attribute path ("a.b.c") on a source value.
// Each segment is resolved by capability: Getter lookup, map key lookup, or
// struct field access via reflection. A nil source or a missing segment
// resolves to (nil, false) without erroring.
func Resolve(source any, path string) (any, bool) {
	v := source
	for _, seg := range strings.Split(path, ".") {
		var ok bool
		v, ok = resolveKey(v, seg)
		if !ok {
			return nil, false
		}
	}
	return v, true
}

func resolveKey(v any, key string) (any, bool) {
	if v == nil {
		return nil, false
	}
	if g, ok := v.(Getter); ok {
		return g.Get(key)
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		mv := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true
	case reflect.Struct:
		return resolveStructField(rv, key)
	default:
		return nil, false
	}
}

func resolveStructField(rv reflect.Value, key string) (any, bool) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.Anonymous {
			fv := rv.Field(i)
			if sf.IsExported() {
				if v, ok := resolveKey(fv.Interface(), key); ok {
					return v, true
				}
				continue
			}
			// Promoted fields are visible even through an unexported
			// embedded struct, so recurse on the reflect value: calling
			// Interface() on the embedded value itself would panic.
			for fv.Kind() == reflect.Pointer {
				if fv.IsNil() {
					fv = reflect.Value{}
					break
				}
				fv = fv.Elem()
			}
			if fv.IsValid() && fv.Kind() == reflect.Struct {
				if v, ok := resolveStructField(fv, key); ok {
					return v, true
				}
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}
		if structKey(sf) == key || strings.EqualFold(sf.Name, key) {
			return rv.Field(i).Interface(), true
		}
	}
	return nil, false
}

// structKey resolves a struct field's external key.
// Priority: marzipan:"name=..." > json tag name > field name; "-" disables.
func structKey(sf reflect.StructField) string {
	if mt := sf.Tag.Get("marzipan"); mt != "" {
		for _, p := range strings.Split(mt, ",") {
			p = strings.TrimSpace(p)
			if strings.HasPrefix(p, "name=") {
				return strings.TrimPrefix(p, "name=")
			}
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			return jt[:i]
		}
		return jt
	}
	return sf.Name
}
