package fields

import (
	"fmt"
	"reflect"
	"strings"

	marzipan "github.com/marzipan-go/marzipan"
)

// String coerces any scalar to text. A missing source serializes to "".
func String(opts ...Option) marzipan.Field {
	c := applyOptions(opts)
	return newBase(c, "", coerceString, coerceString)
}

func coerceString(st *marzipan.State, v any) (any, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	case fmt.Stringer:
		return s.String(), nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%v", v), nil
	}
	return nil, marzipan.Convf("'%v' cannot be formatted as a string.", v)
}

var (
	truthy = map[string]bool{"true": true, "t": true, "1": true, "yes": true, "y": true, "on": true}
	falsey = map[string]bool{"false": true, "f": true, "0": true, "no": true, "n": true, "off": true, "": true}
)

// Bool accepts booleans, numbers, and a tolerant truthy/falsey literal set.
func Bool(opts ...Option) marzipan.Field {
	c := applyOptions(opts)
	return newBase(c, false, coerceBool, coerceBool)
}

func coerceBool(st *marzipan.State, v any) (any, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		low := strings.ToLower(strings.TrimSpace(b))
		if truthy[low] {
			return true, nil
		}
		if falsey[low] {
			return false, nil
		}
		return nil, marzipan.Convf("'%v' is not a valid boolean.", v)
	}
	if f, err := toFloat(v); err == nil {
		return f != 0, nil
	}
	return nil, marzipan.Convf("'%v' is not a valid boolean.", v)
}

// Select restricts values to a fixed choice set in both directions.
func Select(choices []any, opts ...Option) marzipan.Field {
	c := applyOptions(opts)
	check := func(st *marzipan.State, v any) (any, error) {
		for _, choice := range choices {
			if v == choice {
				return v, nil
			}
		}
		return nil, marzipan.Convf("'%v' is not a valid choice for this field.", v)
	}
	return newBase(c, nil, check, check)
}
