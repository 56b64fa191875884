package fields

import (
	"encoding/json"
	"reflect"
	"strconv"

	marzipan "github.com/marzipan-go/marzipan"
)

// Int coerces string-or-number input, truncating fractional parts.
func Int(opts ...Option) marzipan.Field {
	c := applyOptions(opts)
	coerce := func(st *marzipan.State, v any) (any, error) {
		f, err := toFloat(v)
		if err != nil {
			return nil, marzipan.Convf("'%v' cannot be interpreted as an integer.", v)
		}
		return int64(f), nil
	}
	return newBase(c, int64(0), coerce, coerce)
}

// Float coerces string-or-number input to float64. With AsString the
// serialized value is the decimal string representation.
func Float(opts ...Option) marzipan.Field {
	c := applyOptions(opts)
	asString := c.asString
	out := func(st *marzipan.State, v any) (any, error) {
		f, err := toFloat(v)
		if err != nil {
			return nil, marzipan.Convf("'%v' cannot be interpreted as a number.", v)
		}
		if asString {
			return strconv.FormatFloat(f, 'g', -1, 64), nil
		}
		return f, nil
	}
	in := func(st *marzipan.State, v any) (any, error) {
		f, err := toFloat(v)
		if err != nil {
			return nil, marzipan.Convf("'%v' cannot be interpreted as a number.", v)
		}
		return f, nil
	}
	return newBase(c, float64(0), out, in)
}

// Fixed formats numbers as fixed-point decimal strings.
func Fixed(decimals int, opts ...Option) marzipan.Field {
	c := applyOptions(opts)
	coerce := func(st *marzipan.State, v any) (any, error) {
		f, err := toFloat(v)
		if err != nil {
			return nil, marzipan.Convf("'%v' cannot be interpreted as a number.", v)
		}
		return strconv.FormatFloat(f, 'f', decimals, 64), nil
	}
	return newBase(c, nil, coerce, coerce)
}

// Price is a two-decimal Fixed field.
func Price(opts ...Option) marzipan.Field {
	return Fixed(2, opts...)
}

// toFloat widens any numeric kind, json.Number, or numeric string.
func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case string:
		return strconv.ParseFloat(n, 64)
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	}
	return 0, strconv.ErrSyntax
}
