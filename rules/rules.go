// Package rules provides ready-made field validators and combinators for
// the Validate option.
package rules

import (
	"reflect"
	"regexp"
	"strings"

	marzipan "github.com/marzipan-go/marzipan"
)

// And passes when every predicate passes.
func And(preds ...marzipan.FieldValidator) marzipan.FieldValidator {
	return func(v any) bool {
		for _, p := range preds {
			if !p(v) {
				return false
			}
		}
		return true
	}
}

// Or passes when at least one predicate passes.
func Or(preds ...marzipan.FieldValidator) marzipan.FieldValidator {
	return func(v any) bool {
		for _, p := range preds {
			if p(v) {
				return true
			}
		}
		return false
	}
}

// Not inverts a predicate.
func Not(pred marzipan.FieldValidator) marzipan.FieldValidator {
	return func(v any) bool { return !pred(v) }
}

// Length bounds the length of a string, slice, or map. A max of -1 leaves
// the upper bound open.
func Length(min, max int) marzipan.FieldValidator {
	return func(v any) bool {
		n, ok := lengthOf(v)
		if !ok {
			return false
		}
		if n < min {
			return false
		}
		return max < 0 || n <= max
	}
}

// Range bounds a numeric value inclusively.
func Range(min, max float64) marzipan.FieldValidator {
	return func(v any) bool {
		f, ok := numberOf(v)
		return ok && f >= min && f <= max
	}
}

// Min bounds a numeric value from below.
func Min(min float64) marzipan.FieldValidator {
	return func(v any) bool {
		f, ok := numberOf(v)
		return ok && f >= min
	}
}

// Max bounds a numeric value from above.
func Max(max float64) marzipan.FieldValidator {
	return func(v any) bool {
		f, ok := numberOf(v)
		return ok && f <= max
	}
}

// OneOf restricts a value to a fixed set.
func OneOf(choices ...any) marzipan.FieldValidator {
	return func(v any) bool {
		for _, c := range choices {
			if v == c {
				return true
			}
		}
		return false
	}
}

// NoneOf rejects a fixed set of values.
func NoneOf(choices ...any) marzipan.FieldValidator {
	return Not(OneOf(choices...))
}

// Matches requires a string value to match the pattern. The pattern is
// compiled once, at declaration time.
func Matches(pattern string) marzipan.FieldValidator {
	re := regexp.MustCompile(pattern)
	return func(v any) bool {
		s, ok := v.(string)
		return ok && re.MatchString(s)
	}
}

// NotBlank rejects empty and whitespace-only strings.
func NotBlank() marzipan.FieldValidator {
	return func(v any) bool {
		s, ok := v.(string)
		return ok && strings.TrimSpace(s) != ""
	}
}

// ---- helpers ----

func lengthOf(v any) (int, bool) {
	switch t := v.(type) {
	case string:
		return len(t), true
	case []any:
		return len(t), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}

func numberOf(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int64:
		return float64(t), true
	case int:
		return float64(t), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
