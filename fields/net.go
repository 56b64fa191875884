package fields

import (
	guuid "github.com/google/uuid"

	marzipan "github.com/marzipan-go/marzipan"
	"github.com/marzipan-go/marzipan/lexical"
)

// Relative lets a URL field accept scheme-less relative references.
func Relative() Option {
	return func(c *config) { c.relative = true }
}

// URLValidator substitutes the lexical URL predicate.
func URLValidator(fn func(s string, relative bool) (bool, string)) Option {
	return func(c *config) { c.urlCheck = fn }
}

// EmailValidator substitutes the lexical email predicate.
func EmailValidator(fn func(s string) bool) Option {
	return func(c *config) { c.emailCheck = fn }
}

// URL validates URL strings in both directions. Failures suggest an explicit
// scheme when one would fix the input.
func URL(opts ...Option) marzipan.Field {
	c := applyOptions(opts)
	check := c.urlCheck
	if check == nil {
		check = lexical.URL
	}
	relative := c.relative
	coerce := func(st *marzipan.State, v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, marzipan.Convf("\"%v\" is not a valid URL.", v)
		}
		valid, suggestion := check(s, relative)
		if !valid {
			if suggestion != "" {
				return nil, marzipan.Convf("%q is not a valid URL. Did you mean: %q?", s, suggestion)
			}
			return nil, marzipan.Convf("%q is not a valid URL.", s)
		}
		return s, nil
	}
	return newBase(c, nil, coerce, coerce)
}

// Email validates email addresses in both directions.
func Email(opts ...Option) marzipan.Field {
	c := applyOptions(opts)
	check := c.emailCheck
	if check == nil {
		check = lexical.Email
	}
	coerce := func(st *marzipan.State, v any) (any, error) {
		s, ok := v.(string)
		if !ok || !check(s) {
			return nil, marzipan.Convf("%q is not a valid email address.", v)
		}
		return s, nil
	}
	return newBase(c, nil, coerce, coerce)
}

// UUID serializes UUID values to canonical strings and deserializes strings
// into uuid.UUID.
func UUID(opts ...Option) marzipan.Field {
	c := applyOptions(opts)
	out := func(st *marzipan.State, v any) (any, error) {
		u, err := toUUID(v)
		if err != nil {
			return nil, marzipan.Convf("'%v' is not a valid UUID.", v)
		}
		return u.String(), nil
	}
	in := func(st *marzipan.State, v any) (any, error) {
		u, err := toUUID(v)
		if err != nil {
			return nil, marzipan.Convf("'%v' is not a valid UUID.", v)
		}
		return u, nil
	}
	return newBase(c, nil, out, in)
}

func toUUID(v any) (guuid.UUID, error) {
	switch u := v.(type) {
	case guuid.UUID:
		return u, nil
	case string:
		return guuid.Parse(u)
	case []byte:
		return guuid.FromBytes(u)
	}
	return guuid.UUID{}, &marzipan.ConversionError{Message: "not a UUID value"}
}
