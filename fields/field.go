// Package fields is the field-type catalog: typed, bidirectional
// single-attribute converters plugged into marzipan schemas.
package fields

import (
	"context"

	marzipan "github.com/marzipan-go/marzipan"
)

// Option configures a field declaration.
type Option func(*config)

type config struct {
	spec     marzipan.FieldSpec
	format   string
	asString bool

	urlCheck   func(s string, relative bool) (bool, string)
	emailCheck func(s string) bool
	relative   bool

	only    []string
	exclude []string
	many    bool
	flat    string
	prefix  string
}

func applyOptions(opts []Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Required marks the field as required during deserialization: a wholly
// absent input key is an error, an explicit null is not.
func Required() Option {
	return func(c *config) { c.spec.Required = true }
}

// Default sets the value substituted when the source attribute is null or
// missing on serialize. Default(nil) is distinct from no default at all.
func Default(v any) Option {
	return func(c *config) { c.spec.Default = v; c.spec.HasDefault = true }
}

// Attribute sets the source/target key when it differs from the field name.
// Dotted paths ("user.name") walk nested attributes on serialize.
func Attribute(path string) Option {
	return func(c *config) { c.spec.Attribute = path }
}

// Validate appends predicates run over the deserialized value.
func Validate(preds ...marzipan.FieldValidator) Option {
	return func(c *config) { c.spec.Validators = append(c.spec.Validators, preds...) }
}

// Error overrides the message recorded on conversion or validation failure.
func Error(msg string) Option {
	return func(c *config) { c.spec.ErrMsg = msg }
}

// Format sets the layout string of a temporal field, overriding the
// schema-wide DateFormat option.
func Format(layout string) Option {
	return func(c *config) { c.format = layout }
}

// AsString makes a numeric field serialize to its string representation.
func AsString() Option {
	return func(c *config) { c.asString = true }
}

// ---- base plumbing shared by the scalar kinds ----

type coerceFunc func(st *marzipan.State, v any) (any, error)

// base implements attribute resolution, default substitution, and validator
// dispatch; concrete kinds supply the two coercion directions. Coercion
// functions must not capture the field instance: Clone copies the struct
// shallowly.
type base struct {
	spec marzipan.FieldSpec
	zero any // implicit type default when no explicit Default was given
	out  coerceFunc
	in   coerceFunc
}

func newBase(c config, zero any, out, in coerceFunc) *base {
	return &base{spec: c.spec, zero: zero, out: out, in: in}
}

func (f *base) Spec() *marzipan.FieldSpec { return &f.spec }

func (f *base) Clone() marzipan.Field {
	cp := *f
	return &cp
}

func (f *base) Serialize(ctx context.Context, st *marzipan.State, source any) (any, bool, error) {
	raw, found := marzipan.Resolve(source, f.spec.SourceKey())
	if !found || raw == nil {
		return f.defaultValue(), false, nil
	}
	v, err := f.out(st, raw)
	if err != nil {
		return nil, true, f.wrap(err)
	}
	return v, true, nil
}

func (f *base) Deserialize(ctx context.Context, st *marzipan.State, v any) (any, error) {
	var out any
	if v != nil {
		var err error
		out, err = f.in(st, v)
		if err != nil {
			return nil, f.wrap(err)
		}
	}
	for _, pred := range f.spec.Validators {
		if !pred(out) {
			return nil, f.fail("Invalid value.")
		}
	}
	return out, nil
}

// serializeValue coerces a bare value, bypassing attribute resolution. List
// elements go through here.
func (f *base) serializeValue(st *marzipan.State, v any) (any, error) {
	if v == nil {
		return f.defaultValue(), nil
	}
	out, err := f.out(st, v)
	if err != nil {
		return nil, f.wrap(err)
	}
	return out, nil
}

func (f *base) defaultValue() any {
	if f.spec.HasDefault {
		return f.spec.Default
	}
	return f.zero
}

// wrap attaches the field name and applies the Error override.
func (f *base) wrap(err error) error {
	ce, ok := err.(*marzipan.ConversionError)
	if !ok {
		ce = &marzipan.ConversionError{Message: err.Error(), Cause: err}
	}
	ce.FieldName = f.spec.Name
	if f.spec.ErrMsg != "" {
		ce.Message = f.spec.ErrMsg
	}
	return ce
}

func (f *base) fail(msg string) error {
	if f.spec.ErrMsg != "" {
		msg = f.spec.ErrMsg
	}
	return &marzipan.ConversionError{FieldName: f.spec.Name, Message: msg}
}

type valueSerializer interface {
	serializeValue(st *marzipan.State, v any) (any, error)
}

// identity passes values through unchanged.
func identity(st *marzipan.State, v any) (any, error) { return v, nil }

// Raw passes values through unchanged in both directions.
func Raw(opts ...Option) marzipan.Field {
	c := applyOptions(opts)
	return newBase(c, nil, identity, identity)
}
