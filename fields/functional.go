package fields

import (
	"context"

	marzipan "github.com/marzipan-go/marzipan"
)

// MethodFunc computes a value from the owning schema instance and the
// object being dumped. The schema's shared context is reachable through the
// instance.
type MethodFunc func(s *marzipan.Schema, obj any) (any, error)

// FunctionFunc computes a value from the object being dumped and the
// schema's shared context.
type FunctionFunc func(obj any, ctx marzipan.Context) (any, error)

// Method derives a dump-only value from the schema instance and the object.
// Evaluating it with no context set is an error naming the field.
func Method(fn MethodFunc, opts ...Option) marzipan.Field {
	c := applyOptions(opts)
	return &computedField{spec: c.spec, kind: "Method", method: fn}
}

// Function derives a dump-only value from the object and the shared
// context. Evaluating it with no context set is an error naming the field.
func Function(fn FunctionFunc, opts ...Option) marzipan.Field {
	c := applyOptions(opts)
	return &computedField{spec: c.spec, kind: "Function", fn: fn}
}

type computedField struct {
	spec   marzipan.FieldSpec
	kind   string
	method MethodFunc
	fn     FunctionFunc
}

func (f *computedField) Spec() *marzipan.FieldSpec { return &f.spec }

func (f *computedField) Clone() marzipan.Field {
	cp := *f
	return &cp
}

func (f *computedField) Serialize(ctx context.Context, st *marzipan.State, source any) (any, bool, error) {
	if st.Context == nil {
		return nil, true, &marzipan.ConversionError{
			FieldName: f.spec.Name,
			Message:   "No context available for " + f.kind + " field '" + f.spec.Name + "'",
		}
	}
	var v any
	var err error
	if f.method != nil {
		v, err = f.method(st.Schema, source)
	} else {
		v, err = f.fn(source, st.Context)
	}
	if err != nil {
		return nil, true, &marzipan.ConversionError{FieldName: f.spec.Name, Message: err.Error(), Cause: err}
	}
	return v, true, nil
}

// Deserialize passes input through unchanged: computed fields are dump-only.
func (f *computedField) Deserialize(ctx context.Context, st *marzipan.State, v any) (any, error) {
	return v, nil
}
