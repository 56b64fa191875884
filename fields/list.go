package fields

import (
	"context"
	"reflect"

	marzipan "github.com/marzipan-go/marzipan"
)

// List applies an element field to every item of a sequence attribute. A
// null or missing source serializes to an empty slice unless a Default
// overrides it.
func List(elem marzipan.Field, opts ...Option) marzipan.Field {
	c := applyOptions(opts)
	return &listField{spec: c.spec, elem: elem}
}

type listField struct {
	spec marzipan.FieldSpec
	elem marzipan.Field
}

func (f *listField) Spec() *marzipan.FieldSpec { return &f.spec }

func (f *listField) Clone() marzipan.Field {
	cp := *f
	cp.elem = f.elem.Clone()
	return &cp
}

// CheckDefinition rejects a list declared without an element field.
func (f *listField) CheckDefinition() error {
	if f.elem == nil {
		return marzipan.Definitionf("list field %q has no element field", f.spec.Name)
	}
	return nil
}

func (f *listField) Serialize(ctx context.Context, st *marzipan.State, source any) (any, bool, error) {
	raw, found := marzipan.Resolve(source, f.spec.SourceKey())
	if !found || raw == nil {
		if f.spec.HasDefault {
			return f.spec.Default, false, nil
		}
		return []any{}, false, nil
	}
	items, err := sequenceItems(raw)
	if err != nil {
		return nil, true, &marzipan.ConversionError{FieldName: f.spec.Name, Message: err.Error(), Cause: err}
	}
	out := make([]any, 0, len(items))
	for _, item := range items {
		v, err := f.serializeItem(ctx, st, item)
		if err != nil {
			return nil, true, f.wrap(err)
		}
		out = append(out, v)
	}
	return out, true, nil
}

func (f *listField) Deserialize(ctx context.Context, st *marzipan.State, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	items, err := sequenceItems(v)
	if err != nil {
		return nil, f.wrap(err)
	}
	out := make([]any, 0, len(items))
	for _, item := range items {
		dv, err := f.elem.Deserialize(ctx, st, item)
		if err != nil {
			return nil, f.wrap(err)
		}
		out = append(out, dv)
	}
	for _, pred := range f.spec.Validators {
		if !pred(out) {
			return nil, f.wrap(&marzipan.ConversionError{Message: "Invalid value."})
		}
	}
	return out, nil
}

// serializeItem coerces one element as a bare value: scalar kinds expose
// serializeValue, anything else goes through Serialize against a one-key map.
func (f *listField) serializeItem(ctx context.Context, st *marzipan.State, item any) (any, error) {
	if vs, ok := f.elem.(valueSerializer); ok {
		return vs.serializeValue(st, item)
	}
	v, _, err := f.elem.Serialize(ctx, st, map[string]any{f.elem.Spec().SourceKey(): item})
	return v, err
}

func (f *listField) wrap(err error) error {
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

func sequenceItems(v any) ([]any, error) {
	if items, ok := v.([]any); ok {
		return items, nil
	}
	rv := reflect.ValueOf(v)
	if k := rv.Kind(); k != reflect.Slice && k != reflect.Array {
		return nil, marzipan.Convf("'%v' is not a sequence", v)
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, nil
}
