package fields

import (
	"context"
	"reflect"

	marzipan "github.com/marzipan-go/marzipan"
)

// NestedOnly restricts the embedded schema to the given fields.
func NestedOnly(names ...string) Option {
	return func(c *config) { c.only = append(c.only, names...) }
}

// NestedExclude removes fields from the embedded schema. Self-referential
// declarations use it to break the cycle.
func NestedExclude(names ...string) Option {
	return func(c *config) { c.exclude = append(c.exclude, names...) }
}

// NestedMany makes the embedded schema process a sequence of records.
func NestedMany() Option {
	return func(c *config) { c.many = true }
}

// NestedPrefix prepends a string to the embedded schema's output keys.
func NestedPrefix(p string) Option {
	return func(c *config) { c.prefix = p }
}

// Flat reduces the embedded result to the bare value of a single field
// instead of a mapping.
func Flat(name string) Option {
	return func(c *config) { c.flat = name }
}

// Nested delegates conversion of one attribute to an embedded schema built
// from def, with its own Only/Exclude/Many overrides.
func Nested(def *marzipan.Definition, opts ...Option) marzipan.Field {
	c := applyOptions(opts)
	return &nestedField{spec: c.spec, def: def, cfg: c}
}

// Self references the schema this field is declared on, enabling
// self-referential structures (an employee's employer, a node's children).
// The back-reference is resolved when the owning definition compiles.
// Callers must break the cycle with NestedExclude or NestedOnly: the engine
// does not detect infinite recursion.
func Self(opts ...Option) marzipan.Field {
	c := applyOptions(opts)
	return &nestedField{spec: c.spec, isSelf: true, cfg: c}
}

type nestedField struct {
	spec   marzipan.FieldSpec
	def    *marzipan.Definition
	isSelf bool
	cfg    config
}

func (f *nestedField) Spec() *marzipan.FieldSpec { return &f.spec }

func (f *nestedField) Clone() marzipan.Field {
	cp := *f
	return &cp
}

// BindSelf is called by Compile once the owning definition exists. It is not
// meant to be called directly.
func (f *nestedField) BindSelf(def *marzipan.Definition) {
	if f.isSelf && f.def == nil {
		f.def = def
	}
}

// CheckDefinition rejects a nested field without a schema at compile time.
func (f *nestedField) CheckDefinition() error {
	if f.def == nil {
		return marzipan.Definitionf("nested field %q has no schema definition", f.spec.Name)
	}
	return nil
}

func (f *nestedField) bindInner(st *marzipan.State) (*marzipan.Schema, error) {
	opts := []marzipan.BindOption{marzipan.WithContext(st.Context)}
	switch {
	case f.cfg.flat != "":
		opts = append(opts, marzipan.Only(f.cfg.flat))
	case len(f.cfg.only) > 0:
		opts = append(opts, marzipan.Only(f.cfg.only...))
	}
	if len(f.cfg.exclude) > 0 {
		opts = append(opts, marzipan.Exclude(f.cfg.exclude...))
	}
	if f.cfg.prefix != "" {
		opts = append(opts, marzipan.Prefix(f.cfg.prefix))
	}
	if f.cfg.many {
		opts = append(opts, marzipan.Many())
	}
	return f.def.Bind(opts...)
}

func (f *nestedField) Serialize(ctx context.Context, st *marzipan.State, source any) (any, bool, error) {
	raw, found := marzipan.Resolve(source, f.spec.SourceKey())
	if !found || raw == nil {
		if f.spec.HasDefault {
			return f.spec.Default, false, nil
		}
		return nil, false, nil
	}
	inner, err := f.bindInner(st)
	if err != nil {
		return nil, true, err
	}
	if !f.cfg.many && isSeq(raw) {
		return nil, true, marzipan.Definitionf(
			"nested field %q got a sequence; declare it with NestedMany", f.spec.Name)
	}
	res, err := inner.Dump(ctx, raw)
	if err != nil {
		return nil, true, err
	}
	if !res.Errors.Empty() {
		return nil, true, res.Errors
	}
	if f.cfg.many {
		return f.flattenMany(res.Many), true, nil
	}
	return f.flattenOne(res.Data), true, nil
}

func (f *nestedField) Deserialize(ctx context.Context, st *marzipan.State, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	inner, err := f.bindInner(st)
	if err != nil {
		return nil, err
	}
	res, err := inner.Load(ctx, v)
	if err != nil {
		return nil, err
	}
	if !res.Errors.Empty() {
		return nil, res.Errors
	}
	if f.cfg.many {
		return res.Many, nil
	}
	return res.Data, nil
}

// serializeValue converts one bare record, used for list elements.
func (f *nestedField) serializeValue(st *marzipan.State, v any) (any, error) {
	if v == nil {
		return f.spec.Default, nil
	}
	inner, err := f.bindInner(st)
	if err != nil {
		return nil, err
	}
	res, err := inner.Dump(context.Background(), v)
	if err != nil {
		return nil, err
	}
	if !res.Errors.Empty() {
		return nil, res.Errors
	}
	return f.flattenOne(res.Data), nil
}

func (f *nestedField) flattenOne(d *marzipan.Dict) any {
	if f.cfg.flat == "" {
		return d
	}
	return d.Value(f.cfg.prefix + f.cfg.flat)
}

func (f *nestedField) flattenMany(ds []*marzipan.Dict) any {
	if f.cfg.flat == "" {
		return ds
	}
	out := make([]any, len(ds))
	for i, d := range ds {
		out[i] = d.Value(f.cfg.prefix + f.cfg.flat)
	}
	return out
}

func isSeq(v any) bool {
	if v == nil {
		return false
	}
	switch v.(type) {
	case []byte, string:
		return false
	}
	k := reflect.ValueOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}
