package marzipan

import "context"

// Context is the caller-supplied mapping made available to context-dependent
// field computations during one call tree. It is shared by reference into
// every nested field and sub-schema.
type Context map[string]any

// State carries per-call schema configuration into field conversions. It is
// rebuilt for every Dump/Load call; fields never own it.
type State struct {
	Schema     *Schema
	Context    Context
	DateFormat string // Schema-wide default layout for temporal fields.
	Strict     bool
}

// FieldValidator is a predicate over the deserialized value. A falsey result
// records the field's error message, or a generic one when none is set.
type FieldValidator func(v any) bool

// FieldSpec holds the declaration metadata shared by every field kind.
type FieldSpec struct {
	Name       string // Assigned at schema-bind time.
	Attribute  string // Source/target key when different from Name; dotted paths allowed.
	Default    any
	HasDefault bool // Distinguishes Default(nil) from no default at all.
	Required   bool // Enforced during deserialization only.
	Validators []FieldValidator
	ErrMsg     string // Overrides the generated message on validation failure.
}

// SourceKey returns the attribute path used for source lookup.
func (sp *FieldSpec) SourceKey() string {
	if sp.Attribute != "" {
		return sp.Attribute
	}
	return sp.Name
}

// Field is the typed unit of conversion and validation for one attribute.
// Implementations are value-semantics descriptors: a bound field belongs to
// exactly one Schema, which clones it at bind time.
type Field interface {
	// Spec exposes the shared declaration metadata.
	Spec() *FieldSpec

	// Clone returns an independent copy for binding to a schema instance.
	Clone() Field

	// Serialize resolves the field's attribute on source and converts it for
	// output. seen reports whether the attribute was present and non-nil,
	// which drives the skip-missing option.
	Serialize(ctx context.Context, st *State, source any) (v any, seen bool, err error)

	// Deserialize converts one input value, running coercion and then the
	// declared validators. A nil input skips coercion but not validation.
	Deserialize(ctx context.Context, st *State, v any) (any, error)
}

// SelfBinder is implemented by nested fields that reference their owning
// definition ("this same schema"). Compile resolves the back-reference once
// the definition exists.
type SelfBinder interface {
	BindSelf(def *Definition)
}

// DefinitionChecker lets a field reject structurally invalid declarations at
// Compile time rather than at call time (e.g. a nested field pointing at a
// nil definition).
type DefinitionChecker interface {
	CheckDefinition() error
}

// ---- pass-through fields ----

// passthroughField backs names synthesized by the Fields/Additional options.
// No type information exists, so conversion is identity and a dump-time
// lookup failure is an error rather than a default.
type passthroughField struct {
	spec FieldSpec
}

func (f *passthroughField) Spec() *FieldSpec { return &f.spec }

func (f *passthroughField) Clone() Field {
	cp := *f
	return &cp
}

func (f *passthroughField) Serialize(ctx context.Context, st *State, source any) (any, bool, error) {
	if source == nil {
		return nil, false, nil
	}
	raw, ok := Resolve(source, f.spec.SourceKey())
	if !ok {
		return nil, false, definitionErrorf("%q is not a valid attribute of the source object", f.spec.SourceKey())
	}
	return raw, raw != nil, nil
}

func (f *passthroughField) Deserialize(ctx context.Context, st *State, v any) (any, error) {
	return v, nil
}
