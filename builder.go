package marzipan

// Meta carries the declarative options of a schema definition.
type Meta struct {
	// Fields restricts the field set to exactly these names, in this order.
	// Names without a declared field are synthesized as pass-through fields.
	Fields []string
	// Additional appends pass-through names after the declared fields.
	// Mutually exclusive with Fields.
	Additional []string
	// Exclude removes declared names from the resolved field set.
	Exclude []string
	// DateFormat is the default layout for temporal fields that did not
	// specify their own.
	DateFormat string
	// SkipMissing omits output keys whose source attribute was missing or
	// nil and whose serialized value is the field's empty default.
	SkipMissing bool
	// Strict makes every instance raise on the first error instead of
	// collecting.
	Strict bool
	// Codec overrides the wire codec used by Dumps/Loads.
	Codec Codec
}

// Hook signatures. Registries are invoked in registration order.
type (
	// SchemaValidator runs against the full coerced input after per-field
	// processing. Returning (false, nil) records a generic schema-level
	// message; a returned *ValidationError carries its own message and may
	// target a specific field.
	SchemaValidator func(s *Schema, in map[string]any) (bool, error)

	// Preprocessor rewrites the raw input mapping before typed conversion.
	Preprocessor func(s *Schema, in map[string]any) (map[string]any, error)

	// DataHandler transforms the assembled output mapping after all fields
	// were processed. It may return a different Dict (e.g. to nest the
	// result under a root key).
	DataHandler func(s *Schema, data *Dict, obj any) (*Dict, error)

	// ErrorHandler supersedes the default collect/raise behavior whenever a
	// Dump or Load accumulates errors. A returned error propagates to the
	// caller. The same handler function may serve several definitions.
	ErrorHandler func(s *Schema, errs ErrorBag, in any) error

	// Maker materializes a typed object from the successfully converted
	// fields of an error-free Load.
	Maker func(data map[string]any) (any, error)
)

type declared struct {
	name  string
	field Field
}

// Builder assembles a schema definition: an ordered set of typed fields plus
// options and hooks. Compile resolves it once into a Definition.
type Builder struct {
	fields        []declared
	bases         []*Definition
	meta          Meta
	validators    []SchemaValidator
	preprocessors []Preprocessor
	dataHandlers  []DataHandler
	errorHandler  ErrorHandler
	maker         Maker
	err           error
}

// Define starts a new schema definition.
func Define() *Builder {
	return &Builder{}
}

// Field declares a named field. Declaration order is the output key order.
func (b *Builder) Field(name string, f Field) *Builder {
	if f == nil {
		if b.err == nil {
			b.err = definitionErrorf("field %q must be declared as a Field instance", name)
		}
		return b
	}
	b.fields = append(b.fields, declared{name: name, field: f})
	return b
}

// Extend inherits the resolved fields, options, and hooks of base
// definitions. Bases merge left to right, base-to-derived; a name redeclared
// later replaces the earlier descriptor in place.
func (b *Builder) Extend(bases ...*Definition) *Builder {
	b.bases = append(b.bases, bases...)
	return b
}

// Meta sets the declarative options.
func (b *Builder) Meta(m Meta) *Builder {
	b.meta = m
	return b
}

// Validator appends a schema-level validator.
func (b *Builder) Validator(v SchemaValidator) *Builder {
	b.validators = append(b.validators, v)
	return b
}

// Preprocessor appends an input preprocessor.
func (b *Builder) Preprocessor(p Preprocessor) *Builder {
	b.preprocessors = append(b.preprocessors, p)
	return b
}

// DataHandler appends an output data handler.
func (b *Builder) DataHandler(h DataHandler) *Builder {
	b.dataHandlers = append(b.dataHandlers, h)
	return b
}

// ErrorHandler sets the custom error handler.
func (b *Builder) ErrorHandler(h ErrorHandler) *Builder {
	b.errorHandler = h
	return b
}

// Maker sets the object-construction hook used by Load.
func (b *Builder) Maker(m Maker) *Builder {
	b.maker = m
	return b
}

// Compile resolves the declaration into a Definition. All structural
// problems surface here, never at call time.
func (b *Builder) Compile() (*Definition, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.meta.Fields) > 0 && len(b.meta.Additional) > 0 {
		return nil, definitionErrorf("cannot set both the fields and additional options")
	}

	def := &Definition{meta: b.meta}

	// Inherited declarations first, in their original order; redeclared
	// names keep their original slot.
	for _, base := range b.bases {
		for _, d := range base.fields {
			def.merge(d)
		}
		def.validators = append(def.validators, base.validators...)
		def.preprocessors = append(def.preprocessors, base.preprocessors...)
		def.dataHandlers = append(def.dataHandlers, base.dataHandlers...)
		if def.errorHandler == nil {
			def.errorHandler = base.errorHandler
		}
		if def.maker == nil {
			def.maker = base.maker
		}
		def.inheritMeta(base.meta)
	}
	for _, d := range b.fields {
		def.merge(d)
	}
	def.validators = append(def.validators, b.validators...)
	def.preprocessors = append(def.preprocessors, b.preprocessors...)
	def.dataHandlers = append(def.dataHandlers, b.dataHandlers...)
	if b.errorHandler != nil {
		def.errorHandler = b.errorHandler
	}
	if b.maker != nil {
		def.maker = b.maker
	}

	if err := def.applyMeta(); err != nil {
		return nil, err
	}

	// Resolve "this same schema" references now that the definition exists,
	// then let fields reject structural problems.
	for _, d := range def.fields {
		if sb, ok := d.field.(SelfBinder); ok {
			sb.BindSelf(def)
		}
		if dc, ok := d.field.(DefinitionChecker); ok {
			if err := dc.CheckDefinition(); err != nil {
				return nil, err
			}
		}
	}
	return def, nil
}

// MustCompile is like Compile but panics on definition errors.
func (b *Builder) MustCompile() *Definition {
	def, err := b.Compile()
	if err != nil {
		panic(err)
	}
	return def
}

// Definition is a resolved schema declaration: the ordered field mapping plus
// options and class-level hook registries. Definitions are cheap to bind and
// safe for concurrent read-only use.
type Definition struct {
	fields        []declared
	meta          Meta
	validators    []SchemaValidator
	preprocessors []Preprocessor
	dataHandlers  []DataHandler
	errorHandler  ErrorHandler
	maker         Maker
}

func (def *Definition) merge(d declared) {
	for i, have := range def.fields {
		if have.name == d.name {
			def.fields[i] = d
			return
		}
	}
	def.fields = append(def.fields, d)
}

// inheritMeta fills options the child left unset from a base definition.
func (def *Definition) inheritMeta(base Meta) {
	if len(def.meta.Fields) == 0 && len(def.meta.Additional) == 0 {
		def.meta.Fields = base.Fields
		def.meta.Additional = base.Additional
	}
	if len(def.meta.Exclude) == 0 {
		def.meta.Exclude = base.Exclude
	}
	if def.meta.DateFormat == "" {
		def.meta.DateFormat = base.DateFormat
	}
	if !def.meta.SkipMissing {
		def.meta.SkipMissing = base.SkipMissing
	}
	if !def.meta.Strict {
		def.meta.Strict = base.Strict
	}
	if def.meta.Codec == nil {
		def.meta.Codec = base.Codec
	}
}

// applyMeta resolves the Fields/Additional/Exclude options against the
// declared fields, synthesizing pass-through descriptors as needed.
func (def *Definition) applyMeta() error {
	switch {
	case len(def.meta.Fields) > 0:
		resolved := make([]declared, 0, len(def.meta.Fields))
		for _, name := range def.meta.Fields {
			if d, ok := def.lookup(name); ok {
				resolved = append(resolved, d)
				continue
			}
			resolved = append(resolved, declared{name: name, field: &passthroughField{}})
		}
		def.fields = resolved
	case len(def.meta.Additional) > 0:
		for _, name := range def.meta.Additional {
			if _, ok := def.lookup(name); ok {
				return definitionErrorf("field %q is both declared and listed in the additional option", name)
			}
			def.fields = append(def.fields, declared{name: name, field: &passthroughField{}})
		}
	}
	if len(def.meta.Exclude) > 0 {
		kept := def.fields[:0]
		for _, d := range def.fields {
			if !contains(def.meta.Exclude, d.name) {
				kept = append(kept, d)
			}
		}
		def.fields = kept
	}
	return nil
}

func (def *Definition) lookup(name string) (declared, bool) {
	for _, d := range def.fields {
		if d.name == name {
			return d, true
		}
	}
	return declared{}, false
}

// FieldNames returns the resolved field names in declaration order.
func (def *Definition) FieldNames() []string {
	out := make([]string, len(def.fields))
	for i, d := range def.fields {
		out[i] = d.name
	}
	return out
}

// RegisterValidator appends a schema-level validator to the definition.
// Instances bound afterwards inherit it.
func (def *Definition) RegisterValidator(v SchemaValidator) {
	def.validators = append(def.validators, v)
}

// RegisterPreprocessor appends an input preprocessor to the definition.
func (def *Definition) RegisterPreprocessor(p Preprocessor) {
	def.preprocessors = append(def.preprocessors, p)
}

// RegisterDataHandler appends an output data handler to the definition.
func (def *Definition) RegisterDataHandler(h DataHandler) {
	def.dataHandlers = append(def.dataHandlers, h)
}

// SetErrorHandler installs the custom error handler on the definition.
func (def *Definition) SetErrorHandler(h ErrorHandler) {
	def.errorHandler = h
}

// SetMaker installs the object-construction hook on the definition.
func (def *Definition) SetMaker(m Maker) {
	def.maker = m
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
