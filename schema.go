package marzipan

// BindOption adjusts one schema instance at bind time.
type BindOption func(*bindConfig)

type bindConfig struct {
	only       []string
	exclude    []string
	extra      map[string]any
	prefix     string
	many       bool
	strict     bool
	context    Context
	contextSet bool
}

// Only restricts the instance to the given fields, in the given order.
// Naming an undeclared field is a definition error.
func Only(names ...string) BindOption {
	return func(c *bindConfig) { c.only = append(c.only, names...) }
}

// Exclude removes the given fields from the instance.
func Exclude(names ...string) BindOption {
	return func(c *bindConfig) { c.exclude = append(c.exclude, names...) }
}

// Extra overlays additional key/value pairs onto every dump result, after
// data handlers have run.
func Extra(extra map[string]any) BindOption {
	return func(c *bindConfig) { c.extra = extra }
}

// Prefix prepends a string to every output key.
func Prefix(p string) BindOption {
	return func(c *bindConfig) { c.prefix = p }
}

// Many makes the instance process a sequence of records, with errors keyed
// by element index.
func Many() BindOption {
	return func(c *bindConfig) { c.many = true }
}

// Strict makes the instance raise on the first error instead of collecting.
func Strict() BindOption {
	return func(c *bindConfig) { c.strict = true }
}

// WithContext seeds the instance's shared context mapping. Passing nil
// leaves the instance without a context, which context-dependent fields
// report as an error.
func WithContext(ctx Context) BindOption {
	return func(c *bindConfig) { c.context = ctx; c.contextSet = true }
}

type boundField struct {
	name  string
	field Field
}

// Schema is a runtime-configured instance of a Definition: the working
// ordered field mapping plus per-instance overrides, shared context, and
// hook registries. Instances are cheap to construct and hold no cross-call
// state beyond the context set by the caller.
type Schema struct {
	def    *Definition
	fields []boundField

	prefix      string
	extra       map[string]any
	many        bool
	strict      bool
	skipMissing bool
	dateFormat  string
	context     Context
	codec       Codec

	validators    []SchemaValidator
	preprocessors []Preprocessor
	dataHandlers  []DataHandler
	errorHandler  ErrorHandler
	maker         Maker
}

// Bind constructs a configured instance. Every field descriptor is cloned:
// two instances of one definition never share a bound field.
func (def *Definition) Bind(opts ...BindOption) (*Schema, error) {
	var c bindConfig
	for _, opt := range opts {
		opt(&c)
	}

	working := def.fields
	if len(c.only) > 0 {
		picked := make([]declared, 0, len(c.only))
		for _, name := range c.only {
			d, ok := def.lookup(name)
			if !ok {
				return nil, definitionErrorf("only: %q is not a declared field", name)
			}
			picked = append(picked, d)
		}
		working = picked
	}

	s := &Schema{
		def:           def,
		prefix:        c.prefix,
		extra:         c.extra,
		many:          c.many,
		strict:        c.strict || def.meta.Strict,
		skipMissing:   def.meta.SkipMissing,
		dateFormat:    def.meta.DateFormat,
		context:       c.context,
		codec:         def.meta.Codec,
		validators:    append([]SchemaValidator(nil), def.validators...),
		preprocessors: append([]Preprocessor(nil), def.preprocessors...),
		dataHandlers:  append([]DataHandler(nil), def.dataHandlers...),
		errorHandler:  def.errorHandler,
		maker:         def.maker,
	}
	if s.codec == nil {
		s.codec = defaultCodec{}
	}
	if !c.contextSet {
		s.context = Context{}
	}
	// Only takes precedence over exclude: a name picked by Only stays even
	// when Exclude lists it too.
	for _, d := range working {
		if !contains(c.only, d.name) && contains(c.exclude, d.name) {
			continue
		}
		f := d.field.Clone()
		f.Spec().Name = d.name
		s.fields = append(s.fields, boundField{name: d.name, field: f})
	}
	return s, nil
}

// MustBind is like Bind but panics on definition errors.
func (def *Definition) MustBind(opts ...BindOption) *Schema {
	s, err := def.Bind(opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Definition returns the definition this instance was bound from.
func (s *Schema) Definition() *Definition { return s.def }

// FieldNames returns the bound field names in output order.
func (s *Schema) FieldNames() []string {
	out := make([]string, len(s.fields))
	for i, bf := range s.fields {
		out[i] = bf.name
	}
	return out
}

// FieldByName returns the bound field descriptor, if present.
func (s *Schema) FieldByName(name string) (Field, bool) {
	for _, bf := range s.fields {
		if bf.name == name {
			return bf.field, true
		}
	}
	return nil, false
}

// Context returns the shared context mapping. Instances start with an empty
// mapping, so callers can populate it in place.
func (s *Schema) Context() Context { return s.context }

// SetContext replaces the shared context mapping. It is propagated by
// reference into every nested field and sub-schema on the next call.
func (s *Schema) SetContext(ctx Context) { s.context = ctx }

// Many reports whether the instance processes sequences.
func (s *Schema) Many() bool { return s.many }

// Strict reports whether errors raise instead of being collected.
func (s *Schema) Strict() bool { return s.strict }

// RegisterValidator appends a schema-level validator to this instance.
func (s *Schema) RegisterValidator(v SchemaValidator) {
	s.validators = append(s.validators, v)
}

// RegisterPreprocessor appends an input preprocessor to this instance.
func (s *Schema) RegisterPreprocessor(p Preprocessor) {
	s.preprocessors = append(s.preprocessors, p)
}

// RegisterDataHandler appends an output data handler to this instance.
func (s *Schema) RegisterDataHandler(h DataHandler) {
	s.dataHandlers = append(s.dataHandlers, h)
}

// SetErrorHandler installs the custom error handler on this instance.
func (s *Schema) SetErrorHandler(h ErrorHandler) { s.errorHandler = h }

// SetMaker installs the object-construction hook on this instance.
func (s *Schema) SetMaker(m Maker) { s.maker = m }

func (s *Schema) state() *State {
	return &State{
		Schema:     s,
		Context:    s.context,
		DateFormat: s.dateFormat,
		Strict:     s.strict,
	}
}
