// Package openapi compiles OpenAPI 3 component schemas into marzipan
// definitions, so a service can derive its conversion layer from the same
// document that describes its API.
package openapi

import (
	"errors"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	marzipan "github.com/marzipan-go/marzipan"
	"github.com/marzipan-go/marzipan/fields"
)

// Options adjusts how imported definitions behave.
type Options struct {
	// Strict marks every produced definition strict-by-default.
	Strict bool
	// SkipMissing omits empty non-required values from dump output.
	SkipMissing bool
}

// Diag collects non-fatal findings made during an import.
type Diag interface {
	Warnings() []string
}

type simpleDiag struct{ warns []string }

func (d *simpleDiag) Warnings() []string { return d.warns }

func (d *simpleDiag) warnf(format string, args ...any) {
	d.warns = append(d.warns, fmt.Sprintf(format, args...))
}

// ImportDocument parses an OpenAPI 3 document and compiles every schema
// under components.schemas into a definition, keyed by component name.
func ImportDocument(data []byte, opts Options) (map[string]*marzipan.Definition, Diag, error) {
	d := &simpleDiag{}
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, d, fmt.Errorf("openapi: load document: %w", err)
	}
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return nil, d, errors.New("openapi: document has no component schemas")
	}
	out := make(map[string]*marzipan.Definition, len(doc.Components.Schemas))
	for name, ref := range doc.Components.Schemas {
		def, err := importObject(ref.Value, opts, d)
		if err != nil {
			return nil, d, fmt.Errorf("openapi: schema %q: %w", name, err)
		}
		out[name] = def
	}
	return out, d, nil
}

// ImportSchema compiles a single resolved schema into a definition. The
// schema must be (or default to) an object with properties.
func ImportSchema(s *openapi3.Schema, opts Options) (*marzipan.Definition, Diag, error) {
	d := &simpleDiag{}
	def, err := importObject(s, opts, d)
	return def, d, err
}

func importObject(s *openapi3.Schema, opts Options, d *simpleDiag) (*marzipan.Definition, error) {
	if s == nil {
		return nil, errors.New("nil schema")
	}
	if t := schemaType(s); t != "object" && t != "" {
		d.warnf("non-object schema treated as object-compatible: type=%q", t)
	}
	required := make(map[string]bool, len(s.Required))
	for _, name := range s.Required {
		required[name] = true
	}
	b := marzipan.Define().Meta(marzipan.Meta{
		Strict:      opts.Strict,
		SkipMissing: opts.SkipMissing,
	})
	for _, name := range sortedPropertyNames(s) {
		f, err := planProperty(name, s.Properties[name].Value, required[name], opts, d)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		b.Field(name, f)
	}
	return b.Compile()
}

// planProperty picks the field kind for one property.
func planProperty(name string, ps *openapi3.Schema, required bool, opts Options, d *simpleDiag) (marzipan.Field, error) {
	if ps == nil {
		d.warnf("property %q has no schema, passing values through", name)
		return fields.Raw(), nil
	}
	fopts := propertyOptions(ps, required)
	if len(ps.Enum) > 0 {
		return fields.Select(ps.Enum, fopts...), nil
	}
	switch schemaType(ps) {
	case "string":
		return stringProperty(ps, fopts), nil
	case "integer":
		return fields.Int(fopts...), nil
	case "number":
		return fields.Float(fopts...), nil
	case "boolean":
		return fields.Bool(fopts...), nil
	case "array":
		if ps.Items == nil || ps.Items.Value == nil {
			d.warnf("array property %q has no item schema, passing elements through", name)
			return fields.List(fields.Raw(), fopts...), nil
		}
		elem, err := planProperty(name+"[]", ps.Items.Value, false, opts, d)
		if err != nil {
			return nil, err
		}
		return fields.List(elem, fopts...), nil
	case "object":
		inner, err := importObject(ps, opts, d)
		if err != nil {
			return nil, err
		}
		return fields.Nested(inner, fopts...), nil
	default:
		d.warnf("property %q has unsupported type %q, passing values through", name, schemaType(ps))
		return fields.Raw(fopts...), nil
	}
}

func stringProperty(ps *openapi3.Schema, fopts []fields.Option) marzipan.Field {
	switch ps.Format {
	case "date-time":
		return fields.DateTime(fopts...)
	case "date":
		return fields.Date(fopts...)
	case "email":
		return fields.Email(fopts...)
	case "uuid":
		return fields.UUID(fopts...)
	case "uri", "url":
		return fields.URL(fopts...)
	default:
		return fields.String(fopts...)
	}
}

func propertyOptions(ps *openapi3.Schema, required bool) []fields.Option {
	var fopts []fields.Option
	if required {
		fopts = append(fopts, fields.Required())
	}
	if ps.Default != nil {
		fopts = append(fopts, fields.Default(ps.Default))
	}
	return fopts
}

// ---- helpers ----

func schemaType(s *openapi3.Schema) string {
	if s.Type == nil || len(*s.Type) == 0 {
		return ""
	}
	return (*s.Type)[0]
}

func sortedPropertyNames(s *openapi3.Schema) []string {
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
