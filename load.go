package marzipan

import (
	"context"
	"errors"
	"fmt"
)

// MissingRequiredMessage is recorded when a required field's key is wholly
// absent from the input. An explicit null value is present and valid.
const MissingRequiredMessage = "Missing data for required field."

// Load converts a representation mapping (or, in many mode, a sequence of
// mappings) back into values, enforcing required fields and running the
// schema-level validators. Failing fields are excluded from the returned
// data.
func (s *Schema) Load(ctx context.Context, in any) (UnmarshalResult, error) {
	if s.many {
		return s.loadMany(ctx, in)
	}
	m, err := asStringMap(in)
	if err != nil {
		return UnmarshalResult{}, err
	}
	data, bag, err := s.unmarshalOne(ctx, m, -1)
	res := UnmarshalResult{Data: data, Errors: bag}
	if err != nil {
		return res, err
	}
	return res, s.settle(bag, in, false)
}

func (s *Schema) loadMany(ctx context.Context, in any) (UnmarshalResult, error) {
	it, err := iterate(in)
	if err != nil {
		return UnmarshalResult{}, err
	}
	res := UnmarshalResult{Many: []any{}}
	var bag ErrorBag
	for i := 0; ; i++ {
		item, ok := it.Next()
		if !ok {
			break
		}
		m, err := asStringMap(item)
		if err != nil {
			return res, err
		}
		data, itemBag, err := s.unmarshalOne(ctx, m, i)
		if err != nil {
			return res, err
		}
		res.Many = append(res.Many, data)
		if !itemBag.Empty() {
			bag = append(bag, itemBag...)
			if s.strict && s.errorHandler == nil {
				res.Errors = bag
				return res, &UnmarshallingError{Errors: bag, cause: firstCause(bag)}
			}
		}
	}
	res.Errors = bag
	return res, s.settle(bag, in, false)
}

// unmarshalOne runs the per-record pipeline: preprocessors over the raw
// input, per-field deserialization, then schema-level validators, and
// finally the Maker hook when the record is error-free.
func (s *Schema) unmarshalOne(ctx context.Context, raw map[string]any, index int) (any, ErrorBag, error) {
	st := s.state()
	var bag ErrorBag

	in := make(map[string]any, len(raw))
	for k, v := range raw {
		in[k] = v
	}
	for _, p := range s.preprocessors {
		next, err := p(s, in)
		if err != nil {
			bag = append(bag, FieldError{Field: SchemaErrorKey, Index: index, Message: err.Error(), Cause: err})
			continue
		}
		if next != nil {
			in = next
		}
	}

	result := map[string]any{}
	coerced := make(map[string]any, len(in))
	for k, v := range in {
		coerced[k] = v
	}
	for _, bf := range s.fields {
		spec := bf.field.Spec()
		rawValue, present := in[bf.name]
		if !present {
			if spec.Required {
				bag = append(bag, FieldError{Field: bf.name, Index: index, Message: MissingRequiredMessage})
				if s.strict && s.errorHandler == nil {
					return result, bag, nil
				}
			}
			continue
		}
		v, err := bf.field.Deserialize(ctx, st, rawValue)
		if err != nil {
			bag = append(bag, fieldErrors(bf.name, index, err)...)
			if s.strict && s.errorHandler == nil {
				return result, bag, nil
			}
			continue
		}
		result[targetKey(spec)] = v
		coerced[bf.name] = v
	}

	for i, validate := range s.validators {
		ok, err := validate(s, coerced)
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				field := ve.FieldName
				if field == "" {
					field = SchemaErrorKey
				}
				bag = append(bag, FieldError{Field: field, Index: index, Message: ve.Message, Cause: ve})
			} else {
				bag = append(bag, FieldError{Field: SchemaErrorKey, Index: index, Message: err.Error(), Cause: err})
			}
		} else if !ok {
			msg := fmt.Sprintf("Schema validator %d is False", i+1)
			bag = append(bag, FieldError{Field: SchemaErrorKey, Index: index, Message: msg, Cause: &ValidationError{Message: msg}})
		}
	}

	if bag.Empty() && s.maker != nil {
		obj, err := s.maker(result)
		if err != nil {
			return result, bag, err
		}
		return obj, bag, nil
	}
	return result, bag, nil
}

// targetKey is the output key for a deserialized value: the attribute when
// set (dotted paths collapse to the declared name), otherwise the name.
func targetKey(spec *FieldSpec) string {
	if spec.Attribute != "" && !hasDot(spec.Attribute) {
		return spec.Attribute
	}
	return spec.Name
}

func hasDot(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return true
		}
	}
	return false
}

// Loads decodes a payload through the instance's codec and then loads it.
func (s *Schema) Loads(ctx context.Context, data []byte) (UnmarshalResult, error) {
	v, err := s.codec.Decode(data)
	if err != nil {
		return UnmarshalResult{}, err
	}
	return s.Load(ctx, v)
}

func asStringMap(v any) (map[string]any, error) {
	switch m := v.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return m, nil
	case *Dict:
		return m.Map(), nil
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, definitionErrorf("load requires string-keyed mappings, got key %T", k)
			}
			out[ks] = val
		}
		return out, nil
	default:
		return nil, definitionErrorf("load requires a mapping, got %T", v)
	}
}
