package marzipan

import (
	"context"
	"errors"
	"reflect"
	"sort"
)

// Dump converts one object (or, in many mode, a sequence of objects) into
// its ordered representation. Per-field failures are collected in the result
// unless the instance is strict or carries an error handler; definition-time
// misuse is always returned as an error.
func (s *Schema) Dump(ctx context.Context, obj any) (MarshalResult, error) {
	if s.many {
		return s.dumpMany(ctx, obj)
	}
	if isSequence(obj) {
		return MarshalResult{}, definitionErrorf("cannot dump a sequence with a plain schema; bind with Many to process each element")
	}
	data, bag, err := s.marshalOne(ctx, obj, -1)
	res := MarshalResult{Data: data, Errors: bag}
	if err != nil {
		return res, err
	}
	return res, s.settle(bag, obj, true)
}

func (s *Schema) dumpMany(ctx context.Context, obj any) (MarshalResult, error) {
	it, err := iterate(obj)
	if err != nil {
		return MarshalResult{}, err
	}
	res := MarshalResult{Many: []*Dict{}}
	var bag ErrorBag
	for i := 0; ; i++ {
		item, ok := it.Next()
		if !ok {
			break
		}
		data, itemBag, err := s.marshalOne(ctx, item, i)
		if err != nil {
			return res, err
		}
		res.Many = append(res.Many, data)
		if !itemBag.Empty() {
			bag = append(bag, itemBag...)
			if s.strict && s.errorHandler == nil {
				res.Errors = bag
				return res, &MarshallingError{Errors: bag, cause: firstCause(bag)}
			}
		}
	}
	res.Errors = bag
	return res, s.settle(bag, obj, true)
}

// marshalOne runs the per-record pipeline: fields in declared order, then
// data handlers, then the extra overlay.
func (s *Schema) marshalOne(ctx context.Context, obj any, index int) (*Dict, ErrorBag, error) {
	st := s.state()
	out := NewDict()
	var bag ErrorBag

	for _, bf := range s.fields {
		v, seen, err := bf.field.Serialize(ctx, st, obj)
		if err != nil {
			var de *DefinitionError
			if errors.As(err, &de) {
				return nil, nil, de
			}
			bag = append(bag, fieldErrors(bf.name, index, err)...)
			if s.strict && s.errorHandler == nil {
				return out, bag, nil
			}
			// Error recording takes priority over default substitution:
			// the key is omitted.
			continue
		}
		if s.skipMissing && !seen && isEmptyValue(v) {
			continue
		}
		out.Set(s.prefix+bf.name, v)
	}

	for _, h := range s.dataHandlers {
		next, err := h(s, out, obj)
		if err != nil {
			bag = append(bag, FieldError{Field: SchemaErrorKey, Index: index, Message: err.Error(), Cause: err})
			continue
		}
		if next != nil {
			out = next
		}
	}

	if len(s.extra) > 0 {
		keys := make([]string, 0, len(s.extra))
		for k := range s.extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out.Set(k, s.extra[k])
		}
	}
	return out, bag, nil
}

// settle applies the failure policy once a call has accumulated errors: the
// error handler fully supersedes collect/raise when registered; otherwise
// strict instances raise and non-strict instances report via the envelope.
func (s *Schema) settle(bag ErrorBag, in any, marshalling bool) error {
	if bag.Empty() {
		return nil
	}
	if s.errorHandler != nil {
		return s.errorHandler(s, bag, in)
	}
	if s.strict {
		if marshalling {
			return &MarshallingError{Errors: bag, cause: firstCause(bag)}
		}
		return &UnmarshallingError{Errors: bag, cause: firstCause(bag)}
	}
	return nil
}

// fieldErrors converts a field failure into bag entries, rebasing nested
// schema errors under the field name.
func fieldErrors(name string, index int, err error) ErrorBag {
	if child, ok := AsErrorBag(err); ok {
		return rebase(child, name, index)
	}
	var ce *ConversionError
	if errors.As(err, &ce) {
		return ErrorBag{{Field: name, Index: index, Message: ce.Message, Cause: ce}}
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ErrorBag{{Field: name, Index: index, Message: ve.Message, Cause: ve}}
	}
	return ErrorBag{{Field: name, Index: index, Message: err.Error(), Cause: err}}
}

// Dumps converts and then encodes through the instance's codec.
func (s *Schema) Dumps(ctx context.Context, obj any) ([]byte, ErrorBag, error) {
	res, err := s.Dump(ctx, obj)
	if err != nil {
		return nil, res.Errors, err
	}
	var v any
	if s.many {
		v = res.Many
	} else {
		v = res.Data
	}
	data, err := s.codec.Encode(v)
	if err != nil {
		return nil, res.Errors, err
	}
	return data, res.Errors, nil
}

// ---- sequence handling ----

func isSequence(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(Iterator); ok {
		return true
	}
	switch v.(type) {
	case []byte, string:
		return false
	}
	k := reflect.ValueOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

func iterate(v any) (Iterator, error) {
	if v == nil {
		return &sliceIter{}, nil
	}
	if it, ok := v.(Iterator); ok {
		return it, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, definitionErrorf("many mode requires a sequence, got %T", v)
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return &sliceIter{items: items}, nil
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).IsZero()
}
