package marzipan

import "github.com/mitchellh/mapstructure"

// StructMaker returns a Maker that materializes a *T from the converted
// fields of an error-free Load. Field matching follows json tags; input is
// weakly typed so coerced scalars settle into the struct's field types.
func StructMaker[T any]() Maker {
	return func(data map[string]any) (any, error) {
		out := new(T)
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           out,
			TagName:          "json",
			WeaklyTypedInput: true,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(data); err != nil {
			return nil, err
		}
		return out, nil
	}
}
