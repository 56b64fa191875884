package marzipan

import j "github.com/goccy/go-json"

// Codec is the pluggable encode/decode pair used by the convenience
// byte-string wrappers Dumps and Loads. The core mapping transform never
// touches it. Implementations for specific wire formats live under codec/.
type Codec interface {
	// Encode renders a dump result (a *Dict, or a []*Dict in many mode).
	Encode(v any) ([]byte, error)
	// Decode parses a payload into a mapping, or a sequence of mappings in
	// many mode.
	Decode(data []byte) (any, error)
	// Name identifies the wire format.
	Name() string
}

// defaultCodec is the standard JSON codec applied when a definition does not
// override Meta.Codec.
type defaultCodec struct{}

func (defaultCodec) Encode(v any) ([]byte, error) { return j.Marshal(v) }

func (defaultCodec) Decode(data []byte) (any, error) {
	var v any
	if err := j.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (defaultCodec) Name() string { return "json" }
