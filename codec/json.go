// Package codec provides wire-format implementations of marzipan.Codec for
// the Dumps/Loads convenience wrappers. JSON is the default; YAML is opted
// into per definition via Meta.Codec.
package codec

import (
	"bytes"

	j "github.com/goccy/go-json"

	marzipan "github.com/marzipan-go/marzipan"
)

// JSON returns the JSON codec. Mappings encode in field declaration order
// and numbers decode as json.Number so integer precision survives.
func JSON() marzipan.Codec { return jsonCodec{} }

type jsonCodec struct{}

func (jsonCodec) Encode(v any) ([]byte, error) { return j.Marshal(v) }

func (jsonCodec) Decode(data []byte) (any, error) {
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func (jsonCodec) Name() string { return "json" }
