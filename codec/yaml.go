package codec

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	marzipan "github.com/marzipan-go/marzipan"
)

// YAML returns a YAML codec. Dump results encode as mapping nodes in field
// declaration order rather than the sorted-key order yaml.Marshal would
// impose on a plain map.
func YAML() marzipan.Codec { return yamlCodec{} }

type yamlCodec struct{}

func (yamlCodec) Encode(v any) ([]byte, error) {
	node, err := yamlNode(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (yamlCodec) Decode(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (yamlCodec) Name() string { return "yaml" }

// yamlNode builds an ordered node tree: *Dict becomes a mapping node keyed
// in declaration order, slices recurse, everything else round-trips through
// the default encoder.
func yamlNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case *marzipan.Dict:
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range t.Keys() {
			kn := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
			vn, err := yamlNode(t.Value(key))
			if err != nil {
				return nil, err
			}
			m.Content = append(m.Content, kn, vn)
		}
		return m, nil
	case []*marzipan.Dict:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, d := range t {
			n, err := yamlNode(d)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, n)
		}
		return seq, nil
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range t {
			n, err := yamlNode(item)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, n)
		}
		return seq, nil
	default:
		n := &yaml.Node{}
		if err := n.Encode(v); err != nil {
			return nil, fmt.Errorf("yaml codec: encode %T: %w", v, err)
		}
		return n, nil
	}
}
