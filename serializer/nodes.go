package serializer

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"

	"go.yaml.in/yaml/v4"
)

// mapping accumulates key/value pairs of a YAML mapping node in order.
type mapping struct {
	node *yaml.Node
}

func newMapping() *mapping {
	return &mapping{node: &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}}
}

func (m *mapping) set(key string, value *yaml.Node) {
	if value == nil {
		return
	}
	m.node.Content = append(m.node.Content, strNode(key), value)
}

func (m *mapping) str(key, value string) {
	if value != "" {
		m.set(key, strNode(value))
	}
}

func (m *mapping) boolTrue(key string, value bool) {
	if value {
		m.set(key, boolNode(true))
	}
}

func (m *mapping) empty() bool {
	return len(m.node.Content) == 0
}

func strNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func boolNode(v bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}
}

func nullNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

func intNode(v int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(v)}
}

func floatNode(v float64) *yaml.Node {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(int64(v), 10)}
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(v, 'g', -1, 64)}
}

func seqNode(items ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: items}
}

func strSeq(values []string) *yaml.Node {
	n := seqNode()
	for _, v := range values {
		n.Content = append(n.Content, strNode(v))
	}
	return n
}

// valueToNode converts a free-form value (example, default, enum member,
// extension payload) to a node. Map keys are sorted for determinism.
func valueToNode(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case nil:
		return nullNode(), nil
	case bool:
		return boolNode(val), nil
	case int:
		return intNode(val), nil
	case int64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(val, 10)}, nil
	case uint64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatUint(val, 10)}, nil
	case float64:
		return floatNode(val), nil
	case string:
		return strNode(val), nil
	case []any:
		n := seqNode()
		for _, item := range val {
			child, err := valueToNode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	case []string:
		return strSeq(val), nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		m := newMapping()
		for _, k := range keys {
			child, err := valueToNode(val[k])
			if err != nil {
				return nil, err
			}
			m.set(k, child)
		}
		return m.node, nil
	default:
		// Round-trip unknown types through JSON to reach the cases above.
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("cannot convert %T to a document value: %w", v, err)
		}
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return nil, err
		}
		return valueToNode(generic)
	}
}
