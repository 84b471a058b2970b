package tree

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML or JSON document into a template. Key order is kept
// as written, which is the order elements and attributes render in.
func Parse(data []byte) (*Map, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("tree: parse template: %w", err)
	}
	root := &doc
	if root.Kind == 0 {
		return NewMap(), nil
	}
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return NewMap(), nil
		}
		root = root.Content[0]
	}
	v, err := fromYAML(root)
	if err != nil {
		return nil, fmt.Errorf("tree: parse template: %w", err)
	}
	m, ok := v.(*Map)
	if !ok {
		return nil, fmt.Errorf("tree: parse template: top level must be a mapping, got %s", kindName(root))
	}
	return m, nil
}

// nodeSpec is the YAML form of a node: a template, an optional hook and
// nested child nodes.
type nodeSpec struct {
	Template yaml.Node  `yaml:"template"`
	Hook     *string    `yaml:"hook"`
	Children []nodeSpec `yaml:"children"`
}

// ParseNode decodes a node description:
//
//	template: {c: {}}
//	hook: .c
//	children:
//	  - template: {e: 2}
func ParseNode(data []byte) (*Node, error) {
	var spec nodeSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("tree: parse node: %w", err)
	}
	return buildNode(&spec, "")
}

func buildNode(spec *nodeSpec, where string) (*Node, error) {
	template := NewMap()
	if spec.Template.Kind != 0 {
		v, err := fromYAML(&spec.Template)
		if err != nil {
			return nil, fmt.Errorf("tree: parse node%s: %w", where, err)
		}
		m, ok := v.(*Map)
		if !ok {
			return nil, fmt.Errorf("tree: parse node%s: template must be a mapping, got %s", where, kindName(&spec.Template))
		}
		template = m
	}

	var opts []Option
	if spec.Hook != nil {
		opts = append(opts, WithHook(*spec.Hook))
	}
	n, err := New(template, opts...)
	if err != nil {
		return nil, fmt.Errorf("tree: parse node%s: %w", where, err)
	}
	for i := range spec.Children {
		child, err := buildNode(&spec.Children[i], fmt.Sprintf("%s.children[%d]", where, i))
		if err != nil {
			return nil, err
		}
		if err := n.Append(child); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func fromYAML(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return fromYAML(n.Content[0])
	case yaml.AliasNode:
		return fromYAML(n.Alias)
	case yaml.MappingNode:
		m := NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
			}
			child, err := fromYAML(v)
			if err != nil {
				return nil, err
			}
			m.Set(k.Value, child)
		}
		return m, nil
	case yaml.SequenceNode:
		out := make(List, 0, len(n.Content))
		for _, e := range n.Content {
			child, err := fromYAML(e)
			if err != nil {
				return nil, err
			}
			out = append(out, child)
		}
		return out, nil
	case yaml.ScalarNode:
		return scalarFromYAML(n)
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
	}
}

func scalarFromYAML(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return Int(i), nil
	case "!!float":
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			var d float64
			if derr := n.Decode(&d); derr != nil {
				return nil, fmt.Errorf("line %d: %w", n.Line, derr)
			}
			f = d
		}
		return Float(f), nil
	default:
		return String(n.Value), nil
	}
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}
