package parser

import (
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// decodeScalar normalizes an inline YAML value: quotes are removed and trailing
// comments dropped. Plain scalars keep their source text, so 3.10 stays 3.10
// and 0755 stays 0755. Flow collections are rendered canonically.
func decodeScalar(raw string) (string, error) {
	n, err := decodeNode(raw)
	if err != nil || n == nil {
		return "", err
	}
	return renderNode(n), nil
}

// decodeList decodes an inline flow sequence such as ['a', 'b'].
// Any other value becomes a single item.
func decodeList(raw string) ([]string, error) {
	n, err := decodeNode(raw)
	if err != nil || n == nil {
		return nil, err
	}

	if n.Kind != yaml.SequenceNode {
		return []string{renderNode(n)}, nil
	}
	out := make([]string, 0, len(n.Content))
	for _, item := range n.Content {
		out = append(out, renderNode(item))
	}
	return out, nil
}

// decodeNode returns the root value node of raw, or nil for an empty document.
func decodeNode(raw string) (*yaml.Node, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil
	}
	return doc.Content[0], nil
}

func renderNode(n *yaml.Node) string {
	switch n.Kind {
	case yaml.AliasNode:
		if n.Alias == nil {
			return ""
		}
		return renderNode(n.Alias)
	case yaml.SequenceNode:
		parts := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			parts = append(parts, renderNode(item))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case yaml.MappingNode:
		parts := make([]string, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			parts = append(parts, renderNode(n.Content[i])+": "+renderNode(n.Content[i+1]))
		}
		slices.Sort(parts)
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		if n.ShortTag() == "!!null" {
			return ""
		}
		return n.Value
	}
}
