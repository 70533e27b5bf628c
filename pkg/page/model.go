package page

import (
	"strings"

	"api-page-gen/pkg/template"
)

// Node is one resolved block of a compiled page. Absent nodes are dropped
// during compilation, so every node present in a Model carries Present=true;
// the flag is kept on the wire for downstream consumers.
type Node struct {
	Id      string            `json:"id"`
	Label   string            `json:"label"`
	Type    template.NodeType `json:"type"`
	Present bool              `json:"present"`

	// Exactly one of the following is set, depending on Type.
	Value    string  `json:"value,omitempty"`
	Items    []any   `json:"items,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// Model is the compiled, presentation-agnostic page for one record. It is
// built once per (record, definition, generated content) triple and never
// mutated afterwards; recompile from scratch if any input changes.
type Model struct {
	RecordId string  `json:"recordId"`
	Name     string  `json:"name"`
	Title    string  `json:"title"`
	Blocks   []*Node `json:"blocks"`
}

// Block returns the top-level block with the given id, or nil.
func (m *Model) Block(id string) *Node {
	for _, block := range m.Blocks {
		if block.Id == id {
			return block
		}
	}
	return nil
}

// Find returns the first node with the given id, depth-first.
func (m *Model) Find(id string) *Node {
	return findNode(m.Blocks, id)
}

func findNode(nodes []*Node, id string) *Node {
	for _, node := range nodes {
		if node.Id == id {
			return node
		}
		if found := findNode(node.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// SectionText flattens a block into one text chunk: leaf values and string
// items joined in authored order. Used by the FAQ assembler to build context
// slices from named sections.
func (m *Model) SectionText(id string) string {
	block := m.Block(id)
	if block == nil {
		return ""
	}
	return flattenNode(block)
}

func flattenNode(node *Node) string {
	switch node.Type {
	case template.TypeLeaf:
		return node.Value
	case template.TypeArray:
		return joinItems(node.Items)
	default:
		var parts []string
		for _, child := range node.Children {
			if text := flattenNode(child); text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, "\n")
	}
}

func joinItems(items []any) string {
	var parts []string
	for _, item := range items {
		if text, ok := item.(string); ok && text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, ", ")
}
