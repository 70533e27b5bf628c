package page

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"api-page-gen/pkg/record"
	"api-page-gen/pkg/template"
)

// Resolver exposes a camelCase resolution map. Both record.Record and the
// generated-content bundle satisfy it.
type Resolver interface {
	Values() map[string]any
}

// Warning reports a non-fatal resolution problem: an unresolvable dataPath,
// a type mismatch, or an unknown node type. The affected node is treated as
// absent; compilation always continues.
type Warning struct {
	NodeId string
	Path   []string
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("node %q (path %v): %s", w.NodeId, w.Path, w.Reason)
}

// Compile resolves a validated template definition against one record plus
// its generated content (may be nil). Resolution is depth-first in authored
// order; leaves try the record first and generated content second. Compiling
// is pure: same inputs, structurally identical output, no I/O.
func Compile(def *template.Definition, rec *record.Record, gen Resolver) (*Model, []Warning) {
	c := &compiler{}
	primary := rec.Values()
	var secondary map[string]any
	if gen != nil {
		secondary = gen.Values()
	}

	model := &Model{
		RecordId: rec.Id,
		Name:     rec.DisplayName(),
		Title:    def.Name,
	}
	for _, block := range def.Blocks {
		if node := c.compileNode(block, primary, secondary); node != nil {
			model.Blocks = append(model.Blocks, node)
		}
	}
	return model, c.warnings
}

type compiler struct {
	warnings []Warning
}

func (c *compiler) warn(node *template.Node, reason string) {
	c.warnings = append(c.warnings, Warning{NodeId: node.Id, Path: node.DataPath, Reason: reason})
}

// compileNode returns nil when the node is absent or hidden.
func (c *compiler) compileNode(node *template.Node, primary, secondary map[string]any) *Node {
	if !node.IsVisible() {
		return nil
	}

	switch node.Type {
	case template.TypeLeaf:
		return c.compileLeaf(node, primary, secondary)
	case template.TypeArray:
		return c.compileArray(node, primary, secondary)
	case template.TypeGroup:
		return c.compileGroup(node, primary, secondary)
	default:
		c.warn(node, fmt.Sprintf("unknown node type %q", node.Type))
		return nil
	}
}

func (c *compiler) compileLeaf(node *template.Node, primary, secondary map[string]any) *Node {
	value, found := resolveEither(node.DataPath, primary, secondary)
	if !found {
		return nil
	}
	text, ok := scalarText(value)
	if !ok {
		c.warn(node, "leaf dataPath resolved to a non-scalar value")
		return nil
	}
	if text == "" {
		return nil
	}
	return &Node{Id: node.Id, Label: node.Label, Type: template.TypeLeaf, Present: true, Value: text}
}

func (c *compiler) compileArray(node *template.Node, primary, secondary map[string]any) *Node {
	value, found := resolveEither(node.DataPath, primary, secondary)
	if !found {
		return nil
	}
	items, ok := value.([]any)
	if !ok {
		c.warn(node, "array dataPath resolved to a non-collection value")
		return nil
	}
	if len(items) == 0 {
		return nil
	}
	// Truncate to the first limit elements, preserving source order.
	if node.Limit != nil && len(items) > *node.Limit {
		items = items[:*node.Limit]
	}

	out := &Node{Id: node.Id, Label: node.Label, Type: template.TypeArray, Present: true}
	for _, item := range items {
		switch element := item.(type) {
		case map[string]any:
			if len(node.Children) > 0 {
				if entry := c.compileElement(node.Children, element); len(entry) > 0 {
					out.Items = append(out.Items, entry)
				}
			} else if text := describeMap(element); text != "" {
				out.Items = append(out.Items, text)
			}
		default:
			if text, ok := scalarText(element); ok && text != "" {
				out.Items = append(out.Items, text)
			}
		}
	}
	if len(out.Items) == 0 {
		return nil
	}
	return out
}

// compileElement resolves the array node's children against one collection
// element, producing a label-keyed entry.
func (c *compiler) compileElement(children []*template.Node, element map[string]any) map[string]any {
	entry := make(map[string]any)
	for _, child := range children {
		if compiled := c.compileNode(child, element, nil); compiled != nil {
			if compiled.Value != "" {
				entry[child.Label] = compiled.Value
			} else if len(compiled.Items) > 0 {
				entry[child.Label] = compiled.Items
			}
		}
	}
	return entry
}

func (c *compiler) compileGroup(node *template.Node, primary, secondary map[string]any) *Node {
	childPrimary, childSecondary := primary, secondary
	if len(node.DataPath) > 0 {
		value, found := resolve(primary, node.DataPath)
		if !found {
			// A bound group falls back to generated content like a leaf does.
			value, found = resolve(secondary, node.DataPath)
		}
		if !found {
			return nil
		}
		narrowed, ok := value.(map[string]any)
		if !ok {
			c.warn(node, "group dataPath resolved to a non-mapping value")
			return nil
		}
		childPrimary, childSecondary = narrowed, nil
	}

	out := &Node{Id: node.Id, Label: node.Label, Type: template.TypeGroup, Present: true}
	for _, child := range node.Children {
		if compiled := c.compileNode(child, childPrimary, childSecondary); compiled != nil {
			out.Children = append(out.Children, compiled)
		}
	}
	// Empty groups are dropped: whether layout-only or data-bound, a group
	// without a single present descendant renders nothing.
	if len(out.Children) == 0 {
		return nil
	}
	return out
}

func resolveEither(path []string, primary, secondary map[string]any) (any, bool) {
	if value, found := resolve(primary, path); found {
		return value, true
	}
	return resolve(secondary, path)
}

// resolve walks a dataPath of keys (and numeric indices for collections).
// A miss at any step reads as absent, never as an error.
func resolve(root map[string]any, path []string) (any, bool) {
	if root == nil || len(path) == 0 {
		return nil, false
	}
	var current any = root
	for _, segment := range path {
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[segment]
			if !ok || next == nil {
				return nil, false
			}
			current = next
		case []any:
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 || index >= len(typed) {
				return nil, false
			}
			current = typed[index]
		default:
			return nil, false
		}
	}
	return current, true
}

func scalarText(value any) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case int:
		return strconv.Itoa(typed), true
	case bool:
		return strconv.FormatBool(typed), true
	default:
		return "", false
	}
}

// describeMap renders a child-less struct element as "v1 | v2" over its
// non-empty scalar fields in key order.
func describeMap(element map[string]any) string {
	keys := make([]string, 0, len(element))
	for key := range element {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var parts []string
	for _, key := range keys {
		if text, ok := scalarText(element[key]); ok && text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " | ")
}
