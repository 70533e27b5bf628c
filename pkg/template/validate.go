package template

import "fmt"

// DefinitionError marks a structurally invalid template definition. It is an
// authoring-time defect and aborts the run before any record is processed.
type DefinitionError struct {
	NodeId string
	Reason string
}

func (e *DefinitionError) Error() string {
	if e.NodeId == "" {
		return fmt.Sprintf("invalid template definition: %s", e.Reason)
	}
	return fmt.Sprintf("invalid template definition at node %q: %s", e.NodeId, e.Reason)
}

// Validate checks the definition once at load time: sibling ids must be
// unique, node types must be known, limits must be non-negative, and the
// tree must be acyclic. Data-level problems (unresolvable paths, type
// mismatches against a record) are deliberately NOT checked here; those are
// per-record warnings at compile time.
func (d *Definition) Validate() error {
	if len(d.Blocks) == 0 {
		return &DefinitionError{Reason: "definition has no blocks"}
	}
	visited := make(map[*Node]struct{})
	return validateSiblings(d.Blocks, visited)
}

func validateSiblings(siblings []*Node, visited map[*Node]struct{}) error {
	ids := make(map[string]struct{}, len(siblings))
	for _, node := range siblings {
		if node == nil {
			return &DefinitionError{Reason: "nil node in tree"}
		}
		if _, seen := visited[node]; seen {
			return &DefinitionError{NodeId: node.Id, Reason: "cycle detected"}
		}
		visited[node] = struct{}{}

		if node.Id == "" {
			return &DefinitionError{Reason: "node has no id"}
		}
		if _, dup := ids[node.Id]; dup {
			return &DefinitionError{NodeId: node.Id, Reason: "duplicate sibling id"}
		}
		ids[node.Id] = struct{}{}

		switch node.Type {
		case TypeGroup, TypeLeaf, TypeArray:
		case "":
			// Authored definitions may omit the type for groups; normalize.
			node.Type = TypeGroup
		default:
			return &DefinitionError{NodeId: node.Id, Reason: fmt.Sprintf("unknown node type %q", node.Type)}
		}

		if node.Limit != nil && *node.Limit < 0 {
			return &DefinitionError{NodeId: node.Id, Reason: "negative limit"}
		}
		if node.Type == TypeLeaf && len(node.Children) > 0 {
			return &DefinitionError{NodeId: node.Id, Reason: "leaf node has children"}
		}

		if err := validateSiblings(node.Children, visited); err != nil {
			return err
		}
	}
	return nil
}
