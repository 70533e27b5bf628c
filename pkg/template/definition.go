package template

// NodeType distinguishes what a template node binds to.
type NodeType string

const (
	TypeGroup NodeType = "group"
	TypeLeaf  NodeType = "leaf"
	TypeArray NodeType = "array"
)

// Node is one authored block of a template definition. Definitions are
// external input: loaded once per run, reused across records, never mutated
// by the compiler.
type Node struct {
	Id       string   `yaml:"id" json:"id"`
	Label    string   `yaml:"label" json:"label"`
	Type     NodeType `yaml:"type" json:"type"`
	DataPath []string `yaml:"dataPath,omitempty" json:"dataPath,omitempty"`
	Visible  *bool    `yaml:"visible,omitempty" json:"visible,omitempty"`
	Limit    *int     `yaml:"limit,omitempty" json:"limit,omitempty"`
	Children []*Node  `yaml:"children,omitempty" json:"children,omitempty"`
}

// IsVisible reports the authored visibility; nodes default to visible.
func (n *Node) IsVisible() bool {
	return n.Visible == nil || *n.Visible
}

// Definition is the top-level authored template tree.
type Definition struct {
	Name   string  `yaml:"name" json:"name"`
	Blocks []*Node `yaml:"blocks" json:"blocks"`
}
