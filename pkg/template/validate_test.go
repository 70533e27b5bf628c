package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leafNode(id string, path ...string) *Node {
	return &Node{Id: id, Label: id, Type: TypeLeaf, DataPath: path}
}

func TestValidateAcceptsDefault(t *testing.T) {
	def := Default()
	require.NoError(t, def.Validate())
	assert.NotEmpty(t, def.Blocks)
}

func TestValidateRejectsBrokenDefinitions(t *testing.T) {
	limit := -1
	tests := []struct {
		name string
		def  *Definition
		want string
	}{
		{
			name: "no blocks",
			def:  &Definition{Name: "empty"},
			want: "no blocks",
		},
		{
			name: "nil node",
			def:  &Definition{Name: "x", Blocks: []*Node{nil}},
			want: "nil node",
		},
		{
			name: "missing id",
			def:  &Definition{Name: "x", Blocks: []*Node{{Label: "anon", Type: TypeLeaf}}},
			want: "no id",
		},
		{
			name: "duplicate sibling ids",
			def: &Definition{Name: "x", Blocks: []*Node{
				leafNode("twin", "name"),
				leafNode("twin", "casNumber"),
			}},
			want: "duplicate sibling id",
		},
		{
			name: "unknown node type",
			def: &Definition{Name: "x", Blocks: []*Node{
				{Id: "odd", Label: "odd", Type: NodeType("table")},
			}},
			want: "unknown node type",
		},
		{
			name: "negative limit",
			def: &Definition{Name: "x", Blocks: []*Node{
				{Id: "list", Label: "list", Type: TypeArray, DataPath: []string{"synonyms"}, Limit: &limit},
			}},
			want: "limit",
		},
		{
			name: "leaf with children",
			def: &Definition{Name: "x", Blocks: []*Node{
				{Id: "bad", Label: "bad", Type: TypeLeaf, DataPath: []string{"name"}, Children: []*Node{leafNode("inner", "name")}},
			}},
			want: "leaf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			require.Error(t, err)
			var defErr *DefinitionError
			require.ErrorAs(t, err, &defErr)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateDetectsCycle(t *testing.T) {
	inner := &Node{Id: "inner", Label: "inner", Type: TypeGroup}
	outer := &Node{Id: "outer", Label: "outer", Type: TypeGroup, Children: []*Node{inner}}
	inner.Children = []*Node{outer}

	def := &Definition{Name: "cyclic", Blocks: []*Node{outer}}
	err := def.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestValidateNormalizesEmptyTypeToGroup(t *testing.T) {
	node := &Node{Id: "section", Label: "Section", Children: []*Node{leafNode("name", "name")}}
	def := &Definition{Name: "x", Blocks: []*Node{node}}
	require.NoError(t, def.Validate())
	assert.Equal(t, TypeGroup, node.Type)
}

func TestParseDefinitionYAML(t *testing.T) {
	raw := []byte(`
name: Catalog Page
blocks:
  - id: hero
    label: Hero
    children:
      - id: name
        label: Name
        type: leaf
        dataPath: [name]
      - id: synonyms
        label: Synonyms
        type: array
        dataPath: [synonyms]
        limit: 5
`)
	def, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "Catalog Page", def.Name)
	require.Len(t, def.Blocks, 1)
	hero := def.Blocks[0]
	assert.Equal(t, TypeGroup, hero.Type)
	require.Len(t, hero.Children, 2)
	require.NotNil(t, hero.Children[1].Limit)
	assert.Equal(t, 5, *hero.Children[1].Limit)
}

func TestParseRejectsInvalidDefinition(t *testing.T) {
	_, err := Parse([]byte("name: Broken\nblocks: []\n"))
	require.Error(t, err)
}

func TestIsVisibleDefaultsTrue(t *testing.T) {
	hidden := false
	assert.True(t, leafNode("x", "name").IsVisible())
	assert.False(t, (&Node{Id: "x", Visible: &hidden}).IsVisible())
}
