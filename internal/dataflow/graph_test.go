package dataflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lineage-scan/internal/model"
)

func TestGraph_AddNodeMerges(t *testing.T) {
	g := NewGraph()
	g.AddNode(model.Node{ID: "a.py", Type: model.NodeFile, Label: "a.py", HasDB: true, DBTypes: []string{"MySQL"}})
	g.AddNode(model.Node{ID: "a.py"})
	g.AddNode(model.Node{ID: "a.py", Type: model.NodeExternal, DBTypes: []string{"Redis", "MySQL"}})

	n, ok := g.Node("a.py")
	require.True(t, ok)
	assert.Equal(t, model.NodeFile, n.Type)
	assert.True(t, n.HasDB)
	assert.Equal(t, []string{"MySQL", "Redis"}, n.DBTypes)

	nodes, _ := g.Len()
	assert.Equal(t, 1, nodes)
}

func TestGraph_ImplicitLabelIsFilled(t *testing.T) {
	g := NewGraph()
	g.AddNode(model.Node{ID: "orders"})
	g.AddNode(model.Node{ID: "orders", Type: model.NodeTable, Label: "Orders"})

	n, _ := g.Node("orders")
	assert.Equal(t, "Orders", n.Label)
	assert.Equal(t, model.NodeTable, n.Type)
}

func TestGraph_LinkDedupes(t *testing.T) {
	g := NewGraph()
	a := model.Node{ID: "a", Type: model.NodeTable}
	b := model.Node{ID: "b", Type: model.NodeTable}
	g.Link(a, b, "x", "f.sql")
	g.Link(a, b, "x", "g.sql")
	g.Link(a, b, "y", "f.sql")
	g.Link(b, a, "x", "f.sql")

	out := g.Export()
	assert.Len(t, out.Nodes, 2)
	assert.Equal(t, []model.Edge{
		{Source: "a", Target: "b", Operation: "x", File: "f.sql"},
		{Source: "a", Target: "b", Operation: "y", File: "f.sql"},
		{Source: "b", Target: "a", Operation: "x", File: "f.sql"},
	}, out.Edges)
}

func TestGraph_ExportIsStable(t *testing.T) {
	build := func() model.Graph {
		g := NewGraph()
		for _, id := range []string{"c", "a", "b"} {
			g.AddNode(model.Node{ID: id, Type: model.NodeFile})
		}
		g.Link(model.Node{ID: "c"}, model.Node{ID: "a"}, model.EdgeImports, "c")
		g.Link(model.Node{ID: "b"}, model.Node{ID: "a"}, model.EdgeImports, "b")
		return g.Export()
	}
	first := build()
	assert.Equal(t, first, build())
	assert.Equal(t, "a", first.Nodes[0].ID)
	assert.Equal(t, "b", first.Edges[0].Source)
}
