package dataflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lineage-scan/internal/model"
)

func TestBuildLineage_DataFrames(t *testing.T) {
	frames := []model.DataFrameNode{
		{File: "etl.py", Variable: "raw", Kind: model.DataFrameSource, Operation: "read_csv", Upstream: "data/in.csv", Line: 3},
		{File: "etl.py", Variable: "clean", Kind: model.DataFrameTransformation, Operation: "dropna", Upstream: "raw", Line: 4},
		{File: "etl.py", Variable: "agg", Kind: model.DataFrameTransformation, Operation: "groupby", Upstream: "clean", Line: 5},
	}
	g := BuildLineage(frames, nil)

	assert.Equal(t, []model.Edge{
		{Source: "data/in.csv", Target: "etl.py:raw", Operation: "read_csv", File: "etl.py"},
		{Source: "etl.py:clean", Target: "etl.py:agg", Operation: "groupby", File: "etl.py"},
		{Source: "etl.py:raw", Target: "etl.py:clean", Operation: "dropna", File: "etl.py"},
	}, g.Edges)

	assert.Equal(t, []model.Node{
		{ID: "data/in.csv", Type: model.NodeExternal, Label: "data/in.csv"},
		{ID: "etl.py:agg", Type: model.NodeDataFrame, Label: "agg", File: "etl.py", Operation: "groupby"},
		{ID: "etl.py:clean", Type: model.NodeDataFrame, Label: "clean", File: "etl.py", Operation: "dropna"},
		{ID: "etl.py:raw", Type: model.NodeDataFrame, Label: "raw", File: "etl.py", Operation: "read_csv"},
	}, g.Nodes)
}

func TestBuildLineage_UnknownUpstreamFrame(t *testing.T) {
	frames := []model.DataFrameNode{
		{File: "a.py", Variable: "out", Kind: model.DataFrameTransformation, Operation: "merge", Upstream: "left"},
	}
	g := BuildLineage(frames, nil)
	assert.Contains(t, g.Nodes, model.Node{ID: "a.py:left", Type: model.NodeDataFrame, Label: "left", File: "a.py"})
}

func TestBuildLineage_SQL(t *testing.T) {
	stmts := []model.SQLStatement{
		{Kind: model.SQLKindSelect, Tables: []string{"orders", "users"}, File: "q.py"},
		{Kind: model.SQLKindSelect, Tables: []string{"orders"}, File: "r.py"},
		{Kind: model.SQLKindInsert, Tables: []string{"summary", "orders"}, Target: "summary", Sources: []string{"orders"}, File: "load.sql"},
		{Kind: model.SQLKindUpdate, Tables: []string{"users"}, Target: "users", File: "u.sql"},
	}
	g := BuildLineage(nil, stmts)

	assert.Equal(t, []model.Edge{
		{Source: "orders", Target: "result_of_orders_query", Operation: model.EdgeSQLSelect, File: "q.py"},
		{Source: "orders", Target: "summary", Operation: model.EdgeSQLInsert, File: "load.sql"},
		{Source: "users", Target: "result_of_users_query", Operation: model.EdgeSQLSelect, File: "q.py"},
	}, g.Edges)

	types := map[string]string{}
	for _, n := range g.Nodes {
		types[n.ID] = n.Type
	}
	assert.Equal(t, map[string]string{
		"orders":                 model.NodeTable,
		"users":                  model.NodeTable,
		"summary":                model.NodeTable,
		"result_of_orders_query": model.NodeQueryResult,
		"result_of_users_query":  model.NodeQueryResult,
	}, types)
}
