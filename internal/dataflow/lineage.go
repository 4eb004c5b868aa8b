package dataflow

import (
	"lineage-scan/internal/model"
)

// QueryResultID returns the node id for the result of selecting from table.
func QueryResultID(table string) string { return "result_of_" + table + "_query" }

// BuildLineage links dataframes to their sources and upstream frames, and
// tables to query results and insert targets.
func BuildLineage(frames []model.DataFrameNode, stmts []model.SQLStatement) model.Graph {
	g := NewGraph()
	for _, f := range frames {
		g.AddNode(dataFrameNode(f))
	}
	for _, f := range frames {
		switch f.Kind {
		case model.DataFrameSource:
			src := model.Node{ID: f.Upstream, Type: model.NodeExternal, Label: f.Upstream}
			g.Link(src, dataFrameNode(f), f.Operation, f.File)
		case model.DataFrameTransformation:
			up := model.DataFrameNode{File: f.File, Variable: f.Upstream}
			g.Link(model.Node{ID: up.ID(), Type: model.NodeDataFrame, Label: f.Upstream, File: f.File},
				dataFrameNode(f), f.Operation, f.File)
		}
	}

	for _, s := range stmts {
		if s.Kind == model.SQLKindSelect {
			for _, t := range s.Tables {
				g.Link(tableNode(t),
					model.Node{ID: QueryResultID(t), Type: model.NodeQueryResult},
					model.EdgeSQLSelect, s.File)
			}
		}
		if s.Target == "" {
			continue
		}
		for _, src := range s.Sources {
			if src == s.Target {
				continue
			}
			g.Link(tableNode(src), tableNode(s.Target), model.EdgeSQLInsert, s.File)
		}
	}
	return g.Export()
}

func dataFrameNode(f model.DataFrameNode) model.Node {
	return model.Node{
		ID:        f.ID(),
		Type:      model.NodeDataFrame,
		Label:     f.Variable,
		File:      f.File,
		Operation: f.Operation,
	}
}

func tableNode(name string) model.Node {
	return model.Node{ID: name, Type: model.NodeTable}
}
