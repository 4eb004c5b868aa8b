// Package dataflow assembles the file/database data-flow graph, the
// dataframe and SQL lineage graph, ETL candidates and architecture findings.
package dataflow

import (
	"sort"

	"lineage-scan/internal/model"
)

type edgeKey struct {
	source, target, op string
}

// Graph is a directed graph keyed by node id. Adding a node whose id is
// already present merges attributes instead of replacing them; edges are
// unique on (source, target, operation).
type Graph struct {
	nodes map[string]*model.Node
	edges []model.Edge
	seen  map[edgeKey]bool
}

func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*model.Node),
		seen:  make(map[edgeKey]bool),
	}
}

// AddNode inserts n or merges it into the node with the same id. Existing
// attributes are kept; only empty ones are filled from n.
func (g *Graph) AddNode(n model.Node) {
	cur, ok := g.nodes[n.ID]
	if !ok {
		if n.Label == "" {
			n.Label = n.ID
		}
		n.DBTypes = append([]string(nil), n.DBTypes...)
		g.nodes[n.ID] = &n
		return
	}
	if cur.Type == "" {
		cur.Type = n.Type
	}
	if cur.Label == "" || cur.Label == cur.ID {
		if n.Label != "" {
			cur.Label = n.Label
		}
	}
	if cur.File == "" {
		cur.File = n.File
	}
	if cur.Operation == "" {
		cur.Operation = n.Operation
	}
	cur.HasDB = cur.HasDB || n.HasDB
	for _, t := range n.DBTypes {
		if !contains(cur.DBTypes, t) {
			cur.DBTypes = append(cur.DBTypes, t)
		}
	}
}

// HasNode reports whether id is present.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns a copy of the node with the given id.
func (g *Graph) Node(id string) (model.Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return model.Node{}, false
	}
	return *n, true
}

// Link adds both endpoints and an edge from src to dst labelled op.
func (g *Graph) Link(src, dst model.Node, op, file string) {
	g.AddNode(src)
	g.AddNode(dst)
	key := edgeKey{src.ID, dst.ID, op}
	if g.seen[key] {
		return
	}
	g.seen[key] = true
	g.edges = append(g.edges, model.Edge{Source: src.ID, Target: dst.ID, Operation: op, File: file})
}

// Len returns the node and edge counts.
func (g *Graph) Len() (nodes, edges int) {
	return len(g.nodes), len(g.edges)
}

// Export returns the plain node and edge lists, nodes ordered by id and
// edges by source, target and operation.
func (g *Graph) Export() model.Graph {
	out := model.Graph{
		Nodes: make([]model.Node, 0, len(g.nodes)),
		Edges: make([]model.Edge, len(g.edges)),
	}
	for _, n := range g.nodes {
		cp := *n
		cp.DBTypes = append([]string(nil), n.DBTypes...)
		out.Nodes = append(out.Nodes, cp)
	}
	sort.Slice(out.Nodes, func(i, j int) bool { return out.Nodes[i].ID < out.Nodes[j].ID })

	copy(out.Edges, g.edges)
	sort.Slice(out.Edges, func(i, j int) bool {
		a, b := out.Edges[i], out.Edges[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		return a.Operation < b.Operation
	})
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
