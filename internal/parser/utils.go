package parser

import (
	"strings"

	"github.com/pingcap/tidb/parser/ast"
	"github.com/pingcap/tidb/parser/format"
)

const restoreFlags = format.RestoreStringSingleQuotes | format.RestoreKeyWordUppercase

// ExtractTableNames returns the distinct tables a statement references, in
// order of appearance. Names bound by a WITH clause are not tables.
func ExtractTableNames(node ast.Node) []string {
	if node == nil {
		return nil
	}
	v := &tableVisitor{ctes: make(map[string]bool), seen: make(map[string]bool)}
	node.Accept(v)

	tables := make([]string, 0, len(v.tables))
	for _, t := range v.tables {
		if !v.ctes[strings.ToLower(t)] {
			tables = append(tables, t)
		}
	}
	return tables
}

type tableVisitor struct {
	tables []string
	ctes   map[string]bool
	seen   map[string]bool
}

func (v *tableVisitor) Enter(in ast.Node) (ast.Node, bool) {
	switch n := in.(type) {
	case *ast.CommonTableExpression:
		v.ctes[n.Name.L] = true
	case *ast.TableName:
		name := tableName(n)
		if name != "" && !v.seen[name] {
			v.seen[name] = true
			v.tables = append(v.tables, name)
		}
	}
	return in, false
}

func (v *tableVisitor) Leave(in ast.Node) (ast.Node, bool) {
	return in, true
}

func tableName(tn *ast.TableName) string {
	if tn == nil || tn.Name.O == "" {
		return ""
	}
	if tn.Schema.O != "" {
		return tn.Schema.O + "." + tn.Name.O
	}
	return tn.Name.O
}

// firstTable returns the leftmost table of a FROM/UPDATE/INTO clause.
func firstTable(refs *ast.TableRefsClause) string {
	if refs == nil || refs.TableRefs == nil {
		return ""
	}
	var r ast.ResultSetNode = refs.TableRefs
	for {
		switch n := r.(type) {
		case *ast.Join:
			if n.Left == nil {
				return ""
			}
			r = n.Left
		case *ast.TableSource:
			tn, ok := n.Source.(*ast.TableName)
			if !ok {
				return ""
			}
			return tableName(tn)
		default:
			return ""
		}
	}
}

// restore renders a node back to SQL text.
func restore(n ast.Node) string {
	var sb strings.Builder
	if err := n.Restore(format.NewRestoreCtx(restoreFlags, &sb)); err != nil {
		return ""
	}
	return sb.String()
}

// PrimaryTable returns the leftmost table a SELECT reads from or an
// UPDATE/DELETE writes to.
func PrimaryTable(node ast.StmtNode) string {
	switch stmt := node.(type) {
	case *ast.SelectStmt:
		return firstTable(stmt.From)
	case *ast.UpdateStmt:
		return firstTable(stmt.TableRefs)
	case *ast.DeleteStmt:
		return firstTable(stmt.TableRefs)
	}
	return ""
}
