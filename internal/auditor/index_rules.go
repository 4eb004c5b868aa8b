package auditor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pingcap/tidb/parser/ast"

	"lineage-scan/internal/model"
	"lineage-scan/internal/parser"
)

// IndexMissRule checks if WHERE usage aligns with available indexes
type IndexMissRule struct{}

func (r *IndexMissRule) Name() string { return "index_miss" }

func (r *IndexMissRule) Check(seg *model.SQLSegment, node ast.StmtNode, schema *model.SchemaCtx) ([]model.Issue, error) {
	if schema == nil {
		return nil, nil
	}

	// 1. Identify target table and WHERE clause. Only the leftmost table
	// of a join is checked.
	tableName := parser.PrimaryTable(node)
	var whereExpr ast.ExprNode
	switch stmt := node.(type) {
	case *ast.SelectStmt:
		whereExpr = stmt.Where
	case *ast.UpdateStmt:
		whereExpr = stmt.Where
	case *ast.DeleteStmt:
		whereExpr = stmt.Where
	}

	if tableName == "" || whereExpr == nil {
		return nil, nil
	}

	// 2. Lookup Table in Schema
	table, ok := schema.Tables[tableName]
	if !ok {
		return nil, nil
	}

	// 3. Columns referenced by the WHERE clause
	usedCols := make(map[string]bool)
	whereExpr.Accept(&columnVisitor{cols: usedCols})
	if len(usedCols) == 0 {
		return nil, nil
	}

	if len(table.Indexes) == 0 {
		return []model.Issue{newIssue(seg, r.Name(), model.SeverityMedium, model.CategorySQLPerformance,
			fmt.Sprintf("Table '%s' has no indexes defined.", tableName),
			"Add indexes to optimize queries.")}, nil
	}

	// 4. At least one index must have its first column in the WHERE clause.
	for _, idx := range table.Indexes {
		if len(idx.Columns) > 0 && usedCols[idx.Columns[0]] {
			return nil, nil
		}
	}

	var indexStr []string
	for _, idx := range table.Indexes {
		indexStr = append(indexStr, fmt.Sprintf("[%s(%v)]", idx.Name, idx.Columns))
	}
	return []model.Issue{newIssue(seg, r.Name(), model.SeverityMedium, model.CategorySQLPerformance,
		fmt.Sprintf("Query on '%s' does not hit any index prefix. WHERE uses %v but available indexes are: %s",
			tableName, mapKeys(usedCols), strings.Join(indexStr, " ")),
		"Ensure the WHERE clause filters on the leftmost column of an index.")}, nil
}

func mapKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type columnVisitor struct {
	cols map[string]bool
}

func (v *columnVisitor) Enter(in ast.Node) (ast.Node, bool) {
	if col, ok := in.(*ast.ColumnName); ok {
		v.cols[col.Name.O] = true
	}
	return in, false
}

func (v *columnVisitor) Leave(in ast.Node) (ast.Node, bool) {
	return in, true
}
