package auditor

import (
	"github.com/pingcap/tidb/parser/ast"

	"lineage-scan/internal/model"
)

// NoWhereRule detects UPDATE/DELETE without WHERE
type NoWhereRule struct{}

func (r *NoWhereRule) Name() string { return "no_where_clause" }

func (r *NoWhereRule) Check(seg *model.SQLSegment, node ast.StmtNode, schema *model.SchemaCtx) ([]model.Issue, error) {
	var issues []model.Issue

	switch stmt := node.(type) {
	case *ast.UpdateStmt:
		if stmt.Where == nil {
			issues = append(issues, newIssue(seg, r.Name(), model.SeverityHigh, model.CategorySQLSafety,
				"UPDATE statement executed without WHERE clause (Full Table Update)",
				"Add a WHERE clause to limit the scope of the update."))
		}
	case *ast.DeleteStmt:
		if stmt.Where == nil {
			issues = append(issues, newIssue(seg, r.Name(), model.SeverityHigh, model.CategorySQLSafety,
				"DELETE statement executed without WHERE clause (Full Table Delete)",
				"Add a WHERE clause to limit the scope of the delete."))
		}
	}

	return issues, nil
}

// SelectStarRule detects SELECT *
type SelectStarRule struct{}

func (r *SelectStarRule) Name() string { return "select_star" }

func (r *SelectStarRule) Check(seg *model.SQLSegment, node ast.StmtNode, schema *model.SchemaCtx) ([]model.Issue, error) {
	var issues []model.Issue

	if stmt, ok := node.(*ast.SelectStmt); ok && stmt.Fields != nil {
		for _, field := range stmt.Fields.Fields {
			if field.WildCard != nil {
				issues = append(issues, newIssue(seg, r.Name(), model.SeverityLow, model.CategorySQLPerformance,
					"Avoid using SELECT * in production",
					"List valid columns explicitly to reduce I/O and forward compatibility issues."))
			}
		}
	}

	return issues, nil
}
