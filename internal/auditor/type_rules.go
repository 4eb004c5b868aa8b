package auditor

import (
	"fmt"
	"strings"

	"github.com/pingcap/tidb/parser/ast"
	"github.com/pingcap/tidb/parser/test_driver"

	"lineage-scan/internal/model"
	"lineage-scan/internal/parser"
)

// ImplicitConversionRule detects type mismatches between columns and values
type ImplicitConversionRule struct{}

func (r *ImplicitConversionRule) Name() string { return "implicit_conversion" }

func (r *ImplicitConversionRule) Check(seg *model.SQLSegment, node ast.StmtNode, schema *model.SchemaCtx) ([]model.Issue, error) {
	if schema == nil {
		return nil, nil
	}
	tableName := parser.PrimaryTable(node)
	if tableName == "" {
		return nil, nil
	}

	table, ok := schema.Tables[tableName]
	if !ok {
		return nil, nil
	}

	var issues []model.Issue
	v := &typeVisitor{
		rule:    r.Name(),
		issues:  &issues,
		seg:     seg,
		columns: table.Columns,
	}
	node.Accept(v)

	return issues, nil
}

type typeVisitor struct {
	rule    string
	issues  *[]model.Issue
	seg     *model.SQLSegment
	columns map[string]*model.Column
}

func (v *typeVisitor) Enter(in ast.Node) (ast.Node, bool) {
	if binOp, ok := in.(*ast.BinaryOperationExpr); ok {
		// Col = Value or Value = Col
		lCol, lOk := binOp.L.(*ast.ColumnNameExpr)
		rVal, rOk := binOp.R.(*test_driver.ValueExpr)

		if lOk && rOk {
			v.checkMismatch(lCol.Name.Name.O, rVal)
		} else {
			lVal, lOk := binOp.L.(*test_driver.ValueExpr)
			rCol, rOk := binOp.R.(*ast.ColumnNameExpr)
			if lOk && rOk {
				v.checkMismatch(rCol.Name.Name.O, lVal)
			}
		}
	}
	return in, false
}

func (v *typeVisitor) Leave(in ast.Node) (ast.Node, bool) {
	return in, true
}

func (v *typeVisitor) checkMismatch(colName string, valExpr *test_driver.ValueExpr) {
	colDef, ok := v.columns[colName]
	if !ok {
		return
	}

	colType := strings.ToUpper(colDef.Type)
	isStringCol := strings.Contains(colType, "CHAR") || strings.Contains(colType, "TEXT")
	if !isStringCol {
		return
	}

	switch valExpr.GetValue().(type) {
	case int, int64, uint64, float64:
		*v.issues = append(*v.issues, newIssue(v.seg, v.rule, model.SeverityMedium, model.CategorySQLPerformance,
			fmt.Sprintf("Implicit conversion detected: String column '%s' compared with Number.", colName),
			"Quote the number to avoid implicit conversion and index invalidation (e.g., '123' instead of 123)."))
	}
}
