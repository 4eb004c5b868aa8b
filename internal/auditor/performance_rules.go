package auditor

import (
	"strings"

	"github.com/pingcap/tidb/parser/ast"
	"github.com/pingcap/tidb/parser/opcode"
	"github.com/pingcap/tidb/parser/test_driver"

	"lineage-scan/internal/model"
)

// DeepPaginationRule detects LIMIT offset, count where offset is large
type DeepPaginationRule struct {
	Threshold int64
}

func (r *DeepPaginationRule) Name() string { return "deep_pagination" }

func (r *DeepPaginationRule) Check(seg *model.SQLSegment, node ast.StmtNode, schema *model.SchemaCtx) ([]model.Issue, error) {
	var issues []model.Issue
	limitThreshold := r.Threshold
	if limitThreshold == 0 {
		limitThreshold = DefaultPaginationThreshold
	}

	checkLimit := func(limit *ast.Limit) {
		if limit == nil || limit.Offset == nil {
			return
		}
		val, ok := limit.Offset.(*test_driver.ValueExpr)
		if !ok {
			return
		}
		var offset int64
		switch n := val.GetValue().(type) {
		case int64:
			offset = n
		case uint64:
			offset = int64(n)
		default:
			return
		}
		if offset > limitThreshold {
			issues = append(issues, newIssue(seg, r.Name(), model.SeverityMedium, model.CategorySQLPerformance,
				"Deep pagination detected (High Offset)",
				"Use keyset pagination (WHERE id > last_id) instead of OFFSET."))
		}
	}

	switch stmt := node.(type) {
	case *ast.SelectStmt:
		checkLimit(stmt.Limit)
	case *ast.SetOprStmt:
		checkLimit(stmt.Limit)
	}

	return issues, nil
}

// NegativeQueryRule detects !=, NOT IN, LIKE '%...'
type NegativeQueryRule struct{}

func (r *NegativeQueryRule) Name() string { return "negative_query" }

func (r *NegativeQueryRule) Check(seg *model.SQLSegment, node ast.StmtNode, schema *model.SchemaCtx) ([]model.Issue, error) {
	var issues []model.Issue

	v := &negativeVisitor{rule: r.Name(), issues: &issues, seg: seg}
	node.Accept(v)

	return issues, nil
}

type negativeVisitor struct {
	rule   string
	issues *[]model.Issue
	seg    *model.SQLSegment
}

func (v *negativeVisitor) add(message, recommendation string) {
	*v.issues = append(*v.issues, newIssue(v.seg, v.rule, model.SeverityMedium, model.CategorySQLPerformance, message, recommendation))
}

func (v *negativeVisitor) Enter(in ast.Node) (ast.Node, bool) {
	switch n := in.(type) {
	case *ast.PatternInExpr:
		if n.Not {
			v.add("Avoid using NOT IN",
				"Use NOT EXISTS or LEFT JOIN ... IS NULL which are often better optimized.")
		}
	case *ast.BinaryOperationExpr:
		if n.Op == opcode.NE {
			v.add("Avoid using != (Not Equal)",
				"Negative comparison often prevents index usage.")
		}
	case *ast.PatternLikeOrIlikeExpr:
		if strVal, ok := n.Pattern.(*test_driver.ValueExpr); ok && strings.HasPrefix(strVal.GetString(), "%") {
			v.add("LIKE query with leading wildcard",
				"Leading wildcards confuse the optimizer and prevent index usage (Full Table Scan).")
		}
	}
	return in, false
}

func (v *negativeVisitor) Leave(in ast.Node) (ast.Node, bool) {
	return in, true
}
