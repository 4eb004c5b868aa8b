package auditor

import (
	"github.com/pingcap/tidb/parser/ast"
	"go.uber.org/zap"

	"lineage-scan/internal/model"
	"lineage-scan/internal/parser"
)

// DefaultPaginationThreshold is the OFFSET above which pagination is
// reported as deep.
const DefaultPaginationThreshold = 5000

type Auditor struct {
	rules  []model.SQLRule
	schema *model.SchemaCtx
	parser *parser.SQLParser
	logger *zap.Logger
}

func NewAuditor(schema *model.SchemaCtx, p *parser.SQLParser, logger *zap.Logger) *Auditor {
	if schema == nil {
		schema = parser.NewSchema()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auditor{
		rules:  make([]model.SQLRule, 0),
		schema: schema,
		parser: p,
		logger: logger,
	}
}

// NewDefaultAuditor returns an Auditor with every built-in rule registered.
func NewDefaultAuditor(schema *model.SchemaCtx, p *parser.SQLParser, logger *zap.Logger) *Auditor {
	a := NewAuditor(schema, p, logger)
	a.Register(&NoWhereRule{})
	a.Register(&SelectStarRule{})
	a.Register(&IndexMissRule{})
	a.Register(&ImplicitConversionRule{})
	a.Register(&DeepPaginationRule{Threshold: DefaultPaginationThreshold})
	a.Register(&NegativeQueryRule{})
	return a
}

func (a *Auditor) Register(rule model.SQLRule) {
	a.rules = append(a.rules, rule)
}

// Check runs every rule against one parsed statement.
func (a *Auditor) Check(seg *model.SQLSegment, node ast.StmtNode) []model.Issue {
	var allIssues []model.Issue
	for _, rule := range a.rules {
		issues, err := rule.Check(seg, node, a.schema)
		if err != nil {
			a.logger.Warn("rule failed", zap.String("rule", rule.Name()), zap.Stringer("location", seg.Location), zap.Error(err))
			continue
		}
		allIssues = append(allIssues, issues...)
	}
	return allIssues
}

// Audit parses each segment and checks it. Segments that do not parse are
// skipped.
func (a *Auditor) Audit(segments []model.SQLSegment) ([]model.Issue, error) {
	var allIssues []model.Issue

	for i := range segments {
		seg := &segments[i]
		stmt, err := a.parser.Parse(seg.SQL)
		if err != nil {
			a.logger.Debug("skipping unparsed SQL", zap.Stringer("location", seg.Location), zap.Error(err))
			continue
		}
		allIssues = append(allIssues, a.Check(seg, stmt)...)
	}

	return allIssues, nil
}

func newIssue(seg *model.SQLSegment, rule string, sev model.Severity, category, message, recommendation string) model.Issue {
	return model.Issue{
		Rule:           rule,
		File:           seg.Location.FilePath,
		Line:           seg.Location.Line,
		Message:        message,
		Severity:       sev,
		Category:       category,
		Recommendation: recommendation,
		SQL:            seg.SQL,
	}
}
