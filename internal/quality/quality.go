// Package quality computes per-file code metrics and raises code-quality
// issues from the shared Python parse tree.
package quality

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"lineage-scan/internal/extractor"
	"lineage-scan/internal/language"
	"lineage-scan/internal/model"
	"lineage-scan/internal/syntax"
)

// CodeRule inspects a parsed module and reports issues.
type CodeRule interface {
	Name() string
	Check(m *Module) []model.Issue
}

// Module is a parsed Python file with its definitions indexed.
type Module struct {
	Path      string
	Tree      *syntax.Tree
	Functions []*tree_sitter.Node
	Classes   []*tree_sitter.Node
}

func newModule(path string, tree *syntax.Tree) *Module {
	m := &Module{Path: path, Tree: tree}
	syntax.Walk(tree.Root, func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "function_definition":
			m.Functions = append(m.Functions, n)
		case "class_definition":
			m.Classes = append(m.Classes, n)
		}
		return true
	})
	return m
}

func (m *Module) issue(rule string, line int, sev model.Severity, category, msg, rec string) model.Issue {
	return model.Issue{
		Rule:           rule,
		File:           m.Path,
		Line:           line,
		Message:        msg,
		Severity:       sev,
		Category:       category,
		Recommendation: rec,
	}
}

// Analyzer runs the metric computation and the registered code rules.
type Analyzer struct {
	rules []CodeRule
}

// NewAnalyzer returns an Analyzer with no rules.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// NewDefaultAnalyzer returns an Analyzer with the built-in rules.
func NewDefaultAnalyzer() *Analyzer {
	a := NewAnalyzer()
	a.Register(&LongFunctionRule{MaxLines: DefaultMaxFunctionLines})
	a.Register(&TooManyArgumentsRule{MaxArgs: DefaultMaxArguments})
	a.Register(&MissingDocstringRule{})
	a.Register(&ComplexFunctionRule{MaxComplexity: DefaultMaxFunctionComplexity})
	a.Register(&EmptyExceptRule{})
	a.Register(&MutableDefaultRule{})
	return a
}

// Register adds a rule.
func (a *Analyzer) Register(rule CodeRule) {
	a.rules = append(a.rules, rule)
}

// Rules returns the registered rule names in order.
func (a *Analyzer) Rules() []string {
	names := make([]string, 0, len(a.rules))
	for _, r := range a.rules {
		names = append(names, r.Name())
	}
	return names
}

// Analyze computes metrics for src. Python sources get full metrics and rule
// checks, or the unparseable result when the tree is missing. Every other
// language gets line counts only.
func (a *Analyzer) Analyze(src *extractor.Source) (*model.Metrics, []model.Issue) {
	if !language.IsPython(src.Language) {
		m := CountLines(src.Text, language.CommentMarkers(src.Language))
		m.Mode = model.MetricsLinesOnly
		return &m, nil
	}
	if src.Tree == nil {
		return Unparseable(src.Path)
	}

	mod := newModule(src.Path, src.Tree)
	metrics := CountLines(src.Text, []string{"#"})
	metrics.Mode = model.MetricsFull
	measure(mod, &metrics)

	var issues []model.Issue
	for _, rule := range a.rules {
		issues = append(issues, rule.Check(mod)...)
	}
	return &metrics, issues
}

// Unparseable returns the zero metrics and single syntax issue reported for
// Python that fails to parse.
func Unparseable(path string) (*model.Metrics, []model.Issue) {
	m := &model.Metrics{Mode: model.MetricsUnparseable, DebtRatio: 100}
	issue := model.Issue{
		Rule:           "syntax_error",
		File:           path,
		Line:           1,
		Message:        "Failed to parse Python code",
		Severity:       model.SeverityHigh,
		Category:       model.CategorySyntax,
		Recommendation: "Fix the syntax errors in the file to enable proper analysis.",
	}
	return m, []model.Issue{issue}
}

// CountLines splits text into total, blank, comment and code lines. A line
// is a comment when its trimmed form starts with one of markers.
func CountLines(text string, markers []string) model.Metrics {
	var m model.Metrics
	for _, line := range splitLines(text) {
		m.LinesTotal++
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			m.LinesBlank++
		case hasAnyPrefix(trimmed, markers):
			m.LinesComment++
		}
	}
	m.LinesCode = m.LinesTotal - m.LinesBlank - m.LinesComment
	return m
}

// splitLines splits on \n, \r\n and \r without producing a trailing empty
// element for a final newline.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
