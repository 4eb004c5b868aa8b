package quality

import (
	"math"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"lineage-scan/internal/model"
	"lineage-scan/internal/syntax"
)

// Function length above which the debt ratio is penalised.
const debtFunctionLines = 30

func measure(mod *Module, m *model.Metrics) {
	m.Functions = len(mod.Functions)
	m.Classes = len(mod.Classes)

	var tries, boolOps int
	syntax.Walk(mod.Tree.Root, func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "if_statement", "elif_clause":
			m.IfStatements++
		case "for_statement", "while_statement":
			m.Loops++
		case "try_statement":
			tries++
		case "boolean_operator":
			if !chainedBoolean(n) {
				boolOps++
			}
		case "import_statement", "import_from_statement":
			m.Imports += importCount(n)
		}
		return true
	})
	m.Cyclomatic = m.IfStatements + m.Loops + tries + boolOps
	m.Cognitive = cognitive(mod.Tree.Root, 0)

	defs := m.Functions + m.Classes
	m.DocstringCoverage = 100
	if defs > 0 {
		documented := 0
		for _, def := range append(append([]*tree_sitter.Node{}, mod.Functions...), mod.Classes...) {
			if mod.Tree.Docstring(def) != "" {
				documented++
			}
		}
		m.DocstringCoverage = round2(float64(documented) / float64(defs) * 100)
	}
	m.CommentRatio = round2(float64(m.LinesComment) / float64(max(m.LinesCode, 1)) * 100)

	volume := float64(m.LinesCode) * (float64(m.Cyclomatic) / float64(max(1, defs)))
	m.Maintainability = round2(clamp(100-volume/10, 0, 100))
	m.DebtRatio = debtRatio(mod, m)
}

func debtRatio(mod *Module, m *model.Metrics) float64 {
	if m.LinesCode == 0 {
		return 0
	}
	debt := 0.0
	code := float64(m.LinesCode)
	if float64(m.LinesComment)/code < 0.1 {
		debt += 20
	}
	if float64(m.Cyclomatic)/code > 0.1 {
		debt += 20
	}
	if m.DocstringCoverage < 50 {
		debt += 20
	}
	for _, fn := range mod.Functions {
		if functionLines(fn) > debtFunctionLines {
			debt += 20
			break
		}
	}
	return math.Min(debt, 100)
}

// chainedBoolean reports whether n continues a run of the same operator,
// so that "a and b and c" counts once.
func chainedBoolean(n *tree_sitter.Node) bool {
	parent := n.Parent()
	if parent == nil || parent.Kind() != "boolean_operator" {
		return false
	}
	op := n.ChildByFieldName("operator")
	pop := parent.ChildByFieldName("operator")
	return op != nil && pop != nil && op.Kind() == pop.Kind()
}

func importCount(n *tree_sitter.Node) int {
	count := 0
	module := n.ChildByFieldName("module_name")
	for _, c := range syntax.NamedChildren(n) {
		if module != nil && c.Id() == module.Id() {
			continue
		}
		switch c.Kind() {
		case "dotted_name", "aliased_import", "wildcard_import":
			count++
		}
	}
	return count
}

// cognitive adds one per function or class and one plus the current nesting
// depth per control structure. Nesting restarts inside every definition.
func cognitive(n *tree_sitter.Node, nesting int) int {
	score := 0
	for _, c := range syntax.NamedChildren(n) {
		switch c.Kind() {
		case "function_definition", "class_definition":
			score += 1 + cognitive(c, 0)
		case "if_statement", "elif_clause", "for_statement", "while_statement", "try_statement":
			score += 1 + nesting + cognitive(c, nesting+1)
		default:
			score += cognitive(c, nesting)
		}
	}
	return score
}

// controlCount counts the branches, loops and try blocks under n.
func controlCount(n *tree_sitter.Node) int {
	count := 0
	syntax.Walk(n, func(c *tree_sitter.Node) bool {
		switch c.Kind() {
		case "if_statement", "elif_clause", "for_statement", "while_statement", "try_statement":
			count++
		}
		return true
	})
	return count
}

func functionLines(fn *tree_sitter.Node) int {
	return syntax.EndLine(fn) - syntax.Line(fn)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
