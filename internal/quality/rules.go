package quality

import (
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"lineage-scan/internal/model"
	"lineage-scan/internal/syntax"
)

// Default rule thresholds.
const (
	DefaultMaxFunctionLines      = 50
	DefaultMaxArguments          = 5
	DefaultMaxFunctionComplexity = 10
)

// LongFunctionRule flags functions spanning more than MaxLines lines.
type LongFunctionRule struct {
	MaxLines int
}

func (r *LongFunctionRule) Name() string { return "long_function" }

func (r *LongFunctionRule) Check(m *Module) []model.Issue {
	var issues []model.Issue
	for _, fn := range m.Functions {
		if lines := functionLines(fn); lines > r.MaxLines {
			issues = append(issues, m.issue(r.Name(), syntax.Line(fn), model.SeverityMedium, model.CategoryMaintainability,
				fmt.Sprintf("Function '%s' is too long (%d lines)", m.Tree.Field(fn, "name"), lines),
				"Consider breaking this function into smaller, more focused functions."))
		}
	}
	return issues
}

// TooManyArgumentsRule flags functions with more than MaxArgs positional
// parameters.
type TooManyArgumentsRule struct {
	MaxArgs int
}

func (r *TooManyArgumentsRule) Name() string { return "too_many_arguments" }

func (r *TooManyArgumentsRule) Check(m *Module) []model.Issue {
	var issues []model.Issue
	for _, fn := range m.Functions {
		if n := len(positionalParams(fn)); n > r.MaxArgs {
			issues = append(issues, m.issue(r.Name(), syntax.Line(fn), model.SeverityMedium, model.CategoryDesign,
				fmt.Sprintf("Function '%s' has too many arguments (%d)", m.Tree.Field(fn, "name"), n),
				"Consider grouping related parameters into a class or using keyword arguments."))
		}
	}
	return issues
}

// MissingDocstringRule flags classes and functions without a docstring.
type MissingDocstringRule struct{}

func (r *MissingDocstringRule) Name() string { return "missing_docstring" }

func (r *MissingDocstringRule) Check(m *Module) []model.Issue {
	var issues []model.Issue
	syntax.Walk(m.Tree.Root, func(n *tree_sitter.Node) bool {
		var kind string
		switch n.Kind() {
		case "function_definition":
			kind = "function"
		case "class_definition":
			kind = "class"
		default:
			return true
		}
		if m.Tree.Docstring(n) == "" {
			issues = append(issues, m.issue(r.Name(), syntax.Line(n), model.SeverityLow, model.CategoryDocumentation,
				fmt.Sprintf("Missing docstring in %s '%s'", kind, m.Tree.Field(n, "name")),
				fmt.Sprintf("Add a docstring to describe what this %s does.", kind)))
		}
		return true
	})
	return issues
}

// ComplexFunctionRule flags functions whose branch, loop and try count
// exceeds MaxComplexity.
type ComplexFunctionRule struct {
	MaxComplexity int
}

func (r *ComplexFunctionRule) Name() string { return "complex_function" }

func (r *ComplexFunctionRule) Check(m *Module) []model.Issue {
	var issues []model.Issue
	for _, fn := range m.Functions {
		if c := controlCount(fn); c > r.MaxComplexity {
			issues = append(issues, m.issue(r.Name(), syntax.Line(fn), model.SeverityHigh, model.CategoryComplexity,
				fmt.Sprintf("Function '%s' is too complex (complexity: %d)", m.Tree.Field(fn, "name"), c),
				"Refactor this function to reduce its complexity by extracting logic into helper functions."))
		}
	}
	return issues
}

// EmptyExceptRule flags exception handlers whose body is only pass.
type EmptyExceptRule struct{}

func (r *EmptyExceptRule) Name() string { return "empty_except" }

func (r *EmptyExceptRule) Check(m *Module) []model.Issue {
	var issues []model.Issue
	syntax.Walk(m.Tree.Root, func(n *tree_sitter.Node) bool {
		if n.Kind() != "except_clause" && n.Kind() != "except_group_clause" {
			return true
		}
		if onlyPass(n) {
			issues = append(issues, m.issue(r.Name(), syntax.Line(n), model.SeverityHigh, model.CategoryErrorHandling,
				"Empty except block",
				"Empty except blocks hide errors. Either handle the exception properly or log it."))
		}
		return true
	})
	return issues
}

func onlyPass(handler *tree_sitter.Node) bool {
	for _, c := range syntax.NamedChildren(handler) {
		if c.Kind() != "block" {
			continue
		}
		stmts := syntax.Statements(c)
		for _, s := range stmts {
			if s.Kind() != "pass_statement" {
				return false
			}
		}
		return true
	}
	return false
}

// MutableDefaultRule flags list, dict and set literals used as positional
// parameter defaults, one issue per default.
type MutableDefaultRule struct{}

func (r *MutableDefaultRule) Name() string { return "mutable_default" }

func (r *MutableDefaultRule) Check(m *Module) []model.Issue {
	var issues []model.Issue
	for _, fn := range m.Functions {
		for _, p := range positionalParams(fn) {
			if p.Kind() != "default_parameter" && p.Kind() != "typed_default_parameter" {
				continue
			}
			switch v := p.ChildByFieldName("value"); {
			case v == nil:
			case v.Kind() == "list", v.Kind() == "dictionary", v.Kind() == "set":
				issues = append(issues, m.issue(r.Name(), syntax.Line(fn), model.SeverityMedium, model.CategoryBugRisk,
					fmt.Sprintf("Mutable default argument in function '%s'", m.Tree.Field(fn, "name")),
					"Using mutable objects as default arguments can lead to unexpected behavior. Use None instead."))
			}
		}
	}
	return issues
}

// positionalParams returns the parameters of fn that precede the first
// star parameter or bare "*" separator.
func positionalParams(fn *tree_sitter.Node) []*tree_sitter.Node {
	var out []*tree_sitter.Node
	for _, p := range syntax.NamedChildren(fn.ChildByFieldName("parameters")) {
		switch p.Kind() {
		case "identifier", "default_parameter", "typed_default_parameter":
			out = append(out, p)
		case "typed_parameter":
			if first := p.NamedChild(0); first != nil && first.Kind() != "identifier" {
				return out
			}
			out = append(out, p)
		case "positional_separator", "comment":
		default:
			return out
		}
	}
	return out
}
