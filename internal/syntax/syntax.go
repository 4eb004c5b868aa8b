// Package syntax wraps the tree-sitter Python grammar. A file is parsed once
// and the resulting Tree is shared by entity extraction and quality analysis.
package syntax

import (
	"errors"
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// ErrSyntax is returned when the source does not parse cleanly.
var ErrSyntax = errors.New("syntax error")

var pythonLanguage = tree_sitter.NewLanguage(tree_sitter_python.Language())

// Tree is a parsed Python file.
type Tree struct {
	tree   *tree_sitter.Tree
	Root   *tree_sitter.Node
	Source []byte
}

// ParsePython parses content. A tree containing error or missing nodes, or
// Python 2 only syntax the grammar tolerates, is reported as ErrSyntax and
// released.
func ParsePython(content []byte) (*Tree, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(pythonLanguage); err != nil {
		return nil, err
	}

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, ErrSyntax
	}
	root := tree.RootNode()
	if root == nil || root.HasError() {
		tree.Close()
		return nil, ErrSyntax
	}
	if n, what := legacySyntax(root); n != nil {
		line := Line(n)
		tree.Close()
		return nil, fmt.Errorf("%w: %s on line %d", ErrSyntax, what, line)
	}
	return &Tree{tree: tree, Root: root, Source: content}, nil
}

// Close releases the underlying tree.
func (t *Tree) Close() {
	if t != nil && t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// Text returns the source text covered by n.
func (t *Tree) Text(n *tree_sitter.Node) string {
	if n == nil {
		return ""
	}
	start, end := n.StartByte(), n.EndByte()
	if end > uint(len(t.Source)) || start > end {
		return ""
	}
	return string(t.Source[start:end])
}

// Field returns the text of the named field of n, or "".
func (t *Tree) Field(n *tree_sitter.Node, name string) string {
	if n == nil {
		return ""
	}
	return t.Text(n.ChildByFieldName(name))
}

// Line returns the 1-based start line of n.
func Line(n *tree_sitter.Node) int {
	return int(n.StartPosition().Row) + 1
}

// EndLine returns the 1-based end line of n.
func EndLine(n *tree_sitter.Node) int {
	return int(n.EndPosition().Row) + 1
}

// Children returns every child of n, named or not.
func Children(n *tree_sitter.Node) []*tree_sitter.Node {
	if n == nil {
		return nil
	}
	count := n.ChildCount()
	out := make([]*tree_sitter.Node, 0, count)
	for i := uint(0); i < count; i++ {
		if c := n.Child(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// NamedChildren returns the named children of n.
func NamedChildren(n *tree_sitter.Node) []*tree_sitter.Node {
	var out []*tree_sitter.Node
	for _, c := range Children(n) {
		if c.IsNamed() {
			out = append(out, c)
		}
	}
	return out
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of the visited node.
func Walk(n *tree_sitter.Node, fn func(*tree_sitter.Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}

// Statements returns the statements of a block, skipping comments.
func Statements(block *tree_sitter.Node) []*tree_sitter.Node {
	var out []*tree_sitter.Node
	for _, c := range NamedChildren(block) {
		if c.Kind() != "comment" {
			out = append(out, c)
		}
	}
	return out
}

// Docstring returns the docstring of a function or class definition: the
// first statement of its body when that statement is a string literal.
func (t *Tree) Docstring(def *tree_sitter.Node) string {
	body := def.ChildByFieldName("body")
	stmts := Statements(body)
	if len(stmts) == 0 || stmts[0].Kind() != "expression_statement" {
		return ""
	}
	exprs := NamedChildren(stmts[0])
	if len(exprs) != 1 {
		return ""
	}
	switch exprs[0].Kind() {
	case "string":
		return Unquote(t.Text(exprs[0]))
	case "concatenated_string":
		var b strings.Builder
		for _, part := range NamedChildren(exprs[0]) {
			b.WriteString(Unquote(t.Text(part)))
		}
		return strings.TrimSpace(b.String())
	}
	return ""
}

// Unquote strips the prefix and quotes of a Python string literal and trims
// surrounding whitespace. Escapes are left as written.
func Unquote(lit string) string {
	s := strings.TrimLeft(lit, "rRbBuUfF")
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if len(s) >= 2*len(q) && strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
			return strings.TrimSpace(s[len(q) : len(s)-len(q)])
		}
	}
	return strings.TrimSpace(s)
}

// IsStringLiteral reports whether n is a plain (non f-string) string.
func (t *Tree) IsStringLiteral(n *tree_sitter.Node) bool {
	if n == nil || n.Kind() != "string" {
		return false
	}
	for _, c := range NamedChildren(n) {
		if c.Kind() == "interpolation" {
			return false
		}
	}
	return true
}

// legacySyntax finds the first construct that the grammar accepts but a
// Python 3 compiler rejects.
func legacySyntax(root *tree_sitter.Node) (*tree_sitter.Node, string) {
	var (
		found *tree_sitter.Node
		what  string
	)
	Walk(root, func(n *tree_sitter.Node) bool {
		if found != nil {
			return false
		}
		switch n.Kind() {
		case "print_statement":
			found, what = n, "print statement"
		case "exec_statement":
			found, what = n, "exec statement"
		case "except_clause":
			for _, c := range Children(n) {
				if c.Kind() == "," {
					found, what = n, "comma in except clause"
				}
			}
		case "comparison_operator":
			for _, c := range Children(n) {
				if c.Kind() == "<>" {
					found, what = n, "<> operator"
				}
			}
		case "parameters", "lambda_parameters":
			if p := badParameter(n); p != nil {
				found, what = p, "parameter syntax"
			}
		}
		return found == nil
	})
	return found, what
}

// badParameter returns a tuple parameter, or a parameter without a default
// that follows one with a default before any star separator.
func badParameter(params *tree_sitter.Node) *tree_sitter.Node {
	seenDefault := false
	for _, p := range NamedChildren(params) {
		switch p.Kind() {
		case "tuple_pattern":
			return p
		case "default_parameter", "typed_default_parameter":
			seenDefault = true
		case "identifier":
			if seenDefault {
				return p
			}
		case "typed_parameter":
			if isSplat(p) {
				return nil
			}
			if seenDefault {
				return p
			}
		case "list_splat_pattern", "dictionary_splat_pattern", "keyword_separator":
			return nil
		}
	}
	return nil
}

// isSplat reports whether a typed parameter annotates *args or **kwargs.
func isSplat(typed *tree_sitter.Node) bool {
	for _, c := range NamedChildren(typed) {
		switch c.Kind() {
		case "list_splat_pattern", "dictionary_splat_pattern":
			return true
		}
	}
	return false
}
