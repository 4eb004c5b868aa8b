package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

func TestParsePython(t *testing.T) {
	tree, err := ParsePython([]byte("def f(a):\n    \"\"\"Doc.\"\"\"\n    return a\n"))
	require.NoError(t, err)
	defer tree.Close()

	assert.Equal(t, "module", tree.Root.Kind())

	var fn *tree_sitter.Node
	Walk(tree.Root, func(n *tree_sitter.Node) bool {
		if n.Kind() == "function_definition" {
			fn = n
			return false
		}
		return true
	})
	require.NotNil(t, fn)
	assert.Equal(t, "f", tree.Field(fn, "name"))
	assert.Equal(t, 1, Line(fn))
	assert.Equal(t, 3, EndLine(fn))
	assert.Equal(t, "Doc.", tree.Docstring(fn))
}

func TestParsePythonSyntaxError(t *testing.T) {
	_, err := ParsePython([]byte("def broken(:\n  pass\n"))
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestParsePythonLegacySyntax(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		reject bool
	}{
		{"print statement", "print \"hello\"\n", true},
		{"print chevron", "import sys\nprint >>sys.stderr, \"x\"\n", true},
		{"exec statement", "exec \"x = 1\"\n", true},
		{"except comma", "try:\n    pass\nexcept ValueError, e:\n    pass\n", true},
		{"not equal operator", "if a <> b:\n    pass\n", true},
		{"default before plain", "def f(a=1, b):\n    pass\n", true},
		{"default before typed", "def f(a=1, b: int):\n    pass\n", true},
		{"lambda default before plain", "g = lambda a=1, b: a\n", true},
		{"tuple parameter", "def f((a, b)):\n    pass\n", true},
		{"print call", "print(\"hello\")\n", false},
		{"exec call", "exec(\"x = 1\")\n", false},
		{"except as", "try:\n    pass\nexcept ValueError as e:\n    pass\n", false},
		{"except tuple", "try:\n    pass\nexcept (ValueError, KeyError):\n    pass\n", false},
		{"keyword only after default", "def f(a=1, *, b):\n    pass\n", false},
		{"args after default", "def f(a=1, *args, b, **kw):\n    pass\n", false},
		{"typed args after default", "def f(a=1, *args: int, b: str):\n    pass\n", false},
		{"positional only", "def f(a, /, b=2):\n    pass\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := ParsePython([]byte(tt.code))
			if tt.reject {
				assert.ErrorIs(t, err, ErrSyntax)
				assert.Nil(t, tree)
				return
			}
			require.NoError(t, err)
			tree.Close()
		})
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"abc"`, "abc"},
		{`'abc'`, "abc"},
		{`"""  multi line  """`, "multi line"},
		{`r'\d+'`, `\d+`},
		{`f"x {y}"`, "x {y}"},
		{`""`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Unquote(tt.in))
		})
	}
}
