package quality

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lineage-scan/internal/extractor"
	"lineage-scan/internal/language"
	"lineage-scan/internal/model"
)

func analyze(t *testing.T, code string) (*model.Metrics, []model.Issue) {
	t.Helper()
	src := extractor.NewSource("app.py", []byte(code), language.Python)
	t.Cleanup(src.Close)
	return NewDefaultAnalyzer().Analyze(src)
}

func byRule(issues []model.Issue, rule string) []model.Issue {
	var out []model.Issue
	for _, i := range issues {
		if i.Rule == rule {
			out = append(out, i)
		}
	}
	return out
}

func TestAnalyzer_Rules(t *testing.T) {
	assert.Equal(t,
		[]string{"long_function", "too_many_arguments", "missing_docstring", "complex_function", "empty_except", "mutable_default"},
		NewDefaultAnalyzer().Rules())
}

func TestCountLines(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		markers []string
		want    [4]int // total, code, comment, blank
	}{
		{"empty", "", []string{"#"}, [4]int{0, 0, 0, 0}},
		{"python", "# header\n\nx = 1\n  # indented\ny = 2", []string{"#"}, [4]int{5, 2, 2, 1}},
		{"crlf", "a\r\n\r\nb\r\n", []string{"#"}, [4]int{3, 2, 0, 1}},
		{"c family", "/* block\n * more\n */\nint x;\n// done\n", []string{"//", "/*", "*"}, [4]int{5, 1, 4, 0}},
		{"no markers", "# not a comment\n", nil, [4]int{1, 1, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := CountLines(tt.text, tt.markers)
			assert.Equal(t, tt.want, [4]int{m.LinesTotal, m.LinesCode, m.LinesComment, m.LinesBlank})
		})
	}
}

func TestAnalyze_Metrics(t *testing.T) {
	code := `import os, sys
from a import b, c as d
from e import *


def f(a):
    if a and a > 1:
        return 1
    return 0
`
	m, _ := analyze(t, code)
	assert.Equal(t, model.MetricsFull, m.Mode)
	assert.Equal(t, 9, m.LinesTotal)
	assert.Equal(t, 7, m.LinesCode)
	assert.Equal(t, 5, m.Imports)
	assert.Equal(t, 1, m.Functions)
	assert.Equal(t, 0, m.Classes)
	assert.Equal(t, 1, m.IfStatements)
	assert.Equal(t, 0, m.Loops)
	assert.Equal(t, 2, m.Cyclomatic)
	assert.Equal(t, 2, m.Cognitive)
	assert.Equal(t, 0.0, m.DocstringCoverage)
	assert.Equal(t, 0.0, m.CommentRatio)
	// volume = 7 * 2 / 1
	assert.Equal(t, 98.6, m.Maintainability)
	// no comments, complexity ratio above 0.1, no docstrings
	assert.Equal(t, 60.0, m.DebtRatio)
}

func TestAnalyze_Cyclomatic(t *testing.T) {
	tests := []struct {
		name string
		code string
		want int
	}{
		{"and chain counts once", "x = a and b and c\n", 1},
		{"mixed operators", "x = a and b or c\n", 2},
		{"parenthesised", "x = a and (b and c)\n", 2},
		{"elif", "if a:\n    pass\nelif b:\n    pass\nelse:\n    pass\n", 2},
		{"loops and try", "for i in x:\n    pass\nwhile y:\n    pass\ntry:\n    pass\nexcept E:\n    raise\n", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := analyze(t, tt.code)
			assert.Equal(t, tt.want, m.Cyclomatic)
		})
	}
}

func TestAnalyze_Cognitive(t *testing.T) {
	code := `def f(x):
    for i in x:
        if i:
            pass


class K:
    def g(self):
        if self:
            pass
`
	m, _ := analyze(t, code)
	// f: 1 + for 1 + if 2; K: 1; g: 1 + if 1
	assert.Equal(t, 7, m.Cognitive)
}

func TestAnalyze_DocstringCoverage(t *testing.T) {
	m, _ := analyze(t, "x = 1\n")
	assert.Equal(t, 100.0, m.DocstringCoverage)

	m, issues := analyze(t, `class A:
    """Documented."""

    def run(self):
        return 1
`)
	assert.Equal(t, 50.0, m.DocstringCoverage)
	missing := byRule(issues, "missing_docstring")
	require.Len(t, missing, 1)
	assert.Equal(t, "Missing docstring in function 'run'", missing[0].Message)
	assert.Equal(t, "Add a docstring to describe what this function does.", missing[0].Recommendation)
	assert.Equal(t, 4, missing[0].Line)
	assert.Equal(t, model.SeverityLow, missing[0].Severity)
}

func TestAnalyze_DebtLongFunction(t *testing.T) {
	var b strings.Builder
	b.WriteString("def long(x):\n")
	for i := 0; i < 31; i++ {
		b.WriteString("    x += 1\n")
	}
	m, issues := analyze(t, b.String())
	// no comments, no docstrings, a function over 30 lines
	assert.Equal(t, 60.0, m.DebtRatio)
	assert.Empty(t, byRule(issues, "long_function"))
}

func TestAnalyze_Unparseable(t *testing.T) {
	m, issues := analyze(t, "def broken(:\n    pass\n")
	assert.Equal(t, &model.Metrics{Mode: model.MetricsUnparseable, DebtRatio: 100}, m)
	assert.Equal(t, []model.Issue{{
		Rule:           "syntax_error",
		File:           "app.py",
		Line:           1,
		Message:        "Failed to parse Python code",
		Severity:       model.SeverityHigh,
		Category:       model.CategorySyntax,
		Recommendation: "Fix the syntax errors in the file to enable proper analysis.",
	}}, issues)
}

func TestAnalyze_Python2IsUnparseable(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"print statement", "def greet():\n    print \"hello\"\n"},
		{"exec statement", "exec \"x = 1\"\n"},
		{"non-default after default", "def f(a=1, b):\n    return b\n"},
		{"except comma", "try:\n    run()\nexcept ValueError, e:\n    pass\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, issues := analyze(t, tt.code)
			assert.Equal(t, model.MetricsUnparseable, m.Mode)
			assert.Equal(t, 100.0, m.DebtRatio)
			require.Len(t, issues, 1)
			assert.Equal(t, "syntax_error", issues[0].Rule)
			assert.Equal(t, model.SeverityHigh, issues[0].Severity)
			assert.Equal(t, model.CategorySyntax, issues[0].Category)
		})
	}
}

func TestAnalyze_LinesOnly(t *testing.T) {
	src := extractor.NewSource("app.js", []byte("// hello\nconst x = 1;\n\n"), language.JavaScript)
	m, issues := NewDefaultAnalyzer().Analyze(src)
	assert.Empty(t, issues)
	assert.Equal(t, &model.Metrics{Mode: model.MetricsLinesOnly, LinesTotal: 3, LinesCode: 1, LinesComment: 1, LinesBlank: 1}, m)
}

func TestMutableDefaultRule(t *testing.T) {
	tests := []struct {
		name string
		code string
		want int
	}{
		{"list literal", "def f(items=[]):\n    return items\n", 1},
		{"none default", "def f(items=None):\n    return items\n", 0},
		{"dict and set", "def f(a={}, b={1}, c=()):\n    pass\n", 2},
		{"typed", "def f(a: list = []):\n    pass\n", 1},
		{"keyword only ignored", "def f(*, a=[]):\n    pass\n", 0},
		{"comprehension ignored", "def f(a=[i for i in x]):\n    pass\n", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, issues := analyze(t, tt.code)
			got := byRule(issues, "mutable_default")
			require.Len(t, got, tt.want)
			for _, i := range got {
				assert.Equal(t, "Mutable default argument in function 'f'", i.Message)
				assert.Equal(t, model.SeverityMedium, i.Severity)
				assert.Equal(t, model.CategoryBugRisk, i.Category)
				assert.Equal(t, 1, i.Line)
			}
		})
	}
}

func TestEmptyExceptRule(t *testing.T) {
	tests := []struct {
		name string
		code string
		want int
	}{
		{"pass only", "try:\n    run()\nexcept Exception:\n    pass\n", 1},
		{"pass with comment", "try:\n    run()\nexcept Exception:\n    # ignore\n    pass\n", 1},
		{"logged", "try:\n    run()\nexcept Exception as e:\n    logger.error(e)\n", 0},
		{"bare except pass", "try:\n    run()\nexcept:\n    pass\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, issues := analyze(t, tt.code)
			got := byRule(issues, "empty_except")
			require.Len(t, got, tt.want)
			if tt.want == 1 {
				assert.Equal(t, 3, got[0].Line)
				assert.Equal(t, model.SeverityHigh, got[0].Severity)
				assert.Equal(t, model.CategoryErrorHandling, got[0].Category)
				assert.Equal(t, "Empty except block", got[0].Message)
			}
		})
	}
}

func TestTooManyArgumentsRule(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"six positional", "def g(a, b, c, d, e, f, *args, k=1):\n    pass\n", "Function 'g' has too many arguments (6)"},
		{"keyword only not counted", "def g(a, b, c, d, e, *, f, h):\n    pass\n", ""},
		{"self counts", "def g(self, a, b, c, d, e):\n    pass\n", "Function 'g' has too many arguments (6)"},
		{"typed", "def g(a: int, b: int, c, d, e, f=1):\n    pass\n", "Function 'g' has too many arguments (6)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, issues := analyze(t, tt.code)
			got := byRule(issues, "too_many_arguments")
			if tt.want == "" {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Message)
			assert.Equal(t, model.CategoryDesign, got[0].Category)
		})
	}
}

func TestLongAndComplexFunctionRules(t *testing.T) {
	var b strings.Builder
	b.WriteString("def big(x):\n")
	for i := 0; i < 11; i++ {
		b.WriteString("    if x:\n        x += 1\n")
	}
	for i := 0; i < 30; i++ {
		b.WriteString("    x -= 1\n")
	}
	b.WriteString("    return x\n")

	_, issues := analyze(t, b.String())

	long := byRule(issues, "long_function")
	require.Len(t, long, 1)
	assert.Equal(t, "Function 'big' is too long (53 lines)", long[0].Message)
	assert.Equal(t, model.SeverityMedium, long[0].Severity)

	cx := byRule(issues, "complex_function")
	require.Len(t, cx, 1)
	assert.Equal(t, "Function 'big' is too complex (complexity: 11)", cx[0].Message)
	assert.Equal(t, model.SeverityHigh, cx[0].Severity)
	assert.Equal(t, model.CategoryComplexity, cx[0].Category)
}
