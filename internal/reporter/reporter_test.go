package reporter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lineage-scan/internal/model"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func sampleResult() *model.Result {
	return &model.Result{
		RunID:         "run-1",
		Root:          "src",
		LanguageStats: map[string]int{"Python": 3, "SQL": 1},
		Stats: model.CodeStats{
			TotalFiles:        4,
			TotalLines:        120,
			TotalFunctions:    7,
			DetectedDatabases: []string{"PostgreSQL"},
		},
		Issues: []model.Issue{
			{Rule: "select_star", File: "q.sql", Line: 2, Message: "SELECT * used", Severity: model.SeverityLow,
				Recommendation: "List the columns", SQL: "SELECT *\n  FROM users"},
			{Rule: "no_where_clause", File: "q.sql", Line: 5, Message: "DELETE without WHERE", Severity: model.SeverityHigh,
				Recommendation: "Add a WHERE clause"},
		},
		SQL: []model.SQLStatement{
			{File: "q.sql", Line: 2, Kind: model.SQLKindSelect, Text: "SELECT *\n  FROM users"},
		},
		Lineage: model.Graph{
			Nodes: []model.Node{{ID: "orders"}, {ID: "summary"}},
			Edges: []model.Edge{{Source: "orders", Target: "summary", Operation: model.EdgeSQLInsert}},
		},
		Architecture: []model.ArchitectureFinding{
			{Name: "MVC Architecture", Confidence: model.ConfidenceHigh, Evidence: "Directory structure contains models, views, and controllers"},
		},
		Narratives: &model.Narratives{
			Project: "A small service.",
			SQL:     map[string]string{"q.sql:2": "Reads every user."},
		},
	}
}

func TestConsoleReporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsoleReporter(&buf).Report(sampleResult()))
	out := buf.String()

	tests := []struct {
		name string
		want string
	}{
		{"Stats", "Files: 4 (0 binary)  Lines: 120  Functions: 7"},
		{"Languages by count", "Languages: Python (3), SQL (1)"},
		{"Databases", "Databases: PostgreSQL"},
		{"Empty list", "APIs: none"},
		{"Architecture", "MVC Architecture [High]"},
		{"SQL on one line", "q.sql:2: [SELECT] SELECT * FROM users"},
		{"Lineage", "orders -> summary (SQL_INSERT)"},
		{"Project narrative", "A small service."},
		{"SQL narrative", "q.sql:2: Reads every user."},
		{"Issue", "q.sql:5: [High] DELETE without WHERE (no_where_clause)"},
		{"Suggestion", "\tSuggestion: Add a WHERE clause"},
		{"Totals", "found 2 issues (1 high, 0 medium, 1 low)."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, out, tt.want)
		})
	}

	t.Run("High severity first", func(t *testing.T) {
		assert.Less(t, strings.Index(out, "no_where_clause"), strings.Index(out, "(select_star)"))
	})
}

func TestConsoleReporter_NoIssues(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsoleReporter(&buf).Report(&model.Result{}))
	assert.Contains(t, buf.String(), "No issues found")
	assert.NotContains(t, buf.String(), "Lineage")
}

func TestJSONReporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, NewJSONReporter(path).Report(sampleResult()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got model.Result
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, *sampleResult(), got)
	assert.Contains(t, string(data), `"sql_statements"`)
}

func TestJSONReporter_Writer(t *testing.T) {
	var buf bytes.Buffer
	r := &JSONReporter{out: &buf}
	require.NoError(t, r.Report(&model.Result{RunID: "x"}))
	assert.Contains(t, buf.String(), `"run_id": "x"`)
}

func TestNew(t *testing.T) {
	r, err := New("json", "out.json")
	require.NoError(t, err)
	assert.IsType(t, &JSONReporter{}, r)

	r, err = New("", "")
	require.NoError(t, err)
	assert.IsType(t, &ConsoleReporter{}, r)

	_, err = New("html", "")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
