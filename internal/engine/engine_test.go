package engine

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lineage-scan/internal/model"
	"lineage-scan/internal/scanner"
	"lineage-scan/internal/summarizer"
)

const userModel = `import psycopg2
import requests


class UserModel:
    """User records."""

    def load(self, user_id):
        """Load one user."""
        conn = psycopg2.connect("dbname=app")
        resp = requests.get("https://api.example.com/users")
        return resp.json()
`

const schemaSQL = `CREATE TABLE orders (id INT PRIMARY KEY, user_id INT, total DECIMAL(10,2));
CREATE TABLE summary (user_id INT, total DECIMAL(10,2));
INSERT INTO summary SELECT user_id, SUM(total) FROM orders GROUP BY user_id;
DELETE FROM orders;
`

func tree() map[string]string {
	return map[string]string{
		"app/models/user.py":                 userModel,
		"app/views/user_view.py":             "class UserView:\n    pass\n",
		"app/controllers/user_controller.py": "def index():\n    return 1\n",
		"db/schema.sql":                      schemaSQL,
		"broken.py":                          "def broken(:\n    pass\n",
		"blob.dat":                           "import psycopg2\x00\x01",
	}
}

func entries(files map[string]string) []scanner.Entry {
	out := make([]scanner.Entry, 0, len(files))
	for p, c := range files {
		out = append(out, scanner.Entry{Path: p, Size: int64(len(c)), Content: []byte(c)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func analyze(t *testing.T, e *Engine, files map[string]string) *model.Result {
	t.Helper()
	r, err := e.Analyze(context.Background(), "src", entries(files))
	require.NoError(t, err)
	return r
}

func fileByPath(r *model.Result, p string) *model.SourceFile {
	for i := range r.Files {
		if r.Files[i].Path == p {
			return &r.Files[i]
		}
	}
	return nil
}

func TestAnalyze_Pipeline(t *testing.T) {
	r := analyze(t, New(Options{Workers: 3}, nil, nil, zap.NewNop()), tree())

	assert.NotEmpty(t, r.RunID)
	assert.Equal(t, 6, r.Stats.TotalFiles)
	assert.Equal(t, 1, r.Stats.BinaryFiles)
	assert.Equal(t, 4, r.LanguageStats["Python"])
	assert.Equal(t, 1, r.LanguageStats["SQL"])

	user := fileByPath(r, "app/models/user.py")
	require.NotNil(t, user)
	assert.Equal(t, 12, user.Lines)
	assert.Equal(t, 1, user.Functions)
	assert.Equal(t, 1, user.Classes)
	assert.Equal(t, []string{"PostgreSQL"}, user.DBTypes)
	assert.Contains(t, user.APIs, "REST API")
	assert.Len(t, user.Hash, 16)
	require.NotNil(t, user.Metrics)
	assert.Equal(t, model.MetricsFull, user.Metrics.Mode)
	assert.Equal(t, 100.0, user.Metrics.DocstringCoverage)

	assert.Equal(t, []string{"PostgreSQL"}, r.DBConnections["app/models/user.py"])
	assert.Contains(t, r.Stats.DetectedDatabases, "PostgreSQL")

	require.Len(t, r.DataFlow.ETLCandidates, 1)
	assert.Equal(t, "app/models/user.py", r.DataFlow.ETLCandidates[0].File)

	var mvc *model.ArchitectureFinding
	for i := range r.Architecture {
		if r.Architecture[i].Name == "MVC Architecture" {
			mvc = &r.Architecture[i]
		}
	}
	require.NotNil(t, mvc)
	assert.Equal(t, model.ConfidenceHigh, mvc.Confidence)
}

func TestAnalyze_BinaryFilesContributeNothing(t *testing.T) {
	r := analyze(t, New(Options{}, nil, nil, nil), tree())

	blob := fileByPath(r, "blob.dat")
	require.NotNil(t, blob)
	assert.True(t, blob.IsBinary)
	assert.Nil(t, blob.Metrics)
	assert.Zero(t, blob.Lines)
	assert.Empty(t, blob.DBTypes)
	assert.NotContains(t, r.DBConnections, "blob.dat")
	for _, fn := range r.Functions {
		assert.NotEqual(t, "blob.dat", fn.File)
	}
	for _, i := range r.Issues {
		assert.NotEqual(t, "blob.dat", i.File)
	}
}

func TestAnalyze_SyntaxErrorIsReported(t *testing.T) {
	r := analyze(t, New(Options{}, nil, nil, nil), tree())

	broken := fileByPath(r, "broken.py")
	require.NotNil(t, broken)
	require.NotNil(t, broken.Metrics)
	assert.Equal(t, model.MetricsUnparseable, broken.Metrics.Mode)
	assert.Equal(t, 2, broken.Lines)

	var syntax []model.Issue
	for _, i := range r.Issues {
		if i.File == "broken.py" && i.Category == model.CategorySyntax {
			syntax = append(syntax, i)
		}
	}
	require.Len(t, syntax, 1)
	assert.Equal(t, model.SeverityHigh, syntax[0].Severity)
}

func TestAnalyze_SQL(t *testing.T) {
	r := analyze(t, New(Options{}, nil, nil, nil), tree())

	require.Len(t, r.SQL, 4)
	insert := r.SQL[2]
	assert.Equal(t, model.SQLKindInsert, insert.Kind)
	assert.Equal(t, "summary", insert.Target)
	assert.Equal(t, []string{"orders"}, insert.Sources)
	assert.Equal(t, 3, insert.Line)

	assert.Contains(t, r.Lineage.Edges, model.Edge{
		Source: "orders", Target: "summary", Operation: model.EdgeSQLInsert, File: "db/schema.sql",
	})

	var noWhere []model.Issue
	for _, i := range r.Issues {
		if i.Rule == "no_where_clause" {
			noWhere = append(noWhere, i)
		}
	}
	require.Len(t, noWhere, 1)
	assert.Equal(t, "db/schema.sql", noWhere[0].File)
	assert.Equal(t, 4, noWhere[0].Line)
}

func TestAnalyze_Idempotent(t *testing.T) {
	e := New(Options{Workers: 4}, nil, nil, nil)
	a := analyze(t, e, tree())
	b := analyze(t, e, tree())
	assert.NotEqual(t, a.RunID, b.RunID)
	a.RunID, b.RunID = "", ""
	assert.Equal(t, a, b)
}

type fakeSummarizer struct {
	mu      sync.Mutex
	prompts []string
	err     error
}

func (f *fakeSummarizer) Summarize(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return "narrative", nil
}

func TestAnalyze_Narratives(t *testing.T) {
	fake := &fakeSummarizer{}
	e := New(Options{Narratives: NarrativeOptions{Project: true, FilesEvery: 2, SQL: 1}}, fake, nil, nil)
	r := analyze(t, e, tree())

	require.NotNil(t, r.Narratives)
	assert.Equal(t, "narrative", r.Narratives.Project)
	assert.Equal(t, "narrative", r.Narratives.DataFlow)
	// text files in path order: controllers, models, views, broken.py, db/schema.sql
	assert.Equal(t, map[string]string{
		"app/controllers/user_controller.py": "narrative",
		"app/views/user_view.py":             "narrative",
		"db/schema.sql":                      "narrative",
	}, r.Narratives.Files)
	assert.Equal(t, map[string]string{"db/schema.sql:1": "narrative"}, r.Narratives.SQL)
	assert.Len(t, fake.prompts, 6)
}

func TestAnalyze_NarrativeFailuresBecomeText(t *testing.T) {
	fake := &fakeSummarizer{err: errors.New("quota exceeded")}
	e := New(Options{Narratives: NarrativeOptions{Project: true}}, fake, nil, nil)
	r := analyze(t, e, tree())

	require.NotNil(t, r.Narratives)
	assert.Equal(t, "Analysis unavailable: quota exceeded", r.Narratives.Project)
	assert.Equal(t, "Analysis unavailable: quota exceeded", r.Narratives.DataFlow)
}

func TestAnalyze_DisabledSummarizer(t *testing.T) {
	r := analyze(t, New(Options{Narratives: NarrativeOptions{Project: true}}, summarizer.Disabled{}, nil, nil), tree())
	assert.Nil(t, r.Narratives)
}

type fakeDetector struct {
	calls []string
}

func (d *fakeDetector) DetectLanguage(_ context.Context, path string, _ []byte) (string, error) {
	d.calls = append(d.calls, path)
	return "kotlin", nil
}

func TestAnalyze_DetectorSampling(t *testing.T) {
	det := &fakeDetector{}
	e := New(Options{DetectEvery: 2}, nil, det, nil)
	r := analyze(t, e, map[string]string{
		"a.xyz": "hello",
		"b.xyz": "hello",
		"c.xyz": "hello",
		"d.py":  "x = 1\n",
	})
	assert.Equal(t, []string{"a.xyz", "c.xyz"}, det.calls)
	assert.Equal(t, "Kotlin", fileByPath(r, "a.xyz").Language)
	assert.Equal(t, "unknown", fileByPath(r, "b.xyz").Language)
}

func TestRun_Archive(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "src.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for _, name := range []string{"pkg/a.py", "pkg/.cache/b.py", "img/logo.png"} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte("def a():\n    return 1\n"))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	r, err := New(Options{}, nil, nil, nil).Run(context.Background(), zipPath)
	require.NoError(t, err)
	require.Len(t, r.Files, 1)
	assert.Equal(t, "pkg/a.py", r.Files[0].Path)
	assert.Equal(t, zipPath, r.Root)

	bad := filepath.Join(dir, "bad.zip")
	require.NoError(t, os.WriteFile(bad, []byte("nope"), 0o644))
	_, err = New(Options{}, nil, nil, nil).Run(context.Background(), bad)
	assert.ErrorIs(t, err, scanner.ErrInvalidArchive)
}

func TestMostCommon(t *testing.T) {
	got := mostCommon([]string{"b", "a", "b", "c", "a", "b", "d"}, 3)
	assert.Equal(t, []model.NameCount{{Name: "b", Count: 3}, {Name: "a", Count: 2}, {Name: "c", Count: 1}}, got)
	assert.Empty(t, mostCommon(nil, 5))
}

func TestAnalyze_DetectedKindsInCatalogOrder(t *testing.T) {
	r := analyze(t, New(Options{}, nil, nil, nil), map[string]string{
		"a.py": "import graphql\n",
		"b.py": "import requests\nrequests.get(url)\nimport pymongo\n",
		"c.py": "import psycopg2\n",
	})
	assert.Equal(t, []string{"REST API", "GraphQL"}, r.Stats.DetectedAPIs)
	assert.Equal(t, []string{"PostgreSQL", "MongoDB"}, r.Stats.DetectedDatabases)
}

func TestInCatalogOrder(t *testing.T) {
	set := map[string]bool{"c": true, "a": true, "x": true}
	assert.Equal(t, []string{"c", "a"}, inCatalogOrder(set, []string{"c", "b", "a", "c"}))
	assert.Empty(t, inCatalogOrder(map[string]bool{}, []string{"a"}))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	s := truncate(strings.Repeat("é", 3), 3)
	assert.Equal(t, "é", s)
}

func TestAnalyze_SchemaFile(t *testing.T) {
	schema := filepath.Join(t.TempDir(), "schema.sql")
	require.NoError(t, os.WriteFile(schema, []byte("CREATE TABLE users (id INT PRIMARY KEY, created_at DATETIME);"), 0o644))
	files := map[string]string{"q.sql": "SELECT id FROM users WHERE created_at = '2024-01-01';\n"}

	rules := func(r *model.Result) []string {
		var out []string
		for _, i := range r.Issues {
			out = append(out, i.Rule)
		}
		return out
	}

	without := analyze(t, New(Options{}, nil, nil, nil), files)
	assert.NotContains(t, rules(without), "index_miss")

	with := analyze(t, New(Options{Schema: schema}, nil, nil, nil), files)
	assert.Contains(t, rules(with), "index_miss")

	missing := analyze(t, New(Options{Schema: filepath.Join(t.TempDir(), "none.sql")}, nil, nil, nil), files)
	assert.Equal(t, rules(without), rules(missing))
}
