package auditor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lineage-scan/internal/model"
	"lineage-scan/internal/parser"
)

func TestSafetyRules_Check(t *testing.T) {
	p := parser.NewSQLParser()

	tests := []struct {
		name     string
		rule     model.SQLRule
		sql      string
		severity model.Severity
		category string
		want     int
	}{
		{"update without where", &NoWhereRule{}, "UPDATE users SET name = 'test'", model.SeverityHigh, model.CategorySQLSafety, 1},
		{"update with where", &NoWhereRule{}, "UPDATE users SET name = 'test' WHERE id = 1", "", "", 0},
		{"delete without where", &NoWhereRule{}, "DELETE FROM users", model.SeverityHigh, model.CategorySQLSafety, 1},
		{"delete with where", &NoWhereRule{}, "DELETE FROM users WHERE id = 1", "", "", 0},
		{"select ignored by where rule", &NoWhereRule{}, "SELECT * FROM users", "", "", 0},
		{"select star", &SelectStarRule{}, "SELECT * FROM users", model.SeverityLow, model.CategorySQLPerformance, 1},
		{"qualified star", &SelectStarRule{}, "SELECT u.* FROM users u", model.SeverityLow, model.CategorySQLPerformance, 1},
		{"explicit columns", &SelectStarRule{}, "SELECT id, name FROM users", "", "", 0},
		// count(*) is an aggregate, not a wildcard field
		{"count star", &SelectStarRule{}, "SELECT count(*) FROM users", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := p.Parse(tt.sql)
			require.NoError(t, err)
			seg := &model.SQLSegment{SQL: tt.sql, Location: model.Location{FilePath: "jobs/etl.py", Line: 7}}

			issues, err := tt.rule.Check(seg, stmt, nil)
			require.NoError(t, err)
			require.Len(t, issues, tt.want)
			for _, issue := range issues {
				assert.Equal(t, tt.rule.Name(), issue.Rule)
				assert.Equal(t, tt.severity, issue.Severity)
				assert.Equal(t, tt.category, issue.Category)
				assert.Equal(t, "jobs/etl.py", issue.File)
				assert.Equal(t, 7, issue.Line)
				assert.Equal(t, tt.sql, issue.SQL)
				assert.NotEmpty(t, issue.Recommendation)
			}
		})
	}
}

func TestSchemaRules_Check(t *testing.T) {
	p := parser.NewSQLParser()
	schema, err := schemaFrom(p, `
		CREATE TABLE users (
			id INT PRIMARY KEY,
			name VARCHAR(255),
			email VARCHAR(255),
			created_at DATETIME,
			KEY idx_email (email)
		);
		CREATE TABLE audit_log (msg TEXT);`)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		rule       model.SQLRule
		sql        string
		wantIssues int
	}{
		{"index hit on primary key", &IndexMissRule{}, "SELECT id FROM users WHERE id = 1", 0},
		{"index hit on secondary key", &IndexMissRule{}, "SELECT id FROM users WHERE email = 'a@b.c'", 0},
		{"index miss", &IndexMissRule{}, "SELECT id FROM users WHERE created_at = '2023-01-01'", 1},
		{"index miss on update", &IndexMissRule{}, "UPDATE users SET name = 'x' WHERE name = 'y'", 1},
		{"table without indexes", &IndexMissRule{}, "DELETE FROM audit_log WHERE msg = 'x'", 1},
		{"unknown table", &IndexMissRule{}, "SELECT id FROM accounts WHERE created_at = 1", 0},
		{"subquery in from", &IndexMissRule{}, "SELECT id FROM (SELECT id FROM users) t WHERE id = 1", 0},
		{"string column with number", &ImplicitConversionRule{}, "SELECT id FROM users WHERE name = 123", 1},
		{"number on the left", &ImplicitConversionRule{}, "SELECT id FROM users WHERE 123 = email", 1},
		{"quoted number", &ImplicitConversionRule{}, "SELECT id FROM users WHERE name = '123'", 0},
		{"numeric column", &ImplicitConversionRule{}, "SELECT id FROM users WHERE id = 123", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := p.Parse(tt.sql)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			issues, err := tt.rule.Check(&model.SQLSegment{SQL: tt.sql}, stmt, schema)
			if err != nil {
				t.Fatalf("Check failed: %v", err)
			}
			if len(issues) != tt.wantIssues {
				t.Errorf("Check() got %d issues, want %d", len(issues), tt.wantIssues)
			}
		})
	}
}

func TestPerformanceRules_Check(t *testing.T) {
	p := parser.NewSQLParser()

	tests := []struct {
		name       string
		rule       model.SQLRule
		sql        string
		wantIssues int
	}{
		{"deep offset", &DeepPaginationRule{}, "SELECT id FROM users LIMIT 10000, 10", 1},
		{"offset keyword", &DeepPaginationRule{Threshold: 100}, "SELECT id FROM users LIMIT 10 OFFSET 200", 1},
		{"shallow offset", &DeepPaginationRule{}, "SELECT id FROM users LIMIT 100, 10", 0},
		{"no offset", &DeepPaginationRule{}, "SELECT id FROM users LIMIT 10", 0},
		{"not in", &NegativeQueryRule{}, "SELECT id FROM users WHERE id NOT IN (1, 2)", 1},
		{"not equal", &NegativeQueryRule{}, "SELECT id FROM users WHERE status != 'x'", 1},
		{"leading wildcard", &NegativeQueryRule{}, "SELECT id FROM users WHERE email LIKE '%@gmail.com'", 1},
		{"trailing wildcard", &NegativeQueryRule{}, "SELECT id FROM users WHERE email LIKE 'bob%'", 0},
		{"all negatives", &NegativeQueryRule{}, "SELECT id FROM users WHERE a != 1 AND b NOT IN (1) AND c LIKE '%x'", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := p.Parse(tt.sql)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			issues, err := tt.rule.Check(&model.SQLSegment{SQL: tt.sql}, stmt, nil)
			if err != nil {
				t.Fatalf("Check failed: %v", err)
			}
			if len(issues) != tt.wantIssues {
				t.Errorf("Check() got %d issues, want %d", len(issues), tt.wantIssues)
			}
		})
	}
}
