package parser

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sync"

	"github.com/pingcap/tidb/parser"
	"github.com/pingcap/tidb/parser/ast"
	_ "github.com/pingcap/tidb/parser/test_driver"

	"lineage-scan/internal/model"
)

// ErrNoStatement is returned when the input holds no SQL statement.
var ErrNoStatement = errors.New("no valid SQL found")

// Driver placeholders the TiDB grammar does not accept. They are rewritten
// to '?' markers before parsing.
var placeholderRe = regexp.MustCompile(`%\(\w+\)s|%s|\{\w*\}`)

// SQLParser wraps the TiDB parser. The underlying parser keeps state between
// calls, so access is serialized.
type SQLParser struct {
	mu sync.Mutex
	p  *parser.Parser
}

func NewSQLParser() *SQLParser {
	return &SQLParser{
		p: parser.New(),
	}
}

// Parse converts a SQL string into an AST
func (sp *SQLParser) Parse(sql string) (ast.StmtNode, error) {
	stmtNodes, err := sp.ParseAll(sql)
	if err != nil {
		return nil, err
	}
	// For now, we return the first statement found
	return stmtNodes[0], nil
}

// ParseAll parses every statement of sql.
func (sp *SQLParser) ParseAll(sql string) ([]ast.StmtNode, error) {
	sql = placeholderRe.ReplaceAllString(sql, "?")

	sp.mu.Lock()
	stmtNodes, _, err := sp.p.Parse(sql, "", "")
	sp.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if len(stmtNodes) == 0 {
		return nil, ErrNoStatement
	}
	return stmtNodes, nil
}

// NewSchema returns an empty schema context.
func NewSchema() *model.SchemaCtx {
	return &model.SchemaCtx{
		Tables: make(map[string]*model.Table),
	}
}

// LoadSchema reads a SQL file and populates the SchemaCtx
func (sp *SQLParser) LoadSchema(path string) (*model.SchemaCtx, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	schema := NewSchema()
	stmts, err := sp.ParseAll(string(content))
	if err != nil {
		return nil, fmt.Errorf("schema parse error: %w", err)
	}

	for _, stmt := range stmts {
		AddToSchema(schema, stmt)
	}

	return schema, nil
}

// AddToSchema records the table defined by a CREATE TABLE statement. It
// reports whether node was one.
func AddToSchema(schema *model.SchemaCtx, node ast.StmtNode) bool {
	createTable, ok := node.(*ast.CreateTableStmt)
	if !ok {
		return false
	}
	table := parseCreateTable(createTable)
	schema.Tables[table.Name] = table
	return true
}

func parseCreateTable(node *ast.CreateTableStmt) *model.Table {
	t := &model.Table{
		Name:    node.Table.Name.O,
		Columns: make(map[string]*model.Column),
		Indexes: make([]*model.Index, 0),
	}

	// 1. Columns, with inline PRIMARY KEY / UNIQUE options
	for _, col := range node.Cols {
		name := col.Name.Name.O
		t.Columns[name] = &model.Column{
			Name: name,
			Type: col.Tp.String(),
		}
		for _, opt := range col.Options {
			switch opt.Tp {
			case ast.ColumnOptionPrimaryKey:
				t.Indexes = append(t.Indexes, &model.Index{Name: "PRIMARY", Unique: true, Columns: []string{name}})
			case ast.ColumnOptionUniqKey:
				t.Indexes = append(t.Indexes, &model.Index{Name: name, Unique: true, Columns: []string{name}})
			}
		}
	}

	// 2. Constraints declared after the columns
	for _, cons := range node.Constraints {
		switch cons.Tp {
		case ast.ConstraintPrimaryKey, ast.ConstraintKey, ast.ConstraintIndex, ast.ConstraintUniq,
			ast.ConstraintUniqKey, ast.ConstraintUniqIndex:
			idx := &model.Index{
				Name:    cons.Name,
				Unique:  cons.Tp != ast.ConstraintKey && cons.Tp != ast.ConstraintIndex,
				Columns: make([]string, 0),
			}
			if idx.Name == "" && cons.Tp == ast.ConstraintPrimaryKey {
				idx.Name = "PRIMARY"
			}
			for _, keyCol := range cons.Keys {
				if keyCol.Column != nil {
					idx.Columns = append(idx.Columns, keyCol.Column.Name.O)
				}
			}
			t.Indexes = append(t.Indexes, idx)
		}
	}

	return t
}
