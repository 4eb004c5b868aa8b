package parser

import (
	"regexp"
	"strings"

	"github.com/pingcap/tidb/parser/ast"

	"lineage-scan/internal/model"
)

// Analysis is one extracted statement read at table/column level. Node is
// nil when the statement was read by the regex fallback.
type Analysis struct {
	Segment   model.SQLSegment
	Statement model.SQLStatement
	Node      ast.StmtNode
}

// Analyze parses seg and reads its tables, projected columns and
// operations. Statements TiDB rejects are read with regular expressions.
func (sp *SQLParser) Analyze(seg model.SQLSegment) Analysis {
	stmt := model.SQLStatement{
		Text:     seg.SQL,
		File:     seg.Location.FilePath,
		Variable: seg.Variable,
		Line:     seg.Location.Line,
	}

	node, err := sp.Parse(seg.SQL)
	if err != nil {
		readFallback(&stmt)
		return Analysis{Segment: seg, Statement: stmt}
	}

	stmt.Parsed = true
	stmt.Kind = statementKind(node)
	stmt.Tables = ExtractTableNames(node)
	stmt.Columns = []string{}
	stmt.Operations = []model.SQLOperation{}

	switch n := node.(type) {
	case *ast.SelectStmt:
		readSelect(&stmt, n)
	case *ast.SetOprStmt:
		if n.SelectList != nil && len(n.SelectList.Selects) > 0 {
			if sel, ok := n.SelectList.Selects[0].(*ast.SelectStmt); ok {
				readSelect(&stmt, sel)
			}
		}
	case *ast.InsertStmt:
		stmt.Target = firstTable(n.Table)
		if n.Select != nil {
			stmt.Sources = without(ExtractTableNames(n.Select), stmt.Target)
			if sel, ok := n.Select.(*ast.SelectStmt); ok {
				readSelect(&stmt, sel)
			}
		}
	case *ast.UpdateStmt:
		stmt.Target = firstTable(n.TableRefs)
	case *ast.DeleteStmt:
		stmt.Target = firstTable(n.TableRefs)
	case *ast.CreateTableStmt:
		stmt.Target = tableName(n.Table)
		if n.Select != nil {
			stmt.Sources = without(ExtractTableNames(n.Select), stmt.Target)
		}
	case *ast.CreateViewStmt:
		stmt.Target = tableName(n.ViewName)
		if n.Select != nil {
			stmt.Sources = without(ExtractTableNames(n.Select), stmt.Target)
		}
	}
	return Analysis{Segment: seg, Statement: stmt, Node: node}
}

func statementKind(node ast.StmtNode) string {
	switch n := node.(type) {
	case *ast.SelectStmt, *ast.SetOprStmt:
		return model.SQLKindSelect
	case *ast.InsertStmt:
		if n.IsReplace {
			return model.SQLKindReplace
		}
		return model.SQLKindInsert
	case *ast.UpdateStmt:
		return model.SQLKindUpdate
	case *ast.DeleteStmt:
		return model.SQLKindDelete
	case *ast.CreateTableStmt:
		return model.SQLKindCreateTable
	case *ast.CreateViewStmt:
		return model.SQLKindCreateView
	}
	return model.SQLKindOther
}

// readSelect records projected columns and the column expressions,
// grouping, ordering and HAVING clauses of one SELECT.
func readSelect(stmt *model.SQLStatement, sel *ast.SelectStmt) {
	if sel.Fields != nil {
		for _, f := range sel.Fields.Fields {
			if f.WildCard != nil {
				col := "*"
				if f.WildCard.Table.O != "" {
					col = f.WildCard.Table.O + ".*"
				}
				stmt.Columns = append(stmt.Columns, col)
				continue
			}
			if c, ok := f.Expr.(*ast.ColumnNameExpr); ok {
				stmt.Columns = append(stmt.Columns, c.Name.Name.O)
				if f.AsName.O != "" {
					stmt.Operations = append(stmt.Operations, model.SQLOperation{Type: model.SQLOpColumnExpression, Expression: restore(f)})
				}
				continue
			}
			name := f.AsName.O
			if name == "" {
				name = restore(f.Expr)
			}
			stmt.Columns = append(stmt.Columns, name)
			stmt.Operations = append(stmt.Operations, model.SQLOperation{Type: model.SQLOpColumnExpression, Expression: restore(f)})
		}
	}
	if sel.GroupBy != nil {
		stmt.Operations = append(stmt.Operations, model.SQLOperation{Type: model.SQLOpGroupBy, Expression: restore(sel.GroupBy)})
	}
	if sel.Having != nil {
		stmt.Operations = append(stmt.Operations, model.SQLOperation{Type: model.SQLOpHaving, Expression: restore(sel.Having)})
	}
	if sel.OrderBy != nil {
		stmt.Operations = append(stmt.Operations, model.SQLOperation{Type: model.SQLOpOrderBy, Expression: restore(sel.OrderBy)})
	}
}

func without(tables []string, name string) []string {
	out := make([]string, 0, len(tables))
	for _, t := range tables {
		if !strings.EqualFold(t, name) {
			out = append(out, t)
		}
	}
	return out
}

var (
	kindRe       = regexp.MustCompile(`(?is)^\s*(SELECT|WITH|INSERT|REPLACE|UPDATE|DELETE|MERGE|CREATE\s+(?:OR\s+REPLACE\s+)?(?:TEMP(?:ORARY)?\s+)?(?:TABLE|VIEW))\b`)
	fromJoinRe   = regexp.MustCompile(`(?i)\b(?:FROM|JOIN)\s+([\w.$"` + "`" + `\[\]]+)`)
	targetRe     = regexp.MustCompile(`(?i)\b(?:INSERT\s+(?:OVERWRITE\s+)?(?:INTO\s+)?(?:TABLE\s+)?|REPLACE\s+INTO\s+|UPDATE\s+|MERGE\s+INTO\s+|DELETE\s+FROM\s+|(?:TABLE|VIEW)\s+(?:IF\s+NOT\s+EXISTS\s+)?)([\w.$"` + "`" + `\[\]]+)`)
	selectListRe = regexp.MustCompile(`(?is)\bSELECT\s+(?:DISTINCT\s+|TOP\s+\d+\s+)?(.+?)\s+FROM\b`)
	aliasRe      = regexp.MustCompile(`(?is)\s+AS\s+([\w"` + "`" + `\[\]]+)\s*$`)
	clauseRe     = regexp.MustCompile(`(?i)\b(GROUP\s+BY|HAVING|ORDER\s+BY|LIMIT|WINDOW|UNION|QUALIFY)\b`)
	cteNameRe    = regexp.MustCompile(`(?i)(?:\bWITH(?:\s+RECURSIVE)?|,)\s*(\w+)\s+AS\s*\(`)
	simpleColRe  = regexp.MustCompile(`^[\w.$"` + "`" + `\[\]]+$`)
)

// readFallback fills stmt from the raw text when TiDB cannot parse it,
// for example because of another dialect's syntax.
func readFallback(stmt *model.SQLStatement) {
	text := stmt.Text
	stmt.Kind = model.SQLKindOther
	if m := kindRe.FindStringSubmatch(text); m != nil {
		kw := strings.ToUpper(strings.Fields(m[1])[0])
		switch kw {
		case "SELECT", "WITH":
			stmt.Kind = model.SQLKindSelect
		case "CREATE":
			stmt.Kind = model.SQLKindCreateTable
			if strings.HasSuffix(strings.ToUpper(m[1]), "VIEW") {
				stmt.Kind = model.SQLKindCreateView
			}
		default:
			stmt.Kind = kw
		}
	}

	ctes := make(map[string]bool)
	for _, m := range cteNameRe.FindAllStringSubmatch(text, -1) {
		ctes[strings.ToLower(m[1])] = true
	}

	var read []string
	seen := make(map[string]bool)
	add := func(list *[]string, name string) {
		name = unquoteIdent(name)
		if name == "" || ctes[strings.ToLower(name)] || seen[name] {
			return
		}
		seen[name] = true
		*list = append(*list, name)
	}

	var tables []string
	if stmt.Kind != model.SQLKindSelect && stmt.Kind != model.SQLKindOther {
		if m := targetRe.FindStringSubmatch(text); m != nil {
			stmt.Target = unquoteIdent(m[1])
			add(&tables, m[1])
		}
	}
	for _, m := range fromJoinRe.FindAllStringSubmatch(text, -1) {
		add(&read, m[1])
	}
	tables = append(tables, read...)
	stmt.Tables = tables
	if stmt.Target != "" && stmt.Kind != model.SQLKindUpdate && stmt.Kind != model.SQLKindDelete {
		stmt.Sources = without(read, stmt.Target)
		if len(stmt.Sources) == 0 {
			stmt.Sources = nil
		}
	}

	stmt.Columns = []string{}
	stmt.Operations = []model.SQLOperation{}
	if m := selectListRe.FindStringSubmatch(text); m != nil {
		for _, field := range splitFields(m[1]) {
			name := field
			alias := aliasRe.FindStringSubmatch(field)
			if alias != nil {
				name = unquoteIdent(alias[1])
			} else if simpleColRe.MatchString(field) {
				name = unquoteIdent(field[strings.LastIndexByte(field, '.')+1:])
				if strings.HasSuffix(field, ".*") || field == "*" {
					name = field
				}
			}
			stmt.Columns = append(stmt.Columns, name)
			if alias != nil || strings.Contains(field, "(") {
				stmt.Operations = append(stmt.Operations, model.SQLOperation{Type: model.SQLOpColumnExpression, Expression: field})
			}
		}
	}
	stmt.Operations = append(stmt.Operations, clauses(text)...)
}

// clauses returns the GROUP BY, HAVING and ORDER BY clauses of text, each
// running up to the next clause keyword.
func clauses(text string) []model.SQLOperation {
	locs := clauseRe.FindAllStringSubmatchIndex(text, -1)
	var ops []model.SQLOperation
	for i, loc := range locs {
		kw := strings.Join(strings.Fields(strings.ToUpper(text[loc[2]:loc[3]])), " ")
		var op string
		switch kw {
		case "GROUP BY":
			op = model.SQLOpGroupBy
		case "HAVING":
			op = model.SQLOpHaving
		case "ORDER BY":
			op = model.SQLOpOrderBy
		default:
			continue
		}
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		ops = append(ops, model.SQLOperation{Type: op, Expression: strings.TrimSpace(kw + " " + strings.TrimSpace(text[loc[1]:end]))})
	}
	return ops
}

// splitFields splits a select list on commas outside parentheses.
func splitFields(list string) []string {
	var fields []string
	depth, start := 0, 0
	for i := 0; i < len(list); i++ {
		switch list[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				if f := strings.TrimSpace(list[start:i]); f != "" {
					fields = append(fields, f)
				}
				start = i + 1
			}
		}
	}
	if f := strings.TrimSpace(list[start:]); f != "" {
		fields = append(fields, f)
	}
	return fields
}

var identQuotes = strings.NewReplacer(`"`, "", "`", "", "[", "", "]", "")

func unquoteIdent(s string) string {
	return identQuotes.Replace(s)
}
