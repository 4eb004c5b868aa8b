package extractor

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"lineage-scan/internal/language"
	"lineage-scan/internal/model"
	"lineage-scan/internal/syntax"
)

// DataFrame operations recognised as transformations.
var dataFrameOps = map[string]bool{
	"groupby": true, "filter": true, "sort_values": true, "merge": true, "join": true,
	"concat": true, "apply": true, "map": true, "pivot": true, "melt": true,
}

// Spark reader methods recognised as sources.
var sparkReaders = map[string]bool{
	"csv": true, "json": true, "parquet": true, "orc": true, "text": true,
	"load": true, "table": true, "jdbc": true,
}

// Call attributes that take an SQL statement as their first argument.
var sqlCalls = map[string]bool{
	"sql": true, "execute": true, "executemany": true, "query": true,
	"read_sql": true, "read_sql_query": true,
}

var ruleKeywords = []string{"validate", "check", "enforce", "calculate", "compute", "apply_rule"}

const maxValueLen = 200

type scopeKind int

const (
	scopeClass scopeKind = iota
	scopeFunction
)

type scope struct {
	kind  scopeKind
	name  string
	class int // index into out.Classes for class scopes
}

type sqlRef struct {
	name string
	line int
}

// pythonWalker collects every entity of a module in one traversal.
type pythonWalker struct {
	t      *syntax.Tree
	out    *model.FileEntities
	path   string
	scopes []scope

	strings map[string]string
	sqlSeen map[string]bool
	refs    []sqlRef
}

func extractPython(src *Source, out *model.FileEntities) {
	if src.Tree == nil {
		extractPythonFallback(src, out)
		return
	}
	w := &pythonWalker{
		t:       src.Tree,
		out:     out,
		path:    src.Path,
		strings: make(map[string]string),
		sqlSeen: make(map[string]bool),
	}
	w.walk(src.Tree.Root)
	w.resolveSQLRefs()
}

func (w *pythonWalker) walk(n *tree_sitter.Node) {
	switch n.Kind() {
	case "decorated_definition":
		var decorators []string
		for _, c := range syntax.NamedChildren(n) {
			if c.Kind() == "decorator" {
				decorators = append(decorators, w.decoratorName(c))
			}
		}
		def := n.ChildByFieldName("definition")
		if def == nil {
			return
		}
		switch def.Kind() {
		case "function_definition":
			w.function(def, decorators)
		case "class_definition":
			w.class(def, decorators)
		}
		return
	case "function_definition":
		w.function(n, nil)
		return
	case "class_definition":
		w.class(n, nil)
		return
	case "import_statement", "import_from_statement":
		w.imports(n)
		return
	case "assignment":
		w.assignment(n)
	case "call":
		w.call(n)
	case "if_statement", "elif_clause":
		w.condition(n)
	}
	for _, c := range syntax.Children(n) {
		w.walk(c)
	}
}

func (w *pythonWalker) enclosingClass() (string, int) {
	if len(w.scopes) == 0 {
		return "", -1
	}
	top := w.scopes[len(w.scopes)-1]
	if top.kind != scopeClass {
		return "", -1
	}
	return top.name, top.class
}

func (w *pythonWalker) enclosingFunction() string {
	for i := len(w.scopes) - 1; i >= 0; i-- {
		if w.scopes[i].kind == scopeFunction {
			return w.scopes[i].name
		}
	}
	return ""
}

func (w *pythonWalker) decoratorName(d *tree_sitter.Node) string {
	exprs := syntax.NamedChildren(d)
	if len(exprs) == 0 {
		return strings.TrimPrefix(w.t.Text(d), "@")
	}
	expr := exprs[0]
	if expr.Kind() == "call" {
		expr = expr.ChildByFieldName("function")
	}
	return w.t.Text(expr)
}

func (w *pythonWalker) function(n *tree_sitter.Node, decorators []string) {
	name := w.t.Field(n, "name")
	className, classIdx := w.enclosingClass()

	fn := model.Function{
		Name:       name,
		File:       w.path,
		Language:   language.Python,
		Class:      className,
		Params:     pythonParams(w.t, n.ChildByFieldName("parameters")),
		ReturnType: w.t.Field(n, "return_type"),
		Decorators: decorators,
		Docstring:  w.t.Docstring(n),
		Async:      n.ChildCount() > 0 && n.Child(0).Kind() == "async",
		Line:       syntax.Line(n),
		EndLine:    syntax.EndLine(n),
	}
	w.out.Functions = append(w.out.Functions, fn)
	if classIdx >= 0 {
		w.out.Classes[classIdx].Methods = append(w.out.Classes[classIdx].Methods, name)
	}

	w.scopes = append(w.scopes, scope{kind: scopeFunction, name: name, class: -1})
	if body := n.ChildByFieldName("body"); body != nil {
		w.walk(body)
	}
	w.scopes = w.scopes[:len(w.scopes)-1]
}

// pythonParams returns parameter names in declaration order. Splat
// parameters keep their stars; bare separators are skipped.
func pythonParams(t *syntax.Tree, params *tree_sitter.Node) []string {
	names := []string{}
	for _, p := range syntax.NamedChildren(params) {
		switch p.Kind() {
		case "identifier":
			names = append(names, t.Text(p))
		case "default_parameter", "typed_default_parameter":
			names = append(names, t.Field(p, "name"))
		case "typed_parameter":
			if inner := syntax.NamedChildren(p); len(inner) > 0 {
				names = append(names, t.Text(inner[0]))
			}
		case "list_splat_pattern", "dictionary_splat_pattern":
			names = append(names, t.Text(p))
		}
	}
	return names
}

func (w *pythonWalker) class(n *tree_sitter.Node, decorators []string) {
	name := w.t.Field(n, "name")
	var bases []string
	for _, b := range syntax.NamedChildren(n.ChildByFieldName("superclasses")) {
		if b.Kind() == "keyword_argument" || b.Kind() == "comment" {
			continue
		}
		bases = append(bases, w.t.Text(b))
	}

	w.out.Classes = append(w.out.Classes, model.Class{
		Name:       name,
		File:       w.path,
		Language:   language.Python,
		Bases:      bases,
		Decorators: decorators,
		Docstring:  w.t.Docstring(n),
		Line:       syntax.Line(n),
	})

	w.scopes = append(w.scopes, scope{kind: scopeClass, name: name, class: len(w.out.Classes) - 1})
	if body := n.ChildByFieldName("body"); body != nil {
		w.walk(body)
	}
	w.scopes = w.scopes[:len(w.scopes)-1]
}

func (w *pythonWalker) imports(n *tree_sitter.Node) {
	line := syntax.Line(n)
	if n.Kind() == "import_statement" {
		for _, c := range syntax.NamedChildren(n) {
			switch c.Kind() {
			case "dotted_name":
				w.out.Imports = append(w.out.Imports, model.Import{Source: w.t.Text(c), Kind: "import", Line: line})
			case "aliased_import":
				w.out.Imports = append(w.out.Imports, model.Import{
					Source: w.t.Field(c, "name"), Alias: w.t.Field(c, "alias"), Kind: "import", Line: line,
				})
			}
		}
		return
	}

	mod := n.ChildByFieldName("module_name")
	module := w.t.Text(mod)
	for _, c := range syntax.NamedChildren(n) {
		if mod != nil && c.StartByte() == mod.StartByte() {
			continue
		}
		imp := model.Import{Source: module, Kind: "from", Line: line}
		switch c.Kind() {
		case "dotted_name":
			imp.Name = w.t.Text(c)
		case "aliased_import":
			imp.Name = w.t.Field(c, "name")
			imp.Alias = w.t.Field(c, "alias")
		case "wildcard_import":
			imp.Name = "*"
		default:
			continue
		}
		w.out.Imports = append(w.out.Imports, imp)
	}
}

// assignment records one Variable per target, following chained
// assignments down to the final value.
func (w *pythonWalker) assignment(n *tree_sitter.Node) {
	targets := []*tree_sitter.Node{n.ChildByFieldName("left")}
	declared := w.t.Field(n, "type")
	value := n.ChildByFieldName("right")
	for value != nil && value.Kind() == "assignment" {
		targets = append(targets, value.ChildByFieldName("left"))
		if declared == "" {
			declared = w.t.Field(value, "type")
		}
		value = value.ChildByFieldName("right")
	}
	if n.Parent() != nil && n.Parent().Kind() == "assignment" {
		// inner link of a chain already handled by the outermost assignment
		return
	}

	className, _ := w.enclosingClass()
	line := syntax.Line(n)
	for _, target := range targets {
		if target == nil || target.Kind() != "identifier" {
			continue
		}
		name := w.t.Text(target)
		w.out.Variables = append(w.out.Variables, model.Variable{
			Name:         name,
			File:         w.path,
			Language:     language.Python,
			Type:         pythonValueType(value),
			Class:        className,
			DeclaredType: declared,
			Value:        truncate(w.t.Text(value), maxValueLen),
			Line:         line,
		})
		w.assignedValue(name, value, line)
	}
}

func pythonValueType(v *tree_sitter.Node) string {
	if v == nil {
		return model.TypeUnknown
	}
	switch v.Kind() {
	case "string", "concatenated_string":
		return model.TypeString
	case "integer", "float":
		return model.TypeNumber
	case "true", "false":
		return model.TypeBoolean
	case "list", "tuple", "list_comprehension", "generator_expression":
		return model.TypeArray
	case "dictionary", "set", "dictionary_comprehension", "set_comprehension":
		return model.TypeObject
	case "call":
		return model.TypeCallResult
	case "unary_operator":
		if arg := v.ChildByFieldName("argument"); arg != nil {
			return pythonValueType(arg)
		}
	}
	return model.TypeUnknown
}

// assignedValue inspects the right-hand side of an assignment to name for
// string literals, SQL and DataFrame reads or transformations.
func (w *pythonWalker) assignedValue(name string, value *tree_sitter.Node, line int) {
	if value == nil {
		return
	}
	if w.t.IsStringLiteral(value) {
		s := syntax.Unquote(w.t.Text(value))
		w.strings[name] = s
		switch {
		case looksLikeSQL(s):
			w.addSQL(name, s, line)
		case strings.ContainsAny(s, `/\`) || containsAny(s, ".csv", ".xlsx", ".txt"):
			w.out.FilePaths = append(w.out.FilePaths, s)
		case containsAny(strings.ToUpper(s), "TABLE", "CONFIG", "PARAM", "SETTING"):
			w.out.Configs = append(w.out.Configs, s)
		}
		return
	}
	if value.Kind() != "call" {
		return
	}
	fn := value.ChildByFieldName("function")
	if fn == nil || fn.Kind() != "attribute" {
		return
	}
	obj := w.t.Field(fn, "object")
	attr := w.t.Field(fn, "attribute")
	args := syntax.NamedChildren(value.ChildByFieldName("arguments"))

	node := model.DataFrameNode{
		File:      w.path,
		Variable:  name,
		Operation: attr,
		Function:  w.enclosingFunction(),
		Line:      line,
	}
	switch {
	case isPandas(obj) && strings.HasPrefix(attr, "read_"):
		node.Kind = model.DataFrameSource
		node.Upstream = w.firstArg(args)
	case isSparkReader(obj) && sparkReaders[attr], obj == "spark" && attr == "table":
		node.Kind = model.DataFrameSource
		node.Upstream = w.firstArg(args)
	case dataFrameOps[attr]:
		node.Kind = model.DataFrameTransformation
		node.Upstream = obj
		if isPandas(obj) {
			node.Upstream = w.firstFrame(args)
		}
	default:
		return
	}
	w.out.DataFrames = append(w.out.DataFrames, node)
}

func isPandas(obj string) bool { return obj == "pd" || obj == "pandas" }

func isSparkReader(obj string) bool {
	return obj == "spark.read" || strings.HasPrefix(obj, "spark.read.") || strings.HasSuffix(obj, ".read")
}

func (w *pythonWalker) firstArg(args []*tree_sitter.Node) string {
	for _, a := range args {
		if a.Kind() == "keyword_argument" || a.Kind() == "comment" {
			continue
		}
		if w.t.IsStringLiteral(a) {
			return syntax.Unquote(w.t.Text(a))
		}
		return w.t.Text(a)
	}
	return "unknown"
}

// firstFrame returns the first variable passed to a module-level pandas
// function such as pd.concat([a, b]) or pd.merge(a, b).
func (w *pythonWalker) firstFrame(args []*tree_sitter.Node) string {
	for _, a := range args {
		switch a.Kind() {
		case "identifier":
			return w.t.Text(a)
		case "list", "tuple":
			for _, e := range syntax.NamedChildren(a) {
				if e.Kind() == "identifier" {
					return w.t.Text(e)
				}
			}
		}
	}
	return "unknown"
}

func (w *pythonWalker) call(n *tree_sitter.Node) {
	fn := n.ChildByFieldName("function")
	if fn == nil || fn.Kind() != "attribute" {
		return
	}
	attr := w.t.Field(fn, "attribute")
	args := syntax.NamedChildren(n.ChildByFieldName("arguments"))

	if sqlCalls[attr] && len(args) > 0 {
		arg := args[0]
		switch {
		case arg.Kind() == "identifier":
			w.refs = append(w.refs, sqlRef{name: w.t.Text(arg), line: syntax.Line(n)})
		case w.t.IsStringLiteral(arg):
			if s := syntax.Unquote(w.t.Text(arg)); looksLikeSQL(s) {
				w.addSQL("inline", s, syntax.Line(n))
			}
		}
	}

	lower := strings.ToLower(attr)
	for _, kw := range ruleKeywords {
		if strings.Contains(lower, kw) {
			var argTexts []string
			for _, a := range args {
				argTexts = append(argTexts, truncate(w.t.Text(a), maxValueLen))
			}
			w.out.BusinessRules = append(w.out.BusinessRules, model.BusinessRule{
				File:      w.path,
				Kind:      "function_call",
				Function:  w.t.Text(fn),
				Arguments: argTexts,
				Line:      syntax.Line(n),
			})
			break
		}
	}
}

func (w *pythonWalker) condition(n *tree_sitter.Node) {
	var actions []string
	for _, stmt := range syntax.Statements(n.ChildByFieldName("consequence")) {
		if stmt.Kind() == "if_statement" {
			continue
		}
		actions = append(actions, truncate(w.t.Text(stmt), maxValueLen))
	}
	w.out.BusinessRules = append(w.out.BusinessRules, model.BusinessRule{
		File:      w.path,
		Kind:      "condition",
		Condition: truncate(w.t.Text(n.ChildByFieldName("condition")), maxValueLen),
		Actions:   actions,
		Line:      syntax.Line(n),
	})
}

func (w *pythonWalker) addSQL(variable, sql string, line int) {
	key := variable + "\x00" + sql
	if w.sqlSeen[key] {
		return
	}
	w.sqlSeen[key] = true
	w.out.SQL = append(w.out.SQL, model.SQLSegment{
		SQL:      sql,
		Location: model.Location{FilePath: w.path, Line: line},
		Language: language.Python,
		Variable: variable,
	})
}

// resolveSQLRefs records variables passed to SQL calls once every
// assignment of the module is known.
func (w *pythonWalker) resolveSQLRefs() {
	for _, ref := range w.refs {
		if s, ok := w.strings[ref.name]; ok && looksLikeSQL(s) {
			w.addSQL(ref.name, s, ref.line)
		}
	}
}
