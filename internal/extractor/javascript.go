package extractor

import (
	"regexp"
	"sort"
	"strings"

	"lineage-scan/internal/language"
	"lineage-scan/internal/model"
)

var (
	jsFunctionDeclRe = regexp.MustCompile(`\bfunction\s*\*?\s*([A-Za-z_$][\w$]*)\s*(?:<[^>(]*>)?\s*\(`)
	jsArrowRe        = regexp.MustCompile(`\b(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*(?::[^=;]+)?=\s*(?:async\s*)?\(`)
	jsArrowBareRe    = regexp.MustCompile(`\b(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*(?:async\s+)?([A-Za-z_$][\w$]*)\s*=>`)
	jsFunctionExprRe = regexp.MustCompile(`\b(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*(?::[^=;]+)?=\s*(?:async\s+)?function\s*\*?\s*[\w$]*\s*\(`)
	jsMethodRe       = regexp.MustCompile(`(?m)^[ \t]*(?:(?:public|private|protected|static|async|readonly|override|abstract|get|set)\s+)*\*?([A-Za-z_$][\w$]*)\s*(?:<[^>(]*>)?\s*\(`)

	jsArrowTailRe  = regexp.MustCompile(`^\s*(?::\s*[^={;]+?)?\s*=>`)
	jsBodyTailRe   = regexp.MustCompile(`^\s*(?::\s*([^{;=]+?))?\s*\{`)
	jsReturnTailRe = regexp.MustCompile(`^\s*:\s*([^{;=]+?)\s*(?:\{|=>)`)

	jsClassRe     = regexp.MustCompile(`(?:/\*\*((?:[^*]|\*[^/])*)\*/\s*)?(?:export\s+)?(?:default\s+)?(?:abstract\s+)?\bclass\s+([A-Za-z_$][\w$]*)(?:\s*<[^{]*?>)?(?:\s+extends\s+([\w$.]+)(?:<[^{]*?>)?)?(?:\s+implements\s+([\w$.,\s<>]+?))?\s*\{`)
	jsClassNameRe = regexp.MustCompile(`\bclass\s+([A-Za-z_$][\w$]*)`)

	jsVarRe  = regexp.MustCompile(`\b(?:let|var|const)\s+([A-Za-z_$][\w$]*)\s*(?::\s*([^=;\n]+?))?\s*=\s*([^=;\n][^;\n]*)`)
	jsThisRe = regexp.MustCompile(`\bthis\.([A-Za-z_$][\w$]*)\s*=\s*([^=;\n][^;\n]*)`)

	esNamedRe        = regexp.MustCompile(`\bimport\s+(?:type\s+)?\{([^}]*)\}\s*from\s*['"]([^'"]+)['"]`)
	esDefaultNamedRe = regexp.MustCompile(`\bimport\s+([A-Za-z_$][\w$]*)\s*,\s*\{([^}]*)\}\s*from\s*['"]([^'"]+)['"]`)
	esDefaultRe      = regexp.MustCompile(`\bimport\s+([A-Za-z_$][\w$]*)\s+from\s*['"]([^'"]+)['"]`)
	esNamespaceRe    = regexp.MustCompile(`\bimport\s+\*\s+as\s+([A-Za-z_$][\w$]*)\s+from\s*['"]([^'"]+)['"]`)
	esSideEffectRe   = regexp.MustCompile(`\bimport\s*['"]([^'"]+)['"]`)
	cjsRequireRe     = regexp.MustCompile(`\b(?:const|let|var)\s+(\{[^}]*\}|[A-Za-z_$][\w$]*)\s*=\s*require\s*\(\s*['"]([^'"]+)['"]\s*\)`)
)

var jsControlWords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"function": true, "return": true, "with": true, "do": true, "else": true,
	"typeof": true, "new": true, "await": true, "super": true, "import": true,
	"require": true, "yield": true, "delete": true, "void": true, "throw": true,
}

type jsMatch struct {
	pos  int
	name string
	fn   model.Function
}

// extractJavaScript applies the regex families for the JS/TS languages.
func extractJavaScript(src *Source, out *model.FileEntities) {
	text := src.Text
	lines := newLineIndex(text)
	spans := findClassSpans(text, jsClassNameRe)
	ts := language.IsTypeScript(src.Language)

	seen := make(map[int]bool)
	var found []jsMatch
	add := func(pos int, name string, params []string, returnType string, async bool) {
		if seen[pos] || jsControlWords[name] {
			return
		}
		seen[pos] = true
		found = append(found, jsMatch{pos: pos, name: name, fn: model.Function{
			Name:       name,
			File:       src.Path,
			Language:   src.Language,
			Class:      enclosingClass(spans, pos),
			Params:     params,
			ReturnType: returnType,
			Async:      async,
			Line:       lines.line(pos),
		}})
	}

	// parenthesised parameter list starting at the last byte of the match
	params := func(m []int) ([]string, string, bool) {
		open := m[1] - 1
		end := matchParen(text, open)
		if end < 0 {
			return nil, "", false
		}
		return jsParamNames(text[open+1 : end]), text[end+1:], true
	}
	returnType := func(tail string) string {
		if !ts {
			return ""
		}
		if r := jsReturnTailRe.FindStringSubmatch(tail); r != nil {
			return strings.TrimSpace(r[1])
		}
		return ""
	}
	isAsync := func(pos int) bool {
		return strings.HasSuffix(strings.TrimRight(text[max(0, pos-16):pos], " \t"), "async")
	}

	for _, m := range jsFunctionDeclRe.FindAllStringSubmatchIndex(text, -1) {
		if isFunctionExpression(text, m[0]) {
			continue
		}
		if ps, tail, ok := params(m); ok {
			add(m[0], text[m[2]:m[3]], ps, returnType(tail), isAsync(m[0]))
		}
	}
	for _, m := range jsArrowRe.FindAllStringSubmatchIndex(text, -1) {
		if ps, tail, ok := params(m); ok && jsArrowTailRe.MatchString(tail) {
			add(m[0], text[m[2]:m[3]], ps, returnType(tail), strings.Contains(text[m[0]:m[1]], "async"))
		}
	}
	for _, m := range jsArrowBareRe.FindAllStringSubmatchIndex(text, -1) {
		add(m[0], text[m[2]:m[3]], []string{text[m[4]:m[5]]}, "", strings.Contains(text[m[0]:m[1]], "async"))
	}
	for _, m := range jsFunctionExprRe.FindAllStringSubmatchIndex(text, -1) {
		if ps, tail, ok := params(m); ok {
			add(m[0], text[m[2]:m[3]], ps, returnType(tail), strings.Contains(text[m[0]:m[1]], "async"))
		}
	}
	for _, m := range jsMethodRe.FindAllStringSubmatchIndex(text, -1) {
		name := text[m[2]:m[3]]
		if jsControlWords[name] {
			continue
		}
		ps, tail, ok := params(m)
		if !ok || !jsBodyTailRe.MatchString(tail) {
			continue
		}
		add(m[2], name, ps, returnType(tail), strings.Contains(text[m[0]:m[2]], "async"))
	}

	sort.Slice(found, func(i, j int) bool { return found[i].pos < found[j].pos })
	for _, f := range found {
		out.Functions = append(out.Functions, f.fn)
	}

	extractJSClasses(src, out, lines)
	extractJSVariables(src, out, lines, spans, ts)
	out.Imports = extractJSImports(text, lines)
	out.SQL = ExtractQuotedSQL(src.Path, src.Content, src.Language)
}

// isFunctionExpression reports whether the function keyword at pos is the
// value of an assignment, which the binding patterns already cover.
func isFunctionExpression(text string, pos int) bool {
	prefix := strings.TrimRight(text[max(0, pos-64):pos], " \t\r\n")
	prefix = strings.TrimRight(strings.TrimSuffix(prefix, "async"), " \t\r\n")
	return strings.HasSuffix(prefix, "=") && !strings.HasSuffix(prefix, "==")
}

// jsParamNames reduces a JS/TS parameter list to names, dropping defaults,
// type annotations, rest markers and TS accessibility modifiers.
func jsParamNames(raw string) []string {
	names := []string{}
	for _, part := range splitTopLevel(raw) {
		name := part
		if strings.HasPrefix(name, "{") || strings.HasPrefix(name, "[") {
			// destructured parameter, keep the pattern
			names = append(names, name[:closingBracket(name)+1])
			continue
		}
		if i := strings.IndexAny(name, "=:"); i >= 0 {
			name = name[:i]
		}
		fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(name), "..."))
		if len(fields) == 0 {
			continue
		}
		name = strings.TrimSuffix(fields[len(fields)-1], "?")
		names = append(names, strings.TrimPrefix(name, "..."))
	}
	return names
}

// closingBracket returns the index of the bracket closing s[0], or the last
// index when it is never closed.
func closingBracket(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(s) - 1
}

func extractJSClasses(src *Source, out *model.FileEntities, lines lineIndex) {
	text := src.Text
	methods := make(map[string][]string)
	for _, fn := range out.Functions {
		if fn.Class != "" {
			methods[fn.Class] = append(methods[fn.Class], fn.Name)
		}
	}
	for _, m := range jsClassRe.FindAllStringSubmatchIndex(text, -1) {
		cls := model.Class{
			Name:     text[m[4]:m[5]],
			File:     src.Path,
			Language: src.Language,
			Line:     lines.line(m[4]),
		}
		if m[2] >= 0 {
			cls.Docstring = cleanDocComment(text[m[2]:m[3]])
		}
		if m[6] >= 0 {
			cls.Bases = append(cls.Bases, text[m[6]:m[7]])
		}
		if m[8] >= 0 {
			cls.Bases = append(cls.Bases, splitTopLevel(text[m[8]:m[9]])...)
		}
		cls.Methods = methods[cls.Name]
		out.Classes = append(out.Classes, cls)
	}
}

// cleanDocComment strips the leading asterisks of a /** */ body.
func cleanDocComment(body string) string {
	var kept []string
	for _, l := range strings.Split(body, "\n") {
		l = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(l), "*"))
		if l != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}

func extractJSVariables(src *Source, out *model.FileEntities, lines lineIndex, spans []classSpan, ts bool) {
	text := src.Text
	type hit struct {
		pos int
		v   model.Variable
	}
	var hits []hit
	for _, m := range jsVarRe.FindAllStringSubmatchIndex(text, -1) {
		value := strings.TrimSpace(text[m[6]:m[7]])
		v := model.Variable{
			Name:     text[m[2]:m[3]],
			File:     src.Path,
			Language: src.Language,
			Type:     jsValueType(value),
			Value:    truncate(value, maxValueLen),
			Line:     lines.line(m[0]),
		}
		if ts && m[4] >= 0 {
			v.DeclaredType = strings.TrimSpace(text[m[4]:m[5]])
		}
		hits = append(hits, hit{m[0], v})
	}
	for _, m := range jsThisRe.FindAllStringSubmatchIndex(text, -1) {
		value := strings.TrimSpace(text[m[4]:m[5]])
		hits = append(hits, hit{m[0], model.Variable{
			Name:     text[m[2]:m[3]],
			File:     src.Path,
			Language: src.Language,
			Type:     jsValueType(value),
			Class:    enclosingClass(spans, m[0]),
			Value:    truncate(value, maxValueLen),
			Line:     lines.line(m[0]),
		}})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	for _, h := range hits {
		out.Variables = append(out.Variables, h.v)
	}
}

func jsValueType(v string) string {
	switch {
	case strings.HasPrefix(v, "function"), strings.HasPrefix(v, "async"),
		strings.HasPrefix(v, "(") && strings.Contains(v, "=>"):
		return model.TypeUnknown
	}
	return literalType(v)
}

func extractJSImports(text string, lines lineIndex) []model.Import {
	type hit struct {
		pos int
		imp model.Import
	}
	var hits []hit
	named := func(pos int, list, source, kind string, sep string) {
		for _, part := range strings.Split(list, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			imp := model.Import{Source: source, Name: part, Kind: kind, Line: lines.line(pos)}
			if orig, alias, ok := strings.Cut(part, sep); ok {
				imp.Name, imp.Alias = strings.TrimSpace(orig), strings.TrimSpace(alias)
			}
			imp.Name = strings.TrimPrefix(imp.Name, "type ")
			hits = append(hits, hit{pos, imp})
		}
	}

	for _, m := range esNamedRe.FindAllStringSubmatchIndex(text, -1) {
		named(m[0], text[m[2]:m[3]], text[m[4]:m[5]], "es", " as ")
	}
	for _, m := range esDefaultNamedRe.FindAllStringSubmatchIndex(text, -1) {
		source := text[m[6]:m[7]]
		hits = append(hits, hit{m[0], model.Import{Source: source, Name: "default", Alias: text[m[2]:m[3]], Kind: "es", Line: lines.line(m[0])}})
		named(m[0], text[m[4]:m[5]], source, "es", " as ")
	}
	for _, m := range esDefaultRe.FindAllStringSubmatchIndex(text, -1) {
		hits = append(hits, hit{m[0], model.Import{Source: text[m[4]:m[5]], Name: "default", Alias: text[m[2]:m[3]], Kind: "es", Line: lines.line(m[0])}})
	}
	for _, m := range esNamespaceRe.FindAllStringSubmatchIndex(text, -1) {
		hits = append(hits, hit{m[0], model.Import{Source: text[m[4]:m[5]], Name: "*", Alias: text[m[2]:m[3]], Kind: "es", Line: lines.line(m[0])}})
	}
	for _, m := range esSideEffectRe.FindAllStringSubmatchIndex(text, -1) {
		hits = append(hits, hit{m[0], model.Import{Source: text[m[2]:m[3]], Kind: "side-effect", Line: lines.line(m[0])}})
	}
	for _, m := range cjsRequireRe.FindAllStringSubmatchIndex(text, -1) {
		binding, source := strings.TrimSpace(text[m[2]:m[3]]), text[m[4]:m[5]]
		if strings.HasPrefix(binding, "{") {
			named(m[0], strings.Trim(binding, "{} \t\n"), source, "require", ":")
			continue
		}
		hits = append(hits, hit{m[0], model.Import{Source: source, Alias: binding, Kind: "require", Line: lines.line(m[0])}})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	imports := make([]model.Import, 0, len(hits))
	for _, h := range hits {
		imports = append(imports, h.imp)
	}
	return imports
}
