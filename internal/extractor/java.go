package extractor

import (
	"regexp"
	"strings"

	"lineage-scan/internal/language"
	"lineage-scan/internal/model"
)

var (
	javaMethodRe    = regexp.MustCompile(`(?m)^[ \t]*((?:@[\w.]+(?:\([^)]*\))?\s+)*)((?:(?:public|private|protected|static|final|abstract|synchronized|native|default)\s+)*)(?:<[^>]+>\s+)?([\w<>\[\].,?]+(?:<[^;{()]*>)?(?:\[\])*)\s+(\w+)\s*\(`)
	javaMethodTail  = regexp.MustCompile(`^\s*(?:throws\s+[\w.,\s]+?)?\s*([{;])`)
	javaClassRe     = regexp.MustCompile(`(?:/\*\*((?:[^*]|\*[^/])*)\*/\s*)?((?:@[\w.]+(?:\([^)]*\))?\s+)*)(?:(?:public|private|protected|abstract|final|static|sealed)\s+)*\b(class|interface|enum|record)\s+(\w+)(?:\s*<[^{]*?>)?(?:\s*\([^)]*\))?(?:\s+extends\s+([\w.<>, ]+?))?(?:\s+implements\s+([\w.<>, ]+?))?\s*\{`)
	javaClassNameRe = regexp.MustCompile(`\b(?:class|interface|enum|record)\s+(\w+)`)
	javaFieldRe     = regexp.MustCompile(`(?m)^[ \t]*((?:(?:public|private|protected|static|final|transient|volatile)\s+)*)([\w.]+(?:<[^;=(){}]*>)?(?:\[\])*)\s+(\w+)\s*(?:=\s*([^;]*))?;`)
	javaImportRe    = regexp.MustCompile(`(?m)^[ \t]*import\s+(static\s+)?([\w.]+(?:\.\*)?)\s*;`)
	annotationRe    = regexp.MustCompile(`@([\w.]+)`)
	paramAnnotRe    = regexp.MustCompile(`@[\w.]+(?:\([^)]*\))?`)
)

var javaNotTypes = map[string]bool{
	"return": true, "throw": true, "new": true, "else": true, "case": true,
	"import": true, "package": true, "goto": true, "break": true, "continue": true,
	"class": true, "interface": true, "enum": true, "record": true, "yield": true,
	"assert": true,
}

var javaControlWords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"synchronized": true, "return": true, "new": true, "try": true,
}

// extractJava applies the regex families for Java. Enclosing classes are
// resolved with the same lexical brace heuristic as JS/TS.
func extractJava(src *Source, out *model.FileEntities) {
	text := src.Text
	lines := newLineIndex(text)
	spans := findClassSpans(text, javaClassNameRe)

	for _, m := range javaMethodRe.FindAllStringSubmatchIndex(text, -1) {
		returnType, name := text[m[6]:m[7]], text[m[8]:m[9]]
		if javaNotTypes[returnType] || javaControlWords[name] {
			continue
		}
		open := m[1] - 1
		end := matchParen(text, open)
		if end < 0 || !javaMethodTail.MatchString(text[end+1:]) {
			continue
		}
		out.Functions = append(out.Functions, model.Function{
			Name:       name,
			File:       src.Path,
			Language:   language.Java,
			Class:      enclosingClass(spans, m[8]),
			Params:     javaParamNames(text[open+1 : end]),
			ReturnType: returnType,
			Decorators: annotations(text[m[2]:m[3]]),
			Line:       lines.line(m[8]),
		})
	}

	methods := make(map[string][]string)
	for _, fn := range out.Functions {
		if fn.Class != "" {
			methods[fn.Class] = append(methods[fn.Class], fn.Name)
		}
	}
	for _, m := range javaClassRe.FindAllStringSubmatchIndex(text, -1) {
		cls := model.Class{
			Name:       text[m[8]:m[9]],
			File:       src.Path,
			Language:   language.Java,
			Decorators: annotations(text[m[4]:m[5]]),
			Line:       lines.line(m[8]),
		}
		if m[2] >= 0 {
			cls.Docstring = cleanDocComment(text[m[2]:m[3]])
		}
		for _, g := range []int{10, 12} {
			if m[g] >= 0 {
				cls.Bases = append(cls.Bases, splitTopLevel(text[m[g]:m[g+1]])...)
			}
		}
		cls.Methods = methods[cls.Name]
		out.Classes = append(out.Classes, cls)
	}

	for _, m := range javaFieldRe.FindAllStringSubmatchIndex(text, -1) {
		typ, name := text[m[4]:m[5]], text[m[6]:m[7]]
		if javaNotTypes[typ] || javaNotTypes[name] {
			continue
		}
		v := model.Variable{
			Name:         name,
			File:         src.Path,
			Language:     language.Java,
			Type:         model.TypeUnknown,
			DeclaredType: typ,
			Class:        enclosingClass(spans, m[6]),
			Line:         lines.line(m[6]),
		}
		if m[8] >= 0 {
			v.Value = truncate(text[m[8]:m[9]], maxValueLen)
			v.Type = literalType(v.Value)
		}
		out.Variables = append(out.Variables, v)
	}

	for _, m := range javaImportRe.FindAllStringSubmatchIndex(text, -1) {
		source := text[m[4]:m[5]]
		name := source[strings.LastIndexByte(source, '.')+1:]
		kind := "import"
		if m[2] >= 0 {
			kind = "static"
		}
		out.Imports = append(out.Imports, model.Import{Source: source, Name: name, Kind: kind, Line: lines.line(m[0])})
	}

	out.SQL = ExtractQuotedSQL(src.Path, src.Content, language.Java)
}

// javaParamNames keeps the last identifier of each parameter declaration.
func javaParamNames(raw string) []string {
	names := []string{}
	for _, part := range splitTopLevel(paramAnnotRe.ReplaceAllString(raw, "")) {
		fields := strings.Fields(strings.ReplaceAll(part, "...", " "))
		if len(fields) < 2 {
			continue
		}
		names = append(names, strings.Trim(fields[len(fields)-1], "[]"))
	}
	return names
}

func annotations(s string) []string {
	var out []string
	for _, m := range annotationRe.FindAllStringSubmatch(s, -1) {
		out = append(out, m[1])
	}
	return out
}
