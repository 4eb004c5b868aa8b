package extractor

import (
	"regexp"
	"strings"

	"lineage-scan/internal/language"
	"lineage-scan/internal/model"
)

var (
	pyDefRe       = regexp.MustCompile(`^(async[ \t]+)?def[ \t]+([A-Za-z_]\w*)[ \t]*\(`)
	pyClassRe     = regexp.MustCompile(`^class[ \t]+([A-Za-z_]\w*)[ \t]*(?:\(([^)]*)\))?[ \t]*:`)
	pyAssignRe    = regexp.MustCompile(`^([A-Za-z_]\w*)[ \t]*(?::[ \t]*([^=]+?))?[ \t]*=[ \t]*([^=\s].*)$`)
	pyImportRe    = regexp.MustCompile(`^import[ \t]+([\w.]+)(?:[ \t]+as[ \t]+(\w+))?`)
	pyFromRe      = regexp.MustCompile(`^from[ \t]+([\w.]+)[ \t]+import[ \t]+\(?([^)#]+)`)
	pyDecoratorRe = regexp.MustCompile(`^@([\w.]+)`)
	pyReadRe      = regexp.MustCompile(`^(\w+)[ \t]*=[ \t]*(?:pd|pandas)\.(read_\w+)\([ \t]*([^,)]*)`)
	pyTransformRe = regexp.MustCompile(`^(\w+)[ \t]*=[ \t]*(\w+)\.(groupby|filter|sort_values|merge|join|concat|apply|map|pivot|melt)\(`)
)

var pyKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "def": true, "class": true,
	"import": true, "from": true, "as": true, "return": true, "elif": true,
	"else": true, "with": true, "lambda": true,
}

type pyFrame struct {
	indent int
	kind   scopeKind
	name   string
	class  int
}

// extractPythonFallback is the regex strategy for Python that fails to
// parse. Scopes are tracked by indentation only.
func extractPythonFallback(src *Source, out *model.FileEntities) {
	text := src.Text
	lines := strings.Split(text, "\n")
	offsets := make([]int, len(lines))
	for i, off := 0, 0; i < len(lines); i++ {
		offsets[i] = off
		off += len(lines[i]) + 1
	}

	var stack []pyFrame
	var decorators []string

	for i, raw := range lines {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		indent := len(raw) - len(strings.TrimLeft(raw, " \t"))
		for len(stack) > 0 && stack[len(stack)-1].indent >= indent {
			stack = stack[:len(stack)-1]
		}
		line := i + 1

		if m := pyDecoratorRe.FindStringSubmatch(trimmed); m != nil {
			decorators = append(decorators, m[1])
			continue
		}

		var className string
		classIdx := -1
		if len(stack) > 0 && stack[len(stack)-1].kind == scopeClass {
			className = stack[len(stack)-1].name
			classIdx = stack[len(stack)-1].class
		}

		if m := pyDefRe.FindStringSubmatch(trimmed); m != nil {
			open := offsets[i] + indent + len(m[0]) - 1
			var params []string
			if end := matchParen(text, open); end > open {
				params = paramNames(text[open+1 : end])
			}
			out.Functions = append(out.Functions, model.Function{
				Name:       m[2],
				File:       src.Path,
				Language:   language.Python,
				Class:      className,
				Params:     params,
				Decorators: decorators,
				Async:      m[1] != "",
				Line:       line,
			})
			if classIdx >= 0 {
				out.Classes[classIdx].Methods = append(out.Classes[classIdx].Methods, m[2])
			}
			stack = append(stack, pyFrame{indent: indent, kind: scopeFunction, name: m[2], class: -1})
			decorators = nil
			continue
		}

		if m := pyClassRe.FindStringSubmatch(trimmed); m != nil {
			var bases []string
			for _, b := range strings.Split(m[2], ",") {
				if b = strings.TrimSpace(b); b != "" && !strings.Contains(b, "=") {
					bases = append(bases, b)
				}
			}
			out.Classes = append(out.Classes, model.Class{
				Name:       m[1],
				File:       src.Path,
				Language:   language.Python,
				Bases:      bases,
				Decorators: decorators,
				Line:       line,
			})
			stack = append(stack, pyFrame{indent: indent, kind: scopeClass, name: m[1], class: len(out.Classes) - 1})
			decorators = nil
			continue
		}
		decorators = nil

		if m := pyImportRe.FindStringSubmatch(trimmed); m != nil {
			out.Imports = append(out.Imports, model.Import{Source: m[1], Alias: m[2], Kind: "import", Line: line})
			continue
		}
		if m := pyFromRe.FindStringSubmatch(trimmed); m != nil {
			for _, name := range strings.Split(m[2], ",") {
				name = strings.TrimSpace(name)
				if name == "" {
					continue
				}
				imp := model.Import{Source: m[1], Name: name, Kind: "from", Line: line}
				if orig, alias, ok := strings.Cut(name, " as "); ok {
					imp.Name, imp.Alias = strings.TrimSpace(orig), strings.TrimSpace(alias)
				}
				out.Imports = append(out.Imports, imp)
			}
			continue
		}

		if m := pyAssignRe.FindStringSubmatch(trimmed); m != nil && !pyKeywords[m[1]] {
			out.Variables = append(out.Variables, model.Variable{
				Name:         m[1],
				File:         src.Path,
				Language:     language.Python,
				Type:         literalType(m[3]),
				Class:        className,
				DeclaredType: strings.TrimSpace(m[2]),
				Value:        truncate(m[3], maxValueLen),
				Line:         line,
			})
		}

		fn := ""
		for j := len(stack) - 1; j >= 0; j-- {
			if stack[j].kind == scopeFunction {
				fn = stack[j].name
				break
			}
		}
		if m := pyReadRe.FindStringSubmatch(trimmed); m != nil {
			upstream := strings.TrimSpace(m[3])
			if upstream == "" {
				upstream = "unknown"
			}
			out.DataFrames = append(out.DataFrames, model.DataFrameNode{
				File: src.Path, Variable: m[1], Kind: model.DataFrameSource,
				Operation: m[2], Upstream: upstream, Function: fn, Line: line,
			})
		} else if m := pyTransformRe.FindStringSubmatch(trimmed); m != nil {
			out.DataFrames = append(out.DataFrames, model.DataFrameNode{
				File: src.Path, Variable: m[1], Kind: model.DataFrameTransformation,
				Operation: m[3], Upstream: m[2], Function: fn, Line: line,
			})
		}
	}

	out.SQL = ExtractQuotedSQL(src.Path, src.Content, language.Python)
}

// paramNames reduces a raw parameter list to names. Defaults and type
// annotations are dropped; splat markers are kept.
func paramNames(raw string) []string {
	names := []string{}
	for _, part := range splitTopLevel(raw) {
		name := part
		if i := strings.IndexByte(name, '='); i >= 0 {
			name = name[:i]
		}
		if i := strings.IndexByte(name, ':'); i >= 0 {
			name = name[:i]
		}
		name = strings.TrimSpace(name)
		if name == "" || name == "*" || name == "/" {
			continue
		}
		names = append(names, name)
	}
	return names
}

// literalType infers a type tag from initializer text.
func literalType(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return model.TypeUnknown
	}
	switch {
	case v[0] == '"' || v[0] == '\'' || v[0] == '`':
		return model.TypeString
	case numberRe.MatchString(v):
		return model.TypeNumber
	case v == "true" || v == "false" || v == "True" || v == "False":
		return model.TypeBoolean
	case v[0] == '[':
		return model.TypeArray
	case v[0] == '{' || strings.HasPrefix(v, "new "):
		return model.TypeObject
	case callRe.MatchString(v):
		return model.TypeCallResult
	}
	return model.TypeUnknown
}

var (
	numberRe = regexp.MustCompile(`^-?\d+(?:\.\d+)?[;,]?$`)
	callRe   = regexp.MustCompile(`^(?:await\s+)?[\w$.]+\s*\(`)
)
