package language

import "strings"

// Language tags.
const (
	Python          = "Python"
	PythonNotebook  = "Python (Notebook)"
	JavaScript      = "JavaScript"
	JavaScriptReact = "JavaScript (React)"
	TypeScript      = "TypeScript"
	TypeScriptReact = "TypeScript (React)"
	HTML            = "HTML"
	CSS             = "CSS"
	Java            = "Java"
	C               = "C"
	CPP             = "C++"
	CHeader         = "C/C++ Header"
	CFamily         = "C/C++"
	CSharp          = "C#"
	Go              = "Go"
	Ruby            = "Ruby"
	PHP             = "PHP"
	Swift           = "Swift"
	SQL             = "SQL"
	XML             = "XML"
	JSON            = "JSON"
	YAML            = "YAML"
	TOML            = "TOML"
	Markdown        = "Markdown"
	R               = "R"
	Scala           = "Scala"
	Kotlin          = "Kotlin"
	Rust            = "Rust"
	Dart            = "Dart"
	Lua             = "Lua"
	Perl            = "Perl"
	Shell           = "Shell"
	Bash            = "Bash"
	PowerShell      = "PowerShell"
	Groovy          = "Groovy"
	Vue             = "Vue"
	Svelte          = "Svelte"
	Dockerfile      = "Dockerfile"
	Makefile        = "Makefile"
	Requirements    = "Requirements"
	IgnoreFile      = "Ignore File"
	Unknown         = "unknown"
)

// extensions maps a lower-case file extension to its language.
var extensions = map[string]string{
	".py":     Python,
	".pyw":    Python,
	".ipynb":  PythonNotebook,
	".js":     JavaScript,
	".mjs":    JavaScript,
	".cjs":    JavaScript,
	".jsx":    JavaScriptReact,
	".ts":     TypeScript,
	".tsx":    TypeScriptReact,
	".html":   HTML,
	".htm":    HTML,
	".css":    CSS,
	".java":   Java,
	".c":      C,
	".cpp":    CPP,
	".cc":     CPP,
	".h":      CHeader,
	".hpp":    CHeader,
	".cs":     CSharp,
	".go":     Go,
	".rb":     Ruby,
	".php":    PHP,
	".swift":  Swift,
	".sql":    SQL,
	".xml":    XML,
	".json":   JSON,
	".yml":    YAML,
	".yaml":   YAML,
	".toml":   TOML,
	".md":     Markdown,
	".r":      R,
	".scala":  Scala,
	".kt":     Kotlin,
	".rs":     Rust,
	".dart":   Dart,
	".lua":    Lua,
	".pl":     Perl,
	".sh":     Shell,
	".bash":   Bash,
	".ps1":    PowerShell,
	".groovy": Groovy,
	".vue":    Vue,
	".svelte": Svelte,
}

// canonical maps lower-cased tag names back to their tag.
var canonical = func() map[string]string {
	m := make(map[string]string)
	for _, tag := range extensions {
		m[strings.ToLower(tag)] = tag
	}
	for _, tag := range []string{CFamily, Dockerfile, Makefile, Requirements, IgnoreFile} {
		m[strings.ToLower(tag)] = tag
	}
	m["javascript"] = JavaScript
	m["typescript"] = TypeScript
	m["c++"] = CPP
	m["cpp"] = CPP
	m["csharp"] = CSharp
	m["golang"] = Go
	return m
}()

// ForExtension returns the language registered for ext, or Unknown.
func ForExtension(ext string) string {
	if tag, ok := extensions[strings.ToLower(ext)]; ok {
		return tag
	}
	return Unknown
}

// Normalize maps a free-form language name onto a known tag. Names that are
// not known are returned lower-cased.
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.Trim(name, ".`'\"")
	if name == "" {
		return Unknown
	}
	if tag, ok := canonical[name]; ok {
		return tag
	}
	return name
}

// IsPython reports whether tag is parsed with the Python grammar.
func IsPython(tag string) bool { return tag == Python }

// IsJavaScript reports whether tag belongs to the JS/TS family.
func IsJavaScript(tag string) bool {
	switch tag {
	case JavaScript, JavaScriptReact, TypeScript, TypeScriptReact:
		return true
	}
	return false
}

// IsTypeScript reports whether tag carries TypeScript annotations.
func IsTypeScript(tag string) bool {
	return tag == TypeScript || tag == TypeScriptReact
}

// CommentMarkers returns the line-initial comment markers for tag.
func CommentMarkers(tag string) []string {
	switch tag {
	case Python, PythonNotebook, Ruby, Perl, Shell, Bash, PowerShell, R, YAML, TOML,
		Dockerfile, Makefile, Requirements, IgnoreFile:
		return []string{"#"}
	case JavaScript, JavaScriptReact, TypeScript, TypeScriptReact, Java, C, CPP, CHeader, CFamily,
		CSharp, Go, Swift, Scala, Kotlin, Rust, Dart, Groovy, CSS:
		return []string{"//", "/*", "*"}
	case PHP:
		return []string{"//", "/*", "*", "#"}
	case SQL, Lua:
		return []string{"--"}
	case HTML, XML, Markdown, Vue, Svelte:
		return []string{"<!--"}
	}
	return nil
}
