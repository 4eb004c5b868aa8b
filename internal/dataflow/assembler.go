package dataflow

import (
	"path"
	"regexp"
	"strings"

	"lineage-scan/internal/model"
)

// DBNodeID returns the node id of a database kind.
func DBNodeID(kind string) string { return "db:" + kind }

var importPatterns = map[string]*regexp.Regexp{
	"Python":     regexp.MustCompile(`(?:from|import)\s+([\w.]+)`),
	"JavaScript": regexp.MustCompile(`(?:import.*from\s+["']([^"']+)["']|require\(["']([^"']+)["'])`),
	"TypeScript": regexp.MustCompile(`(?:import.*from\s+["']([^"']+)["']|require\(["']([^"']+)["'])`),
	"Java":       regexp.MustCompile(`import\s+([\w.]+)`),
}

var importExtensions = []string{".py", ".js", ".ts", ".java"}

// etlChannels are the API kinds that make a database-using file an ETL
// candidate.
var etlChannels = []string{
	string(model.APIRest),
	string(model.APIETL),
	string(model.APIFileSystem),
	string(model.APICloudStorage),
}

// Assembler folds analyzed files into the data-flow graph. Files must be
// added from a single goroutine; the result depends on the order of AddFile
// calls only through the order of ETL candidates.
type Assembler struct {
	graph   *Graph
	files   []string
	imports map[string][]string
	etl     []model.ETLCandidate
}

func NewAssembler() *Assembler {
	return &Assembler{
		graph:   NewGraph(),
		imports: make(map[string][]string),
	}
}

// AddFile adds the file node, its database edges and its import tokens.
// content is the decoded text, empty for binary files.
func (a *Assembler) AddFile(file model.SourceFile, content string) {
	node := model.Node{
		ID:      file.Path,
		Type:    model.NodeFile,
		Label:   path.Base(file.Path),
		HasDB:   file.HasDB(),
		DBTypes: file.DBTypes,
	}
	a.graph.AddNode(node)
	a.files = append(a.files, file.Path)

	for _, kind := range file.DBTypes {
		db := model.Node{ID: DBNodeID(kind), Type: model.NodeDatabase, Label: kind}
		a.graph.Link(node, db, model.EdgeUses, file.Path)
		a.graph.Link(db, node, model.EdgeUsedBy, file.Path)
	}

	if file.HasDB() && hasAny(file.APIs, etlChannels) {
		a.etl = append(a.etl, model.ETLCandidate{
			File:        file.Path,
			DBTypes:     append([]string(nil), file.DBTypes...),
			APIPatterns: append([]string(nil), file.APIs...),
		})
	}

	if !file.IsBinary && content != "" {
		if tokens := ImportTokens(file.Language, content); len(tokens) > 0 {
			a.imports[file.Path] = tokens
		}
	}
}

// DataFlow resolves import edges between the added files and returns the
// exported graph with the ETL candidates.
func (a *Assembler) DataFlow() model.DataFlow {
	for _, from := range a.files {
		for _, token := range a.imports[from] {
			for _, to := range a.files {
				if to == from || !importMatches(to, token) {
					continue
				}
				a.graph.Link(model.Node{ID: from}, model.Node{ID: to}, model.EdgeImports, from)
			}
		}
	}
	etl := a.etl
	if etl == nil {
		etl = []model.ETLCandidate{}
	}
	return model.DataFlow{Graph: a.graph.Export(), ETLCandidates: etl}
}

// ImportTokens returns the import targets found in content using the
// pattern of the language family, or nil when the family has none.
func ImportTokens(lang, content string) []string {
	family := lang
	if f := strings.Fields(lang); len(f) > 0 {
		family = f[0]
	}
	re := importPatterns[family]
	if re == nil {
		return nil
	}
	var tokens []string
	for _, m := range re.FindAllStringSubmatch(content, -1) {
		for _, g := range m[1:] {
			if g != "" {
				tokens = append(tokens, g)
				break
			}
		}
	}
	return tokens
}

// importMatches is a loose suffix or containment test: "utils" matches both
// "pkg/utils.py" and "utils_old/x.js". False positives are expected.
func importMatches(candidate, token string) bool {
	for _, ext := range importExtensions {
		if strings.HasSuffix(candidate, token+ext) {
			return true
		}
	}
	return strings.Contains(candidate, token)
}

func hasAny(list, want []string) bool {
	for _, w := range want {
		if contains(list, w) {
			return true
		}
	}
	return false
}
