package engine

import (
	"sort"

	"go.uber.org/zap"

	"lineage-scan/internal/auditor"
	"lineage-scan/internal/catalog"
	"lineage-scan/internal/dataflow"
	"lineage-scan/internal/model"
	"lineage-scan/internal/parser"
)

// accumulator is the single owner of the project-level state. Files are
// added one at a time in path order.
type accumulator struct {
	result    *model.Result
	assembler *dataflow.Assembler
	analyses  []parser.Analysis

	databases  map[string]bool
	apis       map[string]bool
	frameworks map[string]bool
}

func newAccumulator(runID, root string) *accumulator {
	return &accumulator{
		result: &model.Result{
			RunID:         runID,
			Root:          root,
			Files:         []model.SourceFile{},
			LanguageStats: map[string]int{},
			Functions:     []model.Function{},
			Classes:       []model.Class{},
			Variables:     []model.Variable{},
			Imports:       map[string][]model.Import{},
			DBConnections: map[string][]string{},
			APIUsage:      map[string][]string{},
			FrameworkUse:  map[string][]string{},
			URLs:          []model.URL{},
			EnvVars:       map[string][]string{},
			Issues:        []model.Issue{},
			SQL:           []model.SQLStatement{},
			DataFrames:    []model.DataFrameNode{},
			BusinessRules: []model.BusinessRule{},
			FilePaths:     map[string][]string{},
			Configs:       map[string][]string{},
		},
		assembler:  dataflow.NewAssembler(),
		databases:  map[string]bool{},
		apis:       map[string]bool{},
		frameworks: map[string]bool{},
	}
}

func (a *accumulator) add(in entry, out *fileOutput) {
	r := a.result
	f := in.file
	r.LanguageStats[f.Language]++

	if f.IsBinary || out == nil {
		f.IsBinary = true
		r.Stats.BinaryFiles++
		r.Files = append(r.Files, f)
		a.assembler.AddFile(f, "")
		return
	}

	ent := out.entities
	f.Lines = out.lines
	f.Functions = len(ent.Functions)
	f.Classes = len(ent.Classes)
	f.Metrics = out.metrics
	for _, k := range ent.Hits.Databases {
		f.DBTypes = append(f.DBTypes, string(k))
	}
	for _, k := range ent.Hits.APIs {
		f.APIs = append(f.APIs, string(k))
	}
	for _, fw := range ent.Hits.Frameworks {
		f.Frameworks = append(f.Frameworks, string(fw.Name))
	}

	r.Stats.TotalLines += f.Lines
	r.Files = append(r.Files, f)
	r.Functions = append(r.Functions, ent.Functions...)
	r.Classes = append(r.Classes, ent.Classes...)
	r.Variables = append(r.Variables, ent.Variables...)
	r.URLs = append(r.URLs, ent.URLs...)
	r.DataFrames = append(r.DataFrames, ent.DataFrames...)
	r.BusinessRules = append(r.BusinessRules, ent.BusinessRules...)
	r.Issues = append(r.Issues, out.issues...)

	putNonEmpty(r.Imports, f.Path, ent.Imports)
	putNonEmpty(r.DBConnections, f.Path, f.DBTypes)
	putNonEmpty(r.APIUsage, f.Path, f.APIs)
	putNonEmpty(r.FrameworkUse, f.Path, f.Frameworks)
	putNonEmpty(r.EnvVars, f.Path, ent.EnvVars)
	putNonEmpty(r.FilePaths, f.Path, ent.FilePaths)
	putNonEmpty(r.Configs, f.Path, ent.Configs)

	markAll(a.databases, f.DBTypes)
	markAll(a.apis, f.APIs)
	markAll(a.frameworks, f.Frameworks)

	for _, an := range out.sql {
		r.SQL = append(r.SQL, an.Statement)
	}
	a.analyses = append(a.analyses, out.sql...)
	a.assembler.AddFile(f, string(in.content))
}

// audit adds every CREATE TABLE found in the tree to schema and runs the SQL
// rules over the statements that parsed.
func (a *accumulator) audit(p *parser.SQLParser, schema *model.SchemaCtx, logger *zap.Logger) {
	if schema == nil {
		schema = parser.NewSchema()
	}
	for _, an := range a.analyses {
		if an.Node != nil {
			parser.AddToSchema(schema, an.Node)
		}
	}
	aud := auditor.NewDefaultAuditor(schema, p, logger)
	for i := range a.analyses {
		an := &a.analyses[i]
		if an.Node == nil {
			continue
		}
		a.result.Issues = append(a.result.Issues, aud.Check(&an.Segment, an.Node)...)
	}
	logger.Debug("sql audited", zap.Int("statements", len(a.analyses)), zap.Int("tables", len(schema.Tables)))
}

func (a *accumulator) finish(topN int) *model.Result {
	r := a.result
	r.Stats.TotalFiles = len(r.Files)
	r.Stats.TotalFunctions = len(r.Functions)
	r.Stats.TotalClasses = len(r.Classes)
	r.Stats.TotalVariables = len(r.Variables)
	r.Stats.DetectedDatabases = inCatalogOrder(a.databases, catalog.DatabaseNames())
	r.Stats.DetectedAPIs = inCatalogOrder(a.apis, catalog.APINames())
	r.Stats.DetectedFrameworks = inCatalogOrder(a.frameworks, catalog.FrameworkNames())

	functionNames := make([]string, len(r.Functions))
	for i, fn := range r.Functions {
		functionNames[i] = fn.Name
	}
	classNames := make([]string, len(r.Classes))
	for i, c := range r.Classes {
		classNames[i] = c.Name
	}
	r.TopFunctions = mostCommon(functionNames, topN)
	r.TopClasses = mostCommon(classNames, topN)

	r.DataFlow = a.assembler.DataFlow()
	r.Lineage = dataflow.BuildLineage(r.DataFrames, r.SQL)
	r.Architecture = dataflow.InferArchitecture(r.Files, r.Classes)
	return r
}

// mostCommon returns the n most frequent names. Ties keep first-seen order.
func mostCommon(names []string, n int) []model.NameCount {
	counts := map[string]int{}
	var order []string
	for _, name := range names {
		if counts[name] == 0 {
			order = append(order, name)
		}
		counts[name]++
	}
	out := make([]model.NameCount, len(order))
	for i, name := range order {
		out[i] = model.NameCount{Name: name, Count: counts[name]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func putNonEmpty[T any](m map[string][]T, key string, values []T) {
	if len(values) > 0 {
		m[key] = values
	}
}

func markAll(set map[string]bool, values []string) {
	for _, v := range values {
		set[v] = true
	}
}

// inCatalogOrder returns the members of set in the order the catalog
// declares them.
func inCatalogOrder(set map[string]bool, order []string) []string {
	out := make([]string, 0, len(set))
	emitted := make(map[string]bool, len(set))
	for _, name := range order {
		if set[name] && !emitted[name] {
			out = append(out, name)
			emitted[name] = true
		}
	}
	return out
}
