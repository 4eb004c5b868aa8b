// Package engine runs one analysis: classify every entry, extract and
// measure text files in parallel, fold the results in path order, then
// assemble the graphs and the optional narratives.
package engine

import (
	"bytes"
	"context"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lineage-scan/internal/extractor"
	"lineage-scan/internal/language"
	"lineage-scan/internal/model"
	"lineage-scan/internal/parser"
	"lineage-scan/internal/quality"
	"lineage-scan/internal/scanner"
)

// Options tunes a run.
type Options struct {
	Workers  int
	TopN     int
	Excludes []string
	// Schema is an optional DDL file loaded before the tree's own CREATE
	// TABLE statements.
	Schema string
	// DetectEvery samples the language detector for every Nth file the
	// static rules leave unresolved.
	DetectEvery int
	Narratives  NarrativeOptions
}

// NarrativeOptions selects which narratives are requested.
type NarrativeOptions struct {
	Project    bool
	FilesEvery int
	SQL        int
}

type Engine struct {
	opts       Options
	loader     *scanner.Loader
	extractors *extractor.Manager
	quality    *quality.Analyzer
	sql        *parser.SQLParser
	summarizer model.Summarizer
	detector   model.LanguageDetector
	logger     *zap.Logger
}

// New returns an Engine. summarizer and detector may be nil.
func New(opts Options, summarizer model.Summarizer, detector model.LanguageDetector, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.TopN < 1 {
		opts.TopN = 10
	}
	return &Engine{
		opts:       opts,
		loader:     scanner.NewLoader(opts.Excludes, logger),
		extractors: extractor.NewManager(logger),
		quality:    quality.NewDefaultAnalyzer(),
		sql:        parser.NewSQLParser(),
		summarizer: summarizer,
		detector:   detector,
		logger:     logger,
	}
}

// Run loads src, a zip archive or a directory, and analyzes it. Only a
// failure to read src itself is returned as an error.
func (e *Engine) Run(ctx context.Context, src string) (*model.Result, error) {
	entries, err := e.loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return e.Analyze(ctx, src, entries)
}

// entry is a classified input file.
type entry struct {
	file    model.SourceFile
	content []byte
}

// fileOutput is everything computed for one text file.
type fileOutput struct {
	entities *model.FileEntities
	metrics  *model.Metrics
	issues   []model.Issue
	sql      []parser.Analysis
	lines    int
}

// Analyze runs the pipeline over already loaded entries.
func (e *Engine) Analyze(ctx context.Context, root string, entries []scanner.Entry) (*model.Result, error) {
	runID := uuid.NewString()
	logger := e.logger.With(zap.String("run_id", runID))

	classified := e.classify(ctx, entries, logger)

	pool := scanner.NewWorkerPool[entry, *fileOutput](e.opts.Workers, e.process)
	outputs, err := pool.Run(ctx, classified)
	if err != nil {
		return nil, err
	}

	acc := newAccumulator(runID, root)
	for i, in := range classified {
		acc.add(in, outputs[i])
	}
	acc.audit(e.sql, e.baseSchema(logger), logger)
	result := acc.finish(e.opts.TopN)

	e.enrich(ctx, result, classified, logger)

	logger.Info("analysis complete",
		zap.Int("files", result.Stats.TotalFiles),
		zap.Int("binary", result.Stats.BinaryFiles),
		zap.Int("issues", len(result.Issues)),
		zap.Int("sql", len(result.SQL)),
		zap.Int("lineage_edges", len(result.Lineage.Edges)))
	return result, nil
}

// classify resolves each entry's language and binary status serially so the
// detector is sampled in path order.
func (e *Engine) classify(ctx context.Context, entries []scanner.Entry, logger *zap.Logger) []entry {
	classifier := language.NewClassifier(e.detector, e.opts.DetectEvery, logger)
	out := make([]entry, 0, len(entries))
	for _, en := range entries {
		f := model.SourceFile{
			Path:      en.Path,
			Name:      path.Base(en.Path),
			Extension: strings.ToLower(path.Ext(en.Path)),
			Size:      en.Size,
			ModTime:   en.ModTime,
		}
		if en.Content != nil {
			f.Hash = scanner.Digest(en.Content)
		}

		content := bytes.TrimPrefix(en.Content, []byte("\xef\xbb\xbf"))
		if en.ReadErr != nil || !isText(content) {
			f.IsBinary = true
			f.Language = language.Classify(en.Path, nil)
			logger.Debug("treating as binary", zap.String("file", en.Path), zap.Error(en.ReadErr))
			out = append(out, entry{file: f})
			continue
		}
		f.Language = classifier.Classify(ctx, en.Path, content)
		out = append(out, entry{file: f, content: content})
	}
	return out
}

// baseSchema loads the configured schema file. A missing or unreadable file
// is logged and the run proceeds with the tree's own tables.
func (e *Engine) baseSchema(logger *zap.Logger) *model.SchemaCtx {
	if e.opts.Schema == "" {
		return nil
	}
	schema, err := e.sql.LoadSchema(e.opts.Schema)
	if err != nil {
		logger.Warn("schema not loaded, proceeding without it", zap.String("schema", e.opts.Schema), zap.Error(err))
		return nil
	}
	logger.Debug("schema loaded", zap.String("schema", e.opts.Schema), zap.Int("tables", len(schema.Tables)))
	return schema
}

// isText reports whether content decodes as UTF-8 text without NUL bytes.
func isText(content []byte) bool {
	return bytes.IndexByte(content, 0) < 0 && utf8.Valid(content)
}

// process runs on a worker: it must only touch its own input.
func (e *Engine) process(ctx context.Context, in entry) *fileOutput {
	if in.file.IsBinary {
		return nil
	}
	src := extractor.NewSource(in.file.Path, in.content, in.file.Language)
	defer src.Close()

	out := &fileOutput{
		entities: e.extractors.Extract(src),
		lines:    quality.CountLines(src.Text, nil).LinesTotal,
	}
	out.metrics, out.issues = e.quality.Analyze(src)
	for _, seg := range out.entities.SQL {
		out.sql = append(out.sql, e.sql.Analyze(seg))
	}
	return out
}
