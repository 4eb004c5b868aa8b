package extractor

import (
	"errors"

	"go.uber.org/zap"

	"lineage-scan/internal/catalog"
	"lineage-scan/internal/language"
	"lineage-scan/internal/model"
	"lineage-scan/internal/syntax"
)

// Source is one decoded text file ready for extraction. For Python the parse
// tree is built once here and shared with the quality analyzer.
type Source struct {
	Path     string
	Language string
	Content  []byte
	Text     string
	Tree     *syntax.Tree
	ParseErr error
}

// NewSource prepares content for extraction, parsing it when a grammar is
// available for lang.
func NewSource(path string, content []byte, lang string) *Source {
	src := &Source{Path: path, Language: lang, Content: content, Text: string(content)}
	if language.IsPython(lang) {
		src.Tree, src.ParseErr = syntax.ParsePython(content)
	}
	return src
}

// Parseable reports whether a grammar exists for the source language.
func (s *Source) Parseable() bool { return language.IsPython(s.Language) }

// Parsed reports whether the source has a clean parse tree.
func (s *Source) Parsed() bool { return s.Tree != nil }

// Close releases the parse tree.
func (s *Source) Close() { s.Tree.Close() }

// LanguageExtractor collects structural entities for one language family.
type LanguageExtractor interface {
	Extract(src *Source, out *model.FileEntities)
}

// LanguageExtractorFunc adapts a function to LanguageExtractor.
type LanguageExtractorFunc func(src *Source, out *model.FileEntities)

func (f LanguageExtractorFunc) Extract(src *Source, out *model.FileEntities) { f(src, out) }

// Manager selects the appropriate extractor based on the language tag and
// runs the language independent scans on every file.
type Manager struct {
	extractors map[string]LanguageExtractor
	logger     *zap.Logger
}

// NewManager returns a Manager with the built-in extractors registered.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{extractors: make(map[string]LanguageExtractor), logger: logger}
	m.Register(language.Python, LanguageExtractorFunc(extractPython))
	for _, tag := range []string{language.JavaScript, language.JavaScriptReact, language.TypeScript, language.TypeScriptReact} {
		m.Register(tag, LanguageExtractorFunc(extractJavaScript))
	}
	m.Register(language.Java, LanguageExtractorFunc(extractJava))
	m.Register(language.SQL, LanguageExtractorFunc(extractSQLFile))
	return m
}

// Register sets the extractor for a language tag, replacing any previous one.
func (m *Manager) Register(lang string, extr LanguageExtractor) {
	m.extractors[lang] = extr
}

// Extract returns the entities of src. Pattern, URL and environment scans
// run on the raw text whether or not structural extraction succeeded.
func (m *Manager) Extract(src *Source) *model.FileEntities {
	out := &model.FileEntities{
		Path:     src.Path,
		Language: src.Language,
		Parsed:   src.Parsed(),
	}

	if extr, ok := m.extractors[src.Language]; ok {
		if src.Parseable() && src.ParseErr != nil && !errors.Is(src.ParseErr, syntax.ErrSyntax) {
			m.logger.Debug("parser unavailable", zap.String("file", src.Path), zap.Error(src.ParseErr))
		}
		extr.Extract(src, out)
	} else {
		out.SQL = ExtractQuotedSQL(src.Path, src.Content, src.Language)
	}

	out.Hits = catalog.ScanAll(src.Text)
	out.URLs = ExtractURLs(src.Path, src.Text)
	out.EnvVars = ExtractEnvVars(src.Text)
	return out
}

func extractSQLFile(src *Source, out *model.FileEntities) {
	out.SQL = SplitSQLFile(src.Path, src.Content, src.Language)
}
