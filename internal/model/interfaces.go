package model

import (
	"context"

	"github.com/pingcap/tidb/parser/ast"
)

// SQLRule represents a single SQL audit logic unit
type SQLRule interface {
	// Name returns the unique identifier of the rule
	Name() string
	// Check examines the SQL segment and returns any issues found
	// It receives the SQL segment, the parsed AST, and the Schema context
	Check(segment *SQLSegment, node ast.StmtNode, schema *SchemaCtx) ([]Issue, error)
}

// Summarizer is the text-in/text-out explanation service.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// LanguageDetector is the last-resort language classification service.
type LanguageDetector interface {
	DetectLanguage(ctx context.Context, path string, sample []byte) (string, error)
}

// Reporter defines how to output results
type Reporter interface {
	Report(result *Result) error
}
