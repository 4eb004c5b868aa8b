package engine

import (
	"context"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"lineage-scan/internal/model"
	"lineage-scan/internal/summarizer"
)

// Bounds on what is sent to the summarizer.
const (
	maxPromptCode  = 8000
	maxPromptEdges = 100
	summaryTopN    = 10
)

func (e *Engine) narrativesEnabled() bool {
	if e.summarizer == nil {
		return false
	}
	_, off := e.summarizer.(summarizer.Disabled)
	return !off
}

// enrich adds the requested narratives. Calls run one at a time; once ctx is
// done the remaining calls are skipped.
func (e *Engine) enrich(ctx context.Context, r *model.Result, files []entry, logger *zap.Logger) {
	if !e.narrativesEnabled() {
		return
	}
	opts := e.opts.Narratives
	n := &model.Narratives{}
	calls := 0
	ask := func(prompt string) (string, bool) {
		if ctx.Err() != nil {
			return "", false
		}
		calls++
		return summarizer.Summarize(ctx, e.summarizer, prompt), true
	}

	if opts.Project {
		if text, ok := ask(summarizer.ProjectPrompt(projectSummary(r))); ok {
			n.Project = text
		}
		if text, ok := ask(summarizer.DataFlowPrompt(dataFlowSummary(r))); ok {
			n.DataFlow = text
		}
	}

	if opts.FilesEvery > 0 {
		n.Files = map[string]string{}
		textIndex := 0
		for _, f := range files {
			if f.file.IsBinary {
				continue
			}
			textIndex++
			if (textIndex-1)%opts.FilesEvery != 0 {
				continue
			}
			text, ok := ask(summarizer.CodePrompt(f.file.Language, truncate(string(f.content), maxPromptCode)))
			if !ok {
				break
			}
			n.Files[f.file.Path] = text
		}
	}

	if opts.SQL > 0 && len(r.SQL) > 0 {
		n.SQL = map[string]string{}
		for i, s := range r.SQL {
			if i >= opts.SQL {
				break
			}
			text, ok := ask(summarizer.ExplainPrompt(summarizer.SubjectSQL, s.Text))
			if !ok {
				break
			}
			n.SQL[sqlKey(s)] = text
		}
	}

	r.Narratives = n
	logger.Debug("narratives generated", zap.Int("calls", calls))
}

func sqlKey(s model.SQLStatement) string {
	return fmt.Sprintf("%s:%d", s.File, s.Line)
}

func projectSummary(r *model.Result) map[string]any {
	return map[string]any{
		"languages":      r.LanguageStats,
		"file_count":     r.Stats.TotalFiles,
		"line_count":     r.Stats.TotalLines,
		"top_functions":  head(r.TopFunctions, summaryTopN),
		"top_classes":    head(r.TopClasses, summaryTopN),
		"db_connections": r.Stats.DetectedDatabases,
		"frameworks":     r.Stats.DetectedFrameworks,
		"api_patterns":   r.Stats.DetectedAPIs,
		"architecture":   r.Architecture,
	}
}

func dataFlowSummary(r *model.Result) map[string]any {
	return map[string]any{
		"db_connections": r.DBConnections,
		"api_usage":      r.APIUsage,
		"etl_candidates": r.DataFlow.ETLCandidates,
		"lineage_edges":  head(r.Lineage.Edges, maxPromptEdges),
	}
}

// ExplainFile returns a narrative for one source file.
func (e *Engine) ExplainFile(ctx context.Context, lang string, content []byte) string {
	if e.summarizer == nil {
		return summarizer.Unavailable(summarizer.ErrDisabled)
	}
	return summarizer.Summarize(ctx, e.summarizer, summarizer.CodePrompt(lang, truncate(string(content), maxPromptCode)))
}

// ExplainSQL returns a business-level narrative for one SQL statement.
func (e *Engine) ExplainSQL(ctx context.Context, sql string) string {
	if e.summarizer == nil {
		return summarizer.Unavailable(summarizer.ErrDisabled)
	}
	return summarizer.Summarize(ctx, e.summarizer, summarizer.ExplainPrompt(summarizer.SubjectSQL, sql))
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
