package extractor

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"

	"lineage-scan/internal/model"
)

// Patterns for different quote types
// Note: We use non-greedy *? to stop at the first closing quote
// We can't use backreferences in Go regexp (RE2)
var (
	doubleQuoteSQL = regexp.MustCompile(`"(?i)(?:SELECT|INSERT|UPDATE|DELETE|WITH)\b.*?"`)
	singleQuoteSQL = regexp.MustCompile(`'(?i)(?:SELECT|INSERT|UPDATE|DELETE|WITH)\b.*?'`)
	backTickSQL    = regexp.MustCompile("`(?i)(?:SELECT|INSERT|UPDATE|DELETE|WITH)\\b.*?`")

	sqlStartRe = regexp.MustCompile(`(?is)^\s*(?:SELECT|WITH|INSERT\s+INTO|UPDATE|DELETE\s+FROM|CREATE\s+(?:OR\s+REPLACE\s+)?(?:TABLE|VIEW)|MERGE\s+INTO|REPLACE\s+INTO)\b`)
	selectFrom = regexp.MustCompile(`(?is)\bSELECT\b.+\bFROM\b`)
)

// looksLikeSQL reports whether a string literal reads as an SQL statement.
func looksLikeSQL(s string) bool {
	return sqlStartRe.MatchString(s) || selectFrom.MatchString(s)
}

// ExtractQuotedSQL finds SQL statements in quoted literals, line by line.
func ExtractQuotedSQL(path string, content []byte, lang string) []model.SQLSegment {
	var segments []model.SQLSegment

	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		for _, re := range []*regexp.Regexp{doubleQuoteSQL, singleQuoteSQL, backTickSQL} {
			for _, match := range re.FindAllString(line, -1) {
				if len(match) < 2 {
					continue
				}
				segments = append(segments, model.SQLSegment{
					SQL:      match[1 : len(match)-1],
					Location: model.Location{FilePath: path, Line: lineNo},
					Language: lang,
					Variable: "inline",
				})
			}
		}
	}
	return segments
}

// SplitSQLFile splits a script into statements on semicolons outside quotes
// and comments. Comment-only fragments are dropped.
func SplitSQLFile(path string, content []byte, lang string) []model.SQLSegment {
	text := string(content)
	lines := newLineIndex(text)

	var segments []model.SQLSegment
	emit := func(start, end int) {
		stmt := strings.TrimSpace(stripSQLComments(text[start:end]))
		if stmt == "" {
			return
		}
		segments = append(segments, model.SQLSegment{
			SQL:      stmt,
			Location: model.Location{FilePath: path, Line: lines.line(statementStart(text, start, end))},
			Language: lang,
		})
	}

	start := 0
	var quote byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch {
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == '-' && i+1 < len(text) && text[i+1] == '-':
			if nl := strings.IndexByte(text[i:], '\n'); nl >= 0 {
				i += nl
			} else {
				i = len(text)
			}
		case c == '/' && i+1 < len(text) && text[i+1] == '*':
			if end := strings.Index(text[i+2:], "*/"); end >= 0 {
				i += end + 3
			} else {
				i = len(text)
			}
		case c == ';':
			emit(start, i)
			start = i + 1
		}
	}
	if start < len(text) {
		emit(start, len(text))
	}
	return segments
}

// statementStart returns the offset of the first byte in text[start:end]
// that is neither blank nor part of a comment.
func statementStart(text string, start, end int) int {
	i := start
	for i < end {
		switch {
		case text[i] == ' ' || text[i] == '\t' || text[i] == '\n' || text[i] == '\r':
			i++
		case strings.HasPrefix(text[i:end], "--"):
			nl := strings.IndexByte(text[i:end], '\n')
			if nl < 0 {
				return end
			}
			i += nl + 1
		case strings.HasPrefix(text[i:end], "/*"):
			c := strings.Index(text[i+2:end], "*/")
			if c < 0 {
				return end
			}
			i += c + 4
		default:
			return i
		}
	}
	return i
}

var (
	lineCommentRe  = regexp.MustCompile(`(?m)--.*$`)
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

func stripSQLComments(s string) string {
	s = blockCommentRe.ReplaceAllString(s, "")
	return lineCommentRe.ReplaceAllString(s, "")
}
