package extractor

import (
	"regexp"
	"sort"
	"strings"
)

// splitTopLevel splits s on commas that are not nested inside (), [], {}
// or <>. Empty parts are dropped.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}', '>':
			if c == '>' && i > 0 && s[i-1] == '=' {
				// arrow, not a closing angle bracket
				continue
			}
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				if p := strings.TrimSpace(s[start:i]); p != "" {
					parts = append(parts, p)
				}
				start = i + 1
			}
		}
	}
	if p := strings.TrimSpace(s[start:]); p != "" {
		parts = append(parts, p)
	}
	return parts
}

// matchParen returns the index of the parenthesis closing the one at open,
// or -1 when it is never closed.
func matchParen(s string, open int) int {
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// matchBrace returns the index of the brace closing the one at open, or
// len(s) when it is never closed. Braces inside strings and comments are
// counted.
func matchBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(s)
}

// lineIndex maps byte offsets to 1-based line numbers.
type lineIndex []int

func newLineIndex(s string) lineIndex {
	idx := lineIndex{0}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			idx = append(idx, i+1)
		}
	}
	return idx
}

func (l lineIndex) line(offset int) int {
	return sort.Search(len(l), func(i int) bool { return l[i] > offset })
}

// classSpan is the body of a class declaration found lexically.
type classSpan struct {
	name  string
	decl  int
	open  int
	close int
}

// findClassSpans locates every match of re (group 1 is the name) and the
// first brace after it.
func findClassSpans(s string, re *regexp.Regexp) []classSpan {
	var spans []classSpan
	for _, m := range re.FindAllStringSubmatchIndex(s, -1) {
		open := strings.IndexByte(s[m[1]:], '{')
		if open < 0 {
			continue
		}
		open += m[1]
		spans = append(spans, classSpan{
			name:  s[m[2]:m[3]],
			decl:  m[0],
			open:  open,
			close: matchBrace(s, open),
		})
	}
	return spans
}

// enclosingClass attributes pos to the latest class declared before it whose
// opening brace is still unclosed at pos. This is lexical only: braces in
// strings or comments and the word "class" in literals can misattribute.
func enclosingClass(spans []classSpan, pos int) string {
	for i := len(spans) - 1; i >= 0; i-- {
		sp := spans[i]
		if sp.decl >= pos {
			continue
		}
		if sp.open < pos && pos < sp.close {
			return sp.name
		}
	}
	return ""
}

// uniqueSorted returns the distinct values of in, sorted.
func uniqueSorted(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
