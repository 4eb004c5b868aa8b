package extractor

import (
	"regexp"
	"strings"

	"lineage-scan/internal/model"
)

var urlRe = regexp.MustCompile("(?:https?://|www\\.)[^\\s<>\"'`]+")

const minURLLength = 8

// ExtractURLs finds http(s) and www tokens in text. Trailing punctuation is
// trimmed and short matches are discarded.
func ExtractURLs(path, text string) []model.URL {
	var out []model.URL
	seen := make(map[string]bool)
	for _, raw := range urlRe.FindAllString(text, -1) {
		u := strings.TrimRight(raw, ",.;:")
		if len(u) < minURLLength || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, model.URL{URL: u, Category: categorizeURL(u), File: path})
	}
	return out
}

func categorizeURL(u string) string {
	lower := strings.ToLower(u)
	switch {
	case strings.Contains(lower, "api"):
		return model.URLCategoryAPI
	case containsAny(lower, "github", "gitlab", "bitbucket"):
		return model.URLCategoryRepository
	case containsAny(lower, "cdn", "assets", "static"):
		return model.URLCategoryAssets
	case containsAny(lower, "docs", "documentation"):
		return model.URLCategoryDocs
	}
	return model.URLCategoryUnknown
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
