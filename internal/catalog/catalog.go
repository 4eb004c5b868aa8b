// Package catalog holds the static pattern tables used to detect databases,
// integration channels and frameworks in raw source text.
package catalog

import (
	"regexp"

	"lineage-scan/internal/model"
)

// Category selects one of the catalog tables.
type Category int

const (
	CategoryDatabase Category = iota
	CategoryAPI
	CategoryFramework
)

func (c Category) String() string {
	switch c {
	case CategoryDatabase:
		return "database"
	case CategoryAPI:
		return "api"
	case CategoryFramework:
		return "framework"
	}
	return "unknown"
}

// Matcher is an immutable list of case-insensitive patterns.
type Matcher struct {
	patterns []*regexp.Regexp
}

func compile(patterns ...string) Matcher {
	m := Matcher{patterns: make([]*regexp.Regexp, len(patterns))}
	for i, p := range patterns {
		m.patterns[i] = regexp.MustCompile("(?i)" + p)
	}
	return m
}

// Match reports whether any pattern matches text. Evaluation stops at the
// first matching pattern.
func (m Matcher) Match(text string) bool {
	for _, re := range m.patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Len returns the number of patterns.
func (m Matcher) Len() int { return len(m.patterns) }

type DatabaseEntry struct {
	Kind    model.DatabaseKind
	Matcher Matcher
}

type APIEntry struct {
	Kind    model.APIKind
	Matcher Matcher
}

type FrameworkEntry struct {
	Category model.FrameworkCategory
	Name     model.Framework
	Matcher  Matcher
}

// ScanDatabases returns the database kinds present in text in declaration
// order.
func ScanDatabases(text string) []model.DatabaseKind {
	var found []model.DatabaseKind
	for _, e := range Databases {
		if e.Matcher.Match(text) {
			found = append(found, e.Kind)
		}
	}
	return found
}

// ScanAPIs returns the integration kinds present in text in declaration
// order.
func ScanAPIs(text string) []model.APIKind {
	var found []model.APIKind
	for _, e := range APIs {
		if e.Matcher.Match(text) {
			found = append(found, e.Kind)
		}
	}
	return found
}

// ScanFrameworks returns the frameworks present in text, category by
// category, in declaration order.
func ScanFrameworks(text string) []model.FrameworkHit {
	var found []model.FrameworkHit
	for _, e := range Frameworks {
		if e.Matcher.Match(text) {
			found = append(found, model.FrameworkHit{Category: e.Category, Name: e.Name})
		}
	}
	return found
}

// Scan returns the kind names detected for one category.
func Scan(text string, category Category) []string {
	var names []string
	switch category {
	case CategoryDatabase:
		for _, k := range ScanDatabases(text) {
			names = append(names, string(k))
		}
	case CategoryAPI:
		for _, k := range ScanAPIs(text) {
			names = append(names, string(k))
		}
	case CategoryFramework:
		for _, h := range ScanFrameworks(text) {
			names = append(names, string(h.Name))
		}
	}
	return names
}

// ScanAll runs every category over text.
func ScanAll(text string) model.PatternHits {
	return model.PatternHits{
		Databases:  ScanDatabases(text),
		APIs:       ScanAPIs(text),
		Frameworks: ScanFrameworks(text),
	}
}

// DatabaseNames returns every database kind in declaration order.
func DatabaseNames() []string {
	out := make([]string, len(Databases))
	for i, e := range Databases {
		out[i] = string(e.Kind)
	}
	return out
}

// APINames returns every API kind in declaration order.
func APINames() []string {
	out := make([]string, len(APIs))
	for i, e := range APIs {
		out[i] = string(e.Kind)
	}
	return out
}

// FrameworkNames returns every framework name in declaration order.
func FrameworkNames() []string {
	out := make([]string, len(Frameworks))
	for i, e := range Frameworks {
		out[i] = string(e.Name)
	}
	return out
}
