package scanner

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// binaryExtensions are skipped outright and never read.
var binaryExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".pdf": true,
	".bin": true, ".exe": true, ".zip": true, ".tar": true, ".gz": true,
	".7z": true, ".rar": true, ".so": true, ".dll": true,
}

// Filter decides which tree entries are read. Paths are slash separated and
// relative to the tree root.
type Filter struct {
	Excludes []string
}

// Hidden reports whether any segment of rel starts with a dot.
func Hidden(rel string) bool {
	for _, seg := range strings.Split(rel, "/") {
		if strings.HasPrefix(seg, ".") && seg != "." && seg != ".." {
			return true
		}
	}
	return false
}

// BinaryExtension reports whether rel has a known binary extension.
func BinaryExtension(rel string) bool {
	return binaryExtensions[strings.ToLower(path.Ext(rel))]
}

// Excluded reports whether rel matches an exclude glob. Patterns without a
// slash also match against the base name. Invalid patterns never match.
func (f Filter) Excluded(rel string) bool {
	for _, pattern := range f.Excludes {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, err := doublestar.Match(pattern, path.Base(rel)); err == nil && ok {
				return true
			}
		}
	}
	return false
}

// ExcludedDir reports whether a directory and everything under it is
// excluded.
func (f Filter) ExcludedDir(rel string) bool {
	if Hidden(rel) {
		return true
	}
	for _, pattern := range f.Excludes {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pattern, rel+"/"); err == nil && ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, err := doublestar.Match(pattern, path.Base(rel)); err == nil && ok {
				return true
			}
		}
	}
	return false
}

// Accept reports whether a regular file should be read.
func (f Filter) Accept(rel string) bool {
	return !Hidden(rel) && !BinaryExtension(rel) && !f.Excluded(rel)
}

// ValidatePatterns returns the first malformed exclude pattern.
func ValidatePatterns(patterns []string) (string, bool) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return p, false
		}
	}
	return "", true
}
