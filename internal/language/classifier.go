package language

import (
	"bytes"
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"lineage-scan/internal/model"
)

var (
	javaPackageRe = regexp.MustCompile(`(?m)^\s*package\s+[\w.]+\s*;`)
	javaImportRe  = regexp.MustCompile(`(?m)^\s*import\s+(?:static\s+)?[\w.*]+\s*;`)
	reactImportRe = regexp.MustCompile(`import\s+React\b|from\s+['"]react['"]|require\(\s*['"]react['"]\s*\)`)
	includeRe     = regexp.MustCompile(`(?m)^\s*#\s*include\s*[<"]`)
	headerRe      = regexp.MustCompile(`\.h(?:pp|h|xx)?[>"]`)
)

// sampleSize bounds how much content the heuristics and the detector see.
const sampleSize = 1000

// Classify resolves a language from the path and, failing that, from the
// content. It never calls out and returns Unknown when nothing matches.
func Classify(path string, content []byte) string {
	if tag := ForExtension(filepath.Ext(path)); tag != Unknown {
		return tag
	}
	if tag := classifyName(filepath.Base(path)); tag != Unknown {
		return tag
	}
	if len(content) > 0 {
		return classifyContent(content)
	}
	return Unknown
}

func classifyName(base string) string {
	name := strings.ToLower(base)
	switch {
	case name == "dockerfile" || strings.HasPrefix(name, "dockerfile.") || strings.HasSuffix(name, ".dockerfile"):
		return Dockerfile
	case name == "makefile" || name == "gnumakefile" || strings.HasPrefix(name, "makefile."):
		return Makefile
	case strings.HasPrefix(name, "requirements") && strings.HasSuffix(name, ".txt"):
		return Requirements
	case strings.HasSuffix(name, "ignore") && strings.HasPrefix(name, "."):
		return IgnoreFile
	}
	return Unknown
}

func classifyContent(content []byte) string {
	sample := content
	if len(sample) > sampleSize*4 {
		sample = sample[:sampleSize*4]
	}
	if bytes.HasPrefix(sample, []byte("#!")) {
		line := string(sample)
		if i := strings.IndexByte(line, '\n'); i >= 0 {
			line = line[:i]
		}
		interp := shebangInterpreter(line)
		switch {
		case strings.HasPrefix(interp, "python"):
			return Python
		case strings.HasPrefix(interp, "node"):
			return JavaScript
		case interp == "bash":
			return Bash
		case interp == "sh":
			return Shell
		case strings.HasPrefix(interp, "perl"):
			return Perl
		case strings.HasPrefix(interp, "ruby"):
			return Ruby
		}
	}

	text := string(sample)
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(text, "<?php"):
		return PHP
	case strings.Contains(lower, "<html") || strings.Contains(lower, "<!doctype html>"):
		return HTML
	case reactImportRe.MatchString(text):
		return JavaScriptReact
	case javaPackageRe.MatchString(text) && javaImportRe.MatchString(text) && strings.Contains(text, "{"):
		return Java
	case includeRe.MatchString(text) && headerRe.MatchString(text):
		return CFamily
	}
	return Unknown
}

func shebangInterpreter(line string) string {
	fields := strings.Fields(strings.TrimPrefix(line, "#!"))
	if len(fields) == 0 {
		return ""
	}
	interp := filepath.Base(fields[0])
	if interp == "env" {
		for _, f := range fields[1:] {
			if !strings.HasPrefix(f, "-") {
				return filepath.Base(f)
			}
		}
	}
	return interp
}

// Classifier adds the detector fallback on top of Classify. The fallback is
// consulted for every Nth unresolved file only. A Classifier is owned by a
// single goroutine.
type Classifier struct {
	detector model.LanguageDetector
	every    int
	misses   int
	logger   *zap.Logger
}

// NewClassifier returns a Classifier. A nil detector disables the fallback;
// every <= 1 consults it for each unresolved file.
func NewClassifier(detector model.LanguageDetector, every int, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if every < 1 {
		every = 1
	}
	return &Classifier{detector: detector, every: every, logger: logger}
}

// Classify runs the static steps and then, when sampled, the detector.
// Detector failures resolve to Unknown.
func (c *Classifier) Classify(ctx context.Context, path string, content []byte) string {
	if tag := Classify(path, content); tag != Unknown {
		return tag
	}
	if c.detector == nil || len(content) == 0 {
		return Unknown
	}
	c.misses++
	if (c.misses-1)%c.every != 0 {
		return Unknown
	}
	sample := content
	if len(sample) > sampleSize {
		sample = sample[:sampleSize]
	}
	name, err := c.detector.DetectLanguage(ctx, path, sample)
	if err != nil {
		c.logger.Warn("language detection unavailable", zap.String("file", path), zap.Error(err))
		return Unknown
	}
	return Normalize(name)
}
