package language

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
		want    string
	}{
		{"Python extension", "src/app.py", "", Python},
		{"Upper case extension", "src/App.PY", "", Python},
		{"TSX", "ui/App.tsx", "", TypeScriptReact},
		{"Dockerfile", "deploy/Dockerfile", "", Dockerfile},
		{"Dockerfile variant", "deploy/Dockerfile.dev", "", Dockerfile},
		{"Makefile", "Makefile", "", Makefile},
		{"Requirements", "requirements-dev.txt", "", Requirements},
		{"Ignore file", ".dockerignore", "", IgnoreFile},
		{"Python shebang", "bin/tool", "#!/usr/bin/env python3\nprint(1)\n", Python},
		{"Node shebang", "bin/cli", "#!/usr/bin/env node\n", JavaScript},
		{"Bash shebang", "run", "#!/bin/bash\necho hi\n", Bash},
		{"Sh shebang", "run", "#!/bin/sh\necho hi\n", Shell},
		{"Perl shebang", "run", "#!/usr/bin/perl -w\n", Perl},
		{"Ruby shebang", "run", "#!/usr/bin/env ruby\n", Ruby},
		{"PHP sniff", "index", "<?php echo 1; ?>", PHP},
		{"HTML sniff", "page", "<!DOCTYPE html>\n<html></html>", HTML},
		{"React sniff", "component", "import React from 'react';\n", JavaScriptReact},
		{"Java sniff", "Main", "package a.b;\nimport java.util.List;\nclass Main {}\n", Java},
		{"C sniff", "impl", "#include <stdio.h>\nint main() {}\n", CFamily},
		{"Unknown", "LICENSE", "Permission is hereby granted", Unknown},
		{"Unknown without content", "LICENSE", "", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.path, []byte(tt.content)))
		})
	}
}

func TestExtensionWinsOverContent(t *testing.T) {
	assert.Equal(t, JavaScript, Classify("x.js", []byte("#!/usr/bin/env python\n")))
}

type fakeDetector struct {
	calls int
	reply string
	err   error
}

func (f *fakeDetector) DetectLanguage(ctx context.Context, path string, sample []byte) (string, error) {
	f.calls++
	return f.reply, f.err
}

func TestClassifierFallback(t *testing.T) {
	t.Run("Sampled every Nth miss", func(t *testing.T) {
		d := &fakeDetector{reply: "Python\n"}
		c := NewClassifier(d, 2, nil)

		got := []string{
			c.Classify(context.Background(), "a", []byte("x = 1")),
			c.Classify(context.Background(), "b", []byte("x = 1")),
			c.Classify(context.Background(), "c", []byte("x = 1")),
		}
		assert.Equal(t, []string{Python, Unknown, Python}, got)
		assert.Equal(t, 2, d.calls)
	})

	t.Run("Resolved files never reach detector", func(t *testing.T) {
		d := &fakeDetector{reply: "python"}
		c := NewClassifier(d, 1, nil)
		assert.Equal(t, Go, c.Classify(context.Background(), "main.go", []byte("package main")))
		assert.Zero(t, d.calls)
	})

	t.Run("Detector failure is unknown", func(t *testing.T) {
		d := &fakeDetector{err: errors.New("quota")}
		c := NewClassifier(d, 1, nil)
		assert.Equal(t, Unknown, c.Classify(context.Background(), "a", []byte("x")))
	})

	t.Run("Unrecognised names kept lower case", func(t *testing.T) {
		d := &fakeDetector{reply: "Elixir"}
		c := NewClassifier(d, 1, nil)
		assert.Equal(t, "elixir", c.Classify(context.Background(), "a", []byte("x")))
	})
}
