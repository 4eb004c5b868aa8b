// Package config loads run settings from an optional YAML or TOML file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"lineage-scan/internal/scanner"
)

// ErrUnknownFormat is returned for config files that are neither YAML nor
// TOML.
var ErrUnknownFormat = errors.New("unknown config format")

// Environment variables read by FromEnv.
const (
	EnvProvider  = "LINEAGE_SCAN_LLM_PROVIDER"
	EnvOpenAIKey = "OPENAI_API_KEY"
	EnvGeminiKey = "GEMINI_API_KEY"
	EnvGoogleKey = "GOOGLE_API_KEY"
)

type Config struct {
	Excludes []string `yaml:"excludes" toml:"excludes"`
	Workers  int      `yaml:"workers" toml:"workers"`
	TopN     int      `yaml:"top_n" toml:"top_n"`
	// Schema is an optional DDL file whose tables are known to the SQL
	// rules in addition to those created inside the scanned tree.
	Schema string    `yaml:"schema" toml:"schema"`
	LLM    LLM       `yaml:"llm" toml:"llm"`
	Report Report    `yaml:"report" toml:"report"`
	Log    LogConfig `yaml:"log" toml:"log"`
}

type LLM struct {
	Provider       string `yaml:"provider" toml:"provider"`
	Model          string `yaml:"model" toml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds" toml:"timeout_seconds"`
	MaxAttempts    int    `yaml:"max_attempts" toml:"max_attempts"`
	CacheSize      int    `yaml:"cache_size" toml:"cache_size"`
	// DetectLanguage enables the detector fallback for every DetectEvery-th
	// file the static rules cannot classify.
	DetectLanguage      bool `yaml:"detect_language" toml:"detect_language"`
	DetectEvery         int  `yaml:"detect_every" toml:"detect_every"`
	SummarizeProject    bool `yaml:"summarize_project" toml:"summarize_project"`
	SummarizeFilesEvery int  `yaml:"summarize_files_every" toml:"summarize_files_every"`
	SummarizeSQL        int  `yaml:"summarize_sql" toml:"summarize_sql"`

	// APIKey is taken from the environment only.
	APIKey string `yaml:"-" toml:"-"`
}

// Timeout returns the per-call timeout.
func (l LLM) Timeout() time.Duration {
	return time.Duration(l.TimeoutSeconds) * time.Second
}

type Report struct {
	Format string `yaml:"format" toml:"format"`
	Output string `yaml:"output" toml:"output"`
}

type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Excludes: []string{"**/node_modules/**", "**/__pycache__/**", "**/venv/**"},
		Workers:  4,
		TopN:     10,
		LLM: LLM{
			Provider:            "none",
			TimeoutSeconds:      60,
			MaxAttempts:         3,
			CacheSize:           256,
			DetectEvery:         10,
			SummarizeProject:    true,
			SummarizeFilesEvery: 0,
			SummarizeSQL:        5,
		},
		Report: Report{Format: "console"},
		Log:    LogConfig{Level: "info", Format: "console"},
	}
}

// Load returns the defaults overlaid with path, when given, and the
// environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := decode(path, data, cfg); err != nil {
			return nil, err
		}
	}
	cfg.FromEnv(os.Getenv)
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	return nil
}

// FromEnv applies the provider override and picks the API key for the
// configured provider.
func (c *Config) FromEnv(getenv func(string) string) {
	if p := getenv(EnvProvider); p != "" {
		c.LLM.Provider = strings.ToLower(p)
	}
	switch c.LLM.Provider {
	case "openai":
		c.LLM.APIKey = getenv(EnvOpenAIKey)
	case "gemini":
		c.LLM.APIKey = getenv(EnvGeminiKey)
		if c.LLM.APIKey == "" {
			c.LLM.APIKey = getenv(EnvGoogleKey)
		}
	}
}

// Validate rejects unknown enumerations, negative counts and malformed
// exclude globs.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "", "none", "openai", "gemini":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	switch c.Report.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown report format %q", c.Report.Format)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	counts := []struct {
		name  string
		value int
	}{
		{"workers", c.Workers},
		{"top_n", c.TopN},
		{"llm.timeout_seconds", c.LLM.TimeoutSeconds},
		{"llm.max_attempts", c.LLM.MaxAttempts},
		{"llm.cache_size", c.LLM.CacheSize},
		{"llm.detect_every", c.LLM.DetectEvery},
		{"llm.summarize_files_every", c.LLM.SummarizeFilesEvery},
		{"llm.summarize_sql", c.LLM.SummarizeSQL},
	}
	for _, n := range counts {
		if n.value < 0 {
			return fmt.Errorf("%s must not be negative", n.name)
		}
	}
	if bad, ok := scanner.ValidatePatterns(c.Excludes); !ok {
		return fmt.Errorf("invalid exclude pattern %q", bad)
	}
	return nil
}
