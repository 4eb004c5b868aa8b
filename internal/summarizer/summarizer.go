// Package summarizer provides the natural-language explanation service:
// provider clients, the disabled variant, and middleware for retries,
// timeouts and caching.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"lineage-scan/internal/model"
)

// ErrDisabled is returned by the disabled summarizer.
var ErrDisabled = errors.New("summarizer disabled")

// Provider names.
const (
	ProviderNone   = "none"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Default models per provider.
const (
	DefaultOpenAIModel = "gpt-4o"
	DefaultGeminiModel = "gemini-2.5-flash"
)

const systemPrompt = "You are an expert code analyzer assistant."

// Disabled is used when no provider or credential is configured.
type Disabled struct{}

func (Disabled) Summarize(context.Context, string) (string, error) { return "", ErrDisabled }

// Unavailable renders a failed call as the text shown in its place.
func Unavailable(err error) string {
	return "Analysis unavailable: " + err.Error()
}

// Summarize calls s and converts any failure to the unavailable text.
func Summarize(ctx context.Context, s model.Summarizer, prompt string) string {
	out, err := s.Summarize(ctx, prompt)
	if err != nil {
		return Unavailable(err)
	}
	return strings.TrimSpace(out)
}

// Middleware wraps a summarizer.
type Middleware func(model.Summarizer) model.Summarizer

// Chain applies mws so that the first one is outermost.
func Chain(s model.Summarizer, mws ...Middleware) model.Summarizer {
	for i := len(mws) - 1; i >= 0; i-- {
		s = mws[i](s)
	}
	return s
}

// Options selects and tunes a provider.
type Options struct {
	Provider    string
	Model       string
	APIKey      string
	Timeout     time.Duration
	MaxAttempts int
	CacheSize   int
}

// New builds the summarizer described by opts. A missing provider or key
// yields Disabled rather than an error.
func New(ctx context.Context, opts Options, logger *zap.Logger) (model.Summarizer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var (
		base model.Summarizer
		err  error
	)
	switch opts.Provider {
	case "", ProviderNone:
		return Disabled{}, nil
	case ProviderOpenAI, ProviderGemini:
		if opts.APIKey == "" {
			logger.Warn("no API key configured, narratives disabled", zap.String("provider", opts.Provider))
			return Disabled{}, nil
		}
		if opts.Provider == ProviderOpenAI {
			base, err = NewOpenAI(opts.APIKey, opts.Model)
		} else {
			base, err = NewGemini(ctx, opts.APIKey, opts.Model)
		}
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown summarizer provider %q", opts.Provider)
	}

	var mws []Middleware
	if opts.CacheSize > 0 {
		cache, err := Cache(opts.CacheSize)
		if err != nil {
			return nil, err
		}
		mws = append(mws, cache)
	}
	mws = append(mws, Retry(opts.MaxAttempts, 0, logger))
	if opts.Timeout > 0 {
		mws = append(mws, Timeout(opts.Timeout))
	}
	return Chain(base, mws...), nil
}
