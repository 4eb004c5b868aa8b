package summarizer

import (
	"context"
	"errors"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"lineage-scan/internal/model"
)

// Retry retries Summarize up to maxAttempts with exponential backoff
// starting at baseDelay. ErrDisabled is not retried, and retrying stops once
// the caller's context is done. A deadline scoped to one attempt, as set by
// Timeout, is retried.
func Retry(maxAttempts int, baseDelay time.Duration, logger *zap.Logger) Middleware {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 300 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next model.Summarizer) model.Summarizer {
		return &retrying{next: next, max: maxAttempts, base: baseDelay, logger: logger}
	}
}

type retrying struct {
	next   model.Summarizer
	max    int
	base   time.Duration
	logger *zap.Logger
}

func (r *retrying) Summarize(ctx context.Context, prompt string) (string, error) {
	var last error
	for i := 0; i < r.max; i++ {
		out, err := r.next.Summarize(ctx, prompt)
		if err == nil {
			return out, nil
		}
		if errors.Is(err, ErrDisabled) || ctx.Err() != nil {
			return "", err
		}
		last = err
		if i == r.max-1 {
			break
		}
		r.logger.Debug("summarize failed, retrying", zap.Int("attempt", i+1), zap.Error(err))
		t := time.NewTimer(r.base * time.Duration(1<<i))
		select {
		case <-ctx.Done():
			t.Stop()
			return "", ctx.Err()
		case <-t.C:
		}
	}
	return "", last
}

// Timeout bounds every call with d.
func Timeout(d time.Duration) Middleware {
	return func(next model.Summarizer) model.Summarizer {
		return timeoutSummarizer{next: next, d: d}
	}
}

type timeoutSummarizer struct {
	next model.Summarizer
	d    time.Duration
}

func (t timeoutSummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.next.Summarize(ctx, prompt)
}

// Cache memoizes successful responses keyed by the xxhash of the prompt.
func Cache(size int) (Middleware, error) {
	c, err := lru.New[uint64, string](size)
	if err != nil {
		return nil, err
	}
	return func(next model.Summarizer) model.Summarizer {
		return &caching{next: next, cache: c}
	}, nil
}

type caching struct {
	next  model.Summarizer
	cache *lru.Cache[uint64, string]
}

func (c *caching) Summarize(ctx context.Context, prompt string) (string, error) {
	key := xxhash.Sum64String(prompt)
	if out, ok := c.cache.Get(key); ok {
		return out, nil
	}
	out, err := c.next.Summarize(ctx, prompt)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, out)
	return out, nil
}
