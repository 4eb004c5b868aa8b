package summarizer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lineage-scan/internal/model"
)

type fakeSummarizer struct {
	mu      sync.Mutex
	calls   int
	failFor int
	err     error
	reply   func(prompt string) string
}

func (f *fakeSummarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failFor {
		return "", f.err
	}
	if f.reply != nil {
		return f.reply(prompt), nil
	}
	return "ok: " + prompt, nil
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Summarize(context.Background(), "x")
	assert.ErrorIs(t, err, ErrDisabled)
	assert.Equal(t, "Analysis unavailable: summarizer disabled", Summarize(context.Background(), Disabled{}, "x"))
}

func TestSummarize_TrimsOutput(t *testing.T) {
	f := &fakeSummarizer{reply: func(string) string { return "  done\n" }}
	assert.Equal(t, "done", Summarize(context.Background(), f, "p"))
}

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		failFor   int
		err       error
		attempts  int
		wantCalls int
		wantErr   error
	}{
		{"recovers", 2, errors.New("503"), 3, 3, nil},
		{"exhausted", 5, errors.New("503"), 3, 3, errors.New("503")},
		{"disabled not retried", 5, ErrDisabled, 3, 1, ErrDisabled},
		{"attempt deadline retried", 5, context.DeadlineExceeded, 3, 3, context.DeadlineExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeSummarizer{failFor: tt.failFor, err: tt.err}
			s := Retry(tt.attempts, time.Millisecond, zap.NewNop())(f)
			out, err := s.Summarize(context.Background(), "p")
			assert.Equal(t, tt.wantCalls, f.calls)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr.Error(), err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "ok: p", out)
		})
	}
}

func TestRetry_StopsOnCancel(t *testing.T) {
	f := &fakeSummarizer{failFor: 10, err: errors.New("boom")}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Retry(5, time.Hour, nil)(f).Summarize(ctx, "p")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, f.calls)
}

func TestRetry_RetriesTimedOutAttempt(t *testing.T) {
	calls := 0
	blocksOnce := summarizerFunc(func(ctx context.Context, _ string) (string, error) {
		calls++
		if calls == 1 {
			<-ctx.Done()
			return "", ctx.Err()
		}
		return "ok", nil
	})
	s := Chain(blocksOnce, Retry(3, time.Millisecond, zap.NewNop()), Timeout(20*time.Millisecond))

	assert.Equal(t, "ok", Summarize(context.Background(), s, "p"))
	assert.Equal(t, 2, calls)
}

func TestRetry_StopsOnCallerDeadline(t *testing.T) {
	f := &fakeSummarizer{failFor: 10, err: errors.New("boom")}
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()
	_, err := Retry(5, time.Millisecond, nil)(f).Summarize(ctx, "p")
	require.Error(t, err)
	assert.Equal(t, 1, f.calls)
}

func TestTimeout(t *testing.T) {
	slow := summarizerFunc(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	_, err := Timeout(10*time.Millisecond)(slow).Summarize(context.Background(), "p")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type summarizerFunc func(ctx context.Context, prompt string) (string, error)

func (f summarizerFunc) Summarize(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func TestCache(t *testing.T) {
	f := &fakeSummarizer{}
	mw, err := Cache(2)
	require.NoError(t, err)
	s := mw(f)

	for i := 0; i < 3; i++ {
		out, err := s.Summarize(context.Background(), "same")
		require.NoError(t, err)
		assert.Equal(t, "ok: same", out)
	}
	assert.Equal(t, 1, f.calls)

	_, _ = s.Summarize(context.Background(), "other")
	assert.Equal(t, 2, f.calls)
}

func TestCache_SkipsFailures(t *testing.T) {
	f := &fakeSummarizer{failFor: 1, err: errors.New("boom")}
	mw, err := Cache(4)
	require.NoError(t, err)
	s := mw(f)

	_, err = s.Summarize(context.Background(), "p")
	assert.Error(t, err)
	out, err := s.Summarize(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ok: p", out)
}

func TestChain_Order(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next model.Summarizer) model.Summarizer {
			return summarizerFunc(func(ctx context.Context, p string) (string, error) {
				order = append(order, name)
				return next.Summarize(ctx, p)
			})
		}
	}
	s := Chain(&fakeSummarizer{}, tag("outer"), tag("inner"))
	_, err := s.Summarize(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, Options{Provider: ProviderNone}, nil)
	require.NoError(t, err)
	assert.Equal(t, Disabled{}, s)

	s, err = New(ctx, Options{Provider: ProviderOpenAI}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, Disabled{}, s)

	_, err = New(ctx, Options{Provider: "claude", APIKey: "k"}, nil)
	assert.Error(t, err)

	s, err = New(ctx, Options{Provider: ProviderOpenAI, APIKey: "k", CacheSize: 8, MaxAttempts: 2, Timeout: time.Second}, nil)
	require.NoError(t, err)
	assert.IsType(t, &caching{}, s)
}

func TestDetector(t *testing.T) {
	var seen string
	f := &fakeSummarizer{reply: func(p string) string {
		seen = p
		return " `Kotlin`.\n"
	}}
	lang, err := NewDetector(f).DetectLanguage(context.Background(), "x.unknown", []byte("fun main() {}"))
	require.NoError(t, err)
	assert.Equal(t, "kotlin", lang)
	assert.Contains(t, seen, "fun main() {}")
	assert.Contains(t, seen, "Respond with only the language name in lowercase.")

	_, err = NewDetector(Disabled{}).DetectLanguage(context.Background(), "x", nil)
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestPrompts(t *testing.T) {
	p := ProjectPrompt(map[string]int{"file_count": 3})
	assert.Contains(t, p, "\"file_count\": 3")
	assert.Contains(t, p, "Identify the main purpose of the project")

	assert.Contains(t, DataFlowPrompt([]string{"a.py -> db:MySQL"}), "a.py -> db:MySQL")
	assert.True(t, strings.Contains(CodePrompt("Python", "x = 1"), "```Python\nx = 1\n```"))

	assert.Equal(t, "Explain this SQL logic in simple terms for business understanding: SELECT 1",
		ExplainPrompt(SubjectSQL, "SELECT 1"))
	assert.True(t, strings.HasPrefix(ExplainPrompt(SubjectBusinessRule, "x"), "Explain this business rule"))
	assert.True(t, strings.HasPrefix(ExplainPrompt("anything", "x"), "Explain this code logic"))
}
