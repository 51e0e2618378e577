package llm

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedCompleter returns its errors in order, then succeeds.
type scriptedCompleter struct {
	errs  []error
	calls int
}

func (s *scriptedCompleter) Complete(_ context.Context, _ string, model string, _ float64) (body GeneratedBody, err error) {
	s.calls++
	if s.calls <= len(s.errs) {
		err = s.errs[s.calls-1]
		return body, err
	}
	body = GeneratedBody{Text: "ok", Provider: "stub", Model: model}
	return body, err
}

func newTestRetry(inner Completer, retries int) (rc *RetryCompleter, delays *[]time.Duration) {
	rc = NewRetryCompleter(inner, retries, 10*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
	recorded := []time.Duration{}
	delays = &recorded
	rc.sleep = func(_ context.Context, d time.Duration) (err error) {
		*delays = append(*delays, d)
		return err
	}
	return rc, delays
}

func TestRetryCompleterRetriesTransient(t *testing.T) {
	inner := &scriptedCompleter{errs: []error{
		&LLMError{Kind: KindNetwork},
		&LLMError{Kind: KindRateLimit, RetryAfter: 4 * time.Second},
	}}
	rc, delays := newTestRetry(inner, 3)

	body, err := rc.Complete(context.Background(), "p", "m", 0.2)
	require.NoError(t, err)
	assert.Equal(t, "ok", body.Text)
	assert.Equal(t, 3, inner.calls)

	require.Len(t, *delays, 2)
	// First delay is the base delay with ±30% jitter.
	assert.InDelta(t, float64(10*time.Millisecond), float64((*delays)[0]), float64(3*time.Millisecond))
	// Retry-After wins over backoff.
	assert.Equal(t, 4*time.Second, (*delays)[1])
}

func TestRetryCompleterStopsOnPermanentErrors(t *testing.T) {
	for _, kind := range []string{KindAuth, KindInvalidResponse} {
		t.Run(kind, func(t *testing.T) {
			inner := &scriptedCompleter{errs: []error{&LLMError{Kind: kind}}}
			rc, delays := newTestRetry(inner, 3)

			_, err := rc.Complete(context.Background(), "p", "m", 0.2)
			var llmErr *LLMError
			require.True(t, errors.As(err, &llmErr))
			assert.Equal(t, kind, llmErr.Kind)
			assert.Equal(t, 1, inner.calls)
			assert.Empty(t, *delays)
		})
	}
}

func TestRetryCompleterGivesUp(t *testing.T) {
	inner := &scriptedCompleter{errs: []error{
		&LLMError{Kind: KindNetwork},
		&LLMError{Kind: KindNetwork},
		&LLMError{Kind: KindNetwork},
	}}
	rc, _ := newTestRetry(inner, 2)

	_, err := rc.Complete(context.Background(), "p", "m", 0.2)
	require.Error(t, err)
	assert.Equal(t, 3, inner.calls)
}

func TestRetryCompleterHonoursCancellation(t *testing.T) {
	inner := &scriptedCompleter{errs: []error{&LLMError{Kind: KindNetwork, Provider: "together"}}}
	rc := NewRetryCompleter(inner, 3, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := rc.Complete(ctx, "p", "m", 0.2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, inner.calls)

	var llmErr *LLMError
	require.True(t, errors.As(err, &llmErr), "expected LLMError, got %v", err)
	assert.Equal(t, KindNetwork, llmErr.Kind)
	assert.Equal(t, "together", llmErr.Provider)
}

func TestBackoffGrowsExponentially(t *testing.T) {
	rc := NewRetryCompleter(&scriptedCompleter{}, 5, 100*time.Millisecond, nil)
	for attempt, base := range map[int]time.Duration{1: 100 * time.Millisecond, 2: 200 * time.Millisecond, 3: 400 * time.Millisecond} {
		delay := rc.backoffDelay(attempt, &LLMError{Kind: KindNetwork})
		assert.InDelta(t, float64(base), float64(delay), float64(base)*0.3+1)
	}
}
