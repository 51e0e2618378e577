package llm

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pkg/errors"
)

// RetryCompleter is a decorator that retries rate-limit and network failures with exponential
// backoff and jitter before giving up.
type RetryCompleter struct {
	inner      Completer
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
	sleep      func(ctx context.Context, d time.Duration) (err error)
}

// NewRetryCompleter wraps inner. maxRetries is the number of additional attempts after the
// first failure; baseDelay doubles on each retry.
func NewRetryCompleter(inner Completer, maxRetries int, baseDelay time.Duration, logger *slog.Logger) (rc *RetryCompleter) {
	if logger == nil {
		logger = slog.Default()
	}
	rc = &RetryCompleter{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
		sleep:      sleepContext,
	}
	return rc
}

// Complete delegates to the wrapped Completer, retrying transient failures.
func (r *RetryCompleter) Complete(ctx context.Context, prompt string, model string, temperature float64) (body GeneratedBody, err error) {
	body, err = r.inner.Complete(ctx, prompt, model, temperature)
	for attempt := 1; attempt <= r.maxRetries && isRetryable(err); attempt++ {
		delay := r.backoffDelay(attempt, err)

		r.logger.Warn("retrying completion after transient error",
			"attempt", attempt,
			"max_retries", r.maxRetries,
			"delay", delay,
			"error", err,
		)

		sleepErr := r.sleep(ctx, delay)
		if sleepErr != nil {
			err = &LLMError{Kind: KindNetwork, Provider: providerOf(err), Message: "retry cancelled", Err: sleepErr}
			return body, err
		}

		body, err = r.inner.Complete(ctx, prompt, model, temperature)
	}

	return body, err
}

// backoffDelay computes the delay for an attempt with ±30% jitter. A Retry-After hint wins.
func (r *RetryCompleter) backoffDelay(attempt int, err error) (delay time.Duration) {
	var llmErr *LLMError
	if errors.As(err, &llmErr) && llmErr.RetryAfter > 0 {
		delay = llmErr.RetryAfter
		return delay
	}

	// Exponential: baseDelay * 2^(attempt-1)
	delay = r.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	delay = time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
	return delay
}

// isRetryable reports whether err is a transient provider failure.
func isRetryable(err error) (retryable bool) {
	if err == nil {
		return retryable
	}
	if errors.Is(err, context.Canceled) {
		return retryable
	}
	var llmErr *LLMError
	if errors.As(err, &llmErr) {
		retryable = llmErr.Kind == KindRateLimit || llmErr.Kind == KindNetwork
	}
	return retryable
}

func sleepContext(ctx context.Context, d time.Duration) (err error) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case <-timer.C:
	}
	return err
}

// providerOf returns the provider recorded in an LLMError, or "".
func providerOf(err error) (provider string) {
	var llmErr *LLMError
	if errors.As(err, &llmErr) {
		provider = llmErr.Provider
	}
	return provider
}
