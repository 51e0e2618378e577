package llm

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// LLMError kinds.
const (
	KindAuth            = "auth"
	KindRateLimit       = "rate_limit"
	KindNetwork         = "network"
	KindInvalidResponse = "invalid_response"
)

// LLMError is the provider-independent failure of a completion call.
type LLMError struct {
	Kind       string
	Provider   string
	StatusCode int
	RetryAfter time.Duration
	Message    string
	Err        error
}

func (e *LLMError) Error() (msg string) {
	msg = fmt.Sprintf("%s %s error", e.Provider, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LLMError) Unwrap() (err error) {
	err = e.Err
	return err
}

// kindForStatus maps a non-2xx HTTP status onto the error taxonomy.
func kindForStatus(status int) (kind string) {
	switch {
	case status == 401 || status == 403:
		kind = KindAuth
	case status == 429:
		kind = KindRateLimit
	case status >= 500:
		kind = KindNetwork
	default:
		kind = KindInvalidResponse
	}
	return kind
}

// retryAfter parses a Retry-After header given in seconds or as an HTTP date.
func retryAfter(value string, now time.Time) (delay time.Duration) {
	value = strings.TrimSpace(value)
	if value == "" {
		return delay
	}
	seconds, err := strconv.Atoi(value)
	if err == nil {
		if seconds > 0 {
			delay = time.Duration(seconds) * time.Second
		}
		return delay
	}
	at, err := http.ParseTime(value)
	if err == nil && at.After(now) {
		delay = at.Sub(now)
	}
	return delay
}

// truncate shortens provider error bodies for messages.
func truncate(s string, limit int) (out string) {
	out = s
	if len(out) > limit {
		out = out[:limit] + "..."
	}
	return out
}
