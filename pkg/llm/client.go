package llm

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nikogura/covergen/pkg/config"
	"github.com/pkg/errors"
)

// Default base URLs of the supported providers.
const (
	OpenAIBaseURL     = "https://api.openai.com/v1"
	TogetherBaseURL   = "https://api.together.xyz/v1"
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
	AnthropicBaseURL  = "https://api.anthropic.com"
)

// DefaultTimeout bounds a single completion request.
const DefaultTimeout = 120 * time.Second

// OpenRouter attribution headers.
const (
	openRouterReferer = "https://github.com/nikogura/covergen"
	openRouterTitle   = "covergen"
)

// Completer turns a prompt into a letter body. Failures are *LLMError.
type Completer interface {
	Complete(ctx context.Context, prompt string, model string, temperature float64) (body GeneratedBody, err error)
}

// Options configure a provider binding.
type Options struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// constructor builds a binding from options.
type constructor func(opts Options) (completer Completer)

// bindings is the provider dispatch table.
func bindings() (table map[string]constructor) {
	table = map[string]constructor{
		config.ProviderOpenAI: func(opts Options) (completer Completer) {
			completer = newChatClient(config.ProviderOpenAI, OpenAIBaseURL, opts, nil)
			return completer
		},
		config.ProviderTogether: func(opts Options) (completer Completer) {
			completer = newChatClient(config.ProviderTogether, TogetherBaseURL, opts, nil)
			return completer
		},
		config.ProviderOpenRouter: func(opts Options) (completer Completer) {
			headers := map[string]string{
				"HTTP-Referer": openRouterReferer,
				"X-Title":      openRouterTitle,
			}
			completer = newChatClient(config.ProviderOpenRouter, OpenRouterBaseURL, opts, headers)
			return completer
		},
		config.ProviderAnthropic: func(opts Options) (completer Completer) {
			completer = newAnthropicClient(opts)
			return completer
		},
	}
	return table
}

// New returns the binding registered for provider. An unknown provider is a
// *config.ConfigError of kind unknown_provider.
func New(provider string, opts Options) (completer Completer, err error) {
	build, ok := bindings()[strings.ToLower(strings.TrimSpace(provider))]
	if !ok {
		err = &config.ConfigError{
			Kind:  config.KindUnknownProvider,
			Field: "provider",
			Err:   errors.Errorf("unsupported provider %q", provider),
		}
		return completer, err
	}

	completer = build(opts)
	return completer, err
}

// FromConfig builds the configured provider binding, resolving its credential and wrapping it
// in a RetryCompleter when retries are enabled.
func FromConfig(cfg config.Config, logger *slog.Logger) (completer Completer, err error) {
	var apiKey string
	apiKey, err = cfg.APIKey(cfg.Provider)
	if err != nil {
		return completer, err
	}

	completer, err = New(cfg.Provider, Options{
		APIKey:  apiKey,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.RequestTimeout,
	})
	if err != nil {
		return completer, err
	}

	if cfg.Retries > 0 {
		completer = NewRetryCompleter(completer, cfg.Retries, cfg.RetryDelay, logger)
	}

	return completer, err
}

// httpClientFor returns the client supplied in opts or a fresh one bounded by its timeout.
func httpClientFor(opts Options) (client *http.Client) {
	if opts.HTTPClient != nil {
		client = opts.HTTPClient
		return client
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client = &http.Client{Timeout: timeout}
	return client
}
