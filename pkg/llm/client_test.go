package llm

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/nikogura/covergen/pkg/config"
)

func TestNewDispatch(t *testing.T) {
	tests := []struct {
		provider string
		want     any
	}{
		{provider: "openai", want: &ChatClient{}},
		{provider: "together", want: &ChatClient{}},
		{provider: " OpenRouter ", want: &ChatClient{}},
		{provider: "anthropic", want: &AnthropicClient{}},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			completer, err := New(tt.provider, Options{APIKey: "k"})
			require.NoError(t, err)
			assert.IsType(t, tt.want, completer)
		})
	}
}

func TestNewDefaultEndpoints(t *testing.T) {
	tests := []struct {
		provider string
		endpoint string
	}{
		{provider: config.ProviderOpenAI, endpoint: OpenAIBaseURL + "/chat/completions"},
		{provider: config.ProviderTogether, endpoint: TogetherBaseURL + "/chat/completions"},
		{provider: config.ProviderOpenRouter, endpoint: OpenRouterBaseURL + "/chat/completions"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			completer, err := New(tt.provider, Options{APIKey: "k", Timeout: 3 * time.Second})
			require.NoError(t, err)

			client, ok := completer.(*ChatClient)
			require.True(t, ok)
			assert.Equal(t, tt.endpoint, client.endpoint)
			assert.Equal(t, 3*time.Second, client.httpClient.Timeout)
		})
	}
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New("gemini", Options{})

	var cerr *config.ConfigError
	require.True(t, errors.As(err, &cerr), "expected ConfigError, got %v", err)
	assert.Equal(t, config.KindUnknownProvider, cerr.Kind)
}

func TestFromConfig(t *testing.T) {
	keyring.MockInit()

	cfg := config.Default()
	cfg.Provider = config.ProviderTogether

	// No credential anywhere.
	_, err := FromConfig(cfg, nil)
	var cerr *config.ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, config.KindMissingCredential, cerr.Kind)

	cfg.TogetherAPIKey = "tg-key"
	completer, err := FromConfig(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &ChatClient{}, completer)

	cfg.Retries = 2
	completer, err = FromConfig(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &RetryCompleter{}, completer)
}
