package llm

import (
	"context"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"

	"github.com/nikogura/covergen/pkg/config"
)

// AnthropicClient completes prompts with the Anthropic Messages API.
type AnthropicClient struct {
	client anthropic.Client
}

func newAnthropicClient(opts Options) (client *AnthropicClient) {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = AnthropicBaseURL
	}
	client = &AnthropicClient{
		client: anthropic.NewClient(
			option.WithAPIKey(opts.APIKey),
			option.WithBaseURL(baseURL),
			option.WithHTTPClient(httpClientFor(opts)),
			option.WithMaxRetries(0),
		),
	}
	return client
}

// Complete sends prompt as a single user message and joins the returned text blocks.
func (c *AnthropicClient) Complete(ctx context.Context, prompt string, model string, temperature float64) (body GeneratedBody, err error) {
	var message *anthropic.Message
	message, err = c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Temperature: anthropic.Float(temperature),
	})
	if err != nil {
		err = classifyAnthropicError(err)
		return body, err
	}

	var parts []string
	for _, block := range message.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}

	text := strings.TrimSpace(strings.Join(parts, ""))
	if text == "" {
		err = &LLMError{Kind: KindInvalidResponse, Provider: config.ProviderAnthropic, Message: "empty completion"}
		return body, err
	}

	body = GeneratedBody{
		Text:     text,
		Provider: config.ProviderAnthropic,
		Model:    model,
	}
	if message.Model != "" {
		body.Model = string(message.Model)
	}

	return body, err
}

// classifyAnthropicError maps SDK failures onto the LLMError taxonomy.
func classifyAnthropicError(err error) (classified error) {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		llmErr := &LLMError{
			Kind:       kindForStatus(apiErr.StatusCode),
			Provider:   config.ProviderAnthropic,
			StatusCode: apiErr.StatusCode,
			Err:        err,
		}
		if apiErr.StatusCode == 429 && apiErr.Response != nil {
			llmErr.RetryAfter = retryAfter(apiErr.Response.Header.Get("Retry-After"), time.Now())
		}
		classified = llmErr
		return classified
	}

	// Anything without an HTTP status is a transport failure, a timeout or an undecodable body.
	kind := KindNetwork
	if strings.Contains(err.Error(), "unmarshal") || strings.Contains(err.Error(), "decode") {
		kind = KindInvalidResponse
	}
	classified = &LLMError{Kind: kind, Provider: config.ProviderAnthropic, Err: err}
	return classified
}
