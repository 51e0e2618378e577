package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxTokens caps the length of a generated letter body.
const maxTokens = 2048

// ChatClient talks to an OpenAI-compatible /chat/completions endpoint. OpenAI, Together and
// OpenRouter differ only in base URL and extra headers.
type ChatClient struct {
	provider   string
	apiKey     string
	endpoint   string
	headers    map[string]string
	httpClient *http.Client
}

func newChatClient(provider string, defaultBaseURL string, opts Options, headers map[string]string) (client *ChatClient) {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client = &ChatClient{
		provider:   provider,
		apiKey:     opts.APIKey,
		endpoint:   strings.TrimRight(baseURL, "/") + "/chat/completions",
		headers:    headers,
		httpClient: httpClientFor(opts),
	}
	return client
}

// Complete sends prompt as a single user message and returns the first choice.
func (c *ChatClient) Complete(ctx context.Context, prompt string, model string, temperature float64) (body GeneratedBody, err error) {
	// Build request
	chatReq := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{
				Role:    "user",
				Content: prompt,
			},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	var reqBody []byte
	reqBody, err = json.Marshal(chatReq)
	if err != nil {
		err = &LLMError{Kind: KindInvalidResponse, Provider: c.provider, Message: "failed to marshal request", Err: err}
		return body, err
	}

	var httpReq *http.Request
	httpReq, err = http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		err = &LLMError{Kind: KindNetwork, Provider: c.provider, Message: "failed to create HTTP request", Err: err}
		return body, err
	}

	// Set headers
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	for name, value := range c.headers {
		httpReq.Header.Set(name, value)
	}

	// Send request
	var resp *http.Response
	resp, err = c.httpClient.Do(httpReq)
	if err != nil {
		err = &LLMError{Kind: KindNetwork, Provider: c.provider, Message: "HTTP request failed", Err: err}
		return body, err
	}
	defer func() { _ = resp.Body.Close() }()

	// Read response body
	var respBody []byte
	respBody, err = io.ReadAll(resp.Body)
	if err != nil {
		err = &LLMError{Kind: KindNetwork, Provider: c.provider, StatusCode: resp.StatusCode, Message: "failed to read response body", Err: err}
		return body, err
	}

	// Check status code
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		llmErr := &LLMError{
			Kind:       kindForStatus(resp.StatusCode),
			Provider:   c.provider,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(respBody),
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			llmErr.RetryAfter = retryAfter(resp.Header.Get("Retry-After"), time.Now())
		}
		err = llmErr
		return body, err
	}

	// Parse response
	var chatResp chatResponse
	err = json.Unmarshal(respBody, &chatResp)
	if err != nil {
		err = &LLMError{Kind: KindInvalidResponse, Provider: c.provider, StatusCode: resp.StatusCode, Message: "failed to parse response", Err: err}
		return body, err
	}

	if chatResp.Error != nil {
		err = &LLMError{Kind: KindInvalidResponse, Provider: c.provider, StatusCode: resp.StatusCode, Message: chatResp.Error.Message}
		return body, err
	}

	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message == nil {
		err = &LLMError{Kind: KindInvalidResponse, Provider: c.provider, StatusCode: resp.StatusCode, Message: "response contained no choices"}
		return body, err
	}

	text := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if text == "" {
		err = &LLMError{Kind: KindInvalidResponse, Provider: c.provider, StatusCode: resp.StatusCode, Message: "empty completion"}
		return body, err
	}

	body = GeneratedBody{
		Text:     text,
		Provider: c.provider,
		Model:    model,
	}
	if chatResp.Model != "" {
		body.Model = chatResp.Model
	}

	return body, err
}

// errorMessage extracts a provider error message from a response body.
func errorMessage(respBody []byte) (msg string) {
	var payload chatResponse
	if json.Unmarshal(respBody, &payload) == nil && payload.Error != nil && payload.Error.Message != "" {
		msg = payload.Error.Message
		return msg
	}
	msg = truncate(strings.TrimSpace(string(respBody)), 300)
	return msg
}
