package llm

// GenerationRequest holds everything needed to generate and lay out one cover letter.
// RecipientName and Company are never empty once built by BuildRequest.
type GenerationRequest struct {
	JobText           string
	CVText            string
	Role              string
	Tone              string
	ExtraInstructions string
	Opening           string
	Closing           string
	SenderName        string
	SenderAddress     []string
	RecipientName     string
	Company           string
	RecipientAddress  []string
	OutputStem        string
	Prompt            string
}

// GeneratedBody is the letter body returned by a provider, treated as an opaque LaTeX fragment.
type GeneratedBody struct {
	Text     string
	Provider string
	Model    string
}

// Overrides are explicit per-run values supplied by the user. Empty fields are unset.
type Overrides struct {
	Role              string
	Company           string
	Tone              string
	ExtraInstructions string
	Opening           string
	Closing           string
	SenderName        string
	SenderAddress     []string
	RecipientName     string
	RecipientAddress  []string
	OutputStem        string
}

// Defaults are configured fallbacks consulted after overrides and derived values.
type Defaults struct {
	Tone             string
	Opening          string
	Closing          string
	SenderName       string
	SenderAddress    []string
	RecipientName    string
	Company          string
	RecipientAddress []string
}

// chatRequest mirrors the OpenAI-compatible /chat/completions request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// chatMessage represents a message in the conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse mirrors the relevant fields of an OpenAI-compatible response.
type chatResponse struct {
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Error   *apiError    `json:"error,omitempty"`
}

type chatChoice struct {
	Message *chatMessage `json:"message"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}
