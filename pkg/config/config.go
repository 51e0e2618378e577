package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Supported provider identifiers.
const (
	ProviderOpenAI     = "openai"
	ProviderTogether   = "together"
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"
)

// Built-in defaults.
const (
	DefaultProvider       = ProviderOpenAI
	DefaultModel          = "gpt-4-turbo"
	DefaultTemperature    = 0.2
	DefaultCVPath         = "data/cv.txt"
	DefaultLatexEngine    = "xelatex"
	DefaultOutputDir      = "output"
	DefaultOpening        = "Dear Hiring Manager"
	DefaultClosing        = "Sincerely,"
	DefaultTone           = "professional"
	DefaultRequestTimeout = 120 * time.Second
	DefaultCompileTimeout = 60 * time.Second
	DefaultFetchTimeout   = 20 * time.Second
	DefaultRetryDelay     = 2 * time.Second
)

// Config represents the application configuration.
type Config struct {
	Provider       string        `json:"provider" yaml:"provider"`
	Model          string        `json:"model" yaml:"model" validate:"required"`
	Models         ModelsConfig  `json:"models,omitempty" yaml:"models,omitempty"`
	Temperature    float64       `json:"temperature" yaml:"temperature" validate:"gte=0,lte=2"`
	BaseURL        string        `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"omitempty,url"`
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout" validate:"gt=0"`
	Retries        int           `json:"llm_retries" yaml:"llm_retries" validate:"gte=0,lte=10"`
	RetryDelay     time.Duration `json:"llm_retry_delay" yaml:"llm_retry_delay" validate:"gte=0"`

	OpenAIAPIKey     string `json:"openai_api_key,omitempty" yaml:"openai_api_key,omitempty"`
	TogetherAPIKey   string `json:"together_api_key,omitempty" yaml:"together_api_key,omitempty"`
	OpenRouterAPIKey string `json:"openrouter_api_key,omitempty" yaml:"openrouter_api_key,omitempty"`
	AnthropicAPIKey  string `json:"anthropic_api_key,omitempty" yaml:"anthropic_api_key,omitempty"`

	CVPath         string        `json:"cv_path" yaml:"cv_path" validate:"required"`
	TemplatePath   string        `json:"template_path,omitempty" yaml:"template_path,omitempty"`
	LatexEngine    string        `json:"latex_engine" yaml:"latex_engine" validate:"required"`
	CompileTimeout time.Duration `json:"compile_timeout" yaml:"compile_timeout" validate:"gt=0"`
	FetchTimeout   time.Duration `json:"fetch_timeout" yaml:"fetch_timeout" validate:"gt=0"`
	OutputDir      string        `json:"output_dir" yaml:"output_dir" validate:"required"`

	Sender    SenderConfig    `json:"sender" yaml:"sender"`
	Recipient RecipientConfig `json:"recipient" yaml:"recipient"`
	Opening   string          `json:"opening" yaml:"opening" validate:"required"`
	Closing   string          `json:"closing" yaml:"closing" validate:"required"`
	Tone      string          `json:"tone" yaml:"tone" validate:"required"`
	TidyBody  *bool           `json:"tidy_body,omitempty" yaml:"tidy_body,omitempty"`
}

// ModelsConfig holds per-provider model overrides.
type ModelsConfig struct {
	OpenAI     string `json:"openai,omitempty" yaml:"openai,omitempty"`
	Together   string `json:"together,omitempty" yaml:"together,omitempty"`
	OpenRouter string `json:"openrouter,omitempty" yaml:"openrouter,omitempty"`
	Anthropic  string `json:"anthropic,omitempty" yaml:"anthropic,omitempty"`
}

// SenderConfig holds the default sender identity.
type SenderConfig struct {
	Name    string   `json:"name,omitempty" yaml:"name,omitempty"`
	Address []string `json:"address,omitempty" yaml:"address,omitempty"`
}

// RecipientConfig holds recipient defaults. Name and company are normally derived from the
// job posting and only act as fallbacks.
type RecipientConfig struct {
	Name    string   `json:"name,omitempty" yaml:"name,omitempty"`
	Company string   `json:"company,omitempty" yaml:"company,omitempty"`
	Address []string `json:"address,omitempty" yaml:"address,omitempty"`
}

// Default returns a configuration holding only built-in defaults.
func Default() (cfg Config) {
	cfg = Config{Temperature: DefaultTemperature, RetryDelay: DefaultRetryDelay}
	cfg.applyDefaults()
	return cfg
}

// DefaultPath returns ~/.covergen/config.yaml.
func DefaultPath() (path string, err error) {
	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return path, err
	}
	path = filepath.Join(homeDir, ".covergen", "config.yaml")
	return path, err
}

// Load reads configuration from file with environment variable overrides. An empty
// configPath selects the default location, which is allowed to be absent.
func Load(configPath string) (cfg Config, err error) {
	cfg = Default()

	path := configPath
	explicit := path != ""
	if !explicit {
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	var data []byte
	data, err = os.ReadFile(path)
	switch {
	case err == nil:
		err = yaml.Unmarshal(data, &cfg)
		if err != nil {
			err = errors.Wrapf(err, "failed to parse config file: %s", path)
			return cfg, err
		}
	case os.IsNotExist(err) && !explicit:
		err = nil
	case os.IsNotExist(err):
		err = errors.Errorf("config file not found: %s (run 'covergen init-config' to create)", path)
		return cfg, err
	default:
		err = errors.Wrapf(err, "failed to read config file: %s", path)
		return cfg, err
	}

	err = cfg.applyEnv()
	if err != nil {
		return cfg, err
	}

	cfg.applyDefaults()

	err = cfg.Validate()
	if err != nil {
		return cfg, err
	}

	return cfg, err
}

// applyEnv overrides file values with environment variables.
func (c *Config) applyEnv() (err error) {
	strVars := map[string]*string{
		"LLM_PROVIDER":              &c.Provider,
		"LLM_MODEL":                 &c.Model,
		"LLM_BASE_URL":              &c.BaseURL,
		"OPENAI_MODEL":              &c.Models.OpenAI,
		"TOGETHER_MODEL":            &c.Models.Together,
		"OPENROUTER_MODEL":          &c.Models.OpenRouter,
		"ANTHROPIC_MODEL":           &c.Models.Anthropic,
		"OPENAI_API_KEY":            &c.OpenAIAPIKey,
		"TOGETHER_API_KEY":          &c.TogetherAPIKey,
		"OPENROUTER_API_KEY":        &c.OpenRouterAPIKey,
		"ANTHROPIC_API_KEY":         &c.AnthropicAPIKey,
		"CV_PATH":                   &c.CVPath,
		"LATEX_TEMPLATE":            &c.TemplatePath,
		"LATEX_ENGINE":              &c.LatexEngine,
		"OUTPUT_DIR":                &c.OutputDir,
		"DEFAULT_SENDER_NAME":       &c.Sender.Name,
		"DEFAULT_RECIPIENT_NAME":    &c.Recipient.Name,
		"DEFAULT_RECIPIENT_COMPANY": &c.Recipient.Company,
		"DEFAULT_OPENING":           &c.Opening,
		"DEFAULT_CLOSING":           &c.Closing,
		"DEFAULT_TONE":              &c.Tone,
	}
	for name, target := range strVars {
		if value := strings.TrimSpace(os.Getenv(name)); value != "" {
			*target = value
		}
	}

	if value := os.Getenv("DEFAULT_SENDER_ADDRESS"); value != "" {
		c.Sender.Address = SplitAddress(value)
	}
	if value := os.Getenv("DEFAULT_RECIPIENT_ADDRESS"); value != "" {
		c.Recipient.Address = SplitAddress(value)
	}

	if value := strings.TrimSpace(os.Getenv("LLM_TEMPERATURE")); value != "" {
		var temperature float64
		temperature, err = strconv.ParseFloat(value, 64)
		if err != nil {
			err = &ConfigError{Kind: KindInvalid, Field: "LLM_TEMPERATURE", Err: err}
			return err
		}
		c.Temperature = temperature
	}

	return err
}

// applyDefaults fills every unset option with its built-in fallback. Temperature and retry delay
// are seeded by Default so that an explicit 0 survives.
func (c *Config) applyDefaults() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.CVPath == "" {
		c.CVPath = DefaultCVPath
	}
	c.CVPath = expandHome(c.CVPath)
	c.TemplatePath = expandHome(c.TemplatePath)
	if c.LatexEngine == "" {
		c.LatexEngine = DefaultLatexEngine
	}
	if c.CompileTimeout == 0 {
		c.CompileTimeout = DefaultCompileTimeout
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = DefaultFetchTimeout
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	c.OutputDir = expandHome(c.OutputDir)
	if c.Opening == "" {
		c.Opening = DefaultOpening
	}
	if c.Closing == "" {
		c.Closing = DefaultClosing
	}
	if c.Tone == "" {
		c.Tone = DefaultTone
	}
	if c.TidyBody == nil {
		tidy := true
		c.TidyBody = &tidy
	}
	c.Sender.Address = cleanLines(c.Sender.Address)
	c.Recipient.Address = cleanLines(c.Recipient.Address)
}

// Validate checks that the configuration is usable. Credentials are checked separately by
// APIKey so that commands which never call a provider still work without one.
func (c *Config) Validate() (err error) {
	if !IsKnownProvider(c.Provider) {
		err = &ConfigError{
			Kind:  KindUnknownProvider,
			Field: "provider",
			Err:   errors.Errorf("unsupported provider %q (want one of %s)", c.Provider, strings.Join(Providers(), ", ")),
		}
		return err
	}

	err = validator.New().Struct(c)
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			err = &ConfigError{Kind: KindInvalid, Field: verrs[0].Field(), Err: err}
			return err
		}
		err = &ConfigError{Kind: KindInvalid, Err: err}
		return err
	}

	return err
}

// ModelFor returns the model configured for a provider, falling back to Model.
func (c *Config) ModelFor(provider string) (model string) {
	switch provider {
	case ProviderOpenAI:
		model = c.Models.OpenAI
	case ProviderTogether:
		model = c.Models.Together
	case ProviderOpenRouter:
		model = c.Models.OpenRouter
	case ProviderAnthropic:
		model = c.Models.Anthropic
	}
	if model == "" {
		model = c.Model
	}
	return model
}

// ShouldTidyBody reports whether generated bodies get cleaned before rendering.
func (c *Config) ShouldTidyBody() (tidy bool) {
	tidy = c.TidyBody == nil || *c.TidyBody
	return tidy
}

// Providers lists the supported provider identifiers.
func Providers() (providers []string) {
	providers = []string{ProviderOpenAI, ProviderTogether, ProviderOpenRouter, ProviderAnthropic}
	return providers
}

// IsKnownProvider reports whether id names a supported provider.
func IsKnownProvider(id string) (known bool) {
	for _, p := range Providers() {
		if p == id {
			known = true
			return known
		}
	}
	return known
}

// SplitAddress splits a pipe-separated address string into trimmed, non-empty lines.
func SplitAddress(value string) (lines []string) {
	lines = cleanLines(strings.Split(value, "|"))
	return lines
}

func cleanLines(in []string) (out []string) {
	out = make([]string, 0, len(in))
	for _, line := range in {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func expandHome(path string) (expanded string) {
	expanded = path
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return expanded
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return expanded
	}
	expanded = filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
	return expanded
}
