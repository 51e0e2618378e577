package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/zalando/go-keyring"
)

// KeyringService is the OS keyring service under which provider API keys are stored.
const KeyringService = "covergen"

// EnvKeyName returns the environment variable holding the API key for provider.
func EnvKeyName(provider string) (name string) {
	name = strings.ToUpper(provider) + "_API_KEY"
	return name
}

// APIKey returns the credential for provider. Config and environment values win; the OS
// keyring is consulted last.
func (c *Config) APIKey(provider string) (key string, err error) {
	switch provider {
	case ProviderOpenAI:
		key = c.OpenAIAPIKey
	case ProviderTogether:
		key = c.TogetherAPIKey
	case ProviderOpenRouter:
		key = c.OpenRouterAPIKey
	case ProviderAnthropic:
		key = c.AnthropicAPIKey
	default:
		err = &ConfigError{Kind: KindUnknownProvider, Field: "provider", Err: errors.Errorf("unsupported provider %q", provider)}
		return key, err
	}

	key = strings.TrimSpace(key)
	if key != "" {
		return key, err
	}

	var stored string
	stored, err = keyring.Get(KeyringService, provider)
	if err == nil && strings.TrimSpace(stored) != "" {
		key = strings.TrimSpace(stored)
		return key, err
	}

	err = &ConfigError{
		Kind:  KindMissingCredential,
		Field: EnvKeyName(provider),
		Err:   errors.Errorf("no API key for provider %s (set %s or run 'covergen secrets set %s')", provider, EnvKeyName(provider), provider),
	}
	return key, err
}

// StoreAPIKey saves a provider API key in the OS keyring.
func StoreAPIKey(provider string, key string) (err error) {
	if !IsKnownProvider(provider) {
		err = &ConfigError{Kind: KindUnknownProvider, Field: "provider", Err: errors.Errorf("unsupported provider %q", provider)}
		return err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		err = errors.New("refusing to store an empty API key")
		return err
	}
	err = keyring.Set(KeyringService, provider, key)
	if err != nil {
		err = errors.Wrapf(err, "failed to store %s key in keyring", provider)
		return err
	}
	return err
}

// DeleteAPIKey removes a provider API key from the OS keyring. Deleting an absent key is not
// an error.
func DeleteAPIKey(provider string) (err error) {
	if !IsKnownProvider(provider) {
		err = &ConfigError{Kind: KindUnknownProvider, Field: "provider", Err: errors.Errorf("unsupported provider %q", provider)}
		return err
	}
	err = keyring.Delete(KeyringService, provider)
	if errors.Is(err, keyring.ErrNotFound) {
		err = nil
		return err
	}
	if err != nil {
		err = errors.Wrapf(err, "failed to delete %s key from keyring", provider)
		return err
	}
	return err
}

// MaskSecret hides all but the last four characters of a credential.
func MaskSecret(secret string) (masked string) {
	switch {
	case secret == "":
		masked = "(not set)"
	case len(secret) <= 4:
		masked = "****"
	default:
		masked = "****" + secret[len(secret)-4:]
	}
	return masked
}
