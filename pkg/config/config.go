// Package config resolves provider credentials and endpoints.
//
// Each provider client is constructed the same way regardless of provider:
// the factory asks this package for an API key and a base URL. Defaults are
// compiled in; an optional YAML file can override endpoint settings, and
// environment variables always win for base URLs. API keys come only from
// the environment — a missing key is always fatal to client construction.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/awhite/quill/pkg/models"
)

// Sentinel errors for configuration failures. Both are wrapped with the name
// of the offending environment variable.
var (
	ErrMissingCredential = errors.New("missing API credential")
	ErrMissingBaseURL    = errors.New("missing base URL")
)

// Config holds per-provider connection settings.
type Config struct {
	Providers map[string]ProviderConfig `yaml:"providers"`
}

// ProviderConfig describes how to reach one provider.
type ProviderConfig struct {
	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `yaml:"api_key_env"`
	// BaseURLEnv names the environment variable that overrides the endpoint.
	BaseURLEnv string `yaml:"base_url_env"`
	// BaseURL is the default endpoint. Empty means there is no public
	// default and the environment variable is required (the Llama case).
	BaseURL string `yaml:"base_url"`
}

// Default returns the compiled-in configuration for the four supported
// providers.
func Default() *Config {
	return &Config{
		Providers: map[string]ProviderConfig{
			models.Anthropic: {
				APIKeyEnv:  "ANTHROPIC_API_KEY",
				BaseURLEnv: "ANTHROPIC_BASE_URL",
				BaseURL:    "https://api.anthropic.com",
			},
			models.OpenAI: {
				APIKeyEnv:  "OPENAI_API_KEY",
				BaseURLEnv: "OPENAI_BASE_URL",
				BaseURL:    "https://api.openai.com/v1",
			},
			models.Gemini: {
				APIKeyEnv:  "GEMINI_API_KEY",
				BaseURLEnv: "GEMINI_BASE_URL",
				BaseURL:    "https://generativelanguage.googleapis.com",
			},
			models.Llama: {
				APIKeyEnv:  "LLAMA_API_KEY",
				BaseURLEnv: "LLAMA_BASE_URL",
			},
		},
	}
}

// Load reads and parses a YAML config file at the given path. Settings for a
// provider replace that provider's defaults wholesale; providers absent from
// the file keep their defaults. The decoded document is checked against the
// embedded JSON schema before it is applied.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := validateSchema(data); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault loads config from the given path. If the file does not exist,
// it returns the default configuration. Other errors (e.g. parse failures)
// are still returned.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// APIKey reads the API key for the named provider from the environment
// variable configured for it. Absent or empty values are an error; keys are
// never defaulted.
func (c *Config) APIKey(provider string) (string, error) {
	p, ok := c.Providers[provider]
	if !ok {
		return "", fmt.Errorf("provider %q not found in config", provider)
	}
	if p.APIKeyEnv == "" {
		return "", fmt.Errorf("provider %q has no api_key_env configured", provider)
	}
	key := os.Getenv(p.APIKeyEnv)
	if key == "" {
		return "", fmt.Errorf("%s environment variable not set: %w", p.APIKeyEnv, ErrMissingCredential)
	}
	return key, nil
}

// BaseURL returns the endpoint for the named provider. The environment
// override wins when set; otherwise the configured default is used. A
// provider with neither is an error naming the environment variable.
func (c *Config) BaseURL(provider string) (string, error) {
	p, ok := c.Providers[provider]
	if !ok {
		return "", fmt.Errorf("provider %q not found in config", provider)
	}
	if p.BaseURLEnv != "" {
		if url := os.Getenv(p.BaseURLEnv); url != "" {
			return url, nil
		}
	}
	if p.BaseURL != "" {
		return p.BaseURL, nil
	}
	if p.BaseURLEnv == "" {
		return "", fmt.Errorf("provider %q has no base URL configured: %w", provider, ErrMissingBaseURL)
	}
	return "", fmt.Errorf("%s environment variable not set: %w", p.BaseURLEnv, ErrMissingBaseURL)
}

// Validate checks the config for required fields and returns a descriptive
// error if any are missing or invalid.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Providers) == 0 {
		errs = append(errs, errors.New("at least one provider must be configured"))
	}
	for name, p := range c.Providers {
		if p.APIKeyEnv == "" {
			errs = append(errs, fmt.Errorf("provider %q: api_key_env is required", name))
		}
		if p.BaseURL == "" && p.BaseURLEnv == "" {
			errs = append(errs, fmt.Errorf("provider %q: base_url or base_url_env is required", name))
		}
	}

	return errors.Join(errs...)
}
