// Package provider implements the client abstraction over the supported LLM
// providers.
//
// Each provider client wraps one HTTP endpoint behind a uniform contract:
// construct with credentials from the config resolver, call Query once with a
// fully-built query Context, receive the response text. Clients are fail-fast
// and non-retrying; transport policy beyond a request timeout belongs to the
// HTTP layer.
package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/awhite/quill/pkg/config"
	"github.com/awhite/quill/pkg/models"
	"github.com/awhite/quill/pkg/query"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultMaxTokens = 4096
)

// Client is the uniform contract over the four provider implementations.
// Query sends one query and returns the response text; Close releases any
// held resources and is a no-op for stateless HTTP transports.
type Client interface {
	Query(ctx context.Context, qc *query.Context) (string, error)
	Close() error
}

// New resolves the Context's model to a provider and constructs the matching
// client, reading credentials and endpoint through cfg. The resolved provider
// name is written back onto the Context before dispatch. Construction
// failures (unrecognized model, missing credentials) propagate unchanged;
// there is no fallback provider.
func New(cfg *config.Config, qc *query.Context) (Client, error) {
	providerName, err := models.ProviderName(models.ResolveAlias(qc.Model))
	if err != nil {
		return nil, err
	}
	qc.Provider = providerName

	apiKey, err := cfg.APIKey(providerName)
	if err != nil {
		return nil, err
	}

	switch providerName {
	case models.Anthropic:
		baseURL, err := cfg.BaseURL(providerName)
		if err != nil {
			return nil, err
		}
		return NewAnthropicClient(apiKey, WithAnthropicBaseURL(baseURL)), nil
	case models.OpenAI:
		baseURL, err := cfg.BaseURL(providerName)
		if err != nil {
			return nil, err
		}
		return NewOpenAIClient(apiKey, WithOpenAIBaseURL(baseURL)), nil
	case models.Gemini:
		baseURL, err := cfg.BaseURL(providerName)
		if err != nil {
			return nil, err
		}
		return NewGeminiClient(apiKey, WithGeminiBaseURL(baseURL)), nil
	case models.Llama:
		// Llama endpoints have no public default; the base URL must come
		// from the environment.
		baseURL, err := cfg.BaseURL(providerName)
		if err != nil {
			return nil, err
		}
		return NewLlamaClient(apiKey, baseURL), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerName)
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultTimeout}
}

func maxTokensFor(qc *query.Context) int {
	if qc.MaxTokens > 0 {
		return qc.MaxTokens
	}
	return defaultMaxTokens
}
