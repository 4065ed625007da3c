// Package models maps model identifiers to the providers that serve them.
//
// The tables here are compiled in and immutable: provider identity is a
// property of the model string, never a user-supplied flag, so a query can
// only ever be routed to the provider that actually hosts the model.
package models

import (
	"errors"
	"fmt"
	"sort"
)

// Supported provider identifiers.
const (
	Anthropic = "anthropic"
	Gemini    = "gemini"
	OpenAI    = "openai"
	Llama     = "llama"
)

// MaxTokensDefault is the response token ceiling used when a model has no
// explicit entry in the max-tokens table.
const MaxTokensDefault = 4096

// ErrUnrecognizedModel indicates a model identifier that is not present in
// the registry.
var ErrUnrecognizedModel = errors.New("unrecognized model")

// modelAlias maps convenience names to canonical model identifiers.
var modelAlias = map[string]string{
	"claude-3-7-sonnet": "claude-3-7-sonnet-latest",
	"claude-3-5-sonnet": "claude-3-5-sonnet-latest",
	"claude-3-5-haiku":  "claude-3-5-haiku-latest",
	"claude-3-opus":     "claude-3-opus-latest",
}

// modelToProvider maps canonical model identifiers to their providers. Lookups
// must use alias-resolved names.
var modelToProvider = map[string]string{
	// anthropic models
	"claude-3-7-sonnet-20250219": Anthropic,
	"claude-3-5-sonnet-20241022": Anthropic,
	"claude-3-7-sonnet-latest":   Anthropic,
	"claude-3-5-sonnet-latest":   Anthropic,
	"claude-3-5-haiku-latest":    Anthropic,
	"claude-3-haiku-20240307":    Anthropic,
	"claude-3-opus-latest":       Anthropic,
	"claude-3-opus-20240229":     Anthropic,
	// google gemini models
	"gemini-2.0-flash":              Gemini,
	"gemini-1.5-flash":              Gemini,
	"gemini-1.5-pro":                Gemini,
	"gemini-2.0-flash-thinking-exp": Gemini,
	"gemini-2.5-pro-exp-03-25":      Gemini,
	// openai models
	"gpt-4o":      OpenAI,
	"gpt-4o-mini": OpenAI,
	"gpt-4-turbo": OpenAI,
	// llama models
	"llama3.3-70b": Llama,
}

// modelToMaxTokens maps canonical model identifiers to their response token
// ceilings. Models absent from this table use MaxTokensDefault.
var modelToMaxTokens = map[string]int{
	"claude-3-7-sonnet-latest": MaxTokensDefault,
	"claude-3-5-sonnet-latest": MaxTokensDefault,
	"claude-3-5-haiku-latest":  MaxTokensDefault,
	"claude-3-opus-latest":     4096,
	"gemini-2.0-flash":         MaxTokensDefault,
	"gemini-1.5-flash":         MaxTokensDefault,
	"gemini-1.5-pro":           MaxTokensDefault,
	"gpt-4o":                   4096,
	"gpt-4o-mini":              4096,
	"gpt-4-turbo":              4096,
	"llama3.3-70b":             MaxTokensDefault,
}

// ResolveAlias returns the canonical identifier for a model name, or the
// input unchanged when no alias exists.
func ResolveAlias(model string) string {
	if canonical, ok := modelAlias[model]; ok {
		return canonical
	}
	return model
}

// ProviderName returns the provider serving the given canonical model
// identifier. It returns ErrUnrecognizedModel for models not in the registry.
func ProviderName(model string) (string, error) {
	if provider, ok := modelToProvider[model]; ok {
		return provider, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnrecognizedModel, model)
}

// MaxTokens returns the response token ceiling for a model, defaulting to
// MaxTokensDefault when the model has no explicit entry.
func MaxTokens(model string) int {
	if maxTokens, ok := modelToMaxTokens[ResolveAlias(model)]; ok {
		return maxTokens
	}
	return MaxTokensDefault
}

// ModelProvider pairs a model identifier with the provider serving it.
type ModelProvider struct {
	Model    string
	Provider string
}

// List returns all registered model identifiers in sorted order.
func List() []string {
	out := make([]string, 0, len(modelToProvider))
	for model := range modelToProvider {
		out = append(out, model)
	}
	sort.Strings(out)
	return out
}

// ProviderList returns all model/provider pairs sorted by provider then model.
func ProviderList() []ModelProvider {
	out := make([]ModelProvider, 0, len(modelToProvider))
	for model, provider := range modelToProvider {
		out = append(out, ModelProvider{Model: model, Provider: provider})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Provider != out[j].Provider {
			return out[i].Provider < out[j].Provider
		}
		return out[i].Model < out[j].Model
	})
	return out
}
