// Package query defines the fully-resolved description of one LLM query.
package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/awhite/quill/pkg/fetch"
	"github.com/awhite/quill/pkg/models"
	"github.com/awhite/quill/pkg/prompt"
)

// Temperature bounds. The canonical range is (0.0, 1.0]; providers with a
// wider native range rescale internally.
const (
	MinTemperature = 0.0
	MaxTemperature = 1.0
)

// DefaultPrompt substitutes for an empty user prompt so the prompt list is
// never empty.
const DefaultPrompt = "hello world"

// ErrInvalidTemperature indicates a temperature outside (0.0, 1.0].
var ErrInvalidTemperature = errors.New("temperature must be in range (0.0, 1.0]")

// Context aggregates everything needed to execute one query: the command, the
// alias-resolved model and its provider, sampling settings, the system prompt
// selected by the command, and the ordered prompt segments to send as user
// turns. A Context is immutable after construction and consumed by exactly
// one client.
type Context struct {
	Command     string
	Model       string
	Provider    string
	Temperature float64
	MaxTokens   int
	Files       []string
	System      string
	Prompts     []string
}

// CreateContext validates the command, model, and temperature, resolves the
// system prompt, reads every file or URL in order, and assembles the prompt
// list. Every validation failure is fatal before any network call to a
// provider.
func CreateContext(command, model string, temperature float64, files []string, promptText string) (*Context, error) {
	system, err := prompt.System(command)
	if err != nil {
		return nil, err
	}

	if model == "" {
		return nil, errors.New("model is required")
	}
	model = models.ResolveAlias(model)

	if temperature <= MinTemperature || temperature > MaxTemperature {
		return nil, fmt.Errorf("%w, got %g", ErrInvalidTemperature, temperature)
	}

	if strings.TrimSpace(promptText) == "" {
		promptText = DefaultPrompt
	}

	prompts := make([]string, 0, len(files)+1)
	prompts = append(prompts, promptText)

	contents, err := fetch.ReadContent(files)
	if err != nil {
		return nil, err
	}
	prompts = append(prompts, contents...)

	// Resolved last so an unrecognized model is reported here and again by
	// the client factory.
	provider, err := models.ProviderName(model)
	if err != nil {
		return nil, err
	}

	return &Context{
		Command:     command,
		Model:       model,
		Provider:    provider,
		Temperature: temperature,
		MaxTokens:   models.MaxTokens(model),
		Files:       files,
		System:      system,
		Prompts:     prompts,
	}, nil
}
