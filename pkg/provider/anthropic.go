package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/awhite/quill/pkg/models"
	"github.com/awhite/quill/pkg/query"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"
)

// AnthropicOption configures an AnthropicClient.
type AnthropicOption func(*AnthropicClient)

// WithAnthropicHTTPClient sets a custom HTTP client (useful for testing).
func WithAnthropicHTTPClient(c *http.Client) AnthropicOption {
	return func(a *AnthropicClient) { a.client = c }
}

// WithAnthropicBaseURL overrides the Anthropic API base URL.
func WithAnthropicBaseURL(url string) AnthropicOption {
	return func(a *AnthropicClient) { a.baseURL = strings.TrimRight(url, "/") }
}

// AnthropicClient implements Client for the Anthropic Messages API.
// Anthropic's native temperature range matches the canonical (0, 1.0] range,
// so values pass through unscaled.
type AnthropicClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ Client = (*AnthropicClient)(nil)

// NewAnthropicClient creates a new Anthropic client with the given API key.
func NewAnthropicClient(apiKey string, opts ...AnthropicOption) *AnthropicClient {
	a := &AnthropicClient{
		apiKey:  apiKey,
		baseURL: defaultAnthropicBaseURL,
		client:  newHTTPClient(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// anthropicRequest is the Anthropic Messages API request body.
type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature *float64           `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicResponse is the Anthropic Messages API response body.
type anthropicResponse struct {
	ID         string                  `json:"id"`
	Type       string                  `json:"type"`
	Role       string                  `json:"role"`
	Content    []anthropicContentBlock `json:"content"`
	StopReason string                  `json:"stop_reason"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type anthropicErrorResponse struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Query sends one request to the Anthropic Messages API and returns the
// response text.
func (a *AnthropicClient) Query(ctx context.Context, qc *query.Context) (string, error) {
	if len(qc.Prompts) == 0 {
		return "", ErrEmptyPrompt
	}

	body, err := a.buildRequestBody(qc)
	if err != nil {
		return "", fmt.Errorf("building anthropic request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating anthropic request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", a.apiKey)
	httpReq.Header.Set("Anthropic-Version", anthropicVersion)

	httpResp, err := a.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("reading anthropic response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		msg := string(respBody)
		var apiErr anthropicErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		return "", &APIError{Provider: models.Anthropic, StatusCode: httpResp.StatusCode, Message: msg}
	}

	var ar anthropicResponse
	if err := json.Unmarshal(respBody, &ar); err != nil {
		return "", fmt.Errorf("decoding anthropic response: %w", err)
	}

	var text strings.Builder
	for _, block := range ar.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("anthropic: %w", ErrResponseParse)
	}
	return text.String(), nil
}

func (a *AnthropicClient) buildRequestBody(qc *query.Context) ([]byte, error) {
	ar := anthropicRequest{
		Model:     qc.Model,
		MaxTokens: maxTokensFor(qc),
		System:    qc.System,
	}

	for _, p := range qc.Prompts {
		ar.Messages = append(ar.Messages, anthropicMessage{Role: "user", Content: p})
	}

	if qc.Temperature != 0 {
		t := qc.Temperature
		ar.Temperature = &t
	}

	return json.Marshal(ar)
}

// Close releases resources held by the client. The transport is stateless
// HTTP, so there is nothing to release.
func (a *AnthropicClient) Close() error { return nil }
