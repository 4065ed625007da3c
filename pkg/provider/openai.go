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

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// openaiTemperatureScale maps the canonical (0, 1.0] temperature onto the
// Chat Completions native 0-2 range.
const openaiTemperatureScale = 2.0

// OpenAIOption configures an OpenAIClient.
type OpenAIOption func(*OpenAIClient)

// WithOpenAIHTTPClient sets a custom HTTP client (useful for testing).
func WithOpenAIHTTPClient(c *http.Client) OpenAIOption {
	return func(o *OpenAIClient) { o.client = c }
}

// WithOpenAIBaseURL overrides the OpenAI API base URL.
func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(o *OpenAIClient) { o.baseURL = strings.TrimRight(url, "/") }
}

// OpenAIClient implements Client for the OpenAI Chat Completions API.
type OpenAIClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ Client = (*OpenAIClient)(nil)

// NewOpenAIClient creates a new OpenAI client with the given API key.
func NewOpenAIClient(apiKey string, opts ...OpenAIOption) *OpenAIClient {
	o := &OpenAIClient{
		apiKey:  apiKey,
		baseURL: defaultOpenAIBaseURL,
		client:  newHTTPClient(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// openaiRequest is the Chat Completions API request body. It is shared with
// the Llama client, which speaks the same wire format.
type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	Temperature *float64        `json:"temperature,omitempty"`
	MaxTokens   *int            `json:"max_tokens,omitempty"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openaiResponse is the Chat Completions API response body.
type openaiResponse struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"`
	Choices []openaiChoice `json:"choices"`
}

type openaiChoice struct {
	Index        int           `json:"index"`
	Message      openaiMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type openaiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Query sends one request to the Chat Completions API and returns the
// response text.
func (o *OpenAIClient) Query(ctx context.Context, qc *query.Context) (string, error) {
	return chatCompletionsQuery(ctx, o.client, models.OpenAI, o.baseURL, o.apiKey, qc)
}

// Close releases resources held by the client; a no-op for stateless HTTP.
func (o *OpenAIClient) Close() error { return nil }

// chatCompletionsQuery implements the OpenAI-compatible chat completions
// exchange shared by the OpenAI and Llama clients.
func chatCompletionsQuery(ctx context.Context, client *http.Client, providerName, baseURL, apiKey string, qc *query.Context) (string, error) {
	if len(qc.Prompts) == 0 {
		return "", ErrEmptyPrompt
	}

	or := openaiRequest{Model: qc.Model}
	if qc.System != "" {
		or.Messages = append(or.Messages, openaiMessage{Role: "system", Content: qc.System})
	}
	for _, p := range qc.Prompts {
		or.Messages = append(or.Messages, openaiMessage{Role: "user", Content: p})
	}
	if qc.Temperature != 0 {
		t := qc.Temperature * openaiTemperatureScale
		or.Temperature = &t
	}
	if m := maxTokensFor(qc); m > 0 {
		or.MaxTokens = &m
	}

	body, err := json.Marshal(or)
	if err != nil {
		return "", fmt.Errorf("building %s request body: %w", providerName, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating %s request: %w", providerName, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	httpResp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%s request failed: %w", providerName, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("reading %s response: %w", providerName, err)
	}

	if httpResp.StatusCode != http.StatusOK {
		msg := string(respBody)
		var apiErr openaiErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		return "", &APIError{Provider: providerName, StatusCode: httpResp.StatusCode, Message: msg}
	}

	var resp openaiResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("decoding %s response: %w", providerName, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%s: %w", providerName, ErrResponseParse)
	}
	return resp.Choices[0].Message.Content, nil
}
