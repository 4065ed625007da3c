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

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

// GeminiOption configures a GeminiClient.
type GeminiOption func(*GeminiClient)

// WithGeminiHTTPClient sets a custom HTTP client (useful for testing).
func WithGeminiHTTPClient(c *http.Client) GeminiOption {
	return func(g *GeminiClient) { g.client = c }
}

// WithGeminiBaseURL overrides the Gemini API base URL.
func WithGeminiBaseURL(url string) GeminiOption {
	return func(g *GeminiClient) { g.baseURL = strings.TrimRight(url, "/") }
}

// GeminiClient implements Client for the Gemini generateContent API. The
// canonical (0, 1.0] temperature range is passed through unscaled.
type GeminiClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ Client = (*GeminiClient)(nil)

// NewGeminiClient creates a new Gemini client with the given API key.
func NewGeminiClient(apiKey string, opts ...GeminiOption) *GeminiClient {
	g := &GeminiClient{
		apiKey:  apiKey,
		baseURL: defaultGeminiBaseURL,
		client:  newHTTPClient(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// geminiRequest is the generateContent API request body.
type geminiRequest struct {
	SystemInstruction *geminiContent   `json:"systemInstruction,omitempty"`
	Contents          []geminiContent  `json:"contents"`
	GenerationConfig  *geminiGenConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiGenConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

// geminiResponse is the generateContent API response body.
type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Query sends one request to the generateContent API and returns the response
// text.
func (g *GeminiClient) Query(ctx context.Context, qc *query.Context) (string, error) {
	if len(qc.Prompts) == 0 {
		return "", ErrEmptyPrompt
	}

	body, err := g.buildRequestBody(qc)
	if err != nil {
		return "", fmt.Errorf("building gemini request body: %w", err)
	}

	// The key travels in a header, never in the URL: transport errors quote
	// the URL and must not expose the credential.
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, qc.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating gemini request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", g.apiKey)

	httpResp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("reading gemini response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		msg := string(respBody)
		var apiErr geminiErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		return "", &APIError{Provider: models.Gemini, StatusCode: httpResp.StatusCode, Message: msg}
	}

	var gr geminiResponse
	if err := json.Unmarshal(respBody, &gr); err != nil {
		return "", fmt.Errorf("decoding gemini response: %w", err)
	}

	var text strings.Builder
	for _, candidate := range gr.Candidates {
		for _, part := range candidate.Content.Parts {
			text.WriteString(part.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("gemini: %w", ErrResponseParse)
	}
	return text.String(), nil
}

func (g *GeminiClient) buildRequestBody(qc *query.Context) ([]byte, error) {
	gr := geminiRequest{
		GenerationConfig: &geminiGenConfig{MaxOutputTokens: maxTokensFor(qc)},
	}

	if qc.System != "" {
		gr.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: qc.System}}}
	}
	for _, p := range qc.Prompts {
		gr.Contents = append(gr.Contents, geminiContent{
			Role:  "user",
			Parts: []geminiPart{{Text: p}},
		})
	}
	if qc.Temperature != 0 {
		t := qc.Temperature
		gr.GenerationConfig.Temperature = &t
	}

	return json.Marshal(gr)
}

// Close releases resources held by the client; a no-op for stateless HTTP.
func (g *GeminiClient) Close() error { return nil }
