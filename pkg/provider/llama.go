package provider

import (
	"context"
	"net/http"
	"strings"

	"github.com/awhite/quill/pkg/models"
	"github.com/awhite/quill/pkg/query"
)

// LlamaOption configures a LlamaClient.
type LlamaOption func(*LlamaClient)

// WithLlamaHTTPClient sets a custom HTTP client (useful for testing).
func WithLlamaHTTPClient(c *http.Client) LlamaOption {
	return func(l *LlamaClient) { l.client = c }
}

// LlamaClient implements Client for Llama models served through an
// OpenAI-compatible endpoint. It speaks the Chat Completions wire format and
// shares the OpenAI temperature scaling. There is no default endpoint: the
// base URL is a required constructor argument.
type LlamaClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ Client = (*LlamaClient)(nil)

// NewLlamaClient creates a new Llama client for the given API key and
// endpoint.
func NewLlamaClient(apiKey, baseURL string, opts ...LlamaOption) *LlamaClient {
	l := &LlamaClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Query sends one request to the OpenAI-compatible endpoint and returns the
// response text.
func (l *LlamaClient) Query(ctx context.Context, qc *query.Context) (string, error) {
	return chatCompletionsQuery(ctx, l.client, models.Llama, l.baseURL, l.apiKey, qc)
}

// Close releases resources held by the client; a no-op for stateless HTTP.
func (l *LlamaClient) Close() error { return nil }
