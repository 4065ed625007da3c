package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/awhite/quill/pkg/query"
)

func openaiTestContext() *query.Context {
	return &query.Context{
		Command:     "query",
		Model:       "gpt-4o",
		Provider:    "openai",
		Temperature: 0.5,
		MaxTokens:   4096,
		System:      "You are helpful.",
		Prompts:     []string{"Say 'Hello, World!'"},
	}
}

func openaiTextResponse(text string) openaiResponse {
	return openaiResponse{
		ID:     "chatcmpl-01",
		Object: "chat.completion",
		Choices: []openaiChoice{
			{
				Message:      openaiMessage{Role: "assistant", Content: text},
				FinishReason: "stop",
			},
		},
	}
}

func TestOpenAIQuery_TextResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer test-key")
		}
		if got := r.URL.Path; got != "/chat/completions" {
			t.Errorf("path = %q, want /chat/completions", got)
		}

		var reqBody openaiRequest
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			t.Fatalf("decoding request body: %v", err)
		}
		if reqBody.Model != "gpt-4o" {
			t.Errorf("model = %q, want gpt-4o", reqBody.Model)
		}
		// System prompt rides as the first message.
		if len(reqBody.Messages) != 2 {
			t.Fatalf("messages length = %d, want 2", len(reqBody.Messages))
		}
		if reqBody.Messages[0].Role != "system" || reqBody.Messages[0].Content != "You are helpful." {
			t.Errorf("messages[0] = %+v, want system turn", reqBody.Messages[0])
		}
		if reqBody.Messages[1].Role != "user" {
			t.Errorf("messages[1].role = %q, want user", reqBody.Messages[1].Role)
		}
		// Canonical 0.5 scales onto the native 0-2 range.
		if reqBody.Temperature == nil || *reqBody.Temperature != 1.0 {
			t.Errorf("temperature = %v, want 1.0 (scaled)", reqBody.Temperature)
		}
		if reqBody.MaxTokens == nil || *reqBody.MaxTokens != 4096 {
			t.Errorf("max_tokens = %v, want 4096", reqBody.MaxTokens)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openaiTextResponse("Hello, World!"))
	}))
	defer server.Close()

	c := NewOpenAIClient("test-key", WithOpenAIBaseURL(server.URL))

	got, err := c.Query(context.Background(), openaiTestContext())
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if got != "Hello, World!" {
		t.Errorf("Query() = %q, want %q", got, "Hello, World!")
	}
}

func TestOpenAIQuery_EmptyPrompts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("server was called; empty prompts must fail before any network I/O")
	}))
	defer server.Close()

	qc := openaiTestContext()
	qc.Prompts = []string{}

	c := NewOpenAIClient("test-key", WithOpenAIBaseURL(server.URL))
	_, err := c.Query(context.Background(), qc)
	if !errors.Is(err, ErrEmptyPrompt) {
		t.Errorf("Query() error = %v, want ErrEmptyPrompt", err)
	}
}

func TestOpenAIQuery_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`))
	}))
	defer server.Close()

	c := NewOpenAIClient("test-key", WithOpenAIBaseURL(server.URL))
	_, err := c.Query(context.Background(), openaiTestContext())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Query() error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d, want 429", apiErr.StatusCode)
	}
	if apiErr.Message != "rate limit reached" {
		t.Errorf("Message = %q, want provider message", apiErr.Message)
	}
}

func TestOpenAIQuery_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(openaiResponse{ID: "chatcmpl-02"})
	}))
	defer server.Close()

	c := NewOpenAIClient("test-key", WithOpenAIBaseURL(server.URL))
	_, err := c.Query(context.Background(), openaiTestContext())
	if !errors.Is(err, ErrResponseParse) {
		t.Errorf("Query() error = %v, want ErrResponseParse", err)
	}
}

func TestOpenAIClose_Idempotent(t *testing.T) {
	c := NewOpenAIClient("test-key")
	if err := c.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
}
