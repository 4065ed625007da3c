package provider

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by all provider clients.
var (
	// ErrEmptyPrompt indicates a query was issued with no prompt segments.
	// It is returned before any network call.
	ErrEmptyPrompt = errors.New("prompt list is empty")

	// ErrResponseParse indicates the provider returned a response with no
	// extractable text content.
	ErrResponseParse = errors.New("no text content in provider response")
)

// APIError is any failure surfaced by a provider endpoint during a query:
// auth rejection, rate limit, malformed request. All provider-side failures
// share this one category, differentiated only by status and message text;
// nothing is retried.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (HTTP %d): %s", e.Provider, e.StatusCode, e.Message)
}
