package brain

import (
	"context"
	"errors"
)

// ErrMissingCredential is returned when a provider has no API key.
var ErrMissingCredential = errors.New("missing API credential")

// Provider is the interface for generative text services
type Provider interface {
	// Name returns the provider name (e.g., "gemini")
	Name() string

	// Available returns true if the provider is configured and ready
	Available() bool

	// Generate sends a prompt and returns the response
	Generate(ctx context.Context, req Request) (Response, error)
}

// Request is a prompt request to an AI provider
type Request struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int

	// Temperature overrides the model default when non-nil
	Temperature *float64

	// Search enables web search grounding
	Search bool
}

// Response is the AI provider's response
type Response struct {
	Content     string
	Model       string
	RawResponse string // The raw API response body for logging/debugging

	// Grounding lists the web sources the answer was grounded on, in the
	// order the service returned them. Entries may repeat or lack a title.
	Grounding []GroundingChunk
}

// GroundingChunk is one web reference from search grounding
type GroundingChunk struct {
	URI   string
	Title string
}

// Temperature returns a pointer to t for use in Request.
func Temperature(t float64) *float64 {
	return &t
}
