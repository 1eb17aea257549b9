package driven

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedResponse indicates the generation service returned a success
// status but the response body did not contain generated text at the
// expected field path.
var ErrMalformedResponse = errors.New("unexpected generation service response format")

// GenerationError is a non-success transport response from the generation
// service. Body carries the raw upstream error payload for diagnostics.
type GenerationError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation service error (status %d): %s", e.StatusCode, e.Body)
}

// IsAuthFailure reports whether the upstream failure looks like an
// authentication or authorization rejection of the caller's API key.
func (e *GenerationError) IsAuthFailure() bool {
	if e.StatusCode == 401 || e.StatusCode == 403 {
		return true
	}
	return strings.Contains(e.Body, "API_KEY_INVALID")
}

// Generator defines the driven port for the external generative-text
// service. Implementations perform no persistence or caching; a call either
// yields generated content or a classified error.
type Generator interface {
	// Generate sends the transcript through the fixed lecture-notes prompt
	// and returns the generated HTML with any surrounding markdown code
	// fence stripped. Returns *GenerationError on a non-success transport
	// response and ErrMalformedResponse when the response shape is wrong.
	Generate(ctx context.Context, transcript, apiKey string) (string, error)

	// ValidateKey checks the API key against the service with a minimal
	// prompt. Returns (false, nil) when the service rejects the key.
	ValidateKey(ctx context.Context, apiKey string) (bool, error)
}
