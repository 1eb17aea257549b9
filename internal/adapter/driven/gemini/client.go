// Package gemini implements the Generator port against the Gemini
// generateContent REST endpoint.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/lectern-notes/lectern/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Generator = (*Client)(nil)

// Client calls the Gemini generateContent endpoint with the caller's own API
// key. It performs no persistence or caching; every call is a fresh upstream
// request with a bounded timeout and no retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a Client for the given generateContent URL. The timeout
// bounds each upstream call; the service is untrusted and may hang.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	TopK            int     `json:"topK,omitempty"`
	TopP            float64 `json:"topP,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateRequest struct {
	SystemInstruction *content         `json:"system_instruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends the transcript through the fixed lecture-notes prompt and
// returns the generated HTML with any surrounding markdown code fence
// stripped. Non-success responses come back as *driven.GenerationError;
// success responses missing the candidate text path yield
// driven.ErrMalformedResponse.
func (c *Client) Generate(ctx context.Context, transcript, apiKey string) (string, error) {
	userPrompt := fmt.Sprintf("Apply the rules to the following transcript:\n\n[BEGIN TRANSCRIPT]\n%s\n[END TRANSCRIPT]", transcript)

	req := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: systemInstruction}}},
		Contents:          []content{{Parts: []part{{Text: userPrompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     0.4,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 8192,
		},
	}

	text, err := c.call(ctx, req, apiKey)
	if err != nil {
		return "", err
	}

	return stripCodeFence(text), nil
}

// ValidateKey checks the API key with a minimal prompt. A non-success
// response means the key was rejected; transport failures are returned as
// errors so callers can distinguish "bad key" from "service unreachable".
func (c *Client) ValidateKey(ctx context.Context, apiKey string) (bool, error) {
	req := generateRequest{
		Contents:         []content{{Parts: []part{{Text: `Say "ok"`}}}},
		GenerationConfig: generationConfig{MaxOutputTokens: 10},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return false, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.post(ctx, body, apiKey)
	if err != nil {
		return false, &driven.GenerationError{StatusCode: 0, Body: err.Error()}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}

func (c *Client) call(ctx context.Context, req generateRequest, apiKey string) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.post(ctx, body, apiKey)
	if err != nil {
		// Transport failures (timeouts included) carry no upstream status;
		// surface them in the same error class as HTTP failures.
		return "", &driven.GenerationError{StatusCode: 0, Body: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &driven.GenerationError{StatusCode: resp.StatusCode, Body: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &driven.GenerationError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", driven.ErrMalformedResponse
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 ||
		parsed.Candidates[0].Content.Parts[0].Text == "" {
		return "", driven.ErrMalformedResponse
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

func (c *Client) post(ctx context.Context, body []byte, apiKey string) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	// The key travels in a header, never the URL: transport errors quote the
	// full request URL and would otherwise leak it into logs.
	httpReq.Header.Set("x-goog-api-key", apiKey)

	return c.httpClient.Do(httpReq)
}

var (
	fencePrefix = regexp.MustCompile(`(?i)^` + "```" + `html\s*`)
	fenceSuffix = regexp.MustCompile(`\s*` + "```" + `$`)
)

// stripCodeFence removes a markdown code fence wrapping the generated text.
// Strict prefix/suffix trim only; anything inside the fence is untouched.
func stripCodeFence(s string) string {
	s = fencePrefix.ReplaceAllString(s, "")
	s = fenceSuffix.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
