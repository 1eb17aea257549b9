// Package application contains the request-scoped services that orchestrate
// the domain: transcript normalization, note generation, and credential
// management. It depends only on port interfaces and holds no mutable state
// between requests.
package application

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// ErrEmptyTranscript indicates the caption payload contained no spoken text
// after normalization.
var ErrEmptyTranscript = errors.New("transcript contains no caption text")

// webVTT cue-format markers.
const (
	vttHeader     = "WEBVTT"
	vttCueTimeSep = "-->"
)

// NormalizeTranscript converts raw cue-based subtitle text into single-line
// prose: the format header, numeric cue indices, time-range lines, and blank
// lines are dropped; surviving caption lines are joined with single spaces
// and whitespace runs collapsed. Plain text passes through with only the
// whitespace collapsing, so normalization is idempotent.
func NormalizeTranscript(raw string) string {
	var kept []string
	for _, line := range strings.Split(raw, "\n") {
		t := strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if t == "" || t == vttHeader || isDigits(t) || strings.Contains(t, vttCueTimeSep) {
			continue
		}
		kept = append(kept, t)
	}

	return strings.Join(strings.Fields(strings.Join(kept, " ")), " ")
}

// FingerprintTranscript returns the SHA-256 hex digest of the transcript
// text. The digest is an equality key for deduplication; it carries no other
// meaning.
func FingerprintTranscript(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
