package application

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTranscript(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			"plain vtt cue",
			"WEBVTT\n\n1\n00:00:00.000 --> 00:00:02.000\nHello   world\n",
			"Hello world",
		},
		{
			"multiple cues joined in order",
			"WEBVTT\n\n1\n00:00:00.000 --> 00:00:02.000\nfirst line\n\n2\n00:00:02.000 --> 00:00:04.000\nsecond line\n",
			"first line second line",
		},
		{
			"windows line endings",
			"WEBVTT\r\n\r\n1\r\n00:00:00.000 --> 00:00:02.000\r\nHello world\r\n",
			"Hello world",
		},
		{
			"plain text passes through",
			"already plain   text",
			"already plain text",
		},
		{
			"cue number inside sentence survives",
			"WEBVTT\n\nthe answer is 42\n",
			"the answer is 42",
		},
		{
			"standalone digits dropped",
			"12\nhello\n13\n",
			"hello",
		},
		{
			"only cue machinery",
			"WEBVTT\n\n1\n00:00:00.000 --> 00:00:02.000\n",
			"",
		},
		{
			"empty input",
			"",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTranscript(tt.raw))
		})
	}
}

func TestNormalizeTranscript_Idempotent(t *testing.T) {
	raw := "WEBVTT\n\n1\n00:00:00.000 --> 00:00:02.000\nHello   world\n"
	once := NormalizeTranscript(raw)
	assert.Equal(t, once, NormalizeTranscript(once))
}

func TestFingerprintTranscript_Stable(t *testing.T) {
	a := "WEBVTT\n\n1\n00:00:00.000 --> 00:00:02.000\nHello world\n"
	// Same captions, different cue indices and timestamps.
	b := "WEBVTT\n\n7\n00:01:30.500 --> 00:01:33.000\nHello world\n"

	hashA := FingerprintTranscript(NormalizeTranscript(a))
	hashB := FingerprintTranscript(NormalizeTranscript(b))
	assert.Equal(t, hashA, hashB)

	assert.Len(t, hashA, 64)
	assert.Equal(t, strings.ToLower(hashA), hashA, "digest is lowercase hex")
}

func TestFingerprintTranscript_DiffersOnContent(t *testing.T) {
	assert.NotEqual(t,
		FingerprintTranscript("hello world"),
		FingerprintTranscript("hello worlds"),
	)
}
