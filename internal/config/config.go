// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"
)

// DefaultGeminiBaseURL is the production generation endpoint.
const DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash-lite:generateContent"

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr        string
	DBPath            string
	EncryptionKey     []byte // 32-byte vault key for API key encryption at rest.
	SessionSecret     []byte // HMAC secret for verifying session tokens.
	GeminiBaseURL     string
	GenerationTimeout time.Duration
}

// Load reads configuration from environment variables and returns a validated
// Config. LECTERN_ENCRYPTION_KEY (64 hex chars) and LECTERN_SESSION_SECRET are
// required; a missing or malformed encryption key is a startup failure, never
// a per-request one. Optional variables with defaults:
// LECTERN_LISTEN_ADDR (127.0.0.1:8080), LECTERN_DB_PATH (lectern.db),
// LECTERN_GEMINI_BASE_URL, LECTERN_GENERATION_TIMEOUT (90s).
func Load() (*Config, error) {
	keyHex := os.Getenv("LECTERN_ENCRYPTION_KEY")
	if keyHex == "" {
		return nil, fmt.Errorf("LECTERN_ENCRYPTION_KEY is required (64 hex characters)")
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("LECTERN_ENCRYPTION_KEY is not valid hex: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("LECTERN_ENCRYPTION_KEY must decode to 32 bytes, got %d", len(key))
	}

	sessionSecret := os.Getenv("LECTERN_SESSION_SECRET")
	if sessionSecret == "" {
		return nil, fmt.Errorf("LECTERN_SESSION_SECRET is required")
	}

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("LECTERN_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "lectern.db"
	if v, ok := os.LookupEnv("LECTERN_DB_PATH"); ok {
		dbPath = v
	}

	geminiBaseURL := DefaultGeminiBaseURL
	if v, ok := os.LookupEnv("LECTERN_GEMINI_BASE_URL"); ok && v != "" {
		geminiBaseURL = v
	}

	generationTimeout := 90 * time.Second
	if v, ok := os.LookupEnv("LECTERN_GENERATION_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("LECTERN_GENERATION_TIMEOUT has invalid duration %q: %w", v, err)
		}
		generationTimeout = parsed
	}

	return &Config{
		ListenAddr:        listenAddr,
		DBPath:            dbPath,
		EncryptionKey:     key,
		SessionSecret:     []byte(sessionSecret),
		GeminiBaseURL:     geminiBaseURL,
		GenerationTimeout: generationTimeout,
	}, nil
}
