package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lectern-notes/lectern/internal/crypto"
	"github.com/lectern-notes/lectern/internal/domain/port/driven"
)

// MinAPIKeyLength is the shortest plausible generation-service API key.
const MinAPIKeyLength = 20

var (
	// ErrKeyTooShort indicates the submitted key fails the basic format check.
	ErrKeyTooShort = errors.New("invalid API key format")

	// ErrKeyRejected indicates the generation service refused the key during
	// synchronous validation.
	ErrKeyRejected = errors.New("API key was rejected by the generation service")
)

// KeyStatus describes a user's stored credential without exposing the key.
type KeyStatus struct {
	HasKey       bool
	IsValid      bool
	LastVerified time.Time
}

// CredentialService manages a user's generation-service API key: validated
// upstream before storage, encrypted at rest, and never returned to callers.
type CredentialService struct {
	creds     driven.CredentialStore
	vault     *crypto.Vault
	generator driven.Generator
	logger    *slog.Logger
}

// NewCredentialService creates a CredentialService with the required dependencies.
func NewCredentialService(
	creds driven.CredentialStore,
	vault *crypto.Vault,
	generator driven.Generator,
	logger *slog.Logger,
) *CredentialService {
	return &CredentialService{
		creds:     creds,
		vault:     vault,
		generator: generator,
		logger:    logger,
	}
}

// SetKey validates the key against the generation service, then encrypts and
// stores it, superseding any previous key.
func (s *CredentialService) SetKey(ctx context.Context, userID, apiKey string) error {
	if len(apiKey) < MinAPIKeyLength {
		return ErrKeyTooShort
	}

	ok, err := s.generator.ValidateKey(ctx, apiKey)
	if err != nil {
		return err
	}
	if !ok {
		return ErrKeyRejected
	}

	encrypted, err := s.vault.Encrypt(apiKey)
	if err != nil {
		return err
	}

	if err := s.creds.Set(ctx, userID, encrypted); err != nil {
		return err
	}

	s.logger.Info("api key stored", "user_id", userID)
	return nil
}

// DeleteKey clears the user's stored credential. Idempotent.
func (s *CredentialService) DeleteKey(ctx context.Context, userID string) error {
	return s.creds.Delete(ctx, userID)
}

// Status reports whether a key is stored and whether it was valid at last
// contact with the generation service. A user with no key gets a zero status,
// not an error.
func (s *CredentialService) Status(ctx context.Context, userID string) (KeyStatus, error) {
	cred, err := s.creds.Get(ctx, userID)
	if errors.Is(err, driven.ErrNoCredential) {
		return KeyStatus{}, nil
	}
	if err != nil {
		return KeyStatus{}, err
	}

	return KeyStatus{
		HasKey:       cred.HasKey(),
		IsValid:      cred.IsValid,
		LastVerified: cred.LastVerified,
	}, nil
}
