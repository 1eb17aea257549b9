package driven

import (
	"context"
	"errors"

	"github.com/lectern-notes/lectern/internal/domain/model"
)

// ErrNoCredential indicates the user has not configured a generation-service
// API key.
var ErrNoCredential = errors.New("no API key configured")

// CredentialStore defines the driven port for encrypted API key persistence.
// Values at this boundary are ciphertext blobs; encryption and decryption are
// the vault's concern, not the store's.
type CredentialStore interface {
	// Get returns the user's credential record.
	// Returns ErrNoCredential when the user has no stored key.
	Get(ctx context.Context, userID string) (*model.Credential, error)

	// Set stores or replaces the user's encrypted key, marking it valid and
	// recording the verification time.
	Set(ctx context.Context, userID, encryptedKey string) error

	// MarkInvalid flips the validity flag to false. Idempotent; no error if
	// the user has no stored key.
	MarkInvalid(ctx context.Context, userID string) error

	// Delete clears the user's credential record. Idempotent.
	Delete(ctx context.Context, userID string) error
}
