package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lectern-notes/lectern/internal/domain/model"
	"github.com/lectern-notes/lectern/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialStore = (*CredentialRepo)(nil)

// CredentialRepo is the SQLite implementation of the CredentialStore port
// interface. It stores only ciphertext blobs; the vault owns encryption, so
// a plaintext API key never reaches this layer.
type CredentialRepo struct {
	db *DB
}

// NewCredentialRepo creates a new CredentialRepo backed by the given DB.
func NewCredentialRepo(db *DB) *CredentialRepo {
	return &CredentialRepo{db: db}
}

// Get returns the user's credential record, or driven.ErrNoCredential when
// no key is stored.
func (r *CredentialRepo) Get(ctx context.Context, userID string) (*model.Credential, error) {
	const query = `SELECT user_id, encrypted_key, is_valid, last_verified, updated_at FROM api_credentials WHERE user_id = ?`

	var cred model.Credential
	var isValid int
	var lastVerified sql.NullString
	var updatedAt string

	err := r.db.Reader.QueryRowContext(ctx, query, userID).Scan(
		&cred.UserID, &cred.EncryptedKey, &isValid, &lastVerified, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, driven.ErrNoCredential
	}
	if err != nil {
		return nil, fmt.Errorf("get credential for user %s: %w", userID, err)
	}

	cred.IsValid = isValid != 0

	if lastVerified.Valid {
		cred.LastVerified, err = parseTime(lastVerified.String)
		if err != nil {
			return nil, fmt.Errorf("parse last_verified: %w", err)
		}
	}
	cred.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &cred, nil
}

// Set stores or replaces the user's encrypted key, marking it valid and
// stamping the verification time.
func (r *CredentialRepo) Set(ctx context.Context, userID, encryptedKey string) error {
	const query = `
		INSERT INTO api_credentials (user_id, encrypted_key, is_valid, last_verified, updated_at)
		VALUES (?, ?, 1, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			encrypted_key = excluded.encrypted_key,
			is_valid = 1,
			last_verified = excluded.last_verified,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := r.db.Writer.ExecContext(ctx, query, userID, encryptedKey, now, now)
	if err != nil {
		return fmt.Errorf("set credential for user %s: %w", userID, err)
	}

	return nil
}

// MarkInvalid flips the validity flag to false. Idempotent: no rows affected
// is not an error.
func (r *CredentialRepo) MarkInvalid(ctx context.Context, userID string) error {
	const query = `UPDATE api_credentials SET is_valid = 0, updated_at = ? WHERE user_id = ?`

	_, err := r.db.Writer.ExecContext(ctx, query, time.Now().UTC().Format(time.RFC3339), userID)
	if err != nil {
		return fmt.Errorf("mark credential invalid for user %s: %w", userID, err)
	}

	return nil
}

// Delete clears the user's credential record. Idempotent.
func (r *CredentialRepo) Delete(ctx context.Context, userID string) error {
	const query = `DELETE FROM api_credentials WHERE user_id = ?`

	_, err := r.db.Writer.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("delete credential for user %s: %w", userID, err)
	}

	return nil
}
