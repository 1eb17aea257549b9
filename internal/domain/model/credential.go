package model

import "time"

// Credential is a user's generation-service API key record. EncryptedKey
// holds the AES-GCM ciphertext blob; the plaintext key is never persisted.
// IsValid is a cached assertion refreshed on explicit validation and
// flipped to false when the generation service rejects the key.
type Credential struct {
	UserID       string
	EncryptedKey string
	IsValid      bool
	LastVerified time.Time // Zero when the key has never been verified.
	UpdatedAt    time.Time
}

// HasKey reports whether a ciphertext blob is stored for the user.
func (c Credential) HasKey() bool {
	return c.EncryptedKey != ""
}
