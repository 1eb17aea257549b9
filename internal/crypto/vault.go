// Package crypto provides the symmetric vault used to protect user API keys
// at rest.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// KeySize is the required vault key length (AES-256).
const KeySize = 32

// ErrDecryptionFailed indicates a ciphertext blob could not be decrypted:
// it is malformed, was tampered with, or was produced under a different key.
// Callers must treat this as a distinct condition, not as a missing secret.
var ErrDecryptionFailed = errors.New("decryption failed")

// Vault encrypts and decrypts secrets with AES-256-GCM under a single
// process-wide key. Blobs are base64-encoded nonce || ciphertext || tag.
type Vault struct {
	aead cipher.AEAD
}

// NewVault creates a Vault from a 32-byte key.
func NewVault(key []byte) (*Vault, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("vault key must be %d bytes, got %d", KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}

	return &Vault{aead: aead}, nil
}

// Encrypt seals plaintext and returns a base64-encoded blob with the random
// nonce prepended.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, v.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}

	sealed := v.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a blob produced by Encrypt. Any malformed, truncated, or
// foreign blob yields ErrDecryptionFailed.
func (v *Vault) Decrypt(blob string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}

	nonceSize := v.aead.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("%w: ciphertext too short", ErrDecryptionFailed)
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := v.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}

	return string(plaintext), nil
}
