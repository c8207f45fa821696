// Package config provides the secret box used to encrypt service
// connection credentials at rest.
package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

// SecretBox encrypts and decrypts opaque configuration blobs with
// AES-256-GCM. Ciphertext format: hex(nonce):hex(tag):hex(body).
type SecretBox struct {
	key []byte
}

// NewSecretBox creates a secret box from the ENCRYPTION_KEY environment
// variable, which must hold 32 bytes hex-encoded.
func NewSecretBox() (*SecretBox, error) {
	keyHex := os.Getenv("ENCRYPTION_KEY")
	if keyHex == "" {
		return nil, fmt.Errorf("ENCRYPTION_KEY is required but not set")
	}
	return NewSecretBoxWithKey(keyHex)
}

// NewSecretBoxWithKey creates a secret box from a hex-encoded 256-bit key.
func NewSecretBoxWithKey(keyHex string) (*SecretBox, error) {
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid ENCRYPTION_KEY: %v", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be 32 bytes, got %d", len(key))
	}
	return &SecretBox{key: key}, nil
}

// Encrypt encrypts plaintext and returns the nonce:tag:body hex encoding.
func (b *SecretBox) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(b.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, []byte(plaintext), nil)
	// GCM appends the 16-byte tag to the ciphertext; split it back out to
	// keep the stored format nonce:tag:body.
	tagStart := len(sealed) - gcm.Overhead()
	body, tag := sealed[:tagStart], sealed[tagStart:]

	return fmt.Sprintf("%s:%s:%s",
		hex.EncodeToString(nonce),
		hex.EncodeToString(tag),
		hex.EncodeToString(body),
	), nil
}

// Decrypt decrypts a nonce:tag:body hex encoding produced by Encrypt.
func (b *SecretBox) Decrypt(ciphertext string) (string, error) {
	parts := strings.Split(ciphertext, ":")
	if len(parts) != 3 {
		return "", fmt.Errorf("malformed ciphertext: expected 3 segments, got %d", len(parts))
	}

	nonce, err := hex.DecodeString(parts[0])
	if err != nil {
		return "", fmt.Errorf("malformed nonce: %v", err)
	}
	tag, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("malformed auth tag: %v", err)
	}
	body, err := hex.DecodeString(parts[2])
	if err != nil {
		return "", fmt.Errorf("malformed ciphertext body: %v", err)
	}

	block, err := aes.NewCipher(b.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}
	if len(nonce) != gcm.NonceSize() {
		return "", fmt.Errorf("malformed nonce: expected %d bytes, got %d", gcm.NonceSize(), len(nonce))
	}

	plaintext, err := gcm.Open(nil, nonce, append(body, tag...), nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}
	return string(plaintext), nil
}
