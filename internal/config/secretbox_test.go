package config

import (
	"strings"
	"testing"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestSecretBox_RoundTrip(t *testing.T) {
	box, err := NewSecretBoxWithKey(testKeyHex)
	if err != nil {
		t.Fatalf("NewSecretBoxWithKey() error = %v", err)
	}

	plaintext := `{"token":"ghp_secret","repos":["acme/api"]}`
	encrypted, err := box.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	if strings.Contains(encrypted, "ghp_secret") {
		t.Error("ciphertext leaks the plaintext")
	}
	if parts := strings.Split(encrypted, ":"); len(parts) != 3 {
		t.Errorf("ciphertext has %d segments, want 3", len(parts))
	}

	decrypted, err := box.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}
	if decrypted != plaintext {
		t.Errorf("Decrypt() = %q, want %q", decrypted, plaintext)
	}
}

func TestSecretBox_NoncesDiffer(t *testing.T) {
	box, _ := NewSecretBoxWithKey(testKeyHex)
	a, _ := box.Encrypt("same input")
	b, _ := box.Encrypt("same input")
	if a == b {
		t.Error("two encryptions of the same plaintext produced identical ciphertext")
	}
}

func TestSecretBox_TamperDetection(t *testing.T) {
	box, _ := NewSecretBoxWithKey(testKeyHex)
	encrypted, err := box.Encrypt("sensitive")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	parts := strings.Split(encrypted, ":")
	// Flip one hex digit in the body segment.
	body := []byte(parts[2])
	if body[0] == 'f' {
		body[0] = '0'
	} else {
		body[0] = 'f'
	}
	tampered := parts[0] + ":" + parts[1] + ":" + string(body)

	if _, err := box.Decrypt(tampered); err == nil {
		t.Error("Decrypt() accepted tampered ciphertext")
	}
}

func TestSecretBox_WrongKey(t *testing.T) {
	box, _ := NewSecretBoxWithKey(testKeyHex)
	encrypted, _ := box.Encrypt("sensitive")

	other, _ := NewSecretBoxWithKey("ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")
	if _, err := other.Decrypt(encrypted); err == nil {
		t.Error("Decrypt() succeeded with the wrong key")
	}
}

func TestNewSecretBoxWithKey_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		keyHex string
	}{
		{"empty", ""},
		{"not hex", "zznothexzz"},
		{"too short", "00010203"},
		{"too long", testKeyHex + "00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSecretBoxWithKey(tt.keyHex); err == nil {
				t.Errorf("NewSecretBoxWithKey(%q) expected error", tt.keyHex)
			}
		})
	}
}

func TestSecretBox_DecryptMalformed(t *testing.T) {
	box, _ := NewSecretBoxWithKey(testKeyHex)
	tests := []struct {
		name       string
		ciphertext string
	}{
		{"no separators", "deadbeef"},
		{"two segments", "dead:beef"},
		{"non-hex segment", "zz:beef:beef"},
		{"short nonce", "dead:beef:beef"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := box.Decrypt(tt.ciphertext); err == nil {
				t.Errorf("Decrypt(%q) expected error", tt.ciphertext)
			}
		})
	}
}

func TestNewSecretBox_FromEnv(t *testing.T) {
	t.Setenv("ENCRYPTION_KEY", testKeyHex)
	if _, err := NewSecretBox(); err != nil {
		t.Fatalf("NewSecretBox() error = %v", err)
	}

	t.Setenv("ENCRYPTION_KEY", "")
	if _, err := NewSecretBox(); err == nil {
		t.Error("NewSecretBox() expected error when ENCRYPTION_KEY is unset")
	}
}
