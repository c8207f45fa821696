package config

import (
	"testing"
)

func TestNewPasswordConfig(t *testing.T) {
	tests := []struct {
		name     string
		cost     string
		wantCost int
		wantErr  bool
	}{
		{"default cost", "", 12, false},
		{"valid cost", "10", 10, false},
		{"upper bound", "14", 14, false},
		{"cost too low", "9", 0, true},
		{"cost too high", "15", 0, true},
		{"invalid cost", "abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BCRYPT_COST", tt.cost)

			cfg, err := NewPasswordConfig()
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewPasswordConfig() expected error for BCRYPT_COST=%q", tt.cost)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewPasswordConfig() error = %v", err)
			}
			if cfg.BcryptCost != tt.wantCost {
				t.Errorf("BcryptCost = %d, want %d", cfg.BcryptCost, tt.wantCost)
			}
		})
	}
}

func TestPasswordConfig_HashAndVerify(t *testing.T) {
	t.Setenv("BCRYPT_COST", "10")
	cfg, err := NewPasswordConfig()
	if err != nil {
		t.Fatalf("NewPasswordConfig() error = %v", err)
	}

	hash, err := cfg.HashPassword("s3cure-pass")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "s3cure-pass" {
		t.Error("HashPassword() returned the plaintext")
	}

	if !cfg.VerifyPassword("s3cure-pass", hash) {
		t.Error("VerifyPassword() rejected the correct password")
	}
	if cfg.VerifyPassword("wrong-pass", hash) {
		t.Error("VerifyPassword() accepted the wrong password")
	}
}
