// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("GenerateID() = %q is not a UUID: %v", id, err)
	}

	// Test randomness - two IDs should be different
	if GenerateID() == GenerateID() {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestGenerateDrawID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int // hex encoded length = byteLen * 2
	}{
		{"8 bytes", 8, 16},
		{"16 bytes", 16, 32},
		{"24 bytes", 24, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateDrawID(tt.byteLen)
			if err != nil {
				t.Fatalf("GenerateDrawID() error = %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("GenerateDrawID() length = %d, want %d", len(id), tt.wantLen)
			}
			for _, c := range id {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("GenerateDrawID() contains invalid hex char: %c", c)
				}
			}
		})
	}
}

func TestGenerateAdminKey(t *testing.T) {
	tests := []struct {
		name    string
		groupID string
		salt    string
	}{
		{"standard", "group123", "secret-salt"},
		{"empty group id", "", "salt"},
		{"empty salt", "group456", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := GenerateAdminKey(tt.groupID, tt.salt)

			if key == "" {
				t.Error("GenerateAdminKey() returned empty string")
			}

			// Should be deterministic
			key2 := GenerateAdminKey(tt.groupID, tt.salt)
			if key != key2 {
				t.Error("GenerateAdminKey() is not deterministic")
			}

			if tt.groupID != "" && tt.salt != "" {
				differentKey := GenerateAdminKey(tt.groupID+"x", tt.salt)
				if key == differentKey {
					t.Error("GenerateAdminKey() produced same key for different group IDs")
				}
			}

			if strings.Contains(key, "=") {
				t.Error("GenerateAdminKey() contains padding characters")
			}
		})
	}
}

func TestValidateAdminKey(t *testing.T) {
	groupID := "test-group-123"
	salt := "test-salt"
	validKey := GenerateAdminKey(groupID, salt)

	tests := []struct {
		name     string
		groupID  string
		adminKey string
		salt     string
		wantErr  bool
	}{
		{"valid key", groupID, validKey, salt, false},
		{"wrong key", groupID, "wrong-key", salt, true},
		{"wrong group id", "different-group", validKey, salt, true},
		{"wrong salt", groupID, validKey, "different-salt", true},
		{"empty key", groupID, "", salt, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAdminKey(tt.groupID, tt.adminKey, tt.salt)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAdminKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != ErrInvalidAdminKey {
				t.Errorf("ValidateAdminKey() error = %v, want %v", err, ErrInvalidAdminKey)
			}
		})
	}
}

func TestGenerateMemberToken(t *testing.T) {
	token, err := GenerateMemberToken()
	if err != nil {
		t.Fatalf("GenerateMemberToken() error = %v", err)
	}

	if strings.Contains(token, "=") {
		t.Error("GenerateMemberToken() contains padding characters")
	}

	if len(token) != 32 {
		t.Errorf("GenerateMemberToken() length = %d, want 32", len(token))
	}

	tokens := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GenerateMemberToken()
		if err != nil {
			t.Fatalf("GenerateMemberToken() error on iteration %d: %v", i, err)
		}
		if tokens[token] {
			t.Errorf("GenerateMemberToken() produced duplicate token: %s", token)
		}
		tokens[token] = true
	}
}

func TestValidateMemberToken(t *testing.T) {
	good, _ := GenerateMemberToken()

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"generated", good, false},
		{"empty", "", true},
		{"too short", "abc", true},
		{"not base64", strings.Repeat("!", 32), true},
		{"padded", good + "==", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMemberToken(tt.token)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMemberToken() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateInviteCode(t *testing.T) {
	tests := []struct {
		name    string
		groupID string
		salt    string
	}{
		{"standard", "group-abc-123", "invite-salt"},
		{"different group", "group-xyz-456", "invite-salt"},
		{"different salt", "group-abc-123", "other-salt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := GenerateInviteCode(tt.groupID, tt.salt)

			if code == "" {
				t.Error("GenerateInviteCode() returned empty string")
			}

			if code != GenerateInviteCode(tt.groupID, tt.salt) {
				t.Error("GenerateInviteCode() is not deterministic")
			}

			if len(code) > 15 {
				t.Errorf("GenerateInviteCode() too long: %d chars", len(code))
			}

			for _, c := range code {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
					t.Errorf("GenerateInviteCode() contains non-alphanumeric char: %c", c)
				}
			}
		})
	}

	if GenerateInviteCode("group1", "salt") == GenerateInviteCode("group2", "salt") {
		t.Error("GenerateInviteCode() produced same code for different group IDs")
	}

	if GenerateInviteCode("group1", "salt1") == GenerateInviteCode("group1", "salt2") {
		t.Error("GenerateInviteCode() produced same code for different salts")
	}
}

func TestBase62Encode(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{"zero bytes", []byte{0, 0, 0, 0}, "0"},
		{"small value", []byte{0, 0, 0, 1}, "1"},
		{"sixty two", []byte{0, 0, 0, 62}, "10"},
		{"large value", []byte{255, 255, 255, 255, 255, 255, 255, 255}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := base62Encode(tt.input)

			if result == "" {
				t.Error("base62Encode() returned empty string")
			}
			if tt.want != "" && result != tt.want {
				t.Errorf("base62Encode() = %q, want %q", result, tt.want)
			}

			for _, c := range result {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
					t.Errorf("base62Encode() contains invalid char: %c", c)
				}
			}
		})
	}

	if base62Encode([]byte{1, 2, 3, 4}) == base62Encode([]byte{5, 6, 7, 8}) {
		t.Error("base62Encode() produced same output for different inputs")
	}
}

func BenchmarkGenerateAdminKey(b *testing.B) {
	groupID := "test-group-123"
	salt := "test-salt"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		GenerateAdminKey(groupID, salt)
	}
}

func BenchmarkGenerateInviteCode(b *testing.B) {
	for i := 0; i < b.N; i++ {
		GenerateInviteCode("test-group-123", "invite-salt")
	}
}
