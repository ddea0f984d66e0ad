package admin

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcdev12/partyvote/go/internal/apperr"
)

func mustHash(t *testing.T, secret string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(h)
}

func TestSecretVerifier(t *testing.T) {
	v, err := NewSecretVerifier("current-secret", []string{mustHash(t, "old-secret"), "  "})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		secret string
		ok     bool
	}{
		{name: "plain secret", secret: "current-secret", ok: true},
		{name: "rotated hash", secret: "old-secret", ok: true},
		{name: "wrong secret", secret: "guess", ok: false},
		{name: "empty secret", secret: "", ok: false},
		{name: "case differs", secret: "Current-Secret", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Verify(tt.secret)
			if tt.ok && err != nil {
				t.Errorf("Verify(%q) = %v, want nil", tt.secret, err)
			}
			if !tt.ok && !errors.Is(err, apperr.ErrUnauthorized) {
				t.Errorf("Verify(%q) = %v, want ErrUnauthorized", tt.secret, err)
			}
		})
	}
}

func TestSecretVerifierWithoutSecrets(t *testing.T) {
	v, err := NewSecretVerifier("", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := v.Verify("anything"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("got %v, want ErrUnauthorized", err)
	}
}

func TestSecretVerifierRejectsBadHash(t *testing.T) {
	if _, err := NewSecretVerifier("", []string{"plaintext-not-a-hash"}); err == nil {
		t.Error("expected an error for a non-bcrypt hash")
	}
}

func TestHashSecret(t *testing.T) {
	hash, err := HashSecret("rotate-me")
	if err != nil {
		t.Fatal(err)
	}
	v, err := NewSecretVerifier("", []string{hash})
	if err != nil {
		t.Fatal(err)
	}
	if err := v.Verify("rotate-me"); err != nil {
		t.Errorf("hash does not verify: %v", err)
	}
	if _, err := HashSecret(""); !apperr.IsValidation(err) {
		t.Errorf("empty secret: got %v, want validation error", err)
	}
}
