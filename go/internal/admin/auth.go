package admin

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcdev12/partyvote/go/internal/apperr"
)

// SecretVerifier checks the shared admin secret against bcrypt hashes.
// Several hashes may be accepted at once so a secret can be rotated
// without downtime.
type SecretVerifier struct {
	hashes [][]byte
}

// NewSecretVerifier builds a verifier from a plain secret and/or a list of
// bcrypt hashes. The plain secret is hashed on startup and never kept.
// With neither configured every check fails.
func NewSecretVerifier(plain string, hashes []string) (*SecretVerifier, error) {
	v := &SecretVerifier{}

	for i, h := range hashes {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if _, err := bcrypt.Cost([]byte(h)); err != nil {
			return nil, fmt.Errorf("admin secret hash %d is not a bcrypt hash: %w", i, err)
		}
		v.hashes = append(v.hashes, []byte(h))
	}

	if plain != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash admin secret: %w", err)
		}
		v.hashes = append(v.hashes, hash)
	}

	if len(v.hashes) == 0 {
		log.Warn().Msg("no admin secret configured, admin operations are disabled")
	}
	return v, nil
}

// Verify returns apperr.ErrUnauthorized unless secret matches one of the
// accepted hashes. The error never says which check failed.
func (v *SecretVerifier) Verify(secret string) error {
	if secret == "" {
		return apperr.ErrUnauthorized
	}
	for _, h := range v.hashes {
		if bcrypt.CompareHashAndPassword(h, []byte(secret)) == nil {
			return nil
		}
	}
	return apperr.ErrUnauthorized
}

// HashSecret produces a bcrypt hash suitable for ADMIN_SECRET_HASHES
func HashSecret(secret string) (string, error) {
	if secret == "" {
		return "", apperr.Invalid("secret cannot be empty", "secret")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(hash), nil
}
