package password

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Hasher issues argon2id hashes and verifies both argon2id and bcrypt
// hashes. bcrypt rows come from identity stores seeded before argon2id
// became the default and are verify-only.
type Hasher struct {
	argon *Argon2
	dummy string
}

// New builds a Hasher using cfg for newly issued hashes.
func New(cfg Config) (*Hasher, error) {
	argon, err := NewArgon2(cfg)
	if err != nil {
		return nil, err
	}
	dummy, err := argon.Hash("dummy-password-for-timing")
	if err != nil {
		return nil, err
	}
	return &Hasher{argon: argon, dummy: dummy}, nil
}

// Hash returns a new salted argon2id hash of password.
func (h *Hasher) Hash(password string) (string, error) {
	return h.argon.Hash(password)
}

// Verify reports whether password matches encodedHash. Unknown or malformed
// hash formats return false.
func (h *Hasher) Verify(password, encodedHash string) bool {
	switch {
	case isArgon2Hash(encodedHash):
		return h.argon.Verify(password, encodedHash)
	case isBcryptHash(encodedHash):
		return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)) == nil
	default:
		return false
	}
}

// VerifyDummy burns roughly the cost of one real verification. Login calls it
// for unknown identifiers so response timing does not reveal account existence.
func (h *Hasher) VerifyDummy(password string) {
	_ = h.argon.Verify(password, h.dummy)
}

func isBcryptHash(encodedHash string) bool {
	return strings.HasPrefix(encodedHash, "$2a$") ||
		strings.HasPrefix(encodedHash, "$2b$") ||
		strings.HasPrefix(encodedHash, "$2y$")
}
