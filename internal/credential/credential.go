// Package credential stores and verifies password credentials as keyed
// SHA3-256 digests. One process-wide secret keys every hash; the secret is
// injected so it can be fixed in tests.
package credential

import (
	"crypto/subtle"

	"golang.org/x/crypto/sha3"

	"github.com/notelace/notelace-server/internal/model"
)

// Hasher derives and checks password digests.
type Hasher struct {
	secret []byte
}

// NewHasher creates a Hasher keyed with secret.
func NewHasher(secret []byte) *Hasher {
	return &Hasher{secret: secret}
}

// Hash returns the digest of secret ++ password.
func (h *Hasher) Hash(password string) [32]byte {
	d := sha3.New256()
	d.Write(h.secret)
	d.Write([]byte(password))
	var out [32]byte
	copy(out[:], d.Sum(nil))
	return out
}

// Verify checks candidate against a stored digest.
func (h *Hasher) Verify(stored [32]byte, candidate string) error {
	computed := h.Hash(candidate)
	if subtle.ConstantTimeCompare(stored[:], computed[:]) != 1 {
		return model.ErrInvalidCredentials
	}
	return nil
}

// Update re-verifies old before returning the digest of password.
func (h *Hasher) Update(stored [32]byte, old, password string) ([32]byte, error) {
	if err := h.Verify(stored, old); err != nil {
		return [32]byte{}, err
	}
	return h.Hash(password), nil
}
