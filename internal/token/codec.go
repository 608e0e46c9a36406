// Package token issues and verifies compact stateless bearer tokens.
//
// A token is payload_b64 ++ signature_b64 with no separator. The payload is
// the subject bytes followed by the 8-byte little-endian Unix expiry, encoded
// as unpadded URL-safe base64. The signature is SHA3-256 over the secret
// prepended to the encoded payload. The same format serves session cookies
// and invite capabilities; the server keeps no per-token state.
package token

import (
	"crypto/subtle"
	"encoding/base64"
	"encoding/binary"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/sha3"
)

// signatureLen is the length of an unpadded base64 SHA3-256 digest.
const signatureLen = 43

// Codec signs and verifies tokens with a fixed secret. The secret is
// injected at construction so tests can issue deterministic tokens.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec creates a Codec signing with the given secret.
func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret, now: time.Now}
}

// Issue creates a token binding subject to an expiry of now+ttl. A zero or
// negative ttl deliberately produces an already-expired token; sign-out is
// implemented that way. The empty subject denotes a root invite.
func (c *Codec) Issue(subject string, ttl time.Duration) string {
	exp := c.now().Add(ttl).Unix()

	raw := make([]byte, 0, len(subject)+8)
	raw = append(raw, subject...)
	raw = binary.LittleEndian.AppendUint64(raw, uint64(exp))

	payload := base64.RawURLEncoding.EncodeToString(raw)
	return payload + c.sign(payload)
}

// Verify checks the signature and expiry of token and returns its subject.
// It returns false for anything malformed, forged, or expired.
func (c *Codec) Verify(token string) (string, bool) {
	if len(token) < signatureLen {
		return "", false
	}
	payload, sig := token[:len(token)-signatureLen], token[len(token)-signatureLen:]
	if subtle.ConstantTimeCompare([]byte(c.sign(payload)), []byte(sig)) != 1 {
		return "", false
	}

	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil || len(raw) < 8 {
		return "", false
	}
	sub, expBytes := raw[:len(raw)-8], raw[len(raw)-8:]
	if !utf8.Valid(sub) {
		return "", false
	}
	if exp := int64(binary.LittleEndian.Uint64(expBytes)); exp <= c.now().Unix() {
		return "", false
	}
	return string(sub), true
}

func (c *Codec) sign(payload string) string {
	h := sha3.New256()
	h.Write(c.secret)
	h.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
