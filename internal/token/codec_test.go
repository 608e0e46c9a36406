package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestCodec_Roundtrip(t *testing.T) {
	c := NewCodec(testSecret)

	for _, subject := range []string{"alice", "a", "user_with-chars", "", "non-ascii-日本語"} {
		tok := c.Issue(subject, time.Hour)
		got, ok := c.Verify(tok)
		require.True(t, ok, "subject %q", subject)
		assert.Equal(t, subject, got)
	}
}

func TestCodec_Expired(t *testing.T) {
	c := NewCodec(testSecret)

	_, ok := c.Verify(c.Issue("alice", -time.Second))
	assert.False(t, ok)

	_, ok = c.Verify(c.Issue("alice", 0))
	assert.False(t, ok, "expiry equal to now must be rejected")
}

func TestCodec_TamperRejected(t *testing.T) {
	c := NewCodec(testSecret)
	tok := c.Issue("alice", time.Hour)

	for i := range tok {
		flipped := []byte(tok)
		if flipped[i] == 'A' {
			flipped[i] = 'B'
		} else {
			flipped[i] = 'A'
		}
		_, ok := c.Verify(string(flipped))
		assert.False(t, ok, "flipping char %d must invalidate the token", i)
	}
}

func TestCodec_WrongSecret(t *testing.T) {
	c := NewCodec(testSecret)
	other := NewCodec([]byte("another-secret-another-secret-00"))

	_, ok := other.Verify(c.Issue("alice", time.Hour))
	assert.False(t, ok)
}

func TestCodec_TooShort(t *testing.T) {
	c := NewCodec(testSecret)

	for _, tok := range []string{"", "a", strings.Repeat("x", 42)} {
		_, ok := c.Verify(tok)
		assert.False(t, ok, "token %q", tok)
	}

	// Exactly 43 chars carries an empty payload, which cannot hold an expiry.
	tok := c.Issue("alice", time.Hour)
	_, ok := c.Verify(tok[len(tok)-43:])
	assert.False(t, ok)
}

func TestCodec_SignatureLength(t *testing.T) {
	c := NewCodec(testSecret)

	short := c.Issue("", time.Hour)
	long := c.Issue(strings.Repeat("s", 200), time.Hour)

	// Payload of an empty subject is 8 bytes -> 11 base64 chars, plus the
	// fixed 43-char signature.
	assert.Len(t, short, 11+signatureLen)
	assert.True(t, len(long) > len(short))
}

func TestCodec_RootSubject(t *testing.T) {
	c := NewCodec(testSecret)

	got, ok := c.Verify(c.Issue("", 15*time.Minute))
	require.True(t, ok)
	assert.Equal(t, "", got)
}

func TestCodec_ClockBoundary(t *testing.T) {
	c := NewCodec(testSecret)
	base := time.Unix(1_700_000_000, 0)

	c.now = func() time.Time { return base }
	tok := c.Issue("alice", 900*time.Second)

	c.now = func() time.Time { return base.Add(899 * time.Second) }
	_, ok := c.Verify(tok)
	assert.True(t, ok)

	c.now = func() time.Time { return base.Add(900 * time.Second) }
	_, ok = c.Verify(tok)
	assert.False(t, ok, "token must be rejected once expiry <= now")
}
