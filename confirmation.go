package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/goliatone/go-errors"
)

// ConfirmationToken is a freshly generated one-time token. The Plain
// value goes out-of-band to the principal and is never persisted; only
// Hash and ExpiresAt are stored on the principal record.
type ConfirmationToken struct {
	Plain     string
	Hash      string
	ExpiresAt time.Time
}

// ConfirmationTokens generates one-time hashed confirmation tokens for
// email verification and similar flows.
type ConfirmationTokens struct {
	ttl   time.Duration
	clock Clock
}

// NewConfirmationTokens creates a manager with the given validity window
func NewConfirmationTokens(ttl time.Duration) *ConfirmationTokens {
	return &ConfirmationTokens{
		ttl:   ttl,
		clock: time.Now,
	}
}

// WithClock overrides the time source
func (c *ConfirmationTokens) WithClock(clock Clock) *ConfirmationTokens {
	if clock != nil {
		c.clock = clock
	}
	return c
}

// Generate returns a new token pair. Each call invalidates whatever
// token the caller previously stored for the principal, since only one
// digest column exists on the record.
func (c *ConfirmationTokens) Generate() (*ConfirmationToken, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to generate confirmation token")
	}

	plain := hex.EncodeToString(buf)

	return &ConfirmationToken{
		Plain:     plain,
		Hash:      HashConfirmationToken(plain),
		ExpiresAt: c.clock().Add(c.ttl),
	}, nil
}

// Now exposes the manager's clock so consumers bound lookups with the
// same time source expiry was computed from.
func (c *ConfirmationTokens) Now() time.Time {
	return c.clock()
}

// HashConfirmationToken digests a plaintext confirmation token. The
// digest is deterministic so consumption is a pure lookup; the
// plaintext never round-trips from storage.
func HashConfirmationToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
