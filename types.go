package auth

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Clock lets expiry logic run against an injected time source.
type Clock func() time.Time

// Identity holds the attributes of an authenticated principal
type Identity interface {
	ID() string
	Email() string
	Role() string
}

// TokenService signs and verifies stateless session tokens
type TokenService interface {
	Generate(identity Identity) (string, error)
	SignClaims(claims *JWTClaims) (string, error)
	Validate(token string) (AuthClaims, error)
}

// CredentialVerifier checks a plaintext password against a stored
// hash, failing uniformly regardless of cause.
type CredentialVerifier interface {
	VerifyIdentity(ctx context.Context, email, password string) (*PrincipalRecord, error)
}

// Mailer is the outbound email collaborator used during signup
type Mailer interface {
	SendWelcome(ctx context.Context, principal *PrincipalRecord, confirmationURL string) error
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetContextKey() string
	GetTokenExpiration() int
	GetCookieExpiration() int
	GetConfirmationTTL() int
	GetTokenLookup() string
	GetAuthScheme() string
	GetIssuer() string
	GetAudience() []string
	GetBaseURL() string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
