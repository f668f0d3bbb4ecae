package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-router"
)

// SuccessEnvelope is the session issuance response body shared by
// login and email confirmation. The principal serializes without its
// password hash.
type SuccessEnvelope struct {
	Status string         `json:"status"`
	Token  string         `json:"token"`
	Data   map[string]any `json:"data"`
}

// RouteSessions converges every session issuance path: it signs the
// token, sets the transport cookie, and writes the success envelope.
// The cookie lifetime (days) is independent from the token's own
// expiry claim (hours); trust is always re-derived from the token.
type RouteSessions struct {
	tokens         TokenService
	cfg            Config
	cookieDuration time.Duration
	Logger         Logger
}

// NewRouteSessions creates the issuance helper from configuration
func NewRouteSessions(tokens TokenService, cfg Config) *RouteSessions {
	cookieDuration := 24 * time.Hour
	if cfg.GetCookieExpiration() > 0 {
		cookieDuration = time.Duration(cfg.GetCookieExpiration()) * 24 * time.Hour
	}

	return &RouteSessions{
		tokens:         tokens,
		cfg:            cfg,
		cookieDuration: cookieDuration,
		Logger:         defLogger{},
	}
}

// GetCookieDuration returns the configured cookie lifetime
func (s *RouteSessions) GetCookieDuration() time.Duration {
	return s.cookieDuration
}

// Issue signs a session for the principal, sets the cookie, and writes
// the success envelope with the given status code.
func (s *RouteSessions) Issue(c router.Context, principal *PrincipalRecord, status int) error {
	token, err := s.tokens.Generate(principal.Identity())
	if err != nil {
		s.Logger.Error("session issuance failed", "error", err)
		return WriteError(c, err)
	}

	s.setCookieToken(c, token, s.cookieDuration)

	return c.JSON(status, SuccessEnvelope{
		Status: "success",
		Token:  token,
		Data:   map[string]any{"user": principal},
	})
}

// Logout clears the session cookie
func (s *RouteSessions) Logout(c router.Context) error {
	s.cookieDel(c, s.cfg.GetContextKey())
	return c.JSON(http.StatusOK, map[string]any{"status": "success"})
}

func (s *RouteSessions) setCookieToken(c router.Context, val string, duration time.Duration) {
	c.Cookie(&router.Cookie{
		Name:     s.cfg.GetContextKey(),
		Value:    val,
		Expires:  time.Now().Add(duration),
		HTTPOnly: true,
		Secure:   isSecureRequest(c),
		SameSite: "Lax",
	})
}

func (s *RouteSessions) cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   isSecureRequest(c),
		SameSite: "Lax",
	})
}

// isSecureRequest reports whether the request was forwarded from an
// HTTPS edge. The router context exposes no direct TLS state, so the
// X-Forwarded-Proto header is the only available signal; deployments
// terminating TLS on the service itself must have their edge set the
// header for the cookie to carry the Secure attribute.
func isSecureRequest(c router.Context) bool {
	proto := c.GetString("X-Forwarded-Proto", "")
	return strings.EqualFold(proto, "https")
}
