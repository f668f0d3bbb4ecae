package auth

import (
	"os"
	"strconv"
)

// SimpleConfig is an immutable Config value constructed once at
// startup and passed by reference into the components that need it.
// Nothing reads the environment after construction.
type SimpleConfig struct {
	SigningKey      string
	SigningMethod   string
	ContextKey      string
	TokenExpiration int
	CookieDays      int
	ConfirmationTTL int
	TokenLookup     string
	AuthScheme      string
	Issuer          string
	Audience        []string
	BaseURL         string
}

func (c *SimpleConfig) GetSigningKey() string   { return c.SigningKey }
func (c *SimpleConfig) GetSigningMethod() string {
	if c.SigningMethod == "" {
		return "HS256"
	}
	return c.SigningMethod
}

func (c *SimpleConfig) GetContextKey() string {
	if c.ContextKey == "" {
		return "jwt"
	}
	return c.ContextKey
}

// GetTokenExpiration is the session token lifetime in hours
func (c *SimpleConfig) GetTokenExpiration() int {
	if c.TokenExpiration <= 0 {
		return 24
	}
	return c.TokenExpiration
}

// GetCookieExpiration is the transport cookie lifetime in days. Kept
// at least as long as the token so the cookie never cuts a valid
// session short; authority still comes from the token itself.
func (c *SimpleConfig) GetCookieExpiration() int {
	if c.CookieDays <= 0 {
		return 7
	}
	return c.CookieDays
}

// GetConfirmationTTL is the confirmation token window in minutes
func (c *SimpleConfig) GetConfirmationTTL() int {
	if c.ConfirmationTTL <= 0 {
		return 10
	}
	return c.ConfirmationTTL
}

func (c *SimpleConfig) GetTokenLookup() string {
	if c.TokenLookup == "" {
		return "header:Authorization,cookie:" + c.GetContextKey()
	}
	return c.TokenLookup
}

func (c *SimpleConfig) GetAuthScheme() string {
	if c.AuthScheme == "" {
		return "Bearer"
	}
	return c.AuthScheme
}

func (c *SimpleConfig) GetIssuer() string     { return c.Issuer }
func (c *SimpleConfig) GetAudience() []string { return c.Audience }
func (c *SimpleConfig) GetBaseURL() string    { return c.BaseURL }

var _ Config = (*SimpleConfig)(nil)

// ConfigFromEnv builds a SimpleConfig from the process environment.
// Call it once during startup; the resulting value is never mutated.
func ConfigFromEnv() *SimpleConfig {
	return &SimpleConfig{
		SigningKey:      os.Getenv("AUTH_SIGNING_KEY"),
		ContextKey:      envOr("AUTH_COOKIE_NAME", "jwt"),
		TokenExpiration: envInt("AUTH_TOKEN_EXPIRATION_HOURS", 24),
		CookieDays:      envInt("AUTH_COOKIE_EXPIRATION_DAYS", 7),
		ConfirmationTTL: envInt("AUTH_CONFIRMATION_TTL_MINUTES", 10),
		AuthScheme:      envOr("AUTH_SCHEME", "Bearer"),
		Issuer:          os.Getenv("AUTH_ISSUER"),
		BaseURL:         os.Getenv("AUTH_BASE_URL"),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
