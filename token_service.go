package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey      []byte
	tokenExpiration int
	issuer          string
	audience        jwt.ClaimStrings
	method          jwt.SigningMethod
	logger          Logger
	clock           Clock
}

// NewTokenService creates a new TokenService instance signing with
// HS256. Expiration is expressed in hours from issuance.
func NewTokenService(signingKey []byte, tokenExpiration int, issuer string, audience jwt.ClaimStrings, logger Logger) *TokenServiceImpl {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		signingKey:      signingKey,
		tokenExpiration: tokenExpiration,
		issuer:          issuer,
		audience:        audience,
		method:          jwt.SigningMethodHS256,
		logger:          logger,
		clock:           time.Now,
	}
}

// NewTokenServiceFromConfig builds the service from configuration,
// honoring the configured signing method. Only HMAC methods are
// supported; an unknown method name falls back to HS256.
func NewTokenServiceFromConfig(cfg Config, logger Logger) *TokenServiceImpl {
	ts := NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenExpiration(),
		cfg.GetIssuer(),
		cfg.GetAudience(),
		logger,
	)

	if method := jwt.GetSigningMethod(cfg.GetSigningMethod()); method != nil {
		if _, ok := method.(*jwt.SigningMethodHMAC); ok {
			ts.method = method
		} else {
			ts.logger.Warn("TokenService ignoring non HMAC signing method", "alg", cfg.GetSigningMethod())
		}
	}

	return ts
}

// WithClock overrides the time source, mostly for deterministic tests
func (ts *TokenServiceImpl) WithClock(clock Clock) *TokenServiceImpl {
	if clock != nil {
		ts.clock = clock
	}
	return ts
}

// Generate creates a signed session token for the given identity
func (ts *TokenServiceImpl) Generate(identity Identity) (string, error) {
	now := ts.clock()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   identity.ID(),
			Audience:  ts.audience,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ts.tokenExpiration) * time.Hour)),
		},
		UID:      identity.ID(),
		UserRole: identity.Role(),
	}

	return ts.SignClaims(claims)
}

// SignClaims signs arbitrary JWT claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(ts.method, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses and validates a token string, returning structured claims
func (ts *TokenServiceImpl) Validate(tokenString string) (AuthClaims, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithTimeFunc(ts.clock),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithCode(ErrTokenMalformed.Code).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	ts.logger.Error("TokenService validate could not decode or validate claims")
	return nil, ErrTokenMalformed
}

var _ TokenService = (*TokenServiceImpl)(nil)
