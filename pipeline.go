package auth

import (
	"context"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// Pipeline authenticates requests: extract token, verify signature and
// expiry, resolve the principal, reject stale credentials, attach the
// identity. Protect enforces; Optional degrades silently to anonymous.
type Pipeline struct {
	tokens     TokenService
	lookup     *PrincipalLookup
	cfg        Config
	logger     Logger
	extractors []tokenExtractor
}

// NewPipeline wires the token service and principal lookup together.
// Extraction sources come from the config's token lookup expression.
func NewPipeline(tokens TokenService, lookup *PrincipalLookup, cfg Config) *Pipeline {
	return &Pipeline{
		tokens:     tokens,
		lookup:     lookup,
		cfg:        cfg,
		logger:     defLogger{},
		extractors: buildExtractors(cfg.GetTokenLookup(), cfg.GetAuthScheme()),
	}
}

// NewPipelineFromManager builds the pipeline over the manager's
// repositories in their configured consultation order.
func NewPipelineFromManager(tokens TokenService, repo RepositoryManager, cfg Config) *Pipeline {
	return NewPipeline(tokens, NewPrincipalLookup(repo.Ordered()...), cfg)
}

// WithLogger overrides the logger
func (p *Pipeline) WithLogger(logger Logger) *Pipeline {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// ExtractToken pulls the raw session token from the request, trying
// each configured source in order. The default lookup checks the
// Authorization header first, then the session cookie. No source
// producing a token means the request is anonymous.
func (p *Pipeline) ExtractToken(c router.Context) (string, error) {
	for _, extract := range p.extractors {
		if token := extract(c); token != "" {
			return token, nil
		}
	}
	return "", ErrNotAuthenticated
}

type tokenExtractor func(c router.Context) string

// buildExtractors parses a lookup expression like
// "header:Authorization,cookie:jwt,query:auth_token" into ordered
// extraction functions.
func buildExtractors(tokenLookup, authScheme string) []tokenExtractor {
	var extractors []tokenExtractor

	for _, rootPart := range strings.Split(tokenLookup, ",") {
		parts := strings.Split(strings.TrimSpace(rootPart), ":")
		if len(parts) != 2 {
			continue
		}

		source := strings.TrimSpace(parts[0])
		name := strings.TrimSpace(parts[1])

		switch source {
		case "header":
			extractors = append(extractors, tokenFromHeader(name, authScheme))
		case "cookie":
			extractors = append(extractors, tokenFromCookie(name))
		case "query":
			extractors = append(extractors, tokenFromQuery(name))
		}
	}

	return extractors
}

// tokenFromHeader extracts a scheme-prefixed credential. The scheme
// must be followed by a space; a header that merely starts with the
// scheme string is not a valid credential.
func tokenFromHeader(header, authScheme string) tokenExtractor {
	prefix := strings.TrimSpace(authScheme) + " "
	return func(c router.Context) string {
		value := c.GetString(header, "")
		if len(value) > len(prefix) && strings.EqualFold(value[:len(prefix)], prefix) {
			return strings.TrimSpace(value[len(prefix):])
		}
		return ""
	}
}

func tokenFromCookie(name string) tokenExtractor {
	return func(c router.Context) string {
		return c.Cookies(name)
	}
}

func tokenFromQuery(name string) tokenExtractor {
	return func(c router.Context) string {
		return c.Query(name, "")
	}
}

// Resolve runs verification steps 2-4 over a raw token: validate the
// signature/expiry, resolve the principal across the ordered
// repositories, and reject tokens issued before the principal's last
// password change.
func (p *Pipeline) Resolve(ctx context.Context, raw string) (*PrincipalRecord, AuthClaims, error) {
	claims, err := p.tokens.Validate(raw)
	if err != nil {
		return nil, nil, err
	}

	principal, err := p.lookup.ByID(ctx, claims.UserID())
	if err != nil {
		// A valid token whose principal is gone must look exactly
		// like an invalid token to the caller.
		if errors.IsNotFound(err) {
			return nil, nil, errors.New(MsgInvalidSessionToken, errors.CategoryAuth).
				WithCode(errors.CodeUnauthorized).
				WithTextCode(TextCodeNotAuthenticated)
		}
		return nil, nil, err
	}

	if principal.ChangedPasswordAfter(claims.IssuedAt()) {
		return nil, nil, ErrStaleCredentials
	}

	return principal, claims, nil
}

// Protect is the enforcing middleware. Any failure short-circuits with
// the structured failure envelope; nothing downstream runs.
func (p *Pipeline) Protect() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			raw, err := p.ExtractToken(c)
			if err != nil {
				return WriteError(c, err)
			}

			principal, claims, err := p.Resolve(c.Context(), raw)
			if err != nil {
				p.logger.Debug("protect rejected request", "error", err)
				return WriteError(c, p.authError(err))
			}

			p.attach(c, principal, claims)
			return next(c)
		}
	}
}

// Optional is the advisory middleware for views that render
// differently for authenticated visitors. Every failure is swallowed
// and the request proceeds anonymously; no error ever reaches the
// caller from here.
func (p *Pipeline) Optional() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			raw, err := p.ExtractToken(c)
			if err != nil {
				return next(c)
			}

			principal, claims, err := p.Resolve(c.Context(), raw)
			if err != nil {
				return next(c)
			}

			p.attach(c, principal, claims)
			return next(c)
		}
	}
}

// AllowedTo gates a route on an exact role match. It requires Protect
// to have run first; without an attached identity the request is
// treated as unauthenticated.
func (p *Pipeline) AllowedTo(role PrincipalRole) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			principal, ok := PrincipalFromRouterContext(c, p.cfg.GetContextKey())
			if !ok {
				return WriteError(c, ErrNotAuthenticated)
			}

			if !RoleMatches(principal.Role, role) {
				p.logger.Debug("authorization rejected", "have", principal.Role, "want", role)
				return WriteError(c, ErrForbidden)
			}

			return next(c)
		}
	}
}

func (p *Pipeline) attach(c router.Context, principal *PrincipalRecord, claims AuthClaims) {
	c.Locals(p.cfg.GetContextKey(), principal)
	c.Locals(claimsLocalsKey, claims)
	c.SetContext(WithContext(c.Context(), principal))
}

// authError keeps auth-category rich errors as-is and hides anything
// else behind a generic unauthenticated failure so repository faults
// never leak through a 401.
func (p *Pipeline) authError(err error) error {
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		switch richErr.Category {
		case errors.CategoryAuth, errors.CategoryAuthz:
			return richErr
		}
	}

	p.logger.Error("auth pipeline internal failure", "error", err)
	return ErrNotAuthenticated
}

const claimsLocalsKey = "auth_claims"

// PrincipalFromRouterContext returns the principal attached by Protect
// or Optional, if any.
func PrincipalFromRouterContext(c router.Context, key string) (*PrincipalRecord, bool) {
	raw := c.Locals(key)
	if raw == nil {
		return nil, false
	}
	principal, ok := raw.(*PrincipalRecord)
	return principal, ok
}

// ClaimsFromRouterContext returns the verified session claims attached
// alongside the principal.
func ClaimsFromRouterContext(c router.Context) (AuthClaims, bool) {
	raw := c.Locals(claimsLocalsKey)
	if raw == nil {
		return nil, false
	}
	claims, ok := raw.(AuthClaims)
	return claims, ok
}
