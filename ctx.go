package auth

import (
	"context"
)

var principalCtxKey = &contextKey{"principal"}

type contextKey struct {
	name string
}

// WithContext sets the principal in the given context
func WithContext(ctx context.Context, principal *PrincipalRecord) context.Context {
	return context.WithValue(ctx, principalCtxKey, principal)
}

// FromContext finds the principal from the context.
func FromContext(ctx context.Context) (*PrincipalRecord, bool) {
	raw, ok := ctx.Value(principalCtxKey).(*PrincipalRecord)
	return raw, ok
}
