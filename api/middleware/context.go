package middleware

import (
	"context"

	"github.com/anikpatel-dev/vyapaar-backend/pkg/authgate"
)

type contextKey string

const ctxIdentity contextKey = "identity"

// WithIdentity injects the authenticated caller into the context.
func WithIdentity(ctx context.Context, identity *authgate.Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxIdentity, identity)
}

// IdentityFromContext returns the authenticated caller, or nil on
// unauthenticated requests.
func IdentityFromContext(ctx context.Context) *authgate.Identity {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxIdentity).(*authgate.Identity); ok {
		return v
	}
	return nil
}

// UserIDFromContext returns the caller's user id string, empty when
// unauthenticated.
func UserIDFromContext(ctx context.Context) string {
	if identity := IdentityFromContext(ctx); identity != nil {
		return identity.UserID
	}
	return ""
}
