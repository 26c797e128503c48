package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/anikpatel-dev/vyapaar-backend/api/responses"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/authgate"
	pkgerrors "github.com/anikpatel-dev/vyapaar-backend/pkg/errors"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/logger"
)

// SessionValidator is the slice of the auth service client the middleware
// needs: forward a session token, get an identity back.
type SessionValidator interface {
	CookieName() string
	Validate(ctx context.Context, token string) (*authgate.Identity, error)
}

// Auth resolves the session cookie against the external auth service and
// injects the caller identity into the request context. The API never
// parses tokens itself.
func Auth(gate SessionValidator, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gate == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth gate unavailable"))
				return
			}

			token := sessionToken(r, gate.CookieName())
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}

			identity, err := gate.Validate(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithIdentity(r.Context(), identity)
			if logg != nil {
				ctx = logg.WithUserID(ctx, identity.UserID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionToken prefers the session cookie and falls back to a bearer
// header for non-browser clients.
func sessionToken(r *http.Request, cookieName string) string {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}
