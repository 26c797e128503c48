package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anikpatel-dev/vyapaar-backend/pkg/authgate"
	pkgerrors "github.com/anikpatel-dev/vyapaar-backend/pkg/errors"
)

type fakeGate struct {
	validateFn func(ctx context.Context, token string) (*authgate.Identity, error)
}

func (f *fakeGate) CookieName() string { return "session" }

func (f *fakeGate) Validate(ctx context.Context, token string) (*authgate.Identity, error) {
	return f.validateFn(ctx, token)
}

func TestAuthInjectsIdentityFromCookie(t *testing.T) {
	gate := &fakeGate{
		validateFn: func(_ context.Context, token string) (*authgate.Identity, error) {
			if token != "tok-1" {
				t.Fatalf("expected cookie token to be forwarded, got %q", token)
			}
			return &authgate.Identity{UserID: "user-1", Email: "a@b.c"}, nil
		},
	}

	var seen *authgate.Identity
	handler := Auth(gate, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = IdentityFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "tok-1"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen == nil || seen.UserID != "user-1" {
		t.Fatalf("expected identity in context, got %+v", seen)
	}
}

func TestAuthAcceptsBearerFallback(t *testing.T) {
	gate := &fakeGate{
		validateFn: func(_ context.Context, token string) (*authgate.Identity, error) {
			if token != "bearer-tok" {
				t.Fatalf("expected bearer token, got %q", token)
			}
			return &authgate.Identity{UserID: "user-2"}, nil
		},
	}

	handler := Auth(gate, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer bearer-tok")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthRejectsMissingSession(t *testing.T) {
	gate := &fakeGate{
		validateFn: func(_ context.Context, _ string) (*authgate.Identity, error) {
			t.Fatal("validate should not be called without a token")
			return nil, nil
		},
	}

	handler := Auth(gate, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthPropagatesRejection(t *testing.T) {
	gate := &fakeGate{
		validateFn: func(_ context.Context, _ string) (*authgate.Identity, error) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session rejected")
		},
	}

	handler := Auth(gate, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "expired"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
