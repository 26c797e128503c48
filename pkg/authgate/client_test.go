package authgate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anikpatel-dev/vyapaar-backend/pkg/config"
	pkgerrors "github.com/anikpatel-dev/vyapaar-backend/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.AuthServiceConfig{
		BaseURL:    server.URL,
		CookieName: "session",
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client, server
}

func TestValidateSuccess(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/validate" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding request body: %v", err)
		}
		if body["token"] != "session-token" {
			t.Fatalf("expected token to be forwarded, got %q", body["token"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"valid": true,
			"user": map[string]any{
				"id":               "user-1",
				"email":            "owner@example.com",
				"name":             "Owner",
				"businessEnrolled": true,
			},
		})
	})

	identity, err := client.Validate(context.Background(), "session-token")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if identity.UserID != "user-1" || !identity.BusinessEnrolled {
		t.Fatalf("unexpected identity %+v", identity)
	}
}

func TestValidateRejected(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Validate(context.Background(), "expired")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestValidateInvalidPayload(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"valid": false})
	})

	_, err := client.Validate(context.Background(), "token")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for invalid session, got %v", err)
	}
}

func TestValidateDependencyDown(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_ = server

	_, err := client.Validate(context.Background(), "token")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestValidateMissingToken(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("auth service should not be called without a token")
	})

	_, err := client.Validate(context.Background(), "  ")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
