package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/anikpatel-dev/vyapaar-backend/api/middleware"
	"github.com/anikpatel-dev/vyapaar-backend/api/validators"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/authgate"
	pkgerrors "github.com/anikpatel-dev/vyapaar-backend/pkg/errors"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/pagination"
)

// actor resolves the authenticated caller into a parsed user id.
func actor(r *http.Request) (uuid.UUID, *authgate.Identity, error) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil || identity.UserID == "" {
		return uuid.Nil, nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(identity.UserID)
	if err != nil {
		return uuid.Nil, nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, identity, nil
}

// parseUUIDParam reads a chi URL parameter as a UUID.
func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, name+" is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}

// pageParams reads page/limit query parameters with the API defaults.
func pageParams(r *http.Request) (pagination.Params, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1_000_000)
	if err != nil {
		return pagination.Params{}, err
	}
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{Page: page, Limit: limit}, nil
}

// windowDays reads the analytics window, defaulting to 30 days.
func windowDays(r *http.Request) (int, error) {
	return validators.ParseQueryInt(r, "days", 30, 1, 365)
}

func queryValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}
