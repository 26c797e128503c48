package controllers

import (
	"net/http"

	"github.com/anikpatel-dev/vyapaar-backend/api/responses"
	"github.com/anikpatel-dev/vyapaar-backend/api/validators"
	"github.com/anikpatel-dev/vyapaar-backend/internal/businesses"
	pkgerrors "github.com/anikpatel-dev/vyapaar-backend/pkg/errors"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/logger"
)

// CreateBusiness registers a new business for the caller.
func CreateBusiness(svc businesses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "businesses service unavailable"))
			return
		}

		userID, _, err := actor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input businesses.CreateBusinessInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		business, err := svc.Create(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, business)
	}
}

// ListMyBusinesses returns the caller's businesses with entity counts.
func ListMyBusinesses(svc businesses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "businesses service unavailable"))
			return
		}

		userID, _, err := actor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListMine(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GetBusiness returns the owner view of one business.
func GetBusiness(svc businesses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "businesses service unavailable"))
			return
		}

		userID, _, err := actor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		businessID, err := parseUUIDParam(r, "businessId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		business, err := svc.GetByID(r.Context(), userID, businessID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, business)
	}
}

// GetPublicBusiness serves the unauthenticated storefront profile.
func GetPublicBusiness(svc businesses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "businesses service unavailable"))
			return
		}

		businessID, err := parseUUIDParam(r, "businessId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		business, err := svc.GetPublic(r.Context(), businessID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, business)
	}
}

// ListPublicBusinesses serves the public business directory.
func ListPublicBusinesses(svc businesses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "businesses service unavailable"))
			return
		}

		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := businesses.PublicListFilters{
			Category: queryValue(r, "category"),
			City:     queryValue(r, "city"),
			Search:   queryValue(r, "search"),
		}
		list, err := svc.ListPublic(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// UpdateBusiness patches business settings.
func UpdateBusiness(svc businesses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "businesses service unavailable"))
			return
		}

		userID, _, err := actor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		businessID, err := parseUUIDParam(r, "businessId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input businesses.UpdateBusinessInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		business, err := svc.Update(r.Context(), userID, businessID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, business)
	}
}

// DeleteBusiness removes a business and cascades to its children.
func DeleteBusiness(svc businesses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "businesses service unavailable"))
			return
		}

		userID, _, err := actor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		businessID, err := parseUUIDParam(r, "businessId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), userID, businessID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

// ToggleBusinessActive flips the storefront visibility flag.
func ToggleBusinessActive(svc businesses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "businesses service unavailable"))
			return
		}

		userID, _, err := actor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		businessID, err := parseUUIDParam(r, "businessId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		business, err := svc.ToggleActive(r.Context(), userID, businessID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, business)
	}
}

// BusinessAnalytics returns the owner dashboard rollup.
func BusinessAnalytics(svc businesses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "businesses service unavailable"))
			return
		}

		userID, _, err := actor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		businessID, err := parseUUIDParam(r, "businessId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		days, err := windowDays(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		analytics, err := svc.Analytics(r.Context(), userID, businessID, days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, analytics)
	}
}
