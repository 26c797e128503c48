package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/anikpatel-dev/vyapaar-backend/api/responses"
	"github.com/anikpatel-dev/vyapaar-backend/api/validators"
	"github.com/anikpatel-dev/vyapaar-backend/internal/links"
	pkgerrors "github.com/anikpatel-dev/vyapaar-backend/pkg/errors"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/logger"
)

// CreateTrackingLink mints a campaign link for a business.
func CreateTrackingLink(svc links.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "links service unavailable"))
			return
		}

		userID, _, err := actor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input links.CreateTrackingLinkInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		link, err := svc.CreateTracking(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, link)
	}
}

// ListTrackingLinks returns the business's campaign links.
func ListTrackingLinks(svc links.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "links service unavailable"))
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

		list, err := svc.ListTracking(r.Context(), userID, businessID, queryValue(r, "search"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// TrackingLinkAnalytics returns a campaign's performance readout.
func TrackingLinkAnalytics(svc links.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "links service unavailable"))
			return
		}

		userID, _, err := actor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		linkID, err := parseUUIDParam(r, "linkId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		analytics, err := svc.TrackingAnalytics(r.Context(), userID, linkID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, analytics)
	}
}

// UpdateTrackingLink patches campaign fields.
func UpdateTrackingLink(svc links.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "links service unavailable"))
			return
		}

		userID, _, err := actor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		linkID, err := parseUUIDParam(r, "linkId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input links.UpdateTrackingLinkInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		link, err := svc.UpdateTracking(r.Context(), userID, linkID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, link)
	}
}

// DeleteTrackingLink removes a campaign link.
func DeleteTrackingLink(svc links.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "links service unavailable"))
			return
		}

		userID, _, err := actor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		linkID, err := parseUUIDParam(r, "linkId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteTracking(r.Context(), userID, linkID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

// ClickTrackingLink is the public, deliberately non-idempotent click counter.
func ClickTrackingLink(svc links.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "links service unavailable"))
			return
		}

		linkID, err := parseUUIDParam(r, "linkId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ClickTracking(r.Context(), linkID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"recorded": true})
	}
}

type trackingConversionRequest struct {
	RevenuePaise int64 `json:"revenuePaise,omitempty" validate:"omitempty,gte=0"`
}

// ConvertTrackingLink is the public conversion counter with optional revenue.
func ConvertTrackingLink(svc links.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "links service unavailable"))
			return
		}

		linkID, err := parseUUIDParam(r, "linkId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload trackingConversionRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		if err := svc.ConvertTracking(r.Context(), linkID, payload.RevenuePaise); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"recorded": true})
	}
}

// CreateCheckoutLink mints a slug-addressed checkout page link.
func CreateCheckoutLink(svc links.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "links service unavailable"))
			return
		}

		userID, _, err := actor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input links.CreateCheckoutLinkInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		link, err := svc.CreateCheckout(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, link)
	}
}

// ListCheckoutLinks returns the business's checkout links.
func ListCheckoutLinks(svc links.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "links service unavailable"))
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

		list, err := svc.ListCheckout(r.Context(), userID, businessID, queryValue(r, "search"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GetCheckoutBySlug serves the public checkout view behind a slug.
func GetCheckoutBySlug(svc links.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "links service unavailable"))
			return
		}

		slug, err := slugParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetCheckoutBySlug(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// UpdateCheckoutLink patches checkout link fields.
func UpdateCheckoutLink(svc links.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "links service unavailable"))
			return
		}

		userID, _, err := actor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		linkID, err := parseUUIDParam(r, "linkId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input links.UpdateCheckoutLinkInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		link, err := svc.UpdateCheckout(r.Context(), userID, linkID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, link)
	}
}

// DeleteCheckoutLink removes a checkout link.
func DeleteCheckoutLink(svc links.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "links service unavailable"))
			return
		}

		userID, _, err := actor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		linkID, err := parseUUIDParam(r, "linkId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteCheckout(r.Context(), userID, linkID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

// ClickCheckoutLink is the public click counter keyed by slug.
func ClickCheckoutLink(svc links.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "links service unavailable"))
			return
		}

		slug, err := slugParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ClickCheckout(r.Context(), slug); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"recorded": true})
	}
}

// ConvertCheckoutLink is the public conversion counter keyed by slug.
func ConvertCheckoutLink(svc links.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "links service unavailable"))
			return
		}

		slug, err := slugParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ConvertCheckout(r.Context(), slug); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"recorded": true})
	}
}

func slugParam(r *http.Request) (string, error) {
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	if slug == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	return slug, nil
}
