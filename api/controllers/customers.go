package controllers

import (
	"net/http"

	"github.com/anikpatel-dev/vyapaar-backend/api/responses"
	"github.com/anikpatel-dev/vyapaar-backend/api/validators"
	"github.com/anikpatel-dev/vyapaar-backend/internal/customers"
	pkgerrors "github.com/anikpatel-dev/vyapaar-backend/pkg/errors"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/logger"
)

// ListCustomers returns the business's customer page.
func ListCustomers(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
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
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := customers.ListFilters{
			Search: queryValue(r, "search"),
			SortBy: customers.Sort(queryValue(r, "sortBy")),
		}
		list, err := svc.ListByBusiness(r.Context(), userID, businessID, filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GetCustomerDetail returns the customer profile with recent orders and
// per-customer analytics.
func GetCustomerDetail(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
			return
		}

		userID, _, err := actor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customerID, err := parseUUIDParam(r, "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.GetDetail(r.Context(), userID, customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

type updateNotesRequest struct {
	Notes *string `json:"notes" validate:"required"`
}

// UpdateCustomerNotes overwrites the owner's private notes for a customer.
func UpdateCustomerNotes(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
			return
		}

		userID, _, err := actor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customerID, err := parseUUIDParam(r, "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateNotesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.UpdateNotes(r.Context(), userID, customerID, *payload.Notes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, customer)
	}
}

// CustomerAnalytics returns the business's customer-base rollup.
func CustomerAnalytics(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
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
