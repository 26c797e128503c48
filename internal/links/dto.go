package links

import (
	"time"

	"github.com/google/uuid"

	"github.com/anikpatel-dev/vyapaar-backend/pkg/db/models"
)

// TrackingLinkDTO is the transport shape of a campaign link.
type TrackingLinkDTO struct {
	ID           uuid.UUID `json:"id"`
	BusinessID   uuid.UUID `json:"businessId"`
	Name         string    `json:"name"`
	URL          string    `json:"url"`
	UTMSource    *string   `json:"utmSource,omitempty"`
	UTMMedium    *string   `json:"utmMedium,omitempty"`
	UTMCampaign  *string   `json:"utmCampaign,omitempty"`
	IsActive     bool      `json:"isActive"`
	Clicks       int       `json:"clicks"`
	Conversions  int       `json:"conversions"`
	RevenuePaise int64     `json:"revenuePaise"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TrackingAnalyticsDTO is the per-campaign performance readout.
type TrackingAnalyticsDTO struct {
	Name              string `json:"name"`
	URL               string `json:"url"`
	Clicks            int    `json:"clicks"`
	Conversions       int    `json:"conversions"`
	RevenuePaise      int64  `json:"revenuePaise"`
	ConversionRatePct string `json:"conversionRatePct"`
}

// CreateTrackingLinkInput holds campaign creation fields.
type CreateTrackingLinkInput struct {
	BusinessID  uuid.UUID `json:"businessId" validate:"required"`
	Name        string    `json:"name" validate:"required,min=2"`
	URL         string    `json:"url" validate:"required,url"`
	UTMSource   *string   `json:"utmSource,omitempty"`
	UTMMedium   *string   `json:"utmMedium,omitempty"`
	UTMCampaign *string   `json:"utmCampaign,omitempty"`
}

// UpdateTrackingLinkInput is the partial-update shape; nil means untouched.
type UpdateTrackingLinkInput struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2"`
	URL         *string `json:"url,omitempty" validate:"omitempty,url"`
	UTMSource   *string `json:"utmSource,omitempty"`
	UTMMedium   *string `json:"utmMedium,omitempty"`
	UTMCampaign *string `json:"utmCampaign,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// CheckoutLinkDTO is the transport shape of a checkout link.
type CheckoutLinkDTO struct {
	ID          uuid.UUID  `json:"id"`
	BusinessID  uuid.UUID  `json:"businessId"`
	ProductID   *uuid.UUID `json:"productId,omitempty"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	URL         string     `json:"url"`
	IsActive    bool       `json:"isActive"`
	Clicks      int        `json:"clicks"`
	Conversions int        `json:"conversions"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// PublicCheckoutDTO is the storefront view behind a slug.
type PublicCheckoutDTO struct {
	CheckoutLinkDTO
	Product *models.Product `json:"product,omitempty"`
}

// CreateCheckoutLinkInput holds checkout link creation fields.
type CreateCheckoutLinkInput struct {
	BusinessID uuid.UUID  `json:"businessId" validate:"required"`
	ProductID  *uuid.UUID `json:"productId,omitempty"`
	Name       string     `json:"name" validate:"required,min=2"`
}

// UpdateCheckoutLinkInput is the partial-update shape; nil means untouched.
type UpdateCheckoutLinkInput struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2"`
	IsActive *bool   `json:"isActive,omitempty"`
}

func trackingFromModel(m *models.TrackingLink) *TrackingLinkDTO {
	if m == nil {
		return nil
	}
	return &TrackingLinkDTO{
		ID:           m.ID,
		BusinessID:   m.BusinessID,
		Name:         m.Name,
		URL:          m.URL,
		UTMSource:    m.UTMSource,
		UTMMedium:    m.UTMMedium,
		UTMCampaign:  m.UTMCampaign,
		IsActive:     m.IsActive,
		Clicks:       m.Clicks,
		Conversions:  m.Conversions,
		RevenuePaise: m.RevenuePaise,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func checkoutFromModel(m *models.CheckoutLink) *CheckoutLinkDTO {
	if m == nil {
		return nil
	}
	return &CheckoutLinkDTO{
		ID:          m.ID,
		BusinessID:  m.BusinessID,
		ProductID:   m.ProductID,
		Name:        m.Name,
		Slug:        m.Slug,
		URL:         m.URL,
		IsActive:    m.IsActive,
		Clicks:      m.Clicks,
		Conversions: m.Conversions,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
