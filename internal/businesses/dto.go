package businesses

import (
	"time"

	"github.com/google/uuid"

	"github.com/anikpatel-dev/vyapaar-backend/pkg/db/models"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/pagination"
)

// BusinessDTO exposes tenant data in API responses.
type BusinessDTO struct {
	ID                uuid.UUID `json:"id"`
	OwnerID           uuid.UUID `json:"ownerId"`
	Name              string    `json:"name"`
	Description       *string   `json:"description,omitempty"`
	Category          *string   `json:"category,omitempty"`
	LogoURL           *string   `json:"logoUrl,omitempty"`
	CoverImageURL     *string   `json:"coverImageUrl,omitempty"`
	ContactEmail      *string   `json:"contactEmail,omitempty"`
	ContactPhone      *string   `json:"contactPhone,omitempty"`
	Address           *string   `json:"address,omitempty"`
	City              *string   `json:"city,omitempty"`
	State             *string   `json:"state,omitempty"`
	ZipCode           *string   `json:"zipCode,omitempty"`
	Country           string    `json:"country"`
	Website           *string   `json:"website,omitempty"`
	UPIID             *string   `json:"upiId,omitempty"`
	BankAccount       *string   `json:"bankAccount,omitempty"`
	IFSCCode          *string   `json:"ifscCode,omitempty"`
	GSTIN             *string   `json:"gstin,omitempty"`
	IsActive          bool      `json:"isActive"`
	IsVerified        bool      `json:"isVerified"`
	Rating            float64   `json:"rating"`
	ReviewCount       int       `json:"reviewCount"`
	TotalRevenuePaise int64     `json:"totalRevenuePaise"`
	TotalOrders       int       `json:"totalOrders"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// BusinessCounts carries the related-row counts shown on owner dashboards.
type BusinessCounts struct {
	Products  int64 `json:"products"`
	Customers int64 `json:"customers"`
	Orders    int64 `json:"orders"`
}

// BusinessWithCounts pairs a business with its related-row counts.
type BusinessWithCounts struct {
	BusinessDTO
	Counts BusinessCounts `json:"counts"`
}

// PublicBusinessDTO hides payment details from unauthenticated readers.
type PublicBusinessDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	Category      *string   `json:"category,omitempty"`
	LogoURL       *string   `json:"logoUrl,omitempty"`
	CoverImageURL *string   `json:"coverImageUrl,omitempty"`
	City          *string   `json:"city,omitempty"`
	State         *string   `json:"state,omitempty"`
	Country       string    `json:"country"`
	Website       *string   `json:"website,omitempty"`
	IsVerified    bool      `json:"isVerified"`
	Rating        float64   `json:"rating"`
	ReviewCount   int       `json:"reviewCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// PublicBusinessList wraps the paginated public directory.
type PublicBusinessList struct {
	Businesses []PublicBusinessDTO `json:"businesses"`
	Meta       pagination.Meta     `json:"meta"`
}

// CreateBusinessInput holds creation-time fields.
type CreateBusinessInput struct {
	Name          string  `json:"name" validate:"required,min=2"`
	Description   *string `json:"description,omitempty"`
	Category      *string `json:"category,omitempty"`
	LogoURL       *string `json:"logoUrl,omitempty" validate:"omitempty,url"`
	CoverImageURL *string `json:"coverImageUrl,omitempty" validate:"omitempty,url"`
	ContactEmail  *string `json:"contactEmail,omitempty" validate:"omitempty,email"`
	ContactPhone  *string `json:"contactPhone,omitempty"`
	Address       *string `json:"address,omitempty"`
	City          *string `json:"city,omitempty"`
	State         *string `json:"state,omitempty"`
	ZipCode       *string `json:"zipCode,omitempty"`
	Country       *string `json:"country,omitempty"`
	Website       *string `json:"website,omitempty" validate:"omitempty,url"`
	UPIID         *string `json:"upiId,omitempty"`
	BankAccount   *string `json:"bankAccount,omitempty"`
	IFSCCode      *string `json:"ifscCode,omitempty"`
	GSTIN         *string `json:"gstin,omitempty"`
}

// UpdateBusinessInput is the partial-update shape; nil means untouched.
type UpdateBusinessInput struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=2"`
	Description   *string `json:"description,omitempty"`
	Category      *string `json:"category,omitempty"`
	LogoURL       *string `json:"logoUrl,omitempty" validate:"omitempty,url"`
	CoverImageURL *string `json:"coverImageUrl,omitempty" validate:"omitempty,url"`
	ContactEmail  *string `json:"contactEmail,omitempty" validate:"omitempty,email"`
	ContactPhone  *string `json:"contactPhone,omitempty"`
	Address       *string `json:"address,omitempty"`
	City          *string `json:"city,omitempty"`
	State         *string `json:"state,omitempty"`
	ZipCode       *string `json:"zipCode,omitempty"`
	Country       *string `json:"country,omitempty"`
	Website       *string `json:"website,omitempty" validate:"omitempty,url"`
	UPIID         *string `json:"upiId,omitempty"`
	BankAccount   *string `json:"bankAccount,omitempty"`
	IFSCCode      *string `json:"ifscCode,omitempty"`
	GSTIN         *string `json:"gstin,omitempty"`
}

// PublicListFilters describe the public directory inputs.
type PublicListFilters struct {
	Category string
	City     string
	Search   string
}

func FromModel(m *models.Business) *BusinessDTO {
	if m == nil {
		return nil
	}
	return &BusinessDTO{
		ID:                m.ID,
		OwnerID:           m.OwnerID,
		Name:              m.Name,
		Description:       m.Description,
		Category:          m.Category,
		LogoURL:           m.LogoURL,
		CoverImageURL:     m.CoverImageURL,
		ContactEmail:      m.ContactEmail,
		ContactPhone:      m.ContactPhone,
		Address:           m.Address,
		City:              m.City,
		State:             m.State,
		ZipCode:           m.ZipCode,
		Country:           m.Country,
		Website:           m.Website,
		UPIID:             m.UPIID,
		BankAccount:       m.BankAccount,
		IFSCCode:          m.IFSCCode,
		GSTIN:             m.GSTIN,
		IsActive:          m.IsActive,
		IsVerified:        m.IsVerified,
		Rating:            m.Rating,
		ReviewCount:       m.ReviewCount,
		TotalRevenuePaise: m.TotalRevenuePaise,
		TotalOrders:       m.TotalOrders,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func PublicFromModel(m *models.Business) *PublicBusinessDTO {
	if m == nil {
		return nil
	}
	return &PublicBusinessDTO{
		ID:            m.ID,
		Name:          m.Name,
		Description:   m.Description,
		Category:      m.Category,
		LogoURL:       m.LogoURL,
		CoverImageURL: m.CoverImageURL,
		City:          m.City,
		State:         m.State,
		Country:       m.Country,
		Website:       m.Website,
		IsVerified:    m.IsVerified,
		Rating:        m.Rating,
		ReviewCount:   m.ReviewCount,
		CreatedAt:     m.CreatedAt,
	}
}

func (c CreateBusinessInput) ToModel(ownerID uuid.UUID) *models.Business {
	model := &models.Business{
		OwnerID:       ownerID,
		Name:          c.Name,
		Description:   c.Description,
		Category:      c.Category,
		LogoURL:       c.LogoURL,
		CoverImageURL: c.CoverImageURL,
		ContactEmail:  c.ContactEmail,
		ContactPhone:  c.ContactPhone,
		Address:       c.Address,
		City:          c.City,
		State:         c.State,
		ZipCode:       c.ZipCode,
		Country:       "India",
		Website:       c.Website,
		UPIID:         c.UPIID,
		BankAccount:   c.BankAccount,
		IFSCCode:      c.IFSCCode,
		GSTIN:         c.GSTIN,
		IsActive:      true,
	}
	if c.Country != nil && *c.Country != "" {
		model.Country = *c.Country
	}
	return model
}
