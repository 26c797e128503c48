package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/anikpatel-dev/vyapaar-backend/pkg/db/models"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/pagination"
)

// ProductDTO is the owner-facing transport shape.
type ProductDTO struct {
	ID                 uuid.UUID `json:"id"`
	BusinessID         uuid.UUID `json:"businessId"`
	Name               string    `json:"name"`
	Description        *string   `json:"description,omitempty"`
	ShortDescription   *string   `json:"shortDescription,omitempty"`
	SKU                string    `json:"sku"`
	PricePaise         int64     `json:"pricePaise"`
	OriginalPricePaise *int64    `json:"originalPricePaise,omitempty"`
	Images             []string  `json:"images"`
	Category           *string   `json:"category,omitempty"`
	Tags               []string  `json:"tags"`
	Inventory          int       `json:"inventory"`
	LowStockAlert      int       `json:"lowStockAlert"`
	TotalSales         int       `json:"totalSales"`
	IsActive           bool      `json:"isActive"`
	IsFeatured         bool      `json:"isFeatured"`
	Rating             float64   `json:"rating"`
	ReviewCount        int       `json:"reviewCount"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// ProductList wraps a paginated product page.
type ProductList struct {
	Products []ProductDTO    `json:"products"`
	Meta     pagination.Meta `json:"meta"`
}

// CreateProductInput holds creation-time fields. Prices are paise.
type CreateProductInput struct {
	BusinessID         uuid.UUID `json:"businessId" validate:"required"`
	Name               string    `json:"name" validate:"required,min=2"`
	Description        *string   `json:"description,omitempty"`
	ShortDescription   *string   `json:"shortDescription,omitempty" validate:"omitempty,max=200"`
	PricePaise         int64     `json:"pricePaise" validate:"required,gt=0"`
	OriginalPricePaise *int64    `json:"originalPricePaise,omitempty" validate:"omitempty,gt=0"`
	Images             []string  `json:"images,omitempty" validate:"omitempty,dive,url"`
	Category           *string   `json:"category,omitempty"`
	Tags               []string  `json:"tags,omitempty"`
	Inventory          int       `json:"inventory" validate:"gte=0"`
	LowStockAlert      *int      `json:"lowStockAlert,omitempty" validate:"omitempty,gte=0"`
	IsFeatured         bool      `json:"isFeatured"`
}

// UpdateProductInput is the partial-update shape; nil means untouched.
type UpdateProductInput struct {
	Name               *string  `json:"name,omitempty" validate:"omitempty,min=2"`
	Description        *string  `json:"description,omitempty"`
	ShortDescription   *string  `json:"shortDescription,omitempty" validate:"omitempty,max=200"`
	PricePaise         *int64   `json:"pricePaise,omitempty" validate:"omitempty,gt=0"`
	OriginalPricePaise *int64   `json:"originalPricePaise,omitempty" validate:"omitempty,gt=0"`
	Images             []string `json:"images,omitempty" validate:"omitempty,dive,url"`
	Category           *string  `json:"category,omitempty"`
	Tags               []string `json:"tags,omitempty"`
	LowStockAlert      *int     `json:"lowStockAlert,omitempty" validate:"omitempty,gte=0"`
	IsFeatured         *bool    `json:"isFeatured,omitempty"`
}

// ListFilters describe the owner catalog list inputs.
type ListFilters struct {
	Category string
	Search   string
	Status   string // all | active | inactive
}

// PublicSort names the supported storefront orderings.
type PublicSort string

const (
	PublicSortNewest    PublicSort = "newest"
	PublicSortPriceLow  PublicSort = "price_low"
	PublicSortPriceHigh PublicSort = "price_high"
	PublicSortPopular   PublicSort = "popular"
)

// PublicListFilters describe the storefront list inputs.
type PublicListFilters struct {
	Category string
	Search   string
	SortBy   PublicSort
}

func FromModel(m *models.Product) *ProductDTO {
	if m == nil {
		return nil
	}
	return &ProductDTO{
		ID:                 m.ID,
		BusinessID:         m.BusinessID,
		Name:               m.Name,
		Description:        m.Description,
		ShortDescription:   m.ShortDescription,
		SKU:                m.SKU,
		PricePaise:         m.PricePaise,
		OriginalPricePaise: m.OriginalPricePaise,
		Images:             append([]string(nil), m.Images...),
		Category:           m.Category,
		Tags:               append([]string(nil), m.Tags...),
		Inventory:          m.Inventory,
		LowStockAlert:      m.LowStockAlert,
		TotalSales:         m.TotalSales,
		IsActive:           m.IsActive,
		IsFeatured:         m.IsFeatured,
		Rating:             m.Rating,
		ReviewCount:        m.ReviewCount,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func (c CreateProductInput) ToModel(sku string) *models.Product {
	model := &models.Product{
		BusinessID:         c.BusinessID,
		Name:               c.Name,
		Description:        c.Description,
		ShortDescription:   c.ShortDescription,
		SKU:                sku,
		PricePaise:         c.PricePaise,
		OriginalPricePaise: c.OriginalPricePaise,
		Images:             c.Images,
		Category:           c.Category,
		Tags:               c.Tags,
		Inventory:          c.Inventory,
		LowStockAlert:      10,
		IsActive:           true,
		IsFeatured:         c.IsFeatured,
	}
	if c.LowStockAlert != nil {
		model.LowStockAlert = *c.LowStockAlert
	}
	return model
}
