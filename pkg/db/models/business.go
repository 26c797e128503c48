package models

import (
	"time"

	"github.com/google/uuid"
)

// Business represents the canonical tenant model. Revenue and order
// counters are recognized at delivery, never at order placement.
type Business struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID           uuid.UUID `gorm:"column:owner_id;type:uuid;not null;index"`
	Name              string    `gorm:"column:name;not null"`
	Description       *string   `gorm:"column:description"`
	Category          *string   `gorm:"column:category;index"`
	LogoURL           *string   `gorm:"column:logo_url"`
	CoverImageURL     *string   `gorm:"column:cover_image_url"`
	ContactEmail      *string   `gorm:"column:contact_email"`
	ContactPhone      *string   `gorm:"column:contact_phone"`
	Address           *string   `gorm:"column:address"`
	City              *string   `gorm:"column:city;index"`
	State             *string   `gorm:"column:state"`
	ZipCode           *string   `gorm:"column:zip_code"`
	Country           string    `gorm:"column:country;not null;default:'India'"`
	Website           *string   `gorm:"column:website"`
	UPIID             *string   `gorm:"column:upi_id"`
	BankAccount       *string   `gorm:"column:bank_account"`
	IFSCCode          *string   `gorm:"column:ifsc_code"`
	GSTIN             *string   `gorm:"column:gstin"`
	IsActive          bool      `gorm:"column:is_active;not null;default:true"`
	IsVerified        bool      `gorm:"column:is_verified;not null;default:false"`
	Rating            float64   `gorm:"column:rating;not null;default:0"`
	ReviewCount       int       `gorm:"column:review_count;not null;default:0"`
	TotalRevenuePaise int64     `gorm:"column:total_revenue_paise;not null;default:0"`
	TotalOrders       int       `gorm:"column:total_orders;not null;default:0"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
