package models

import (
	"time"

	"github.com/google/uuid"
)

// CheckoutLink is a shareable slug that lands on a prefilled checkout.
type CheckoutLink struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	BusinessID  uuid.UUID  `gorm:"column:business_id;type:uuid;not null;index"`
	ProductID   *uuid.UUID `gorm:"column:product_id;type:uuid"`
	Name        string     `gorm:"column:name;not null"`
	Slug        string     `gorm:"column:slug;not null;uniqueIndex"`
	URL         string     `gorm:"column:url;not null"`
	IsActive    bool       `gorm:"column:is_active;not null;default:true"`
	Clicks      int        `gorm:"column:clicks;not null;default:0"`
	Conversions int        `gorm:"column:conversions;not null;default:0"`
	Product     *Product   `gorm:"foreignKey:ProductID"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
