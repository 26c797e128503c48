package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product is a catalog entry. Inventory and TotalSales move together
// inside order transactions and must never be written independently.
type Product struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey"`
	BusinessID         uuid.UUID      `gorm:"column:business_id;type:uuid;not null;index;uniqueIndex:ux_products_business_sku"`
	Name               string         `gorm:"column:name;not null"`
	Description        *string        `gorm:"column:description"`
	ShortDescription   *string        `gorm:"column:short_description"`
	SKU                string         `gorm:"column:sku;not null;uniqueIndex:ux_products_business_sku"`
	PricePaise         int64          `gorm:"column:price_paise;not null"`
	OriginalPricePaise *int64         `gorm:"column:original_price_paise"`
	Images             pq.StringArray `gorm:"column:images;type:text[]"`
	Category           *string        `gorm:"column:category;index"`
	Tags               pq.StringArray `gorm:"column:tags;type:text[]"`
	Inventory          int            `gorm:"column:inventory;not null;default:0"`
	LowStockAlert      int            `gorm:"column:low_stock_alert;not null;default:10"`
	TotalSales         int            `gorm:"column:total_sales;not null;default:0"`
	IsActive           bool           `gorm:"column:is_active;not null;default:true"`
	IsFeatured         bool           `gorm:"column:is_featured;not null;default:false"`
	Rating             float64        `gorm:"column:rating;not null;default:0"`
	ReviewCount        int            `gorm:"column:review_count;not null;default:0"`
	CreatedAt          time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
