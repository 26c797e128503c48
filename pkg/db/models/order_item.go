package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/anikpatel-dev/vyapaar-backend/pkg/types"
)

// OrderItem captures the priced snapshot of each line within an order.
type OrderItem struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID      `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID       uuid.UUID      `gorm:"column:product_id;type:uuid;not null;index"`
	ProductName     string         `gorm:"column:product_name;not null"`
	Quantity        int            `gorm:"column:quantity;not null"`
	UnitPricePaise  int64          `gorm:"column:unit_price_paise;not null"`
	TotalPricePaise int64          `gorm:"column:total_price_paise;not null"`
	Variant         *types.JSONMap `gorm:"column:variant;type:jsonb;serializer:json"`
	Notes           *string        `gorm:"column:notes"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
}
