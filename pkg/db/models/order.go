package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/anikpatel-dev/vyapaar-backend/pkg/enums"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/types"
)

// Order is the purchase record. All amounts are paise. Address snapshots
// are captured at order time as jsonb.
type Order struct {
	ID                  uuid.UUID           `gorm:"type:uuid;primaryKey"`
	OrderNumber         string              `gorm:"column:order_number;not null;uniqueIndex"`
	UserID              uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	BusinessID          uuid.UUID           `gorm:"column:business_id;type:uuid;not null;index"`
	CustomerID          uuid.UUID           `gorm:"column:customer_id;type:uuid;not null;index"`
	Status              enums.OrderStatus   `gorm:"column:status;type:order_status;not null;default:'PENDING'"`
	PaymentStatus       enums.PaymentStatus `gorm:"column:payment_status;type:payment_status;not null;default:'PENDING'"`
	TotalAmountPaise    int64               `gorm:"column:total_amount_paise;not null"`
	DiscountAmountPaise int64               `gorm:"column:discount_amount_paise;not null;default:0"`
	TaxAmountPaise      int64               `gorm:"column:tax_amount_paise;not null;default:0"`
	ShippingAmountPaise int64               `gorm:"column:shipping_amount_paise;not null;default:0"`
	FinalAmountPaise    int64               `gorm:"column:final_amount_paise;not null"`
	ShippingAddress     types.Address       `gorm:"column:shipping_address;type:jsonb;serializer:json;not null"`
	BillingAddress      *types.Address      `gorm:"column:billing_address;type:jsonb;serializer:json"`
	Notes               *string             `gorm:"column:notes"`
	EstimatedDelivery   *time.Time          `gorm:"column:estimated_delivery"`
	DeliveredAt         *time.Time          `gorm:"column:delivered_at"`
	Items               []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
