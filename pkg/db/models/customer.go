package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the per-business relationship row for a purchasing user.
// Rows are created and updated only by the order lifecycle, never directly.
type Customer struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ux_customers_user_business"`
	BusinessID      uuid.UUID  `gorm:"column:business_id;type:uuid;not null;index;uniqueIndex:ux_customers_user_business"`
	OrderCount      int        `gorm:"column:order_count;not null;default:0"`
	TotalSpentPaise int64      `gorm:"column:total_spent_paise;not null;default:0"`
	LastOrderDate   *time.Time `gorm:"column:last_order_date"`
	Notes           *string    `gorm:"column:notes"`
	User            *User      `gorm:"foreignKey:UserID"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
