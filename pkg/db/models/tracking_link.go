package models

import (
	"time"

	"github.com/google/uuid"
)

// TrackingLink is a campaign URL with public, non-idempotent counters.
type TrackingLink struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	BusinessID   uuid.UUID `gorm:"column:business_id;type:uuid;not null;index"`
	Name         string    `gorm:"column:name;not null"`
	URL          string    `gorm:"column:url;not null"`
	UTMSource    *string   `gorm:"column:utm_source"`
	UTMMedium    *string   `gorm:"column:utm_medium"`
	UTMCampaign  *string   `gorm:"column:utm_campaign"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true"`
	Clicks       int       `gorm:"column:clicks;not null;default:0"`
	Conversions  int       `gorm:"column:conversions;not null;default:0"`
	RevenuePaise int64     `gorm:"column:revenue_paise;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
