package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents the canonical identity entity. Sessions live in the
// external auth service; only the local register path stores a hash here.
type User struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email            string     `gorm:"type:text;not null;uniqueIndex"`
	Name             string     `gorm:"column:name;not null"`
	Phone            *string    `gorm:"column:phone;uniqueIndex"`
	PasswordHash     *string    `gorm:"column:password_hash"`
	ImageURL         *string    `gorm:"column:image_url"`
	BusinessEnrolled bool       `gorm:"column:business_enrolled;not null;default:false"`
	LastLoginAt      *time.Time `gorm:"column:last_login_at"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
