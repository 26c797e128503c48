package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/anikpatel-dev/vyapaar-backend/pkg/db/models"
)

// UserDTO is the transport shape that omits credentials.
type UserDTO struct {
	ID               uuid.UUID  `json:"id"`
	Email            string     `json:"email"`
	Name             string     `json:"name"`
	Phone            *string    `json:"phone,omitempty"`
	ImageURL         *string    `json:"imageUrl,omitempty"`
	BusinessEnrolled bool       `json:"businessEnrolled"`
	LastLoginAt      *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email            string
	Name             string
	Phone            *string
	PasswordHash     *string
	BusinessEnrolled bool
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		Phone:            u.Phone,
		ImageURL:         u.ImageURL,
		BusinessEnrolled: u.BusinessEnrolled,
		LastLoginAt:      u.LastLoginAt,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Email:            c.Email,
		Name:             c.Name,
		Phone:            c.Phone,
		PasswordHash:     c.PasswordHash,
		BusinessEnrolled: c.BusinessEnrolled,
	}
}
