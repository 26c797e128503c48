package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anikpatel-dev/vyapaar-backend/pkg/config"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/db/models"
	pkgerrors "github.com/anikpatel-dev/vyapaar-backend/pkg/errors"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/security"
)

type userRepository interface {
	Create(ctx context.Context, dto CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, updates map[string]any) error
	SetBusinessEnrolled(ctx context.Context, id uuid.UUID, enrolled bool) error
}

// RegisterInput contains the payload for local account creation.
type RegisterInput struct {
	Name     string  `json:"name" validate:"required,min=2"`
	Email    string  `json:"email" validate:"required,email"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=10"`
	Password string  `json:"password" validate:"required,min=8"`
}

// UpdateProfileInput captures the editable profile fields.
type UpdateProfileInput struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=10"`
	ImageURL *string `json:"imageUrl,omitempty" validate:"omitempty,url"`
}

// Service exposes user account operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*UserDTO, error)
	GetCurrent(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserDTO, error)
	EnrollInBusiness(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
}

type service struct {
	repo        userRepository
	passwordCfg config.PasswordConfig
}

// NewService builds the users service.
func NewService(repo userRepository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "users repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

// Register creates a local account. New users are enrolled for business
// creation immediately; the platform has no separate seller approval step.
func (s *service) Register(ctx context.Context, input RegisterInput) (*UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
	}

	if input.Phone != nil && strings.TrimSpace(*input.Phone) != "" {
		if _, err := s.repo.FindByPhone(ctx, *input.Phone); err == nil {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "phone already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user phone")
		}
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.repo.Create(ctx, CreateUserDTO{
		Email:            email,
		Name:             strings.TrimSpace(input.Name),
		Phone:            input.Phone,
		PasswordHash:     &hash,
		BusinessEnrolled: true,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}
	return FromModel(user), nil
}

// GetCurrent loads the caller's profile.
func (s *service) GetCurrent(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading user")
	}
	return FromModel(user), nil
}

// UpdateProfile applies partial profile edits.
func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserDTO, error) {
	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if len(updates) == 0 {
		return s.GetCurrent(ctx, userID)
	}

	if err := s.repo.UpdateProfile(ctx, userID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating profile")
	}
	return s.GetCurrent(ctx, userID)
}

// EnrollInBusiness marks the user as a business owner candidate.
func (s *service) EnrollInBusiness(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	if _, err := s.GetCurrent(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.repo.SetBusinessEnrolled(ctx, userID, true); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating enrollment")
	}
	return s.GetCurrent(ctx, userID)
}
