package businesses

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anikpatel-dev/vyapaar-backend/internal/ownership"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/db/models"
	pkgerrors "github.com/anikpatel-dev/vyapaar-backend/pkg/errors"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/pagination"
)

const (
	defaultAnalyticsDays = 30
	recentOrderLimit     = 10
	topProductLimit      = 5
)

type businessRepository interface {
	Create(ctx context.Context, business *models.Business) (*models.Business, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Business, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Business, error)
	CountRelated(ctx context.Context, businessID uuid.UUID) (BusinessCounts, error)
	Update(ctx context.Context, business *models.Business) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListPublic(ctx context.Context, filters PublicListFilters, params pagination.Params) ([]models.Business, int64, error)
	AggregateWindow(ctx context.Context, businessID uuid.UUID, since time.Time) (AnalyticsWindow, error)
	RecentOrders(ctx context.Context, businessID uuid.UUID, limit int) ([]models.Order, error)
	TopProducts(ctx context.Context, businessID uuid.UUID, limit int) ([]models.Product, error)
}

type ownershipGuard interface {
	RequireBusiness(ctx context.Context, actorID, businessID uuid.UUID) (*models.Business, error)
}

// AnalyticsDTO is the owner dashboard rollup for one business.
type AnalyticsDTO struct {
	RevenuePaise   int64            `json:"revenuePaise"`
	Orders         int64            `json:"orders"`
	Customers      int64            `json:"customers"`
	ActiveProducts int64            `json:"activeProducts"`
	RecentOrders   []models.Order   `json:"recentOrders"`
	TopProducts    []models.Product `json:"topProducts"`
	WindowDays     int              `json:"windowDays"`
}

// Service exposes business operations.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateBusinessInput) (*BusinessDTO, error)
	ListMine(ctx context.Context, ownerID uuid.UUID) ([]BusinessWithCounts, error)
	GetByID(ctx context.Context, actorID, businessID uuid.UUID) (*BusinessDTO, error)
	GetPublic(ctx context.Context, businessID uuid.UUID) (*PublicBusinessDTO, error)
	ListPublic(ctx context.Context, filters PublicListFilters, params pagination.Params) (*PublicBusinessList, error)
	Update(ctx context.Context, actorID, businessID uuid.UUID, input UpdateBusinessInput) (*BusinessDTO, error)
	Delete(ctx context.Context, actorID, businessID uuid.UUID) error
	ToggleActive(ctx context.Context, actorID, businessID uuid.UUID) (*BusinessDTO, error)
	Analytics(ctx context.Context, actorID, businessID uuid.UUID, days int) (*AnalyticsDTO, error)
}

type service struct {
	repo  businessRepository
	guard ownershipGuard
}

// NewService builds the businesses service.
func NewService(repo businessRepository, guard ownershipGuard) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "business repository required")
	}
	if guard == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "ownership guard required")
	}
	return &service{repo: repo, guard: guard}, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateBusinessInput) (*BusinessDTO, error) {
	business, err := s.repo.Create(ctx, input.ToModel(ownerID))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating business")
	}
	return FromModel(business), nil
}

func (s *service) ListMine(ctx context.Context, ownerID uuid.UUID) ([]BusinessWithCounts, error) {
	businesses, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing businesses")
	}

	result := make([]BusinessWithCounts, 0, len(businesses))
	for i := range businesses {
		counts, err := s.repo.CountRelated(ctx, businesses[i].ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting related rows")
		}
		result = append(result, BusinessWithCounts{
			BusinessDTO: *FromModel(&businesses[i]),
			Counts:      counts,
		})
	}
	return result, nil
}

// GetByID serves the owner their business, or anyone an active one.
func (s *service) GetByID(ctx context.Context, actorID, businessID uuid.UUID) (*BusinessDTO, error) {
	business, err := s.repo.FindByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "business not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading business")
	}
	if business.OwnerID != actorID && !business.IsActive {
		return nil, ownership.ErrNotOwner
	}
	return FromModel(business), nil
}

func (s *service) GetPublic(ctx context.Context, businessID uuid.UUID) (*PublicBusinessDTO, error) {
	business, err := s.repo.FindByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "business not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading business")
	}
	if !business.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "business not found")
	}
	return PublicFromModel(business), nil
}

func (s *service) ListPublic(ctx context.Context, filters PublicListFilters, params pagination.Params) (*PublicBusinessList, error) {
	businesses, total, err := s.repo.ListPublic(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing public businesses")
	}

	items := make([]PublicBusinessDTO, 0, len(businesses))
	for i := range businesses {
		items = append(items, *PublicFromModel(&businesses[i]))
	}
	return &PublicBusinessList{
		Businesses: items,
		Meta:       pagination.MetaFor(total, params),
	}, nil
}

func (s *service) Update(ctx context.Context, actorID, businessID uuid.UUID, input UpdateBusinessInput) (*BusinessDTO, error) {
	business, err := s.guard.RequireBusiness(ctx, actorID, businessID)
	if err != nil {
		return nil, err
	}

	applyUpdates(business, input)
	if err := s.repo.Update(ctx, business); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating business")
	}
	return FromModel(business), nil
}

func (s *service) Delete(ctx context.Context, actorID, businessID uuid.UUID) error {
	if _, err := s.guard.RequireBusiness(ctx, actorID, businessID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, businessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting business")
	}
	return nil
}

func (s *service) ToggleActive(ctx context.Context, actorID, businessID uuid.UUID) (*BusinessDTO, error) {
	business, err := s.guard.RequireBusiness(ctx, actorID, businessID)
	if err != nil {
		return nil, err
	}

	business.IsActive = !business.IsActive
	if err := s.repo.Update(ctx, business); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "toggling business")
	}
	return FromModel(business), nil
}

func (s *service) Analytics(ctx context.Context, actorID, businessID uuid.UUID, days int) (*AnalyticsDTO, error) {
	if _, err := s.guard.RequireBusiness(ctx, actorID, businessID); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = defaultAnalyticsDays
	}
	since := time.Now().AddDate(0, 0, -days)

	window, err := s.repo.AggregateWindow(ctx, businessID, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregating analytics")
	}
	recent, err := s.repo.RecentOrders(ctx, businessID, recentOrderLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading recent orders")
	}
	top, err := s.repo.TopProducts(ctx, businessID, topProductLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading top products")
	}

	return &AnalyticsDTO{
		RevenuePaise:   window.RevenuePaise,
		Orders:         window.Orders,
		Customers:      window.Customers,
		ActiveProducts: window.ActiveProducts,
		RecentOrders:   recent,
		TopProducts:    top,
		WindowDays:     days,
	}, nil
}

func applyUpdates(business *models.Business, input UpdateBusinessInput) {
	if input.Name != nil {
		business.Name = *input.Name
	}
	if input.Description != nil {
		business.Description = input.Description
	}
	if input.Category != nil {
		business.Category = input.Category
	}
	if input.LogoURL != nil {
		business.LogoURL = input.LogoURL
	}
	if input.CoverImageURL != nil {
		business.CoverImageURL = input.CoverImageURL
	}
	if input.ContactEmail != nil {
		business.ContactEmail = input.ContactEmail
	}
	if input.ContactPhone != nil {
		business.ContactPhone = input.ContactPhone
	}
	if input.Address != nil {
		business.Address = input.Address
	}
	if input.City != nil {
		business.City = input.City
	}
	if input.State != nil {
		business.State = input.State
	}
	if input.ZipCode != nil {
		business.ZipCode = input.ZipCode
	}
	if input.Country != nil && *input.Country != "" {
		business.Country = *input.Country
	}
	if input.Website != nil {
		business.Website = input.Website
	}
	if input.UPIID != nil {
		business.UPIID = input.UPIID
	}
	if input.BankAccount != nil {
		business.BankAccount = input.BankAccount
	}
	if input.IFSCCode != nil {
		business.IFSCCode = input.IFSCCode
	}
	if input.GSTIN != nil {
		business.GSTIN = input.GSTIN
	}
}
