package businesses

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anikpatel-dev/vyapaar-backend/pkg/db/models"
	pkgerrors "github.com/anikpatel-dev/vyapaar-backend/pkg/errors"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/pagination"
)

type fakeRepository struct {
	createFn          func(ctx context.Context, business *models.Business) (*models.Business, error)
	findByIDFn        func(ctx context.Context, id uuid.UUID) (*models.Business, error)
	findByOwnerFn     func(ctx context.Context, ownerID uuid.UUID) ([]models.Business, error)
	countRelatedFn    func(ctx context.Context, businessID uuid.UUID) (BusinessCounts, error)
	updateFn          func(ctx context.Context, business *models.Business) error
	deleteFn          func(ctx context.Context, id uuid.UUID) error
	listPublicFn      func(ctx context.Context, filters PublicListFilters, params pagination.Params) ([]models.Business, int64, error)
	aggregateWindowFn func(ctx context.Context, businessID uuid.UUID, since time.Time) (AnalyticsWindow, error)
	recentOrdersFn    func(ctx context.Context, businessID uuid.UUID, limit int) ([]models.Order, error)
	topProductsFn     func(ctx context.Context, businessID uuid.UUID, limit int) ([]models.Product, error)
}

func (f *fakeRepository) Create(ctx context.Context, business *models.Business) (*models.Business, error) {
	return f.createFn(ctx, business)
}

func (f *fakeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakeRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Business, error) {
	return f.findByOwnerFn(ctx, ownerID)
}

func (f *fakeRepository) CountRelated(ctx context.Context, businessID uuid.UUID) (BusinessCounts, error) {
	return f.countRelatedFn(ctx, businessID)
}

func (f *fakeRepository) Update(ctx context.Context, business *models.Business) error {
	return f.updateFn(ctx, business)
}

func (f *fakeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return f.deleteFn(ctx, id)
}

func (f *fakeRepository) ListPublic(ctx context.Context, filters PublicListFilters, params pagination.Params) ([]models.Business, int64, error) {
	return f.listPublicFn(ctx, filters, params)
}

func (f *fakeRepository) AggregateWindow(ctx context.Context, businessID uuid.UUID, since time.Time) (AnalyticsWindow, error) {
	return f.aggregateWindowFn(ctx, businessID, since)
}

func (f *fakeRepository) RecentOrders(ctx context.Context, businessID uuid.UUID, limit int) ([]models.Order, error) {
	return f.recentOrdersFn(ctx, businessID, limit)
}

func (f *fakeRepository) TopProducts(ctx context.Context, businessID uuid.UUID, limit int) ([]models.Product, error) {
	return f.topProductsFn(ctx, businessID, limit)
}

type fakeGuard struct {
	requireBusinessFn func(ctx context.Context, actorID, businessID uuid.UUID) (*models.Business, error)
}

func (f *fakeGuard) RequireBusiness(ctx context.Context, actorID, businessID uuid.UUID) (*models.Business, error) {
	return f.requireBusinessFn(ctx, actorID, businessID)
}

func allowGuard(business *models.Business) *fakeGuard {
	return &fakeGuard{
		requireBusinessFn: func(ctx context.Context, actorID, businessID uuid.UUID) (*models.Business, error) {
			return business, nil
		},
	}
}

func denyGuard() *fakeGuard {
	return &fakeGuard{
		requireBusinessFn: func(ctx context.Context, actorID, businessID uuid.UUID) (*models.Business, error) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
		},
	}
}

func TestCreateDefaultsCountry(t *testing.T) {
	ownerID := uuid.New()
	repo := &fakeRepository{
		createFn: func(ctx context.Context, business *models.Business) (*models.Business, error) {
			business.ID = uuid.New()
			return business, nil
		},
	}
	svc, err := NewService(repo, allowGuard(nil))
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	dto, err := svc.Create(context.Background(), ownerID, CreateBusinessInput{Name: "Chai Corner"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if dto.Country != "India" {
		t.Fatalf("expected default country India, got %q", dto.Country)
	}
	if !dto.IsActive {
		t.Fatal("new businesses should start active")
	}
	if dto.OwnerID != ownerID {
		t.Fatalf("unexpected owner %s", dto.OwnerID)
	}
}

func TestGetByIDHidesInactiveFromStrangers(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	business := &models.Business{ID: uuid.New(), OwnerID: owner, Name: "Hidden", IsActive: false}

	repo := &fakeRepository{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Business, error) {
			return business, nil
		},
	}
	svc, _ := NewService(repo, allowGuard(business))

	if _, err := svc.GetByID(context.Background(), owner, business.ID); err != nil {
		t.Fatalf("owner should see inactive business: %v", err)
	}

	_, err := svc.GetByID(context.Background(), stranger, business.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for stranger, got %v", err)
	}
}

func TestGetPublicRequiresActive(t *testing.T) {
	business := &models.Business{ID: uuid.New(), OwnerID: uuid.New(), Name: "Paused", IsActive: false}
	repo := &fakeRepository{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Business, error) {
			return business, nil
		},
	}
	svc, _ := NewService(repo, allowGuard(business))

	_, err := svc.GetPublic(context.Background(), business.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for inactive public read, got %v", err)
	}
}

func TestGetByIDMissing(t *testing.T) {
	repo := &fakeRepository{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Business, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc, _ := NewService(repo, denyGuard())

	_, err := svc.GetByID(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateDeniedForNonOwner(t *testing.T) {
	repo := &fakeRepository{}
	svc, _ := NewService(repo, denyGuard())

	name := "nope"
	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), UpdateBusinessInput{Name: &name})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestToggleActiveFlips(t *testing.T) {
	business := &models.Business{ID: uuid.New(), OwnerID: uuid.New(), Name: "Flip", IsActive: true, Country: "India"}
	var saved *models.Business
	repo := &fakeRepository{
		updateFn: func(ctx context.Context, b *models.Business) error {
			saved = b
			return nil
		},
	}
	svc, _ := NewService(repo, allowGuard(business))

	dto, err := svc.ToggleActive(context.Background(), business.OwnerID, business.ID)
	if err != nil {
		t.Fatalf("ToggleActive failed: %v", err)
	}
	if dto.IsActive {
		t.Fatal("expected toggle to deactivate")
	}
	if saved == nil || saved.IsActive {
		t.Fatal("expected deactivated business to be saved")
	}
}

func TestAnalyticsDefaultsWindow(t *testing.T) {
	business := &models.Business{ID: uuid.New(), OwnerID: uuid.New(), Country: "India"}
	var gotSince time.Time
	repo := &fakeRepository{
		aggregateWindowFn: func(ctx context.Context, businessID uuid.UUID, since time.Time) (AnalyticsWindow, error) {
			gotSince = since
			return AnalyticsWindow{RevenuePaise: 40400, Orders: 1, Customers: 1, ActiveProducts: 2}, nil
		},
		recentOrdersFn: func(ctx context.Context, businessID uuid.UUID, limit int) ([]models.Order, error) {
			return nil, nil
		},
		topProductsFn: func(ctx context.Context, businessID uuid.UUID, limit int) ([]models.Product, error) {
			return nil, nil
		},
	}
	svc, _ := NewService(repo, allowGuard(business))

	dto, err := svc.Analytics(context.Background(), business.OwnerID, business.ID, 0)
	if err != nil {
		t.Fatalf("Analytics failed: %v", err)
	}
	if dto.WindowDays != 30 {
		t.Fatalf("expected default 30 day window, got %d", dto.WindowDays)
	}
	if dto.RevenuePaise != 40400 {
		t.Fatalf("unexpected revenue %d", dto.RevenuePaise)
	}
	expected := time.Now().AddDate(0, 0, -30)
	if gotSince.Before(expected.Add(-time.Minute)) || gotSince.After(expected.Add(time.Minute)) {
		t.Fatalf("unexpected window start %v", gotSince)
	}
}
