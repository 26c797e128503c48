package links

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anikpatel-dev/vyapaar-backend/pkg/db/models"
)

// Repository persists tracking and checkout links. Counter bumps are plain
// atomic increments; the public endpoints make no idempotency promise.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateTracking(ctx context.Context, link *models.TrackingLink) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *Repository) FindTracking(ctx context.Context, id uuid.UUID) (*models.TrackingLink, error) {
	var link models.TrackingLink
	if err := r.db.WithContext(ctx).First(&link, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// ListTracking returns all campaign links of a business, newest first.
func (r *Repository) ListTracking(ctx context.Context, businessID uuid.UUID, search string) ([]models.TrackingLink, error) {
	query := r.db.WithContext(ctx).Where("business_id = ?", businessID)
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR url ILIKE ?", pattern, pattern)
	}

	var rows []models.TrackingLink
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) SaveTracking(ctx context.Context, link *models.TrackingLink) error {
	return r.db.WithContext(ctx).Save(link).Error
}

func (r *Repository) DeleteTracking(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.TrackingLink{}, "id = ?", id).Error
}

// BumpTrackingClick atomically increments the click counter.
func (r *Repository) BumpTrackingClick(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.TrackingLink{}).
		Where("id = ?", id).
		UpdateColumn("clicks", gorm.Expr("clicks + 1"))
	return result.RowsAffected, result.Error
}

// BumpTrackingConversion atomically increments conversions and, when
// provided, adds the attributed revenue.
func (r *Repository) BumpTrackingConversion(ctx context.Context, id uuid.UUID, revenuePaise int64) (int64, error) {
	updates := map[string]any{
		"conversions": gorm.Expr("conversions + 1"),
	}
	if revenuePaise > 0 {
		updates["revenue_paise"] = gorm.Expr("revenue_paise + ?", revenuePaise)
	}
	result := r.db.WithContext(ctx).
		Model(&models.TrackingLink{}).
		Where("id = ?", id).
		UpdateColumns(updates)
	return result.RowsAffected, result.Error
}

func (r *Repository) CreateCheckout(ctx context.Context, link *models.CheckoutLink) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *Repository) FindCheckout(ctx context.Context, id uuid.UUID) (*models.CheckoutLink, error) {
	var link models.CheckoutLink
	if err := r.db.WithContext(ctx).First(&link, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// FindCheckoutBySlug loads the slug's link with its product attached.
func (r *Repository) FindCheckoutBySlug(ctx context.Context, slug string) (*models.CheckoutLink, error) {
	var link models.CheckoutLink
	if err := r.db.WithContext(ctx).Preload("Product").First(&link, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// ListCheckout returns all checkout links of a business, newest first.
func (r *Repository) ListCheckout(ctx context.Context, businessID uuid.UUID, search string) ([]models.CheckoutLink, error) {
	query := r.db.WithContext(ctx).Where("business_id = ?", businessID)
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR slug ILIKE ?", pattern, pattern)
	}

	var rows []models.CheckoutLink
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) SaveCheckout(ctx context.Context, link *models.CheckoutLink) error {
	return r.db.WithContext(ctx).Save(link).Error
}

func (r *Repository) DeleteCheckout(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CheckoutLink{}, "id = ?", id).Error
}

// BumpCheckoutClick atomically increments the slug's click counter.
func (r *Repository) BumpCheckoutClick(ctx context.Context, slug string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CheckoutLink{}).
		Where("slug = ?", slug).
		UpdateColumn("clicks", gorm.Expr("clicks + 1"))
	return result.RowsAffected, result.Error
}

// BumpCheckoutConversion atomically increments the slug's conversions.
func (r *Repository) BumpCheckoutConversion(ctx context.Context, slug string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CheckoutLink{}).
		Where("slug = ?", slug).
		UpdateColumn("conversions", gorm.Expr("conversions + 1"))
	return result.RowsAffected, result.Error
}

// FindProduct loads a product row for the business-membership check.
func (r *Repository) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}
