package products

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anikpatel-dev/vyapaar-backend/pkg/db/models"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/pagination"
)

// Repository wires together product persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create persists a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Update saves the provided product.
func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	if product == nil {
		return fmt.Errorf("product is required")
	}
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete removes the product row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// SetInventory overwrites the absolute stock level outside of any order.
func (r *Repository) SetInventory(ctx context.Context, id uuid.UUID, inventory int) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("inventory", inventory).Error
}

// ListByBusiness returns the owner catalog page with filters applied.
func (r *Repository) ListByBusiness(ctx context.Context, businessID uuid.UUID, filters ListFilters, params pagination.Params) ([]models.Product, int64, error) {
	params = pagination.Normalize(params)

	query := r.db.WithContext(ctx).Model(&models.Product{}).Where("business_id = ?", businessID)
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ? OR ? = ANY(tags)", pattern, pattern, filters.Search)
	}
	switch filters.Status {
	case "active":
		query = query.Where("is_active = ?", true)
	case "inactive":
		query = query.Where("is_active = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	if err := query.
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ListPublicByBusiness returns the storefront page: active products only,
// featured first, then the requested ordering.
func (r *Repository) ListPublicByBusiness(ctx context.Context, businessID uuid.UUID, filters PublicListFilters, params pagination.Params) ([]models.Product, int64, error) {
	params = pagination.Normalize(params)

	query := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("business_id = ? AND is_active = ?", businessID, true)
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("name ILIKE ? OR short_description ILIKE ? OR ? = ANY(tags)", pattern, pattern, filters.Search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	if err := query.
		Order("is_featured DESC").
		Order(publicOrderClause(filters.SortBy)).
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func publicOrderClause(sort PublicSort) string {
	switch sort {
	case PublicSortPriceLow:
		return "price_paise ASC"
	case PublicSortPriceHigh:
		return "price_paise DESC"
	case PublicSortPopular:
		return "total_sales DESC"
	default:
		return "created_at DESC"
	}
}

// ListLowStock returns active products at or below their alert threshold.
func (r *Repository) ListLowStock(ctx context.Context, businessID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND is_active = ? AND inventory <= low_stock_alert", businessID, true).
		Order("inventory ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
