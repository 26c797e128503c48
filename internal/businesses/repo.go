package businesses

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anikpatel-dev/vyapaar-backend/pkg/db/models"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/enums"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/pagination"
)

// Repository handles business persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to business operations.
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

// Create persists a new business row.
func (r *Repository) Create(ctx context.Context, business *models.Business) (*models.Business, error) {
	if err := r.db.WithContext(ctx).Create(business).Error; err != nil {
		return nil, err
	}
	return business, nil
}

// FindByID loads a business by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	var business models.Business
	if err := r.db.WithContext(ctx).First(&business, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

// FindByOwner returns all businesses owned by the provided user, newest first.
func (r *Repository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Business, error) {
	var businesses []models.Business
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&businesses).Error; err != nil {
		return nil, err
	}
	return businesses, nil
}

// CountRelated returns the product/customer/order counts for a business.
func (r *Repository) CountRelated(ctx context.Context, businessID uuid.UUID) (BusinessCounts, error) {
	var counts BusinessCounts
	tx := r.db.WithContext(ctx)
	if err := tx.Model(&models.Product{}).Where("business_id = ?", businessID).Count(&counts.Products).Error; err != nil {
		return counts, err
	}
	if err := tx.Model(&models.Customer{}).Where("business_id = ?", businessID).Count(&counts.Customers).Error; err != nil {
		return counts, err
	}
	if err := tx.Model(&models.Order{}).Where("business_id = ?", businessID).Count(&counts.Orders).Error; err != nil {
		return counts, err
	}
	return counts, nil
}

// Update saves the provided business.
func (r *Repository) Update(ctx context.Context, business *models.Business) error {
	if business == nil {
		return fmt.Errorf("business is required")
	}
	return r.db.WithContext(ctx).Save(business).Error
}

// Delete removes the business row. Dependent rows cascade in Postgres.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Business{}, "id = ?", id).Error
}

// ListPublic returns active businesses matching the directory filters.
func (r *Repository) ListPublic(ctx context.Context, filters PublicListFilters, params pagination.Params) ([]models.Business, int64, error) {
	params = pagination.Normalize(params)

	query := r.db.WithContext(ctx).Model(&models.Business{}).Where("is_active = ?", true)
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.City != "" {
		query = query.Where("city = ?", filters.City)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var businesses []models.Business
	if err := query.
		Order("is_verified DESC, rating DESC, total_orders DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&businesses).Error; err != nil {
		return nil, 0, err
	}
	return businesses, total, nil
}

// AnalyticsWindow aggregates per-business stats over a trailing window.
type AnalyticsWindow struct {
	RevenuePaise   int64
	Orders         int64
	Customers      int64
	ActiveProducts int64
}

// AggregateWindow computes the analytics counters for the trailing window.
func (r *Repository) AggregateWindow(ctx context.Context, businessID uuid.UUID, since time.Time) (AnalyticsWindow, error) {
	var window AnalyticsWindow
	tx := r.db.WithContext(ctx)

	err := tx.Model(&models.Order{}).
		Where("business_id = ? AND payment_status = ? AND created_at >= ?", businessID, enums.PaymentStatusCompleted, since).
		Select("COALESCE(SUM(final_amount_paise), 0)").
		Scan(&window.RevenuePaise).Error
	if err != nil {
		return window, err
	}

	if err := tx.Model(&models.Order{}).
		Where("business_id = ? AND created_at >= ?", businessID, since).
		Count(&window.Orders).Error; err != nil {
		return window, err
	}

	if err := tx.Model(&models.Customer{}).
		Where("business_id = ?", businessID).
		Count(&window.Customers).Error; err != nil {
		return window, err
	}

	if err := tx.Model(&models.Product{}).
		Where("business_id = ? AND is_active = ?", businessID, true).
		Count(&window.ActiveProducts).Error; err != nil {
		return window, err
	}

	return window, nil
}

// RecentOrders returns the latest orders with their items preloaded.
func (r *Repository) RecentOrders(ctx context.Context, businessID uuid.UUID, limit int) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("business_id = ?", businessID).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// TopProducts returns the best sellers for the business.
func (r *Repository) TopProducts(ctx context.Context, businessID uuid.UUID, limit int) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("total_sales DESC").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
