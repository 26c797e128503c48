package customers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anikpatel-dev/vyapaar-backend/pkg/db/models"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/enums"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/pagination"
)

// Repository reads the customer relationship rows. All writes except notes
// happen through the order lifecycle, so this surface is read-heavy.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByBusiness returns one page of customers with their user loaded.
func (r *Repository) ListByBusiness(ctx context.Context, businessID uuid.UUID, filters ListFilters, params pagination.Params) ([]models.Customer, int64, error) {
	params = pagination.Normalize(params)

	query := r.db.WithContext(ctx).Model(&models.Customer{}).Where("customers.business_id = ?", businessID)
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.
			Joins("JOIN users ON users.id = customers.user_id").
			Where("users.name ILIKE ? OR users.email ILIKE ? OR users.phone ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var customers []models.Customer
	if err := query.
		Preload("User").
		Order(orderClause(filters.SortBy)).
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&customers).Error; err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

func orderClause(sort Sort) string {
	switch sort {
	case SortOldest:
		return "customers.created_at ASC"
	case SortHighestSpent:
		return "customers.total_spent_paise DESC"
	case SortMostOrders:
		return "customers.order_count DESC"
	default:
		return "customers.created_at DESC"
	}
}

// FindByID loads one customer with its user.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).Preload("User").First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// UpdateNotes overwrites the owner's private notes for a customer.
func (r *Repository) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error {
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", id).
		Update("notes", notes).Error
}

// RecentOrders returns the customer's latest orders with items.
func (r *Repository) RecentOrders(ctx context.Context, customerID uuid.UUID, limit int) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// OrderStats holds the aggregate purchase numbers for one customer.
type OrderStats struct {
	TotalOrders     int64
	CompletedOrders int64
	TotalSpentPaise int64
}

// AggregateOrders computes the customer's order counts and completed spend.
func (r *Repository) AggregateOrders(ctx context.Context, customerID uuid.UUID) (OrderStats, error) {
	var stats OrderStats

	base := r.db.WithContext(ctx).Model(&models.Order{}).Where("customer_id = ?", customerID)
	if err := base.Session(&gorm.Session{}).Count(&stats.TotalOrders).Error; err != nil {
		return stats, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("status = ?", enums.OrderStatusDelivered).
		Count(&stats.CompletedOrders).Error; err != nil {
		return stats, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("payment_status = ?", enums.PaymentStatusCompleted).
		Select("COALESCE(SUM(final_amount_paise), 0)").
		Scan(&stats.TotalSpentPaise).Error; err != nil {
		return stats, err
	}
	return stats, nil
}

// TopCategories ranks the categories of everything the customer bought.
func (r *Repository) TopCategories(ctx context.Context, customerID uuid.UUID, limit int) ([]CategoryCount, error) {
	var counts []CategoryCount
	if err := r.db.WithContext(ctx).
		Table("order_items").
		Select("COALESCE(products.category, 'Uncategorized') AS category, SUM(order_items.quantity) AS count").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("orders.customer_id = ?", customerID).
		Group("COALESCE(products.category, 'Uncategorized')").
		Order("count DESC").
		Limit(limit).
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// CountAll counts every customer of the business.
func (r *Repository) CountAll(ctx context.Context, businessID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Customer{}).
		Where("business_id = ?", businessID).
		Count(&count).Error
	return count, err
}

// CountNewSince counts customers created after the cutoff.
func (r *Repository) CountNewSince(ctx context.Context, businessID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Customer{}).
		Where("business_id = ? AND created_at >= ?", businessID, since).
		Count(&count).Error
	return count, err
}

// CountReturning counts customers with more than one order.
func (r *Repository) CountReturning(ctx context.Context, businessID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Customer{}).
		Where("business_id = ? AND order_count > 1", businessID).
		Count(&count).Error
	return count, err
}

// TopBySpend returns the highest lifetime-spend customers.
func (r *Repository) TopBySpend(ctx context.Context, businessID uuid.UUID, limit int) ([]models.Customer, error) {
	var customers []models.Customer
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("business_id = ?", businessID).
		Order("total_spent_paise DESC").
		Limit(limit).
		Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// SignupDates returns the creation timestamps since the cutoff; the
// service buckets them by month to stay portable across databases.
func (r *Repository) SignupDates(ctx context.Context, businessID uuid.UUID, since time.Time) ([]time.Time, error) {
	var dates []time.Time
	if err := r.db.WithContext(ctx).Model(&models.Customer{}).
		Where("business_id = ? AND created_at >= ?", businessID, since).
		Order("created_at ASC").
		Pluck("created_at", &dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}
