package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anikpatel-dev/vyapaar-backend/pkg/db/models"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/enums"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/pagination"
)

// Repository wires together order persistence helpers. Mutating methods
// are designed to run inside a caller-owned transaction via WithTx.
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

// Create inserts the order together with its items.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByID loads the order with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatusTransition writes the order's status move only while the row
// still holds the status the caller read. Like CommitInventory, the WHERE
// guard is the concurrency barrier; false means another writer moved the
// order first.
func (r *Repository) UpdateStatusTransition(ctx context.Context, order *models.Order, from enums.OrderStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, from).
		Updates(map[string]any{
			"status":             order.Status,
			"payment_status":     order.PaymentStatus,
			"estimated_delivery": order.EstimatedDelivery,
			"delivered_at":       order.DeliveredAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// FindBusiness loads the target business row.
func (r *Repository) FindBusiness(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	var business models.Business
	if err := r.db.WithContext(ctx).First(&business, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

// FindProducts loads the requested products scoped to one business.
func (r *Repository) FindProducts(ctx context.Context, businessID uuid.UUID, ids []uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND id IN ?", businessID, ids).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// CommitInventory conditionally decrements stock and bumps the sales
// counter. The WHERE guard is the concurrency barrier: two orders racing
// for the last units cannot both pass it, and false reports the loss.
func (r *Repository) CommitInventory(ctx context.Context, productID uuid.UUID, quantity int) (bool, error) {
	result := r.db.WithContext(ctx).Exec(
		"UPDATE products SET inventory = inventory - ?, total_sales = total_sales + ? WHERE id = ? AND inventory >= ?",
		quantity, quantity, productID, quantity,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ReleaseInventory undoes a committed decrement during cancellation.
func (r *Repository) ReleaseInventory(ctx context.Context, productID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).Exec(
		"UPDATE products SET inventory = inventory + ?, total_sales = total_sales - ? WHERE id = ?",
		quantity, quantity, productID,
	).Error
}

// UpsertCustomer finds or creates the per-business relationship row and
// advances its order counters.
func (r *Repository) UpsertCustomer(ctx context.Context, userID, businessID uuid.UUID, at time.Time) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND business_id = ?", userID, businessID).
		First(&customer).Error
	switch {
	case err == nil:
		customer.OrderCount++
		customer.LastOrderDate = &at
		if err := r.db.WithContext(ctx).Save(&customer).Error; err != nil {
			return nil, err
		}
		return &customer, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		customer = models.Customer{
			UserID:        userID,
			BusinessID:    businessID,
			OrderCount:    1,
			LastOrderDate: &at,
		}
		if err := r.db.WithContext(ctx).Create(&customer).Error; err != nil {
			return nil, err
		}
		return &customer, nil
	default:
		return nil, err
	}
}

// RecordDelivery applies the revenue-recognition side effects of the
// DELIVERED transition: customer lifetime spend and the business totals.
// The order row itself is saved by the caller in the same transaction.
func (r *Repository) RecordDelivery(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", order.CustomerID).
		UpdateColumn("total_spent_paise", gorm.Expr("total_spent_paise + ?", order.FinalAmountPaise)).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.Business{}).
		Where("id = ?", order.BusinessID).
		UpdateColumns(map[string]any{
			"total_revenue_paise": gorm.Expr("total_revenue_paise + ?", order.FinalAmountPaise),
			"total_orders":        gorm.Expr("total_orders + 1"),
		}).Error
}

// ListByUser returns the purchaser's orders, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, filters ListFilters, params pagination.Params) ([]models.Order, int64, error) {
	params = pagination.Normalize(params)

	query := r.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	return listPage(query, params)
}

// ListByBusiness returns the owner-side order page.
func (r *Repository) ListByBusiness(ctx context.Context, businessID uuid.UUID, filters ListFilters, params pagination.Params) ([]models.Order, int64, error) {
	params = pagination.Normalize(params)

	query := r.db.WithContext(ctx).Model(&models.Order{}).Where("business_id = ?", businessID)
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Search != "" {
		query = query.Where("order_number ILIKE ?", "%"+filters.Search+"%")
	}
	return listPage(query, params)
}

func listPage(query *gorm.DB, params pagination.Params) ([]models.Order, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var orders []models.Order
	if err := query.
		Preload("Items").
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// StatusCounts groups the window's orders by status.
func (r *Repository) StatusCounts(ctx context.Context, businessID uuid.UUID, since time.Time) ([]StatusCount, error) {
	var counts []StatusCount
	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Where("business_id = ? AND created_at >= ?", businessID, since).
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// WindowTotals holds the aggregate numbers for the analytics window.
type WindowTotals struct {
	TotalOrders     int64
	CompletedOrders int64
	RevenuePaise    int64
}

// AggregateWindow computes order totals and delivered revenue for the window.
func (r *Repository) AggregateWindow(ctx context.Context, businessID uuid.UUID, since time.Time) (WindowTotals, error) {
	var totals WindowTotals

	base := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("business_id = ? AND created_at >= ?", businessID, since)

	if err := base.Session(&gorm.Session{}).Count(&totals.TotalOrders).Error; err != nil {
		return totals, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("payment_status = ?", enums.PaymentStatusCompleted).
		Count(&totals.CompletedOrders).Error; err != nil {
		return totals, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("payment_status = ?", enums.PaymentStatusCompleted).
		Select("COALESCE(SUM(final_amount_paise), 0)").
		Scan(&totals.RevenuePaise).Error; err != nil {
		return totals, err
	}
	return totals, nil
}

// DailySeries returns per-day order counts and delivered revenue.
func (r *Repository) DailySeries(ctx context.Context, businessID uuid.UUID, since time.Time) ([]DailyPoint, error) {
	var points []DailyPoint
	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("DATE(created_at) AS day, COUNT(*) AS orders, COALESCE(SUM(CASE WHEN payment_status = ? THEN final_amount_paise ELSE 0 END), 0) AS revenue_paise", enums.PaymentStatusCompleted).
		Where("business_id = ? AND created_at >= ?", businessID, since).
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&points).Error; err != nil {
		return nil, err
	}
	return points, nil
}
