package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anikpatel-dev/vyapaar-backend/pkg/db/models"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/enums"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/pagination"
)

func TestRepositoryCommitInventoryGuardsStock(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	repo := NewRepository(db)
	ctx := context.Background()

	committed, err := repo.CommitInventory(ctx, f.product.ID, 4)
	require.NoError(t, err)
	assert.True(t, committed)

	product := reloadProduct(t, db, f.product.ID)
	assert.Equal(t, 6, product.Inventory)
	assert.Equal(t, 4, product.TotalSales)

	// Only 6 left: a bigger decrement must not pass the guard.
	committed, err = repo.CommitInventory(ctx, f.product.ID, 7)
	require.NoError(t, err)
	assert.False(t, committed)

	product = reloadProduct(t, db, f.product.ID)
	assert.Equal(t, 6, product.Inventory)
}

func TestRepositoryReleaseInventoryRestoresStock(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	repo := NewRepository(db)
	ctx := context.Background()

	committed, err := repo.CommitInventory(ctx, f.product.ID, 3)
	require.NoError(t, err)
	require.True(t, committed)

	require.NoError(t, repo.ReleaseInventory(ctx, f.product.ID, 3))

	product := reloadProduct(t, db, f.product.ID)
	assert.Equal(t, 10, product.Inventory)
	assert.Equal(t, 0, product.TotalSales)
}

func TestRepositoryUpsertCustomerCountsOrders(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	repo := NewRepository(db)
	ctx := context.Background()

	first := time.Now().UTC().Truncate(time.Second)
	customer, err := repo.UpsertCustomer(ctx, f.buyer.ID, f.business.ID, first)
	require.NoError(t, err)
	assert.Equal(t, 1, customer.OrderCount)
	require.NotNil(t, customer.LastOrderDate)

	second := first.Add(time.Hour)
	again, err := repo.UpsertCustomer(ctx, f.buyer.ID, f.business.ID, second)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, again.ID)
	assert.Equal(t, 2, again.OrderCount)
	require.NotNil(t, again.LastOrderDate)
	assert.Equal(t, second.Unix(), again.LastOrderDate.Unix())
}

func TestRepositoryRecordDeliveryAccumulatesRevenue(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	repo := NewRepository(db)
	ctx := context.Background()

	customer, err := repo.UpsertCustomer(ctx, f.buyer.ID, f.business.ID, time.Now().UTC())
	require.NoError(t, err)

	order := &models.Order{
		ID:               uuid.New(),
		OrderNumber:      GenerateOrderNumber(),
		UserID:           f.buyer.ID,
		BusinessID:       f.business.ID,
		CustomerID:       customer.ID,
		Status:           enums.OrderStatusDelivered,
		PaymentStatus:    enums.PaymentStatusCompleted,
		FinalAmountPaise: 40400,
	}

	require.NoError(t, repo.RecordDelivery(ctx, order))
	require.NoError(t, repo.RecordDelivery(ctx, order))

	var reloaded models.Customer
	require.NoError(t, db.First(&reloaded, "id = ?", customer.ID).Error)
	assert.Equal(t, int64(80800), reloaded.TotalSpentPaise)

	var business models.Business
	require.NoError(t, db.First(&business, "id = ?", f.business.ID).Error)
	assert.Equal(t, int64(80800), business.TotalRevenuePaise)
	assert.Equal(t, 2, business.TotalOrders)
}

func TestRepositoryListByUserFiltersStatus(t *testing.T) {
	db := newTestDB(t)
	f := seedFixture(t, db)
	repo := NewRepository(db)
	ctx := context.Background()

	customer, err := repo.UpsertCustomer(ctx, f.buyer.ID, f.business.ID, time.Now().UTC())
	require.NoError(t, err)

	statuses := []enums.OrderStatus{
		enums.OrderStatusPending,
		enums.OrderStatusPending,
		enums.OrderStatusDelivered,
	}
	for _, status := range statuses {
		order := &models.Order{
			ID:          uuid.New(),
			OrderNumber: GenerateOrderNumber(),
			UserID:      f.buyer.ID,
			BusinessID:  f.business.ID,
			CustomerID:  customer.ID,
			Status:      status,
		}
		require.NoError(t, repo.Create(ctx, order))
	}

	all, total, err := repo.ListByUser(ctx, f.buyer.ID, ListFilters{}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)

	pending, total, err := repo.ListByUser(ctx, f.buyer.ID, ListFilters{Status: string(enums.OrderStatusPending)}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, pending, 2)
}
