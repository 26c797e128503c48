package customers

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/anikpatel-dev/vyapaar-backend/internal/ownership"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/db/models"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/enums"
	pkgerrors "github.com/anikpatel-dev/vyapaar-backend/pkg/errors"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/pagination"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:customers_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.User{},
		&models.Business{},
		&models.Product{},
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), ownership.NewGuard(db))
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc
}

type fixture struct {
	ownerID  uuid.UUID
	business *models.Business
}

func seedBusiness(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	owner := &models.User{ID: uuid.New(), Email: uuid.NewString() + "@owner.test", Name: "Owner"}
	if err := db.Create(owner).Error; err != nil {
		t.Fatalf("seeding owner failed: %v", err)
	}
	business := &models.Business{ID: uuid.New(), OwnerID: owner.ID, Name: "Chai Corner", IsActive: true}
	if err := db.Create(business).Error; err != nil {
		t.Fatalf("seeding business failed: %v", err)
	}
	return fixture{ownerID: owner.ID, business: business}
}

func seedCustomer(t *testing.T, db *gorm.DB, businessID uuid.UUID, mutate func(*models.Customer)) *models.Customer {
	t.Helper()
	user := &models.User{ID: uuid.New(), Email: uuid.NewString() + "@buyer.test", Name: "Buyer"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seeding user failed: %v", err)
	}
	customer := &models.Customer{
		ID:         uuid.New(),
		UserID:     user.ID,
		BusinessID: businessID,
		OrderCount: 1,
	}
	if mutate != nil {
		mutate(customer)
	}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("seeding customer failed: %v", err)
	}
	return customer
}

func TestListByBusiness_SortsBySpend(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	f := seedBusiness(t, db)
	ctx := context.Background()

	seedCustomer(t, db, f.business.ID, func(c *models.Customer) { c.TotalSpentPaise = 100 })
	big := seedCustomer(t, db, f.business.ID, func(c *models.Customer) { c.TotalSpentPaise = 90000 })
	seedCustomer(t, db, f.business.ID, func(c *models.Customer) { c.TotalSpentPaise = 5000 })

	list, err := svc.ListByBusiness(ctx, f.ownerID, f.business.ID, ListFilters{SortBy: SortHighestSpent}, pagination.Params{})
	if err != nil {
		t.Fatalf("ListByBusiness failed: %v", err)
	}
	if list.Meta.Total != 3 {
		t.Fatalf("expected 3 customers, got %d", list.Meta.Total)
	}
	if list.Customers[0].ID != big.ID {
		t.Fatal("expected highest spender first")
	}
	if list.Customers[0].User == nil || !strings.HasSuffix(list.Customers[0].User.Email, "@buyer.test") {
		t.Fatalf("expected user loaded on customer, got %+v", list.Customers[0].User)
	}
}

func TestListByBusiness_StrangerForbidden(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	f := seedBusiness(t, db)

	_, err := svc.ListByBusiness(context.Background(), uuid.New(), f.business.ID, ListFilters{}, pagination.Params{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected Forbidden, got %v", err)
	}
}

func TestGetDetail_AggregatesOrders(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	f := seedBusiness(t, db)
	ctx := context.Background()

	customer := seedCustomer(t, db, f.business.ID, nil)
	chai := "Chai"
	snacks := "Snacks"
	products := []*models.Product{
		{ID: uuid.New(), BusinessID: f.business.ID, Name: "Masala Chai", SKU: "S1", PricePaise: 100, Category: &chai, IsActive: true},
		{ID: uuid.New(), BusinessID: f.business.ID, Name: "Samosa", SKU: "S2", PricePaise: 50, Category: &snacks, IsActive: true},
	}
	for _, p := range products {
		if err := db.Create(p).Error; err != nil {
			t.Fatalf("seeding product failed: %v", err)
		}
	}

	delivered := &models.Order{
		ID:               uuid.New(),
		OrderNumber:      "ORD-TEST-0001",
		UserID:           customer.UserID,
		BusinessID:       f.business.ID,
		CustomerID:       customer.ID,
		Status:           enums.OrderStatusDelivered,
		PaymentStatus:    enums.PaymentStatusCompleted,
		TotalAmountPaise: 400,
		FinalAmountPaise: 522,
		Items: []models.OrderItem{
			{ProductID: products[0].ID, ProductName: "Masala Chai", Quantity: 3, UnitPricePaise: 100, TotalPricePaise: 300},
			{ProductID: products[1].ID, ProductName: "Samosa", Quantity: 2, UnitPricePaise: 50, TotalPricePaise: 100},
		},
	}
	pending := &models.Order{
		ID:               uuid.New(),
		OrderNumber:      "ORD-TEST-0002",
		UserID:           customer.UserID,
		BusinessID:       f.business.ID,
		CustomerID:       customer.ID,
		Status:           enums.OrderStatusPending,
		PaymentStatus:    enums.PaymentStatusPending,
		TotalAmountPaise: 100,
		FinalAmountPaise: 168,
	}
	for _, o := range []*models.Order{delivered, pending} {
		if err := db.Create(o).Error; err != nil {
			t.Fatalf("seeding order failed: %v", err)
		}
	}

	detail, err := svc.GetDetail(ctx, f.ownerID, customer.ID)
	if err != nil {
		t.Fatalf("GetDetail failed: %v", err)
	}
	if detail.Analytics.TotalOrders != 2 || detail.Analytics.CompletedOrders != 1 {
		t.Fatalf("expected 2 total / 1 completed, got %+v", detail.Analytics)
	}
	if detail.Analytics.TotalSpentPaise != 522 {
		t.Fatalf("expected spend 522 from the completed order only, got %d", detail.Analytics.TotalSpentPaise)
	}
	if len(detail.Analytics.TopCategories) != 2 || detail.Analytics.TopCategories[0].Category != "Chai" {
		t.Fatalf("expected Chai as top category, got %+v", detail.Analytics.TopCategories)
	}
	if len(detail.RecentOrders) != 2 {
		t.Fatalf("expected 2 recent orders, got %d", len(detail.RecentOrders))
	}
}

func TestUpdateNotes_ValidatesAndPersists(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	f := seedBusiness(t, db)
	ctx := context.Background()

	customer := seedCustomer(t, db, f.business.ID, nil)

	_, err := svc.UpdateNotes(ctx, f.ownerID, customer.ID, strings.Repeat("x", 1001))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected Validation for long notes, got %v", err)
	}

	dto, err := svc.UpdateNotes(ctx, f.ownerID, customer.ID, "prefers evening delivery")
	if err != nil {
		t.Fatalf("UpdateNotes failed: %v", err)
	}
	if dto.Notes == nil || *dto.Notes != "prefers evening delivery" {
		t.Fatalf("expected notes on dto, got %v", dto.Notes)
	}

	var reloaded models.Customer
	if err := db.First(&reloaded, "id = ?", customer.ID).Error; err != nil {
		t.Fatalf("reloading customer failed: %v", err)
	}
	if reloaded.Notes == nil || *reloaded.Notes != "prefers evening delivery" {
		t.Fatalf("expected notes persisted, got %v", reloaded.Notes)
	}
}

func TestAnalytics_RepeatRateAndMonthlyBuckets(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	f := seedBusiness(t, db)
	ctx := context.Background()

	seedCustomer(t, db, f.business.ID, func(c *models.Customer) { c.OrderCount = 3; c.TotalSpentPaise = 900 })
	seedCustomer(t, db, f.business.ID, func(c *models.Customer) { c.OrderCount = 1 })
	seedCustomer(t, db, f.business.ID, func(c *models.Customer) { c.OrderCount = 2; c.TotalSpentPaise = 400 })
	seedCustomer(t, db, uuid.New(), nil) // other business, excluded

	analytics, err := svc.Analytics(ctx, f.ownerID, f.business.ID, 30)
	if err != nil {
		t.Fatalf("Analytics failed: %v", err)
	}
	if analytics.TotalCustomers != 3 {
		t.Fatalf("expected 3 customers, got %d", analytics.TotalCustomers)
	}
	if analytics.ReturningCustomers != 2 {
		t.Fatalf("expected 2 returning customers, got %d", analytics.ReturningCustomers)
	}
	if analytics.RepeatRatePct != "66.67" {
		t.Fatalf("expected repeat rate 66.67, got %s", analytics.RepeatRatePct)
	}
	if len(analytics.TopCustomers) != 3 || analytics.TopCustomers[0].TotalSpentPaise != 900 {
		t.Fatalf("expected top customer by spend, got %+v", analytics.TopCustomers)
	}
	month := time.Now().Format("2006-01")
	if len(analytics.MonthlySignups) != 1 || analytics.MonthlySignups[0].Month != month || analytics.MonthlySignups[0].Count != 3 {
		t.Fatalf("expected one %s bucket of 3, got %+v", month, analytics.MonthlySignups)
	}
}
