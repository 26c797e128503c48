package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/anikpatel-dev/vyapaar-backend/pkg/db/models"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/pagination"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:products_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return conn
}

func seedProduct(t *testing.T, db *gorm.DB, businessID uuid.UUID, mutate func(*models.Product)) *models.Product {
	t.Helper()
	product := &models.Product{
		BusinessID:    businessID,
		Name:          "Seeded",
		SKU:           "SB-SEE-" + uuid.NewString()[:6],
		PricePaise:    9900,
		Inventory:     20,
		LowStockAlert: 10,
		IsActive:      true,
	}
	if mutate != nil {
		mutate(product)
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seeding product failed: %v", err)
	}
	return product
}

func TestRepository_SetInventoryOverwrites(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := seedProduct(t, db, uuid.New(), nil)
	if err := repo.SetInventory(ctx, product.ID, 3); err != nil {
		t.Fatalf("SetInventory failed: %v", err)
	}

	reloaded, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if reloaded.Inventory != 3 {
		t.Fatalf("expected inventory 3, got %d", reloaded.Inventory)
	}
}

func TestRepository_ListByBusinessStatusFilter(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	businessID := uuid.New()

	seedProduct(t, db, businessID, nil)
	seedProduct(t, db, businessID, func(p *models.Product) { p.IsActive = false })
	seedProduct(t, db, uuid.New(), nil)

	all, total, err := repo.ListByBusiness(ctx, businessID, ListFilters{Status: "all"}, pagination.Params{})
	if err != nil {
		t.Fatalf("ListByBusiness failed: %v", err)
	}
	if total != 2 || len(all) != 2 {
		t.Fatalf("expected 2 products for the business, got total=%d len=%d", total, len(all))
	}

	inactive, total, err := repo.ListByBusiness(ctx, businessID, ListFilters{Status: "inactive"}, pagination.Params{})
	if err != nil {
		t.Fatalf("ListByBusiness inactive failed: %v", err)
	}
	if total != 1 || len(inactive) != 1 || inactive[0].IsActive {
		t.Fatalf("expected the single inactive product, got total=%d", total)
	}
}

func TestRepository_ListPublicFeaturedFirstThenPrice(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	businessID := uuid.New()

	cheap := seedProduct(t, db, businessID, func(p *models.Product) { p.PricePaise = 100 })
	seedProduct(t, db, businessID, func(p *models.Product) { p.PricePaise = 500 })
	featured := seedProduct(t, db, businessID, func(p *models.Product) {
		p.PricePaise = 900
		p.IsFeatured = true
	})
	seedProduct(t, db, businessID, func(p *models.Product) { p.IsActive = false })

	items, total, err := repo.ListPublicByBusiness(ctx, businessID, PublicListFilters{SortBy: PublicSortPriceLow}, pagination.Params{})
	if err != nil {
		t.Fatalf("ListPublicByBusiness failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected 3 active products, got %d", total)
	}
	if items[0].ID != featured.ID {
		t.Fatal("expected the featured product first")
	}
	if items[1].ID != cheap.ID {
		t.Fatal("expected cheapest non-featured product second")
	}
}

func TestRepository_ListLowStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	businessID := uuid.New()

	low := seedProduct(t, db, businessID, func(p *models.Product) { p.Inventory = 2 })
	seedProduct(t, db, businessID, func(p *models.Product) { p.Inventory = 50 })
	seedProduct(t, db, businessID, func(p *models.Product) {
		p.Inventory = 0
		p.IsActive = false
	})

	items, err := repo.ListLowStock(ctx, businessID)
	if err != nil {
		t.Fatalf("ListLowStock failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != low.ID {
		t.Fatalf("expected only the low active product, got %d items", len(items))
	}
}
