package links

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/anikpatel-dev/vyapaar-backend/internal/ownership"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/config"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/db/models"
	pkgerrors "github.com/anikpatel-dev/vyapaar-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:links_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.User{},
		&models.Business{},
		&models.Product{},
		&models.TrackingLink{},
		&models.CheckoutLink{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), ownership.NewGuard(db), config.LinksConfig{
		PublicBaseURL: "https://vyapaar.test",
	})
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc
}

func seedBusiness(t *testing.T, db *gorm.DB) (uuid.UUID, *models.Business) {
	t.Helper()
	owner := &models.User{ID: uuid.New(), Email: uuid.NewString() + "@owner.test", Name: "Owner"}
	if err := db.Create(owner).Error; err != nil {
		t.Fatalf("seeding owner failed: %v", err)
	}
	business := &models.Business{ID: uuid.New(), OwnerID: owner.ID, Name: "Chai Corner", IsActive: true}
	if err := db.Create(business).Error; err != nil {
		t.Fatalf("seeding business failed: %v", err)
	}
	return owner.ID, business
}

func TestCreateCheckout_MintsSlugAndURL(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	ownerID, business := seedBusiness(t, db)

	dto, err := svc.CreateCheckout(context.Background(), ownerID, CreateCheckoutLinkInput{
		BusinessID: business.ID,
		Name:       "Diwali promo",
	})
	if err != nil {
		t.Fatalf("CreateCheckout failed: %v", err)
	}
	if len(dto.Slug) != slugLen {
		t.Fatalf("expected %d char slug, got %q", slugLen, dto.Slug)
	}
	if dto.URL != "https://vyapaar.test/checkout/"+dto.Slug {
		t.Fatalf("unexpected url %q", dto.URL)
	}
	if !dto.IsActive {
		t.Fatal("expected new link active")
	}
}

func TestCreateCheckout_RejectsForeignProduct(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	ownerID, business := seedBusiness(t, db)

	foreign := &models.Product{ID: uuid.New(), BusinessID: uuid.New(), Name: "Other", SKU: "X1", PricePaise: 100}
	if err := db.Create(foreign).Error; err != nil {
		t.Fatalf("seeding product failed: %v", err)
	}

	_, err := svc.CreateCheckout(context.Background(), ownerID, CreateCheckoutLinkInput{
		BusinessID: business.ID,
		ProductID:  &foreign.ID,
		Name:       "Bad link",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected Validation for foreign product, got %v", err)
	}
}

func TestGetCheckoutBySlug_HidesInactive(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	ownerID, business := seedBusiness(t, db)
	ctx := context.Background()

	created, err := svc.CreateCheckout(ctx, ownerID, CreateCheckoutLinkInput{
		BusinessID: business.ID,
		Name:       "Promo",
	})
	if err != nil {
		t.Fatalf("CreateCheckout failed: %v", err)
	}

	if _, err := svc.GetCheckoutBySlug(ctx, created.Slug); err != nil {
		t.Fatalf("public read failed: %v", err)
	}

	inactive := false
	if _, err := svc.UpdateCheckout(ctx, ownerID, created.ID, UpdateCheckoutLinkInput{IsActive: &inactive}); err != nil {
		t.Fatalf("UpdateCheckout failed: %v", err)
	}

	_, err = svc.GetCheckoutBySlug(ctx, created.Slug)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NotFound for inactive slug, got %v", err)
	}
}

func TestCheckoutCounters_IncrementPerCall(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	ownerID, business := seedBusiness(t, db)
	ctx := context.Background()

	created, err := svc.CreateCheckout(ctx, ownerID, CreateCheckoutLinkInput{
		BusinessID: business.ID,
		Name:       "Promo",
	})
	if err != nil {
		t.Fatalf("CreateCheckout failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := svc.ClickCheckout(ctx, created.Slug); err != nil {
			t.Fatalf("ClickCheckout failed: %v", err)
		}
	}
	if err := svc.ConvertCheckout(ctx, created.Slug); err != nil {
		t.Fatalf("ConvertCheckout failed: %v", err)
	}

	var reloaded models.CheckoutLink
	if err := db.First(&reloaded, "id = ?", created.ID).Error; err != nil {
		t.Fatalf("reloading link failed: %v", err)
	}
	if reloaded.Clicks != 3 || reloaded.Conversions != 1 {
		t.Fatalf("expected 3 clicks / 1 conversion, got %d / %d", reloaded.Clicks, reloaded.Conversions)
	}

	err = svc.ClickCheckout(ctx, "missing-slug")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NotFound for unknown slug, got %v", err)
	}
}

func TestTrackingConversion_AccumulatesRevenue(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	ownerID, business := seedBusiness(t, db)
	ctx := context.Background()

	link, err := svc.CreateTracking(ctx, ownerID, CreateTrackingLinkInput{
		BusinessID: business.ID,
		Name:       "Insta campaign",
		URL:        "https://vyapaar.test/b/" + business.ID.String(),
	})
	if err != nil {
		t.Fatalf("CreateTracking failed: %v", err)
	}

	for i := 0; i < 4; i++ {
		if err := svc.ClickTracking(ctx, link.ID); err != nil {
			t.Fatalf("ClickTracking failed: %v", err)
		}
	}
	if err := svc.ConvertTracking(ctx, link.ID, 25000); err != nil {
		t.Fatalf("ConvertTracking failed: %v", err)
	}
	if err := svc.ConvertTracking(ctx, link.ID, 0); err != nil {
		t.Fatalf("ConvertTracking without revenue failed: %v", err)
	}

	analytics, err := svc.TrackingAnalytics(ctx, ownerID, link.ID)
	if err != nil {
		t.Fatalf("TrackingAnalytics failed: %v", err)
	}
	if analytics.Clicks != 4 || analytics.Conversions != 2 {
		t.Fatalf("expected 4 clicks / 2 conversions, got %d / %d", analytics.Clicks, analytics.Conversions)
	}
	if analytics.RevenuePaise != 25000 {
		t.Fatalf("expected revenue 25000, got %d", analytics.RevenuePaise)
	}
	if analytics.ConversionRatePct != "50" {
		t.Fatalf("expected conversion rate 50, got %s", analytics.ConversionRatePct)
	}
}

func TestTrackingMutations_OwnerOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db)
	ownerID, business := seedBusiness(t, db)
	ctx := context.Background()

	link, err := svc.CreateTracking(ctx, ownerID, CreateTrackingLinkInput{
		BusinessID: business.ID,
		Name:       "Campaign",
		URL:        "https://vyapaar.test/b/x",
	})
	if err != nil {
		t.Fatalf("CreateTracking failed: %v", err)
	}

	stranger := uuid.New()
	_, err = svc.UpdateTracking(ctx, stranger, link.ID, UpdateTrackingLinkInput{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected Forbidden for stranger update, got %v", err)
	}
	err = svc.DeleteTracking(ctx, stranger, link.ID)
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected Forbidden for stranger delete, got %v", err)
	}
}

func TestRandomSlug_ShapeAndVariety(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		slug := randomSlug(slugLen)
		if len(slug) != slugLen {
			t.Fatalf("expected length %d, got %q", slugLen, slug)
		}
		if strings.ContainsAny(slug, "/+= ") {
			t.Fatalf("unexpected characters in slug %q", slug)
		}
		if seen[slug] {
			t.Fatalf("duplicate slug %q", slug)
		}
		seen[slug] = true
	}
}
