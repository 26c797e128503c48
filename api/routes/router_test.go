package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/anikpatel-dev/vyapaar-backend/internal/products"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/authgate"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/config"
	pkgerrors "github.com/anikpatel-dev/vyapaar-backend/pkg/errors"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/pagination"
)

type staticGate struct {
	identity *authgate.Identity
}

func (g *staticGate) CookieName() string { return "session" }

func (g *staticGate) Validate(_ context.Context, _ string) (*authgate.Identity, error) {
	if g.identity == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session rejected")
	}
	return g.identity, nil
}

type staticProducts struct{}

func (staticProducts) Create(context.Context, uuid.UUID, products.CreateProductInput) (*products.ProductDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not wired")
}

func (staticProducts) GetByID(context.Context, uuid.UUID, uuid.UUID) (*products.ProductDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not wired")
}

func (staticProducts) GetPublic(context.Context, uuid.UUID) (*products.ProductDTO, error) {
	return &products.ProductDTO{Name: "Masala Chai"}, nil
}

func (staticProducts) ListByBusiness(context.Context, uuid.UUID, uuid.UUID, products.ListFilters, pagination.Params) (*products.ProductList, error) {
	return &products.ProductList{}, nil
}

func (staticProducts) ListPublic(context.Context, uuid.UUID, products.PublicListFilters, pagination.Params) (*products.ProductList, error) {
	return &products.ProductList{}, nil
}

func (staticProducts) Update(context.Context, uuid.UUID, uuid.UUID, products.UpdateProductInput) (*products.ProductDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not wired")
}

func (staticProducts) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeInternal, "not wired")
}

func (staticProducts) ToggleActive(context.Context, uuid.UUID, uuid.UUID) (*products.ProductDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not wired")
}

func (staticProducts) SetInventory(context.Context, uuid.UUID, uuid.UUID, int) (*products.ProductDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not wired")
}

func (staticProducts) ListLowStock(context.Context, uuid.UUID, uuid.UUID) ([]products.ProductDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not wired")
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Env = "dev"
	cfg.AuthRateLimit.RegisterWindow = time.Minute
	cfg.AuthRateLimit.RegisterIPLimit = 0
	cfg.AuthRateLimit.RegisterEmailLimit = 0
	return cfg
}

func TestRouterHealthLive(t *testing.T) {
	router := NewRouter(Deps{
		Config:   testConfig(),
		AuthGate: &staticGate{},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if env := rec.Header().Get("X-Vyapaar-Env"); env != "dev" {
		t.Fatalf("expected env header, got %q", env)
	}
}

func TestRouterProtectedRouteRequiresSession(t *testing.T) {
	router := NewRouter(Deps{
		Config:   testConfig(),
		AuthGate: &staticGate{},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", rec.Code)
	}
}

func TestRouterPublicProductSkipsAuth(t *testing.T) {
	router := NewRouter(Deps{
		Config:   testConfig(),
		AuthGate: &staticGate{},
		Products: staticProducts{},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/products/"+uuid.NewString(), nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for public product, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouterMetricsEndpointExposed(t *testing.T) {
	router := NewRouter(Deps{
		Config:   testConfig(),
		AuthGate: &staticGate{},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for metrics, got %d", rec.Code)
	}
}
