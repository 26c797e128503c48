package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/anikpatel-dev/vyapaar-backend/internal/products"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/authgate"
	pkgerrors "github.com/anikpatel-dev/vyapaar-backend/pkg/errors"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/pagination"
)

type fakeProductsService struct {
	createFn       func(ctx context.Context, actorID uuid.UUID, input products.CreateProductInput) (*products.ProductDTO, error)
	getPublicFn    func(ctx context.Context, productID uuid.UUID) (*products.ProductDTO, error)
	setInventoryFn func(ctx context.Context, actorID, productID uuid.UUID, inventory int) (*products.ProductDTO, error)
}

func (f *fakeProductsService) Create(ctx context.Context, actorID uuid.UUID, input products.CreateProductInput) (*products.ProductDTO, error) {
	return f.createFn(ctx, actorID, input)
}

func (f *fakeProductsService) GetByID(context.Context, uuid.UUID, uuid.UUID) (*products.ProductDTO, error) {
	return &products.ProductDTO{}, nil
}

func (f *fakeProductsService) GetPublic(ctx context.Context, productID uuid.UUID) (*products.ProductDTO, error) {
	return f.getPublicFn(ctx, productID)
}

func (f *fakeProductsService) ListByBusiness(context.Context, uuid.UUID, uuid.UUID, products.ListFilters, pagination.Params) (*products.ProductList, error) {
	return &products.ProductList{}, nil
}

func (f *fakeProductsService) ListPublic(context.Context, uuid.UUID, products.PublicListFilters, pagination.Params) (*products.ProductList, error) {
	return &products.ProductList{}, nil
}

func (f *fakeProductsService) Update(context.Context, uuid.UUID, uuid.UUID, products.UpdateProductInput) (*products.ProductDTO, error) {
	return &products.ProductDTO{}, nil
}

func (f *fakeProductsService) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}

func (f *fakeProductsService) ToggleActive(context.Context, uuid.UUID, uuid.UUID) (*products.ProductDTO, error) {
	return &products.ProductDTO{}, nil
}

func (f *fakeProductsService) SetInventory(ctx context.Context, actorID, productID uuid.UUID, inventory int) (*products.ProductDTO, error) {
	return f.setInventoryFn(ctx, actorID, productID, inventory)
}

func (f *fakeProductsService) ListLowStock(context.Context, uuid.UUID, uuid.UUID) ([]products.ProductDTO, error) {
	return nil, nil
}

func TestCreateProductReturnsCreated(t *testing.T) {
	userID := uuid.New()
	businessID := uuid.New()

	svc := &fakeProductsService{
		createFn: func(_ context.Context, actorID uuid.UUID, input products.CreateProductInput) (*products.ProductDTO, error) {
			if actorID != userID {
				t.Fatalf("unexpected actor %s", actorID)
			}
			if input.Name != "Masala Chai" || input.PricePaise != 15000 {
				t.Fatalf("unexpected input %+v", input)
			}
			return &products.ProductDTO{ID: uuid.New(), Name: input.Name, SKU: "CC-MCB-1A2B3C"}, nil
		},
	}

	body := `{"businessId": "` + businessID.String() + `", "name": "Masala Chai", "pricePaise": 15000, "inventory": 10}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
	req = authedRequest(req, &authgate.Identity{UserID: userID.String()})
	rec := httptest.NewRecorder()
	CreateProduct(svc, nil)(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data products.ProductDTO `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if envelope.Data.SKU != "CC-MCB-1A2B3C" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestCreateProductRejectsUnknownFields(t *testing.T) {
	svc := &fakeProductsService{
		createFn: func(context.Context, uuid.UUID, products.CreateProductInput) (*products.ProductDTO, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}

	body := `{"businessId": "` + uuid.NewString() + `", "name": "Masala Chai", "pricePaise": 15000, "inventory": 10, "bogus": true}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
	req = authedRequest(req, &authgate.Identity{UserID: uuid.NewString()})
	rec := httptest.NewRecorder()
	CreateProduct(svc, nil)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetPublicProductMapsNotFound(t *testing.T) {
	svc := &fakeProductsService{
		getPublicFn: func(context.Context, uuid.UUID) (*products.ProductDTO, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		},
	}

	router := chi.NewRouter()
	router.Get("/api/public/products/{productId}", GetPublicProduct(svc, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/public/products/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSetProductInventoryRequiresValue(t *testing.T) {
	svc := &fakeProductsService{
		setInventoryFn: func(context.Context, uuid.UUID, uuid.UUID, int) (*products.ProductDTO, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}

	router := chi.NewRouter()
	router.Put("/api/v1/products/{productId}/inventory", SetProductInventory(svc, nil))

	req := httptest.NewRequest(http.MethodPut, "/api/v1/products/"+uuid.NewString()+"/inventory", strings.NewReader(`{}`))
	req = authedRequest(req, &authgate.Identity{UserID: uuid.NewString()})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSetProductInventoryPassesValue(t *testing.T) {
	productID := uuid.New()
	svc := &fakeProductsService{
		setInventoryFn: func(_ context.Context, _, id uuid.UUID, inventory int) (*products.ProductDTO, error) {
			if id != productID || inventory != 0 {
				t.Fatalf("unexpected call id=%s inventory=%d", id, inventory)
			}
			return &products.ProductDTO{ID: id, Inventory: inventory}, nil
		},
	}

	router := chi.NewRouter()
	router.Put("/api/v1/products/{productId}/inventory", SetProductInventory(svc, nil))

	// Zero is a legal stock level and must survive the required check.
	req := httptest.NewRequest(http.MethodPut, "/api/v1/products/"+productID.String()+"/inventory", strings.NewReader(`{"inventory": 0}`))
	req = authedRequest(req, &authgate.Identity{UserID: uuid.NewString()})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}
