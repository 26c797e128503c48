package products

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anikpatel-dev/vyapaar-backend/pkg/db"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/db/models"
	pkgerrors "github.com/anikpatel-dev/vyapaar-backend/pkg/errors"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/pagination"
)

type productRepository interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetInventory(ctx context.Context, id uuid.UUID, inventory int) error
	ListByBusiness(ctx context.Context, businessID uuid.UUID, filters ListFilters, params pagination.Params) ([]models.Product, int64, error)
	ListPublicByBusiness(ctx context.Context, businessID uuid.UUID, filters PublicListFilters, params pagination.Params) ([]models.Product, int64, error)
	ListLowStock(ctx context.Context, businessID uuid.UUID) ([]models.Product, error)
}

type ownershipGuard interface {
	RequireBusiness(ctx context.Context, actorID, businessID uuid.UUID) (*models.Business, error)
	RequireProduct(ctx context.Context, actorID, productID uuid.UUID) (*models.Product, error)
}

// Service exposes catalog operations.
type Service interface {
	Create(ctx context.Context, actorID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	GetByID(ctx context.Context, actorID, productID uuid.UUID) (*ProductDTO, error)
	GetPublic(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListByBusiness(ctx context.Context, actorID, businessID uuid.UUID, filters ListFilters, params pagination.Params) (*ProductList, error)
	ListPublic(ctx context.Context, businessID uuid.UUID, filters PublicListFilters, params pagination.Params) (*ProductList, error)
	Update(ctx context.Context, actorID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, actorID, productID uuid.UUID) error
	ToggleActive(ctx context.Context, actorID, productID uuid.UUID) (*ProductDTO, error)
	SetInventory(ctx context.Context, actorID, productID uuid.UUID, inventory int) (*ProductDTO, error)
	ListLowStock(ctx context.Context, actorID, businessID uuid.UUID) ([]ProductDTO, error)
}

type service struct {
	repo  productRepository
	guard ownershipGuard
}

// NewService builds the products service.
func NewService(repo productRepository, guard ownershipGuard) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product repository required")
	}
	if guard == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "ownership guard required")
	}
	return &service{repo: repo, guard: guard}, nil
}

// Create generates the SKU from the business and product names and stores
// the product active with the default low-stock threshold unless overridden.
func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	business, err := s.guard.RequireBusiness(ctx, actorID, input.BusinessID)
	if err != nil {
		return nil, err
	}

	sku := GenerateSKU(input.Name, business.Name)
	product, err := s.repo.Create(ctx, input.ToModel(sku))
	if err != nil {
		if db.IsUniqueViolation(err, "ux_products_business_sku") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with this sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating product")
	}
	return FromModel(product), nil
}

func (s *service) GetByID(ctx context.Context, actorID, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.guard.RequireProduct(ctx, actorID, productID)
	if err != nil {
		return nil, err
	}
	return FromModel(product), nil
}

// GetPublic serves any active product without an ownership check.
func (s *service) GetPublic(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return FromModel(product), nil
}

func (s *service) ListByBusiness(ctx context.Context, actorID, businessID uuid.UUID, filters ListFilters, params pagination.Params) (*ProductList, error) {
	if _, err := s.guard.RequireBusiness(ctx, actorID, businessID); err != nil {
		return nil, err
	}

	items, total, err := s.repo.ListByBusiness(ctx, businessID, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing products")
	}
	return listFrom(items, total, params), nil
}

func (s *service) ListPublic(ctx context.Context, businessID uuid.UUID, filters PublicListFilters, params pagination.Params) (*ProductList, error) {
	items, total, err := s.repo.ListPublicByBusiness(ctx, businessID, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing public products")
	}
	return listFrom(items, total, params), nil
}

func (s *service) Update(ctx context.Context, actorID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.guard.RequireProduct(ctx, actorID, productID)
	if err != nil {
		return nil, err
	}

	applyUpdates(product, input)
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating product")
	}
	return FromModel(product), nil
}

func (s *service) Delete(ctx context.Context, actorID, productID uuid.UUID) error {
	if _, err := s.guard.RequireProduct(ctx, actorID, productID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting product")
	}
	return nil
}

func (s *service) ToggleActive(ctx context.Context, actorID, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.guard.RequireProduct(ctx, actorID, productID)
	if err != nil {
		return nil, err
	}

	product.IsActive = !product.IsActive
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "toggling product")
	}
	return FromModel(product), nil
}

// SetInventory overwrites the absolute stock level. Order flows never call
// this; they adjust inventory relatively inside their own transactions.
func (s *service) SetInventory(ctx context.Context, actorID, productID uuid.UUID, inventory int) (*ProductDTO, error) {
	if inventory < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory cannot be negative")
	}
	product, err := s.guard.RequireProduct(ctx, actorID, productID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetInventory(ctx, productID, inventory); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "setting inventory")
	}
	product.Inventory = inventory
	return FromModel(product), nil
}

func (s *service) ListLowStock(ctx context.Context, actorID, businessID uuid.UUID) ([]ProductDTO, error) {
	if _, err := s.guard.RequireBusiness(ctx, actorID, businessID); err != nil {
		return nil, err
	}

	items, err := s.repo.ListLowStock(ctx, businessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing low stock products")
	}
	result := make([]ProductDTO, 0, len(items))
	for i := range items {
		result = append(result, *FromModel(&items[i]))
	}
	return result, nil
}

func listFrom(items []models.Product, total int64, params pagination.Params) *ProductList {
	dtos := make([]ProductDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *FromModel(&items[i]))
	}
	return &ProductList{
		Products: dtos,
		Meta:     pagination.MetaFor(total, pagination.Normalize(params)),
	}
}

func applyUpdates(product *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.ShortDescription != nil {
		product.ShortDescription = input.ShortDescription
	}
	if input.PricePaise != nil {
		product.PricePaise = *input.PricePaise
	}
	if input.OriginalPricePaise != nil {
		product.OriginalPricePaise = input.OriginalPricePaise
	}
	if input.Images != nil {
		product.Images = input.Images
	}
	if input.Category != nil {
		product.Category = input.Category
	}
	if input.Tags != nil {
		product.Tags = input.Tags
	}
	if input.LowStockAlert != nil {
		product.LowStockAlert = *input.LowStockAlert
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
}
