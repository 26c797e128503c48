package ownership

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anikpatel-dev/vyapaar-backend/pkg/db/models"
	pkgerrors "github.com/anikpatel-dev/vyapaar-backend/pkg/errors"
)

// Guard answers one question for every owner-gated operation: does the
// caller own the business this resource hangs off. Each check runs against
// the database at call time; results are never cached, so a revoked or
// deleted business takes effect immediately.
type Guard struct {
	db *gorm.DB
}

// NewGuard binds the guard to a GORM DB.
func NewGuard(db *gorm.DB) *Guard {
	return &Guard{db: db}
}

// WithTx returns a guard bound to the provided transaction.
func (g *Guard) WithTx(tx *gorm.DB) *Guard {
	if tx == nil {
		return g
	}
	return &Guard{db: tx}
}

// ErrNotOwner is the uniform denial. Callers translate nothing: the same
// Forbidden error is returned whether the resource is missing a parent link
// or simply owned by someone else, so probing reveals nothing.
var ErrNotOwner = pkgerrors.New(pkgerrors.CodeForbidden, "access denied")

// RequireBusiness verifies the caller owns the business directly.
func (g *Guard) RequireBusiness(ctx context.Context, actorID, businessID uuid.UUID) (*models.Business, error) {
	var business models.Business
	if err := g.db.WithContext(ctx).First(&business, "id = ?", businessID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "business not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading business")
	}
	if business.OwnerID != actorID {
		return nil, ErrNotOwner
	}
	return &business, nil
}

// RequireProduct walks product -> business and verifies ownership.
func (g *Guard) RequireProduct(ctx context.Context, actorID, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := g.db.WithContext(ctx).First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}
	if _, err := g.RequireBusiness(ctx, actorID, product.BusinessID); err != nil {
		return nil, err
	}
	return &product, nil
}

// RequireOrder walks order -> business and verifies ownership.
func (g *Guard) RequireOrder(ctx context.Context, actorID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := g.db.WithContext(ctx).First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}
	if _, err := g.RequireBusiness(ctx, actorID, order.BusinessID); err != nil {
		return nil, err
	}
	return &order, nil
}

// RequireCustomer walks customer -> business and verifies ownership.
func (g *Guard) RequireCustomer(ctx context.Context, actorID, customerID uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := g.db.WithContext(ctx).First(&customer, "id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading customer")
	}
	if _, err := g.RequireBusiness(ctx, actorID, customer.BusinessID); err != nil {
		return nil, err
	}
	return &customer, nil
}

// RequireTrackingLink walks link -> business and verifies ownership.
func (g *Guard) RequireTrackingLink(ctx context.Context, actorID, linkID uuid.UUID) (*models.TrackingLink, error) {
	var link models.TrackingLink
	if err := g.db.WithContext(ctx).First(&link, "id = ?", linkID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tracking link not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading tracking link")
	}
	if _, err := g.RequireBusiness(ctx, actorID, link.BusinessID); err != nil {
		return nil, err
	}
	return &link, nil
}

// RequireCheckoutLink walks link -> business and verifies ownership.
func (g *Guard) RequireCheckoutLink(ctx context.Context, actorID, linkID uuid.UUID) (*models.CheckoutLink, error) {
	var link models.CheckoutLink
	if err := g.db.WithContext(ctx).First(&link, "id = ?", linkID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout link not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading checkout link")
	}
	if _, err := g.RequireBusiness(ctx, actorID, link.BusinessID); err != nil {
		return nil, err
	}
	return &link, nil
}
