package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/anikpatel-dev/vyapaar-backend/internal/ownership"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/config"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/db/models"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/enums"
	pkgerrors "github.com/anikpatel-dev/vyapaar-backend/pkg/errors"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/logger"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/mailer"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/pagination"
)

const defaultAnalyticsDays = 30

// Notifier receives best-effort in-app notifications from order events.
// Implementations must never fail the calling request.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, title, body string)
}

// Service exposes the order lifecycle.
type Service interface {
	Create(ctx context.Context, purchaser Purchaser, input CreateOrderInput) (*OrderDTO, error)
	GetByID(ctx context.Context, actorID, orderID uuid.UUID) (*OrderDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID, filters ListFilters, params pagination.Params) (*OrderList, error)
	ListByBusiness(ctx context.Context, actorID, businessID uuid.UUID, filters ListFilters, params pagination.Params) (*OrderList, error)
	UpdateStatus(ctx context.Context, actorID, orderID uuid.UUID, input UpdateStatusInput) (*OrderDTO, error)
	Cancel(ctx context.Context, actorID, orderID uuid.UUID) (*OrderDTO, error)
	Analytics(ctx context.Context, actorID, businessID uuid.UUID, days int) (*AnalyticsDTO, error)
}

type service struct {
	db     *gorm.DB
	repo   *Repository
	guard  *ownership.Guard
	policy config.OrderPolicyConfig
	mail   mailer.Sender
	notify Notifier
	logg   *logger.Logger
}

// NewService builds the orders service. mail, notify and logg may be nil;
// the corresponding side effects are skipped.
func NewService(db *gorm.DB, policy config.OrderPolicyConfig, mail mailer.Sender, notify Notifier, logg *logger.Logger) (Service, error) {
	if db == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database handle required")
	}
	return &service{
		db:     db,
		repo:   NewRepository(db),
		guard:  ownership.NewGuard(db),
		policy: policy,
		mail:   mail,
		notify: notify,
		logg:   logg,
	}, nil
}

// Create validates, prices and persists a new order atomically. Inventory
// is committed with a conditional decrement inside the transaction, so a
// concurrent order for the same stock rolls the whole thing back.
func (s *service) Create(ctx context.Context, purchaser Purchaser, input CreateOrderInput) (*OrderDTO, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}

	business, err := s.repo.FindBusiness(ctx, input.BusinessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "business not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading business")
	}
	if !business.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "business not found")
	}

	products, err := s.loadOrderProducts(ctx, input)
	if err != nil {
		return nil, err
	}

	items, totalPaise, err := buildItems(input.Items, products)
	if err != nil {
		return nil, err
	}
	quote := PriceOrder(totalPaise, s.policy)

	shipping := input.ShippingAddress.toSnapshot()
	// Billing falls back to the shipping snapshot when the client omits it.
	billing := shipping
	if input.BillingAddress != nil {
		billing = input.BillingAddress.toSnapshot()
	}

	order := &models.Order{
		OrderNumber:         GenerateOrderNumber(),
		UserID:              purchaser.ID,
		BusinessID:          business.ID,
		Status:              enums.OrderStatusPending,
		PaymentStatus:       enums.PaymentStatusPending,
		TotalAmountPaise:    quote.TotalAmountPaise,
		DiscountAmountPaise: quote.DiscountAmountPaise,
		TaxAmountPaise:      quote.TaxAmountPaise,
		ShippingAmountPaise: quote.ShippingAmountPaise,
		FinalAmountPaise:    quote.FinalAmountPaise,
		ShippingAddress:     shipping,
		BillingAddress:      &billing,
		Notes:               input.Notes,
		Items:               items,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		customer, err := repo.UpsertCustomer(ctx, purchaser.ID, business.ID, time.Now())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upserting customer")
		}
		order.CustomerID = customer.ID

		for i := range order.Items {
			ok, err := repo.CommitInventory(ctx, order.Items[i].ProductID, order.Items[i].Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "committing inventory")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeConflict,
					fmt.Sprintf("insufficient stock for %s", order.Items[i].ProductName))
			}
		}

		if err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating order")
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order transaction")
	}

	s.afterCreate(ctx, purchaser, business, order)
	return FromModel(order), nil
}

// loadOrderProducts loads and screens every requested product. Any missing,
// foreign or inactive product rejects the whole order. The inventory read
// here is only for a friendly message; the transaction re-checks it.
func (s *service) loadOrderProducts(ctx context.Context, input CreateOrderInput) (map[uuid.UUID]*models.Product, error) {
	ids := make([]uuid.UUID, 0, len(input.Items))
	for _, item := range input.Items {
		ids = append(ids, item.ProductID)
	}

	rows, err := s.repo.FindProducts(ctx, input.BusinessID, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading products")
	}
	byID := make(map[uuid.UUID]*models.Product, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}

	for _, item := range input.Items {
		product, found := byID[item.ProductID]
		if !found || !product.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "one or more products are unavailable")
		}
		if product.Inventory < item.Quantity {
			return nil, pkgerrors.New(pkgerrors.CodeConflict,
				fmt.Sprintf("insufficient stock for %s: %d available", product.Name, product.Inventory))
		}
	}
	return byID, nil
}

func buildItems(inputs []OrderItemInput, products map[uuid.UUID]*models.Product) ([]models.OrderItem, int64, error) {
	items := make([]models.OrderItem, 0, len(inputs))
	var totalPaise int64
	for _, in := range inputs {
		product := products[in.ProductID]
		if product == nil {
			return nil, 0, pkgerrors.New(pkgerrors.CodeNotFound, "one or more products are unavailable")
		}
		linePaise := product.PricePaise * int64(in.Quantity)
		items = append(items, models.OrderItem{
			ProductID:       product.ID,
			ProductName:     product.Name,
			Quantity:        in.Quantity,
			UnitPricePaise:  product.PricePaise,
			TotalPricePaise: linePaise,
			Variant:         in.Variant,
			Notes:           in.Notes,
		})
		totalPaise += linePaise
	}
	return items, totalPaise, nil
}

// afterCreate runs the post-commit side effects. Failures are logged only.
func (s *service) afterCreate(ctx context.Context, purchaser Purchaser, business *models.Business, order *models.Order) {
	if s.mail != nil {
		s.mail.SendOrderConfirmation(ctx, mailer.OrderConfirmation{
			To:           purchaser.Email,
			CustomerName: purchaser.Name,
			OrderNumber:  order.OrderNumber,
			BusinessName: business.Name,
			FinalRupees:  paiseToRupees(order.FinalAmountPaise),
		})
	}
	if s.notify != nil {
		s.notify.Notify(ctx, business.OwnerID, enums.NotificationTypeOrderPlaced,
			"New order received",
			fmt.Sprintf("Order %s was placed for ₹%s", order.OrderNumber, paiseToRupees(order.FinalAmountPaise)))
	}
}

func (s *service) GetByID(ctx context.Context, actorID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}

	if order.UserID != actorID {
		if _, err := s.guard.RequireOrder(ctx, actorID, orderID); err != nil {
			return nil, err
		}
	}
	return FromModel(order), nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID, filters ListFilters, params pagination.Params) (*OrderList, error) {
	rows, total, err := s.repo.ListByUser(ctx, userID, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing orders")
	}
	return listFrom(rows, total, params), nil
}

func (s *service) ListByBusiness(ctx context.Context, actorID, businessID uuid.UUID, filters ListFilters, params pagination.Params) (*OrderList, error) {
	if _, err := s.guard.RequireBusiness(ctx, actorID, businessID); err != nil {
		return nil, err
	}
	rows, total, err := s.repo.ListByBusiness(ctx, businessID, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing business orders")
	}
	return listFrom(rows, total, params), nil
}

// UpdateStatus advances fulfillment along the forward edges. Arrival at
// DELIVERED recognizes revenue: deliveredAt, paymentStatus, the customer's
// lifetime spend and the business totals all move in one transaction. The
// write is guarded on the status the caller read, so a concurrent cancel
// or transition landing in between cannot be silently overwritten.
func (s *service) UpdateStatus(ctx context.Context, actorID, orderID uuid.UUID, input UpdateStatusInput) (*OrderDTO, error) {
	next, err := enums.ParseOrderStatus(input.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	if next == enums.OrderStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "use the cancel operation to cancel an order")
	}

	order, err := s.guard.RequireOrder(ctx, actorID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot transition order from %s to %s", order.Status, next))
	}

	prior := order.Status
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order.Status = next
		if input.EstimatedDelivery != nil {
			order.EstimatedDelivery = input.EstimatedDelivery
		}
		if next == enums.OrderStatusDelivered {
			now := time.Now()
			order.DeliveredAt = &now
			order.PaymentStatus = enums.PaymentStatusCompleted
		}

		moved, err := repo.UpdateStatusTransition(ctx, order, prior)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving order")
		}
		if !moved {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("order left %s while the update was in flight", prior))
		}
		if next == enums.OrderStatusDelivered {
			if err := repo.RecordDelivery(ctx, order); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording delivery")
			}
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "status transaction")
	}

	if s.notify != nil {
		s.notify.Notify(ctx, order.UserID, enums.NotificationTypeOrderStatus,
			fmt.Sprintf("Order %s %s", order.OrderNumber, statusPhrase(next)),
			fmt.Sprintf("Your order %s is now %s", order.OrderNumber, next))
	}
	return FromModel(order), nil
}

// Cancel aborts an order that has not entered fulfillment, returning its
// stock. Purchaser and owner may both cancel. Counters touched at delivery
// are never involved because a delivered order is not cancellable.
func (s *service) Cancel(ctx context.Context, actorID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}

	if order.UserID != actorID {
		if _, err := s.guard.RequireOrder(ctx, actorID, orderID); err != nil {
			return nil, err
		}
	}
	if !order.Status.IsCancellable() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot cancel order in status %s", order.Status))
	}

	prior := order.Status
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		// Guarding on the read status keeps a racing fulfillment update
		// from being clobbered and the stock from releasing twice.
		order.Status = enums.OrderStatusCancelled
		moved, err := repo.UpdateStatusTransition(ctx, order, prior)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving order")
		}
		if !moved {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("order left %s before the cancellation landed", prior))
		}
		for i := range order.Items {
			if err := repo.ReleaseInventory(ctx, order.Items[i].ProductID, order.Items[i].Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "releasing inventory")
			}
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel transaction")
	}
	return FromModel(order), nil
}

func (s *service) Analytics(ctx context.Context, actorID, businessID uuid.UUID, days int) (*AnalyticsDTO, error) {
	if _, err := s.guard.RequireBusiness(ctx, actorID, businessID); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = defaultAnalyticsDays
	}
	since := time.Now().AddDate(0, 0, -days)

	totals, err := s.repo.AggregateWindow(ctx, businessID, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregating orders")
	}
	counts, err := s.repo.StatusCounts(ctx, businessID, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting statuses")
	}
	daily, err := s.repo.DailySeries(ctx, businessID, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "building daily series")
	}

	average := decimal.Zero
	if totals.CompletedOrders > 0 {
		average = decimal.NewFromInt(totals.RevenuePaise).
			Div(decimal.NewFromInt(totals.CompletedOrders)).
			Round(2)
	}
	rate := decimal.Zero
	if totals.TotalOrders > 0 {
		rate = decimal.NewFromInt(totals.CompletedOrders).
			Div(decimal.NewFromInt(totals.TotalOrders)).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	return &AnalyticsDTO{
		TotalOrders:       totals.TotalOrders,
		CompletedOrders:   totals.CompletedOrders,
		RevenuePaise:      totals.RevenuePaise,
		AverageOrderPaise: average.String(),
		CompletionRatePct: rate.String(),
		StatusCounts:      counts,
		Daily:             daily,
		WindowDays:        days,
	}, nil
}

func listFrom(rows []models.Order, total int64, params pagination.Params) *OrderList {
	dtos := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return &OrderList{
		Orders: dtos,
		Meta:   pagination.MetaFor(total, pagination.Normalize(params)),
	}
}

func statusPhrase(status enums.OrderStatus) string {
	switch status {
	case enums.OrderStatusConfirmed:
		return "confirmed"
	case enums.OrderStatusProcessing:
		return "is being prepared"
	case enums.OrderStatusShipped:
		return "shipped"
	case enums.OrderStatusDelivered:
		return "delivered"
	default:
		return "updated"
	}
}

func paiseToRupees(paise int64) string {
	return decimal.NewFromInt(paise).Div(decimal.NewFromInt(100)).StringFixed(2)
}
