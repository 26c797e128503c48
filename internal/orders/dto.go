package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/anikpatel-dev/vyapaar-backend/pkg/db/models"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/pagination"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/types"
)

// Purchaser identifies the buying user for order creation. Email and name
// feed the best-effort confirmation mail and are never persisted here.
type Purchaser struct {
	ID    uuid.UUID
	Email string
	Name  string
}

// OrderItemInput is one requested line of a new order.
type OrderItemInput struct {
	ProductID uuid.UUID      `json:"productId" validate:"required"`
	Quantity  int            `json:"quantity" validate:"required,gte=1"`
	Variant   *types.JSONMap `json:"variant,omitempty"`
	Notes     *string        `json:"notes,omitempty"`
}

// CreateOrderInput is the order creation payload.
type CreateOrderInput struct {
	BusinessID      uuid.UUID        `json:"businessId" validate:"required"`
	Items           []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	ShippingAddress AddressInput     `json:"shippingAddress" validate:"required"`
	BillingAddress  *AddressInput    `json:"billingAddress,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
}

// AddressInput carries the validated address fields for a snapshot.
type AddressInput struct {
	Name    string `json:"name" validate:"required,min=2"`
	Phone   string `json:"phone" validate:"required,min=10"`
	Address string `json:"address" validate:"required,min=10"`
	City    string `json:"city" validate:"required,min=2"`
	State   string `json:"state" validate:"required,min=2"`
	ZipCode string `json:"zipCode" validate:"required,min=5"`
	Country string `json:"country,omitempty"`
}

func (a AddressInput) toSnapshot() types.Address {
	return types.Address{
		Name:    a.Name,
		Phone:   a.Phone,
		Address: a.Address,
		City:    a.City,
		State:   a.State,
		ZipCode: a.ZipCode,
		Country: a.Country,
	}
}

// UpdateStatusInput drives the owner-side fulfillment transition.
type UpdateStatusInput struct {
	Status            string     `json:"status" validate:"required"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery,omitempty"`
}

// ListFilters narrow order listings.
type ListFilters struct {
	Status string // raw status value, empty for all
	Search string // order number fragment, owner listing only
}

// OrderItemDTO is the transport shape of a priced line.
type OrderItemDTO struct {
	ID              uuid.UUID      `json:"id"`
	ProductID       uuid.UUID      `json:"productId"`
	ProductName     string         `json:"productName"`
	Quantity        int            `json:"quantity"`
	UnitPricePaise  int64          `json:"unitPricePaise"`
	TotalPricePaise int64          `json:"totalPricePaise"`
	Variant         *types.JSONMap `json:"variant,omitempty"`
	Notes           *string        `json:"notes,omitempty"`
}

// OrderDTO is the transport shape of an order.
type OrderDTO struct {
	ID                  uuid.UUID      `json:"id"`
	OrderNumber         string         `json:"orderNumber"`
	UserID              uuid.UUID      `json:"userId"`
	BusinessID          uuid.UUID      `json:"businessId"`
	CustomerID          uuid.UUID      `json:"customerId"`
	Status              string         `json:"status"`
	PaymentStatus       string         `json:"paymentStatus"`
	TotalAmountPaise    int64          `json:"totalAmountPaise"`
	DiscountAmountPaise int64          `json:"discountAmountPaise"`
	TaxAmountPaise      int64          `json:"taxAmountPaise"`
	ShippingAmountPaise int64          `json:"shippingAmountPaise"`
	FinalAmountPaise    int64          `json:"finalAmountPaise"`
	ShippingAddress     types.Address  `json:"shippingAddress"`
	BillingAddress      *types.Address `json:"billingAddress,omitempty"`
	Notes               *string        `json:"notes,omitempty"`
	EstimatedDelivery   *time.Time     `json:"estimatedDelivery,omitempty"`
	DeliveredAt         *time.Time     `json:"deliveredAt,omitempty"`
	Items               []OrderItemDTO `json:"items"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
}

// OrderList wraps a paginated order page.
type OrderList struct {
	Orders []OrderDTO      `json:"orders"`
	Meta   pagination.Meta `json:"meta"`
}

// StatusCount is one bucket of the per-status breakdown.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// DailyPoint is one day of the order/revenue series.
type DailyPoint struct {
	Day          string `json:"day"`
	Orders       int64  `json:"orders"`
	RevenuePaise int64  `json:"revenuePaise"`
}

// AnalyticsDTO is the owner order dashboard rollup. Averages and rates are
// decimal strings to keep paise precision out of float territory.
type AnalyticsDTO struct {
	TotalOrders       int64         `json:"totalOrders"`
	CompletedOrders   int64         `json:"completedOrders"`
	RevenuePaise      int64         `json:"revenuePaise"`
	AverageOrderPaise string        `json:"averageOrderPaise"`
	CompletionRatePct string        `json:"completionRatePct"`
	StatusCounts      []StatusCount `json:"statusCounts"`
	Daily             []DailyPoint  `json:"daily"`
	WindowDays        int           `json:"windowDays"`
}

func FromModel(m *models.Order) *OrderDTO {
	if m == nil {
		return nil
	}
	items := make([]OrderItemDTO, 0, len(m.Items))
	for i := range m.Items {
		items = append(items, itemFromModel(&m.Items[i]))
	}
	return &OrderDTO{
		ID:                  m.ID,
		OrderNumber:         m.OrderNumber,
		UserID:              m.UserID,
		BusinessID:          m.BusinessID,
		CustomerID:          m.CustomerID,
		Status:              m.Status.String(),
		PaymentStatus:       m.PaymentStatus.String(),
		TotalAmountPaise:    m.TotalAmountPaise,
		DiscountAmountPaise: m.DiscountAmountPaise,
		TaxAmountPaise:      m.TaxAmountPaise,
		ShippingAmountPaise: m.ShippingAmountPaise,
		FinalAmountPaise:    m.FinalAmountPaise,
		ShippingAddress:     m.ShippingAddress,
		BillingAddress:      m.BillingAddress,
		Notes:               m.Notes,
		EstimatedDelivery:   m.EstimatedDelivery,
		DeliveredAt:         m.DeliveredAt,
		Items:               items,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func itemFromModel(m *models.OrderItem) OrderItemDTO {
	return OrderItemDTO{
		ID:              m.ID,
		ProductID:       m.ProductID,
		ProductName:     m.ProductName,
		Quantity:        m.Quantity,
		UnitPricePaise:  m.UnitPricePaise,
		TotalPricePaise: m.TotalPricePaise,
		Variant:         m.Variant,
		Notes:           m.Notes,
	}
}
