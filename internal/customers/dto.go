package customers

import (
	"time"

	"github.com/google/uuid"

	"github.com/anikpatel-dev/vyapaar-backend/pkg/db/models"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/pagination"
)

// Sort names the supported customer list orderings.
type Sort string

const (
	SortNewest       Sort = "newest"
	SortOldest       Sort = "oldest"
	SortHighestSpent Sort = "highest_spent"
	SortMostOrders   Sort = "most_orders"
)

// ListFilters narrow the owner's customer listing.
type ListFilters struct {
	Search string
	SortBy Sort
}

// CustomerUserDTO is the embedded user identity on a customer row.
type CustomerUserDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Phone *string   `json:"phone,omitempty"`
}

// CustomerDTO is the transport shape of a per-business customer.
type CustomerDTO struct {
	ID              uuid.UUID        `json:"id"`
	UserID          uuid.UUID        `json:"userId"`
	BusinessID      uuid.UUID        `json:"businessId"`
	OrderCount      int              `json:"orderCount"`
	TotalSpentPaise int64            `json:"totalSpentPaise"`
	LastOrderDate   *time.Time       `json:"lastOrderDate,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
	User            *CustomerUserDTO `json:"user,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// CustomerList wraps a paginated customer page.
type CustomerList struct {
	Customers []CustomerDTO   `json:"customers"`
	Meta      pagination.Meta `json:"meta"`
}

// CategoryCount is one bucket of the per-category purchase breakdown.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// CustomerAnalytics summarizes one customer's purchase history.
type CustomerAnalytics struct {
	TotalOrders       int64           `json:"totalOrders"`
	CompletedOrders   int64           `json:"completedOrders"`
	TotalSpentPaise   int64           `json:"totalSpentPaise"`
	AverageOrderPaise string          `json:"averageOrderPaise"`
	TopCategories     []CategoryCount `json:"topCategories"`
}

// CustomerDetail is the drill-down view for one customer.
type CustomerDetail struct {
	Customer     CustomerDTO       `json:"customer"`
	RecentOrders []models.Order    `json:"recentOrders"`
	Analytics    CustomerAnalytics `json:"analytics"`
}

// MonthlyCount is one month of signup volume, keyed YYYY-MM.
type MonthlyCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// BusinessAnalytics is the customer-base rollup for one business.
type BusinessAnalytics struct {
	TotalCustomers     int64          `json:"totalCustomers"`
	NewCustomers       int64          `json:"newCustomers"`
	ReturningCustomers int64          `json:"returningCustomers"`
	RepeatRatePct      string         `json:"repeatRatePct"`
	TopCustomers       []CustomerDTO  `json:"topCustomers"`
	MonthlySignups     []MonthlyCount `json:"monthlySignups"`
	WindowDays         int            `json:"windowDays"`
}

func FromModel(m *models.Customer) *CustomerDTO {
	if m == nil {
		return nil
	}
	dto := &CustomerDTO{
		ID:              m.ID,
		UserID:          m.UserID,
		BusinessID:      m.BusinessID,
		OrderCount:      m.OrderCount,
		TotalSpentPaise: m.TotalSpentPaise,
		LastOrderDate:   m.LastOrderDate,
		Notes:           m.Notes,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.User != nil {
		dto.User = &CustomerUserDTO{
			ID:    m.User.ID,
			Name:  m.User.Name,
			Email: m.User.Email,
			Phone: m.User.Phone,
		}
	}
	return dto
}
