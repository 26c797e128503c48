package customers

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anikpatel-dev/vyapaar-backend/internal/ownership"
	pkgerrors "github.com/anikpatel-dev/vyapaar-backend/pkg/errors"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/pagination"
)

const (
	defaultWindowDays = 30
	recentOrderLimit  = 20
	topCategoryLimit  = 5
	topCustomerLimit  = 10
	maxNotesLen       = 1000
)

// Service exposes the owner-side customer views. Customer rows themselves
// are written only by the order lifecycle.
type Service interface {
	ListByBusiness(ctx context.Context, actorID, businessID uuid.UUID, filters ListFilters, params pagination.Params) (*CustomerList, error)
	GetDetail(ctx context.Context, actorID, customerID uuid.UUID) (*CustomerDetail, error)
	UpdateNotes(ctx context.Context, actorID, customerID uuid.UUID, notes string) (*CustomerDTO, error)
	Analytics(ctx context.Context, actorID, businessID uuid.UUID, days int) (*BusinessAnalytics, error)
}

type service struct {
	repo  *Repository
	guard *ownership.Guard
}

// NewService builds the customers service.
func NewService(repo *Repository, guard *ownership.Guard) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "customer repository required")
	}
	if guard == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "ownership guard required")
	}
	return &service{repo: repo, guard: guard}, nil
}

func (s *service) ListByBusiness(ctx context.Context, actorID, businessID uuid.UUID, filters ListFilters, params pagination.Params) (*CustomerList, error) {
	if _, err := s.guard.RequireBusiness(ctx, actorID, businessID); err != nil {
		return nil, err
	}

	rows, total, err := s.repo.ListByBusiness(ctx, businessID, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing customers")
	}

	dtos := make([]CustomerDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return &CustomerList{
		Customers: dtos,
		Meta:      pagination.MetaFor(total, pagination.Normalize(params)),
	}, nil
}

func (s *service) GetDetail(ctx context.Context, actorID, customerID uuid.UUID) (*CustomerDetail, error) {
	customer, err := s.guard.RequireCustomer(ctx, actorID, customerID)
	if err != nil {
		return nil, err
	}
	// The guard loads a bare row; re-read with the user attached.
	customer, err = s.repo.FindByID(ctx, customer.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading customer")
	}

	recent, err := s.repo.RecentOrders(ctx, customer.ID, recentOrderLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading recent orders")
	}
	stats, err := s.repo.AggregateOrders(ctx, customer.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregating orders")
	}
	categories, err := s.repo.TopCategories(ctx, customer.ID, topCategoryLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ranking categories")
	}

	average := decimal.Zero
	if stats.CompletedOrders > 0 {
		average = decimal.NewFromInt(stats.TotalSpentPaise).
			Div(decimal.NewFromInt(stats.CompletedOrders)).
			Round(2)
	}

	return &CustomerDetail{
		Customer:     *FromModel(customer),
		RecentOrders: recent,
		Analytics: CustomerAnalytics{
			TotalOrders:       stats.TotalOrders,
			CompletedOrders:   stats.CompletedOrders,
			TotalSpentPaise:   stats.TotalSpentPaise,
			AverageOrderPaise: average.String(),
			TopCategories:     categories,
		},
	}, nil
}

func (s *service) UpdateNotes(ctx context.Context, actorID, customerID uuid.UUID, notes string) (*CustomerDTO, error) {
	if len(notes) > maxNotesLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notes must be at most 1000 characters")
	}
	customer, err := s.guard.RequireCustomer(ctx, actorID, customerID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateNotes(ctx, customer.ID, notes); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating notes")
	}
	customer.Notes = &notes
	return FromModel(customer), nil
}

func (s *service) Analytics(ctx context.Context, actorID, businessID uuid.UUID, days int) (*BusinessAnalytics, error) {
	if _, err := s.guard.RequireBusiness(ctx, actorID, businessID); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = defaultWindowDays
	}
	since := time.Now().AddDate(0, 0, -days)

	total, err := s.repo.CountAll(ctx, businessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting customers")
	}
	fresh, err := s.repo.CountNewSince(ctx, businessID, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting new customers")
	}
	returning, err := s.repo.CountReturning(ctx, businessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting returning customers")
	}
	top, err := s.repo.TopBySpend(ctx, businessID, topCustomerLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ranking customers")
	}
	yearStart := time.Date(time.Now().Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	signups, err := s.repo.SignupDates(ctx, businessID, yearStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading signup dates")
	}

	rate := decimal.Zero
	if total > 0 {
		rate = decimal.NewFromInt(returning).
			Div(decimal.NewFromInt(total)).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	topDTOs := make([]CustomerDTO, 0, len(top))
	for i := range top {
		topDTOs = append(topDTOs, *FromModel(&top[i]))
	}

	return &BusinessAnalytics{
		TotalCustomers:     total,
		NewCustomers:       fresh,
		ReturningCustomers: returning,
		RepeatRatePct:      rate.String(),
		TopCustomers:       topDTOs,
		MonthlySignups:     bucketByMonth(signups),
		WindowDays:         days,
	}, nil
}

func bucketByMonth(dates []time.Time) []MonthlyCount {
	byMonth := make(map[string]int64)
	for _, d := range dates {
		byMonth[d.Format("2006-01")]++
	}
	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Strings(months)

	counts := make([]MonthlyCount, 0, len(months))
	for _, month := range months {
		counts = append(counts, MonthlyCount{Month: month, Count: byMonth[month]})
	}
	return counts
}
