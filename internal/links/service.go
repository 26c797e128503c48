package links

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/anikpatel-dev/vyapaar-backend/internal/ownership"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/config"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/db/models"
	pkgerrors "github.com/anikpatel-dev/vyapaar-backend/pkg/errors"
)

const slugLen = 10
const slugCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Service exposes tracking and checkout link operations. The click and
// conversion endpoints are public and non-idempotent: a retried request
// counts twice.
type Service interface {
	CreateTracking(ctx context.Context, actorID uuid.UUID, input CreateTrackingLinkInput) (*TrackingLinkDTO, error)
	ListTracking(ctx context.Context, actorID, businessID uuid.UUID, search string) ([]TrackingLinkDTO, error)
	TrackingAnalytics(ctx context.Context, actorID, linkID uuid.UUID) (*TrackingAnalyticsDTO, error)
	UpdateTracking(ctx context.Context, actorID, linkID uuid.UUID, input UpdateTrackingLinkInput) (*TrackingLinkDTO, error)
	DeleteTracking(ctx context.Context, actorID, linkID uuid.UUID) error
	ClickTracking(ctx context.Context, linkID uuid.UUID) error
	ConvertTracking(ctx context.Context, linkID uuid.UUID, revenuePaise int64) error

	CreateCheckout(ctx context.Context, actorID uuid.UUID, input CreateCheckoutLinkInput) (*CheckoutLinkDTO, error)
	ListCheckout(ctx context.Context, actorID, businessID uuid.UUID, search string) ([]CheckoutLinkDTO, error)
	GetCheckoutBySlug(ctx context.Context, slug string) (*PublicCheckoutDTO, error)
	UpdateCheckout(ctx context.Context, actorID, linkID uuid.UUID, input UpdateCheckoutLinkInput) (*CheckoutLinkDTO, error)
	DeleteCheckout(ctx context.Context, actorID, linkID uuid.UUID) error
	ClickCheckout(ctx context.Context, slug string) error
	ConvertCheckout(ctx context.Context, slug string) error
}

type service struct {
	repo  *Repository
	guard *ownership.Guard
	links config.LinksConfig
}

// NewService builds the links service.
func NewService(repo *Repository, guard *ownership.Guard, links config.LinksConfig) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "links repository required")
	}
	if guard == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "ownership guard required")
	}
	return &service{repo: repo, guard: guard, links: links}, nil
}

func (s *service) CreateTracking(ctx context.Context, actorID uuid.UUID, input CreateTrackingLinkInput) (*TrackingLinkDTO, error) {
	if _, err := s.guard.RequireBusiness(ctx, actorID, input.BusinessID); err != nil {
		return nil, err
	}

	link := &models.TrackingLink{
		BusinessID:  input.BusinessID,
		Name:        input.Name,
		URL:         input.URL,
		UTMSource:   input.UTMSource,
		UTMMedium:   input.UTMMedium,
		UTMCampaign: input.UTMCampaign,
		IsActive:    true,
	}
	if err := s.repo.CreateTracking(ctx, link); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating tracking link")
	}
	return trackingFromModel(link), nil
}

func (s *service) ListTracking(ctx context.Context, actorID, businessID uuid.UUID, search string) ([]TrackingLinkDTO, error) {
	if _, err := s.guard.RequireBusiness(ctx, actorID, businessID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListTracking(ctx, businessID, search)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing tracking links")
	}
	dtos := make([]TrackingLinkDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *trackingFromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) TrackingAnalytics(ctx context.Context, actorID, linkID uuid.UUID) (*TrackingAnalyticsDTO, error) {
	link, err := s.guard.RequireTrackingLink(ctx, actorID, linkID)
	if err != nil {
		return nil, err
	}

	rate := decimal.Zero
	if link.Clicks > 0 {
		rate = decimal.NewFromInt(int64(link.Conversions)).
			Div(decimal.NewFromInt(int64(link.Clicks))).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	return &TrackingAnalyticsDTO{
		Name:              link.Name,
		URL:               link.URL,
		Clicks:            link.Clicks,
		Conversions:       link.Conversions,
		RevenuePaise:      link.RevenuePaise,
		ConversionRatePct: rate.String(),
	}, nil
}

func (s *service) UpdateTracking(ctx context.Context, actorID, linkID uuid.UUID, input UpdateTrackingLinkInput) (*TrackingLinkDTO, error) {
	link, err := s.guard.RequireTrackingLink(ctx, actorID, linkID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		link.Name = *input.Name
	}
	if input.URL != nil {
		link.URL = *input.URL
	}
	if input.UTMSource != nil {
		link.UTMSource = input.UTMSource
	}
	if input.UTMMedium != nil {
		link.UTMMedium = input.UTMMedium
	}
	if input.UTMCampaign != nil {
		link.UTMCampaign = input.UTMCampaign
	}
	if input.IsActive != nil {
		link.IsActive = *input.IsActive
	}
	if err := s.repo.SaveTracking(ctx, link); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating tracking link")
	}
	return trackingFromModel(link), nil
}

func (s *service) DeleteTracking(ctx context.Context, actorID, linkID uuid.UUID) error {
	if _, err := s.guard.RequireTrackingLink(ctx, actorID, linkID); err != nil {
		return err
	}
	if err := s.repo.DeleteTracking(ctx, linkID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting tracking link")
	}
	return nil
}

func (s *service) ClickTracking(ctx context.Context, linkID uuid.UUID) error {
	rows, err := s.repo.BumpTrackingClick(ctx, linkID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording click")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "tracking link not found")
	}
	return nil
}

func (s *service) ConvertTracking(ctx context.Context, linkID uuid.UUID, revenuePaise int64) error {
	if revenuePaise < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "revenue cannot be negative")
	}
	rows, err := s.repo.BumpTrackingConversion(ctx, linkID, revenuePaise)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording conversion")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "tracking link not found")
	}
	return nil
}

// CreateCheckout mints a random slug and derives the public URL from the
// configured base. A bound product must belong to the same business.
func (s *service) CreateCheckout(ctx context.Context, actorID uuid.UUID, input CreateCheckoutLinkInput) (*CheckoutLinkDTO, error) {
	if _, err := s.guard.RequireBusiness(ctx, actorID, input.BusinessID); err != nil {
		return nil, err
	}

	if input.ProductID != nil {
		product, err := s.repo.FindProduct(ctx, *input.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
		}
		if product.BusinessID != input.BusinessID {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product does not belong to this business")
		}
	}

	slug := randomSlug(slugLen)
	link := &models.CheckoutLink{
		BusinessID: input.BusinessID,
		ProductID:  input.ProductID,
		Name:       input.Name,
		Slug:       slug,
		URL:        fmt.Sprintf("%s/checkout/%s", strings.TrimRight(s.links.PublicBaseURL, "/"), slug),
		IsActive:   true,
	}
	if err := s.repo.CreateCheckout(ctx, link); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating checkout link")
	}
	return checkoutFromModel(link), nil
}

func (s *service) ListCheckout(ctx context.Context, actorID, businessID uuid.UUID, search string) ([]CheckoutLinkDTO, error) {
	if _, err := s.guard.RequireBusiness(ctx, actorID, businessID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListCheckout(ctx, businessID, search)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing checkout links")
	}
	dtos := make([]CheckoutLinkDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *checkoutFromModel(&rows[i]))
	}
	return dtos, nil
}

// GetCheckoutBySlug serves the public landing data for an active slug.
func (s *service) GetCheckoutBySlug(ctx context.Context, slug string) (*PublicCheckoutDTO, error) {
	link, err := s.repo.FindCheckoutBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout link not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading checkout link")
	}
	if !link.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout link not found")
	}
	return &PublicCheckoutDTO{
		CheckoutLinkDTO: *checkoutFromModel(link),
		Product:         link.Product,
	}, nil
}

func (s *service) UpdateCheckout(ctx context.Context, actorID, linkID uuid.UUID, input UpdateCheckoutLinkInput) (*CheckoutLinkDTO, error) {
	link, err := s.guard.RequireCheckoutLink(ctx, actorID, linkID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		link.Name = *input.Name
	}
	if input.IsActive != nil {
		link.IsActive = *input.IsActive
	}
	if err := s.repo.SaveCheckout(ctx, link); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating checkout link")
	}
	return checkoutFromModel(link), nil
}

func (s *service) DeleteCheckout(ctx context.Context, actorID, linkID uuid.UUID) error {
	if _, err := s.guard.RequireCheckoutLink(ctx, actorID, linkID); err != nil {
		return err
	}
	if err := s.repo.DeleteCheckout(ctx, linkID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting checkout link")
	}
	return nil
}

func (s *service) ClickCheckout(ctx context.Context, slug string) error {
	rows, err := s.repo.BumpCheckoutClick(ctx, slug)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording click")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "checkout link not found")
	}
	return nil
}

func (s *service) ConvertCheckout(ctx context.Context, slug string) error {
	rows, err := s.repo.BumpCheckoutConversion(ctx, slug)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording conversion")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "checkout link not found")
	}
	return nil
}

func randomSlug(length int) string {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return strings.Repeat("x", length)
	}
	out := make([]byte, length)
	for i, b := range buf {
		out[i] = slugCharset[int(b)%len(slugCharset)]
	}
	return string(out)
}
