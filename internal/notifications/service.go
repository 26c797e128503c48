package notifications

import (
	"context"

	"github.com/google/uuid"

	"github.com/anikpatel-dev/vyapaar-backend/pkg/db/models"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/enums"
	pkgerrors "github.com/anikpatel-dev/vyapaar-backend/pkg/errors"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/logger"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/pagination"
)

// ListResult wraps a notification page with the unread badge count.
type ListResult struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unreadCount"`
	Meta          pagination.Meta       `json:"meta"`
}

// Service defines notification list/read operations plus the producer
// hook used by order events.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params pagination.Params) (*ListResult, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Notify(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, title, body string)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService wires notifications dependencies. logg may be nil.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notifications repository required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params pagination.Params) (*ListResult, error) {
	rows, total, err := s.repo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing notifications")
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting unread")
	}
	return &ListResult{
		Notifications: rows,
		UnreadCount:   unread,
		Meta:          pagination.MetaFor(total, pagination.Normalize(params)),
	}, nil
}

func (s *service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	rows, err := s.repo.MarkRead(ctx, userID, notificationID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marking notification read")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	rows, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marking notifications read")
	}
	return rows, nil
}

// Notify records an in-app notification. Producers treat this as
// best-effort: failures are logged and swallowed.
func (s *service) Notify(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, title, body string) {
	if userID == uuid.Nil || !kind.IsValid() {
		return
	}
	err := s.repo.Create(ctx, &models.Notification{
		UserID: userID,
		Type:   kind,
		Title:  title,
		Body:   body,
	})
	if err != nil && s.logg != nil {
		s.logg.Error(ctx, "creating notification failed", err)
	}
}
