package usecase

import (
	"context"

	domainErrors "github.com/polkiloo/leatherdesk/internal/domain/errors"
	"github.com/polkiloo/leatherdesk/internal/domain/model"
	"github.com/polkiloo/leatherdesk/internal/domain/repository"
)

const maxInboxLimit = 200

// NotificationUseCase is the staff inbox.
type NotificationUseCase struct {
	notifications repository.NotificationRepository
}

// NewNotificationUseCase constructs NotificationUseCase.
func NewNotificationUseCase(notifications repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{notifications: notifications}
}

// List returns newest notifications first.
func (u *NotificationUseCase) List(ctx context.Context, unreadOnly bool, limit int) ([]model.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > maxInboxLimit {
		limit = maxInboxLimit
	}
	items, err := u.notifications.List(ctx, unreadOnly, limit)
	if err != nil {
		return nil, domainErrors.Persistence("list notifications", err)
	}
	return items, nil
}

func (u *NotificationUseCase) MarkRead(ctx context.Context, id int64) error {
	if err := u.notifications.MarkRead(ctx, id); err != nil {
		return domainErrors.Persistence("mark notification read", err)
	}
	return nil
}

func (u *NotificationUseCase) MarkAllRead(ctx context.Context) (int64, error) {
	n, err := u.notifications.MarkAllRead(ctx)
	if err != nil {
		return 0, domainErrors.Persistence("mark notifications read", err)
	}
	return n, nil
}
