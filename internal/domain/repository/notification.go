package repository

import (
	"context"

	"github.com/polkiloo/leatherdesk/internal/domain/model"
)

// NotificationRepository stores staff alerts.
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	List(ctx context.Context, unreadOnly bool, limit int) ([]model.Notification, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context) (int64, error)
}
