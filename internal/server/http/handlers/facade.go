package handlers

import (
	"context"

	"github.com/polkiloo/leatherdesk/internal/domain/model"
	pkgAuth "github.com/polkiloo/leatherdesk/internal/pkg/auth"
)

// AuthFacade describes admin sign-in capabilities required by handlers.
type AuthFacade interface {
	Login(ctx context.Context, email, password string) (string, error)
	ParseToken(token string) (pkgAuth.Session, error)
}

// RequestFacade exposes quote and sample request operations via HTTP.
type RequestFacade interface {
	SubmitRequest(ctx context.Context, kind model.Kind, in model.NewRequest) (*model.Request, error)
	TrackRequest(ctx context.Context, kind model.Kind, number, email string) (*model.Request, error)
	ListRequests(ctx context.Context, kind model.Kind, q model.ListQuery) (model.Page, error)
	GetRequest(ctx context.Context, kind model.Kind, id string) (*model.Request, error)
	UpdateRequest(ctx context.Context, kind model.Kind, id string, p model.Patch) (*model.Request, []model.Warning, error)
	DeleteRequest(ctx context.Context, kind model.Kind, id string) (bool, error)
	AttachInvoice(ctx context.Context, id, invoiceID string) (*model.Request, error)
}

// NotificationFacade provides the staff inbox.
type NotificationFacade interface {
	Notifications(ctx context.Context, unreadOnly bool, limit int) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) error
	MarkAllNotificationsRead(ctx context.Context) (int64, error)
}

// HealthFacade reports whether backing services are reachable.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// BackOfficeFacade aggregates the full set of operations used across handlers.
type BackOfficeFacade interface {
	AuthFacade
	RequestFacade
	NotificationFacade
	HealthFacade
}
