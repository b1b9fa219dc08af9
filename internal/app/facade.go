package app

import (
	"context"

	"github.com/polkiloo/leatherdesk/internal/domain/model"
	pkgAuth "github.com/polkiloo/leatherdesk/internal/pkg/auth"
	"github.com/polkiloo/leatherdesk/internal/usecase"
)

// PaymentProvider reports transfer outcomes from the payment provider.
type PaymentProvider interface {
	Enabled() bool
	Fetch(ctx context.Context, reference string) (*model.Payment, error)
}

// HealthChecker verifies backing storage is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// BackOfficeFacade fronts the use cases for HTTP handlers and background workers.
type BackOfficeFacade struct {
	auth     *usecase.AdminAuthUseCase
	engine   *usecase.LifecycleEngine
	inbox    *usecase.NotificationUseCase
	payments PaymentProvider
	health   HealthChecker
}

func NewBackOfficeFacade(
	auth *usecase.AdminAuthUseCase,
	engine *usecase.LifecycleEngine,
	inbox *usecase.NotificationUseCase,
	payments PaymentProvider,
	health HealthChecker,
) *BackOfficeFacade {
	return &BackOfficeFacade{auth: auth, engine: engine, inbox: inbox, payments: payments, health: health}
}

func (f *BackOfficeFacade) EnsureAdmin(ctx context.Context, email, password string) error {
	return f.auth.EnsureAdmin(ctx, email, password)
}

func (f *BackOfficeFacade) Login(ctx context.Context, email, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, email, password)
	return token, err
}

func (f *BackOfficeFacade) ParseToken(token string) (pkgAuth.Session, error) {
	return f.auth.ParseToken(token)
}

func (f *BackOfficeFacade) SubmitRequest(ctx context.Context, kind model.Kind, in model.NewRequest) (*model.Request, error) {
	return f.engine.Create(ctx, kind, in)
}

func (f *BackOfficeFacade) TrackRequest(ctx context.Context, kind model.Kind, number, email string) (*model.Request, error) {
	return f.engine.Track(ctx, kind, number, email)
}

func (f *BackOfficeFacade) ListRequests(ctx context.Context, kind model.Kind, q model.ListQuery) (model.Page, error) {
	return f.engine.List(ctx, kind, q)
}

func (f *BackOfficeFacade) GetRequest(ctx context.Context, kind model.Kind, id string) (*model.Request, error) {
	return f.engine.Get(ctx, kind, id)
}

func (f *BackOfficeFacade) UpdateRequest(ctx context.Context, kind model.Kind, id string, p model.Patch) (*model.Request, []model.Warning, error) {
	return f.engine.Update(ctx, kind, id, p)
}

func (f *BackOfficeFacade) DeleteRequest(ctx context.Context, kind model.Kind, id string) (bool, error) {
	return f.engine.Delete(ctx, kind, id)
}

func (f *BackOfficeFacade) AttachInvoice(ctx context.Context, id, invoiceID string) (*model.Request, error) {
	return f.engine.AttachInvoice(ctx, id, invoiceID)
}

func (f *BackOfficeFacade) Notifications(ctx context.Context, unreadOnly bool, limit int) ([]model.Notification, error) {
	return f.inbox.List(ctx, unreadOnly, limit)
}

func (f *BackOfficeFacade) MarkNotificationRead(ctx context.Context, id int64) error {
	return f.inbox.MarkRead(ctx, id)
}

func (f *BackOfficeFacade) MarkAllNotificationsRead(ctx context.Context) (int64, error) {
	return f.inbox.MarkAllRead(ctx)
}

func (f *BackOfficeFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}

func (f *BackOfficeFacade) PaymentsEnabled() bool {
	return f.payments != nil && f.payments.Enabled()
}

func (f *BackOfficeFacade) RequestsAwaitingPayment(ctx context.Context, limit int) ([]model.Request, error) {
	return f.engine.AwaitingPayment(ctx, limit)
}

func (f *BackOfficeFacade) CheckPayment(ctx context.Context, reference string) (*model.Payment, error) {
	return f.payments.Fetch(ctx, reference)
}

func (f *BackOfficeFacade) ApplyPayment(ctx context.Context, req model.Request, p model.Payment) error {
	return f.engine.SettlePayment(ctx, req, p)
}
