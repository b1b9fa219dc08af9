package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	domainErrors "github.com/polkiloo/leatherdesk/internal/domain/errors"
	"github.com/polkiloo/leatherdesk/internal/domain/model"
	testhelpers "github.com/polkiloo/leatherdesk/internal/test"
	"github.com/polkiloo/leatherdesk/internal/usecase"
	"github.com/polkiloo/leatherdesk/internal/worker"
)

type facadeFixture struct {
	facade        *BackOfficeFacade
	admins        *testhelpers.AdminRepositoryStub
	requests      *testhelpers.RequestRepositoryStub
	notifications *testhelpers.NotificationRepositoryStub
	mailer        *testhelpers.MailerStub
	dispatcher    *worker.Dispatcher
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newFacadeFixture(t *testing.T, payments PaymentProvider, health HealthChecker) *facadeFixture {
	t.Helper()
	f := &facadeFixture{
		admins:        testhelpers.NewAdminRepositoryStub(),
		requests:      &testhelpers.RequestRepositoryStub{},
		notifications: &testhelpers.NotificationRepositoryStub{},
		mailer:        &testhelpers.MailerStub{},
		dispatcher:    worker.NewDispatcher(worker.DispatcherOptions{Workers: 2, QueueSize: 16, MaxAttempts: 1}, discardLogger()),
	}
	f.dispatcher.Start(context.Background())
	t.Cleanup(f.dispatcher.Stop)

	auth := usecase.NewAdminAuthUseCase(f.admins, testhelpers.HasherStub{}, testhelpers.StrategyStub{}, discardLogger())
	engine := usecase.NewLifecycleEngine(
		f.requests,
		f.notifications,
		f.mailer,
		f.dispatcher,
		usecase.NewRenderer("https://leather.example", "https://leather.example/admin"),
		usecase.DefaultKinds(),
		usecase.EngineOptions{MaxAllocationAttempts: 3},
		discardLogger(),
	)
	inbox := usecase.NewNotificationUseCase(f.notifications)
	f.facade = NewBackOfficeFacade(auth, engine, inbox, payments, health)
	return f
}

func submission() model.NewRequest {
	return model.NewRequest{
		CustomerName: "Jane Doe",
		Email:        "jane@example.com",
		Destination:  "Lisbon, PT",
		ProductName:  "Full-grain cowhide",
		Quantity:     500,
	}
}

func TestBackOfficeFacadeAuth(t *testing.T) {
	f := newFacadeFixture(t, testhelpers.PaymentClientStub{}, testhelpers.HealthFacadeStub{})
	ctx := context.Background()

	if err := f.facade.EnsureAdmin(ctx, "Admin@Example.com", "long-enough-password"); err != nil {
		t.Fatalf("ensure admin returned error: %v", err)
	}
	token, err := f.facade.Login(ctx, "admin@example.com", "long-enough-password")
	if err != nil || token != "token" {
		t.Fatalf("unexpected login result %q, %v", token, err)
	}
	if _, err := f.facade.Login(ctx, "admin@example.com", "wrong"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	session, err := f.facade.ParseToken(token)
	if err != nil || session.AdminID != 1 {
		t.Fatalf("unexpected session %+v, %v", session, err)
	}
}

func TestBackOfficeFacadeRequestLifecycle(t *testing.T) {
	f := newFacadeFixture(t, testhelpers.PaymentClientStub{}, testhelpers.HealthFacadeStub{})
	ctx := context.Background()

	created, err := f.facade.SubmitRequest(ctx, model.KindQuote, submission())
	if err != nil {
		t.Fatalf("submit returned error: %v", err)
	}
	if created.Status != model.StatusRequested || !usecase.ValidRequestNumber(created.RequestNumber) {
		t.Fatalf("unexpected created request %+v", created)
	}

	tracked, err := f.facade.TrackRequest(ctx, model.KindQuote, created.RequestNumber, "JANE@example.com")
	if err != nil || tracked.ID != created.ID {
		t.Fatalf("unexpected track result %+v, %v", tracked, err)
	}

	page, err := f.facade.ListRequests(ctx, model.KindQuote, model.ListQuery{})
	if err != nil || page.Total != 1 || len(page.Items) != 1 {
		t.Fatalf("unexpected page %+v, %v", page, err)
	}

	approved := model.StatusApproved
	updated, _, err := f.facade.UpdateRequest(ctx, model.KindQuote, created.ID, model.Patch{
		Status:             &approved,
		ProposedTotalPrice: model.Number(500),
	})
	if err != nil || updated.Status != model.StatusApproved {
		t.Fatalf("unexpected update result %+v, %v", updated, err)
	}

	invoiced, err := f.facade.AttachInvoice(ctx, created.ID, "INV-9")
	if err != nil || invoiced.InvoiceID != "INV-9" {
		t.Fatalf("unexpected invoice result %+v, %v", invoiced, err)
	}

	got, err := f.facade.GetRequest(ctx, model.KindQuote, created.ID)
	if err != nil || got.InvoiceID != "INV-9" {
		t.Fatalf("unexpected get result %+v, %v", got, err)
	}

	deleted, err := f.facade.DeleteRequest(ctx, model.KindQuote, created.ID)
	if err != nil || !deleted {
		t.Fatalf("unexpected delete result %v, %v", deleted, err)
	}

	f.dispatcher.Stop()

	notifications := f.notifications.Created()
	if len(notifications) != 3 {
		t.Fatalf("expected new, status and delete notifications, got %d", len(notifications))
	}
	if emails := f.mailer.Sent(); len(emails) != 2 {
		t.Fatalf("expected confirmation and approval emails, got %d", len(emails))
	}
}

func TestBackOfficeFacadeInbox(t *testing.T) {
	f := newFacadeFixture(t, testhelpers.PaymentClientStub{}, testhelpers.HealthFacadeStub{})
	ctx := context.Background()
	for _, title := range []string{"one", "two"} {
		if err := f.notifications.Create(ctx, &model.Notification{Title: title, Type: model.NotificationInfo}); err != nil {
			t.Fatalf("seed notification: %v", err)
		}
	}

	items, err := f.facade.Notifications(ctx, true, 10)
	if err != nil || len(items) != 2 {
		t.Fatalf("unexpected inbox %+v, %v", items, err)
	}
	if err := f.facade.MarkNotificationRead(ctx, items[0].ID); err != nil {
		t.Fatalf("mark read returned error: %v", err)
	}
	updated, err := f.facade.MarkAllNotificationsRead(ctx)
	if err != nil || updated != 1 {
		t.Fatalf("expected one remaining unread, got %d, %v", updated, err)
	}
}

func TestBackOfficeFacadeHealth(t *testing.T) {
	f := newFacadeFixture(t, testhelpers.PaymentClientStub{}, testhelpers.HealthFacadeStub{Err: errors.New("db down")})
	if err := f.facade.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected health check error")
	}
}

func TestBackOfficeFacadePayments(t *testing.T) {
	provider := testhelpers.PaymentClientStub{FetchFn: func(_ context.Context, ref string) (*model.Payment, error) {
		return &model.Payment{Reference: ref, Status: model.PaymentStatusSucceeded}, nil
	}}
	f := newFacadeFixture(t, provider, testhelpers.HealthFacadeStub{})
	ctx := context.Background()

	if !f.facade.PaymentsEnabled() {
		t.Fatal("expected payments enabled with provider")
	}

	stored := f.requests.Put(model.Request{
		Kind:             model.KindSample,
		RequestNumber:    "SAMPLE01",
		Status:           model.StatusPending,
		CustomerName:     "Jane Doe",
		Email:            "jane@example.com",
		Destination:      "Lisbon",
		ProductName:      "Swatch",
		Quantity:         1,
		PaymentReference: "pi_123",
	})
	f.requests.Put(model.Request{Kind: model.KindSample, RequestNumber: "SAMPLE02", Status: model.StatusPending})

	awaiting, err := f.facade.RequestsAwaitingPayment(ctx, 10)
	if err != nil || len(awaiting) != 1 || awaiting[0].ID != stored.ID {
		t.Fatalf("expected only referenced request awaiting payment, got %+v, %v", awaiting, err)
	}

	payment, err := f.facade.CheckPayment(ctx, "pi_123")
	if err != nil || payment.Status != model.PaymentStatusSucceeded {
		t.Fatalf("unexpected payment %+v, %v", payment, err)
	}
	if err := f.facade.ApplyPayment(ctx, awaiting[0], *payment); err != nil {
		t.Fatalf("apply payment returned error: %v", err)
	}
	settled, _ := f.requests.Stored(stored.ID)
	if settled.Status != model.StatusPaid {
		t.Fatalf("expected paid sample, got %q", settled.Status)
	}
}

func TestBackOfficeFacadePaymentsDisabled(t *testing.T) {
	f := newFacadeFixture(t, testhelpers.PaymentClientStub{Disabled: true}, testhelpers.HealthFacadeStub{})
	if f.facade.PaymentsEnabled() {
		t.Fatal("expected payments disabled")
	}
	f = newFacadeFixture(t, nil, testhelpers.HealthFacadeStub{})
	if f.facade.PaymentsEnabled() {
		t.Fatal("expected payments disabled without provider")
	}
}

var _ worker.PaymentFacade = (*BackOfficeFacade)(nil)
var _ AdminBootstrapper = (*BackOfficeFacade)(nil)
