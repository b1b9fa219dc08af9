package test

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/polkiloo/leatherdesk/internal/domain/model"
)

// RequestFacadeStub provides controllable behaviour for request endpoints.
type RequestFacadeStub struct {
	SubmitFn  func(context.Context, model.Kind, model.NewRequest) (*model.Request, error)
	TrackFn   func(context.Context, model.Kind, string, string) (*model.Request, error)
	ListFn    func(context.Context, model.Kind, model.ListQuery) (model.Page, error)
	GetFn     func(context.Context, model.Kind, string) (*model.Request, error)
	UpdateFn  func(context.Context, model.Kind, string, model.Patch) (*model.Request, []model.Warning, error)
	DeleteFn  func(context.Context, model.Kind, string) (bool, error)
	InvoiceFn func(context.Context, string, string) (*model.Request, error)
}

// SampleRequest returns a stored request used as the default stub answer.
func SampleRequest(kind model.Kind) *model.Request {
	status := model.StatusRequested
	if kind == model.KindSample {
		status = model.StatusPending
	}
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &model.Request{
		ID:            "req-1",
		Kind:          kind,
		RequestNumber: "AB12CD34",
		Status:        status,
		CustomerName:  "Jane Doe",
		Email:         "jane@example.com",
		Destination:   "Lisbon, PT",
		ProductName:   "Full-grain cowhide",
		Quantity:      500,
		Currency:      "USD",
		CreatedAt:     at,
		UpdatedAt:     at,
	}
}

func (s RequestFacadeStub) SubmitRequest(ctx context.Context, kind model.Kind, in model.NewRequest) (*model.Request, error) {
	if s.SubmitFn != nil {
		return s.SubmitFn(ctx, kind, in)
	}
	return SampleRequest(kind), nil
}

func (s RequestFacadeStub) TrackRequest(ctx context.Context, kind model.Kind, number, email string) (*model.Request, error) {
	if s.TrackFn != nil {
		return s.TrackFn(ctx, kind, number, email)
	}
	return SampleRequest(kind), nil
}

func (s RequestFacadeStub) ListRequests(ctx context.Context, kind model.Kind, q model.ListQuery) (model.Page, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, kind, q)
	}
	return model.Page{Items: []model.Request{*SampleRequest(kind)}, Total: 1, Page: 1, Limit: 20}, nil
}

func (s RequestFacadeStub) GetRequest(ctx context.Context, kind model.Kind, id string) (*model.Request, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, kind, id)
	}
	req := SampleRequest(kind)
	req.ID = id
	return req, nil
}

func (s RequestFacadeStub) UpdateRequest(ctx context.Context, kind model.Kind, id string, p model.Patch) (*model.Request, []model.Warning, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, kind, id, p)
	}
	req := SampleRequest(kind)
	req.ID = id
	return req, nil, nil
}

func (s RequestFacadeStub) DeleteRequest(ctx context.Context, kind model.Kind, id string) (bool, error) {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, kind, id)
	}
	return true, nil
}

func (s RequestFacadeStub) AttachInvoice(ctx context.Context, id, invoiceID string) (*model.Request, error) {
	if s.InvoiceFn != nil {
		return s.InvoiceFn(ctx, id, invoiceID)
	}
	req := SampleRequest(model.KindQuote)
	req.ID = id
	req.Status = model.StatusApproved
	req.InvoiceID = invoiceID
	return req, nil
}

// NotificationFacadeStub simulates the staff inbox.
type NotificationFacadeStub struct {
	ListFn    func(context.Context, bool, int) ([]model.Notification, error)
	ReadFn    func(context.Context, int64) error
	ReadAllFn func(context.Context) (int64, error)
}

func (s NotificationFacadeStub) Notifications(ctx context.Context, unreadOnly bool, limit int) ([]model.Notification, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, unreadOnly, limit)
	}
	return []model.Notification{{ID: 1, Title: "New quote request AB12CD34", Type: model.NotificationNewQuoteRequest, CreatedAt: time.Unix(0, 0)}}, nil
}

func (s NotificationFacadeStub) MarkNotificationRead(ctx context.Context, id int64) error {
	if s.ReadFn != nil {
		return s.ReadFn(ctx, id)
	}
	return nil
}

func (s NotificationFacadeStub) MarkAllNotificationsRead(ctx context.Context) (int64, error) {
	if s.ReadAllFn != nil {
		return s.ReadAllFn(ctx)
	}
	return 1, nil
}

// HealthFacadeStub reports a configurable database state.
type HealthFacadeStub struct {
	Err error
}

func (s HealthFacadeStub) HealthCheck(context.Context) error {
	return s.Err
}

// BackOfficeFacadeStub aggregates facade dependencies for HTTP layer tests.
type BackOfficeFacadeStub struct {
	AuthFacadeStub
	RequestFacadeStub
	NotificationFacadeStub
	HealthFacadeStub
}

// MailerStub records sent emails.
type MailerStub struct {
	mu   sync.Mutex
	sent []model.Email

	SendFn func(context.Context, model.Email) error
}

// Send stores email unless SendFn fails.
func (m *MailerStub) Send(ctx context.Context, email model.Email) error {
	if m.SendFn != nil {
		if err := m.SendFn(ctx, email); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, email)
	return nil
}

// Sent returns a snapshot of delivered emails.
func (m *MailerStub) Sent() []model.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.sent)
}

// AppliedPayment stores information about ApplyPayment invocations.
type AppliedPayment struct {
	Request model.Request
	Payment model.Payment
}

// PaymentFacadeStub mimics poller interactions with the back-office facade.
type PaymentFacadeStub struct {
	Disabled bool
	Batches  [][]model.Request
	CheckFn  func(context.Context, string) (*model.Payment, error)
	ApplyFn  func(context.Context, model.Request, model.Payment) error

	mu            sync.Mutex
	applied       []AppliedPayment
	awaitingCalls int32
}

func (s *PaymentFacadeStub) PaymentsEnabled() bool {
	return !s.Disabled
}

// RequestsAwaitingPayment returns batches from configured queue.
func (s *PaymentFacadeStub) RequestsAwaitingPayment(ctx context.Context, limit int) ([]model.Request, error) {
	call := atomic.AddInt32(&s.awaitingCalls, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// CheckPayment returns configured payment data.
func (s *PaymentFacadeStub) CheckPayment(ctx context.Context, reference string) (*model.Payment, error) {
	if s.CheckFn != nil {
		return s.CheckFn(ctx, reference)
	}
	return &model.Payment{Reference: reference, Status: model.PaymentStatusSucceeded}, nil
}

// ApplyPayment records settlement requests.
func (s *PaymentFacadeStub) ApplyPayment(ctx context.Context, req model.Request, p model.Payment) error {
	if s.ApplyFn != nil {
		return s.ApplyFn(ctx, req, p)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied = append(s.applied, AppliedPayment{Request: req, Payment: p})
	return nil
}

// AwaitingCalls reports how often the poller asked for work.
func (s *PaymentFacadeStub) AwaitingCalls() int {
	return int(atomic.LoadInt32(&s.awaitingCalls))
}

// AppliedPayments returns a snapshot of recorded settlements.
func (s *PaymentFacadeStub) AppliedPayments() []AppliedPayment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.applied)
}

// PaymentClientStub answers provider lookups for tests.
type PaymentClientStub struct {
	FetchFn  func(context.Context, string) (*model.Payment, error)
	Disabled bool
}

func (s PaymentClientStub) Fetch(ctx context.Context, reference string) (*model.Payment, error) {
	if s.FetchFn != nil {
		return s.FetchFn(ctx, reference)
	}
	return &model.Payment{Reference: reference, Status: model.PaymentStatusSucceeded}, nil
}

func (s PaymentClientStub) Enabled() bool {
	return !s.Disabled
}
