package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/polkiloo/leatherdesk/internal/adapter/mailer"
	domainErrors "github.com/polkiloo/leatherdesk/internal/domain/errors"
	"github.com/polkiloo/leatherdesk/internal/domain/model"
	"github.com/polkiloo/leatherdesk/internal/domain/repository"
	"github.com/polkiloo/leatherdesk/internal/worker"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

var sortColumns = []string{"createdAt", "updatedAt", "requestNumber", "status", "customerName"}

// SideEffectQueue accepts fire-and-forget tasks.
type SideEffectQueue interface {
	Enqueue(task worker.Task) bool
}

// EngineOptions tune the lifecycle engine.
type EngineOptions struct {
	MaxAllocationAttempts int
	StrictTransitions     bool
}

// LifecycleEngine drives quote and sample requests through their statuses.
// Persistence happens before any notification or email is scheduled.
type LifecycleEngine struct {
	requests      repository.RequestRepository
	notifications repository.NotificationRepository
	mailer        mailer.Mailer
	queue         SideEffectQueue
	renderer      *Renderer
	allocator     *Allocator
	kinds         map[model.Kind]*KindConfig
	opts          EngineOptions
	logger        *slog.Logger
	now           func() time.Time
}

// NewLifecycleEngine constructs LifecycleEngine for the given kinds.
func NewLifecycleEngine(
	requests repository.RequestRepository,
	notifications repository.NotificationRepository,
	m mailer.Mailer,
	queue SideEffectQueue,
	renderer *Renderer,
	kinds []*KindConfig,
	opts EngineOptions,
	logger *slog.Logger,
) *LifecycleEngine {
	if opts.MaxAllocationAttempts <= 0 {
		opts.MaxAllocationAttempts = 1
	}
	byKind := make(map[model.Kind]*KindConfig, len(kinds))
	for _, kc := range kinds {
		byKind[kc.Kind] = kc
	}
	return &LifecycleEngine{
		requests:      requests,
		notifications: notifications,
		mailer:        m,
		queue:         queue,
		renderer:      renderer,
		allocator:     NewAllocator(requests),
		kinds:         byKind,
		opts:          opts,
		logger:        logger,
		now:           time.Now,
	}
}

// Kind returns configuration for kind.
func (e *LifecycleEngine) Kind(kind model.Kind) (*KindConfig, error) {
	kc, ok := e.kinds[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domainErrors.ErrUnknownKind, kind)
	}
	return kc, nil
}

// Create validates a submission, assigns a request number and stores it in
// the kind's initial status.
func (e *LifecycleEngine) Create(ctx context.Context, kind model.Kind, in model.NewRequest) (*model.Request, error) {
	kc, err := e.Kind(kind)
	if err != nil {
		return nil, err
	}

	in = normalizeSubmission(in)
	if err := validateSubmission(in); err != nil {
		return nil, err
	}

	now := e.now().UTC()
	req := &model.Request{
		Kind:          kind,
		Status:        kc.InitialStatus,
		CustomerName:  in.CustomerName,
		Company:       in.Company,
		Email:         in.Email,
		Phone:         in.Phone,
		Destination:   in.Destination,
		Message:       in.Message,
		ProductID:     in.ProductID,
		ProductName:   in.ProductName,
		Quantity:      in.Quantity,
		Currency:      in.Currency,
		TargetPrice:   in.TargetPrice,
		PaymentMethod: in.PaymentMethod,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var created *model.Request
	for attempt := 1; ; attempt++ {
		number, err := e.allocator.Allocate(ctx, kind)
		if err != nil {
			return nil, err
		}
		req.RequestNumber = number

		created, err = e.requests.Insert(ctx, req)
		if err == nil {
			break
		}
		if errors.Is(err, domainErrors.ErrAlreadyExists) && attempt < e.opts.MaxAllocationAttempts {
			getMetrics().collisions.WithLabelValues(string(kind)).Inc()
			e.logger.Warn("request number taken on insert, allocating again",
				slog.String("kind", string(kind)),
				slog.String("request", number),
				slog.Int("attempt", attempt),
			)
			continue
		}
		return nil, domainErrors.Persistence("insert request", err)
	}

	getMetrics().created.WithLabelValues(string(kind)).Inc()
	e.logger.Info("request created",
		slog.String("kind", string(kind)),
		slog.String("request", created.RequestNumber),
		slog.String("id", created.ID),
	)

	snapshot := created.Clone()
	e.notify(snapshot.RequestNumber, e.renderer.newRequestNotification(kc, snapshot))
	e.email(kc, snapshot, "confirmation_email", e.renderer.ConfirmationEmail)

	return created, nil
}

// Get returns a single request.
func (e *LifecycleEngine) Get(ctx context.Context, kind model.Kind, id string) (*model.Request, error) {
	if _, err := e.Kind(kind); err != nil {
		return nil, err
	}
	req, err := e.requests.GetByID(ctx, kind, id)
	if err != nil {
		return nil, domainErrors.Persistence("get request", err)
	}
	return req, nil
}

// List returns one page of requests matching q.
func (e *LifecycleEngine) List(ctx context.Context, kind model.Kind, q model.ListQuery) (model.Page, error) {
	kc, err := e.Kind(kind)
	if err != nil {
		return model.Page{}, err
	}

	q.Filter.Kind = kind
	q.Filter.Search = strings.TrimSpace(q.Filter.Search)
	for _, s := range q.Filter.Statuses {
		if !kc.HasStatus(s) {
			return model.Page{}, domainErrors.NewValidationError("status", fmt.Sprintf("%q is not a valid %s status", s, kc.Label))
		}
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = defaultPageLimit
	}
	if q.Limit > maxPageLimit {
		q.Limit = maxPageLimit
	}
	if !slices.Contains(sortColumns, q.SortBy) {
		q.SortBy = "createdAt"
		q.Order = model.SortDesc
	}
	if q.Order != model.SortAsc {
		q.Order = model.SortDesc
	}

	items, err := e.requests.List(ctx, q)
	if err != nil {
		return model.Page{}, domainErrors.Persistence("list requests", err)
	}
	total, err := e.requests.Count(ctx, q.Filter)
	if err != nil {
		return model.Page{}, domainErrors.Persistence("count requests", err)
	}

	return model.Page{Items: items, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

// Update applies an admin patch. Notifications and the status email are
// scheduled only when the persisted status differs from the previous one.
func (e *LifecycleEngine) Update(ctx context.Context, kind model.Kind, id string, p model.Patch) (*model.Request, []model.Warning, error) {
	kc, err := e.Kind(kind)
	if err != nil {
		return nil, nil, err
	}

	current, err := e.requests.GetByID(ctx, kind, id)
	if err != nil {
		return nil, nil, domainErrors.Persistence("get request", err)
	}

	next := current.Clone()
	if err := applyPatch(kc, next, p); err != nil {
		return nil, nil, err
	}

	statusChanged := next.Status != current.Status
	if statusChanged && e.opts.StrictTransitions && !kc.CanTransition(current.Status, next.Status) {
		return nil, nil, fmt.Errorf("%w: %s %s -> %s", domainErrors.ErrInvalidTransition, kc.Label, current.Status, next.Status)
	}

	now := e.now().UTC()
	deriveShipping(kc, current, next, now)

	warnings, err := checkRules(kc, next, statusChanged && e.opts.StrictTransitions)
	if err != nil {
		return nil, nil, err
	}

	next.UpdatedAt = now
	saved, err := e.requests.Update(ctx, next)
	if err != nil {
		return nil, nil, domainErrors.Persistence("update request", err)
	}

	snapshot := saved.Clone()
	switch {
	case statusChanged:
		getMetrics().transitions.WithLabelValues(string(kind), string(saved.Status)).Inc()
		e.logger.Info("request status changed",
			slog.String("kind", string(kind)),
			slog.String("request", saved.RequestNumber),
			slog.String("from", string(current.Status)),
			slog.String("to", string(saved.Status)),
		)
		e.notify(snapshot.RequestNumber, e.renderer.statusNotification(kc, snapshot, current.Status))
		e.email(kc, snapshot, "status_email", e.renderer.StatusEmail)
	case kc.IsShipped(saved.Status) && trackingChanged(current, saved):
		e.email(kc, snapshot, "tracking_email", e.renderer.TrackingEmail)
	}

	return saved, warnings, nil
}

// AttachInvoice records an invoice identifier on an approved quote.
func (e *LifecycleEngine) AttachInvoice(ctx context.Context, id, invoiceID string) (*model.Request, error) {
	kc, err := e.Kind(model.KindQuote)
	if err != nil {
		return nil, err
	}

	invoiceID = strings.TrimSpace(invoiceID)
	if invoiceID == "" {
		return nil, domainErrors.NewValidationError("invoiceId", "is required")
	}

	req, err := e.requests.GetByID(ctx, model.KindQuote, id)
	if err != nil {
		return nil, domainErrors.Persistence("get request", err)
	}
	if !slices.Contains(kc.InvoiceStatuses, req.Status) {
		return nil, fmt.Errorf("%w: cannot attach an invoice to a %s quote", domainErrors.ErrInvalidTransition, req.Status)
	}

	req.InvoiceID = invoiceID
	req.UpdatedAt = e.now().UTC()
	saved, err := e.requests.Update(ctx, req)
	if err != nil {
		return nil, domainErrors.Persistence("update request", err)
	}
	return saved, nil
}

// Delete removes a request permanently and reports whether it existed.
func (e *LifecycleEngine) Delete(ctx context.Context, kind model.Kind, id string) (bool, error) {
	kc, err := e.Kind(kind)
	if err != nil {
		return false, err
	}

	deleted, err := e.requests.Delete(ctx, kind, id)
	if err != nil {
		return false, domainErrors.Persistence("delete request", err)
	}
	if deleted {
		e.logger.Info("request deleted", slog.String("kind", string(kind)), slog.String("id", id))
		e.notify(id, e.renderer.deletedNotification(kc, id))
	}
	return deleted, nil
}

// Track finds a request for the customer who submitted it.
func (e *LifecycleEngine) Track(ctx context.Context, kind model.Kind, number, email string) (*model.Request, error) {
	if _, err := e.Kind(kind); err != nil {
		return nil, err
	}

	number = strings.ToUpper(strings.TrimSpace(number))
	email = strings.TrimSpace(email)
	if !ValidRequestNumber(number) || email == "" {
		return nil, domainErrors.ErrNotFound
	}

	req, err := e.requests.GetByNumber(ctx, kind, number)
	if err != nil {
		return nil, domainErrors.Persistence("get request by number", err)
	}
	if !strings.EqualFold(req.Email, email) {
		return nil, domainErrors.ErrNotFound
	}
	return req, nil
}

// AwaitingPayment returns requests of every kind that reference a transfer
// and sit in the kind's awaiting-payment status, oldest update first.
func (e *LifecycleEngine) AwaitingPayment(ctx context.Context, limit int) ([]model.Request, error) {
	var out []model.Request
	for _, kc := range e.kinds {
		if kc.AwaitingPayment == "" {
			continue
		}
		items, err := e.requests.List(ctx, model.ListQuery{
			Filter: model.RequestFilter{
				Kind:                 kc.Kind,
				Statuses:             []model.Status{kc.AwaitingPayment},
				WithPaymentReference: true,
			},
			Page:   1,
			Limit:  limit,
			SortBy: "updatedAt",
			Order:  model.SortAsc,
		})
		if err != nil {
			return nil, domainErrors.Persistence("list requests awaiting payment", err)
		}
		out = append(out, items...)
	}
	return out, nil
}

// SettlePayment applies a final provider outcome to req. The outcome is
// dropped unless the stored request still awaits the same transfer, since
// an admin may have moved it after req was listed.
func (e *LifecycleEngine) SettlePayment(ctx context.Context, req model.Request, p model.Payment) error {
	kc, err := e.Kind(req.Kind)
	if err != nil {
		return err
	}
	if p.Status != model.PaymentStatusSucceeded && p.Status != model.PaymentStatusFailed {
		return nil
	}

	current, err := e.requests.GetByID(ctx, req.Kind, req.ID)
	if errors.Is(err, domainErrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return domainErrors.Persistence("get request", err)
	}
	if current.Status != kc.AwaitingPayment || current.PaymentReference != req.PaymentReference {
		e.logger.Info("payment outcome no longer applies",
			slog.String("request_number", current.RequestNumber),
			slog.String("status", string(current.Status)),
			slog.String("reference", req.PaymentReference),
		)
		return nil
	}

	target := model.StatusPaid
	if p.Status == model.PaymentStatusFailed {
		if kc.PaymentFailed == "" {
			return e.declinePayment(ctx, kc, current)
		}
		target = kc.PaymentFailed
	}

	_, _, err = e.Update(ctx, req.Kind, req.ID, model.Patch{Status: &target})
	return err
}

// declinePayment records a failed transfer for a kind without a failed status.
// The reference is cleared so the request leaves the polling set until a new
// transfer is attached.
func (e *LifecycleEngine) declinePayment(ctx context.Context, kc *KindConfig, req *model.Request) error {
	notification := e.renderer.paymentFailedNotification(kc, req)

	req.PaymentReference = ""
	req.UpdatedAt = e.now().UTC()
	if _, err := e.requests.Update(ctx, req); err != nil {
		return domainErrors.Persistence("update request", err)
	}

	e.notify(req.RequestNumber, notification)
	return nil
}

// deriveShipping keeps shippedAt and tracking consistent with the status.
func deriveShipping(kc *KindConfig, before, after *model.Request, now time.Time) {
	switch {
	case kc.IsShipped(after.Status):
		if after.ShippedAt == nil {
			at := now
			after.ShippedAt = &at
		}
	case kc.IsShipped(before.Status):
		after.ShippedAt = nil
		after.TrackingNumber = ""
		after.TrackingLink = ""
	}
}

// checkRules collects a warning for every unmet rule of the request's status.
// With enforce set, unmet hard rules reject the update instead.
func checkRules(kc *KindConfig, req *model.Request, enforce bool) ([]model.Warning, error) {
	var warnings []model.Warning
	verr := &domainErrors.ValidationError{}
	for _, rule := range kc.Rules {
		if rule.Status != req.Status || rule.Satisfied(req) {
			continue
		}
		if enforce && !rule.Soft {
			verr.Add(rule.Field, rule.Message)
			continue
		}
		warnings = append(warnings, model.Warning{Field: rule.Field, Code: rule.Code, Message: rule.Message})
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return warnings, nil
}

func trackingChanged(before, after *model.Request) bool {
	return before.TrackingNumber != after.TrackingNumber || before.TrackingLink != after.TrackingLink
}

func (e *LifecycleEngine) notify(key string, n model.Notification) {
	e.queue.Enqueue(worker.Task{
		Name: "notification",
		Key:  key,
		Run: func(ctx context.Context) error {
			return e.notifications.Create(ctx, &n)
		},
	})
}

type emailRender func(*KindConfig, *model.Request) (model.Email, error)

func (e *LifecycleEngine) email(kc *KindConfig, req *model.Request, name string, render emailRender) {
	e.queue.Enqueue(worker.Task{
		Name: name,
		Key:  req.RequestNumber,
		Run: func(ctx context.Context) error {
			msg, err := render(kc, req)
			if err != nil {
				return err
			}
			return e.mailer.Send(ctx, msg)
		},
	})
}
