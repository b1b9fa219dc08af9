package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/leatherdesk/internal/adapter/payment"
	"github.com/polkiloo/leatherdesk/internal/domain/model"
)

// PaymentFacade exposes the subset of application functionality required by the poller.
type PaymentFacade interface {
	PaymentsEnabled() bool
	RequestsAwaitingPayment(ctx context.Context, limit int) ([]model.Request, error)
	CheckPayment(ctx context.Context, reference string) (*model.Payment, error)
	ApplyPayment(ctx context.Context, req model.Request, p model.Payment) error
}

// PaymentPoller asks the payment provider about requests awaiting payment
// and settles them through the lifecycle engine.
type PaymentPoller struct {
	facade       PaymentFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Request
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewPaymentPoller constructs payment poller worker pool.
func NewPaymentPoller(facade PaymentFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *PaymentPoller {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}
	return &PaymentPoller{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Request, batchSize*workers),
	}
}

// Start launches background polling. It is a no-op without a provider.
func (p *PaymentPoller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		return
	}
	if !p.facade.PaymentsEnabled() {
		p.logger.Info("payment poller disabled")
		return
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *PaymentPoller) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *PaymentPoller) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *PaymentPoller) fetchAndDispatch(ctx context.Context) {
	requests, err := p.facade.RequestsAwaitingPayment(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("fetch requests awaiting payment failed", slog.String("error", err.Error()))
		return
	}

	for _, req := range requests {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- req:
		}
	}
}

func (p *PaymentPoller) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-p.jobs:
			if !ok {
				return
			}
			p.handleRequest(ctx, req)
		}
	}
}

func (p *PaymentPoller) handleRequest(ctx context.Context, req model.Request) {
	result, err := p.facade.CheckPayment(ctx, req.PaymentReference)
	if err != nil {
		var tooMany payment.TooManyRequestsError
		switch {
		case errors.As(err, &tooMany):
			getMetrics().paymentPolls.WithLabelValues("rate_limited").Inc()
			p.logger.Warn("payment provider rate limited", slog.Duration("retry_after", tooMany.RetryAfter))
			sleepCtx(ctx, tooMany.RetryAfter)
		case errors.Is(err, payment.ErrTransferNotFound):
			getMetrics().paymentPolls.WithLabelValues("unknown").Inc()
		default:
			getMetrics().paymentPolls.WithLabelValues("error").Inc()
			p.logger.Error("payment lookup failed",
				slog.String("request", req.RequestNumber),
				slog.String("reference", req.PaymentReference),
				slog.String("error", err.Error()),
			)
		}
		return
	}

	getMetrics().paymentPolls.WithLabelValues(string(result.Status)).Inc()
	if result.Status == model.PaymentStatusPending {
		return
	}

	if err := p.facade.ApplyPayment(ctx, req, *result); err != nil {
		p.logger.Error("apply payment failed",
			slog.String("request", req.RequestNumber),
			slog.String("status", string(result.Status)),
			slog.String("error", err.Error()),
		)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
