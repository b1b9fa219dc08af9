package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/leatherdesk/internal/domain/errors"
)

// Task is a fire-and-forget unit of work such as a notification or an email.
type Task struct {
	Name string
	// Key identifies the request the task belongs to in logs.
	Key string
	Run func(ctx context.Context) error
}

// DispatcherOptions tune the side-effect queue.
type DispatcherOptions struct {
	Workers     int
	QueueSize   int
	MaxAttempts int
	Timeout     time.Duration
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

// Dispatcher runs side-effect tasks on a bounded worker pool. Enqueue never
// blocks the caller and task failures never reach it.
type Dispatcher struct {
	opts   DispatcherOptions
	logger *slog.Logger

	jobs     chan Task
	stopping chan struct{}
	wg       sync.WaitGroup
	cancel   context.CancelFunc

	mu      sync.RWMutex
	started bool
	closed  bool
}

// NewDispatcher constructs Dispatcher, filling unset options with defaults.
func NewDispatcher(opts DispatcherOptions, logger *slog.Logger) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.BaseBackoff <= 0 {
		opts.BaseBackoff = 500 * time.Millisecond
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = 10 * time.Second
	}
	return &Dispatcher{
		opts:     opts,
		logger:   logger,
		jobs:     make(chan Task, opts.QueueSize),
		stopping: make(chan struct{}),
	}
}

// Enqueue schedules task and reports whether it was accepted.
func (d *Dispatcher) Enqueue(task Task) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(task, "dispatcher stopped")
		return false
	}

	select {
	case d.jobs <- task:
		getMetrics().queueDepth.Set(float64(len(d.jobs)))
		return true
	default:
		d.drop(task, "queue full")
		return false
	}
}

func (d *Dispatcher) drop(task Task, reason string) {
	getMetrics().droppedTotal.WithLabelValues(task.Name).Inc()
	d.logger.Warn("side effect dropped",
		slog.String("task", task.Name),
		slog.String("request", task.Key),
		slog.String("reason", reason),
	)
}

// Start launches the worker pool. Tasks outlive the start context.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started || d.closed {
		return
	}
	d.started = true

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	d.cancel = cancel

	for i := 0; i < d.opts.Workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}
}

// Stop rejects new tasks, drains queued ones without further retries and
// waits for workers to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.wg.Wait()
		return
	}
	d.closed = true
	close(d.stopping)
	close(d.jobs)
	started := d.started
	d.mu.Unlock()

	if !started {
		for task := range d.jobs {
			d.drop(task, "dispatcher never started")
		}
		return
	}

	d.wg.Wait()
	d.cancel()
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for task := range d.jobs {
		getMetrics().queueDepth.Set(float64(len(d.jobs)))
		d.execute(ctx, task)
	}
}

func (d *Dispatcher) execute(ctx context.Context, task Task) {
	started := time.Now()
	var err error

	for attempt := 1; attempt <= d.opts.MaxAttempts; attempt++ {
		if err = d.runOnce(ctx, task); err == nil {
			d.observe(task, "success", started)
			return
		}

		d.logger.Warn("side effect attempt failed",
			slog.String("task", task.Name),
			slog.String("request", task.Key),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)

		if attempt == d.opts.MaxAttempts || !d.wait(ctx, attempt) {
			break
		}
	}

	failure := &domainErrors.SideEffectError{Task: task.Name, Err: err}
	d.observe(task, "failure", started)
	d.logger.Error("side effect failed",
		slog.String("task", task.Name),
		slog.String("request", task.Key),
		slog.String("error", failure.Error()),
	)
}

// wait sleeps before the next attempt and returns false when retrying should stop.
func (d *Dispatcher) wait(ctx context.Context, attempt int) bool {
	delay := exponentialBackoff(attempt, d.opts.BaseBackoff, d.opts.MaxBackoff) + jitter(d.opts.BaseBackoff/2)
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-d.stopping:
		return false
	case <-timer.C:
		return true
	}
}

func (d *Dispatcher) runOnce(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	taskCtx, cancel := context.WithTimeout(ctx, d.opts.Timeout)
	defer cancel()

	return task.Run(taskCtx)
}

func (d *Dispatcher) observe(task Task, result string, started time.Time) {
	m := getMetrics()
	m.taskTotal.WithLabelValues(task.Name, result).Inc()
	m.taskLatency.WithLabelValues(task.Name, result).Observe(time.Since(started).Seconds())
}
