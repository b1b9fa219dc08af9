package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/leatherdesk/internal/config"
	"github.com/polkiloo/leatherdesk/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewBackOfficeFacade,
		newHTTPServer,
		newPaymentPoller,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type pollerParams struct {
	fx.In

	Facade *BackOfficeFacade
	Config *config.Config
	Logger *slog.Logger
}

func newPaymentPoller(p pollerParams) *worker.PaymentPoller {
	return worker.NewPaymentPoller(
		p.Facade,
		p.Config.PaymentPollInterval,
		p.Config.PaymentPollBatch,
		p.Config.SideEffectWorkers,
		p.Logger,
	)
}

// AdminBootstrapper creates the configured admin account on start.
type AdminBootstrapper interface {
	EnsureAdmin(ctx context.Context, email, password string) error
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Dispatcher *worker.Dispatcher
	Poller     *worker.PaymentPoller
	Admins     AdminBootstrapper
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := p.Admins.EnsureAdmin(ctx, p.Config.AdminEmail, p.Config.AdminPassword); err != nil {
				return err
			}

			p.Logger.Info("starting leatherdesk", slog.String("addr", p.Server.Addr))
			p.Dispatcher.Start(ctx)
			p.Poller.Start(ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Poller.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			err := p.Server.Shutdown(shutdownCtx)
			// Handlers are done enqueueing once the server is down.
			p.Dispatcher.Stop()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("leatherdesk stopped")
			return nil
		},
	})
}
