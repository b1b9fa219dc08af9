package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/leatherdesk/internal/adapter/mailer"
	"github.com/polkiloo/leatherdesk/internal/config"
	"github.com/polkiloo/leatherdesk/internal/domain/repository"
	"github.com/polkiloo/leatherdesk/internal/worker"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAdminAuthUseCase,
	NewNotificationUseCase,
	newRenderer,
	newLifecycleEngine,
)

func newRenderer(cfg *config.Config) *Renderer {
	return NewRenderer(cfg.PublicBaseURL, cfg.AdminBaseURL)
}

type engineParams struct {
	fx.In

	Config        *config.Config
	Requests      repository.RequestRepository
	Notifications repository.NotificationRepository
	Mailer        mailer.Mailer
	Dispatcher    *worker.Dispatcher
	Renderer      *Renderer
	Logger        *slog.Logger
}

func newLifecycleEngine(p engineParams) *LifecycleEngine {
	return NewLifecycleEngine(
		p.Requests,
		p.Notifications,
		p.Mailer,
		p.Dispatcher,
		p.Renderer,
		DefaultKinds(),
		EngineOptions{
			MaxAllocationAttempts: p.Config.MaxAllocationAttempts,
			StrictTransitions:     p.Config.StrictTransitions,
		},
		p.Logger,
	)
}
