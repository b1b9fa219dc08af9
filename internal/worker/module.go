package worker

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/leatherdesk/internal/config"
)

// Module provides the side-effect dispatcher. Its lifecycle is owned by the app module.
var Module = fx.Provide(newDispatcher)

type dispatcherParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newDispatcher(p dispatcherParams) *Dispatcher {
	return NewDispatcher(DispatcherOptions{
		Workers:     p.Config.SideEffectWorkers,
		QueueSize:   p.Config.SideEffectQueueSize,
		MaxAttempts: p.Config.SideEffectMaxAttempts,
		Timeout:     p.Config.SideEffectTimeout,
	}, p.Logger)
}
