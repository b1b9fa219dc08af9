package router

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/leatherdesk/internal/config"
	"github.com/polkiloo/leatherdesk/internal/server/http/middleware"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Provide(newSubmissionLimiter, Setup)

type limiterParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newSubmissionLimiter(p limiterParams) (*middleware.SubmissionLimiter, error) {
	l, err := middleware.NewSubmissionLimiter(p.Config.RateLimit, p.Config.RateLimitRedisURL, p.Logger)
	if err != nil {
		return nil, err
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return l.Close()
		},
	})
	return l, nil
}
