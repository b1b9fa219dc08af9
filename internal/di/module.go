package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/leatherdesk/internal/adapter/mailer"
	"github.com/polkiloo/leatherdesk/internal/adapter/payment"
	"github.com/polkiloo/leatherdesk/internal/app"
	"github.com/polkiloo/leatherdesk/internal/config"
	"github.com/polkiloo/leatherdesk/internal/logger"
	"github.com/polkiloo/leatherdesk/internal/pkg/auth"
	"github.com/polkiloo/leatherdesk/internal/server/http/handlers"
	"github.com/polkiloo/leatherdesk/internal/server/http/router"
	"github.com/polkiloo/leatherdesk/internal/storage/postgres"
	"github.com/polkiloo/leatherdesk/internal/usecase"
	"github.com/polkiloo/leatherdesk/internal/worker"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		mailer.Module,
		payment.Module,
		worker.Module,
		usecase.Module,
		fx.Provide(
			func(client payment.Client) app.PaymentProvider { return client },
			func(s *postgres.Storage) app.HealthChecker { return s },
			func(f *app.BackOfficeFacade) app.AdminBootstrapper { return f },
			func(f *app.BackOfficeFacade) handlers.BackOfficeFacade { return f },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
