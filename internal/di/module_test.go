package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/leatherdesk/internal/adapter/mailer"
	"github.com/polkiloo/leatherdesk/internal/adapter/payment"
	"github.com/polkiloo/leatherdesk/internal/app"
	"github.com/polkiloo/leatherdesk/internal/config"
	"github.com/polkiloo/leatherdesk/internal/domain/repository"
	"github.com/polkiloo/leatherdesk/internal/storage/postgres"
	"github.com/polkiloo/leatherdesk/internal/test"
	"github.com/polkiloo/leatherdesk/internal/worker"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:            ":0",
		DatabaseURI:           "postgres://stub",
		PublicBaseURL:         "http://localhost:3000",
		AdminBaseURL:          "http://localhost:3000/admin",
		SessionSecret:         "secret",
		SideEffectWorkers:     1,
		SideEffectQueueSize:   4,
		SideEffectMaxAttempts: 1,
		SideEffectTimeout:     time.Second,
		MaxAllocationAttempts: 3,
		RateLimit:             "10-M",
		PaymentPollInterval:   time.Millisecond,
		PaymentPollBatch:      1,
		ShutdownTimeout:       time.Millisecond,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	var (
		facade     *app.BackOfficeFacade
		engine     *gin.Engine
		dispatcher *worker.Dispatcher
	)
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.AdminRepository(test.NewAdminRepositoryStub())),
			fx.Replace(repository.RequestRepository(&test.RequestRepositoryStub{})),
			fx.Replace(repository.NotificationRepository(&test.NotificationRepositoryStub{})),
			fx.Replace(mailer.Mailer(&test.MailerStub{})),
			fx.Replace(payment.Client(test.PaymentClientStub{Disabled: true})),
		),
		fx.Populate(&facade, &engine, &dispatcher),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil || engine == nil || dispatcher == nil {
		t.Fatal("expected facade, router and dispatcher instances")
	}
	if facade.PaymentsEnabled() {
		t.Fatal("expected disabled payment client to be wired into the facade")
	}
}
