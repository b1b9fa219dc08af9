package mailer

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/leatherdesk/internal/config"
)

// Module exposes the transactional mailer to fx graph.
var Module = fx.Provide(newMailer)

type mailerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newMailer(p mailerParams) (Mailer, error) {
	if p.Config.SMTPHost == "" {
		p.Logger.Warn("smtp host not configured; emails will only be logged")
		return NewLogMailer(p.Logger), nil
	}
	return NewSMTPMailer(SMTPConfig{
		Host:     p.Config.SMTPHost,
		Port:     p.Config.SMTPPort,
		Username: p.Config.SMTPUsername,
		Password: p.Config.SMTPPassword,
		From:     p.Config.MailFrom,
	}, p.Logger)
}
