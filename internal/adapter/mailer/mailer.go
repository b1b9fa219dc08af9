package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/polkiloo/leatherdesk/internal/domain/model"
)

// Mailer delivers rendered customer emails.
type Mailer interface {
	Send(ctx context.Context, email model.Email) error
}

// SMTPConfig describes the outbound relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// SMTPMailer sends through an SMTP relay. A client is dialled per message
// because go-mail clients keep connection state.
type SMTPMailer struct {
	cfg    SMTPConfig
	logger *slog.Logger
}

// NewSMTPMailer validates cfg by building a throwaway client.
func NewSMTPMailer(cfg SMTPConfig, logger *slog.Logger) (*SMTPMailer, error) {
	if cfg.From == "" {
		return nil, fmt.Errorf("smtp sender address is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	m := &SMTPMailer{cfg: cfg, logger: logger}
	if _, err := m.client(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *SMTPMailer) client() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(m.cfg.Timeout),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return client, nil
}

// Send delivers email or returns the relay error.
func (m *SMTPMailer) Send(ctx context.Context, email model.Email) error {
	msg, err := buildMessage(m.cfg.From, email)
	if err != nil {
		return err
	}
	client, err := m.client()
	if err != nil {
		return err
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send email to %s: %w", email.To, err)
	}
	m.logger.Debug("email sent", slog.String("to", email.To), slog.String("subject", email.Subject))
	return nil
}

func buildMessage(from string, email model.Email) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(email.To); err != nil {
		return nil, fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(email.Subject)
	msg.SetBodyString(mail.TypeTextPlain, email.Text)
	if email.HTML != "" {
		msg.AddAlternativeString(mail.TypeTextHTML, email.HTML)
	}
	return msg, nil
}

// LogMailer writes emails to the log instead of sending them.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer constructs LogMailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, email model.Email) error {
	m.logger.Info("email not sent: smtp disabled",
		slog.String("to", email.To),
		slog.String("subject", email.Subject),
	)
	return nil
}
