package smtp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gr-satt/bordem/internal/service/notification"
	"gopkg.in/gomail.v2"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// To is the default alert recipient.
	To string
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer delivers mail over SMTP.
type Mailer struct {
	cfg    Config
	dialer sender
}

func NewMailer(cfg Config) *Mailer {
	return &Mailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

var (
	_ notification.EmailService = (*Mailer)(nil)
	_ notification.Alerter      = (*Mailer)(nil)
)

func (m *Mailer) SendText(ctx context.Context, to, subject, body string) error {
	return m.send(ctx, to, subject, "text/plain", body)
}

func (m *Mailer) SendHTML(ctx context.Context, to, subject, body string) error {
	return m.send(ctx, to, subject, "text/html", body)
}

// Alert mails the default recipient.
func (m *Mailer) Alert(ctx context.Context, subject, body string) error {
	if m.cfg.To == "" {
		return fmt.Errorf("smtp: no default alert recipient configured")
	}
	return m.SendText(ctx, m.cfg.To, subject, body)
}

func (m *Mailer) send(ctx context.Context, to, subject, contentType, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody(contentType, body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	slog.Info("mail sent", slog.String("to", to), slog.String("subject", subject))
	return nil
}
