package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-api/config"
)

// Email is one outbound message. HTML is required; Text is the plain alternative.
type Email struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers a single email
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// NoopMailer drops every message. Used when EMAIL_PROVIDER=none.
type NoopMailer struct{}

func (NoopMailer) Send(_ context.Context, email Email) error {
	log.Debug().Strs("to", email.To).Str("subject", email.Subject).Msg("email delivery disabled, dropping message")
	return nil
}

// NewMailer picks the delivery backend for cfg.Provider and wraps it in a circuit breaker
func NewMailer(cfg config.EmailConfig) (Mailer, error) {
	var m Mailer
	switch cfg.Provider {
	case "smtp":
		smtp, err := NewSMTPMailer(cfg)
		if err != nil {
			return nil, err
		}
		m = smtp
	case "resend":
		m = NewResendMailer(cfg.ResendAPIKey, cfg.From)
	default:
		return NoopMailer{}, nil
	}
	return NewBreakerMailer(cfg.Provider, m), nil
}
