package services

import (
	"context"

	"github.com/wneessen/go-mail"

	"github.com/rpupo63/portfolio-api/config"
	"github.com/rpupo63/portfolio-api/errs"
)

// SMTPMailer sends through an authenticated SMTP relay (Gmail by default)
type SMTPMailer struct {
	client *mail.Client
	from   string
}

func NewSMTPMailer(cfg config.EmailConfig) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.User),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, errs.NewConfigError("smtp client", err)
	}
	return &SMTPMailer{client: client, from: cfg.From}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, email Email) error {
	msg, err := buildMessage(email, m.from)
	if err != nil {
		return err
	}
	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return errs.NewServiceUnreachableError("smtp", err)
	}
	return nil
}

func buildMessage(email Email, defaultFrom string) (*mail.Msg, error) {
	from := email.From
	if from == "" {
		from = defaultFrom
	}

	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, errs.NewConfigError("email sender", err)
	}
	if err := msg.To(email.To...); err != nil {
		return nil, errs.NewInvalidFieldError("to", "invalid recipient address")
	}
	if email.ReplyTo != "" {
		if err := msg.ReplyTo(email.ReplyTo); err != nil {
			return nil, errs.NewInvalidFieldError("replyTo", "invalid reply-to address")
		}
	}
	msg.Subject(email.Subject)
	msg.SetBodyString(mail.TypeTextHTML, email.HTML)
	if email.Text != "" {
		msg.AddAlternativeString(mail.TypeTextPlain, email.Text)
	}
	return msg, nil
}
