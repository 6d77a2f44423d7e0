package services

import (
	"context"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/rpupo63/portfolio-api/config"
	"github.com/rpupo63/portfolio-api/errs"
)

// SMSSender texts the site owner
type SMSSender interface {
	Send(ctx context.Context, body string) error
}

// TwilioSMS sends owner alerts through Twilio's Messages API
type TwilioSMS struct {
	client *twilio.RestClient
	from   string
	to     string
}

// NewTwilioSMS returns nil when any Twilio credential is missing
func NewTwilioSMS(cfg config.SMSConfig) *TwilioSMS {
	if !cfg.Enabled() {
		return nil
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioSMS{client: client, from: cfg.FromNumber, to: cfg.ToNumber}
}

// Send ignores ctx; the Twilio client has no context-aware call
func (s *TwilioSMS) Send(_ context.Context, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(s.to)
	params.SetFrom(s.from)
	params.SetBody(truncate(body, 320))

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return errs.NewServiceUnreachableError("twilio", err)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
