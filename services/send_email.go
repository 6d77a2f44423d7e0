package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-api/errs"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// ResendMailer sends through the Resend HTTP API, retrying 5xx and connection errors
type ResendMailer struct {
	client   *retryablehttp.Client
	apiKey   string
	from     string
	endpoint string
}

func NewResendMailer(apiKey, from string) *ResendMailer {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.HTTPClient.Timeout = 10 * time.Second
	client.Logger = retryLogger{logger: log.With().Str("service", "resend").Logger()}
	// hand the last response back so status mapping below still applies after retries
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &ResendMailer{
		client:   client,
		apiKey:   apiKey,
		from:     from,
		endpoint: resendEndpoint,
	}
}

// Send sends an email using the Resend API
func (m *ResendMailer) Send(ctx context.Context, email Email) error {
	if len(email.To) == 0 {
		return errs.NewInvalidFieldError("to", "at least one recipient is required")
	}

	from := email.From
	if from == "" {
		from = m.from
	}

	payload := ResendEmailRequest{
		From:    from,
		To:      email.To,
		ReplyTo: email.ReplyTo,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return errs.NewServiceUnreachableError("resend", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return errs.NewInvalidAPIKeyError("resend")
	case resp.StatusCode == http.StatusTooManyRequests:
		return errs.NewRateLimitError("resend", time.Second)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return errs.NewDeliveryError("resend", resp.StatusCode, errorResp.Message)
		}
		return errs.NewDeliveryError("resend", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		log.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		log.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}

	return nil
}

// retryLogger adapts zerolog to retryablehttp.LeveledLogger
type retryLogger struct {
	logger zerolog.Logger
}

func (l retryLogger) Error(msg string, kv ...interface{}) { l.event(l.logger.Error(), kv).Msg(msg) }
func (l retryLogger) Warn(msg string, kv ...interface{})  { l.event(l.logger.Warn(), kv).Msg(msg) }
func (l retryLogger) Info(msg string, kv ...interface{})  { l.event(l.logger.Debug(), kv).Msg(msg) }
func (l retryLogger) Debug(msg string, kv ...interface{}) { l.event(l.logger.Debug(), kv).Msg(msg) }

func (l retryLogger) event(e *zerolog.Event, kv []interface{}) *zerolog.Event {
	for i := 0; i+1 < len(kv); i += 2 {
		if key, ok := kv[i].(string); ok {
			e = e.Interface(key, kv[i+1])
		}
	}
	return e
}
