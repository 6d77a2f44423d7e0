package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/portfolio-api/config"
	"github.com/rpupo63/portfolio-api/metrics"
	"github.com/rpupo63/portfolio-api/models"
)

const (
	channelOwnerEmail = "owner_email"
	channelAutoReply  = "auto_reply"
	channelSMS        = "sms"

	defaultNotifyTimeout = 30 * time.Second
)

// Notifier relays a stored contact message to the owner and acknowledges the submitter
type Notifier interface {
	Notify(ctx context.Context, contact *models.Contact) error
}

// ContactNotifier sends the owner email and auto-reply concurrently, plus an optional SMS.
// Each channel fails independently.
type ContactNotifier struct {
	mailer       Mailer
	sms          SMSSender
	owner        config.OwnerConfig
	contactEmail string
	timeout      time.Duration
}

// NewContactNotifier builds a notifier. sms may be nil.
func NewContactNotifier(mailer Mailer, sms SMSSender, owner config.OwnerConfig, contactEmail string) *ContactNotifier {
	if mailer == nil {
		mailer = NoopMailer{}
	}
	return &ContactNotifier{
		mailer:       mailer,
		sms:          sms,
		owner:        owner,
		contactEmail: contactEmail,
		timeout:      defaultNotifyTimeout,
	}
}

// Notify returns the joined errors of every failed channel
func (n *ContactNotifier) Notify(ctx context.Context, contact *models.Contact) error {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	var ownerErr, replyErr, smsErr error
	var g errgroup.Group

	if n.contactEmail != "" {
		g.Go(func() error {
			ownerErr = n.sendOwnerEmail(ctx, contact)
			metrics.RecordNotification(channelOwnerEmail, ownerErr)
			return nil
		})
	}
	g.Go(func() error {
		replyErr = n.sendAutoReply(ctx, contact)
		metrics.RecordNotification(channelAutoReply, replyErr)
		return nil
	})
	if n.sms != nil {
		g.Go(func() error {
			smsErr = n.sms.Send(ctx, fmt.Sprintf("New portfolio message from %s <%s>: %s", contact.Name, contact.Email, contact.Subject))
			metrics.RecordNotification(channelSMS, smsErr)
			return nil
		})
	}
	_ = g.Wait()

	var joined []error
	if ownerErr != nil {
		joined = append(joined, fmt.Errorf("%s: %w", channelOwnerEmail, ownerErr))
	}
	if replyErr != nil {
		joined = append(joined, fmt.Errorf("%s: %w", channelAutoReply, replyErr))
	}
	if smsErr != nil {
		joined = append(joined, fmt.Errorf("%s: %w", channelSMS, smsErr))
	}
	return errors.Join(joined...)
}

func (n *ContactNotifier) sendOwnerEmail(ctx context.Context, contact *models.Contact) error {
	email, err := OwnerNotification(contact, n.owner, n.contactEmail)
	if err != nil {
		return err
	}
	if err := n.mailer.Send(ctx, email); err != nil {
		return err
	}
	log.Debug().Str("contactId", contact.ID.String()).Msg("owner notification sent")
	return nil
}

func (n *ContactNotifier) sendAutoReply(ctx context.Context, contact *models.Contact) error {
	email, err := AutoReply(contact, n.owner)
	if err != nil {
		return err
	}
	if err := n.mailer.Send(ctx, email); err != nil {
		return err
	}
	log.Debug().Str("contactId", contact.ID.String()).Msg("auto-reply sent")
	return nil
}
