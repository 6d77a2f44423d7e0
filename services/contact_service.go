package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-api/database"
	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/metrics"
	"github.com/rpupo63/portfolio-api/models"
	"github.com/rpupo63/portfolio-api/validation"
)

type ContactPayload struct {
	Name    string `json:"name" validate:"required,min=2,max=100,alphaspace"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,min=5,max=200"`
	Message string `json:"message" validate:"required,min=10,max=1000"`
}

func (p *ContactPayload) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Subject = strings.TrimSpace(p.Subject)
	p.Message = strings.TrimSpace(p.Message)
}

// ContactPage is one page of stored messages
type ContactPage struct {
	Contacts   []*models.Contact
	Pagination Pagination
}

type ContactService struct {
	repo     *database.ContactRepo
	notifier Notifier
	logger   zerolog.Logger

	// pending tracks notification goroutines so shutdown can drain them
	pending sync.WaitGroup
}

// NewContactService wires the store and notifier. A nil notifier disables relaying.
func NewContactService(db database.Database, notifier Notifier) *ContactService {
	return &ContactService{
		repo:     db.ContactRepo(),
		notifier: notifier,
		logger:   log.With().Str("service", "contact").Logger(),
	}
}

// Submit validates and stores a message, then relays it in the background.
// Notification failures are logged and never reach the caller.
func (s *ContactService) Submit(ctx context.Context, payload ContactPayload, meta RequestMeta) (*models.Contact, error) {
	payload.Normalize()
	if err := validation.ValidateStruct(&payload); err != nil {
		return nil, err
	}

	contact := &models.Contact{
		Name:      payload.Name,
		Email:     payload.Email,
		Subject:   payload.Subject,
		Message:   payload.Message,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		Status:    models.ContactNew,
	}
	if err := s.repo.Add(ctx, contact); err != nil {
		return nil, errs.NewDatabaseError("create", "Contact", err)
	}
	metrics.RecordContactSubmission()

	s.logger.Info().
		Str("contactId", contact.ID.String()).
		Str("ipAddress", meta.IPAddress).
		Msg("contact message stored")

	if s.notifier != nil {
		s.dispatch(contact)
	}
	return contact, nil
}

// dispatch detaches from the request context; the response must not wait on delivery
func (s *ContactService) dispatch(contact *models.Contact) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.notifier.Notify(context.Background(), contact); err != nil {
			s.logger.Error().Err(err).Str("contactId", contact.ID.String()).Msg("contact notification failed")
		}
	}()
}

// Wait blocks until every in-flight notification finishes
func (s *ContactService) Wait() {
	s.pending.Wait()
}

// WaitTimeout is Wait bounded by timeout
func (s *ContactService) WaitTimeout(timeout time.Duration) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return errs.NewShutdownTimeoutError("contact notifications", timeout)
	}
}

// List pages through stored messages newest first. status may be empty.
func (s *ContactService) List(ctx context.Context, page database.Page, status string) (*ContactPage, error) {
	status = strings.TrimSpace(status)
	if status != "" && !models.ValidContactStatus(status) {
		return nil, errs.NewInvalidFieldError("status", "Invalid status value")
	}

	page = page.Normalize()
	contacts, total, err := s.repo.FindPage(ctx, status, page)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "contacts", err)
	}
	if contacts == nil {
		contacts = []*models.Contact{}
	}
	return &ContactPage{
		Contacts:   contacts,
		Pagination: NewPagination(page, len(contacts), total),
	}, nil
}

// UpdateStatus moves a message to any of new, read or replied
func (s *ContactService) UpdateStatus(ctx context.Context, admin *models.Admin, id, status string) (*models.Contact, error) {
	if !models.ValidContactStatus(status) {
		return nil, errs.NewInvalidFieldError("status", "Invalid status value")
	}
	contactID, err := parseID(id, "Contact")
	if err != nil {
		return nil, err
	}

	ok, err := s.repo.UpdateStatus(ctx, contactID, models.ContactStatus(status))
	if err != nil {
		return nil, errs.NewDatabaseError("update", "Contact", err)
	}
	if !ok {
		return nil, errs.NewNotFound("Contact")
	}

	contact, err := s.repo.FindByID(ctx, contactID)
	if err != nil {
		return nil, errs.NewDatabaseError("get", "Contact", err)
	}

	s.logger.Info().Str("admin", admin.String()).Str("contactId", id).Str("status", status).Msg("contact status updated")
	return contact, nil
}
