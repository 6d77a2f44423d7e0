package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-api/database"
	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/models"
	"github.com/rpupo63/portfolio-api/validation"
)

type CertificationPayload struct {
	Title          string   `json:"title" validate:"required,min=5,max=200"`
	Issuer         string   `json:"issuer" validate:"required,min=2,max=100"`
	Date           string   `json:"date" validate:"required,isodate"`
	CredentialID   string   `json:"credentialId" validate:"required,min=5,max=100"`
	Description    string   `json:"description" validate:"required,min=10,max=500"`
	Skills         []string `json:"skills" validate:"required,min=1,dive,min=2,max=50"`
	CertificateURL string   `json:"certificateUrl" validate:"required,httpurl"`
	Icon           string   `json:"icon" validate:"omitempty,oneof=cisco aws google microsoft coursera udemy other"`
	Verified       bool     `json:"verified"`
	DisplayOrder   int      `json:"displayOrder"`
	IsActive       *bool    `json:"isActive"`
}

func (p *CertificationPayload) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Issuer = strings.TrimSpace(p.Issuer)
	p.Date = strings.TrimSpace(p.Date)
	p.CredentialID = strings.TrimSpace(p.CredentialID)
	p.Description = strings.TrimSpace(p.Description)
	p.Skills = validation.TrimSlice(p.Skills)
	p.CertificateURL = strings.TrimSpace(p.CertificateURL)
	p.Icon = strings.TrimSpace(p.Icon)
}

func (p *CertificationPayload) validate() (time.Time, error) {
	p.Normalize()
	if err := validation.ValidateStruct(p); err != nil {
		return time.Time{}, err
	}
	date, err := validation.ParseDate(p.Date)
	if err != nil {
		return time.Time{}, errs.NewInvalidFieldError("date", "date must be a valid ISO 8601 date")
	}
	return date, nil
}

func (p *CertificationPayload) apply(c *models.Certification, date time.Time) {
	c.Title = p.Title
	c.Issuer = p.Issuer
	c.Date = date
	c.CredentialID = p.CredentialID
	c.Description = p.Description
	c.Skills = p.Skills
	c.CertificateURL = p.CertificateURL
	c.Icon = models.CertificationIcon(p.Icon)
	if c.Icon == "" {
		c.Icon = models.IconOther
	}
	c.Verified = p.Verified
	c.DisplayOrder = p.DisplayOrder
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
}

// CertificationStats aggregates over active certifications
type CertificationStats struct {
	TotalCertifications    int `json:"totalCertifications"`
	VerifiedCertifications int `json:"verifiedCertifications"`
	UniqueIssuersCount     int `json:"uniqueIssuersCount"`
	UniqueSkillsCount      int `json:"uniqueSkillsCount"`
}

type CertificationService struct {
	repo   *database.CertificationRepo
	logger zerolog.Logger
}

func NewCertificationService(db database.Database) *CertificationService {
	return &CertificationService{
		repo:   db.CertificationRepo(),
		logger: log.With().Str("service", "certifications").Logger(),
	}
}

// List returns every active certification, unpaginated
func (s *CertificationService) List(ctx context.Context) ([]*models.Certification, error) {
	certifications, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "certifications", err)
	}
	if certifications == nil {
		certifications = []*models.Certification{}
	}
	return certifications, nil
}

func (s *CertificationService) Get(ctx context.Context, id string) (*models.Certification, error) {
	certID, err := parseID(id, "Certification")
	if err != nil {
		return nil, err
	}
	certification, err := s.repo.FindActiveByID(ctx, certID)
	if err != nil {
		return nil, errs.NewDatabaseError("get", "Certification", err)
	}
	return certification, nil
}

func (s *CertificationService) Create(ctx context.Context, admin *models.Admin, payload CertificationPayload) (*models.Certification, error) {
	date, err := payload.validate()
	if err != nil {
		return nil, err
	}

	certification := &models.Certification{IsActive: true}
	payload.apply(certification, date)

	if err := s.repo.Add(ctx, certification); err != nil {
		return nil, credentialError("create", err)
	}

	s.logger.Info().Str("admin", admin.String()).Str("certificationId", certification.ID.String()).Msg("certification created")
	return certification, nil
}

// Update revalidates the full document. Changing credentialId to one already in use fails.
func (s *CertificationService) Update(ctx context.Context, admin *models.Admin, id string, payload CertificationPayload) (*models.Certification, error) {
	date, err := payload.validate()
	if err != nil {
		return nil, err
	}

	certID, err := parseID(id, "Certification")
	if err != nil {
		return nil, err
	}
	certification, err := s.repo.FindByID(ctx, certID)
	if err != nil {
		return nil, errs.NewDatabaseError("get", "Certification", err)
	}

	payload.apply(certification, date)
	if err := s.repo.Update(ctx, certification); err != nil {
		return nil, credentialError("update", err)
	}

	s.logger.Info().Str("admin", admin.String()).Str("certificationId", certification.ID.String()).Msg("certification updated")
	return certification, nil
}

func (s *CertificationService) SoftDelete(ctx context.Context, admin *models.Admin, id string) error {
	certID, err := parseID(id, "Certification")
	if err != nil {
		return err
	}
	ok, err := s.repo.Deactivate(ctx, certID)
	if err != nil {
		return errs.NewDatabaseError("delete", "Certification", err)
	}
	if !ok {
		return errs.NewNotFound("Certification")
	}

	s.logger.Info().Str("admin", admin.String()).Str("certificationId", id).Msg("certification deleted")
	return nil
}

func (s *CertificationService) Stats(ctx context.Context) (*CertificationStats, error) {
	certifications, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("aggregate", "certification statistics", err)
	}

	stats := &CertificationStats{TotalCertifications: len(certifications)}
	issuers := make([]string, 0, len(certifications))
	skills := make([][]string, 0, len(certifications))
	for _, c := range certifications {
		if c.Verified {
			stats.VerifiedCertifications++
		}
		issuers = append(issuers, c.Issuer)
		skills = append(skills, c.Skills)
	}
	stats.UniqueIssuersCount = uniqueCount(issuers)
	stats.UniqueSkillsCount = uniqueCount(skills...)

	return stats, nil
}

// credentialError reports a unique-index violation as a duplicate credential id
func credentialError(operation string, err error) error {
	if errs.IsDuplicateKey(err) {
		return errs.NewAlreadyExists("Credential ID")
	}
	return errs.NewDatabaseError(operation, "Certification", err)
}
