package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-api/models"
)

type CertificationRepo struct {
	db *gorm.DB
}

func NewCertificationRepo(db *gorm.DB) *CertificationRepo {
	return &CertificationRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *CertificationRepo) GetDB() *gorm.DB {
	return r.db
}

// FindActive returns every active certification ordered by displayOrder, newest first within a slot
func (r *CertificationRepo) FindActive(ctx context.Context) ([]*models.Certification, error) {
	var certifications []*models.Certification
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Scopes(orderBy(asc("display_order"), desc("date"))).
		Find(&certifications).Error
	return certifications, err
}

// FindActiveByID returns an active certification by its ID
func (r *CertificationRepo) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Certification, error) {
	var certification models.Certification
	err := r.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&certification).Error
	if err != nil {
		return nil, err
	}
	return &certification, nil
}

// FindByID returns a certification by its ID whether or not it is active
func (r *CertificationRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Certification, error) {
	var certification models.Certification
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&certification).Error
	if err != nil {
		return nil, err
	}
	return &certification, nil
}

// Add inserts a new certification. A reused credentialId fails on the unique index.
func (r *CertificationRepo) Add(ctx context.Context, certification *models.Certification) error {
	return r.db.WithContext(ctx).Create(certification).Error
}

func (r *CertificationRepo) Update(ctx context.Context, certification *models.Certification) error {
	return r.db.WithContext(ctx).Save(certification).Error
}

// Deactivate flips isActive to false. It reports false when no active certification has this id.
func (r *CertificationRepo) Deactivate(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Certification{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	return res.RowsAffected > 0, res.Error
}
