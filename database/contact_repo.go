package database

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-api/models"
)

type ContactRepo struct {
	db *gorm.DB
}

func NewContactRepo(db *gorm.DB) *ContactRepo {
	return &ContactRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *ContactRepo) GetDB() *gorm.DB {
	return r.db
}

// Add stores a submitted message, provenance included
func (r *ContactRepo) Add(ctx context.Context, contact *models.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

// FindPage returns one page of messages, newest first, without ipAddress or userAgent.
// An empty status lists every message.
func (r *ContactRepo) FindPage(ctx context.Context, status string, page Page) ([]*models.Contact, int64, error) {
	filter := func(db *gorm.DB) *gorm.DB {
		if status != "" {
			return db.Where("status = ?", status)
		}
		return db
	}

	var (
		contacts []*models.Contact
		total    int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&models.Contact{}).Scopes(filter).Count(&total).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).
			Omit("ip_address", "user_agent").
			Scopes(filter, orderBy(desc("created_at")), page.scope).
			Find(&contacts).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

// FindByID returns a message without its provenance columns
func (r *ContactRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	var contact models.Contact
	err := r.db.WithContext(ctx).Omit("ip_address", "user_agent").Where("id = ?", id).First(&contact).Error
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// UpdateStatus sets the status of one message. It reports false when the id does not exist.
func (r *ContactRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ContactStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Contact{}).
		Where("id = ?", id).
		Update("status", status)
	return res.RowsAffected > 0, res.Error
}
