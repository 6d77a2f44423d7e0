package database

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rpupo63/portfolio-api/models"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *ProjectRepo) GetDB() *gorm.DB {
	return r.db
}

// CategoryCount is one row of the category breakdown
type CategoryCount struct {
	Category      string `json:"category"`
	Count         int64  `json:"count"`
	FeaturedCount int64  `json:"featuredCount"`
}

// FindActive returns one page of active projects and the total matching count.
// The count and the page are read independently; under concurrent writes they may disagree briefly.
func (r *ProjectRepo) FindActive(ctx context.Context, filter ProjectFilter, page Page, sort ProjectSort) ([]*models.Project, int64, error) {
	var (
		projects []*models.Project
		total    int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&models.Project{}).Scopes(filter.scope).Count(&total).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).
			Scopes(filter.scope, orderBy(sort.columns()...), page.scope).
			Find(&projects).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// FindFeatured returns up to limit active featured projects
func (r *ProjectRepo) FindFeatured(ctx context.Context, limit int) ([]*models.Project, error) {
	var projects []*models.Project
	featured := true
	err := r.db.WithContext(ctx).
		Scopes(ProjectFilter{Featured: &featured}.scope, orderBy(SortDefault.columns()...)).
		Limit(limit).
		Find(&projects).Error
	return projects, err
}

// CategoryCounts groups active projects by category, largest first
func (r *ProjectRepo) CategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	var rows []CategoryCount
	err := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Select("category, COUNT(*) AS count, SUM(CASE WHEN featured THEN 1 ELSE 0 END) AS featured_count").
		Where("is_active = ?", true).
		Group("category").
		Clauses(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: clause.Column{Name: "count", Raw: true}, Desc: true},
			asc("category"),
		}}).
		Scan(&rows).Error
	return rows, err
}

// CountActive returns the number of active projects
func (r *ProjectRepo) CountActive(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Where("is_active = ?", true).Count(&total).Error
	return total, err
}

// FindAllActive returns every active project, for statistics
func (r *ProjectRepo) FindAllActive(ctx context.Context) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.WithContext(ctx).
		Select("id", "category", "featured", "status", "technologies", "start_date", "end_date").
		Where("is_active = ?", true).
		Find(&projects).Error
	return projects, err
}

// FindActiveByID returns an active project by its ID
func (r *ProjectRepo) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByID returns a project by its ID whether or not it is active
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// Update writes every column of an existing project
func (r *ProjectRepo) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// Deactivate flips isActive to false. It reports false when no active project has this id.
func (r *ProjectRepo) Deactivate(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	return res.RowsAffected > 0, res.Error
}
