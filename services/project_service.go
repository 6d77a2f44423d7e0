package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/portfolio-api/database"
	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/models"
	"github.com/rpupo63/portfolio-api/validation"
)

// FeaturedLimit caps the featured projects endpoint
const FeaturedLimit = 6

// ProjectPayload is the create/update body. Every write revalidates the whole document.
type ProjectPayload struct {
	Title           string   `json:"title" validate:"required,min=1,max=100"`
	Category        string   `json:"category" validate:"omitempty,oneof=iot web mobile ml other"`
	Description     string   `json:"description" validate:"required,min=10,max=300"`
	LongDescription string   `json:"longDescription" validate:"required,min=50,max=1000"`
	Technologies    []string `json:"technologies" validate:"required,min=1,dive,min=1,max=30"`
	Features        []string `json:"features" validate:"required,min=1,dive,min=5,max=100"`
	Image           string   `json:"image" validate:"required,max=500"`
	Github          string   `json:"github" validate:"required,githuburl"`
	Demo            *string  `json:"demo" validate:"omitempty,httpurl"`
	Status          string   `json:"status" validate:"omitempty,oneof=completed in-progress planned"`
	Featured        bool     `json:"featured"`
	DisplayOrder    int      `json:"displayOrder"`
	IsActive        *bool    `json:"isActive"`
	StartDate       string   `json:"startDate" validate:"required,isodate"`
	EndDate         *string  `json:"endDate" validate:"omitempty,isodate"`
	Tags            []string `json:"tags" validate:"omitempty,dive,max=20"`
}

// Normalize trims every string the way the form sanitizer does
func (p *ProjectPayload) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Category = strings.TrimSpace(p.Category)
	p.Description = strings.TrimSpace(p.Description)
	p.LongDescription = strings.TrimSpace(p.LongDescription)
	p.Technologies = validation.TrimSlice(p.Technologies)
	p.Features = validation.TrimSlice(p.Features)
	p.Image = strings.TrimSpace(p.Image)
	p.Github = strings.TrimSpace(p.Github)
	p.Demo = validation.TrimPtr(p.Demo)
	p.Status = strings.TrimSpace(p.Status)
	p.StartDate = strings.TrimSpace(p.StartDate)
	p.EndDate = validation.TrimPtr(p.EndDate)
	p.Tags = validation.TrimSlice(p.Tags)
}

// validate runs field rules and the date ordering check. Nothing is written unless both pass.
// When field rules fail the ordering violation is listed alongside them.
func (p *ProjectPayload) validate() (time.Time, *time.Time, error) {
	p.Normalize()
	fieldErr := validation.ValidateStruct(p)

	start, startErr := validation.ParseDate(p.StartDate)
	var end *time.Time
	var endErr error
	if p.EndDate != nil {
		var e time.Time
		if e, endErr = validation.ParseDate(*p.EndDate); endErr == nil {
			end = &e
		}
	}
	outOfOrder := startErr == nil && end != nil && end.Before(start)

	if fieldErr != nil {
		var apiErr *errs.ApiErr
		if outOfOrder && errors.As(fieldErr, &apiErr) {
			ordering := errs.NewOrderingError("endDate", "startDate")
			return time.Time{}, nil, errs.NewValidationErr(append(apiErr.Fields, ordering.Fields...))
		}
		return time.Time{}, nil, fieldErr
	}

	switch {
	case startErr != nil:
		return time.Time{}, nil, errs.NewInvalidFieldError("startDate", "startDate must be a valid ISO 8601 date")
	case endErr != nil:
		return time.Time{}, nil, errs.NewInvalidFieldError("endDate", "endDate must be a valid ISO 8601 date")
	case outOfOrder:
		return time.Time{}, nil, errs.NewOrderingError("endDate", "startDate")
	}
	return start, end, nil
}

func (p *ProjectPayload) apply(project *models.Project, start time.Time, end *time.Time) {
	project.Title = p.Title
	project.Category = models.ProjectCategory(p.Category)
	if project.Category == "" {
		project.Category = models.CategoryOther
	}
	project.Description = p.Description
	project.LongDescription = p.LongDescription
	project.Technologies = p.Technologies
	project.Features = p.Features
	project.Image = p.Image
	project.Github = p.Github
	project.Demo = p.Demo
	project.Status = models.ProjectStatus(p.Status)
	if project.Status == "" {
		project.Status = models.StatusCompleted
	}
	project.Featured = p.Featured
	project.DisplayOrder = p.DisplayOrder
	if p.IsActive != nil {
		project.IsActive = *p.IsActive
	}
	project.StartDate = start
	project.EndDate = end
	project.Tags = p.Tags
	if project.Tags == nil {
		project.Tags = []string{}
	}
}

// ProjectPage is one page of the project list
type ProjectPage struct {
	Projects   []*models.Project
	Pagination Pagination
}

// CategorySummary is the per-category breakdown plus the overall active total
type CategorySummary struct {
	Categories []database.CategoryCount `json:"categories"`
	Total      int64                    `json:"total"`
}

// ProjectStats aggregates over active projects
type ProjectStats struct {
	TotalProjects           int            `json:"totalProjects"`
	FeaturedProjects        int            `json:"featuredProjects"`
	CompletedProjects       int            `json:"completedProjects"`
	InProgressProjects      int            `json:"inProgressProjects"`
	UniqueTechnologiesCount int            `json:"uniqueTechnologiesCount"`
	CategoryBreakdown       map[string]int `json:"categoryBreakdown"`
}

type ProjectService struct {
	repo   *database.ProjectRepo
	logger zerolog.Logger
}

func NewProjectService(db database.Database) *ProjectService {
	return &ProjectService{
		repo:   db.ProjectRepo(),
		logger: log.With().Str("service", "projects").Logger(),
	}
}

// List returns one page of active projects
func (s *ProjectService) List(ctx context.Context, filter database.ProjectFilter, page database.Page, sort database.ProjectSort) (*ProjectPage, error) {
	page = page.Normalize()
	projects, total, err := s.repo.FindActive(ctx, filter, page, sort)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "projects", err)
	}
	if projects == nil {
		projects = []*models.Project{}
	}
	return &ProjectPage{
		Projects:   projects,
		Pagination: NewPagination(page, len(projects), total),
	}, nil
}

// ListFeatured returns up to six active featured projects
func (s *ProjectService) ListFeatured(ctx context.Context) ([]*models.Project, error) {
	projects, err := s.repo.FindFeatured(ctx, FeaturedLimit)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "featured projects", err)
	}
	if projects == nil {
		projects = []*models.Project{}
	}
	return projects, nil
}

func (s *ProjectService) CategoryBreakdown(ctx context.Context) (*CategorySummary, error) {
	var summary CategorySummary

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.repo.CategoryCounts(gctx)
		summary.Categories = rows
		return err
	})
	g.Go(func() error {
		total, err := s.repo.CountActive(gctx)
		summary.Total = total
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errs.NewDatabaseError("aggregate", "project categories", err)
	}
	if summary.Categories == nil {
		summary.Categories = []database.CategoryCount{}
	}
	return &summary, nil
}

// Get returns an active project or not-found
func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	projectID, err := parseID(id, "Project")
	if err != nil {
		return nil, err
	}
	project, err := s.repo.FindActiveByID(ctx, projectID)
	if err != nil {
		return nil, errs.NewDatabaseError("get", "Project", err)
	}
	return project, nil
}

func (s *ProjectService) Create(ctx context.Context, admin *models.Admin, payload ProjectPayload) (*models.Project, error) {
	start, end, err := payload.validate()
	if err != nil {
		return nil, err
	}

	project := &models.Project{IsActive: true}
	payload.apply(project, start, end)

	if err := s.repo.Add(ctx, project); err != nil {
		return nil, errs.NewDatabaseError("create", "Project", err)
	}

	s.logger.Info().Str("admin", admin.String()).Str("projectId", project.ID.String()).Msg("project created")
	return project, nil
}

// Update revalidates the full document and overwrites an existing project, active or not
func (s *ProjectService) Update(ctx context.Context, admin *models.Admin, id string, payload ProjectPayload) (*models.Project, error) {
	start, end, err := payload.validate()
	if err != nil {
		return nil, err
	}

	projectID, err := parseID(id, "Project")
	if err != nil {
		return nil, err
	}
	project, err := s.repo.FindByID(ctx, projectID)
	if err != nil {
		return nil, errs.NewDatabaseError("get", "Project", err)
	}

	payload.apply(project, start, end)
	if err := s.repo.Update(ctx, project); err != nil {
		return nil, errs.NewDatabaseError("update", "Project", err)
	}

	s.logger.Info().Str("admin", admin.String()).Str("projectId", project.ID.String()).Msg("project updated")
	return project, nil
}

// SoftDelete hides a project. Deleting an already hidden project is not-found.
func (s *ProjectService) SoftDelete(ctx context.Context, admin *models.Admin, id string) error {
	projectID, err := parseID(id, "Project")
	if err != nil {
		return err
	}
	ok, err := s.repo.Deactivate(ctx, projectID)
	if err != nil {
		return errs.NewDatabaseError("delete", "Project", err)
	}
	if !ok {
		return errs.NewNotFound("Project")
	}

	s.logger.Info().Str("admin", admin.String()).Str("projectId", id).Msg("project deleted")
	return nil
}

// Stats aggregates over active projects. Technology counts are exact-string set unions.
func (s *ProjectService) Stats(ctx context.Context) (*ProjectStats, error) {
	projects, err := s.repo.FindAllActive(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("aggregate", "project statistics", err)
	}

	stats := &ProjectStats{
		TotalProjects:     len(projects),
		CategoryBreakdown: make(map[string]int),
	}
	technologies := make([][]string, 0, len(projects))
	for _, p := range projects {
		if p.Featured {
			stats.FeaturedProjects++
		}
		switch p.Status {
		case models.StatusCompleted:
			stats.CompletedProjects++
		case models.StatusInProgress:
			stats.InProgressProjects++
		}
		stats.CategoryBreakdown[string(p.Category)]++
		technologies = append(technologies, p.Technologies)
	}
	stats.UniqueTechnologiesCount = uniqueCount(technologies...)

	return stats, nil
}
