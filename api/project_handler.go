package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/rpupo63/portfolio-api/database"
	"github.com/rpupo63/portfolio-api/services"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	service   *services.ProjectService
}

func newProjectHandler(service *services.ProjectService, responder Responder) projectHandler {
	return projectHandler{
		responder: responder,
		logger:    responder.logger,
		service:   service,
	}
}

// getAllProjects lists active projects
// @Summary List projects
// @Tags Projects
// @Param category query string false "iot, web, mobile, ml, other or all"
// @Param featured query string false "true for featured only; any other value for non-featured only"
// @Param status query string false "completed, in-progress or planned"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param sort query string false "newest, oldest, featured or displayOrder"
// @Router /api/projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filter := database.ProjectFilter{
			Category: q.Get("category"),
			Status:   q.Get("status"),
		}
		if q.Has("featured") {
			featured := q.Get("featured") == "true"
			filter.Featured = &featured
		}
		page := database.ParsePage(q.Get("page"), q.Get("limit"))

		result, err := h.service.List(r.Context(), filter, page, database.ProjectSort(q.Get("sort")))
		if err != nil {
			h.responder.WriteError(w, err, "Failed to retrieve projects")
			return
		}

		h.responder.WritePage(w, result.Projects, result.Pagination)
	}
}

// @Router /api/projects/featured [get]
func (h projectHandler) getFeaturedProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.service.ListFeatured(r.Context())
		if err != nil {
			h.responder.WriteError(w, err, "Failed to retrieve featured projects")
			return
		}
		h.responder.WriteList(w, projects, len(projects))
	}
}

// @Router /api/projects/categories [get]
func (h projectHandler) getCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := h.service.CategoryBreakdown(r.Context())
		if err != nil {
			h.responder.WriteError(w, err, "Failed to retrieve project categories")
			return
		}
		h.responder.WriteData(w, summary)
	}
}

// @Router /api/projects/stats/summary [get]
func (h projectHandler) getStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.service.Stats(r.Context())
		if err != nil {
			h.responder.WriteError(w, err, "Failed to retrieve project statistics")
			return
		}
		h.responder.WriteData(w, stats)
	}
}

// @Router /api/projects/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := h.service.Get(r.Context(), chi.URLParam(r, "projectID"))
		if err != nil {
			h.responder.WriteError(w, err, "Failed to retrieve project")
			return
		}
		h.responder.WriteData(w, project)
	}
}

// createProject validates the body and stores a new project
// @Summary Create project
// @Tags Projects
// @Param project body services.ProjectPayload true "Project data"
// @Success 201
// @Failure 400 "Validation failed or endDate before startDate"
// @Router /api/projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload services.ProjectPayload
		if err := decodeJSON(w, r, &payload, "project"); err != nil {
			h.logger.Warn().Err(err).Msg("Failed to decode project request body")
			h.responder.WriteError(w, err, "Failed to create project")
			return
		}

		project, err := h.service.Create(r.Context(), ctxGetAdmin(r.Context()), payload)
		if err != nil {
			h.responder.WriteError(w, err, "Failed to create project")
			return
		}

		h.responder.WriteMessage(w, http.StatusCreated, "Project created successfully", project)
	}
}

// @Router /api/projects/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload services.ProjectPayload
		if err := decodeJSON(w, r, &payload, "project"); err != nil {
			h.logger.Warn().Err(err).Msg("Failed to decode project request body")
			h.responder.WriteError(w, err, "Failed to update project")
			return
		}

		project, err := h.service.Update(r.Context(), ctxGetAdmin(r.Context()), chi.URLParam(r, "projectID"), payload)
		if err != nil {
			h.responder.WriteError(w, err, "Failed to update project")
			return
		}

		h.responder.WriteMessage(w, http.StatusOK, "Project updated successfully", project)
	}
}

// deleteProject hides a project; the row stays in storage
// @Router /api/projects/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.service.SoftDelete(r.Context(), ctxGetAdmin(r.Context()), chi.URLParam(r, "projectID")); err != nil {
			h.responder.WriteError(w, err, "Failed to delete project")
			return
		}
		h.responder.WriteMessage(w, http.StatusOK, "Project deleted successfully", nil)
	}
}
