package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes mounts everything under /api. Reads are public; writes and the
// contact inbox need an admin token.
func setupRoutes(r chi.Router, handlers *routeHandlers, auth authMiddleware, contactLimit func(http.Handler) http.Handler) {
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.healthHandler.getHealth())

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", handlers.projectHandler.getAllProjects())
			r.Get("/featured", handlers.projectHandler.getFeaturedProjects())
			r.Get("/categories", handlers.projectHandler.getCategories())
			r.Get("/stats/summary", handlers.projectHandler.getStats())
			r.Get("/{projectID}", handlers.projectHandler.getProject())

			r.Group(func(r chi.Router) {
				r.Use(auth.authenticate)
				r.Post("/", handlers.projectHandler.createProject())
				r.Put("/{projectID}", handlers.projectHandler.updateProject())
				r.Delete("/{projectID}", handlers.projectHandler.deleteProject())
			})
		})

		r.Route("/certifications", func(r chi.Router) {
			r.Get("/", handlers.certificationHandler.getAllCertifications())
			r.Get("/stats/summary", handlers.certificationHandler.getStats())
			r.Get("/{certificationID}", handlers.certificationHandler.getCertification())

			r.Group(func(r chi.Router) {
				r.Use(auth.authenticate)
				r.Post("/", handlers.certificationHandler.createCertification())
				r.Put("/{certificationID}", handlers.certificationHandler.updateCertification())
				r.Delete("/{certificationID}", handlers.certificationHandler.deleteCertification())
			})
		})

		r.Route("/contact", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(contactLimit)
				r.Post("/", handlers.contactHandler.submitContact())
			})

			r.Group(func(r chi.Router) {
				r.Use(auth.authenticate)
				r.Get("/", handlers.contactHandler.getAllContacts())
				r.Patch("/{contactID}/status", handlers.contactHandler.updateContactStatus())
			})
		})
	})
}
