package api

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-api/services"
)

// Services are the domain services the router dispatches to
type Services struct {
	Projects       *services.ProjectService
	Certifications *services.CertificationService
	Contacts       *services.ContactService
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(svc Services, environment string, exposeErrors bool, startupTime time.Time) *routeHandlers {
	responder := func(name string) Responder {
		return NewResponder(log.With().Str("handlerName", name).Logger(), exposeErrors)
	}

	return &routeHandlers{
		projectHandler:       newProjectHandler(svc.Projects, responder("projectHandler")),
		certificationHandler: newCertificationHandler(svc.Certifications, responder("certificationHandler")),
		contactHandler:       newContactHandler(svc.Contacts, responder("contactHandler")),
		healthHandler:        newHealthHandler(environment, startupTime, responder("healthHandler")),
	}
}
