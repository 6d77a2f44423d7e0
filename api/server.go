package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-api/config"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(cfg config.Config, svc Services) (Server, error) {
	if svc.Projects == nil || svc.Certifications == nil || svc.Contacts == nil {
		return Server{}, fmt.Errorf("api: every service must be provided")
	}

	address := fmt.Sprintf("0.0.0.0:%s", cfg.Port)
	startupTime := time.Now()

	router := newRouter(svc, withConfig(cfg), withStartupTime(startupTime))

	server := &http.Server{
		Addr:              address,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      config.Config
	startupTime time.Time
}

func withConfig(c config.Config) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(svc Services, opts ...func(*router)) *chi.Mux {
	router := router{startupTime: time.Now()}
	for _, opt := range opts {
		opt(&router)
	}

	exposeErrors := !router.config.IsProduction()
	handlers := initializeHandlers(svc, router.config.Environment, exposeErrors, router.startupTime)

	responder := NewResponder(log.With().Str("handlerName", "middleware").Logger(), exposeErrors)
	auth := newAuthMiddleware(router.config.AdminJWTSecret, responder)

	limit, window := router.config.ContactRateLimit, router.config.ContactRateWindow
	if limit <= 0 {
		limit = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}

	chiRouter := chi.NewRouter()
	if router.config.TrustProxy {
		chiRouter.Use(middleware.RealIP)
	}
	chiRouter.Use(recoverPanics(responder))
	chiRouter.Use(requestLogger)
	chiRouter.Use(recordMetrics)
	chiRouter.Use(corsMiddleware(router.config.AcceptedOrigins))

	setupRoutes(chiRouter, handlers, auth, contactRateLimit(limit, window, responder))

	chiRouter.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responder.WriteJSON(w, http.StatusNotFound, envelope{Success: false, Message: "Route not found"})
	})

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
