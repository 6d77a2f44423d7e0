package api

import (
	"errors"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/metrics"
	"github.com/rpupo63/portfolio-api/models"
)

type authMiddleware struct {
	responder Responder
	secret    []byte
}

func newAuthMiddleware(secret string, responder Responder) authMiddleware {
	if secret == "" {
		log.Warn().Msg("ADMIN_JWT_SECRET is not set, admin routes are unauthenticated")
	}
	return authMiddleware{responder: responder, secret: []byte(secret)}
}

// authenticate requires an HS256 bearer token signed with the admin secret.
// With no secret configured every request passes through without an admin.
func (m authMiddleware) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(m.secret) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		admin, err := parseAdminToken(m.secret, r.Header.Get("Authorization"))
		if err != nil {
			m.responder.WriteError(w, err, "")
			return
		}
		next.ServeHTTP(w, r.WithContext(ctxWithAdmin(r.Context(), admin)))
	})
}

// parseAdminToken validates an Authorization header value
func parseAdminToken(secret []byte, authHeader string) (*models.Admin, error) {
	tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
	tokenString = strings.TrimSpace(tokenString)
	if !ok || tokenString == "" {
		return nil, errs.NewMissingTokenError()
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errs.NewExpiredTokenError()
		}
		return nil, errs.NewInvalidTokenError(err)
	}
	return &models.Admin{Subject: claims.Subject}, nil
}

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// recoverPanics turns a handler panic into a 500 envelope
func recoverPanics(responder Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			srw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}

			defer func() {
				if err := recover(); err != nil {
					log.Error().
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Interface("panic", err).
						Str("stack", string(debug.Stack())).
						Msg("Recovered from panic")

					if !srw.wroteHeader {
						responder.WriteError(srw, errs.NewInternalError("panic"), "Internal server error")
					}
				}
			}()

			next.ServeHTTP(srw, r)
		})
	}
}

// requestLogger logs one line per request. 5xx at error, 4xx at warn.
func requestLogger(next http.Handler) http.Handler {
	logger := log.With().Str("component", "http").Logger()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(srw, r)

		var logEvent *zerolog.Event
		switch {
		case srw.status >= 500:
			logEvent = logger.Error()
		case srw.status >= 400:
			logEvent = logger.Warn()
		default:
			logEvent = logger.Info()
		}

		logEvent.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", srw.status).
			Dur("duration", time.Since(start)).
			Str("remote_addr", getClientIP(r)).
			Msg("HTTP Request")
	})
}

// recordMetrics labels requests by chi route pattern so ids do not explode cardinality
func recordMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}

		metrics.TrackActiveRequest(true)
		defer metrics.TrackActiveRequest(false)

		next.ServeHTTP(srw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		metrics.RecordAPIRequest(r.Method, route, srw.status, time.Since(start))
	})
}

func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// contactRateLimit caps submissions per client IP
func contactRateLimit(limit int, window time.Duration, responder Responder) func(http.Handler) http.Handler {
	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return getClientIP(r), nil
		}),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			responder.WriteError(w, errs.NewTooManyRequestsError("Too many contact form submissions, please try again later."), "")
		}),
	)
}

// getClientIP returns the socket address host. Forwarded headers only count when
// TRUST_PROXY mounts middleware.RealIP, which rewrites RemoteAddr first.
func getClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
