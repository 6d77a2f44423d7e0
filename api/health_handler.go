package api

import (
	"net/http"
	"time"
)

type healthHandler struct {
	responder   Responder
	environment string
	startupTime time.Time
}

func newHealthHandler(environment string, startupTime time.Time, responder Responder) healthHandler {
	return healthHandler{
		responder:   responder,
		environment: environment,
		startupTime: startupTime,
	}
}

// @Router /api/health [get]
func (h healthHandler) getHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteData(w, healthStatus{
			Status:      "OK",
			Uptime:      time.Since(h.startupTime).Seconds(),
			Environment: h.environment,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		})
	}
}
