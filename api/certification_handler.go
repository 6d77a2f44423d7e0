package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/rpupo63/portfolio-api/services"
)

type certificationHandler struct {
	responder Responder
	logger    zerolog.Logger
	service   *services.CertificationService
}

func newCertificationHandler(service *services.CertificationService, responder Responder) certificationHandler {
	return certificationHandler{
		responder: responder,
		logger:    responder.logger,
		service:   service,
	}
}

// @Router /api/certifications [get]
func (h certificationHandler) getAllCertifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		certifications, err := h.service.List(r.Context())
		if err != nil {
			h.responder.WriteError(w, err, "Failed to retrieve certifications")
			return
		}
		h.responder.WriteList(w, certifications, len(certifications))
	}
}

// @Router /api/certifications/stats/summary [get]
func (h certificationHandler) getStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.service.Stats(r.Context())
		if err != nil {
			h.responder.WriteError(w, err, "Failed to retrieve certification statistics")
			return
		}
		h.responder.WriteData(w, stats)
	}
}

// @Router /api/certifications/{certificationID} [get]
func (h certificationHandler) getCertification() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		certification, err := h.service.Get(r.Context(), chi.URLParam(r, "certificationID"))
		if err != nil {
			h.responder.WriteError(w, err, "Failed to retrieve certification")
			return
		}
		h.responder.WriteData(w, certification)
	}
}

// createCertification stores a new certification. A reused credentialId is a 400.
// @Router /api/certifications [post]
func (h certificationHandler) createCertification() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload services.CertificationPayload
		if err := decodeJSON(w, r, &payload, "certification"); err != nil {
			h.logger.Warn().Err(err).Msg("Failed to decode certification request body")
			h.responder.WriteError(w, err, "Failed to create certification")
			return
		}

		certification, err := h.service.Create(r.Context(), ctxGetAdmin(r.Context()), payload)
		if err != nil {
			h.responder.WriteError(w, err, "Failed to create certification")
			return
		}

		h.responder.WriteMessage(w, http.StatusCreated, "Certification created successfully", certification)
	}
}

// @Router /api/certifications/{certificationID} [put]
func (h certificationHandler) updateCertification() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload services.CertificationPayload
		if err := decodeJSON(w, r, &payload, "certification"); err != nil {
			h.logger.Warn().Err(err).Msg("Failed to decode certification request body")
			h.responder.WriteError(w, err, "Failed to update certification")
			return
		}

		certification, err := h.service.Update(r.Context(), ctxGetAdmin(r.Context()), chi.URLParam(r, "certificationID"), payload)
		if err != nil {
			h.responder.WriteError(w, err, "Failed to update certification")
			return
		}

		h.responder.WriteMessage(w, http.StatusOK, "Certification updated successfully", certification)
	}
}

// @Router /api/certifications/{certificationID} [delete]
func (h certificationHandler) deleteCertification() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.service.SoftDelete(r.Context(), ctxGetAdmin(r.Context()), chi.URLParam(r, "certificationID")); err != nil {
			h.responder.WriteError(w, err, "Failed to delete certification")
			return
		}
		h.responder.WriteMessage(w, http.StatusOK, "Certification deleted successfully", nil)
	}
}
