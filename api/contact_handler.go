package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/rpupo63/portfolio-api/database"
	"github.com/rpupo63/portfolio-api/services"
)

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	service   *services.ContactService
}

func newContactHandler(service *services.ContactService, responder Responder) contactHandler {
	return contactHandler{
		responder: responder,
		logger:    responder.logger,
		service:   service,
	}
}

// submitContact stores the message and answers before any email goes out
// @Router /api/contact [post]
func (h contactHandler) submitContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload services.ContactPayload
		if err := decodeJSON(w, r, &payload, "contact"); err != nil {
			h.responder.WriteError(w, err, "Failed to send message. Please try again later.")
			return
		}

		meta := services.RequestMeta{
			IPAddress: getClientIP(r),
			UserAgent: r.UserAgent(),
		}
		contact, err := h.service.Submit(r.Context(), payload, meta)
		if err != nil {
			h.responder.WriteError(w, err, "Failed to send message. Please try again later.")
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, envelope{
			Success:   true,
			Message:   "Message sent successfully! I'll get back to you soon.",
			ContactID: contact.ID.String(),
		})
	}
}

// @Router /api/contact [get]
func (h contactHandler) getAllContacts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page := database.ParsePage(q.Get("page"), q.Get("limit"))

		result, err := h.service.List(r.Context(), page, q.Get("status"))
		if err != nil {
			h.responder.WriteError(w, err, "Failed to retrieve contacts")
			return
		}
		h.responder.WritePage(w, result.Contacts, result.Pagination)
	}
}

// @Router /api/contact/{contactID}/status [patch]
func (h contactHandler) updateContactStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body statusUpdateRequest
		if err := decodeJSON(w, r, &body, "status"); err != nil {
			h.responder.WriteError(w, err, "Failed to update status")
			return
		}

		contact, err := h.service.UpdateStatus(r.Context(), ctxGetAdmin(r.Context()), chi.URLParam(r, "contactID"), body.Status)
		if err != nil {
			h.responder.WriteError(w, err, "Failed to update status")
			return
		}

		h.responder.WriteMessage(w, http.StatusOK, "Status updated successfully", contact)
	}
}
