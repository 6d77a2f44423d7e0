package api

import (
	"errors"
	"mime"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/services"
)

// envelope is the body of every response
type envelope struct {
	Success    bool                 `json:"success"`
	Data       any                  `json:"data,omitempty"`
	Message    string               `json:"message,omitempty"`
	Errors     []errs.FieldError    `json:"errors,omitempty"`
	Count      *int                 `json:"count,omitempty"`
	Pagination *services.Pagination `json:"pagination,omitempty"`
	ContactID  string               `json:"contactId,omitempty"`
	Error      string               `json:"error,omitempty"`
}

type Responder struct {
	logger zerolog.Logger
	// exposeErrors adds the underlying error chain to 5xx bodies; off in production
	exposeErrors bool
}

func NewResponder(logger zerolog.Logger, exposeErrors bool) Responder {
	return Responder{logger: logger, exposeErrors: exposeErrors}
}

func (r Responder) WriteJSON(w http.ResponseWriter, status int, body envelope) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteData writes a 200 envelope around data
func (r Responder) WriteData(w http.ResponseWriter, data any) {
	r.WriteJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

// WriteList writes a 200 envelope with data and its length
func (r Responder) WriteList(w http.ResponseWriter, data any, count int) {
	r.WriteJSON(w, http.StatusOK, envelope{Success: true, Data: data, Count: &count})
}

func (r Responder) WritePage(w http.ResponseWriter, data any, pagination services.Pagination) {
	r.WriteJSON(w, http.StatusOK, envelope{Success: true, Data: data, Pagination: &pagination})
}

func (r Responder) WriteMessage(w http.ResponseWriter, status int, message string, data any) {
	r.WriteJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

// WriteError maps err onto the envelope. Client errors carry their own message;
// server errors use fallback and hide the cause unless exposeErrors is set.
func (r Responder) WriteError(w http.ResponseWriter, err error, fallback string) {
	var apiErr *errs.ApiErr
	if !errors.As(err, &apiErr) {
		apiErr = errs.NewInternalErrorWithCause(fallback, err)
	}

	status := apiErr.StatusCode
	body := envelope{Success: false}

	if status >= http.StatusInternalServerError {
		r.logger.Error().Err(err).Str("cause", apiErr.GetFullError()).Msg(fallback)
		body.Message = fallback
		if body.Message == "" {
			body.Message = apiErr.Message()
		}
		if r.exposeErrors {
			body.Error = apiErr.GetFullError()
		}
	} else {
		body.Message = apiErr.Message()
		body.Errors = apiErr.Fields
		if r.exposeErrors && apiErr.Cause != nil {
			body.Error = apiErr.GetFullError()
		}
	}

	r.WriteJSON(w, status, body)
}

// decodeJSON reads a JSON body of at most maxBodyBytes into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, payloadType string) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mediaType, _, err := mime.ParseMediaType(ct); err != nil || mediaType != "application/json" {
			return errs.NewUnsupportedMediaTypeError(ct)
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewMaxBodySizeExceededError(maxBodyBytes)
		}
		return errs.NewMalformedPayloadError(payloadType, err)
	}
	return nil
}
