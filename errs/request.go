package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Request & Input-Validation Errors
var (
	ErrValidation           = errors.New("validation failed")
	ErrDateOrdering         = errors.New("date ordering violated")
	ErrMalformedPayload     = errors.New("malformed payload")
	ErrInvalidField         = errors.New("invalid field")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMaxBodySizeExceeded  = errors.New("max body size exceeded")
)

// Authentication & Authorization Errors
var (
	ErrMissingToken = errors.New("missing access token")
	ErrExpiredToken = errors.New("expired access token")
	ErrInvalidToken = errors.New("invalid access token")
)

// FieldError is one violated rule on one input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag,omitempty"`
	Value   any    `json:"value,omitempty"`
}

// NewValidationErr wraps the full list of violated rules in a single 400.
func NewValidationErr(fields []FieldError) *ApiErr {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Field)
	}
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        &sentinelErr{msg: "Validation failed", sentinel: ErrValidation},
		Details:    strings.Join(names, ", "),
		Fields:     fields,
	}
}

// NewOrderingError reports that later precedes earlier, e.g. endDate before startDate
func NewOrderingError(later, earlier string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        &sentinelErr{msg: fmt.Sprintf("%s must be after %s", capitalize(later), earlier), sentinel: ErrDateOrdering},
		Field:      later,
		Fields: []FieldError{{
			Field:   later,
			Message: fmt.Sprintf("%s must be after %s", capitalize(later), earlier),
			Tag:     "gtefield",
		}},
	}
}

func NewMalformedPayloadError(payloadType string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        &sentinelErr{msg: fmt.Sprintf("Malformed %s payload", payloadType), sentinel: ErrMalformedPayload},
		Cause:      cause,
		Field:      "payload",
	}
}

func NewInvalidFieldError(fieldName, message string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        &sentinelErr{msg: message, sentinel: ErrInvalidField},
		Field:      fieldName,
		Fields:     []FieldError{{Field: fieldName, Message: message}},
	}
}

func NewUnsupportedMediaTypeError(contentType string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnsupportedMediaType,
		err:        ErrUnsupportedMediaType,
		Details:    fmt.Sprintf("Unsupported media type: %s. Allowed types: [application/json]", contentType),
		Field:      "content_type",
	}
}

func NewMaxBodySizeExceededError(maxSize int64) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusRequestEntityTooLarge,
		err:        ErrMaxBodySizeExceeded,
		Details:    fmt.Sprintf("Request body size exceeded maximum allowed size of %d bytes", maxSize),
		Field:      "body_size",
	}
}

// Authentication & Authorization Error Constructors
func NewMissingTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrMissingToken,
		Details:    "Missing access token",
		Field:      "authorization",
	}
}

func NewExpiredTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrExpiredToken,
		Details:    "Access token has expired",
		Field:      "authorization",
	}
}

func NewInvalidTokenError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrInvalidToken,
		Details:    "Invalid access token",
		Field:      "authorization",
		Cause:      cause,
	}
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsOrderingError(err error) bool {
	return errors.Is(err, ErrDateOrdering)
}

func IsMalformedPayloadError(err error) bool {
	return errors.Is(err, ErrMalformedPayload)
}

func IsInvalidFieldError(err error) bool {
	return errors.Is(err, ErrInvalidField)
}

func IsMissingTokenError(err error) bool {
	return errors.Is(err, ErrMissingToken)
}

func IsExpiredTokenError(err error) bool {
	return errors.Is(err, ErrExpiredToken)
}

func IsInvalidTokenError(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
