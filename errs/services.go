package errs

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Third-party delivery errors (mail providers, SMS, secret stores)
var (
	ErrRateLimitExceeded  = errors.New("rate limit exceeded")
	ErrInvalidAPIKey      = errors.New("invalid API key")
	ErrCircuitBreakerOpen = errors.New("circuit breaker open")
	ErrServiceUnreachable = errors.New("service unreachable")
	ErrDeliveryFailed     = errors.New("delivery failed")
)

// Configuration & Environment Errors
var (
	ErrConfigMissing       = errors.New("configuration missing")
	ErrConfigInvalid       = errors.New("configuration invalid")
	ErrEnvironmentVariable = errors.New("environment variable error")
)

// Shutdown errors
var (
	ErrShutdownTimeout = errors.New("shutdown timeout")
)

func NewRateLimitError(service string, retryAfter time.Duration) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusTooManyRequests,
		err:        ErrRateLimitExceeded,
		Details:    fmt.Sprintf("Rate limit exceeded for %s. Retry after %v", service, retryAfter),
	}
}

func NewInvalidAPIKeyError(service string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrInvalidAPIKey,
		Details:    fmt.Sprintf("Invalid API key for %s", service),
	}
}

func NewCircuitBreakerOpenError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrCircuitBreakerOpen,
		Details:    fmt.Sprintf("Circuit breaker for %s is open", service),
		Cause:      cause,
	}
}

func NewServiceUnreachableError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrServiceUnreachable,
		Details:    fmt.Sprintf("Service %s is unreachable", service),
		Cause:      cause,
	}
}

// NewDeliveryError reports a provider that answered but refused the message
func NewDeliveryError(service string, status int, body string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrDeliveryFailed,
		Details:    fmt.Sprintf("%s responded with status %d: %s", service, status, body),
	}
}

func NewConfigError(configName string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigInvalid,
		Details:    fmt.Sprintf("Configuration error for %s", configName),
		Cause:      cause,
	}
}

func NewEnvironmentVariableError(varName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrEnvironmentVariable,
		Details:    fmt.Sprintf("Environment variable %s is not set or invalid", varName),
		Field:      varName,
	}
}

func NewShutdownTimeoutError(component string, timeout time.Duration) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrShutdownTimeout,
		Details:    fmt.Sprintf("%s did not stop within %v", component, timeout),
	}
}

func IsRateLimitError(err error) bool {
	return errors.Is(err, ErrRateLimitExceeded)
}

func IsCircuitBreakerOpen(err error) bool {
	return errors.Is(err, ErrCircuitBreakerOpen)
}

func IsServiceUnreachable(err error) bool {
	return errors.Is(err, ErrServiceUnreachable)
}

func IsDeliveryFailed(err error) bool {
	return errors.Is(err, ErrDeliveryFailed)
}

func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigInvalid) || errors.Is(err, ErrConfigMissing)
}

func IsEnvironmentVariableError(err error) bool {
	return errors.Is(err, ErrEnvironmentVariable)
}
