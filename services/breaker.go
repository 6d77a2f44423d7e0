package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/metrics"
)

// BreakerMailer stops calling a failing provider for a while so queued notifications fail fast
type BreakerMailer struct {
	next Mailer
	cb   *gobreaker.CircuitBreaker[struct{}]
	name string
}

// NewBreakerMailer wraps next. The circuit opens after 5 consecutive provider faults and probes again after 1 minute.
func NewBreakerMailer(provider string, next Mailer) *BreakerMailer {
	name := "mailer-" + provider
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    5 * time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return !providerFault(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("mailer circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &BreakerMailer{next: next, cb: cb, name: name}
}

func (b *BreakerMailer) Send(ctx context.Context, email Email) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, b.next.Send(ctx, email)
	})

	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
		return nil
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		return errs.NewCircuitBreakerOpenError(b.name, err)
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		return err
	}
}

// State exposes the breaker state for health reporting
func (b *BreakerMailer) State() gobreaker.State {
	return b.cb.State()
}

// providerFault reports whether err says the provider is unhealthy, as opposed to
// rejecting one malformed message
func providerFault(err error) bool {
	switch {
	case err == nil:
		return false
	case errs.IsServiceUnreachable(err), errs.IsRateLimitError(err), errs.IsDeliveryFailed(err):
		return true
	}
	var apiErr *errs.ApiErr
	return !errors.As(err, &apiErr)
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
