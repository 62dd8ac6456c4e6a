package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_cart/order-entry/internal/metrics"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// breaker wraps gobreaker with metrics and state-change logging. Not-found
// answers are a healthy catalog and never count as failures, nor do requests
// abandoned by their caller.
type breaker struct {
	*gobreaker.CircuitBreaker[[]byte]
	name    string
	service string
}

func newBreaker(name, service string, logger *zap.Logger) *breaker {
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,                // allowed through while half-open
		Interval:    15 * time.Second, // failure counting window
		Timeout:     30 * time.Second, // open -> half-open
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		IsSuccessful: isSuccessful,
		OnStateChange: func(cbName string, from gobreaker.State, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(service, cbName).Set(stateValue(to))
			logger.Info("circuit breaker state changed",
				zap.String("circuit", cbName),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	metrics.CircuitBreakerState.WithLabelValues(service, name).Set(0)

	return &breaker{CircuitBreaker: cb, name: name, service: service}
}

func (b *breaker) execute(fn func() ([]byte, error)) ([]byte, error) {
	body, err := b.CircuitBreaker.Execute(fn)
	if err != nil && !isSuccessful(err) {
		metrics.CircuitBreakerFailures.WithLabelValues(b.service, b.name).Inc()
		return nil, formatBreakerError(b.name, err)
	}
	return body, err
}

func isSuccessful(err error) bool {
	return err == nil ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}

func formatBreakerError(circuitName string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) {
		return fmt.Errorf("circuit breaker %s is open (catalog unavailable): %w", circuitName, err)
	}
	if errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("circuit breaker %s: too many requests in half-open state: %w", circuitName, err)
	}
	return err
}
