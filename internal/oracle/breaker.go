// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package oracle

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/pdiddy/movie-recommender/internal/logging"
	"github.com/pdiddy/movie-recommender/internal/metrics"
)

// BreakerSettings configures NewBreaker. Zero values take the defaults noted
// on each field.
type BreakerSettings struct {
	// Name labels metrics (default "oracle").
	Name string

	// FailureThreshold is the number of consecutive failures that opens the
	// circuit (default 5).
	FailureThreshold uint32

	// OpenTimeout is how long the circuit stays open before a half-open
	// trial request (default 30s).
	OpenTimeout time.Duration
}

// Breaker wraps an Oracle with a circuit breaker. While open, Invoke fails
// fast with ErrInvocation instead of calling the provider.
type Breaker struct {
	next Oracle
	cb   *gobreaker.CircuitBreaker[string]
}

// NewBreaker wraps next with a circuit breaker.
func NewBreaker(next Oracle, s BreakerSettings) *Breaker {
	if s.Name == "" {
		s.Name = "oracle"
	}
	if s.FailureThreshold == 0 {
		s.FailureThreshold = 5
	}
	if s.OpenTimeout == 0 {
		s.OpenTimeout = 30 * time.Second
	}

	metrics.BreakerState.WithLabelValues(s.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.FailureThreshold
		},
		// A caller giving up is not a provider failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("oracle circuit breaker state change")
			metrics.BreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return &Breaker{next: next, cb: cb}
}

// Invoke calls the wrapped oracle through the circuit breaker.
func (b *Breaker) Invoke(ctx context.Context, prompt string) (string, error) {
	text, err := b.cb.Execute(func() (string, error) {
		return b.next.Invoke(ctx, prompt)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%w: %w", ErrInvocation, err)
		}
		return "", err
	}
	return text, nil
}

// State reports the current breaker state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
