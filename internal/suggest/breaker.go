// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

package suggest

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/ladle-app/ladle/internal/logging"
	"github.com/ladle-app/ladle/internal/metrics"
	"github.com/ladle-app/ladle/internal/models"
)

// BreakerSuggester wraps a Suggester with a circuit breaker so a dead or
// degraded AI backend sheds load fast instead of stacking up timeouts.
//
// The breaker uses real time for its interval and timeout calculations;
// tests exercise the wrapped suggester directly.
type BreakerSuggester struct {
	inner Suggester
	cb    *gobreaker.CircuitBreaker[[]models.RecipeItem]
	name  string
}

// NewBreakerSuggester wraps inner with a circuit breaker. The circuit
// opens after a 60% failure rate across at least 5 requests within a
// 1-minute window, and probes recovery after 2 minutes.
func NewBreakerSuggester(inner Suggester) *BreakerSuggester {
	const cbName = "gemini"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]models.RecipeItem](breakerSettings(cbName))

	return &BreakerSuggester{inner: inner, cb: cb, name: cbName}
}

// breakerSettings holds the collaborator breaker tuning: failure counts
// reset every minute while closed, and an open circuit probes recovery
// after two minutes.
func breakerSettings(name string) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", breakerStateString(from)).
				Str("to", breakerStateString(to)).
				Msg("Circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(
				name, breakerStateString(from), breakerStateString(to)).Inc()
		},
	}
}

// Suggest forwards to the wrapped suggester under breaker protection.
// Validation errors do not count against the breaker; only collaborator
// failures do. An open circuit surfaces as ErrUnavailable.
func (b *BreakerSuggester) Suggest(ctx context.Context, constraints models.SearchConstraints) ([]models.RecipeItem, error) {
	if err := ValidateConstraints(constraints); err != nil {
		return nil, err
	}

	result, err := b.cb.Execute(func() ([]models.RecipeItem, error) {
		return b.inner.Suggest(ctx, constraints)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			return nil, errors.Join(ErrUnavailable, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return result, nil
}

func breakerStateString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func breakerStateFloat(state gobreaker.State) float64 {
	switch state {
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
