// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

// Package breaker wraps sony/gobreaker with the logging and metrics used by
// every outbound fetcher (music chunks, podcast feeds).
//
// The breaker uses wall-clock time for its interval and timeout, so tests
// drive it with failures rather than by waiting.
package breaker

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/masterpiece/internal/logging"
	"github.com/tomtom215/masterpiece/internal/metrics"
)

// ErrRejected is returned, wrapped with the gobreaker cause, when the
// circuit is open or the half-open request quota is used up.
var ErrRejected = errors.New("circuit breaker rejected request")

// Settings configures a Breaker. Zero fields take the defaults below.
type Settings struct {
	Name string

	// MaxRequests allowed through while half-open. Default 3.
	MaxRequests uint32

	// Interval resets the closed-state counts. Default 1m.
	Interval time.Duration

	// Timeout is how long the circuit stays open. Default 2m.
	Timeout time.Duration

	// MinRequests before the failure ratio is considered. Default 10.
	MinRequests uint32

	// FailureRatio that opens the circuit. Default 0.6.
	FailureRatio float64
}

func (s *Settings) applyDefaults() {
	if s.MaxRequests == 0 {
		s.MaxRequests = 3
	}
	if s.Interval == 0 {
		s.Interval = time.Minute
	}
	if s.Timeout == 0 {
		s.Timeout = 2 * time.Minute
	}
	if s.MinRequests == 0 {
		s.MinRequests = 10
	}
	if s.FailureRatio == 0 {
		s.FailureRatio = 0.6
	}
}

// Breaker is a typed circuit breaker.
type Breaker[T any] struct {
	cb   *gobreaker.CircuitBreaker[T]
	name string
}

// New creates a breaker and publishes its initial (closed) state.
func New[T any](s Settings) *Breaker[T] {
	s.applyDefaults()
	metrics.CircuitBreakerState.WithLabelValues(s.Name).Set(0)

	minRequests, ratio := s.MinRequests, s.FailureRatio
	cb := gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			trip := failureRatio >= ratio
			if trip {
				logging.Warn().
					Str("breaker", s.Name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return trip
		},
		// A caller giving up is not a failure of the remote side.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("[CIRCUIT BREAKER] State transition")
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String(), stateValue(to))
		},
	})

	return &Breaker[T]{cb: cb, name: s.Name}
}

// Execute runs fn through the breaker.
func (b *Breaker[T]) Execute(fn func() (T, error)) (T, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			var zero T
			return zero, fmt.Errorf("%w (%s): %w", ErrRejected, b.name, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		return result, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return result, nil
}

// State returns "closed", "half-open" or "open".
func (b *Breaker[T]) State() string {
	return b.cb.State().String()
}

// Name returns the breaker name used in logs and metric labels.
func (b *Breaker[T]) Name() string {
	return b.name
}

func stateValue(s gobreaker.State) int {
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
