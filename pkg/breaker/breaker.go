// Copyright (c) 2025, AgroSense Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package breaker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/agrosense/cropwise/pkg/defaults"
)

// Config holds breaker and limiter settings for one upstream.
type Config struct {
	// Name labels the breaker in logs and metrics.
	Name string

	// MaxRequests allowed through while half-open.
	MaxRequests uint32

	// Interval clears the failure counts while closed.
	Interval time.Duration

	// Timeout is how long the breaker stays open.
	Timeout time.Duration

	// FailureThreshold is the number of consecutive failures that trips it.
	FailureThreshold uint32

	// RequestsPerSecond limits outbound calls; zero disables limiting.
	RequestsPerSecond float64

	// Burst is the limiter bucket size.
	Burst int

	// IsSuccessful reports errors that still count as a healthy upstream
	// answer, such as an empty result set. Nil counts every error as a failure.
	IsSuccessful func(err error) bool
}

// DefaultConfig returns the provider defaults for the named upstream.
func DefaultConfig(name string) Config {
	return Config{
		Name:              name,
		MaxRequests:       defaults.BreakerMaxRequests,
		Interval:          defaults.BreakerInterval,
		Timeout:           defaults.BreakerOpenTimeout,
		FailureThreshold:  defaults.BreakerConsecutiveFailures,
		RequestsPerSecond: defaults.ProviderRequestsPerSecond,
		Burst:             defaults.ProviderBurst,
	}
}

// Guard pairs a circuit breaker with a token bucket limiter.
type Guard[T any] struct {
	name    string
	cb      *gobreaker.CircuitBreaker[T]
	limiter *rate.Limiter
}

// NewGuard creates a Guard from cfg.
func NewGuard[T any](cfg Config) *Guard[T] {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = defaults.BreakerConsecutiveFailures
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
			breakerState.WithLabelValues(name).Set(float64(to))
			breakerTransitions.WithLabelValues(name, to.String()).Inc()
		},
		IsSuccessful: cfg.IsSuccessful,
	}

	g := &Guard[T]{
		name: cfg.Name,
		cb:   gobreaker.NewCircuitBreaker[T](settings),
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	breakerState.WithLabelValues(cfg.Name).Set(float64(gobreaker.StateClosed))
	return g
}

// Do waits for a limiter token then runs fn through the breaker.
// A canceled context while waiting is returned without touching the breaker.
func (g *Guard[T]) Do(ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			var zero T
			return zero, fmt.Errorf("%s rate limiter: %w", g.name, err)
		}
	}
	return g.cb.Execute(func() (T, error) {
		return fn(ctx)
	})
}

// State returns the current breaker state.
func (g *Guard[T]) State() gobreaker.State {
	return g.cb.State()
}

// Name returns the upstream name.
func (g *Guard[T]) Name() string {
	return g.name
}
