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

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	cwerrors "github.com/agrosense/cropwise/pkg/errors"
	"github.com/agrosense/cropwise/pkg/serializer"
)

// probeRoutes are served outside the middleware chain.
var probeRoutes = []string{"/health", "/ready", "/metrics"}

// Option configures a Server.
type Option func(*Server)

// WithName sets the service name reported by the root route and probes.
func WithName(name string) Option {
	return func(s *Server) {
		s.config.Name = name
	}
}

// WithVersion sets the build version reported by the root route and probes.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.config.Version = version
	}
}

// WithHandler registers API routes. Later registrations of the same pattern win.
func WithHandler(handlers map[string]http.HandlerFunc) Option {
	return func(s *Server) {
		if s.config.Handlers == nil {
			s.config.Handlers = make(map[string]http.HandlerFunc, len(handlers))
		}
		for pattern, h := range handlers {
			s.config.Handlers[pattern] = h
		}
	}
}

// WithConfig replaces the whole configuration. A nil cfg is ignored.
func WithConfig(cfg *Config) Option {
	return func(s *Server) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

// WithReadinessGate holds /ready at 503 until gate returns nil. Start runs
// the gate once the listener is up; a gate error stops the server.
func WithReadinessGate(gate func(context.Context) error) Option {
	return func(s *Server) {
		s.readinessGate = gate
	}
}

// Server is the cropwise HTTP server.
type Server struct {
	config        *Config
	httpServer    *http.Server
	rateLimiter   *rate.Limiter
	readinessGate func(context.Context) error

	mu      sync.RWMutex
	phase   Phase
	reason  string
	started time.Time
}

// New builds a server from opts. The root route lists the service routes
// unless a handler for "/" was registered.
func New(opts ...Option) *Server {
	s := &Server{
		config: NewConfig(),
		phase:  PhaseStarting,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.config.Handlers == nil {
		s.config.Handlers = make(map[string]http.HandlerFunc)
	}
	if _, ok := s.config.Handlers["/"]; !ok {
		s.config.Handlers["/"] = s.handleRoot
	}

	s.rateLimiter = rate.NewLimiter(s.config.RateLimit, s.config.RateLimitBurst)
	s.httpServer = &http.Server{
		Addr:              s.config.Address + ":" + strconv.Itoa(s.config.Port),
		Handler:           s.mux(),
		ReadTimeout:       s.config.ReadTimeout,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
	}
	return s
}

func (s *Server) mux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.Handle("/metrics", promhttp.Handler())

	for pattern, h := range s.config.Handlers {
		mux.HandleFunc(pattern, s.withMiddleware(pattern, h))
	}
	return mux
}

// routes lists every served pattern except the root, sorted.
func (s *Server) routes() []string {
	out := make([]string, 0, len(s.config.Handlers)+len(probeRoutes))
	for pattern := range s.config.Handlers {
		if pattern != "/" {
			out = append(out, pattern)
		}
	}
	out = append(out, probeRoutes...)
	slices.Sort(out)
	return out
}

type serviceInfo struct {
	Name       string   `json:"name"`
	Version    string   `json:"version"`
	APIVersion string   `json:"apiVersion"`
	Phase      Phase    `json:"phase"`
	Timestamp  string   `json:"timestamp"`
	Routes     []string `json:"routes"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	if r.URL.Path != "/" {
		WriteError(w, r, http.StatusNotFound, cwerrors.ErrCodeNotFound, "No route for "+r.URL.Path, false,
			map[string]any{"routes": s.routes()})
		return
	}

	phase, _ := s.state()
	serializer.RespondJSON(w, http.StatusOK, serviceInfo{
		Name:       s.config.Name,
		Version:    s.config.Version,
		APIVersion: APIVersionFrom(r),
		Phase:      phase,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Routes:     s.routes(),
	})
}

func (s *Server) setPhase(p Phase, reason string) {
	s.mu.Lock()
	s.phase, s.reason = p, reason
	s.mu.Unlock()

	if p == PhaseReady {
		serverReady.Set(1)
	} else {
		serverReady.Set(0)
	}
}

func (s *Server) state() (Phase, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase, s.reason
}

func (s *Server) isReady() bool {
	p, _ := s.state()
	return p == PhaseReady
}

func (s *Server) uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.started.IsZero() {
		return 0
	}
	return time.Since(s.started)
}

// Start serves until ctx is canceled or the readiness gate fails, then
// drains in-flight requests within ShutdownTimeout.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	s.started = time.Now()
	s.mu.Unlock()

	slog.Info("starting server", "address", s.httpServer.Addr)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if s.readinessGate != nil {
			s.setPhase(PhaseWarming, "waiting for readiness gate")
			if err := s.readinessGate(gctx); err != nil {
				if gctx.Err() != nil {
					return s.shutdown(PhaseDraining, "context canceled during warm-up")
				}
				slog.Error("readiness gate failed", "error", err)
				return errors.Join(fmt.Errorf("readiness: %w", err), s.shutdown(PhaseFailed, err.Error()))
			}
		}
		s.setPhase(PhaseReady, "")
		slog.Info("server ready")

		<-gctx.Done()
		return s.shutdown(PhaseDraining, "shutting down")
	})

	return g.Wait()
}

func (s *Server) shutdown(p Phase, reason string) error {
	s.setPhase(p, reason)

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	slog.Info("draining server", "phase", p, "timeout", s.config.ShutdownTimeout.String())
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Run is Start bound to SIGINT and SIGTERM.
func (s *Server) Run(ctx context.Context) error {
	slog.Info("server config",
		slog.String("name", s.config.Name),
		slog.String("version", s.config.Version),
		slog.String("address", s.httpServer.Addr),
		slog.Float64("rateLimit", float64(s.config.RateLimit)),
		slog.Int("rateLimitBurst", s.config.RateLimitBurst),
		slog.Duration("writeTimeout", s.config.WriteTimeout),
		slog.Duration("shutdownTimeout", s.config.ShutdownTimeout),
		slog.Any("routes", s.routes()),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := s.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
