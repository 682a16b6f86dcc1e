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
	"net/http"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/agrosense/cropwise/pkg/defaults"
)

const (
	// EnvPort overrides Config.Port.
	EnvPort = "PORT"

	// EnvShutdownTimeout overrides Config.ShutdownTimeout, in whole seconds.
	// Set it to match the orchestrator's termination grace period.
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT_SECONDS"

	defaultPort      = 8080
	defaultRateLimit = 100
	defaultBurst     = 200
)

// Config holds server configuration
type Config struct {
	Name    string
	Version string

	// Handlers maps route patterns to API handlers. Each one is served
	// behind the middleware chain; probes and /metrics are not.
	Handlers map[string]http.HandlerFunc

	Address string
	Port    int

	// RateLimit is the sustained requests per second shared by all API
	// routes; RateLimitBurst is the token bucket size.
	RateLimit      rate.Limit
	RateLimitBurst int

	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// NewConfig returns the default configuration with PORT and
// SHUTDOWN_TIMEOUT_SECONDS applied.
func NewConfig() *Config {
	cfg := &Config{
		Name:              "server",
		Version:           "undefined",
		Port:              defaultPort,
		RateLimit:         defaultRateLimit,
		RateLimitBurst:    defaultBurst,
		ReadTimeout:       defaults.ServerReadTimeout,
		ReadHeaderTimeout: defaults.ServerReadHeaderTimeout,
		WriteTimeout:      defaults.ServerWriteTimeout,
		IdleTimeout:       defaults.ServerIdleTimeout,
		ShutdownTimeout:   defaults.ServerShutdownTimeout,
	}
	cfg.applyEnv(os.LookupEnv)
	return cfg
}

// applyEnv overrides fields from lookup. Unparsable or non-positive values
// are ignored.
func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if port, ok := positiveInt(lookup, EnvPort); ok {
		c.Port = port
	}
	if secs, ok := positiveInt(lookup, EnvShutdownTimeout); ok {
		c.ShutdownTimeout = time.Duration(secs) * time.Second
	}
}

func positiveInt(lookup func(string) (string, bool), key string) (int, bool) {
	raw, ok := lookup(key)
	if !ok || raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
