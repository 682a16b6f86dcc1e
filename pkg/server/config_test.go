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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Setenv(EnvPort, "")
	t.Setenv(EnvShutdownTimeout, "")

	cfg := NewConfig()

	assert.Equal(t, "server", cfg.Name)
	assert.Empty(t, cfg.Address)
	assert.Equal(t, 8080, cfg.Port)
	assert.EqualValues(t, 100, cfg.RateLimit)
	assert.Equal(t, 200, cfg.RateLimitBurst)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 5*time.Second, cfg.ReadHeaderTimeout)
	assert.Equal(t, 30*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 120*time.Second, cfg.IdleTimeout)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestNewConfigReadsEnvironment(t *testing.T) {
	t.Setenv(EnvPort, "9090")
	t.Setenv(EnvShutdownTimeout, "5")

	cfg := NewConfig()

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name         string
		env          map[string]string
		wantPort     int
		wantShutdown time.Duration
	}{
		{"nothing set", nil, 8080, 30 * time.Second},
		{"port", map[string]string{EnvPort: "7070"}, 7070, 30 * time.Second},
		{"port not a number", map[string]string{EnvPort: "http"}, 8080, 30 * time.Second},
		{"negative port", map[string]string{EnvPort: "-1"}, 8080, 30 * time.Second},
		{"shutdown seconds", map[string]string{EnvShutdownTimeout: "45"}, 8080, 45 * time.Second},
		{"zero shutdown ignored", map[string]string{EnvShutdownTimeout: "0"}, 8080, 30 * time.Second},
		{"fractional shutdown ignored", map[string]string{EnvShutdownTimeout: "1.5"}, 8080, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Port: 8080, ShutdownTimeout: 30 * time.Second}
			cfg.applyEnv(func(k string) (string, bool) {
				v, ok := tt.env[k]
				return v, ok
			})
			assert.Equal(t, tt.wantPort, cfg.Port)
			assert.Equal(t, tt.wantShutdown, cfg.ShutdownTimeout)
		})
	}
}
