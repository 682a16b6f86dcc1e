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

package api

import (
	"context"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/agrosense/cropwise/pkg/config"
	"github.com/agrosense/cropwise/pkg/logging"
	"github.com/agrosense/cropwise/pkg/recommender"
	"github.com/agrosense/cropwise/pkg/server"
)

const (
	name           = "cropwised"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/agrosense/cropwise/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Serve loads configuration from $CROPWISE_CONFIG and CROPWISE_ environment
// variables, starts the API server and blocks until shutdown.
func Serve() error {
	cfg, err := config.Load("")
	if err != nil {
		logging.SetDefaultStructuredLogger(name, version)
		slog.Error("invalid configuration", "error", err)
		return err
	}
	return Run(context.Background(), cfg)
}

// Run builds the recommender from cfg and serves it until ctx is canceled
// or the process is signaled. The server reports ready once the crop model
// has loaded.
func Run(ctx context.Context, cfg *config.Config) error {
	logging.SetDefaultStructuredLoggerWithLevel(name, version, cfg.LogLevel)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	e, err := recommender.Build(ctx, cfg, version)
	if err != nil {
		slog.Error("failed to build recommender", "error", err)
		return err
	}
	defer e.Model().Close()

	s := server.New(
		server.WithConfig(serverConfig(cfg)),
		server.WithHandler(routes(e)),
		server.WithReadinessGate(modelGate(e, cfg.Model)),
	)

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}

func routes(e *recommender.Engine) map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"/v1/recommend":  e.HandleRecommend,
		"/v1/fertilizer": e.Planner().HandlePlan,
		"/v1/crops":      e.HandleCrops,
	}
}

func serverConfig(cfg *config.Config) *server.Config {
	sc := server.NewConfig()
	sc.Name = name
	sc.Version = version
	sc.Address = cfg.Server.Address
	sc.Port = cfg.Server.Port
	sc.RateLimit = rate.Limit(cfg.Server.RateLimit)
	sc.RateLimitBurst = cfg.Server.RateLimitBurst
	sc.ShutdownTimeout = cfg.Server.ShutdownTimeout
	return sc
}

func modelGate(e *recommender.Engine, m config.ModelConfig) func(context.Context) error {
	return func(ctx context.Context) error {
		return e.Model().Load(ctx, recommender.OracleConfig(m))
	}
}
