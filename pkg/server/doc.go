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

// Package server provides the HTTP server shared by cropwise API binaries.
//
// It wraps net/http with the cross-cutting behavior every route needs:
//
//   - Request ID tracking via the X-Request-Id header (UUID)
//   - Token bucket rate limiting (golang.org/x/time/rate) with 429 + Retry-After
//   - Panic recovery returning a structured 500
//   - Prometheus RED metrics, exposed on /metrics
//   - API version negotiation via Accept: application/vnd.agrosense.cropwise.v1+json
//   - Liveness (/health) and phase-aware readiness (/ready) probes
//   - Graceful shutdown on SIGINT/SIGTERM
//
// # Usage
//
//	s := server.New(
//	    server.WithName("cropwised"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "/v1/recommend": engine.HandleRecommend,
//	    }),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// # Lifecycle
//
// /ready reports the server phase: starting, warming while the readiness
// gate (model load) runs, ready, failed when the gate returns an error, and
// draining during shutdown. Only ready answers 200. /health answers 200 in
// every phase.
//
// PORT and SHUTDOWN_TIMEOUT_SECONDS override the listen port and the
// shutdown grace period.
//
// # Errors
//
// Handlers report failures with WriteError or WriteErrorFromErr, which
// produce a consistent body:
//
//	{
//	  "code": "INVALID_INPUT",
//	  "message": "soil ph must be less than or equal to 14",
//	  "details": {"field": "ph"},
//	  "requestId": "550e8400-e29b-41d4-a716-446655440000",
//	  "timestamp": "2025-12-22T12:00:00Z",
//	  "retryable": false
//	}
//
// Structured error codes map to HTTP status with HTTPStatusFromCode.
package server
