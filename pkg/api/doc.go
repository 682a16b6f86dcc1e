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

// Package api wires the cropwise HTTP API server.
//
// # Usage
//
//	import (
//	    "log"
//	    "github.com/agrosense/cropwise/pkg/api"
//	)
//
//	func main() {
//	    if err := api.Serve(); err != nil {
//	        log.Fatalf("server error: %v", err)
//	    }
//	}
//
// # Architecture
//
// The API layer is responsible for:
//   - Loading configuration (pkg/config) and configuring structured logging
//   - Building the recommender and its reference data (pkg/recommender)
//   - Loading the crop model behind the server readiness gate
//   - Delegating server lifecycle management to pkg/server
//
// The pkg/server package handles:
//   - HTTP server setup and graceful shutdown
//   - Middleware (rate limiting, logging, metrics, panic recovery)
//   - Health and readiness endpoints
//   - Prometheus metrics
//
// # Endpoints
//
// Application Endpoints (with rate limiting):
//   - GET /v1/recommend     - Recommend crops from query parameters
//   - POST /v1/recommend    - Recommend crops from a JSON, YAML or form body
//   - GET /v1/fertilizer    - Fertilizer plan for a crop from query parameters
//   - POST /v1/fertilizer   - Fertilizer plan from a JSON or YAML body
//   - GET /v1/crops         - Known crops and fertilizer categories
//
// System Endpoints (no rate limiting):
//   - GET /health  - Health check (liveness probe)
//   - GET /ready   - Readiness check, 503 until the crop model is loaded
//   - GET /metrics - Prometheus metrics
//
// Until the model loads, /v1/recommend answers 503 MODEL_UNAVAILABLE.
//
// # Query Parameters (GET /v1/recommend)
//
//   - location: District name (district is accepted as an alias)
//   - n, p, k: Soil nitrogen, phosphorus and potassium (required)
//   - ph: Soil pH, default 6.5
//   - soil_type: Echoed soil type, default Loamy
//
// Example:
//
//	curl "http://localhost:8080/v1/recommend?location=Thanjavur&n=90&p=42&k=43&ph=6.5"
//
//	curl -X POST http://localhost:8080/v1/recommend \
//	  -H "Content-Type: application/json" \
//	  -d '{"district":"Erode","n":90,"p":42,"k":43}'
//
// # Configuration
//
// Serve reads the YAML file named by CROPWISE_CONFIG, then CROPWISE_
// environment variables (e.g. CROPWISE_SERVER_PORT, CROPWISE_MODEL_BACKEND).
// See pkg/config for every setting.
package api
