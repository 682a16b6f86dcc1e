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
package defaults

import "time"

// API handlers.
const (
	RecommendHandlerTimeout = 30 * time.Second
	MaxRequestBodyBytes     = 64 << 10
)

// cropwised HTTP server. ReadHeaderTimeout guards against slowloris clients.
const (
	ServerReadTimeout       = 10 * time.Second
	ServerReadHeaderTimeout = 5 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second
	ServerShutdownTimeout   = 30 * time.Second
)

// Weather, market and model lookups. A single provider call must finish
// well inside RecommendHandlerTimeout so the fallback can still answer.
const (
	ProviderTimeout          = 5 * time.Second
	ModelPredictTimeout      = 10 * time.Second
	ModelLoadTimeout         = 2 * time.Minute
	PriceSnapshotLoadTimeout = time.Minute
)

// Circuit breakers in front of upstream providers: trip after
// BreakerConsecutiveFailures, stay open BreakerOpenTimeout, then allow
// BreakerMaxRequests probes.
const (
	BreakerMaxRequests         = 3
	BreakerInterval            = 60 * time.Second
	BreakerOpenTimeout         = 30 * time.Second
	BreakerConsecutiveFailures = 5
)

// Outbound HTTP transport.
const (
	HTTPClientTimeout         = 30 * time.Second
	HTTPConnectTimeout        = 5 * time.Second
	HTTPTLSHandshakeTimeout   = 5 * time.Second
	HTTPResponseHeaderTimeout = 10 * time.Second
	HTTPIdleConnTimeout       = 90 * time.Second
	HTTPKeepAlive             = 30 * time.Second
	HTTPExpectContinueTimeout = time.Second
)

// Per-provider outbound rate limit.
const (
	ProviderRequestsPerSecond = 10
	ProviderBurst             = 20
)
