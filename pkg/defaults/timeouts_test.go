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

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeoutRanges(t *testing.T) {
	tests := []struct {
		name     string
		got      time.Duration
		min, max time.Duration
	}{
		{"RecommendHandlerTimeout", RecommendHandlerTimeout, 10 * time.Second, time.Minute},
		{"ServerReadTimeout", ServerReadTimeout, 5 * time.Second, 30 * time.Second},
		{"ServerWriteTimeout", ServerWriteTimeout, 15 * time.Second, time.Minute},
		{"ServerIdleTimeout", ServerIdleTimeout, 30 * time.Second, 5 * time.Minute},
		{"ServerShutdownTimeout", ServerShutdownTimeout, 10 * time.Second, time.Minute},
		{"ProviderTimeout", ProviderTimeout, time.Second, 15 * time.Second},
		{"ModelPredictTimeout", ModelPredictTimeout, time.Second, 30 * time.Second},
		{"ModelLoadTimeout", ModelLoadTimeout, 10 * time.Second, 10 * time.Minute},
		{"PriceSnapshotLoadTimeout", PriceSnapshotLoadTimeout, 10 * time.Second, 10 * time.Minute},
		{"BreakerInterval", BreakerInterval, 10 * time.Second, 5 * time.Minute},
		{"BreakerOpenTimeout", BreakerOpenTimeout, 5 * time.Second, 2 * time.Minute},
		{"HTTPClientTimeout", HTTPClientTimeout, 10 * time.Second, time.Minute},
		{"HTTPConnectTimeout", HTTPConnectTimeout, time.Second, 15 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.GreaterOrEqual(t, tt.got, tt.min)
			assert.LessOrEqual(t, tt.got, tt.max)
		})
	}
}

func TestFallbackFitsInsideHandler(t *testing.T) {
	assert.Less(t, ProviderTimeout, RecommendHandlerTimeout)
	assert.Less(t, ModelPredictTimeout, RecommendHandlerTimeout)
	assert.Less(t, ProviderTimeout+ModelPredictTimeout, RecommendHandlerTimeout)
}

func TestServerTimeoutOrdering(t *testing.T) {
	assert.LessOrEqual(t, ServerReadHeaderTimeout, ServerReadTimeout)
	assert.LessOrEqual(t, ServerReadTimeout, ServerWriteTimeout)
	assert.GreaterOrEqual(t, ServerIdleTimeout, ServerWriteTimeout)
	assert.LessOrEqual(t, RecommendHandlerTimeout, ServerWriteTimeout)
}

func TestHTTPClientTimeoutOrdering(t *testing.T) {
	assert.Less(t, HTTPConnectTimeout, HTTPClientTimeout)
	assert.Less(t, HTTPTLSHandshakeTimeout, HTTPClientTimeout)
	assert.Less(t, HTTPResponseHeaderTimeout, HTTPClientTimeout)
}

func TestBreakerAndRateSettings(t *testing.T) {
	assert.GreaterOrEqual(t, BreakerMaxRequests, 1)
	assert.GreaterOrEqual(t, BreakerConsecutiveFailures, 1)
	assert.GreaterOrEqual(t, ProviderBurst, ProviderRequestsPerSecond)
	assert.Positive(t, MaxRequestBodyBytes)
}
