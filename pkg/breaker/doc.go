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

// Package breaker guards outbound provider calls with a circuit breaker and
// a client-side rate limiter.
//
// Weather, market and model clients wrap each upstream request in a Guard:
//
//	g := breaker.NewGuard[*owmResponse](breaker.DefaultConfig("openweather"))
//	resp, err := g.Do(ctx, func(ctx context.Context) (*owmResponse, error) {
//	    return fetch(ctx)
//	})
//
// While the breaker is open Do fails fast with gobreaker.ErrOpenState and the
// caller falls back to its static data.
package breaker
