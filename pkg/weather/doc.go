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

// Package weather supplies the climate context used as model features.
//
// A Provider resolves a location (a district name) to a Context holding
// temperature in degrees Celsius, relative humidity in percent and rainfall in
// millimetres. Two implementations are available:
//
//   - Normals answers from an embedded table of long-run district averages and
//     never fails. Unknown districts get the table's default entry.
//   - OpenWeather queries the OpenWeatherMap current weather API behind a
//     circuit breaker. Rainfall is projected from the last hour of rain; when
//     there was none, the district's normal rainfall is used instead.
//
// When a provider returns an error wrapping ErrUnavailable, callers substitute
// Fallback and continue:
//
//	wc, err := provider.GetWeather(ctx, "Madurai")
//	if err != nil {
//	    wc = weather.FallbackContext()
//	}
package weather
