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

package weather

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable is wrapped by every provider error.
var ErrUnavailable = errors.New("weather data unavailable")

// Fallback is the context used when no provider can answer.
var Fallback = Context{Temperature: 30, Humidity: 80, Rainfall: 200}

// Context is the weather used for one recommendation.
type Context struct {
	Temperature float64 `json:"temperature" yaml:"temperature"`
	Humidity    float64 `json:"humidity" yaml:"humidity"`
	Rainfall    float64 `json:"rainfall" yaml:"rainfall"`
}

// String implements fmt.Stringer.
func (c Context) String() string {
	return fmt.Sprintf("temp=%.1fC humidity=%.1f%% rainfall=%.1fmm", c.Temperature, c.Humidity, c.Rainfall)
}

// FallbackContext returns a copy of Fallback.
func FallbackContext() *Context {
	c := Fallback
	return &c
}

// Provider resolves a location to its weather.
type Provider interface {
	GetWeather(ctx context.Context, location string) (*Context, error)
}

func unavailable(location string, cause error) error {
	return fmt.Errorf("%w for %q: %w", ErrUnavailable, location, cause)
}
