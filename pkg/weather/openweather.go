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
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/agrosense/cropwise/pkg/breaker"
	"github.com/agrosense/cropwise/pkg/defaults"
	"github.com/agrosense/cropwise/pkg/serializer"
)

// DefaultOpenWeatherURL is the OpenWeatherMap current weather endpoint.
const DefaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

const openWeatherProvider = "openweather"

// rainProjection scales one hour of rain to a four month growing season.
const rainProjection = 24 * 30 * 4

// OpenWeatherOption configures an OpenWeather provider.
type OpenWeatherOption func(*OpenWeather)

// WithOpenWeatherBaseURL overrides the endpoint.
func WithOpenWeatherBaseURL(u string) OpenWeatherOption {
	return func(o *OpenWeather) {
		if u != "" {
			o.baseURL = u
		}
	}
}

// WithOpenWeatherReader replaces the HTTP reader.
func WithOpenWeatherReader(r *serializer.HTTPFetcher) OpenWeatherOption {
	return func(o *OpenWeather) {
		o.reader = r
	}
}

// WithOpenWeatherBreaker overrides the breaker and rate limit settings.
func WithOpenWeatherBreaker(cfg breaker.Config) OpenWeatherOption {
	return func(o *OpenWeather) {
		o.guard = breaker.NewGuard[*Context](cfg)
	}
}

// WithOpenWeatherTimeout bounds each upstream request.
func WithOpenWeatherTimeout(d time.Duration) OpenWeatherOption {
	return func(o *OpenWeather) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithNormals sets the table used for rainfall when no rain was reported.
func WithNormals(n *Normals) OpenWeatherOption {
	return func(o *OpenWeather) {
		o.normals = n
	}
}

// OpenWeather fetches current conditions from OpenWeatherMap.
type OpenWeather struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	reader  *serializer.HTTPFetcher
	guard   *breaker.Guard[*Context]
	normals *Normals
}

// NewOpenWeather creates an OpenWeatherMap provider.
func NewOpenWeather(apiKey string, opts ...OpenWeatherOption) (*OpenWeather, error) {
	if apiKey == "" {
		return nil, errors.New("openweather api key is required")
	}

	o := &OpenWeather{
		apiKey:  apiKey,
		baseURL: DefaultOpenWeatherURL,
		timeout: defaults.ProviderTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.normals == nil {
		n, err := DefaultNormals()
		if err != nil {
			return nil, err
		}
		o.normals = n
	}
	if o.reader == nil {
		o.reader = serializer.NewHTTPFetcher(serializer.WithFetchTimeout(o.timeout))
	}
	if o.guard == nil {
		o.guard = breaker.NewGuard[*Context](breaker.DefaultConfig(openWeatherProvider))
	}
	return o, nil
}

type owmResponse struct {
	Main *struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
}

// GetWeather implements Provider. Errors wrap ErrUnavailable.
func (o *OpenWeather) GetWeather(ctx context.Context, location string) (*Context, error) {
	start := time.Now()
	c, err := o.guard.Do(ctx, func(ctx context.Context) (*Context, error) {
		return o.fetch(ctx, location)
	})
	lookupDuration.WithLabelValues(openWeatherProvider).Observe(time.Since(start).Seconds())

	if err != nil {
		lookupsTotal.WithLabelValues(openWeatherProvider, "error").Inc()
		return nil, unavailable(location, err)
	}
	lookupsTotal.WithLabelValues(openWeatherProvider, "ok").Inc()
	return c, nil
}

func (o *OpenWeather) fetch(ctx context.Context, location string) (*Context, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("q", location)
	q.Set("appid", o.apiKey)
	q.Set("units", "metric")

	data, err := o.reader.Get(ctx, o.baseURL+"?"+q.Encode())
	if err != nil {
		return nil, serializer.RedactSecret(err, o.apiKey)
	}

	var resp owmResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode openweather response: %w", err)
	}
	if resp.Main == nil {
		return nil, errors.New("openweather response has no main section")
	}

	rain := resp.Rain.OneHour * rainProjection
	if rain == 0 {
		normal, _ := o.normals.Lookup(location)
		rain = normal.Rainfall
	}

	return &Context{
		Temperature: resp.Main.Temp,
		Humidity:    resp.Main.Humidity,
		Rainfall:    rain,
	}, nil
}
