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
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrosense/cropwise/pkg/breaker"
)

func newOWMServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewOpenWeatherRequiresKey(t *testing.T) {
	_, err := NewOpenWeather("")
	require.Error(t, err)
}

func TestOpenWeatherGetWeather(t *testing.T) {
	tests := []struct {
		name     string
		location string
		body     string
		want     Context
	}{
		{
			name:     "raining now projects rainfall",
			location: "Madurai",
			body:     `{"main":{"temp":31.5,"humidity":62},"rain":{"1h":0.5}}`,
			want:     Context{Temperature: 31.5, Humidity: 62, Rainfall: 1440},
		},
		{
			name:     "dry known district uses normal rainfall",
			location: "Thanjavur",
			body:     `{"main":{"temp":29,"humidity":78}}`,
			want:     Context{Temperature: 29, Humidity: 78, Rainfall: 1100},
		},
		{
			name:     "dry unknown district uses default rainfall",
			location: "Bengaluru",
			body:     `{"main":{"temp":24,"humidity":55},"rain":{"1h":0}}`,
			want:     Context{Temperature: 24, Humidity: 55, Rainfall: 900},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newOWMServer(t, http.StatusOK, tt.body)
			o, err := NewOpenWeather("key", WithOpenWeatherBaseURL(srv.URL))
			require.NoError(t, err)

			got, err := o.GetWeather(context.Background(), tt.location)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestOpenWeatherQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Erode", q.Get("q"))
		assert.Equal(t, "key", q.Get("appid"))
		assert.Equal(t, "metric", q.Get("units"))
		_, _ = w.Write([]byte(`{"main":{"temp":33,"humidity":50}}`))
	}))
	defer srv.Close()

	o, err := NewOpenWeather("key", WithOpenWeatherBaseURL(srv.URL))
	require.NoError(t, err)
	_, err = o.GetWeather(context.Background(), "Erode")
	require.NoError(t, err)
}

func TestOpenWeatherUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"cod":401,"message":"Invalid API key"}`},
		{"city not found", http.StatusNotFound, `{"cod":"404","message":"city not found"}`},
		{"missing main", http.StatusOK, `{"weather":[]}`},
		{"malformed", http.StatusOK, `{"main":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newOWMServer(t, tt.status, tt.body)
			o, err := NewOpenWeather("topsecret", WithOpenWeatherBaseURL(srv.URL))
			require.NoError(t, err)

			got, err := o.GetWeather(context.Background(), "Salem")
			require.Error(t, err)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, ErrUnavailable)
			assert.NotContains(t, err.Error(), "topsecret")
		})
	}
}

func TestOpenWeatherRedactsEscapedKey(t *testing.T) {
	srv := newOWMServer(t, http.StatusBadGateway, `bad gateway`)
	o, err := NewOpenWeather("top/secret&key", WithOpenWeatherBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = o.fetch(context.Background(), "Salem")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDACTED")
	assert.NotContains(t, err.Error(), "top%2Fsecret")
	assert.NotContains(t, err.Error(), "top/secret")
}

func TestOpenWeatherBreakerOpens(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := breaker.DefaultConfig("openweather-test")
	cfg.FailureThreshold = 3
	cfg.Timeout = time.Minute
	cfg.RequestsPerSecond = 0

	o, err := NewOpenWeather("key", WithOpenWeatherBaseURL(srv.URL), WithOpenWeatherBreaker(cfg))
	require.NoError(t, err)

	for range 6 {
		_, err := o.GetWeather(context.Background(), "Salem")
		assert.ErrorIs(t, err, ErrUnavailable)
	}
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, gobreaker.StateOpen, o.guard.State())

	_, err = o.GetWeather(context.Background(), "Salem")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}
