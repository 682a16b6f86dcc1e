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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cwerrors "github.com/agrosense/cropwise/pkg/errors"
)

func TestFallbackContext(t *testing.T) {
	c := FallbackContext()
	assert.Equal(t, Context{Temperature: 30, Humidity: 80, Rainfall: 200}, *c)

	c.Temperature = 99
	assert.InDelta(t, 30, Fallback.Temperature, 1e-9)
}

func TestUnavailableWrapsSentinel(t *testing.T) {
	cause := errors.New("connection refused")
	err := unavailable("Madurai", cause)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "Madurai")
}

func TestDefaultNormals(t *testing.T) {
	n, err := DefaultNormals()
	require.NoError(t, err)
	assert.Len(t, n.Districts(), 37)

	tests := []struct {
		district string
		want     Context
		wantOK   bool
	}{
		{"Madurai", Context{Temperature: 34, Humidity: 50, Rainfall: 850}, true},
		{"Nilgiris", Context{Temperature: 18, Humidity: 80, Rainfall: 1800}, true},
		{"  chennai ", Context{Temperature: 32, Humidity: 80, Rainfall: 1400}, true},
		{"VIRUDHUNAGAR", Context{Temperature: 34, Humidity: 50, Rainfall: 750}, true},
		{"Bengaluru", Context{Temperature: 30, Humidity: 70, Rainfall: 900}, false},
		{"", Context{Temperature: 30, Humidity: 70, Rainfall: 900}, false},
	}

	for _, tt := range tests {
		t.Run(tt.district, func(t *testing.T) {
			got, ok := n.Lookup(tt.district)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalsGetWeatherNeverFails(t *testing.T) {
	n, err := DefaultNormals()
	require.NoError(t, err)

	var p Provider = n
	for _, loc := range []string{"Thanjavur", "Atlantis"} {
		c, err := p.GetWeather(context.Background(), loc)
		require.NoError(t, err)
		require.NotNil(t, c)
	}
}

func TestParseNormalsErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", "districts: ["},
		{"wrong kind", "kind: FertilizerCatalog\n"},
		{"wrong api version", "apiVersion: v9\n"},
		{"bad default humidity", "default: {temperature: 30, humidity: 170, rainfall: 900}\n"},
		{"negative rainfall", "districts:\n  Salem: {temperature: 32, humidity: 55, rainfall: -1}\n"},
		{"duplicate after folding", "districts:\n  Salem: {humidity: 55}\n  salem: {humidity: 56}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNormals([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, cwerrors.IsCode(err, cwerrors.ErrCodeInternal))
		})
	}
}

func TestLoadNormals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "normals.yaml")
	data := "kind: WeatherNormals\ndefault: {temperature: 25, humidity: 60, rainfall: 500}\ndistricts:\n  Mysuru: {temperature: 24, humidity: 65, rainfall: 800}\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	n, err := LoadNormals(context.Background(), path)
	require.NoError(t, err)

	c, ok := n.Lookup("mysuru")
	assert.True(t, ok)
	assert.InDelta(t, 800, c.Rainfall, 1e-9)

	c, ok = n.Lookup("Madurai")
	assert.False(t, ok)
	assert.InDelta(t, 25, c.Temperature, 1e-9)

	_, err = LoadNormals(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
