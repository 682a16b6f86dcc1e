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

package fertilizer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cwerrors "github.com/agrosense/cropwise/pkg/errors"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	again, err := DefaultCatalog()
	require.NoError(t, err)
	assert.Same(t, c, again, "embedded catalog must be parsed once")

	assert.Equal(t, []string{"cane", "cereal", "default", "fiber", "legume", "paddy"}, c.CategoryNames())
	assert.Equal(t, DefaultUnit, c.Unit)

	products := map[string]Nutrients{
		"Urea":         {N: 0.46},
		"DAP":          {N: 0.18, P: 0.46},
		"MOP":          {K: 0.60},
		"SSP":          {P: 0.16},
		"NPK 14-35-14": {N: 0.14, P: 0.35, K: 0.14},
	}
	for name, want := range products {
		p, ok := c.Product(name)
		require.True(t, ok, name)
		assert.Equal(t, want, p.Content, name)
	}
}

func TestCatalog_CategoryFor(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	tests := []struct {
		crop     string
		category string
		target   Nutrients
		stages   int
	}{
		{"Rice", "paddy", Nutrients{120, 60, 60}, 3},
		{"rice", "paddy", Nutrients{120, 60, 60}, 3},
		{"Maize", "cereal", Nutrients{120, 60, 60}, 3},
		{"Sugarcane", "cane", Nutrients{120, 60, 60}, 2},
		{"Chickpea", "legume", Nutrients{20, 40, 20}, 2},
		{"LENTIL", "legume", Nutrients{20, 40, 20}, 2},
		{"Pulses", "legume", Nutrients{20, 40, 20}, 2},
		{"Cotton", "fiber", Nutrients{90, 45, 45}, 3},
		{"Turmeric", "default", Nutrients{120, 60, 60}, 2},
		{"", "default", Nutrients{120, 60, 60}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.crop, func(t *testing.T) {
			cat := c.CategoryFor(tt.crop)
			require.NotNil(t, cat)
			assert.Equal(t, tt.category, cat.Name)
			assert.Equal(t, tt.target, cat.Target)
			assert.Len(t, c.Schedule(cat.Schedule), tt.stages)
		})
	}
}

func TestCatalog_ScheduleIsCopy(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	s := c.Schedule("paddy")
	s[0] = "mutated"
	assert.Equal(t, "Basal (At planting): 50% Urea, 100% DAP, 100% MOP", c.Schedule("paddy")[0])
}

const minimalCatalog = `
products:
  - name: N46
    content: { n: 0.46 }
  - name: P46
    content: { n: 0.18, p: 0.46 }
  - name: K60
    content: { k: 0.6 }
roles: { phosphorus: P46, nitrogen: N46, potassium: K60 }
maintenance: { product: Compost, quantity: 500, reason: maintenance }
schedules:
  only: ["Basal: all"]
defaultCategory: base
categories:
  - name: base
    target: { n: 10, p: 10, k: 10 }
    schedule: only
`

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantMsg string
	}{
		{"bad yaml", func(string) string { return "products: [" }, "failed to parse"},
		{"wrong kind", func(s string) string { return "kind: Other\n" + s }, "unexpected kind"},
		{"unknown role product", func(s string) string { return strings.Replace(s, "nitrogen: N46", "nitrogen: X", 1) }, "unknown product"},
		{"role without nutrient", func(s string) string { return strings.Replace(s, "potassium: K60", "potassium: N46", 1) }, "outside (0, 1]"},
		{"missing default", func(s string) string { return strings.Replace(s, "defaultCategory: base", "defaultCategory: none", 1) }, "default category"},
		{"unknown schedule", func(s string) string { return strings.Replace(s, "schedule: only", "schedule: nope", 1) }, "unknown schedule"},
		{"no maintenance", func(s string) string { return strings.Replace(s, "quantity: 500", "quantity: 0", 1) }, "maintenance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.mutate(minimalCatalog)))
			require.Error(t, err)
			assert.True(t, cwerrors.IsCode(err, cwerrors.ErrCodeInternal))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadCatalog_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalCatalog), 0o600))

	c, err := LoadCatalog(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "base", c.CategoryFor("Rice").Name)
	assert.Equal(t, DefaultUnit, c.Unit)

	_, err = LoadCatalog(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
