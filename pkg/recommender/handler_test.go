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

package recommender

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrosense/cropwise/pkg/header"
	"github.com/agrosense/cropwise/pkg/weather"
)

func newHandlerEngine(t *testing.T) *Engine {
	t.Helper()
	o := &fakeOracle{
		classes: []string{"Cotton", "Maize", "Rice"},
		probs:   map[string]float64{"Cotton": 0.3, "Maize": 0.5, "Rice": 0.2},
	}
	wc := weather.Context{Temperature: 31, Humidity: 75, Rainfall: 1100}
	return newTestEngine(t, o, fakeWeather{ctx: &wc}, fakeMarket{"Cotton": 7200})
}

func TestHandleRecommend(t *testing.T) {
	form := url.Values{"district": {"Erode"}, "n": {"90"}, "p": {"42"}, "k": {"43"}, "soil_type": {"Red"}}

	tests := []struct {
		name         string
		method       string
		target       string
		body         string
		contentType  string
		wantStatus   int
		wantCode     string
		wantLocation string
		wantSoilType string
		wantPH       float64
	}{
		{
			name:         "get query",
			method:       http.MethodGet,
			target:       "/v1/recommend?location=Thanjavur&n=90&p=42&k=43&ph=7",
			wantStatus:   http.StatusOK,
			wantLocation: "Thanjavur",
			wantSoilType: "Loamy",
			wantPH:       7,
		},
		{
			name:         "post json with district",
			method:       http.MethodPost,
			target:       "/v1/recommend",
			body:         `{"district":"Salem","n":90,"p":42,"k":43,"soil_type":"Clay"}`,
			contentType:  "application/json",
			wantStatus:   http.StatusOK,
			wantLocation: "Salem",
			wantSoilType: "Clay",
			wantPH:       6.5,
		},
		{
			name:         "post yaml",
			method:       http.MethodPost,
			target:       "/v1/recommend",
			body:         "location: Madurai\nn: 90\np: 42\nk: 43\nph: 6\n",
			contentType:  "application/x-yaml",
			wantStatus:   http.StatusOK,
			wantLocation: "Madurai",
			wantSoilType: "Loamy",
			wantPH:       6,
		},
		{
			name:         "post form",
			method:       http.MethodPost,
			target:       "/v1/recommend",
			body:         form.Encode(),
			contentType:  "application/x-www-form-urlencoded",
			wantStatus:   http.StatusOK,
			wantLocation: "Erode",
			wantSoilType: "Red",
			wantPH:       6.5,
		},
		{
			name:       "missing location",
			method:     http.MethodGet,
			target:     "/v1/recommend?n=90&p=42&k=43",
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name:       "non numeric nutrient",
			method:     http.MethodGet,
			target:     "/v1/recommend?location=Erode&n=lots&p=42&k=43",
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name:        "malformed json",
			method:      http.MethodPost,
			target:      "/v1/recommend",
			body:        `{"location":`,
			contentType: "application/json",
			wantStatus:  http.StatusBadRequest,
			wantCode:    "INVALID_REQUEST",
		},
		{
			name:        "ph out of range",
			method:      http.MethodPost,
			target:      "/v1/recommend",
			body:        `{"location":"Erode","n":90,"p":42,"k":43,"ph":15}`,
			contentType: "application/json",
			wantStatus:  http.StatusBadRequest,
			wantCode:    "INVALID_INPUT",
		},
		{
			name:       "put not allowed",
			method:     http.MethodPut,
			target:     "/v1/recommend",
			wantStatus: http.StatusMethodNotAllowed,
			wantCode:   "METHOD_NOT_ALLOWED",
		},
	}

	e := newHandlerEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()

			e.HandleRecommend(w, req)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantCode != "" {
				var resp struct {
					Code string `json:"code"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantCode, resp.Code)
				return
			}

			var rec Recommendation
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
			assert.Equal(t, header.KindRecommendation, rec.Kind)
			assert.Equal(t, tt.wantLocation, rec.Inputs.Location)
			assert.Equal(t, tt.wantSoilType, rec.Inputs.SoilType)
			assert.Equal(t, tt.wantPH, rec.Inputs.Soil.PH)
			assert.Equal(t, "Cotton", rec.BestCrop)
			assert.Len(t, rec.TopRecommendations, TopN)
			assert.NotEmpty(t, rec.Analysis)
			require.NotNil(t, rec.FertilizerPlan)
		})
	}
}

func TestHandleRecommendResponseShape(t *testing.T) {
	e := newHandlerEngine(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/recommend?location=Erode&n=90&p=42&k=43", nil)
	w := httptest.NewRecorder()

	e.HandleRecommend(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	for _, key := range []string{"kind", "apiVersion", "inputs", "weatherContext", "topRecommendations", "bestCrop", "fertilizerPlan", "analysis"} {
		assert.Contains(t, raw, key)
	}

	top := raw["topRecommendations"].([]any)[0].(map[string]any)
	for _, key := range []string{"crop", "confidence", "marketPrice", "priceTrend", "marketScore", "finalScore"} {
		assert.Contains(t, top, key)
	}
	assert.NotContains(t, top, "Probability")
	assert.NotContains(t, top, "Score")
}

func TestHandleRecommendModelUnavailable(t *testing.T) {
	e, err := New(WithWeatherProvider(fakeWeather{}), WithMarketProvider(fakeMarket{}))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/recommend?location=Erode&n=90&p=42&k=43", nil)
	w := httptest.NewRecorder()
	e.HandleRecommend(w, req)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp struct {
		Code      string `json:"code"`
		Retryable bool   `json:"retryable"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "MODEL_UNAVAILABLE", resp.Code)
	assert.True(t, resp.Retryable)
}

func TestHandleCrops(t *testing.T) {
	e := newHandlerEngine(t)

	w := httptest.NewRecorder()
	e.HandleCrops(w, httptest.NewRequest(http.MethodGet, "/v1/crops", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var c CropCatalog
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &c))
	assert.Equal(t, header.KindCropCatalog, c.Kind)
	assert.Equal(t, []string{"Cotton", "Maize", "Rice"}, c.Crops)
	assert.NotEmpty(t, c.FertilizerCategories)

	w = httptest.NewRecorder()
	e.HandleCrops(w, httptest.NewRequest(http.MethodPost, "/v1/crops", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "GET", w.Header().Get("Allow"))
}
