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
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/agrosense/cropwise/pkg/defaults"
	cwerrors "github.com/agrosense/cropwise/pkg/errors"
	"github.com/agrosense/cropwise/pkg/serializer"
	"github.com/agrosense/cropwise/pkg/server"
	"github.com/agrosense/cropwise/pkg/soil"
)

const formContentType = "application/x-www-form-urlencoded"

// RecommendRequest is the body of POST /v1/recommend. District is accepted
// as an alias for Location.
type RecommendRequest struct {
	Location   string `json:"location,omitempty" yaml:"location,omitempty"`
	District   string `json:"district,omitempty" yaml:"district,omitempty"`
	SoilType   string `json:"soil_type,omitempty" yaml:"soil_type,omitempty"`
	soil.Input `yaml:",inline"`
}

// Request converts the wire form, requiring a location and n, p, k.
func (rr RecommendRequest) Request() (Request, error) {
	location := strings.TrimSpace(rr.Location)
	if location == "" {
		location = strings.TrimSpace(rr.District)
	}
	if location == "" {
		return Request{}, fmt.Errorf("location is required")
	}

	s, err := rr.Sample()
	if err != nil {
		return Request{}, err
	}

	soilType := strings.TrimSpace(rr.SoilType)
	if soilType == "" {
		soilType = soil.DefaultType
	}
	return Request{Location: location, Soil: s, SoilType: soilType}, nil
}

func requestFromValues(values url.Values) (Request, error) {
	in, err := soil.InputFromValues(values)
	if err != nil {
		return Request{}, err
	}
	rr := RecommendRequest{
		Location: values.Get("location"),
		District: values.Get("district"),
		SoilType: values.Get("soil_type"),
		Input:    in,
	}
	return rr.Request()
}

// ParseRequest reads a recommendation request from the query (GET), a form
// post or a JSON or YAML body.
func ParseRequest(r *http.Request) (Request, error) {
	if r.Method == http.MethodGet {
		return requestFromValues(r.URL.Query())
	}

	contentType := r.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(contentType); err == nil && mt == formContentType {
		if err := r.ParseForm(); err != nil {
			return Request{}, err
		}
		return requestFromValues(r.PostForm)
	}

	var rr RecommendRequest
	if err := serializer.DecodeBody(r.Body, contentType, &rr); err != nil {
		return Request{}, err
	}
	return rr.Request()
}

// HandleRecommend serves /v1/recommend. GET reads location (or district), n,
// p, k, ph and soil_type from the query; POST accepts the same fields as
// JSON, YAML or a form.
func (e *Engine) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodPost:
	default:
		w.Header().Set("Allow", "GET, POST")
		server.WriteError(w, r, http.StatusMethodNotAllowed, cwerrors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{
				"method":  r.Method,
				"allowed": []string{"GET", "POST"},
			})
		return
	}

	if r.Method == http.MethodPost {
		r.Body = http.MaxBytesReader(w, r.Body, defaults.MaxRequestBodyBytes)
		defer r.Body.Close()
	}

	req, err := ParseRequest(r)
	if err != nil {
		server.WriteError(w, r, http.StatusBadRequest, cwerrors.ErrCodeInvalidRequest,
			"Invalid recommendation request", false, map[string]any{
				"error": err.Error(),
			})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.RecommendHandlerTimeout)
	defer cancel()

	slog.Debug("recommendation request",
		"location", req.Location,
		"soil", req.Soil.String(),
		"soil_type", req.SoilType,
	)

	rec, err := e.RecommendRequest(ctx, req)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to compute recommendation", nil)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, rec)
}

// HandleCrops serves /v1/crops.
func (e *Engine) HandleCrops(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		server.WriteError(w, r, http.StatusMethodNotAllowed, cwerrors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{
				"method":  r.Method,
				"allowed": []string{"GET"},
			})
		return
	}

	serializer.RespondJSON(w, http.StatusOK, e.Catalog())
}
