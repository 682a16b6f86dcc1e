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
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/agrosense/cropwise/pkg/defaults"
	cwerrors "github.com/agrosense/cropwise/pkg/errors"
	"github.com/agrosense/cropwise/pkg/serializer"
	"github.com/agrosense/cropwise/pkg/server"
	"github.com/agrosense/cropwise/pkg/soil"
)

// PlanRequest is the body of POST /v1/fertilizer.
type PlanRequest struct {
	Crop       string `json:"crop" yaml:"crop"`
	soil.Input `yaml:",inline"`
}

// ParsePlanRequest reads a plan request from a body (POST) or query (GET).
func ParsePlanRequest(r *http.Request) (string, soil.Sample, error) {
	var req PlanRequest
	switch r.Method {
	case http.MethodGet:
		in, err := soil.InputFromValues(r.URL.Query())
		if err != nil {
			return "", soil.Sample{}, err
		}
		req = PlanRequest{Crop: r.URL.Query().Get("crop"), Input: in}
	default:
		if err := serializer.DecodeBody(r.Body, r.Header.Get("Content-Type"), &req); err != nil {
			return "", soil.Sample{}, err
		}
	}

	cropLabel := strings.TrimSpace(req.Crop)
	if cropLabel == "" {
		return "", soil.Sample{}, fmt.Errorf("crop is required")
	}
	s, err := req.Sample()
	if err != nil {
		return "", soil.Sample{}, err
	}
	return cropLabel, s, nil
}

// HandlePlan serves fertilizer plans. GET reads crop, n, p, k from the query;
// POST accepts a JSON or YAML body.
func (p *Planner) HandlePlan(w http.ResponseWriter, r *http.Request) {
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

	cropLabel, s, err := ParsePlanRequest(r)
	if err != nil {
		server.WriteError(w, r, http.StatusBadRequest, cwerrors.ErrCodeInvalidRequest,
			"Invalid fertilizer request", false, map[string]any{
				"error": err.Error(),
			})
		return
	}

	slog.Debug("fertilizer request", "crop", cropLabel, "soil", s.String())

	plan, err := p.Recommend(cropLabel, s)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to compute fertilizer plan", nil)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, NewDocument(plan, s, p.version))
}
