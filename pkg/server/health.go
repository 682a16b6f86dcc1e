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

package server

import (
	"net/http"
	"time"

	cwerrors "github.com/agrosense/cropwise/pkg/errors"
	"github.com/agrosense/cropwise/pkg/serializer"
)

// Phase is the lifecycle stage reported by /ready.
type Phase string

const (
	PhaseStarting Phase = "starting"
	PhaseWarming  Phase = "warming"
	PhaseReady    Phase = "ready"
	PhaseFailed   Phase = "failed"
	PhaseDraining Phase = "draining"
)

// ProbeResponse is the body of /health and /ready.
type ProbeResponse struct {
	Status    string    `json:"status" yaml:"status"`
	Service   string    `json:"service" yaml:"service"`
	Version   string    `json:"version" yaml:"version"`
	Uptime    string    `json:"uptime,omitempty" yaml:"uptime,omitempty"`
	Reason    string    `json:"reason,omitempty" yaml:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// handleHealth reports liveness. It stays 200 while the model warms up so
// orchestrators do not restart a pod that is still loading.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	serializer.RespondJSON(w, http.StatusOK, s.probe("alive", ""))
}

// handleReady reports whether API routes can serve traffic.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	phase, reason := s.state()
	status := http.StatusOK
	if phase != PhaseReady {
		status = http.StatusServiceUnavailable
	}
	serializer.RespondJSON(w, status, s.probe(string(phase), reason))
}

func (s *Server) probe(status, reason string) ProbeResponse {
	resp := ProbeResponse{
		Status:    status,
		Service:   s.config.Name,
		Version:   s.config.Version,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	}
	if up := s.uptime(); up > 0 {
		resp.Uptime = up.Round(time.Second).String()
	}
	return resp
}

// allowGet rejects anything but GET and HEAD with a structured 405.
func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	WriteError(w, r, http.StatusMethodNotAllowed, cwerrors.ErrCodeMethodNotAllowed,
		"Method not allowed", false, map[string]any{"method": r.Method})
	return false
}
