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

package oracle

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/agrosense/cropwise/pkg/defaults"
	cwerrors "github.com/agrosense/cropwise/pkg/errors"
)

// Backend names accepted by Open.
const (
	BackendBayes  = "bayes"
	BackendRemote = "remote"
)

// Config selects and locates a model.
type Config struct {
	// Backend is BackendBayes or BackendRemote. Empty means BackendBayes.
	Backend string

	// URI of a naive Bayes artifact. Empty means the embedded model.
	URI string

	// RemoteURL is the model server base URL for BackendRemote.
	RemoteURL string

	// Timeout bounds each remote prediction.
	Timeout time.Duration
}

// Open creates the Oracle described by cfg.
func Open(ctx context.Context, cfg Config) (Oracle, error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.ModelLoadTimeout)
	defer cancel()

	switch cfg.Backend {
	case "", BackendBayes:
		load := DefaultModel
		if cfg.URI != "" {
			load = func() (*NaiveBayes, error) { return LoadModel(ctx, cfg.URI) }
		}
		nb, err := load()
		if err != nil {
			return nil, err
		}
		return nb, nil
	case BackendRemote:
		r, err := NewRemote(ctx, cfg.RemoteURL, WithRemoteTimeout(cfg.Timeout))
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, cwerrors.NewWithContext(cwerrors.ErrCodeModelUnavailable, "unknown model backend",
			map[string]any{"backend": cfg.Backend, "supported": []string{BackendBayes, BackendRemote}})
	}
}

// Handle holds the active model. The zero value is an empty handle.
type Handle struct {
	mu      sync.RWMutex
	model   Oracle
	backend string
}

// NewHandle returns an empty handle.
func NewHandle() *Handle {
	return &Handle{}
}

// Load opens the model described by cfg and makes it active, closing any
// previous model. On error the previous model stays active.
func (h *Handle) Load(ctx context.Context, cfg Config) error {
	o, err := Open(ctx, cfg)
	if err != nil {
		return err
	}

	backend := cfg.Backend
	if backend == "" {
		backend = BackendBayes
	}
	h.Set(o, backend)
	slog.Info("crop model loaded", "backend", backend, "uri", cfg.URI, "classes", len(o.Classes()))
	return nil
}

// Set makes o the active model under the given backend label.
func (h *Handle) Set(o Oracle, backend string) {
	h.mu.Lock()
	prev := h.model
	h.model = o
	h.backend = backend
	h.mu.Unlock()

	closeModel(prev)
	if o != nil {
		modelLoaded.Set(1)
	} else {
		modelLoaded.Set(0)
	}
}

// Backend names the active model backend, or "" while unloaded.
func (h *Handle) Backend() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.backend
}

// Close unloads the model. Later predictions fail with MODEL_UNAVAILABLE.
func (h *Handle) Close() error {
	h.Set(nil, "")
	return nil
}

// Loaded reports whether a model is active.
func (h *Handle) Loaded() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.model != nil
}

// Ready returns MODEL_UNAVAILABLE when no model is active.
func (h *Handle) Ready(context.Context) error {
	if !h.Loaded() {
		return unloaded()
	}
	return nil
}

// Classes implements Oracle. It is empty while unloaded.
func (h *Handle) Classes() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.model == nil {
		return nil
	}
	return h.model.Classes()
}

// Prediction is one model answer together with the class order and backend
// of the model that produced it.
type Prediction struct {
	Backend string
	Classes []string
	Probs   map[string]float64
}

// Predict runs f through the active model. Classes and Backend describe the
// same model as Probs, even when another model is set concurrently.
func (h *Handle) Predict(ctx context.Context, f Features) (*Prediction, error) {
	model, backend := h.active()
	probs, err := predict(ctx, model, backend, f)
	if err != nil {
		return nil, err
	}
	return &Prediction{Backend: backend, Classes: model.Classes(), Probs: probs}, nil
}

// PredictProba implements Oracle.
func (h *Handle) PredictProba(ctx context.Context, f Features) (map[string]float64, error) {
	model, backend := h.active()
	return predict(ctx, model, backend, f)
}

func (h *Handle) active() (Oracle, string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.model, h.backend
}

func predict(ctx context.Context, model Oracle, backend string, f Features) (map[string]float64, error) {
	if model == nil {
		predictionsTotal.WithLabelValues("none", "unloaded").Inc()
		return nil, unloaded()
	}
	if backend == BackendRemote {
		return model.PredictProba(ctx, f)
	}

	start := time.Now()
	probs, err := model.PredictProba(ctx, f)
	predictionDuration.WithLabelValues(backend).Observe(time.Since(start).Seconds())
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	predictionsTotal.WithLabelValues(backend, outcome).Inc()
	return probs, err
}

func unloaded() error {
	return cwerrors.New(cwerrors.ErrCodeModelUnavailable, "crop model is not loaded")
}

func closeModel(o Oracle) {
	c, ok := o.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		slog.Warn("failed to close crop model", "error", err)
	}
}
