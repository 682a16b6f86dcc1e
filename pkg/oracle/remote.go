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
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/agrosense/cropwise/pkg/breaker"
	"github.com/agrosense/cropwise/pkg/defaults"
	cwerrors "github.com/agrosense/cropwise/pkg/errors"
	"github.com/agrosense/cropwise/pkg/serializer"
)

const (
	classesPath = "/v1/classes"
	predictPath = "/v1/predict"
)

// RemoteOption configures a Remote oracle.
type RemoteOption func(*Remote)

// WithRemoteReader replaces the HTTP client.
func WithRemoteReader(r *serializer.HTTPFetcher) RemoteOption {
	return func(o *Remote) {
		o.reader = r
	}
}

// WithRemoteBreaker overrides the breaker and rate limit settings.
func WithRemoteBreaker(cfg breaker.Config) RemoteOption {
	return func(o *Remote) {
		o.guard = breaker.NewGuard[map[string]float64](cfg)
	}
}

// WithRemoteTimeout bounds each prediction request.
func WithRemoteTimeout(d time.Duration) RemoteOption {
	return func(o *Remote) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// Remote is an Oracle served by an external model server exposing
// GET /v1/classes and POST /v1/predict.
type Remote struct {
	baseURL string
	timeout time.Duration
	classes []string
	reader  *serializer.HTTPFetcher
	guard   *breaker.Guard[map[string]float64]
}

type classesResponse struct {
	Classes []string `json:"classes"`
}

type predictRequest struct {
	Features     Features            `json:"features"`
	FeatureNames [NumFeatures]string `json:"featureNames"`
}

type predictResponse struct {
	Probabilities map[string]float64 `json:"probabilities"`
}

// NewRemote connects to the model server at baseURL and fetches its classes.
func NewRemote(ctx context.Context, baseURL string, opts ...RemoteOption) (*Remote, error) {
	if baseURL == "" {
		return nil, cwerrors.New(cwerrors.ErrCodeModelUnavailable, "remote model url is empty")
	}

	o := &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: defaults.ModelPredictTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.reader == nil {
		o.reader = serializer.NewHTTPFetcher(serializer.WithFetchTimeout(o.timeout))
	}
	if o.guard == nil {
		o.guard = breaker.NewGuard[map[string]float64](breaker.DefaultConfig("model-server"))
	}

	data, err := o.reader.Get(ctx, o.baseURL+classesPath)
	if err != nil {
		return nil, cwerrors.WrapWithContext(cwerrors.ErrCodeModelUnavailable, "failed to fetch model classes", err,
			map[string]any{"url": o.baseURL})
	}
	var resp classesResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, cwerrors.Wrap(cwerrors.ErrCodeModelUnavailable, "failed to decode model classes", err)
	}
	if len(resp.Classes) == 0 {
		return nil, cwerrors.New(cwerrors.ErrCodeModelUnavailable, "model server reported no classes")
	}
	o.classes = resp.Classes
	return o, nil
}

// Classes implements Oracle.
func (o *Remote) Classes() []string {
	out := make([]string, len(o.classes))
	copy(out, o.classes)
	return out
}

// PredictProba implements Oracle. Transport failures and malformed responses
// are MODEL_UNAVAILABLE.
func (o *Remote) PredictProba(ctx context.Context, f Features) (map[string]float64, error) {
	start := time.Now()
	probs, err := o.guard.Do(ctx, func(ctx context.Context) (map[string]float64, error) {
		return o.predict(ctx, f)
	})
	predictionDuration.WithLabelValues(BackendRemote).Observe(time.Since(start).Seconds())
	if err != nil {
		predictionsTotal.WithLabelValues(BackendRemote, "error").Inc()
		return nil, cwerrors.Wrap(cwerrors.ErrCodeModelUnavailable, "remote prediction failed", err)
	}
	predictionsTotal.WithLabelValues(BackendRemote, "ok").Inc()
	return probs, nil
}

func (o *Remote) predict(ctx context.Context, f Features) (map[string]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	data, err := o.reader.PostJSON(ctx, o.baseURL+predictPath, predictRequest{Features: f, FeatureNames: FeatureNames})
	if err != nil {
		return nil, err
	}

	var resp predictResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode prediction: %w", err)
	}
	if resp.Probabilities == nil {
		return nil, errors.New("prediction has no probabilities")
	}
	for label, p := range resp.Probabilities {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return nil, fmt.Errorf("probability %v for %q outside [0, 1]", p, label)
		}
	}
	return resp.Probabilities, nil
}
