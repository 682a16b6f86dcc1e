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
	_ "embed"
	"fmt"
	"math"
	"sync"

	"gopkg.in/yaml.v3"

	cwerrors "github.com/agrosense/cropwise/pkg/errors"
	"github.com/agrosense/cropwise/pkg/header"
	"github.com/agrosense/cropwise/pkg/serializer"
	"github.com/agrosense/cropwise/pkg/version"
)

const (
	// ModelKind is the document kind of a model artifact.
	ModelKind = "CropModel"

	// BackendGaussianNB identifies the naive Bayes artifact format.
	BackendGaussianNB = "gaussian-nb"
)

// SupportedFormatVersion is the newest model artifact format this build reads.
var SupportedFormatVersion = version.MustParseVersion("1.0")

//go:embed data/model.yaml
var embeddedModel []byte

var (
	defaultModelOnce sync.Once
	defaultModel     *NaiveBayes
	defaultModelErr  error
)

// ClassStats holds the per-feature Gaussian parameters of one label.
type ClassStats struct {
	Label string               `json:"label" yaml:"label"`
	Prior float64              `json:"prior" yaml:"prior"`
	Mean  [NumFeatures]float64 `json:"mean" yaml:"mean"`
	Std   [NumFeatures]float64 `json:"std" yaml:"std"`
}

// Model is the serialized form of a naive Bayes model.
type Model struct {
	Kind          string       `json:"kind" yaml:"kind"`
	APIVersion    string       `json:"apiVersion" yaml:"apiVersion"`
	FormatVersion string       `json:"formatVersion" yaml:"formatVersion"`
	Backend       string       `json:"backend" yaml:"backend"`
	Features      []string     `json:"features" yaml:"features"`
	Classes       []ClassStats `json:"classes" yaml:"classes"`
}

// NaiveBayes is a Gaussian naive Bayes classifier. It is immutable and safe
// for concurrent use.
type NaiveBayes struct {
	classes  []string
	logPrior []float64
	mean     [][NumFeatures]float64
	variance [][NumFeatures]float64
	logNorm  []float64
}

// DefaultModel returns the embedded model, parsed once per process.
func DefaultModel() (*NaiveBayes, error) {
	defaultModelOnce.Do(func() {
		defaultModel, defaultModelErr = ParseModel(embeddedModel)
	})
	return defaultModel, defaultModelErr
}

// LoadModel reads a model artifact from a local path, file://, http(s) or s3:// URI.
func LoadModel(ctx context.Context, uri string) (*NaiveBayes, error) {
	data, err := serializer.ReadURI(ctx, uri)
	if err != nil {
		return nil, cwerrors.WrapWithContext(cwerrors.ErrCodeModelUnavailable, "failed to read model artifact", err,
			map[string]any{"uri": uri})
	}
	return ParseModel(data)
}

// ParseModel decodes and validates a YAML (or JSON) model artifact.
func ParseModel(data []byte) (*NaiveBayes, error) {
	var m Model
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, cwerrors.Wrap(cwerrors.ErrCodeModelUnavailable, "failed to parse model artifact", err)
	}
	return NewNaiveBayes(m)
}

// NewNaiveBayes validates m and precomputes the per-class terms.
func NewNaiveBayes(m Model) (*NaiveBayes, error) {
	if m.Kind != ModelKind {
		return nil, invalidModel("unexpected kind %q, expected %q", m.Kind, ModelKind)
	}
	if m.APIVersion != "" && m.APIVersion != header.APIVersionV1Alpha1 {
		return nil, invalidModel("unsupported apiVersion %q", m.APIVersion)
	}
	v, err := version.ParseVersion(m.FormatVersion)
	if err != nil {
		return nil, invalidModel("formatVersion: %v", err)
	}
	if !v.CompatibleWith(SupportedFormatVersion) {
		return nil, invalidModel("formatVersion %s is not readable by this build (supports %s)", v, SupportedFormatVersion)
	}
	if m.Backend != BackendGaussianNB {
		return nil, invalidModel("unsupported backend %q", m.Backend)
	}
	if len(m.Features) != NumFeatures {
		return nil, invalidModel("expected %d features, got %d", NumFeatures, len(m.Features))
	}
	for i, name := range m.Features {
		if name != FeatureNames[i] {
			return nil, invalidModel("feature %d is %q, expected %q", i, name, FeatureNames[i])
		}
	}
	if len(m.Classes) == 0 {
		return nil, invalidModel("no classes")
	}

	nb := &NaiveBayes{
		classes:  make([]string, 0, len(m.Classes)),
		logPrior: make([]float64, 0, len(m.Classes)),
		mean:     make([][NumFeatures]float64, 0, len(m.Classes)),
		variance: make([][NumFeatures]float64, 0, len(m.Classes)),
		logNorm:  make([]float64, 0, len(m.Classes)),
	}
	seen := make(map[string]bool, len(m.Classes))
	for _, c := range m.Classes {
		if c.Label == "" {
			return nil, invalidModel("class without label")
		}
		if seen[c.Label] {
			return nil, invalidModel("duplicate class %q", c.Label)
		}
		seen[c.Label] = true
		if !(c.Prior > 0) {
			return nil, invalidModel("class %q: prior must be positive", c.Label)
		}

		var variance [NumFeatures]float64
		norm := 0.0
		for i, s := range c.Std {
			if !(s > 0) || math.IsInf(s, 0) {
				return nil, invalidModel("class %q: std of %s must be positive", c.Label, FeatureNames[i])
			}
			variance[i] = s * s
			norm -= 0.5 * math.Log(2*math.Pi*variance[i])
		}

		nb.classes = append(nb.classes, c.Label)
		nb.logPrior = append(nb.logPrior, math.Log(c.Prior))
		nb.mean = append(nb.mean, c.Mean)
		nb.variance = append(nb.variance, variance)
		nb.logNorm = append(nb.logNorm, norm)
	}
	return nb, nil
}

func invalidModel(format string, args ...any) error {
	return cwerrors.New(cwerrors.ErrCodeModelUnavailable, "invalid model artifact: "+fmt.Sprintf(format, args...))
}

// Classes implements Oracle.
func (nb *NaiveBayes) Classes() []string {
	out := make([]string, len(nb.classes))
	copy(out, nb.classes)
	return out
}

// PredictProba implements Oracle. Priors are renormalized, so they need not
// sum to one.
func (nb *NaiveBayes) PredictProba(_ context.Context, f Features) (map[string]float64, error) {
	for i, x := range f {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, cwerrors.NewWithContext(cwerrors.ErrCodeInvalidInput, "feature is not a finite number",
				map[string]any{"feature": FeatureNames[i]})
		}
	}

	joint := make([]float64, len(nb.classes))
	peak := math.Inf(-1)
	for c := range nb.classes {
		ll := nb.logPrior[c] + nb.logNorm[c]
		for i, x := range f {
			d := x - nb.mean[c][i]
			ll -= d * d / (2 * nb.variance[c][i])
		}
		joint[c] = ll
		if ll > peak {
			peak = ll
		}
	}

	// log-sum-exp keeps far out-of-range inputs from underflowing every class
	sum := 0.0
	for c := range joint {
		joint[c] = math.Exp(joint[c] - peak)
		sum += joint[c]
	}

	probs := make(map[string]float64, len(nb.classes))
	for c, label := range nb.classes {
		probs[label] = joint[c] / sum
	}
	return probs, nil
}
