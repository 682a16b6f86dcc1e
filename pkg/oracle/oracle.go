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
	"fmt"

	"github.com/agrosense/cropwise/pkg/soil"
	"github.com/agrosense/cropwise/pkg/weather"
)

// FeatureNames is the canonical feature order.
var FeatureNames = [NumFeatures]string{"n", "p", "k", "temperature", "humidity", "ph", "rainfall"}

// NumFeatures is the length of a feature vector.
const NumFeatures = 7

// Features is one model input vector in FeatureNames order.
type Features [NumFeatures]float64

// NewFeatures builds the feature vector for a soil sample under the given weather.
func NewFeatures(s soil.Sample, w weather.Context) Features {
	return Features{s.N, s.P, s.K, w.Temperature, w.Humidity, s.PH, w.Rainfall}
}

// String implements fmt.Stringer.
func (f Features) String() string {
	return fmt.Sprintf("n=%g p=%g k=%g temperature=%g humidity=%g ph=%g rainfall=%g",
		f[0], f[1], f[2], f[3], f[4], f[5], f[6])
}

// Oracle predicts crop suitability.
type Oracle interface {
	// Classes returns the labels the model can predict, in a fixed order.
	Classes() []string

	// PredictProba returns a probability per label. Labels may be omitted,
	// meaning zero probability.
	PredictProba(ctx context.Context, f Features) (map[string]float64, error)
}
