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

// Package oracle provides the crop suitability model behind a narrow
// interface.
//
// An Oracle reports its class labels and, for a feature vector, a probability
// per label:
//
//	f := oracle.NewFeatures(sample, weatherCtx)
//	probs, err := o.PredictProba(ctx, f)
//
// Features are always ordered [n, p, k, temperature, humidity, ph, rainfall].
//
// Two backends are available. NaiveBayes is a Gaussian naive Bayes model
// read from a YAML artifact; the default artifact is embedded and derived
// from published agronomic ranges for ten Tamil Nadu crops. Remote calls an
// external model server over HTTP behind a circuit breaker.
//
// A Handle owns the active model. It starts empty, is filled by Load at
// startup and emptied by Close; predictions against an empty handle fail with
// MODEL_UNAVAILABLE.
package oracle
