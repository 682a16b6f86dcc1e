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

// Package recommender fuses crop suitability predictions with market
// profitability into a ranked crop recommendation and fertilizer plan.
//
// # Overview
//
// An Engine combines four collaborators:
//   - an oracle.Oracle that scores every known crop for a feature vector
//   - a weather.Provider that supplies temperature, humidity and rainfall
//   - a market.Provider that quotes price, trend and profitability per crop
//   - a fertilizer.Planner that turns the best crop and soil into doses
//
// # Algorithm
//
// Recommend runs these steps for one soil sample and location:
//
//  1. Validate the sample (N, P, K >= 0; pH in [0, 14]) or fail with INVALID_INPUT.
//  2. Fetch weather. Any provider failure is replaced by weather.Fallback,
//     logged at WARN with code UPSTREAM_DATA_UNAVAILABLE and counted.
//  3. Predict class probabilities. No loaded model fails with MODEL_UNAVAILABLE.
//  4. Keep the three most probable crops. Ties keep the model's class order;
//     classes missing from the prediction count as probability zero.
//  5. Quote each candidate. Quotes never fail.
//  6. Score each candidate: confidence*0.7 + (profitability/100)*0.3.
//  7. Stable sort by score, highest first.
//  8. The first crop is the best crop.
//  9. Plan fertilizer for the best crop.
//  10. Summarize the result in a one line analysis.
//
// Identical inputs and provider answers give identical results.
//
// # Usage
//
//	e, err := recommender.New(
//	    recommender.WithOracle(model),
//	    recommender.WithWeatherProvider(normals),
//	    recommender.WithVersion("v1.0.0"),
//	)
//	rec, err := e.Recommend(ctx, soil.Sample{N: 90, P: 42, K: 43, PH: 6.5}, "Madurai")
//
// Collaborators left unset default to the static implementations: district
// weather normals, the embedded price snapshot and the embedded fertilizer
// catalog. There is no default model.
//
// Build wires an Engine from a config.Config, loading reference data
// concurrently. The model is loaded separately through Engine.Model so the
// API server can report readiness once it is available.
//
// # HTTP
//
// HandleRecommend serves /v1/recommend and HandleCrops serves /v1/crops.
//
// # Observability
//
// Prometheus metrics:
//   - cropwise_recommend_total{outcome}
//   - cropwise_recommend_duration_seconds
//   - cropwise_recommend_weather_fallback_total
//   - cropwise_recommend_best_crop_total{crop}
package recommender
