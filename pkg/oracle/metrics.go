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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	predictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cropwise_oracle_predictions_total",
			Help: "Model predictions by backend and outcome",
		},
		[]string{"backend", "outcome"},
	)

	predictionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cropwise_oracle_prediction_duration_seconds",
			Help:    "Model prediction latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend"},
	)

	modelLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cropwise_oracle_model_loaded",
			Help: "1 when a crop model is loaded, 0 otherwise",
		},
	)
)
