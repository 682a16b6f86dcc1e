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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recommendTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cropwise_recommend_total",
			Help: "Recommendations by outcome (success or error code)",
		},
		[]string{"outcome"},
	)

	recommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cropwise_recommend_duration_seconds",
			Help:    "Time to compute a recommendation",
			Buckets: prometheus.DefBuckets,
		},
	)

	weatherFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cropwise_recommend_weather_fallback_total",
			Help: "Recommendations computed with the fallback weather context",
		},
	)

	bestCropTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cropwise_recommend_best_crop_total",
			Help: "Best crop selections by crop",
		},
		[]string{"crop"},
	)
)
