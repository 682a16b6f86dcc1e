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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	plansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cropwise_fertilizer_plans_total",
			Help: "Fertilizer plans computed, by crop category",
		},
		[]string{"category"},
	)

	catalogLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cropwise_fertilizer_catalog_loads_total",
			Help: "Fertilizer catalog loads by source (embedded or uri)",
		},
		[]string{"source"},
	)
)
