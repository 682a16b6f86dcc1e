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

package market

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	quotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cropwise_market_quotes_total",
			Help: "Market quotes served, by price source (record, average, default, live)",
		},
		[]string{"source"},
	)

	upstreamFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cropwise_market_upstream_failures_total",
			Help: "Live market price lookups that fell back to the snapshot",
		},
		[]string{"provider"},
	)

	snapshotRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cropwise_market_snapshot_records",
			Help: "Number of records in the most recently loaded price snapshot",
		},
	)
)
