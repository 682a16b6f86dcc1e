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

// Package market estimates crop profitability from mandi (wholesale market)
// modal prices.
//
// A Provider never fails: it answers every (crop, district) query with a
// Quote, degrading from an exact record to the crop's average across all
// districts and finally to DefaultPrice. The price maps to a trend and a
// profitability score with ScoreFromPrice:
//
//	price > 5000  -> up, 90
//	price > 2500  -> stable, 70
//	otherwise     -> down, 40
//
// # Providers
//
// TableProvider answers from an immutable PriceTable built from a price
// snapshot. Snapshots load from the embedded default CSV, a CSV at any
// serializer URI (path, http(s), s3://), or a SQL table through the sqlite
// or pgx drivers. Every price must be a positive number of rupees per
// quintal; a snapshot with any other price fails to load.
//
//	records, err := market.LoadSnapshot(ctx, market.Source{URI: "s3://prices/tn.csv"})
//	table := market.NewPriceTable(records)
//	p := market.NewTableProvider(table)
//
// Agmarknet queries the data.gov.in live price API behind a circuit breaker
// and falls back to a TableProvider when the upstream fails or has no record
// for the crop. Missing records do not count against the breaker.
package market
