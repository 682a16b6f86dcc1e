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

// Package fertilizer turns a crop label and a soil sample into a fertilizer
// plan: product doses covering the nutrient deficit against the crop's
// category target, plus a staged application schedule.
//
// # Catalog
//
// Targets, product nutrient contents and schedules come from an immutable
// Catalog. The embedded catalog is parsed once on first use; deployments may
// replace it at startup with LoadCatalog from a file, http(s) or s3:// URI.
// Crops not listed in any category use the catalog's default category.
//
// # Allocation
//
// Deficits are max(0, target - soil) per nutrient. Doses are computed in a
// fixed order:
//
//  1. Phosphorus product (DAP). Its nitrogen content is credited against the
//     nitrogen deficit.
//  2. Nitrogen product (Urea) for the remaining nitrogen deficit.
//  3. Potassium product (MOP).
//
// Every quantity, the nitrogen credit and the reduced nitrogen deficit are
// rounded to 2 decimals as they are computed. When no dose results, a single
// maintenance dose of organic manure is returned.
//
//	p := fertilizer.NewPlanner()
//	plan, err := p.Recommend("Rice", soil.Sample{N: 20, P: 10, K: 30})
//	// plan.Doses: DAP 108.70, Urea 174.85, MOP (Muriate of Potash) 50.00
package fertilizer
