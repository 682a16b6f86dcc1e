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

// Package soil defines the soil nutrient sample accepted by the recommender
// and fertilizer planner, and validates it.
//
// A Sample carries nitrogen, phosphorus and potassium readings in kg/ha and
// a pH value. Validation happens once at the entry of each operation:
//
//	s := soil.Sample{N: 90, P: 42, K: 43, PH: soil.DefaultPH}
//	if err := s.Validate(); err != nil {
//	    // err is a *errors.StructuredError with code INVALID_INPUT
//	}
package soil
