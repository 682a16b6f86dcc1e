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

// Package header provides the common resource header for cropwise documents.
//
// Every document the API or CLI emits (recommendations, fertilizer plans,
// crop listings) starts with the same kind, apiVersion and metadata fields:
//
//	kind: Recommendation
//	apiVersion: cropwise.agrosense.io/v1alpha1
//	metadata:
//	  timestamp: "2025-12-30T10:30:00Z"
//	  version: v0.4.0
//
// # Usage
//
//	var h header.Header
//	h.Init(header.KindRecommendation, header.APIVersionV1Alpha1, version)
//
// Set adds further entries:
//
//	h.Set("crop", "Rice")
package header
