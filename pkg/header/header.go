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
package header

import "time"

// APIVersionV1Alpha1 is the schema version of every document cropwise emits.
const APIVersionV1Alpha1 = "cropwise.agrosense.io/v1alpha1"

// Kind names a document type.
type Kind string

const (
	KindRecommendation Kind = "Recommendation"
	KindFertilizerPlan Kind = "FertilizerPlan"
	KindCropCatalog    Kind = "CropCatalog"
)

var kinds = map[Kind]struct{}{
	KindRecommendation: {},
	KindFertilizerPlan: {},
	KindCropCatalog:    {},
}

func (k Kind) String() string {
	return string(k)
}

// IsValid reports whether k is a document type cropwise produces.
func (k Kind) IsValid() bool {
	_, ok := kinds[k]
	return ok
}

// Metadata keys set by Init.
const (
	MetaTimestamp = "timestamp"
	MetaVersion   = "version"
)

// Header leads every document and is inlined into it.
type Header struct {
	Kind       Kind              `json:"kind,omitempty" yaml:"kind,omitempty"`
	APIVersion string            `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Init stamps kind and apiVersion and replaces Metadata with the UTC
// generation time and, when non-empty, the producing build version.
func (h *Header) Init(kind Kind, apiVersion, version string) {
	h.Kind = kind
	h.APIVersion = apiVersion
	h.Metadata = map[string]string{
		MetaTimestamp: time.Now().UTC().Format(time.RFC3339),
	}
	h.Set(MetaVersion, version)
}

// Set records a metadata entry. Empty values are skipped.
func (h *Header) Set(key, value string) {
	if value == "" {
		return
	}
	if h.Metadata == nil {
		h.Metadata = make(map[string]string)
	}
	h.Metadata[key] = value
}
