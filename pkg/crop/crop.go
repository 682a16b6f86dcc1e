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

// Package crop canonicalizes crop labels so the model, the price tables and
// the fertilizer catalog agree on spelling: "rice", " RICE " and "Rice" all
// become "Rice".
package crop

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize trims, collapses inner whitespace and title-cases a crop label.
func Normalize(label string) string {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return ""
	}
	// cases.Caser is stateful, so one is created per call.
	return cases.Title(language.English).String(strings.ToLower(strings.Join(fields, " ")))
}

// Equal reports whether two labels name the same crop.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Key returns the case-folded form used for map lookups.
func Key(label string) string {
	return strings.ToLower(Normalize(label))
}
