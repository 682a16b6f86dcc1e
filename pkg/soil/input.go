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

package soil

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Input is the wire form of a sample in request bodies and query strings.
// Nil fields were omitted by the caller.
type Input struct {
	N  *float64 `json:"n" yaml:"n"`
	P  *float64 `json:"p" yaml:"p"`
	K  *float64 `json:"k" yaml:"k"`
	PH *float64 `json:"ph,omitempty" yaml:"ph,omitempty"`
}

// Sample converts the input, requiring n, p and k and defaulting pH to DefaultPH.
// Range checks are left to Validate.
func (in Input) Sample() (Sample, error) {
	var missing []string
	if in.N == nil {
		missing = append(missing, "n")
	}
	if in.P == nil {
		missing = append(missing, "p")
	}
	if in.K == nil {
		missing = append(missing, "k")
	}
	if len(missing) > 0 {
		return Sample{}, fmt.Errorf("missing required soil values: %s", strings.Join(missing, ", "))
	}

	s := Sample{N: *in.N, P: *in.P, K: *in.K, PH: DefaultPH}
	if in.PH != nil {
		s.PH = *in.PH
	}
	return s, nil
}

// InputFromValues reads n, p, k and ph from URL query values.
func InputFromValues(values url.Values) (Input, error) {
	var in Input
	targets := []struct {
		key string
		dst **float64
	}{
		{"n", &in.N},
		{"p", &in.P},
		{"k", &in.K},
		{"ph", &in.PH},
	}
	for _, t := range targets {
		raw := strings.TrimSpace(values.Get(t.key))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Input{}, fmt.Errorf("invalid %s value %q: must be a number", t.key, raw)
		}
		*t.dst = &v
	}
	return in, nil
}
