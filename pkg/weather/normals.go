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

package weather

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	cwerrors "github.com/agrosense/cropwise/pkg/errors"
	"github.com/agrosense/cropwise/pkg/header"
	"github.com/agrosense/cropwise/pkg/serializer"
)

// NormalsKind is the document kind of a weather normals file.
const NormalsKind = "WeatherNormals"

const normalsProvider = "normals"

//go:embed data/normals.yaml
var embeddedNormals []byte

var (
	defaultNormalsOnce sync.Once
	defaultNormals     *Normals
	defaultNormalsErr  error
)

// Normals is a static table of district weather averages. It is read-only
// once parsed and safe for concurrent use.
type Normals struct {
	Kind       string             `json:"kind" yaml:"kind"`
	APIVersion string             `json:"apiVersion" yaml:"apiVersion"`
	Default    Context            `json:"default" yaml:"default"`
	Entries    map[string]Context `json:"districts" yaml:"districts"`

	byKey map[string]Context
}

// DefaultNormals returns the embedded district table, parsed once per process.
func DefaultNormals() (*Normals, error) {
	defaultNormalsOnce.Do(func() {
		defaultNormals, defaultNormalsErr = ParseNormals(embeddedNormals)
	})
	return defaultNormals, defaultNormalsErr
}

// LoadNormals reads a normals table from a local path, file://, http(s) or s3:// URI.
func LoadNormals(ctx context.Context, uri string) (*Normals, error) {
	data, err := serializer.ReadURI(ctx, uri)
	if err != nil {
		return nil, cwerrors.WrapWithContext(cwerrors.ErrCodeInternal, "failed to read weather normals", err,
			map[string]any{"uri": uri})
	}
	return ParseNormals(data)
}

// ParseNormals decodes and indexes a YAML (or JSON) normals document.
func ParseNormals(data []byte) (*Normals, error) {
	var n Normals
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, cwerrors.Wrap(cwerrors.ErrCodeInternal, "failed to parse weather normals", err)
	}
	if n.Kind != "" && n.Kind != NormalsKind {
		return nil, invalidNormals("unexpected kind %q, expected %q", n.Kind, NormalsKind)
	}
	if n.APIVersion != "" && n.APIVersion != header.APIVersionV1Alpha1 {
		return nil, invalidNormals("unsupported apiVersion %q", n.APIVersion)
	}
	if err := checkContext("default", n.Default); err != nil {
		return nil, err
	}

	n.byKey = make(map[string]Context, len(n.Entries))
	for name, c := range n.Entries {
		if err := checkContext(name, c); err != nil {
			return nil, err
		}
		key := districtKey(name)
		if _, dup := n.byKey[key]; dup {
			return nil, invalidNormals("duplicate district %q", name)
		}
		n.byKey[key] = c
	}
	return &n, nil
}

func checkContext(name string, c Context) error {
	if c.Humidity < 0 || c.Humidity > 100 {
		return invalidNormals("%s: humidity %.1f outside [0, 100]", name, c.Humidity)
	}
	if c.Rainfall < 0 {
		return invalidNormals("%s: negative rainfall %.1f", name, c.Rainfall)
	}
	return nil
}

func invalidNormals(format string, args ...any) error {
	return cwerrors.New(cwerrors.ErrCodeInternal, "invalid weather normals: "+fmt.Sprintf(format, args...))
}

func districtKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Lookup returns the normals for district. ok is false when the district is
// not in the table, in which case the default entry is returned.
func (n *Normals) Lookup(district string) (c Context, ok bool) {
	c, ok = n.byKey[districtKey(district)]
	if !ok {
		return n.Default, false
	}
	return c, true
}

// Districts returns the known district names in sorted order.
func (n *Normals) Districts() []string {
	out := make([]string, 0, len(n.Entries))
	for name := range n.Entries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// GetWeather implements Provider. It never fails.
func (n *Normals) GetWeather(_ context.Context, location string) (*Context, error) {
	c, ok := n.Lookup(location)
	outcome := "known"
	if !ok {
		outcome = "default"
	}
	lookupsTotal.WithLabelValues(normalsProvider, outcome).Inc()
	return &c, nil
}
