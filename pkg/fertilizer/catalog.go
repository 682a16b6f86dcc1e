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
	"context"
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/agrosense/cropwise/pkg/crop"
	cwerrors "github.com/agrosense/cropwise/pkg/errors"
	"github.com/agrosense/cropwise/pkg/header"
	"github.com/agrosense/cropwise/pkg/serializer"
)

// CatalogKind is the document kind of a fertilizer catalog file.
const CatalogKind = "FertilizerCatalog"

//go:embed data/catalog.yaml
var embeddedCatalog []byte

var (
	defaultCatalogOnce sync.Once
	defaultCatalog     *Catalog
	defaultCatalogErr  error
)

// Nutrients holds elemental N, P and K amounts or fractions.
type Nutrients struct {
	N float64 `json:"n" yaml:"n"`
	P float64 `json:"p" yaml:"p"`
	K float64 `json:"k" yaml:"k"`
}

// Product is a fertilizer with its nutrient content as mass fractions.
type Product struct {
	Name    string    `json:"name" yaml:"name"`
	Label   string    `json:"label,omitempty" yaml:"label,omitempty"`
	Content Nutrients `json:"content" yaml:"content"`
}

// DisplayName is the label shown on doses, or Name when unset.
func (p Product) DisplayName() string {
	if p.Label != "" {
		return p.Label
	}
	return p.Name
}

// Roles names the product used to supply each nutrient.
type Roles struct {
	Phosphorus string `json:"phosphorus" yaml:"phosphorus"`
	Nitrogen   string `json:"nitrogen" yaml:"nitrogen"`
	Potassium  string `json:"potassium" yaml:"potassium"`
}

// Maintenance is the dose returned when the soil already meets the target.
type Maintenance struct {
	Product  string  `json:"product" yaml:"product"`
	Quantity float64 `json:"quantity" yaml:"quantity"`
	Reason   string  `json:"reason" yaml:"reason"`
}

// Category groups crops sharing a nutrient target and schedule.
type Category struct {
	Name     string    `json:"name" yaml:"name"`
	Crops    []string  `json:"crops,omitempty" yaml:"crops,omitempty"`
	Target   Nutrients `json:"target" yaml:"target"`
	Schedule string    `json:"schedule" yaml:"schedule"`
}

// Catalog is the fertilizer reference data. It is read-only once loaded.
type Catalog struct {
	Kind            string              `json:"kind" yaml:"kind"`
	APIVersion      string              `json:"apiVersion" yaml:"apiVersion"`
	Products        []Product           `json:"products" yaml:"products"`
	Roles           Roles               `json:"roles" yaml:"roles"`
	Maintenance     Maintenance         `json:"maintenance" yaml:"maintenance"`
	Unit            string              `json:"unit" yaml:"unit"`
	Schedules       map[string][]string `json:"schedules" yaml:"schedules"`
	DefaultCategory string              `json:"defaultCategory" yaml:"defaultCategory"`
	Categories      []Category          `json:"categories" yaml:"categories"`

	products   map[string]Product
	categories map[string]*Category
	byCrop     map[string]*Category
}

// DefaultCatalog returns the embedded catalog, parsed once per process.
func DefaultCatalog() (*Catalog, error) {
	defaultCatalogOnce.Do(func() {
		catalogLoads.WithLabelValues("embedded").Inc()
		defaultCatalog, defaultCatalogErr = ParseCatalog(embeddedCatalog)
	})
	return defaultCatalog, defaultCatalogErr
}

// LoadCatalog reads a catalog from a local path, file://, http(s) or s3:// URI.
func LoadCatalog(ctx context.Context, uri string) (*Catalog, error) {
	data, err := serializer.ReadURI(ctx, uri)
	if err != nil {
		return nil, cwerrors.WrapWithContext(cwerrors.ErrCodeInternal, "failed to read fertilizer catalog", err,
			map[string]any{"uri": uri})
	}
	catalogLoads.WithLabelValues("uri").Inc()
	return ParseCatalog(data)
}

// ParseCatalog decodes and indexes a YAML (or JSON) catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, cwerrors.Wrap(cwerrors.ErrCodeInternal, "failed to parse fertilizer catalog", err)
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) index() error {
	if c.Kind != "" && c.Kind != CatalogKind {
		return invalidCatalog("unexpected kind %q, expected %q", c.Kind, CatalogKind)
	}
	if c.APIVersion != "" && c.APIVersion != header.APIVersionV1Alpha1 {
		return invalidCatalog("unsupported apiVersion %q", c.APIVersion)
	}
	if c.Unit == "" {
		c.Unit = DefaultUnit
	}

	c.products = make(map[string]Product, len(c.Products))
	for _, p := range c.Products {
		if p.Name == "" {
			return invalidCatalog("product without name")
		}
		c.products[p.Name] = p
	}

	roles := []struct {
		role     string
		name     string
		fraction func(Nutrients) float64
	}{
		{"phosphorus", c.Roles.Phosphorus, func(n Nutrients) float64 { return n.P }},
		{"nitrogen", c.Roles.Nitrogen, func(n Nutrients) float64 { return n.N }},
		{"potassium", c.Roles.Potassium, func(n Nutrients) float64 { return n.K }},
	}
	for _, r := range roles {
		p, ok := c.products[r.name]
		if !ok {
			return invalidCatalog("%s role references unknown product %q", r.role, r.name)
		}
		if f := r.fraction(p.Content); f <= 0 || f > 1 {
			return invalidCatalog("%s product %q has content %v outside (0, 1]", r.role, p.Name, f)
		}
	}

	if c.Maintenance.Product == "" || c.Maintenance.Quantity <= 0 {
		return invalidCatalog("maintenance dose requires product and positive quantity")
	}

	c.categories = make(map[string]*Category, len(c.Categories))
	c.byCrop = make(map[string]*Category)
	for i := range c.Categories {
		cat := &c.Categories[i]
		if cat.Name == "" {
			return invalidCatalog("category without name")
		}
		if _, dup := c.categories[cat.Name]; dup {
			return invalidCatalog("duplicate category %q", cat.Name)
		}
		if _, ok := c.Schedules[cat.Schedule]; !ok {
			return invalidCatalog("category %q references unknown schedule %q", cat.Name, cat.Schedule)
		}
		if cat.Target.N < 0 || cat.Target.P < 0 || cat.Target.K < 0 {
			return invalidCatalog("category %q has a negative target", cat.Name)
		}
		c.categories[cat.Name] = cat
		for _, label := range cat.Crops {
			key := crop.Key(label)
			if prev, dup := c.byCrop[key]; dup {
				return invalidCatalog("crop %q listed in both %q and %q", label, prev.Name, cat.Name)
			}
			c.byCrop[key] = cat
		}
	}

	if _, ok := c.categories[c.DefaultCategory]; !ok {
		return invalidCatalog("default category %q is not defined", c.DefaultCategory)
	}
	return nil
}

func invalidCatalog(format string, args ...any) error {
	return cwerrors.New(cwerrors.ErrCodeInternal, "invalid fertilizer catalog: "+fmt.Sprintf(format, args...))
}

// CategoryFor returns the category listing label, or the default category.
// Matching is case-insensitive.
func (c *Catalog) CategoryFor(label string) *Category {
	if cat, ok := c.byCrop[crop.Key(label)]; ok {
		return cat
	}
	return c.categories[c.DefaultCategory]
}

// Schedule returns a copy of the named schedule's stages.
func (c *Catalog) Schedule(name string) []string {
	stages := c.Schedules[name]
	out := make([]string, len(stages))
	copy(out, stages)
	return out
}

// Product returns the named product.
func (c *Catalog) Product(name string) (Product, bool) {
	p, ok := c.products[name]
	return p, ok
}

// CategoryNames returns the defined category names, sorted.
func (c *Catalog) CategoryNames() []string {
	names := make([]string, 0, len(c.categories))
	for name := range c.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
