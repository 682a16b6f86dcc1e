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
	"log/slog"
	"math"

	"github.com/agrosense/cropwise/pkg/crop"
	cwerrors "github.com/agrosense/cropwise/pkg/errors"
	"github.com/agrosense/cropwise/pkg/header"
	"github.com/agrosense/cropwise/pkg/soil"
)

// DefaultUnit is the dose unit used when the catalog does not set one.
const DefaultUnit = "kg/acre"

const (
	reasonPhosphorus = "To supply Phosphorus"
	reasonNitrogen   = "To supply Nitrogen"
	reasonPotassium  = "To supply Potassium"
)

// Dose is a single product application.
type Dose struct {
	Product  string  `json:"product" yaml:"product"`
	Quantity float64 `json:"quantity" yaml:"quantity"`
	Unit     string  `json:"unit" yaml:"unit"`
	Reason   string  `json:"reason" yaml:"reason"`
}

// Plan is the fertilizer recommendation for one crop and soil sample.
type Plan struct {
	Crop     string    `json:"crop" yaml:"crop"`
	Category string    `json:"category" yaml:"category"`
	Target   Nutrients `json:"target" yaml:"target"`
	Deficit  Nutrients `json:"deficit" yaml:"deficit"`
	Doses    []Dose    `json:"inputs" yaml:"inputs"`
	Schedule []string  `json:"schedule" yaml:"schedule"`
}

// Document wraps a standalone plan with a resource header.
type Document struct {
	header.Header `json:",inline" yaml:",inline"`

	Soil soil.Sample `json:"soil" yaml:"soil"`
	Plan *Plan       `json:"fertilizerPlan" yaml:"fertilizerPlan"`
}

// NewDocument returns a FertilizerPlan document for plan.
func NewDocument(plan *Plan, s soil.Sample, version string) *Document {
	d := &Document{Soil: s, Plan: plan}
	d.Init(header.KindFertilizerPlan, header.APIVersionV1Alpha1, version)
	if plan != nil {
		d.Set("crop", plan.Crop)
	}
	return d
}

// Option configures a Planner.
type Option func(*Planner)

// WithCatalog replaces the embedded catalog.
func WithCatalog(c *Catalog) Option {
	return func(p *Planner) {
		if c != nil {
			p.catalog = c
		}
	}
}

// WithVersion sets the tool version stamped on plan documents.
func WithVersion(v string) Option {
	return func(p *Planner) {
		p.version = v
	}
}

// Planner computes fertilizer plans from a Catalog. It is safe for
// concurrent use.
type Planner struct {
	catalog *Catalog
	version string
}

// NewPlanner returns a Planner backed by the embedded catalog unless
// WithCatalog is given.
func NewPlanner(opts ...Option) (*Planner, error) {
	p := &Planner{}
	for _, opt := range opts {
		opt(p)
	}
	if p.catalog == nil {
		c, err := DefaultCatalog()
		if err != nil {
			return nil, err
		}
		p.catalog = c
	}
	return p, nil
}

// Catalog returns the catalog backing the planner.
func (p *Planner) Catalog() *Catalog {
	return p.catalog
}

// Recommend computes the plan for cropLabel given the soil's N, P and K.
// Negative nutrient values are rejected with INVALID_INPUT; pH is not used.
func (p *Planner) Recommend(cropLabel string, s soil.Sample) (*Plan, error) {
	if err := checkNutrients(s); err != nil {
		return nil, err
	}

	cat := p.catalog.CategoryFor(cropLabel)
	plan := &Plan{
		Crop:     crop.Normalize(cropLabel),
		Category: cat.Name,
		Target:   cat.Target,
		Deficit: Nutrients{
			N: math.Max(0, cat.Target.N-s.N),
			P: math.Max(0, cat.Target.P-s.P),
			K: math.Max(0, cat.Target.K-s.K),
		},
		Schedule: p.catalog.Schedule(cat.Schedule),
	}
	plan.Doses = p.allocate(plan.Deficit)

	plansTotal.WithLabelValues(cat.Name).Inc()
	slog.Debug("fertilizer plan computed",
		"crop", plan.Crop,
		"category", cat.Name,
		"doses", len(plan.Doses),
	)
	return plan, nil
}

func (p *Planner) allocate(deficit Nutrients) []Dose {
	c := p.catalog
	unit := c.Unit
	phosphorus, _ := c.Product(c.Roles.Phosphorus)
	nitrogen, _ := c.Product(c.Roles.Nitrogen)
	potassium, _ := c.Product(c.Roles.Potassium)

	doses := make([]Dose, 0, 3)
	remainingN := deficit.N

	if deficit.P > 0 {
		qty := round2(deficit.P / phosphorus.Content.P)
		doses = append(doses, Dose{Product: phosphorus.DisplayName(), Quantity: qty, Unit: unit, Reason: reasonPhosphorus})
		if phosphorus.Content.N > 0 {
			credit := round2(qty * phosphorus.Content.N)
			remainingN = round2(math.Max(0, remainingN-credit))
		}
	}

	if remainingN > 0 {
		qty := round2(remainingN / nitrogen.Content.N)
		doses = append(doses, Dose{Product: nitrogen.DisplayName(), Quantity: qty, Unit: unit, Reason: reasonNitrogen})
	}

	if deficit.K > 0 {
		qty := round2(deficit.K / potassium.Content.K)
		doses = append(doses, Dose{Product: potassium.DisplayName(), Quantity: qty, Unit: unit, Reason: reasonPotassium})
	}

	if len(doses) == 0 {
		m := c.Maintenance
		doses = append(doses, Dose{Product: m.Product, Quantity: m.Quantity, Unit: unit, Reason: m.Reason})
	}
	return doses
}

func checkNutrients(s soil.Sample) error {
	fields := []struct {
		name  string
		value float64
	}{{"n", s.N}, {"p", s.P}, {"k", s.K}}

	for _, f := range fields {
		if math.IsNaN(f.value) || f.value < 0 {
			return cwerrors.NewWithContext(cwerrors.ErrCodeInvalidInput,
				"soil "+f.name+" must be greater than or equal to 0",
				map[string]any{"field": f.name, "constraint": "gte=0", "value": f.value})
		}
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
