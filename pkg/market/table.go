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

package market

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/agrosense/cropwise/pkg/crop"
)

// Record is one modal price observation.
type Record struct {
	District   string `json:"district" yaml:"district"`
	Commodity  string `json:"commodity" yaml:"commodity"`
	Date       string `json:"date" yaml:"date"`
	ModalPrice int    `json:"modalPrice" yaml:"modalPrice"`
}

// PriceTable is an immutable index over a price snapshot.
type PriceTable struct {
	exact    map[string]int // district|crop -> first observed price
	averages map[string]int // crop -> truncated mean over all records
	crops    []string
	records  int
}

// NewPriceTable indexes records. When a (district, crop) pair repeats, the
// first record wins. District and crop matching is case-insensitive.
// Records without a crop or with a non-positive price are skipped.
func NewPriceTable(records []Record) *PriceTable {
	t := &PriceTable{
		exact:    make(map[string]int, len(records)),
		averages: make(map[string]int),
		records:  len(records),
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	names := make(map[string]string)

	for _, r := range records {
		cropKey := crop.Key(r.Commodity)
		if cropKey == "" || r.ModalPrice <= 0 {
			continue
		}
		key := pairKey(r.District, r.Commodity)
		if _, seen := t.exact[key]; !seen {
			t.exact[key] = r.ModalPrice
		}
		sums[cropKey] += float64(r.ModalPrice)
		counts[cropKey]++
		if _, ok := names[cropKey]; !ok {
			names[cropKey] = crop.Normalize(r.Commodity)
		}
	}

	for key, sum := range sums {
		t.averages[key] = int(sum / float64(counts[key]))
		t.crops = append(t.crops, names[key])
	}
	sort.Strings(t.crops)
	return t
}

func districtKey(district string) string {
	return strings.ToLower(strings.Join(strings.Fields(district), " "))
}

func pairKey(district, commodity string) string {
	return districtKey(district) + "|" + crop.Key(commodity)
}

// Lookup returns the price for crop at district: the exact record, else the
// crop's average across districts, else DefaultPrice.
func (t *PriceTable) Lookup(cropLabel, district string) (int, PriceSource) {
	if t == nil {
		return DefaultPrice, SourceDefault
	}
	if p, ok := t.exact[pairKey(district, cropLabel)]; ok {
		return p, SourceRecord
	}
	if p, ok := t.averages[crop.Key(cropLabel)]; ok {
		return p, SourceAverage
	}
	return DefaultPrice, SourceDefault
}

// Crops returns the distinct crops in the snapshot, sorted.
func (t *PriceTable) Crops() []string {
	out := make([]string, len(t.crops))
	copy(out, t.crops)
	return out
}

// Len returns the number of records indexed.
func (t *PriceTable) Len() int {
	return t.records
}

// TableProvider answers quotes from a PriceTable.
type TableProvider struct {
	table *PriceTable
}

// NewTableProvider returns a provider over table.
func NewTableProvider(table *PriceTable) *TableProvider {
	return &TableProvider{table: table}
}

// GetPricePrediction implements Provider.
func (p *TableProvider) GetPricePrediction(_ context.Context, cropLabel, location string) Quote {
	price, source := p.table.Lookup(cropLabel, location)
	quotesTotal.WithLabelValues(string(source)).Inc()
	if source == SourceDefault {
		slog.Debug("no price data for crop, using default price",
			"crop", cropLabel,
			"location", location,
			"price", price,
		)
	}
	return NewQuote(price, source)
}
