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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceTableLookup(t *testing.T) {
	table := NewPriceTable([]Record{
		{District: "Erode", Commodity: "Turmeric", Date: "2025-01-08", ModalPrice: 9900},
		{District: "Erode", Commodity: "Turmeric", Date: "2025-01-01", ModalPrice: 8000},
		{District: "Salem", Commodity: "Turmeric", Date: "2025-01-08", ModalPrice: 9000},
		{District: "Salem", Commodity: "Rice", Date: "2025-01-08", ModalPrice: 2301},
		{District: "Madurai", Commodity: "rice", Date: "2025-01-08", ModalPrice: 2300},
	})

	tests := []struct {
		name       string
		crop       string
		district   string
		wantPrice  int
		wantSource PriceSource
	}{
		{"exact record", "Turmeric", "Erode", 9900, SourceRecord},
		{"first record wins", "Turmeric", "Erode", 9900, SourceRecord},
		{"case insensitive", "turmeric", "  ERODE ", 9900, SourceRecord},
		{"average across districts", "Turmeric", "Chennai", 8966, SourceAverage},
		{"truncated average", "Rice", "Chennai", 2300, SourceAverage},
		{"unknown crop", "Millet", "Erode", DefaultPrice, SourceDefault},
		{"empty crop", "", "Erode", DefaultPrice, SourceDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, source := table.Lookup(tt.crop, tt.district)
			assert.Equal(t, tt.wantPrice, price)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}

func TestPriceTableMetadata(t *testing.T) {
	table := NewPriceTable([]Record{
		{District: "Erode", Commodity: "turmeric", ModalPrice: 9900},
		{District: "Salem", Commodity: "Rice", ModalPrice: 2300},
		{District: "Salem", Commodity: "", ModalPrice: 100},
	})

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []string{"Rice", "Turmeric"}, table.Crops())

	crops := table.Crops()
	crops[0] = "changed"
	assert.Equal(t, "Rice", table.Crops()[0])
}

func TestNilPriceTable(t *testing.T) {
	var table *PriceTable
	price, source := table.Lookup("Rice", "Erode")
	assert.Equal(t, DefaultPrice, price)
	assert.Equal(t, SourceDefault, source)
}

func TestDefaultTable(t *testing.T) {
	table, err := DefaultTable()
	require.NoError(t, err)
	assert.Equal(t, 370, table.Len())
	assert.Len(t, table.Crops(), 10)

	tests := []struct {
		crop       string
		district   string
		wantPrice  int
		wantSource PriceSource
	}{
		{"Turmeric", "Erode", 9900, SourceRecord},
		{"Rice", "Thanjavur", 2415, SourceRecord},
		{"Rice", "Atlantis", 2303, SourceAverage},
		{"Turmeric", "Atlantis", 9024, SourceAverage},
		{"Quinoa", "Erode", DefaultPrice, SourceDefault},
	}
	for _, tt := range tests {
		t.Run(tt.crop+"/"+tt.district, func(t *testing.T) {
			price, source := table.Lookup(tt.crop, tt.district)
			assert.Equal(t, tt.wantPrice, price)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}

func TestTableProviderQuotes(t *testing.T) {
	table, err := DefaultTable()
	require.NoError(t, err)
	p := NewTableProvider(table)

	q := p.GetPricePrediction(context.Background(), "Turmeric", "Erode")
	assert.Equal(t, Quote{Price: 9900, Trend: TrendUp, ProfitabilityScore: 90, Source: SourceRecord}, q)

	q = p.GetPricePrediction(context.Background(), "Rice", "Atlantis")
	assert.Equal(t, TrendDown, q.Trend)
	assert.Equal(t, SourceAverage, q.Source)
}

func TestTableProviderSkipsNonPositivePrices(t *testing.T) {
	p := NewTableProvider(NewPriceTable([]Record{
		{District: "Salem", Commodity: "Rice", Date: "2024-01-01", ModalPrice: -300},
		{District: "Salem", Commodity: "Maize", Date: "2024-01-01", ModalPrice: 0},
		{District: "Erode", Commodity: "Rice", Date: "2024-01-01", ModalPrice: 2300},
	}))

	q := p.GetPricePrediction(context.Background(), "Rice", "Salem")
	assert.Equal(t, Quote{Price: 2300, Trend: TrendDown, ProfitabilityScore: 40, Source: SourceAverage}, q)

	q = p.GetPricePrediction(context.Background(), "Maize", "Salem")
	assert.Equal(t, DefaultPrice, q.Price)
	assert.Equal(t, SourceDefault, q.Source)
}
