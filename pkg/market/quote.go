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
)

// DefaultPrice is used when no record exists for a crop anywhere.
const DefaultPrice = 2000

const (
	upTrendThreshold     = 5000
	stableTrendThreshold = 2500
)

// Trend is the expected price direction.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendStable Trend = "stable"
	TrendDown   Trend = "down"
)

// PriceSource tags where a Quote's price came from.
type PriceSource string

const (
	SourceRecord  PriceSource = "record"
	SourceAverage PriceSource = "average"
	SourceDefault PriceSource = "default"
	SourceLive    PriceSource = "live"
)

// Quote is a price estimate for a crop at a location.
type Quote struct {
	Price              int         `json:"price" yaml:"price"`
	Trend              Trend       `json:"trend" yaml:"trend"`
	ProfitabilityScore float64     `json:"profitabilityScore" yaml:"profitabilityScore"`
	Source             PriceSource `json:"source" yaml:"source"`
}

// Provider quotes crop prices. Implementations must not fail; upstream
// errors degrade to a fallback price.
type Provider interface {
	GetPricePrediction(ctx context.Context, crop, location string) Quote
}

// ScoreFromPrice maps a modal price to a trend and profitability score.
func ScoreFromPrice(price int) (Trend, float64) {
	switch {
	case price > upTrendThreshold:
		return TrendUp, 90
	case price > stableTrendThreshold:
		return TrendStable, 70
	default:
		return TrendDown, 40
	}
}

// NewQuote builds a Quote for price with its derived trend and score.
func NewQuote(price int, source PriceSource) Quote {
	trend, score := ScoreFromPrice(price)
	return Quote{
		Price:              price,
		Trend:              trend,
		ProfitabilityScore: score,
		Source:             source,
	}
}
