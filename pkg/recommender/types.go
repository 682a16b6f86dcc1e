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

package recommender

import (
	"github.com/agrosense/cropwise/pkg/fertilizer"
	"github.com/agrosense/cropwise/pkg/header"
	"github.com/agrosense/cropwise/pkg/market"
	"github.com/agrosense/cropwise/pkg/soil"
	"github.com/agrosense/cropwise/pkg/weather"
)

// TopN is the number of crops ranked per recommendation.
const TopN = 3

// Score weights.
const (
	ConfidenceWeight    = 0.7
	ProfitabilityWeight = 0.3
)

// Weather sources reported on a recommendation.
const (
	WeatherSourceProvider = "provider"
	WeatherSourceFallback = "fallback"
)

// Candidate is a crop label with its predicted probability.
type Candidate struct {
	Label      string  `json:"label" yaml:"label"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// RankedCrop is a candidate enriched with its market quote and fused score.
// Confidence and FinalScore are percentages rounded to two decimals;
// Probability and Score hold the exact values used for ranking.
type RankedCrop struct {
	Crop        string             `json:"crop" yaml:"crop"`
	Confidence  float64            `json:"confidence" yaml:"confidence"`
	MarketPrice int                `json:"marketPrice" yaml:"marketPrice"`
	PriceTrend  market.Trend       `json:"priceTrend" yaml:"priceTrend"`
	MarketScore float64            `json:"marketScore" yaml:"marketScore"`
	FinalScore  float64            `json:"finalScore" yaml:"finalScore"`
	PriceSource market.PriceSource `json:"priceSource" yaml:"priceSource"`

	Probability float64 `json:"-" yaml:"-"`
	Score       float64 `json:"-" yaml:"-"`
}

// Inputs echoes the request.
type Inputs struct {
	Location string      `json:"location" yaml:"location"`
	Soil     soil.Sample `json:"soil" yaml:"soil"`
	SoilType string      `json:"soilType" yaml:"soilType"`
}

// Request is a recommendation request. SoilType is echoed but not scored.
type Request struct {
	Location string
	Soil     soil.Sample
	SoilType string
}

// Recommendation is the engine result.
type Recommendation struct {
	header.Header `json:",inline" yaml:",inline"`

	Inputs             Inputs           `json:"inputs" yaml:"inputs"`
	Weather            weather.Context  `json:"weatherContext" yaml:"weatherContext"`
	WeatherSource      string           `json:"weatherSource" yaml:"weatherSource"`
	TopRecommendations []RankedCrop     `json:"topRecommendations" yaml:"topRecommendations"`
	BestCrop           string           `json:"bestCrop" yaml:"bestCrop"`
	FertilizerPlan     *fertilizer.Plan `json:"fertilizerPlan" yaml:"fertilizerPlan"`
	Analysis           string           `json:"analysis" yaml:"analysis"`
}

// CropCatalog lists what the engine can recommend and plan for.
type CropCatalog struct {
	header.Header `json:",inline" yaml:",inline"`

	Crops                []string `json:"crops" yaml:"crops"`
	FertilizerCategories []string `json:"fertilizerCategories" yaml:"fertilizerCategories"`
	PricedCrops          []string `json:"pricedCrops,omitempty" yaml:"pricedCrops,omitempty"`
}
