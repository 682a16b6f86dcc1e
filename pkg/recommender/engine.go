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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	cwerrors "github.com/agrosense/cropwise/pkg/errors"
	"github.com/agrosense/cropwise/pkg/fertilizer"
	"github.com/agrosense/cropwise/pkg/header"
	"github.com/agrosense/cropwise/pkg/market"
	"github.com/agrosense/cropwise/pkg/oracle"
	"github.com/agrosense/cropwise/pkg/soil"
	"github.com/agrosense/cropwise/pkg/weather"
)

const customBackend = "custom"

// Option is a functional option for configuring the Engine.
type Option func(*Engine)

// WithOracle sets the model. A *oracle.Handle is used as is; any other
// Oracle is wrapped in a loaded handle.
func WithOracle(o oracle.Oracle) Option {
	return func(e *Engine) {
		if h, ok := o.(*oracle.Handle); ok {
			e.model = h
			return
		}
		e.model.Set(o, customBackend)
	}
}

// WithWeatherProvider sets the weather source.
func WithWeatherProvider(p weather.Provider) Option {
	return func(e *Engine) {
		e.weather = p
	}
}

// WithMarketProvider sets the price source.
func WithMarketProvider(p market.Provider) Option {
	return func(e *Engine) {
		e.market = p
	}
}

// WithPriceTable records the snapshot behind the market provider, used for
// crop listings. When no market provider is set it also answers quotes.
func WithPriceTable(t *market.PriceTable) Option {
	return func(e *Engine) {
		e.prices = t
	}
}

// WithPlanner sets the fertilizer planner.
func WithPlanner(p *fertilizer.Planner) Option {
	return func(e *Engine) {
		e.planner = p
	}
}

// WithVersion sets the version stamped on results.
func WithVersion(v string) Option {
	return func(e *Engine) {
		e.version = v
	}
}

// Engine produces crop recommendations. It holds no per-request state and
// is safe for concurrent use.
type Engine struct {
	model   *oracle.Handle
	weather weather.Provider
	market  market.Provider
	prices  *market.PriceTable
	planner *fertilizer.Planner
	version string
}

// New creates an Engine. Unset providers default to district normals, the
// embedded price snapshot and the embedded fertilizer catalog. The model
// handle starts empty unless WithOracle is given.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{model: oracle.NewHandle()}
	for _, opt := range opts {
		opt(e)
	}

	if e.weather == nil {
		n, err := weather.DefaultNormals()
		if err != nil {
			return nil, err
		}
		e.weather = n
	}
	if e.market == nil {
		if e.prices == nil {
			t, err := market.DefaultTable()
			if err != nil {
				return nil, err
			}
			e.prices = t
		}
		e.market = market.NewTableProvider(e.prices)
	}
	if e.planner == nil {
		p, err := fertilizer.NewPlanner(fertilizer.WithVersion(e.version))
		if err != nil {
			return nil, err
		}
		e.planner = p
	}
	return e, nil
}

// Model returns the handle holding the active model.
func (e *Engine) Model() *oracle.Handle {
	return e.model
}

// Planner returns the fertilizer planner.
func (e *Engine) Planner() *fertilizer.Planner {
	return e.planner
}

// Ready reports MODEL_UNAVAILABLE until a model is loaded.
func (e *Engine) Ready(ctx context.Context) error {
	return e.model.Ready(ctx)
}

// Recommend ranks crops for a soil sample at location.
func (e *Engine) Recommend(ctx context.Context, s soil.Sample, location string) (*Recommendation, error) {
	return e.RecommendRequest(ctx, Request{Location: location, Soil: s, SoilType: soil.DefaultType})
}

// RecommendRequest ranks crops for req. Only INVALID_INPUT and
// MODEL_UNAVAILABLE failures are returned; weather and market problems are
// absorbed by fallbacks.
func (e *Engine) RecommendRequest(ctx context.Context, req Request) (rec *Recommendation, err error) {
	start := time.Now()
	defer func() {
		recommendDuration.Observe(time.Since(start).Seconds())
		recommendTotal.WithLabelValues(outcome(err)).Inc()
	}()

	if err := ctx.Err(); err != nil {
		return nil, cwerrors.Wrap(cwerrors.ErrCodeTimeout, "recommendation canceled", err)
	}
	if err := req.Soil.Validate(); err != nil {
		return nil, err
	}

	wc, source := e.weatherFor(ctx, req.Location)

	features := oracle.NewFeatures(req.Soil, wc)
	pred, err := e.model.Predict(ctx, features)
	if err != nil {
		if cwerrors.CodeOf(err) == "" {
			err = cwerrors.Wrap(cwerrors.ErrCodeModelUnavailable, "crop prediction failed", err)
		}
		return nil, err
	}

	candidates, err := TopCandidates(pred.Classes, pred.Probs, TopN)
	if err != nil {
		return nil, err
	}

	ranked := Rank(candidates, func(label string) market.Quote {
		return e.market.GetPricePrediction(ctx, label, req.Location)
	})
	best := ranked[0]

	plan, err := e.planner.Recommend(best.Crop, req.Soil)
	if err != nil {
		return nil, err
	}

	rec = &Recommendation{
		Inputs: Inputs{
			Location: req.Location,
			Soil:     req.Soil,
			SoilType: req.SoilType,
		},
		Weather:            wc,
		WeatherSource:      source,
		TopRecommendations: ranked,
		BestCrop:           best.Crop,
		FertilizerPlan:     plan,
		Analysis:           Narrative(req.Location, wc, best),
	}
	rec.Init(header.KindRecommendation, header.APIVersionV1Alpha1, e.version)
	rec.Set("model", pred.Backend)

	bestCropTotal.WithLabelValues(best.Crop).Inc()
	slog.Debug("recommendation computed",
		"location", req.Location,
		"soil", req.Soil.String(),
		"features", features.String(),
		"best_crop", best.Crop,
		"score", best.Score,
	)
	return rec, nil
}

func (e *Engine) weatherFor(ctx context.Context, location string) (weather.Context, string) {
	wc, err := e.weather.GetWeather(ctx, location)
	if err == nil && wc != nil {
		return *wc, WeatherSourceProvider
	}
	if err == nil {
		err = errors.New("provider returned no weather")
	}

	weatherFallbacks.Inc()
	slog.Warn("weather unavailable, using fallback",
		"code", cwerrors.ErrCodeUpstreamUnavailable,
		"location", location,
		"fallback", weather.Fallback.String(),
		"error", err,
	)
	return weather.Fallback, WeatherSourceFallback
}

// TopCandidates returns the n most probable classes. Equal probabilities keep
// the order of classes, repeated labels count once and labels absent from
// probs have probability zero. Fewer than n distinct classes is INVALID_INPUT.
func TopCandidates(classes []string, probs map[string]float64, n int) ([]Candidate, error) {
	seen := make(map[string]bool, len(classes))
	cands := make([]Candidate, 0, len(classes))
	for _, label := range classes {
		if seen[label] {
			continue
		}
		seen[label] = true
		cands = append(cands, Candidate{Label: label, Confidence: probs[label]})
	}

	if len(cands) < n {
		return nil, cwerrors.NewWithContext(cwerrors.ErrCodeInvalidInput,
			fmt.Sprintf("model reports %d crop classes, at least %d are required", len(cands), n),
			map[string]any{"classes": len(cands), "required": n})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Confidence > cands[j].Confidence
	})
	return cands[:n], nil
}

// Score fuses model confidence with market profitability.
func Score(confidence, profitability float64) float64 {
	return confidence*ConfidenceWeight + (profitability/100)*ProfitabilityWeight
}

// Rank quotes and scores candidates, then stable sorts them by score.
func Rank(cands []Candidate, quote func(label string) market.Quote) []RankedCrop {
	ranked := make([]RankedCrop, 0, len(cands))
	for _, c := range cands {
		q := quote(c.Label)
		score := Score(c.Confidence, q.ProfitabilityScore)
		ranked = append(ranked, RankedCrop{
			Crop:        c.Label,
			Confidence:  round2(c.Confidence * 100),
			MarketPrice: q.Price,
			PriceTrend:  q.Trend,
			MarketScore: q.ProfitabilityScore,
			FinalScore:  round2(score * 100),
			PriceSource: q.Source,
			Probability: c.Confidence,
			Score:       score,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// Narrative is the one line summary of a recommendation.
func Narrative(location string, wc weather.Context, best RankedCrop) string {
	return fmt.Sprintf("Based on %s's weather (Temp: %.1fC) and soil health, %s is the best option with a market score of %g/100.",
		location, wc.Temperature, best.Crop, best.MarketScore)
}

// Catalog lists model classes, fertilizer categories and priced crops.
func (e *Engine) Catalog() *CropCatalog {
	c := &CropCatalog{
		Crops:                e.model.Classes(),
		FertilizerCategories: e.planner.Catalog().CategoryNames(),
	}
	if c.Crops == nil {
		c.Crops = []string{}
	}
	if e.prices != nil {
		c.PricedCrops = e.prices.Crops()
	}
	c.Init(header.KindCropCatalog, header.APIVersionV1Alpha1, e.version)
	return c
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	if code := cwerrors.CodeOf(err); code != "" {
		return string(code)
	}
	return "error"
}
