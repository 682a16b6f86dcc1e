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
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/agrosense/cropwise/pkg/breaker"
	"github.com/agrosense/cropwise/pkg/crop"
	"github.com/agrosense/cropwise/pkg/defaults"
	cwerrors "github.com/agrosense/cropwise/pkg/errors"
	"github.com/agrosense/cropwise/pkg/serializer"
)

// DefaultAgmarknetURL is the data.gov.in daily mandi price resource.
const DefaultAgmarknetURL = "https://api.data.gov.in/resource/9ef84268-d588-465a-a308-a864a43d0070"

const agmarknetProvider = "agmarknet"

// errNoRecords marks a healthy Agmarknet answer that carries no price.
var errNoRecords = errors.New("no agmarknet records")

// AgmarknetOption configures an Agmarknet provider.
type AgmarknetOption func(*Agmarknet)

// WithAgmarknetBaseURL overrides the resource URL.
func WithAgmarknetBaseURL(u string) AgmarknetOption {
	return func(a *Agmarknet) {
		if u != "" {
			a.baseURL = u
		}
	}
}

// WithAgmarknetReader replaces the HTTP reader.
func WithAgmarknetReader(r *serializer.HTTPFetcher) AgmarknetOption {
	return func(a *Agmarknet) {
		a.reader = r
	}
}

// WithAgmarknetBreaker overrides the breaker and rate limit settings.
func WithAgmarknetBreaker(cfg breaker.Config) AgmarknetOption {
	return func(a *Agmarknet) {
		a.breakerCfg = cfg
	}
}

// WithAgmarknetTimeout bounds each upstream request.
func WithAgmarknetTimeout(d time.Duration) AgmarknetOption {
	return func(a *Agmarknet) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// Agmarknet quotes live modal prices, falling back to a snapshot provider.
type Agmarknet struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	reader     *serializer.HTTPFetcher
	breakerCfg breaker.Config
	guard      *breaker.Guard[int]
	fallback   Provider
}

// NewAgmarknet creates a live provider. fallback answers whenever the live
// lookup fails or returns no records.
func NewAgmarknet(apiKey string, fallback Provider, opts ...AgmarknetOption) *Agmarknet {
	a := &Agmarknet{
		apiKey:     apiKey,
		baseURL:    DefaultAgmarknetURL,
		timeout:    defaults.ProviderTimeout,
		breakerCfg: breaker.DefaultConfig(agmarknetProvider),
		fallback:   fallback,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.reader == nil {
		a.reader = serializer.NewHTTPFetcher(serializer.WithFetchTimeout(a.timeout))
	}
	if a.breakerCfg.IsSuccessful == nil {
		a.breakerCfg.IsSuccessful = isNoRecords
	}
	a.guard = breaker.NewGuard[int](a.breakerCfg)
	return a
}

type agmarknetResponse struct {
	Records []struct {
		District   string      `json:"district"`
		Commodity  string      `json:"commodity"`
		ModalPrice json.Number `json:"modal_price"`
	} `json:"records"`
}

// GetPricePrediction implements Provider.
func (a *Agmarknet) GetPricePrediction(ctx context.Context, cropLabel, location string) Quote {
	price, err := a.guard.Do(ctx, func(ctx context.Context) (int, error) {
		return a.fetch(ctx, cropLabel, location)
	})
	if errors.Is(err, errNoRecords) {
		slog.Debug("no live market price, using snapshot",
			"crop", cropLabel,
			"location", location,
		)
		return a.fallback.GetPricePrediction(ctx, cropLabel, location)
	}
	if err != nil {
		upstreamFailures.WithLabelValues(agmarknetProvider).Inc()
		slog.Warn("live market price unavailable, using snapshot",
			"code", cwerrors.ErrCodeUpstreamUnavailable,
			"crop", cropLabel,
			"location", location,
			"error", err,
		)
		return a.fallback.GetPricePrediction(ctx, cropLabel, location)
	}

	quotesTotal.WithLabelValues(string(SourceLive)).Inc()
	return NewQuote(price, SourceLive)
}

func (a *Agmarknet) fetch(ctx context.Context, cropLabel, location string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("api-key", a.apiKey)
	q.Set("format", "json")
	q.Set("filters[district]", location)
	q.Set("filters[commodity]", crop.Normalize(cropLabel))

	data, err := a.reader.Get(ctx, a.baseURL+"?"+q.Encode())
	if err != nil {
		return 0, serializer.RedactSecret(err, a.apiKey)
	}

	var resp agmarknetResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return 0, fmt.Errorf("decode agmarknet response: %w", err)
	}
	for _, r := range resp.Records {
		if crop.Equal(r.Commodity, cropLabel) {
			return parsePrice(r.ModalPrice.String())
		}
	}
	return 0, fmt.Errorf("%w for %s in %s", errNoRecords, cropLabel, location)
}

func isNoRecords(err error) bool {
	return errors.Is(err, errNoRecords)
}
