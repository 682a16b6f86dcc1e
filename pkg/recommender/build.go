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
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/agrosense/cropwise/pkg/breaker"
	"github.com/agrosense/cropwise/pkg/config"
	cwerrors "github.com/agrosense/cropwise/pkg/errors"
	"github.com/agrosense/cropwise/pkg/fertilizer"
	"github.com/agrosense/cropwise/pkg/market"
	"github.com/agrosense/cropwise/pkg/oracle"
	"github.com/agrosense/cropwise/pkg/serializer"
	"github.com/agrosense/cropwise/pkg/weather"
)

// OracleConfig maps the model section of the configuration.
func OracleConfig(m config.ModelConfig) oracle.Config {
	return oracle.Config{
		Backend:   m.Backend,
		URI:       m.URI,
		RemoteURL: m.RemoteURL,
		Timeout:   m.Timeout,
	}
}

// Build creates an Engine from configuration. Reference data (prices,
// fertilizer catalog, weather normals) is loaded concurrently. The model is
// not loaded; callers load it through Engine.Model.
func Build(ctx context.Context, cfg *config.Config, version string) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	serializer.SetS3Options(cfg.Storage.S3Options())

	var (
		table   *market.PriceTable
		catalog *fertilizer.Catalog
		normals *weather.Normals
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		src := market.Source{
			URI:      cfg.Market.PricesURI,
			DBDriver: cfg.Market.DBDriver,
			DSN:      cfg.Market.DBDSN,
			Query:    cfg.Market.DBQuery,
		}
		if src == (market.Source{}) {
			t, err := market.DefaultTable()
			table = t
			return err
		}
		records, err := market.LoadSnapshot(gctx, src)
		if err != nil {
			return err
		}
		table = market.NewPriceTable(records)
		return nil
	})
	g.Go(func() error {
		var err error
		if cfg.Fertilizer.CatalogURI == "" {
			catalog, err = fertilizer.DefaultCatalog()
		} else {
			catalog, err = fertilizer.LoadCatalog(gctx, cfg.Fertilizer.CatalogURI)
		}
		return err
	})
	g.Go(func() error {
		var err error
		if cfg.Weather.NormalsURI == "" {
			normals, err = weather.DefaultNormals()
		} else {
			normals, err = weather.LoadNormals(gctx, cfg.Weather.NormalsURI)
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	wp, err := weatherProvider(cfg.Weather, normals)
	if err != nil {
		return nil, err
	}
	mp, err := marketProvider(cfg.Market, table)
	if err != nil {
		return nil, err
	}

	planner, err := fertilizer.NewPlanner(
		fertilizer.WithCatalog(catalog),
		fertilizer.WithVersion(version),
	)
	if err != nil {
		return nil, err
	}

	slog.Info("recommender configured",
		"weather", cfg.Weather.Mode,
		"market", cfg.Market.Mode,
		"model", cfg.Model.Backend,
		"prices", table.Len(),
		"districts", len(normals.Districts()),
	)

	return New(
		WithWeatherProvider(wp),
		WithMarketProvider(mp),
		WithPriceTable(table),
		WithPlanner(planner),
		WithVersion(version),
	)
}

func weatherProvider(cfg config.WeatherConfig, normals *weather.Normals) (weather.Provider, error) {
	switch cfg.Mode {
	case "", config.WeatherModeNormals:
		return normals, nil
	case config.WeatherModeOpenWeather:
		bc := breaker.DefaultConfig("openweather")
		bc.RequestsPerSecond = cfg.RequestsPerSecond
		opts := []weather.OpenWeatherOption{
			weather.WithNormals(normals),
			weather.WithOpenWeatherBreaker(bc),
			weather.WithOpenWeatherTimeout(cfg.Timeout),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, weather.WithOpenWeatherBaseURL(cfg.BaseURL))
		}
		return weather.NewOpenWeather(cfg.APIKey, opts...)
	default:
		return nil, cwerrors.NewWithContext(cwerrors.ErrCodeInvalidRequest, "unknown weather mode",
			map[string]any{"mode": cfg.Mode})
	}
}

func marketProvider(cfg config.MarketConfig, table *market.PriceTable) (market.Provider, error) {
	tp := market.NewTableProvider(table)
	switch cfg.Mode {
	case "", config.MarketModeTable:
		return tp, nil
	case config.MarketModeAgmarknet:
		bc := breaker.DefaultConfig("agmarknet")
		bc.RequestsPerSecond = cfg.RequestsPerSecond
		opts := []market.AgmarknetOption{
			market.WithAgmarknetBreaker(bc),
			market.WithAgmarknetTimeout(cfg.Timeout),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, market.WithAgmarknetBaseURL(cfg.BaseURL))
		}
		return market.NewAgmarknet(cfg.APIKey, tp, opts...), nil
	default:
		return nil, cwerrors.NewWithContext(cwerrors.ErrCodeInvalidRequest, "unknown market mode",
			map[string]any{"mode": cfg.Mode})
	}
}
