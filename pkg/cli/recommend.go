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

package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/agrosense/cropwise/pkg/config"
	"github.com/agrosense/cropwise/pkg/fertilizer"
	"github.com/agrosense/cropwise/pkg/recommender"
	"github.com/agrosense/cropwise/pkg/soil"
)

func soilFlags() []cli.Flag {
	return []cli.Flag{
		&cli.FloatFlag{
			Name:     "n",
			Required: true,
			Usage:    "Soil nitrogen (kg/ha)",
		},
		&cli.FloatFlag{
			Name:     "p",
			Required: true,
			Usage:    "Soil phosphorus (kg/ha)",
		},
		&cli.FloatFlag{
			Name:     "k",
			Required: true,
			Usage:    "Soil potassium (kg/ha)",
		},
		&cli.FloatFlag{
			Name:  "ph",
			Value: soil.DefaultPH,
			Usage: "Soil pH",
		},
	}
}

func sampleFromCmd(cmd *cli.Command) soil.Sample {
	return soil.Sample{
		N:  cmd.Float("n"),
		P:  cmd.Float("p"),
		K:  cmd.Float("k"),
		PH: cmd.Float("ph"),
	}
}

func recommendCmd() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:     "location",
			Aliases:  []string{"l", "district"},
			Required: true,
			Usage:    "District used for weather and market prices (e.g., Thanjavur)",
		},
		&cli.StringFlag{
			Name:  "soil-type",
			Value: soil.DefaultType,
			Usage: "Soil type echoed in the result",
		},
	}
	flags = append(flags, soilFlags()...)
	flags = append(flags, outputFlag(), formatFlag())

	return &cli.Command{
		Name:                  "recommend",
		EnableShellCompletion: true,
		Usage:                 "Rank crops for a soil sample and district",
		Description: `Rank the three most suitable crops for a soil sample by combining the
crop model's confidence with market profitability:

  score = confidence*0.7 + (market score/100)*0.3

Weather comes from district normals or OpenWeather and prices from the
price snapshot or Agmarknet, as configured. Upstream failures fall back to
defaults. The result includes a fertilizer plan for the best crop.

The recommendation can be output in JSON, YAML, or table format.`,
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}

			e, err := buildEngine(ctx, cmd)
			if err != nil {
				return err
			}
			defer e.Model().Close()

			rec, err := e.RecommendRequest(ctx, recommender.Request{
				Location: cmd.String("location"),
				Soil:     sampleFromCmd(cmd),
				SoilType: cmd.String("soil-type"),
			})
			if err != nil {
				return fmt.Errorf("error computing recommendation: %w", err)
			}

			return writeOutput(ctx, cmd, rec)
		},
	}
}

func fertilizerCmd() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:     "crop",
			Aliases:  []string{"c"},
			Required: true,
			Usage:    "Crop to plan for (e.g., Rice)",
		},
	}
	flags = append(flags, soilFlags()...)
	flags = append(flags, outputFlag(), formatFlag())

	return &cli.Command{
		Name:                  "fertilizer",
		EnableShellCompletion: true,
		Usage:                 "Plan fertilizer for a crop and soil sample",
		Description: `Compute the N, P and K deficit against the crop category target and the
product doses that close it. Crops without a category use the default
target. The configured fertilizer catalog is used when set.`,
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			planner, err := newPlanner(ctx, cfg)
			if err != nil {
				return err
			}

			s := sampleFromCmd(cmd)
			plan, err := planner.Recommend(cmd.String("crop"), s)
			if err != nil {
				return fmt.Errorf("error computing fertilizer plan: %w", err)
			}

			return writeOutput(ctx, cmd, fertilizer.NewDocument(plan, s, version))
		},
	}
}

func cropsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "crops",
		EnableShellCompletion: true,
		Usage:                 "List crops the model ranks and fertilizer categories",
		Flags:                 []cli.Flag{outputFlag(), formatFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if _, err := parseOutputFormat(cmd); err != nil {
				return err
			}

			e, err := buildEngine(ctx, cmd)
			if err != nil {
				return err
			}
			defer e.Model().Close()

			return writeOutput(ctx, cmd, e.Catalog())
		},
	}
}

// buildEngine creates the engine and loads the model synchronously.
func buildEngine(ctx context.Context, cmd *cli.Command) (*recommender.Engine, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	e, err := recommender.Build(ctx, cfg, version)
	if err != nil {
		return nil, fmt.Errorf("error loading reference data: %w", err)
	}
	if err := e.Model().Load(ctx, recommender.OracleConfig(cfg.Model)); err != nil {
		return nil, fmt.Errorf("error loading crop model: %w", err)
	}
	return e, nil
}

func newPlanner(ctx context.Context, cfg *config.Config) (*fertilizer.Planner, error) {
	opts := []fertilizer.Option{fertilizer.WithVersion(version)}
	if uri := cfg.Fertilizer.CatalogURI; uri != "" {
		catalog, err := fertilizer.LoadCatalog(ctx, uri)
		if err != nil {
			return nil, fmt.Errorf("error loading fertilizer catalog: %w", err)
		}
		opts = append(opts, fertilizer.WithCatalog(catalog))
	}
	return fertilizer.NewPlanner(opts...)
}
