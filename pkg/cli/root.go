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
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/agrosense/cropwise/pkg/config"
	cwerrors "github.com/agrosense/cropwise/pkg/errors"
	"github.com/agrosense/cropwise/pkg/logging"
	"github.com/agrosense/cropwise/pkg/serializer"
)

const (
	name           = "cropwise"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path (default: stdout)",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatYAML),
		Usage: fmt.Sprintf("Output format (supported values: %s)",
			strings.Join(serializer.SupportedFormats(), ", ")),
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Crop and fertilizer recommendations from soil tests",
		Version:               version,
		EnableShellCompletion: true,
		Description: fmt.Sprintf(`cropwise ranks crops for a soil sample and district by fusing a crop
suitability model with local weather and market prices, then plans
fertilizer for the best crop.

Commit: %s
Built:  %s`, commit, date),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: fmt.Sprintf("Config file (default is $%s)", config.PathEnvVar),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error), overrides the config file",
			},
			&cli.StringFlag{
				Name:  "model-backend",
				Usage: "Crop model backend (bayes, remote)",
			},
			&cli.StringFlag{
				Name:  "model-uri",
				Usage: "Naive Bayes model artifact (file path, http(s) or s3:// URI)",
			},
			&cli.StringFlag{
				Name:  "model-url",
				Usage: "Model server base URL for the remote backend",
			},
			&cli.StringFlag{
				Name:  "weather-mode",
				Usage: "Weather source (normals, openweather)",
			},
			&cli.StringFlag{
				Name:  "market-mode",
				Usage: "Market price source (table, agmarknet)",
			},
			&cli.StringFlag{
				Name:  "prices-uri",
				Usage: "Market price snapshot CSV (file path, http(s) or s3:// URI)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return ctx, err
			}
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cfg.LogLevel)
			slog.Debug("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date,
				"logLevel", cfg.LogLevel)
			return ctx, nil
		},
		Commands: []*cli.Command{
			recommendCmd(),
			fertilizerCmd(),
			cropsCmd(),
		},
	}
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, errorMessage(err))
		stop()
		os.Exit(1)
	}
}

// errorMessage names the rejected field, if any, after the error text.
func errorMessage(err error) string {
	if field, ok := cwerrors.ContextValue(err, "field"); ok {
		return fmt.Sprintf("%v (field: %v)", err, field)
	}
	return err.Error()
}

// loadConfig reads --config (or $CROPWISE_CONFIG) and applies the global
// override flags on top.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	overrides := []struct {
		flag string
		dst  *string
	}{
		{"log-level", &cfg.LogLevel},
		{"model-backend", &cfg.Model.Backend},
		{"model-uri", &cfg.Model.URI},
		{"model-url", &cfg.Model.RemoteURL},
		{"weather-mode", &cfg.Weather.Mode},
		{"market-mode", &cfg.Market.Mode},
		{"prices-uri", &cfg.Market.PricesURI},
	}
	for _, o := range overrides {
		if v := cmd.String(o.flag); v != "" {
			*o.dst = v
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	serializer.SetS3Options(cfg.Storage.S3Options())
	return cfg, nil
}

func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q, supported values: %s",
			f, strings.Join(serializer.SupportedFormats(), ", "))
	}
	return f, nil
}

func writeOutput(ctx context.Context, cmd *cli.Command, v any) error {
	format, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	w := serializer.NewFileWriterOrStdout(format, cmd.String("output"))
	defer func() {
		if err := w.Close(); err != nil {
			slog.Warn("failed to close output", "error", err)
		}
	}()

	return w.Serialize(ctx, v)
}
