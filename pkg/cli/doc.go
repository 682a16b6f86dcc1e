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

// Package cli implements the cropwise command-line interface.
//
// # Commands
//
// recommend - Rank crops for a soil sample and district:
//
//	cropwise recommend --location Thanjavur -n 90 -p 42 -k 43 --ph 6.5
//
// Predicts crop suitability from soil and weather, scores the three most
// likely crops against market prices and plans fertilizer for the best one.
//
// fertilizer - Plan fertilizer for a crop:
//
//	cropwise fertilizer --crop Rice -n 20 -p 10 -k 30
//
// crops - List the crops the model ranks and the fertilizer categories:
//
//	cropwise crops --format table
//
// # Global Flags
//
//	--config       Config file (default: $CROPWISE_CONFIG)
//	--log-level    Log level override (debug, info, warn, error)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Output Flags
//
//	--output, -o   Output file path (default: stdout)
//	--format, -t   Output format: yaml, json, table (default: yaml)
//
// # Environment Variables
//
// Every config setting can be overridden with a CROPWISE_ variable, for
// example CROPWISE_WEATHER_MODE=openweather or CROPWISE_MARKET_PRICES_URI.
// See pkg/config.
//
// # Exit Codes
//
//	0  Success
//	1  Invalid arguments, configuration or input, or execution failure
//
// # Architecture
//
// The CLI uses the urfave/cli/v3 framework and delegates to:
//   - pkg/config - Configuration loading
//   - pkg/recommender - Crop ranking
//   - pkg/fertilizer - Fertilizer planning
//   - pkg/serializer - Output formatting
//   - pkg/logging - Structured logging
//
// Unlike the API server, the CLI loads the crop model before running a
// command.
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/agrosense/cropwise/pkg/cli.version=1.0.0'"
package cli
