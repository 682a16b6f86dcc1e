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

// Package config loads cropwise settings from layered sources.
//
// Precedence, lowest to highest:
//
//  1. Built-in defaults (Default)
//  2. An optional YAML file, named by the caller or by CROPWISE_CONFIG
//  3. Environment variables prefixed with CROPWISE_
//
// Environment names map to keys by stripping the prefix, lowercasing and
// replacing the first underscore after a section name with a dot:
//
//	CROPWISE_SERVER_PORT=9090          -> server.port
//	CROPWISE_MARKET_DB_DSN=prices.db   -> market.db_dsn
//	CROPWISE_LOG_LEVEL=debug           -> log_level
//
// A loaded Config has been validated; Load never returns a partially valid
// configuration.
//
// Example file:
//
//	log_level: info
//	server:
//	  port: 8080
//	model:
//	  backend: bayes
//	  uri: s3://models/crop-nb.yaml
//	weather:
//	  mode: openweather
//	  api_key: ${OWM_KEY}
//	market:
//	  mode: table
//	  db_driver: pgx
//	  db_dsn: postgres://cropwise@db/prices
package config
