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

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/agrosense/cropwise/pkg/defaults"
	cwerrors "github.com/agrosense/cropwise/pkg/errors"
	"github.com/agrosense/cropwise/pkg/serializer"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "CROPWISE_"

	// PathEnvVar names the config file when no path is given.
	PathEnvVar = EnvPrefix + "CONFIG"
)

// Mode and backend names.
const (
	ModelBackendBayes  = "bayes"
	ModelBackendRemote = "remote"

	WeatherModeNormals     = "normals"
	WeatherModeOpenWeather = "openweather"

	MarketModeTable     = "table"
	MarketModeAgmarknet = "agmarknet"
)

var sections = []string{"server", "model", "weather", "market", "fertilizer", "storage"}

// Config is the complete cropwise configuration.
type Config struct {
	LogLevel   string           `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	Server     ServerConfig     `koanf:"server"`
	Model      ModelConfig      `koanf:"model"`
	Weather    WeatherConfig    `koanf:"weather"`
	Market     MarketConfig     `koanf:"market"`
	Fertilizer FertilizerConfig `koanf:"fertilizer"`
	Storage    StorageConfig    `koanf:"storage"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Address         string        `koanf:"address"`
	Port            int           `koanf:"port" validate:"gte=1,lte=65535"`
	RateLimit       float64       `koanf:"rate_limit" validate:"gt=0"`
	RateLimitBurst  int           `koanf:"rate_limit_burst" validate:"gte=1"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// ModelConfig selects the crop suitability model.
type ModelConfig struct {
	Backend   string        `koanf:"backend" validate:"oneof=bayes remote"`
	URI       string        `koanf:"uri"`
	RemoteURL string        `koanf:"remote_url" validate:"required_if=Backend remote"`
	Timeout   time.Duration `koanf:"timeout" validate:"gte=0"`
}

// WeatherConfig selects the weather provider.
type WeatherConfig struct {
	Mode              string        `koanf:"mode" validate:"oneof=normals openweather"`
	NormalsURI        string        `koanf:"normals_uri"`
	APIKey            string        `koanf:"api_key" validate:"required_if=Mode openweather"`
	BaseURL           string        `koanf:"base_url" validate:"omitempty,url"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"gte=0"`
	Timeout           time.Duration `koanf:"timeout" validate:"gte=0"`
}

// MarketConfig selects the market price source.
type MarketConfig struct {
	Mode              string        `koanf:"mode" validate:"oneof=table agmarknet"`
	PricesURI         string        `koanf:"prices_uri"`
	DBDriver          string        `koanf:"db_driver" validate:"omitempty,oneof=sqlite pgx"`
	DBDSN             string        `koanf:"db_dsn" validate:"required_with=DBDriver"`
	DBQuery           string        `koanf:"db_query"`
	APIKey            string        `koanf:"api_key" validate:"required_if=Mode agmarknet"`
	BaseURL           string        `koanf:"base_url" validate:"omitempty,url"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"gte=0"`
	Timeout           time.Duration `koanf:"timeout" validate:"gte=0"`
}

// FertilizerConfig locates the fertilizer catalog.
type FertilizerConfig struct {
	CatalogURI string `koanf:"catalog_uri"`
}

// StorageConfig configures s3:// artifact URIs. Empty values use the AWS
// default credential chain.
type StorageConfig struct {
	Region          string `koanf:"region"`
	Endpoint        string `koanf:"endpoint" validate:"omitempty,url"`
	PathStyle       bool   `koanf:"path_style"`
	AccessKeyID     string `koanf:"access_key_id" validate:"required_with=SecretAccessKey"`
	SecretAccessKey string `koanf:"secret_access_key" validate:"required_with=AccessKeyID"`
}

// S3Options converts the section for the artifact reader.
func (s StorageConfig) S3Options() serializer.S3Options {
	return serializer.S3Options{
		Region:          s.Region,
		Endpoint:        s.Endpoint,
		PathStyle:       s.PathStyle,
		AccessKeyID:     s.AccessKeyID,
		SecretAccessKey: s.SecretAccessKey,
	}
}

// Default returns the built-in configuration: embedded model, district
// normals, embedded price snapshot and catalog.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Server: ServerConfig{
			Port:            8080,
			RateLimit:       100,
			RateLimitBurst:  200,
			ShutdownTimeout: defaults.ServerShutdownTimeout,
		},
		Model: ModelConfig{
			Backend: ModelBackendBayes,
			Timeout: defaults.ModelPredictTimeout,
		},
		Weather: WeatherConfig{
			Mode:              WeatherModeNormals,
			RequestsPerSecond: defaults.ProviderRequestsPerSecond,
			Timeout:           defaults.ProviderTimeout,
		},
		Market: MarketConfig{
			Mode:              MarketModeTable,
			RequestsPerSecond: defaults.ProviderRequestsPerSecond,
			Timeout:           defaults.ProviderTimeout,
		},
	}
}

// Load layers defaults, the YAML file at path (or $CROPWISE_CONFIG when path
// is empty) and CROPWISE_ environment variables, then validates the result.
// A missing file is an error only when a path was given explicitly.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, cwerrors.Wrap(cwerrors.ErrCodeInternal, "failed to load config defaults", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, cwerrors.WrapWithContext(cwerrors.ErrCodeInvalidRequest, "failed to load config file", err,
				map[string]any{"path": path})
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, cwerrors.Wrap(cwerrors.ErrCodeInvalidRequest, "failed to load config environment", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, cwerrors.Wrap(cwerrors.ErrCodeInvalidRequest, "failed to decode config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	p := os.Getenv(PathEnvVar)
	if p == "" {
		return ""
	}
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

// envKey maps CROPWISE_MARKET_DB_DSN to market.db_dsn. An empty result
// drops the variable.
func envKey(name string) string {
	if name == PathEnvVar {
		return ""
	}
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	for _, s := range sections {
		if rest, ok := strings.CutPrefix(key, s+"_"); ok && rest != "" {
			return s + "." + rest
		}
	}
	return key
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validate checks every field constraint and returns INVALID_REQUEST naming
// the first violation.
func (c *Config) Validate() error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return cwerrors.Wrap(cwerrors.ErrCodeInvalidRequest, "invalid configuration", err)
	}
	fe := fieldErrs[0]
	return cwerrors.NewWithContext(cwerrors.ErrCodeInvalidRequest,
		fmt.Sprintf("invalid configuration: %s failed %s", fe.Namespace(), fe.Tag()),
		map[string]any{
			"field":      fe.Namespace(),
			"constraint": strings.TrimSuffix(fe.Tag()+"="+fe.Param(), "="),
		})
}
