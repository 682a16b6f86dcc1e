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
package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/url"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

const fileURIScheme = "file://"

var extFormats = map[string]Format{
	".json":  FormatJSON,
	".yaml":  FormatYAML,
	".yml":   FormatYAML,
	".table": FormatTable,
	".txt":   FormatTable,
}

// FormatFromPath picks a format from the extension of a path or URI,
// ignoring case and any query string. Unknown extensions mean JSON.
func FormatFromPath(p string) Format {
	if u, err := url.Parse(p); err == nil && u.Path != "" {
		p = u.Path
	}
	if f, ok := extFormats[strings.ToLower(path.Ext(p))]; ok {
		return f
	}
	slog.Warn("unknown file extension, defaulting to JSON", "path", p)
	return FormatJSON
}

// ReadURI returns the raw bytes at uri: a local path, a file:// URI, an
// http(s) URL or an s3://bucket/key object.
func ReadURI(ctx context.Context, uri string) ([]byte, error) {
	uri = strings.TrimSpace(uri)
	switch {
	case uri == "":
		return nil, errors.New("uri is empty")
	case strings.HasPrefix(uri, S3URIScheme):
		return readS3(ctx, uri)
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return NewHTTPFetcher().Get(ctx, uri)
	default:
		data, err := os.ReadFile(strings.TrimPrefix(uri, fileURIScheme))
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		return data, nil
	}
}

// FromURI reads uri and decodes it, by extension, into a new T.
func FromURI[T any](ctx context.Context, uri string) (*T, error) {
	data, err := ReadURI(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", uri, err)
	}
	return Decode[T](FormatFromPath(uri), data)
}

// Decode unmarshals data into a new T. Empty input is an error.
func Decode[T any](format Format, data []byte) (*T, error) {
	var out T
	if err := unmarshal(format, data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func unmarshal(format Format, data []byte, v any) error {
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
			return fmt.Errorf("failed to decode JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
			return fmt.Errorf("failed to decode YAML: %w", err)
		}
	case FormatTable:
		return errors.New("table format is write-only")
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}

// DecodeBody decodes a request body by Content-Type. YAML media types use
// YAML; everything else, including no type, is read as JSON.
func DecodeBody(body io.Reader, contentType string, v any) error {
	if body == nil {
		return errors.New("request body cannot be nil")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return errors.New("request body is empty")
	}

	format := FormatJSON
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mt {
		case "application/yaml", "application/x-yaml", "text/yaml":
			format = FormatYAML
		}
	}
	return unmarshal(format, data, v)
}
