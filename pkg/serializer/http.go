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
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/agrosense/cropwise/pkg/defaults"
)

// RespondJSON encodes data and writes it with statusCode. Encoding happens
// before any header is written, so a value that cannot be encoded yields a
// clean 500 instead of a truncated body.
func RespondJSON(w http.ResponseWriter, statusCode int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		slog.Error("json encoding failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("response write failed", "error", err)
	}
}

const (
	// FetcherUserAgent identifies cropwise to model servers and data APIs.
	FetcherUserAgent = "cropwise/1.0"

	// FetcherMaxBodyBytes caps any payload read over HTTP.
	FetcherMaxBodyBytes = 64 << 20
)

// HTTPFetcher talks to the remote model server and the weather and market
// APIs. Only 200 responses count as success.
type HTTPFetcher struct {
	timeout time.Duration
	client  *http.Client
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithFetchTimeout bounds each exchange end to end.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// NewHTTPFetcher returns a fetcher on a tuned transport.
func NewHTTPFetcher(opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{timeout: defaults.HTTPClientTimeout}
	for _, opt := range opts {
		opt(f)
	}
	f.client = &http.Client{Timeout: f.timeout, Transport: fetcherTransport()}
	return f
}

func fetcherTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   defaults.HTTPConnectTimeout,
		KeepAlive: defaults.HTTPKeepAlive,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       defaults.HTTPIdleConnTimeout,
		TLSHandshakeTimeout:   defaults.HTTPTLSHandshakeTimeout,
		ResponseHeaderTimeout: defaults.HTTPResponseHeaderTimeout,
		ExpectContinueTimeout: defaults.HTTPExpectContinueTimeout,
		TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
	}
}

// Timeout is the per-exchange limit.
func (f *HTTPFetcher) Timeout() time.Duration {
	return f.timeout
}

// Get fetches url and returns the body.
func (f *HTTPFetcher) Get(ctx context.Context, url string) ([]byte, error) {
	return f.exchange(ctx, http.MethodGet, url, nil)
}

// PostJSON sends in as JSON and returns the raw response body.
func (f *HTTPFetcher) PostJSON(ctx context.Context, url string, in any) ([]byte, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return f.exchange(ctx, http.MethodPost, url, body)
}

func (f *HTTPFetcher) exchange(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	if url == "" {
		return nil, errors.New("url is empty")
	}

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s %s: %w", method, url, err)
	}
	req.Header.Set("User-Agent", FetcherUserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s %s: unexpected status %s", method, url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, FetcherMaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}

// RedactSecret replaces every raw or query-escaped occurrence of secret in
// err. Transport errors embed the request URL, API keys included.
func RedactSecret(err error, secret string) error {
	if err == nil || secret == "" {
		return err
	}
	msg := strings.ReplaceAll(err.Error(), url.QueryEscape(secret), "REDACTED")
	return errors.New(strings.ReplaceAll(msg, secret, "REDACTED"))
}
