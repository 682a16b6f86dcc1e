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
package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("connection refused")
	ctx := map[string]any{"provider": "openweather", "location": "Thanjavur"}

	tests := []struct {
		name      string
		err       *StructuredError
		wantCode  ErrorCode
		wantCause error
		wantCtx   map[string]any
	}{
		{"new", New(ErrCodeNotFound, "crop not found"), ErrCodeNotFound, nil, nil},
		{"new with context", NewWithContext(ErrCodeInvalidInput, "ph out of range", map[string]any{"field": "ph"}),
			ErrCodeInvalidInput, nil, map[string]any{"field": "ph"}},
		{"wrap", Wrap(ErrCodeModelUnavailable, "predict failed", cause), ErrCodeModelUnavailable, cause, nil},
		{"wrap with context", WrapWithContext(ErrCodeUpstreamUnavailable, "weather lookup failed", cause, ctx),
			ErrCodeUpstreamUnavailable, cause, ctx},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.wantCtx, tt.err.Context)
			if tt.wantCause == nil {
				assert.Nil(t, tt.err.Cause)
				return
			}
			assert.ErrorIs(t, tt.err, tt.wantCause)
			assert.Same(t, tt.wantCause, tt.err.Unwrap())
		})
	}
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "[NOT_FOUND] no fertilizer for crop",
		New(ErrCodeNotFound, "no fertilizer for crop").Error())
	assert.Equal(t, "[INTERNAL] load prices: disk full",
		Wrap(ErrCodeInternal, "load prices", errors.New("disk full")).Error())
}

func TestCodeOf(t *testing.T) {
	inner := New(ErrCodeModelUnavailable, "model not loaded")
	outer := Wrap(ErrCodeInternal, "recommend", inner)

	assert.Equal(t, ErrCodeModelUnavailable, CodeOf(fmt.Errorf("handler: %w", inner)))
	assert.Equal(t, ErrCodeInternal, CodeOf(outer))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}

func TestIsCode(t *testing.T) {
	inner := New(ErrCodeTimeout, "weather lookup timed out")
	chain := fmt.Errorf("recommend: %w", Wrap(ErrCodeUpstreamUnavailable, "weather", inner))

	assert.True(t, IsCode(chain, ErrCodeUpstreamUnavailable))
	assert.True(t, IsCode(chain, ErrCodeTimeout))
	assert.False(t, IsCode(chain, ErrCodeInvalidInput))
	assert.False(t, IsCode(errors.New("plain"), ErrCodeInternal))
	assert.False(t, IsCode(nil, ErrCodeInternal))
}

func TestContextValue(t *testing.T) {
	inner := NewWithContext(ErrCodeInvalidInput, "n must be non-negative", map[string]any{"field": "n", "value": -5.0})
	outer := WrapWithContext(ErrCodeInvalidRequest, "bad sample", inner, map[string]any{"source": "form"})
	err := fmt.Errorf("cli: %w", outer)

	v, ok := ContextValue(err, "source")
	require.True(t, ok)
	assert.Equal(t, "form", v)

	v, ok = ContextValue(err, "field")
	require.True(t, ok)
	assert.Equal(t, "n", v)

	_, ok = ContextValue(err, "crop")
	assert.False(t, ok)

	_, ok = ContextValue(errors.New("plain"), "field")
	assert.False(t, ok)
}

func TestErrorsAsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(ErrCodeRateLimitExceeded, "slow down"))

	var se *StructuredError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ErrCodeRateLimitExceeded, se.Code)
	assert.Equal(t, "slow down", se.Message)
}
