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
)

// ErrorCode classifies a failure for callers and for HTTP status mapping.
type ErrorCode string

// Transport and platform codes.
const (
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	ErrCodeTimeout           ErrorCode = "TIMEOUT"
	ErrCodeInternal          ErrorCode = "INTERNAL"
	ErrCodeInvalidRequest    ErrorCode = "INVALID_REQUEST"
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	ErrCodeMethodNotAllowed  ErrorCode = "METHOD_NOT_ALLOWED"
	ErrCodeUnavailable       ErrorCode = "SERVICE_UNAVAILABLE"
)

// Recommendation codes.
const (
	// ErrCodeInvalidInput marks a soil sample or crop query outside its
	// allowed range. Context carries the offending field.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrCodeModelUnavailable means the suitability model is not loaded or
	// failed to predict.
	ErrCodeModelUnavailable ErrorCode = "MODEL_UNAVAILABLE"

	// ErrCodeUpstreamUnavailable marks a weather or market lookup that
	// failed. It is logged and counted; recommendations fall back instead
	// of returning it.
	ErrCodeUpstreamUnavailable ErrorCode = "UPSTREAM_DATA_UNAVAILABLE"
)

// StructuredError is an error with a code, a message safe to show callers,
// an optional cause and optional key/value context.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

func (e *StructuredError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
}

func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New returns an error with code and message.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{Code: code, Message: message}
}

// NewWithContext is New with context attached.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	e := New(code, message)
	e.Context = context
	return e
}

// Wrap returns an error with code and message caused by cause.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	e := New(code, message)
	e.Cause = cause
	return e
}

// WrapWithContext is Wrap with context attached.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	e := Wrap(code, message, cause)
	e.Context = context
	return e
}

// CodeOf returns the code of the outermost StructuredError in err's chain,
// or "" if there is none.
func CodeOf(err error) ErrorCode {
	if se, ok := asStructured(err); ok {
		return se.Code
	}
	return ""
}

// IsCode reports whether any StructuredError in err's chain carries code,
// including ones nested as causes of other StructuredErrors.
func IsCode(err error, code ErrorCode) bool {
	for err != nil {
		se, ok := asStructured(err)
		if !ok {
			return false
		}
		if se.Code == code {
			return true
		}
		err = se.Cause
	}
	return false
}

// ContextValue returns the first value stored under key by a
// StructuredError in err's chain.
func ContextValue(err error, key string) (any, bool) {
	for err != nil {
		se, ok := asStructured(err)
		if !ok {
			return nil, false
		}
		if v, ok := se.Context[key]; ok {
			return v, true
		}
		err = se.Cause
	}
	return nil, false
}

func asStructured(err error) (*StructuredError, bool) {
	var se *StructuredError
	ok := errors.As(err, &se)
	return se, ok
}
