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

package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	cwerrors "github.com/agrosense/cropwise/pkg/errors"
	"github.com/agrosense/cropwise/pkg/serializer"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId"`
	Timestamp time.Time      `json:"timestamp"`
	Retryable bool           `json:"retryable"`
}

// WriteError writes a structured error response with the given status.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code cwerrors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID := RequestIDFrom(r)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	errResp := ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	}

	serializer.RespondJSON(w, statusCode, errResp)
}

// WriteErrorFromErr maps err to a response. A StructuredError keeps its code,
// message and context; anything else becomes INTERNAL with fallbackMsg.
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error, fallbackMsg string, extraDetails map[string]any) {
	var se *cwerrors.StructuredError
	if errors.As(err, &se) {
		details := mergeDetails(se.Context, extraDetails)
		if se.Cause != nil {
			if details == nil {
				details = map[string]any{}
			}
			details["error"] = se.Cause.Error()
		}
		WriteError(w, r, HTTPStatusFromCode(se.Code), se.Code, se.Message, retryableFromCode(se.Code), details)
		return
	}

	details := mergeDetails(nil, extraDetails)
	if err != nil {
		if details == nil {
			details = map[string]any{}
		}
		details["error"] = err.Error()
	}
	WriteError(w, r, http.StatusInternalServerError, cwerrors.ErrCodeInternal, fallbackMsg, true, details)
}

// HTTPStatusFromCode returns the HTTP status for a structured error code.
func HTTPStatusFromCode(code cwerrors.ErrorCode) int {
	switch code {
	case cwerrors.ErrCodeInvalidRequest, cwerrors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case cwerrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case cwerrors.ErrCodeNotFound:
		return http.StatusNotFound
	case cwerrors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case cwerrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case cwerrors.ErrCodeUnavailable, cwerrors.ErrCodeModelUnavailable:
		return http.StatusServiceUnavailable
	case cwerrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func retryableFromCode(code cwerrors.ErrorCode) bool {
	switch code {
	case cwerrors.ErrCodeTimeout, cwerrors.ErrCodeUnavailable, cwerrors.ErrCodeModelUnavailable,
		cwerrors.ErrCodeRateLimitExceeded, cwerrors.ErrCodeInternal:
		return true
	default:
		return false
	}
}

func mergeDetails(a, b map[string]any) map[string]any {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
