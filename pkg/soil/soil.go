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

package soil

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	cwerrors "github.com/agrosense/cropwise/pkg/errors"
)

const (
	// DefaultPH is applied by request parsers when pH is omitted.
	DefaultPH = 6.5

	// DefaultType is the soil type echoed when none is supplied.
	DefaultType = "Loamy"

	// MaxPH is the upper bound of the pH scale.
	MaxPH = 14.0
)

// Sample is a single soil nutrient reading.
type Sample struct {
	N  float64 `json:"n" yaml:"n" validate:"gte=0"`
	P  float64 `json:"p" yaml:"p" validate:"gte=0"`
	K  float64 `json:"k" yaml:"k" validate:"gte=0"`
	PH float64 `json:"ph" yaml:"ph" validate:"gte=0,lte=14"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks that N, P and K are non-negative and pH lies in [0, 14].
// The returned error has code INVALID_INPUT and names the violated constraint.
func (s Sample) Validate() error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return cwerrors.Wrap(cwerrors.ErrCodeInvalidInput, "invalid soil sample", err)
	}

	fe := fieldErrs[0]
	msg := constraintMessage(fe)
	return cwerrors.NewWithContext(cwerrors.ErrCodeInvalidInput, msg, map[string]any{
		"field":      fe.Field(),
		"constraint": fe.Tag() + "=" + fe.Param(),
		"value":      fe.Value(),
	})
}

func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return fmt.Sprintf("soil %s must be greater than or equal to %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("soil %s must be less than or equal to %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("soil %s failed %s constraint", fe.Field(), fe.Tag())
	}
}

// String renders the sample for logs.
func (s Sample) String() string {
	return fmt.Sprintf("N=%g P=%g K=%g pH=%g", s.N, s.P, s.K, s.PH)
}
