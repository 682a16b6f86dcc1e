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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type testDose struct {
	Product  string  `json:"product" yaml:"product"`
	Quantity float64 `json:"quantity" yaml:"quantity"`
}

type Meta struct {
	Kind string `json:"kind" yaml:"kind"`
}

type testPlan struct {
	Meta     `yaml:",inline"`
	Doses    []testDose `json:"doses" yaml:"doses"`
	Internal string     `json:"-" yaml:"-"`
	Note     string
}

func TestWriter_SerializeJSON(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatJSON, &buf)

	data := []testDose{
		{Product: "DAP", Quantity: 108.7},
		{Product: "Urea", Quantity: 174.85},
	}

	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var result []testDose
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}

	if len(result) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(result))
	}
	if result[1].Product != "Urea" || result[1].Quantity != 174.85 {
		t.Errorf("Unexpected data: %+v", result[1])
	}
}

func TestWriter_SerializeYAML(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatYAML, &buf)

	if err := writer.Serialize(context.Background(), testDose{Product: "MOP", Quantity: 50}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var result testDose
	if err := yaml.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal YAML: %v", err)
	}
	if result.Product != "MOP" || result.Quantity != 50 {
		t.Errorf("Unexpected data: %+v", result)
	}
}

func TestWriter_SerializeTable(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	plan := testPlan{
		Meta:     Meta{Kind: "FertilizerPlan"},
		Doses:    []testDose{{Product: "DAP", Quantity: 108.7}},
		Internal: "hidden",
		Note:     "basal",
	}

	if err := writer.Serialize(context.Background(), plan); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"FIELD", "kind", "FertilizerPlan", "doses.[0].product", "DAP", "Note", "basal"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected table output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("expected json:\"-\" field to be skipped, got:\n%s", out)
	}
}

func TestWriter_SerializeTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(FormatTable, &buf).Serialize(context.Background(), struct{}{}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "<empty>" {
		t.Errorf("expected <empty>, got %q", buf.String())
	}
}

func TestNewWriter_UnknownFormatDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(Format("xml"), &buf)
	if w.format != FormatJSON {
		t.Errorf("expected JSON fallback, got %s", w.format)
	}
}

func TestNewFileWriterOrStdout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")

	w := NewFileWriterOrStdout(FormatJSON, path)
	if err := w.Serialize(context.Background(), testDose{Product: "Urea", Quantity: 1}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !strings.Contains(string(data), "Urea") {
		t.Errorf("expected file to contain Urea, got %s", data)
	}
}

func TestNewFileWriterOrStdout_EmptyPathUsesStdout(t *testing.T) {
	w := NewFileWriterOrStdout(FormatYAML, "  ")
	if w.output != os.Stdout {
		t.Error("expected stdout writer")
	}
	if w.closer != nil {
		t.Error("expected no closer for stdout")
	}
}

func TestSupportedFormats(t *testing.T) {
	got := SupportedFormats()
	if len(got) != 3 {
		t.Fatalf("expected 3 formats, got %v", got)
	}
	for _, f := range got {
		if Format(f).IsUnknown() {
			t.Errorf("format %q reported unknown", f)
		}
	}
}
