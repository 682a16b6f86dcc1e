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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// scalarKey labels a top-level value that has no field name in table output.
const scalarKey = "value"

// Writer encodes documents as JSON, YAML or a FIELD/VALUE table.
type Writer struct {
	format Format
	output io.Writer
	closer io.Closer
}

// resolveFormat maps unknown formats to JSON.
func resolveFormat(f Format) Format {
	if f.IsUnknown() {
		slog.Warn("unknown format, defaulting to JSON", "format", f)
		return FormatJSON
	}
	return f
}

// NewWriter returns a Writer on output, or on stdout when output is nil.
func NewWriter(format Format, output io.Writer) *Writer {
	if output == nil {
		output = os.Stdout
	}
	return &Writer{format: resolveFormat(format), output: output}
}

// NewStdoutWriter returns a Writer on stdout.
func NewStdoutWriter(format Format) *Writer {
	return NewWriter(format, os.Stdout)
}

// NewFileWriterOrStdout returns a Writer that creates path, or writes to
// stdout when path is blank or cannot be created. Close releases the file.
func NewFileWriterOrStdout(format Format, path string) *Writer {
	path = strings.TrimSpace(path)
	if path == "" {
		return NewStdoutWriter(format)
	}

	f, err := os.Create(path)
	if err != nil {
		slog.Error("cannot create output file, writing to stdout", "path", path, "error", err)
		return NewStdoutWriter(format)
	}

	w := NewWriter(format, f)
	w.closer = f
	return w
}

// Close closes the output file, if any. It is safe to call more than once.
func (w *Writer) Close() error {
	if w.closer == nil {
		return nil
	}
	c := w.closer
	w.closer = nil
	return c.Close()
}

// Serialize writes v. Local writes do not block on ctx.
func (w *Writer) Serialize(_ context.Context, v any) error {
	var err error
	switch w.format {
	case FormatJSON:
		enc := json.NewEncoder(w.output)
		enc.SetIndent("", "  ")
		err = enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w.output)
		enc.SetIndent(2)
		err = enc.Encode(v)
		if err == nil {
			err = enc.Close()
		}
	case FormatTable:
		err = w.writeTable(v)
	default:
		return fmt.Errorf("unsupported format: %s", w.format)
	}
	if err != nil {
		return fmt.Errorf("failed to serialize to %s: %w", w.format, err)
	}
	return nil
}

// writeTable prints v flattened into dotted keys, one row per leaf, sorted.
func (w *Writer) writeTable(v any) error {
	rows := map[string]any{}
	flatten(rows, "", reflect.ValueOf(v))
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w.output, "<empty>")
		return err
	}

	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	tw := tabwriter.NewWriter(w.output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE")
	fmt.Fprintln(tw, "-----\t-----")
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%v\n", k, rows[k])
	}
	return tw.Flush()
}

func flatten(rows map[string]any, key string, v reflect.Value) {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			if key != "" {
				rows[key] = nil
			}
			return
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return
	}

	//nolint:exhaustive // leaves fall through to default
	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			if name, ok := columnName(f); ok {
				flatten(rows, dotted(key, name), v.Field(i))
			}
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			flatten(rows, dotted(key, fmt.Sprint(iter.Key().Interface())), iter.Value())
		}
	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			flatten(rows, dotted(key, fmt.Sprintf("[%d]", i)), v.Index(i))
		}
	default:
		if key == "" {
			key = scalarKey
		}
		rows[key] = v.Interface()
	}
}

// columnName follows the json tag so table keys match JSON output. Untagged
// embedded structs are inlined; json:"-" fields are dropped.
func columnName(f reflect.StructField) (string, bool) {
	tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch {
	case tag == "-":
		return "", false
	case tag != "":
		return tag, true
	case f.Anonymous:
		return "", true
	default:
		return f.Name, true
	}
}

func dotted(prefix, name string) string {
	switch {
	case prefix == "":
		return name
	case name == "":
		return prefix
	default:
		return prefix + "." + name
	}
}
