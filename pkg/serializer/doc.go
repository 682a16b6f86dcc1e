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

// Package serializer reads and writes cropwise documents and data artifacts.
//
// # Output
//
// Three output formats are supported:
//   - JSON: Machine-readable structured data with proper indentation
//   - YAML: Human-readable configuration format
//   - Table: Flattened FIELD/VALUE rows for terminals
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatYAML, "plan.yaml")
//	defer w.Close()
//	if err := w.Serialize(ctx, plan); err != nil {
//		return err
//	}
//
// For HTTP responses:
//
//	serializer.RespondJSON(w, http.StatusOK, rec)
//
// # Input
//
// Artifacts such as the crop model, fertilizer catalog and price snapshots
// are addressed by URI:
//
//   - Local paths: /etc/cropwise/model.yaml, ./catalog.yaml, file:///srv/prices.yaml
//   - HTTP(S): https://artifacts.example.com/model.yaml
//   - Object storage: s3://bucket/models/crop-nb.yaml
//
// The format is detected from the path extension:
//
//	model, err := serializer.FromURI[oracle.ModelFile](ctx, "s3://models/crop-nb.yaml")
//
// S3 access uses the default AWS credential chain unless SetS3Options
// supplies an explicit region, endpoint or static keys (for MinIO and tests).
package serializer
