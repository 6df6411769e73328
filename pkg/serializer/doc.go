// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

// Package serializer provides encoding and decoding of generated data in multiple formats.
//
// # Overview
//
// The serializer package converts candidate batches and generation reports to JSON,
// YAML or a flattened table, and loads round definitions from JSON or YAML files.
//
// # Supported Formats
//
// JSON:
//   - Machine-parseable, mapping keys sorted, four-space indentation
//   - The default candidate output
//   - Standard encoding/json package
//
// YAML:
//   - Human-readable with preserved structure
//   - gopkg.in/yaml.v3 package
//
// Table:
//   - Flattened FIELD/VALUE listing for terminal viewing
//   - Write-only (no deserialization support)
//
// # Usage - Encoding
//
//	writer, err := serializer.NewFileWriterOrStdout(serializer.FormatJSON, "candidates.json")
//	if err != nil {
//	    return err
//	}
//	defer writer.Close()
//
//	if err := writer.Serialize(ctx, candidates); err != nil {
//	    return err
//	}
//
// Serialize encodes the whole document in memory before writing, so a value
// that cannot be encoded leaves the destination empty.
//
// # Usage - Decoding
//
//	r, err := serializer.FromFile[round.Round]("round5.yaml", serializer.WithStrict())
//	if err != nil {
//	    return err
//	}
//
// # Format Detection
//
// File extension-based detection:
//   - .json → JSON
//   - .yaml, .yml → YAML
//   - .table, .txt → Table
//   - Other → JSON (default)
//
// # Error Handling
//
// Errors are returned when:
//   - Format is unknown or unsupported for the operation
//   - File cannot be opened or created
//   - Data cannot be marshaled or unmarshaled
//   - Strict decoding meets an undeclared field
package serializer
