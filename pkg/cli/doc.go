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

// Package cli implements the expgen command-line interface.
//
// # Commands
//
// generate - Expand a round into experiment configurations:
//
//	expgen generate [flags] <gold-standard-file> <dbname>
//
// Digests the gold-standard file, stamps its absolute path, MD5 and the
// database name onto the round base, expands the round, applies its rules and
// validates the batch. Candidates are written only when the whole batch
// passes. Without --round the embedded round 4 definition is used.
//
// # Flags
//
//	--round, -r              Round definition file (default: embedded round4)
//	--output, -o             Output file path (default: stdout)
//	--format, -t             Output format: json, yaml, table (default: json)
//	--minutes-per-candidate  Estimated minutes per candidate (default: round, else 18)
//	--max-minutes            Batch ceiling in minutes, 0 disables (default: 10080)
//	--report                 Write the generation report to this file
//	--metrics-file           Write Prometheus text-format metrics to this file
//	--watch                  Regenerate on every input change (requires --output)
//	--log-level              Log level: debug, info, warn, error (default: info)
//	--help, -h               Show command help
//	--version, -v            Show version information
//
// # Output Formats
//
// JSON (default):
//   - Array of candidates, mapping keys sorted, four-space indentation
//
// YAML:
//   - Human-readable, keys sorted
//
// Table:
//   - Flattened FIELD/VALUE rows for terminal viewing
//
// # Environment Variables
//
//	LOG_LEVEL           Set logging verbosity (debug, info, warn, error)
//	EXPGEN_MAX_MINUTES  Batch ceiling when --max-minutes is not given
//
// # Exit Codes
//
//	0  Success
//	1  General error (usage, write failure, internal)
//	2  Context canceled or timeout
//	3  Batch rejected (budget exceeded or duplicate candidates)
//	4  Invalid input (gold standard file, round definition, patch shape)
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/expgen/pkg/cli.version=1.0.0'"
package cli
