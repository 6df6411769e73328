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

package defaults

// Budget defaults for generation batches.
const (
	// MinutesPerCandidate is the estimated run time of one bootstrap
	// experiment when a round does not declare its own estimate.
	MinutesPerCandidate = 18.0

	// MaxBatchMinutes is the operator ceiling on a whole batch: one week of
	// sequential experiment time.
	MaxBatchMinutes = 7 * 24 * 60.0
)

// Output defaults for emitted candidate sets.
const (
	// JSONIndent is the indentation of JSON output.
	JSONIndent = "    "

	// YAMLIndent is the indentation width of YAML output.
	YAMLIndent = 2
)
