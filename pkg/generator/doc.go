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

// Package generator turns a round definition into a validated batch of
// experiment configurations.
//
// A run stamps the input file path, its MD5 and the database name onto the
// round base, prepends the classifier presets as the outermost varying key,
// resolves nested patches, and streams the expansion through the transformer
// before the whole batch is validated:
//
//	g := generator.New(generator.WithVersion(version))
//	res, err := g.Generate(ctx, r, generator.Input{GoldStandard: digest, DatabaseName: "db"})
//	if err != nil {
//	    return err // nothing is emitted for a rejected batch
//	}
//
// Run counters and durations are registered with the default Prometheus
// registry and can be exported with WriteMetrics.
package generator
