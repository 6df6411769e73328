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

// Package header provides the common header for expgen documents.
//
// Round definitions and generation reports both start with a Kubernetes-style
// header:
//
//	kind: Round
//	apiVersion: expgen.nvidia.com/v1alpha1
//	metadata:
//	  name: round4
//
// Create a header for a report:
//
//	var h header.Header
//	h.Init(header.KindGenerationReport, header.APIVersion, version)
//
// Verify a decoded document:
//
//	if err := r.Header.Check(header.KindRound); err != nil {
//	    return err
//	}
package header
