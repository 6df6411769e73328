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

package generator

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Expansion metrics
	candidatesExpanded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "expgen_candidates_expanded_total",
			Help: "Total number of raw candidates produced by patch expansion",
		},
	)

	candidatesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expgen_candidates_dropped_total",
			Help: "Total number of candidates discarded by transformer rules",
		},
		[]string{"rule"},
	)

	candidatesEmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "expgen_candidates_emitted_total",
			Help: "Total number of candidates that passed validation",
		},
	)

	generationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expgen_generation_total",
			Help: "Total number of generation runs",
		},
		[]string{"status"}, // success or error
	)

	generationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "expgen_generation_duration_seconds",
			Help:    "Duration of a complete generation run in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
	)
)

// WriteMetrics writes every registered metric to path in the text exposition
// format read by the node-exporter textfile collector.
func WriteMetrics(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics to %q: %w", path, err)
	}
	return nil
}
