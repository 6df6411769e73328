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

package validator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/NVIDIA/expgen/pkg/config"
	cnserrors "github.com/NVIDIA/expgen/pkg/errors"
	"github.com/NVIDIA/expgen/pkg/header"
)

// Budget is the estimated cost of running a batch of candidates.
type Budget struct {
	// MinutesPerCandidate is the estimated run time of one candidate.
	MinutesPerCandidate float64 `json:"minutes_per_candidate" yaml:"minutes_per_candidate"`

	// MaxMinutes is the ceiling on the whole batch. Zero or negative disables it.
	MaxMinutes float64 `json:"max_minutes" yaml:"max_minutes"`
}

// Total returns the estimated cost of n candidates.
func (b Budget) Total(n int) float64 {
	return float64(n) * b.MinutesPerCandidate
}

// Exceeded reports whether n candidates are over the ceiling.
func (b Budget) Exceeded(n int) bool {
	return b.MaxMinutes > 0 && b.Total(n) > b.MaxMinutes
}

// Validator gates a materialized candidate set before it is emitted.
type Validator struct {
	// Version is the validator version (typically the CLI version).
	Version string
}

// Option is a functional option for configuring Validator instances.
type Option func(*Validator)

// WithVersion returns an Option that sets the Validator version string.
func WithVersion(version string) Option {
	return func(v *Validator) {
		v.Version = version
	}
}

// New creates a new Validator with the provided options.
func New(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks the whole candidate set against the budget and for
// duplicates. Any violation fails the batch: the report is only returned when
// every check passes.
func (v *Validator) Validate(ctx context.Context, candidates []*config.Node, budget Budget) (*Report, error) {
	start := time.Now()

	if budget.MinutesPerCandidate < 0 {
		return nil, cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
			"minutes per candidate cannot be negative",
			map[string]any{"minutesPerCandidate": budget.MinutesPerCandidate})
	}

	report := NewReport()
	report.Init(header.KindGenerationReport, header.APIVersion, v.Version)
	report.Summary.Candidates = len(candidates)
	report.Summary.MinutesPerCandidate = budget.MinutesPerCandidate
	report.Summary.TotalMinutes = budget.Total(len(candidates))
	report.Summary.MaxMinutes = budget.MaxMinutes

	if budget.Exceeded(len(candidates)) {
		return nil, cnserrors.NewWithContext(cnserrors.ErrCodeBudgetExceeded,
			fmt.Sprintf("estimated batch cost %.1f minutes exceeds limit of %.1f minutes (%d candidates x %.1f minutes)",
				report.Summary.TotalMinutes, budget.MaxMinutes, len(candidates), budget.MinutesPerCandidate),
			map[string]any{
				"candidates":   len(candidates),
				"totalMinutes": report.Summary.TotalMinutes,
				"maxMinutes":   budget.MaxMinutes,
			})
	}

	dups, err := FindDuplicates(ctx, candidates)
	if err != nil {
		return nil, err
	}
	if len(dups) > 0 {
		return nil, cnserrors.NewWithContext(cnserrors.ErrCodeDuplicateCandidate,
			fmt.Sprintf("%d duplicate candidates: %s", len(dups), describe(dups)),
			map[string]any{"duplicates": dups})
	}

	report.Summary.Status = StatusPass
	report.Summary.Duration = time.Since(start)

	slog.Debug("validation completed",
		"candidates", report.Summary.Candidates,
		"totalMinutes", report.Summary.TotalMinutes,
		"maxMinutes", report.Summary.MaxMinutes,
		"duration", report.Summary.Duration)

	return report, nil
}

// FindDuplicates returns every candidate that is structurally equal to an
// earlier one, paired with the index of its first occurrence.
func FindDuplicates(ctx context.Context, candidates []*config.Node) ([]Duplicate, error) {
	buckets := make(map[string][]int, len(candidates))
	var dups []Duplicate

	for i, c := range candidates {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		digest := c.Digest()
		for _, j := range buckets[digest] {
			if candidates[j].Equal(c) {
				dups = append(dups, Duplicate{First: j, Index: i, Digest: digest})
				break
			}
		}
		buckets[digest] = append(buckets[digest], i)
	}
	return dups, nil
}

const maxDescribed = 10

func describe(dups []Duplicate) string {
	parts := make([]string, 0, min(len(dups), maxDescribed)+1)
	for i, d := range dups {
		if i == maxDescribed {
			parts = append(parts, fmt.Sprintf("and %d more", len(dups)-maxDescribed))
			break
		}
		parts = append(parts, fmt.Sprintf("#%d duplicates #%d", d.Index, d.First))
	}
	return strings.Join(parts, ", ")
}
