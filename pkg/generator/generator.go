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
	"context"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/NVIDIA/expgen/pkg/checksum"
	"github.com/NVIDIA/expgen/pkg/config"
	"github.com/NVIDIA/expgen/pkg/defaults"
	cnserrors "github.com/NVIDIA/expgen/pkg/errors"
	"github.com/NVIDIA/expgen/pkg/patch"
	"github.com/NVIDIA/expgen/pkg/round"
	"github.com/NVIDIA/expgen/pkg/transform"
	"github.com/NVIDIA/expgen/pkg/validator"
)

// Keys stamped onto the base configuration of every run.
const (
	KeyInputFilePath = "input_file_path"
	KeyInputFileMD5  = "input_file_md5"
	KeyDatabaseName  = "database_name"
)

// Input identifies what a batch is generated against.
type Input struct {
	// GoldStandard is the digested gold-standard file.
	GoldStandard *checksum.FileDigest

	// DatabaseName names the database every candidate runs against.
	DatabaseName string
}

// Result is a validated candidate batch.
type Result struct {
	Candidates []*config.Node
	Report     *validator.Report
}

// Generator runs expansion, transformation and validation for a round.
type Generator struct {
	// Version is the generator version (typically the CLI version).
	Version string

	budget *validator.Budget
	rules  []transform.Rule
}

// Option is a functional option for configuring Generator instances.
type Option func(*Generator)

// WithVersion returns an Option that sets the Generator version string.
func WithVersion(version string) Option {
	return func(g *Generator) {
		g.Version = version
	}
}

// WithBudget returns an Option that fixes the budget, ignoring any budget
// declared by the round.
func WithBudget(b validator.Budget) Option {
	return func(g *Generator) {
		g.budget = &b
	}
}

// WithRules returns an Option that replaces the default transformer rules.
func WithRules(rules ...transform.Rule) Option {
	return func(g *Generator) {
		g.rules = rules
	}
}

// New creates a new Generator with the provided options.
func New(opts ...Option) *Generator {
	g := &Generator{
		rules: transform.DefaultRules(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// DefaultBudget returns the budget used when neither the round nor the caller
// declares one.
func DefaultBudget() validator.Budget {
	return validator.Budget{
		MinutesPerCandidate: defaults.MinutesPerCandidate,
		MaxMinutes:          defaults.MaxBatchMinutes,
	}
}

// Budget returns the budget a run of r is validated against.
func (g *Generator) Budget(r *round.Round) validator.Budget {
	if g.budget != nil {
		return *g.budget
	}
	return r.EffectiveBudget(DefaultBudget())
}

// Generate produces the validated candidate batch for r. Nothing is returned
// unless the whole batch passes validation.
func (g *Generator) Generate(ctx context.Context, r *round.Round, in Input) (*Result, error) {
	start := time.Now()

	res, err := g.generate(ctx, r, in)

	generationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		generationTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	generationTotal.WithLabelValues("success").Inc()
	candidatesEmitted.Add(float64(len(res.Candidates)))

	slog.Info("generation completed",
		"round", r.Name(),
		"runId", res.Report.RunID,
		"expanded", res.Report.Summary.Expanded,
		"candidates", res.Report.Summary.Candidates,
		"totalMinutes", res.Report.Summary.TotalMinutes,
		"duration", time.Since(start))

	return res, nil
}

func (g *Generator) generate(ctx context.Context, r *round.Round, in Input) (*Result, error) {
	if r == nil {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "round cannot be nil")
	}
	if in.GoldStandard == nil {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "gold standard input is required")
	}
	if in.DatabaseName == "" {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "database name is required")
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	base := r.Base.Clone().
		Set(KeyInputFilePath, in.GoldStandard.Path).
		Set(KeyInputFileMD5, in.GoldStandard.MD5).
		Set(KeyDatabaseName, in.DatabaseName)

	resolved, err := patch.Resolve(base, r.FullPatch())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve patch of round %q: %w", r.Name(), err)
	}

	slog.Debug("expanding round",
		"round", r.Name(),
		"keys", resolved.Keys(),
		"combinations", resolved.Combinations())

	seq, err := patch.Expand(base, resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to expand round %q: %w", r.Name(), err)
	}

	dropped := make(map[string]int)
	t := transform.New(g.rules, transform.WithDropObserver(func(rule string) {
		dropped[rule]++
		candidatesDropped.WithLabelValues(rule).Inc()
	}))

	expanded := 0
	counted := countExpanded(ctx, seq, &expanded)

	candidates := make([]*config.Node, 0)
	for c, err := range t.Stream(counted) {
		if err != nil {
			return nil, fmt.Errorf("failed to transform candidate %d: %w", expanded-1, err)
		}
		candidates = append(candidates, c)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generation canceled after %d candidates: %w", expanded, err)
	}

	report, err := validator.New(validator.WithVersion(g.Version)).
		Validate(ctx, candidates, g.Budget(r))
	if err != nil {
		return nil, fmt.Errorf("candidate batch of round %q rejected: %w", r.Name(), err)
	}

	report.RunID = uuid.NewString()
	report.Source = r.Name()
	report.Summary.Expanded = expanded
	for rule, n := range dropped {
		report.Dropped[rule] = n
	}

	return &Result{Candidates: candidates, Report: report}, nil
}

// countExpanded passes seq through, counting yielded candidates and stopping
// early once ctx is done.
func countExpanded(ctx context.Context, seq iter.Seq[*config.Node], n *int) iter.Seq[*config.Node] {
	return func(yield func(*config.Node) bool) {
		for c := range seq {
			if ctx.Err() != nil {
				return
			}
			*n++
			candidatesExpanded.Inc()
			if !yield(c) {
				return
			}
		}
	}
}
