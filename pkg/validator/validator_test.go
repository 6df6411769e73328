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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/expgen/pkg/config"
	cnserrors "github.com/NVIDIA/expgen/pkg/errors"
	"github.com/NVIDIA/expgen/pkg/header"
)

func distinct(n int) []*config.Node {
	out := make([]*config.Node, n)
	for i := range out {
		out[i] = config.New().Set("id", i).Set("seed_facts", config.New().Set("number_to_use", 5))
	}
	return out
}

func TestValidateBudget(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		budget  Budget
		wantErr bool
	}{
		{name: "under ceiling", n: 10, budget: Budget{MinutesPerCandidate: 18, MaxMinutes: 200}},
		{name: "exactly at ceiling", n: 10, budget: Budget{MinutesPerCandidate: 18, MaxMinutes: 180}},
		{name: "over ceiling", n: 11, budget: Budget{MinutesPerCandidate: 18, MaxMinutes: 180}, wantErr: true},
		{name: "ceiling disabled", n: 1000, budget: Budget{MinutesPerCandidate: 18}},
		{name: "empty batch", n: 0, budget: Budget{MinutesPerCandidate: 18, MaxMinutes: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := New(WithVersion("test")).Validate(context.Background(), distinct(tt.n), tt.budget)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, report)
				assert.True(t, cnserrors.Is(err, cnserrors.ErrCodeBudgetExceeded))
				assert.Contains(t, err.Error(), "198.0")
				assert.Contains(t, err.Error(), "180.0")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, StatusPass, report.Summary.Status)
			assert.Equal(t, tt.n, report.Summary.Candidates)
			assert.InDelta(t, float64(tt.n)*tt.budget.MinutesPerCandidate, report.Summary.TotalMinutes, 1e-9)
			assert.Equal(t, header.KindGenerationReport, report.Kind)
			assert.Equal(t, "test", report.Metadata["version"])
		})
	}
}

func TestValidateRejectsNegativeMinutes(t *testing.T) {
	_, err := New().Validate(context.Background(), distinct(1), Budget{MinutesPerCandidate: -1})
	assert.True(t, cnserrors.Is(err, cnserrors.ErrCodeInvalidRequest))
}

func TestValidateDuplicates(t *testing.T) {
	a := config.New().Set("x", 1).Set("y", config.New().Set("z", 2).Set("w", []any{1, 2}))
	aReordered := config.New().Set("y", config.New().Set("w", []any{1, 2}).Set("z", 2)).Set("x", 1.0)
	b := config.New().Set("x", 1).Set("y", config.New().Set("z", 2).Set("w", []any{2, 1}))

	candidates := []*config.Node{a, b, aReordered, b.Clone()}
	_, err := New().Validate(context.Background(), candidates, Budget{MinutesPerCandidate: 1})
	require.Error(t, err)
	assert.True(t, cnserrors.Is(err, cnserrors.ErrCodeDuplicateCandidate))
	assert.Contains(t, err.Error(), "#2 duplicates #0")
	assert.Contains(t, err.Error(), "#3 duplicates #1")

	dups, err := FindDuplicates(context.Background(), candidates)
	require.NoError(t, err)
	require.Len(t, dups, 2)
	assert.Equal(t, 0, dups[0].First)
	assert.Equal(t, 2, dups[0].Index)
	assert.Equal(t, a.Digest(), dups[0].Digest)
}

func TestValidateDuplicatesWithNaN(t *testing.T) {
	a, err := config.FromYAML([]byte("classifier_args: {C: .nan}\n"))
	require.NoError(t, err)

	_, err = New().Validate(context.Background(), []*config.Node{a, a.Clone()}, Budget{MinutesPerCandidate: 1})
	require.Error(t, err)
	assert.True(t, cnserrors.Is(err, cnserrors.ErrCodeDuplicateCandidate))
	assert.Contains(t, err.Error(), "#1 duplicates #0")
}

func TestValidateDistinctPasses(t *testing.T) {
	candidates := []*config.Node{
		config.New().Set("s", []any{1, 2}),
		config.New().Set("s", []any{2, 1}),
		config.New().Set("s", nil),
		config.New().Set("s", config.New()),
		config.New().Set("s", "1"),
		config.New().Set("s", 1),
	}
	_, err := New().Validate(context.Background(), candidates, Budget{MinutesPerCandidate: 18, MaxMinutes: 1000})
	assert.NoError(t, err)
}

func TestDescribeTruncates(t *testing.T) {
	dups := make([]Duplicate, 15)
	for i := range dups {
		dups[i] = Duplicate{First: 0, Index: i + 1}
	}
	got := describe(dups)
	assert.Contains(t, got, "#10 duplicates #0")
	assert.NotContains(t, got, "#11 duplicates")
	assert.Contains(t, got, "and 5 more")
}

func TestFindDuplicatesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FindDuplicates(ctx, distinct(3))
	assert.ErrorIs(t, err, context.Canceled)
}

func BenchmarkFindDuplicates(b *testing.B) {
	candidates := distinct(500)
	for i := range candidates {
		candidates[i].Set("name", fmt.Sprintf("candidate-%d", i))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := FindDuplicates(context.Background(), candidates); err != nil {
			b.Fatal(err)
		}
	}
}
