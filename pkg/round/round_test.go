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

package round

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/expgen/pkg/config"
	cnserrors "github.com/NVIDIA/expgen/pkg/errors"
	"github.com/NVIDIA/expgen/pkg/header"
	"github.com/NVIDIA/expgen/pkg/patch"
	"github.com/NVIDIA/expgen/pkg/validator"
)

const minimalRound = `kind: Round
apiVersion: expgen.nvidia.com/v1alpha1
metadata:
  name: tiny
base:
  answers_per_round: 5
  prediction_config:
    method: predict
patch:
  - key: answers_per_round
    alternatives: [3, 5]
  - key: prediction_config
    patch:
      - key: method
        alternatives: [predict, predict_proba]
`

func TestDefault(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	assert.Equal(t, DefaultName, r.Name())
	assert.Equal(t, header.KindRound, r.Kind)
	require.NotNil(t, r.Presets)
	assert.Equal(t, "classifier_config", r.Presets.Key)
	assert.Len(t, r.Presets.Values, 3)
	require.NotNil(t, r.Budget)
	assert.InDelta(t, 18.0, r.Budget.MinutesPerCandidate, 1e-9)

	// Base keys keep document order.
	keys := r.Base.Keys()
	require.NotEmpty(t, keys)
	assert.Equal(t, "experiment", keys[0])
	assert.Equal(t, "classifier_config", keys[len(keys)-1])
}

func TestDefaultFeaturesAreIndependentCopies(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	first, ok := r.Presets.Values[0].Lookup(config.Path{"features"})
	require.True(t, ok)
	second, ok := r.Presets.Values[1].Lookup(config.Path{"features"})
	require.True(t, ok)
	assert.True(t, config.ValuesEqual(first, second))

	list := first.([]any)
	require.Len(t, list, 18)
	list[0] = "mutated"

	again, _ := r.Presets.Values[1].Lookup(config.Path{"features"})
	assert.Equal(t, "BagOfVerbLemmas False", again.([]any)[0])
}

func TestDefaultCombinations(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	full := r.FullPatch()
	assert.Equal(t, []string{
		"classifier_config",
		"answers_per_round",
		"prediction_config",
		"fact_threshold_distance",
		"evidence_threshold_distance",
		"questions_sorting",
		"seed_facts",
	}, full.Keys())

	resolved, err := patch.Resolve(r.Base, full)
	require.NoError(t, err)
	assert.Equal(t, 576, resolved.Combinations())

	seq, err := patch.Expand(r.Base, resolved)
	require.NoError(t, err)
	assert.Len(t, slices.Collect(seq), 576)
}

func TestFullPatchWithoutPresets(t *testing.T) {
	r, err := Parse([]byte(minimalRound))
	require.NoError(t, err)

	assert.Equal(t, []string{"answers_per_round", "prediction_config"}, r.FullPatch().Keys())
	assert.Nil(t, r.Budget)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code cnserrors.ErrorCode
	}{
		{
			name: "unknown field",
			doc:  minimalRound + "surprise: true\n",
			code: cnserrors.ErrCodeInvalidRequest,
		},
		{
			name: "wrong kind",
			doc:  "kind: GenerationReport\nbase: {a: 1}\npatch: []\n",
			code: cnserrors.ErrCodeInvalidRequest,
		},
		{
			name: "unknown kind",
			doc:  "kind: Experiment\nbase: {a: 1}\npatch: []\n",
			code: cnserrors.ErrCodeInvalidRequest,
		},
		{
			name: "missing kind",
			doc:  "base: {a: 1}\npatch: []\n",
			code: cnserrors.ErrCodeInvalidRequest,
		},
		{
			name: "missing base",
			doc:  "kind: Round\npatch: []\n",
			code: cnserrors.ErrCodeInvalidRequest,
		},
		{
			name: "empty alternatives",
			doc:  "kind: Round\nbase: {a: 1}\npatch:\n  - key: a\n    alternatives: []\n",
			code: cnserrors.ErrCodePatchShape,
		},
		{
			name: "entry with neither form",
			doc:  "kind: Round\nbase: {a: 1}\npatch:\n  - key: a\n",
			code: cnserrors.ErrCodePatchShape,
		},
		{
			name: "preset key also patched",
			doc: "kind: Round\nbase: {a: 1}\n" +
				"presets:\n  key: a\n  values: [{x: 1}]\n" +
				"patch:\n  - key: a\n    alternatives: [1]\n",
			code: cnserrors.ErrCodePatchShape,
		},
		{
			name: "presets without values",
			doc:  "kind: Round\nbase: {a: 1}\npresets:\n  key: c\n  values: []\npatch: []\n",
			code: cnserrors.ErrCodePatchShape,
		},
		{
			name: "presets without key",
			doc:  "kind: Round\nbase: {a: 1}\npresets:\n  values: [{x: 1}]\npatch: []\n",
			code: cnserrors.ErrCodePatchShape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, cnserrors.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestEmbeddedUnknown(t *testing.T) {
	_, err := Embedded("round99")
	require.Error(t, err)
	assert.True(t, cnserrors.Is(err, cnserrors.ErrCodeNotFound))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "tiny.yaml")
		require.NoError(t, os.WriteFile(path, []byte(minimalRound), 0o600))

		r, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "tiny", r.Name())
		assert.Equal(t, 2, r.Patch.Len())
	})

	t.Run("json", func(t *testing.T) {
		doc := `{"kind": "Round", "metadata": {"name": "j"},
			"base": {"a": 1},
			"patch": [{"key": "a", "alternatives": [1, 2]}],
			"budget": {"minutes_per_candidate": 2, "max_minutes": 10}}`
		path := filepath.Join(dir, "j.json")
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

		r, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "j", r.Name())
		assert.Equal(t, 2, r.FullPatch().Combinations())
		require.NotNil(t, r.Budget)
		assert.InDelta(t, 10.0, r.Budget.MaxMinutes, 1e-9)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "nope.yaml"))
		require.Error(t, err)
		assert.True(t, cnserrors.Is(err, cnserrors.ErrCodeInvalidRequest))
	})

	t.Run("unknown field", func(t *testing.T) {
		path := filepath.Join(dir, "extra.yaml")
		require.NoError(t, os.WriteFile(path, []byte(minimalRound+"extra: 1\n"), 0o600))
		_, err := LoadFile(path)
		require.Error(t, err)
	})
}

func TestEffectiveBudget(t *testing.T) {
	fallback := validator.Budget{MinutesPerCandidate: 1, MaxMinutes: 100}

	tests := []struct {
		name   string
		budget *validator.Budget
		want   validator.Budget
	}{
		{"no budget", nil, fallback},
		{"minutes only", &validator.Budget{MinutesPerCandidate: 18}, validator.Budget{MinutesPerCandidate: 18, MaxMinutes: 100}},
		{"both", &validator.Budget{MinutesPerCandidate: 2, MaxMinutes: 50}, validator.Budget{MinutesPerCandidate: 2, MaxMinutes: 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Round{Budget: tt.budget}
			assert.Equal(t, tt.want, r.EffectiveBudget(fallback))
		})
	}
}
