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
	"bytes"
	"embed"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/expgen/pkg/config"
	cnserrors "github.com/NVIDIA/expgen/pkg/errors"
	"github.com/NVIDIA/expgen/pkg/header"
	"github.com/NVIDIA/expgen/pkg/patch"
	"github.com/NVIDIA/expgen/pkg/serializer"
	"github.com/NVIDIA/expgen/pkg/validator"
)

// DefaultName is the name of the embedded default round.
const DefaultName = "round4"

//go:embed data/*.yaml
var dataFS embed.FS

// Presets fills one key of the base with each of a list of complete
// sub-configurations, such as candidate classifier configurations.
// Presets vary slowest of all keys.
type Presets struct {
	Key    string         `json:"key" yaml:"key"`
	Values []*config.Node `json:"values" yaml:"values"`
}

// Round describes one experiment round: the base configuration, what varies
// and the estimated cost of each candidate.
type Round struct {
	header.Header `json:",inline" yaml:",inline"`

	// Definitions holds shared values referenced through YAML anchors.
	// It is never part of a candidate.
	Definitions *config.Node `json:"definitions,omitempty" yaml:"definitions,omitempty"`

	// Base is the configuration every candidate starts from.
	Base *config.Node `json:"base" yaml:"base"`

	// Presets optionally fills one base key per preset.
	Presets *Presets `json:"presets,omitempty" yaml:"presets,omitempty"`

	// Patch declares the varying keys.
	Patch *patch.Patch `json:"patch" yaml:"patch"`

	// Budget optionally overrides the default cost estimate.
	Budget *validator.Budget `json:"budget,omitempty" yaml:"budget,omitempty"`
}

// Name returns the round name from its metadata.
func (r *Round) Name() string {
	return r.Metadata["name"]
}

// Validate checks the round is complete and its patch well formed.
func (r *Round) Validate() error {
	if err := r.Header.Check(header.KindRound); err != nil {
		return cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "invalid round header", err)
	}
	if r.Base == nil {
		return cnserrors.New(cnserrors.ErrCodeInvalidRequest, "round has no base configuration")
	}
	if err := r.Patch.Validate(); err != nil {
		return fmt.Errorf("round %q: %w", r.Name(), err)
	}
	if r.Presets != nil {
		if r.Presets.Key == "" {
			return cnserrors.New(cnserrors.ErrCodePatchShape, "presets declare no key")
		}
		if len(r.Presets.Values) == 0 {
			return cnserrors.NewWithContext(cnserrors.ErrCodePatchShape,
				"presets offer no alternatives", map[string]any{"key": r.Presets.Key})
		}
		for _, k := range r.Patch.Keys() {
			if k == r.Presets.Key {
				return cnserrors.NewWithContext(cnserrors.ErrCodePatchShape,
					"key is both a preset slot and patched", map[string]any{"key": k})
			}
		}
	}
	return nil
}

// FullPatch returns the round patch with the presets prepended as the
// outermost entry.
func (r *Round) FullPatch() *patch.Patch {
	p := patch.New()
	if r.Presets != nil {
		p.Vary(r.Presets.Key, patch.OfNodes(r.Presets.Values))
	}
	return p.Append(r.Patch.Entries()...)
}

// EffectiveBudget overlays the round's non-zero budget fields on fallback.
func (r *Round) EffectiveBudget(fallback validator.Budget) validator.Budget {
	b := fallback
	if r.Budget == nil {
		return b
	}
	if r.Budget.MinutesPerCandidate != 0 {
		b.MinutesPerCandidate = r.Budget.MinutesPerCandidate
	}
	if r.Budget.MaxMinutes != 0 {
		b.MaxMinutes = r.Budget.MaxMinutes
	}
	return b
}

// Parse decodes and validates a round definition. Unknown fields are rejected.
func Parse(data []byte) (*Round, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var r Round
	if err := dec.Decode(&r); err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "failed to decode round", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// LoadFile reads a round definition from a YAML or JSON file. Unknown fields
// are rejected.
func LoadFile(path string) (*Round, error) {
	r, err := serializer.FromFile[Round](path, serializer.WithStrict())
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("failed to load round from %q", path), err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	slog.Debug("round loaded", "path", path, "name", r.Name())
	return r, nil
}

// Default returns the embedded default round.
func Default() (*Round, error) {
	return Embedded(DefaultName)
}

// Embedded returns a round shipped with the binary by name.
func Embedded(name string) (*Round, error) {
	data, err := dataFS.ReadFile("data/" + name + ".yaml")
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeNotFound,
			fmt.Sprintf("no embedded round named %q", name), err)
	}
	return Parse(data)
}
