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

package patch

import (
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"github.com/NVIDIA/expgen/pkg/config"
	cnserrors "github.com/NVIDIA/expgen/pkg/errors"
)

// Expand returns the lazy Cartesian product of base against p.
//
// Each candidate is a deep copy of base with exactly one alternative
// substituted per patched key. Candidates are produced in odometer order:
// the first entry varies slowest and alternatives follow declaration order.
// Keys only present in p are appended. An empty patch yields one copy of base.
//
// The patch must be resolved (no nested entries) and well formed; shape errors
// are reported before any candidate is produced.
func Expand(base *config.Node, p *Patch) (iter.Seq[*config.Node], error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	entries := p.Entries()
	for i, e := range entries {
		if e.IsNested() {
			return nil, shapeError("nested patch must be resolved before expansion", e.Key, i)
		}
	}
	if base == nil {
		base = config.New()
	}

	slog.Debug("expanding patch",
		"keys", p.Keys(),
		"combinations", p.Combinations())

	return func(yield func(*config.Node) bool) {
		idx := make([]int, len(entries))
		for {
			c := base.Clone()
			for i, e := range entries {
				c.Set(e.Key, config.CloneValue(e.Alternatives.values[idx[i]]))
			}
			if !yield(c) {
				return
			}
			if !advance(idx, entries) {
				return
			}
		}
	}, nil
}

// advance increments the odometer, last entry fastest, and reports whether
// another combination remains.
func advance(idx []int, entries []Entry) bool {
	for i := len(idx) - 1; i >= 0; i-- {
		idx[i]++
		if idx[i] < entries[i].Alternatives.Len() {
			return true
		}
		idx[i] = 0
	}
	return false
}

// Resolve replaces every nested entry of p by the materialized expansion of
// the base's sub-mapping at that key against the nested patch. The result is
// a flat patch suitable for Expand. Resolution composes expansions explicitly:
// Expand itself never looks inside alternative values.
func Resolve(base *config.Node, p *Patch) (*Patch, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	out := New()
	for i, e := range p.Entries() {
		if !e.IsNested() {
			out.Append(e)
			continue
		}
		inner, ok := base.Child(e.Key)
		if !ok {
			v, present := base.Get(e.Key)
			return nil, cnserrors.NewWithContext(cnserrors.ErrCodePatchShape,
				"structurally incompatible nested patch: base value is not a mapping",
				map[string]any{"key": e.Key, "index": i, "present": present, "type": fmt.Sprintf("%T", v)})
		}
		nested, err := Resolve(inner, e.Nested)
		if err != nil {
			return nil, fmt.Errorf("nested patch %q: %w", e.Key, err)
		}
		seq, err := Expand(inner, nested)
		if err != nil {
			return nil, fmt.Errorf("nested patch %q: %w", e.Key, err)
		}
		out.Vary(e.Key, OfNodes(slices.Collect(seq)))
	}
	return out, nil
}

// ExpandNested resolves nested entries of p against base and expands the result.
func ExpandNested(base *config.Node, p *Patch) (iter.Seq[*config.Node], error) {
	if base == nil {
		base = config.New()
	}
	resolved, err := Resolve(base, p)
	if err != nil {
		return nil, err
	}
	return Expand(base, resolved)
}
