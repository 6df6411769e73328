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
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/expgen/pkg/config"
	cnserrors "github.com/NVIDIA/expgen/pkg/errors"
)

// Alternatives holds the ordered values one key takes across the expansion.
// It is the only way to declare variation: a list-valued alternative is a
// single value, never a further set of alternatives.
type Alternatives struct {
	values []any
}

// Of declares alternatives from literal values.
func Of(values ...any) Alternatives {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = config.Normalize(v)
	}
	return Alternatives{values: out}
}

// OfNodes declares alternatives from complete sub-configurations, typically
// the materialized output of an inner expansion.
func OfNodes(nodes []*config.Node) Alternatives {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return Alternatives{values: out}
}

// Len returns the number of alternatives.
func (a Alternatives) Len() int {
	return len(a.values)
}

// Values returns the alternatives in declaration order.
func (a Alternatives) Values() []any {
	return slices.Clone(a.values)
}

// Entry declares how one key varies. Exactly one of Alternatives or Nested is
// meaningful: a Nested patch varies the fields of the base's sub-mapping at
// Key and must be resolved into Alternatives before expansion.
type Entry struct {
	Key          string
	Alternatives Alternatives
	Nested       *Patch
}

// IsNested reports whether the entry still carries an unresolved inner patch.
func (e Entry) IsNested() bool {
	return e.Nested != nil
}

// Patch is an ordered list of entries. The first entry varies slowest.
type Patch struct {
	entries []Entry
}

// New returns an empty Patch.
func New() *Patch {
	return &Patch{}
}

// Vary appends a key with literal alternatives.
func (p *Patch) Vary(key string, alts Alternatives) *Patch {
	p.entries = append(p.entries, Entry{Key: key, Alternatives: alts})
	return p
}

// Nest appends a key whose sub-mapping is varied by inner.
func (p *Patch) Nest(key string, inner *Patch) *Patch {
	p.entries = append(p.entries, Entry{Key: key, Nested: inner})
	return p
}

// Append adds entries at the end of the patch.
func (p *Patch) Append(entries ...Entry) *Patch {
	p.entries = append(p.entries, entries...)
	return p
}

// Entries returns the entries in order.
func (p *Patch) Entries() []Entry {
	if p == nil {
		return nil
	}
	return slices.Clone(p.entries)
}

// Keys returns the patched keys in order.
func (p *Patch) Keys() []string {
	if p == nil {
		return nil
	}
	keys := make([]string, len(p.entries))
	for i, e := range p.entries {
		keys[i] = e.Key
	}
	return keys
}

// Len returns the number of entries.
func (p *Patch) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

// Combinations returns the number of candidates a resolved patch expands to.
func (p *Patch) Combinations() int {
	total := 1
	for _, e := range p.Entries() {
		total *= e.Alternatives.Len()
	}
	return total
}

// Validate checks the patch shape: unique non-empty keys, and every entry
// either offering at least one alternative or carrying a valid nested patch.
func (p *Patch) Validate() error {
	seen := make(map[string]struct{}, p.Len())
	for i, e := range p.Entries() {
		if e.Key == "" {
			return shapeError("patch entry has an empty key", "", i)
		}
		if _, dup := seen[e.Key]; dup {
			return shapeError("key is patched more than once", e.Key, i)
		}
		seen[e.Key] = struct{}{}

		if e.IsNested() {
			if e.Alternatives.Len() > 0 {
				return shapeError("entry declares both alternatives and a nested patch", e.Key, i)
			}
			if err := e.Nested.Validate(); err != nil {
				return fmt.Errorf("nested patch %q: %w", e.Key, err)
			}
			continue
		}
		if e.Alternatives.Len() == 0 {
			return shapeError("key declared as varying offers no alternatives", e.Key, i)
		}
	}
	return nil
}

func shapeError(msg, key string, index int) error {
	return cnserrors.NewWithContext(cnserrors.ErrCodePatchShape, msg, map[string]any{
		"key":   key,
		"index": index,
	})
}

type entryYAML struct {
	Key          string     `yaml:"key"`
	Alternatives *yaml.Node `yaml:"alternatives"`
	Patch        *Patch     `yaml:"patch"`
}

// UnmarshalYAML decodes a sequence of {key, alternatives} or {key, patch} items.
func (p *Patch) UnmarshalYAML(value *yaml.Node) error {
	var items []entryYAML
	if err := value.Decode(&items); err != nil {
		return fmt.Errorf("line %d: patch must be a sequence of entries: %w", value.Line, err)
	}
	p.entries = nil
	for _, it := range items {
		switch {
		case it.Alternatives != nil && it.Patch != nil:
			return shapeError("entry declares both alternatives and a nested patch", it.Key, len(p.entries))
		case it.Patch != nil:
			p.Nest(it.Key, it.Patch)
		case it.Alternatives != nil:
			decoded, err := config.DecodeYAML(it.Alternatives)
			if err != nil {
				return fmt.Errorf("alternatives for %q: %w", it.Key, err)
			}
			values, ok := decoded.([]any)
			if !ok {
				return cnserrors.NewWithContext(cnserrors.ErrCodePatchShape,
					"alternatives must be a sequence", map[string]any{"key": it.Key, "line": it.Alternatives.Line})
			}
			p.Vary(it.Key, Alternatives{values: values})
		default:
			p.Vary(it.Key, Alternatives{})
		}
	}
	return nil
}

// UnmarshalJSON decodes the JSON form of a patch, which shares the YAML layout.
func (p *Patch) UnmarshalJSON(data []byte) error {
	return yaml.Unmarshal(data, p)
}
