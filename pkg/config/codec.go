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

package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

const mergeKey = "<<"

// MarshalJSON encodes n as a JSON object with keys in lexical order.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range n.SortedKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := marshalJSON(k)
		if err != nil {
			return nil, err
		}
		vb, err := marshalJSON(n.values[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalJSON is json.Marshal without HTML escaping.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON decodes a JSON object preserving its key order.
// JSON is parsed as YAML flow syntax, which it is a subset of.
func (n *Node) UnmarshalJSON(data []byte) error {
	return yaml.Unmarshal(data, n)
}

// MarshalYAML encodes n as a YAML mapping with keys in lexical order.
func (n *Node) MarshalYAML() (any, error) {
	out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range n.SortedKeys() {
		val := &yaml.Node{}
		if err := val.Encode(n.values[k]); err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		out.Content = append(out.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			val,
		)
	}
	return out, nil
}

// UnmarshalYAML decodes a YAML mapping preserving document key order.
// Anchors are expanded into independent copies and merge keys ("<<") are
// honored without overriding explicit keys.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	value = resolve(value)
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping, got %s", value.Line, kindName(value.Kind))
	}
	n.keys = nil
	n.values = make(map[string]any)

	var merges []*yaml.Node
	for i := 0; i+1 < len(value.Content); i += 2 {
		k, v := value.Content[i], value.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
		}
		if k.Value == mergeKey && (k.Tag == "!!merge" || k.Tag == "") {
			merges = append(merges, v)
			continue
		}
		decoded, err := DecodeYAML(v)
		if err != nil {
			return fmt.Errorf("key %q: %w", k.Value, err)
		}
		n.Set(k.Value, decoded)
	}

	for _, m := range merges {
		if err := n.merge(m); err != nil {
			return err
		}
	}
	return nil
}

func (n *Node) merge(src *yaml.Node) error {
	src = resolve(src)
	sources := []*yaml.Node{src}
	if src.Kind == yaml.SequenceNode {
		sources = src.Content
	}
	for _, s := range sources {
		var m Node
		if err := m.UnmarshalYAML(s); err != nil {
			return fmt.Errorf("merge: %w", err)
		}
		for _, k := range m.keys {
			if !n.Has(k) {
				n.Set(k, m.values[k])
			}
		}
	}
	return nil
}

// DecodeYAML converts a YAML node into a normalized configuration value.
// Mappings become *Node and sequences become []any.
func DecodeYAML(v *yaml.Node) (any, error) {
	v = resolve(v)
	switch v.Kind {
	case yaml.MappingNode:
		child := New()
		if err := child.UnmarshalYAML(v); err != nil {
			return nil, err
		}
		return child, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(v.Content))
		for _, e := range v.Content {
			d, err := DecodeYAML(e)
			if err != nil {
				return nil, err
			}
			out = append(out, d)
		}
		return out, nil
	case yaml.ScalarNode:
		var s any
		if err := v.Decode(&s); err != nil {
			return nil, fmt.Errorf("line %d: %w", v.Line, err)
		}
		return Normalize(s), nil
	default:
		return nil, fmt.Errorf("line %d: unsupported %s", v.Line, kindName(v.Kind))
	}
}

func resolve(v *yaml.Node) *yaml.Node {
	for {
		switch {
		case v.Kind == yaml.AliasNode && v.Alias != nil:
			v = v.Alias
		case v.Kind == yaml.DocumentNode && len(v.Content) == 1:
			v = v.Content[0]
		default:
			return v
		}
	}
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown node"
	}
}

// FromYAML parses a YAML (or JSON) document holding a mapping.
func FromYAML(data []byte) (*Node, error) {
	n := New()
	if err := yaml.Unmarshal(data, n); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return n, nil
}
