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
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"sort"
	"strconv"
)

// Node is an ordered mapping from string keys to configuration values.
//
// A value is nil, bool, string, int64, float64, *Node or []any of values.
// Set normalizes other Go numeric, slice and string-keyed map types into
// those forms. Key order is insertion order and only matters for display;
// Equal and Digest ignore it.
type Node struct {
	keys   []string
	values map[string]any
}

// New returns an empty Node.
func New() *Node {
	return &Node{values: make(map[string]any)}
}

// FromMap builds a Node from a plain map. Keys are inserted in sorted order.
func FromMap(m map[string]any) *Node {
	n := New()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		n.Set(k, m[k])
	}
	return n
}

// Len returns the number of keys.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	return len(n.keys)
}

// Keys returns a copy of the keys in insertion order.
func (n *Node) Keys() []string {
	if n == nil {
		return nil
	}
	return slices.Clone(n.keys)
}

// SortedKeys returns the keys in lexical order.
func (n *Node) SortedKeys() []string {
	keys := n.Keys()
	sort.Strings(keys)
	return keys
}

// Has reports whether key is present.
func (n *Node) Has(key string) bool {
	if n == nil {
		return false
	}
	_, ok := n.values[key]
	return ok
}

// Get returns the value stored under key.
func (n *Node) Get(key string) (any, bool) {
	if n == nil {
		return nil, false
	}
	v, ok := n.values[key]
	return v, ok
}

// Child returns the mapping stored under key, if the value is a mapping.
func (n *Node) Child(key string) (*Node, bool) {
	v, ok := n.Get(key)
	if !ok {
		return nil, false
	}
	c, ok := v.(*Node)
	return c, ok && c != nil
}

// Set stores value under key, appending key when it is new and keeping its
// position otherwise. The value is stored as given after normalization; callers
// that need isolation pass a clone.
func (n *Node) Set(key string, value any) *Node {
	if n.values == nil {
		n.values = make(map[string]any)
	}
	if _, ok := n.values[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.values[key] = Normalize(value)
	return n
}

// Delete removes key and reports whether it was present.
func (n *Node) Delete(key string) bool {
	if n == nil {
		return false
	}
	if _, ok := n.values[key]; !ok {
		return false
	}
	delete(n.values, key)
	n.keys = slices.DeleteFunc(n.keys, func(k string) bool { return k == key })
	return true
}

// Clone returns a deep copy sharing no mutable structure with n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		keys:   slices.Clone(n.keys),
		values: make(map[string]any, len(n.values)),
	}
	for k, v := range n.values {
		c.values[k] = CloneValue(v)
	}
	return c
}

// Equal reports deep structural equality: same key set regardless of order,
// equal values recursively, sequences compared in order and numbers compared
// by value across integer and float representations. NaN equals NaN.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == nil && other == nil
	}
	if len(n.values) != len(other.values) {
		return false
	}
	for k, v := range n.values {
		ov, ok := other.values[k]
		if !ok || !ValuesEqual(v, ov) {
			return false
		}
	}
	return true
}

// ToMap converts n into plain nested maps and slices.
func (n *Node) ToMap() map[string]any {
	if n == nil {
		return nil
	}
	out := make(map[string]any, len(n.values))
	for k, v := range n.values {
		out[k] = plain(v)
	}
	return out
}

func plain(v any) any {
	switch t := v.(type) {
	case *Node:
		return t.ToMap()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plain(e)
		}
		return out
	default:
		return v
	}
}

// Digest returns the hex SHA-256 of the canonical encoding of n. Nodes that
// are Equal always share a digest.
func (n *Node) Digest() string {
	var buf bytes.Buffer
	writeCanonical(&buf, n)
	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:])
}

// String renders n as compact JSON with sorted keys.
func (n *Node) String() string {
	b, err := json.Marshal(n)
	if err != nil {
		return fmt.Sprintf("<invalid node: %v>", err)
	}
	return string(b)
}

// CloneValue deep copies a normalized configuration value.
func CloneValue(v any) any {
	switch t := v.(type) {
	case *Node:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = CloneValue(e)
		}
		return out
	default:
		return v
	}
}

// ValuesEqual compares two normalized configuration values structurally.
func ValuesEqual(a, b any) bool {
	switch ta := a.(type) {
	case nil:
		return b == nil
	case *Node:
		tb, ok := b.(*Node)
		return ok && ta.Equal(tb)
	case []any:
		tb, ok := b.([]any)
		if !ok || len(ta) != len(tb) {
			return false
		}
		for i := range ta {
			if !ValuesEqual(ta[i], tb[i]) {
				return false
			}
		}
		return true
	case int64:
		switch tb := b.(type) {
		case int64:
			return ta == tb
		case float64:
			return float64(ta) == tb
		}
		return false
	case float64:
		switch tb := b.(type) {
		case float64:
			return ta == tb || (math.IsNaN(ta) && math.IsNaN(tb))
		case int64:
			return ta == float64(tb)
		}
		return false
	default:
		return reflect.DeepEqual(a, b)
	}
}

// AsFloat returns v as a float64 when it is numeric.
func AsFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int64:
		return float64(t), true
	case float64:
		return t, true
	default:
		return 0, false
	}
}

// Normalize converts Go values into the canonical configuration forms.
// Values of other types are kept unchanged.
func Normalize(v any) any {
	switch t := v.(type) {
	case nil, bool, string, int64, float64, []any:
		if s, ok := t.([]any); ok {
			for i := range s {
				s[i] = Normalize(s[i])
			}
		}
		return v
	case *Node:
		if t == nil {
			return nil
		}
		return t
	case int:
		return int64(t)
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case uint:
		return normalizeUint(uint64(t))
	case uint8:
		return int64(t)
	case uint16:
		return int64(t)
	case uint32:
		return int64(t)
	case uint64:
		return normalizeUint(t)
	case float32:
		return float64(t)
	case map[string]any:
		return FromMap(t)
	}

	rv := reflect.ValueOf(v)
	//nolint:exhaustive // only container kinds need conversion
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return FromMap(m)
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	default:
		return v
	}
}

func normalizeUint(u uint64) any {
	if u > math.MaxInt64 {
		return float64(u)
	}
	return int64(u)
}

func writeCanonical(buf *bytes.Buffer, v any) {
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(t))
	case string:
		buf.WriteString(strconv.Quote(t))
	case int64:
		buf.WriteString("n" + strconv.FormatFloat(float64(t), 'g', -1, 64))
	case float64:
		buf.WriteString("n" + strconv.FormatFloat(t, 'g', -1, 64))
	case []any:
		buf.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCanonical(buf, e)
		}
		buf.WriteByte(']')
	case *Node:
		buf.WriteByte('{')
		for i, k := range t.SortedKeys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(strconv.Quote(k))
			buf.WriteByte(':')
			writeCanonical(buf, t.values[k])
		}
		buf.WriteByte('}')
	default:
		fmt.Fprintf(buf, "%T:%v", v, v)
	}
}
