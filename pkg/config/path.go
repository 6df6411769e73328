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
	"fmt"
	"strings"
)

// Path addresses a value nested inside mappings, one key per element.
type Path []string

// ParsePath splits a dotted path such as "prediction_config.scale_to_range".
func ParsePath(s string) Path {
	if s == "" {
		return nil
	}
	return Path(strings.Split(s, "."))
}

// String returns the dotted form of p.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Lookup returns the value at p.
func (n *Node) Lookup(p Path) (any, bool) {
	if len(p) == 0 {
		return nil, false
	}
	cur := n
	for _, k := range p[:len(p)-1] {
		next, ok := cur.Child(k)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur.Get(p[len(p)-1])
}

// LookupNode returns the mapping at p.
func (n *Node) LookupNode(p Path) (*Node, bool) {
	v, ok := n.Lookup(p)
	if !ok {
		return nil, false
	}
	c, ok := v.(*Node)
	return c, ok && c != nil
}

// SetPath stores value at p, creating missing intermediate mappings.
// It fails when an intermediate key holds something other than a mapping.
func (n *Node) SetPath(p Path, value any) error {
	if len(p) == 0 {
		return fmt.Errorf("empty path")
	}
	cur := n
	for i, k := range p[:len(p)-1] {
		v, ok := cur.Get(k)
		if !ok || v == nil {
			child := New()
			cur.Set(k, child)
			cur = child
			continue
		}
		child, isNode := v.(*Node)
		if !isNode {
			return fmt.Errorf("%s is %T, not a mapping", p[:i+1], v)
		}
		cur = child
	}
	cur.Set(p[len(p)-1], value)
	return nil
}

// DeletePath removes the value at p and reports whether it was present.
func (n *Node) DeletePath(p Path) bool {
	if len(p) == 0 {
		return false
	}
	if len(p) == 1 {
		return n.Delete(p[0])
	}
	parent, ok := n.LookupNode(p[:len(p)-1])
	if !ok {
		return false
	}
	return parent.Delete(p[len(p)-1])
}
