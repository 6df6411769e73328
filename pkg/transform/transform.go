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

package transform

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/NVIDIA/expgen/pkg/config"
)

// Action is the outcome of applying a rule to a candidate.
type Action int

const (
	// Keep passes the candidate on to the next rule.
	Keep Action = iota
	// Drop discards the candidate and skips the remaining rules.
	Drop
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case Keep:
		return "keep"
	case Drop:
		return "drop"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Rule derives, normalizes or filters one candidate in place.
// A rule sees only the candidate it is given and keeps no state between calls.
type Rule interface {
	// Name identifies the rule in logs, errors and metrics.
	Name() string
	// Apply mutates c as needed and reports whether it is kept.
	Apply(c *config.Node) (Action, error)
}

// DropObserver is notified of every dropped candidate with the dropping rule.
type DropObserver func(rule string)

// Transformer applies an ordered list of rules to each candidate.
type Transformer struct {
	rules  []Rule
	onDrop DropObserver
}

// Option is a functional option for configuring Transformer instances.
type Option func(*Transformer)

// WithDropObserver returns an Option that registers a drop observer.
func WithDropObserver(fn DropObserver) Option {
	return func(t *Transformer) {
		t.onDrop = fn
	}
}

// New creates a Transformer running rules in the given order.
func New(rules []Rule, opts ...Option) *Transformer {
	t := &Transformer{rules: append([]Rule(nil), rules...)}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RuleNames returns the names of the configured rules in order.
func (t *Transformer) RuleNames() []string {
	names := make([]string, len(t.rules))
	for i, r := range t.rules {
		names[i] = r.Name()
	}
	return names
}

// Apply runs the rules against c until one drops it or all have run.
func (t *Transformer) Apply(c *config.Node) (Action, error) {
	for _, r := range t.rules {
		action, err := r.Apply(c)
		if err != nil {
			return Drop, fmt.Errorf("rule %s: %w", r.Name(), err)
		}
		if action == Drop {
			slog.Debug("candidate dropped", "rule", r.Name())
			if t.onDrop != nil {
				t.onDrop(r.Name())
			}
			return Drop, nil
		}
	}
	return Keep, nil
}

// Stream lazily transforms candidates, omitting dropped ones. The first rule
// error is yielded with a nil candidate and ends the sequence.
func (t *Transformer) Stream(candidates iter.Seq[*config.Node]) iter.Seq2[*config.Node, error] {
	return func(yield func(*config.Node, error) bool) {
		for c := range candidates {
			action, err := t.Apply(c)
			if err != nil {
				yield(nil, err)
				return
			}
			if action == Drop {
				continue
			}
			if !yield(c, nil) {
				return
			}
		}
	}
}
