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

package document

import (
	"maps"
	"slices"

	"github.com/google/uuid"
)

// Document is a unit of text with the results of its preprocessing steps.
type Document struct {
	// ID uniquely identifies the document.
	ID uuid.UUID `json:"id" yaml:"id"`

	// Text is the document content. Empty text marks a raw document.
	Text string `json:"text" yaml:"text"`

	// results holds the payload of every completed step.
	results map[Step]any
}

// New creates a document with a fresh random ID and no completed steps.
func New(text string) *Document {
	return &Document{
		ID:      uuid.New(),
		Text:    text,
		results: make(map[Step]any),
	}
}

// IsRaw reports whether the document has no text yet.
func (d *Document) IsRaw() bool {
	return d.Text == ""
}

// WasPreprocessDone reports whether step has a stored result.
func (d *Document) WasPreprocessDone(step Step) bool {
	_, ok := d.results[step]
	return ok
}

// PreprocessResult returns the payload stored for step.
func (d *Document) PreprocessResult(step Step) (any, bool) {
	v, ok := d.results[step]
	return v, ok
}

// SetPreprocessResult marks step done and stores its payload in one update.
// A nil payload still marks the step done.
func (d *Document) SetPreprocessResult(step Step, payload any) error {
	if !step.IsValid() {
		return unknownStep(step.String())
	}
	if d.results == nil {
		d.results = make(map[Step]any)
	}
	d.results[step] = payload
	return nil
}

// DoneSteps returns the completed steps in pipeline order.
func (d *Document) DoneSteps() []Step {
	done := slices.Collect(maps.Keys(d.results))
	slices.Sort(done)
	return done
}

// Clone returns a copy with its own step bookkeeping. Payloads are shared.
func (d *Document) Clone() *Document {
	c := *d
	c.results = maps.Clone(d.results)
	if c.results == nil {
		c.results = make(map[Step]any)
	}
	return &c
}
