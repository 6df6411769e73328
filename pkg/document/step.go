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
	"fmt"

	cnserrors "github.com/NVIDIA/expgen/pkg/errors"
)

// Step is one named preprocessing stage tracked per document.
type Step int

// Steps in pipeline order.
const (
	Tokenization Step = iota
	Segmentation
	Tagging
	NERC
)

var stepNames = [...]string{
	Tokenization: "tokenization",
	Segmentation: "segmentation",
	Tagging:      "tagging",
	NERC:         "nerc",
}

// Steps returns every step in pipeline order.
func Steps() []Step {
	return []Step{Tokenization, Segmentation, Tagging, NERC}
}

// IsValid reports whether s is a known step.
func (s Step) IsValid() bool {
	return s >= Tokenization && s <= NERC
}

// String returns the step name.
func (s Step) String() string {
	if !s.IsValid() {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

// ParseStep returns the step with the given name.
func ParseStep(name string) (Step, error) {
	for _, s := range Steps() {
		if stepNames[s] == name {
			return s, nil
		}
	}
	return 0, unknownStep(name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Step) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, unknownStep(s.String())
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Step) UnmarshalText(text []byte) error {
	parsed, err := ParseStep(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func unknownStep(name string) error {
	return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
		fmt.Sprintf("unknown preprocess step %q", name),
		map[string]any{"step": name})
}
