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

package validator

import (
	"time"

	"github.com/NVIDIA/expgen/pkg/header"
)

// Status represents the overall validation outcome.
type Status string

const (
	// StatusPass indicates the batch is within budget and free of duplicates.
	StatusPass Status = "pass"

	// StatusFail indicates the batch was rejected.
	StatusFail Status = "fail"
)

// Report describes a validated candidate set.
type Report struct {
	header.Header `json:",inline" yaml:",inline"`

	// RunID identifies the generation run.
	RunID string `json:"runId,omitempty" yaml:"runId,omitempty"`

	// Source is the round definition the candidates were generated from.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// Summary contains aggregate statistics.
	Summary Summary `json:"summary" yaml:"summary"`

	// Dropped counts candidates discarded per transformer rule.
	Dropped map[string]int `json:"dropped,omitempty" yaml:"dropped,omitempty"`
}

// Summary contains aggregate statistics about the candidate set.
type Summary struct {
	// Expanded is the number of raw candidates produced by expansion.
	Expanded int `json:"expanded" yaml:"expanded"`

	// Candidates is the number of candidates that passed the transformer.
	Candidates int `json:"candidates" yaml:"candidates"`

	// MinutesPerCandidate is the estimated cost of one candidate.
	MinutesPerCandidate float64 `json:"minutesPerCandidate" yaml:"minutesPerCandidate"`

	// TotalMinutes is the estimated cost of the batch.
	TotalMinutes float64 `json:"totalMinutes" yaml:"totalMinutes"`

	// MaxMinutes is the configured ceiling, zero when disabled.
	MaxMinutes float64 `json:"maxMinutes" yaml:"maxMinutes"`

	// Status is the overall validation status.
	Status Status `json:"status" yaml:"status"`

	// Duration is how long the validation took.
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Duplicate identifies a candidate equal to an earlier one.
type Duplicate struct {
	// First is the index of the earliest equal candidate.
	First int `json:"first" yaml:"first"`

	// Index is the index of the repeated candidate.
	Index int `json:"index" yaml:"index"`

	// Digest is the shared content digest.
	Digest string `json:"digest" yaml:"digest"`
}

// NewReport creates a new Report with initialized maps.
func NewReport() *Report {
	return &Report{
		Dropped: make(map[string]int),
		Summary: Summary{Status: StatusFail},
	}
}
