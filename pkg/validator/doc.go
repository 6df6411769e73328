/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package validator gates a generated candidate set before emission.
//
// Validation needs the whole set at once: it estimates the batch cost as
// candidates × minutes per candidate and rejects the batch when that exceeds
// the configured ceiling, then rejects it again if any two candidates are
// structurally equal. Either failure aborts the batch; there is no partial
// output.
//
// # Duplicate Detection
//
// Candidates are bucketed by config.Node Digest and confirmed with Equal, so
// mapping key order is ignored while sequence order is significant. Every
// repeated candidate is reported with the index of its first occurrence:
//
//	[DUPLICATE_CANDIDATE] 1 duplicate candidates: #12 duplicates #4
//
// # Usage
//
//	v := validator.New(validator.WithVersion(version))
//	report, err := v.Validate(ctx, candidates, validator.Budget{
//	    MinutesPerCandidate: 18,
//	    MaxMinutes:          10080,
//	})
//	if err != nil {
//	    return err // batch rejected
//	}
package validator
