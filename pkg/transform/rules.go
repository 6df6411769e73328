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

	"github.com/NVIDIA/expgen/pkg/config"
	cnserrors "github.com/NVIDIA/expgen/pkg/errors"
)

// Field paths used by the default rules.
var (
	FactThresholdDistancePath     = config.ParsePath("fact_threshold_distance")
	EvidenceThresholdDistancePath = config.ParsePath("evidence_threshold_distance")
	FactThresholdPath             = config.ParsePath("fact_threshold")
	EvidenceThresholdPath         = config.ParsePath("evidence_threshold")
	ScaleToRangePath              = config.ParsePath("prediction_config.scale_to_range")
	PredictionMethodPath          = config.ParsePath("prediction_config.method")
	ClassifierPath                = config.ParsePath("classifier_config.classifier")
	ClassifierArgsPath            = config.ParsePath("classifier_config.classifier_args")
	SparsePath                    = config.ParsePath("classifier_config.sparse")
)

// DefaultRules returns the bootstrap round rules in execution order.
func DefaultRules() []Rule {
	return []Rule{
		&OrderingFilter{
			Greater: FactThresholdDistancePath,
			Lesser:  EvidenceThresholdDistancePath,
		},
		&ThresholdDerivation{
			Scale:      ScaleToRangePath,
			DefaultMax: 1.0,
			Derivations: []Derivation{
				{Distance: FactThresholdDistancePath, Target: FactThresholdPath},
				{Distance: EvidenceThresholdDistancePath, Target: EvidenceThresholdPath},
			},
		},
		&ProbabilityRewrite{
			Classifier:  ClassifierPath,
			Family:      "svm",
			Method:      PredictionMethodPath,
			FromMethod:  "predict_proba",
			ToMethod:    "decision_function",
			Args:        ClassifierArgsPath,
			Probability: "probability",
			Kernel:      "kernel",
			DenseKernel: "rbf",
			Sparse:      SparsePath,
		},
	}
}

// OrderingFilter drops candidates whose Greater field is strictly less than
// their Lesser field. Fact confirmation needs a wider margin than evidence.
type OrderingFilter struct {
	Greater config.Path
	Lesser  config.Path
}

// Name implements Rule.
func (r *OrderingFilter) Name() string { return "ordering-filter" }

// Apply implements Rule.
func (r *OrderingFilter) Apply(c *config.Node) (Action, error) {
	g, err := number(c, r.Greater)
	if err != nil {
		return Drop, err
	}
	l, err := number(c, r.Lesser)
	if err != nil {
		return Drop, err
	}
	if g < l {
		return Drop, nil
	}
	return Keep, nil
}

// Derivation maps a distance-to-max field onto the threshold it encodes.
type Derivation struct {
	Distance config.Path
	Target   config.Path
}

// ThresholdDerivation turns distance-to-max fields into absolute thresholds.
// The maximum score is the largest value of the Scale range when it is set
// and non-empty, DefaultMax otherwise. Distance fields are removed.
type ThresholdDerivation struct {
	Scale       config.Path
	DefaultMax  float64
	Derivations []Derivation
}

// Name implements Rule.
func (r *ThresholdDerivation) Name() string { return "threshold-derivation" }

// Apply implements Rule.
func (r *ThresholdDerivation) Apply(c *config.Node) (Action, error) {
	maxScore, err := r.maxScore(c)
	if err != nil {
		return Drop, err
	}
	for _, d := range r.Derivations {
		dist, err := number(c, d.Distance)
		if err != nil {
			return Drop, err
		}
		if err := c.SetPath(d.Target, maxScore-dist); err != nil {
			return Drop, invalid(d.Target, err.Error())
		}
		c.DeletePath(d.Distance)
	}
	return Keep, nil
}

func (r *ThresholdDerivation) maxScore(c *config.Node) (float64, error) {
	v, ok := c.Lookup(r.Scale)
	if !ok || v == nil {
		return r.DefaultMax, nil
	}
	rng, isSeq := v.([]any)
	if !isSeq {
		return 0, invalid(r.Scale, fmt.Sprintf("expected a numeric range, got %T", v))
	}
	if len(rng) == 0 {
		return r.DefaultMax, nil
	}
	var maxScore float64
	for i, e := range rng {
		f, isNum := config.AsFloat(e)
		if !isNum {
			return 0, invalid(r.Scale, fmt.Sprintf("element %d is %T, not a number", i, e))
		}
		if i == 0 || f > maxScore {
			maxScore = f
		}
	}
	return maxScore, nil
}

// ProbabilityRewrite replaces probability prediction on a classifier family
// with its decision function. Probability calibration is turned off in the
// classifier arguments and, for DenseKernel, the sparse input flag is cleared
// since that kernel's decision function needs dense input.
type ProbabilityRewrite struct {
	Classifier  config.Path
	Family      string
	Method      config.Path
	FromMethod  string
	ToMethod    string
	Args        config.Path
	Probability string
	Kernel      string
	DenseKernel string
	Sparse      config.Path
}

// Name implements Rule.
func (r *ProbabilityRewrite) Name() string { return "probability-rewrite" }

// Apply implements Rule.
func (r *ProbabilityRewrite) Apply(c *config.Node) (Action, error) {
	family, err := str(c, r.Classifier)
	if err != nil {
		return Drop, err
	}
	method, err := str(c, r.Method)
	if err != nil {
		return Drop, err
	}
	if family != r.Family || method != r.FromMethod {
		return Keep, nil
	}

	if err := c.SetPath(r.Method, r.ToMethod); err != nil {
		return Drop, invalid(r.Method, err.Error())
	}

	args, ok := c.LookupNode(r.Args)
	if !ok {
		if v, present := c.Lookup(r.Args); present && v != nil {
			return Drop, invalid(r.Args, fmt.Sprintf("expected a mapping, got %T", v))
		}
		args = config.New()
		if err := c.SetPath(r.Args, args); err != nil {
			return Drop, invalid(r.Args, err.Error())
		}
	}
	args.Set(r.Probability, false)

	if kernel, _ := args.Get(r.Kernel); kernel == r.DenseKernel {
		if err := c.SetPath(r.Sparse, false); err != nil {
			return Drop, invalid(r.Sparse, err.Error())
		}
	}
	return Keep, nil
}

func number(c *config.Node, p config.Path) (float64, error) {
	v, ok := c.Lookup(p)
	if !ok {
		return 0, invalid(p, "required field is missing")
	}
	f, ok := config.AsFloat(v)
	if !ok {
		return 0, invalid(p, fmt.Sprintf("expected a number, got %T", v))
	}
	return f, nil
}

func str(c *config.Node, p config.Path) (string, error) {
	v, ok := c.Lookup(p)
	if !ok {
		return "", invalid(p, "required field is missing")
	}
	s, ok := v.(string)
	if !ok {
		return "", invalid(p, fmt.Sprintf("expected a string, got %T", v))
	}
	return s, nil
}

func invalid(p config.Path, msg string) error {
	return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
		fmt.Sprintf("%s: %s", p, msg),
		map[string]any{"path": p.String()})
}
