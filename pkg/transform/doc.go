// Package transform applies ordered domain rules to expanded candidates.
//
// Each Rule is a small strategy that derives, normalizes or filters one
// candidate in place. A Transformer runs its rules in order and stops at the
// first rule that drops the candidate, so every input yields zero or one
// output and no state crosses candidates.
//
// DefaultRules returns the bootstrap rules:
//
//  1. OrderingFilter drops candidates whose fact distance is below their
//     evidence distance.
//  2. ThresholdDerivation converts distance-to-max fields into absolute
//     thresholds below the maximum prediction score.
//  3. ProbabilityRewrite switches SVM probability prediction to the decision
//     function and adjusts the classifier arguments accordingly.
//
// Rules are parameterized by field paths, so other rounds can reuse them on
// differently shaped configurations.
package transform
