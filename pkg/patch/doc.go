// Package patch declares which configuration fields vary and expands a base
// configuration into the Cartesian product of those variations.
//
// Variation is always explicit: a key varies only through an Alternatives
// value, so a list is never mistaken for a set of alternatives.
//
//	p := patch.New().
//	    Vary("answers_per_round", patch.Of(3, 5)).
//	    Nest("prediction_config", patch.New().
//	        Vary("method", patch.Of("predict", "predict_proba")))
//
//	candidates, err := patch.ExpandNested(base, p)
//	if err != nil {
//	    return err
//	}
//	for c := range candidates {
//	    // c is an independent deep copy of base
//	}
//
// Nested entries are resolved by Resolve, which expands the inner patch against
// the base's sub-mapping and uses the materialized result as the outer key's
// alternatives. Expand itself is a single flat product.
package patch
