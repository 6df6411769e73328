// Package config provides Node, the ordered configuration mapping shared by
// every stage of the generator.
//
// A Node is both the base template of a round and every candidate expanded
// from it. Values are nil, bool, string, int64, float64, nested *Node or []any.
// Nodes deep copy with Clone, compare structurally with Equal and hash
// consistently with Digest, which the validator uses to bucket duplicates.
//
// JSON and YAML encoding always emit keys in lexical order. YAML decoding keeps
// the document order, expands anchors into independent copies and honors
// merge keys:
//
//	base, err := config.FromYAML(data)
//	if err != nil {
//	    return err
//	}
//	method, _ := base.Lookup(config.ParsePath("prediction_config.method"))
package config
