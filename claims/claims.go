// Package claimkit provides the untyped claim map carried by decoded
// tokens and a small library of predicate checks evaluated against it.
package claimkit

import "encoding/json"

// Map holds JSON-decoded token claims. There is no fixed schema; callers
// read individual fields through the typed accessors, which report absence
// or a type mismatch via ok rather than panicking.
type Map map[string]any

// GetString returns the claim as a string. ok is false when the claim is
// missing or not a string.
func (m Map) GetString(key string) (string, bool) {
	s, ok := m[key].(string)
	return s, ok
}

// GetNumber returns the claim as a float64. ok is false when the claim is
// missing or not numeric.
func (m Map) GetNumber(key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
