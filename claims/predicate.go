package claimkit

import (
	"reflect"
	"time"
)

// Predicate reports whether a claim map satisfies a single check.
// Predicates are pure: they read the map and nothing else, so evaluation
// order is unobservable. A missing or wrong-typed claim makes a predicate
// false, never an error.
type Predicate func(Map) bool

// Validate reports whether claims satisfy every predicate. An empty
// predicate list is trivially satisfied.
func Validate(claims Map, preds []Predicate) bool {
	for _, p := range preds {
		if !p(claims) {
			return false
		}
	}
	return true
}

// Equals requires the claim to be present and equal to want.
func Equals(key string, want any) Predicate {
	return func(m Map) bool {
		got, ok := m[key]
		if !ok {
			return false
		}
		return reflect.DeepEqual(got, want)
	}
}

// NotEmpty requires the claim to be a non-empty string.
func NotEmpty(key string) Predicate {
	return func(m Map) bool {
		s, ok := m.GetString(key)
		return ok && s != ""
	}
}

// InFuture requires the claim to be a Unix timestamp strictly after now.
func InFuture(key string) Predicate {
	return func(m Map) bool {
		n, ok := m.GetNumber(key)
		return ok && n > float64(time.Now().Unix())
	}
}

// InPast requires the claim to be a Unix timestamp at or before now.
func InPast(key string) Predicate {
	return func(m Map) bool {
		n, ok := m.GetNumber(key)
		return ok && n <= float64(time.Now().Unix())
	}
}
