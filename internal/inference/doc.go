// Package inference implements the forward-chaining recommendation engine.
//
// A run pulls the active rules from a RuleStore, fires every rule whose
// condition tree matches the student profile, merges firings that point at
// the same program and returns the ranked top-N programs. The engine keeps
// no state between runs; each call works only on the rules and profile it
// was handed.
package inference
