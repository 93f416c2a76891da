// Package testutil provides deterministic helpers for tests and the
// conformance harness: a fixed wall clock and a fixed pass-token
// generator, so the same scenario produces byte-identical reports.
package testutil

import (
	"sync"
	"time"
)

// FixedClock returns a clock function pinned to a constant instant.
//
// Issue timestamps are excluded from canonical report serialization, but
// a pinned clock keeps standard JSON output and sink rows reproducible
// too.
func FixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// SteppingClock returns a clock that advances by step on every call,
// starting at the given instant. Useful for tests asserting ordering of
// recorded passes.
func SteppingClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	cur := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := cur
		cur = cur.Add(step)
		return t
	}
}
