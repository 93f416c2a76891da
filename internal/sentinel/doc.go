// Package sentinel implements the validation coordinator.
//
// A Sentinel owns a read-only rule table and a world model provider, and
// exposes synchronous entry points that pull a snapshot, fan the four
// validators out over it, and fan their findings back into one sorted
// report. It is stateless between calls and owns no scheduling: the host
// loop (or an external scheduler honoring the advisory intervals in the
// config) decides when to invoke it.
//
// ARCHITECTURE:
//
// Fan-out / fan-in:
// The four validators have no data dependency on each other and run
// concurrently against the same immutable snapshot. Each returns its own
// issue slice; nothing shares a mutable accumulator. Results are assembled
// in canonical category order, so concurrent completion order never leaks
// into report output.
//
// Failure containment:
// A panicking validator is caught at its own boundary and converted into a
// synthetic internal-failure issue for its category. One broken checker
// must not blind the pass to the other three categories.
//
// Cancellation:
// Entry points honor context cancellation. On expiry, unfinished
// validators are abandoned (their partial findings discarded, never
// returned half-formed) and a single meta timeout warning is appended so
// callers are never silently starved of feedback.
//
// CRITICAL PATTERNS:
//
// Sentinel never mutates the snapshot and performs no I/O of its own.
// Auto-fix is a caller-supplied callback; successful fixes annotate issues
// with Resolved rather than deleting them, preserving the audit trail.
package sentinel
