// Package harness provides a conformance testing framework for Sentinel.
//
// A scenario is a YAML document bundling an inline world snapshot,
// optional CUE rule overrides, and a set of assertions over the resulting
// report. The harness runs a real Sentinel — deterministic clock, fixed
// pass token — against the inline world, so scenarios exercise the actual
// validators and coordinator, not a simulation of them.
//
// Golden-file comparison uses the report's canonical JSON serialization:
// the same scenario always produces byte-identical canonical bytes, which
// makes whole-report regressions visible as a one-line goldie diff.
package harness
