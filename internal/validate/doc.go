// Package validate implements the four consistency validators.
//
// Every validator is a pure function of an immutable snapshot and a rule
// table: no shared state, no I/O, no clocks, no mutation. Expected
// data-shape problems (missing fields, dangling ids, illegal transitions)
// become issue values, never errors or panics. Issues are emitted in input
// order so whole passes are deterministic; the coordinator does the final
// severity sort and stamps timestamps and pass tokens.
//
// Validators never call each other. All four read the same snapshot, so
// their relative execution order is irrelevant to correctness and the
// coordinator is free to fan them out concurrently.
package validate
