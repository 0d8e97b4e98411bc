// Package trace records what the checker is doing while it runs.
//
// Events are spans (begin/end pairs) and points, grouped by scope:
//
//   - ScopeDriver: one invocation of the driver
//   - ScopePhase: parse, resolve, trust, attrs, bodies, unify
//   - ScopeUnit: per-file work inside a phase
//
// The level picks how deep to go:
//
//	circa check --trace=- --trace-level=phase ./project
//
// A StreamTracer writes every event as it happens (text or NDJSON); a
// RingTracer keeps the last events in memory and is dumped when the run
// fails. Both are safe for concurrent use. A disabled tracer costs one
// interface call per span.
package trace
