// Package diag defines the diagnostic model shared by all front-end phases.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced by
//     the lexer, the recovering parser and the semantic passes.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//
// # Scope
//
// Package diag does not perform colouring, IO or CLI integration. Rendering
// lives in internal/diagfmt; orchestration lives in internal/driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – every diagnostic is an error; there are no warnings.
//   - Code – compact numeric identifier (see codes.go) with a stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the issue.
//   - Notes – optional secondary spans/messages for additional context.
//
// # Ordering
//
// A Bag keeps diagnostics in the order they were recorded. Producers rely on
// this: the parser reports first, then attribute legality, then unification.
// Nothing is dropped; limits are applied by renderers only.
//
// # Emitting diagnostics
//
// Phases use a diag.Reporter. The parser, for example, constructs a
// ReportBuilder via ReportError and chains WithNote before calling Emit.
// diag.BagReporter aggregates diagnostics into a Bag.
package diag
