// Package sema runs the semantic passes over a frozen symbol table:
//
//   - attrs:  low-level functions (#[foreign], #[builtin]) outside the trusted root
//   - bodies: ordinary functions declared without a body
//   - unify:  signature lowering, expression typing and numeric generic
//     inference at every call site
//
// Each pass reports through its own diag.Reporter so the driver can keep
// the record order parser → attrs → bodies → unify.
package sema
