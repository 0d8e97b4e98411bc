// Package ast holds the arena-allocated syntax tree produced by the parser.
//
// Every node lives in a typed Arena and is addressed by a 1-based uint32 ID;
// the zero ID means "absent". One Builder owns the arenas of one source file;
// identifiers are interned in a shared source.Interner so that files parsed in
// parallel agree on StringIDs.
package ast
