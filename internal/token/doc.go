// Package token defines lexical token kinds for circa sources.
// Invariants:
//   - Token.Text is the exact source text of Token.Span (identifiers are NFC-normalized).
//   - Built-in type names (Field, bool, u1..u128, i8..i128) are identifiers.
//     They are recognized when types are lowered, not by the lexer.
//   - Attributes are lexed as '#' '[' Ident ... ']'; there are no per-attribute kinds.
//   - Comments and whitespace never reach the token stream.
package token
