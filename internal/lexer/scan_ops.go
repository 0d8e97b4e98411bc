package lexer

import (
	"fmt"

	"circa/internal/diag"
	"circa/internal/token"
)

var punctPairs = [...]struct {
	a, b byte
	kind token.Kind
}{
	{':', ':', token.ColonColon},
	{'-', '>', token.Arrow},
}

var punctSingle = map[byte]token.Kind{
	'(': token.LParen, ')': token.RParen,
	'{': token.LBrace, '}': token.RBrace,
	'[': token.LBracket, ']': token.RBracket,
	'<': token.Lt, '>': token.Gt,
	',': token.Comma, ':': token.Colon, ';': token.Semicolon, '.': token.Dot,
	'=': token.Assign, '+': token.Plus, '-': token.Minus, '*': token.Star,
	'#': token.Hash,
}

// scanOperatorOrPunct is greedy: `::` and `->` win over `:` and `-`.
// ok is false for an unknown character; it is reported and skipped.
func (lx *Lexer) scanOperatorOrPunct() (token.Token, bool) {
	start := lx.cursor.Mark()
	kind := token.Invalid
	for _, p := range punctPairs {
		if lx.try2(p.a, p.b) {
			kind = p.kind
			break
		}
	}
	if kind == token.Invalid {
		ch := lx.cursor.Bump()
		k, known := punctSingle[ch]
		if !known {
			lx.errLex(diag.LexUnknownChar, lx.cursor.SpanFrom(start), fmt.Sprintf("unknown character %q", ch))
			return token.Token{}, false
		}
		kind = k
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}, true
}
