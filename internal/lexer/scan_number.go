package lexer

import (
	"circa/internal/diag"
	"circa/internal/token"
)

// Поддержка: 0, 123, 1_000, 0b..., 0o..., 0x...
// Дробных чисел в языке нет. Буквенный хвост (123abc) репортится как BadNumber.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	digit := isDec
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' {
		prefixed := true
		switch b1 {
		case 'b', 'B':
			digit = func(b byte) bool { return b == '0' || b == '1' }
		case 'o', 'O':
			digit = func(b byte) bool { return b >= '0' && b <= '7' }
		case 'x', 'X':
			digit = isHex
		default:
			prefixed = false
		}
		if prefixed {
			lx.cursor.Bump()
			lx.cursor.Bump()
			if !digit(lx.cursor.Peek()) {
				return lx.badNumber(start, "expected digits after base prefix")
			}
		}
	}

	for digit(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}

	if isIdentContinueByte(lx.cursor.Peek()) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		return lx.badNumber(start, "invalid digit in integer literal")
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.IntLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func (lx *Lexer) badNumber(start Mark, msg string) token.Token {
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexBadNumber, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
