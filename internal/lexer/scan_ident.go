package lexer

import (
	"unicode/utf8"

	"circa/internal/diag"
	"circa/internal/token"

	"golang.org/x/text/unicode/norm"
)

// scanIdentOrKeyword сканирует идентификатор и проверяет его через LookupKeyword.
// Non-ASCII identifiers are NFC-normalized so that visually equal names intern equally.
// ok is false when the current rune cannot start an identifier (it is reported and skipped).
func (lx *Lexer) scanIdentOrKeyword() (token.Token, bool) {
	start := lx.cursor.Mark()

	r, _ := lx.char()
	ascii := true
	if r < utf8.RuneSelf {
		lx.cursor.Bump()
	} else {
		if !isIdentStartRune(r) {
			lx.skipChar()
			lx.errLex(diag.LexUnknownChar, lx.cursor.SpanFrom(start), "unknown character "+quoteRune(r))
			return token.Token{}, false
		}
		ascii = false
		lx.skipChar()
	}
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b < utf8.RuneSelf {
			if !isIdentContinueByte(b) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r2, _ := lx.char()
		if !isIdentContinueRune(r2) {
			break
		}
		ascii = false
		lx.skipChar()
	}

	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])
	if !ascii {
		text = norm.NFC.String(text)
	}

	// регистрозависимо
	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}, true
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}, true
}

func quoteRune(r rune) string {
	return "'" + string(r) + "'"
}
