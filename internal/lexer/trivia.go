package lexer

import (
	"circa/internal/diag"
)

// skipTrivia пропускает пробелы, переводы строк и комментарии:
// "// ..." до конца строки и вложенные "/* ... */".
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case ' ', '\t', '\n', '\r':
			lx.cursor.Bump()
			continue
		case '/':
			if lx.skipComment() {
				continue
			}
		}
		return
	}
}

func (lx *Lexer) skipComment() bool {
	start := lx.cursor.Mark()
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '/' {
		return false
	}
	switch b1 {
	case '/':
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		return true
	case '*':
		lx.cursor.Bump()
		lx.cursor.Bump()
		depth := 1
		for !lx.cursor.EOF() && depth > 0 {
			switch {
			case lx.try2('/', '*'):
				depth++
			case lx.try2('*', '/'):
				depth--
			default:
				lx.cursor.Bump()
			}
		}
		if depth > 0 {
			lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
		}
		return true
	}
	return false
}
