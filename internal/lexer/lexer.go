package lexer

import (
	"unicode/utf8"

	"circa/internal/source"
	"circa/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token // 1 элементный буфер для токена
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next возвращает следующий значимый токен.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	for {
		lx.skipTrivia()

		if lx.cursor.EOF() {
			return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
		}

		ch := lx.cursor.Peek()
		switch {
		case isIdentStartByte(ch) || ch >= utf8.RuneSelf:
			if tok, ok := lx.scanIdentOrKeyword(); ok {
				return tok
			}
		case isDec(ch):
			return lx.scanNumber()
		default:
			if tok, ok := lx.scanOperatorOrPunct(); ok {
				return tok
			}
		}
		// неизвестный символ уже зарепорчен и пропущен
	}
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

// Tokenize lexes the whole file. The result always ends with exactly one EOF token.
func Tokenize(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	toks := make([]token.Token, 0, len(file.Content)/3+1)
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}
