package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"circa/internal/ast"
	"circa/internal/diag"
	"circa/internal/source"
	"circa/internal/token"
)

// parseType распознаёт типовые выражения:
//
//	Ident            Field, u32, bool, T
//	'(' ')'          unit
//	'[' Type ';' Length ']'
//
// On failure the returned id may still be valid (an array with an Unknown
// length) so that callers can record what was parsed.
func (p *Parser) parseType() (ast.TypeID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		return p.arenas.Types.NewPath(p.intern(tok.Text), tok.Span), true
	case token.LParen:
		p.advance()
		closeTok, ok := p.expect(token.RParen, diag.SynUnclosedParen)
		if !ok {
			return ast.NoTypeID, false
		}
		return p.arenas.Types.NewUnit(tok.Span.Cover(closeTok.Span)), true
	case token.LBracket:
		return p.parseArrayType()
	default:
		p.err(diag.SynExpectType, "expected type but found "+found(tok))
		return ast.NoTypeID, false
	}
}

// parseArrayType parses `[T; N]`.
//
// Any token other than `;` or `]` after the element type is reported once, at
// that token, without consuming it: "expected `]` but found `:`". The type
// becomes `[T]` with an Unknown length and the rest of the item is abandoned.
func (p *Parser) parseArrayType() (ast.TypeID, bool) {
	open := p.advance() // [

	elem, ok := p.parseType()
	if !ok {
		if !elem.IsValid() {
			return ast.NoTypeID, false
		}
		return p.arenas.Types.NewArray(elem, p.arenas.Types.NewUnknownLength(p.lastSpan), open.Span.Cover(p.lastSpan)), false
	}

	switch p.peek().Kind {
	case token.Semicolon:
		p.advance()
		length, ok := p.parseLength()
		if !ok {
			return p.arenas.Types.NewArray(elem, length, open.Span.Cover(p.lastSpan)), false
		}
		if !p.at(token.RBracket) {
			p.report(diag.SynExpectRightBracket, p.getDiagnosticSpan(), "expected `]` but found "+found(p.peek()))
			p.abandon = true
			return p.arenas.Types.NewArray(elem, length, open.Span.Cover(p.lastSpan)), false
		}
		closeTok := p.advance()
		return p.arenas.Types.NewArray(elem, length, open.Span.Cover(closeTok.Span)), true

	case token.RBracket:
		closeTok := p.advance()
		p.report(diag.SynExpectLength, closeTok.Span, "array type requires a length: expected `;` but found `]`")
		return p.arenas.Types.NewArray(elem, p.arenas.Types.NewUnknownLength(closeTok.Span), open.Span.Cover(closeTok.Span)), true

	default:
		sp := p.getDiagnosticSpan()
		p.report(diag.SynExpectRightBracket, sp, "expected `]` but found "+found(p.peek()))
		p.abandon = true
		return p.arenas.Types.NewArray(elem, p.arenas.Types.NewUnknownLength(sp), open.Span.Cover(p.lastSpan)), false
	}
}

// parseLength parses an array length expression:
//
//	Length  = Term (('+' | '-') Term)*
//	Term    = Primary ('*' Primary)*
//	Primary = IntLit | Ident | '(' Length ')'
func (p *Parser) parseLength() (ast.LengthID, bool) {
	l, ok := p.parseLengthTerm()
	for ok && p.atOr(token.Plus, token.Minus) {
		opTok := p.advance()
		op := ast.LengthAdd
		if opTok.Kind == token.Minus {
			op = ast.LengthSub
		}
		var r ast.LengthID
		r, ok = p.parseLengthTerm()
		l = p.arenas.Types.NewBinaryLength(op, l, r, p.lengthSpan(l).Cover(p.lastSpan))
	}
	return l, ok
}

func (p *Parser) parseLengthTerm() (ast.LengthID, bool) {
	l, ok := p.parseLengthPrimary()
	for ok && p.at(token.Star) {
		p.advance()
		var r ast.LengthID
		r, ok = p.parseLengthPrimary()
		l = p.arenas.Types.NewBinaryLength(ast.LengthMul, l, r, p.lengthSpan(l).Cover(p.lastSpan))
	}
	return l, ok
}

func (p *Parser) parseLengthPrimary() (ast.LengthID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		v, ok := parseIntLiteral(tok.Text)
		if !ok || v > math.MaxUint32 {
			p.report(diag.SynLengthLiteralRange, tok.Span, fmt.Sprintf("array length `%s` does not fit in u32", tok.Text))
			return p.arenas.Types.NewUnknownLength(tok.Span), true
		}
		return p.arenas.Types.NewLiteralLength(uint32(v), tok.Span), true
	case token.Ident:
		p.advance()
		return p.arenas.Types.NewNameLength(p.intern(tok.Text), tok.Span), true
	case token.LParen:
		p.advance()
		inner, ok := p.parseLength()
		if !ok {
			return inner, false
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen); !ok {
			return inner, false
		}
		return inner, true
	default:
		p.err(diag.SynExpectLength, "expected array length but found "+found(tok))
		return p.arenas.Types.NewUnknownLength(p.getDiagnosticSpan()), false
	}
}

func (p *Parser) lengthSpan(id ast.LengthID) (sp source.Span) {
	if l := p.arenas.Types.Length(id); l != nil {
		return l.Span
	}
	return p.lastSpan
}

// parseIntLiteral accepts decimal, 0x, 0o and 0b literals with `_` separators.
func parseIntLiteral(text string) (uint64, bool) {
	text = strings.ReplaceAll(text, "_", "")
	base := 0
	if len(text) > 1 && text[0] == '0' && text[1] >= '0' && text[1] <= '9' {
		base = 10 // без неявной восьмеричной системы
	}
	v, err := strconv.ParseUint(text, base, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
