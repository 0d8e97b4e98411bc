package parser

import (
	"circa/internal/ast"
	"circa/internal/diag"
	"circa/internal/source"
	"circa/internal/token"
)

// parseExpr parses an expression:
//
//	Expr    = Term (('+' | '-') Term)*
//	Term    = Postfix ('*' Postfix)*
//	Postfix = Primary ( '(' Args ')' | '[' Expr ']' )*
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	l, ok := p.parseTerm()
	for ok && p.atOr(token.Plus, token.Minus) {
		op := ast.ExprAdd
		if p.advance().Kind == token.Minus {
			op = ast.ExprSub
		}
		var r ast.ExprID
		if r, ok = p.parseTerm(); !ok {
			return ast.NoExprID, false
		}
		l = p.arenas.Exprs.NewBinary(op, l, r, p.exprSpan(l).Cover(p.lastSpan))
	}
	return l, ok
}

func (p *Parser) parseTerm() (ast.ExprID, bool) {
	l, ok := p.parsePostfix()
	for ok && p.at(token.Star) {
		p.advance()
		var r ast.ExprID
		if r, ok = p.parsePostfix(); !ok {
			return ast.NoExprID, false
		}
		l = p.arenas.Exprs.NewBinary(ast.ExprMul, l, r, p.exprSpan(l).Cover(p.lastSpan))
	}
	return l, ok
}

func (p *Parser) parsePostfix() (ast.ExprID, bool) {
	e, ok := p.parsePrimary()
	for ok {
		switch p.peek().Kind {
		case token.LParen:
			e, ok = p.parseCall(e, nil)
		case token.LBracket:
			p.advance()
			var idx ast.ExprID
			if idx, ok = p.parseExpr(); !ok {
				return ast.NoExprID, false
			}
			if _, ok = p.expect(token.RBracket, diag.SynExpectRightBracket); !ok {
				return ast.NoExprID, false
			}
			e = p.arenas.Exprs.NewIndex(e, idx, p.exprSpan(e).Cover(p.lastSpan))
		default:
			return e, true
		}
	}
	return ast.NoExprID, false
}

func (p *Parser) parsePrimary() (ast.ExprID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		v, ok := parseIntLiteral(tok.Text)
		return p.arenas.Exprs.NewIntLit(ast.ExprLitData{Text: tok.Text, Value: v, Overflow: !ok}, tok.Span), true
	case token.KwTrue, token.KwFalse:
		p.advance()
		return p.arenas.Exprs.NewBoolLit(tok.Kind == token.KwTrue, tok.Text, tok.Span), true
	case token.Ident:
		return p.parsePathExpr()
	case token.LParen:
		p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen); !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewGroup(inner, tok.Span.Cover(p.lastSpan)), true
	case token.LBracket:
		return p.parseArrayExpr()
	default:
		p.err(diag.SynExpectExpression, "expected expression but found "+found(tok))
		return ast.NoExprID, false
	}
}

// parsePathExpr parses `a`, `a::b::f` and `f::<A, 3>(args)`.
func (p *Parser) parsePathExpr() (ast.ExprID, bool) {
	first := p.advance()
	segs := []source.StringID{p.intern(first.Text)}
	spans := []source.Span{first.Span}

	var turbofish []ast.GenericArg
	hasTurbofish := false
	for p.at(token.ColonColon) {
		if p.peekN(1).Kind == token.Lt {
			p.advance() // ::
			args, ok := p.parseTurbofish()
			if !ok {
				return ast.NoExprID, false
			}
			turbofish, hasTurbofish = args, true
			break
		}
		p.advance()
		name, nameSpan, ok := p.parseIdent("path segment")
		if !ok {
			return ast.NoExprID, false
		}
		segs = append(segs, name)
		spans = append(spans, nameSpan)
	}

	path := p.arenas.Exprs.NewPath(segs, spans, first.Span.Cover(spans[len(spans)-1]))
	if !hasTurbofish {
		return path, true
	}
	if !p.at(token.LParen) {
		p.err(diag.SynUnexpectedToken, "expected `(` after generic arguments but found "+found(p.peek()))
		return ast.NoExprID, false
	}
	return p.parseCall(path, turbofish)
}

// parseTurbofish parses `<arg, ...>` after `::`. Integer literals, parenthesised
// and arithmetic arguments are lengths; everything else parses as a type.
func (p *Parser) parseTurbofish() ([]ast.GenericArg, bool) {
	p.advance() // <
	args := make([]ast.GenericArg, 0, 2)
	for !p.at(token.Gt) {
		start := p.peek().Span
		isLength := p.atOr(token.IntLit, token.LParen) ||
			(p.at(token.Ident) && isLengthOp(p.peekN(1).Kind))
		if isLength {
			l, ok := p.parseLength()
			if !ok {
				return nil, false
			}
			args = append(args, ast.GenericArg{Kind: ast.GenericArgLength, Len: l, Span: start.Cover(p.lastSpan)})
		} else {
			t, ok := p.parseType()
			if !ok {
				return nil, false
			}
			args = append(args, ast.GenericArg{Kind: ast.GenericArgType, Type: t, Span: start.Cover(p.lastSpan)})
		}

		if p.at(token.Comma) {
			p.advance()
			continue
		}
		if !p.at(token.Gt) {
			p.err(diag.SynUnclosedAngle, "expected `,` or `>` but found "+found(p.peek()))
			return nil, false
		}
	}
	p.advance() // >
	return args, true
}

func isLengthOp(k token.Kind) bool {
	return k == token.Plus || k == token.Minus || k == token.Star
}

func (p *Parser) parseCall(callee ast.ExprID, turbofish []ast.GenericArg) (ast.ExprID, bool) {
	p.advance() // (
	args := make([]ast.ExprID, 0, 4)
	for !p.at(token.RParen) {
		arg, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		args = append(args, arg)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		if !p.at(token.RParen) {
			p.err(diag.SynUnclosedParen, "expected `,` or `)` but found "+found(p.peek()))
			return ast.NoExprID, false
		}
	}
	p.advance() // )
	return p.arenas.Exprs.NewCall(callee, turbofish, args, p.exprSpan(callee).Cover(p.lastSpan)), true
}

// parseArrayExpr parses `[a, b, c]` and `[value; N]`.
func (p *Parser) parseArrayExpr() (ast.ExprID, bool) {
	open := p.advance() // [
	if p.at(token.RBracket) {
		closeTok := p.advance()
		return p.arenas.Exprs.NewArray(nil, open.Span.Cover(closeTok.Span)), true
	}

	first, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}

	if p.at(token.Semicolon) {
		p.advance()
		length, ok := p.parseLength()
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.expect(token.RBracket, diag.SynExpectRightBracket); !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewRepeat(first, length, open.Span.Cover(p.lastSpan)), true
	}

	elems := []ast.ExprID{first}
	for !p.at(token.RBracket) {
		if !p.at(token.Comma) {
			p.err(diag.SynExpectRightBracket, "expected `,` or `]` but found "+found(p.peek()))
			return ast.NoExprID, false
		}
		p.advance()
		if p.at(token.RBracket) {
			break // висячая запятая
		}
		e, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		elems = append(elems, e)
	}
	closeTok := p.advance()
	return p.arenas.Exprs.NewArray(elems, open.Span.Cover(closeTok.Span)), true
}

func (p *Parser) exprSpan(id ast.ExprID) source.Span {
	if e := p.arenas.Exprs.Get(id); e != nil {
		return e.Span
	}
	return p.lastSpan
}
