package parser

import (
	"circa/internal/ast"
	"circa/internal/diag"
	"circa/internal/token"
)

// blockBreaker reports tokens that cannot appear inside a function body and
// most likely start the next item after an unclosed body.
func blockBreaker(k token.Kind) bool {
	switch k {
	case token.KwFn, token.KwPub, token.KwMod, token.KwUse, token.Hash:
		return true
	default:
		return false
	}
}

// parseBlock parses `{ stmt* tail? }`. Statement-level errors are recovered
// locally; only an abandoning error (p.abandon) escapes, in which case the
// result is NoStmtID.
func (p *Parser) parseBlock() ast.StmtID {
	open := p.advance() // {
	stmts := make([]ast.StmtID, 0, 8)
	tail := ast.NoExprID

	for !p.at(token.RBrace) && !p.at(token.EOF) && !blockBreaker(p.peek().Kind) {
		before := p.pos
		if tail.IsValid() {
			// хвостовое выражение оказалось не последним
			stmts = append(stmts, p.arenas.Stmts.NewExpr(tail, p.arenas.Exprs.Get(tail).Span))
			tail = ast.NoExprID
		}
		stmt, tailExpr, ok := p.parseStmt()
		if p.abandon {
			return ast.NoStmtID
		}
		switch {
		case stmt.IsValid():
			stmts = append(stmts, stmt)
		case tailExpr.IsValid():
			tail = tailExpr
		}
		if !ok {
			p.syncStmt()
		}
		if p.pos == before {
			p.advance()
		}
	}

	if p.at(token.RBrace) {
		p.advance()
	} else {
		p.report(diag.SynUnclosedBrace, open.Span, "unclosed block: expected `}` but found "+found(p.peek()))
	}
	return p.arenas.Stmts.NewBlock(stmts, tail, open.Span.Cover(p.lastSpan))
}

// parseStmt parses one statement. A trailing expression directly before `}`
// is returned as tail instead of a statement.
func (p *Parser) parseStmt() (stmt ast.StmtID, tail ast.ExprID, ok bool) {
	if p.at(token.KwLet) {
		stmt, ok = p.parseLetStmt()
		return stmt, ast.NoExprID, ok
	}
	if p.at(token.Semicolon) {
		p.advance() // пустой оператор
		return ast.NoStmtID, ast.NoExprID, true
	}

	expr, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, ast.NoExprID, false
	}
	span := p.arenas.Exprs.Get(expr).Span
	switch p.peek().Kind {
	case token.Semicolon:
		semi := p.advance()
		return p.arenas.Stmts.NewExpr(expr, span.Cover(semi.Span)), ast.NoExprID, true
	case token.RBrace:
		return ast.NoStmtID, expr, true
	default:
		p.err(diag.SynExpectSemicolon, "expected `;` but found "+found(p.peek()))
		return p.arenas.Stmts.NewExpr(expr, span), ast.NoExprID, true
	}
}

// parseLetStmt parses `let [mut] name [: Type] = expr;`.
func (p *Parser) parseLetStmt() (ast.StmtID, bool) {
	letTok := p.advance()
	let := ast.LetStmt{}
	if p.at(token.KwMut) {
		p.advance()
		let.Mut = true
	}
	name, nameSpan, ok := p.parseIdent("variable name")
	if !ok {
		return ast.NoStmtID, false
	}
	let.Name, let.NameSpan = name, nameSpan

	if p.at(token.Colon) {
		p.advance()
		typ, ok := p.parseType()
		if !ok {
			return ast.NoStmtID, false
		}
		let.Type = typ
	}

	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken); !ok {
		return ast.NoStmtID, false
	}
	value, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	let.Value = value

	p.expect(token.Semicolon, diag.SynExpectSemicolon)
	return p.arenas.Stmts.NewLet(let, letTok.Span.Cover(p.lastSpan)), true
}

// syncStmt skips to the end of the broken statement: past the next `;`, or up
// to the `}` closing the current block.
func (p *Parser) syncStmt() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.Semicolon:
			if depth == 0 {
				p.advance()
				return
			}
		case token.LBrace:
			depth++
		case token.RBrace:
			if depth == 0 {
				return
			}
			depth--
		default:
			if depth == 0 && blockBreaker(p.peek().Kind) {
				return
			}
		}
		p.advance()
	}
}
