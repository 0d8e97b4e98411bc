package parser

import (
	"fmt"

	"circa/internal/diag"
	"circa/internal/source"
	"circa/internal/token"
)

// advance — съедает следующий токен и обновляет lastSpan. EOF is never consumed.
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind == token.EOF {
		return tok
	}
	p.pos++
	p.lastSpan = tok.Span
	return tok
}

// getDiagnosticSpan — лучший span для диагностики: at EOF it points just past
// the last consumed token.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return p.lastSpan.ZeroideToEnd()
	}
	return peek.Span
}

// found renders the current token for "but found ..." messages.
func found(tok token.Token) string {
	if tok.Kind == token.EOF {
		return "end of file"
	}
	return "`" + tok.Display() + "`"
}

// expect — ожидаем конкретный токен. Если нет — репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.getDiagnosticSpan()
	p.report(code, sp, fmt.Sprintf("expected `%s` but found %s", k, found(p.peek())))
	return token.Token{Kind: token.Invalid, Span: sp}, false
}

// репортует ошибку на текущем токене
func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string) {
	diag.ReportError(p.opts.Reporter, code, sp, msg).Emit()
}

// resyncUntil skips tokens until one of kinds (not consumed) or EOF.
func (p *Parser) resyncUntil(kinds ...token.Kind) {
	for !p.at(token.EOF) && !p.atOr(kinds...) {
		p.advance()
	}
}

// parseIdent — ожидает Ident и интернирует его.
func (p *Parser) parseIdent(what string) (source.StringID, source.Span, bool) {
	if p.at(token.Ident) {
		tok := p.advance()
		return p.intern(tok.Text), tok.Span, true
	}
	p.err(diag.SynExpectIdentifier, fmt.Sprintf("expected %s but found %s", what, found(p.peek())))
	return source.NoStringID, p.getDiagnosticSpan(), false
}
