package sema

import (
	"circa/internal/ast"
	"circa/internal/diag"
	"circa/internal/source"
	"circa/internal/symbols"
	"circa/internal/types"
)

type local struct {
	typ  types.Type
	span source.Span
}

// fnChecker type-checks the body of one function.
type fnChecker struct {
	c       *checker
	sig     *Signature
	symbol  symbols.SymbolID
	module  symbols.ModuleID
	builder *ast.Builder
	lw      *lowerer
	scopes  []map[string]local
}

func (c *checker) checkFunction(id symbols.SymbolID) {
	fn, builder := c.table.FunctionItem(id)
	sig := c.result.Signatures[id]
	if fn == nil || sig == nil || !fn.HasBody || sig.LowLevel {
		return
	}
	fc := &fnChecker{
		c:       c,
		sig:     sig,
		symbol:  id,
		module:  c.table.Symbol(id).Module,
		builder: builder,
		lw:      &lowerer{c: c, builder: builder, owner: sig.Owner, generics: make(map[string]*Generic)},
	}
	for i := range sig.Generics {
		fc.lw.generics[sig.Generics[i].Name] = &sig.Generics[i]
	}
	fc.push()
	for _, p := range sig.Params {
		fc.declare(p.Name, p.Type, p.Span)
	}
	fc.checkBody(fn.Body)
}

func (fc *fnChecker) push() { fc.scopes = append(fc.scopes, make(map[string]local)) }
func (fc *fnChecker) pop()  { fc.scopes = fc.scopes[:len(fc.scopes)-1] }

func (fc *fnChecker) declare(name string, t types.Type, span source.Span) {
	fc.scopes[len(fc.scopes)-1][name] = local{typ: t, span: span}
}

func (fc *fnChecker) lookupLocal(name string) (local, bool) {
	for i := len(fc.scopes) - 1; i >= 0; i-- {
		if l, ok := fc.scopes[i][name]; ok {
			return l, true
		}
	}
	return local{}, false
}

// checkBody checks statements in order and the tail against the declared
// result type.
func (fc *fnChecker) checkBody(body ast.StmtID) {
	block := fc.builder.Stmts.Block(body)
	if block == nil {
		return
	}
	fc.push()
	defer fc.pop()

	for _, stmtID := range block.Stmts {
		fc.checkStmt(stmtID)
	}

	want := fc.sig.Result
	if block.Tail.IsValid() {
		got := fc.exprType(block.Tail, &want)
		fc.expect(want, got, fc.exprSpan(block.Tail))
		return
	}
	if want.Kind != types.KindUnit && !want.HasUnresolved() {
		span := fc.builder.Stmts.Get(body).Span
		fc.c.report(diag.SemaTypeMismatch, span.ZeroideToEnd(),
			"expected type `%s`, found type `()`", want)
	}
}

func (fc *fnChecker) checkStmt(id ast.StmtID) {
	stmt := fc.builder.Stmts.Get(id)
	if stmt == nil {
		return
	}
	switch stmt.Kind {
	case ast.StmtLet:
		fc.checkLet(fc.builder.Stmts.Let(id))
	case ast.StmtExpr:
		fc.exprType(fc.builder.Stmts.Expr(id).Expr, nil)
	case ast.StmtBlock:
		fc.checkBlock(id)
	}
}

func (fc *fnChecker) checkBlock(id ast.StmtID) {
	block := fc.builder.Stmts.Block(id)
	if block == nil {
		return
	}
	fc.push()
	defer fc.pop()
	for _, s := range block.Stmts {
		fc.checkStmt(s)
	}
	if block.Tail.IsValid() {
		fc.exprType(block.Tail, nil)
	}
}

// checkLet types the value against the annotation; the mismatch is reported
// at the value.
func (fc *fnChecker) checkLet(let *ast.LetStmt) {
	if let == nil {
		return
	}
	name := fc.builder.Name(let.Name)
	if !let.Type.IsValid() {
		fc.declare(name, fc.exprType(let.Value, nil), let.NameSpan)
		return
	}
	declared := fc.lw.lowerType(let.Type)
	var hint *types.Type
	if !declared.HasUnresolved() {
		hint = &declared
	}
	got := fc.exprType(let.Value, hint)
	fc.expect(declared, got, fc.exprSpan(let.Value))
	fc.declare(name, declared, let.NameSpan)
}

// expect reports a mismatch unless either side already carries an error.
// An Unknown length on the expected side matches anything; on the found
// side it mismatches a known length.
func (fc *fnChecker) expect(want, got types.Type, span source.Span) bool {
	if want.HasUnresolved() || got.HasUnresolved() {
		return true
	}
	if assignable(want, got) {
		return true
	}
	fc.c.report(diag.SemaTypeMismatch, span, "expected type `%s`, found type `%s`", want, got)
	return false
}

func assignable(want, got types.Type) bool {
	if want.Kind != got.Kind {
		return false
	}
	switch want.Kind {
	case types.KindArray:
		if !assignable(*want.Elem, *got.Elem) {
			return false
		}
		if want.Len.HasUnknown() {
			return true
		}
		if got.Len.HasUnknown() {
			return false
		}
		return types.LengthEqual(want.Len, got.Len)
	default:
		return types.Equal(want, got)
	}
}

func (fc *fnChecker) exprSpan(id ast.ExprID) source.Span {
	if e := fc.builder.Exprs.Get(id); e != nil {
		return e.Span
	}
	return source.Span{}
}
