package sema

import (
	"strings"

	"circa/internal/ast"
	"circa/internal/diag"
	"circa/internal/types"
)

// exprType computes the type of an expression. expected is a hint taken from
// the context; it decides the type of integer literals and seeds generic
// inference in calls. Callers compare the result with the context themselves.
func (fc *fnChecker) exprType(id ast.ExprID, expected *types.Type) types.Type {
	e := fc.builder.Exprs.Get(id)
	if e == nil {
		return types.Unresolved()
	}
	switch e.Kind {
	case ast.ExprPath:
		return fc.pathType(id)
	case ast.ExprIntLit:
		return fc.intLitType(id, expected)
	case ast.ExprBoolLit:
		return types.Bool()
	case ast.ExprCall:
		return fc.checkCall(id, expected)
	case ast.ExprArray:
		return fc.arrayType(id, expected)
	case ast.ExprRepeat:
		return fc.repeatType(id, expected)
	case ast.ExprBinary:
		return fc.binaryType(id, expected)
	case ast.ExprIndex:
		return fc.indexType(id)
	case ast.ExprGroup:
		return fc.exprType(fc.builder.Exprs.Group(id).Inner, expected)
	default:
		return types.Unresolved()
	}
}

func (fc *fnChecker) pathName(p *ast.ExprPathData) string {
	parts := make([]string, len(p.Segments))
	for i, s := range p.Segments {
		parts[i] = fc.builder.Name(s)
	}
	return strings.Join(parts, "::")
}

func (fc *fnChecker) pathType(id ast.ExprID) types.Type {
	p := fc.builder.Exprs.Path(id)
	span := fc.exprSpan(id)
	name := fc.pathName(p)
	if len(p.Segments) == 1 {
		if l, ok := fc.lookupLocal(name); ok {
			return l.typ
		}
		// числовой generic можно использовать как значение
		if g, ok := fc.lw.generics[name]; ok && g.Kind == ast.GenericNumeric {
			return g.Numeric
		}
	}
	if sym, found := fc.c.table.LookupPath(fc.module, p.Segments); found {
		if s := fc.c.table.Symbol(sym); s != nil {
			fc.c.report(diag.SemaUnresolvedSymbol, span, "expected value, found %s `%s`", s.Kind, name)
		}
		return types.Unresolved()
	}
	fc.c.report(diag.SemaUnresolvedSymbol, span, "cannot find value `%s` in this scope", name)
	return types.Unresolved()
}

func (fc *fnChecker) intLitType(id ast.ExprID, expected *types.Type) types.Type {
	lit := fc.builder.Exprs.Literal(id)
	t := types.Field()
	if expected != nil && expected.IsNumeric() {
		t = *expected
	}
	if t.Kind == types.KindInt && !fitsInt(lit, t) {
		fc.c.report(diag.SemaTypeMismatch, fc.exprSpan(id), "integer literal `%s` does not fit in type `%s`", lit.Text, t)
		return types.Unresolved()
	}
	return t
}

func fitsInt(lit *ast.ExprLitData, t types.Type) bool {
	if lit.Overflow {
		return false
	}
	if t.Signed {
		return t.Width >= 64 || lit.Value < uint64(1)<<(t.Width-1)
	}
	return t.Width >= 64 || lit.Value < uint64(1)<<t.Width
}

func (fc *fnChecker) arrayType(id ast.ExprID, expected *types.Type) types.Type {
	arr := fc.builder.Exprs.Array(id)
	var elemHint *types.Type
	if expected != nil && expected.Kind == types.KindArray {
		elemHint = expected.Elem
	}
	if len(arr.Elems) == 0 {
		if elemHint == nil || elemHint.HasUnresolved() {
			fc.c.report(diag.SemaTypeAnnotationsNeeded, fc.exprSpan(id), "type annotations needed for empty array")
			return types.Unresolved()
		}
		return types.Array(*elemHint, types.Lit(0))
	}

	elem := types.Unresolved()
	for _, e := range arr.Elems {
		hint := elemHint
		if !elem.HasUnresolved() {
			hint = &elem
		}
		got := fc.exprType(e, hint)
		if elem.HasUnresolved() {
			elem = got
			continue
		}
		fc.expect(elem, got, fc.exprSpan(e))
	}
	if elem.HasUnresolved() {
		return types.Unresolved()
	}
	return types.Array(elem, types.Lit(uint64(len(arr.Elems))))
}

func (fc *fnChecker) repeatType(id ast.ExprID, expected *types.Type) types.Type {
	rep := fc.builder.Exprs.Repeat(id)
	var elemHint *types.Type
	if expected != nil && expected.Kind == types.KindArray {
		elemHint = expected.Elem
	}
	elem := fc.exprType(rep.Value, elemHint)
	length, ok := fc.lw.checkedLength(rep.Len)
	if !ok || elem.HasUnresolved() {
		return types.Unresolved()
	}
	return types.Array(elem, length.Simplify())
}

func (fc *fnChecker) binaryType(id ast.ExprID, expected *types.Type) types.Type {
	bin := fc.builder.Exprs.Binary(id)
	var hint *types.Type
	if expected != nil && expected.IsNumeric() {
		hint = expected
	}
	left := fc.exprType(bin.L, hint)
	if !left.HasUnresolved() {
		hint = &left
	}
	right := fc.exprType(bin.R, hint)
	if left.HasUnresolved() || right.HasUnresolved() {
		return types.Unresolved()
	}
	if !left.IsNumeric() {
		fc.c.report(diag.SemaTypeMismatch, fc.exprSpan(bin.L), "cannot apply `%s` to a value of type `%s`", bin.Op, left)
		return types.Unresolved()
	}
	if !fc.expect(left, right, fc.exprSpan(bin.R)) {
		return types.Unresolved()
	}
	return left
}

func (fc *fnChecker) indexType(id ast.ExprID) types.Type {
	idx := fc.builder.Exprs.Index(id)
	base := fc.exprType(idx.Base, nil)
	index := fc.exprType(idx.Index, nil)
	if base.HasUnresolved() {
		return types.Unresolved()
	}
	if base.Kind != types.KindArray {
		fc.c.report(diag.SemaTypeMismatch, fc.exprSpan(idx.Base), "cannot index into a value of type `%s`", base)
		return types.Unresolved()
	}
	if !index.HasUnresolved() && !index.IsNumeric() {
		fc.c.report(diag.SemaTypeMismatch, fc.exprSpan(idx.Index), "array index must be an integer, found type `%s`", index)
	}
	return *base.Elem
}
