package sema

import (
	"fmt"

	"circa/internal/ast"
	"circa/internal/diag"
	"circa/internal/source"
	"circa/internal/types"
)

// lowerer turns type syntax into types.Type with the generics of one
// function in scope.
type lowerer struct {
	c        *checker
	builder  *ast.Builder
	owner    string
	generics map[string]*Generic
}

func (lw *lowerer) lowerType(id ast.TypeID) types.Type {
	if !id.IsValid() {
		return types.Unit()
	}
	te := lw.builder.Types.Get(id)
	if te == nil {
		return types.Unresolved()
	}
	switch te.Kind {
	case ast.TypeExprUnit:
		return types.Unit()
	case ast.TypeExprPath:
		name := lw.builder.Name(te.Name)
		if g, ok := lw.generics[name]; ok {
			if g.Kind == ast.GenericType {
				return types.Generic(name, lw.owner)
			}
			lw.c.report(diag.SemaUnknownType, te.Span, "expected type, found numeric generic `%s`", name)
			return types.Unresolved()
		}
		if t, ok := types.LookupBuiltin(name); ok {
			return t
		}
		lw.c.report(diag.SemaUnknownType, te.Span, "cannot find type `%s` in this scope", name)
		return types.Unresolved()
	case ast.TypeExprArray:
		elem := lw.lowerType(te.Elem)
		length, ok := lw.checkedLength(te.Len)
		if !ok || elem.IsUnresolved() {
			return types.Unresolved()
		}
		return types.Array(elem, length)
	default:
		// синтаксическая ошибка уже выдана парсером
		return types.Unresolved()
	}
}

// lowerLength reports names that are not numeric generics; ok=false means the
// enclosing type must become Unresolved.
func (lw *lowerer) lowerLength(id ast.LengthID) (types.Length, bool) {
	le := lw.builder.Types.Length(id)
	if le == nil {
		return types.Unknown(), true
	}
	switch le.Kind {
	case ast.LengthLiteral:
		return types.Lit(uint64(le.Value)), true
	case ast.LengthName:
		name := lw.builder.Name(le.Name)
		g, ok := lw.generics[name]
		if !ok {
			lw.c.report(diag.SemaUnresolvedSymbol, le.Span, "cannot find numeric generic `%s` in this scope", name)
			return types.Unknown(), false
		}
		if g.Kind != ast.GenericNumeric {
			lw.c.report(diag.SemaTypeMismatch, le.Span, "type generic `%s` cannot be used as an array length", name)
			return types.Unknown(), false
		}
		return types.Named(name, lw.owner), true
	case ast.LengthBinary:
		l, okL := lw.lowerLength(le.L)
		r, okR := lw.lowerLength(le.R)
		if !okL || !okR {
			return types.Unknown(), false
		}
		return types.Binary(lengthOp(le.Op), l, r), true
	default:
		return types.Unknown(), true
	}
}

// checkedLength lowers an array length and rejects constants that fall
// outside 0..MaxLength.
func (lw *lowerer) checkedLength(id ast.LengthID) (types.Length, bool) {
	l, ok := lw.lowerLength(id)
	if !ok {
		return l, false
	}
	rng, v := l.CheckRange(types.MaxLength)
	if rng != types.RangeNegative && rng != types.RangeOverflow {
		return l, true
	}
	var span source.Span
	if le := lw.builder.Types.Length(id); le != nil {
		span = le.Span
	}
	lw.c.report(diag.SemaLengthOutOfRange, span, "array length `%s` %s", l, describeRange(rng, v))
	return types.Unknown(), false
}

func lengthOp(op ast.LengthOp) types.Op {
	switch op {
	case ast.LengthAdd:
		return types.OpAdd
	case ast.LengthSub:
		return types.OpSub
	default:
		return types.OpMul
	}
}

func describeGenericKind(k ast.GenericKind) string {
	if k == ast.GenericNumeric {
		return "numeric generic"
	}
	return "type generic"
}

func genericsList(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("`%s`", n)
	}
	return out
}
