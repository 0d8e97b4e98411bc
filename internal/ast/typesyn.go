package ast

import (
	"circa/internal/source"
)

type TypeExprKind uint8

const (
	// TypeExprInvalid — тип не разобран; ниже по конвейеру это Unresolved.
	TypeExprInvalid TypeExprKind = iota
	// TypeExprPath — Field, u32, bool, T ...
	TypeExprPath
	// TypeExprArray — [Elem; Len]
	TypeExprArray
	// TypeExprUnit — ()
	TypeExprUnit
)

type TypeExpr struct {
	Kind     TypeExprKind
	Span     source.Span
	Name     source.StringID // TypeExprPath
	NameSpan source.Span
	Elem     TypeID   // TypeExprArray
	Len      LengthID // TypeExprArray; LengthUnknown after a malformed separator
}

type LengthKind uint8

const (
	// LengthUnknown — длину не удалось разобрать.
	LengthUnknown LengthKind = iota
	LengthLiteral
	LengthName
	LengthBinary
)

type LengthOp uint8

const (
	LengthAdd LengthOp = iota
	LengthSub
	LengthMul
)

func (op LengthOp) String() string {
	switch op {
	case LengthAdd:
		return "+"
	case LengthSub:
		return "-"
	default:
		return "*"
	}
}

type LengthExpr struct {
	Kind  LengthKind
	Span  source.Span
	Value uint32          // LengthLiteral
	Name  source.StringID // LengthName
	Op    LengthOp        // LengthBinary
	L, R  LengthID        // LengthBinary
}

type TypeExprs struct {
	Arena   *Arena[TypeExpr]
	Lengths *Arena[LengthExpr]
}

func NewTypeExprs(capHint uint) *TypeExprs {
	return &TypeExprs{
		Arena:   NewArena[TypeExpr](capHint),
		Lengths: NewArena[LengthExpr](capHint),
	}
}

func (t *TypeExprs) NewPath(name source.StringID, span source.Span) TypeID {
	return TypeID(t.Arena.Allocate(TypeExpr{Kind: TypeExprPath, Span: span, Name: name, NameSpan: span}))
}

func (t *TypeExprs) NewArray(elem TypeID, length LengthID, span source.Span) TypeID {
	return TypeID(t.Arena.Allocate(TypeExpr{Kind: TypeExprArray, Span: span, Elem: elem, Len: length}))
}

func (t *TypeExprs) NewUnit(span source.Span) TypeID {
	return TypeID(t.Arena.Allocate(TypeExpr{Kind: TypeExprUnit, Span: span}))
}

func (t *TypeExprs) Get(id TypeID) *TypeExpr {
	return t.Arena.Get(uint32(id))
}

func (t *TypeExprs) NewLiteralLength(v uint32, span source.Span) LengthID {
	return LengthID(t.Lengths.Allocate(LengthExpr{Kind: LengthLiteral, Span: span, Value: v}))
}

func (t *TypeExprs) NewNameLength(name source.StringID, span source.Span) LengthID {
	return LengthID(t.Lengths.Allocate(LengthExpr{Kind: LengthName, Span: span, Name: name}))
}

func (t *TypeExprs) NewBinaryLength(op LengthOp, l, r LengthID, span source.Span) LengthID {
	return LengthID(t.Lengths.Allocate(LengthExpr{Kind: LengthBinary, Span: span, Op: op, L: l, R: r}))
}

func (t *TypeExprs) NewUnknownLength(span source.Span) LengthID {
	return LengthID(t.Lengths.Allocate(LengthExpr{Kind: LengthUnknown, Span: span}))
}

func (t *TypeExprs) Length(id LengthID) *LengthExpr {
	return t.Lengths.Get(uint32(id))
}
