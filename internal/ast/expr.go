package ast

import (
	"circa/internal/source"
)

type ExprKind uint8

const (
	// ExprInvalid — выражение не разобрано.
	ExprInvalid ExprKind = iota
	ExprPath             // x, a::b::f
	ExprIntLit           // 100
	ExprBoolLit          // true, false
	ExprCall             // f::<N>(a, b)
	ExprArray            // [a, b, c]
	ExprRepeat           // [v; N]
	ExprBinary           // a + b
	ExprIndex            // a[i]
	ExprGroup            // (a)
)

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type ExprPathData struct {
	Segments []source.StringID
	Spans    []source.Span
}

type ExprLitData struct {
	Text  string
	Value uint64 // ExprIntLit; 1/0 for ExprBoolLit
	// Overflow is set when the literal does not fit in 64 bits.
	Overflow bool
}

type GenericArgKind uint8

const (
	GenericArgType GenericArgKind = iota
	GenericArgLength
)

// GenericArg is one turbofish argument. A bare identifier is parsed as a type
// path; the checker reinterprets it as a length when the generic is numeric.
type GenericArg struct {
	Kind GenericArgKind
	Type TypeID
	Len  LengthID
	Span source.Span
}

type ExprCallData struct {
	Callee    ExprID
	Turbofish []GenericArg
	Args      []ExprID
}

type ExprArrayData struct {
	Elems []ExprID
}

type ExprRepeatData struct {
	Value ExprID
	Len   LengthID
}

type ExprBinaryOp uint8

const (
	ExprAdd ExprBinaryOp = iota
	ExprSub
	ExprMul
)

func (op ExprBinaryOp) String() string {
	switch op {
	case ExprAdd:
		return "+"
	case ExprSub:
		return "-"
	default:
		return "*"
	}
}

type ExprBinaryData struct {
	Op   ExprBinaryOp
	L, R ExprID
}

type ExprIndexData struct {
	Base, Index ExprID
}

type ExprGroupData struct {
	Inner ExprID
}

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena    *Arena[Expr]
	Paths    *Arena[ExprPathData]
	Literals *Arena[ExprLitData]
	Calls    *Arena[ExprCallData]
	Arrays   *Arena[ExprArrayData]
	Repeats  *Arena[ExprRepeatData]
	Binaries *Arena[ExprBinaryData]
	Indices  *Arena[ExprIndexData]
	Groups   *Arena[ExprGroupData]
}

func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Exprs{
		Arena:    NewArena[Expr](capHint),
		Paths:    NewArena[ExprPathData](capHint),
		Literals: NewArena[ExprLitData](capHint),
		Calls:    NewArena[ExprCallData](capHint),
		Arrays:   NewArena[ExprArrayData](capHint),
		Repeats:  NewArena[ExprRepeatData](capHint),
		Binaries: NewArena[ExprBinaryData](capHint),
		Indices:  NewArena[ExprIndexData](capHint),
		Groups:   NewArena[ExprGroupData](capHint),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) NewPath(segs []source.StringID, spans []source.Span, span source.Span) ExprID {
	return e.new(ExprPath, span, e.Paths.Allocate(ExprPathData{Segments: segs, Spans: spans}))
}

func (e *Exprs) NewIntLit(lit ExprLitData, span source.Span) ExprID {
	return e.new(ExprIntLit, span, e.Literals.Allocate(lit))
}

func (e *Exprs) NewBoolLit(v bool, text string, span source.Span) ExprID {
	lit := ExprLitData{Text: text}
	if v {
		lit.Value = 1
	}
	return e.new(ExprBoolLit, span, e.Literals.Allocate(lit))
}

func (e *Exprs) NewCall(callee ExprID, turbofish []GenericArg, args []ExprID, span source.Span) ExprID {
	return e.new(ExprCall, span, e.Calls.Allocate(ExprCallData{Callee: callee, Turbofish: turbofish, Args: args}))
}

func (e *Exprs) NewArray(elems []ExprID, span source.Span) ExprID {
	return e.new(ExprArray, span, e.Arrays.Allocate(ExprArrayData{Elems: elems}))
}

func (e *Exprs) NewRepeat(value ExprID, length LengthID, span source.Span) ExprID {
	return e.new(ExprRepeat, span, e.Repeats.Allocate(ExprRepeatData{Value: value, Len: length}))
}

func (e *Exprs) NewBinary(op ExprBinaryOp, l, r ExprID, span source.Span) ExprID {
	return e.new(ExprBinary, span, e.Binaries.Allocate(ExprBinaryData{Op: op, L: l, R: r}))
}

func (e *Exprs) NewIndex(base, index ExprID, span source.Span) ExprID {
	return e.new(ExprIndex, span, e.Indices.Allocate(ExprIndexData{Base: base, Index: index}))
}

func (e *Exprs) NewGroup(inner ExprID, span source.Span) ExprID {
	return e.new(ExprGroup, span, e.Groups.Allocate(ExprGroupData{Inner: inner}))
}

func (e *Exprs) Path(id ExprID) *ExprPathData {
	x := e.Get(id)
	if x == nil || x.Kind != ExprPath {
		return nil
	}
	return e.Paths.Get(uint32(x.Payload))
}

func (e *Exprs) Literal(id ExprID) *ExprLitData {
	x := e.Get(id)
	if x == nil || (x.Kind != ExprIntLit && x.Kind != ExprBoolLit) {
		return nil
	}
	return e.Literals.Get(uint32(x.Payload))
}

func (e *Exprs) Call(id ExprID) *ExprCallData {
	x := e.Get(id)
	if x == nil || x.Kind != ExprCall {
		return nil
	}
	return e.Calls.Get(uint32(x.Payload))
}

func (e *Exprs) Array(id ExprID) *ExprArrayData {
	x := e.Get(id)
	if x == nil || x.Kind != ExprArray {
		return nil
	}
	return e.Arrays.Get(uint32(x.Payload))
}

func (e *Exprs) Repeat(id ExprID) *ExprRepeatData {
	x := e.Get(id)
	if x == nil || x.Kind != ExprRepeat {
		return nil
	}
	return e.Repeats.Get(uint32(x.Payload))
}

func (e *Exprs) Binary(id ExprID) *ExprBinaryData {
	x := e.Get(id)
	if x == nil || x.Kind != ExprBinary {
		return nil
	}
	return e.Binaries.Get(uint32(x.Payload))
}

func (e *Exprs) Index(id ExprID) *ExprIndexData {
	x := e.Get(id)
	if x == nil || x.Kind != ExprIndex {
		return nil
	}
	return e.Indices.Get(uint32(x.Payload))
}

func (e *Exprs) Group(id ExprID) *ExprGroupData {
	x := e.Get(id)
	if x == nil || x.Kind != ExprGroup {
		return nil
	}
	return e.Groups.Get(uint32(x.Payload))
}
