package ast

import (
	"circa/internal/source"
)

type GenericKind uint8

const (
	// GenericType — `T`
	GenericType GenericKind = iota
	// GenericNumeric — `let N: u32`
	GenericNumeric
)

type GenericParam struct {
	Name     source.StringID
	NameSpan source.Span
	Kind     GenericKind
	// Underlying integer type of a numeric generic. NoTypeID when the type was
	// omitted; the parser reports that and treats it as u32.
	Underlying TypeID
	Span       source.Span
}

type FnParam struct {
	Name     source.StringID
	NameSpan source.Span
	Mut      bool
	Type     TypeID
	Span     source.Span
}

type FnItem struct {
	Name          source.StringID
	NameSpan      source.Span
	Pub           bool
	Unconstrained bool

	GenericsStart GenericID
	GenericsCount uint32
	ParamsStart   FnParamID
	ParamsCount   uint32

	// Result is NoTypeID for `()`.
	Result TypeID
	// Attr is NoAttrID for ordinary functions.
	Attr AttrID

	Body    StmtID
	HasBody bool
	// Malformed marks a signature cut short by a syntax error. Such a function
	// is recorded without a body; passes must not blame it for that.
	Malformed bool

	Span source.Span
}

// FnSpec is the parser-side description of a function before allocation.
type FnSpec struct {
	Name          source.StringID
	NameSpan      source.Span
	Pub           bool
	Unconstrained bool
	Generics      []GenericParam
	Params        []FnParam
	Result        TypeID
	Attr          *Attr
	Body          StmtID
	HasBody       bool
	Malformed     bool
	Span          source.Span
}

func (i *Items) NewFn(spec FnSpec) ItemID {
	fn := FnItem{
		Name:          spec.Name,
		NameSpan:      spec.NameSpan,
		Pub:           spec.Pub,
		Unconstrained: spec.Unconstrained,
		Result:        spec.Result,
		Body:          spec.Body,
		HasBody:       spec.HasBody,
		Malformed:     spec.Malformed,
		Span:          spec.Span,
	}
	for idx, g := range spec.Generics {
		id := GenericID(i.Generics.Allocate(g))
		if idx == 0 {
			fn.GenericsStart = id
		}
	}
	fn.GenericsCount = countOf(spec.Generics, "generics")
	for idx, param := range spec.Params {
		id := FnParamID(i.FnParams.Allocate(param))
		if idx == 0 {
			fn.ParamsStart = id
		}
	}
	fn.ParamsCount = countOf(spec.Params, "params")
	if spec.Attr != nil {
		fn.Attr = AttrID(i.Attrs.Allocate(*spec.Attr))
	}
	payload := PayloadID(i.Fns.Allocate(fn))
	return i.New(ItemFn, spec.Span, payload)
}

// GetFnGenerics returns the generic parameters of fn in declaration order.
func (i *Items) GetFnGenerics(fn *FnItem) []GenericParam {
	if fn == nil || fn.GenericsCount == 0 {
		return nil
	}
	out := make([]GenericParam, 0, fn.GenericsCount)
	for off := range fn.GenericsCount {
		if g := i.Generics.Get(uint32(fn.GenericsStart) + off); g != nil {
			out = append(out, *g)
		}
	}
	return out
}

// GetFnParams returns the value parameters of fn in declaration order.
func (i *Items) GetFnParams(fn *FnItem) []FnParam {
	if fn == nil || fn.ParamsCount == 0 {
		return nil
	}
	out := make([]FnParam, 0, fn.ParamsCount)
	for off := range fn.ParamsCount {
		if param := i.FnParams.Get(uint32(fn.ParamsStart) + off); param != nil {
			out = append(out, *param)
		}
	}
	return out
}

// GetAttr returns the attribute of fn, or nil.
func (i *Items) GetAttr(fn *FnItem) *Attr {
	if fn == nil || !fn.Attr.IsValid() {
		return nil
	}
	return i.Attrs.Get(uint32(fn.Attr))
}
