package sema

import (
	"fmt"
	"strings"

	"circa/internal/ast"
	"circa/internal/source"
	"circa/internal/symbols"
	"circa/internal/types"
)

// Generic is a lowered generic parameter.
type Generic struct {
	Name    string
	Kind    ast.GenericKind
	Numeric types.Type // underlying integer type of a numeric generic
	Span    source.Span
}

// Param is a lowered value parameter.
type Param struct {
	Name string
	Type types.Type
	Span source.Span
}

// Signature is the semantic form of a function header. Generics inside
// Params and Result carry Owner as their owner.
type Signature struct {
	Symbol   symbols.SymbolID
	Name     string
	Owner    string
	Generics []Generic
	Params   []Param
	Result   types.Type

	HasBody   bool
	LowLevel  bool
	Malformed bool
}

// Generic returns the generic parameter called name.
func (s *Signature) Generic(name string) (Generic, bool) {
	for _, g := range s.Generics {
		if g.Name == name {
			return g, true
		}
	}
	return Generic{}, false
}

func (s *Signature) String() string {
	var sb strings.Builder
	sb.WriteString("fn " + s.Name)
	if len(s.Generics) > 0 {
		parts := make([]string, len(s.Generics))
		for i, g := range s.Generics {
			if g.Kind == ast.GenericNumeric {
				parts[i] = fmt.Sprintf("let %s: %s", g.Name, g.Numeric)
			} else {
				parts[i] = g.Name
			}
		}
		sb.WriteString("<" + strings.Join(parts, ", ") + ">")
	}
	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.Name + ": " + p.Type.String()
	}
	sb.WriteString("(" + strings.Join(params, ", ") + ")")
	if s.Result.Kind != types.KindUnit {
		sb.WriteString(" -> " + s.Result.String())
	}
	return sb.String()
}

// lowerSignature builds the semantic signature of a function, reporting
// unknown type names once.
func (c *checker) lowerSignature(id symbols.SymbolID) *Signature {
	if sig, ok := c.result.Signatures[id]; ok {
		return sig
	}
	fn, builder := c.table.FunctionItem(id)
	if fn == nil {
		return nil
	}
	sym := c.table.Symbol(id)
	owner := fmt.Sprintf("%s#%d", symbols.JoinPath(c.table.Module(sym.Module).Path, builder.Name(fn.Name)), id)
	sig := &Signature{
		Symbol:    id,
		Name:      builder.Name(fn.Name),
		Owner:     owner,
		HasBody:   fn.HasBody,
		LowLevel:  fn.Attr.IsValid(),
		Malformed: fn.Malformed,
	}

	lw := &lowerer{c: c, builder: builder, owner: owner, generics: make(map[string]*Generic)}
	for _, g := range builder.Items.GetFnGenerics(fn) {
		gen := Generic{Name: builder.Name(g.Name), Kind: g.Kind, Span: g.Span}
		if g.Kind == ast.GenericNumeric {
			gen.Numeric = types.Int(32, false)
			if g.Underlying.IsValid() {
				if t := lw.lowerType(g.Underlying); t.Kind == types.KindInt {
					gen.Numeric = t
				}
			}
		}
		sig.Generics = append(sig.Generics, gen)
	}
	for i := range sig.Generics {
		lw.generics[sig.Generics[i].Name] = &sig.Generics[i]
	}

	for _, p := range builder.Items.GetFnParams(fn) {
		sig.Params = append(sig.Params, Param{
			Name: builder.Name(p.Name),
			Type: lw.lowerType(p.Type),
			Span: p.Span,
		})
	}
	sig.Result = types.Unit()
	if fn.Result.IsValid() {
		sig.Result = lw.lowerType(fn.Result)
	}
	c.result.Signatures[id] = sig
	return sig
}
