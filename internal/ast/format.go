package ast

import (
	"strconv"
	"strings"
)

// FormatType renders a type expression as source text. An unknown length
// renders as `[T]`.
func (b *Builder) FormatType(id TypeID) string {
	var sb strings.Builder
	b.writeType(&sb, id)
	return sb.String()
}

func (b *Builder) writeType(sb *strings.Builder, id TypeID) {
	t := b.Types.Get(id)
	if t == nil {
		sb.WriteString("()")
		return
	}
	switch t.Kind {
	case TypeExprPath:
		sb.WriteString(b.Name(t.Name))
	case TypeExprUnit:
		sb.WriteString("()")
	case TypeExprArray:
		sb.WriteByte('[')
		b.writeType(sb, t.Elem)
		if l := b.Types.Length(t.Len); l != nil && l.Kind != LengthUnknown {
			sb.WriteString("; ")
			b.writeLength(sb, t.Len, false)
		}
		sb.WriteByte(']')
	default:
		sb.WriteString("<error>")
	}
}

// FormatLength renders a length expression.
func (b *Builder) FormatLength(id LengthID) string {
	var sb strings.Builder
	b.writeLength(&sb, id, false)
	return sb.String()
}

func (b *Builder) writeLength(sb *strings.Builder, id LengthID, nested bool) {
	l := b.Types.Length(id)
	if l == nil {
		sb.WriteByte('_')
		return
	}
	switch l.Kind {
	case LengthLiteral:
		sb.WriteString(strconv.FormatUint(uint64(l.Value), 10))
	case LengthName:
		sb.WriteString(b.Name(l.Name))
	case LengthBinary:
		if nested {
			sb.WriteByte('(')
		}
		b.writeLength(sb, l.L, true)
		sb.WriteString(" " + l.Op.String() + " ")
		b.writeLength(sb, l.R, true)
		if nested {
			sb.WriteByte(')')
		}
	default:
		sb.WriteByte('_')
	}
}

// FormatFnSignature renders the header of a function the way it would be
// written, with a trailing `;` when it has no body.
func (b *Builder) FormatFnSignature(fn *FnItem) string {
	var sb strings.Builder
	if attr := b.Items.GetAttr(fn); attr != nil {
		sb.WriteString("#[" + attr.Kind.String() + "(" + b.Name(attr.Arg) + ")] ")
	}
	if fn.Pub {
		sb.WriteString("pub ")
	}
	if fn.Unconstrained {
		sb.WriteString("unconstrained ")
	}
	sb.WriteString("fn ")
	sb.WriteString(b.Name(fn.Name))
	if generics := b.Items.GetFnGenerics(fn); len(generics) > 0 {
		sb.WriteByte('<')
		for i, g := range generics {
			if i > 0 {
				sb.WriteString(", ")
			}
			if g.Kind == GenericNumeric {
				sb.WriteString("let " + b.Name(g.Name) + ": ")
				if g.Underlying.IsValid() {
					b.writeType(&sb, g.Underlying)
				} else {
					sb.WriteString("u32")
				}
				continue
			}
			sb.WriteString(b.Name(g.Name))
		}
		sb.WriteByte('>')
	}
	sb.WriteByte('(')
	for i, param := range b.Items.GetFnParams(fn) {
		if i > 0 {
			sb.WriteString(", ")
		}
		if param.Mut {
			sb.WriteString("mut ")
		}
		sb.WriteString(b.Name(param.Name) + ": ")
		b.writeType(&sb, param.Type)
	}
	sb.WriteByte(')')
	if fn.Result.IsValid() {
		sb.WriteString(" -> ")
		b.writeType(&sb, fn.Result)
	}
	if fn.HasBody {
		sb.WriteString(" { ... }")
	} else {
		sb.WriteByte(';')
	}
	return sb.String()
}
