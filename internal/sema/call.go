package sema

import (
	"fmt"

	"circa/internal/ast"
	"circa/internal/diag"
	"circa/internal/source"
	"circa/internal/symbols"
	"circa/internal/types"
)

// instance is a signature whose generics have been renamed to one call site.
type instance struct {
	site   string
	params []types.Type
	result types.Type
}

func instantiate(sig *Signature, site string) instance {
	rename := func(t types.Type) types.Type {
		return t.Subst(
			func(name, owner string) (types.Type, bool) {
				if owner != sig.Owner {
					return types.Type{}, false
				}
				return types.Generic(name, site), true
			},
			func(name, owner string) (types.Length, bool) {
				if owner != sig.Owner {
					return types.Length{}, false
				}
				return types.Named(name, site), true
			},
		)
	}
	inst := instance{site: site, result: rename(sig.Result)}
	for _, p := range sig.Params {
		inst.params = append(inst.params, rename(p.Type))
	}
	return inst
}

// checkCall resolves the callee and infers its generics:
//
//  1. turbofish arguments, in declaration order;
//  2. arguments, left to right;
//  3. the expected type of the context against the return type;
//  4. generics of the return type still unbound → type annotations needed.
//
// The first conflict wins and the call yields Unresolved.
func (fc *fnChecker) checkCall(id ast.ExprID, expected *types.Type) types.Type {
	call := fc.builder.Exprs.Call(id)
	span := fc.exprSpan(id)

	calleeID, sig, ok := fc.resolveCallee(call.Callee)
	if !ok {
		fc.looseArgs(call.Args)
		return types.Unresolved()
	}

	site := fc.c.newSite(sig)
	inst := instantiate(sig, site)
	bind := newBinding(site)
	bind.declare(sig)
	info := CallInfo{Caller: fc.symbol, Callee: calleeID, Span: span, Result: types.Unresolved()}
	defer func() {
		info.Bindings = bind.snapshot()
		fc.c.result.Calls = append(fc.c.result.Calls, info)
	}()

	if len(call.Turbofish) > 0 && !fc.seedTurbofish(sig, bind, call) {
		fc.looseArgs(call.Args)
		return types.Unresolved()
	}

	// у обрезанной сигнатуры параметров может не хватать
	if !sig.Malformed && len(call.Args) != len(inst.params) {
		fc.c.report(diag.SemaArgumentCount, span, "function `%s` takes %s but %s supplied",
			sig.Name, plural(len(inst.params), "argument", "arguments"), wasWere(len(call.Args)))
		fc.looseArgs(call.Args)
		return types.Unresolved()
	}

	// the expected type only shapes argument hints here; as evidence it is
	// checked after the arguments
	var preview *Binding
	if expected != nil && !expected.HasUnresolved() {
		preview = bind.clone()
		newUnifier(preview).match(inst.result, *expected, span, fromExpected, false, -1)
	}

	u := newUnifier(bind)
	failed, poisoned := false, false
	argTypes := make([]types.Type, len(call.Args))
	for i, arg := range call.Args {
		if i >= len(inst.params) {
			fc.exprType(arg, nil)
			continue
		}
		param := inst.params[i]
		hint := bind.apply(param)
		if preview != nil {
			hint = preview.apply(hint)
		}
		hint = bind.erase(hint)
		got := fc.exprType(arg, &hint)
		argTypes[i] = got
		poisoned = poisoned || got.HasUnresolved()
		if failed {
			continue
		}
		if !u.match(param, got, fc.exprSpan(arg), fromArgument, true, i) {
			if !fc.reportRange(u, sig) {
				fc.reportArgMismatch(bind, param, got, fc.exprSpan(arg))
			}
			failed = true
		}
	}
	if !failed {
		if ok, tag := u.settle(); !ok {
			if !fc.reportRange(u, sig) {
				arg := call.Args[tag]
				fc.reportArgMismatch(bind, inst.params[tag], argTypes[tag], fc.exprSpan(arg))
			}
			failed = true
		}
	}
	if failed {
		return types.Unresolved()
	}

	if expected != nil && !expected.HasUnresolved() {
		matched := u.match(inst.result, *expected, span, fromExpected, false, -1)
		if matched {
			matched, _ = u.settle()
		}
		if !matched {
			if fc.reportRange(u, sig) {
				return types.Unresolved()
			}
			found := bind.apply(inst.result)
			b := diag.ReportError(fc.c.reporter, diag.SemaTypeMismatch, span,
				fmt.Sprintf("expected type `%s`, found type `%s`", *expected, found))
			fc.bindingNotes(b, bind, inst.result)
			b.Emit()
			return types.Unresolved()
		}
	}

	if missing := bind.unbound(inst.result); len(missing) > 0 {
		if poisoned {
			// аргумент с ошибкой не даёт вывести generic; не повторяемся
			return types.Unresolved()
		}
		what := "generic"
		if len(missing) > 1 {
			what = "generics"
		}
		b := diag.ReportError(fc.c.reporter, diag.SemaTypeAnnotationsNeeded, fc.exprSpan(call.Callee),
			fmt.Sprintf("type annotations needed: cannot infer %s %s of `%s`", what, genericsList(missing), sig.Name))
		for _, name := range missing {
			if g, ok := sig.Generic(name); ok {
				b.WithNote(g.Span, fmt.Sprintf("%s `%s` declared here", describeGenericKind(g.Kind), name))
			}
		}
		b.Emit()
		return types.Unresolved()
	}

	result := bind.apply(inst.result)
	if _, rng, v, bad := result.OutOfRangeLength(); bad {
		b := diag.ReportError(fc.c.reporter, diag.SemaLengthOutOfRange, span,
			fmt.Sprintf("array length in the return type `%s` of `%s` %s at this call", sig.Result, sig.Name, describeRange(rng, v)))
		fc.bindingNotes(b, bind, inst.result)
		b.Emit()
		return types.Unresolved()
	}
	info.Result = result
	return info.Result
}

// reportRange reports the generic that a failed match would have pushed out
// of its declared type. It returns false when the failure was an ordinary
// mismatch.
func (fc *fnChecker) reportRange(u *unifier, sig *Signature) bool {
	v := u.violation
	if v == nil {
		return false
	}
	g, _ := sig.Generic(v.name)
	what := fmt.Sprintf("which does not fit in `%s`", g.Numeric)
	if g.Numeric.MaxValue() > types.MaxLength {
		what = fmt.Sprintf("which exceeds the maximum array length `%d`", uint64(types.MaxLength))
	}
	b := diag.ReportError(fc.c.reporter, diag.SemaLengthOutOfRange, v.span,
		fmt.Sprintf("numeric generic `%s` of `%s` would be `%d`, %s", v.name, sig.Name, v.value, what))
	if g.Span != (source.Span{}) {
		b.WithNote(g.Span, fmt.Sprintf("`%s` declared here as `%s`", v.name, g.Numeric))
	}
	b.Emit()
	return true
}

// describeRange words a RangeNegative or RangeOverflow verdict.
func describeRange(rng types.LengthRange, v int64) string {
	switch {
	case rng == types.RangeNegative:
		return fmt.Sprintf("evaluates to `%d`, which is negative", v)
	case v > 0:
		return fmt.Sprintf("evaluates to `%d`, which exceeds the maximum array length `%d`", v, uint64(types.MaxLength))
	default:
		return fmt.Sprintf("exceeds the maximum array length `%d`", uint64(types.MaxLength))
	}
}

func wasWere(n int) string {
	if n == 1 {
		return "1 argument was"
	}
	return fmt.Sprintf("%d arguments were", n)
}

func (fc *fnChecker) looseArgs(args []ast.ExprID) {
	for _, arg := range args {
		fc.exprType(arg, nil)
	}
}

func (fc *fnChecker) resolveCallee(callee ast.ExprID) (symbols.SymbolID, *Signature, bool) {
	p := fc.builder.Exprs.Path(callee)
	span := fc.exprSpan(callee)
	if p == nil {
		t := fc.exprType(callee, nil)
		if !t.HasUnresolved() {
			fc.c.report(diag.SemaTypeMismatch, span, "expected function, found type `%s`", t)
		}
		return symbols.NoSymbolID, nil, false
	}
	name := fc.pathName(p)
	id, found := fc.c.table.LookupPath(fc.module, p.Segments)
	sym := fc.c.table.Symbol(id)
	switch {
	case sym == nil && found:
		// сломанный импорт уже сообщён
		return symbols.NoSymbolID, nil, false
	case sym == nil:
		fc.c.report(diag.SemaUnresolvedSymbol, span, "cannot find function `%s` in this scope", name)
		return symbols.NoSymbolID, nil, false
	case sym.Kind != symbols.SymbolFunction:
		fc.c.report(diag.SemaUnresolvedSymbol, span, "expected function, found %s `%s`", sym.Kind, name)
		return symbols.NoSymbolID, nil, false
	}
	sig := fc.c.lowerSignature(id)
	return id, sig, sig != nil
}

// seedTurbofish binds explicit generic arguments in declaration order.
func (fc *fnChecker) seedTurbofish(sig *Signature, bind *Binding, call *ast.ExprCallData) bool {
	if len(call.Turbofish) != len(sig.Generics) {
		span := call.Turbofish[0].Span.Cover(call.Turbofish[len(call.Turbofish)-1].Span)
		fc.c.report(diag.SemaTurbofishCount, span, "function `%s` expects %s but %s supplied",
			sig.Name, plural(len(sig.Generics), "generic argument", "generic arguments"), genericWasWere(len(call.Turbofish)))
		return false
	}
	ok := true
	for i, ga := range call.Turbofish {
		g := sig.Generics[i]
		switch g.Kind {
		case ast.GenericNumeric:
			l, good := fc.turbofishLength(g, ga)
			if !good {
				ok = false
				continue
			}
			if rng, v := l.CheckRange(genericLimit(g.Numeric)); rng == types.RangeNegative || rng == types.RangeOverflow {
				fc.reportTurbofishRange(sig, g, ga, rng, v)
				ok = false
				continue
			}
			bind.bindLength(g.Name, l, ga.Span, fromTurbofish)
		default:
			if ga.Kind == ast.GenericArgLength {
				fc.c.report(diag.SemaTypeMismatch, ga.Span, "expected a type for generic `%s`, found `%s`",
					g.Name, fc.builder.FormatLength(ga.Len))
				ok = false
				continue
			}
			t := fc.lw.lowerType(ga.Type)
			if t.HasUnresolved() {
				ok = false
				continue
			}
			bind.bindType(g.Name, t, ga.Span, fromTurbofish)
		}
	}
	return ok
}

func (fc *fnChecker) reportTurbofishRange(sig *Signature, g Generic, ga ast.GenericArg, rng types.LengthRange, v int64) {
	msg := fmt.Sprintf("numeric generic `%s` of `%s` %s", g.Name, sig.Name, describeRange(rng, v))
	if rng == types.RangeOverflow && v > 0 && g.Numeric.MaxValue() < types.MaxLength {
		msg = fmt.Sprintf("numeric generic `%s` of `%s` would be `%d`, which does not fit in `%s`", g.Name, sig.Name, v, g.Numeric)
	}
	diag.ReportError(fc.c.reporter, diag.SemaLengthOutOfRange, ga.Span, msg).
		WithNote(g.Span, fmt.Sprintf("`%s` declared here as `%s`", g.Name, g.Numeric)).
		Emit()
}

func genericWasWere(n int) string {
	if n == 1 {
		return "1 was"
	}
	return fmt.Sprintf("%d were", n)
}

// turbofishLength reads a numeric turbofish argument. A bare identifier was
// parsed as a type and is reinterpreted here as a numeric generic of the
// caller.
func (fc *fnChecker) turbofishLength(g Generic, ga ast.GenericArg) (types.Length, bool) {
	if ga.Kind == ast.GenericArgLength {
		return fc.lw.lowerLength(ga.Len)
	}
	te := fc.builder.Types.Get(ga.Type)
	if te != nil && te.Kind == ast.TypeExprPath {
		name := fc.builder.Name(te.Name)
		if own, ok := fc.lw.generics[name]; ok && own.Kind == ast.GenericNumeric {
			return types.Named(name, fc.sig.Owner), true
		}
		if _, isType := types.LookupBuiltin(name); !isType {
			if _, ok := fc.lw.generics[name]; !ok {
				fc.c.report(diag.SemaUnresolvedSymbol, ga.Span, "cannot find numeric generic `%s` in this scope", name)
				return types.Unknown(), false
			}
		}
	}
	fc.c.report(diag.SemaTypeMismatch, ga.Span, "expected a numeric value for generic `%s`, found type `%s`",
		g.Name, fc.builder.FormatType(ga.Type))
	return types.Unknown(), false
}

func (fc *fnChecker) reportArgMismatch(bind *Binding, param, got types.Type, span source.Span) {
	want := bind.apply(param)
	b := diag.ReportError(fc.c.reporter, diag.SemaTypeMismatch, span,
		fmt.Sprintf("expected type `%s`, found type `%s`", want, got))
	fc.bindingNotes(b, bind, param)
	b.Emit()
}

// bindingNotes points at the evidence that fixed each generic mentioned in t.
func (fc *fnChecker) bindingNotes(b *diag.ReportBuilder, bind *Binding, t types.Type) {
	seen := map[string]bool{}
	note := func(name string, value string, span source.Span, src bindingSource) {
		if seen[name] || span == (source.Span{}) {
			return
		}
		seen[name] = true
		switch src {
		case fromTurbofish:
			b.WithNote(span, fmt.Sprintf("`%s` was set to `%s` by the generic arguments", name, value))
		case fromExpected:
			b.WithNote(span, fmt.Sprintf("`%s` was inferred as `%s` from the expected type", name, value))
		default:
			b.WithNote(span, fmt.Sprintf("`%s` was inferred as `%s` from this argument", name, value))
		}
	}
	t.Walk(
		func(name, owner string) {
			if v, ok := bind.types[name]; ok && owner == bind.owner {
				note(name, v.value.String(), v.span, v.source)
			}
		},
		func(name, owner string) {
			if v, ok := bind.lens[name]; ok && owner == bind.owner && v.value.Kind != types.LenUnknown {
				note(name, v.value.String(), v.span, v.source)
			}
		},
	)
}
