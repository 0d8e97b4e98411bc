package symbols

import (
	"circa/internal/source"
)

// LookupPath resolves a path as written inside module from. A single segment
// is looked up in the module, its ancestors and finally the prelude. A
// qualified path is tried as an absolute module path first and then relative
// to from (`super` and `crate` are understood).
//
// found is true when the name exists even though it may not lead anywhere
// (a broken import); callers must not report such names again.
func (t *Table) LookupPath(from ModuleID, segs []source.StringID) (id SymbolID, found bool) {
	return t.lookupPath(from, segs, nil)
}

// LookupFunction is LookupPath restricted to functions.
func (t *Table) LookupFunction(from ModuleID, segs []source.StringID) (id SymbolID, found bool) {
	id, found = t.LookupPath(from, segs)
	if sym := t.Symbol(id); sym != nil && sym.Kind != SymbolFunction {
		return NoSymbolID, true
	}
	return id, found
}

func (t *Table) lookupPath(from ModuleID, segs []source.StringID, resolve func(SymbolID)) (SymbolID, bool) {
	switch len(segs) {
	case 0:
		return NoSymbolID, false
	case 1:
		return t.lookupName(from, segs[0], resolve)
	}
	mod, ok := t.resolveModulePrefix(from, segs[:len(segs)-1], resolve)
	if !ok {
		return NoSymbolID, false
	}
	last := segs[len(segs)-1]
	m := t.Module(mod)
	if id, ok := m.Names[last]; ok {
		return t.follow(id, resolve), true
	}
	return NoSymbolID, false
}

func (t *Table) lookupName(from ModuleID, name source.StringID, resolve func(SymbolID)) (SymbolID, bool) {
	for id := from; id.IsValid(); id = t.Module(id).Parent {
		if sym, ok := t.Module(id).Names[name]; ok {
			return t.follow(sym, resolve), true
		}
	}
	if p := t.Module(t.prelude); p != nil {
		if sym, ok := p.Names[name]; ok {
			return t.follow(sym, resolve), true
		}
	}
	return NoSymbolID, false
}

func (t *Table) follow(id SymbolID, resolve func(SymbolID)) SymbolID {
	sym := t.Symbol(id)
	if sym == nil || sym.Kind != SymbolImport {
		return id
	}
	if resolve != nil {
		resolve(id)
		sym = t.Symbol(id)
	}
	return sym.Resolved
}

func (t *Table) resolveModulePrefix(from ModuleID, segs []source.StringID, resolve func(SymbolID)) (ModuleID, bool) {
	if id, ok := t.byPath[t.joinNames(segs)]; ok {
		return id, true
	}

	cur := from
	for i, seg := range segs {
		switch t.Name(seg) {
		case "crate":
			if i == 0 {
				cur = t.byPath[""]
				continue
			}
		case "super":
			if m := t.Module(cur); m != nil && m.Parent.IsValid() {
				cur = m.Parent
				continue
			}
			return NoModuleID, false
		}
		if i == 0 {
			next, ok := t.moduleInScope(cur, seg, resolve)
			if !ok {
				return NoModuleID, false
			}
			cur = next
			continue
		}
		next, ok := t.Module(cur).Children[seg]
		if !ok {
			return NoModuleID, false
		}
		cur = next
	}
	return cur, cur.IsValid()
}

// moduleInScope finds the module a leading path segment names: a child, a
// module symbol or import visible from the module, or a child of an ancestor.
func (t *Table) moduleInScope(from ModuleID, name source.StringID, resolve func(SymbolID)) (ModuleID, bool) {
	for id := from; id.IsValid(); id = t.Module(id).Parent {
		m := t.Module(id)
		if sym, ok := m.Names[name]; ok {
			if target := t.Symbol(t.follow(sym, resolve)); target != nil && target.Kind == SymbolModule && target.Target.IsValid() {
				return target.Target, true
			}
		}
		if child, ok := m.Children[name]; ok {
			return child, true
		}
	}
	return NoModuleID, false
}
