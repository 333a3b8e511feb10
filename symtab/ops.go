package symtab

import "stexls/reftype"

// AddChild enforces the collision/alternative invariants of the symbol
// table and, if they hold, attaches child under parent.
func AddChild(parent Symbol, child Symbol, alternative bool) error {
	var existing []Symbol
	for _, e := range parent.ChildrenNamed(child.Name()) {
		if e.ReferenceType() == child.ReferenceType() {
			existing = append(existing, e)
		}
	}
	if len(existing) == 0 {
		parent.appendChild(child)
		child.setParent(parent)
		return nil
	}

	if !alternative {
		return &DuplicateSymbolDefinedError{Name: child.Name(), Location: child.Location()}
	}

	childDef, ok := child.(*DefSymbol)
	if !ok {
		return &InvalidRedefinitionError{Name: child.Name(), Location: child.Location()}
	}
	for _, e := range existing {
		existingDef, ok := e.(*DefSymbol)
		if !ok || existingDef.DefType != childDef.DefType || existingDef.Noverb != childDef.Noverb ||
			!sameNoverbs(existingDef.Noverbs, childDef.Noverbs) {
			return &InvalidRedefinitionError{Name: child.Name(), Location: child.Location()}
		}
	}
	parent.appendChild(child)
	child.setParent(parent)
	return nil
}

func sameNoverbs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := map[string]bool{}
	for _, s := range a {
		seen[s] = true
	}
	for _, s := range b {
		if !seen[s] {
			return false
		}
	}
	return true
}

// Find performs a downward-only search for path starting from self's
// children: path[0] is resolved among self's direct children, and the
// remainder of path is resolved recursively among each match's children.
func Find(self Symbol, path []string) []Symbol {
	if len(path) == 0 {
		return []Symbol{self}
	}
	matches := self.ChildrenNamed(path[0])
	if len(path) == 1 {
		return matches
	}
	var result []Symbol
	for _, m := range matches {
		result = append(result, Find(m, path[1:])...)
	}
	return result
}

// Lookup resolves path starting at self: path[0] against self's children,
// falling back to self's parent (unless self is a Module or Binding,
// which terminate upward recursion), and finally to a self-referential
// match if self's own name equals path[0]. If accepted is non-zero, the
// final result is filtered to symbols whose ReferenceType intersects it.
func Lookup(self Symbol, path []string, accepted reftype.Kind) []Symbol {
	if len(path) == 0 {
		return nil
	}

	matches := self.ChildrenNamed(path[0])
	if len(matches) > 0 {
		var result []Symbol
		if len(path) == 1 {
			result = matches
		} else {
			for _, m := range matches {
				result = append(result, Find(m, path[1:])...)
			}
		}
		// Filter before deciding: a same-named child of the wrong kind
		// must not shadow an acceptable match further up the scope chain.
		if filtered := filterByKind(result, accepted); len(filtered) > 0 {
			return filtered
		}
	}

	if self.Kind() != ModuleKind && self.Kind() != BindingKind {
		if parent := self.Parent(); parent != nil {
			if r := Lookup(parent, path, accepted); len(r) > 0 {
				return r
			}
		}
	}

	if self.Name() == path[0] {
		return filterByKind(Find(self, path[1:]), accepted)
	}
	return nil
}

func filterByKind(syms []Symbol, accepted reftype.Kind) []Symbol {
	if accepted == 0 {
		return syms
	}
	var out []Symbol
	for _, s := range syms {
		if accepted.Intersects(s.ReferenceType()) {
			out = append(out, s)
		}
	}
	return out
}

// Traverse visits self and every descendant pre-order (enter) and
// post-order (exit); either callback may be nil.
func Traverse(self Symbol, enter func(Symbol), exit func(Symbol)) {
	if enter != nil {
		enter(self)
	}
	for _, c := range self.Children() {
		Traverse(c, enter, exit)
	}
	if exit != nil {
		exit(self)
	}
}

// Flat returns self and every descendant in pre-order.
func Flat(self Symbol) []Symbol {
	var out []Symbol
	Traverse(self, func(s Symbol) { out = append(out, s) }, nil)
	return out
}

// CurrentModule returns the nearest enclosing Module (including self).
func CurrentModule(self Symbol) *ModuleSymbol {
	for s := self; s != nil; s = s.Parent() {
		if m, ok := s.(*ModuleSymbol); ok {
			return m
		}
	}
	return nil
}

// CurrentBinding returns the nearest enclosing Binding (including self).
func CurrentBinding(self Symbol) *BindingSymbol {
	for s := self; s != nil; s = s.Parent() {
		if b, ok := s.(*BindingSymbol); ok {
			return b
		}
	}
	return nil
}

// VisibleAccessModifier is the strongest (most restrictive) access
// modifier along self's ancestor chain, root to self inclusive.
func VisibleAccessModifier(self Symbol) AccessModifier {
	effective := Public
	for s := self; s != nil; s = s.Parent() {
		effective = strongest(effective, s.AccessModifier())
	}
	return effective
}

// Qualified is the tuple of ancestor names from root (exclusive) to self
// (inclusive).
func Qualified(self Symbol) []string {
	var names []string
	for s := self; s != nil; s = s.Parent() {
		if s.Kind() == RootKind {
			break
		}
		names = append([]string{s.Name()}, names...)
	}
	return names
}

// IsParentOf reports whether self is an ancestor of other.
func IsParentOf(self Symbol, other Symbol) bool {
	for s := other.Parent(); s != nil; s = s.Parent() {
		if s == self {
			return true
		}
	}
	return false
}

// Depth is the number of ancestors of self, the Root included (a Root
// has depth 0, its direct children depth 1).
func Depth(self Symbol) int {
	d := 0
	for s := self.Parent(); s != nil; s = s.Parent() {
		d++
	}
	return d
}
