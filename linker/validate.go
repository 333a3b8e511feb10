package linker

import (
	"stexls/compiler"
	"stexls/diag"
	"stexls/symtab"
)

// validateReferences implements §4.4.2 against the final, fully-merged
// Object.
func validateReferences(obj *compiler.Object) {
	referenced := map[symtab.Symbol]bool{}
	for _, r := range obj.References {
		resolved := symtab.Lookup(r.Scope, r.Name, 0)

		if len(resolved) == 0 {
			suggestions := obj.FindSimilarSymbols(r.Name, r.Kind)
			obj.AddError(r.Range, diag.LinkErrorf("undefined symbol %q (did you mean: %v?)", joinName(r.Name), suggestions))
			continue
		}
		if ambiguous(resolved) {
			obj.AddError(r.Range, diag.LinkErrorf("non-unique symbol %q", joinName(r.Name)))
			continue
		}

		for _, s := range resolved {
			referenced[s] = true
			if !r.Kind.Intersects(s.ReferenceType()) {
				obj.AddError(r.Range, diag.LinkErrorf("%q has the wrong type for this reference", joinName(r.Name)))
				continue
			}
			def, ok := s.(*symtab.DefSymbol)
			if !ok {
				continue
			}
			if def.Noverb {
				obj.AddError(r.Range, diag.LinkWarnf("%q is marked noverb", joinName(r.Name)))
				continue
			}
			if binding := symtab.CurrentBinding(r.Scope); binding != nil && def.NoverbForLang(binding.Lang) {
				obj.AddError(r.Range, diag.LinkWarnf("%q is noverb for language %q", joinName(r.Name), binding.Lang))
			}
		}
	}

	reportUnreferenced(obj, referenced)
}

// reportUnreferenced emits an Info for every symbol this file itself
// declares (sym/symdef only, never defi-born or noverb-suppressed ones)
// that no reference in the linked object resolves to.
func reportUnreferenced(obj *compiler.Object, referenced map[symtab.Symbol]bool) {
	symtab.Traverse(obj.SymbolTable, func(s symtab.Symbol) {
		def, ok := s.(*symtab.DefSymbol)
		if !ok || referenced[s] {
			return
		}
		if def.DefType == symtab.DEF || def.DefType == symtab.DREF {
			return
		}
		if def.Noverb || len(def.Noverbs) > 0 {
			return
		}
		if def.Location().Path != obj.File {
			return
		}
		obj.AddError(def.Location().Range, diag.Infof("symbol %q is never referenced", def.Name()))
	}, nil)
}

// ambiguous reports whether resolved contains symbols that are not all
// alternatives of the same declaration. Alternatives share one parent
// and name by construction (symtab.AddChild); a genuinely ambiguous
// match spans more than one parent.
func ambiguous(resolved []symtab.Symbol) bool {
	if len(resolved) <= 1 {
		return false
	}
	parent := resolved[0].Parent()
	for _, s := range resolved[1:] {
		if s.Parent() != parent {
			return true
		}
	}
	return false
}

func joinName(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}
