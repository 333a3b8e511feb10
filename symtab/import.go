package symtab

// ImportFrom merges module's PUBLIC surface into dst (a Scope-like
// symbol acting as the importing Dependency's attach point), per §4.4.1:
// a shallow copy of module is appended to dst, then recursively, for each
// PUBLIC child of module, a shallow copy is added to the new module copy
// (recursing into nested Modules, copying Defs as alternatives). Any
// collision encountered along the way is swallowed and returned as a
// diagnostic rather than aborting the import.
func ImportFrom(dst Symbol, module *ModuleSymbol) []error {
	var diags []error

	moduleCopy := shallowCopyModule(module)
	if err := AddChild(dst, moduleCopy, true); err != nil {
		diags = append(diags, err)
	}
	diags = append(diags, importChildren(moduleCopy, module)...)
	return diags
}

func importChildren(dstCopy Symbol, src Symbol) []error {
	var diags []error
	for _, c := range src.Children() {
		if c.AccessModifier() != Public {
			continue
		}
		switch v := c.(type) {
		case *ModuleSymbol:
			sub := shallowCopyModule(v)
			if err := AddChild(dstCopy, sub, true); err != nil {
				diags = append(diags, err)
			}
			diags = append(diags, importChildren(sub, v)...)
		case *DefSymbol:
			cp := shallowCopyDef(v)
			if err := AddChild(dstCopy, cp, true); err != nil {
				diags = append(diags, err)
			}
		}
	}
	return diags
}

func shallowCopyModule(m *ModuleSymbol) *ModuleSymbol {
	return &ModuleSymbol{
		base:       base{name: m.name, loc: m.loc},
		ModuleType: m.ModuleType,
		Access:     m.Access,
	}
}

func shallowCopyDef(d *DefSymbol) *DefSymbol {
	noverbs := make([]string, len(d.Noverbs))
	copy(noverbs, d.Noverbs)
	return &DefSymbol{
		base:    base{name: d.name, loc: d.loc},
		DefType: d.DefType,
		Access:  d.Access,
		Noverb:  d.Noverb,
		Noverbs: noverbs,
	}
}
