package compiler

import (
	"fmt"
	"path/filepath"
	"strings"

	"stexls/diag"
	"stexls/intermediate"
	"stexls/reftype"
	"stexls/symtab"
)

// fileStem is the filename with only its last extension removed, e.g.
// "a/b/m.en.tex" -> "m.en", used for the ModSig/ModNl/ViewSig filename
// checks in §4.3.
func fileStem(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func trefiName(n *intermediate.TrefiNode) string {
	if n.Annotation != nil && n.Annotation.Symbol != "" {
		return n.Annotation.Symbol
	}
	return strings.Join(n.Tokens, "_")
}

func defiName(n *intermediate.DefiNode) string {
	if n.HasName {
		return n.Annotation
	}
	return strings.Join(n.Tokens, "_")
}

// dispatch applies a single node's §4.3 rule against ctx (the current
// context symbol) and returns the context this node's children should
// use plus whether a new stack frame was pushed for this node.
func (c *Compiler) dispatch(obj *Object, node intermediate.Node, ctx symtab.Symbol) (symtab.Symbol, bool) {
	rng := node.Location().Range

	switch n := node.(type) {
	case *intermediate.ModSigNode:
		if ctx.Kind() != symtab.RootKind {
			obj.AddError(rng, diag.Errorf("modsig must be at the top level"))
			return ctx, false
		}
		if fileStem(obj.File) != n.Name {
			obj.AddError(rng, diag.Warnf("modsig name %q does not match file name", n.Name))
		}
		mod := symtab.NewModule(n.Name, symtab.MODSIG, symtab.Public, node.Location())
		if err := symtab.AddChild(ctx, mod, false); err != nil {
			obj.AddError(rng, err)
			return ctx, false
		}
		return mod, true

	case *intermediate.ModNlNode:
		if ctx.Kind() != symtab.RootKind {
			obj.AddError(rng, diag.Errorf("modnl must be at the top level"))
			return ctx, false
		}
		if fileStem(obj.File) != n.Name+"."+n.Lang {
			obj.AddError(rng, diag.Warnf("modnl name/lang %q.%q does not match file name", n.Name, n.Lang))
		}
		binding := symtab.NewBinding(n.Name, n.Lang, node.Location())
		if err := symtab.AddChild(ctx, binding, false); err != nil {
			obj.AddError(rng, err)
			return ctx, false
		}
		siblingPath := canonicalize(filepath.Join(filepath.Dir(obj.File), n.Name+".tex"))
		obj.AddDependency(Dependency{Range: rng, Scope: binding, ModuleName: n.Name, ModuleTypeHint: reftype.MODSIG, FileHint: siblingPath, Export: true})
		obj.AddReference(Reference{Range: rng, Scope: binding, Name: []string{n.Name}, Kind: reftype.MODSIG})
		return binding, true

	case *intermediate.ModuleNode:
		if ctx.Kind() != symtab.RootKind {
			obj.AddError(rng, diag.Errorf("module must be at the top level"))
			return ctx, false
		}
		mod := symtab.NewModule(n.ID, symtab.MODULE, symtab.Public, node.Location())
		if err := symtab.AddChild(ctx, mod, false); err != nil {
			obj.AddError(rng, err)
			return ctx, false
		}
		return mod, true

	case *intermediate.ScopeNode:
		// Repeated grouping environments (two example blocks in one
		// module) are distinct scopes, not duplicates; disambiguate by
		// ordinal.
		name := n.Name
		for i := 1; len(ctx.ChildrenNamed(name)) > 0; i++ {
			name = fmt.Sprintf("%s_%d", n.Name, i)
		}
		scope := symtab.NewScope(name, symtab.Public, node.Location())
		if err := symtab.AddChild(ctx, scope, false); err != nil {
			obj.AddError(rng, err)
			return ctx, false
		}
		return scope, true

	case *intermediate.TrefiNode:
		c.compileTrefi(obj, n, ctx, rng)
		return ctx, false

	case *intermediate.DefiNode:
		c.compileDefi(obj, n, ctx, rng)
		return ctx, false

	case *intermediate.SymiNode:
		parentMod := symtab.CurrentModule(ctx)
		if parentMod == nil {
			obj.AddError(rng, diag.Errorf("sym outside of a module"))
			return ctx, false
		}
		name := strings.Join(n.Tokens, "_")
		def := symtab.NewDef(name, symtab.SYM, symtab.Public, n.NoverbAll, n.NoverbLangs, node.Location())
		if err := symtab.AddChild(parentMod, def, false); err != nil {
			obj.AddError(rng, err)
		}
		return ctx, false

	case *intermediate.SymdefNode:
		parentMod := symtab.CurrentModule(ctx)
		if parentMod == nil {
			obj.AddError(rng, diag.Errorf("symdef outside of a module"))
			return ctx, false
		}
		noverbAll := false
		for _, u := range n.UnnamedOArgs {
			if u == "noverb" {
				noverbAll = true
			}
		}
		var noverbLangs []string
		if v, ok := n.NamedOArgs["noverb"]; ok && v != "" {
			for _, l := range strings.Split(v, ",") {
				noverbLangs = append(noverbLangs, strings.TrimSpace(l))
			}
		}
		def := symtab.NewDef(n.Name, symtab.SYMDEF, symtab.Public, noverbAll, noverbLangs, node.Location())
		if err := symtab.AddChild(parentMod, def, true); err != nil {
			obj.AddError(rng, err)
		}
		return ctx, false

	case *intermediate.ImportModuleNode:
		c.compileImportModule(obj, n, ctx, rng)
		return ctx, false

	case *intermediate.GImportNode:
		c.compileGImport(obj, n, ctx, rng)
		return ctx, false

	case *intermediate.GStructureNode:
		// Deliberately a no-op: gstructure introduces no symbol, no
		// dependency, no reference of its own; only its children matter.
		return ctx, false

	case *intermediate.ViewNode:
		c.compileView(obj, n, ctx, rng)
		return ctx, false

	case *intermediate.ViewSigNode:
		c.compileViewSig(obj, n, ctx, rng)
		return ctx, false

	case *intermediate.TassignNode:
		c.compileTassign(obj, node, n, ctx, rng)
		return ctx, false
	}

	return ctx, false
}

