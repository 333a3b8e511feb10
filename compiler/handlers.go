package compiler

import (
	"stexls/diag"
	"stexls/intermediate"
	"stexls/reftype"
	"stexls/span"
	"stexls/symtab"
	"stexls/util"
)

func (c *Compiler) compileTrefi(obj *Object, n *intermediate.TrefiNode, ctx symtab.Symbol, rng span.Range) {
	name := trefiName(n)

	if n.Drefi {
		if parentMod := symtab.CurrentModule(ctx); parentMod == nil {
			obj.AddError(rng, diag.Errorf("drefi outside of a module"))
		} else {
			def := symtab.NewDef(name, symtab.DREF, symtab.Public, false, nil, span.Location{Path: obj.File, Range: rng})
			if err := symtab.AddChild(parentMod, def, true); err != nil {
				obj.AddError(rng, err)
			}
		}
	}

	if n.Annotation != nil && n.Annotation.Module != "" {
		obj.AddReference(Reference{Range: rng, Scope: ctx, Name: []string{n.Annotation.Module}, Kind: reftype.MODSIG | reftype.MODULE})
		obj.AddReference(Reference{Range: rng, Scope: ctx, Name: []string{n.Annotation.Module, name}, Kind: reftype.ANY_DEFINITION})
	} else {
		parentName := ""
		if pm := symtab.CurrentModule(ctx); pm != nil {
			parentName = pm.Name()
		} else if b := symtab.CurrentBinding(ctx); b != nil {
			parentName = b.ModuleName
		}
		obj.AddReference(Reference{Range: rng, Scope: ctx, Name: []string{parentName, name}, Kind: reftype.ANY_DEFINITION})
	}

	if n.M {
		hasSymbol := n.Annotation != nil && n.Annotation.Symbol != ""
		if !hasSymbol {
			obj.AddError(rng, diag.Errorf("mtref without ?symbol"))
		}
		obj.AddError(rng, diag.Warnf("mtref is deprecated"))
	}
}

func (c *Compiler) compileDefi(obj *Object, n *intermediate.DefiNode, ctx symtab.Symbol, rng span.Range) {
	name := defiName(n)
	if parentMod := symtab.CurrentModule(ctx); parentMod != nil {
		def := symtab.NewDef(name, symtab.DEF, symtab.Public, false, nil, span.Location{Path: obj.File, Range: rng})
		if err := symtab.AddChild(parentMod, def, false); err != nil {
			obj.AddError(rng, err)
		}
		return
	}
	// Inside a language binding there is no module to define into; the
	// defi resolves against the bound signature's symbol instead.
	binding := symtab.CurrentBinding(ctx)
	if binding == nil {
		obj.AddError(rng, diag.Errorf("defi has no inferable parent module"))
		return
	}
	obj.AddReference(Reference{Range: rng, Scope: ctx, Name: []string{binding.ModuleName, name}, Kind: reftype.ANY_DEFINITION})
}

func (c *Compiler) compileImportModule(obj *Object, n *intermediate.ImportModuleNode, ctx symtab.Symbol, rng span.Range) {
	parentMod := symtab.CurrentModule(ctx)
	if parentMod == nil {
		obj.AddError(rng, diag.Errorf("importmodule outside of a module"))
		return
	}
	fileHint, err := ResolveImportModuleFileHint(c.cfg.Root, obj.File, n)
	if err != nil {
		obj.AddError(rng, err)
		return
	}
	obj.AddDependency(Dependency{Range: rng, Scope: ctx, ModuleName: n.Module, ModuleTypeHint: reftype.MODULE, FileHint: fileHint, Export: n.Export})
	obj.AddReference(Reference{Range: rng, Scope: ctx, Name: []string{n.Module}, Kind: reftype.MODULE})

	if n.HasRepo {
		if repoName, err := util.RepositoryName(c.cfg.Root, obj.File); err == nil && repoName == n.MHRepos {
			obj.AddError(rng, diag.Warnf("redundant repos %q matches the current repository", n.MHRepos))
		}
	}
	if sourceDir, err := util.FindSourceDir(c.cfg.Root, obj.File); err == nil {
		if n.HasDir {
			if got, err := util.GetDir(sourceDir, obj.File); err == nil && got == n.Dir {
				obj.AddError(rng, diag.Warnf("redundant dir %q matches the current file's own directory", n.Dir))
			}
		}
		if n.HasPath {
			if got, err := util.GetPath(sourceDir, obj.File); err == nil && got == n.Path {
				obj.AddError(rng, diag.Warnf("redundant path %q matches the current file's own path", n.Path))
			}
		}
	}
}

func (c *Compiler) compileGImport(obj *Object, n *intermediate.GImportNode, ctx symtab.Symbol, rng span.Range) {
	parentMod := symtab.CurrentModule(ctx)
	if parentMod == nil {
		obj.AddError(rng, diag.Errorf("gimport outside of a module or modsig"))
		return
	}
	fileHint, err := ResolveGImportFileHint(c.cfg.Root, obj.File, n)
	if err != nil {
		obj.AddError(rng, err)
		return
	}
	obj.AddDependency(Dependency{Range: rng, Scope: ctx, ModuleName: n.Module, ModuleTypeHint: reftype.MODSIG, FileHint: fileHint, Export: n.Export})
	obj.AddReference(Reference{Range: rng, Scope: ctx, Name: []string{n.Module}, Kind: reftype.MODSIG})
}

func (c *Compiler) compileView(obj *Object, n *intermediate.ViewNode, ctx symtab.Symbol, rng span.Range) {
	if ctx.Kind() != symtab.RootKind {
		obj.AddError(rng, diag.Errorf("view must be at the top level"))
		return
	}
	if n.GViewNl {
		if fileStem(obj.File) != n.Module+"."+n.Lang {
			obj.AddError(rng, diag.Warnf("gviewnl name/lang %q.%q does not match file name", n.Module, n.Lang))
		}
	}
	targets := append([]string{n.Module}, n.Imports...)
	for _, m := range targets {
		fileHint, err := ResolveViewFileHint(c.cfg.Root, obj.File, m, n.HasRepo, n.FromRepo, n.HasPath, n.FromPath)
		if err != nil {
			obj.AddError(rng, err)
			continue
		}
		obj.AddDependency(Dependency{Range: rng, Scope: ctx, ModuleName: m, ModuleTypeHint: reftype.MODSIG | reftype.MODULE, FileHint: fileHint, Export: true})
		obj.AddReference(Reference{Range: rng, Scope: ctx, Name: []string{m}, Kind: reftype.MODSIG | reftype.MODULE})
	}
}

func (c *Compiler) compileViewSig(obj *Object, n *intermediate.ViewSigNode, ctx symtab.Symbol, rng span.Range) {
	if ctx.Kind() != symtab.RootKind {
		obj.AddError(rng, diag.Errorf("viewsig must be at the top level"))
		return
	}
	if fileStem(obj.File) != n.ModuleName {
		obj.AddError(rng, diag.Warnf("viewsig name %q does not match file name", n.ModuleName))
	}
	targets := append([]string{n.ModuleName}, n.Imports...)
	for _, m := range targets {
		fileHint, err := ResolveViewFileHint(c.cfg.Root, obj.File, m, n.HasRepo, n.FromRepo, false, "")
		if err != nil {
			obj.AddError(rng, err)
			continue
		}
		obj.AddDependency(Dependency{Range: rng, Scope: ctx, ModuleName: m, ModuleTypeHint: reftype.MODSIG | reftype.MODULE, FileHint: fileHint, Export: true})
		obj.AddReference(Reference{Range: rng, Scope: ctx, Name: []string{m}, Kind: reftype.MODSIG | reftype.MODULE})
	}
}

func (c *Compiler) compileTassign(obj *Object, node intermediate.Node, n *intermediate.TassignNode, ctx symtab.Symbol, rng span.Range) {
	parent := node.Parent()
	if parent == nil || parent.Kind() != intermediate.ViewSigKind {
		obj.AddError(rng, diag.Errorf("tassign must be inside a viewsig"))
		return
	}
	obj.AddReference(Reference{Range: rng, Scope: ctx, Name: []string{n.SourceModule, n.SourceSymbol}, Kind: reftype.DEF})
	if n.TargetsValue {
		obj.AddReference(Reference{Range: rng, Scope: ctx, Name: []string{n.TargetModule, n.TargetTerm}, Kind: reftype.DEF})
	}
}
