package compiler

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"stexls/reftype"
)

func compile(t *testing.T, src string) *Object {
	t.Helper()
	c := NewCompiler(Config{Root: "/repo", DryRun: true}, nil)
	obj, err := c.Compile("/repo/m/source/arithmetics.tex", src)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return obj
}

func TestCompileModSigDefinesModuleAndSym(t *testing.T) {
	obj := compile(t, `\begin{modsig}{arithmetics}\begin{symi}{plus}\end{symi}\end{modsig}`)
	if len(obj.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", obj.Errors)
	}
	mods := obj.SymbolTable.ChildrenNamed("arithmetics")
	if len(mods) != 1 {
		t.Fatalf("expected 1 top-level module symbol, got %d", len(mods))
	}
	syms := mods[0].ChildrenNamed("plus")
	if len(syms) != 1 {
		t.Fatalf("expected 1 sym child named plus, got %d", len(syms))
	}
}

func TestCompileModSigNameMismatchWarns(t *testing.T) {
	obj := compile(t, `\begin{modsig}{geometry}\end{modsig}`)
	if len(obj.Errors) == 0 {
		t.Fatalf("expected a filename mismatch warning, got none")
	}
}

func TestCompileDefiOutsideModuleErrors(t *testing.T) {
	obj := compile(t, `\begin{defi}{term}\end{defi}`)
	if len(obj.Errors) == 0 {
		t.Fatalf("expected an error for defi outside of a module")
	}
}

func TestCompileDefiInsideBindingEmitsReference(t *testing.T) {
	c := NewCompiler(Config{Root: "/repo", DryRun: true}, nil)
	obj, err := c.Compile("/repo/m/source/arithmetics.en.tex",
		`\begin{modnl}{arithmetics}{en}\begin{defi}{plus}\end{defi}\end{modnl}`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(obj.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", obj.Errors)
	}
	var got []Reference
	for _, r := range obj.References {
		if len(r.Name) == 2 && r.Name[0] == "arithmetics" && r.Name[1] == "plus" {
			got = append(got, r)
		}
	}
	if len(got) != 1 {
		t.Fatalf("expected one reference to arithmetics.plus, got %v", obj.References)
	}
	bindings := obj.SymbolTable.ChildrenNamed("arithmetics")
	if len(bindings) != 1 {
		t.Fatalf("expected the binding symbol, got %d", len(bindings))
	}
	if len(bindings[0].ChildrenNamed("plus")) != 0 {
		t.Fatalf("defi inside a binding must not insert a definition")
	}
}

func TestCompileTrefiInsideBindingTargetsBoundModule(t *testing.T) {
	c := NewCompiler(Config{Root: "/repo", DryRun: true}, nil)
	obj, err := c.Compile("/repo/m/source/arithmetics.en.tex",
		`\begin{modnl}{arithmetics}{en}\begin{trefi}{plus}\end{trefi}\end{modnl}`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	var got []Reference
	for _, r := range obj.References {
		if r.Kind.Intersects(reftype.ANY_DEFINITION) && len(r.Name) == 2 && r.Name[0] == "arithmetics" {
			got = append(got, r)
		}
	}
	if len(got) != 1 || got[0].Name[1] != "plus" {
		t.Fatalf("expected one reference to arithmetics.plus, got %v", obj.References)
	}
}

func TestCompileTrefiEmitsReference(t *testing.T) {
	obj := compile(t, `\begin{modsig}{arithmetics}\begin{trefi}[other?plus]{plus}\end{trefi}\end{modsig}`)
	var got []Reference
	for _, r := range obj.References {
		if r.Kind.Intersects(reftype.ANY_DEFINITION) && len(r.Name) == 2 && r.Name[0] == "other" {
			got = append(got, r)
		}
	}
	if len(got) != 1 {
		t.Fatalf("expected exactly one cross-module reference, got %d: %v", len(got), obj.References)
	}
}

func TestCompileImportModuleEmitsDependency(t *testing.T) {
	obj := compile(t, `\begin{modsig}{arithmetics}\begin{importmhmodule}[dir=logic]{sets}\end{importmhmodule}\end{modsig}`)
	if len(obj.Dependencies) != 1 {
		t.Fatalf("expected 1 dependency, got %d: %v", len(obj.Dependencies), obj.Dependencies)
	}
	dep := obj.Dependencies[0]
	if dep.ModuleName != "sets" {
		t.Errorf("dependency module = %q, want sets", dep.ModuleName)
	}
}

func TestCompileRedundantImportWarns(t *testing.T) {
	obj := compile(t, `\begin{modsig}{arithmetics}`+
		`\begin{importmhmodule}[dir=logic]{sets}\end{importmhmodule}`+
		`\begin{importmhmodule}[dir=logic]{sets}\end{importmhmodule}`+
		`\end{modsig}`)
	if len(obj.Dependencies) != 1 {
		t.Fatalf("expected the second import to be suppressed, got %d dependencies", len(obj.Dependencies))
	}
	if len(obj.Errors) == 0 {
		t.Fatalf("expected a redundant-import warning")
	}
}

func TestCompileAlternativeSymdefAccepted(t *testing.T) {
	obj := compile(t, `\begin{modsig}{arithmetics}`+
		`\begin{symdef}[plus]{addition}\end{symdef}`+
		`\begin{symdef}[plus]{addition}\end{symdef}`+
		`\end{modsig}`)
	mods := obj.SymbolTable.ChildrenNamed("arithmetics")
	defs := mods[0].ChildrenNamed("addition")
	if len(defs) != 2 {
		t.Fatalf("expected both symdef alternatives to be kept, got %d", len(defs))
	}
}

func TestCompileSymdefDifferingNoverbRejected(t *testing.T) {
	obj := compile(t, `\begin{modsig}{arithmetics}`+
		`\begin{symdef}[plus]{addition}\end{symdef}`+
		`\begin{symdef}[noverb,plus]{addition}\end{symdef}`+
		`\end{modsig}`)
	mods := obj.SymbolTable.ChildrenNamed("arithmetics")
	defs := mods[0].ChildrenNamed("addition")
	if len(defs) != 1 {
		t.Fatalf("expected the mismatched alternative to be rejected, got %d defs kept", len(defs))
	}
	if len(obj.Errors) == 0 {
		t.Fatalf("expected an InvalidRedefinition error for the differing noverb alternative")
	}
}

func TestObjectCacheRoundTrip(t *testing.T) {
	obj := compile(t, `\begin{modsig}{arithmetics}\begin{symi}{plus}\end{symi}\end{modsig}`)
	rec := toRecord(obj)
	back := fromRecord(rec)

	if diff := cmp.Diff(obj.File, back.File); diff != "" {
		t.Errorf("File mismatch (-want +got):\n%s", diff)
	}
	wantMods := obj.SymbolTable.ChildrenNamed("arithmetics")
	gotMods := back.SymbolTable.ChildrenNamed("arithmetics")
	if len(wantMods) != len(gotMods) || len(gotMods) != 1 {
		t.Fatalf("module symbol did not round-trip: want %d got %d", len(wantMods), len(gotMods))
	}
	if gotMods[0].Name() != "arithmetics" {
		t.Errorf("round-tripped module name = %q, want arithmetics", gotMods[0].Name())
	}
	if len(back.Dependencies) != len(obj.Dependencies) {
		t.Errorf("dependency count mismatch: want %d got %d", len(obj.Dependencies), len(back.Dependencies))
	}
}
