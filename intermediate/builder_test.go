package intermediate

import (
	"testing"

	"stexls/latex"
)

func parse(t *testing.T, src string) ([]Node, map[[2]int]int) {
	t.Helper()
	tree, errs, err := latex.NewScanningParser().Parse("test.tex", src)
	if err != nil {
		t.Fatalf("latex parse error: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("unexpected syntax errors: %v", errs)
	}
	roots, buildErrs := NewBuilder().Build(tree)
	counts := map[[2]int]int{}
	for loc, es := range buildErrs {
		counts[[2]int{int(loc.Range.Start.Line), int(loc.Range.Start.Character)}] = len(es)
	}
	return roots, counts
}

func TestBuildModSigWithNestedSymi(t *testing.T) {
	roots, errs := parse(t, `\begin{modsig}{arithmetics}\begin{symi}{plus}\end{symi}\end{modsig}`)
	if len(errs) != 0 {
		t.Fatalf("unexpected build errors: %v", errs)
	}
	if len(roots) != 1 {
		t.Fatalf("expected 1 root, got %d", len(roots))
	}
	modsig, ok := roots[0].(*ModSigNode)
	if !ok {
		t.Fatalf("root is %T, want *ModSigNode", roots[0])
	}
	if modsig.Name != "arithmetics" {
		t.Errorf("modsig name = %q, want arithmetics", modsig.Name)
	}
	if len(modsig.Children()) != 1 {
		t.Fatalf("expected 1 child, got %d", len(modsig.Children()))
	}
	symi, ok := modsig.Children()[0].(*SymiNode)
	if !ok {
		t.Fatalf("child is %T, want *SymiNode", modsig.Children()[0])
	}
	if len(symi.Tokens) != 1 || symi.Tokens[0] != "plus" {
		t.Errorf("symi tokens = %v, want [plus]", symi.Tokens)
	}
}

func TestBuildTrefiArityMismatchRecordsError(t *testing.T) {
	_, errs := parse(t, `\begin{trefii}{onlyone}\end{trefii}`)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one build error, got %d: %v", len(errs), errs)
	}
}

func TestBuildImportModuleMhModeRules(t *testing.T) {
	roots, errs := parse(t, `\begin{module}{m}\begin{importmhmodule}[dir=foo]{n}\end{importmhmodule}\end{module}`)
	if len(errs) != 0 {
		t.Fatalf("unexpected build errors: %v", errs)
	}
	mod := roots[0].(*ModuleNode)
	imp := mod.Children()[0].(*ImportModuleNode)
	if !imp.MHMode || !imp.Export || imp.Dir != "foo" {
		t.Errorf("unexpected importmhmodule node: %+v", imp)
	}
}

func TestBuildGViewNlPositionalArgs(t *testing.T) {
	roots, errs := parse(t, `\begin{gviewnl}{v}{en}{a}{b}\end{gviewnl}`)
	if len(errs) != 0 {
		t.Fatalf("unexpected build errors: %v", errs)
	}
	view, ok := roots[0].(*ViewNode)
	if !ok {
		t.Fatalf("root is %T, want *ViewNode", roots[0])
	}
	if view.Module != "v" || view.Lang != "en" {
		t.Errorf("gviewnl module/lang = %q/%q, want v/en", view.Module, view.Lang)
	}
	if len(view.Imports) != 2 || view.Imports[0] != "a" || view.Imports[1] != "b" {
		t.Errorf("gviewnl imports = %v, want [a b]", view.Imports)
	}
}

func TestBuildGViewSigPositionalImports(t *testing.T) {
	roots, errs := parse(t, `\begin{gviewsig}{v}{a}{b}\end{gviewsig}`)
	if len(errs) != 0 {
		t.Fatalf("unexpected build errors: %v", errs)
	}
	sig, ok := roots[0].(*ViewSigNode)
	if !ok {
		t.Fatalf("root is %T, want *ViewSigNode", roots[0])
	}
	if sig.ModuleName != "v" || len(sig.Imports) != 2 {
		t.Errorf("gviewsig = %q %v, want v [a b]", sig.ModuleName, sig.Imports)
	}
}

func TestBuildUnrecognizedEnvironmentIsTransparent(t *testing.T) {
	roots, errs := parse(t, `\begin{document}\begin{modsig}{m}\end{modsig}\end{document}`)
	if len(errs) != 0 {
		t.Fatalf("unexpected build errors: %v", errs)
	}
	if len(roots) != 1 {
		t.Fatalf("expected the modsig to surface as a root despite the unmatched wrapper, got %d roots", len(roots))
	}
	if _, ok := roots[0].(*ModSigNode); !ok {
		t.Fatalf("root is %T, want *ModSigNode", roots[0])
	}
}
