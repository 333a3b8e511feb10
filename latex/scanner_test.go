package latex

import "testing"

func TestScanSimpleEnvironment(t *testing.T) {
	src := `\begin{modsig}{arithmetics}\begin{symi}{plus}\end{symi}\end{modsig}`
	tree, errs, err := NewScanningParser().Parse("test.tex", src)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("unexpected syntax errors: %v", errs)
	}
	if len(tree.Roots) != 1 {
		t.Fatalf("expected 1 root environment, got %d", len(tree.Roots))
	}
	root := tree.Roots[0]
	if root.Name.Text != "modsig" {
		t.Errorf("root name = %q, want modsig", root.Name.Text)
	}
	if len(root.RArgs) != 1 || root.RArgs[0].Text != "arithmetics" {
		t.Errorf("root rargs = %+v, want [arithmetics]", root.RArgs)
	}
	if len(root.Children) != 1 || root.Children[0].Name.Text != "symi" {
		t.Fatalf("expected one symi child, got %+v", root.Children)
	}
}

func TestScanUnterminatedEnvironment(t *testing.T) {
	src := `\begin{modsig}{arithmetics}`
	_, errs, err := NewScanningParser().Parse("test.tex", src)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 syntax error, got %d: %v", len(errs), errs)
	}
}

func TestScanOptionalArgs(t *testing.T) {
	src := `\begin{gimport}[lang=en,extra]{set}\end{gimport}`
	tree, errs, err := NewScanningParser().Parse("test.tex", src)
	if err != nil || len(errs) != 0 {
		t.Fatalf("Parse: err=%v errs=%v", err, errs)
	}
	root := tree.Roots[0]
	if got := root.OArgs.Named["lang"].Text; got != "en" {
		t.Errorf("named oarg lang = %q, want en", got)
	}
	if len(root.OArgs.Unnamed) != 1 || root.OArgs.Unnamed[0].Text != "extra" {
		t.Errorf("unnamed oargs = %+v, want [extra]", root.OArgs.Unnamed)
	}
}
