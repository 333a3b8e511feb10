package linker

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"stexls/compiler"
	"stexls/diag"
	"stexls/reftype"
	"stexls/span"
	"stexls/symtab"
)

func writeRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return root
}

func TestLinkImportsPublicModuleAndResolvesReference(t *testing.T) {
	root := writeRepo(t, map[string]string{
		"repo/source/a.tex": `\begin{modsig}{a}` +
			`\begin{importmhmodule}[dir=.]{b}\end{importmhmodule}` +
			`\begin{trefi}[b?x]{x}\end{trefi}` +
			`\end{modsig}`,
		"repo/source/b.tex": `\begin{module}{b}\begin{symi}{x}\end{symi}\end{module}`,
	})

	l := New(Config{Root: root})
	obj, err := l.CompileAndLink(filepath.Join(root, "repo/source/a.tex"), nil)
	if err != nil {
		t.Fatalf("CompileAndLink: %v", err)
	}
	for rng, errs := range obj.Errors {
		t.Errorf("unexpected diagnostic at %v: %v", rng, errs)
	}
}

func TestLinkUndefinedReferenceReportsLinkError(t *testing.T) {
	root := writeRepo(t, map[string]string{
		"repo/source/a.tex": `\begin{modsig}{a}\begin{trefi}[b?nope]{nope}\end{trefi}\end{modsig}`,
		"repo/source/b.tex": `\begin{modsig}{b}\end{modsig}`,
	})

	l := New(Config{Root: root})
	obj, err := l.CompileAndLink(filepath.Join(root, "repo/source/a.tex"), nil)
	if err != nil {
		t.Fatalf("CompileAndLink: %v", err)
	}

	var found bool
	for _, errs := range obj.Errors {
		for _, e := range errs {
			if _, ok := e.(*diag.LinkError); ok {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected a LinkError for the undefined reference, errors: %v", obj.Errors)
	}
}

func TestLinkPrivateModuleImportRejected(t *testing.T) {
	// Constructed directly against linkDependency rather than through a
	// parsed fixture: there is no surface syntax for declaring a *named*
	// private module, so this exercises the access check the way an
	// anonymous module (forced PRIVATE on creation) would trigger it.
	importerObj := compiler.NewObject("a.tex")
	importedObj := compiler.NewObject("b.tex")

	privateModule := symtab.NewModule("b", symtab.MODULE, symtab.Private, span.Location{Path: "b.tex"})
	if err := symtab.AddChild(importedObj.SymbolTable, privateModule, false); err != nil {
		t.Fatalf("AddChild: %v", err)
	}

	l := New(Config{Root: t.TempDir()})
	dep := compiler.Dependency{Scope: importerObj.SymbolTable, ModuleName: "b", ModuleTypeHint: reftype.MODULE, FileHint: "b.tex", Export: true}
	l.linkDependency(importerObj, dep, importedObj)

	var found bool
	for _, errs := range importerObj.Errors {
		for _, e := range errs {
			if _, ok := e.(*diag.LinkError); ok {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected a LinkError for importing a private module, errors: %v", importerObj.Errors)
	}
}

func TestLinkIncrementalRecompileOnFileChange(t *testing.T) {
	root := writeRepo(t, map[string]string{
		"repo/source/a.tex": `\begin{modsig}{a}\end{modsig}`,
	})
	file := filepath.Join(root, "repo/source/a.tex")

	l := New(Config{Root: root})
	first, err := l.CompileAndLink(file, nil)
	if err != nil {
		t.Fatalf("first CompileAndLink: %v", err)
	}
	firstCreation := first.CreationTime

	// Force a later mtime so recompilationRequired sees a change.
	later := time.Now().Add(time.Second)
	if err := os.Chtimes(file, later, later); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	second, err := l.CompileAndLink(file, nil)
	if err != nil {
		t.Fatalf("second CompileAndLink: %v", err)
	}
	if !second.CreationTime.After(firstCreation) {
		t.Fatalf("expected a recompilation after the file's mtime advanced, got same CreationTime %v", firstCreation)
	}
}
