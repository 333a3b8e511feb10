package linker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"stexls/diag"
)

// The tests in this file cover the end-to-end scenarios S1, S2, S3 and
// S6 named in spec.md §8, one test per scenario. S4 is covered by
// TestLinkPrivateModuleImportRejected in linker_test.go; S5 (alternative
// symdefs) is covered by the compiler and symtab package tests.

func TestScenarioS1_ModSigModNlPairing(t *testing.T) {
	root := writeRepo(t, map[string]string{
		"repo/source/m/m.tex":    `\begin{modsig}{m}\begin{symi}{x}\end{symi}\end{modsig}`,
		"repo/source/m/m.en.tex": `\begin{modnl}{m}{en}\end{modnl}`,
	})

	l := New(Config{Root: root})
	obj, err := l.CompileAndLink(filepath.Join(root, "repo/source/m/m.en.tex"), nil)
	if err != nil {
		t.Fatalf("CompileAndLink: %v", err)
	}
	for rng, errs := range obj.Errors {
		t.Errorf("unexpected diagnostic at %v: %v", rng, errs)
	}
	if len(obj.Dependencies) != 1 {
		t.Fatalf("expected exactly one dependency (to m.tex), got %d", len(obj.Dependencies))
	}
	dep := obj.Dependencies[0]
	want := filepath.Join(root, "repo/source/m/m.tex")
	if dep.FileHint != want {
		t.Errorf("dependency file hint = %q, want %q", dep.FileHint, want)
	}
	if len(obj.References) != 1 || obj.References[0].Name[0] != "m" {
		t.Fatalf("expected exactly one reference to module m, got %v", obj.References)
	}
}

func TestScenarioS2_UndefinedReference(t *testing.T) {
	root := writeRepo(t, map[string]string{
		"repo/source/m.tex": `\begin{module}{m}\begin{symi}{alpha}\end{symi}\end{module}`,
		"repo/source/use.tex": `\begin{module}{u}` +
			`\begin{importmhmodule}[dir=.]{m}\end{importmhmodule}` +
			`\begin{trefi}[m?beta]{beta}\end{trefi}` +
			`\end{module}`,
	})

	l := New(Config{Root: root})
	obj, err := l.CompileAndLink(filepath.Join(root, "repo/source/use.tex"), nil)
	if err != nil {
		t.Fatalf("CompileAndLink: %v", err)
	}

	var messages []string
	for _, errs := range obj.Errors {
		for _, e := range errs {
			if _, ok := e.(*diag.LinkError); ok {
				messages = append(messages, e.Error())
			}
		}
	}
	if len(messages) != 1 {
		t.Fatalf("expected exactly one LinkError, got %d: %v", len(messages), messages)
	}
	if !strings.Contains(messages[0], "alpha") {
		t.Errorf("expected the undefined-reference suggestion to mention alpha, got %q", messages[0])
	}
}

func TestScenarioS3_Cycle(t *testing.T) {
	root := writeRepo(t, map[string]string{
		"repo/source/a.tex": `\begin{modsig}{a}\begin{gimport}{b}\end{gimport}\end{modsig}`,
		"repo/source/b.tex": `\begin{modsig}{b}\begin{gimport}{a}\end{gimport}\end{modsig}`,
	})

	l := New(Config{Root: root})
	obj, err := l.CompileAndLink(filepath.Join(root, "repo/source/a.tex"), nil)
	if err != nil {
		t.Fatalf("CompileAndLink: %v", err)
	}

	var cycleCount int
	for _, errs := range obj.Errors {
		for _, e := range errs {
			if le, ok := e.(*diag.LinkError); ok && strings.Contains(le.Error(), "cyclic") {
				cycleCount++
			}
		}
	}
	if cycleCount != 1 {
		t.Fatalf("expected exactly one cyclic-dependency diagnostic, got %d: %v", cycleCount, obj.Errors)
	}
}

// TestScenarioS4_PrivateModuleBlocked is intentionally not redefined
// here: no surface syntax declares a *named* private module (anonymous
// modules are the only source of Private modules - see
// symtab.NewModule), so the scenario is exercised by
// TestLinkPrivateModuleImportRejected in linker_test.go, which drives
// linkDependency directly against a manually constructed private
// ModuleSymbol the same way a real private import would be rejected.

func TestScenarioS6_IncrementalLinkOnlyRebuildsTouchedBinding(t *testing.T) {
	root := writeRepo(t, map[string]string{
		"repo/source/m/m.tex":    `\begin{modsig}{m}\begin{symi}{x}\end{symi}\end{modsig}`,
		"repo/source/m/m.en.tex": `\begin{modnl}{m}{en}\end{modnl}`,
	})
	mFile := filepath.Join(root, "repo/source/m/m.tex")
	bindingFile := filepath.Join(root, "repo/source/m/m.en.tex")

	l := New(Config{Root: root})
	if _, err := l.CompileAndLink(bindingFile, nil); err != nil {
		t.Fatalf("first CompileAndLink: %v", err)
	}

	mEntry, ok := l.objects[mFile]
	if !ok {
		t.Fatalf("expected m.tex to have been compiled and cached")
	}
	mMtimeBefore := mEntry.mtime

	later := time.Now().Add(time.Second)
	if err := os.Chtimes(bindingFile, later, later); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if _, err := l.CompileAndLink(bindingFile, nil); err != nil {
		t.Fatalf("second CompileAndLink: %v", err)
	}

	if l.objects[mFile].mtime != mMtimeBefore {
		t.Errorf("m.tex's cache entry was recompiled even though only the binding changed")
	}
}
