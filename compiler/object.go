// Package compiler walks an intermediate tree to produce a per-file
// Object: a hierarchical symbol table, an ordered list of dependencies,
// a list of references, and diagnostics (§4.3).
package compiler

import (
	"fmt"
	"time"

	"stexls/diag"
	"stexls/reftype"
	"stexls/span"
	"stexls/symtab"
	"stexls/util"
)

// Reference is a use-site pointing to a (possibly not-yet-resolved)
// symbol, lexically positioned under Scope.
type Reference struct {
	Range span.Range
	Scope symtab.Symbol
	Name  []string
	Kind  reftype.Kind
}

// Dependency is an unresolved import target. Export=false models a
// usemodule-style import (not re-exported to further importers).
type Dependency struct {
	Range          span.Range
	Scope          symtab.Symbol
	ModuleName     string
	ModuleTypeHint reftype.Kind
	FileHint       string
	Export         bool
}

// SameModuleImported reports whether d and other name the same module
// and target the same scope or scopes where one is an ancestor of the
// other, the condition that makes a second import of the same module
// redundant.
func (d Dependency) SameModuleImported(other Dependency) bool {
	if d.ModuleName != other.ModuleName {
		return false
	}
	if d.Scope == other.Scope {
		return true
	}
	return symtab.IsParentOf(d.Scope, other.Scope) || symtab.IsParentOf(other.Scope, d.Scope)
}

func (d Dependency) String() string {
	return fmt.Sprintf("%s@%s (export=%v)", d.ModuleName, d.FileHint, d.Export)
}

// Object is the per-file compilation artifact (§3).
type Object struct {
	File         string
	SymbolTable  *symtab.RootSymbol
	Dependencies []Dependency
	References   []Reference
	Errors       map[span.Range][]error
	CreationTime time.Time
}

// NewObject creates an empty Object rooted at a fresh Root symbol.
func NewObject(file string) *Object {
	return &Object{
		File:        file,
		SymbolTable: symtab.NewRoot(span.Location{Path: file}),
		Errors:      map[span.Range][]error{},
	}
}

// AddError attaches a diagnostic to the Object at rng.
func (o *Object) AddError(rng span.Range, err error) {
	o.Errors[rng] = append(o.Errors[rng], err)
}

// AddReference appends r to the Object's reference list.
func (o *Object) AddReference(r Reference) {
	o.References = append(o.References, r)
}

// AddDependency appends d unless an existing dependency already targets
// the same module from the same, an ancestor or a descendant scope, in
// which case a
// redundant-import warning is recorded instead (§4.3 ImportModule /
// §7 CompilerWarning).
func (o *Object) AddDependency(d Dependency) {
	for _, existing := range o.Dependencies {
		if existing.SameModuleImported(d) {
			o.AddError(d.Range, diag.Warnf("redundant import of module %q", d.ModuleName))
			return
		}
	}
	o.Dependencies = append(o.Dependencies, d)
}

// FindSimilarSymbols returns up to 3 qualified-name suggestions close to
// qualified, restricted to symbols whose ReferenceType intersects kind
// (when kind is non-zero). Used by the linker's undefined-reference
// diagnostic in place of Python's difflib.get_close_matches.
func (o *Object) FindSimilarSymbols(qualified []string, kind reftype.Kind) []string {
	target := joinQualified(qualified)
	var candidates []string
	for _, s := range symtab.Flat(o.SymbolTable) {
		if kind != 0 && !kind.Intersects(s.ReferenceType()) {
			continue
		}
		candidates = append(candidates, joinQualified(symtab.Qualified(s)))
	}
	return util.ClosestMatches(target, candidates, 3)
}

// Clone returns a structurally independent copy of o: a fresh symbol
// tree, so a linker merging imports into the copy never mutates the
// cached original (§4.4 step 1, "a shallow copy of the cached one").
func (o *Object) Clone() *Object {
	return fromRecord(toRecord(o))
}

func joinQualified(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}
