// Package symtab implements the hierarchical symbol table: a tree of
// named symbols with scoped lookup, alternative-definition rules, and
// copy/import semantics, per the tagged-variant design used throughout
// this module (one Symbol interface, a small closed set of struct
// variants, free dispatch functions per operation).
package symtab

import (
	"sync/atomic"

	"stexls/reftype"
	"stexls/span"
)

// Kind tags which symbol variant a Symbol value is.
type Kind int

const (
	RootKind Kind = iota
	ModuleKind
	BindingKind
	DefKind
	ScopeKind
)

func (k Kind) String() string {
	switch k {
	case RootKind:
		return "Root"
	case ModuleKind:
		return "Module"
	case BindingKind:
		return "Binding"
	case DefKind:
		return "Def"
	case ScopeKind:
		return "Scope"
	default:
		return "unknown"
	}
}

// ModuleType distinguishes a language-independent signature from a
// self-contained module body.
type ModuleType int

const (
	MODSIG ModuleType = iota
	MODULE
)

// DefType distinguishes the four definition-like Def variants.
type DefType int

const (
	DEF DefType = iota
	DREF
	SYM
	SYMDEF
)

func (d DefType) referenceType() reftype.Kind {
	switch d {
	case DEF:
		return reftype.DEF
	case DREF:
		return reftype.DREF
	case SYM:
		return reftype.SYM
	case SYMDEF:
		return reftype.SYMDEF
	default:
		return 0
	}
}

// Symbol is the common interface every symbol-table node variant
// implements. Children are kept both as a name-keyed multimap (for
// find/lookup) and as a flat insertion-ordered slice (for traverse).
type Symbol interface {
	Kind() Kind
	Name() string
	Location() span.Location
	Parent() Symbol
	Children() []Symbol
	ChildrenNamed(name string) []Symbol
	AccessModifier() AccessModifier
	ReferenceType() reftype.Kind

	setParent(Symbol)
	appendChild(Symbol)
}

// base is embedded by every Symbol variant.
type base struct {
	name           string
	loc            span.Location
	parent         Symbol
	childrenByName map[string][]Symbol
	allChildren    []Symbol
}

func (b *base) Name() string           { return b.name }
func (b *base) Location() span.Location { return b.loc }
func (b *base) Parent() Symbol          { return b.parent }
func (b *base) setParent(p Symbol)      { b.parent = p }

func (b *base) Children() []Symbol { return b.allChildren }

func (b *base) ChildrenNamed(name string) []Symbol {
	return b.childrenByName[name]
}

func (b *base) appendChild(c Symbol) {
	if b.childrenByName == nil {
		b.childrenByName = map[string][]Symbol{}
	}
	b.childrenByName[c.Name()] = append(b.childrenByName[c.Name()], c)
	b.allChildren = append(b.allChildren, c)
}

// RootSymbol is the synthetic per-file root. It carries the fixed name
// "__root__", is always Public, and has no reference type.
type RootSymbol struct {
	base
}

func NewRoot(loc span.Location) *RootSymbol {
	return &RootSymbol{base: base{name: "__root__", loc: loc}}
}

func (r *RootSymbol) Kind() Kind                      { return RootKind }
func (r *RootSymbol) AccessModifier() AccessModifier  { return Public }
func (r *RootSymbol) ReferenceType() reftype.Kind     { return 0 }

// ModuleSymbol is either a MODSIG or a MODULE.
type ModuleSymbol struct {
	base
	ModuleType ModuleType
	Access     AccessModifier
}

var unnamedModuleCount atomic.Int64

// NewModule constructs a Module/ModSig symbol. If name is empty, an
// anonymous name is generated and the module is forced PRIVATE, mirroring
// the original's auto-numbered anonymous-module rule. The counter is
// atomic so parallel bulk compilation never hands out the same name.
func NewModule(name string, mtype ModuleType, access AccessModifier, loc span.Location) *ModuleSymbol {
	if name == "" {
		name = anonymousModuleName(int(unnamedModuleCount.Add(1)))
		access = Private
	}
	return &ModuleSymbol{base: base{name: name, loc: loc}, ModuleType: mtype, Access: access}
}

func anonymousModuleName(n int) string {
	digits := "0123456789"
	s := []byte{}
	for n > 0 {
		s = append([]byte{digits[n%10]}, s...)
		n /= 10
	}
	return "__unnamed_module_" + string(s) + "__"
}

func (m *ModuleSymbol) Kind() Kind                     { return ModuleKind }
func (m *ModuleSymbol) AccessModifier() AccessModifier { return m.Access }
func (m *ModuleSymbol) ReferenceType() reftype.Kind {
	if m.ModuleType == MODSIG {
		return reftype.MODSIG
	}
	return reftype.MODULE
}

// BindingSymbol is a language-specific companion of a module signature.
type BindingSymbol struct {
	base
	ModuleName string
	Lang       string
}

// NewBinding constructs a language binding for moduleName. The binding
// shares the module's name so scoped lookups address the binding and the
// signature it binds uniformly.
func NewBinding(moduleName, lang string, loc span.Location) *BindingSymbol {
	return &BindingSymbol{base: base{name: moduleName, loc: loc}, ModuleName: moduleName, Lang: lang}
}

func (b *BindingSymbol) Kind() Kind                     { return BindingKind }
func (b *BindingSymbol) AccessModifier() AccessModifier { return Public }
func (b *BindingSymbol) ReferenceType() reftype.Kind    { return reftype.BINDING }

// DefSymbol is one of the four definition-like leaf kinds.
type DefSymbol struct {
	base
	DefType DefType
	Access  AccessModifier
	Noverb  bool
	Noverbs []string
}

func NewDef(name string, dtype DefType, access AccessModifier, noverb bool, noverbs []string, loc span.Location) *DefSymbol {
	return &DefSymbol{base: base{name: name, loc: loc}, DefType: dtype, Access: access, Noverb: noverb, Noverbs: noverbs}
}

func (d *DefSymbol) Kind() Kind                     { return DefKind }
func (d *DefSymbol) AccessModifier() AccessModifier { return d.Access }
func (d *DefSymbol) ReferenceType() reftype.Kind    { return d.DefType.referenceType() }

// NoverbForLang reports whether this definition is hidden from
// verbalization entirely, or specifically for lang.
func (d *DefSymbol) NoverbForLang(lang string) bool {
	if d.Noverb {
		return true
	}
	for _, l := range d.Noverbs {
		if l == lang {
			return true
		}
	}
	return false
}

// ScopeSymbol is a plain lexical-grouping scope.
type ScopeSymbol struct {
	base
	Access AccessModifier
}

func NewScope(name string, access AccessModifier, loc span.Location) *ScopeSymbol {
	return &ScopeSymbol{base: base{name: name, loc: loc}, Access: access}
}

func (s *ScopeSymbol) Kind() Kind                     { return ScopeKind }
func (s *ScopeSymbol) AccessModifier() AccessModifier { return s.Access }
func (s *ScopeSymbol) ReferenceType() reftype.Kind    { return 0 }
