// Package intermediate converts a raw latex.EnvTree into a typed tree of
// module/definition/reference/import nodes (§4.1). It is a tagged
// variant per Design Notes §9: one Node interface, a small closed set of
// struct variants, and one dispatch function (Classify) that tries each
// variant's matcher in a fixed order.
package intermediate

import "stexls/span"

// Kind tags which node variant a Node value is.
type Kind int

const (
	ScopeKind Kind = iota
	ModSigKind
	ModNlKind
	ModuleKind
	ViewKind
	ViewSigKind
	TrefiKind
	DefiKind
	SymiKind
	SymdefKind
	ImportModuleKind
	GImportKind
	GStructureKind
	TassignKind
)

func (k Kind) String() string {
	names := [...]string{"Scope", "ModSig", "ModNl", "Module", "View", "ViewSig",
		"Trefi", "Defi", "Symi", "Symdef", "ImportModule", "GImport", "GStructure", "Tassign"}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// Node is the common interface every intermediate node variant implements.
type Node interface {
	Kind() Kind
	Location() span.Location
	Parent() Node
	Children() []Node

	setParent(Node)
	appendChild(Node)
}

type base struct {
	loc      span.Location
	parent   Node
	children []Node
}

func (b *base) Location() span.Location { return b.loc }
func (b *base) Parent() Node             { return b.parent }
func (b *base) Children() []Node         { return b.children }
func (b *base) setParent(p Node)         { b.parent = p }
func (b *base) appendChild(c Node)       { b.children = append(b.children, c) }

// Attach makes child a child of parent, setting the parent pointer. It is
// exported so the builder (in a different file, same package boundary as
// any future external composer) can wire the tree without every variant
// needing a bespoke constructor for it.
func Attach(parent, child Node) {
	parent.appendChild(child)
	child.setParent(parent)
}

type ScopeNode struct {
	base
	Name string
}

func (n *ScopeNode) Kind() Kind { return ScopeKind }

type ModSigNode struct {
	base
	Name string
}

func (n *ModSigNode) Kind() Kind { return ModSigKind }

type ModNlNode struct {
	base
	Name string
	Lang string
	MH   bool
}

func (n *ModNlNode) Kind() Kind { return ModNlKind }

type ModuleNode struct {
	base
	ID   string
	Star bool
}

func (n *ModuleNode) Kind() Kind { return ModuleKind }

// TrefiAnnotation is the optional "module?symbol" / "?symbol" oarg that
// pins a trefi's target.
type TrefiAnnotation struct {
	Module string
	Symbol string
}

type TrefiNode struct {
	base
	Tokens     []string
	Annotation *TrefiAnnotation
	M          bool
	A          bool
	Capital    bool
	Drefi      bool
	Arity      int
	Plural     bool
	Star       bool
}

func (n *TrefiNode) Kind() Kind { return TrefiKind }

type DefiNode struct {
	base
	Tokens     []string
	Annotation string
	HasName    bool
	M          bool
	A          bool
	Capital    bool
	Arity      int
	Plural     bool
	Star       bool
}

func (n *DefiNode) Kind() Kind { return DefiKind }

type SymiNode struct {
	base
	Tokens      []string
	NoverbAll   bool
	NoverbLangs []string
	Arity       int
	Star        bool
}

func (n *SymiNode) Kind() Kind { return SymiKind }

type SymdefNode struct {
	base
	Name         string
	UnnamedOArgs []string
	NamedOArgs   map[string]string
	Star         bool
}

func (n *SymdefNode) Kind() Kind { return SymdefKind }

type ImportModuleNode struct {
	base
	Module  string
	MHRepos string
	HasRepo bool
	Dir     string
	HasDir  bool
	Path    string
	HasPath bool
	Load    string
	HasLoad bool
	Export  bool
	MHMode  bool
	Star    bool
}

func (n *ImportModuleNode) Kind() Kind { return ImportModuleKind }

type GImportNode struct {
	base
	Module     string
	Repository string
	HasRepo    bool
	Export     bool
	Star       bool
}

func (n *GImportNode) Kind() Kind { return GImportKind }

type GStructureNode struct {
	base
	MHRepos string
	HasRepo bool
	Module  string
	Star    bool
}

func (n *GStructureNode) Kind() Kind { return GStructureKind }

type ViewNode struct {
	base
	GViewNl    bool
	Module     string
	Lang       string
	HasLang    bool
	FromRepo   string
	HasRepo    bool
	FromPath   string
	HasPath    bool
	Imports    []string
}

func (n *ViewNode) Kind() Kind { return ViewKind }

type ViewSigNode struct {
	base
	FromRepo   string
	HasRepo    bool
	ModuleName string
	Imports    []string
}

func (n *ViewSigNode) Kind() Kind { return ViewSigKind }

// TassignNode only appears inside a ViewSig (§4.3 Tassign).
type TassignNode struct {
	base
	SourceModule string
	SourceSymbol string
	TargetModule string
	TargetTerm   string
	TargetsValue bool // torv: true => 'v' (value), false => 't' (term)
}

func (n *TassignNode) Kind() Kind { return TassignKind }
