// Package reftype defines the reference-kind bitflag shared by the symbol
// table, the compiler's references/dependencies, and the linker's
// validation pass.
package reftype

// Kind is a bitflag identifying what a Reference or Symbol refers to.
type Kind uint16

const (
	MODSIG Kind = 1 << iota
	MODULE
	DEF
	DREF
	SYM
	SYMDEF
	BINDING

	// ANY_DEFINITION matches any of the four Def variants: a Trefi/Defi
	// reference that isn't pinned to a specific def_type accepts any of
	// them.
	ANY_DEFINITION = DEF | DREF | SYM | SYMDEF
)

// Has reports whether k contains every bit set in other.
func (k Kind) Has(other Kind) bool { return k&other == other }

// Intersects reports whether k and other share any bit.
func (k Kind) Intersects(other Kind) bool { return k&other != 0 }

func (k Kind) String() string {
	if k == 0 {
		return "none"
	}
	names := []struct {
		bit  Kind
		name string
	}{
		{MODSIG, "MODSIG"},
		{MODULE, "MODULE"},
		{DEF, "DEF"},
		{DREF, "DREF"},
		{SYM, "SYM"},
		{SYMDEF, "SYMDEF"},
		{BINDING, "BINDING"},
	}
	s := ""
	for _, n := range names {
		if k.Has(n.bit) {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	return s
}
