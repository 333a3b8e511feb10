package symtab

import (
	"fmt"

	"stexls/span"
)

// DuplicateSymbolDefinedError is raised when a non-alternative child
// collides in name with an existing child under the same parent.
type DuplicateSymbolDefinedError struct {
	Name     string
	Location span.Location
}

func (e *DuplicateSymbolDefinedError) Error() string {
	return fmt.Sprintf("%q already defined", e.Name)
}

// InvalidRedefinitionError is raised when an alternative definition's
// signature (def_type, noverb, noverbs) disagrees with an existing
// definition of the same name.
type InvalidRedefinitionError struct {
	Name     string
	Location span.Location
}

func (e *InvalidRedefinitionError) Error() string {
	return fmt.Sprintf("invalid alternative redefinition of %q", e.Name)
}
