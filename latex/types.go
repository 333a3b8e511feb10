// Package latex implements the external lexer/parser collaborator:
// turning raw LaTeX-like source text into a tree of environments with
// their optional/required arguments. It deliberately does not attempt to
// be a general-purpose LaTeX engine; it recognizes exactly the
// \begin{env}[oargs]{rargs}...\end{env} structure the intermediate
// builder needs, skips all other text, and reports only unterminated or
// mismatched environments as syntax errors.
package latex

import "stexls/span"

// Token is a piece of source text together with the Range it occupies.
type Token struct {
	Text  string
	Range span.Range
}

// OArgs holds an environment's optional (bracketed) arguments, split into
// the unnamed ones and the name=value ones, in the order they appeared.
type OArgs struct {
	Unnamed []Token
	Named   map[string]Token
}

// Environment is one \begin{Name}...\end{Name} block.
type Environment struct {
	Name     Token
	Location span.Location
	RArgs    []Token
	OArgs    OArgs
	Parent   *Environment
	Children []*Environment
}

// EnvTree is the parse result for one file: every top-level environment,
// in document order.
type EnvTree struct {
	Path  string
	Roots []*Environment
}

// Walk visits every environment in the tree depth-first, calling enter
// before descending into an environment's children and exit after.
func (t *EnvTree) Walk(enter func(*Environment), exit func(*Environment)) {
	var visit func(*Environment)
	visit = func(e *Environment) {
		if enter != nil {
			enter(e)
		}
		for _, c := range e.Children {
			visit(c)
		}
		if exit != nil {
			exit(e)
		}
	}
	for _, r := range t.Roots {
		visit(r)
	}
}

// SyntaxError describes a structural problem found while scanning:
// an unterminated or mismatched environment.
type SyntaxError struct {
	Message  string
	Location span.Location
}

func (e SyntaxError) Error() string { return e.Message }

// Parser is the external lexer/parser collaborator the rest of the
// pipeline depends on.
type Parser interface {
	Parse(path string, content string) (*EnvTree, []SyntaxError, error)
}
