package intermediate

import (
	"stexls/latex"
	"stexls/span"
)

// Builder converts a raw latex.EnvTree into the typed node tree (§4.1).
type Builder struct{}

func NewBuilder() *Builder { return &Builder{} }

// Build runs the classifier-driven depth-first walk described in §4.1:
// a stack of attach points, the first matching classifier per
// environment in the declared order, and errors recorded at the
// environment's own location without interrupting the walk.
func (b *Builder) Build(tree *latex.EnvTree) ([]Node, map[span.Location][]error) {
	errs := map[span.Location][]error{}
	var roots []Node
	var stack []Node

	var walk func(e *latex.Environment)
	walk = func(e *latex.Environment) {
		node, err, matched := Classify(e)
		pushed := false

		if matched {
			if err != nil {
				errs[e.Location] = append(errs[e.Location], err)
			} else {
				if len(stack) > 0 {
					Attach(stack[len(stack)-1], node)
				} else {
					roots = append(roots, node)
				}
				stack = append(stack, node)
				pushed = true
			}
		}

		for _, child := range e.Children {
			walk(child)
		}

		if pushed {
			stack = stack[:len(stack)-1]
		}
	}

	for _, root := range tree.Roots {
		walk(root)
	}
	return roots, errs
}
