package compiler

import (
	"time"

	"stexls/intermediate"
	"stexls/latex"
	"stexls/logging"
	"stexls/symtab"
)

// Config holds the repository-wide settings a Compiler needs to resolve
// file hints and locate its on-disk object cache (§4.3.1, §4.3.2).
type Config struct {
	Root   string
	OutDir string
	DryRun bool
}

// Compiler turns one file's source text into an Object by running it
// through the external latex.Parser, the intermediate.Builder, and the
// per-node dispatch rules of §4.3.
type Compiler struct {
	cfg     Config
	parser  latex.Parser
	builder *intermediate.Builder
}

// NewCompiler constructs a Compiler. If parser is nil, the built-in
// latex.ScanningParser is used.
func NewCompiler(cfg Config, parser latex.Parser) *Compiler {
	if parser == nil {
		parser = latex.NewScanningParser()
	}
	return &Compiler{cfg: cfg, parser: parser, builder: intermediate.NewBuilder()}
}

// Compile runs the full §4.3 pipeline for one file: parse, build the
// intermediate tree, walk it dispatching each node against a context
// stack rooted at the Object's symbol table, and persist the result
// unless the Compiler is configured for a dry run.
func (c *Compiler) Compile(file string, content string) (*Object, error) {
	obj := NewObject(file)

	tree, syntaxErrs, err := c.parser.Parse(file, content)
	if err != nil {
		return nil, err
	}
	for _, se := range syntaxErrs {
		obj.AddError(se.Location.Range, se)
	}
	if tree == nil {
		return obj, nil
	}

	nodes, buildErrs := c.builder.Build(tree)
	for loc, errs := range buildErrs {
		for _, e := range errs {
			obj.AddError(loc.Range, e)
		}
	}

	var walk func(node intermediate.Node, ctx symtab.Symbol)
	walk = func(node intermediate.Node, ctx symtab.Symbol) {
		next, _ := c.dispatch(obj, node, ctx)
		for _, child := range node.Children() {
			walk(child, next)
		}
	}
	for _, root := range nodes {
		walk(root, obj.SymbolTable)
	}

	obj.CreationTime = time.Now()
	if !c.cfg.DryRun {
		if err := c.store(obj); err != nil {
			logging.Logger.Error("storing compiled object", "file", file, "error", err)
		}
	}
	return obj, nil
}
