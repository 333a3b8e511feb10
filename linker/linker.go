// Package linker merges per-file Objects into fully-resolved link units
// by recursively importing their dependencies (§4.4), then validates
// every reference against the merged symbol table (§4.4.2).
package linker

import (
	"os"
	"sync"
	"time"

	"stexls/compiler"
	"stexls/diag"
	"stexls/symtab"
)

// Workspace is the subset of workspace.Workspace the Linker needs for
// incrementality decisions (§4.4.3): whether a file has an unsaved
// live edit newer than what's cached.
type Workspace interface {
	GetTimeLiveModified(path string) (time.Time, bool)
	IsOpen(path string) bool
}

// Config mirrors compiler.Config plus the workspace collaborator.
type Config struct {
	Root      string
	OutDir    string
	Workspace Workspace
}

type objectEntry struct {
	obj   *compiler.Object
	mtime time.Time
}

type stackKey struct {
	File   string
	Module string
}

type linkKey struct {
	UseModuleOnStack bool
	File             string
	Module           string
}

type linkEntry struct {
	obj          *compiler.Object
	mtime        time.Time
	contributing []string
}

// Linker holds the in-memory per-file Object cache and the link cache
// keyed by (use_module_on_stack, file, module) per §4.4.3.
type Linker struct {
	cfg      Config
	compiler *compiler.Compiler

	mu        sync.Mutex
	objects   map[string]*objectEntry
	linkCache map[linkKey]*linkEntry
}

// New constructs a Linker backed by its own Compiler.
func New(cfg Config) *Linker {
	return &Linker{
		cfg:       cfg,
		compiler:  compiler.NewCompiler(compiler.Config{Root: cfg.Root, OutDir: cfg.OutDir, DryRun: cfg.OutDir == ""}, nil),
		objects:   map[string]*objectEntry{},
		linkCache: map[linkKey]*linkEntry{},
	}
}

// CompileAndLink is the §4.4 entry point. requiredModules, when
// non-empty, restricts which of file's own top-level dependencies get
// linked in (a "give me just this module" query); it never restricts a
// dependency's own further imports, which always resolve in full since
// linkDependency already isolates the one named module it needs from
// each imported Object.
func (l *Linker) CompileAndLink(file string, requiredModules []string) (*compiler.Object, error) {
	topLevelModule := ""
	if len(requiredModules) > 0 {
		topLevelModule = requiredModules[0]
	}
	obj, err := l.getObject(file)
	if err != nil {
		return nil, err
	}
	l.link(obj, obj, requiredModules, map[stackKey]bool{}, false, topLevelModule)
	return obj, nil
}

// link resolves obj's dependencies in place and validates obj's own
// references against the merged result (§4.4.2). root is the Object
// CompileAndLink will ultimately return; cyclic-import diagnostics are
// always recorded on root (per-recursion-frame Objects are clones
// that get discarded once their symbols are merged into their
// importer, so a diagnostic recorded anywhere deeper than root would
// otherwise never surface to the caller).
func (l *Linker) link(root, obj *compiler.Object, requiredModules []string, stack map[stackKey]bool, useModuleOnStack bool, topLevelModule string) {
	for _, d := range obj.Dependencies {
		if len(requiredModules) > 0 && !contains(requiredModules, d.ModuleName) {
			continue
		}
		if !d.Export && len(stack) > 0 {
			continue
		}

		sk := stackKey{File: d.FileHint, Module: d.ModuleName}
		if stack[sk] {
			root.AddError(d.Range, diag.LinkErrorf("cyclic dependency on module %q", d.ModuleName))
			continue
		}
		if useModuleOnStack && d.ModuleName == topLevelModule {
			continue
		}

		childUseOnStack := useModuleOnStack || !d.Export
		lk := linkKey{UseModuleOnStack: childUseOnStack, File: d.FileHint, Module: d.ModuleName}

		imported, ok := l.lookupLinkCache(lk)
		if !ok {
			child, err := l.getObject(d.FileHint)
			if err != nil {
				root.AddError(d.Range, err)
				continue
			}
			stack[sk] = true
			l.link(root, child, nil, stack, childUseOnStack, topLevelModule)
			delete(stack, sk)
			imported = child
			l.storeLinkCache(lk, child)
		}

		l.linkDependency(obj, d, imported)
	}

	validateReferences(obj)
}

// getObject returns the Object for file, recompiling it when
// recompilationRequired reports true (§4.4.3), and returns a Clone so
// the caller's subsequent import merges never mutate the cache entry.
func (l *Linker) getObject(file string) (*compiler.Object, error) {
	l.mu.Lock()
	entry, fresh := l.objects[file], false
	if entry != nil {
		fresh = !l.recompilationRequired(file, entry.mtime)
	}
	l.mu.Unlock()
	if fresh {
		return entry.obj.Clone(), nil
	}

	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	obj, err := l.compiler.Compile(file, string(content))
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.objects[file] = &objectEntry{obj: obj, mtime: time.Now()}
	l.mu.Unlock()
	return obj.Clone(), nil
}

func (l *Linker) recompilationRequired(file string, cacheMtime time.Time) bool {
	fi, err := os.Stat(file)
	if err != nil {
		return true
	}
	if fi.ModTime().After(cacheMtime) {
		return true
	}
	if l.cfg.Workspace != nil {
		if t, ok := l.cfg.Workspace.GetTimeLiveModified(file); ok && t.After(cacheMtime) {
			return true
		}
	}
	return false
}

func (l *Linker) lookupLinkCache(key linkKey) (*compiler.Object, bool) {
	l.mu.Lock()
	entry, ok := l.linkCache[key]
	l.mu.Unlock()
	if !ok || l.relinkRequired(entry) {
		return nil, false
	}
	return entry.obj, true
}

func (l *Linker) storeLinkCache(key linkKey, obj *compiler.Object) {
	contributing := []string{obj.File}
	for _, d := range obj.Dependencies {
		contributing = append(contributing, d.FileHint)
	}
	l.mu.Lock()
	l.linkCache[key] = &linkEntry{obj: obj, mtime: time.Now(), contributing: contributing}
	l.mu.Unlock()
}

// relinkRequired implements §4.4.3's relink_required: stale if any
// contributing file has a newer mtime or live-edit timestamp than the
// cache entry.
func (l *Linker) relinkRequired(entry *linkEntry) bool {
	for _, p := range entry.contributing {
		fi, err := os.Stat(p)
		if err == nil && fi.ModTime().After(entry.mtime) {
			return true
		}
		if l.cfg.Workspace != nil {
			if t, ok := l.cfg.Workspace.GetTimeLiveModified(p); ok && t.After(entry.mtime) {
				return true
			}
		}
	}
	return false
}

// linkDependency implements §4.4.1: resolve d against imported's symbol
// table and splice the result into obj at d.Scope.
func (l *Linker) linkDependency(obj *compiler.Object, d compiler.Dependency, imported *compiler.Object) {
	matches := symtab.Lookup(imported.SymbolTable, []string{d.ModuleName}, d.ModuleTypeHint)
	switch {
	case len(matches) == 0:
		obj.AddError(d.Range, diag.LinkErrorf("module %q not defined in %s", d.ModuleName, imported.File))
		return
	case len(matches) > 1:
		obj.AddError(d.Range, diag.LinkErrorf("module %q is not unique in %s", d.ModuleName, imported.File))
		return
	}

	m, ok := matches[0].(*symtab.ModuleSymbol)
	if !ok {
		obj.AddError(d.Range, diag.LinkErrorf("%q does not name a module", d.ModuleName))
		return
	}
	if m.AccessModifier() != symtab.Public {
		obj.AddError(d.Range, diag.LinkErrorf("cannot import private module %q", d.ModuleName))
		return
	}

	for _, err := range symtab.ImportFrom(d.Scope, m) {
		obj.AddError(d.Range, err)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
