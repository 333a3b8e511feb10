package compiler

import (
	"fmt"
	"os"
	"path/filepath"

	"stexls/intermediate"
	"stexls/util"
)

// ResolveImportModuleFileHint implements §4.3.1 for importmodule/
// usemodule(mh)? nodes.
func ResolveImportModuleFileHint(root, currentFile string, n *intermediate.ImportModuleNode) (string, error) {
	return resolveImportModuleFileHint(root, currentFile, n.Module, n.HasLoad, n.Load, n.HasRepo, n.MHRepos, n.HasDir, n.Dir, n.HasPath, n.Path)
}

func resolveImportModuleFileHint(root, currentFile, module string, hasLoad bool, load string, hasRepo bool, repo string, hasDir bool, dir string, hasPath bool, path string) (string, error) {
	if hasLoad {
		return canonicalize(filepath.Join(root, load, module+".tex")), nil
	}
	if !hasRepo && !hasDir && !hasPath {
		return currentFile, nil
	}

	source, err := resolveSourceDir(root, currentFile, hasRepo, repo)
	if err != nil {
		return "", err
	}

	switch {
	case hasDir:
		return canonicalize(filepath.Join(source, dir, module+".tex")), nil
	case hasPath:
		return canonicalize(filepath.Join(source, path+".tex")), nil
	default:
		return "", fmt.Errorf("importmodule: neither dir nor path given alongside a repository")
	}
}

// ResolveGImportFileHint implements §4.3.1's analogous rule for gimport/
// guse nodes, which only ever take a bare repository name (no dir/path
// split).
func ResolveGImportFileHint(root, currentFile string, n *intermediate.GImportNode) (string, error) {
	return resolveRepoFileHint(root, currentFile, n.Module, n.HasRepo, n.Repository)
}

// ResolveViewFileHint implements §4.3.1's rule for a view/viewsig's own
// module and each of its imports: one call per target module, using
// whichever of the enclosing view's fromrepos/frompath arguments are
// present. Mirrors build_path_to_imported_module being invoked once per
// target in the original implementation rather than sharing a single file
// hint across every target.
func ResolveViewFileHint(root, currentFile, module string, hasRepo bool, repo string, hasPath bool, path string) (string, error) {
	if hasPath {
		return resolveImportModuleFileHint(root, currentFile, module, false, "", hasRepo, repo, false, "", true, path)
	}
	return resolveRepoFileHint(root, currentFile, module, hasRepo, repo)
}

func resolveRepoFileHint(root, currentFile, module string, hasRepo bool, repo string) (string, error) {
	source, err := resolveSourceDir(root, currentFile, hasRepo, repo)
	if err != nil {
		return "", err
	}
	return canonicalize(filepath.Join(source, module+".tex")), nil
}

func resolveSourceDir(root, currentFile string, hasRepo bool, repo string) (string, error) {
	if hasRepo {
		return filepath.Join(root, repo, "source"), nil
	}
	return util.FindSourceDir(root, currentFile)
}

func canonicalize(path string) string {
	if home, err := os.UserHomeDir(); err == nil && len(path) >= 2 && path[:2] == "~/" {
		path = filepath.Join(home, path[2:])
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
