package util

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FindSourceDir walks up from currentFile, inside root, until it finds an
// ancestor directory literally named "source" and returns it. This is the
// repository layout import/gimport/usemodule fall back to when no explicit
// repository is named: <repo>/source/<relative path>.tex.
func FindSourceDir(root, currentFile string) (string, error) {
	dir := filepath.Dir(currentFile)
	for {
		if filepath.Base(dir) == "source" {
			return dir, nil
		}
		rel, err := filepath.Rel(root, dir)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("no source directory found above %s within %s", currentFile, root)
}

// RepositoryName returns the first path segment of file relative to root,
// i.e. the name of the repository file lives in.
func RepositoryName(root, file string) (string, error) {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return "", err
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) == 0 || parts[0] == ".." {
		return "", fmt.Errorf("file %s is not inside root %s", file, root)
	}
	return parts[0], nil
}

// GetPath returns the "path" oarg value (relative to a source directory,
// without the .tex extension) that would resolve to file, used to detect
// redundant explicit path= import arguments that match the default.
func GetPath(sourceDir, file string) (string, error) {
	rel, err := filepath.Rel(sourceDir, file)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, ".tex"), nil
}

// GetDir returns the directory (relative to a source directory) containing
// file, used to detect redundant explicit dir= import arguments.
func GetDir(sourceDir, file string) (string, error) {
	rel, err := filepath.Rel(sourceDir, filepath.Dir(file))
	if err != nil {
		return "", err
	}
	if rel == "." {
		return "", nil
	}
	return filepath.ToSlash(rel), nil
}
