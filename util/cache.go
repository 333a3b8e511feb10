package util

import (
	"crypto/sha1"
	"encoding/hex"
	"path/filepath"
)

// ObjectCacheKey returns the sha1-hex digest of a directory's posix-style
// path, used as the subdirectory name for a file's cached compiled object.
// Mirrors Compiler.get_objectfile_path's hashing of file.parent.as_posix().
func ObjectCacheKey(dir string) string {
	posix := filepath.ToSlash(dir)
	sum := sha1.Sum([]byte(posix))
	return hex.EncodeToString(sum[:])
}

// ObjectCachePath returns the on-disk path of the cached object for file,
// rooted at outdir: <outdir>/<sha1-hex(parent-dir)>/<filename>.stexobj
func ObjectCachePath(outdir, file string) string {
	dir := filepath.Dir(file)
	name := filepath.Base(file)
	return filepath.Join(outdir, ObjectCacheKey(dir), name+".stexobj")
}
