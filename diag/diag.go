// Package diag defines the closed diagnostic taxonomy attached to
// Objects at a specific Range (§7): structural compile-time faults,
// soft warnings, link-time faults, and cache faults. Every diagnostic
// implements error so callers can errors.As into the concrete kind they
// care about; none of them, other than FileNotFound-style faults raised
// directly by the caller, ever escape across an Object's boundary.
package diag

import "fmt"

// CompilerError is a structural fault in the intermediate tree: bad
// arity, a forbidden argument combination, an invalid location.
type CompilerError struct {
	Message string
}

func (e *CompilerError) Error() string { return e.Message }

// CompilerWarning is a soft fault: filename mismatch, a deprecated
// construct, a redundant repo/path/dir annotation.
type CompilerWarning struct {
	Message string
}

func (e *CompilerWarning) Error() string { return e.Message }

// LinkError is an undefined, ambiguous, wrong-typed, private, or cyclic
// module/symbol reference discovered during linking.
type LinkError struct {
	Message string
}

func (e *LinkError) Error() string { return e.Message }

// LinkWarning flags a resolved but verbalization-suppressed symbol.
type LinkWarning struct {
	Message string
}

func (e *LinkWarning) Error() string { return e.Message }

// Info is a non-fatal observation, such as a symbol defined but never
// referenced.
type Info struct {
	Message string
}

func (e *Info) Error() string { return e.Message }

// ObjectFileNotFoundError signals a missing on-disk cache entry.
type ObjectFileNotFoundError struct {
	Path string
}

func (e *ObjectFileNotFoundError) Error() string {
	return fmt.Sprintf("object file not found: %s", e.Path)
}

// ObjectFileCorruptError signals a malformed or version-mismatched
// on-disk cache entry.
type ObjectFileCorruptError struct {
	Path   string
	Reason string
}

func (e *ObjectFileCorruptError) Error() string {
	return fmt.Sprintf("object file corrupt: %s (%s)", e.Path, e.Reason)
}

func Errorf(format string, args ...any) *CompilerError {
	return &CompilerError{Message: fmt.Sprintf(format, args...)}
}

func Warnf(format string, args ...any) *CompilerWarning {
	return &CompilerWarning{Message: fmt.Sprintf(format, args...)}
}

func LinkErrorf(format string, args ...any) *LinkError {
	return &LinkError{Message: fmt.Sprintf(format, args...)}
}

func LinkWarnf(format string, args ...any) *LinkWarning {
	return &LinkWarning{Message: fmt.Sprintf(format, args...)}
}

func Infof(format string, args ...any) *Info {
	return &Info{Message: fmt.Sprintf(format, args...)}
}
