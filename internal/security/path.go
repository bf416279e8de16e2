// Package security provides the containment gate between
// client-supplied artifact locators and the filesystem.
//
// Every read and delete of an artifact goes through Path.Resolve;
// callers must act on the resolved path it returns, never on the
// original candidate string, so that symlink resolution and the
// containment check cannot be raced apart (CWE-22).
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsafePath is returned when a candidate filename or URI segment
// does not resolve to a file strictly inside the guarded directory.
var ErrUnsafePath = errors.New("path escapes artifact directory")

// Path validates that client-supplied filenames resolve to locations
// strictly inside a single base directory.
type Path struct {
	base string // absolute, symlink-resolved
}

// NewPath creates a validator rooted at baseDir. The directory must
// exist; the store creates it before constructing the guard.
func NewPath(baseDir string) (*Path, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolving base directory: %w", err)
	}
	// Resolve symlinks once at construction so that containment checks
	// compare against the real directory (macOS /var -> /private/var).
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("resolving base directory symlinks: %w", err)
	}
	return &Path{base: real}, nil
}

// Base returns the guarded directory (absolute, symlink-resolved).
func (p *Path) Base() string {
	return p.base
}

// Resolve validates candidate and returns the absolute path it denotes
// inside the base directory. It returns ErrUnsafePath when candidate:
//
//   - is empty
//   - starts with a path separator, or its percent-encoded form does
//     ("%2F", "%5C", any case)
//   - contains a null byte
//   - resolves (after cleaning and following symlinks) to the base
//     directory itself or to any location outside it
//
// A nil error means the returned path is safe to open or remove. The
// path may not exist; absence is the caller's concern, not a safety
// violation.
func (p *Path) Resolve(candidate string) (string, error) {
	if candidate == "" {
		return "", fmt.Errorf("%w: empty name", ErrUnsafePath)
	}
	if candidate[0] == '/' || candidate[0] == '\\' {
		return "", fmt.Errorf("%w: absolute path", ErrUnsafePath)
	}
	lower := strings.ToLower(candidate)
	if strings.HasPrefix(lower, "%2f") || strings.HasPrefix(lower, "%5c") {
		return "", fmt.Errorf("%w: encoded absolute path", ErrUnsafePath)
	}
	if strings.ContainsRune(candidate, '\x00') {
		return "", fmt.Errorf("%w: null byte", ErrUnsafePath)
	}

	abs := filepath.Clean(filepath.Join(p.base, candidate))
	if !p.contains(abs) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, candidate)
	}

	// Follow symlinks to their real target before the final check, so a
	// link inside the directory cannot point deletion or reads outside it.
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			// Nothing to follow; the cleaned path is contained.
			return abs, nil
		}
		return "", fmt.Errorf("resolving symlinks: %w", err)
	}
	if !p.contains(real) {
		return "", fmt.Errorf("%w: symlink target %q", ErrUnsafePath, real)
	}

	return real, nil
}

// contains reports whether abs is a strict descendant of the base
// directory. The base itself does not count: a resolved candidate must
// name a file, not the directory.
func (p *Path) contains(abs string) bool {
	if abs == p.base {
		return false
	}
	return strings.HasPrefix(abs, p.base+string(filepath.Separator))
}
