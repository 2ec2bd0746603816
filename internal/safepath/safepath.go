// Package safepath resolves untrusted file names against a fixed base
// directory. A successful result is always the base directory itself or a
// path below it, compared by path segment after symlinks are resolved.
package safepath

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Rejection reasons. Callers map these to client messages; none of them
// carries filesystem details.
var (
	ErrInvalidName = errors.New("safepath: invalid name")
	ErrPathEscape  = errors.New("safepath: path escapes base directory")
	ErrNotFound    = errors.New("safepath: file not found")
)

// allowedName admits letters, digits, dots and whitespace only. No path
// separators of either kind and no NUL can get through.
var allowedName = regexp.MustCompile(`^[A-Za-z0-9.\s]*$`)

// Resolve returns the canonical absolute path of the regular file rawName
// inside baseDir.
//
// The name is checked against the character whitelist before the filesystem
// is touched. The joined path must stay inside the canonical base both
// before and after symlink resolution.
func Resolve(baseDir, rawName string) (string, error) {
	if !allowedName.MatchString(rawName) {
		return "", ErrInvalidName
	}

	base, err := canonicalBase(baseDir)
	if err != nil {
		return "", err
	}

	candidate := filepath.Join(base, rawName)
	if !within(base, candidate) {
		return "", ErrPathEscape
	}

	resolved, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		return "", ErrNotFound
	}
	if !within(base, resolved) {
		return "", ErrPathEscape
	}

	info, err := os.Stat(resolved)
	if err != nil || !info.Mode().IsRegular() {
		return "", ErrNotFound
	}

	return resolved, nil
}

// canonicalBase makes baseDir absolute and symlink-free.
func canonicalBase(baseDir string) (string, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("safepath: resolving base %q: %w", baseDir, err)
	}
	base, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("safepath: resolving base %q: %w", baseDir, err)
	}
	return base, nil
}

// within reports whether target is base or a descendant of it. Both paths
// must be clean and absolute. A sibling such as "/images-evil" is not
// within "/images".
func within(base, target string) bool {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
