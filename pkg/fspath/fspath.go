// SPDX-License-Identifier: MPL-2.0

// Package fspath normalizes host-reported paths.
//
// Hosts may report paths with either separator regardless of the platform the
// scanner runs on, so every result in this package uses '/' as separator.
package fspath

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Normalize replaces backslashes with '/' and trims surrounding whitespace.
// It does not clean the path.
func Normalize(p string) string {
	return strings.ReplaceAll(strings.TrimSpace(p), `\`, "/")
}

// Dir returns the normalized directory of p. It returns "" for an empty p.
func Dir(p string) string {
	p = Normalize(p)
	if p == "" {
		return ""
	}
	return path.Dir(p)
}

// Ext returns the lowercase extension of p including the leading dot.
func Ext(p string) string {
	return strings.ToLower(path.Ext(Normalize(p)))
}

// BaseNoExt returns the last element of p without its extension.
func BaseNoExt(p string) string {
	base := path.Base(Normalize(p))
	return strings.TrimSuffix(base, path.Ext(base))
}

// HasRootMarker reports whether p carries a drive letter ("C:"), a UNC or
// leading-separator root, or is absolute on the running platform. Paths
// without a root marker are relative.
func HasRootMarker(p string) bool {
	p = Normalize(p)
	if p == "" {
		return false
	}
	return strings.HasPrefix(p, "/") || filepath.IsAbs(p) || hasDrive(p)
}

// Resolve makes entry absolute. A relative entry is joined with baseDir first.
// The result is cleaned and uses '/' separators.
func Resolve(entry, baseDir string) (string, error) {
	entry = Normalize(entry)
	if entry == "" {
		return "", fmt.Errorf("resolving path: empty entry")
	}
	if !HasRootMarker(entry) {
		entry = path.Join(Normalize(baseDir), entry)
	}
	if hasDrive(entry) {
		// filepath.Abs would prefix a drive path with the working directory
		// on non-Windows platforms.
		return path.Clean(entry), nil
	}
	abs, err := filepath.Abs(filepath.FromSlash(entry))
	if err != nil {
		return "", fmt.Errorf("resolving absolute path %q: %w", entry, err)
	}
	return filepath.ToSlash(abs), nil
}

// DirExists reports whether p names an existing directory.
func DirExists(p string) bool {
	info, err := os.Stat(filepath.FromSlash(p))
	return err == nil && info.IsDir()
}

// SplitList splits a ';'-delimited list, trims every entry, and drops empty
// entries.
func SplitList(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func hasDrive(p string) bool {
	return len(p) >= 2 && p[1] == ':' && isDriveLetter(p[0])
}

func isDriveLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
