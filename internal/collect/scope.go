// SPDX-License-Identifier: MPL-2.0

package collect

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ScopeProjectFolders collects files from the physical file items of every
	// visited unit.
	ScopeProjectFolders IncludeScope = iota
	// ScopeOpenFolders collects the documents currently open in the host.
	ScopeOpenFolders
	// ScopeNone collects no files.
	ScopeNone
)

// ErrInvalidIncludeScope is the sentinel error wrapped by InvalidIncludeScopeError.
var ErrInvalidIncludeScope = errors.New("invalid include scope")

type (
	// IncludeScope selects where the collector takes files from.
	IncludeScope int

	// InvalidIncludeScopeError is returned when an include scope name is not
	// recognized. It wraps ErrInvalidIncludeScope for errors.Is() compatibility.
	InvalidIncludeScopeError struct {
		Value string
	}
)

// String returns the canonical scope name.
func (s IncludeScope) String() string {
	switch s {
	case ScopeProjectFolders:
		return "project-folders"
	case ScopeOpenFolders:
		return "open-folders"
	case ScopeNone:
		return "none"
	default:
		return fmt.Sprintf("IncludeScope(%d)", int(s))
	}
}

// ParseIncludeScope maps a scope name to an IncludeScope. Names are matched
// case-insensitively and '_' is accepted in place of '-'. An empty name is the
// default scope.
func ParseIncludeScope(name string) (IncludeScope, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-") {
	case "", "project-folders":
		return ScopeProjectFolders, nil
	case "open-folders":
		return ScopeOpenFolders, nil
	case "none":
		return ScopeNone, nil
	default:
		return ScopeProjectFolders, &InvalidIncludeScopeError{Value: name}
	}
}

// Error implements the error interface for InvalidIncludeScopeError.
func (e *InvalidIncludeScopeError) Error() string {
	return fmt.Sprintf("invalid include scope %q (valid: project-folders, open-folders, none)", e.Value)
}

// Unwrap returns ErrInvalidIncludeScope for errors.Is() compatibility.
func (e *InvalidIncludeScopeError) Unwrap() error { return ErrInvalidIncludeScope }
