// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/codeatlas/atlasscan/pkg/fspath"
)

const (
	// FormatCUE is a native CUE document.
	FormatCUE Format = "cue"
	// FormatTOML is a TOML document.
	FormatTOML Format = "toml"
	// FormatYAML is a YAML document.
	FormatYAML Format = "yaml"
	// FormatJSON is a JSON document.
	FormatJSON Format = "json"
)

// ErrUnsupportedFormat is the sentinel error wrapped by UnsupportedFormatError.
var ErrUnsupportedFormat = errors.New("unsupported manifest format")

type (
	// Format names a manifest encoding.
	Format string

	// UnsupportedFormatError is returned for a manifest whose extension maps to
	// no known format. It wraps ErrUnsupportedFormat for errors.Is() compatibility.
	UnsupportedFormatError struct {
		Path string
		Ext  string
	}
)

// DetectFormat picks the manifest format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch ext := fspath.Ext(path); ext {
	case ".cue":
		return FormatCUE, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", &UnsupportedFormatError{Path: path, Ext: ext}
	}
}

// SupportedExtensions lists the manifest extensions DetectFormat accepts.
func SupportedExtensions() []string {
	return []string{".cue", ".toml", ".yaml", ".yml", ".json"}
}

// Error implements the error interface for UnsupportedFormatError.
func (e *UnsupportedFormatError) Error() string {
	ext := e.Ext
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Sprintf("unsupported manifest format %s for %s (supported: %s)",
		ext, e.Path, strings.Join(SupportedExtensions(), ", "))
}

// Unwrap returns ErrUnsupportedFormat for errors.Is() compatibility.
func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }
