// SPDX-License-Identifier: MPL-2.0

package report

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// FormatText is the styled, human-oriented default.
	FormatText Format = "text"
	// FormatMarkdown emits a Markdown document.
	FormatMarkdown Format = "markdown"
	// FormatJSON emits indented JSON.
	FormatJSON Format = "json"
)

// ErrUnknownFormat is the sentinel error wrapped by UnknownFormatError.
var ErrUnknownFormat = errors.New("unknown report format")

type (
	// Format selects the report encoding.
	Format string

	// UnknownFormatError is returned by ParseFormat for unrecognized names.
	UnknownFormatError struct {
		Value string
	}
)

// ParseFormat maps a case-insensitive name ("md" is accepted for markdown)
// to a Format. An empty name is FormatText.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatText, &UnknownFormatError{Value: name}
	}
}

// Formats lists the accepted format names.
func Formats() []string {
	return []string{string(FormatText), string(FormatMarkdown), string(FormatJSON)}
}

func (f Format) String() string { return string(f) }

// Error implements the error interface for UnknownFormatError.
func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown report format %q (valid: %s)", e.Value, strings.Join(Formats(), ", "))
}

// Unwrap returns ErrUnknownFormat for errors.Is() compatibility.
func (e *UnknownFormatError) Unwrap() error { return ErrUnknownFormat }
