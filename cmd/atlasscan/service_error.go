// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/codeatlas/atlasscan/internal/collect"
	"github.com/codeatlas/atlasscan/internal/issue"
	"github.com/codeatlas/atlasscan/internal/manifest"
)

// ServiceError is an error that carries an issue catalog entry for the CLI to
// render before the error itself. Create it with newServiceError.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
}

func newServiceError(err error, issueID issue.Id) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{Err: err, IssueID: issueID}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// classifyError attaches the catalog entry matching err, if any.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return err
	}
	switch {
	case errors.Is(err, manifest.ErrUnsupportedFormat):
		return newServiceError(err, issue.UnsupportedManifestFormatId)
	case errors.Is(err, manifest.ErrInvalidManifest):
		return newServiceError(err, issue.ManifestParseErrorId)
	case errors.Is(err, os.ErrNotExist):
		return newServiceError(err, issue.ManifestNotFoundId)
	case errors.Is(err, collect.ErrInvalidIncludeScope):
		return newServiceError(err, issue.InvalidIncludeScopeId)
	default:
		return err
	}
}

// renderServiceError prints the catalog entry attached to err.
func renderServiceError(stderr io.Writer, err error, style string) {
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) || svcErr.IssueID == 0 {
		return
	}
	entry := issue.Get(svcErr.IssueID)
	if entry == nil {
		return
	}
	rendered, renderErr := entry.Render(style)
	if renderErr != nil {
		slog.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", renderErr)
		return
	}
	fmt.Fprint(stderr, rendered)
}
