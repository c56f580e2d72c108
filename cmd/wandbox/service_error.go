// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Headline/wandbox/internal/issue"
	"github.com/Headline/wandbox/pkg/catalog"
	"github.com/Headline/wandbox/pkg/compile"
	"github.com/Headline/wandbox/pkg/wandbox"

	"github.com/spf13/cobra"
)

// errSourceRead marks failures to read the program text or its stdin.
var errSourceRead = errors.New("cannot read source")

// ServiceError is an error that carries optional rendering information for
// the CLI layer. Always create via newServiceError.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
	// StyledMessage is the optional pre-rendered styled error text.
	StyledMessage string
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
	}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// classifyError maps library failures to issue catalog IDs and returns a
// styled message for CLI rendering.
func classifyError(err error, verbose bool) (issueID issue.Id, styledMsg string) {
	var ae *issue.ActionableError

	switch {
	case errors.As(err, &ae) && ae.Issue != 0:
		issueID = ae.Issue
	case errors.Is(err, errSourceRead):
		issueID = issue.SourceReadFailedId
	case errors.Is(err, wandbox.ErrFetch):
		issueID = issue.ListingFetchFailedId
	case errors.Is(err, wandbox.ErrDecode):
		issueID = issue.ListingDecodeFailedId
	// Checked before ErrResolution: an emptied language also fails resolution.
	case errors.Is(err, catalog.ErrEmptyLanguage):
		issueID = issue.EmptyLanguageId
	case errors.Is(err, compile.ErrResolution), errors.Is(err, catalog.ErrUnknownLanguage):
		issueID = issue.TargetNotFoundId
	case errors.Is(err, wandbox.ErrTransport):
		issueID = issue.CompileTransportFailedId
	case errors.Is(err, wandbox.ErrResponse):
		issueID = issue.ServiceOutageId
	}

	return issueID, fmt.Sprintf("\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
}

// renderServiceError renders a ServiceError in the CLI layer.
// It prints any styled message first, then the optional issue help section.
func renderServiceError(stderr io.Writer, svcErr *ServiceError, style string) {
	if svcErr == nil {
		return
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}

	if svcErr.IssueID == 0 {
		return
	}

	if catalogEntry := issue.Get(svcErr.IssueID); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render(style)
		if renderErr != nil {
			slog.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", renderErr)
		} else {
			fmt.Fprint(stderr, rendered)
		}
	}
}

// failCommand renders err with its catalog entry and returns the ExitError
// the command should return. Usage is not printed for runtime failures.
func failCommand(cmd *cobra.Command, app *App, s *session, err error) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	verbose := s != nil && s.verbose
	issueID, msg := classifyError(err, verbose)
	renderServiceError(app.stderr, newServiceError(err, issueID, msg), s.issueStyle())

	return &ExitError{Code: 1}
}
