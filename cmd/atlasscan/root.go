// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/codeatlas/atlasscan/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the persistent flags shared by every subcommand.
type rootFlagValues struct {
	verbose    bool
	configPath string
}

// NewRootCommand builds the atlasscan command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "atlasscan",
		Short: "Extract build metadata from a project workspace",
		Long: TitleStyle.Render("atlasscan") + SubtitleStyle.Render(" - workspace structure and build-configuration scanner") + `

atlasscan walks a workspace of units (projects), their items and nested
units, and reports the files, include directories, macro definitions and
languages it finds, plus the dependency graph between units.

The workspace is described by a manifest written in CUE, TOML, YAML or JSON.

` + SubtitleStyle.Render("Examples:") + `
  atlasscan collect workspace.cue             Files, includes and defines
  atlasscan collect workspace.cue --format md Markdown report
  atlasscan deps workspace.cue                Dependency graph and build order
  atlasscan count workspace.cue               Unit and item totals
  atlasscan watch workspace.cue               Re-run collect on every change
  atlasscan config show                       Effective configuration`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			app.configure(cmd.Context(), flags)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is $HOME/.config/atlasscan/config.cue)")

	rootCmd.AddCommand(
		newCollectCommand(app),
		newDepsCommand(app),
		newCountCommand(app),
		newWatchCommand(app),
		newConfigCommand(app, flags),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the command's exit code.
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(ExitFailure)
	}
}

// formatErrorForDisplay formats an error for user display. Actionable errors
// list their suggestions; verbose mode adds the error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// fail renders the catalog entry attached to err and returns err for cobra.
func (a *App) fail(err error) error {
	if err == nil {
		return nil
	}
	err = classifyError(err)
	renderServiceError(a.stderr, err, a.issueStyle())
	return err
}
