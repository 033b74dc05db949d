// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"

	"github.com/codeatlas/atlasscan/internal/dag"
	"github.com/codeatlas/atlasscan/internal/depgraph"
	"github.com/codeatlas/atlasscan/internal/issue"
	"github.com/codeatlas/atlasscan/internal/report"

	"github.com/spf13/cobra"
)

type depsFlagValues struct {
	selectedOnly bool
	selection    []string
	format       string
}

func newDepsCommand(app *App) *cobra.Command {
	flags := &depsFlagValues{}

	cmd := &cobra.Command{
		Use:   "deps <manifest>",
		Short: "Show the unit dependency graph and build order",
		Long: `Show every unit with its item count, the units it depends on and the
units depending on it, followed by a build order and parallel build waves.

A dependency cycle is reported and the command exits with status 2.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(runDeps(cmd, app, flags, args[0]))
		},
	}
	cmd.Flags().BoolVar(&flags.selectedOnly, "selected-only", false, "only print the paths of the selected units")
	cmd.Flags().StringSliceVar(&flags.selection, "select", nil, "unit ids, paths or names replacing the manifest selection")
	cmd.Flags().StringVar(&flags.format, "format", string(report.FormatText), "output format: text, markdown or json")
	return cmd
}

func runDeps(cmd *cobra.Command, app *App, flags *depsFlagValues, manifestPath string) error {
	format, err := report.ParseFormat(flags.format)
	if err != nil {
		return err
	}
	opts := scanOptions{}
	if cmd.Flags().Changed("select") {
		opts.selection = flags.selection
		opts.hasSelection = true
	}
	ws, err := app.loadWorkspace(manifestPath, opts)
	if err != nil {
		return err
	}
	r := app.renderer(format)

	if flags.selectedOnly {
		return r.Paths(app.stdout, "Selected units", depgraph.SelectedUnitPaths(ws))
	}

	b := depgraph.NewBuilder(depgraph.WithLogger(app.logger))
	b.Traverse(ws)
	g := b.Graph()

	out := report.Dependencies{Units: g.Units()}
	waves, err := g.BuildWaves()
	var cycleErr *dag.CycleError
	switch {
	case errors.As(err, &cycleErr):
		out.Cycle = cycleErr.Cycle
	case err != nil:
		return err
	default:
		out.Waves = waves
		for _, wave := range waves {
			out.BuildOrder = append(out.BuildOrder, wave...)
		}
	}

	if err := r.Dependencies(app.stdout, out); err != nil {
		return err
	}
	if cycleErr != nil {
		return &ExitError{Code: ExitDependencyCycle, Err: newServiceError(cycleErr, issue.DependencyCycleId)}
	}
	return nil
}
