// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/codeatlas/atlasscan/internal/counter"
	"github.com/codeatlas/atlasscan/internal/report"

	"github.com/spf13/cobra"
)

func newCountCommand(app *App) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "count <manifest>",
		Short: "Count units and items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(runCount(app, args[0], format))
		},
	}
	cmd.Flags().StringVar(&format, "format", string(report.FormatText), "output format: text, markdown or json")
	return cmd
}

func runCount(app *App, manifestPath, formatName string) error {
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}
	ws, err := app.loadWorkspace(manifestPath, scanOptions{})
	if err != nil {
		return err
	}

	c := counter.New()
	c.Traverse(ws)
	return app.renderer(format).Counts(app.stdout, report.Counts{Units: c.TotalUnits(), Items: c.TotalItems()})
}
