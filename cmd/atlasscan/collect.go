// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"slices"

	"github.com/codeatlas/atlasscan/internal/collect"
	"github.com/codeatlas/atlasscan/internal/report"

	"github.com/spf13/cobra"
)

// scanFlagValues holds the collector flags shared by collect and watch.
type scanFlagValues struct {
	scope      string
	extensions []string
	macros     []string
	selected   bool
	selection  []string
	format     string
}

func newCollectCommand(app *App) *cobra.Command {
	flags := &scanFlagValues{}

	cmd := &cobra.Command{
		Use:   "collect <manifest>",
		Short: "Collect files, include paths, defines and languages",
		Long: `Traverse the workspace once and report what was collected.

Files come from the unit items (--scope project-folders, the default), from
the documents open in the host (--scope open-folders) or are skipped
(--scope none). Include paths are resolved against each unit directory and
only existing directories are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(runCollect(cmd, app, flags, args[0]))
		},
	}
	addScanFlags(cmd, flags)
	return cmd
}

func addScanFlags(cmd *cobra.Command, flags *scanFlagValues) {
	cmd.Flags().StringVar(&flags.scope, "scope", "", "file source: project-folders, open-folders or none (default from config)")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "additional source file extensions, e.g. --ext .ixx,.tpp")
	cmd.Flags().StringSliceVar(&flags.macros, "macro", nil, "custom macro definitions merged into the defines, e.g. --macro DEBUG=1")
	cmd.Flags().BoolVar(&flags.selected, "selected", false, "only traverse the selected units and the units containing them")
	cmd.Flags().StringSliceVar(&flags.selection, "select", nil, "unit ids, paths or names replacing the manifest selection (implies --selected)")
	cmd.Flags().StringVar(&flags.format, "format", string(report.FormatText), "output format: text, markdown or json")
}

func runCollect(cmd *cobra.Command, app *App, flags *scanFlagValues, manifestPath string) error {
	opts, err := resolveScanOptions(cmd, app, flags)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(flags.format)
	if err != nil {
		return err
	}

	ws, err := app.loadWorkspace(manifestPath, opts)
	if err != nil {
		return err
	}
	res := app.scan(ws, opts)
	app.logger.Debug("collection finished",
		"files", len(res.Files),
		"include_paths", len(res.IncludePaths),
		"units", len(res.Units),
	)
	return app.renderer(format).Collection(app.stdout, res)
}

// resolveScanOptions applies explicitly set flags over the configuration.
func resolveScanOptions(cmd *cobra.Command, app *App, flags *scanFlagValues) (scanOptions, error) {
	cfg := app.cfg
	opts := scanOptions{
		extensions:   slices.Clone(cfg.Extensions),
		macros:       slices.Clone(cfg.Macros),
		onlySelected: cfg.OnlySelected,
	}

	if cmd.Flags().Changed("scope") {
		scope, err := collect.ParseIncludeScope(flags.scope)
		if err != nil {
			return scanOptions{}, fmt.Errorf("--scope: %w", err)
		}
		opts.scope = scope
	} else {
		scope, err := cfg.Scope()
		if err != nil {
			return scanOptions{}, fmt.Errorf("include_scope: %w", err)
		}
		opts.scope = scope
	}

	opts.extensions = append(opts.extensions, flags.extensions...)
	opts.macros = append(opts.macros, flags.macros...)
	if cmd.Flags().Changed("selected") {
		opts.onlySelected = flags.selected
	}
	if cmd.Flags().Changed("select") {
		opts.selection = flags.selection
		opts.hasSelection = true
		opts.onlySelected = true
	}
	return opts, nil
}
