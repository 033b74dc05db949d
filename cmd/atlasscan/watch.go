// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/codeatlas/atlasscan/internal/collect"
	"github.com/codeatlas/atlasscan/internal/report"
	"github.com/codeatlas/atlasscan/internal/watch"

	"github.com/spf13/cobra"
)

func newWatchCommand(app *App) *cobra.Command {
	flags := &scanFlagValues{}

	cmd := &cobra.Command{
		Use:   "watch <manifest>",
		Short: "Re-run collect whenever the workspace changes",
		Long: `Run collect once, then again after every batch of changes to the manifest
or to source files under the manifest directory and the collected
directories. Changes are debounced (watch.debounce in the config file).
Press Ctrl+C to stop.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(runWatch(cmd, app, flags, args[0]))
		},
	}
	addScanFlags(cmd, flags)
	return cmd
}

func runWatch(cmd *cobra.Command, app *App, flags *scanFlagValues, manifestPath string) error {
	opts, err := resolveScanOptions(cmd, app, flags)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(flags.format)
	if err != nil {
		return err
	}
	r := app.renderer(format)

	absManifest, err := filepath.Abs(manifestPath)
	if err != nil {
		return fmt.Errorf("resolving manifest path: %w", err)
	}

	// Each pass reloads the manifest and traverses with a fresh collector.
	rescan := func(w io.Writer) (collect.Result, error) {
		ws, err := app.loadWorkspace(absManifest, opts)
		if err != nil {
			return collect.Result{}, err
		}
		res := app.scan(ws, opts)
		return res, r.Collection(w, res)
	}

	res, err := rescan(app.stdout)
	if err != nil {
		return err
	}

	w, err := watch.New(watch.Config{
		Roots:    watchRoots(absManifest, res),
		Patterns: watch.ExtensionPatterns(watchedExtensions(opts), filepath.Base(absManifest)),
		FoldCase: true,
		Ignore:   app.cfg.Watch.Ignore,
		Debounce: app.cfg.Watch.Debounce,
		Logger:   app.logger.With("component", "watch"),
		OnChange: func(_ context.Context, changed []string) error {
			app.logger.Info("change detected, rescanning", "paths", len(changed))
			_, err := rescan(app.stdout)
			return app.fail(err)
		},
	})
	if err != nil {
		return err
	}
	app.logger.Info("watching for changes", "roots", w.Roots())
	return w.Run(cmd.Context())
}

// watchRoots returns the manifest directory and every existing directory
// holding a collected file. Roots nested in another are dropped by the watcher.
func watchRoots(manifestPath string, res collect.Result) []string {
	roots := []string{filepath.Dir(manifestPath)}
	for _, d := range res.Directories {
		dir := filepath.FromSlash(d)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			roots = append(roots, dir)
		}
	}
	slices.Sort(roots)
	return slices.Compact(roots)
}

func watchedExtensions(opts scanOptions) []string {
	return slices.Concat(collect.DefaultExtensions(), opts.extensions)
}
