// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/codeatlas/atlasscan/internal/config"
	"github.com/codeatlas/atlasscan/internal/issue"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `atlasscan config` command tree.
func newConfigCommand(app *App, flags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage atlasscan configuration",
		Long: `Manage atlasscan configuration.

Configuration is stored in:
  - Linux: ~/.config/atlasscan/config.cue
  - macOS: ~/Library/Application Support/atlasscan/config.cue
  - Windows: %APPDATA%\atlasscan\config.cue

Any value can be overridden with an ATLASSCAN_* environment variable,
e.g. ATLASSCAN_INCLUDE_SCOPE=none or ATLASSCAN_UI_VERBOSE=true.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfig(cmd.Context(), app, flags)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: flags.configPath})
			if err != nil {
				return app.fail(newServiceError(err, issue.ConfigLoadFailedId))
			}
			_, err = io.WriteString(app.stdout, config.GenerateCUE(cfg))
			return err
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(_ *cobra.Command, _ []string) error {
			return showConfigPath(app, flags)
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(_ *cobra.Command, _ []string) error {
			return initConfig(app, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	cfgCmd.AddCommand(initCmd)

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, flags *rootFlagValues) error {
	opts := config.LoadOptions{ConfigFilePath: flags.configPath}
	cfg, err := app.Config.Load(ctx, opts)
	if err != nil {
		return app.fail(newServiceError(err, issue.ConfigLoadFailedId))
	}

	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("Current Configuration"))
	sb.WriteString("\n\n")

	path, pathErr := config.Locate(opts)
	if pathErr != nil || path == "" {
		fmt.Fprintf(&sb, "%s: %s\n\n", KeyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(&sb, "%s: %s\n\n", KeyStyle.Render("Config file"), path)
	}

	row := func(indent, key string, value any) {
		fmt.Fprintf(&sb, "%s%s: %s\n", indent, KeyStyle.Render(key), SuccessStyle.Render(fmt.Sprint(value)))
	}
	row("", "include_scope", cfg.IncludeScope)
	row("", "only_selected", cfg.OnlySelected)
	row("", "extensions", listOrNone(cfg.Extensions))
	row("", "macros", listOrNone(cfg.Macros))
	row("", "log_level", cfg.LogLevel)
	row("", "dir_cache_size", cfg.DirCacheSize)
	fmt.Fprintf(&sb, "\n%s:\n", KeyStyle.Render("ui"))
	row("  ", "color_scheme", cfg.UI.ColorScheme)
	row("  ", "verbose", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\n%s:\n", KeyStyle.Render("watch"))
	row("  ", "debounce", cfg.Watch.Debounce)
	row("  ", "ignore", listOrNone(cfg.Watch.Ignore))

	_, err = io.WriteString(app.stdout, sb.String())
	return err
}

func showConfigPath(app *App, flags *rootFlagValues) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	active, err := config.Locate(config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return err
	}
	if active == "" {
		active = "(none, using defaults)"
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(app.stdout, "Config file: %s\n", config.DefaultConfigPath(cfgDir))
	fmt.Fprintf(app.stdout, "Active file: %s\n", active)
	return nil
}

func initConfig(app *App, force bool) error {
	path, err := config.CreateDefaultConfig("", force)
	if errors.Is(err, config.ErrConfigExists) {
		fmt.Fprintf(app.stdout, "%s Configuration already exists at %s (use --force to overwrite)\n", WarningStyle.Render("!"), path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
