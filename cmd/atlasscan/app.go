// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/codeatlas/atlasscan/internal/collect"
	"github.com/codeatlas/atlasscan/internal/config"
	"github.com/codeatlas/atlasscan/internal/issue"
	"github.com/codeatlas/atlasscan/internal/logging"
	"github.com/codeatlas/atlasscan/internal/manifest"
	"github.com/codeatlas/atlasscan/internal/report"

	"github.com/charmbracelet/x/term"
)

type (
	// App wires CLI services and shared dependencies. Cobra handlers receive
	// an App and delegate through its interfaces.
	App struct {
		Config    ConfigProvider
		Manifests ManifestLoader
		stdout    io.Writer
		stderr    io.Writer

		// Set by the root command before any subcommand runs.
		cfg    *config.Config
		logger *slog.Logger
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config    ConfigProvider
		Manifests ManifestLoader
		Stdout    io.Writer
		Stderr    io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// ManifestLoader loads a workspace manifest.
	ManifestLoader interface {
		Load(path string, opts ...manifest.Option) (*manifest.Workspace, error)
	}

	manifestFileLoader struct{}

	// scanOptions are the collector settings of one command invocation after
	// flags were applied over the configuration.
	scanOptions struct {
		scope        collect.IncludeScope
		extensions   []string
		macros       []string
		onlySelected bool
		selection    []string
		hasSelection bool
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Manifests == nil {
		deps.Manifests = manifestFileLoader{}
	}
	return &App{
		Config:    deps.Config,
		Manifests: deps.Manifests,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
		cfg:       config.DefaultConfig(),
		logger:    logging.Discard(),
	}
}

func (manifestFileLoader) Load(path string, opts ...manifest.Option) (*manifest.Workspace, error) {
	return manifest.Load(path, opts...)
}

// configure loads configuration and builds the logger. A failed load keeps
// the defaults and is reported as a warning, so scans still run.
func (a *App) configure(ctx context.Context, flags *rootFlagValues) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		renderServiceError(a.stderr, newServiceError(err, issue.ConfigLoadFailedId), a.issueStyle())
		a.warn(formatErrorForDisplay(err, flags.verbose))
		cfg = config.DefaultConfig()
	}
	a.cfg = cfg
	if !flags.verbose {
		flags.verbose = cfg.UI.Verbose
	}

	level := cfg.LogLevel.SlogLevel()
	if flags.verbose {
		level = slog.LevelDebug
	}
	a.logger = logging.New(a.stderr, logging.Options{Level: level, Prefix: "atlasscan"})
}

func (a *App) warn(msg string) {
	io.WriteString(a.stderr, WarningStyle.Render("Warning: ")+msg+"\n") //nolint:errcheck // best-effort diagnostics
}

// loadWorkspace loads the manifest at path with the selection override in opts.
func (a *App) loadWorkspace(path string, opts scanOptions) (*manifest.Workspace, error) {
	loadOpts := []manifest.Option{manifest.WithLogger(a.logger)}
	if opts.hasSelection {
		loadOpts = append(loadOpts, manifest.WithSelection(opts.selection...))
	}
	ws, err := a.Manifests.Load(path, loadOpts...)
	if err != nil {
		return nil, classifyError(err)
	}
	a.logger.Debug("workspace manifest loaded", "manifest", ws.ManifestPath(), "units", len(ws.Units()))
	return ws, nil
}

// newCollector builds a collector for opts.
func (a *App) newCollector(opts scanOptions) *collect.Collector {
	return collect.New(
		collect.WithLogger(a.logger),
		collect.WithIncludeScope(opts.scope),
		collect.WithExtensions(opts.extensions...),
		collect.WithMacros(opts.macros...),
		collect.WithDirCacheSize(a.cfg.DirCacheSize),
	)
}

// scan runs one collection traversal over ws.
func (a *App) scan(ws *manifest.Workspace, opts scanOptions) collect.Result {
	c := a.newCollector(opts)
	if opts.onlySelected {
		c.RestrictToSelectedUnits(ws)
	}
	c.Traverse(ws)
	return c.Result()
}

// renderer returns a report renderer writing in format. Markdown is rendered
// with glamour only when stdout is a terminal.
func (a *App) renderer(format report.Format) *report.Renderer {
	opts := report.Options{Format: format}
	if format == report.FormatMarkdown && a.stdoutIsTerminal() {
		opts.GlamourTheme = glamourTheme(a.cfg.UI.ColorScheme)
	}
	return report.New(opts)
}

func (a *App) stdoutIsTerminal() bool {
	f, ok := a.stdout.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

// issueStyle is the glamour style used for catalog entries on stderr.
func (a *App) issueStyle() string {
	if f, ok := a.stderr.(*os.File); !ok || !term.IsTerminal(f.Fd()) {
		return "notty"
	}
	if a.cfg != nil && a.cfg.UI.ColorScheme == config.ColorSchemeLight {
		return "light"
	}
	return "dark"
}

func glamourTheme(scheme config.ColorScheme) string {
	switch scheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}
