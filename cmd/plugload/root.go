// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/plugload/plugload/internal/config"
	"github.com/plugload/plugload/internal/issue"
	"github.com/plugload/plugload/pkg/autoload"
	"github.com/plugload/plugload/pkg/manifest"
	"github.com/plugload/plugload/pkg/nsmap"
	"github.com/plugload/plugload/pkg/nstree"
	"github.com/plugload/plugload/pkg/resolve"
	"github.com/plugload/plugload/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

type (
	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// App wires CLI services and shared dependencies. Every command handler
	// receives the App and writes through its stdout/stderr.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer
		flags  rootFlags
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
	}

	rootFlags struct {
		verbose  bool
		config   string
		manifest string
		style    string
	}

	// session is the per-invocation state derived from flags and config.
	session struct {
		cfg      *config.Config
		manifest string
		logger   *slog.Logger
	}
)

// NewApp builds an App, filling unset dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{Config: deps.Config, stdout: deps.Stdout, stderr: deps.Stderr}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// NewRootCommand creates the plugload command tree.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "plugload",
		Short: "Inspect namespace-to-directory autoload maps",
		Long: TitleStyle.Render("plugload") + SubtitleStyle.Render(" - namespace-to-directory resolution") + `

plugload reads an autoload manifest (JSON, XML, YAML, TOML or CUE), builds the
namespace map it declares and resolves qualified names like Vendor\Lib\Widget
to source files, longest prefix first.

` + SubtitleStyle.Render("Examples:") + `
  plugload map                          List every prefix and its directories
  plugload resolve 'Vendor\Lib\Widget'  Show the file a name resolves to
  plugload explain 'Vendor\Lib\Widget'  Show every candidate that is probed
  plugload generate App ./src           Preview a generated namespace tree
  plugload check                        Validate the manifest
  plugload watch                        Rebuild the map on changes`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&app.flags.config, "config", "", "config file (default is $XDG_CONFIG_HOME/plugload/config.cue)")
	pf.StringVarP(&app.flags.manifest, "manifest", "m", "", "manifest file (overrides the config)")
	pf.StringVar(&app.flags.style, "style", "auto", "markdown style for rendered help (auto, dark, light, notty)")

	rootCmd.AddCommand(
		newMapCommand(app),
		newResolveCommand(app),
		newExplainCommand(app),
		newGenerateCommand(app),
		newCheckCommand(app),
		newWatchCommand(app),
		newConfigCommand(app),
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

// Execute runs the CLI. It is called by main.main().
func Execute() {
	if code := run(); code != 0 {
		os.Exit(code)
	}
}

// run executes the command tree against the process arguments and returns
// the exit code.
func run() int {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		return 1
	}
	return 0
}

// handleError prints err unless a ServiceError in its chain was already
// rendered with its help page.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// session loads the configuration and builds the logger for one command.
func (app *App) session(ctx context.Context) (*session, error) {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: types.FilesystemPath(app.flags.config)})
	if err != nil {
		return nil, app.fail(newServiceError(err, issue.ConfigLoadFailedId))
	}

	path := app.flags.manifest
	if path == "" {
		path = string(cfg.Manifest)
	}

	return &session{
		cfg:      cfg,
		manifest: path,
		logger:   newLogger(app.stderr, cfg.LogLevel, app.flags.verbose),
	}, nil
}

// fail renders svcErr with its help page and wraps it in an ExitError.
func (app *App) fail(svcErr *ServiceError) error {
	renderServiceError(app.stderr, svcErr, app.flags.verbose, app.flags.style)
	return &ExitError{Code: 1, Err: svcErr}
}

// newLogger builds a charm logger and exposes it as a slog handler.
func newLogger(w io.Writer, level config.LogLevel, verbose bool) *slog.Logger {
	lvl, err := log.ParseLevel(string(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	if verbose {
		lvl = log.DebugLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		Prefix: "plugload",
		Level:  lvl,
	})
	return slog.New(handler)
}

func (s *session) generatorOptions() []nstree.Option {
	return []nstree.Option{
		nstree.WithSkipHidden(s.cfg.Generator.SkipHidden),
		nstree.WithIgnore(s.cfg.Generator.Ignore...),
		nstree.WithLogger(s.logger),
	}
}

func (s *session) autoloadOptions() autoload.Options {
	return autoload.Options{
		DocumentRoot: s.cfg.DocumentRoot,
		Generator:    s.generatorOptions(),
		Resolver: []resolve.Option{
			resolve.WithExtension(s.cfg.Extension),
			resolve.WithCacheSize(s.cfg.CacheSize),
		},
		Logger: s.logger,
	}
}

// build loads the manifest and creates its registry and resolver.
func (s *session) build() (*resolve.Resolver, *manifest.Declarations, []nstree.Diagnostic, error) {
	decls, err := manifest.Load(s.manifest, manifest.LoadOptions{DocumentRoot: s.cfg.DocumentRoot})
	if err != nil {
		return nil, nil, nil, err
	}
	opts := s.autoloadOptions()
	reg, diags, err := autoload.Build(decls, opts)
	if err != nil {
		return nil, nil, nil, err
	}
	return resolve.New(reg, append(opts.Resolver, resolve.WithLogger(s.logger))...), decls, diags, nil
}

// buildOrFail is build with CLI error rendering.
func (app *App) buildOrFail(s *session) (*resolve.Resolver, *manifest.Declarations, []nstree.Diagnostic, error) {
	r, decls, diags, err := s.build()
	if err != nil {
		return nil, nil, nil, app.fail(newServiceError(err, classifyManifestError(err)))
	}
	return r, decls, diags, nil
}

// printRegistry writes every prefix with its directories in probe order.
func printRegistry(w io.Writer, reg *nsmap.Registry) {
	for _, e := range reg.Entries() {
		fmt.Fprintln(w, PrefixStyle.Render(string(e.Prefix)))
		for i, dir := range e.Directories {
			fmt.Fprintln(w, indentStyle.Render(fmt.Sprintf("%d. %s", i+1, PathStyle.Render(string(dir)))))
		}
	}
}

// printDiagnostics writes tree generation diagnostics as warnings.
func printDiagnostics(w io.Writer, diags []nstree.Diagnostic) {
	for _, d := range diags {
		style := WarningStyle
		if d.Severity == nstree.SeverityError {
			style = ErrorStyle
		}
		fmt.Fprintf(w, "%s %s %s\n", style.Render("!"), style.Render(d.Code), d.Message)
	}
}
