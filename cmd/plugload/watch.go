// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/plugload/plugload/internal/issue"
	"github.com/plugload/plugload/internal/watch"
	"github.com/plugload/plugload/pkg/autoload"
)

func newWatchCommand(app *App) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the namespace map when the manifest or a tree changes",
		Long: `Install the manifest and rebuild its namespace map whenever the manifest or a
directory of a generated namespace tree changes. A rebuild that fails keeps
the previous map active. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd.Context(), app, debounce)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period before a rebuild (default 300ms)")
	return cmd
}

func runWatch(ctx context.Context, app *App, debounce time.Duration) error {
	s, err := app.session(ctx)
	if err != nil {
		return err
	}
	// Build once up front so a broken manifest is reported with its help page.
	if _, _, _, err = app.buildOrFail(s); err != nil {
		return err
	}

	chain := autoload.NewChain(s.logger)
	loader, ok := autoload.Install(ctx, chain, s.manifest, s.autoloadOptions())
	if !ok {
		return app.fail(newServiceError(errors.New("autoloader could not be installed"), issue.ManifestParseErrorId))
	}
	defer func() { _ = loader.Close() }()

	fmt.Fprintln(app.stdout, TitleStyle.Render("Watching")+SubtitleStyle.Render(" "+s.manifest))
	printRegistry(app.stdout, loader.Registry())
	printDiagnostics(app.stderr, loader.Diagnostics())

	for {
		roots := watchRoots(loader)
		restart, err := watchOnce(ctx, app, s, loader, roots, debounce)
		if err != nil {
			return err
		}
		if !restart {
			return nil
		}
		s.logger.Info("watch roots changed, restarting watcher")
	}
}

// watchOnce runs one watcher over roots. It returns true when a reload
// changed the set of roots to watch.
func watchOnce(ctx context.Context, app *App, s *session, loader *autoload.Autoloader, roots []string, debounce time.Duration) (bool, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var restart atomic.Bool

	w, err := watch.New(watch.Config{
		Roots:    roots,
		Debounce: debounce,
		Logger:   s.logger,
		OnChange: func(ctx context.Context, changed []string) error {
			if err := loader.Reload(ctx); err != nil {
				fmt.Fprintln(app.stderr, ErrorStyle.Render("Reload failed: ")+formatErrorForDisplay(err, app.flags.verbose))
				return nil
			}
			fmt.Fprintln(app.stdout, SuccessStyle.Render("✓")+SubtitleStyle.Render(fmt.Sprintf(" reloaded after %d change(s), %d prefixes", len(changed), loader.Registry().Len())))
			printDiagnostics(app.stderr, loader.Diagnostics())
			if !slices.Equal(roots, watchRoots(loader)) {
				restart.Store(true)
				cancel()
			}
			return nil
		},
	})
	if err != nil {
		return false, app.fail(newServiceError(err, issue.WatchFailedId))
	}

	if err := w.Run(runCtx); err != nil {
		return false, app.fail(newServiceError(err, issue.WatchFailedId))
	}
	return restart.Load() && ctx.Err() == nil, nil
}

// watchRoots returns the manifest directory and the directory of every
// namespace tree, sorted and without duplicates.
func watchRoots(loader *autoload.Autoloader) []string {
	roots := []string{filepath.Dir(loader.ManifestPath())}
	for _, t := range loader.Declarations().Trees {
		roots = append(roots, string(t.RootDirectory))
	}
	for i, r := range roots {
		if abs, err := filepath.Abs(r); err == nil {
			roots[i] = abs
		}
	}
	slices.Sort(roots)
	return slices.Compact(roots)
}
