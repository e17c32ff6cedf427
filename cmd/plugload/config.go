// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plugload/plugload/internal/config"
)

// newConfigCommand creates the `plugload config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage plugload configuration",
		Long: `Manage plugload configuration.

Configuration is stored in:
  - Linux: ~/.config/plugload/config.cue
  - macOS: ~/Library/Application Support/plugload/config.cue
  - Windows: %APPDATA%\plugload\config.cue

Every key can be overridden with a PLUGLOAD_ environment variable, e.g.
PLUGLOAD_MANIFEST or PLUGLOAD_GENERATOR_SKIP_HIDDEN.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			path, err := config.CreateDefaultConfig()
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			path, err := app.configSource()
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	s, err := app.session(ctx)
	if err != nil {
		return err
	}

	source, err := app.configSource()
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(source); statErr != nil {
		source = "(using defaults)"
	}

	fmt.Fprintf(app.stdout, "%s\n", SubtitleStyle.Render("// source: "+source))
	fmt.Fprint(app.stdout, config.GenerateCUE(s.cfg))
	return nil
}

// configSource returns the --config path, or the default config file path.
func (app *App) configSource() (string, error) {
	if app.flags.config != "" {
		return app.flags.config, nil
	}
	return config.ConfigFilePath()
}
