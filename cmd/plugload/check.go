// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the manifest",
		Long: `Decode the manifest and build its namespace map without resolving anything.
Reports the problem and a help page when the manifest cannot be used.
Tree generation warnings are printed but do not fail the check.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.session(cmd.Context())
			if err != nil {
				return err
			}
			r, decls, diags, err := app.buildOrFail(s)
			if err != nil {
				return err
			}

			printDiagnostics(app.stderr, diags)
			fmt.Fprintf(app.stdout, "%s %s: %d namespaces, %d trees, %d prefixes\n",
				SuccessStyle.Render("✓"), s.manifest, len(decls.Namespaces), len(decls.Trees), r.Registry().Len())
			return nil
		},
	}
}
