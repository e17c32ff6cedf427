// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMapCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "map",
		Short: "List the namespace prefixes of the manifest",
		Long: `List every namespace prefix built from the manifest together with its base
directories, in the order they are probed. Generated namespace trees are
expanded; directories that could not be walked are reported as warnings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.session(cmd.Context())
			if err != nil {
				return err
			}
			r, _, diags, err := app.buildOrFail(s)
			if err != nil {
				return err
			}

			reg := r.Registry()
			fmt.Fprintln(app.stdout, TitleStyle.Render("Namespace map")+SubtitleStyle.Render(fmt.Sprintf(" (%s, %d prefixes)", s.manifest, reg.Len())))
			printRegistry(app.stdout, reg)
			printDiagnostics(app.stderr, diags)
			return nil
		},
	}
}
