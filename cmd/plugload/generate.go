// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plugload/plugload/internal/issue"
	"github.com/plugload/plugload/pkg/fspath"
	"github.com/plugload/plugload/pkg/nsmap"
	"github.com/plugload/plugload/pkg/nstree"
	"github.com/plugload/plugload/pkg/types"
)

func newGenerateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <namespace> <directory>",
		Short: "Preview the prefixes generated for a directory tree",
		Long: `Mirror a directory tree as namespace prefixes without a manifest. Each
subdirectory becomes a child namespace with its first letter upper-cased,
e.g. src/models under App becomes App\Models.

The generator honors the skip_hidden and ignore settings of the config.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.session(cmd.Context())
			if err != nil {
				return err
			}

			root, err := fspath.Abs(types.FilesystemPath(args[1]))
			if err != nil {
				return app.fail(newServiceError(err, issue.TreeRootUnreadableId))
			}

			reg := nsmap.New()
			res, err := nstree.New(reg, s.generatorOptions()...).Generate(args[0], root)
			if err != nil {
				return app.fail(newServiceError(err, issue.InvalidNamespaceId))
			}

			fmt.Fprintln(app.stdout, TitleStyle.Render("Generated prefixes")+SubtitleStyle.Render(fmt.Sprintf(" (%d)", len(res.Mappings))))
			printRegistry(app.stdout, reg)
			printDiagnostics(app.stderr, res.Diagnostics)
			return nil
		},
	}
}
