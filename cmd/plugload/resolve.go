// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/plugload/plugload/internal/issue"
	"github.com/plugload/plugload/pkg/resolve"
	"github.com/plugload/plugload/pkg/types"
)

func newResolveCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   `resolve <name>...`,
		Short: "Resolve qualified names to source files",
		Long: `Resolve each qualified name against the namespace map and print the file it
maps to. Names are tried against the longest matching prefix first and the
first existing file wins. Exits with status 1 if any name is unresolved.

Quote names in the shell, since they contain backslashes:
  plugload resolve 'Vendor\Lib\Widget'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.session(cmd.Context())
			if err != nil {
				return err
			}
			r, _, _, err := app.buildOrFail(s)
			if err != nil {
				return err
			}

			var unresolved []string
			for _, arg := range args {
				res, ok := r.Resolve(types.QualifiedName(arg))
				if !ok {
					unresolved = append(unresolved, arg)
					fmt.Fprintf(app.stdout, "%s %s\n", ErrorStyle.Render("✗"), arg)
					continue
				}
				fmt.Fprintf(app.stdout, "%s %s %s %s\n",
					SuccessStyle.Render("✓"), res.Name, SubtitleStyle.Render("→"), PathStyle.Render(string(res.File)))
				s.logger.Debug("resolved", "name", res.Name, "prefix", res.Prefix, "directory", res.Directory)
			}

			if len(unresolved) > 0 {
				err := fmt.Errorf("unresolved: %s", strings.Join(unresolved, ", "))
				return app.fail(newServiceError(err, issue.NameNotResolvedId))
			}
			return nil
		},
	}
}

func newExplainCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "explain <name>",
		Short: "Show every candidate file probed for a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.session(cmd.Context())
			if err != nil {
				return err
			}
			r, _, _, err := app.buildOrFail(s)
			if err != nil {
				return err
			}

			name := types.QualifiedName(args[0])
			md := explainMarkdown(name, r.Attempts(name))

			renderer, err := glamour.NewTermRenderer(glamour.WithStandardStyle(app.glamourStyle()))
			if err != nil {
				fmt.Fprint(app.stdout, md)
				return nil //nolint:nilerr // plain markdown is a usable fallback
			}
			out, err := renderer.Render(md)
			if err != nil {
				fmt.Fprint(app.stdout, md)
				return nil //nolint:nilerr // plain markdown is a usable fallback
			}
			fmt.Fprint(app.stdout, out)
			return nil
		},
	}
}

// glamourStyle maps the --style flag to a glamour standard style. "auto"
// falls back to dark since standard styles do not detect the terminal.
func (app *App) glamourStyle() string {
	switch app.flags.style {
	case "", "auto":
		return "dark"
	default:
		return app.flags.style
	}
}

// explainMarkdown lists attempts in probe order and marks the winner.
func explainMarkdown(name types.QualifiedName, attempts []resolve.Attempt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# `%s`\n\n", name.Trimmed())

	if len(attempts) == 0 {
		b.WriteString("No registered prefix matches this name.\n")
		return b.String()
	}

	b.WriteString("| # | Prefix | Candidate | Exists |\n")
	b.WriteString("|---|--------|-----------|--------|\n")
	winner := -1
	for i, a := range attempts {
		exists := "no"
		if a.Exists {
			exists = "yes"
			if winner < 0 {
				winner = i
			}
		}
		fmt.Fprintf(&b, "| %d | `%s` | `%s` | %s |\n", i+1, a.Prefix, a.File, exists)
	}
	b.WriteString("\n")

	if winner < 0 {
		b.WriteString("**Unresolved:** none of the candidates exist.\n")
	} else {
		fmt.Fprintf(&b, "**Resolves to** `%s` (candidate %d).\n", attempts[winner].File, winner+1)
	}
	return b.String()
}
