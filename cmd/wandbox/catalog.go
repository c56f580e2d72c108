// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/Headline/wandbox/pkg/catalog"
	"github.com/Headline/wandbox/pkg/compile"
	"github.com/Headline/wandbox/pkg/wandbox"

	"github.com/spf13/cobra"
)

// runWithService loads the session, connects and hands both to fn. Any error
// is rendered through the issue catalog.
func runWithService(cmd *cobra.Command, app *App, flags *rootFlags, fn func(ctx context.Context, s *session, wb *wandbox.Wandbox) error) error {
	ctx := cmd.Context()

	s, err := app.loadSession(ctx, flags)
	if err != nil {
		return failCommand(cmd, app, nil, err)
	}

	wb, err := app.connect(ctx, s)
	if err != nil {
		return failCommand(cmd, app, s, err)
	}

	if err := fn(ctx, s, wb); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			cmd.SilenceErrors = true
			return err
		}
		return failCommand(cmd, app, s, err)
	}
	return nil
}

func newLanguagesCommand(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List languages and their default compiler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithService(cmd, app, flags, func(_ context.Context, _ *session, wb *wandbox.Wandbox) error {
				printLanguages(app.stdout, wb.Languages())
				return nil
			})
		},
	}
}

func printLanguages(w io.Writer, langs []catalog.Language) {
	slices.SortFunc(langs, func(a, b catalog.Language) int { return strings.Compare(a.Name, b.Name) })

	width := 0
	for _, l := range langs {
		width = max(width, len(l.Name))
	}

	for _, l := range langs {
		name := TitleStyle.Render(fmt.Sprintf("%-*s", width, l.Name))
		if len(l.Compilers) == 0 {
			fmt.Fprintf(w, "%s  %s\n", name, WarningStyle.Render("(no compilers)"))
			continue
		}
		fmt.Fprintf(w, "%s  %s %s\n", name,
			CmdStyle.Render(l.Compilers[0].Name),
			SubtitleStyle.Render(fmt.Sprintf("(%d compilers)", len(l.Compilers))))
	}
}

func newCompilersCommand(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "compilers <language>",
		Short: "List the compilers of a language, default first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang := catalog.NormalizeLanguage(strings.TrimSpace(args[0]))
			return runWithService(cmd, app, flags, func(_ context.Context, _ *session, wb *wandbox.Wandbox) error {
				compilers, ok := wb.Compilers(lang)
				if !ok {
					return fmt.Errorf("%w: %q", catalog.ErrUnknownLanguage, lang)
				}
				if len(compilers) == 0 {
					return &catalog.EmptyLanguageError{Language: lang}
				}
				for i, c := range compilers {
					marker := " "
					if i == 0 {
						marker = SuccessStyle.Render("*")
					}
					fmt.Fprintf(app.stdout, "%s %s %s\n", marker, CmdStyle.Render(c.Name), VerboseStyle.Render(c.Version))
				}
				return nil
			})
		},
	}
}

func newResolveCommand(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <target>",
		Short: "Show the language and compiler a target maps to",
		Long: `Show the language and compiler a target maps to.

A target naming a language resolves to that language's default compiler,
even when a compiler with the same identifier exists. Otherwise the target
is looked up as a compiler identifier.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithService(cmd, app, flags, func(_ context.Context, _ *session, wb *wandbox.Wandbox) error {
				req, err := wb.Resolve(compile.NewBuilder().Target(args[0]))
				if err != nil {
					return err
				}
				fmt.Fprintf(app.stdout, "%s %s\n%s %s\n%s %s\n",
					LabelStyle.Render("language:"), req.Language(),
					LabelStyle.Render("compiler:"), CmdStyle.Render(req.Compiler()),
					LabelStyle.Render("via:"), req.Resolution().Kind)
				return nil
			})
		},
	}
}
