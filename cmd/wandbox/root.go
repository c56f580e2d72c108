// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/Headline/wandbox/internal/issue"
	"github.com/Headline/wandbox/internal/logging"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "wandbox",
		Short: "Compile and run code on Wandbox from the terminal",
		Long: TitleStyle.Render("wandbox") + SubtitleStyle.Render(" - Compile and run code on Wandbox") + `

wandbox sends source code to the Wandbox online compiler service and prints
what the compiler and the program produced. A target is either a language
name, which picks that language's default compiler, or a compiler identifier.

` + SubtitleStyle.Render("Examples:") + `
  wandbox languages                     List languages and their default compiler
  wandbox compilers c++                 List the compilers of a language
  wandbox resolve python                Show which compiler a target maps to
  wandbox compile c++ main.cpp          Compile and run a file
  echo 'print(1)' | wandbox compile python -
  wandbox config show                   Show current configuration`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default is $HOME/.config/wandbox/config.cue)")
	rootCmd.PersistentFlags().StringVar(&flags.baseURL, "base-url", "", "Wandbox API root (overrides base_url)")
	rootCmd.PersistentFlags().StringSliceVar(&flags.excludeCompilers, "exclude-compiler", nil, "compiler to hide from the catalog (repeatable)")
	rootCmd.PersistentFlags().StringSliceVar(&flags.excludeLanguages, "exclude-language", nil, "language to hide from the catalog, case-insensitive (repeatable)")

	rootCmd.AddCommand(newLanguagesCommand(app, flags))
	rootCmd.AddCommand(newCompilersCommand(app, flags))
	rootCmd.AddCommand(newResolveCommand(app, flags))
	rootCmd.AddCommand(newCompileCommand(app, flags))
	rootCmd.AddCommand(newConfigCommand(app, flags))

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
	slog.SetDefault(logging.New(os.Stderr, false))

	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
