// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Headline/wandbox/internal/issue"
	"github.com/Headline/wandbox/pkg/compile"
	"github.com/Headline/wandbox/pkg/wandbox"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

// Output formats accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
	outputTOML = "toml"
)

type compileFlags struct {
	options []string
	stdin   string
	save    bool
	output  string
}

func newCompileCommand(app *App, flags *rootFlags) *cobra.Command {
	cf := &compileFlags{}

	cmd := &cobra.Command{
		Use:   "compile <target> [file|-]",
		Short: "Compile and run a program",
		Long: `Compile and run a program on Wandbox.

The source is read from the file argument, or from standard input when the
argument is "-" or omitted. The command exits with the program's status.`,
		Example: `  # Run a file with the default C++ compiler
  wandbox compile c++ main.cpp

  # Pick a compiler and pass options
  wandbox compile gcc-head main.cpp -o -Wall -o -O2

  # Feed program input and print the raw result
  wandbox compile python script.py --stdin "42" --output json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch cf.output {
			case outputText, outputJSON, outputTOML:
			default:
				return fmt.Errorf("invalid --output %q (valid: text, json, toml)", cf.output)
			}

			path := "-"
			if len(args) == 2 {
				path = args[1]
			}

			return runWithService(cmd, app, flags, func(ctx context.Context, s *session, wb *wandbox.Wandbox) error {
				code, err := readSource(app.stdin, path)
				if err != nil {
					return err
				}

				b := compile.NewBuilder().
					Target(args[0]).
					Code(code).
					Stdin(cf.stdin).
					Options(append(append([]string{}, s.cfg.Compile.Options...), cf.options...)...).
					Save(cf.save || s.cfg.Compile.Save)

				req, err := wb.Resolve(b)
				if err != nil {
					return err
				}
				s.logger.Debug("compiling", "request", req.String(), "bytes", len(code))

				res, err := wb.Dispatch(ctx, req)
				if err != nil {
					return err
				}

				if err := writeResult(app.stdout, res, cf.output); err != nil {
					return err
				}
				if status := exitCode(res); status != 0 {
					exitErr := &ExitError{Code: status}
					if s.verbose && cf.output == outputText {
						renderServiceError(app.stderr, newServiceError(exitErr, issue.CompilationFailedId, ""), s.issueStyle())
					}
					return exitErr
				}
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVarP(&cf.options, "option", "o", nil, "compiler option, one per flag (appended after compile.options)")
	cmd.Flags().StringVar(&cf.stdin, "stdin", "", "text passed to the program's standard input")
	cmd.Flags().BoolVar(&cf.save, "save", false, "ask Wandbox for a permanent link")
	cmd.Flags().StringVar(&cf.output, "output", outputText, "output format: text, json or toml")

	return cmd
}

// readSource reads the program text from path, or from stdin for "-".
func readSource(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("%w %s: %w", errSourceRead, path, err)
	}
	return string(data), nil
}

// exitCode maps a result onto a process exit status: the program's status
// when numeric, 1 for a signal or an unparsable status.
func exitCode(res *compile.Result) int {
	if res.Succeeded() {
		return 0
	}
	if code, err := strconv.Atoi(res.Status); err == nil && code > 0 && code < 256 {
		return code
	}
	return 1
}

func writeResult(w io.Writer, res *compile.Result, format string) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case outputTOML:
		return toml.NewEncoder(w).Encode(res)
	}

	sections := []struct {
		label string
		value string
	}{
		{"compiler output", res.CompilerOutput},
		{"compiler error", res.CompilerError},
		{"program output", res.ProgramOutput},
		{"program error", res.ProgramError},
	}
	for _, sec := range sections {
		if sec.value == "" {
			continue
		}
		fmt.Fprintf(w, "%s\n%s", LabelStyle.Render(sec.label+":"), sec.value)
		if !strings.HasSuffix(sec.value, "\n") {
			fmt.Fprintln(w)
		}
	}

	status := SuccessStyle.Render("status " + res.Status)
	if !res.Succeeded() {
		status = ErrorStyle.Render("status " + res.Status)
	}
	if res.Signal != "" {
		status += " " + ErrorStyle.Render("signal "+res.Signal)
	}
	fmt.Fprintln(w, status)

	if res.URL != "" {
		fmt.Fprintf(w, "%s %s\n", LabelStyle.Render("url:"), CmdStyle.Render(res.URL))
	}
	return nil
}
