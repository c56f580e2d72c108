// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Headline/wandbox/internal/config"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

// newConfigCommand creates the `wandbox config` command tree.
func newConfigCommand(app *App, flags *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage wandbox configuration",
		Long: `Manage wandbox configuration.

Configuration is stored in:
  - Linux: ~/.config/wandbox/config.cue
  - macOS: ~/Library/Application Support/wandbox/config.cue
  - Windows: %APPDATA%\wandbox\config.cue

Every key can be overridden with a WANDBOX_ environment variable, for
example WANDBOX_BASE_URL or WANDBOX_EXCLUDE_COMPILERS=gcc-head,clang-head.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.loadSession(cmd.Context(), flags)
			if err != nil {
				return failCommand(cmd, app, nil, err)
			}
			path, _ := config.Resolve(config.LoadOptions{ConfigFilePath: flags.configFile})
			showConfig(app.stdout, s.cfg, path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.CreateDefaultConfig()
			if err != nil {
				return fmt.Errorf("failed to create config: %w", err)
			}
			fmt.Fprintf(app.stdout, "%s Configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfigPath(app.stdout, flags)
		},
	})

	var format string
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return dumpConfig(cmd.Context(), app, flags, format)
		},
	}
	dumpCmd.Flags().StringVar(&format, "format", "cue", "output format: cue or toml")
	cfgCmd.AddCommand(dumpCmd)

	return cfgCmd
}

func showConfig(w io.Writer, cfg *config.Config, path string) {
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if path != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("base_url"), valueStyle.Render(cfg.BaseURL.String()))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("user_agent"), valueStyle.Render(cfg.UserAgent))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("timeout"), valueStyle.Render(cfg.Timeout.String()))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("exclude"))
	fmt.Fprintf(w, "  compilers: %s\n", listOrNone(cfg.Exclude.Compilers))
	fmt.Fprintf(w, "  languages: %s\n", listOrNone(cfg.Exclude.Languages))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("compile"))
	fmt.Fprintf(w, "  save: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Compile.Save)))
	fmt.Fprintf(w, "  options: %s\n", listOrNone(cfg.Compile.Options))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))
}

func listOrNone(values []string) string {
	if len(values) == 0 {
		return SubtitleStyle.Render("(none)")
	}
	return SuccessStyle.Render(strings.Join(values, ", "))
}

func showConfigPath(w io.Writer, flags *rootFlags) error {
	if flags.configFile != "" {
		fmt.Fprintf(w, "Config file: %s\n", flags.configFile)
		return nil
	}

	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(w, "Config file: %s\n", config.FilePath(cfgDir))
	return nil
}

func dumpConfig(ctx context.Context, app *App, flags *rootFlags, format string) error {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configFile})
	if err != nil {
		return err
	}

	switch format {
	case "cue":
		fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
		return nil
	case outputTOML:
		return toml.NewEncoder(app.stdout).Encode(cfg)
	default:
		return fmt.Errorf("invalid --format %q (valid: cue, toml)", format)
	}
}
