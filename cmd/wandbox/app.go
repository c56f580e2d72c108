// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/Headline/wandbox/internal/config"
	"github.com/Headline/wandbox/internal/logging"
	"github.com/Headline/wandbox/pkg/catalog"
	"github.com/Headline/wandbox/pkg/wandbox"

	"github.com/charmbracelet/lipgloss"
)

type (
	// App wires CLI services and shared dependencies. Every cobra handler
	// receives an App and reaches configuration and the service through it.
	App struct {
		Config  ConfigProvider
		Connect Connector
		stdin   io.Reader
		stdout  io.Writer
		stderr  io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config  ConfigProvider
		Connect Connector
		Stdin   io.Reader
		Stdout  io.Writer
		Stderr  io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// Connector fetches the compiler list and returns a ready service handle.
	Connector func(ctx context.Context, opts ...wandbox.Option) (*wandbox.Wandbox, error)

	// rootFlags holds the persistent flags shared by every command.
	rootFlags struct {
		verbose          bool
		configFile       string
		baseURL          string
		excludeCompilers []string
		excludeLanguages []string
	}

	// session is the per-invocation view of configuration merged with flags.
	session struct {
		cfg     *config.Config
		verbose bool
		logger  *slog.Logger
	}
)

// NewApp creates an App, filling unset dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:  deps.Config,
		Connect: deps.Connect,
		stdin:   deps.Stdin,
		stdout:  deps.Stdout,
		stderr:  deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.Connect == nil {
		app.Connect = wandbox.New
	}
	if app.stdin == nil {
		app.stdin = os.Stdin
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// loadSession loads configuration and applies the global flags over it.
// Flags win over the file and the environment.
func (a *App) loadSession(ctx context.Context, flags *rootFlags) (*session, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configFile})
	if err != nil {
		return nil, err
	}

	if flags.baseURL != "" {
		u := config.ServiceURL(flags.baseURL)
		if valid, errs := u.IsValid(); !valid {
			return nil, errs[0]
		}
		cfg.BaseURL = u
	}
	cfg.Exclude.Compilers = append(cfg.Exclude.Compilers, flags.excludeCompilers...)
	cfg.Exclude.Languages = append(cfg.Exclude.Languages, flags.excludeLanguages...)
	for i, lang := range cfg.Exclude.Languages {
		cfg.Exclude.Languages[i] = catalog.NormalizeLanguage(lang)
	}

	switch cfg.UI.ColorScheme {
	case config.ColorSchemeDark:
		lipgloss.SetHasDarkBackground(true)
	case config.ColorSchemeLight:
		lipgloss.SetHasDarkBackground(false)
	}

	verbose := flags.verbose || cfg.UI.Verbose
	return &session{
		cfg:     cfg,
		verbose: verbose,
		logger:  logging.New(a.stderr, verbose),
	}, nil
}

// connect builds the HTTP client from the session and fetches the catalog.
func (a *App) connect(ctx context.Context, s *session) (*wandbox.Wandbox, error) {
	client := wandbox.NewClient(
		wandbox.WithBaseURL(s.cfg.BaseURL.String()),
		wandbox.WithUserAgent(s.cfg.UserAgent),
		wandbox.WithTimeout(s.cfg.Timeout.Duration()),
	)
	s.logger.Debug("connecting", "base_url", s.cfg.BaseURL, "timeout", s.cfg.Timeout)

	return a.Connect(ctx,
		wandbox.WithClient(client),
		wandbox.WithExcludedCompilers(s.cfg.Exclude.Compilers...),
		wandbox.WithExcludedLanguages(s.cfg.Exclude.Languages...),
		wandbox.WithLogger(s.logger),
	)
}

// issueStyle maps the configured color scheme to a glamour style name.
func (s *session) issueStyle() string {
	if s == nil {
		return string(config.ColorSchemeAuto)
	}
	return string(s.cfg.UI.ColorScheme)
}
