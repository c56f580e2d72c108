// SPDX-License-Identifier: MPL-2.0

// Package wandbox is a client for the Wandbox online compiler.
//
// New fetches the compiler listing once and keeps it as an in-memory catalog.
// Targets ("c++", "gcc-head") are resolved against that catalog before a
// compile request is sent:
//
//	wb, err := wandbox.New(ctx, wandbox.WithExcludedCompilers("gcc-head"))
//	if err != nil {
//	    return err
//	}
//	b := compile.NewBuilder().
//	    Target("c++").
//	    Options("-Wall", "-Werror").
//	    Code("#include <iostream>\nint main() { std::cout << \"test\"; }")
//	res, err := wb.Compile(ctx, b)
//
// A Wandbox is safe for concurrent use. Refresh rebuilds the catalog and
// swaps it in as a whole.
package wandbox

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/Headline/wandbox/pkg/catalog"
	"github.com/Headline/wandbox/pkg/compile"

	"golang.org/x/sync/singleflight"
)

const refreshKey = "catalog"

type (
	// Wandbox owns the compiler catalog and the client used to reach the service.
	Wandbox struct {
		client  *Client
		filter  catalog.Filter
		logger  *slog.Logger
		store   *catalog.Store
		refresh singleflight.Group
	}

	// Option configures a Wandbox during construction.
	Option func(*Wandbox)
)

// WithClient sets the API client. Defaults to NewClient().
func WithClient(c *Client) Option {
	return func(w *Wandbox) {
		w.client = c
	}
}

// WithExcludedCompilers hides the named compilers, e.g. ones known to be
// broken on the service. Repeated options accumulate.
func WithExcludedCompilers(names ...string) Option {
	return func(w *Wandbox) {
		w.filter.ExcludedCompilers = append(w.filter.ExcludedCompilers, names...)
	}
}

// WithExcludedLanguages hides whole languages (lowercase names). Repeated
// options accumulate.
func WithExcludedLanguages(names ...string) Option {
	return func(w *Wandbox) {
		w.filter.ExcludedLanguages = append(w.filter.ExcludedLanguages, names...)
	}
}

// WithLogger sets the logger used for debug output. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(w *Wandbox) {
		w.logger = l
	}
}

// New fetches the compiler listing and builds the catalog. It either returns
// a fully built Wandbox or an error; no partial catalog is kept.
func New(ctx context.Context, opts ...Option) (*Wandbox, error) {
	w := &Wandbox{}
	for _, opt := range opts {
		opt(w)
	}
	if w.client == nil {
		w.client = NewClient()
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}

	c, err := w.load(ctx)
	if err != nil {
		return nil, err
	}
	w.store = catalog.NewStore(c)

	return w, nil
}

// load fetches the listing and builds a catalog with the configured filter.
func (w *Wandbox) load(ctx context.Context) (*catalog.Catalog, error) {
	entries, err := w.client.ListCompilers(ctx)
	if err != nil {
		return nil, err
	}

	c := catalog.Build(entries, w.filter)
	w.logger.Debug("compiler catalog built",
		"source", w.client.BaseURL(),
		"entries", len(entries),
		"languages", c.Len(),
		"compilers", c.CompilerCount())
	return c, nil
}

// Refresh refetches the listing and replaces the catalog. Concurrent calls
// share one fetch. On failure the previous catalog stays in place.
func (w *Wandbox) Refresh(ctx context.Context) error {
	_, err, shared := w.refresh.Do(refreshKey, func() (any, error) {
		c, err := w.load(ctx)
		if err != nil {
			return nil, err
		}
		w.store.Swap(c)
		return c, nil
	})
	if err != nil {
		w.logger.Debug("catalog refresh failed, keeping previous snapshot", "error", err)
		return fmt.Errorf("refreshing catalog: %w", err)
	}
	if shared {
		w.logger.Debug("catalog refresh shared with a concurrent caller")
	}
	return nil
}

// Catalog returns the current catalog snapshot.
func (w *Wandbox) Catalog() *catalog.Catalog {
	return w.store.Load()
}

// Client returns the API client.
func (w *Wandbox) Client() *Client {
	return w.client
}

// ExcludedCompilers returns the compilers hidden at construction.
func (w *Wandbox) ExcludedCompilers() []string {
	return slices.Clone(w.filter.ExcludedCompilers)
}

// ExcludedLanguages returns the languages hidden at construction.
func (w *Wandbox) ExcludedLanguages() []string {
	return slices.Clone(w.filter.ExcludedLanguages)
}

// Compilers returns the compilers for a language, in listing order.
func (w *Wandbox) Compilers(lang string) ([]catalog.Compiler, bool) {
	return w.Catalog().Compilers(lang)
}

// Languages returns every language group.
func (w *Wandbox) Languages() []catalog.Language {
	return w.Catalog().Languages()
}

// IsKnownCompiler reports whether a compiler identifier is in the catalog.
func (w *Wandbox) IsKnownCompiler(name string) bool {
	return w.Catalog().IsKnownCompiler(name)
}

// LanguageOf returns the language owning a compiler.
func (w *Wandbox) LanguageOf(compiler string) (string, bool) {
	return w.Catalog().LanguageOf(compiler)
}

// IsKnownLanguage reports whether a language is in the catalog.
func (w *Wandbox) IsKnownLanguage(name string) bool {
	return w.Catalog().IsKnownLanguage(name)
}

// DefaultCompiler returns the default compiler of a language.
func (w *Wandbox) DefaultCompiler(lang string) (string, error) {
	return w.Catalog().DefaultCompiler(lang)
}

// Resolve resolves a builder against the current catalog snapshot.
func (w *Wandbox) Resolve(b *compile.Builder) (*compile.Request, error) {
	return b.Resolve(w.Catalog())
}

// Dispatch sends an already resolved request.
func (w *Wandbox) Dispatch(ctx context.Context, req *compile.Request) (*compile.Result, error) {
	if req != nil {
		w.logger.Debug("dispatching compile request",
			"compiler", req.Compiler(),
			"language", req.Language(),
			"resolved_as", req.Resolution().Kind.String(),
			"save", req.Saved())
	}
	return w.client.Compile(ctx, req)
}

// Compile resolves the builder and dispatches the resulting request. A
// resolution failure is returned before any network call.
func (w *Wandbox) Compile(ctx context.Context, b *compile.Builder) (*compile.Result, error) {
	req, err := w.Resolve(b)
	if err != nil {
		return nil, err
	}
	return w.Dispatch(ctx, req)
}
