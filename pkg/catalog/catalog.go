// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrUnknownLanguage is returned when a language name is not a catalog key.
	ErrUnknownLanguage = errors.New("unknown language")

	// ErrEmptyLanguage is the sentinel wrapped by EmptyLanguageError.
	ErrEmptyLanguage = errors.New("language has no compilers")
)

type (
	// Compiler describes one compiler offered by the service.
	Compiler struct {
		Name                  string `json:"name"`
		Version               string `json:"version"`
		Language              string `json:"language"`
		DisplayCompileCommand string `json:"display-compile-command"`
		CompilerOptionRaw     bool   `json:"compiler-option-raw"`
		RuntimeOptionRaw      bool   `json:"runtime-option-raw"`
	}

	// Language is a lowercased language name and its compilers in listing order.
	// Compilers[0] is the default compiler for the language.
	Language struct {
		Name      string
		Compilers []Compiler
	}

	// Filter lists compilers and languages to leave out of a Catalog.
	// A nil slice means no exclusion of that kind.
	Filter struct {
		ExcludedCompilers []string
		ExcludedLanguages []string
	}

	// Catalog maps normalized language names to their Language group.
	Catalog struct {
		languages map[string]*Language
		// owners indexes compiler name -> language name, first sighting wins.
		owners map[string]string
	}

	// EmptyLanguageError reports a language group left without compilers.
	// It signals broken exclusion data rather than a missing language.
	EmptyLanguageError struct {
		Language string
	}
)

// String renders the compiler as "[name version] : language".
func (c Compiler) String() string {
	return fmt.Sprintf("[%s %s] : %s", c.Name, c.Version, c.Language)
}

// Clone returns a deep copy of the language group.
func (l Language) Clone() Language {
	return Language{Name: l.Name, Compilers: slices.Clone(l.Compilers)}
}

// removeCompiler drops every compiler called name, keeping the order of the rest.
func (l *Language) removeCompiler(name string) {
	l.Compilers = slices.DeleteFunc(l.Compilers, func(c Compiler) bool {
		return c.Name == name
	})
}

// Error implements the error interface for EmptyLanguageError.
func (e *EmptyLanguageError) Error() string {
	return fmt.Sprintf("language %q has no compilers (all of them were excluded?)", e.Language)
}

// Unwrap returns ErrEmptyLanguage for errors.Is() compatibility.
func (e *EmptyLanguageError) Unwrap() error { return ErrEmptyLanguage }

// NormalizeLanguage lowercases the ASCII letters of a language name and
// leaves every other rune untouched. Catalog keys are normalized this way.
func NormalizeLanguage(name string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, name)
}

// Build groups a raw compiler listing by language and applies the filter.
//
// Language names are lowercased; compilers keep the order in which they appear
// in entries. Excluded languages are dropped entirely, excluded compilers are
// removed from every group, and groups emptied by compiler exclusion are kept.
// An empty listing yields an empty Catalog.
func Build(entries []Compiler, filter Filter) *Catalog {
	languages := make(map[string]*Language)
	for _, entry := range entries {
		name := NormalizeLanguage(entry.Language)
		group, ok := languages[name]
		if !ok {
			group = &Language{Name: name}
			languages[name] = group
		}
		group.Compilers = append(group.Compilers, entry)
	}

	if filter.ExcludedLanguages != nil {
		for _, excluded := range filter.ExcludedLanguages {
			delete(languages, excluded)
		}
	}

	if filter.ExcludedCompilers != nil {
		for _, group := range languages {
			for _, excluded := range filter.ExcludedCompilers {
				group.removeCompiler(excluded)
			}
		}
	}

	// The listing may spell a language differently between entries ("C++" vs
	// "c++"); records always carry the group key.
	for _, group := range languages {
		for i := range group.Compilers {
			group.Compilers[i].Language = NormalizeLanguage(group.Compilers[i].Language)
		}
	}

	return &Catalog{
		languages: languages,
		owners:    indexOwners(entries, languages),
	}
}

// indexOwners maps each retained compiler to its language. Entries are walked in
// listing order so a duplicated compiler name resolves to its first language.
func indexOwners(entries []Compiler, languages map[string]*Language) map[string]string {
	retained := make(map[string]map[string]bool, len(languages))
	for name, group := range languages {
		set := make(map[string]bool, len(group.Compilers))
		for _, c := range group.Compilers {
			set[c.Name] = true
		}
		retained[name] = set
	}

	owners := make(map[string]string)
	for _, entry := range entries {
		lang := NormalizeLanguage(entry.Language)
		if !retained[lang][entry.Name] {
			continue
		}
		if _, seen := owners[entry.Name]; !seen {
			owners[entry.Name] = lang
		}
	}
	return owners
}

// Compilers returns a copy of the compilers for lang. The lookup is exact;
// catalog keys are lowercase, so callers lowercase their query for
// case-insensitive matching.
func (c *Catalog) Compilers(lang string) ([]Compiler, bool) {
	group, ok := c.languages[lang]
	if !ok {
		return nil, false
	}
	return slices.Clone(group.Compilers), true
}

// Languages returns a copy of every language group in no particular order.
func (c *Catalog) Languages() []Language {
	out := make([]Language, 0, len(c.languages))
	for _, group := range c.languages {
		out = append(out, group.Clone())
	}
	return out
}

// IsKnownCompiler reports whether any language offers a compiler called name.
func (c *Catalog) IsKnownCompiler(name string) bool {
	_, ok := c.owners[name]
	return ok
}

// LanguageOf returns the language that owns the named compiler.
func (c *Catalog) LanguageOf(compiler string) (string, bool) {
	lang, ok := c.owners[compiler]
	return lang, ok
}

// IsKnownLanguage reports whether name is a catalog key.
func (c *Catalog) IsKnownLanguage(name string) bool {
	_, ok := c.languages[name]
	return ok
}

// DefaultCompiler returns the name of the first compiler listed for lang.
//
// It returns ErrUnknownLanguage when lang is not in the catalog, and an
// *EmptyLanguageError when the group exists but every compiler was excluded.
func (c *Catalog) DefaultCompiler(lang string) (string, error) {
	group, ok := c.languages[lang]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	if len(group.Compilers) == 0 {
		return "", &EmptyLanguageError{Language: lang}
	}
	return group.Compilers[0].Name, nil
}

// Len returns the number of languages in the catalog.
func (c *Catalog) Len() int {
	return len(c.languages)
}

// CompilerCount returns the number of compilers across all languages.
func (c *Catalog) CompilerCount() int {
	n := 0
	for _, group := range c.languages {
		n += len(group.Compilers)
	}
	return n
}
