// SPDX-License-Identifier: MPL-2.0

// Package compile turns a caller-supplied target into a Wandbox compile request.
//
// A Builder collects the target, code, stdin, options and save flag. Resolve
// maps the target onto a concrete (language, compiler) pair using a catalog
// and returns an immutable Request; only a Request can be dispatched, so an
// unresolved builder never reaches the service.
package compile

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// ResolvedAsLanguage means the target named a language and the compiler is
	// that language's default.
	ResolvedAsLanguage ResolutionKind = iota + 1
	// ResolvedAsCompiler means the target named a compiler and the language is
	// the one that owns it.
	ResolvedAsCompiler
)

// ErrResolution is the sentinel wrapped by ResolutionError.
var ErrResolution = errors.New("target resolution failed")

// Resolution failure reasons.
const (
	ReasonNoDefaultCompiler = "no default compiler"
	ReasonNoOwningLanguage  = "no owning language"
	ReasonTargetNotFound    = "target not found"
)

type (
	// ResolutionKind tells which interpretation of a target was chosen.
	ResolutionKind int

	// Lookup is the read-only catalog view needed to resolve a target.
	// *catalog.Catalog satisfies it.
	Lookup interface {
		IsKnownLanguage(name string) bool
		DefaultCompiler(lang string) (string, error)
		IsKnownCompiler(name string) bool
		LanguageOf(compiler string) (string, bool)
	}

	// Resolution is the concrete (language, compiler) pair a target maps to.
	Resolution struct {
		Kind     ResolutionKind
		Language string
		Compiler string
	}

	// ResolutionError reports a target that could not be mapped onto the catalog.
	ResolutionError struct {
		Target string
		Reason string
		Cause  error
	}

	// Builder accumulates the inputs of a compile request. The zero value is
	// ready to use.
	Builder struct {
		target  string
		code    string
		stdin   string
		options []string
		save    bool
	}
)

// String returns a readable name for the kind.
func (k ResolutionKind) String() string {
	switch k {
	case ResolvedAsLanguage:
		return "language"
	case ResolvedAsCompiler:
		return "compiler"
	default:
		return "unresolved"
	}
}

// Error implements the error interface for ResolutionError.
func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("resolving target %q: %s", e.Target, e.Reason)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns ErrResolution and the underlying cause, if any.
func (e *ResolutionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrResolution}
	}
	return []error{ErrResolution, e.Cause}
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Target sets the compilation target: a language ("c++") or a compiler
// identifier ("gcc-head").
func (b *Builder) Target(target string) *Builder {
	b.target = strings.TrimSpace(target)
	return b
}

// Code sets the source code to compile.
func (b *Builder) Code(code string) *Builder {
	b.code = strings.TrimSpace(code)
	return b
}

// Stdin sets the input fed to the compiled program.
func (b *Builder) Stdin(stdin string) *Builder {
	b.stdin = strings.TrimSpace(stdin)
	return b
}

// Options replaces the compiler options, e.g. "-Wall", "-Werror".
// Option syntax is not checked.
func (b *Builder) Options(options ...string) *Builder {
	b.options = slices.Clone(options)
	return b
}

// Save asks the service to store the compilation and reply with a permalink.
func (b *Builder) Save(save bool) *Builder {
	b.save = save
	return b
}

// TargetValue returns the trimmed target.
func (b *Builder) TargetValue() string { return b.target }

// Resolve maps the target onto the catalog and returns a dispatchable Request.
//
// A target naming a known language wins over a compiler with the same name.
// The builder itself is never modified, so a failed Resolve leaves nothing
// half-resolved.
func (b *Builder) Resolve(c Lookup) (*Request, error) {
	res, err := resolveTarget(c, b.target)
	if err != nil {
		return nil, err
	}

	return &Request{
		resolution:        res,
		code:              b.code,
		stdin:             b.stdin,
		compilerOptionRaw: strings.Join(b.options, "\n"),
		save:              b.save,
	}, nil
}

func resolveTarget(c Lookup, target string) (Resolution, error) {
	switch {
	case c.IsKnownLanguage(target):
		compiler, err := c.DefaultCompiler(target)
		if err != nil {
			return Resolution{}, &ResolutionError{Target: target, Reason: ReasonNoDefaultCompiler, Cause: err}
		}
		return Resolution{Kind: ResolvedAsLanguage, Language: target, Compiler: compiler}, nil

	case c.IsKnownCompiler(target):
		lang, ok := c.LanguageOf(target)
		if !ok {
			return Resolution{}, &ResolutionError{Target: target, Reason: ReasonNoOwningLanguage}
		}
		return Resolution{Kind: ResolvedAsCompiler, Language: lang, Compiler: target}, nil

	default:
		return Resolution{}, &ResolutionError{Target: target, Reason: ReasonTargetNotFound}
	}
}
