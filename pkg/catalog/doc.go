// SPDX-License-Identifier: MPL-2.0

// Package catalog holds the in-memory index of Wandbox languages and their
// compilers.
//
// A Catalog is built once from the flat compiler listing returned by the
// service. Compilers are grouped by lowercased language name, preserving the
// listing order inside each group: the first compiler of a group is the
// default compiler for that language. Optional exclusion sets drop whole
// languages or individual compilers during construction.
//
// After Build returns, a Catalog is never mutated and all of its methods are
// safe for concurrent use. Store wraps a Catalog for callers that need to
// replace the snapshot at runtime; replacement is always a whole-value swap.
package catalog
