// SPDX-License-Identifier: MPL-2.0

// Package issue turns wandbox failures into messages a CLI user can act on.
//
// ActionableError carries the failed operation, the resource involved and
// suggestions. The issue catalog holds longer Markdown guidance, rendered to
// the terminal with glamour, for the failure classes the CLI recognizes.
package issue
