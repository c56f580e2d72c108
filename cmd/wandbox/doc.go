// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the wandbox command line interface.
//
// Every command loads configuration through the App's ConfigProvider, merges
// the global flags over it, and connects to the service through the App's
// Connector, so tests can point the CLI at an httptest server.
package cmd
