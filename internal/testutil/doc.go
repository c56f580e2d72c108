// SPDX-License-Identifier: MPL-2.0

// Package testutil provides an in-process stand-in for the Wandbox HTTP API.
//
// FakeWandbox serves a compiler listing on /list.json and answers
// /compile.json through a pluggable responder, recording every compile
// request it receives so tests can assert on the wire payload.
package testutil
