// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// CompilerListing is a small listing with two C++ compilers, a Python
// compiler and a Python2 compiler whose name collides with the "python"
// language.
const CompilerListing = `[
	{"name":"gcc-head","version":"14.0.0","language":"C++","compiler-option-raw":true},
	{"name":"clang-head","version":"18.0.0","language":"C++","compiler-option-raw":true},
	{"name":"python-3.12","version":"3.12.0","language":"Python"},
	{"name":"python","version":"2.7.18","language":"Python2"}
]`

// DefaultCompileResponse is returned by the default compile responder.
const DefaultCompileResponse = `{"status":"0","program_output":"hello\n","url":"https://wandbox.org/permlink/abc"}`

type (
	// CompileResponder produces the HTTP status and body for a decoded
	// compile request.
	CompileResponder func(req map[string]any) (status int, body string)

	// FakeWandbox is an httptest server speaking the Wandbox API.
	FakeWandbox struct {
		*httptest.Server

		mu         sync.Mutex
		listing    string
		listStatus int
		respond    CompileResponder
		requests   []map[string]any
	}

	// FakeOption configures a FakeWandbox.
	FakeOption func(*FakeWandbox)
)

// WithListing replaces the served compiler listing.
func WithListing(listing string) FakeOption {
	return func(f *FakeWandbox) { f.listing = listing }
}

// WithListStatus makes /list.json answer with status and an empty body
// when status is not 200.
func WithListStatus(status int) FakeOption {
	return func(f *FakeWandbox) { f.listStatus = status }
}

// WithCompileResponder sets how /compile.json answers.
func WithCompileResponder(fn CompileResponder) FakeOption {
	return func(f *FakeWandbox) { f.respond = fn }
}

// NewFakeWandbox starts a fake service that is closed when the test ends.
func NewFakeWandbox(t testing.TB, opts ...FakeOption) *FakeWandbox {
	t.Helper()

	f := &FakeWandbox{
		listing:    CompilerListing,
		listStatus: http.StatusOK,
		respond: func(map[string]any) (int, string) {
			return http.StatusOK, DefaultCompileResponse
		},
	}
	for _, opt := range opts {
		opt(f)
	}

	f.Server = httptest.NewServer(http.HandlerFunc(f.serveHTTP))
	t.Cleanup(f.Close)
	return f
}

func (f *FakeWandbox) serveHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/list.json":
		if f.listStatus != http.StatusOK {
			w.WriteHeader(f.listStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, f.listing)
	case "/compile.json":
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.requests = append(f.requests, req)
		f.mu.Unlock()

		status, body := f.respond(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	default:
		http.NotFound(w, r)
	}
}

// CompileCalls returns how many compile requests were received.
func (f *FakeWandbox) CompileCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// LastRequest returns the most recent decoded compile request, or nil.
func (f *FakeWandbox) LastRequest() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}
