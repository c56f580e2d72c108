// SPDX-License-Identifier: MPL-2.0

package wandbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Headline/wandbox/pkg/catalog"
	"github.com/Headline/wandbox/pkg/compile"
)

const fixtureListJSON = `[
	{"name":"gcc-6.3.0","version":"6.3.0","language":"C++","display-compile-command":"g++ prog.cc","compiler-option-raw":true,"runtime-option-raw":false},
	{"name":"gcc-head","version":"14.0.0","language":"C++","display-compile-command":"g++ prog.cc","compiler-option-raw":true,"runtime-option-raw":false},
	{"name":"python-3.8","version":"3.8.0","language":"Python","display-compile-command":"python prog.py","compiler-option-raw":false,"runtime-option-raw":true}
]`

func resolvedRequest(t *testing.T, target string) *compile.Request {
	t.Helper()

	var entries []catalog.Compiler
	if err := json.Unmarshal([]byte(fixtureListJSON), &entries); err != nil {
		t.Fatalf("decoding fixture: %v", err)
	}
	req, err := compile.NewBuilder().
		Target(target).
		Code("#include <iostream>\nint main() { std::cout << \"test\"; }").
		Options("-Wall", "-Werror").
		Resolve(catalog.Build(entries, catalog.Filter{}))
	if err != nil {
		t.Fatalf("resolving %q: %v", target, err)
	}
	return req
}

func TestListCompilers_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/list.json" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
			return
		}
		if ua := r.Header.Get("User-Agent"); ua != "wandbox-test/1.0" {
			t.Errorf("User-Agent = %q, want %q", ua, "wandbox-test/1.0")
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, fixtureListJSON)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL+"/"), WithUserAgent("wandbox-test/1.0"))
	got, err := client.ListCompilers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 compilers, got %d", len(got))
	}
	want := catalog.Compiler{
		Name:                  "gcc-6.3.0",
		Version:               "6.3.0",
		Language:              "C++",
		DisplayCompileCommand: "g++ prog.cc",
		CompilerOptionRaw:     true,
	}
	if got[0] != want {
		t.Errorf("compiler[0] = %+v, want %+v", got[0], want)
	}
	if !got[2].RuntimeOptionRaw {
		t.Error("python-3.8 should have runtime-option-raw set")
	}
}

func TestListCompilers_NonOKStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(WithBaseURL(srv.URL)).ListCompilers(context.Background())

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error = %v, want *FetchError", err)
	}
	if fetchErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want %d", fetchErr.StatusCode, http.StatusServiceUnavailable)
	}
	if !errors.Is(err, ErrFetch) {
		t.Error("FetchError should wrap ErrFetch")
	}
}

func TestListCompilers_TransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srvURL := srv.URL
	srv.Close()

	_, err := NewClient(WithBaseURL(srvURL)).ListCompilers(context.Background())
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("error = %v, want ErrFetch", err)
	}
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) && fetchErr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 when no response was received", fetchErr.StatusCode)
	}
}

func TestListCompilers_DecodeFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "<html>maintenance</html>"},
		{name: "object instead of array", body: `{"name":"gcc-head"}`},
		{name: "wrong field type", body: `[{"name":"gcc-head","compiler-option-raw":"yes"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewClient(WithBaseURL(srv.URL)).ListCompilers(context.Background())
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("error = %v, want *DecodeError", err)
			}
			if !errors.Is(err, ErrDecode) {
				t.Error("DecodeError should wrap ErrDecode")
			}
		})
	}
}

func TestCompile_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/compile.json" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
			return
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json; charset=utf-8" {
			t.Errorf("Content-Type = %q", ct)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		if body["compiler"] != "gcc-6.3.0" || body["lang"] != "c++" {
			t.Errorf("unexpected target in body: %v", body)
		}
		if body["compiler-option-raw"] != "-Wall\n-Werror" {
			t.Errorf("compiler-option-raw = %q", body["compiler-option-raw"])
		}

		fmt.Fprint(w, `{"status":"0","program_message":"test","program_output":"test"}`)
	}))
	defer srv.Close()

	res, err := NewClient(WithBaseURL(srv.URL)).Compile(context.Background(), resolvedRequest(t, "c++"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ProgramMessage != "test" || res.ProgramOutput != "test" {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.Permlink != "" || res.URL != "" {
		t.Errorf("unsaved compile should not carry links: %+v", res)
	}
}

func TestCompile_UndecodableResponseKeepsStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "<html>502 Bad Gateway</html>")
	}))
	defer srv.Close()

	_, err := NewClient(WithBaseURL(srv.URL)).Compile(context.Background(), resolvedRequest(t, "gcc-head"))

	var respErr *ResponseError
	if !errors.As(err, &respErr) {
		t.Fatalf("error = %v, want *ResponseError", err)
	}
	if respErr.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d, want %d", respErr.StatusCode, http.StatusBadGateway)
	}
	if !strings.Contains(respErr.Message, "outage") {
		t.Errorf("Message = %q, want an outage hint", respErr.Message)
	}
	if !errors.Is(err, ErrResponse) {
		t.Error("ResponseError should wrap ErrResponse")
	}
}

func TestCompile_DecodableErrorStatusIsAResult(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"status":"1","compiler_error":"prog.cc:1: error"}`)
	}))
	defer srv.Close()

	res, err := NewClient(WithBaseURL(srv.URL)).Compile(context.Background(), resolvedRequest(t, "gcc-head"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != "1" || res.CompilerError != "prog.cc:1: error" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestCompile_TransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithTimeout(20*time.Millisecond))
	_, err := client.Compile(context.Background(), resolvedRequest(t, "gcc-head"))

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("error = %v, want *TransportError", err)
	}
	if !errors.Is(err, ErrTransport) {
		t.Error("TransportError should wrap ErrTransport")
	}
}

func TestCompile_NilRequest(t *testing.T) {
	t.Parallel()

	var called atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called.Store(true) }))
	defer srv.Close()

	_, err := NewClient(WithBaseURL(srv.URL)).Compile(context.Background(), nil)
	if !errors.Is(err, ErrUnresolvedRequest) {
		t.Errorf("error = %v, want ErrUnresolvedRequest", err)
	}
	if called.Load() {
		t.Error("an unresolved request must not reach the service")
	}
}

func TestWithTimeout_DoesNotMutateSharedClient(t *testing.T) {
	t.Parallel()

	shared := &http.Client{}
	_ = NewClient(WithHTTPClient(shared), WithTimeout(time.Second))
	if shared.Timeout != 0 {
		t.Errorf("shared client timeout = %v, want unchanged", shared.Timeout)
	}
}

func TestWithTimeout_AppliesRegardlessOfOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []ClientOption
	}{
		{name: "timeout after client", opts: []ClientOption{WithHTTPClient(&http.Client{}), WithTimeout(time.Second)}},
		{name: "timeout before client", opts: []ClientOption{WithTimeout(time.Second), WithHTTPClient(&http.Client{})}},
		{name: "nil client", opts: []ClientOption{WithHTTPClient(nil), WithTimeout(time.Second)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewClient(tt.opts...)
			if c.httpClient == nil {
				t.Fatal("httpClient is nil")
			}
			if c.httpClient.Timeout != time.Second {
				t.Errorf("Timeout = %v, want 1s", c.httpClient.Timeout)
			}
		})
	}

	if http.DefaultClient.Timeout != 0 {
		t.Error("http.DefaultClient must not be mutated")
	}
}

func TestWithHTTPClient_NilKeepsDefault(t *testing.T) {
	t.Parallel()

	if c := NewClient(WithHTTPClient(nil)); c.httpClient != http.DefaultClient {
		t.Error("WithHTTPClient(nil) should keep http.DefaultClient")
	}
}

func TestCompile_NonObjectBodyIsResponseError(t *testing.T) {
	t.Parallel()

	for _, body := range []string{"null", " null\n"} {
		t.Run(strings.TrimSpace(body), func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, body)
			}))
			defer srv.Close()

			res, err := NewClient(WithBaseURL(srv.URL)).Compile(context.Background(), resolvedRequest(t, "gcc-head"))

			var respErr *ResponseError
			if !errors.As(err, &respErr) {
				t.Fatalf("error = %v (result %+v), want *ResponseError", err, res)
			}
			if respErr.StatusCode != http.StatusOK || !strings.Contains(respErr.Message, "unexpected schema") {
				t.Errorf("unexpected ResponseError: %+v", respErr)
			}
			if !errors.Is(err, ErrResponse) {
				t.Error("ResponseError should wrap ErrResponse")
			}
		})
	}
}

func TestSnippet(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", maxErrorSnippet+10)
	if got := snippet([]byte(long)); len(got) != maxErrorSnippet+3 {
		t.Errorf("snippet length = %d, want %d", len(got), maxErrorSnippet+3)
	}
	if got := snippet([]byte("  short \n")); got != "short" {
		t.Errorf("snippet = %q, want %q", got, "short")
	}
}
