// SPDX-License-Identifier: MPL-2.0

package wandbox

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Headline/wandbox/pkg/compile"
)

// fakeService serves a swappable listing and counts compile calls.
type fakeService struct {
	mu        sync.Mutex
	listing   string
	listCalls atomic.Int32
	compiles  atomic.Int32
	failList  atomic.Bool
}

func newFakeService(t *testing.T, listing string) (*fakeService, *httptest.Server) {
	t.Helper()

	fs := &fakeService{listing: listing}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/list.json":
			fs.listCalls.Add(1)
			if fs.failList.Load() {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			fs.mu.Lock()
			body := fs.listing
			fs.mu.Unlock()
			fmt.Fprint(w, body)
		case "/compile.json":
			fs.compiles.Add(1)
			fmt.Fprint(w, `{"status":"0","program_message":"test"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return fs, srv
}

func (fs *fakeService) setListing(listing string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.listing = listing
}

func newTestWandbox(t *testing.T, srv *httptest.Server, opts ...Option) *Wandbox {
	t.Helper()

	opts = append([]Option{WithClient(NewClient(WithBaseURL(srv.URL)))}, opts...)
	wb, err := New(context.Background(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return wb
}

func TestNew_BuildsCatalog(t *testing.T) {
	t.Parallel()

	_, srv := newFakeService(t, fixtureListJSON)
	wb := newTestWandbox(t, srv)

	var names []string
	for _, l := range wb.Languages() {
		names = append(names, l.Name)
	}
	sort.Strings(names)
	if len(names) != 2 || names[0] != "c++" || names[1] != "python" {
		t.Fatalf("languages = %v, want [c++ python]", names)
	}

	def, err := wb.DefaultCompiler("c++")
	if err != nil || def != "gcc-6.3.0" {
		t.Errorf("DefaultCompiler(c++) = %q, %v; want gcc-6.3.0", def, err)
	}
	if !wb.IsKnownCompiler("gcc-head") {
		t.Error("gcc-head should be known")
	}
	if lang, ok := wb.LanguageOf("python-3.8"); !ok || lang != "python" {
		t.Errorf("LanguageOf(python-3.8) = %q, %v", lang, ok)
	}
	if compilers, ok := wb.Compilers("c++"); !ok || len(compilers) != 2 {
		t.Errorf("Compilers(c++) = %v, %v", compilers, ok)
	}
}

func TestNew_Exclusions(t *testing.T) {
	t.Parallel()

	_, srv := newFakeService(t, fixtureListJSON)
	wb := newTestWandbox(t, srv,
		WithExcludedCompilers("gcc-head"),
		WithExcludedLanguages("python"),
	)

	if wb.IsKnownCompiler("gcc-head") {
		t.Error("gcc-head should be excluded")
	}
	if !wb.IsKnownLanguage("c++") {
		t.Error("c++ should still be known")
	}
	if def, _ := wb.DefaultCompiler("c++"); def != "gcc-6.3.0" {
		t.Errorf("DefaultCompiler(c++) = %q, want gcc-6.3.0", def)
	}
	if wb.IsKnownLanguage("python") {
		t.Error("python should be excluded")
	}
	if got := wb.ExcludedCompilers(); len(got) != 1 || got[0] != "gcc-head" {
		t.Errorf("ExcludedCompilers() = %v", got)
	}
	if got := wb.ExcludedLanguages(); len(got) != 1 || got[0] != "python" {
		t.Errorf("ExcludedLanguages() = %v", got)
	}
}

func TestNew_FetchFailureProducesNoHandle(t *testing.T) {
	t.Parallel()

	fs, srv := newFakeService(t, fixtureListJSON)
	fs.failList.Store(true)

	wb, err := New(context.Background(), WithClient(NewClient(WithBaseURL(srv.URL))))
	if wb != nil {
		t.Error("expected no Wandbox on fetch failure")
	}
	if !errors.Is(err, ErrFetch) {
		t.Errorf("error = %v, want ErrFetch", err)
	}
}

func TestNew_DecodeFailureProducesNoHandle(t *testing.T) {
	t.Parallel()

	_, srv := newFakeService(t, `{"oops":true}`)

	wb, err := New(context.Background(), WithClient(NewClient(WithBaseURL(srv.URL))))
	if wb != nil {
		t.Error("expected no Wandbox on decode failure")
	}
	if !errors.Is(err, ErrDecode) {
		t.Errorf("error = %v, want ErrDecode", err)
	}
}

func TestCompile_ResolutionFailsBeforeNetwork(t *testing.T) {
	t.Parallel()

	fs, srv := newFakeService(t, fixtureListJSON)
	wb := newTestWandbox(t, srv)

	_, err := wb.Compile(context.Background(), compile.NewBuilder().Target("brainfuck"))
	if !errors.Is(err, compile.ErrResolution) {
		t.Fatalf("error = %v, want ErrResolution", err)
	}
	if n := fs.compiles.Load(); n != 0 {
		t.Errorf("compile endpoint called %d times, want 0", n)
	}
}

func TestCompile_LanguageAndCompilerTargets(t *testing.T) {
	t.Parallel()

	fs, srv := newFakeService(t, fixtureListJSON)
	wb := newTestWandbox(t, srv)

	for _, target := range []string{"c++", "gcc-6.3.0"} {
		res, err := wb.Compile(context.Background(), compile.NewBuilder().
			Target(target).
			Options("-Wall", "-Werror").
			Code("#include<iostream>\nint main()\n{\nstd::cout<<\"test\";\n}"))
		if err != nil {
			t.Fatalf("Compile(%s): %v", target, err)
		}
		if res.ProgramMessage != "test" {
			t.Errorf("Compile(%s) program message = %q, want %q", target, res.ProgramMessage, "test")
		}
	}
	if n := fs.compiles.Load(); n != 2 {
		t.Errorf("compile endpoint called %d times, want 2", n)
	}
}

func TestRefresh_SwapsCatalog(t *testing.T) {
	t.Parallel()

	fs, srv := newFakeService(t, fixtureListJSON)
	wb := newTestWandbox(t, srv, WithExcludedCompilers("clang-head"))
	before := wb.Catalog()

	fs.setListing(`[
		{"name":"clang-head","language":"C++"},
		{"name":"gcc-head","language":"C++"},
		{"name":"rustc-head","language":"Rust"}
	]`)
	if err := wb.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if wb.Catalog() == before {
		t.Fatal("Refresh should install a new snapshot")
	}
	if !wb.IsKnownLanguage("rust") {
		t.Error("rust should be known after refresh")
	}
	if wb.IsKnownLanguage("python") {
		t.Error("python should be gone after refresh")
	}
	if def, _ := wb.DefaultCompiler("c++"); def != "gcc-head" {
		t.Errorf("exclusions must survive refresh: default = %q, want gcc-head", def)
	}
	// The old snapshot is untouched.
	if !before.IsKnownLanguage("python") {
		t.Error("previous snapshot was mutated")
	}
}

func TestRefresh_FailureKeepsPreviousCatalog(t *testing.T) {
	t.Parallel()

	fs, srv := newFakeService(t, fixtureListJSON)
	wb := newTestWandbox(t, srv)
	before := wb.Catalog()

	fs.failList.Store(true)
	err := wb.Refresh(context.Background())
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("error = %v, want ErrFetch", err)
	}
	if wb.Catalog() != before {
		t.Error("a failed refresh must keep the previous snapshot")
	}
}

func TestConcurrentQueriesAndRefresh(t *testing.T) {
	t.Parallel()

	_, srv := newFakeService(t, fixtureListJSON)
	wb := newTestWandbox(t, srv)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				if _, err := wb.Resolve(compile.NewBuilder().Target("c++")); err != nil {
					t.Errorf("Resolve: %v", err)
					return
				}
			}
		}()
	}
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := wb.Refresh(context.Background()); err != nil {
				t.Errorf("Refresh: %v", err)
			}
		}()
	}
	wg.Wait()
}
