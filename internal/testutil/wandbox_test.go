// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestFakeWandbox_Listing(t *testing.T) {
	t.Parallel()

	fw := NewFakeWandbox(t)
	resp, err := http.Get(fw.URL + "/list.json")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var entries []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatalf("listing is not a JSON array: %v", err)
	}
	if len(entries) != 4 {
		t.Errorf("got %d entries, want 4", len(entries))
	}
}

func TestFakeWandbox_ListStatus(t *testing.T) {
	t.Parallel()

	fw := NewFakeWandbox(t, WithListStatus(http.StatusBadGateway))
	resp, err := http.Get(fw.URL + "/list.json")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadGateway)
	}
}

func TestFakeWandbox_RecordsCompileRequests(t *testing.T) {
	t.Parallel()

	fw := NewFakeWandbox(t, WithCompileResponder(func(req map[string]any) (int, string) {
		return http.StatusOK, `{"status":"` + req["stdin"].(string) + `"}`
	}))

	if fw.LastRequest() != nil {
		t.Error("LastRequest() should be nil before any request")
	}

	resp, err := http.Post(fw.URL+"/compile.json", "application/json",
		strings.NewReader(`{"compiler":"gcc-head","code":"x","stdin":"7"}`))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if string(body) != `{"status":"7"}` {
		t.Errorf("body = %s", body)
	}
	if fw.CompileCalls() != 1 || fw.LastRequest()["compiler"] != "gcc-head" {
		t.Errorf("request not recorded: %v", fw.LastRequest())
	}
}
