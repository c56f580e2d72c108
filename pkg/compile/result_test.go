// SPDX-License-Identifier: MPL-2.0

package compile

import (
	"encoding/json"
	"testing"
)

func TestResult_MissingFieldsDefaultToEmpty(t *testing.T) {
	t.Parallel()

	var r Result
	if err := json.Unmarshal([]byte(`{"status":"0","program_message":"test"}`), &r); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if r.Status != "0" || r.ProgramMessage != "test" {
		t.Errorf("decoded %+v", r)
	}
	if r.Signal != "" || r.CompilerMessage != "" || r.Permlink != "" || r.URL != "" {
		t.Errorf("missing fields should be empty, got %+v", r)
	}
	if !r.Succeeded() {
		t.Error("status 0 without signal should succeed")
	}
}

func TestResult_Succeeded(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result Result
		want   bool
	}{
		{name: "zero status", result: Result{Status: "0"}, want: true},
		{name: "non-zero status", result: Result{Status: "1"}, want: false},
		{name: "killed by signal", result: Result{Signal: "Killed"}, want: false},
		{name: "empty result", result: Result{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.result.Succeeded(); got != tt.want {
				t.Errorf("Succeeded() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResult_String(t *testing.T) {
	t.Parallel()

	r := Result{Status: "0", CompilerMessage: "warning", ProgramMessage: "test"}
	if got, want := r.String(), "[0 ] warning: test"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
