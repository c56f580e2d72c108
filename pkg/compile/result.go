// SPDX-License-Identifier: MPL-2.0

package compile

import "fmt"

// Result is the outcome of a compile request. Fields absent from the response
// are left empty.
type Result struct {
	Status          string `json:"status" toml:"status"`
	Signal          string `json:"signal" toml:"signal"`
	CompilerOutput  string `json:"compiler_output" toml:"compiler_output"`
	CompilerError   string `json:"compiler_error" toml:"compiler_error"`
	CompilerMessage string `json:"compiler_message" toml:"compiler_message"`
	ProgramOutput   string `json:"program_output" toml:"program_output"`
	ProgramError    string `json:"program_error" toml:"program_error"`
	ProgramMessage  string `json:"program_message" toml:"program_message"`
	// Permlink and URL are only set when the request asked to be saved.
	Permlink string `json:"permlink" toml:"permlink"`
	URL      string `json:"url" toml:"url"`
}

// String renders "[status signal] compiler messages: program messages".
func (r Result) String() string {
	return fmt.Sprintf("[%s %s] %s: %s", r.Status, r.Signal, r.CompilerMessage, r.ProgramMessage)
}

// Succeeded reports whether the program exited with status 0 and no signal.
func (r Result) Succeeded() bool {
	return r.Status == "0" && r.Signal == ""
}
