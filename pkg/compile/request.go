// SPDX-License-Identifier: MPL-2.0

package compile

import (
	"encoding/json"
	"fmt"
)

type (
	// Request is a resolved, immutable compile request. It is only produced by
	// Builder.Resolve.
	Request struct {
		resolution        Resolution
		code              string
		stdin             string
		compilerOptionRaw string
		save              bool
	}

	// requestBody is the JSON wire format of a compile.json POST.
	requestBody struct {
		Compiler          string `json:"compiler"`
		Code              string `json:"code"`
		Stdin             string `json:"stdin"`
		CompilerOptionRaw string `json:"compiler-option-raw"`
		Save              bool   `json:"save"`
		Lang              string `json:"lang"`
	}
)

// Resolution returns how the target was resolved.
func (r *Request) Resolution() Resolution { return r.resolution }

// Compiler returns the resolved compiler identifier.
func (r *Request) Compiler() string { return r.resolution.Compiler }

// Language returns the resolved language name.
func (r *Request) Language() string { return r.resolution.Language }

// Code returns the source code.
func (r *Request) Code() string { return r.code }

// Stdin returns the program input.
func (r *Request) Stdin() string { return r.stdin }

// CompilerOptionRaw returns the options joined by newlines.
func (r *Request) CompilerOptionRaw() string { return r.compilerOptionRaw }

// Saved reports whether the service should store the compilation.
func (r *Request) Saved() bool { return r.save }

// String summarizes the request target.
func (r *Request) String() string {
	return fmt.Sprintf("%s (%s, via %s)", r.resolution.Compiler, r.resolution.Language, r.resolution.Kind)
}

// MarshalJSON encodes the request as the compile endpoint expects it.
func (r *Request) MarshalJSON() ([]byte, error) {
	return json.Marshal(requestBody{
		Compiler:          r.resolution.Compiler,
		Code:              r.code,
		Stdin:             r.stdin,
		CompilerOptionRaw: r.compilerOptionRaw,
		Save:              r.save,
		Lang:              r.resolution.Language,
	})
}
