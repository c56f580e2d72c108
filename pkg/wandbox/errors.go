// SPDX-License-Identifier: MPL-2.0

package wandbox

import (
	"errors"
	"fmt"
)

var (
	// ErrFetch is the sentinel wrapped by FetchError.
	ErrFetch = errors.New("fetching compiler list failed")
	// ErrDecode is the sentinel wrapped by DecodeError.
	ErrDecode = errors.New("decoding compiler list failed")
	// ErrTransport is the sentinel wrapped by TransportError.
	ErrTransport = errors.New("sending compile request failed")
	// ErrResponse is the sentinel wrapped by ResponseError.
	ErrResponse = errors.New("unreadable compile response")
	// ErrUnresolvedRequest is returned when Compile is handed a nil request.
	ErrUnresolvedRequest = errors.New("compile request has not been resolved")
)

type (
	// FetchError is returned when the compiler list cannot be retrieved.
	// StatusCode is zero when no HTTP response was received.
	FetchError struct {
		URL        string
		StatusCode int
		Cause      error
	}

	// DecodeError is returned when the compiler list is not a JSON array of
	// compiler records.
	DecodeError struct {
		URL   string
		Cause error
	}

	// TransportError is returned when a compile request never produced an
	// HTTP response (connection refused, DNS failure, timeout).
	TransportError struct {
		Cause error
	}

	// ResponseError is returned when a compile response body cannot be
	// decoded. StatusCode lets callers tell a service outage (5xx with an HTML
	// error page) from protocol drift (200 with an unexpected schema).
	ResponseError struct {
		StatusCode int
		Message    string
		Cause      error
	}
)

// Error implements the error interface for FetchError.
func (e *FetchError) Error() string {
	switch {
	case e.Cause != nil:
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Cause)
	default:
		return fmt.Sprintf("fetching %s: unexpected status %d", e.URL, e.StatusCode)
	}
}

// Unwrap returns ErrFetch and the underlying cause.
func (e *FetchError) Unwrap() []error {
	return joinCause(ErrFetch, e.Cause)
}

// Error implements the error interface for DecodeError.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding compiler list from %s: %v", e.URL, e.Cause)
}

// Unwrap returns ErrDecode and the underlying cause.
func (e *DecodeError) Unwrap() []error {
	return joinCause(ErrDecode, e.Cause)
}

// Error implements the error interface for TransportError.
func (e *TransportError) Error() string {
	return fmt.Sprintf("sending compile request: %v", e.Cause)
}

// Unwrap returns ErrTransport and the underlying cause.
func (e *TransportError) Unwrap() []error {
	return joinCause(ErrTransport, e.Cause)
}

// Error implements the error interface for ResponseError.
func (e *ResponseError) Error() string {
	return fmt.Sprintf("wandbox replied with status %d: %s", e.StatusCode, e.Message)
}

// Unwrap returns ErrResponse and the underlying cause.
func (e *ResponseError) Unwrap() []error {
	return joinCause(ErrResponse, e.Cause)
}

func joinCause(sentinel, cause error) []error {
	if cause == nil {
		return []error{sentinel}
	}
	return []error{sentinel, cause}
}
