// SPDX-License-Identifier: MPL-2.0

package wandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Headline/wandbox/pkg/catalog"
	"github.com/Headline/wandbox/pkg/compile"
)

const (
	// DefaultBaseURL is the public Wandbox API root.
	DefaultBaseURL = "https://wandbox.org/api"

	// DefaultUserAgent is sent when no WithUserAgent option is given.
	DefaultUserAgent = "wandbox-go/dev"

	listPath    = "/list.json"
	compilePath = "/compile.json"

	// maxJSONResponseBytes is the upper bound on JSON API response size (10 MB).
	maxJSONResponseBytes = 10 << 20

	// maxErrorSnippet bounds how much of an undecodable body ends up in an error.
	maxErrorSnippet = 256

	jsonContentType = "application/json; charset=utf-8"
)

type (
	// Client talks to the Wandbox HTTP API.
	Client struct {
		httpClient *http.Client
		baseURL    string // API root (default: DefaultBaseURL, overridable for tests)
		userAgent  string
		timeout    *time.Duration
	}

	// ClientOption configures a Client during construction.
	ClientOption func(*Client)
)

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy configurations.
// A nil client keeps http.DefaultClient.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithBaseURL overrides the API root, primarily for test servers and mirrors.
func WithBaseURL(base string) ClientOption {
	return func(cl *Client) {
		cl.baseURL = strings.TrimRight(base, "/")
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// WithTimeout bounds every request made by the client. A zero timeout means
// no limit. It applies to whichever HTTP client is configured, regardless of
// option order, and copies that client rather than mutating it.
func WithTimeout(d time.Duration) ClientOption {
	return func(cl *Client) {
		cl.timeout = &d
	}
}

// NewClient creates a Client with sensible defaults.
// Defaults: baseURL=DefaultBaseURL, userAgent=DefaultUserAgent,
// httpClient=http.DefaultClient.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout != nil {
		hc := *c.httpClient
		hc.Timeout = *c.timeout
		c.httpClient = &hc
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// ListCompilers fetches the flat compiler listing.
//
// A failed request or a non-200 status yields a *FetchError; a body that is not
// a JSON array of compiler records yields a *DecodeError.
func (c *Client) ListCompilers(ctx context.Context) ([]catalog.Compiler, error) {
	listURL := c.baseURL + listPath

	resp, err := c.doRequest(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, &FetchError{URL: listURL, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: listURL, StatusCode: resp.StatusCode}
	}

	var compilers []catalog.Compiler
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxJSONResponseBytes)).Decode(&compilers); err != nil {
		return nil, &DecodeError{URL: listURL, Cause: err}
	}

	return compilers, nil
}

// Compile posts a resolved request to the compile endpoint.
//
// The response is decoded whatever its status code; only a body that is not
// a compile result turns into a *ResponseError carrying the status. Failures
// before a response arrives are reported as *TransportError.
func (c *Client) Compile(ctx context.Context, req *compile.Request) (*compile.Result, error) {
	if req == nil {
		return nil, ErrUnresolvedRequest
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding compile request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, c.baseURL+compilePath, payload)
	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxJSONResponseBytes))
	if err != nil {
		return nil, &TransportError{Cause: fmt.Errorf("reading response: %w", err)}
	}

	var result *compile.Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &ResponseError{
			StatusCode: resp.StatusCode,
			Message: fmt.Sprintf("%s; this could mean Wandbox is experiencing an outage (body: %q)",
				http.StatusText(resp.StatusCode), snippet(body)),
			Cause: err,
		}
	}
	// A JSON null decodes without error but is not a result object.
	if result == nil {
		return nil, &ResponseError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected schema: expected a result object (body: %q)", snippet(body)),
		}
	}

	return result, nil
}

// doRequest creates and executes an HTTP request with the common API headers.
func (c *Client) doRequest(ctx context.Context, method, reqURL string, payload []byte) (*http.Response, error) {
	var body io.Reader = http.NoBody
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", jsonContentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	return resp, nil
}

// snippet trims a response body for inclusion in an error message.
func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorSnippet {
		return s[:maxErrorSnippet] + "..."
	}
	return s
}
