package httpx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Request is a single provider exchange as the Engine describes it.
type Request struct {
	Host    string
	Path    string
	Method  string
	Headers map[string]string
	Body    []byte
	// Cookie is the pre-rendered Cookie header value, empty when no cookies
	// accompany the request.
	Cookie string
}

// Response is the transport-level view of a provider reply.
type Response struct {
	Status     int
	StatusText string
	headers    map[string]string
	// RawSetCookies holds every Set-Cookie line in original form for
	// cookie-set merging.
	RawSetCookies []string
	Body          []byte
}

// NewResponse builds a Response with case-insensitive header access over the
// given header map.
func NewResponse(status int, statusText string, headers map[string]string, rawSetCookies []string, body []byte) *Response {
	folded := make(map[string]string, len(headers))
	for k, v := range headers {
		folded[strings.ToLower(k)] = v
	}
	return &Response{
		Status:        status,
		StatusText:    statusText,
		headers:       folded,
		RawSetCookies: rawSetCookies,
		Body:          body,
	}
}

// Header returns the value of the named header, matching case-insensitively,
// or the empty string when absent.
func (r *Response) Header(name string) string {
	if r == nil {
		return ""
	}
	return r.headers[strings.ToLower(name)]
}

// RoundTripper performs one provider exchange. Implementations must not
// follow redirects.
type RoundTripper interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// ErrNilRequest is an exported constant or variable used by the authentication engine.
var ErrNilRequest = errors.New("nil transport request")

// Client is the net/http-backed default RoundTripper.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient describes the newclient operation and its observable behavior.
//
// NewClient may return an error when input validation, dependency calls, or security checks fail.
// NewClient does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewClient(userAgent string) *Client {
	return &Client{
		httpClient: &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent: userAgent,
	}
}

// Do describes the do operation and its observable behavior.
//
// Do may return an error when input validation, dependency calls, or security checks fail.
// Do does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	u := url.URL{Scheme: "https", Host: req.Host, Path: req.Path}
	// Path may carry a query string already assembled by the caller.
	if i := strings.IndexByte(req.Path, '?'); i >= 0 {
		u.Path = req.Path[:i]
		u.RawQuery = req.Path[i+1:]
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, err
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if req.Cookie != "" {
		httpReq.Header.Set("Cookie", req.Cookie)
	}
	if c.userAgent != "" && httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	headers := make(map[string]string, len(httpResp.Header))
	for k, vs := range httpResp.Header {
		if len(vs) > 0 {
			headers[k] = vs[0]
		}
	}

	return NewResponse(
		httpResp.StatusCode,
		httpResp.Status,
		headers,
		httpResp.Header.Values("Set-Cookie"),
		respBody,
	), nil
}
