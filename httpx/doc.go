// Package httpx defines the transport boundary of the authentication engine:
// a request/response value pair and a RoundTripper interface the Engine calls
// for every provider exchange.
//
// Header lookups on a Response are case-insensitive, and the raw Set-Cookie
// lines are preserved verbatim for cookie-set merging.
//
// # Architecture boundaries
//
// The Engine constructs Requests and interprets Responses; this package only
// moves them. The default implementation sits directly on net/http.
//
// # What this package must NOT do
//
//   - Follow redirects, retry, or impose timeouts — the Engine owns redirect
//     policy and callers impose deadlines via context.
//   - Interpret provider payloads or cookies.
package httpx
