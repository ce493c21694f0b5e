// Package cookiejar implements the merge-by-name-and-domain cookie set the
// sign-in state machine accumulates across every provider exchange.
//
// A Set is a plain value the caller owns and may persist between logins.
// Merge is idempotent under repeated application of the same response and
// never removes a cookie — accumulation is monotonic within a login attempt.
//
// # What this package must NOT do
//
//   - Enforce expiry, Secure, or HttpOnly semantics — the provider's store
//     endpoints require cookies to be replayed as received.
//   - Depend on any other gsauth package.
package cookiejar
