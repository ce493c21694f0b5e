// Package flows contains the pure-function orchestrator for the account
// service's sign-in state machine.
//
// RunSignIn accepts a typed dependency struct and walks a bounded machine
// with named states (Sending, Redirecting, RetryingTransient,
// NeedsVerification, Succeeded, Failed): at most two credential attempts and
// at most three redirect hops per attempt cycle. The bounded-iteration
// guarantee is testable with scripted dependencies and no network.
//
// # Architecture boundaries
//
// Flow functions coordinate transport posts, plist parsing, cookie merging,
// audit dispatch, and metrics. They do NOT own any of these resources —
// ownership stays with the Engine.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import gsauth (to avoid import cycles).
//   - Perform I/O directly — all I/O is mediated through dependency functions.
package flows
