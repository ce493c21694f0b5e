// Package gsauth is a client-side authentication engine for an Apple-style
// identity provider and its companion account service: SRP-6a password
// handshake (GSA variant), s2k/s2k_fo key derivation, SMS second factors,
// and the bounded account-service sign-in state machine.
//
// Engine methods are safe to call from multiple goroutines after
// initialization through [Builder.Build], with one exception: a single
// [Session] or in-flight sign-in attempt is exclusively owned by one call
// chain, because handshake state and attempt counters are mutable.
//
// # Architecture boundaries
//
// gsauth is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (Session, Account, PhoneEnumeration, MetricsSnapshot).
// Flow orchestration and response-document handling live under internal/;
// the leaf crypto lives in the password and srp packages; transport and
// cookie handling are public collaborator packages (httpx, cookiejar) so
// callers can substitute their own.
//
// # What this package must NOT do
//
//   - Persist sessions, cookies, or trust tokens; all persistence belongs to
//     the caller.
//   - Retry or back off on its own beyond the single documented transient
//     replay; timing policy belongs to the caller.
//   - Impose timeouts; every network exchange honors the caller's context.
package gsauth
