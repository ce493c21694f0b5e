// Package srp implements the client side of the provider's SRP-6a "GSA"
// variant: RFC 5054 2048-bit group, generator 2, SHA-256, with two deviations
// from the textbook exchange.
//
// First, the client public ephemeral A is needed before the password key
// exists — the server only returns salt and iteration count after receiving
// A — so the client has a two-phase lifecycle: construction yields A, and the
// derived key is installed later through a one-shot [Client.SetDerivedKey]
// transition.
//
// Second, the mutual-verification value M2 is computed and transmitted by the
// client alongside M1; the server performs both verifications itself instead
// of returning M2.
//
// All hash inputs that are group elements (A, B, S, g) are left-padded to the
// width of N before hashing.
//
// # Architecture boundaries
//
// This package owns the handshake math only. Password derivation lives in
// package password; transport and response parsing live with the Engine.
//
// # What this package must NOT do
//
//   - Accept a degenerate server ephemeral (zero mod N) or proceed with u == 0.
//   - Allow the derived key to be replaced once set.
//   - Depend on any third-party SRP implementation's internals.
package srp
