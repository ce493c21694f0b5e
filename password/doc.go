// Package password implements the provider's s2k/s2k_fo key-derivation scheme.
//
// # Output format
//
// Derive always produces 32 bytes of key material:
//
//	s2k:    PBKDF2-SHA256(SHA256(password), salt, iterations)
//	s2k_fo: PBKDF2-SHA256(hex(SHA256(password)), salt, iterations)
//
// The s2k_fo variant re-encodes the password digest as a lowercase hex string
// before the PBKDF2 step. This double-encoding is a provider quirk and must be
// preserved byte-for-byte.
//
// # Architecture boundaries
//
// This package owns derivation only. Salt and iteration count arrive from the
// identity provider's init response; sequencing is enforced by the Engine.
//
// # What this package must NOT do
//
//   - Perform network I/O or read salt/iterations from anywhere itself.
//   - Import any other gsauth package.
//   - Retain or log the password or the derived key.
package password
