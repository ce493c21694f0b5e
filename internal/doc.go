// Package internal contains helper utilities that are intentionally private
// to gsauth, including per-call nonce and device-identifier generation.
//
// # Sub-packages
//
//   - flows — pure-function sign-in state machine orchestration
//   - plistdoc — property-list response documents with typed getters
//
// # What this package must NOT do
//
//   - Export types that appear in the public gsauth API.
//   - Be imported by any package outside the gsauth module.
package internal
