// Package plistdoc parses the account service's property-list response bodies
// into a generic document with typed getters.
//
// Deserialization is delegated to howett.net/plist; this package only adds
// the nil-safe navigation the sign-in state machine needs (nested
// dictionaries, string and numeric leaves).
//
// # What this package must NOT do
//
//   - Interpret provider semantics (failure types, account fields) — that is
//     the state machine's job.
//   - Serialize plists; the engine never writes this format.
package plistdoc
