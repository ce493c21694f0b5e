package password

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/pbkdf2"
)

const keyLength = 32

// Protocol defines a public type used by gsauth APIs.
//
// Protocol instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Protocol string

const (
	// ProtocolS2K is an exported constant or variable used by the authentication engine.
	ProtocolS2K Protocol = "s2k"
	// ProtocolS2KFO is an exported constant or variable used by the authentication engine.
	ProtocolS2KFO Protocol = "s2k_fo"
)

var (
	// ErrInvalidIterations is an exported constant or variable used by the authentication engine.
	ErrInvalidIterations = errors.New("iteration count must be > 0")
	// ErrUnknownProtocol is an exported constant or variable used by the authentication engine.
	ErrUnknownProtocol = errors.New("unknown derivation protocol")
)

// Derive describes the derive operation and its observable behavior.
//
// Derive may return an error when input validation, dependency calls, or security checks fail.
// Derive does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func Derive(protocol Protocol, password string, salt []byte, iterations int) ([]byte, error) {
	if iterations <= 0 {
		return nil, ErrInvalidIterations
	}

	// Password processing uses raw string bytes exactly as provided (no Unicode normalization).
	digest := sha256.Sum256([]byte(password))

	var material []byte
	switch protocol {
	case ProtocolS2K:
		material = digest[:]
	case ProtocolS2KFO:
		material = []byte(hex.EncodeToString(digest[:]))
	default:
		return nil, ErrUnknownProtocol
	}

	return pbkdf2.Key(material, salt, iterations, keyLength, sha256.New), nil
}
