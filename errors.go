package gsauth

import (
	"errors"
	"fmt"
)

var (
	// ErrEngineNotReady is an exported constant or variable used by the authentication engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrVerificationRequired is an exported constant or variable used by the authentication engine.
	ErrVerificationRequired = errors.New("two-factor verification required")
	// ErrAccountLocked is an exported constant or variable used by the authentication engine.
	ErrAccountLocked = errors.New("account locked")
	// ErrMissingDeviceID is an exported constant or variable used by the authentication engine.
	ErrMissingDeviceID = errors.New("device id required")
	// ErrMissingSession is an exported constant or variable used by the authentication engine.
	ErrMissingSession = errors.New("identity provider session missing or incomplete")
	// ErrSessionHeadersIncomplete is an exported constant or variable used by the authentication engine.
	ErrSessionHeadersIncomplete = errors.New("identity provider response missing session headers")
	// ErrCodeRequired is an exported constant or variable used by the authentication engine.
	ErrCodeRequired = errors.New("security code required")
	// ErrPhoneNotFound is an exported constant or variable used by the authentication engine.
	ErrPhoneNotFound = errors.New("trusted phone not found")
	// ErrSignInFailed is an exported constant or variable used by the authentication engine.
	ErrSignInFailed = errors.New("sign in failed")
)

// TransportError wraps a failed exchange with the provider, preserving the
// operation name for audit records.
type TransportError struct {
	Op  string
	Err error
}

// Error describes the error operation and its observable behavior.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap describes the unwrap operation and its observable behavior.
func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a provider response with an unexpected HTTP status.
type StatusError struct {
	Op      string
	Status  int
	Message string
}

// Error describes the error operation and its observable behavior.
func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
}

// StoreFailure is a classified failure reported by the account service in a
// response body. FailureType carries the provider's verbatim code; locked
// accounts (code 5020) additionally match ErrAccountLocked through errors.Is.
type StoreFailure struct {
	FailureType string
	Message     string
}

// Error describes the error operation and its observable behavior.
func (e *StoreFailure) Error() string {
	if e.FailureType == "" {
		return e.Message
	}
	return fmt.Sprintf("store failure %s: %s", e.FailureType, e.Message)
}

// Is describes the is operation and its observable behavior.
func (e *StoreFailure) Is(target error) bool {
	if target == ErrAccountLocked {
		return e.FailureType == failureTypeAccountLocked
	}
	if target == ErrSignInFailed {
		return true
	}
	return false
}
