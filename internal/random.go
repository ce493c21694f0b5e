package internal

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"strings"

	"github.com/google/uuid"
)

const deviceIDBytes = 6

// NewStateNonce returns the opaque per-call OAuth state value required on
// every identity-provider request. Randomness comes from the given reader so
// tests can substitute a deterministic source; nil falls back to crypto/rand.
func NewStateNonce(random io.Reader) (string, error) {
	if random == nil {
		random = rand.Reader
	}
	id, err := uuid.NewRandomFromReader(random)
	if err != nil {
		return "", err
	}
	return "auth-" + id.String(), nil
}

// NewDeviceID returns a generated machine identifier in the uppercase-hex
// form the store's sign-in endpoint expects as its guid parameter.
func NewDeviceID(random io.Reader) (string, error) {
	if random == nil {
		random = rand.Reader
	}
	raw := make([]byte, deviceIDBytes)
	if _, err := io.ReadFull(random, raw); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(raw)), nil
}
