package srp

import (
	"crypto/rand"
	"errors"
	"io"
	"math/big"
)

var (
	// ErrProtocol is an exported constant or variable used by the authentication engine.
	ErrProtocol = errors.New("srp protocol violation")
	// ErrInvalidEphemeral is an exported constant or variable used by the authentication engine.
	ErrInvalidEphemeral = errors.New("degenerate srp ephemeral")
	// ErrKeyAlreadySet is an exported constant or variable used by the authentication engine.
	ErrKeyAlreadySet = errors.New("derived key already set")
	// ErrKeyNotSet is an exported constant or variable used by the authentication engine.
	ErrKeyNotSet = errors.New("derived key not set")
	// ErrEmptyIdentity is an exported constant or variable used by the authentication engine.
	ErrEmptyIdentity = errors.New("identity must not be empty")
)

// Proofs carries the two client-transmitted proof values of the GSA exchange.
type Proofs struct {
	M1 []byte
	M2 []byte
}

// Client defines a public type used by gsauth APIs.
//
// Client instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Client struct {
	identity []byte
	secret   *big.Int // client private ephemeral a
	public   *big.Int // client public ephemeral A = g^a mod N
	key      []byte
	keyed    bool
}

// NewClient describes the newclient operation and its observable behavior.
//
// NewClient may return an error when input validation, dependency calls, or security checks fail.
// NewClient does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewClient(identity []byte, random io.Reader) (*Client, error) {
	if len(identity) == 0 {
		return nil, ErrEmptyIdentity
	}
	if random == nil {
		random = rand.Reader
	}

	for {
		raw := make([]byte, 32)
		if _, err := io.ReadFull(random, raw); err != nil {
			return nil, err
		}
		secret := new(big.Int).SetBytes(raw)
		public := new(big.Int).Exp(groupG, secret, groupN)
		if public.Sign() == 0 {
			// a == 0 from a pathological reader; draw again.
			continue
		}
		id := make([]byte, len(identity))
		copy(id, identity)
		return &Client{identity: id, secret: secret, public: public}, nil
	}
}

// PublicEphemeral describes the publicephemeral operation and its observable behavior.
//
// PublicEphemeral may return an error when input validation, dependency calls, or security checks fail.
// PublicEphemeral does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) PublicEphemeral() []byte {
	return padToGroup(c.public)
}

// SetDerivedKey describes the setderivedkey operation and its observable behavior.
//
// SetDerivedKey may return an error when input validation, dependency calls, or security checks fail.
// SetDerivedKey does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) SetDerivedKey(key []byte) error {
	if c.keyed {
		return ErrKeyAlreadySet
	}
	if len(key) == 0 {
		return ErrProtocol
	}
	c.key = make([]byte, len(key))
	copy(c.key, key)
	c.keyed = true
	return nil
}

// GenerateProofs describes the generateproofs operation and its observable behavior.
//
// GenerateProofs may return an error when input validation, dependency calls, or security checks fail.
// GenerateProofs does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) GenerateProofs(salt, serverPublic []byte) (Proofs, error) {
	if !c.keyed {
		return Proofs{}, ErrKeyNotSet
	}
	if len(salt) == 0 || len(serverPublic) == 0 {
		return Proofs{}, ErrProtocol
	}

	bigB := new(big.Int).SetBytes(serverPublic)
	if new(big.Int).Mod(bigB, groupN).Sign() == 0 {
		return Proofs{}, ErrInvalidEphemeral
	}

	u := scrambler(c.public, bigB)
	if u.Sign() == 0 {
		return Proofs{}, ErrInvalidEphemeral
	}

	x := passwordExponent(c.identity, c.key, salt)
	k := multiplier()

	// base = (B - k*g^x) mod N
	gx := new(big.Int).Exp(groupG, x, groupN)
	kgx := new(big.Int).Mul(k, gx)
	base := new(big.Int).Sub(bigB, kgx)
	base.Mod(base, groupN)
	if base.Sign() == 0 {
		return Proofs{}, ErrInvalidEphemeral
	}

	// S = base^(a + u*x) mod N
	exp := new(big.Int).Mul(u, x)
	exp.Add(exp, c.secret)
	s := new(big.Int).Exp(base, exp, groupN)

	sessionK := sessionKey(s)
	m1 := clientProof(c.identity, salt, c.public, bigB, sessionK)
	m2 := mutualProof(c.public, m1, sessionK)

	return Proofs{M1: m1, M2: m2}, nil
}
