package srp

import (
	"crypto/sha256"
	"math/big"
)

// RFC 5054 2048-bit SRP group parameters.
// N: 2048-bit safe prime from Appendix A.
// g: generator, always 2 for this group.
var (
	groupN = initN()
	groupG = big.NewInt(2)
)

func initN() *big.Int {
	n := new(big.Int)
	n.SetString(
		"AC6BDB41324A9A9BF166DE5E1389582FAF72B6651987EE07FC3192943DB56050"+
			"A37329CBB4A099ED8193E0757767A13DD52312AB4B03310DCD7F48A9DA04FD50"+
			"E8083969EDB767B0CF6095179A163AB3661A05FBD5FAAAE82918A9962F0B93B8"+
			"55F97993EC975EEAA80D740ADBF4FF747359D041D5C33EA71D281E446B14773B"+
			"CA97B43A23FB801676BD207A436C6481F1D2B9078717461A5B9D32E688F87748"+
			"544523B524B0D57D5EA77A2775D2ECFA032CFBDBF52FB3786160279004E57AE6"+
			"AF874E7303CE53299CCC041C7BC308D82A5698F3A8D0C38271AE35F8E9DBFBB6"+
			"94B5C803D89F7AE435DE236D525F54759B65E372FCD68EF20FA7111F9E4AFF73", 16)
	return n
}

// groupByteLen is the width of N in bytes; every group element is left-padded
// to this width before hashing or transmission.
func groupByteLen() int {
	return (groupN.BitLen() + 7) / 8
}

// padToGroup left-pads the big-endian encoding of v to the width of N.
func padToGroup(v *big.Int) []byte {
	out := make([]byte, groupByteLen())
	b := v.Bytes()
	copy(out[len(out)-len(b):], b)
	return out
}

// multiplier computes the SRP-6a multiplier k = H(N | pad(g)).
func multiplier() *big.Int {
	h := sha256.New()
	h.Write(groupN.Bytes())
	h.Write(padToGroup(groupG))
	return new(big.Int).SetBytes(h.Sum(nil))
}

// scrambler computes u = H(pad(A) | pad(B)).
func scrambler(bigA, bigB *big.Int) *big.Int {
	h := sha256.New()
	h.Write(padToGroup(bigA))
	h.Write(padToGroup(bigB))
	return new(big.Int).SetBytes(h.Sum(nil))
}

// passwordExponent computes x = H(salt | H(identity | ":" | key)).
func passwordExponent(identity, key, salt []byte) *big.Int {
	inner := sha256.New()
	inner.Write(identity)
	inner.Write([]byte(":"))
	inner.Write(key)

	outer := sha256.New()
	outer.Write(salt)
	outer.Write(inner.Sum(nil))
	return new(big.Int).SetBytes(outer.Sum(nil))
}

// sessionKey computes K = H(pad(S)).
func sessionKey(s *big.Int) []byte {
	sum := sha256.Sum256(padToGroup(s))
	return sum[:]
}

// clientProof computes M1 = H(H(N) xor H(pad(g)) | H(identity) | salt | pad(A) | pad(B) | K).
func clientProof(identity, salt []byte, bigA, bigB *big.Int, sessionK []byte) []byte {
	hN := sha256.Sum256(groupN.Bytes())
	hG := sha256.Sum256(padToGroup(groupG))
	for i := range hN {
		hN[i] ^= hG[i]
	}
	hI := sha256.Sum256(identity)

	h := sha256.New()
	h.Write(hN[:])
	h.Write(hI[:])
	h.Write(salt)
	h.Write(padToGroup(bigA))
	h.Write(padToGroup(bigB))
	h.Write(sessionK)
	return h.Sum(nil)
}

// mutualProof computes M2 = H(pad(A) | M1 | K).
func mutualProof(bigA *big.Int, m1, sessionK []byte) []byte {
	h := sha256.New()
	h.Write(padToGroup(bigA))
	h.Write(m1)
	h.Write(sessionK)
	return h.Sum(nil)
}
