// Package prfpair implements the correlated-randomness backbone: each party
// holds a pair of keystreams, one it generated and sent to its next
// neighbor ("mine"), one it received from its previous neighbor ("theirs").
// Telescoping mine/theirs across the three-party ring is what lets
// ZeroShare16/ZeroShare32/ZeroShareBit produce shares that sum to zero
// without any communication.
package prfpair

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20"
)

// SeedSize is the width of a correlated PRF seed, matching the 128-bit
// session key the original ChaChaCudaCorrRng derives its per-party streams
// from.
const SeedSize = 16

// Seed is a correlated-randomness seed shared between exactly two adjacent
// parties.
type Seed [SeedSize]byte

// NewRandomSeed draws a fresh seed from the system CSPRNG, for a party to
// generate locally and send to its next neighbor during session setup.
func NewRandomSeed() (Seed, error) {
	var s Seed
	if _, err := rand.Read(s[:]); err != nil {
		return Seed{}, fmt.Errorf("prfpair: generating seed: %w", err)
	}
	return s, nil
}

// expandKey stretches the 128-bit seed into the 256-bit key chacha20 requires,
// by simple zero-padding with a fixed domain byte; the stream's security
// here rests on the seed's own entropy, not on this expansion.
func (s Seed) expandKey() [chacha20.KeySize]byte {
	var key [chacha20.KeySize]byte
	copy(key[:], s[:])
	key[SeedSize] = 0x01 // domain separator between key material and padding
	return key
}

// newCipher constructs a fresh deterministic keystream for this seed. The
// nonce is fixed (zero) because each Seed is used to key exactly one
// keystream for the lifetime of one session.
func newCipher(s Seed) (*chacha20.Cipher, error) {
	key := s.expandKey()
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce[:])
	if err != nil {
		return nil, fmt.Errorf("prfpair: constructing keystream: %w", err)
	}
	return c, nil
}
