// Package xhash provides the session/domain-separated hashing helper used
// to derive session identifiers and transcript fingerprints, mirroring the
// teacher's pkg/hash BytesWithDomain convention.
package xhash

import (
	"encoding/binary"

	"github.com/zeebo/blake3"
)

// Size is the digest width used throughout the engine.
const Size = 32

// Digest is a fixed-size blake3 output, used as SessionID.
type Digest [Size]byte

// BytesWithDomain hashes domain||len(part)||part for each part in order,
// so callers can't create collisions by shifting byte boundaries between
// adjacent fields.
func BytesWithDomain(domain string, parts ...[]byte) Digest {
	h := blake3.New()
	_, _ = h.Write([]byte(domain))
	var lenBuf [8]byte
	for _, part := range parts {
		binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(part)))
		_, _ = h.Write(lenBuf[:])
		_, _ = h.Write(part)
	}
	var out Digest
	copy(out[:], h.Sum(nil)[:Size])
	return out
}

func (d Digest) String() string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, 0, 2*Size)
	for _, b := range d {
		out = append(out, hexdigits[b>>4], hexdigits[b&0xf])
	}
	return string(out)
}
