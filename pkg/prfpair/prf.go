package prfpair

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/chacha20"

	"github.com/irismpc/core/pkg/ringmath"
)

// stream wraps a chacha20 keystream and hands out ring elements drawn from
// successive keystream bytes.
type stream struct {
	cipher *chacha20.Cipher
}

func newStream(seed Seed) (*stream, error) {
	c, err := newCipher(seed)
	if err != nil {
		return nil, err
	}
	return &stream{cipher: c}, nil
}

func (s *stream) nextBytes(n int) []byte {
	buf := make([]byte, n)
	s.cipher.XORKeyStream(buf, buf)
	return buf
}

func (s *stream) nextRing16() ringmath.Ring16 {
	return ringmath.Ring16(binary.LittleEndian.Uint16(s.nextBytes(2)))
}

func (s *stream) nextRing32() ringmath.Ring32 {
	return ringmath.Ring32(binary.LittleEndian.Uint32(s.nextBytes(4)))
}

func (s *stream) nextBit() ringmath.Bit {
	return ringmath.Bit(s.nextBytes(1)[0] & 1)
}

// Prf is the correlated PRF pair a party holds for one adjacent link: Mine
// is the stream it generated and handed to its next neighbor, Theirs is the
// stream it received from its previous neighbor. Two adjacent parties who
// hold the "mine"/"theirs" side of the same seed derive byte-identical
// keystreams.
type Prf struct {
	Mine   *stream
	Theirs *stream
}

// NewPrf builds the pair from the two seeds exchanged during session setup.
func NewPrf(mineSeed, theirsSeed Seed) (*Prf, error) {
	mine, err := newStream(mineSeed)
	if err != nil {
		return nil, fmt.Errorf("prfpair: mine stream: %w", err)
	}
	theirs, err := newStream(theirsSeed)
	if err != nil {
		return nil, fmt.Errorf("prfpair: theirs stream: %w", err)
	}
	return &Prf{Mine: mine, Theirs: theirs}, nil
}

// ZeroShare16 draws the next Ring16 zero-share contribution: mine minus
// theirs. Summed across all three parties (each one's "mine" equals its
// next neighbor's "theirs"), the telescoping sum is zero.
func (p *Prf) ZeroShare16() ringmath.Ring16 {
	return p.Mine.nextRing16().Sub(p.Theirs.nextRing16())
}

// ZeroShare32 is the Ring32 analogue of ZeroShare16.
func (p *Prf) ZeroShare32() ringmath.Ring32 {
	return p.Mine.nextRing32().Sub(p.Theirs.nextRing32())
}

// ZeroShareBit is the GF(2) analogue: mine XOR theirs, which also
// telescopes to zero across the three parties since XOR is self-inverse.
func (p *Prf) ZeroShareBit() ringmath.Bit {
	return p.Mine.nextBit().Sub(p.Theirs.nextBit())
}

// ZeroShare is the ring-generic form of the three ZeroShareX helpers above:
// it returns mine() minus theirs() for caller-supplied draw functions.
func ZeroShare[T ringmath.Element[T]](mine, theirs func() T) T {
	return mine().Sub(theirs())
}
