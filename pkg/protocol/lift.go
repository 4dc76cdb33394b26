package protocol

import (
	"context"
	"fmt"

	"github.com/irismpc/core/pkg/ringmath"
	"github.com/irismpc/core/pkg/ringshare"
	"github.com/irismpc/core/pkg/session"
	"github.com/irismpc/core/pkg/xparty"
)

const ring16Width = 16
const ring32Width = 32

// degenerateBits decomposes, at zero extra communication, the additive
// component owned by `term` underlying shares s into its width bits, one
// degenerate Share[Bit] row per bit position (LSB first), batched over the
// whole slice.
func degenerateBits[T ringmath.Element[T]](own xparty.Role, items []ringshare.Share[T], term xparty.Role, width int, bitsOf func(T, int) ringmath.Bit) [][]ringshare.Share[ringmath.Bit] {
	n := len(items)
	out := make([][]ringshare.Share[ringmath.Bit], width)
	for k := 0; k < width; k++ {
		out[k] = make([]ringshare.Share[ringmath.Bit], n)
	}
	for i, s := range items {
		ts := TermShare(own, s, term)
		known := ts.A.Add(ts.B) // the term's value if own knows it, zero otherwise
		for k := 0; k < width; k++ {
			bit := bitsOf(known, k)
			switch own {
			case term:
				out[k][i] = ringshare.Share[ringmath.Bit]{A: bit, B: 0}
			case term.Next():
				out[k][i] = ringshare.Share[ringmath.Bit]{A: 0, B: bit}
			default:
				out[k][i] = ringshare.Share[ringmath.Bit]{A: 0, B: 0}
			}
		}
	}
	return out
}

func ring16BitsOf(v ringmath.Ring16, k int) ringmath.Bit { return v.Bit(k) }
func ring32BitsOf(v ringmath.Ring32, k int) ringmath.Bit { return v.Bit(k) }

// Lift16To32 implements the protocol's unsigned lift: given replicated
// Ring16 shares, it produces replicated Ring32 shares whose reconstructed
// value equals the Ring16 secret read as a non-negative integer in
// [0, 2^16). It does this by bit-decomposing the three additive components
// underlying the input (available at zero communication cost, since
// replicated sharing structurally gives every party two of the three
// components in the clear), summing them with a secure ripple-carry adder
// truncated to 16 bits (discarding the carry out of bit 15 reproduces the
// mod-2^16 wraparound exactly), and converting the resulting bits back to
// an arithmetic share via bit2aBatch.
func Lift16To32(ctx context.Context, sess *session.Session, x ringshare.VecShare[ringmath.Ring16]) (ringshare.VecShare[ringmath.Ring32], error) {
	own := sess.Own
	a0 := degenerateBits(own, x.Items, xparty.Role0, ring16Width, ring16BitsOf)
	a1 := degenerateBits(own, x.Items, xparty.Role1, ring16Width, ring16BitsOf)
	a2 := degenerateBits(own, x.Items, xparty.Role2, ring16Width, ring16BitsOf)

	sumBits, err := RippleCarryAdd3(ctx, sess, ring16Width, a0, a1, a2)
	if err != nil {
		return ringshare.VecShare[ringmath.Ring32]{}, fmt.Errorf("protocol: lift adder: %w", err)
	}

	n := x.Len()
	acc := make([]ringshare.Share[ringmath.Ring32], n)
	for k := 0; k < ring16Width; k++ {
		arith, err := bit2aBatch(ctx, sess, sumBits[k])
		if err != nil {
			return ringshare.VecShare[ringmath.Ring32]{}, fmt.Errorf("protocol: lift bit2a at position %d: %w", k, err)
		}
		weight := ringmath.Ring32(1) << uint(k)
		for i := range acc {
			acc[i] = acc[i].Add(arith[i].MulPublic(weight))
		}
	}
	return ringshare.VecShare[ringmath.Ring32]{Items: acc}, nil
}

// MulLift2k lifts x to Z_2^32 and multiplies by 2^k, matching mul_lift_2k.
func MulLift2k(ctx context.Context, sess *session.Session, x ringshare.VecShare[ringmath.Ring16], k int) (ringshare.VecShare[ringmath.Ring32], error) {
	lifted, err := Lift16To32(ctx, sess, x)
	if err != nil {
		return ringshare.VecShare[ringmath.Ring32]{}, err
	}
	return lifted.MulPublic(ringmath.Ring32(1) << uint(k)), nil
}

// BatchSignedLift recenters each Ring16 value around zero before lifting,
// so that values representing a signed quantity in [-2^15, 2^15) survive
// the unsigned lift unchanged in meaning: add 2^15 (shifting the signed
// range to unsigned [0, 2^16)), lift, then subtract 2^15 back out in the
// wider ring.
func BatchSignedLift(ctx context.Context, sess *session.Session, x ringshare.VecShare[ringmath.Ring16]) (ringshare.VecShare[ringmath.Ring32], error) {
	shifted := x.MulPublic(1).Items // copy
	for i := range shifted {
		shifted[i] = shifted[i].AddConstRoleByRole(sess.Own, ringmath.SignedLiftShift)
	}
	lifted, err := Lift16To32(ctx, sess, ringshare.VecShare[ringmath.Ring16]{Items: shifted})
	if err != nil {
		return ringshare.VecShare[ringmath.Ring32]{}, fmt.Errorf("protocol: batch signed lift: %w", err)
	}
	shift32 := ringmath.Ring32(ringmath.SignedLiftShift)
	out := make([]ringshare.Share[ringmath.Ring32], len(lifted.Items))
	for i, s := range lifted.Items {
		out[i] = s.Sub(ringshare.Share[ringmath.Ring32]{}.AddConstRoleByRole(sess.Own, shift32))
	}
	return ringshare.VecShare[ringmath.Ring32]{Items: out}, nil
}
