package protocol

import (
	"context"
	"fmt"

	"github.com/irismpc/core/pkg/ringmath"
	"github.com/irismpc/core/pkg/ringshare"
	"github.com/irismpc/core/pkg/session"
	"github.com/irismpc/core/pkg/xparty"
)

// bitZero is the degenerate all-zero Share[Bit], used as carry-in and as
// padding.
func bitZero() ringshare.Share[ringmath.Bit] {
	return ringshare.Share[ringmath.Bit]{}
}

// TermShare extracts, at zero communication cost, the degenerate replicated
// share of the additive component owned by role `term` that underlies any
// replicated Share[T] held by the caller's own role. Replicated (2-out-of-3)
// sharing structurally guarantees every party already holds two of the
// three components in the clear — this just repackages that fact as a
// proper share of the single named component, with the third party's
// contribution set to the ring's zero element.
func TermShare[T ringmath.Element[T]](own xparty.Role, s ringshare.Share[T], term xparty.Role) ringshare.Share[T] {
	zero := s.A.Sub(s.A)
	switch own {
	case term:
		return ringshare.Share[T]{A: s.A, B: zero}
	case term.Next():
		return ringshare.Share[T]{A: zero, B: s.B}
	default: // own == term.Prev()
		return ringshare.Share[T]{A: zero, B: zero}
	}
}

// TermBit is TermShare specialized to individual bits of a known-locally
// ring word: bit k of the additive component owned by role `term`, given
// that component's plaintext value as known by the caller (zero if the
// caller is the one role that doesn't know it).
func TermBit(own, term xparty.Role, knownValue uint32, bitIndex int) ringshare.Share[ringmath.Bit] {
	bit := ringmath.BitFromBool((knownValue>>uint(bitIndex))&1 != 0)
	switch own {
	case term:
		return ringshare.Share[ringmath.Bit]{A: bit, B: 0}
	case term.Next():
		return ringshare.Share[ringmath.Bit]{A: 0, B: bit}
	default:
		return ringshare.Share[ringmath.Bit]{A: 0, B: 0}
	}
}

// AndBatch computes the replicated-multiplication AND of corresponding
// pairs in xs/ys in a single network round: the local semi-product
// x.A*y.A + x.A*y.B + x.B*y.A is masked with a fresh zero-share and
// exchanged with neighbors, exactly as cross_mul_via_lift does for
// arithmetic rings, specialized to GF(2).
func AndBatch(ctx context.Context, sess *session.Session, xs, ys []ringshare.Share[ringmath.Bit]) ([]ringshare.Share[ringmath.Bit], error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("protocol: AndBatch length mismatch %d != %d", len(xs), len(ys))
	}
	semi := make([]ringmath.Bit, len(xs))
	for i := range xs {
		x, y := xs[i], ys[i]
		semi[i] = x.A.Mul(y.A).Add(x.A.Mul(y.B)).Add(x.B.Mul(y.A))
	}
	return ToRep3BitBatch(ctx, sess, semi)
}

// RippleCarryAdd2 adds two batches of width-bit replicated numbers,
// bitwise, with full carry propagation, returning their sum truncated to
// `width` bits (the carry out of the top bit is discarded, giving addition
// mod 2^width — exactly the wraparound every ring operation here wants).
// aBits/bBits are indexed [bitPosition][batchIndex], LSB first.
func RippleCarryAdd2(ctx context.Context, sess *session.Session, width int, aBits, bBits [][]ringshare.Share[ringmath.Bit]) ([][]ringshare.Share[ringmath.Bit], error) {
	if len(aBits) < width || len(bBits) < width {
		return nil, fmt.Errorf("protocol: RippleCarryAdd2 needs %d bit rows, got %d/%d", width, len(aBits), len(bBits))
	}
	n := len(aBits[0])
	cin := make([]ringshare.Share[ringmath.Bit], n)
	sumBits := make([][]ringshare.Share[ringmath.Bit], width)

	for k := 0; k < width; k++ {
		a := aBits[k]
		b := bBits[k]

		axorb := make([]ringshare.Share[ringmath.Bit], n)
		sumK := make([]ringshare.Share[ringmath.Bit], n)
		for i := 0; i < n; i++ {
			axorb[i] = a[i].Add(b[i])
			sumK[i] = axorb[i].Add(cin[i])
		}
		sumBits[k] = sumK

		if k == width-1 {
			break // carry out of the top bit is discarded
		}

		left := make([]ringshare.Share[ringmath.Bit], 0, 2*n)
		right := make([]ringshare.Share[ringmath.Bit], 0, 2*n)
		left = append(left, a...)
		left = append(left, cin...)
		right = append(right, b...)
		right = append(right, axorb...)

		products, err := AndBatch(ctx, sess, left, right)
		if err != nil {
			return nil, fmt.Errorf("protocol: ripple-carry bit %d: %w", k, err)
		}
		ab := products[:n]
		cinAxorb := products[n:]
		cout := make([]ringshare.Share[ringmath.Bit], n)
		for i := 0; i < n; i++ {
			cout[i] = ab[i].Add(cinAxorb[i])
		}
		cin = cout
	}
	return sumBits, nil
}

// RippleCarryAdd3 sums three batches of width-bit replicated numbers mod
// 2^width, by chaining two RippleCarryAdd2 calls (a+b, then +c).
func RippleCarryAdd3(ctx context.Context, sess *session.Session, width int, aBits, bBits, cBits [][]ringshare.Share[ringmath.Bit]) ([][]ringshare.Share[ringmath.Bit], error) {
	partial, err := RippleCarryAdd2(ctx, sess, width, aBits, bBits)
	if err != nil {
		return nil, fmt.Errorf("protocol: ripple-carry stage 1: %w", err)
	}
	final, err := RippleCarryAdd2(ctx, sess, width, partial, cBits)
	if err != nil {
		return nil, fmt.Errorf("protocol: ripple-carry stage 2: %w", err)
	}
	return final, nil
}

// bit2aBatch converts one batch of arbitrary (non-degenerate) replicated
// Share[Bit] values into arithmetic Ring32 shares of the same 0/1 value,
// using the three-party inclusion-exclusion identity
// m = A0+A1+A2 - 2(A0A1+A1A2+A0A2) + 4*A0A1A2, where A0,A1,A2 are the XOR
// components of m. Each pairwise product is known in the clear by exactly
// one party (the one holding both of that pair's components) and is
// injected via one batched reshare round; the triple product needs one
// further replicated multiplication (mulRing32Batch).
func bit2aBatch(ctx context.Context, sess *session.Session, bits []ringshare.Share[ringmath.Bit]) ([]ringshare.Share[ringmath.Ring32], error) {
	own := sess.Own
	n := len(bits)

	// Degenerate arithmetic shares of each term, reinterpreting the same
	// zero/zero/value pattern under addition instead of XOR (valid since
	// the two agree whenever at most one contributor is nonzero).
	deg := func(term xparty.Role) []ringshare.Share[ringmath.Ring32] {
		out := make([]ringshare.Share[ringmath.Ring32], n)
		for i, m := range bits {
			ts := TermShare(own, m, term)
			out[i] = ringshare.Share[ringmath.Ring32]{A: ringmath.Ring32(ts.A), B: ringmath.Ring32(ts.B)}
		}
		return out
	}
	deg0 := deg(xparty.Role0)
	deg1 := deg(xparty.Role1)
	deg2 := deg(xparty.Role2)

	// Pairwise products, each known in the clear by exactly one role.
	pairOwner := func(i, j xparty.Role) xparty.Role {
		// the role holding both A_i and A_j in the clear is the one whose
		// (own, own.Prev()) pair equals {i, j}
		for _, r := range [3]xparty.Role{xparty.Role0, xparty.Role1, xparty.Role2} {
			if (r == i && r.Prev() == j) || (r == j && r.Prev() == i) {
				return r
			}
		}
		return i // unreachable for the 3-party ring
	}

	localBitOf := func(m ringshare.Share[ringmath.Bit], term xparty.Role) ringmath.Bit {
		switch own {
		case term:
			return m.A
		case term.Next():
			return m.B
		default:
			return 0
		}
	}

	p01Owner := pairOwner(xparty.Role0, xparty.Role1)
	p12Owner := pairOwner(xparty.Role1, xparty.Role2)
	p02Owner := pairOwner(xparty.Role0, xparty.Role2)

	// Each pairwise product is a plain 0/1 value known in full by exactly
	// one role; inject it directly as an arithmetic Ring32 contribution
	// (the other two roles contribute zero for that slot) so the batched
	// reshare reconstructs arithmetically, not under XOR.
	items := make([]ringmath.Ring32, 0, 3*n)
	for _, m := range bits {
		var v ringmath.Ring32
		if own == p01Owner {
			v = ringmath.Ring32(localBitOf(m, xparty.Role0).Mul(localBitOf(m, xparty.Role1)))
		}
		items = append(items, v)
	}
	for _, m := range bits {
		var v ringmath.Ring32
		if own == p12Owner {
			v = ringmath.Ring32(localBitOf(m, xparty.Role1).Mul(localBitOf(m, xparty.Role2)))
		}
		items = append(items, v)
	}
	for _, m := range bits {
		var v ringmath.Ring32
		if own == p02Owner {
			v = ringmath.Ring32(localBitOf(m, xparty.Role0).Mul(localBitOf(m, xparty.Role2)))
		}
		items = append(items, v)
	}
	injected, err := ToRep3Ring32Batch(ctx, sess, items)
	if err != nil {
		return nil, fmt.Errorf("protocol: bit2a injecting pairwise products: %w", err)
	}
	ap01 := injected[0:n]
	ap12 := injected[n : 2*n]
	ap02 := injected[2*n : 3*n]

	// Triple product A0*A1*A2 = p01 * A2, via one replicated multiply round.
	triple, err := mulRing32Batch(ctx, sess, ap01, deg2)
	if err != nil {
		return nil, fmt.Errorf("protocol: bit2a triple product: %w", err)
	}

	out := make([]ringshare.Share[ringmath.Ring32], n)
	for i := 0; i < n; i++ {
		sum := deg0[i].Add(deg1[i]).Add(deg2[i])
		sum = sum.Sub(ap01[i].MulPublic(2)).Sub(ap12[i].MulPublic(2)).Sub(ap02[i].MulPublic(2))
		sum = sum.Add(triple[i].MulPublic(4))
		out[i] = sum
	}
	return out, nil
}

// mulRing32Batch is the arithmetic-ring analogue of AndBatch: replicated
// multiplication over Ring32, resharing each pair's semi-product with its
// own ToRep3Ring32 exchange (one send/receive per pair, not one per batch).
func mulRing32Batch(ctx context.Context, sess *session.Session, xs, ys []ringshare.Share[ringmath.Ring32]) ([]ringshare.Share[ringmath.Ring32], error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("protocol: mulRing32Batch length mismatch %d != %d", len(xs), len(ys))
	}
	out := make([]ringshare.Share[ringmath.Ring32], len(xs))
	for i := range xs {
		x, y := xs[i], ys[i]
		semi := x.A.Mul(y.A).Add(x.A.Mul(y.B)).Add(x.B.Mul(y.A))
		s, err := ToRep3Ring32(ctx, sess, semi)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}
