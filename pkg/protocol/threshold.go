package protocol

import (
	"context"
	"fmt"
	"math/bits"

	"github.com/irismpc/core/pkg/ringmath"
	"github.com/irismpc/core/pkg/ringshare"
	"github.com/irismpc/core/pkg/session"
)

// MatchThresholdRatio is the fractional Hamming-distance threshold below
// which two iris codes are declared a match.
const MatchThresholdRatio = 0.375

// BBits is the fixed-point width threshold comparison scales the dot
// products into.
const BBits = 16

// B is 2^BBits.
const B = uint64(1) << BBits

// A is floor((1 - 2*MatchThresholdRatio) * B), the fixed-point numerator
// threshold comparison multiplies the mask dot product by.
var A = uint32(float64(1-2*MatchThresholdRatio) * float64(B))

// ABits is the bit width of A.
var ABits = bits.Len32(A)

// CompareThreshold implements the threshold test from the Hamming-distance
// dot products (code_dot, mask_dot): it lifts mask_dot into Z_2^32, scales
// it by the fixed-point constant A, subtracts code_dot lifted and scaled by
// 2^BBits, and reports the match bit as the sign (MSB) of the difference —
// negative exactly when code_dot/mask_dot indicates a distance under the
// threshold.
func CompareThreshold(ctx context.Context, sess *session.Session, codeDot, maskDot ringshare.VecShare[ringmath.Ring16]) ([]ringshare.Share[ringmath.Bit], error) {
	if codeDot.Len() != maskDot.Len() {
		return nil, fmt.Errorf("protocol: CompareThreshold length mismatch %d != %d", codeDot.Len(), maskDot.Len())
	}

	liftedMask, err := Lift16To32(ctx, sess, maskDot)
	if err != nil {
		return nil, fmt.Errorf("protocol: lifting mask dot: %w", err)
	}
	scaledMask := liftedMask.MulPublic(ringmath.Ring32(A))

	liftedCode, err := MulLift2k(ctx, sess, codeDot, BBits)
	if err != nil {
		return nil, fmt.Errorf("protocol: lifting code dot: %w", err)
	}

	x, err := scaledMask.Sub(liftedCode)
	if err != nil {
		return nil, fmt.Errorf("protocol: threshold difference: %w", err)
	}

	return ExtractMSBRing32(ctx, sess, x)
}

// CrossMulViaLift implements the cross-multiplication-by-lift building
// block: given two pairs of shares (d1, t1) and (d2, t2) in Z_2^16, it
// returns (d1*t2, d2*t1) lifted into Z_2^32, the cross terms threshold
// comparison across two candidate distances uses to compare fractions
// without ever dividing.
func CrossMulViaLift(ctx context.Context, sess *session.Session, d1, t1, d2, t2 ringshare.VecShare[ringmath.Ring16]) (cross1, cross2 ringshare.VecShare[ringmath.Ring32], err error) {
	lifted, err := concatLift(ctx, sess, d1, t1, d2, t2)
	if err != nil {
		return ringshare.VecShare[ringmath.Ring32]{}, ringshare.VecShare[ringmath.Ring32]{}, fmt.Errorf("protocol: cross_mul_via_lift: %w", err)
	}
	n := d1.Len()
	ld1, lt1, ld2, lt2 := lifted[0], lifted[1], lifted[2], lifted[3]

	c1 := make([]ringshare.Share[ringmath.Ring32], n)
	c2 := make([]ringshare.Share[ringmath.Ring32], n)
	left := make([]ringshare.Share[ringmath.Ring32], 0, 2*n)
	right := make([]ringshare.Share[ringmath.Ring32], 0, 2*n)
	left = append(left, ld1.Items...)
	left = append(left, ld2.Items...)
	right = append(right, lt2.Items...)
	right = append(right, lt1.Items...)

	products, err := mulRing32Batch(ctx, sess, left, right)
	if err != nil {
		return ringshare.VecShare[ringmath.Ring32]{}, ringshare.VecShare[ringmath.Ring32]{}, fmt.Errorf("protocol: cross_mul_via_lift multiply: %w", err)
	}
	copy(c1, products[:n])
	copy(c2, products[n:])
	return ringshare.VecShare[ringmath.Ring32]{Items: c1}, ringshare.VecShare[ringmath.Ring32]{Items: c2}, nil
}

// concatLift batch-signed-lifts several Ring16 vectors together in as few
// adder rounds as the batching model allows, by concatenating them before
// calling BatchSignedLift once and splitting the result back apart. The
// inputs to cross-multiplication are dot products that can carry either
// sign, so they must go through the signed lift (matching batch_signed_lift
// in the original), not the plain unsigned Lift16To32.
func concatLift(ctx context.Context, sess *session.Session, vecs ...ringshare.VecShare[ringmath.Ring16]) ([]ringshare.VecShare[ringmath.Ring32], error) {
	var all []ringshare.Share[ringmath.Ring16]
	lens := make([]int, len(vecs))
	for i, v := range vecs {
		all = append(all, v.Items...)
		lens[i] = v.Len()
	}
	lifted, err := BatchSignedLift(ctx, sess, ringshare.VecShare[ringmath.Ring16]{Items: all})
	if err != nil {
		return nil, err
	}
	out := make([]ringshare.VecShare[ringmath.Ring32], len(vecs))
	offset := 0
	for i, l := range lens {
		out[i] = ringshare.VecShare[ringmath.Ring32]{Items: lifted.Items[offset : offset+l]}
		offset += l
	}
	return out, nil
}

// CrossCompare compares two candidate Hamming-distance fractions
// (d1/t1 vs d2/t2) without dividing, using CrossMulViaLift followed by a
// sign check on the difference of the cross products: d1*t2 < d2*t1 iff
// d1/t1 < d2/t2 (both totals are positive mask counts).
func CrossCompare(ctx context.Context, sess *session.Session, d1, t1, d2, t2 ringshare.VecShare[ringmath.Ring16]) ([]ringshare.Share[ringmath.Bit], error) {
	cross1, cross2, err := CrossMulViaLift(ctx, sess, d1, t1, d2, t2)
	if err != nil {
		return nil, fmt.Errorf("protocol: CrossCompare: %w", err)
	}
	diff, err := cross1.Sub(cross2)
	if err != nil {
		return nil, fmt.Errorf("protocol: CrossCompare difference: %w", err)
	}
	return ExtractMSBRing32(ctx, sess, diff)
}
