package protocol

import (
	"context"
	"fmt"

	"github.com/irismpc/core/pkg/ringmath"
	"github.com/irismpc/core/pkg/ringshare"
	"github.com/irismpc/core/pkg/session"
	"github.com/irismpc/core/pkg/wire"
)

// ToRep3 converts one party's local additive contribution into a proper
// replicated share: mask it with a fresh PRF zero-share contribution, send
// the masked value to the next party, and receive the previous party's
// masked value as the new B component. Summed across all three parties the
// zero-share contributions cancel, so the replicated secret equals the sum
// of the three parties' `item` contributions — this is §4.7's
// galois_ring_to_rep3 generalized to any ring, and doubles as the "share a
// value known only to me" building block used by bit decomposition.
func ToRep3[T ringmath.Element[T]](ctx context.Context, sess *session.Session, item T, zeroShare func() T, encode func(a, b T) wire.NetworkValue, decode func(wire.NetworkValue) (a, b T, err error)) (ringshare.Share[T], error) {
	masked := zeroShare().Add(item)

	next := sess.Own.Next()
	prev := sess.Own.Prev()

	if err := sess.Send(ctx, next, encode(masked, masked)); err != nil {
		return ringshare.Share[T]{}, Wrap(KindTransport, fmt.Errorf("reshare: sending to %s: %w", next, err), next)
	}
	recvVal, err := sess.Receive(ctx, prev)
	if err != nil {
		return ringshare.Share[T]{}, Wrap(KindTransport, fmt.Errorf("reshare: receiving from %s: %w", prev, err), prev)
	}
	received, _, err := decode(recvVal)
	if err != nil {
		return ringshare.Share[T]{}, Wrap(KindProtocolViolation, fmt.Errorf("reshare: decoding from %s: %w", prev, err), prev)
	}
	return ringshare.Share[T]{A: masked, B: received}, nil
}

// ToRep3Ring32 is ToRep3 specialized to Ring32, used by mulRing32Batch to
// reshare each Ring32 multiplication's semi-product.
func ToRep3Ring32(ctx context.Context, sess *session.Session, item ringmath.Ring32) (ringshare.Share[ringmath.Ring32], error) {
	return ToRep3(ctx, sess, item,
		sess.Prf.ZeroShare32,
		func(a, b ringmath.Ring32) wire.NetworkValue { return wire.RingElement32(uint32(a)) },
		func(v wire.NetworkValue) (ringmath.Ring32, ringmath.Ring32, error) {
			u, err := v.AsRingElement32()
			return ringmath.Ring32(u), ringmath.Ring32(u), err
		},
	)
}

// ToRep3Ring16 is ToRep3 specialized to Ring16: the single-element form of
// ToRep3Ring16Batch, which is what the galois-ring reshare step (§4.7) uses
// to convert additively-masked dot products back into replicated shares.
func ToRep3Ring16(ctx context.Context, sess *session.Session, item ringmath.Ring16) (ringshare.Share[ringmath.Ring16], error) {
	return ToRep3(ctx, sess, item,
		sess.Prf.ZeroShare16,
		func(a, b ringmath.Ring16) wire.NetworkValue {
			return wire.VecRing16(ringshare.NewVec([]ringshare.Share[ringmath.Ring16]{{A: a, B: b}}))
		},
		func(v wire.NetworkValue) (ringmath.Ring16, ringmath.Ring16, error) {
			vs, err := v.AsVecRing16()
			if err != nil || len(vs.Items) != 1 {
				return 0, 0, fmt.Errorf("expected single ring16 element")
			}
			return vs.Items[0].A, vs.Items[0].A, nil
		},
	)
}

// ToRep3Ring32Batch reshares a batch of additive Ring32 contributions in a
// single round: each party supplies its own contribution for every slot
// (zero for slots it has nothing to contribute to), and the batch is masked
// and exchanged together. This is the arithmetic-ring counterpart of
// ToRep3BitBatch, used to inject locally-known pairwise products into a
// genuine arithmetic share during single-bit boolean-to-arithmetic
// conversion.
func ToRep3Ring32Batch(ctx context.Context, sess *session.Session, items []ringmath.Ring32) ([]ringshare.Share[ringmath.Ring32], error) {
	masked := make([]uint32, len(items))
	for i, it := range items {
		masked[i] = uint32(sess.Prf.ZeroShare32().Add(it))
	}

	next := sess.Own.Next()
	prev := sess.Own.Prev()

	vec := ringshare.VecShare[ringmath.Ring32]{}
	for _, m := range masked {
		vec.Items = append(vec.Items, ringshare.Share[ringmath.Ring32]{A: ringmath.Ring32(m), B: ringmath.Ring32(m)})
	}
	if err := sess.Send(ctx, next, wire.VecRing32(vec)); err != nil {
		return nil, Wrap(KindTransport, fmt.Errorf("reshare: sending ring32 batch to %s: %w", next, err), next)
	}
	recvVal, err := sess.Receive(ctx, prev)
	if err != nil {
		return nil, Wrap(KindTransport, fmt.Errorf("reshare: receiving ring32 batch from %s: %w", prev, err), prev)
	}
	recvVec, err := recvVal.AsVecRing32()
	if err != nil {
		return nil, Wrap(KindProtocolViolation, fmt.Errorf("reshare: decoding ring32 batch from %s: %w", prev, err), prev)
	}
	if recvVec.Len() != len(items) {
		return nil, Wrap(KindProtocolViolation, fmt.Errorf("reshare: ring32 batch length mismatch from %s: got %d want %d", prev, recvVec.Len(), len(items)), prev)
	}

	out := make([]ringshare.Share[ringmath.Ring32], len(items))
	for i := range items {
		out[i] = ringshare.Share[ringmath.Ring32]{A: ringmath.Ring32(masked[i]), B: recvVec.Items[i].A}
	}
	return out, nil
}

// ToRep3Ring16Batch is ToRep3Ring32Batch specialized to Ring16, used by the
// galois-ring distance engine to reshare a whole batch of local dot-product
// contributions (code_dot, mask_dot) in one round instead of one per slot.
func ToRep3Ring16Batch(ctx context.Context, sess *session.Session, items []ringmath.Ring16) ([]ringshare.Share[ringmath.Ring16], error) {
	masked := make([]uint16, len(items))
	for i, it := range items {
		masked[i] = uint16(sess.Prf.ZeroShare16().Add(it))
	}

	next := sess.Own.Next()
	prev := sess.Own.Prev()

	vec := ringshare.VecShare[ringmath.Ring16]{}
	for _, m := range masked {
		vec.Items = append(vec.Items, ringshare.Share[ringmath.Ring16]{A: ringmath.Ring16(m), B: ringmath.Ring16(m)})
	}
	if err := sess.Send(ctx, next, wire.VecRing16(vec)); err != nil {
		return nil, Wrap(KindTransport, fmt.Errorf("reshare: sending ring16 batch to %s: %w", next, err), next)
	}
	recvVal, err := sess.Receive(ctx, prev)
	if err != nil {
		return nil, Wrap(KindTransport, fmt.Errorf("reshare: receiving ring16 batch from %s: %w", prev, err), prev)
	}
	recvVec, err := recvVal.AsVecRing16()
	if err != nil {
		return nil, Wrap(KindProtocolViolation, fmt.Errorf("reshare: decoding ring16 batch from %s: %w", prev, err), prev)
	}
	if recvVec.Len() != len(items) {
		return nil, Wrap(KindProtocolViolation, fmt.Errorf("reshare: ring16 batch length mismatch from %s: got %d want %d", prev, recvVec.Len(), len(items)), prev)
	}

	out := make([]ringshare.Share[ringmath.Ring16], len(items))
	for i := range items {
		out[i] = ringshare.Share[ringmath.Ring16]{A: ringmath.Ring16(masked[i]), B: recvVec.Items[i].A}
	}
	return out, nil
}

// ToRep3BitBatch reshares a batch of additive Bit contributions in a single
// round, used by AndBatch to reshare the locally computed AND semi-products
// of the ripple-carry adder (see bitops.go).
func ToRep3BitBatch(ctx context.Context, sess *session.Session, items []ringmath.Bit) ([]ringshare.Share[ringmath.Bit], error) {
	masked := make([]uint8, len(items))
	for i, it := range items {
		masked[i] = uint8(sess.Prf.ZeroShareBit().Add(it))
	}

	next := sess.Own.Next()
	prev := sess.Own.Prev()

	if err := sess.Send(ctx, next, wire.BitVec(masked)); err != nil {
		return nil, Wrap(KindTransport, fmt.Errorf("reshare: sending bit batch to %s: %w", next, err), next)
	}
	recvVal, err := sess.Receive(ctx, prev)
	if err != nil {
		return nil, Wrap(KindTransport, fmt.Errorf("reshare: receiving bit batch from %s: %w", prev, err), prev)
	}
	receivedRaw, err := recvVal.AsBitVec()
	if err != nil {
		return nil, Wrap(KindProtocolViolation, fmt.Errorf("reshare: decoding bit batch from %s: %w", prev, err), prev)
	}
	if len(receivedRaw) != len(items) {
		return nil, Wrap(KindProtocolViolation, fmt.Errorf("reshare: bit batch length mismatch from %s: got %d want %d", prev, len(receivedRaw), len(items)), prev)
	}
	received := make([]ringmath.Bit, len(receivedRaw))
	for i, b := range receivedRaw {
		received[i] = ringmath.Bit(b)
	}

	out := make([]ringshare.Share[ringmath.Bit], len(items))
	for i := range items {
		out[i] = ringshare.Share[ringmath.Bit]{A: ringmath.Bit(masked[i]), B: received[i]}
	}
	return out, nil
}
