package protocol

import (
	"context"
	"fmt"

	"github.com/irismpc/core/pkg/ringmath"
	"github.com/irismpc/core/pkg/ringshare"
	"github.com/irismpc/core/pkg/session"
	"github.com/irismpc/core/pkg/wire"
)

// OpenRing32 reconstructs the plaintext value of a Ring32 share: send our B
// component to the next party, receive the previous party's B component
// (which is exactly the term we're missing), and sum A+B+missing.
func OpenRing32(ctx context.Context, sess *session.Session, s ringshare.Share[ringmath.Ring32]) (ringmath.Ring32, error) {
	next := sess.Own.Next()
	prev := sess.Own.Prev()

	if err := sess.Send(ctx, next, wire.RingElement32(uint32(s.B))); err != nil {
		return 0, Wrap(KindTransport, fmt.Errorf("open: sending to %s: %w", next, err), next)
	}
	recvVal, err := sess.Receive(ctx, prev)
	if err != nil {
		return 0, Wrap(KindTransport, fmt.Errorf("open: receiving from %s: %w", prev, err), prev)
	}
	missingRaw, err := recvVal.AsRingElement32()
	if err != nil {
		return 0, Wrap(KindProtocolViolation, fmt.Errorf("open: decoding from %s: %w", prev, err), prev)
	}
	missing := ringmath.Ring32(missingRaw)
	return s.A.Add(s.B).Add(missing), nil
}

// OpenRing16 reconstructs the plaintext value of a Ring16 share, following
// OpenRing32's send-B/receive-missing pattern over the VecRing16 wire
// encoding (wrapping the single value as a one-element batch).
func OpenRing16(ctx context.Context, sess *session.Session, s ringshare.Share[ringmath.Ring16]) (ringmath.Ring16, error) {
	next := sess.Own.Next()
	prev := sess.Own.Prev()

	outVec := ringshare.NewVec([]ringshare.Share[ringmath.Ring16]{{A: s.B, B: s.B}})
	if err := sess.Send(ctx, next, wire.VecRing16(outVec)); err != nil {
		return 0, Wrap(KindTransport, fmt.Errorf("open: sending to %s: %w", next, err), next)
	}
	recvVal, err := sess.Receive(ctx, prev)
	if err != nil {
		return 0, Wrap(KindTransport, fmt.Errorf("open: receiving from %s: %w", prev, err), prev)
	}
	recvVec, err := recvVal.AsVecRing16()
	if err != nil || recvVec.Len() != 1 {
		return 0, Wrap(KindProtocolViolation, fmt.Errorf("open: decoding from %s: %w", prev, err), prev)
	}
	missing := recvVec.Items[0].A
	return s.A.Add(s.B).Add(missing), nil
}

// OpenBit reconstructs the plaintext value of a Share[Bit], following the
// same send-B/receive-missing pattern with XOR in place of addition.
func OpenBit(ctx context.Context, sess *session.Session, s ringshare.Share[ringmath.Bit]) (ringmath.Bit, error) {
	next := sess.Own.Next()
	prev := sess.Own.Prev()

	if err := sess.Send(ctx, next, wire.BitValue(uint8(s.B))); err != nil {
		return 0, Wrap(KindTransport, fmt.Errorf("open: sending to %s: %w", next, err), next)
	}
	recvVal, err := sess.Receive(ctx, prev)
	if err != nil {
		return 0, Wrap(KindTransport, fmt.Errorf("open: receiving from %s: %w", prev, err), prev)
	}
	missingRaw, err := recvVal.AsBit()
	if err != nil {
		return 0, Wrap(KindProtocolViolation, fmt.Errorf("open: decoding from %s: %w", prev, err), prev)
	}
	missing := ringmath.Bit(missingRaw)
	return s.A.Add(s.B).Add(missing), nil
}
