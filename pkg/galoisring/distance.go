package galoisring

import (
	"context"
	"fmt"

	"github.com/irismpc/core/pkg/gpu"
	"github.com/irismpc/core/pkg/protocol"
	"github.com/irismpc/core/pkg/ringmath"
	"github.com/irismpc/core/pkg/ringshare"
	"github.com/irismpc/core/pkg/session"
)

// DefaultBackend is the gpu.Backend the distance engine dispatches its
// local semi-product computation to. It is a package variable, not a
// parameter threaded through every call, so a deployment can swap in a
// CUDA-backed gpu.Backend (or a gpu.DeviceManager-fronted one, for sharded
// dispatch across several devices) without touching call sites; it
// defaults to the pure-Go reference implementation.
var DefaultBackend gpu.Backend = gpu.CPUBackend{}

// TrickDot computes one party's local additive contribution to the
// replicated dot product of two batches of Ring16 shares: the semi-product
// x.A*y.A + x.A*y.B + x.B*y.A summed over the batch, the same cross-term
// formula a single replicated multiplication uses, just accumulated across
// every slot before the mask-and-exchange step instead of per slot. This is
// the local half of the packed dot-product trick: the whole iris code is
// carried as one batch so the sum happens before any communication. The
// three component sums are computed by DefaultBackend's byte-decomposed
// int8 GEMM (the same kernel share_db's preprocess_query/gemm drive), not a
// hand-rolled scalar loop.
func TrickDot(ctx context.Context, x, y ringshare.VecShare[ringmath.Ring16]) (ringmath.Ring16, error) {
	sums, err := localDotBatch(ctx, DefaultBackend, x, []ringshare.VecShare[ringmath.Ring16]{y})
	if err != nil {
		return 0, err
	}
	return sums[0], nil
}

// localDotBatch computes, for query against every entry in candidates, the
// local semi-product sum query.A*c.A + query.A*c.B + query.B*c.A, using a
// single GEMM dispatch covering the whole candidate batch instead of one
// per candidate: the query's A/B rows and every candidate's A/B rows are
// handed to the backend together, so batching a whole shard's worth of
// candidates amortizes one GEMM call across all of them.
func localDotBatch(ctx context.Context, backend gpu.Backend, query ringshare.VecShare[ringmath.Ring16], candidates []ringshare.VecShare[ringmath.Ring16]) ([]ringmath.Ring16, error) {
	n := query.Len()
	for _, c := range candidates {
		if c.Len() != n {
			return nil, fmt.Errorf("galoisring: localDotBatch length mismatch %d != %d", c.Len(), n)
		}
	}
	qa := make([]uint16, n)
	qb := make([]uint16, n)
	for i, s := range query.Items {
		qa[i] = uint16(s.A)
		qb[i] = uint16(s.B)
	}
	dbRows := make([][]uint16, 0, 2*len(candidates))
	for _, c := range candidates {
		ca := make([]uint16, n)
		cb := make([]uint16, n)
		for i, s := range c.Items {
			ca[i] = uint16(s.A)
			cb[i] = uint16(s.B)
		}
		dbRows = append(dbRows, ca, cb)
	}

	rows, err := gpu.DotU16Batch(ctx, backend, [][]uint16{qa, qb}, dbRows)
	if err != nil {
		return nil, fmt.Errorf("galoisring: gemm dot batch: %w", err)
	}
	out := make([]ringmath.Ring16, len(candidates))
	for j := range candidates {
		sum := rows[0][2*j] + rows[0][2*j+1] + rows[1][2*j]
		out[j] = ringmath.Ring16(uint16(sum))
	}
	return out, nil
}

// PairwiseDistance computes the replicated shares of the code dot product
// and the mask dot product between a query iris and one database/gallery
// entry, reconstructing each from its local TrickDot contribution via the
// §4.7 reshare step. The mask dot product is computed against whatever
// trimmed window the caller passes in db/query (callers needing both the
// left- and right-trimmed mask_dot call this twice with differently
// windowed iris pairs).
func PairwiseDistance(ctx context.Context, sess *session.Session, query, db GaloisRingSharedIris) (codeDot, maskDot ringshare.Share[ringmath.Ring16], err error) {
	if err := query.Validate(); err != nil {
		return ringshare.Share[ringmath.Ring16]{}, ringshare.Share[ringmath.Ring16]{}, err
	}
	if err := db.Validate(); err != nil {
		return ringshare.Share[ringmath.Ring16]{}, ringshare.Share[ringmath.Ring16]{}, err
	}

	localCode, err := TrickDot(ctx, query.Code, db.Code)
	if err != nil {
		return ringshare.Share[ringmath.Ring16]{}, ringshare.Share[ringmath.Ring16]{}, fmt.Errorf("galoisring: code dot: %w", err)
	}
	localMask, err := TrickDot(ctx, query.Mask, db.Mask)
	if err != nil {
		return ringshare.Share[ringmath.Ring16]{}, ringshare.Share[ringmath.Ring16]{}, fmt.Errorf("galoisring: mask dot: %w", err)
	}
	// The trimmed mask representation carries half the full mask's
	// coefficients, so its dot product must be doubled to compensate.
	localMask = localMask.Mul(2)

	reshared, err := protocol.ToRep3Ring16Batch(ctx, sess, []ringmath.Ring16{localCode, localMask})
	if err != nil {
		return ringshare.Share[ringmath.Ring16]{}, ringshare.Share[ringmath.Ring16]{}, fmt.Errorf("galoisring: reshare dot products: %w", err)
	}
	return reshared[0], reshared[1], nil
}

// BatchPairwiseDistance computes code/mask dot products for a query against
// many database entries in a single reshare round, amortizing the
// communication cost of §4.7's reshare step across the whole candidate
// batch instead of paying it once per candidate.
func BatchPairwiseDistance(ctx context.Context, sess *session.Session, query GaloisRingSharedIris, db []GaloisRingSharedIris) (codeDots, maskDots []ringshare.Share[ringmath.Ring16], err error) {
	if err := query.Validate(); err != nil {
		return nil, nil, err
	}
	codeVecs := make([]ringshare.VecShare[ringmath.Ring16], len(db))
	maskVecs := make([]ringshare.VecShare[ringmath.Ring16], len(db))
	for i, entry := range db {
		if err := entry.Validate(); err != nil {
			return nil, nil, err
		}
		codeVecs[i] = entry.Code
		maskVecs[i] = entry.Mask
	}

	codeDotsLocal, err := localDotBatch(ctx, DefaultBackend, query.Code, codeVecs)
	if err != nil {
		return nil, nil, fmt.Errorf("galoisring: batch code dot: %w", err)
	}
	maskDotsLocal, err := localDotBatch(ctx, DefaultBackend, query.Mask, maskVecs)
	if err != nil {
		return nil, nil, fmt.Errorf("galoisring: batch mask dot: %w", err)
	}

	local := make([]ringmath.Ring16, 0, 2*len(db))
	local = append(local, codeDotsLocal...)
	for _, md := range maskDotsLocal {
		// see PairwiseDistance: trimmed mask dot product must be doubled.
		local = append(local, md.Mul(2))
	}

	reshared, err := protocol.ToRep3Ring16Batch(ctx, sess, local)
	if err != nil {
		return nil, nil, fmt.Errorf("galoisring: batch reshare dot products: %w", err)
	}
	return reshared[:len(db)], reshared[len(db):], nil
}

// IsMatch reports whether the Hamming distance implied by (codeDot, maskDot)
// falls under the configured threshold, by delegating the fixed-point
// comparison to protocol.CompareThreshold.
func IsMatch(ctx context.Context, sess *session.Session, codeDot, maskDot ringshare.VecShare[ringmath.Ring16]) ([]ringshare.Share[ringmath.Bit], error) {
	return protocol.CompareThreshold(ctx, sess, codeDot, maskDot)
}

// IsDotZero reports, for each slot, whether the opened (reconstructed) dot
// product is exactly zero — used to detect degenerate all-masked comparisons
// the caller should exclude rather than treat as a genuine non-match.
func IsDotZero(ctx context.Context, sess *session.Session, dot ringshare.VecShare[ringmath.Ring16]) ([]bool, error) {
	out := make([]bool, dot.Len())
	for i, s := range dot.Items {
		v, err := protocol.OpenRing16(ctx, sess, s)
		if err != nil {
			return nil, fmt.Errorf("galoisring: opening dot product %d: %w", i, err)
		}
		out[i] = v == 0
	}
	return out, nil
}
