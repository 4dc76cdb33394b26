// Package matchflow orchestrates the full per-query match decision: shard
// scanning, reshare, threshold comparison, opening, and first-match
// selection with a stable tie-break, matching §4.9 of the engine design.
package matchflow

import (
	"context"
	"fmt"

	"github.com/irismpc/core/pkg/galoisring"
	"github.com/irismpc/core/pkg/protocol"
	"github.com/irismpc/core/pkg/ringmath"
	"github.com/irismpc/core/pkg/ringshare"
	"github.com/irismpc/core/pkg/session"
)

// Shard is one contiguous slice of the gallery database, carrying its
// index within the database for the tie-break rule.
type Shard struct {
	Index        int
	GlobalOffset uint32
	Entries      []galoisring.GaloisRingSharedIris
}

// MatchResult is the outcome of one query: the matching database index, or
// none.
type MatchResult struct {
	DBIndex *uint32
}

// candidate is a globally-ordered position within the database, used to
// break ties between shards deterministically.
type candidate struct {
	shardIndex      int
	intraShardIndex int
	globalIndex     uint32
}

func (c candidate) lessThan(o candidate) bool {
	if c.shardIndex != o.shardIndex {
		return c.shardIndex < o.shardIndex
	}
	return c.intraShardIndex < o.intraShardIndex
}

// Run executes the full match flow for one query against all shards: for
// each shard it computes additive dot products, reshares them, compares
// against the threshold, opens the resulting bit vector, and scans it
// left-to-right for the first match; across shards the lowest
// (shard_index, intra_shard_index) match wins.
func Run(ctx context.Context, sess *session.Session, query galoisring.GaloisRingSharedIris, shards []Shard) (MatchResult, error) {
	var best *candidate

	for _, shard := range shards {
		if len(shard.Entries) == 0 {
			continue
		}
		codeDots, maskDots, err := galoisring.BatchPairwiseDistance(ctx, sess, query, shard.Entries)
		if err != nil {
			return MatchResult{}, fmt.Errorf("matchflow: shard %d distance: %w", shard.Index, err)
		}
		codeVec := ringshare.VecShare[ringmath.Ring16]{Items: codeDots}
		maskVec := ringshare.VecShare[ringmath.Ring16]{Items: maskDots}

		bits, err := protocol.CompareThreshold(ctx, sess, codeVec, maskVec)
		if err != nil {
			return MatchResult{}, fmt.Errorf("matchflow: shard %d threshold: %w", shard.Index, err)
		}

		for i, bitShare := range bits {
			opened, err := protocol.OpenBit(ctx, sess, bitShare)
			if err != nil {
				return MatchResult{}, fmt.Errorf("matchflow: shard %d opening bit %d: %w", shard.Index, i, err)
			}
			if opened == 0 {
				continue
			}
			cand := candidate{shardIndex: shard.Index, intraShardIndex: i, globalIndex: shard.GlobalOffset + uint32(i)}
			if best == nil || cand.lessThan(*best) {
				best = &cand
			}
			// The first true bit within a shard wins; no need to keep
			// scanning this shard past it.
			break
		}
	}

	if best == nil {
		return MatchResult{}, nil
	}
	idx := best.globalIndex
	return MatchResult{DBIndex: &idx}, nil
}
