package matchflow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/irismpc/core/pkg/galoisring"
	"github.com/irismpc/core/pkg/matchflow"
	"github.com/irismpc/core/pkg/ringmath"
	"github.com/irismpc/core/pkg/ringshare"
	"github.com/irismpc/core/pkg/session"
	"github.com/irismpc/core/pkg/transport"
	"github.com/irismpc/core/pkg/xhash"
	"github.com/irismpc/core/pkg/xparty"
)

// additiveShareAtRole0 puts the whole cleartext value in Role0's a-
// coordinate, a valid (degenerate) sharing convenient for deterministic
// test construction.
func additiveShareAtRole0(own xparty.Role, values []uint16) ringshare.VecShare[ringmath.Ring16] {
	items := make([]ringshare.Share[ringmath.Ring16], len(values))
	for i, v := range values {
		switch own {
		case xparty.Role0:
			items[i] = ringshare.Share[ringmath.Ring16]{A: ringmath.Ring16(v)}
		case xparty.Role1:
			items[i] = ringshare.Share[ringmath.Ring16]{B: ringmath.Ring16(v)}
		default:
		}
	}
	return ringshare.VecShare[ringmath.Ring16]{Items: items}
}

func buildSessions(t *testing.T) [3]*session.Session {
	t.Helper()
	routing, err := xparty.NewRoutingTable(
		xparty.Identity{Role: xparty.Role0, ID: 0, Address: "p0"},
		xparty.Identity{Role: xparty.Role1, ID: 1, Address: "p1"},
		xparty.Identity{Role: xparty.Role2, ID: 2, Address: "p2"},
	)
	require.NoError(t, err)
	tr := transport.NewInMemory()
	id := xhash.BytesWithDomain("matchflow-test", []byte("s"))
	var sessions [3]*session.Session
	for _, r := range []xparty.Role{xparty.Role0, xparty.Role1, xparty.Role2} {
		sessions[r] = session.New(r, routing, tr, id)
	}
	ctx := context.Background()
	errs := make(chan error, 3)
	for _, s := range sessions {
		s := s
		go func() { errs <- s.SetupReplicatedPRF(ctx) }()
	}
	for range sessions {
		require.NoError(t, <-errs)
	}
	return sessions
}

func TestRunFindsIdenticalEntry(t *testing.T) {
	sessions := buildSessions(t)

	code := []uint16{1, 1, 1, 1}
	mask := []uint16{1, 1, 1, 1}

	ctx := context.Background()
	results := make(chan matchflow.MatchResult, 3)
	errs := make(chan error, 3)
	for r := 0; r < 3; r++ {
		r := r
		go func() {
			query := galoisring.GaloisRingSharedIris{
				Code: additiveShareAtRole0(xparty.Role(r), code),
				Mask: additiveShareAtRole0(xparty.Role(r), mask),
			}
			identical := galoisring.GaloisRingSharedIris{
				Code: additiveShareAtRole0(xparty.Role(r), code),
				Mask: additiveShareAtRole0(xparty.Role(r), mask),
			}
			shards := []matchflow.Shard{
				{Index: 0, GlobalOffset: 0, Entries: []galoisring.GaloisRingSharedIris{identical}},
			}
			res, err := matchflow.Run(ctx, sessions[r], query, shards)
			if err != nil {
				errs <- err
				return
			}
			results <- res
		}()
	}

	for i := 0; i < 3; i++ {
		select {
		case err := <-errs:
			t.Fatalf("matchflow.Run failed: %v", err)
		case res := <-results:
			require.NotNil(t, res.DBIndex)
			require.Equal(t, uint32(0), *res.DBIndex)
		}
	}
}

func TestRunNoMatch(t *testing.T) {
	sessions := buildSessions(t)

	queryCode := []uint16{0, 0, 0, 0}
	queryMask := []uint16{1, 1, 1, 1}
	dbCode := []uint16{1, 1, 1, 1}
	dbMask := []uint16{1, 1, 1, 1}

	ctx := context.Background()
	results := make(chan matchflow.MatchResult, 3)
	errs := make(chan error, 3)
	for r := 0; r < 3; r++ {
		r := r
		go func() {
			query := galoisring.GaloisRingSharedIris{
				Code: additiveShareAtRole0(xparty.Role(r), queryCode),
				Mask: additiveShareAtRole0(xparty.Role(r), queryMask),
			}
			entry := galoisring.GaloisRingSharedIris{
				Code: additiveShareAtRole0(xparty.Role(r), dbCode),
				Mask: additiveShareAtRole0(xparty.Role(r), dbMask),
			}
			shards := []matchflow.Shard{
				{Index: 0, GlobalOffset: 0, Entries: []galoisring.GaloisRingSharedIris{entry}},
			}
			res, err := matchflow.Run(ctx, sessions[r], query, shards)
			if err != nil {
				errs <- err
				return
			}
			results <- res
		}()
	}

	for i := 0; i < 3; i++ {
		select {
		case err := <-errs:
			t.Fatalf("matchflow.Run failed: %v", err)
		case res := <-results:
			require.Nil(t, res.DBIndex)
		}
	}
}
