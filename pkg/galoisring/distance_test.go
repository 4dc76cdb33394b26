package galoisring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/irismpc/core/pkg/ringmath"
	"github.com/irismpc/core/pkg/ringshare"
	"github.com/irismpc/core/pkg/session"
	"github.com/irismpc/core/pkg/transport"
	"github.com/irismpc/core/pkg/xhash"
	"github.com/irismpc/core/pkg/xparty"
)

func newThreePartySessions(t *testing.T) [3]*session.Session {
	t.Helper()
	routing, err := xparty.NewRoutingTable(
		xparty.Identity{Role: xparty.Role0, ID: 0, Address: "p0"},
		xparty.Identity{Role: xparty.Role1, ID: 1, Address: "p1"},
		xparty.Identity{Role: xparty.Role2, ID: 2, Address: "p2"},
	)
	require.NoError(t, err)
	tr := transport.NewInMemory()
	id := xhash.BytesWithDomain("test", []byte("session"))
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

// shareRing16 splits plaintext values into a naive replicated sharing where
// party 0 holds the whole secret as its a-coordinate, party 1 mirrors it as
// its b-coordinate, and every other coordinate is zero, for test
// construction convenience (any valid sharing works).
func shareRing16(values []uint16) [3]ringshare.VecShare[ringmath.Ring16] {
	var out [3]ringshare.VecShare[ringmath.Ring16]
	for r := 0; r < 3; r++ {
		items := make([]ringshare.Share[ringmath.Ring16], len(values))
		for i, v := range values {
			switch xparty.Role(r) {
			case xparty.Role0:
				items[i] = ringshare.Share[ringmath.Ring16]{A: ringmath.Ring16(v), B: 0}
			case xparty.Role1:
				items[i] = ringshare.Share[ringmath.Ring16]{A: 0, B: ringmath.Ring16(v)}
			default:
				items[i] = ringshare.Share[ringmath.Ring16]{A: 0, B: 0}
			}
		}
		out[r] = ringshare.VecShare[ringmath.Ring16]{Items: items}
	}
	return out
}

func TestPairwiseDistanceMatchesPlaintextDot(t *testing.T) {
	sessions := newThreePartySessions(t)

	code := []uint16{1, 2, 3, 4}
	mask := []uint16{1, 1, 1, 1}
	codeShares := shareRing16(code)
	maskShares := shareRing16(mask)

	ctx := context.Background()
	type result struct {
		codeDot, maskDot ringshare.Share[ringmath.Ring16]
		err              error
	}
	results := make(chan result, 3)
	for r := 0; r < 3; r++ {
		r := r
		go func() {
			query := GaloisRingSharedIris{Code: codeShares[r], Mask: maskShares[r]}
			db := GaloisRingSharedIris{Code: codeShares[r], Mask: maskShares[r]}
			cd, md, err := PairwiseDistance(ctx, sessions[r], query, db)
			results <- result{cd, md, err}
		}()
	}

	var gathered [3]result
	for i := 0; i < 3; i++ {
		res := <-results
		require.NoError(t, res.err)
		gathered[i] = res
	}

	wantCode := uint16(0)
	for _, v := range code {
		wantCode += v * v
	}
	wantMask := uint16(0)
	for _, v := range mask {
		wantMask += v * v
	}
	wantMask *= 2

	gotCode := uint16(gathered[0].codeDot.A) + uint16(gathered[1].codeDot.A) + uint16(gathered[2].codeDot.A)
	gotMask := uint16(gathered[0].maskDot.A) + uint16(gathered[1].maskDot.A) + uint16(gathered[2].maskDot.A)

	require.Equal(t, wantCode, gotCode)
	require.Equal(t, wantMask, gotMask)
}
