package e2e_test

import (
	"context"

	"github.com/irismpc/core/pkg/ringmath"
	"github.com/irismpc/core/pkg/ringshare"
	"github.com/irismpc/core/pkg/session"
	"github.com/irismpc/core/pkg/transport"
	"github.com/irismpc/core/pkg/xhash"
	"github.com/irismpc/core/pkg/xparty"
)

// newSessions builds three sessions wired together over a fresh in-memory
// transport and runs the replicated-PRF handshake on all of them, ready for
// a protocol round to run across the returned [3]*session.Session in
// parallel goroutines, one per role.
func newSessions(label string) ([3]*session.Session, error) {
	routing, err := xparty.NewRoutingTable(
		xparty.Identity{Role: xparty.Role0, ID: 0, Address: "e2e-0"},
		xparty.Identity{Role: xparty.Role1, ID: 1, Address: "e2e-1"},
		xparty.Identity{Role: xparty.Role2, ID: 2, Address: "e2e-2"},
	)
	if err != nil {
		return [3]*session.Session{}, err
	}
	tr := transport.NewInMemory()
	id := xhash.BytesWithDomain("e2e-test", []byte(label))
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
		if err := <-errs; err != nil {
			return [3]*session.Session{}, err
		}
	}
	return sessions, nil
}

// additiveAt builds a degenerate replicated share carrying the whole
// cleartext vector in Role0's a-coordinate, letting a test construct a
// known input without running an actual sharing protocol.
func additiveAt(own xparty.Role, values []uint16) ringshare.VecShare[ringmath.Ring16] {
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

// runOnAllRoles runs fn concurrently once per role over sessions, and
// collects either all three results or the first error.
func runOnAllRoles(sessions [3]*session.Session, fn func(sess *session.Session, own xparty.Role) (any, error)) ([3]any, error) {
	type outcome struct {
		role xparty.Role
		val  any
		err  error
	}
	results := make(chan outcome, 3)
	for _, r := range []xparty.Role{xparty.Role0, xparty.Role1, xparty.Role2} {
		r := r
		go func() {
			val, err := fn(sessions[r], r)
			results <- outcome{role: r, val: val, err: err}
		}()
	}
	var out [3]any
	for range sessions {
		o := <-results
		if o.err != nil {
			return out, o.err
		}
		out[o.role] = o.val
	}
	return out, nil
}
