// Package session ties together a party's Role, its routing table, its
// Transport, and the correlated PRF pair set up for the session, exactly
// mirroring setup_replicated_prf in the original protocol core.
package session

import (
	"context"
	"fmt"

	"github.com/irismpc/core/pkg/prfpair"
	"github.com/irismpc/core/pkg/transport"
	"github.com/irismpc/core/pkg/wire"
	"github.com/irismpc/core/pkg/xhash"
	"github.com/irismpc/core/pkg/xparty"
)

// Session is the per-party handle threaded through every protocol
// operation: who we are, how to reach the other two parties, and the
// correlated randomness set up for this run.
type Session struct {
	Own       xparty.Role
	Routing   *xparty.RoutingTable
	Transport transport.Transport
	ID        xhash.Digest
	Prf       *prfpair.Prf
}

// New constructs a session with no PRF set up yet; call SetupReplicatedPRF
// before any share arithmetic that needs masking.
func New(own xparty.Role, routing *xparty.RoutingTable, t transport.Transport, id xhash.Digest) *Session {
	return &Session{Own: own, Routing: routing, Transport: t, ID: id}
}

// DeriveID computes a session id from a request identifier, the three
// party identities, and a nonce, binding ingestion requests to a concrete
// protocol run (§3 SessionID).
func DeriveID(requestID string, routing *xparty.RoutingTable, nonce []byte) xhash.Digest {
	parts := [][]byte{[]byte(requestID)}
	for _, id := range routing.All() {
		parts = append(parts, []byte(id.Address))
	}
	parts = append(parts, nonce)
	return xhash.BytesWithDomain("iris-mpc/session-id", parts...)
}

// SetupReplicatedPRF implements the correlated-randomness handshake: each
// party draws a fresh seed, sends it to its next neighbor, and receives one
// from its previous neighbor, exactly as ops.rs::setup_replicated_prf does.
func (s *Session) SetupReplicatedPRF(ctx context.Context) error {
	mineSeed, err := prfpair.NewRandomSeed()
	if err != nil {
		return fmt.Errorf("session: generating prf seed: %w", err)
	}

	next := s.Own.Next()
	prev := s.Own.Prev()

	if err := s.Transport.Send(ctx, s.Own, next, s.ID, wire.PrfKey(mineSeed[:])); err != nil {
		return fmt.Errorf("session: sending prf seed to %s: %w", next, err)
	}

	theirsVal, err := s.Transport.Receive(ctx, prev, s.Own, s.ID)
	if err != nil {
		return fmt.Errorf("session: receiving prf seed from %s: %w", prev, err)
	}
	theirsBytes, err := theirsVal.AsPrfKey()
	if err != nil {
		return fmt.Errorf("session: decoding prf seed from %s: %w", prev, err)
	}
	if len(theirsBytes) != prfpair.SeedSize {
		return fmt.Errorf("session: prf seed from %s has wrong length %d", prev, len(theirsBytes))
	}
	var theirsSeed prfpair.Seed
	copy(theirsSeed[:], theirsBytes)

	prf, err := prfpair.NewPrf(mineSeed, theirsSeed)
	if err != nil {
		return fmt.Errorf("session: building prf pair: %w", err)
	}
	s.Prf = prf
	return nil
}

// Send delivers v to role to on this session's link.
func (s *Session) Send(ctx context.Context, to xparty.Role, v wire.NetworkValue) error {
	return s.Transport.Send(ctx, s.Own, to, s.ID, v)
}

// Receive waits for the next value sent by role from on this session's link.
func (s *Session) Receive(ctx context.Context, from xparty.Role) (wire.NetworkValue, error) {
	return s.Transport.Receive(ctx, from, s.Own, s.ID)
}
