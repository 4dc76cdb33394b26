// Package transport defines the network boundary the protocol layer sends
// and receives wire.NetworkValue frames across, plus an in-memory reference
// implementation used by tests, simulation and the demo CLI. A production
// deployment supplies its own Transport over the real enqueue/dequeue
// system; wiring that system is out of scope here.
package transport

import (
	"context"

	"github.com/irismpc/core/pkg/wire"
	"github.com/irismpc/core/pkg/xhash"
	"github.com/irismpc/core/pkg/xparty"
)

// Transport delivers NetworkValue frames between two named parties within
// one session, in FIFO order per (from, to, session) triple.
type Transport interface {
	Send(ctx context.Context, from, to xparty.Role, session xhash.Digest, v wire.NetworkValue) error
	Receive(ctx context.Context, from, to xparty.Role, session xhash.Digest) (wire.NetworkValue, error)
}
