package transport

import (
	"context"
	"fmt"
	"sync"

	"github.com/irismpc/core/pkg/wire"
	"github.com/irismpc/core/pkg/xhash"
	"github.com/irismpc/core/pkg/xparty"
)

// linkKey identifies one FIFO channel: a directed (from, to) pair within
// one session.
type linkKey struct {
	from    xparty.Role
	to      xparty.Role
	session xhash.Digest
}

const queueDepth = 256

// InMemory is a Transport backed by buffered Go channels, one per
// (from, to, session) triple, giving exact FIFO-per-link delivery without
// any real network hop. It is the reference implementation used by tests,
// `simulate`, and any single-process deployment.
type InMemory struct {
	mu    sync.Mutex
	links map[linkKey]chan wire.NetworkValue
}

// NewInMemory constructs an empty in-memory transport; all three parties in
// a simulation share the same instance.
func NewInMemory() *InMemory {
	return &InMemory{links: make(map[linkKey]chan wire.NetworkValue)}
}

func (m *InMemory) channel(key linkKey) chan wire.NetworkValue {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.links[key]
	if !ok {
		ch = make(chan wire.NetworkValue, queueDepth)
		m.links[key] = ch
	}
	return ch
}

// Send enqueues v on the (from, to, session) link. It blocks if the queue
// is full, honoring ctx cancellation.
func (m *InMemory) Send(ctx context.Context, from, to xparty.Role, session xhash.Digest, v wire.NetworkValue) error {
	ch := m.channel(linkKey{from: from, to: to, session: session})
	select {
	case ch <- v:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("transport: send %s->%s: %w", from, to, ctx.Err())
	}
}

// Receive dequeues the next value sent on the (from, to, session) link,
// blocking until one is available or ctx is cancelled.
func (m *InMemory) Receive(ctx context.Context, from, to xparty.Role, session xhash.Digest) (wire.NetworkValue, error) {
	ch := m.channel(linkKey{from: from, to: to, session: session})
	select {
	case v := <-ch:
		return v, nil
	case <-ctx.Done():
		return wire.NetworkValue{}, fmt.Errorf("transport: receive %s->%s: %w", from, to, ctx.Err())
	}
}
