// Package ringshare implements the replicated (2-out-of-3) secret sharing
// primitive the whole engine is built on: Share[T] and its batched form
// VecShare[T]. A Share[T] held by party i carries (A, B) with the invariant
// that B equals the A held by party i's predecessor around the ring, so the
// three A components sum (in T's ring) to the secret.
package ringshare

import (
	"fmt"

	"github.com/irismpc/core/pkg/ringmath"
	"github.com/irismpc/core/pkg/xparty"
)

// Share is one party's replicated share of a secret value in ring T.
type Share[T ringmath.Element[T]] struct {
	A T
	B T
}

// New builds a share directly from its two components.
func New[T ringmath.Element[T]](a, b T) Share[T] { return Share[T]{A: a, B: b} }

// Add returns the componentwise sum of two shares of the same ring.
// Local: no communication.
func (s Share[T]) Add(o Share[T]) Share[T] {
	return Share[T]{A: s.A.Add(o.A), B: s.B.Add(o.B)}
}

// Sub returns the componentwise difference of two shares.
// Local: no communication.
func (s Share[T]) Sub(o Share[T]) Share[T] {
	return Share[T]{A: s.A.Sub(o.A), B: s.B.Sub(o.B)}
}

// MulPublic scales both components by a public (non-secret) ring constant.
// Local: no communication.
func (s Share[T]) MulPublic(c T) Share[T] {
	return Share[T]{A: s.A.Mul(c), B: s.B.Mul(c)}
}

// AddConstRoleByRole adds a public constant to the secret, observing the
// convention that one party (Role0, by protocol-wide agreement) folds the
// constant into its own A component; Role1, whose B mirrors Role0's A,
// folds it into B, and Role2 leaves its share untouched, so the replicated
// invariant holds and the sum still reconstructs correctly.
func (s Share[T]) AddConstRoleByRole(own xparty.Role, c T) Share[T] {
	var zero T
	switch own {
	case xparty.Role0:
		return s.Add(Share[T]{A: c, B: zero})
	case xparty.Role1:
		return s.Add(Share[T]{A: zero, B: c})
	default:
		return s
	}
}

// degenerateZero returns the additive identity of T by zeroing an existing
// element; used where a literal zero value of a generic ring type is
// needed and T has no default-construction guarantee beyond its zero value.
func degenerateZero[T ringmath.Element[T]](sample T) T {
	return sample.Sub(sample)
}

// VecShare is a batch of shares of the same ring, processed together so a
// single protocol round can cover many values at once.
type VecShare[T ringmath.Element[T]] struct {
	Items []Share[T]
}

// NewVec wraps a slice of shares as a VecShare.
func NewVec[T ringmath.Element[T]](items []Share[T]) VecShare[T] {
	return VecShare[T]{Items: items}
}

// Len reports the batch size.
func (v VecShare[T]) Len() int { return len(v.Items) }

// Add returns the elementwise sum of two equal-length batches.
func (v VecShare[T]) Add(o VecShare[T]) (VecShare[T], error) {
	if len(v.Items) != len(o.Items) {
		return VecShare[T]{}, fmt.Errorf("ringshare: vector length mismatch %d != %d", len(v.Items), len(o.Items))
	}
	out := make([]Share[T], len(v.Items))
	for i := range v.Items {
		out[i] = v.Items[i].Add(o.Items[i])
	}
	return VecShare[T]{Items: out}, nil
}

// Sub returns the elementwise difference of two equal-length batches.
func (v VecShare[T]) Sub(o VecShare[T]) (VecShare[T], error) {
	if len(v.Items) != len(o.Items) {
		return VecShare[T]{}, fmt.Errorf("ringshare: vector length mismatch %d != %d", len(v.Items), len(o.Items))
	}
	out := make([]Share[T], len(v.Items))
	for i := range v.Items {
		out[i] = v.Items[i].Sub(o.Items[i])
	}
	return VecShare[T]{Items: out}, nil
}

// MulPublic scales every element by the same public constant.
func (v VecShare[T]) MulPublic(c T) VecShare[T] {
	out := make([]Share[T], len(v.Items))
	for i := range v.Items {
		out[i] = v.Items[i].MulPublic(c)
	}
	return VecShare[T]{Items: out}
}

// As returns the component slices (A, B) of the batch, convenient for
// wire encoding.
func (v VecShare[T]) As() (a []T, b []T) {
	a = make([]T, len(v.Items))
	b = make([]T, len(v.Items))
	for i, it := range v.Items {
		a[i] = it.A
		b[i] = it.B
	}
	return a, b
}

// FromComponents rebuilds a VecShare from parallel A/B slices, as received
// off the wire.
func FromComponents[T ringmath.Element[T]](a, b []T) (VecShare[T], error) {
	if len(a) != len(b) {
		return VecShare[T]{}, fmt.Errorf("ringshare: component length mismatch %d != %d", len(a), len(b))
	}
	items := make([]Share[T], len(a))
	for i := range a {
		items[i] = Share[T]{A: a[i], B: b[i]}
	}
	return VecShare[T]{Items: items}, nil
}
