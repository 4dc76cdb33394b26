// Package galoisring implements the Galois-ring packed distance engine:
// iris codes and masks shared bitwise in Z_2^16 "tricked" form, the local
// dot-product building block, and the reshare step that turns an additive
// dot product into a proper replicated share.
package galoisring

import (
	"fmt"

	"github.com/irismpc/core/pkg/ringmath"
	"github.com/irismpc/core/pkg/ringshare"
)

// GaloisRingSharedIris is one party's replicated share of an iris code and
// its mask, packed into the Galois ring representation the GPU/CPU GEMM
// path operates on: each Ring16 slot holds several packed bits.
type GaloisRingSharedIris struct {
	Code ringshare.VecShare[ringmath.Ring16]
	Mask ringshare.VecShare[ringmath.Ring16]
}

// Len reports the packed code length; Code and Mask always carry the same
// length.
func (g GaloisRingSharedIris) Len() int { return g.Code.Len() }

// Validate checks the code/mask length invariant.
func (g GaloisRingSharedIris) Validate() error {
	if g.Code.Len() != g.Mask.Len() {
		return fmt.Errorf("galoisring: code/mask length mismatch %d != %d", g.Code.Len(), g.Mask.Len())
	}
	return nil
}

// TrimWindow selects the same contiguous packed-slot window of both the
// code and the mask (the end is clamped to the mask length), modeling
// the rotation-trimmed mask variants the full distance computation needs
// one of per candidate rotation (mask_dot is computed once per trim).
func (g GaloisRingSharedIris) TrimWindow(start, length int) GaloisRingSharedIris {
	end := start + length
	if end > g.Mask.Len() {
		end = g.Mask.Len()
	}
	return GaloisRingSharedIris{
		Code: ringshare.VecShare[ringmath.Ring16]{Items: g.Code.Items[start:end]},
		Mask: ringshare.VecShare[ringmath.Ring16]{Items: g.Mask.Items[start:end]},
	}
}
