package protocol

import (
	"context"
	"fmt"

	"github.com/irismpc/core/pkg/ringmath"
	"github.com/irismpc/core/pkg/ringshare"
	"github.com/irismpc/core/pkg/session"
	"github.com/irismpc/core/pkg/xparty"
)

// ExtractMSBRing32 extracts bit 31 (the sign bit under a two's-complement
// reading) of each element of an arbitrary replicated Ring32 share, via the
// same degenerate-decomposition + ripple-carry-adder technique as
// Lift16To32, widened to 32 bits. Because mod-2^32 truncation simply
// discards carries above bit 31, the adder's own bit-31 output already is
// the MSB of the wrapped secret — no boolean-to-arithmetic conversion is
// needed, since single_extract_msb_u32 returns a boolean Share[Bit].
func ExtractMSBRing32(ctx context.Context, sess *session.Session, x ringshare.VecShare[ringmath.Ring32]) ([]ringshare.Share[ringmath.Bit], error) {
	own := sess.Own
	a0 := degenerateBits(own, x.Items, xparty.Role0, ring32Width, ring32BitsOf)
	a1 := degenerateBits(own, x.Items, xparty.Role1, ring32Width, ring32BitsOf)
	a2 := degenerateBits(own, x.Items, xparty.Role2, ring32Width, ring32BitsOf)

	sumBits, err := RippleCarryAdd3(ctx, sess, ring32Width, a0, a1, a2)
	if err != nil {
		return nil, fmt.Errorf("protocol: msb adder: %w", err)
	}
	return sumBits[ring32Width-1], nil
}
