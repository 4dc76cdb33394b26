package e2e_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/irismpc/core/pkg/galoisring"
	"github.com/irismpc/core/pkg/protocol"
	"github.com/irismpc/core/pkg/ringmath"
	"github.com/irismpc/core/pkg/ringshare"
	"github.com/irismpc/core/pkg/session"
	"github.com/irismpc/core/pkg/xparty"
)

var _ = Describe("Session setup", func() {
	It("completes the replicated-PRF handshake across all three roles", func() {
		sessions, err := newSessions("setup")
		Expect(err).NotTo(HaveOccurred())
		for _, s := range sessions {
			Expect(s).NotTo(BeNil())
		}
	})
})

var _ = Describe("Cross-multiplication via lift", func() {
	It("computes (d1*t2, d2*t1) for shares of (1,2,3,4)", func() {
		sessions, err := newSessions("cross-mul")
		Expect(err).NotTo(HaveOccurred())
		ctx := context.Background()

		results, err := runOnAllRoles(sessions, func(sess *session.Session, own xparty.Role) (any, error) {
			d1 := additiveAt(own, []uint16{1})
			t1 := additiveAt(own, []uint16{2})
			d2 := additiveAt(own, []uint16{3})
			t2 := additiveAt(own, []uint16{4})

			cross1, cross2, err := protocol.CrossMulViaLift(ctx, sess, d1, t1, d2, t2)
			if err != nil {
				return nil, err
			}
			c1, err := protocol.OpenRing32(ctx, sess, cross1.Items[0])
			if err != nil {
				return nil, err
			}
			c2, err := protocol.OpenRing32(ctx, sess, cross2.Items[0])
			if err != nil {
				return nil, err
			}
			return [2]ringmath.Ring32{c1, c2}, nil
		})
		Expect(err).NotTo(HaveOccurred())
		for _, r := range results {
			pair := r.([2]ringmath.Ring32)
			Expect(pair[0]).To(Equal(ringmath.Ring32(4)))
			Expect(pair[1]).To(Equal(ringmath.Ring32(6)))
		}
	})
})

var _ = Describe("Threshold comparison", func() {
	It("reports a match when the Hamming distance is well under the threshold", func() {
		sessions, err := newSessions("threshold-match")
		Expect(err).NotTo(HaveOccurred())
		ctx := context.Background()

		results, err := runOnAllRoles(sessions, func(sess *session.Session, own xparty.Role) (any, error) {
			codeDot := additiveAt(own, []uint16{4})
			maskDot := additiveAt(own, []uint16{2})
			bits, err := protocol.CompareThreshold(ctx, sess, codeDot, maskDot)
			if err != nil {
				return nil, err
			}
			opened, err := protocol.OpenBit(ctx, sess, bits[0])
			if err != nil {
				return nil, err
			}
			return opened, nil
		})
		Expect(err).NotTo(HaveOccurred())
		for _, r := range results {
			Expect(r).To(Equal(ringmath.Bit(1)))
		}
	})

	It("reports no match when the Hamming distance is well over the threshold", func() {
		sessions, err := newSessions("threshold-no-match")
		Expect(err).NotTo(HaveOccurred())
		ctx := context.Background()

		results, err := runOnAllRoles(sessions, func(sess *session.Session, own xparty.Role) (any, error) {
			codeDot := additiveAt(own, []uint16{0})
			maskDot := additiveAt(own, []uint16{4})
			bits, err := protocol.CompareThreshold(ctx, sess, codeDot, maskDot)
			if err != nil {
				return nil, err
			}
			opened, err := protocol.OpenBit(ctx, sess, bits[0])
			if err != nil {
				return nil, err
			}
			return opened, nil
		})
		Expect(err).NotTo(HaveOccurred())
		for _, r := range results {
			Expect(r).To(Equal(ringmath.Bit(0)))
		}
	})
})

var _ = Describe("Galois-ring pairwise distance into threshold comparison", func() {
	It("matches two identical small iris codes end to end", func() {
		sessions, err := newSessions("distance-match")
		Expect(err).NotTo(HaveOccurred())
		ctx := context.Background()

		results, err := runOnAllRoles(sessions, func(sess *session.Session, own xparty.Role) (any, error) {
			iris := galoisring.GaloisRingSharedIris{
				Code: additiveAt(own, []uint16{1, 1, 1, 1}),
				Mask: additiveAt(own, []uint16{1, 1, 1, 1}),
			}
			codeDot, maskDot, err := galoisring.PairwiseDistance(ctx, sess, iris, iris)
			if err != nil {
				return nil, err
			}
			bits, err := galoisring.IsMatch(ctx, sess,
				ringshare.VecShare[ringmath.Ring16]{Items: []ringshare.Share[ringmath.Ring16]{codeDot}},
				ringshare.VecShare[ringmath.Ring16]{Items: []ringshare.Share[ringmath.Ring16]{maskDot}},
			)
			if err != nil {
				return nil, err
			}
			return protocol.OpenBit(ctx, sess, bits[0])
		})
		Expect(err).NotTo(HaveOccurred())
		for _, r := range results {
			Expect(r).To(Equal(ringmath.Bit(1)))
		}
	})
})
