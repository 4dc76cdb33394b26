package e2e_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/irismpc/core/pkg/ingest"
)

var _ = Describe("Sealed-box ingestion", func() {
	It("round-trips an iris-share record through seal and decrypt", func() {
		kp, err := ingest.GenerateKeyPair()
		Expect(err).NotTo(HaveOccurred())

		record := ingest.IrisCodesJSON{
			IrisVersion:         "1.0",
			IrisSharesVersion:   "1.0",
			LeftIrisCodeShares:  "left-code-share",
			RightIrisCodeShares: "right-code-share",
			LeftMaskCodeShares:  "left-mask-share",
			RightMaskCodeShares: "right-mask-share",
		}

		sealed, err := ingest.SealForKey(record, kp.Public)
		Expect(err).NotTo(HaveOccurred())

		decrypted, err := ingest.DecryptIrisShare(sealed, ingest.EncryptionKeyPairs{Current: kp})
		Expect(err).NotTo(HaveOccurred())
		Expect(decrypted).To(Equal(record))
	})

	It("still decrypts after a key rotation using the previous key", func() {
		oldKP, err := ingest.GenerateKeyPair()
		Expect(err).NotTo(HaveOccurred())
		newKP, err := ingest.GenerateKeyPair()
		Expect(err).NotTo(HaveOccurred())

		record := ingest.IrisCodesJSON{IrisVersion: "1.0", IrisSharesVersion: "1.0"}
		sealed, err := ingest.SealForKey(record, oldKP.Public)
		Expect(err).NotTo(HaveOccurred())

		keys := ingest.EncryptionKeyPairs{Current: newKP, Previous: &oldKP}
		decrypted, err := ingest.DecryptIrisShare(sealed, keys)
		Expect(err).NotTo(HaveOccurred())
		Expect(decrypted).To(Equal(record))
	})
})
