package ingest

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/nacl/box"
)

// sealAnonymous reproduces libsodium's crypto_box_seal: a fresh ephemeral
// key pair seals message for recipientPublic, with the nonce derived as
// blake2b(ephemeralPublic ‖ recipientPublic) so the sender never needs to
// transmit one. The ciphertext is ephemeralPublic ‖ box.Seal(...), letting
// any holder of recipientSecret open it without knowing who sent it.
func sealAnonymous(message []byte, recipientPublic *[32]byte) ([]byte, error) {
	ephPub, ephSec, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("ingest: generating ephemeral key: %w", err)
	}
	nonce, err := sealedBoxNonce(ephPub, recipientPublic)
	if err != nil {
		return nil, err
	}
	sealed := box.Seal(nil, message, &nonce, recipientPublic, ephSec)
	out := make([]byte, 0, len(ephPub)+len(sealed))
	out = append(out, ephPub[:]...)
	out = append(out, sealed...)
	return out, nil
}

// openAnonymous is the receiving half of sealAnonymous: it reads the
// ephemeral public key off the front of ciphertext, rederives the same
// nonce, and opens the box with the recipient's own secret key.
func openAnonymous(ciphertext []byte, recipient KeyPair) ([]byte, bool) {
	if len(ciphertext) < 32 {
		return nil, false
	}
	var ephPub [32]byte
	copy(ephPub[:], ciphertext[:32])
	nonce, err := sealedBoxNonce(&ephPub, recipient.Public)
	if err != nil {
		return nil, false
	}
	return box.Open(nil, ciphertext[32:], &nonce, &ephPub, recipient.Secret)
}

// sealedBoxNonce derives the 24-byte box nonce from blake2b(ephemeralPublic
// ‖ recipientPublic), as crypto_box_seal specifies.
func sealedBoxNonce(ephemeralPublic, recipientPublic *[32]byte) ([24]byte, error) {
	var nonce [24]byte
	h, err := blake2b.New(24, nil)
	if err != nil {
		return nonce, fmt.Errorf("ingest: building blake2b nonce hash: %w", err)
	}
	h.Write(ephemeralPublic[:])
	h.Write(recipientPublic[:])
	copy(nonce[:], h.Sum(nil))
	return nonce, nil
}
