package ingest

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/nacl/box"
)

// KeyPair is one X25519 (public, secret) pair used for sealed-box
// decryption.
type KeyPair struct {
	Public *[32]byte
	Secret *[32]byte
}

// GenerateKeyPair draws a fresh X25519 key pair.
func GenerateKeyPair() (KeyPair, error) {
	pub, sec, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, fmt.Errorf("ingest: generating key pair: %w", err)
	}
	return KeyPair{Public: pub, Secret: sec}, nil
}

// EncryptionKeyPairs holds the process's current key pair and, during a key
// rotation window, the previous one — decryption tries current first, then
// falls back to previous.
type EncryptionKeyPairs struct {
	Current  KeyPair
	Previous *KeyPair
}
