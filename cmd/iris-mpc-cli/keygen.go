package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/curve25519"

	"github.com/irismpc/core/pkg/ingest"
)

var keygenOutputDir string

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an X25519 sealed-box key pair for one party",
	Long: `Writes secret.key and public.key (32 raw bytes each) to the given
directory, for use with ingest --current-secret-key.`,
	RunE: runKeygen,
}

func init() {
	keygenCmd.Flags().StringVarP(&keygenOutputDir, "output-dir", "o", ".", "directory to write secret.key and public.key into")
}

func runKeygen(cmd *cobra.Command, args []string) error {
	kp, err := ingest.GenerateKeyPair()
	if err != nil {
		return fmt.Errorf("keygen: %w", err)
	}
	if err := os.MkdirAll(keygenOutputDir, 0755); err != nil {
		return fmt.Errorf("keygen: creating output directory: %w", err)
	}
	secretPath := keygenOutputDir + "/secret.key"
	publicPath := keygenOutputDir + "/public.key"
	if err := os.WriteFile(secretPath, kp.Secret[:], 0600); err != nil {
		return fmt.Errorf("keygen: writing secret key: %w", err)
	}
	if err := os.WriteFile(publicPath, kp.Public[:], 0644); err != nil {
		return fmt.Errorf("keygen: writing public key: %w", err)
	}
	fmt.Printf("wrote %s and %s\n", secretPath, publicPath)
	return nil
}

func readSecretKey(path string) (*[32]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data) != 32 {
		return nil, fmt.Errorf("%s: expected 32 bytes, got %d", path, len(data))
	}
	var key [32]byte
	copy(key[:], data)
	return &key, nil
}

func derivePublicKey(secret *[32]byte) (*[32]byte, error) {
	pub, err := curve25519.X25519(secret[:], curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("deriving public key: %w", err)
	}
	var out [32]byte
	copy(out[:], pub)
	return &out, nil
}
