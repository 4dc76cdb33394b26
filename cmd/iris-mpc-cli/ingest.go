package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/irismpc/core/pkg/ingest"
)

var (
	ingestCurrentKeyPath  string
	ingestPreviousKeyPath string
	ingestBundlePath      string
	ingestExpectedHash    string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Decrypt and validate one sealed-box iris-share bundle",
	Long: `Reads a base64 sealed-box ciphertext from a file, decrypts it with
the party's current key pair (falling back to the previous key pair to
tolerate a key rotation in flight), and optionally checks the decrypted
record's digest against an expected hex hash.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestCurrentKeyPath, "current-secret-key", "", "path to the current X25519 secret key (32 raw bytes, required)")
	ingestCmd.Flags().StringVar(&ingestPreviousKeyPath, "previous-secret-key", "", "path to the previous X25519 secret key, for rotation overlap")
	ingestCmd.Flags().StringVar(&ingestBundlePath, "bundle", "", "path to the base64 sealed-box ciphertext (required)")
	ingestCmd.Flags().StringVar(&ingestExpectedHash, "expected-hash", "", "expected hex SHA-256 digest of the canonical record, if known")
	ingestCmd.MarkFlagRequired("current-secret-key")
	ingestCmd.MarkFlagRequired("bundle")
}

func runIngest(cmd *cobra.Command, args []string) error {
	currentSecret, err := readSecretKey(ingestCurrentKeyPath)
	if err != nil {
		return fmt.Errorf("ingest: current key: %w", err)
	}
	currentPublic, err := derivePublicKey(currentSecret)
	if err != nil {
		return fmt.Errorf("ingest: current key: %w", err)
	}
	keys := ingest.EncryptionKeyPairs{Current: ingest.KeyPair{Public: currentPublic, Secret: currentSecret}}

	if ingestPreviousKeyPath != "" {
		prevSecret, err := readSecretKey(ingestPreviousKeyPath)
		if err != nil {
			return fmt.Errorf("ingest: previous key: %w", err)
		}
		prevPublic, err := derivePublicKey(prevSecret)
		if err != nil {
			return fmt.Errorf("ingest: previous key: %w", err)
		}
		keys.Previous = &ingest.KeyPair{Public: prevPublic, Secret: prevSecret}
	}

	bundle, err := os.ReadFile(ingestBundlePath)
	if err != nil {
		return fmt.Errorf("ingest: reading bundle: %w", err)
	}

	record, err := ingest.DecryptIrisShare(string(bundle), keys)
	if err != nil {
		return fmt.Errorf("ingest: decrypt: %w", err)
	}

	if ingestExpectedHash != "" {
		ok, err := ingest.ValidateIrisShare(record, ingestExpectedHash)
		if err != nil {
			return fmt.Errorf("ingest: validate: %w", err)
		}
		if !ok {
			return fmt.Errorf("ingest: decrypted record does not match expected hash")
		}
		fmt.Println("hash OK")
	}

	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("ingest: marshal: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
