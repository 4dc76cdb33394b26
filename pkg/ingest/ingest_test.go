package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleRecord() IrisCodesJSON {
	return IrisCodesJSON{
		IrisVersion:         "1.0",
		IrisSharesVersion:   "1.3",
		LeftIrisCodeShares:  "bGVmdF9pcmlzX2NvZGVfbW9jaw==",
		RightIrisCodeShares: "cmlnaHRfaXJpc19jb2RlX21vY2s=",
		LeftMaskCodeShares:  "bGVmdF9tYXNrX2NvZGVfbW9jaw==",
		RightMaskCodeShares: "cmlnaHRfbWFza19jb2RlX21vY2s=",
	}
}

func TestDecryptIrisShareRoundTrip(t *testing.T) {
	current, err := GenerateKeyPair()
	require.NoError(t, err)

	record := sampleRecord()
	sealedB64, err := SealForKey(record, current.Public)
	require.NoError(t, err)

	got, err := DecryptIrisShare(sealedB64, EncryptionKeyPairs{Current: current})
	require.NoError(t, err)
	require.Equal(t, record, got)
}

func TestDecryptIrisShareRotatedKey(t *testing.T) {
	previous, err := GenerateKeyPair()
	require.NoError(t, err)
	current, err := GenerateKeyPair()
	require.NoError(t, err)

	record := sampleRecord()
	sealedB64, err := SealForKey(record, previous.Public)
	require.NoError(t, err)

	got, err := DecryptIrisShare(sealedB64, EncryptionKeyPairs{Current: current, Previous: &previous})
	require.NoError(t, err)
	require.Equal(t, record, got)
}

func TestDecryptIrisShareInvalidBase64(t *testing.T) {
	current, err := GenerateKeyPair()
	require.NoError(t, err)

	_, err = DecryptIrisShare("not-valid-base64!!!", EncryptionKeyPairs{Current: current})
	require.Error(t, err)
	var ingestErr *Error
	require.True(t, errors.As(err, &ingestErr))
	require.Equal(t, KindBase64Decode, ingestErr.Kind)
}

func TestDecryptIrisShareGarbledCiphertextNoPrevious(t *testing.T) {
	current, err := GenerateKeyPair()
	require.NoError(t, err)

	_, err = DecryptIrisShare("AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA==", EncryptionKeyPairs{Current: current})
	require.Error(t, err)
	var ingestErr *Error
	require.True(t, errors.As(err, &ingestErr))
	require.Equal(t, KindSealedBoxOpen, ingestErr.Kind)
}

func TestValidateIrisShare(t *testing.T) {
	record := sampleRecord()
	canonical, err := canonicalJSON(record)
	require.NoError(t, err)

	sum := sha256.Sum256(canonical)
	ok, err := ValidateIrisShare(record, hex.EncodeToString(sum[:]))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = ValidateIrisShare(record, "deadbeef")
	require.NoError(t, err)
	require.False(t, ok)
}
