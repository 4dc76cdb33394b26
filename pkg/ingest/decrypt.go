package ingest

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// DecryptIrisShare implements the ingestion envelope's open path: base64
// decode, sealed-box open against the current key (falling back to the
// previous key if present), UTF-8 validate, then JSON-parse into
// IrisCodesJSON.
func DecryptIrisShare(ciphertextB64 string, keys EncryptionKeyPairs) (IrisCodesJSON, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertextB64)
	if err != nil {
		return IrisCodesJSON{}, wrap(KindBase64Decode, err)
	}

	plaintext, ok := openAnonymous(raw, keys.Current)
	if !ok && keys.Previous != nil {
		plaintext, ok = openAnonymous(raw, *keys.Previous)
	}
	if !ok {
		return IrisCodesJSON{}, wrap(KindSealedBoxOpen, fmt.Errorf("sealed box did not open with any available key"))
	}

	if !utf8.Valid(plaintext) {
		return IrisCodesJSON{}, wrap(KindUTF8, fmt.Errorf("plaintext is not valid utf-8"))
	}

	var record IrisCodesJSON
	if err := json.Unmarshal(plaintext, &record); err != nil {
		return IrisCodesJSON{}, wrap(KindJSON, err)
	}
	return record, nil
}

// SealForKey is the test/CLI-side counterpart of DecryptIrisShare: it
// serializes record canonically, seals it for recipientPublic, and
// base64-wraps the result, reproducing the wire envelope an ingestion
// producer would emit.
func SealForKey(record IrisCodesJSON, recipientPublic *[32]byte) (string, error) {
	plaintext, err := canonicalJSON(record)
	if err != nil {
		return "", fmt.Errorf("ingest: marshaling record: %w", err)
	}
	sealed, err := sealAnonymous(plaintext, recipientPublic)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}
