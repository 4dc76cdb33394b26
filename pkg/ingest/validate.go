package ingest

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// canonicalJSON serializes record the same way every time: Go's
// encoding/json encoder emits object keys in struct-declaration order with
// no extra whitespace; HTML escaping is turned off and the encoder's
// trailing newline is trimmed. That is sufficient for hash stability here
// since the field set is fixed and never reordered.
func canonicalJSON(record IrisCodesJSON) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(record); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ValidateIrisShare reports whether the SHA-256 of the canonical JSON
// serialization of iris equals expectedHexDigest (case-insensitive),
// deliberately using crypto/sha256 rather than the engine's usual blake3
// hashing — SHA-256 is the hash the wire format specifies for this check,
// not a choice this package gets to make.
func ValidateIrisShare(iris IrisCodesJSON, expectedHexDigest string) (bool, error) {
	canonical, err := canonicalJSON(iris)
	if err != nil {
		return false, fmt.Errorf("ingest: canonicalizing record: %w", err)
	}
	sum := sha256.Sum256(canonical)
	got := hex.EncodeToString(sum[:])
	return constantTimeEqualFold(got, expectedHexDigest), nil
}

func constantTimeEqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	diff := byte(0)
	for i := 0; i < len(a); i++ {
		diff |= lowerByte(a[i]) ^ lowerByte(b[i])
	}
	return diff == 0
}

func lowerByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
