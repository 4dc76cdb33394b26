// Package ingest implements the sealed-box decryption, validation, and
// HTTP fetch steps that turn an encrypted iris-share bundle into a
// validated IrisCodesJSON record ready for the distance engine.
package ingest

import "fmt"

// Kind enumerates the ways an ingestion request can fail; per-request, not
// session-fatal — a worker processing many requests keeps going past one
// ingest.Error.
type Kind int

const (
	KindUnknown Kind = iota
	KindBase64Decode
	KindSealedBoxOpen
	KindUTF8
	KindJSON
	KindNetworkFetch
	KindHashMismatch
)

func (k Kind) String() string {
	switch k {
	case KindBase64Decode:
		return "Base64Decode"
	case KindSealedBoxOpen:
		return "SealedBoxOpen"
	case KindUTF8:
		return "Utf8"
	case KindJSON:
		return "Json"
	case KindNetworkFetch:
		return "NetworkFetch"
	case KindHashMismatch:
		return "HashMismatch"
	default:
		return "Unknown"
	}
}

// Error is the typed error every ingest operation returns on failure, so
// callers can branch with errors.As instead of string-matching.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ingest: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("ingest: %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(kind Kind, err error) error {
	return &Error{Kind: kind, Err: err}
}
