// Package protocol implements the replicated-sharing sub-protocols that run
// on top of a Session: reshare, lift, cross-multiplication, threshold
// comparison, and the bit-decomposition machinery they're built from.
package protocol

import "github.com/irismpc/core/pkg/xparty"

// Kind classifies a protocol-fatal error so callers can branch with
// errors.As without string-matching messages.
type Kind int

const (
	KindUnknown Kind = iota
	KindTransport
	KindProtocolViolation
)

// Error is the typed, session-fatal error every protocol operation returns
// on failure: a Kind plus the Role(s), if known, responsible for the fault.
type Error struct {
	Kind     Kind
	Culprits []xparty.Role
	Err      error
}

func (e *Error) Error() string {
	if len(e.Culprits) == 0 {
		return e.Err.Error()
	}
	return e.Err.Error() + " (culprits: " + rolesString(e.Culprits) + ")"
}

func (e *Error) Unwrap() error { return e.Err }

func rolesString(roles []xparty.Role) string {
	out := ""
	for i, r := range roles {
		if i > 0 {
			out += ","
		}
		out += r.String()
	}
	return out
}

// Wrap builds an *Error of the given kind, naming the culprit roles.
func Wrap(kind Kind, err error, culprits ...xparty.Role) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Culprits: culprits, Err: err}
}
