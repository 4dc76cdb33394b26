// Package wire defines the tagged union exchanged between parties and its
// CBOR encoding.
package wire

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/irismpc/core/pkg/ringmath"
	"github.com/irismpc/core/pkg/ringshare"
)

// Kind discriminates the payload carried by a NetworkValue.
type Kind uint8

const (
	KindPrfKey Kind = iota
	KindVecRing16
	KindVecRing32
	KindRingElement32
	KindBit
	KindBitVec
)

func (k Kind) String() string {
	switch k {
	case KindPrfKey:
		return "prf-key"
	case KindVecRing16:
		return "vec-ring16"
	case KindVecRing32:
		return "vec-ring32"
	case KindRingElement32:
		return "ring-element32"
	case KindBit:
		return "bit"
	case KindBitVec:
		return "bit-vec"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// NetworkValue is the single wire envelope every message on Transport
// carries; the Kind field says which of the remaining fields is populated.
// It is CBOR-encoded with small integer keys (keyasint) to keep frames
// compact.
type NetworkValue struct {
	Kind Kind `cbor:"0,keyasint"`

	PrfKeyVal []byte `cbor:"1,keyasint,omitempty"`

	Ring16A []uint16 `cbor:"2,keyasint,omitempty"`
	Ring16B []uint16 `cbor:"3,keyasint,omitempty"`

	Ring32A []uint32 `cbor:"4,keyasint,omitempty"`
	Ring32B []uint32 `cbor:"5,keyasint,omitempty"`

	ElemA uint32 `cbor:"6,keyasint,omitempty"`
	ElemB uint32 `cbor:"7,keyasint,omitempty"`

	BitA uint8 `cbor:"8,keyasint,omitempty"`
	BitB uint8 `cbor:"9,keyasint,omitempty"`

	BitVecVal []uint8 `cbor:"10,keyasint,omitempty"`
}

// Marshal encodes the value into its CBOR wire form.
func (v NetworkValue) Marshal() ([]byte, error) {
	b, err := cbor.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("wire: marshal %s: %w", v.Kind, err)
	}
	return b, nil
}

// Unmarshal decodes a CBOR wire frame into a NetworkValue.
func Unmarshal(b []byte) (NetworkValue, error) {
	var v NetworkValue
	if err := cbor.Unmarshal(b, &v); err != nil {
		return NetworkValue{}, fmt.Errorf("wire: unmarshal: %w", err)
	}
	return v, nil
}

// PrfKey wraps a correlated-PRF seed for transmission during session setup.
func PrfKey(key []byte) NetworkValue {
	return NetworkValue{Kind: KindPrfKey, PrfKeyVal: key}
}

// AsPrfKey extracts the seed bytes, failing if the value is a different kind.
func (v NetworkValue) AsPrfKey() ([]byte, error) {
	if v.Kind != KindPrfKey {
		return nil, fmt.Errorf("wire: expected %s, got %s", KindPrfKey, v.Kind)
	}
	return v.PrfKeyVal, nil
}

// VecRing16 wraps a batch of Ring16 shares.
func VecRing16(vs ringshare.VecShare[ringmath.Ring16]) NetworkValue {
	a, b := vs.As()
	au := make([]uint16, len(a))
	bu := make([]uint16, len(b))
	for i := range a {
		au[i] = uint16(a[i])
		bu[i] = uint16(b[i])
	}
	return NetworkValue{Kind: KindVecRing16, Ring16A: au, Ring16B: bu}
}

// AsVecRing16 reconstructs a batch of Ring16 shares.
func (v NetworkValue) AsVecRing16() (ringshare.VecShare[ringmath.Ring16], error) {
	if v.Kind != KindVecRing16 {
		return ringshare.VecShare[ringmath.Ring16]{}, fmt.Errorf("wire: expected %s, got %s", KindVecRing16, v.Kind)
	}
	a := make([]ringmath.Ring16, len(v.Ring16A))
	b := make([]ringmath.Ring16, len(v.Ring16B))
	for i := range v.Ring16A {
		a[i] = ringmath.Ring16(v.Ring16A[i])
	}
	for i := range v.Ring16B {
		b[i] = ringmath.Ring16(v.Ring16B[i])
	}
	return ringshare.FromComponents(a, b)
}

// VecRing32 wraps a batch of Ring32 shares.
func VecRing32(vs ringshare.VecShare[ringmath.Ring32]) NetworkValue {
	a, b := vs.As()
	au := make([]uint32, len(a))
	bu := make([]uint32, len(b))
	for i := range a {
		au[i] = uint32(a[i])
		bu[i] = uint32(b[i])
	}
	return NetworkValue{Kind: KindVecRing32, Ring32A: au, Ring32B: bu}
}

// AsVecRing32 reconstructs a batch of Ring32 shares.
func (v NetworkValue) AsVecRing32() (ringshare.VecShare[ringmath.Ring32], error) {
	if v.Kind != KindVecRing32 {
		return ringshare.VecShare[ringmath.Ring32]{}, fmt.Errorf("wire: expected %s, got %s", KindVecRing32, v.Kind)
	}
	a := make([]ringmath.Ring32, len(v.Ring32A))
	b := make([]ringmath.Ring32, len(v.Ring32B))
	for i := range v.Ring32A {
		a[i] = ringmath.Ring32(v.Ring32A[i])
	}
	for i := range v.Ring32B {
		b[i] = ringmath.Ring32(v.Ring32B[i])
	}
	return ringshare.FromComponents(a, b)
}

// RingElement32 wraps a single Ring32 share component, the shape used when
// opening/exchanging one value (OpenRing32, ToRep3Ring32).
func RingElement32(value uint32) NetworkValue {
	return NetworkValue{Kind: KindRingElement32, ElemA: value}
}

// AsRingElement32 extracts a single Ring32 value.
func (v NetworkValue) AsRingElement32() (uint32, error) {
	if v.Kind != KindRingElement32 {
		return 0, fmt.Errorf("wire: expected %s, got %s", KindRingElement32, v.Kind)
	}
	return v.ElemA, nil
}

// BitValue wraps a single raw bit (0 or 1), the shape used when opening a
// replicated Share[Bit].
func BitValue(b uint8) NetworkValue {
	return NetworkValue{Kind: KindBit, BitA: b & 1}
}

// AsBit extracts a single raw bit.
func (v NetworkValue) AsBit() (uint8, error) {
	if v.Kind != KindBit {
		return 0, fmt.Errorf("wire: expected %s, got %s", KindBit, v.Kind)
	}
	return v.BitA, nil
}

// BitVec wraps a batch of raw bits (0/1 each), the shape used to exchange
// masked bit contributions during bit-decomposition's AND gates and
// single-bit boolean-to-arithmetic injections.
func BitVec(bits []uint8) NetworkValue {
	return NetworkValue{Kind: KindBitVec, BitVecVal: bits}
}

// AsBitVec extracts a batch of raw bits.
func (v NetworkValue) AsBitVec() ([]uint8, error) {
	if v.Kind != KindBitVec {
		return nil, fmt.Errorf("wire: expected %s, got %s", KindBitVec, v.Kind)
	}
	return v.BitVecVal, nil
}
