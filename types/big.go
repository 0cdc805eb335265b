// Package types holds the wire types shared by the storage and API layers.
package types

import (
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
)

// BigInt is a big.Int wrapper which marshals JSON to a string representation of
// the big number. Note that a nil pointer value marshals as "0".
type BigInt big.Int

// NewInt creates a new BigInt from the given integer value.
func NewInt(x int) *BigInt {
	return new(BigInt).SetInt(x)
}

// BigIntFrom wraps a copy of x.
func BigIntFrom(x *big.Int) *BigInt {
	if x == nil {
		return nil
	}
	return new(BigInt).SetBigInt(x)
}

// MarshalText returns the decimal string representation of the big number.
// If the receiver is nil, we return "0".
func (i *BigInt) MarshalText() ([]byte, error) {
	if i == nil {
		return []byte("0"), nil
	}
	return (*big.Int)(i).MarshalText()
}

// UnmarshalText parses the text representation into the big number.
func (i *BigInt) UnmarshalText(data []byte) error {
	if i == nil {
		return fmt.Errorf("cannot unmarshal into nil BigInt")
	}
	return (*big.Int)(i).UnmarshalText(data)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// It supports both string and numeric JSON representations.
func (i *BigInt) UnmarshalJSON(data []byte) error {
	if i == nil {
		return fmt.Errorf("cannot unmarshal into nil BigInt")
	}
	if len(data) > 1 && data[0] == '"' && data[len(data)-1] == '"' {
		return i.UnmarshalText(data[1 : len(data)-1])
	}
	return i.UnmarshalText(data)
}

// MarshalCBOR explicitly encodes BigInt as a CBOR text string.
func (i *BigInt) MarshalCBOR() ([]byte, error) {
	txt, err := i.MarshalText()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(string(txt))
}

// UnmarshalCBOR decodes a CBOR text string into BigInt.
func (i *BigInt) UnmarshalCBOR(data []byte) error {
	var s string
	if err := cbor.Unmarshal(data, &s); err != nil {
		return err
	}
	return i.UnmarshalText([]byte(s))
}

// String returns the string representation of the big number
func (i *BigInt) String() string {
	return (*big.Int)(i).String()
}

// MathBigInt converts b to a math/big *Int.
func (i *BigInt) MathBigInt() *big.Int {
	return (*big.Int)(i)
}

// SetInt sets the value of x to the big number.
func (i *BigInt) SetInt(x int) *BigInt {
	return (*BigInt)(i.MathBigInt().SetInt64(int64(x)))
}

// SetBigInt sets the value of x to the big number.
func (i *BigInt) SetBigInt(x *big.Int) *BigInt {
	return (*BigInt)(i.MathBigInt().Set(x))
}

// Equal helps us with go-cmp.
func (i *BigInt) Equal(j *BigInt) bool {
	if i == nil || j == nil {
		return (i == nil) == (j == nil)
	}
	return i.MathBigInt().Cmp(j.MathBigInt()) == 0
}

// IsInField returns true if the number is in [0, field).
func (i *BigInt) IsInField(field *big.Int) bool {
	if i == nil {
		return false
	}
	return i.MathBigInt().Sign() >= 0 && i.MathBigInt().Cmp(field) < 0
}

// BigInts converts a slice of BigInt into math/big values.
func BigInts(from []*BigInt) []*big.Int {
	return SliceOf(from, (*BigInt).MathBigInt)
}

// SliceOf converts a slice of type F to a slice of type T using the provided
// conversion function.
func SliceOf[F, T any](from []F, conv func(F) T) []T {
	to := make([]T, len(from))
	for i, v := range from {
		to[i] = conv(v)
	}
	return to
}
