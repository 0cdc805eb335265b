// Package crypto provides the finite field helpers shared by the MACI domain
// objects. Every value exchanged with the circuit or the contracts is an
// element of the BN254 scalar field, which is also the base field of the
// BabyJubJub curve.
package crypto

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/vocdoni/maci-domainobjs/util"
)

// SignatureCircuitVariableLen is the standard size in bytes for serialized
// field elements
const SignatureCircuitVariableLen = 32 // bytes

// SnarkField is the prime modulus P of the field every MACI value lives in.
var SnarkField = ecc.BN254.ScalarField()

// IsInField returns true if v is not nil and 0 <= v < P.
func IsInField(v *big.Int) bool {
	return v != nil && v.Sign() >= 0 && v.Cmp(SnarkField) < 0
}

// CheckInField returns an error naming the first value that is not a valid
// field element, or nil if all of them are.
func CheckInField(values ...*big.Int) error {
	for i, v := range values {
		if v == nil {
			return fmt.Errorf("value %d is nil", i)
		}
		if !IsInField(v) {
			return fmt.Errorf("value %d (%s) is not in field", i, v.String())
		}
	}
	return nil
}

// RandomFieldElement returns a uniformly random element of the field.
func RandomFieldElement() *big.Int {
	var e fr.Element
	if _, err := e.SetRandom(); err != nil {
		// fall back to the OS source, fr only fails if it does too
		return util.RandomBigInt(big.NewInt(0), SnarkField)
	}
	return e.BigInt(new(big.Int))
}

// CopyBigInt returns a fresh copy of v, or nil if v is nil.
func CopyBigInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

// CopyBigInts deep copies a slice of big integers.
func CopyBigInts(values []*big.Int) []*big.Int {
	out := make([]*big.Int, len(values))
	for i, v := range values {
		out[i] = CopyBigInt(v)
	}
	return out
}

// BigIntToBytesToSign converts a big.Int to a byte slice, ensuring that
// the resulting byte slice has SignatureCircuitVariableLen bytes. If the
// byte slice is shorter, it prepends zeros. If it is longer, it truncates
// it to the last SignatureCircuitVariableLen bytes.
func BigIntToBytesToSign(input *big.Int) []byte {
	return PadToSign(input.Bytes())
}

// PadToSign pads the input byte slice to ensure it has a length of
// SignatureCircuitVariableLen bytes. If the input is shorter, it prepends
// zeros until the length is equal to SignatureCircuitVariableLen. If the
// input is longer, it truncates it to the last SignatureCircuitVariableLen
// bytes.
func PadToSign(input []byte) []byte {
	if len(input) < SignatureCircuitVariableLen {
		padded := make([]byte, SignatureCircuitVariableLen)
		copy(padded[SignatureCircuitVariableLen-len(input):], input)
		return padded
	}
	return input[len(input)-SignatureCircuitVariableLen:]
}

// BigToFF function returns the finite field representation of the big.Int
// provided. It uses the curve scalar field to represent the provided number.
func BigToFF(iv *big.Int) *big.Int {
	z := big.NewInt(0)
	if c := iv.Cmp(SnarkField); c == 0 {
		return z
	} else if c != 1 && iv.Cmp(z) != -1 {
		return iv
	}
	return z.Mod(iv, SnarkField)
}
