package domainobjs

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/vocdoni/maci-domainobjs/crypto"
	"github.com/vocdoni/maci-domainobjs/crypto/bjj"
	"github.com/vocdoni/maci-domainobjs/util"
)

// SerializedPrivateKeyPrefix is prepended to the hex encoding of a private key.
const SerializedPrivateKeyPrefix = "macisk."

// PrivateKey is the raw signing scalar of a MACI identity. The zero value is
// not usable, build it with NewPrivateKey, GenPrivateKey or
// UnserializePrivateKey.
type PrivateKey struct {
	raw *big.Int
}

// NewPrivateKey wraps a copy of raw, which must be a field element.
func NewPrivateKey(raw *big.Int) (*PrivateKey, error) {
	if !crypto.IsInField(raw) {
		return nil, fmt.Errorf("%w: private key is not a field element", ErrValidation)
	}
	return &PrivateKey{raw: new(big.Int).Set(raw)}, nil
}

// GenPrivateKey returns a new random private key.
func GenPrivateKey() *PrivateKey {
	return &PrivateKey{raw: bjj.GenPrivKey()}
}

// BigInt returns a copy of the raw scalar.
func (k *PrivateKey) BigInt() *big.Int {
	return new(big.Int).Set(k.raw)
}

// Copy returns an independent copy of the key.
func (k *PrivateKey) Copy() *PrivateKey {
	return &PrivateKey{raw: new(big.Int).Set(k.raw)}
}

// Equals reports whether both keys hold the same scalar.
func (k *PrivateKey) Equals(other *PrivateKey) bool {
	if k == nil || other == nil {
		return k == other
	}
	return k.raw.Cmp(other.raw) == 0
}

// AsCircuitInputs returns the scalar in the format the circuit expects, as
// a decimal string.
func (k *PrivateKey) AsCircuitInputs() string {
	s, err := bjj.FormatPrivKeyForCircuit(k.raw)
	if err != nil {
		panic(fmt.Errorf("%w: %v", ErrInternalConsistency, err))
	}
	return s.String()
}

// Serialize encodes the key as "macisk." followed by the lowercase hex of
// the raw scalar, without padding.
func (k *PrivateKey) Serialize() string {
	return SerializedPrivateKeyPrefix + k.raw.Text(16)
}

// UnserializePrivateKey decodes a key produced by Serialize.
func UnserializePrivateKey(s string) (*PrivateKey, error) {
	encoded, ok := strings.CutPrefix(s, SerializedPrivateKeyPrefix)
	if !ok {
		return nil, fmt.Errorf("%w: private key must start with %q", ErrValidation, SerializedPrivateKeyPrefix)
	}
	raw, err := util.HexToBigInt(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return NewPrivateKey(raw)
}

// IsValidSerializedPrivateKey returns true if s has the private key prefix
// and decodes to a value lower than the field modulus.
func IsValidSerializedPrivateKey(s string) bool {
	_, err := UnserializePrivateKey(s)
	return err == nil
}
