package domainobjs

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vocdoni/maci-domainobjs/crypto"
	"github.com/vocdoni/maci-domainobjs/crypto/bjj"
	"github.com/vocdoni/maci-domainobjs/log"
)

const (
	// SerializedPublicKeyPrefix is prepended to the hex encoding of a packed
	// public key.
	SerializedPublicKeyPrefix = "macipk."
	// SerializedZeroPublicKey is the serialization of the (0, 0) sentinel,
	// which cannot be packed.
	SerializedZeroPublicKey = SerializedPublicKeyPrefix + "z"

	unpackCacheSize = 1024
)

// unpackCache memoises point decompression, which needs a modular square
// root, by serialized key.
var unpackCache *lru.Cache[string, [2]*big.Int]

func init() {
	var err error
	if unpackCache, err = lru.New[string, [2]*big.Int](unpackCacheSize); err != nil {
		panic(err)
	}
}

// PublicKey is a BabyJubJub point (x, y). The point (0, 0) is the "no
// identity" sentinel used by blank state leaves.
type PublicKey struct {
	x, y *big.Int
}

// NewPublicKey builds a public key from copies of its coordinates, which
// must be field elements.
func NewPublicKey(x, y *big.Int) (*PublicKey, error) {
	if err := crypto.CheckInField(x, y); err != nil {
		return nil, fmt.Errorf("%w: public key: %v", ErrValidation, err)
	}
	return &PublicKey{x: new(big.Int).Set(x), y: new(big.Int).Set(y)}, nil
}

// PublicKeyFromArray builds a public key from exactly two coordinates.
func PublicKeyFromArray(coords []*big.Int) (*PublicKey, error) {
	if len(coords) != 2 {
		return nil, fmt.Errorf("%w: public key needs 2 coordinates, got %d", ErrValidation, len(coords))
	}
	return NewPublicKey(coords[0], coords[1])
}

// ZeroPublicKey returns the (0, 0) sentinel.
func ZeroPublicKey() *PublicKey {
	return &PublicKey{x: big.NewInt(0), y: big.NewInt(0)}
}

// X returns a copy of the x coordinate.
func (p *PublicKey) X() *big.Int { return new(big.Int).Set(p.x) }

// Y returns a copy of the y coordinate.
func (p *PublicKey) Y() *big.Int { return new(big.Int).Set(p.y) }

// IsZero reports whether the key is the (0, 0) sentinel.
func (p *PublicKey) IsZero() bool {
	return p.x.Sign() == 0 && p.y.Sign() == 0
}

// AsArray returns copies of the coordinates in [x, y] order.
func (p *PublicKey) AsArray() []*big.Int {
	return []*big.Int{p.X(), p.Y()}
}

// AsCircuitInputs returns the coordinates as decimal strings in [x, y]
// order.
func (p *PublicKey) AsCircuitInputs() []string {
	return []string{p.x.String(), p.y.String()}
}

// AsContractParam returns the view used as a contract call argument.
func (p *PublicKey) AsContractParam() PubKeyContractParam {
	return PubKeyContractParam{X: p.x.String(), Y: p.y.String()}
}

// Copy returns an independent copy of the key.
func (p *PublicKey) Copy() *PublicKey {
	return &PublicKey{x: p.X(), y: p.Y()}
}

// Equals compares both keys coordinate by coordinate.
func (p *PublicKey) Equals(other *PublicKey) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.x.Cmp(other.x) == 0 && p.y.Cmp(other.y) == 0
}

// String returns the serialized key.
func (p *PublicKey) String() string {
	return p.Serialize()
}

// Serialize encodes the key as "macipk." followed by the hex of the packed
// point. The zero sentinel is encoded as "macipk.z".
func (p *PublicKey) Serialize() string {
	if p.IsZero() {
		return SerializedZeroPublicKey
	}
	packed := bjj.PackPubKey(p.point())
	return SerializedPublicKeyPrefix + hex.EncodeToString(packed[:])
}

// UnserializePublicKey decodes a key produced by Serialize.
func UnserializePublicKey(s string) (*PublicKey, error) {
	if s == SerializedZeroPublicKey {
		return ZeroPublicKey(), nil
	}
	encoded, ok := strings.CutPrefix(s, SerializedPublicKeyPrefix)
	if !ok {
		return nil, fmt.Errorf("%w: public key must start with %q", ErrValidation, SerializedPublicKeyPrefix)
	}
	if coords, ok := unpackCache.Get(s); ok {
		return NewPublicKey(coords[0], coords[1])
	}
	packed, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: public key hex: %v", ErrDecode, err)
	}
	coords, err := bjj.UnpackPubKey(packed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	log.Debugw("unpacked public key", "serialized", s)
	pub, err := NewPublicKey(coords[0], coords[1])
	if err != nil {
		return nil, err
	}
	unpackCache.Add(s, coords)
	return pub, nil
}

// IsValidSerializedPublicKey returns true if s has the public key prefix and
// can be unserialized.
func IsValidSerializedPublicKey(s string) bool {
	_, err := UnserializePublicKey(s)
	return err == nil
}

// point returns copies of the coordinates in the format the bjj package
// works with.
func (p *PublicKey) point() [2]*big.Int {
	return [2]*big.Int{p.X(), p.Y()}
}
