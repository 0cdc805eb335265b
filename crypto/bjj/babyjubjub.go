// Package bjj wraps the iden3 BabyJubJub implementation with the primitives
// the MACI domain objects consume: key generation, public key derivation,
// ECDH, point packing and EdDSA-Poseidon signatures. Private keys are raw
// field elements; public keys and points are (x, y) coordinate pairs.
package bjj

import (
	"fmt"
	"math/big"

	"github.com/iden3/go-iden3-crypto/babyjub"
	"github.com/vocdoni/maci-domainobjs/crypto"
)

// PackedPointLen is the size in bytes of a compressed BabyJubJub point.
const PackedPointLen = 32

// GenPrivKey returns a new random private key.
func GenPrivKey() *big.Int {
	return crypto.RandomFieldElement()
}

// GenKeypair generates a random private key and derives its public key.
func GenKeypair() (*big.Int, [2]*big.Int) {
	priv := GenPrivKey()
	pub, err := GenPubKey(priv)
	if err != nil {
		// a freshly sampled field element is always a valid private key
		panic(err)
	}
	return priv, pub
}

// GenPubKey derives the public key of the private key provided.
func GenPubKey(priv *big.Int) ([2]*big.Int, error) {
	k, err := privKey(priv)
	if err != nil {
		return [2]*big.Int{}, err
	}
	pk := k.Public()
	return [2]*big.Int{new(big.Int).Set(pk.X), new(big.Int).Set(pk.Y)}, nil
}

// FormatPrivKeyForCircuit returns the scalar the circuit multiplies the
// base point by: blake512 of the key, pruned and shifted right by three.
func FormatPrivKeyForCircuit(priv *big.Int) (*big.Int, error) {
	k, err := privKey(priv)
	if err != nil {
		return nil, err
	}
	return babyjub.SkToBigInt(&k), nil
}

// EcdhSharedKey derives the shared key between the owner of priv and the
// owner of pub. It is the x coordinate of formatted(priv) * pub, so both
// parties obtain the same value from their own private key.
func EcdhSharedKey(priv *big.Int, pub [2]*big.Int) (*big.Int, error) {
	k, err := privKey(priv)
	if err != nil {
		return nil, err
	}
	p, err := toPoint(pub)
	if err != nil {
		return nil, fmt.Errorf("invalid public key: %w", err)
	}
	shared := babyjub.NewPoint().Mul(babyjub.SkToBigInt(&k), p)
	return new(big.Int).Set(shared.X), nil
}

// PackPubKey compresses the public key into its 32 byte representation: the
// little-endian y coordinate with the sign of x in the top bit. Both
// coordinates must be field elements; curve membership is only checked when
// unpacking.
func PackPubKey(pub [2]*big.Int) [PackedPointLen]byte {
	p := &babyjub.Point{X: new(big.Int).Set(pub[0]), Y: new(big.Int).Set(pub[1])}
	return p.Compress()
}

// UnpackPubKey decompresses a public key packed with PackPubKey.
func UnpackPubKey(packed []byte) ([2]*big.Int, error) {
	if len(packed) != PackedPointLen {
		return [2]*big.Int{}, fmt.Errorf("packed point must be %d bytes, got %d", PackedPointLen, len(packed))
	}
	var buf [PackedPointLen]byte
	copy(buf[:], packed)
	p, err := babyjub.NewPoint().Decompress(buf)
	if err != nil {
		return [2]*big.Int{}, fmt.Errorf("cannot decompress point: %w", err)
	}
	if !crypto.IsInField(p.X) || !crypto.IsInField(p.Y) || !p.InCurve() {
		return [2]*big.Int{}, fmt.Errorf("decompressed point is not on the curve")
	}
	return [2]*big.Int{new(big.Int).Set(p.X), new(big.Int).Set(p.Y)}, nil
}

// InCurve returns true if the coordinates are a point of the curve.
func InCurve(pub [2]*big.Int) bool {
	_, err := toPoint(pub)
	return err == nil
}

// privKey turns a raw private key into the iden3 key format by left padding
// its big-endian bytes to 32 bytes.
func privKey(priv *big.Int) (babyjub.PrivateKey, error) {
	var k babyjub.PrivateKey
	if !crypto.IsInField(priv) {
		return k, fmt.Errorf("private key is not a field element")
	}
	copy(k[:], crypto.BigIntToBytesToSign(priv))
	return k, nil
}

func toPoint(coords [2]*big.Int) (*babyjub.Point, error) {
	if err := crypto.CheckInField(coords[0], coords[1]); err != nil {
		return nil, err
	}
	p := &babyjub.Point{
		X: new(big.Int).Set(coords[0]),
		Y: new(big.Int).Set(coords[1]),
	}
	if !p.InCurve() {
		return nil, fmt.Errorf("point (%s, %s) is not on the curve", p.X, p.Y)
	}
	return p, nil
}
