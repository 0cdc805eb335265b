package bjj

import (
	"fmt"
	"math/big"

	"github.com/iden3/go-iden3-crypto/babyjub"
	"github.com/vocdoni/maci-domainobjs/crypto"
)

// Signature is an EdDSA-Poseidon signature over BabyJubJub.
type Signature struct {
	R8 [2]*big.Int
	S  *big.Int
}

// Copy returns a deep copy of the signature.
func (s *Signature) Copy() *Signature {
	if s == nil {
		return nil
	}
	return &Signature{
		R8: [2]*big.Int{crypto.CopyBigInt(s.R8[0]), crypto.CopyBigInt(s.R8[1])},
		S:  crypto.CopyBigInt(s.S),
	}
}

// Equals compares both signatures component by component.
func (s *Signature) Equals(other *Signature) bool {
	if s == nil || other == nil {
		return s == other
	}
	return cmpBig(s.R8[0], other.R8[0]) && cmpBig(s.R8[1], other.R8[1]) && cmpBig(s.S, other.S)
}

// Sign signs the field element msg with the private key provided.
func Sign(priv, msg *big.Int) (*Signature, error) {
	k, err := privKey(priv)
	if err != nil {
		return nil, err
	}
	if !crypto.IsInField(msg) {
		return nil, fmt.Errorf("message is not a field element")
	}
	sig := k.SignPoseidon(msg)
	return &Signature{
		R8: [2]*big.Int{new(big.Int).Set(sig.R8.X), new(big.Int).Set(sig.R8.Y)},
		S:  new(big.Int).Set(sig.S),
	}, nil
}

// Verify checks the signature of msg against the public key. It only
// returns an error on malformed inputs (missing values, out of field
// numbers or a public key off the curve); a well-formed signature that does
// not match returns false.
func Verify(msg *big.Int, sig *Signature, pub [2]*big.Int) (bool, error) {
	if sig == nil {
		return false, fmt.Errorf("signature is nil")
	}
	if err := crypto.CheckInField(sig.R8[0], sig.R8[1], sig.S); err != nil {
		return false, fmt.Errorf("malformed signature: %w", err)
	}
	if !crypto.IsInField(msg) {
		return false, fmt.Errorf("message is not a field element")
	}
	p, err := toPoint(pub)
	if err != nil {
		return false, fmt.Errorf("invalid public key: %w", err)
	}
	r8 := &babyjub.Point{X: new(big.Int).Set(sig.R8[0]), Y: new(big.Int).Set(sig.R8[1])}
	if !r8.InCurve() || sig.S.Cmp(babyjub.SubOrder) >= 0 {
		return false, nil
	}
	pk := babyjub.PublicKey(*p)
	return pk.VerifyPoseidon(msg, &babyjub.Signature{R8: r8, S: new(big.Int).Set(sig.S)}), nil
}

func cmpBig(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
}
