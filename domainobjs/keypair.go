package domainobjs

import (
	"fmt"
	"math/big"

	"github.com/vocdoni/maci-domainobjs/crypto/bjj"
)

// KeyPair is a MACI identity: a private key and the public key derived from
// it.
type KeyPair struct {
	PrivKey *PrivateKey
	PubKey  *PublicKey
}

// NewKeyPair generates a new random key pair.
func NewKeyPair() *KeyPair {
	priv, pub := bjj.GenKeypair()
	return &KeyPair{
		PrivKey: &PrivateKey{raw: priv},
		PubKey:  &PublicKey{x: pub[0], y: pub[1]},
	}
}

// KeyPairFromPrivateKey derives the public key of priv and returns the
// resulting key pair. The private key is copied.
func KeyPairFromPrivateKey(priv *PrivateKey) (*KeyPair, error) {
	if priv == nil || priv.raw == nil {
		return nil, fmt.Errorf("%w: missing private key", ErrValidation)
	}
	pub, err := bjj.GenPubKey(priv.raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return &KeyPair{
		PrivKey: priv.Copy(),
		PubKey:  &PublicKey{x: pub[0], y: pub[1]},
	}, nil
}

// Copy clones the private key and derives the public key again, so the copy
// is consistent even if the receiver's public key was tampered with.
func (kp *KeyPair) Copy() *KeyPair {
	cp, err := KeyPairFromPrivateKey(kp.PrivKey)
	if err != nil {
		panic(fmt.Errorf("%w: %v", ErrInternalConsistency, err))
	}
	return cp
}

// Equals compares both key pairs by private key. Equal private keys must
// imply equal public keys and vice versa; if they disagree the pair was
// corrupted and Equals panics with ErrInternalConsistency.
func (kp *KeyPair) Equals(other *KeyPair) bool {
	if kp == nil || other == nil {
		return kp == other
	}
	privEqual := kp.PrivKey.Equals(other.PrivKey)
	pubEqual := kp.PubKey.Equals(other.PubKey)
	if privEqual != pubEqual {
		panic(fmt.Errorf("%w: private key equality (%t) does not match public key equality (%t)",
			ErrInternalConsistency, privEqual, pubEqual))
	}
	return privEqual
}

// EcdhSharedKey derives the shared key between the owner of priv and the
// owner of pub. EcdhSharedKey(a.PrivKey, b.PubKey) equals
// EcdhSharedKey(b.PrivKey, a.PubKey).
func EcdhSharedKey(priv *PrivateKey, pub *PublicKey) (*big.Int, error) {
	if priv == nil || pub == nil {
		return nil, fmt.Errorf("%w: missing key", ErrValidation)
	}
	return bjj.EcdhSharedKey(priv.raw, pub.point())
}
