package domainobjs

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/maci-domainobjs/crypto"
)

func TestPrivateKeySerialization(t *testing.T) {
	t.Run("example scalar", func(t *testing.T) {
		c := qt.New(t)
		k, err := NewPrivateKey(big.NewInt(5))
		c.Assert(err, qt.IsNil)
		c.Assert(k.Serialize(), qt.Equals, "macisk.5")

		decoded, err := UnserializePrivateKey("macisk.5")
		c.Assert(err, qt.IsNil)
		c.Assert(decoded.BigInt().Int64(), qt.Equals, int64(5))
	})

	t.Run("round trip", func(t *testing.T) {
		c := qt.New(t)
		for range 50 {
			k := GenPrivateKey()
			s := k.Serialize()
			c.Assert(s, qt.Equals, strings.ToLower(s))
			c.Assert(IsValidSerializedPrivateKey(s), qt.IsTrue)
			decoded, err := UnserializePrivateKey(s)
			c.Assert(err, qt.IsNil)
			c.Assert(decoded.Equals(k), qt.IsTrue)
		}
	})

	t.Run("rejection", func(t *testing.T) {
		c := qt.New(t)
		c.Assert(IsValidSerializedPrivateKey("5"), qt.IsFalse)
		c.Assert(IsValidSerializedPrivateKey("macipk.5"), qt.IsFalse)
		c.Assert(IsValidSerializedPrivateKey("macisk."), qt.IsFalse)
		c.Assert(IsValidSerializedPrivateKey("macisk.xyz"), qt.IsFalse)
		c.Assert(IsValidSerializedPrivateKey("macisk.0x5"), qt.IsFalse)
		c.Assert(IsValidSerializedPrivateKey("macisk."+crypto.SnarkField.Text(16)), qt.IsFalse)
		max := new(big.Int).Sub(crypto.SnarkField, big.NewInt(1))
		c.Assert(IsValidSerializedPrivateKey("macisk."+max.Text(16)), qt.IsTrue)

		_, err := UnserializePrivateKey("5")
		c.Assert(errors.Is(err, ErrValidation), qt.IsTrue)
		_, err = UnserializePrivateKey("macisk.xyz")
		c.Assert(errors.Is(err, ErrDecode), qt.IsTrue)
		_, err = UnserializePrivateKey("macisk." + crypto.SnarkField.Text(16))
		c.Assert(errors.Is(err, ErrValidation), qt.IsTrue)
	})

	t.Run("copy is independent", func(t *testing.T) {
		c := qt.New(t)
		k := GenPrivateKey()
		cp := k.Copy()
		c.Assert(cp.Equals(k), qt.IsTrue)
		raw := cp.BigInt()
		raw.Add(raw, big.NewInt(1))
		c.Assert(cp.Equals(k), qt.IsTrue)
	})

	t.Run("circuit inputs", func(t *testing.T) {
		c := qt.New(t)
		k := GenPrivateKey()
		in := k.AsCircuitInputs()
		v, ok := new(big.Int).SetString(in, 10)
		c.Assert(ok, qt.IsTrue)
		c.Assert(v.Sign() > 0, qt.IsTrue)
		c.Assert(k.Copy().AsCircuitInputs(), qt.Equals, in)
	})
}

func TestPublicKey(t *testing.T) {
	t.Run("construction", func(t *testing.T) {
		c := qt.New(t)
		_, err := NewPublicKey(big.NewInt(1), new(big.Int).Set(crypto.SnarkField))
		c.Assert(errors.Is(err, ErrValidation), qt.IsTrue)
		_, err = PublicKeyFromArray([]*big.Int{big.NewInt(1)})
		c.Assert(errors.Is(err, ErrValidation), qt.IsTrue)
		_, err = PublicKeyFromArray([]*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)})
		c.Assert(errors.Is(err, ErrValidation), qt.IsTrue)
		pk, err := PublicKeyFromArray([]*big.Int{big.NewInt(1), big.NewInt(2)})
		c.Assert(err, qt.IsNil)
		c.Assert(pk.AsCircuitInputs(), qt.DeepEquals, []string{"1", "2"})
		c.Assert(pk.AsContractParam(), qt.Equals, PubKeyContractParam{X: "1", Y: "2"})
	})

	t.Run("zero sentinel", func(t *testing.T) {
		c := qt.New(t)
		zero := ZeroPublicKey()
		c.Assert(zero.IsZero(), qt.IsTrue)
		c.Assert(zero.Serialize(), qt.Equals, "macipk.z")
		decoded, err := UnserializePublicKey("macipk.z")
		c.Assert(err, qt.IsNil)
		c.Assert(decoded.Equals(zero), qt.IsTrue)
		c.Assert(IsValidSerializedPublicKey("macipk.z"), qt.IsTrue)
	})

	t.Run("round trip", func(t *testing.T) {
		c := qt.New(t)
		for range 20 {
			pk := NewKeyPair().PubKey
			s := pk.Serialize()
			c.Assert(strings.HasPrefix(s, SerializedPublicKeyPrefix), qt.IsTrue)
			c.Assert(len(s), qt.Equals, len(SerializedPublicKeyPrefix)+64)
			c.Assert(IsValidSerializedPublicKey(s), qt.IsTrue)
			decoded, err := UnserializePublicKey(s)
			c.Assert(err, qt.IsNil)
			c.Assert(decoded.Equals(pk), qt.IsTrue)
			// second decode is served from the cache and is independent
			again, err := UnserializePublicKey(s)
			c.Assert(err, qt.IsNil)
			c.Assert(again.Equals(pk), qt.IsTrue)
			c.Assert(again.x != decoded.x, qt.IsTrue)
		}
	})

	t.Run("rejection", func(t *testing.T) {
		c := qt.New(t)
		c.Assert(IsValidSerializedPublicKey("macipk.garbage"), qt.IsFalse)
		c.Assert(IsValidSerializedPublicKey("macisk.z"), qt.IsFalse)
		c.Assert(IsValidSerializedPublicKey("macipk.0102"), qt.IsFalse)
		c.Assert(IsValidSerializedPublicKey(""), qt.IsFalse)

		_, err := UnserializePublicKey("macipk.garbage")
		c.Assert(errors.Is(err, ErrDecode), qt.IsTrue)
		_, err = UnserializePublicKey("nope")
		c.Assert(errors.Is(err, ErrValidation), qt.IsTrue)
	})

	t.Run("copy is independent", func(t *testing.T) {
		c := qt.New(t)
		pk := NewKeyPair().PubKey
		cp := pk.Copy()
		c.Assert(cp.Equals(pk), qt.IsTrue)
		cp.x.Add(cp.x, big.NewInt(1))
		c.Assert(cp.Equals(pk), qt.IsFalse)
		arr := pk.AsArray()
		arr[0].SetInt64(0)
		c.Assert(pk.X().Sign() != 0, qt.IsTrue)
	})
}

func TestKeyPair(t *testing.T) {
	t.Run("same private key", func(t *testing.T) {
		c := qt.New(t)
		kp := NewKeyPair()
		other, err := KeyPairFromPrivateKey(kp.PrivKey)
		c.Assert(err, qt.IsNil)
		c.Assert(other.PubKey.Equals(kp.PubKey), qt.IsTrue)
		c.Assert(other.Equals(kp), qt.IsTrue)
		c.Assert(kp.Copy().Equals(kp), qt.IsTrue)
	})

	t.Run("different private keys", func(t *testing.T) {
		c := qt.New(t)
		a, b := NewKeyPair(), NewKeyPair()
		c.Assert(a.PubKey.Equals(b.PubKey), qt.IsFalse)
		c.Assert(a.Equals(b), qt.IsFalse)
	})

	t.Run("nil pairs", func(t *testing.T) {
		c := qt.New(t)
		kp := NewKeyPair()
		var missing *KeyPair
		c.Assert(kp.Equals(nil), qt.IsFalse)
		c.Assert(missing.Equals(kp), qt.IsFalse)
		c.Assert(missing.Equals(nil), qt.IsTrue)
	})

	t.Run("inconsistent pair panics", func(t *testing.T) {
		c := qt.New(t)
		a, b := NewKeyPair(), NewKeyPair()
		corrupted := &KeyPair{PrivKey: a.PrivKey, PubKey: b.PubKey}
		defer func() {
			r := recover()
			c.Assert(r, qt.IsNotNil)
			err, ok := r.(error)
			c.Assert(ok, qt.IsTrue)
			c.Assert(errors.Is(err, ErrInternalConsistency), qt.IsTrue)
		}()
		corrupted.Equals(a)
		t.Fatal("Equals should have panicked")
	})

	t.Run("copy re-derives the public key", func(t *testing.T) {
		c := qt.New(t)
		a, b := NewKeyPair(), NewKeyPair()
		corrupted := &KeyPair{PrivKey: a.PrivKey, PubKey: b.PubKey}
		c.Assert(corrupted.Copy().PubKey.Equals(a.PubKey), qt.IsTrue)
	})

	t.Run("invalid private key", func(t *testing.T) {
		c := qt.New(t)
		_, err := KeyPairFromPrivateKey(nil)
		c.Assert(errors.Is(err, ErrValidation), qt.IsTrue)
		_, err = KeyPairFromPrivateKey(&PrivateKey{})
		c.Assert(errors.Is(err, ErrValidation), qt.IsTrue)
	})

	t.Run("ecdh", func(t *testing.T) {
		c := qt.New(t)
		a, b := NewKeyPair(), NewKeyPair()
		k1, err := EcdhSharedKey(a.PrivKey, b.PubKey)
		c.Assert(err, qt.IsNil)
		k2, err := EcdhSharedKey(b.PrivKey, a.PubKey)
		c.Assert(err, qt.IsNil)
		c.Assert(k1.Cmp(k2), qt.Equals, 0)

		k3, err := EcdhSharedKey(a.PrivKey, NewKeyPair().PubKey)
		c.Assert(err, qt.IsNil)
		c.Assert(k1.Cmp(k3), qt.Not(qt.Equals), 0)

		_, err = EcdhSharedKey(a.PrivKey, ZeroPublicKey())
		c.Assert(err, qt.IsNotNil)
	})
}
