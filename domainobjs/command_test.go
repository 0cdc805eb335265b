package domainobjs

import (
	"errors"
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/maci-domainobjs/crypto"
)

func testCommand(c *qt.C, pubKey *PublicKey) *Command {
	cmd, err := NewCommand(big.NewInt(1), pubKey, big.NewInt(3), big.NewInt(9), big.NewInt(1), nil)
	c.Assert(err, qt.IsNil)
	return cmd
}

func TestCommandVector(t *testing.T) {
	c := qt.New(t)
	kp := NewKeyPair()
	cmd := testCommand(c, kp.PubKey)

	arr := cmd.AsArray()
	c.Assert(arr, qt.HasLen, CommandLen)
	c.Assert(arr[0].Int64(), qt.Equals, int64(1))
	c.Assert(arr[1].Cmp(kp.PubKey.X()), qt.Equals, 0)
	c.Assert(arr[2].Cmp(kp.PubKey.Y()), qt.Equals, 0)
	c.Assert(arr[3].Int64(), qt.Equals, int64(3))
	c.Assert(arr[4].Int64(), qt.Equals, int64(9))
	c.Assert(arr[5].Int64(), qt.Equals, int64(1))
	c.Assert(arr[6].Cmp(cmd.Salt), qt.Equals, 0)
	c.Assert(crypto.IsInField(cmd.Salt), qt.IsTrue)

	// explicit salt is kept
	withSalt, err := NewCommand(big.NewInt(1), kp.PubKey, big.NewInt(3), big.NewInt(9), big.NewInt(1), big.NewInt(42))
	c.Assert(err, qt.IsNil)
	c.Assert(withSalt.Salt.Int64(), qt.Equals, int64(42))

	_, err = NewCommand(big.NewInt(1), nil, big.NewInt(3), big.NewInt(9), big.NewInt(1), nil)
	c.Assert(errors.Is(err, ErrValidation), qt.IsTrue)
	_, err = NewCommand(big.NewInt(-1), kp.PubKey, big.NewInt(3), big.NewInt(9), big.NewInt(1), nil)
	c.Assert(errors.Is(err, ErrValidation), qt.IsTrue)
	_, err = NewCommand(big.NewInt(1), kp.PubKey, nil, big.NewInt(9), big.NewInt(1), nil)
	c.Assert(errors.Is(err, ErrValidation), qt.IsTrue)
}

func TestCommandHash(t *testing.T) {
	c := qt.New(t)
	cmd := testCommand(c, NewKeyPair().PubKey)

	h, err := cmd.Hash()
	c.Assert(err, qt.IsNil)
	again, err := cmd.Copy().Hash()
	c.Assert(err, qt.IsNil)
	c.Assert(h.Cmp(again), qt.Equals, 0)

	mutations := []func(*Command){
		func(c *Command) { c.StateIndex.Add(c.StateIndex, big.NewInt(1)) },
		func(c *Command) { c.NewPubKey = NewKeyPair().PubKey },
		func(c *Command) { c.VoteOptionIndex.Add(c.VoteOptionIndex, big.NewInt(1)) },
		func(c *Command) { c.NewVoteWeight.Add(c.NewVoteWeight, big.NewInt(1)) },
		func(c *Command) { c.Nonce.Add(c.Nonce, big.NewInt(1)) },
		func(c *Command) { c.Salt = GenRandomSalt() },
	}
	for i, mutate := range mutations {
		cp := cmd.Copy()
		mutate(cp)
		c.Assert(cp.Equals(cmd), qt.IsFalse, qt.Commentf("mutation %d", i))
		mh, err := cp.Hash()
		c.Assert(err, qt.IsNil)
		c.Assert(mh.Cmp(h), qt.Not(qt.Equals), 0, qt.Commentf("mutation %d", i))
	}

	invalid := cmd.Copy()
	invalid.Nonce = nil
	_, err = invalid.Hash()
	c.Assert(errors.Is(err, ErrValidation), qt.IsTrue)
}

func TestCommandSignature(t *testing.T) {
	c := qt.New(t)
	kp := NewKeyPair()
	cmd := testCommand(c, kp.PubKey)

	sig, err := cmd.Sign(kp.PrivKey)
	c.Assert(err, qt.IsNil)
	ok, err := cmd.VerifySignature(sig, kp.PubKey)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)

	t.Run("other key", func(t *testing.T) {
		c := qt.New(t)
		ok, err := cmd.VerifySignature(sig, NewKeyPair().PubKey)
		c.Assert(err, qt.IsNil)
		c.Assert(ok, qt.IsFalse)
	})

	t.Run("mutated nonce", func(t *testing.T) {
		c := qt.New(t)
		mutated := cmd.Copy()
		mutated.Nonce = big.NewInt(2)
		ok, err := mutated.VerifySignature(sig, kp.PubKey)
		c.Assert(err, qt.IsNil)
		c.Assert(ok, qt.IsFalse)
	})

	t.Run("mutated signature", func(t *testing.T) {
		c := qt.New(t)
		bad := sig.Copy()
		bad.S = new(big.Int).Add(bad.S, big.NewInt(1))
		ok, err := cmd.VerifySignature(bad, kp.PubKey)
		c.Assert(err, qt.IsNil)
		c.Assert(ok, qt.IsFalse)
	})

	t.Run("missing inputs", func(t *testing.T) {
		c := qt.New(t)
		_, err := cmd.Sign(nil)
		c.Assert(errors.Is(err, ErrValidation), qt.IsTrue)
		_, err = cmd.VerifySignature(sig, nil)
		c.Assert(errors.Is(err, ErrValidation), qt.IsTrue)
		_, err = cmd.VerifySignature(nil, kp.PubKey)
		c.Assert(err, qt.IsNotNil)
	})

	t.Run("signing key differs from new key", func(t *testing.T) {
		c := qt.New(t)
		signer := NewKeyPair()
		keyChange := testCommand(c, NewKeyPair().PubKey)
		sig, err := keyChange.Sign(signer.PrivKey)
		c.Assert(err, qt.IsNil)
		ok, err := keyChange.VerifySignature(sig, signer.PubKey)
		c.Assert(err, qt.IsNil)
		c.Assert(ok, qt.IsTrue)
	})
}

func TestCommandEncryption(t *testing.T) {
	c := qt.New(t)
	user, coordinator := NewKeyPair(), NewKeyPair()
	cmd := testCommand(c, user.PubKey)
	sig, err := cmd.Sign(user.PrivKey)
	c.Assert(err, qt.IsNil)

	userKey, err := EcdhSharedKey(user.PrivKey, coordinator.PubKey)
	c.Assert(err, qt.IsNil)
	coordinatorKey, err := EcdhSharedKey(coordinator.PrivKey, user.PubKey)
	c.Assert(err, qt.IsNil)

	msg, err := cmd.Encrypt(sig, userKey)
	c.Assert(err, qt.IsNil)
	c.Assert(msg.Data(), qt.HasLen, MessageDataLen)

	decrypted, decSig, err := DecryptCommand(msg, coordinatorKey)
	c.Assert(err, qt.IsNil)
	c.Assert(decrypted.Equals(cmd), qt.IsTrue)
	c.Assert(decSig.Equals(sig), qt.IsTrue)
	ok, err := decrypted.VerifySignature(decSig, user.PubKey)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)

	t.Run("wrong key", func(t *testing.T) {
		c := qt.New(t)
		wrongKey, err := EcdhSharedKey(NewKeyPair().PrivKey, coordinator.PubKey)
		c.Assert(err, qt.IsNil)
		garbled, garbledSig, err := DecryptCommand(msg, wrongKey)
		c.Assert(err, qt.IsNil)
		c.Assert(garbled.Equals(cmd), qt.IsFalse)
		ok, err := garbled.VerifySignature(garbledSig, user.PubKey)
		c.Assert(err, qt.IsNil)
		c.Assert(ok, qt.IsFalse)
	})

	t.Run("invalid inputs", func(t *testing.T) {
		c := qt.New(t)
		_, err := cmd.Encrypt(nil, userKey)
		c.Assert(errors.Is(err, ErrValidation), qt.IsTrue)
		_, _, err = DecryptCommand(nil, userKey)
		c.Assert(errors.Is(err, ErrValidation), qt.IsTrue)
	})
}
