package domainobjs

import (
	"errors"
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/maci-domainobjs/crypto"
)

func testMessage(c *qt.C) *Message {
	data := make([]*big.Int, MessageDataLen)
	for i := range data {
		data[i] = crypto.RandomFieldElement()
	}
	msg, err := NewMessage(crypto.RandomFieldElement(), data)
	c.Assert(err, qt.IsNil)
	return msg
}

func TestMessage(t *testing.T) {
	t.Run("construction", func(t *testing.T) {
		c := qt.New(t)
		_, err := NewMessage(big.NewInt(1), make([]*big.Int, 9))
		c.Assert(errors.Is(err, ErrValidation), qt.IsTrue)
		_, err = NewMessage(nil, testMessage(c).Data())
		c.Assert(errors.Is(err, ErrValidation), qt.IsTrue)

		data := testMessage(c).Data()
		data[4] = new(big.Int).Set(crypto.SnarkField)
		_, err = NewMessage(big.NewInt(1), data)
		c.Assert(errors.Is(err, ErrValidation), qt.IsTrue)
	})

	t.Run("circuit inputs", func(t *testing.T) {
		c := qt.New(t)
		msg := testMessage(c)
		in := msg.AsCircuitInputs()
		c.Assert(in, qt.HasLen, MessageDataLen+1)
		c.Assert(in[0].Cmp(msg.IV()), qt.Equals, 0)
		for i, d := range msg.Data() {
			c.Assert(in[i+1].Cmp(d), qt.Equals, 0)
		}

		strs := msg.AsCircuitInputStrings()
		c.Assert(strs, qt.HasLen, MessageDataLen+1)
		for i, v := range in {
			c.Assert(strs[i], qt.Equals, v.String())
		}
	})

	t.Run("hash", func(t *testing.T) {
		c := qt.New(t)
		msg := testMessage(c)
		h, err := msg.Hash()
		c.Assert(err, qt.IsNil)
		h2, err := msg.Copy().Hash()
		c.Assert(err, qt.IsNil)
		c.Assert(h.Cmp(h2), qt.Equals, 0)

		for i := range MessageDataLen {
			data := msg.Data()
			data[i] = new(big.Int).Add(data[i], big.NewInt(1))
			data[i].Mod(data[i], crypto.SnarkField)
			other, err := NewMessage(msg.IV(), data)
			c.Assert(err, qt.IsNil)
			c.Assert(other.Equals(msg), qt.IsFalse)
			oh, err := other.Hash()
			c.Assert(err, qt.IsNil)
			c.Assert(oh.Cmp(h), qt.Not(qt.Equals), 0)
		}
	})

	t.Run("copy is independent", func(t *testing.T) {
		c := qt.New(t)
		msg := testMessage(c)
		cp := msg.Copy()
		c.Assert(cp.Equals(msg), qt.IsTrue)
		cp.data[0].Add(cp.data[0], big.NewInt(1))
		c.Assert(cp.Equals(msg), qt.IsFalse)
		msg.IV().SetInt64(0)
		c.Assert(msg.Equals(msg.Copy()), qt.IsTrue)
	})

	t.Run("contract param", func(t *testing.T) {
		c := qt.New(t)
		msg := testMessage(c)
		param := msg.AsContractParam()
		c.Assert(param.IV, qt.Equals, msg.IV().String())
		c.Assert(param.Data, qt.HasLen, MessageDataLen)
		back, err := MessageFromContractParam(param)
		c.Assert(err, qt.IsNil)
		c.Assert(back.Equals(msg), qt.IsTrue)

		param.Data[2] = "0x12"
		_, err = MessageFromContractParam(param)
		c.Assert(errors.Is(err, ErrDecode), qt.IsTrue)
	})
}
