package domainobjs

import (
	"errors"
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/maci-domainobjs/crypto"
)

func TestPublicKeyABI(t *testing.T) {
	c := qt.New(t)
	pk := NewKeyPair().PubKey

	packed, err := pk.ABIEncode()
	c.Assert(err, qt.IsNil)
	c.Assert(packed, qt.HasLen, 64)
	c.Assert(new(big.Int).SetBytes(packed[:32]).Cmp(pk.X()), qt.Equals, 0)
	c.Assert(new(big.Int).SetBytes(packed[32:]).Cmp(pk.Y()), qt.Equals, 0)

	back, err := PublicKeyFromABI(packed)
	c.Assert(err, qt.IsNil)
	c.Assert(back.Equals(pk), qt.IsTrue)

	_, err = PublicKeyFromABI(packed[:40])
	c.Assert(errors.Is(err, ErrDecode), qt.IsTrue)

	param := pk.AsContractParam()
	fromParam, err := PublicKeyFromContractParam(param)
	c.Assert(err, qt.IsNil)
	c.Assert(fromParam.Equals(pk), qt.IsTrue)
	_, err = PublicKeyFromContractParam(PubKeyContractParam{X: "1", Y: "y"})
	c.Assert(errors.Is(err, ErrDecode), qt.IsTrue)
}

func TestMessageABI(t *testing.T) {
	c := qt.New(t)
	msg := testMessage(c)

	packed, err := msg.ABIEncode()
	c.Assert(err, qt.IsNil)
	c.Assert(packed, qt.HasLen, 32*(MessageDataLen+1))
	c.Assert(new(big.Int).SetBytes(packed[:32]).Cmp(msg.IV()), qt.Equals, 0)

	back, err := MessageFromABI(packed)
	c.Assert(err, qt.IsNil)
	c.Assert(back.Equals(msg), qt.IsTrue)

	_, err = MessageFromABI(packed[:100])
	c.Assert(errors.Is(err, ErrDecode), qt.IsTrue)
}

func TestParseContractUint(t *testing.T) {
	c := qt.New(t)

	v, err := parseContractUint("x", "12")
	c.Assert(err, qt.IsNil)
	c.Assert(v.Int64(), qt.Equals, int64(12))

	maxWord := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	v, err = parseContractUint("x", maxWord.String())
	c.Assert(err, qt.IsNil)
	c.Assert(v.Cmp(maxWord), qt.Equals, 0)

	wide := new(big.Int).Lsh(big.NewInt(1), 256).String()
	for _, bad := range []string{"", "-1", "-0", "1_000", "0x10", "abc", wide} {
		_, err := parseContractUint("x", bad)
		c.Assert(errors.Is(err, ErrDecode), qt.IsTrue, qt.Commentf("input %q", bad))
	}
}

func TestContractParamRejections(t *testing.T) {
	c := qt.New(t)

	// a negative coordinate is a decoding error, not a field error
	_, err := PublicKeyFromContractParam(PubKeyContractParam{X: "-1", Y: "1"})
	c.Assert(errors.Is(err, ErrDecode), qt.IsTrue)

	// a 256-bit word that is outside the field fails validation instead
	_, err = PublicKeyFromContractParam(PubKeyContractParam{X: crypto.SnarkField.String(), Y: "1"})
	c.Assert(errors.Is(err, ErrValidation), qt.IsTrue)

	param := testMessage(c).AsContractParam()
	param.Data[3] = new(big.Int).Lsh(big.NewInt(1), 300).String()
	_, err = MessageFromContractParam(param)
	c.Assert(errors.Is(err, ErrDecode), qt.IsTrue)
	c.Assert(err, qt.ErrorMatches, `.*invalid data\[3\].*`)
}
