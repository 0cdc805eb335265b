package util

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestHexToBigInt(t *testing.T) {
	c := qt.New(t)

	v, err := HexToBigInt("ff")
	c.Assert(err, qt.IsNil)
	c.Assert(v.Int64(), qt.Equals, int64(255))

	v, err = HexToBigInt("0A")
	c.Assert(err, qt.IsNil)
	c.Assert(v.Int64(), qt.Equals, int64(10))

	for _, bad := range []string{"", "0x", "0x10", "zz", "-1", "+1", "1 2"} {
		_, err := HexToBigInt(bad)
		c.Assert(err, qt.IsNotNil, qt.Commentf("input %q", bad))
	}
}

func TestRandomBigInt(t *testing.T) {
	c := qt.New(t)
	min, max := big.NewInt(10), big.NewInt(20)
	for range 100 {
		v := RandomBigInt(min, max)
		c.Assert(v.Cmp(min) >= 0 && v.Cmp(max) < 0, qt.IsTrue)
	}
}
