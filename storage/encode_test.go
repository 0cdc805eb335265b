package storage

import (
	"bytes"
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/maci-domainobjs/types"
)

func TestEncodeDecodeRecord(t *testing.T) {
	c := qt.New(t)
	record := &stateLeafRecord{
		PubKeyX:            types.NewInt(1),
		PubKeyY:            types.NewInt(2),
		VoteOptionTreeRoot: types.BigIntFrom(new(big.Int).Lsh(big.NewInt(1), 200)),
		VoiceCreditBalance: types.NewInt(100),
		Nonce:              types.NewInt(0),
	}

	c.Run("default encoding", func(c *qt.C) {
		encoded, err := EncodeRecord(record)
		c.Assert(err, qt.IsNil)
		decoded := &stateLeafRecord{}
		c.Assert(DecodeRecord(encoded, decoded), qt.IsNil)
		c.Assert(decoded, qt.DeepEquals, record)
	})

	c.Run("cbor is deterministic", func(c *qt.C) {
		a, err := EncodeRecord(record, RecordEncodingCBOR)
		c.Assert(err, qt.IsNil)
		b, err := EncodeRecord(record, RecordEncodingCBOR)
		c.Assert(err, qt.IsNil)
		c.Assert(bytes.Equal(a, b), qt.IsTrue)
	})

	c.Run("json encoding", func(c *qt.C) {
		encoded, err := EncodeRecord(record, RecordEncodingJSON)
		c.Assert(err, qt.IsNil)
		c.Assert(string(encoded), qt.Contains, `"voiceCreditBalance":"100"`)
		decoded := &stateLeafRecord{}
		c.Assert(DecodeRecord(encoded, decoded, RecordEncodingJSON), qt.IsNil)
		c.Assert(decoded, qt.DeepEquals, record)
	})

	c.Run("invalid encoding", func(c *qt.C) {
		_, err := EncodeRecord(record, RecordEncoding(100))
		c.Assert(err, qt.IsNotNil)
		c.Assert(DecodeRecord([]byte{0}, &stateLeafRecord{}, RecordEncoding(100)), qt.IsNotNil)
	})
}
