package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/maci-domainobjs/domainobjs"
)

func TestGenerate(t *testing.T) {
	c := qt.New(t)
	var buf bytes.Buffer
	c.Assert(generate(&buf, 5), qt.IsNil)

	seen := map[string]bool{}
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var out KeyPairOutput
		c.Assert(json.Unmarshal(scanner.Bytes(), &out), qt.IsNil)
		priv, err := domainobjs.UnserializePrivateKey(out.PrivKey)
		c.Assert(err, qt.IsNil)
		kp, err := domainobjs.KeyPairFromPrivateKey(priv)
		c.Assert(err, qt.IsNil)
		c.Assert(kp.PubKey.Serialize(), qt.Equals, out.PubKey)
		c.Assert(out.PubKeyCoords, qt.DeepEquals, kp.PubKey.AsCircuitInputs())
		c.Assert(seen[out.PrivKey], qt.IsFalse)
		seen[out.PrivKey] = true
	}
	c.Assert(seen, qt.HasLen, 5)

	c.Assert(generate(&buf, 0), qt.IsNotNil)
}

func TestDerive(t *testing.T) {
	c := qt.New(t)
	var buf bytes.Buffer
	c.Assert(derive(&buf, "macisk.5"), qt.IsNil)
	var out KeyPairOutput
	c.Assert(json.Unmarshal(buf.Bytes(), &out), qt.IsNil)
	c.Assert(out.PrivKey, qt.Equals, "macisk.5")
	pub, err := domainobjs.UnserializePublicKey(out.PubKey)
	c.Assert(err, qt.IsNil)
	c.Assert(pub.AsCircuitInputs(), qt.DeepEquals, out.PubKeyCoords)

	c.Assert(derive(&buf, "macisk.xyz"), qt.IsNotNil)
	c.Assert(derive(&buf, "5"), qt.IsNotNil)
}
