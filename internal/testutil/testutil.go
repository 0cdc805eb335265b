// Package testutil holds fixtures shared by the tests of several packages.
package testutil

import (
	"math/big"

	"github.com/vocdoni/maci-domainobjs/crypto"
	"github.com/vocdoni/maci-domainobjs/domainobjs"
)

const (
	// VoteOption and VoteWeight are used by the fixture commands.
	VoteOption = 3
	VoteWeight = 9
)

// RandomMessage returns a message with random in-field values.
func RandomMessage() *domainobjs.Message {
	data := make([]*big.Int, domainobjs.MessageDataLen)
	for i := range data {
		data[i] = crypto.RandomFieldElement()
	}
	msg, err := domainobjs.NewMessage(crypto.RandomFieldElement(), data)
	if err != nil {
		panic(err)
	}
	return msg
}

// DeterministicKeyPair returns the key pair whose private key is n+1.
func DeterministicKeyPair(n uint64) *domainobjs.KeyPair {
	priv, err := domainobjs.NewPrivateKey(new(big.Int).SetUint64(n + 1))
	if err != nil {
		panic(err)
	}
	kp, err := domainobjs.KeyPairFromPrivateKey(priv)
	if err != nil {
		panic(err)
	}
	return kp
}

// EncryptedVote builds a vote command for stateIndex, signs it with user
// and encrypts it for coordinator. It returns the command and the
// resulting message.
func EncryptedVote(user, coordinator *domainobjs.KeyPair, stateIndex, nonce uint64) (*domainobjs.Command, *domainobjs.Message) {
	cmd, err := domainobjs.NewCommand(
		new(big.Int).SetUint64(stateIndex),
		user.PubKey,
		big.NewInt(VoteOption),
		big.NewInt(VoteWeight),
		new(big.Int).SetUint64(nonce),
		nil,
	)
	if err != nil {
		panic(err)
	}
	sig, err := cmd.Sign(user.PrivKey)
	if err != nil {
		panic(err)
	}
	sharedKey, err := domainobjs.EcdhSharedKey(user.PrivKey, coordinator.PubKey)
	if err != nil {
		panic(err)
	}
	msg, err := cmd.Encrypt(sig, sharedKey)
	if err != nil {
		panic(err)
	}
	return cmd, msg
}
