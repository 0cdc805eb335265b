// Package poseidon provides the fixed-arity Poseidon hashes used to commit
// to MACI objects. Both arities are backed by the iden3 implementation so
// the digests match the circuits and the on-chain hashers.
package poseidon

import (
	"fmt"
	"math/big"

	"github.com/iden3/go-iden3-crypto/poseidon"
	"github.com/vocdoni/maci-domainobjs/crypto"
)

const (
	// Arity5 is the number of inputs of Hash5 (state leaves).
	Arity5 = 5
	// Arity11 is the number of inputs of Hash11 (messages and commands).
	Arity11 = 11
)

// Hash5 hashes up to five field elements. Shorter inputs are right padded
// with zeros so the result is always the 5-input Poseidon digest.
func Hash5(inputs []*big.Int) (*big.Int, error) {
	return fixedArityHash(Arity5, inputs)
}

// Hash11 hashes up to eleven field elements. Shorter inputs are right
// padded with zeros so the result is always the 11-input Poseidon digest.
func Hash11(inputs []*big.Int) (*big.Int, error) {
	return fixedArityHash(Arity11, inputs)
}

func fixedArityHash(arity int, inputs []*big.Int) (*big.Int, error) {
	if len(inputs) > arity {
		return nil, fmt.Errorf("too many inputs for hash%d: %d", arity, len(inputs))
	}
	if err := crypto.CheckInField(inputs...); err != nil {
		return nil, fmt.Errorf("hash%d: %w", arity, err)
	}
	padded := make([]*big.Int, arity)
	for i := range padded {
		if i < len(inputs) {
			padded[i] = inputs[i]
		} else {
			padded[i] = big.NewInt(0)
		}
	}
	return poseidon.Hash(padded)
}
