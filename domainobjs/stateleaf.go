package domainobjs

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/vocdoni/maci-domainobjs/crypto"
	"github.com/vocdoni/maci-domainobjs/crypto/hash/poseidon"
	"github.com/vocdoni/maci-domainobjs/util"
)

// StateLeafLen is the length of the state leaf vector.
const StateLeafLen = 5

// StateLeaf is the record of one participant in the state tree. A new leaf
// replaces the previous one on every accepted command.
type StateLeaf struct {
	PubKey             *PublicKey
	VoteOptionTreeRoot *big.Int
	VoiceCreditBalance *big.Int
	Nonce              *big.Int
}

// serializedStateLeaf is the JSON document behind StateLeaf.Serialize. The
// field order is part of the format.
type serializedStateLeaf struct {
	PubKey             string `json:"pubKey"`
	VoteOptionTreeRoot string `json:"voteOptionTreeRoot"`
	VoiceCreditBalance string `json:"voiceCreditBalance"`
	Nonce              string `json:"nonce"`
}

// NewStateLeaf builds a leaf from copies of the values provided.
func NewStateLeaf(pubKey *PublicKey, voteOptionTreeRoot, voiceCreditBalance, nonce *big.Int) (*StateLeaf, error) {
	if pubKey == nil {
		return nil, fmt.Errorf("%w: missing public key", ErrValidation)
	}
	leaf := &StateLeaf{
		PubKey:             pubKey.Copy(),
		VoteOptionTreeRoot: crypto.CopyBigInt(voteOptionTreeRoot),
		VoiceCreditBalance: crypto.CopyBigInt(voiceCreditBalance),
		Nonce:              crypto.CopyBigInt(nonce),
	}
	if err := leaf.Validate(); err != nil {
		return nil, err
	}
	return leaf, nil
}

// GenBlankLeaf returns the leaf used for unallocated positions of the state
// tree: the zero public key, the root of an empty vote option tree, no
// voice credits and nonce 0.
func GenBlankLeaf(emptyVoteOptionTreeRoot *big.Int) (*StateLeaf, error) {
	return NewStateLeaf(ZeroPublicKey(), emptyVoteOptionTreeRoot, big.NewInt(0), big.NewInt(0))
}

// GenRandomLeaf returns a leaf with a fresh key pair and random values. It
// is meant for tests and fixtures.
func GenRandomLeaf() *StateLeaf {
	return &StateLeaf{
		PubKey:             NewKeyPair().PubKey,
		VoteOptionTreeRoot: crypto.RandomFieldElement(),
		VoiceCreditBalance: crypto.RandomFieldElement(),
		Nonce:              crypto.RandomFieldElement(),
	}
}

// Validate checks that every component is set and is a field element.
func (l *StateLeaf) Validate() error {
	if l.PubKey == nil {
		return fmt.Errorf("%w: missing public key", ErrValidation)
	}
	if err := crypto.CheckInField(l.VoteOptionTreeRoot, l.VoiceCreditBalance, l.Nonce); err != nil {
		return fmt.Errorf("%w: state leaf: %v", ErrValidation, err)
	}
	return nil
}

// AsArray returns the state leaf vector:
//
//	[pubKey.x, pubKey.y, voteOptionTreeRoot, voiceCreditBalance, nonce]
func (l *StateLeaf) AsArray() []*big.Int {
	var x, y *big.Int
	if l.PubKey != nil {
		x, y = l.PubKey.X(), l.PubKey.Y()
	}
	return []*big.Int{
		x,
		y,
		crypto.CopyBigInt(l.VoteOptionTreeRoot),
		crypto.CopyBigInt(l.VoiceCreditBalance),
		crypto.CopyBigInt(l.Nonce),
	}
}

// AsCircuitInputs returns the state leaf vector as decimal strings.
func (l *StateLeaf) AsCircuitInputs() []string {
	arr := l.AsArray()
	out := make([]string, len(arr))
	for i, v := range arr {
		out[i] = v.String()
	}
	return out
}

// Hash returns the 5-ary Poseidon hash of the leaf vector, the value
// committed in the state tree.
func (l *StateLeaf) Hash() (*big.Int, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return poseidon.Hash5(l.AsArray())
}

// Copy returns a deep copy of the leaf.
func (l *StateLeaf) Copy() *StateLeaf {
	cp := &StateLeaf{
		VoteOptionTreeRoot: crypto.CopyBigInt(l.VoteOptionTreeRoot),
		VoiceCreditBalance: crypto.CopyBigInt(l.VoiceCreditBalance),
		Nonce:              crypto.CopyBigInt(l.Nonce),
	}
	if l.PubKey != nil {
		cp.PubKey = l.PubKey.Copy()
	}
	return cp
}

// Equals compares both leaves component by component.
func (l *StateLeaf) Equals(other *StateLeaf) bool {
	if l == nil || other == nil {
		return l == other
	}
	if err := l.Validate(); err != nil {
		return false
	}
	if err := other.Validate(); err != nil {
		return false
	}
	return l.PubKey.Equals(other.PubKey) &&
		l.VoteOptionTreeRoot.Cmp(other.VoteOptionTreeRoot) == 0 &&
		l.VoiceCreditBalance.Cmp(other.VoiceCreditBalance) == 0 &&
		l.Nonce.Cmp(other.Nonce) == 0
}

// Serialize encodes the leaf as the base64 of a JSON object holding the
// serialized public key and the lowercase hex of the numeric fields.
func (l *StateLeaf) Serialize() (string, error) {
	if err := l.Validate(); err != nil {
		return "", err
	}
	doc, err := json.Marshal(serializedStateLeaf{
		PubKey:             l.PubKey.Serialize(),
		VoteOptionTreeRoot: l.VoteOptionTreeRoot.Text(16),
		VoiceCreditBalance: l.VoiceCreditBalance.Text(16),
		Nonce:              l.Nonce.Text(16),
	})
	if err != nil {
		return "", fmt.Errorf("cannot encode state leaf: %w", err)
	}
	return base64.StdEncoding.EncodeToString(doc), nil
}

// UnserializeStateLeaf decodes a leaf produced by Serialize.
func UnserializeStateLeaf(s string) (*StateLeaf, error) {
	doc, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: state leaf base64: %v", ErrDecode, err)
	}
	var sl serializedStateLeaf
	if err := json.Unmarshal(doc, &sl); err != nil {
		return nil, fmt.Errorf("%w: state leaf json: %v", ErrDecode, err)
	}
	pubKey, err := UnserializePublicKey(sl.PubKey)
	if err != nil {
		return nil, err
	}
	values := make([]*big.Int, 3)
	for i, h := range []string{sl.VoteOptionTreeRoot, sl.VoiceCreditBalance, sl.Nonce} {
		if values[i], err = util.HexToBigInt(h); err != nil {
			return nil, fmt.Errorf("%w: state leaf: %v", ErrDecode, err)
		}
	}
	return NewStateLeaf(pubKey, values[0], values[1], values[2])
}
