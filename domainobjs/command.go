package domainobjs

import (
	"fmt"
	"math/big"

	"github.com/vocdoni/maci-domainobjs/crypto"
	"github.com/vocdoni/maci-domainobjs/crypto/bjj"
	"github.com/vocdoni/maci-domainobjs/crypto/hash/poseidon"
	"github.com/vocdoni/maci-domainobjs/crypto/symmetric"
	"github.com/vocdoni/maci-domainobjs/log"
)

const (
	// CommandLen is the length of the command vector.
	CommandLen = 7
	// SignatureLen is the number of elements a signature adds to the
	// plaintext of a message.
	SignatureLen = 3
)

// Signature is the EdDSA-Poseidon signature of a command hash.
type Signature = bjj.Signature

// Command is the plaintext vote instruction of a user. It either changes the
// user's key (NewPubKey) or casts NewVoteWeight votes for VoteOptionIndex.
// Nonce is the number of commands of the user accepted so far and Salt
// makes two otherwise identical commands hash differently.
//
// Commands are treated as immutable once built; use Copy to get an
// instance that can be modified.
type Command struct {
	StateIndex      *big.Int
	NewPubKey       *PublicKey
	VoteOptionIndex *big.Int
	NewVoteWeight   *big.Int
	Nonce           *big.Int
	Salt            *big.Int
}

// NewCommand builds a command from copies of the values provided. If salt is
// nil a random one is drawn.
func NewCommand(stateIndex *big.Int, newPubKey *PublicKey, voteOptionIndex, newVoteWeight, nonce, salt *big.Int) (*Command, error) {
	if salt == nil {
		salt = GenRandomSalt()
	}
	if newPubKey == nil {
		return nil, fmt.Errorf("%w: missing new public key", ErrValidation)
	}
	cmd := &Command{
		StateIndex:      crypto.CopyBigInt(stateIndex),
		NewPubKey:       newPubKey.Copy(),
		VoteOptionIndex: crypto.CopyBigInt(voteOptionIndex),
		NewVoteWeight:   crypto.CopyBigInt(newVoteWeight),
		Nonce:           crypto.CopyBigInt(nonce),
		Salt:            crypto.CopyBigInt(salt),
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return cmd, nil
}

// GenRandomSalt returns a random field element to be used as command salt.
func GenRandomSalt() *big.Int {
	return crypto.RandomFieldElement()
}

// Validate checks that every component of the command is set and is a
// field element.
func (c *Command) Validate() error {
	if c.NewPubKey == nil {
		return fmt.Errorf("%w: missing new public key", ErrValidation)
	}
	if err := crypto.CheckInField(c.StateIndex, c.VoteOptionIndex, c.NewVoteWeight, c.Nonce, c.Salt); err != nil {
		return fmt.Errorf("%w: command: %v", ErrValidation, err)
	}
	return nil
}

// AsArray returns the command vector:
//
//	[stateIndex, newPubKey.x, newPubKey.y, voteOptionIndex, newVoteWeight, nonce, salt]
func (c *Command) AsArray() []*big.Int {
	var x, y *big.Int
	if c.NewPubKey != nil {
		x, y = c.NewPubKey.X(), c.NewPubKey.Y()
	}
	return []*big.Int{
		crypto.CopyBigInt(c.StateIndex),
		x,
		y,
		crypto.CopyBigInt(c.VoteOptionIndex),
		crypto.CopyBigInt(c.NewVoteWeight),
		crypto.CopyBigInt(c.Nonce),
		crypto.CopyBigInt(c.Salt),
	}
}

// Copy returns a deep copy of the command.
func (c *Command) Copy() *Command {
	cp := &Command{
		StateIndex:      crypto.CopyBigInt(c.StateIndex),
		VoteOptionIndex: crypto.CopyBigInt(c.VoteOptionIndex),
		NewVoteWeight:   crypto.CopyBigInt(c.NewVoteWeight),
		Nonce:           crypto.CopyBigInt(c.Nonce),
		Salt:            crypto.CopyBigInt(c.Salt),
	}
	if c.NewPubKey != nil {
		cp.NewPubKey = c.NewPubKey.Copy()
	}
	return cp
}

// Equals compares every component, salt included.
func (c *Command) Equals(other *Command) bool {
	if c == nil || other == nil {
		return c == other
	}
	a, b := c.AsArray(), other.AsArray()
	for i := range a {
		if a[i] == nil || b[i] == nil {
			if a[i] != b[i] {
				return false
			}
			continue
		}
		if a[i].Cmp(b[i]) != 0 {
			return false
		}
	}
	return true
}

// Hash returns the signing preimage: the 11-ary Poseidon hash of the
// command vector, zero padded.
func (c *Command) Hash() (*big.Int, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return poseidon.Hash11(c.AsArray())
}

// Sign signs the command hash with privKey.
func (c *Command) Sign(privKey *PrivateKey) (*Signature, error) {
	if privKey == nil {
		return nil, fmt.Errorf("%w: missing private key", ErrValidation)
	}
	h, err := c.Hash()
	if err != nil {
		return nil, err
	}
	return bjj.Sign(privKey.raw, h)
}

// VerifySignature checks that signature is a signature of the command by
// the owner of pubKey. A signature that does not match returns false; an
// error is only returned for malformed inputs.
func (c *Command) VerifySignature(signature *Signature, pubKey *PublicKey) (bool, error) {
	if pubKey == nil {
		return false, fmt.Errorf("%w: missing public key", ErrValidation)
	}
	h, err := c.Hash()
	if err != nil {
		return false, err
	}
	return bjj.Verify(h, signature, pubKey.point())
}

// Encrypt encrypts the command and its signature under sharedKey. The
// plaintext is the command vector followed by [R8.x, R8.y, S].
func (c *Command) Encrypt(signature *Signature, sharedKey *big.Int) (*Message, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if signature == nil {
		return nil, fmt.Errorf("%w: missing signature", ErrValidation)
	}
	plaintext := append(c.AsArray(),
		crypto.CopyBigInt(signature.R8[0]),
		crypto.CopyBigInt(signature.R8[1]),
		crypto.CopyBigInt(signature.S),
	)
	ct, err := symmetric.Encrypt(plaintext, sharedKey)
	if err != nil {
		return nil, fmt.Errorf("cannot encrypt command: %w", err)
	}
	return NewMessage(ct.IV, ct.Data)
}

// DecryptCommand decrypts message with sharedKey and splits the plaintext
// back into the command and its signature. Decrypting with the wrong key is
// not detected here: it yields a command whose signature does not verify.
func DecryptCommand(message *Message, sharedKey *big.Int) (*Command, *Signature, error) {
	if message == nil {
		return nil, nil, fmt.Errorf("%w: missing message", ErrValidation)
	}
	plaintext, err := symmetric.Decrypt(&symmetric.Ciphertext{IV: message.IV(), Data: message.Data()}, sharedKey)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot decrypt message: %w", err)
	}
	if len(plaintext) != CommandLen+SignatureLen {
		return nil, nil, fmt.Errorf("%w: plaintext has %d elements", ErrValidation, len(plaintext))
	}
	pubKey, err := NewPublicKey(plaintext[1], plaintext[2])
	if err != nil {
		return nil, nil, err
	}
	cmd := &Command{
		StateIndex:      plaintext[0],
		NewPubKey:       pubKey,
		VoteOptionIndex: plaintext[3],
		NewVoteWeight:   plaintext[4],
		Nonce:           plaintext[5],
		Salt:            plaintext[6],
	}
	sig := &Signature{
		R8: [2]*big.Int{plaintext[7], plaintext[8]},
		S:  plaintext[9],
	}
	log.Debugw("decrypted command", "stateIndex", cmd.StateIndex.String(), "nonce", cmd.Nonce.String())
	return cmd, sig, nil
}
