package api

import (
	"github.com/vocdoni/maci-domainobjs/domainobjs"
	"github.com/vocdoni/maci-domainobjs/types"
)

// PublishMessageRequest is the body of a POST to MessagesEndpoint: the
// message iv and its 10 data elements as decimal strings.
type PublishMessageRequest = domainobjs.MessageContractParam

// PublishMessageResponse is returned after a message is stored.
type PublishMessageResponse struct {
	Index uint64        `json:"index"`
	Hash  *types.BigInt `json:"hash"`
}

// MessageResponse describes a stored message.
type MessageResponse struct {
	Index   uint64                          `json:"index"`
	Message domainobjs.MessageContractParam `json:"message"`
	Hash    *types.BigInt                   `json:"hash"`
}

// MessageABI wraps the Solidity ABI encoding of a message,
// tuple(uint256 iv, uint256[10] data).
type MessageABI struct {
	ABI types.HexBytes `json:"abi"`
}

// MessagesResponse is the answer to a GET on MessagesEndpoint. Messages is
// only filled if a range was requested.
type MessagesResponse struct {
	Count    uint64             `json:"count"`
	Messages []*MessageResponse `json:"messages,omitempty"`
}

// StateLeafResponse describes a state leaf.
type StateLeafResponse struct {
	Index              *uint64       `json:"index,omitempty"`
	Blank              bool          `json:"blank"`
	PubKey             string        `json:"pubKey"`
	VoteOptionTreeRoot *types.BigInt `json:"voteOptionTreeRoot"`
	VoiceCreditBalance *types.BigInt `json:"voiceCreditBalance"`
	Nonce              *types.BigInt `json:"nonce"`
	Hash               *types.BigInt `json:"hash"`
	Serialized         string        `json:"serialized"`
}

// ValidateKeysRequest holds serialized keys to check. At least one of them
// must be set.
type ValidateKeysRequest struct {
	PubKey  string `json:"pubKey,omitempty"`
	PrivKey string `json:"privKey,omitempty"`
}

// ValidateKeysResponse tells whether each provided key is valid. For a valid
// private key, the serialized public key derived from it is included.
type ValidateKeysResponse struct {
	PubKey        *bool  `json:"pubKey,omitempty"`
	PrivKey       *bool  `json:"privKey,omitempty"`
	DerivedPubKey string `json:"derivedPubKey,omitempty"`
}
