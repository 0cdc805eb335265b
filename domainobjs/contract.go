package domainobjs

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/holiman/uint256"
)

// PubKeyContractParam is the contract-facing view of a public key.
type PubKeyContractParam struct {
	X string `json:"x"`
	Y string `json:"y"`
}

// MessageContractParam is the contract-facing view of a message.
type MessageContractParam struct {
	IV   string   `json:"iv"`
	Data []string `json:"data"`
}

type abiPubKey struct {
	X *big.Int `abi:"x"`
	Y *big.Int `abi:"y"`
}

type abiMessage struct {
	Iv   *big.Int                 `abi:"iv"`
	Data [MessageDataLen]*big.Int `abi:"data"`
}

var (
	pubKeyABIArgs  abi.Arguments
	messageABIArgs abi.Arguments
)

func init() {
	pubKeyType, err := abi.NewType("tuple", "struct DomainObjs.PubKey", []abi.ArgumentMarshaling{
		{Name: "x", Type: "uint256"},
		{Name: "y", Type: "uint256"},
	})
	if err != nil {
		panic(err)
	}
	messageType, err := abi.NewType("tuple", "struct DomainObjs.Message", []abi.ArgumentMarshaling{
		{Name: "iv", Type: "uint256"},
		{Name: "data", Type: fmt.Sprintf("uint256[%d]", MessageDataLen)},
	})
	if err != nil {
		panic(err)
	}
	pubKeyABIArgs = abi.Arguments{{Name: "pubKey", Type: pubKeyType}}
	messageABIArgs = abi.Arguments{{Name: "message", Type: messageType}}
}

// ABIEncode packs the key as the Solidity struct PubKey(uint256 x, uint256 y).
func (p *PublicKey) ABIEncode() ([]byte, error) {
	return pubKeyABIArgs.Pack(abiPubKey{X: p.X(), Y: p.Y()})
}

// PublicKeyFromABI decodes a key packed with ABIEncode.
func PublicKeyFromABI(data []byte) (*PublicKey, error) {
	values, err := pubKeyABIArgs.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	decoded := abi.ConvertType(values[0], new(abiPubKey)).(*abiPubKey)
	return NewPublicKey(decoded.X, decoded.Y)
}

// ABIEncode packs the message as the Solidity struct
// Message(uint256 iv, uint256[10] data).
func (m *Message) ABIEncode() ([]byte, error) {
	msg := abiMessage{Iv: m.IV()}
	copy(msg.Data[:], m.Data())
	return messageABIArgs.Pack(msg)
}

// MessageFromABI decodes a message packed with ABIEncode.
func MessageFromABI(data []byte) (*Message, error) {
	values, err := messageABIArgs.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	decoded := abi.ConvertType(values[0], new(abiMessage)).(*abiMessage)
	return NewMessage(decoded.Iv, decoded.Data[:])
}

// MessageFromContractParam parses the decimal strings of a contract param
// back into a message.
func MessageFromContractParam(param MessageContractParam) (*Message, error) {
	iv, err := parseContractUint("iv", param.IV)
	if err != nil {
		return nil, err
	}
	data := make([]*big.Int, len(param.Data))
	for i, d := range param.Data {
		if data[i], err = parseContractUint(fmt.Sprintf("data[%d]", i), d); err != nil {
			return nil, err
		}
	}
	return NewMessage(iv, data)
}

// PublicKeyFromContractParam parses the decimal strings of a contract param
// back into a public key.
func PublicKeyFromContractParam(param PubKeyContractParam) (*PublicKey, error) {
	x, err := parseContractUint("x", param.X)
	if err != nil {
		return nil, err
	}
	y, err := parseContractUint("y", param.Y)
	if err != nil {
		return nil, err
	}
	return NewPublicKey(x, y)
}

// parseContractUint reads a decimal uint256 word. Signs other than a single
// leading '+' and values wider than 256 bits are rejected before any field
// check.
func parseContractUint(name, s string) (*big.Int, error) {
	w, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s %q: %v", ErrDecode, name, s, err)
	}
	return w.ToBig(), nil
}
