package domainobjs

import (
	"fmt"
	"math/big"

	"github.com/vocdoni/maci-domainobjs/crypto"
	"github.com/vocdoni/maci-domainobjs/crypto/hash/poseidon"
)

// MessageDataLen is the number of ciphertext elements of a message: the 7
// element command vector plus the 3 signature elements.
const MessageDataLen = 10

// Message is an encrypted command: an initialization vector and exactly
// MessageDataLen ciphertext elements.
type Message struct {
	iv   *big.Int
	data []*big.Int
}

// NewMessage builds a message from copies of iv and data. All values must
// be field elements and data must have MessageDataLen elements.
func NewMessage(iv *big.Int, data []*big.Int) (*Message, error) {
	if len(data) != MessageDataLen {
		return nil, fmt.Errorf("%w: message needs %d data elements, got %d", ErrValidation, MessageDataLen, len(data))
	}
	if err := crypto.CheckInField(iv); err != nil {
		return nil, fmt.Errorf("%w: message iv: %v", ErrValidation, err)
	}
	if err := crypto.CheckInField(data...); err != nil {
		return nil, fmt.Errorf("%w: message data: %v", ErrValidation, err)
	}
	return &Message{iv: new(big.Int).Set(iv), data: crypto.CopyBigInts(data)}, nil
}

// IV returns a copy of the initialization vector.
func (m *Message) IV() *big.Int {
	return new(big.Int).Set(m.iv)
}

// Data returns a copy of the ciphertext elements.
func (m *Message) Data() []*big.Int {
	return crypto.CopyBigInts(m.data)
}

// AsCircuitInputs returns [iv, data[0], ..., data[9]].
func (m *Message) AsCircuitInputs() []*big.Int {
	return append([]*big.Int{m.IV()}, m.Data()...)
}

// AsCircuitInputStrings returns AsCircuitInputs as decimal strings.
func (m *Message) AsCircuitInputStrings() []string {
	in := m.AsCircuitInputs()
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = v.String()
	}
	return out
}

// Hash returns the 11-ary Poseidon hash of the circuit inputs, which is the
// commitment to the message on-chain and in the circuit.
func (m *Message) Hash() (*big.Int, error) {
	return poseidon.Hash11(m.AsCircuitInputs())
}

// AsContractParam returns the view used as a contract call argument.
func (m *Message) AsContractParam() MessageContractParam {
	data := make([]string, len(m.data))
	for i, d := range m.data {
		data[i] = d.String()
	}
	return MessageContractParam{IV: m.iv.String(), Data: data}
}

// Copy returns an independent copy of the message.
func (m *Message) Copy() *Message {
	return &Message{iv: m.IV(), data: m.Data()}
}

// Equals compares iv and every data element.
func (m *Message) Equals(other *Message) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.iv.Cmp(other.iv) != 0 || len(m.data) != len(other.data) {
		return false
	}
	for i := range m.data {
		if m.data[i].Cmp(other.data[i]) != 0 {
			return false
		}
	}
	return true
}
