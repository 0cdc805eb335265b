package types

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// HexBytes is a []byte which encodes as "0x" prefixed hexadecimal in json,
// as opposed to the base64 default.
type HexBytes []byte

// Hex returns the hexadecimal string representation without prefix.
func (b HexBytes) Hex() string {
	return hex.EncodeToString(b)
}

// String returns the hexadecimal string representation of the HexBytes,
// prefixed with "0x".
func (b HexBytes) String() string {
	return "0x" + b.Hex()
}

// MarshalJSON implements the json.Marshaler interface.
func (b HexBytes) MarshalJSON() ([]byte, error) {
	return []byte(`"` + b.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface. The "0x" prefix
// is optional.
func (b *HexBytes) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid JSON string: %q", data)
	}
	decoded, err := HexStringToHexBytes(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*b = decoded
	return nil
}

// HexStringToHexBytes converts a hex string, optionally "0x" prefixed, to a
// HexBytes.
func HexStringToHexBytes(hexString string) (HexBytes, error) {
	trimmed, ok := strings.CutPrefix(hexString, "0x")
	if !ok {
		trimmed = strings.TrimPrefix(hexString, "0X")
	}
	b, err := hex.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string %q: %w", hexString, err)
	}
	return b, nil
}
