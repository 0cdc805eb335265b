// Package util holds small helpers with no domain knowledge.
package util

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// RandomBigInt generates a random big integer between min and max.
func RandomBigInt(min, max *big.Int) *big.Int {
	num, err := rand.Int(rand.Reader, new(big.Int).Sub(max, min))
	if err != nil {
		panic(err)
	}
	return new(big.Int).Add(num, min)
}

// HexToBigInt parses an unprefixed hexadecimal string. Signs and the 0x
// prefix are rejected.
func HexToBigInt(s string) (*big.Int, error) {
	if s == "" || strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return nil, fmt.Errorf("invalid hex string %q", s)
	}
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex string %q", s)
	}
	return v, nil
}
