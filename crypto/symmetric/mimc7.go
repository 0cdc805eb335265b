// Package symmetric implements the field-native symmetric cipher used to
// encrypt MACI commands: MiMC7 in counter mode keyed by an ECDH shared key.
// Plaintexts and ciphertexts are vectors of field elements of equal length.
package symmetric

import (
	"fmt"
	"math/big"

	"github.com/iden3/go-iden3-crypto/mimc7"
	"github.com/vocdoni/maci-domainobjs/crypto"
)

// Ciphertext holds the initialization vector and the encrypted elements.
type Ciphertext struct {
	IV   *big.Int
	Data []*big.Int
}

// Encrypt encrypts the plaintext under sharedKey. The IV is the MiMC7 hash
// of the plaintext and each element is masked with MiMC7(sharedKey, iv+i).
func Encrypt(plaintext []*big.Int, sharedKey *big.Int) (*Ciphertext, error) {
	if len(plaintext) == 0 {
		return nil, fmt.Errorf("empty plaintext")
	}
	if err := crypto.CheckInField(plaintext...); err != nil {
		return nil, fmt.Errorf("invalid plaintext: %w", err)
	}
	if !crypto.IsInField(sharedKey) {
		return nil, fmt.Errorf("shared key is not a field element")
	}
	iv, err := mimc7.Hash(plaintext, big.NewInt(0))
	if err != nil {
		return nil, fmt.Errorf("cannot compute iv: %w", err)
	}
	data := make([]*big.Int, len(plaintext))
	for i, p := range plaintext {
		e := new(big.Int).Add(p, keystream(sharedKey, iv, i))
		data[i] = e.Mod(e, crypto.SnarkField)
	}
	return &Ciphertext{IV: iv, Data: data}, nil
}

// Decrypt inverts Encrypt. Decrypting under a different key does not fail,
// it yields unrelated field elements.
func Decrypt(ct *Ciphertext, sharedKey *big.Int) ([]*big.Int, error) {
	if ct == nil || len(ct.Data) == 0 {
		return nil, fmt.Errorf("empty ciphertext")
	}
	if err := crypto.CheckInField(append([]*big.Int{ct.IV}, ct.Data...)...); err != nil {
		return nil, fmt.Errorf("invalid ciphertext: %w", err)
	}
	if !crypto.IsInField(sharedKey) {
		return nil, fmt.Errorf("shared key is not a field element")
	}
	plaintext := make([]*big.Int, len(ct.Data))
	for i, c := range ct.Data {
		p := new(big.Int).Sub(c, keystream(sharedKey, ct.IV, i))
		plaintext[i] = p.Mod(p, crypto.SnarkField)
	}
	return plaintext, nil
}

func keystream(sharedKey, iv *big.Int, i int) *big.Int {
	ctr := new(big.Int).Add(iv, big.NewInt(int64(i)))
	return mimc7.MIMC7Hash(new(big.Int).Set(sharedKey), ctr.Mod(ctr, crypto.SnarkField))
}
