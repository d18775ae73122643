// Package crypto contains the repeating-key XOR mask applied to secrets
package crypto

import (
	"fmt"
)

// MaxKeyLength is the longest password accepted by ValidateKey.
const MaxKeyLength = 256

// XORCipher masks data with a password cycled over its bytes. It is not a
// real one-time pad and gives no protection against cryptanalysis.
type XORCipher struct {
	key []byte
}

func NewXORCipher(key string) *XORCipher {
	return &XORCipher{
		key: []byte(key),
	}
}

// Transform masks or unmasks data. Applying it twice returns the input.
func (xc *XORCipher) Transform(data []byte) []byte {
	return OTP(data, xc.key)
}

// OTP XORs every byte of data with key[i % len(key)]. An empty key or empty
// data returns data unchanged.
func OTP(data, key []byte) []byte {
	if len(key) == 0 || len(data) == 0 {
		return data
	}

	result := make([]byte, len(data))
	keyLen := len(key)

	for i, b := range data {
		result[i] = b ^ key[i%keyLen]
	}

	return result
}

// ValidateKey validates if the key is suitable as a password
func ValidateKey(key string) error {
	if len(key) == 0 {
		return fmt.Errorf("key cannot be empty")
	}
	if len(key) > MaxKeyLength {
		return fmt.Errorf("key length cannot exceed %d characters", MaxKeyLength)
	}
	return nil
}
