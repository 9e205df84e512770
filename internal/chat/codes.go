package chat

import (
	"crypto/rand"
	"math/big"
)

const codeLength = 6

// GenerateCode returns a 6-digit numeric room code. The first digit is
// never zero, so every code reads as exactly six digits.
func GenerateCode() (string, error) {
	code := make([]byte, codeLength)
	for i := range code {
		digits, offset := int64(10), int64(0)
		if i == 0 {
			digits, offset = 9, 1
		}
		n, err := rand.Int(rand.Reader, big.NewInt(digits))
		if err != nil {
			return "", err
		}
		code[i] = byte('0' + offset + n.Int64())
	}
	return string(code), nil
}
