package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
)

// GenerateToken returns a random URL-safe token of the requested byte length.
func GenerateToken(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("crypto: token length must be positive")
	}

	buffer := make([]byte, length)
	if _, err := rand.Read(buffer); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buffer), nil
}

// GenerateLoginCode returns a random numeric login code with the requested
// number of digits. A 6 digit code lands in the 100000-999999 range, so the
// leading digit is never zero.
func GenerateLoginCode(digits int) (string, error) {
	if digits <= 0 {
		return "", errors.New("crypto: code digits must be positive")
	}

	low := big.NewInt(1)
	for i := 1; i < digits; i++ {
		low.Mul(low, big.NewInt(10))
	}

	// span = 9 * 10^(digits-1), the count of codes whose leading digit is non-zero
	span := new(big.Int).Mul(low, big.NewInt(9))

	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", fmt.Errorf("crypto: generate code: %w", err)
	}

	return n.Add(n, low).String(), nil
}
