package util

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"strings"
)

// HashToken returns the hex SHA-256 of a bearer token for storage.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// RandomDigits returns n uniformly random decimal digits from crypto/rand.
// The first digit is never zero.
func RandomDigits(n int) (string, error) {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		max, offset := int64(10), int64(0)
		if i == 0 {
			max, offset = 9, 1
		}
		d, err := rand.Int(rand.Reader, big.NewInt(max))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + d.Int64() + offset))
	}
	return b.String(), nil
}
