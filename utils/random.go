// utils/random.go
package utils

import (
	"crypto/rand"
	"math/big"
)

const randomCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateRandomString returns a random alphanumeric string of length n
func GenerateRandomString(n int) string {
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(randomCharset))))
		if err != nil {
			panic("failed to generate random string")
		}
		b[i] = randomCharset[idx.Int64()]
	}
	return string(b)
}
