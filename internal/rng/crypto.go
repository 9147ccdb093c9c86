package rng

import (
	"crypto/rand"
	"math/big"
)

// Crypto wraps the crypto/rand library
// This is the generator used for live tables
type Crypto struct{}

// Intn returns a random number from 0 <= x < n
func (c Crypto) Intn(n int) int {
	if n <= 0 {
		panic("rng: n must be > 0")
	}

	b, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(b.Int64())
}
